// Command list-portgroups prints the distributed port-groups a vCenter
// reports, the same list migrate-vds would turn into EPGs.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/bgosselin/aci-scripts/pkg/cmdutil"
	"github.com/bgosselin/aci-scripts/pkg/config"
	"github.com/bgosselin/aci-scripts/pkg/prompt"
	"github.com/bgosselin/aci-scripts/pkg/vcenter"
)

type portGroup struct {
	Name       string `json:"name" yaml:"name"`
	Key        string `json:"key" yaml:"key"`
	Datacenter string `json:"datacenter" yaml:"datacenter"`
	Switch     string `json:"switch" yaml:"switch"`
}

func newRootCmd(p *prompt.Prompter) *cobra.Command {
	v := config.NewViper("list-portgroups")
	v.SetDefault(config.Output, "text")
	rootCmd := &cobra.Command{
		Use:   "list-portgroups",
		Short: "List the distributed port-groups of a vCenter",
		Long: `Lists the distributed port-groups migrate-vds would read, with their
datacenter and switch. Nothing is sent to the APIC.

Uplink port-groups are listed unless --skip-uplinks is given.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := cmdutil.Init(v, cmd.Flags())
			if err != nil {
				return err
			}
			return run(cmd.Context(), cmd.OutOrStdout(), p, c)
		},
	}
	fs := rootCmd.Flags()
	cmdutil.AddCommonFlags(fs)
	cmdutil.AddVSphereFlags(fs)
	fs.String("datacenter", "", "Only list port-groups of this datacenter")
	fs.String("output", "text", "Output format (text, json, yaml)")
	fs.Bool("skip-uplinks", false, "Leave out the uplink port-groups of each switch")
	if err := cmdutil.Bind(v, fs, nil); err != nil {
		panic(err)
	}
	return rootCmd
}

func run(ctx context.Context, out io.Writer, p *prompt.Prompter, c *config.Config) error {
	if err := cmdutil.PromptServer(p, "vSphere", &c.VSphere); err != nil {
		return err
	}
	vc, err := vcenter.New(ctx, c.SDKURL(), c.VSphere.Insecure)
	if err != nil {
		return cmdutil.VSphereError(err)
	}
	defer vc.Close(ctx)
	vc.SkipUplinks = c.SkipUplinks

	pgs, err := vc.PortGroups(ctx, c.Datacenter)
	if err != nil {
		return cmdutil.VSphereError(err)
	}
	return write(out, c.Output, pgs)
}

func write(out io.Writer, format string, pgs []vcenter.PortGroup) error {
	list := make([]portGroup, 0, len(pgs))
	for _, pg := range pgs {
		list = append(list, portGroup(pg))
	}
	switch format {
	case "text":
		w := tabwriter.NewWriter(out, 0, 8, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tDATACENTER\tSWITCH\tKEY")
		for _, pg := range list {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", pg.Name, pg.Datacenter, pg.Switch, pg.Key)
		}
		return w.Flush()
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(list)
	case "yaml":
		enc := yaml.NewEncoder(out)
		if err := enc.Encode(list); err != nil {
			return err
		}
		return enc.Close()
	}
	return errors.Errorf("invalid output format %q: want text, json or yaml", format)
}

func main() {
	cmdutil.Fatal(newRootCmd(prompt.New()).ExecuteContext(context.Background()))
}
