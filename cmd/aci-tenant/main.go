// Command aci-tenant creates a tenant and a VRF under it on an APIC.
package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bgosselin/aci-scripts/pkg/cmdutil"
	"github.com/bgosselin/aci-scripts/pkg/config"
	"github.com/bgosselin/aci-scripts/pkg/prompt"
	"github.com/bgosselin/aci-scripts/pkg/tenant"
)

func newRootCmd(p *prompt.Prompter) *cobra.Command {
	v := config.NewViper("aci-tenant")
	rootCmd := &cobra.Command{
		Use:   "aci-tenant",
		Short: "Create an ACI tenant with one VRF",
		Long: `Creates a tenant on the APIC with one VRF (private network) under it,
in a single config request. The tenant name is prompted for when not
given, and the VRF defaults to ` + tenant.DefaultVRF + `.

With --dry-run the request is printed instead of sent.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := cmdutil.Init(v, cmd.Flags())
			if err != nil {
				return err
			}
			return run(cmd.Context(), cmd, p, c)
		},
	}
	fs := rootCmd.Flags()
	cmdutil.AddCommonFlags(fs)
	cmdutil.AddAPICFlags(fs)
	cmdutil.AddDryRunFlags(fs)
	fs.StringP("tenant", "t", "", "Name of the tenant to create, prompted for when empty")
	fs.String("vrf", tenant.DefaultVRF, "Name of the VRF created in the tenant")
	if err := cmdutil.Bind(v, fs, map[string]string{"tenant": config.Tenant}); err != nil {
		panic(err)
	}
	return rootCmd
}

func run(ctx context.Context, cmd *cobra.Command, p *prompt.Prompter, c *config.Config) error {
	name := c.Tenant
	if name == "" {
		var err error
		if name, err = p.Line("Tenant name:"); err != nil {
			return err
		}
	}
	dir, err := cmdutil.Directory(c, p, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	defer dir.Close(ctx)

	if err := tenant.Create(ctx, dir, name, c.VRF); err != nil {
		return err
	}
	if !c.DryRun {
		fmt.Fprintf(cmd.OutOrStdout(), "Tenant %s created with VRF %s\n", name, c.VRF)
	}
	return nil
}

func main() {
	cmdutil.Fatal(newRootCmd(prompt.New()).ExecuteContext(context.Background()))
}
