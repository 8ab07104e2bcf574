// Command migrate-vds recreates the distributed port-groups of a vCenter
// as EPGs of an ACI tenant, attached to a new VMM domain.
package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bgosselin/aci-scripts/pkg/cmdutil"
	"github.com/bgosselin/aci-scripts/pkg/config"
	"github.com/bgosselin/aci-scripts/pkg/migrate"
	"github.com/bgosselin/aci-scripts/pkg/prompt"
	"github.com/bgosselin/aci-scripts/pkg/vcenter"

	log "github.com/sirupsen/logrus"
)

func newRootCmd(p *prompt.Prompter) *cobra.Command {
	v := config.NewViper("migrate-vds")
	rootCmd := &cobra.Command{
		Use:   "migrate-vds",
		Short: "Migrate vSphere distributed port-groups to ACI EPGs",
		Long: `Reads the distributed port-groups of a vCenter and creates, on the APIC,
a VLAN pool, a VMM domain pointing at that vCenter and one EPG per
port-group in a tenant application profile.

In whitelist mode EPGs get no contract. In blacklist mode every EPG
consumes the tenant's default contract. Uplink port-groups are
migrated too unless --skip-uplinks is given.`,
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
	d := migrate.DefaultOptions()
	fs := rootCmd.Flags()
	cmdutil.AddCommonFlags(fs)
	cmdutil.AddAPICFlags(fs)
	cmdutil.AddVSphereFlags(fs)
	cmdutil.AddDryRunFlags(fs)
	fs.String("datacenter", "", "Only migrate port-groups of this datacenter")
	fs.StringP("contract", "c", "", "Contract mode, whitelist or blacklist; prompted for when empty")
	fs.Bool("skip-uplinks", false, "Leave out the uplink port-groups of each switch")
	fs.BoolP("yes", "y", false, "Do not ask for confirmation")
	fs.String("tenant", d.Tenant, "Tenant receiving the EPGs")
	fs.String("app-profile", d.AppProfile, "Application profile receiving the EPGs")
	fs.String("vlan-pool", d.VlanPool, "Name of the dynamic VLAN pool")
	fs.Int("first-vlan", d.FirstVlan, "First VLAN of the pool")
	fs.Int("vlan-headroom", d.VlanHeadroom, "VLANs reserved beyond one per port-group")
	fs.String("domain", d.Domain, "Name of the VMM domain")
	fs.String("controller", d.Controller, "Name of the vCenter controller profile")
	fs.String("root-container", d.RootContainer, "vCenter datacenter the controller manages")
	fs.String("dvs-version", d.DVSVersion, "Distributed switch version")
	fs.String("account", d.Account, "Name of the vCenter credentials profile")
	err := cmdutil.Bind(v, fs, map[string]string{
		"tenant":         config.MigrationTenant,
		"app-profile":    config.MigrationAppProfile,
		"vlan-pool":      config.MigrationVlanPool,
		"first-vlan":     config.MigrationFirstVlan,
		"vlan-headroom":  config.MigrationVlanHeadroom,
		"domain":         config.MigrationDomain,
		"controller":     config.MigrationController,
		"root-container": config.MigrationRootContainer,
		"dvs-version":    config.MigrationDVSVersion,
		"account":        config.MigrationAccount,
	})
	if err != nil {
		panic(err)
	}
	return rootCmd
}

func contractMode(p *prompt.Prompter, s string) (migrate.ContractMode, error) {
	if s == "" {
		var err error
		s, err = p.Choice("Contract mode", string(migrate.Whitelist), string(migrate.Blacklist))
		if err != nil {
			return "", err
		}
	}
	return migrate.ParseContractMode(s)
}

func run(ctx context.Context, cmd *cobra.Command, p *prompt.Prompter, c *config.Config) error {
	mode, err := contractMode(p, c.Contract)
	if err != nil {
		return err
	}
	if err := cmdutil.PromptServer(p, "vSphere", &c.VSphere); err != nil {
		return err
	}
	dir, err := cmdutil.Directory(c, p, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	defer dir.Close(ctx)

	vc, err := vcenter.New(ctx, c.SDKURL(), c.VSphere.Insecure)
	if err != nil {
		return cmdutil.VSphereError(err)
	}
	defer vc.Close(ctx)
	vc.SkipUplinks = c.SkipUplinks

	m := migrate.New(c.MigrateOptions(mode))
	m.Datacenter = c.Datacenter
	m.Confirm = func(names []string) (bool, error) {
		p.List("Port-groups to migrate", names)
		if c.Yes {
			return true, nil
		}
		return p.Confirm(fmt.Sprintf("Create %d EPGs in tenant %s (%s)?", len(names), c.Migration.Tenant, mode))
	}
	log.WithField("run", m.RunID()).Debug("Starting migration")

	res, err := m.Run(ctx, vc, dir)
	if err != nil {
		return cmdutil.VSphereError(err)
	}
	switch {
	case len(res.PortGroups) == 0:
		fmt.Fprintln(cmd.OutOrStdout(), "No distributed port-groups found.")
	case res.Declined:
		fmt.Fprintln(cmd.OutOrStdout(), "Nothing created.")
	case !c.DryRun:
		fmt.Fprintf(cmd.OutOrStdout(), "Created %d EPGs in %s/%s\n", len(res.EPGs), c.Migration.Tenant, c.Migration.AppProfile)
	}
	return nil
}

func main() {
	cmdutil.Fatal(newRootCmd(prompt.New()).ExecuteContext(context.Background()))
}
