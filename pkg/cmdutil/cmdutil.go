// Package cmdutil holds the flag, config and login plumbing shared by
// the command line tools.
package cmdutil

import (
	"context"
	"io"

	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/bgosselin/aci-scripts/pkg/apic"
	"github.com/bgosselin/aci-scripts/pkg/config"
	"github.com/bgosselin/aci-scripts/pkg/logutil"
	"github.com/bgosselin/aci-scripts/pkg/prompt"
	"github.com/bgosselin/aci-scripts/pkg/render"
	"github.com/bgosselin/aci-scripts/pkg/vcenter"

	log "github.com/sirupsen/logrus"
)

// ConfigFlag names the config file flag.
const ConfigFlag = "config"

// AddAPICFlags adds the APIC connection flags.
func AddAPICFlags(fs *pflag.FlagSet) {
	fs.StringP("apic-host", "s", "", "APIC host name or address")
	fs.IntP("apic-port", "o", config.DefaultPort, "APIC HTTPS port")
	fs.StringP("apic-user", "u", "", "APIC user name")
	fs.StringP("apic-password", "p", "", "APIC password, prompted for when empty")
}

// AddVSphereFlags adds the vCenter connection flags.
func AddVSphereFlags(fs *pflag.FlagSet) {
	fs.String("vsphere-host", "", "vCenter host name or address")
	fs.Int("vsphere-port", config.DefaultPort, "vCenter HTTPS port")
	fs.String("vsphere-user", "", "vCenter user name")
	fs.String("vsphere-password", "", "vCenter password, prompted for when empty")
}

// AddCommonFlags adds the flags every tool has.
func AddCommonFlags(fs *pflag.FlagSet) {
	fs.String(ConfigFlag, "", "Configuration file")
	fs.Bool("insecure", true, "Skip TLS certificate verification")
	fs.String("log-level", "info", "Log level (debug, info, warn, error)")
	fs.String("log-file", "", "Also write JSON logs to this rotated file")
}

// AddDryRunFlags adds --dry-run and --output.
func AddDryRunFlags(fs *pflag.FlagSet) {
	fs.Bool("dry-run", false, "Print the config requests instead of sending them")
	fs.String("output", "json", "Dry run output format (json, xml, yaml)")
}

var flagKeys = map[string][]string{
	"apic-host":        {config.APICHost},
	"apic-port":        {config.APICPort},
	"apic-user":        {config.APICUser},
	"apic-password":    {config.APICPassword},
	"vsphere-host":     {config.VSphereHost},
	"vsphere-port":     {config.VSpherePort},
	"vsphere-user":     {config.VSphereUser},
	"vsphere-password": {config.VSpherePassword},
	"insecure":         {config.APICInsecure, config.VSphereInsecure},
	"log-level":        {config.LogLevel},
	"log-file":         {config.LogFile},
	"dry-run":          {config.DryRun},
	"output":           {config.Output},
	"datacenter":       {config.Datacenter},
	"contract":         {config.Contract},
	"skip-uplinks":     {config.SkipUplinks},
	"yes":              {config.Yes},
	"vrf":              {config.VRF},
}

// Bind binds every flag of fs known to the shared key table, plus the
// tool specific pairs in extra (flag name to key).
func Bind(v *viper.Viper, fs *pflag.FlagSet, extra map[string]string) error {
	var err error
	fs.VisitAll(func(f *pflag.Flag) {
		keys := flagKeys[f.Name]
		if key, ok := extra[f.Name]; ok {
			keys = []string{key}
		}
		for _, key := range keys {
			if e := v.BindPFlag(key, f); e != nil && err == nil {
				err = errors.Wrapf(e, "bind flag %s", f.Name)
			}
		}
	})
	return err
}

// Init reads the config file named by the config flag, decodes the
// merged settings and configures logging.
func Init(v *viper.Viper, fs *pflag.FlagSet) (*config.Config, error) {
	path, err := fs.GetString(ConfigFlag)
	if err != nil {
		return nil, err
	}
	if err := config.ReadFile(v, path); err != nil {
		return nil, err
	}
	c, err := config.Load(v)
	if err != nil {
		return nil, err
	}
	if err := logutil.Configure(logutil.Config{Level: c.Log.Level, File: c.Log.File}); err != nil {
		return nil, err
	}
	return c, nil
}

// PromptServer asks for the host, user and password of s that are still
// empty.
func PromptServer(p *prompt.Prompter, name string, s *config.Server) error {
	var err error
	if s.Host == "" {
		if s.Host, err = p.Line(name + " host:"); err != nil {
			return err
		}
	}
	if s.User == "" {
		if s.User, err = p.Line(name + " username:"); err != nil {
			return err
		}
	}
	if s.Password == "" {
		if s.Password, err = p.Password(name + " password:"); err != nil {
			return err
		}
	}
	return s.Validate(name)
}

// Directory returns where config requests go: a renderer on out for dry
// runs, a lazily logged in APIC session otherwise.
func Directory(c *config.Config, p *prompt.Prompter, out io.Writer) (Dir, error) {
	if c.DryRun {
		f, err := render.ParseFormat(c.Output)
		if err != nil {
			return nil, err
		}
		return &dryRun{DryRun: render.DryRun{Out: out, Format: f}}, nil
	}
	if err := PromptServer(p, "APIC", &c.APIC); err != nil {
		return nil, err
	}
	return &Session{Endpoint: c.Endpoint()}, nil
}

type dryRun struct {
	render.DryRun
}

func (*dryRun) Close(context.Context) {}

type vmodlFault struct {
	err error
}

func (f *vmodlFault) Error() string {
	return "Caught vmodl fault : " + f.err.Error()
}

// VSphereError marks vCenter faults the way operators know them. Other
// errors are returned unchanged.
func VSphereError(err error) error {
	if err != nil && vcenter.IsFault(err) {
		return &vmodlFault{err: errors.Cause(err)}
	}
	return err
}

// Fatal ends the process for err. Faults reported by vCenter or the
// APIC are printed alone, anything else with its stack.
func Fatal(err error) {
	switch errors.Cause(err).(type) {
	case nil:
		return
	case *vmodlFault, *apic.Error:
		log.Debugf("%+v", err)
		logutil.Exit(err.Error())
	}
	logutil.FatalWithStackTrace(err)
}
