package cmdutil

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/pkg/errors"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmware/govmomi/vim25/soap"
	"github.com/vmware/govmomi/vim25/types"

	"github.com/bgosselin/aci-scripts/pkg/apic/apictest"
	"github.com/bgosselin/aci-scripts/pkg/config"
	"github.com/bgosselin/aci-scripts/pkg/prompt"
	"github.com/bgosselin/aci-scripts/pkg/tenant"
)

func flags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	AddCommonFlags(fs)
	AddAPICFlags(fs)
	AddVSphereFlags(fs)
	AddDryRunFlags(fs)
	fs.String("tenant", "", "")
	return fs
}

func TestBindAndInit(t *testing.T) {
	fs := flags()
	v := config.NewViper("cmdutiltest-bind")
	require.NoError(t, Bind(v, fs, map[string]string{"tenant": config.MigrationTenant}))
	require.NoError(t, fs.Parse([]string{
		"-s", "apic1", "-o", "8443", "-u", "admin",
		"--insecure=false", "--dry-run", "--output", "xml",
		"--tenant", "Brownfield", "--vsphere-host", "vc",
	}))

	c, err := Init(v, fs)
	require.NoError(t, err)
	assert.Equal(t, "apic1", c.APIC.Host)
	assert.Equal(t, 8443, c.APIC.Port)
	assert.Equal(t, "admin", c.APIC.User)
	assert.False(t, c.APIC.Insecure)
	assert.False(t, c.VSphere.Insecure)
	assert.True(t, c.DryRun)
	assert.Equal(t, "xml", c.Output)
	assert.Equal(t, "Brownfield", c.Migration.Tenant)
	assert.Equal(t, "", c.Tenant)
	assert.Equal(t, "vc", c.VSphere.Host)
	assert.Equal(t, config.DefaultPort, c.VSphere.Port)
}

// -c belongs to the tools, the config file is long only
func TestCommonFlagsShorthand(t *testing.T) {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	AddCommonFlags(fs)
	require.NotNil(t, fs.Lookup(ConfigFlag))
	assert.Empty(t, fs.Lookup(ConfigFlag).Shorthand)
	assert.Nil(t, fs.ShorthandLookup("c"))
}

func TestPromptServer(t *testing.T) {
	var out bytes.Buffer
	p := &prompt.Prompter{In: strings.NewReader("apic1\nadmin\nsecret\n"), Out: &out}
	s := config.Server{Port: 443}
	require.NoError(t, PromptServer(p, "APIC", &s))
	assert.Equal(t, config.Server{Host: "apic1", Port: 443, User: "admin", Password: "secret"}, s)
	assert.Contains(t, out.String(), "APIC password:")

	p = &prompt.Prompter{In: strings.NewReader("\n"), Out: &out}
	s = config.Server{User: "admin", Password: "x"}
	assert.Error(t, PromptServer(p, "APIC", &s), "empty host")
}

func TestDirectoryDryRun(t *testing.T) {
	var out bytes.Buffer
	c := &config.Config{DryRun: true, Output: "yaml"}
	dir, err := Directory(c, nil, &out)
	require.NoError(t, err)
	defer dir.Close(context.Background())

	require.NoError(t, tenant.Create(context.Background(), dir, "ExampleCorp", ""))
	assert.Contains(t, out.String(), "name: ExampleCorp")

	c.Output = "csv"
	_, err = Directory(c, nil, &out)
	assert.Error(t, err)
}

func TestSession(t *testing.T) {
	s := apictest.NewServer("admin", "secret")
	defer s.Close()
	ctx := context.Background()
	hook := logtest.NewGlobal()
	defer hook.Reset()

	sess := &Session{Endpoint: s.Endpoint("admin", "secret")}
	assert.False(t, sess.LoggedIn())
	sess.Close(ctx)
	assert.Equal(t, 0, s.Logins(), "close without use must not log in")

	require.NoError(t, tenant.Create(ctx, sess, "ExampleCorp", "prod"))
	assert.True(t, sess.LoggedIn())
	assert.Equal(t, 1, s.Logins())
	_, ok := s.Lookup("uni/tn-ExampleCorp/ctx-prod")
	assert.True(t, ok)
	committed := 0
	for _, e := range hook.AllEntries() {
		if e.Message == "Committed" {
			committed++
			assert.Equal(t, "uni", e.Data["dn"])
		}
	}
	assert.Equal(t, 1, committed)

	sess.Close(ctx)
	assert.False(t, sess.LoggedIn())
}

func TestSessionBadCredentials(t *testing.T) {
	s := apictest.NewServer("admin", "secret")
	defer s.Close()

	sess := &Session{Endpoint: s.Endpoint("admin", "nope")}
	err := tenant.Create(context.Background(), sess, "ExampleCorp", "")
	require.Error(t, err)
	assert.False(t, sess.LoggedIn())
	assert.Equal(t, 0, s.Commits())
}

func TestVSphereError(t *testing.T) {
	plain := errors.New("dial tcp: connection refused")
	assert.Equal(t, plain, VSphereError(plain))
	assert.Nil(t, VSphereError(nil))

	fault := soap.WrapVimFault(&types.NotAuthenticated{})
	err := VSphereError(errors.Wrap(fault, "list port-groups"))
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "Caught vmodl fault : "))
}
