// Package config holds the settings shared by the command line tools.
// Values come from flags, environment and an optional config file, all
// merged by viper.
package config

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/viper"

	"github.com/bgosselin/aci-scripts/pkg/apic"
	"github.com/bgosselin/aci-scripts/pkg/migrate"
	"github.com/bgosselin/aci-scripts/pkg/tenant"
	"github.com/bgosselin/aci-scripts/pkg/vcenter"
)

// Viper keys.
const (
	APICHost     = "apic.host"
	APICPort     = "apic.port"
	APICUser     = "apic.user"
	APICPassword = "apic.password"
	APICInsecure = "apic.insecure"

	VSphereHost     = "vsphere.host"
	VSpherePort     = "vsphere.port"
	VSphereUser     = "vsphere.user"
	VSpherePassword = "vsphere.password"
	VSphereInsecure = "vsphere.insecure"

	LogLevel = "log.level"
	LogFile  = "log.file"

	DryRun      = "dry_run"
	Output      = "output"
	Tenant      = "tenant"
	VRF         = "vrf"
	Datacenter  = "datacenter"
	SkipUplinks = "skip_uplinks"
	Contract    = "contract"
	Yes         = "yes"

	MigrationTenant        = "migration.tenant"
	MigrationAppProfile    = "migration.app_profile"
	MigrationVlanPool      = "migration.vlan_pool"
	MigrationFirstVlan     = "migration.first_vlan"
	MigrationVlanHeadroom  = "migration.vlan_headroom"
	MigrationDomain        = "migration.domain"
	MigrationController    = "migration.controller"
	MigrationRootContainer = "migration.root_container"
	MigrationDVSVersion    = "migration.dvs_version"
	MigrationAccount       = "migration.account"
)

// DefaultPort is the HTTPS port of both management APIs.
const DefaultPort = 443

// Server is one management endpoint.
type Server struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Insecure bool   `mapstructure:"insecure"`
}

// Log selects level and optional file of the logger.
type Log struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

// Migration names the objects a port-group migration creates.
type Migration struct {
	Tenant        string `mapstructure:"tenant"`
	AppProfile    string `mapstructure:"app_profile"`
	VlanPool      string `mapstructure:"vlan_pool"`
	FirstVlan     int    `mapstructure:"first_vlan"`
	VlanHeadroom  int    `mapstructure:"vlan_headroom"`
	Domain        string `mapstructure:"domain"`
	Controller    string `mapstructure:"controller"`
	RootContainer string `mapstructure:"root_container"`
	DVSVersion    string `mapstructure:"dvs_version"`
	Account       string `mapstructure:"account"`
}

// Config is the merged configuration of one run.
type Config struct {
	APIC        Server    `mapstructure:"apic"`
	VSphere     Server    `mapstructure:"vsphere"`
	Log         Log       `mapstructure:"log"`
	DryRun      bool      `mapstructure:"dry_run"`
	Output      string    `mapstructure:"output"`
	Tenant      string    `mapstructure:"tenant"`
	VRF         string    `mapstructure:"vrf"`
	Datacenter  string    `mapstructure:"datacenter"`
	SkipUplinks bool      `mapstructure:"skip_uplinks"`
	Contract    string    `mapstructure:"contract"`
	Yes         bool      `mapstructure:"yes"`
	Migration   Migration `mapstructure:"migration"`
}

// SetDefaults registers every key with its default, which also makes
// the keys visible to AutomaticEnv.
func SetDefaults(v *viper.Viper) {
	m := migrate.DefaultOptions()
	for key, value := range map[string]interface{}{
		APICHost:     "",
		APICPort:     DefaultPort,
		APICUser:     "",
		APICPassword: "",
		APICInsecure: true,

		VSphereHost:     "",
		VSpherePort:     DefaultPort,
		VSphereUser:     "",
		VSpherePassword: "",
		VSphereInsecure: true,

		LogLevel: "info",
		LogFile:  "",

		DryRun:      false,
		Output:      "json",
		Tenant:      "",
		VRF:         tenant.DefaultVRF,
		Datacenter:  "",
		SkipUplinks: false,
		Contract:    "",
		Yes:         false,

		MigrationTenant:        m.Tenant,
		MigrationAppProfile:    m.AppProfile,
		MigrationVlanPool:      m.VlanPool,
		MigrationFirstVlan:     m.FirstVlan,
		MigrationVlanHeadroom:  m.VlanHeadroom,
		MigrationDomain:        m.Domain,
		MigrationController:    m.Controller,
		MigrationRootContainer: m.RootContainer,
		MigrationDVSVersion:    m.DVSVersion,
		MigrationAccount:       m.Account,
	} {
		v.SetDefault(key, value)
	}
}

// NewViper returns a viper instance reading env variables prefixed with
// prefix, e.g. ACI_TENANT_APIC_HOST.
func NewViper(prefix string) *viper.Viper {
	v := viper.New()
	Setup(v, prefix)
	return v
}

// Setup applies env handling and defaults to v.
func Setup(v *viper.Viper, prefix string) {
	v.SetEnvPrefix(strings.ReplaceAll(prefix, "-", "_"))
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	SetDefaults(v)
}

// ReadFile merges the config file at path, when set.
func ReadFile(v *viper.Viper, path string) error {
	if path == "" {
		return nil
	}
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return errors.Wrapf(err, "read config %s", path)
	}
	return nil
}

// Load decodes the merged settings of v.
func Load(v *viper.Viper) (*Config, error) {
	c := &Config{}
	if err := v.Unmarshal(c); err != nil {
		return nil, errors.Wrap(err, "decode config")
	}
	return c, nil
}

// Validate checks the server has an address and a usable port. The user
// and password may still be prompted for.
func (s Server) Validate(name string) error {
	if s.Host == "" {
		return errors.Errorf("%s host is required", name)
	}
	if s.Port < 0 || s.Port > 65535 {
		return errors.Errorf("%s port %d out of range", name, s.Port)
	}
	return nil
}

// Endpoint returns the APIC endpoint of c.
func (c *Config) Endpoint() apic.Endpoint {
	return apic.Endpoint{
		Host:     c.APIC.Host,
		Port:     c.APIC.Port,
		Username: c.APIC.User,
		Password: c.APIC.Password,
		Insecure: c.APIC.Insecure,
	}
}

// SDKURL returns the vSphere SDK URL of c.
func (c *Config) SDKURL() string {
	return vcenter.SDKURL(c.VSphere.Host, c.VSphere.Port, c.VSphere.User, c.VSphere.Password)
}

// MigrateOptions returns the migration options of c. The contract mode
// is parsed separately since it may still be prompted for.
func (c *Config) MigrateOptions(mode migrate.ContractMode) migrate.Options {
	return migrate.Options{
		Tenant:        c.Migration.Tenant,
		AppProfile:    c.Migration.AppProfile,
		VlanPool:      c.Migration.VlanPool,
		FirstVlan:     c.Migration.FirstVlan,
		VlanHeadroom:  c.Migration.VlanHeadroom,
		Domain:        c.Migration.Domain,
		Controller:    c.Migration.Controller,
		RootContainer: c.Migration.RootContainer,
		DVSVersion:    c.Migration.DVSVersion,
		Account:       c.Migration.Account,
		Contract:      mode,
		VSphere: migrate.VSphere{
			Host:     c.VSphere.Host,
			Port:     c.VSphere.Port,
			Username: c.VSphere.User,
			Password: c.VSphere.Password,
		},
	}
}
