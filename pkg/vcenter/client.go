// Package vcenter reads distributed port-groups from vCenter.
package vcenter

import (
	"context"
	"net"
	"net/url"
	"strconv"

	"github.com/pkg/errors"
	"github.com/vmware/govmomi"
	"github.com/vmware/govmomi/view"
	"github.com/vmware/govmomi/vim25/mo"
	"github.com/vmware/govmomi/vim25/soap"
	"github.com/vmware/govmomi/vim25/types"

	log "github.com/sirupsen/logrus"
)

// PortGroup is a distributed virtual port-group, read from vCenter.
type PortGroup struct {
	Name       string
	Key        string
	Datacenter string
	Switch     string
}

// uplinkTag marks the uplink port-group vCenter creates with each switch.
const uplinkTag = "SYSTEM/DVS.UPLINKPG"

// Client is a logged in vCenter session.
type Client struct {
	// SkipUplinks leaves the uplink port-groups of each switch out of
	// PortGroups.
	SkipUplinks bool

	c *govmomi.Client
}

// SDKURL builds the SDK url of a vCenter. Port 0 keeps the https default.
func SDKURL(host string, port int, user, password string) string {
	if port != 0 {
		host = net.JoinHostPort(host, strconv.Itoa(port))
	}
	u := url.URL{
		Scheme: "https",
		User:   url.UserPassword(user, password),
		Host:   host,
		Path:   "/sdk",
	}
	return u.String()
}

// New logs in to the vCenter at sdkURL.
func New(ctx context.Context, sdkURL string, insecureFlag bool) (*Client, error) {
	u, err := soap.ParseURL(sdkURL)
	if err != nil {
		return nil, err
	}
	log.Debug("Parsed sdkURL")
	c, err := govmomi.NewClient(ctx, u, insecureFlag)
	if err != nil {
		return nil, errors.Wrap(err, "new client error")
	}
	log.Debug("Created new client")
	return &Client{c: c}, nil
}

// Close logs out. Failures are only logged.
func (c *Client) Close(ctx context.Context) {
	if err := c.c.Logout(ctx); err != nil {
		log.Warn(err)
	}
}

func containerViewDestroy(ctx context.Context, v *view.ContainerView) {
	if err := v.Destroy(ctx); err != nil {
		log.Warn(err)
	}
}

// PortGroups returns the distributed port-groups of every datacenter, or
// only of the named one, in inventory order.
func (c *Client) PortGroups(ctx context.Context, datacenter string) ([]PortGroup, error) {
	m := view.NewManager(c.c.Client)
	d, err := m.CreateContainerView(ctx, c.c.ServiceContent.RootFolder, []string{"Datacenter"}, true)
	if err != nil {
		return nil, err
	}
	defer containerViewDestroy(ctx, d)
	log.Debug("Created Datacenter View")

	var dcs []mo.Datacenter
	if err := d.Retrieve(ctx, []string{"Datacenter"}, []string{"name"}, &dcs); err != nil {
		return nil, err
	}
	var portGroups []PortGroup
	found := false
	for _, dc := range dcs {
		log.Debug("Checking datacenter: ", dc.Name)
		if datacenter != "" && dc.Name != datacenter {
			continue
		}
		found = true
		pgs, err := datacenterPortGroups(ctx, m, dc, c.SkipUplinks)
		if err != nil {
			return nil, errors.Wrapf(err, "datacenter %s", dc.Name)
		}
		portGroups = append(portGroups, pgs...)
	}
	if datacenter != "" && !found {
		return nil, errors.Errorf("datacenter %q not found", datacenter)
	}
	return portGroups, nil
}

// Switches are retrieved as the base DistributedVirtualSwitch type so
// both VMware and third party switches are named.
func datacenterPortGroups(ctx context.Context, m *view.Manager, dc mo.Datacenter, skipUplinks bool) ([]PortGroup, error) {
	v, err := m.CreateContainerView(ctx, dc.Reference(),
		[]string{"DistributedVirtualSwitch", "DistributedVirtualPortgroup"}, true)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create containerview for port-groups")
	}
	defer containerViewDestroy(ctx, v)

	var switches []mo.DistributedVirtualSwitch
	if err := v.Retrieve(ctx, []string{"DistributedVirtualSwitch"}, []string{"name", "config"}, &switches); err != nil {
		return nil, err
	}
	var pgs []mo.DistributedVirtualPortgroup
	if err := v.Retrieve(ctx, []string{"DistributedVirtualPortgroup"}, []string{"name", "key", "config", "tag"}, &pgs); err != nil {
		return nil, err
	}
	return portGroups(dc.Name, switches, pgs, skipUplinks), nil
}

func isUplink(pg mo.DistributedVirtualPortgroup, uplinks map[types.ManagedObjectReference]bool) bool {
	if uplinks[pg.Self] {
		return true
	}
	for _, t := range pg.Tag {
		if t.Key == uplinkTag {
			return true
		}
	}
	return false
}

func portGroups(datacenter string, switches []mo.DistributedVirtualSwitch, pgs []mo.DistributedVirtualPortgroup, skipUplinks bool) []PortGroup {
	switchNames := map[types.ManagedObjectReference]string{}
	uplinks := map[types.ManagedObjectReference]bool{}
	for _, sw := range switches {
		switchNames[sw.Self] = sw.Name
		if sw.Config == nil {
			continue
		}
		for _, ref := range sw.Config.GetDVSConfigInfo().UplinkPortgroup {
			uplinks[ref] = true
		}
	}

	var res []PortGroup
	for _, pg := range pgs {
		if skipUplinks && isUplink(pg, uplinks) {
			log.Debug("Skipping uplink port-group ", pg.Name)
			continue
		}
		p := PortGroup{
			Name:       pg.Name,
			Key:        pg.Key,
			Datacenter: datacenter,
		}
		if ref := pg.Config.DistributedVirtualSwitch; ref != nil {
			p.Switch = switchNames[*ref]
		}
		res = append(res, p)
	}
	return res
}

// Names returns the port-group names in order, each name once.
func Names(pgs []PortGroup) []string {
	seen := map[string]bool{}
	var names []string
	for _, pg := range pgs {
		if seen[pg.Name] {
			log.WithFields(log.Fields{
				"portgroup":  pg.Name,
				"datacenter": pg.Datacenter,
			}).Warn("Duplicate port-group name, keeping the first")
			continue
		}
		seen[pg.Name] = true
		names = append(names, pg.Name)
	}
	return names
}

// IsFault reports whether err is a fault raised by vCenter itself, as
// opposed to a transport or client error.
func IsFault(err error) bool {
	err = errors.Cause(err)
	return soap.IsSoapFault(err) || soap.IsVimFault(err)
}
