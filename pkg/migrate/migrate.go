// Package migrate recreates vCenter distributed port-groups as EPGs. It
// connects the fabric to vCenter through a VMM domain backed by a
// dynamic VLAN pool, then creates one EPG per port-group in a tenant
// application profile.
package migrate

import (
	"context"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/bgosselin/aci-scripts/pkg/apic"
	"github.com/bgosselin/aci-scripts/pkg/vcenter"

	log "github.com/sirupsen/logrus"
)

// Source lists port-groups, optionally limited to one datacenter.
type Source interface {
	PortGroups(ctx context.Context, datacenter string) ([]vcenter.PortGroup, error)
}

// Directory looks up and commits APIC objects.
type Directory interface {
	LookupByDn(ctx context.Context, dn string) (*apic.Mo, error)
	Commit(ctx context.Context, req *apic.ConfigRequest) error
}

// ConfirmFunc is asked before anything is created. Returning false ends
// the run without changes.
type ConfirmFunc func(names []string) (bool, error)

// Result reports what a run did.
type Result struct {
	RunID      string
	PortGroups []string
	EPGs       []string
	Commits    int
	Declined   bool
}

// Migrator runs one migration.
type Migrator struct {
	Options    Options
	Datacenter string
	Confirm    ConfirmFunc

	runID string
	log   *log.Entry
}

// New returns a migrator with a fresh run id.
func New(opts Options) *Migrator {
	id := uuid.New().String()
	return &Migrator{
		Options: opts,
		runID:   id,
		log:     log.WithField("run", id),
	}
}

// RunID identifies this run in logs.
func (m *Migrator) RunID() string { return m.runID }

// Discover reads the port-group names to migrate.
func (m *Migrator) Discover(ctx context.Context, src Source) ([]string, error) {
	pgs, err := src.PortGroups(ctx, m.Datacenter)
	if err != nil {
		return nil, err
	}
	names := vcenter.Names(pgs)
	for _, pg := range pgs {
		m.log.WithFields(log.Fields{
			"datacenter": pg.Datacenter,
			"switch":     pg.Switch,
		}).Debug("Existing port-group: ", pg.Name)
	}
	m.log.WithField("count", len(names)).Info("Read port-groups from vCenter")
	return names, nil
}

// Run discovers port-groups, asks for confirmation and builds them in
// the fabric. No port-groups or a declined confirmation is not an error.
func (m *Migrator) Run(ctx context.Context, src Source, dir Directory) (*Result, error) {
	res := &Result{RunID: m.runID}
	names, err := m.Discover(ctx, src)
	if err != nil {
		return res, err
	}
	res.PortGroups = names
	if len(names) == 0 {
		m.log.Info("No port-groups to migrate")
		return res, nil
	}
	if m.Confirm != nil {
		ok, err := m.Confirm(names)
		if err != nil {
			return res, err
		}
		if !ok {
			m.log.Info("Migration declined")
			res.Declined = true
			return res, nil
		}
	}

	reqs, err := m.Options.Plan(names)
	if err != nil {
		return res, err
	}
	m.log.Info("Syncing ACI with vCenter...")
	n, err := Apply(ctx, dir, reqs)
	res.Commits = n
	if err != nil {
		return res, err
	}
	res.EPGs = names
	m.log.WithFields(log.Fields{
		"tenant":     m.Options.Tenant,
		"appProfile": m.Options.AppProfile,
		"epgs":       len(names),
		"contract":   m.Options.Contract,
	}).Info("Migration complete")
	return res, nil
}

// Apply commits reqs in order. The context object of each request must
// already exist. It returns the number of successful commits.
func Apply(ctx context.Context, dir Directory, reqs []*apic.ConfigRequest) (int, error) {
	for i, req := range reqs {
		dn := req.Dn().String()
		top, err := dir.LookupByDn(ctx, dn)
		if err != nil {
			return i, err
		}
		if top == nil {
			return i, errors.Errorf("%s not found", dn)
		}
		if err := dir.Commit(ctx, req); err != nil {
			return i, err
		}
	}
	return len(reqs), nil
}
