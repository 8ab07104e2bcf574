// Package tenant creates a tenant together with one VRF.
package tenant

import (
	"context"

	"github.com/pkg/errors"

	"github.com/bgosselin/aci-scripts/pkg/apic"
	"github.com/bgosselin/aci-scripts/pkg/model"

	log "github.com/sirupsen/logrus"
)

// DefaultVRF is the VRF name used when none is given.
const DefaultVRF = "myVRF"

// Directory is the part of an APIC session the tools need.
type Directory interface {
	LookupByDn(ctx context.Context, dn string) (*apic.Mo, error)
	Commit(ctx context.Context, req *apic.ConfigRequest) error
}

// Plan builds the config request creating tenant with a VRF named vrf.
func Plan(tenant, vrf string) (*apic.ConfigRequest, error) {
	uni, err := apic.NewRootMo("polUni", "uni")
	if err != nil {
		return nil, err
	}
	if vrf == "" {
		vrf = DefaultVRF
	}
	tn, err := model.Tenant(uni, tenant)
	if err != nil {
		return nil, err
	}
	if _, err := model.Ctx(tn, vrf); err != nil {
		return nil, err
	}
	req := apic.NewConfigRequest()
	if err := req.AddMo(uni); err != nil {
		return nil, err
	}
	return req, nil
}

// Create adds the tenant and its VRF to the fabric in one commit. The
// lookup of uni only checks it exists; the posted root carries no
// properties.
func Create(ctx context.Context, dir Directory, tenant, vrf string) error {
	if vrf == "" {
		vrf = DefaultVRF
	}
	uni, err := dir.LookupByDn(ctx, "uni")
	if err != nil {
		return err
	}
	if uni == nil {
		return errors.New("uni not found")
	}
	req, err := Plan(tenant, vrf)
	if err != nil {
		return err
	}
	if err := dir.Commit(ctx, req); err != nil {
		return errors.Wrapf(err, "create tenant %s", tenant)
	}
	log.WithFields(log.Fields{
		"tenant": tenant,
		"vrf":    vrf,
	}).Debug("Tenant request applied")
	return nil
}
