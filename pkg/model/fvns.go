package model

import (
	"strconv"

	"github.com/pkg/errors"

	"github.com/bgosselin/aci-scripts/pkg/apic"
)

// Allocation modes of a VLAN pool.
const (
	AllocDynamic = "dynamic"
	AllocStatic  = "static"
)

// Lowest and highest usable VLAN ids.
const (
	MinVlan = 1
	MaxVlan = 4094
)

// VlanEncap formats a VLAN id the way encap blocks reference it.
func VlanEncap(id int) string {
	return "vlan-" + strconv.Itoa(id)
}

// VlanPoolDn returns the dn of a VLAN pool.
func VlanPoolDn(name, allocMode string) string {
	return "uni/infra/vlanns-[" + name + "]-" + allocMode
}

// VlanInstP creates a VLAN pool under uni/infra.
func VlanInstP(infra *apic.Mo, name, allocMode string) (*apic.Mo, error) {
	if err := ValidateName("vlan pool", name); err != nil {
		return nil, err
	}
	if allocMode != AllocDynamic && allocMode != AllocStatic {
		return nil, errors.Errorf("invalid allocation mode %q", allocMode)
	}
	return apic.NewMo(infra, "fvnsVlanInstP", map[string]string{
		"name":      name,
		"allocMode": allocMode,
	})
}

// EncapBlk adds the range from..to (inclusive) to a VLAN pool.
func EncapBlk(pool *apic.Mo, from, to int) (*apic.Mo, error) {
	if from < MinVlan || to > MaxVlan || from > to {
		return nil, errors.Errorf("invalid vlan range %d-%d", from, to)
	}
	return apic.NewMo(pool, "fvnsEncapBlk", map[string]string{
		"from": VlanEncap(from),
		"to":   VlanEncap(to),
		"name": "encap",
	})
}
