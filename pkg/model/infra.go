package model

import "github.com/bgosselin/aci-scripts/pkg/apic"

// RsVlanNs binds a domain to a VLAN pool.
func RsVlanNs(domain *apic.Mo, poolDn string) (*apic.Mo, error) {
	return apic.NewMo(domain, "infraRsVlanNs", map[string]string{
		"tDn": poolDn,
	})
}
