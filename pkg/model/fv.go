package model

import (
	"github.com/bgosselin/aci-scripts/pkg/apic"
)

// Tenant creates an fvTenant under uni.
func Tenant(parent *apic.Mo, name string) (*apic.Mo, error) {
	if err := ValidateName("tenant", name); err != nil {
		return nil, err
	}
	return apic.NewMo(parent, "fvTenant", map[string]string{
		"name": name,
	})
}

// Ctx creates a VRF (fvCtx) under a tenant.
func Ctx(tenant *apic.Mo, name string) (*apic.Mo, error) {
	if err := ValidateName("vrf", name); err != nil {
		return nil, err
	}
	return apic.NewMo(tenant, "fvCtx", map[string]string{
		"name": name,
	})
}

// Ap creates an application profile under a tenant.
func Ap(tenant *apic.Mo, name string) (*apic.Mo, error) {
	if err := ValidateName("application profile", name); err != nil {
		return nil, err
	}
	return apic.NewMo(tenant, "fvAp", map[string]string{
		"name": name,
		"prio": "unspecified",
	})
}

// AEPg creates an application EPG under an application profile.
func AEPg(ap *apic.Mo, name string) (*apic.Mo, error) {
	if err := ValidateName("epg", name); err != nil {
		return nil, err
	}
	return apic.NewMo(ap, "fvAEPg", map[string]string{
		"name":   name,
		"prio":   "unspecified",
		"matchT": "AtleastOne",
	})
}

// RsCons makes the EPG a consumer of the named contract.
func RsCons(epg *apic.Mo, contract string) (*apic.Mo, error) {
	return apic.NewMo(epg, "fvRsCons", map[string]string{
		"tnVzBrCPName": contract,
		"prio":         "unspecified",
	})
}

// RsDomAtt attaches the EPG to a domain. Policies are deployed and
// resolved lazily.
func RsDomAtt(epg *apic.Mo, domainDn string) (*apic.Mo, error) {
	return apic.NewMo(epg, "fvRsDomAtt", map[string]string{
		"tDn":         domainDn,
		"instrImedcy": "lazy",
		"resImedcy":   "lazy",
	})
}

// RsBd binds the EPG to a bridge domain.
func RsBd(epg *apic.Mo, bd string) (*apic.Mo, error) {
	return apic.NewMo(epg, "fvRsBd", map[string]string{
		"tnFvBDName": bd,
	})
}
