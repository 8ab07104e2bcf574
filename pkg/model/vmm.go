package model

import (
	"strconv"

	"github.com/bgosselin/aci-scripts/pkg/apic"
)

// VendorVMware is the VMM provider of vCenter domains.
const VendorVMware = "VMware"

// VMMDomainDn returns the dn of a VMware VMM domain.
func VMMDomainDn(name string) string {
	return "uni/vmmp-" + VendorVMware + "/dom-" + name
}

// DomP creates a VMM domain under a provider (uni/vmmp-VMware).
func DomP(provider *apic.Mo, name string) (*apic.Mo, error) {
	if err := ValidateName("vmm domain", name); err != nil {
		return nil, err
	}
	return apic.NewMo(provider, "vmmDomP", map[string]string{
		"name":      name,
		"mode":      "default",
		"enfPref":   "hw",
		"mcastAddr": "0.0.0.0",
	})
}

// DefaultPolicies binds the domain to the default STP, LLDP, CDP, LACP
// and L2 interface policies.
func DefaultPolicies(domain *apic.Mo) error {
	for _, rel := range []struct{ class, prop string }{
		{"vmmRsDefaultStpIfPol", "tnStpIfPolName"},
		{"vmmRsDefaultLldpIfPol", "tnLldpIfPolName"},
		{"vmmRsDefaultCdpIfPol", "tnCdpIfPolName"},
		{"vmmRsDefaultLacpLagPol", "tnLacpLagPolName"},
		{"vmmRsDefaultL2InstPol", "tnL2InstPolName"},
	} {
		if _, err := apic.NewMo(domain, rel.class, map[string]string{rel.prop: "default"}); err != nil {
			return err
		}
	}
	return nil
}

// Controller describes the vCenter a VMM domain manages.
type Controller struct {
	Name          string
	HostOrIP      string
	Port          int
	RootContainer string
	DVSVersion    string
}

// CtrlrP creates the vCenter controller profile of a domain.
func CtrlrP(domain *apic.Mo, c Controller) (*apic.Mo, error) {
	if err := ValidateName("controller", c.Name); err != nil {
		return nil, err
	}
	attrs := map[string]string{
		"name":            c.Name,
		"hostOrIp":        c.HostOrIP,
		"rootContName":    c.RootContainer,
		"dvsVersion":      c.DVSVersion,
		"mode":            "default",
		"statsMode":       "disabled",
		"inventoryTrigSt": "untriggered",
	}
	if c.Port != 0 {
		attrs["port"] = strconv.Itoa(c.Port)
	}
	return apic.NewMo(domain, "vmmCtrlrP", attrs)
}

// RsAcc points a controller profile at a user account.
func RsAcc(ctrlr *apic.Mo, accountDn string) (*apic.Mo, error) {
	return apic.NewMo(ctrlr, "vmmRsAcc", map[string]string{
		"tDn": accountDn,
	})
}

// UsrAccP creates the vCenter credentials of a domain.
func UsrAccP(domain *apic.Mo, name, user, password string) (*apic.Mo, error) {
	if err := ValidateName("user account", name); err != nil {
		return nil, err
	}
	return apic.NewMo(domain, "vmmUsrAccP", map[string]string{
		"name": name,
		"usr":  user,
		"pwd":  password,
	})
}
