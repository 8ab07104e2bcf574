package apic

import (
	"sort"
	"strings"

	"github.com/pkg/errors"
)

// ClassMeta describes how objects of one class are named.
type ClassMeta struct {
	Name     string
	RnFormat string
	// Naming lists the properties referenced by RnFormat, in order.
	Naming []string
}

var classes = map[string]ClassMeta{}

func init() {
	for name, rnFormat := range map[string]string{
		"polUni":     "uni",
		"infraInfra": "infra",
		"vmmProvP":   "vmmp-{vendor}",

		"fvTenant":   "tn-{name}",
		"fvCtx":      "ctx-{name}",
		"fvAp":       "ap-{name}",
		"fvAEPg":     "epg-{name}",
		"fvRsCons":   "rscons-{tnVzBrCPName}",
		"fvRsDomAtt": "rsdomAtt-[{tDn}]",
		"fvRsBd":     "rsbd",

		"fvnsVlanInstP": "vlanns-[{name}]-{allocMode}",
		"fvnsEncapBlk":  "from-[{from}]-to-[{to}]",
		"infraRsVlanNs": "rsvlanNs",

		"vmmDomP":                "dom-{name}",
		"vmmCtrlrP":              "ctrlr-{name}",
		"vmmRsAcc":               "rsacc",
		"vmmUsrAccP":             "usracc-{name}",
		"vmmRsDefaultStpIfPol":   "rsdefaultStpIfPol",
		"vmmRsDefaultLldpIfPol":  "rsdefaultLldpIfPol",
		"vmmRsDefaultCdpIfPol":   "rsdefaultCdpIfPol",
		"vmmRsDefaultLacpLagPol": "rsdefaultLacpLagPol",
		"vmmRsDefaultL2InstPol":  "rsdefaultL2InstPol",
	} {
		classes[name] = newClassMeta(name, rnFormat)
	}
}

func newClassMeta(name, rnFormat string) ClassMeta {
	meta := ClassMeta{Name: name, RnFormat: rnFormat}
	rest := rnFormat
	for {
		open := strings.IndexByte(rest, '{')
		if open < 0 {
			break
		}
		end := strings.IndexByte(rest[open:], '}')
		if end < 0 {
			break
		}
		meta.Naming = append(meta.Naming, rest[open+1:open+end])
		rest = rest[open+end+1:]
	}
	return meta
}

// LookupClass returns the naming metadata of a class.
func LookupClass(name string) (ClassMeta, bool) {
	meta, ok := classes[name]
	return meta, ok
}

// Classes returns the names of all known classes, sorted.
func Classes() []string {
	names := make([]string, 0, len(classes))
	for name := range classes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// MakeRn renders the relative name of an object of this class.
func (c ClassMeta) MakeRn(attrs map[string]string) (string, error) {
	rn := c.RnFormat
	for _, prop := range c.Naming {
		v := attrs[prop]
		if v == "" {
			return "", errors.Errorf("%s: naming property %q is empty", c.Name, prop)
		}
		rn = strings.Replace(rn, "{"+prop+"}", v, 1)
	}
	return rn, nil
}
