package apic_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bgosselin/aci-scripts/pkg/apic"
)

func TestParseDn(t *testing.T) {
	tests := []struct {
		dn     string
		rns    []string
		parent string
	}{
		{"uni", []string{"uni"}, ""},
		{"uni/tn-Legacy", []string{"uni", "tn-Legacy"}, "uni"},
		{"uni/infra/vlanns-[ACILab_VLAN_Pool]-dynamic", []string{"uni", "infra", "vlanns-[ACILab_VLAN_Pool]-dynamic"}, "uni/infra"},
		{
			"uni/tn-Legacy/ap-PortGroupMigration/epg-web/rsdomAtt-[uni/vmmp-VMware/dom-My-vCenter]",
			[]string{"uni", "tn-Legacy", "ap-PortGroupMigration", "epg-web", "rsdomAtt-[uni/vmmp-VMware/dom-My-vCenter]"},
			"uni/tn-Legacy/ap-PortGroupMigration/epg-web",
		},
		{"uni/infra/vlanns-[p]-dynamic/from-[vlan-1000]-to-[vlan-1012]", []string{"uni", "infra", "vlanns-[p]-dynamic", "from-[vlan-1000]-to-[vlan-1012]"}, "uni/infra/vlanns-[p]-dynamic"},
	}
	for _, tt := range tests {
		t.Run(tt.dn, func(t *testing.T) {
			d, err := apic.ParseDn(tt.dn)
			require.NoError(t, err)
			assert.Equal(t, tt.rns, d.Rns())
			assert.Equal(t, tt.dn, d.String())
			assert.Equal(t, tt.parent, d.Parent().String())
			assert.Equal(t, tt.rns[len(tt.rns)-1], d.Rn())
		})
	}
}

func TestParseDnErrors(t *testing.T) {
	for _, dn := range []string{"", "uni/", "/uni", "uni//tn-a", "uni/vlanns-[a", "uni/a]"} {
		_, err := apic.ParseDn(dn)
		assert.Error(t, err, dn)
	}
}

func TestDnJoin(t *testing.T) {
	d := apic.MustParseDn("uni")
	tn := d.Join("tn-a")
	assert.Equal(t, "uni/tn-a", tn.String())
	assert.Equal(t, "uni", d.String(), "Join must not modify the receiver")
	assert.True(t, tn.Parent().Parent().IsZero())
}
