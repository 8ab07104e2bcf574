package apic_test

import (
	"encoding/json"
	"encoding/xml"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bgosselin/aci-scripts/pkg/apic"
)

func tenantTree(t *testing.T) *apic.Mo {
	uni, err := apic.NewRootMo("polUni", "uni")
	require.NoError(t, err)
	tn, err := apic.NewMo(uni, "fvTenant", map[string]string{"name": "Legacy"})
	require.NoError(t, err)
	_, err = apic.NewMo(tn, "fvCtx", map[string]string{"name": "myVRF"})
	require.NoError(t, err)
	return tn
}

func TestNewMo(t *testing.T) {
	tn := tenantTree(t)
	assert.Equal(t, "fvTenant", tn.Class())
	assert.Equal(t, "tn-Legacy", tn.Rn())
	assert.Equal(t, "uni/tn-Legacy", tn.Dn().String())
	require.Len(t, tn.Children(), 1)
	assert.Equal(t, "uni/tn-Legacy/ctx-myVRF", tn.Children()[0].Dn().String())
	assert.Same(t, tn, tn.Children()[0].Parent())
}

func TestNewMoErrors(t *testing.T) {
	uni, err := apic.NewRootMo("polUni", "uni")
	require.NoError(t, err)

	_, err = apic.NewMo(nil, "fvTenant", map[string]string{"name": "a"})
	assert.Error(t, err, "nil parent")
	_, err = apic.NewMo(uni, "fvBogus", map[string]string{"name": "a"})
	assert.Error(t, err, "unknown class")
	_, err = apic.NewMo(uni, "fvTenant", map[string]string{})
	assert.Error(t, err, "missing naming property")

	_, err = apic.NewMo(uni, "fvTenant", map[string]string{"name": "a"})
	require.NoError(t, err)
	_, err = apic.NewMo(uni, "fvTenant", map[string]string{"name": "a"})
	assert.Error(t, err, "duplicate child")
}

func TestBracketedRn(t *testing.T) {
	infra, err := apic.NewRootMo("infraInfra", "uni/infra")
	require.NoError(t, err)
	pool, err := apic.NewMo(infra, "fvnsVlanInstP", map[string]string{"name": "Pool", "allocMode": "dynamic"})
	require.NoError(t, err)
	blk, err := apic.NewMo(pool, "fvnsEncapBlk", map[string]string{"from": "vlan-1000", "to": "vlan-1012"})
	require.NoError(t, err)
	assert.Equal(t, "uni/infra/vlanns-[Pool]-dynamic/from-[vlan-1000]-to-[vlan-1012]", blk.Dn().String())
}

func TestMarshalJSON(t *testing.T) {
	tn := tenantTree(t)
	data, err := json.Marshal(tn)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"fvTenant": {
			"attributes": {"dn": "uni/tn-Legacy", "name": "Legacy"},
			"children": [{"fvCtx": {"attributes": {"name": "myVRF"}}}]
		}
	}`, string(data))
}

func TestMarshalXML(t *testing.T) {
	tn := tenantTree(t)
	data, err := xml.Marshal(tn)
	require.NoError(t, err)
	assert.Equal(t, `<fvTenant dn="uni/tn-Legacy" name="Legacy"><fvCtx name="myVRF"></fvCtx></fvTenant>`, string(data))
}

func TestDecodeMo(t *testing.T) {
	tn := tenantTree(t)
	data, err := json.Marshal(tn.Parent())
	require.NoError(t, err)

	got, err := apic.DecodeMo(data, "ignored")
	require.NoError(t, err)
	assert.Equal(t, "polUni", got.Class())
	assert.Equal(t, "uni", got.Dn().String())

	var dns []string
	require.NoError(t, got.Walk(func(mo *apic.Mo) error {
		dns = append(dns, mo.Dn().String())
		return nil
	}))
	assert.Equal(t, []string{"uni", "uni/tn-Legacy", "uni/tn-Legacy/ctx-myVRF"}, dns)
	assert.Equal(t, "Legacy", got.Child("tn-Legacy").Attr("name"))
}

func TestDecodeMoErrors(t *testing.T) {
	for _, body := range []string{
		`not json`,
		`[]`,
		`{"a": {}, "b": {}}`,
		`{"polUni": {"attributes": {"dn": "uni"}, "children": [{"fvUnknown": {"attributes": {}}}]}}`,
	} {
		_, err := apic.DecodeMo([]byte(body), "uni")
		assert.Error(t, err, body)
	}
}

func TestConfigRequest(t *testing.T) {
	req := apic.NewConfigRequest()
	_, err := req.Root()
	assert.Equal(t, apic.ErrEmptyRequest, err)

	a, err := apic.NewRootMo("polUni", "uni")
	require.NoError(t, err)
	_, err = apic.NewMo(a, "fvTenant", map[string]string{"name": "a"})
	require.NoError(t, err)
	b, err := apic.NewRootMo("polUni", "uni")
	require.NoError(t, err)
	_, err = apic.NewMo(b, "fvTenant", map[string]string{"name": "b"})
	require.NoError(t, err)
	infra, err := apic.NewRootMo("infraInfra", "uni/infra")
	require.NoError(t, err)

	require.NoError(t, req.AddMo(a))
	require.NoError(t, req.AddMo(b))
	assert.Error(t, req.AddMo(infra))
	assert.Equal(t, 2, req.Len())
	assert.Equal(t, "uni", req.Dn().String())

	root, err := req.Root()
	require.NoError(t, err)
	var rns []string
	for _, c := range root.Children() {
		rns = append(rns, c.Rn())
	}
	assert.Equal(t, []string{"tn-a", "tn-b"}, rns)
}

func TestRedact(t *testing.T) {
	dom, err := apic.NewRootMo("vmmDomP", "uni/vmmp-VMware/dom-My-vCenter")
	require.NoError(t, err)
	acc, err := apic.NewMo(dom, "vmmUsrAccP", map[string]string{"name": "defaultAccP", "usr": "root", "pwd": "vmware"})
	require.NoError(t, err)

	got := dom.Redact("******", "pwd")
	assert.Equal(t, "uni/vmmp-VMware/dom-My-vCenter", got.Dn().String())
	masked := got.Child("usracc-defaultAccP")
	require.NotNil(t, masked)
	assert.Equal(t, "******", masked.Attr("pwd"))
	assert.Equal(t, "root", masked.Attr("usr"))
	assert.Equal(t, "uni/vmmp-VMware/dom-My-vCenter/usracc-defaultAccP", masked.Dn().String())
	assert.Equal(t, "vmware", acc.Attr("pwd"), "original untouched")
}
