package tenant_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bgosselin/aci-scripts/pkg/apic"
	"github.com/bgosselin/aci-scripts/pkg/apic/apictest"
	"github.com/bgosselin/aci-scripts/pkg/tenant"
)

func login(t *testing.T, s *apictest.Server) *apic.Client {
	c, err := apic.New(s.Endpoint("admin", "secret"))
	require.NoError(t, err)
	require.NoError(t, c.Login(context.Background()))
	return c
}

func TestPlan(t *testing.T) {
	req, err := tenant.Plan("Lab", "")
	require.NoError(t, err)
	require.Equal(t, 1, req.Len())
	assert.Equal(t, "uni", req.Dn().String())

	uni := req.Mos()[0]
	tn := uni.Child("tn-Lab")
	require.NotNil(t, tn)
	assert.Equal(t, "fvTenant", tn.Class())
	vrf := tn.Child("ctx-" + tenant.DefaultVRF)
	require.NotNil(t, vrf)
	assert.Equal(t, "fvCtx", vrf.Class())
}

func TestPlanInvalidName(t *testing.T) {
	_, err := tenant.Plan("my tenant", "v1")
	assert.Error(t, err)
	_, err = tenant.Plan("", "v1")
	assert.Error(t, err)
	_, err = tenant.Plan("t1", "bad/vrf")
	assert.Error(t, err)
}

func TestCreate(t *testing.T) {
	s := apictest.NewServer("admin", "secret")
	defer s.Close()

	c := login(t, s)
	require.NoError(t, tenant.Create(context.Background(), c, "Lab", "prod"))

	assert.Equal(t, 1, s.Commits(), "tenant and vrf must be one commit")
	tn, ok := s.Lookup("uni/tn-Lab")
	require.True(t, ok)
	assert.Equal(t, "fvTenant", tn.Class)
	vrfs := s.ChildrenOf("uni/tn-Lab", "fvCtx")
	require.Len(t, vrfs, 1)
	assert.Equal(t, "prod", vrfs[0].Attrs["name"])
}

func TestCreatePostsOnlyNewProperties(t *testing.T) {
	s := apictest.NewServer("admin", "secret")
	defer s.Close()
	before, ok := s.Lookup("uni")
	require.True(t, ok)
	require.NotEmpty(t, before.Attrs["modTs"])

	c := login(t, s)
	require.NoError(t, tenant.Create(context.Background(), c, "Lab", ""))
	assert.Equal(t, 1, s.Commits())
	after, _ := s.Lookup("uni")
	assert.Equal(t, before.Attrs["modTs"], after.Attrs["modTs"])
	assert.Equal(t, "uni/fabric/monfab-default", after.Attrs["monPolDn"])
	_, ok = s.Lookup("uni/tn-Lab/ctx-" + tenant.DefaultVRF)
	assert.True(t, ok)
}

func TestCreateRejected(t *testing.T) {
	s := apictest.NewServer("admin", "secret")
	defer s.Close()
	s.Reject("uni", http.StatusBadRequest, "182", "Tenant limit reached")

	c := login(t, s)
	err := tenant.Create(context.Background(), c, "Lab", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Tenant limit reached")
	_, ok := s.Lookup("uni/tn-Lab")
	assert.False(t, ok)
}
