package migrate

import (
	"github.com/pkg/errors"

	"github.com/bgosselin/aci-scripts/pkg/apic"
	"github.com/bgosselin/aci-scripts/pkg/model"
)

// VSphere is the vCenter the VMM domain is connected to.
type VSphere struct {
	Host     string
	Port     int
	Username string
	Password string
}

// Options names everything the migration creates.
type Options struct {
	Tenant        string
	AppProfile    string
	VlanPool      string
	FirstVlan     int
	VlanHeadroom  int
	Domain        string
	Controller    string
	RootContainer string
	DVSVersion    string
	Account       string
	Contract      ContractMode
	VSphere       VSphere
}

// DefaultOptions returns the names the migration has always used.
func DefaultOptions() Options {
	return Options{
		Tenant:        "Legacy",
		AppProfile:    "PortGroupMigration",
		VlanPool:      "ACILab_VLAN_Pool",
		FirstVlan:     1000,
		VlanHeadroom:  10,
		Domain:        "My-vCenter",
		Controller:    "dCloudDC",
		RootContainer: "dCloudDC",
		DVSVersion:    "5.5",
		Account:       "defaultAccP",
		Contract:      Whitelist,
		VSphere:       VSphere{Port: 443},
	}
}

// VlanRange returns the encap block sized for n port-groups.
func (o Options) VlanRange(n int) (int, int) {
	return o.FirstVlan, o.FirstVlan + n + o.VlanHeadroom
}

// Plan builds the three config requests of a migration, in commit
// order: the VLAN pool, the VMM domain and the tenant with one EPG per
// port-group name.
func (o Options) Plan(names []string) ([]*apic.ConfigRequest, error) {
	if len(names) == 0 {
		return nil, errors.New("no port-groups to migrate")
	}
	if _, err := ParseContractMode(string(o.Contract)); err != nil {
		return nil, err
	}
	pool, err := o.vlanPoolRequest(len(names))
	if err != nil {
		return nil, errors.Wrap(err, "vlan pool")
	}
	domain, err := o.domainRequest()
	if err != nil {
		return nil, errors.Wrap(err, "vmm domain")
	}
	tenant, err := o.tenantRequest(names)
	if err != nil {
		return nil, errors.Wrap(err, "tenant")
	}
	return []*apic.ConfigRequest{pool, domain, tenant}, nil
}

func request(root *apic.Mo) (*apic.ConfigRequest, error) {
	req := apic.NewConfigRequest()
	if err := req.AddMo(root); err != nil {
		return nil, err
	}
	return req, nil
}

func (o Options) vlanPoolRequest(n int) (*apic.ConfigRequest, error) {
	infra, err := apic.NewRootMo("infraInfra", "uni/infra")
	if err != nil {
		return nil, err
	}
	pool, err := model.VlanInstP(infra, o.VlanPool, model.AllocDynamic)
	if err != nil {
		return nil, err
	}
	from, to := o.VlanRange(n)
	if _, err := model.EncapBlk(pool, from, to); err != nil {
		return nil, err
	}
	return request(infra)
}

func (o Options) domainRequest() (*apic.ConfigRequest, error) {
	provider, err := apic.NewRootMo("vmmProvP", "uni/vmmp-"+model.VendorVMware)
	if err != nil {
		return nil, err
	}
	dom, err := model.DomP(provider, o.Domain)
	if err != nil {
		return nil, err
	}
	if err := model.DefaultPolicies(dom); err != nil {
		return nil, err
	}
	ctrlr, err := model.CtrlrP(dom, model.Controller{
		Name:          o.Controller,
		HostOrIP:      o.VSphere.Host,
		Port:          o.VSphere.Port,
		RootContainer: o.RootContainer,
		DVSVersion:    o.DVSVersion,
	})
	if err != nil {
		return nil, err
	}
	if _, err := model.RsAcc(ctrlr, dom.Dn().Join("usracc-"+o.Account).String()); err != nil {
		return nil, err
	}
	if _, err := model.RsVlanNs(dom, model.VlanPoolDn(o.VlanPool, model.AllocDynamic)); err != nil {
		return nil, err
	}
	if _, err := model.UsrAccP(dom, o.Account, o.VSphere.Username, o.VSphere.Password); err != nil {
		return nil, err
	}
	return request(provider)
}

func (o Options) tenantRequest(names []string) (*apic.ConfigRequest, error) {
	uni, err := apic.NewRootMo("polUni", "uni")
	if err != nil {
		return nil, err
	}
	tn, err := model.Tenant(uni, o.Tenant)
	if err != nil {
		return nil, err
	}
	ap, err := model.Ap(tn, o.AppProfile)
	if err != nil {
		return nil, err
	}
	domainDn := model.VMMDomainDn(o.Domain)
	for _, name := range names {
		epg, err := model.AEPg(ap, name)
		if err != nil {
			return nil, err
		}
		if o.Contract == Blacklist {
			if _, err := model.RsCons(epg, DefaultContract); err != nil {
				return nil, err
			}
		}
		if _, err := model.RsDomAtt(epg, domainDn); err != nil {
			return nil, err
		}
	}
	return request(uni)
}
