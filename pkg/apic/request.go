package apic

import (
	"github.com/pkg/errors"
)

// ErrEmptyRequest is returned when committing a request with no objects.
var ErrEmptyRequest = errors.New("config request has no managed objects")

// ErrContextMismatch is returned by AddMo when objects with different
// dns are added to one request.
var ErrContextMismatch = errors.New("config request objects must share one context dn")

// ConfigRequest groups the objects submitted by a single commit.
type ConfigRequest struct {
	mos []*Mo
}

// NewConfigRequest returns an empty request.
func NewConfigRequest() *ConfigRequest {
	return &ConfigRequest{}
}

// AddMo adds the subtree rooted at mo. Every object of a request is
// posted against the same dn.
func (r *ConfigRequest) AddMo(mo *Mo) error {
	if mo == nil {
		return errors.New("nil managed object")
	}
	if len(r.mos) > 0 && r.mos[0].Dn().String() != mo.Dn().String() {
		return errors.Wrapf(ErrContextMismatch, "have %s, adding %s", r.mos[0].Dn(), mo.Dn())
	}
	r.mos = append(r.mos, mo)
	return nil
}

// Len returns the number of objects added.
func (r *ConfigRequest) Len() int { return len(r.mos) }

// Mos returns the objects added, in order.
func (r *ConfigRequest) Mos() []*Mo {
	return append([]*Mo(nil), r.mos...)
}

// Dn returns the context dn the request is posted against.
func (r *ConfigRequest) Dn() Dn {
	if len(r.mos) == 0 {
		return Dn{}
	}
	return r.mos[0].Dn()
}

// Root returns the single object the request posts. Objects added for
// the same dn are merged under one copy of the first object.
func (r *ConfigRequest) Root() (*Mo, error) {
	switch len(r.mos) {
	case 0:
		return nil, ErrEmptyRequest
	case 1:
		return r.mos[0], nil
	}
	first := r.mos[0]
	root := &Mo{
		class: first.class,
		attrs: copyAttrs(first.attrs),
		dn:    first.Dn(),
		rn:    first.rn,
	}
	for _, mo := range r.mos {
		for k, v := range mo.attrs {
			root.attrs[k] = v
		}
		for _, c := range mo.children {
			if root.Child(c.rn) != nil {
				return nil, errors.Errorf("%s: child %q added twice", root.Dn(), c.rn)
			}
			root.children = append(root.children, c)
		}
	}
	return root, nil
}
