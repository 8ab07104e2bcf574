package apic

import (
	"encoding/json"
	"encoding/xml"
	"sort"

	"github.com/pkg/errors"
	"github.com/tidwall/gjson"
)

// Mo is a managed object together with the subtree that will be sent
// along with it.
type Mo struct {
	class    string
	attrs    map[string]string
	parent   *Mo
	dn       Dn
	rn       string
	children []*Mo
}

// NewMo creates an object of class under parent. The relative name is
// rendered from the naming properties in attrs.
func NewMo(parent *Mo, class string, attrs map[string]string) (*Mo, error) {
	if parent == nil {
		return nil, errors.Errorf("%s: nil parent", class)
	}
	meta, ok := LookupClass(class)
	if !ok {
		return nil, errors.Errorf("unknown class %q", class)
	}
	rn, err := meta.MakeRn(attrs)
	if err != nil {
		return nil, err
	}
	if parent.Child(rn) != nil {
		return nil, errors.Errorf("%s: child %q already exists", parent.Dn(), rn)
	}
	m := &Mo{
		class:  class,
		attrs:  copyAttrs(attrs),
		parent: parent,
		rn:     rn,
	}
	parent.children = append(parent.children, m)
	return m, nil
}

// NewRootMo creates a detached object addressed by its full dn. Roots
// are the context objects config requests are posted against.
func NewRootMo(class string, dn string) (*Mo, error) {
	d, err := ParseDn(dn)
	if err != nil {
		return nil, err
	}
	return &Mo{
		class: class,
		attrs: map[string]string{},
		dn:    d,
		rn:    d.Rn(),
	}, nil
}

func copyAttrs(attrs map[string]string) map[string]string {
	c := make(map[string]string, len(attrs))
	for k, v := range attrs {
		c[k] = v
	}
	return c
}

// Class returns the class name, e.g. fvTenant.
func (m *Mo) Class() string { return m.class }

// Rn returns the relative name.
func (m *Mo) Rn() string { return m.rn }

// Parent returns the parent object, nil for roots.
func (m *Mo) Parent() *Mo { return m.parent }

// Dn returns the distinguished name.
func (m *Mo) Dn() Dn {
	if m.parent == nil {
		return m.dn
	}
	return m.parent.Dn().Join(m.rn)
}

// Attr returns a property value, "" if unset.
func (m *Mo) Attr(name string) string { return m.attrs[name] }

// Attrs returns a copy of all properties.
func (m *Mo) Attrs() map[string]string { return copyAttrs(m.attrs) }

// Children returns the direct children in creation order.
func (m *Mo) Children() []*Mo {
	return append([]*Mo(nil), m.children...)
}

// Child returns the direct child with the given rn.
func (m *Mo) Child(rn string) *Mo {
	for _, c := range m.children {
		if c.rn == rn {
			return c
		}
	}
	return nil
}

// Redact returns a detached copy of the subtree at m with every
// property named in props that has a value replaced by mask.
func (m *Mo) Redact(mask string, props ...string) *Mo {
	c := m.redact(mask, props)
	c.dn = m.Dn()
	return c
}

func (m *Mo) redact(mask string, props []string) *Mo {
	c := &Mo{class: m.class, attrs: copyAttrs(m.attrs), rn: m.rn}
	for _, p := range props {
		if c.attrs[p] != "" {
			c.attrs[p] = mask
		}
	}
	for _, child := range m.children {
		cc := child.redact(mask, props)
		cc.parent = c
		c.children = append(c.children, cc)
	}
	return c
}

// Walk calls fn for m and every descendant, parents first.
func (m *Mo) Walk(fn func(*Mo) error) error {
	if err := fn(m); err != nil {
		return err
	}
	for _, c := range m.children {
		if err := c.Walk(fn); err != nil {
			return err
		}
	}
	return nil
}

type moBody struct {
	Attributes map[string]string    `json:"attributes"`
	Children   []map[string]*moBody `json:"children,omitempty"`
}

func (m *Mo) body(top bool) map[string]*moBody {
	attrs := copyAttrs(m.attrs)
	if top {
		attrs["dn"] = m.Dn().String()
	}
	b := &moBody{Attributes: attrs}
	for _, c := range m.children {
		b.Children = append(b.Children, c.body(false))
	}
	return map[string]*moBody{m.class: b}
}

// MarshalJSON encodes m in the APIC REST shape. Only the top object
// carries its dn; children are named by their naming properties.
func (m *Mo) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.body(true))
}

// Map returns the same document MarshalJSON encodes, as plain maps.
func (m *Mo) Map() map[string]interface{} {
	return treeMap(m, true)
}

func treeMap(m *Mo, top bool) map[string]interface{} {
	attrs := map[string]interface{}{}
	for k, v := range m.attrs {
		attrs[k] = v
	}
	if top {
		attrs["dn"] = m.Dn().String()
	}
	body := map[string]interface{}{"attributes": attrs}
	if len(m.children) > 0 {
		children := make([]interface{}, 0, len(m.children))
		for _, c := range m.children {
			children = append(children, treeMap(c, false))
		}
		body["children"] = children
	}
	return map[string]interface{}{m.class: body}
}

type xmlMo struct {
	mo  *Mo
	top bool
}

func (x xmlMo) MarshalXML(e *xml.Encoder, _ xml.StartElement) error {
	attrs := copyAttrs(x.mo.attrs)
	if x.top {
		attrs["dn"] = x.mo.Dn().String()
	}
	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	start := xml.StartElement{Name: xml.Name{Local: x.mo.class}}
	for _, k := range keys {
		start.Attr = append(start.Attr, xml.Attr{Name: xml.Name{Local: k}, Value: attrs[k]})
	}
	if err := e.EncodeToken(start); err != nil {
		return err
	}
	for _, c := range x.mo.children {
		if err := e.Encode(xmlMo{mo: c}); err != nil {
			return err
		}
	}
	return e.EncodeToken(start.End())
}

// MarshalXML encodes m in the APIC XML shape.
func (m *Mo) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	return xmlMo{mo: m, top: true}.MarshalXML(e, start)
}

// DecodeMo parses an APIC JSON document holding one object tree. The
// top object is placed at its "dn" property, or at dn when it has none.
func DecodeMo(data []byte, dn string) (*Mo, error) {
	if !gjson.ValidBytes(data) {
		return nil, errors.New("invalid json")
	}
	class, body, err := single(gjson.ParseBytes(data))
	if err != nil {
		return nil, err
	}
	attrs := attributes(body)
	if d, ok := attrs["dn"]; ok {
		dn = d
		delete(attrs, "dn")
	}
	root, err := NewRootMo(class, dn)
	if err != nil {
		return nil, err
	}
	root.attrs = attrs
	if err := decodeChildren(root, body); err != nil {
		return nil, err
	}
	return root, nil
}

func single(obj gjson.Result) (string, gjson.Result, error) {
	if !obj.IsObject() {
		return "", gjson.Result{}, errors.New("managed object must be a json object")
	}
	var class string
	var body gjson.Result
	n := 0
	obj.ForEach(func(k, v gjson.Result) bool {
		class, body = k.String(), v
		n++
		return true
	})
	if n != 1 {
		return "", gjson.Result{}, errors.Errorf("managed object must have exactly one class key, got %d", n)
	}
	return class, body, nil
}

func attributes(body gjson.Result) map[string]string {
	attrs := map[string]string{}
	body.Get("attributes").ForEach(func(k, v gjson.Result) bool {
		attrs[k.String()] = v.String()
		return true
	})
	return attrs
}

func decodeChildren(parent *Mo, body gjson.Result) error {
	for _, child := range body.Get("children").Array() {
		class, cbody, err := single(child)
		if err != nil {
			return err
		}
		attrs := attributes(cbody)
		delete(attrs, "rn")
		delete(attrs, "dn")
		mo, err := NewMo(parent, class, attrs)
		if err != nil {
			return err
		}
		if err := decodeChildren(mo, cbody); err != nil {
			return err
		}
	}
	return nil
}
