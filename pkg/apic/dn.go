package apic

import (
	"strings"

	"github.com/pkg/errors"
)

// Dn is a distinguished name of a managed object, e.g.
// uni/infra/vlanns-[Pool]-dynamic. Slashes inside brackets belong to the
// relative name.
type Dn struct {
	rns []string
}

// ParseDn splits s into its relative names.
func ParseDn(s string) (Dn, error) {
	if s == "" {
		return Dn{}, errors.New("empty dn")
	}
	var rns []string
	depth := 0
	start := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '[':
			depth++
		case ']':
			depth--
			if depth < 0 {
				return Dn{}, errors.Errorf("dn %q: unbalanced ']'", s)
			}
		case '/':
			if depth > 0 {
				continue
			}
			if i == start {
				return Dn{}, errors.Errorf("dn %q: empty rn at offset %d", s, i)
			}
			rns = append(rns, s[start:i])
			start = i + 1
		}
	}
	if depth != 0 {
		return Dn{}, errors.Errorf("dn %q: unbalanced '['", s)
	}
	if start == len(s) {
		return Dn{}, errors.Errorf("dn %q: trailing '/'", s)
	}
	rns = append(rns, s[start:])
	return Dn{rns: rns}, nil
}

// MustParseDn is ParseDn for constant names.
func MustParseDn(s string) Dn {
	d, err := ParseDn(s)
	if err != nil {
		panic(err)
	}
	return d
}

func (d Dn) String() string {
	return strings.Join(d.rns, "/")
}

// IsZero reports whether d holds no relative names.
func (d Dn) IsZero() bool {
	return len(d.rns) == 0
}

// Rns returns a copy of the relative names from the root down.
func (d Dn) Rns() []string {
	return append([]string(nil), d.rns...)
}

// Rn returns the last relative name.
func (d Dn) Rn() string {
	if len(d.rns) == 0 {
		return ""
	}
	return d.rns[len(d.rns)-1]
}

// Parent drops the last relative name. The parent of a root is the zero Dn.
func (d Dn) Parent() Dn {
	if len(d.rns) <= 1 {
		return Dn{}
	}
	return Dn{rns: d.rns[: len(d.rns)-1 : len(d.rns)-1]}
}

// Join appends rn.
func (d Dn) Join(rn string) Dn {
	rns := make([]string, 0, len(d.rns)+1)
	rns = append(rns, d.rns...)
	return Dn{rns: append(rns, rn)}
}
