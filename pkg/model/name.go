// Package model builds the ACI managed objects the tools create. Each
// constructor attaches the new object to its parent and fills the
// defaults the APIC GUI would use.
package model

import (
	"regexp"

	"github.com/pkg/errors"
)

var namePattern = regexp.MustCompile(`^[a-zA-Z0-9_.:-]{1,64}$`)

// ValidateName checks an APIC object name: 1 to 64 characters out of
// letters, digits and "_.:-".
func ValidateName(kind, name string) error {
	if !namePattern.MatchString(name) {
		return errors.Errorf("invalid %s name %q: must be 1-64 characters of [a-zA-Z0-9_.:-]", kind, name)
	}
	return nil
}
