package migrate

import (
	"strings"

	"github.com/pkg/errors"
)

// ContractMode selects how migrated EPGs are bound to contracts.
type ContractMode string

const (
	// Whitelist leaves EPGs without contracts: only traffic a later
	// contract allows will flow.
	Whitelist ContractMode = "whitelist"
	// Blacklist makes every EPG consume the tenant's default contract.
	Blacklist ContractMode = "blacklist"
)

// DefaultContract is the contract consumed in blacklist mode.
const DefaultContract = "default"

// ParseContractMode accepts "whitelist" or "blacklist", in any case.
func ParseContractMode(s string) (ContractMode, error) {
	switch mode := ContractMode(strings.ToLower(strings.TrimSpace(s))); mode {
	case Whitelist, Blacklist:
		return mode, nil
	}
	return "", errors.Errorf("invalid contract mode %q: want whitelist or blacklist", s)
}

func (m ContractMode) String() string { return string(m) }
