// Package access implements the three-role policy that gates every
// mutating bond and registry operation.
package access

import (
	"fmt"
	"strings"

	"github.com/bitfsorg/greenbond-go/identity"
)

// Role is one of the policy roles. Memberships are non-exclusive.
type Role uint8

const (
	// Admin bootstraps the deployment and grants roles.
	Admin Role = 1 << iota
	// Issuer adds impact reports and certifications and may perform an emergency withdrawal.
	Issuer
	// Verifier verifies impact reports.
	Verifier
)

// All lists every role in display order.
var All = []Role{Admin, Issuer, Verifier}

// String returns the lowercase role name.
func (r Role) String() string {
	switch r {
	case Admin:
		return "admin"
	case Issuer:
		return "issuer"
	case Verifier:
		return "verifier"
	default:
		return fmt.Sprintf("role(%d)", uint8(r))
	}
}

// Valid reports whether r is exactly one known role.
func (r Role) Valid() bool {
	return r == Admin || r == Issuer || r == Verifier
}

// ParseRole maps a role name (case-insensitive) to its Role.
func ParseRole(name string) (Role, error) {
	for _, r := range All {
		if strings.EqualFold(strings.TrimSpace(name), r.String()) {
			return r, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownRole, name)
}

// Set is the bitmask of roles held by one identity.
type Set uint8

// Has reports whether the set contains r.
func (s Set) Has(r Role) bool { return s&Set(r) != 0 }

// With returns the set plus r.
func (s Set) With(r Role) Set { return s | Set(r) }

// Roles lists the members of the set in display order.
func (s Set) Roles() []Role {
	var out []Role
	for _, r := range All {
		if s.Has(r) {
			out = append(out, r)
		}
	}
	return out
}

// Checker resolves whether an identity may act in a role.
type Checker interface {
	HasRole(id identity.Address, role Role) bool
}

// Require returns nil when c grants role to id, and ErrUnauthorized otherwise.
func Require(c Checker, id identity.Address, role Role) error {
	if c == nil || !c.HasRole(id, role) {
		return fmt.Errorf("%w: %s is not %s", ErrUnauthorized, id, role)
	}
	return nil
}

// Grant adds role to the account's current set. Only an Admin may grant.
// It returns the new set and whether the membership was new.
func Grant(c Checker, granter identity.Address, current Set, role Role, account identity.Address) (Set, bool, error) {
	if !role.Valid() {
		return current, false, fmt.Errorf("%w: %d", ErrUnknownRole, uint8(role))
	}
	if account.IsZero() {
		return current, false, ErrZeroAccount
	}
	if err := Require(c, granter, Admin); err != nil {
		return current, false, err
	}
	if current.Has(role) {
		return current, false, nil
	}
	return current.With(role), true, nil
}

// Static is a fixed in-memory Checker, for wiring tests and read-only views.
type Static map[identity.Address]Set

// HasRole implements Checker.
func (s Static) HasRole(id identity.Address, role Role) bool {
	return s[id].Has(role)
}
