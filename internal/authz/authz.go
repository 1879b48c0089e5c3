// Package authz holds the ownership rule applied before every mutation of a
// post, a comment or a profile.
package authz

import (
	"fmt"
	"strings"
)

// Identity is the acting user of a request, or the owner of a resource.
type Identity struct {
	ID       int
	Username string
}

// CanMutate reports whether acting may change a resource owned by owner.
// Identities are compared by ID only; the anonymous identity owns nothing.
func CanMutate(acting, owner Identity) bool {
	return acting.ID != 0 && acting.ID == owner.ID
}

// Policy selects how a refused mutation is answered.
type Policy int

const (
	// PolicyRedirect sends the caller to a read-only view of the resource.
	// Note that this still reveals that the resource exists.
	PolicyRedirect Policy = iota
	// PolicyDeny answers with an access-denied status.
	PolicyDeny
)

func (p Policy) String() string {
	switch p {
	case PolicyRedirect:
		return "redirect"
	case PolicyDeny:
		return "deny"
	default:
		return fmt.Sprintf("Policy(%d)", int(p))
	}
}

// ParsePolicy maps a configuration value to a Policy. The empty string
// selects PolicyRedirect.
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "redirect":
		return PolicyRedirect, nil
	case "deny":
		return PolicyDeny, nil
	default:
		return PolicyRedirect, fmt.Errorf("unknown ownership policy %q", s)
	}
}
