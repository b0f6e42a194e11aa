// Package agent defines the closed set of conversational agent roles and
// their identities.
package agent

import (
	"fmt"
	"strings"
)

// Role identifies one of the four specialized agents. The set is closed;
// anything outside it must go through RoleOrHelp before being used as a
// dispatch key.
type Role string

const (
	RoleSales     Role = "sales"
	RoleHelp      Role = "help"
	RoleManage    Role = "manage"
	RoleMarketing Role = "marketing"
)

// Roles lists all valid roles in a stable order.
var Roles = []Role{RoleSales, RoleHelp, RoleManage, RoleMarketing}

// ParseRole normalizes s (trim, lowercase) and returns the matching Role.
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Roles {
		if r == known {
			return r, nil
		}
	}
	return "", fmt.Errorf("unknown agent role %q", s)
}

// RoleOrHelp normalizes s and returns the matching Role, falling back to
// RoleHelp for anything unrecognized. Classifier output must pass through
// here and never be trusted as a Role directly.
func RoleOrHelp(s string) Role {
	r, err := ParseRole(s)
	if err != nil {
		return RoleHelp
	}
	return r
}

// Identity is the immutable configuration tuple for one agent, loaded at
// process start.
type Identity struct {
	Role        Role
	DisplayName string
	Persona     string
}
