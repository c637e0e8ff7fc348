package model

import "fmt"

// Role is the party acting on a job: the client who posted the request or the
// professional doing the work. The admin role only exists at the HTTP layer
// and never reaches the engine.
type Role string

const (
	RoleClient Role = "cliente"
	RolePro    Role = "professionista"
)

// ParseRole validates a role string coming off the wire.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleClient:
		return RoleClient, nil
	case RolePro:
		return RolePro, nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

func (r Role) String() string { return string(r) }
