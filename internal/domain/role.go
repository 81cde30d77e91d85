package domain

// Role is the closed set of session privilege tiers. Keeping it a declared
// enum (instead of a free-form string) means an unrecognized value can be
// rejected at the edge and never reaches branching logic.
type Role string

const (
	RoleNone      Role = "none"
	RoleRoot      Role = "root"
	RoleAssistant Role = "assistant"
)

// Valid reports whether r is one of the declared roles.
func (r Role) Valid() bool {
	switch r {
	case RoleNone, RoleRoot, RoleAssistant:
		return true
	}
	return false
}

// Privileged reports whether r may enter admin-side states at all.
func (r Role) Privileged() bool {
	return r == RoleRoot || r == RoleAssistant
}
