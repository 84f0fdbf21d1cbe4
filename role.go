package xanadium

// Role represents the author of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Known reports whether r is one of the roles the client writes itself.
// Stored documents may carry others.
func (r Role) Known() bool {
	return r == RoleUser || r == RoleAssistant
}
