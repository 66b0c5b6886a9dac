package domain

type Role string

const (
	RoleAdmin    Role = "ADMIN"
	RoleCustomer Role = "CUSTOMER"
)

var (
	AdminOnly = []Role{RoleAdmin}
	AnyRole   = []Role{RoleAdmin, RoleCustomer}
)

func IsValidRole(role Role) bool {
	return role == RoleAdmin || role == RoleCustomer
}

// RequireRole is the authorization gate: it fails with ErrUnauthorized unless
// the caller's role is one of the allowed roles.
func RequireRole(allowed []Role, role Role) error {
	for _, r := range allowed {
		if r == role {
			return nil
		}
	}
	return ErrUnauthorized
}
