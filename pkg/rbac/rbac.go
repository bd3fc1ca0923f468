package rbac

import "fmt"

// Permissions
const (
	PermissionViewImportForm = "sites:import_form"
	PermissionImportSites    = "sites:import"
)

// Roles carried by the bearer token.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

var rolePermissions = map[string][]string{
	RoleUser: {},
	RoleAdmin: {
		PermissionViewImportForm,
		PermissionImportSites,
	},
}

// HasPermission reports whether role grants permission. Unknown roles grant
// nothing.
func HasPermission(role, permission string) bool {
	for _, p := range rolePermissions[role] {
		if p == permission {
			return true
		}
	}
	return false
}

// CheckPermission is HasPermission returning a *PermissionDeniedError.
func CheckPermission(userID int, role, permission string) error {
	if !HasPermission(role, permission) {
		return &PermissionDeniedError{
			UserID:     userID,
			Role:       role,
			Permission: permission,
		}
	}
	return nil
}

type PermissionDeniedError struct {
	UserID     int
	Role       string
	Permission string
}

func (e *PermissionDeniedError) Error() string {
	return fmt.Sprintf("insufficient permissions: %s requires %s", e.Permission, RoleAdmin)
}
