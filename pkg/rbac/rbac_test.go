package rbac

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasPermission(t *testing.T) {
	assert.True(t, HasPermission(RoleAdmin, PermissionImportSites))
	assert.True(t, HasPermission(RoleAdmin, PermissionViewImportForm))
	assert.False(t, HasPermission(RoleUser, PermissionImportSites))
	assert.False(t, HasPermission("", PermissionImportSites))
	assert.False(t, HasPermission("superuser", PermissionImportSites))
}

func TestCheckPermission(t *testing.T) {
	assert.NoError(t, CheckPermission(1, RoleAdmin, PermissionImportSites))

	err := CheckPermission(2, RoleUser, PermissionImportSites)
	var denied *PermissionDeniedError
	assert.True(t, errors.As(err, &denied))
	assert.Equal(t, 2, denied.UserID)
	assert.Equal(t, PermissionImportSites, denied.Permission)
}
