package services

import (
	apperrors "absensi/errors"
	"absensi/types"
)

// RequireRole is the single capability check for role-gated operations.
// With no roles it only requires an authenticated caller.
func RequireRole(caller types.Identity, roles ...int) error {
	if caller.UserID == 0 {
		return apperrors.ErrUnauthenticated
	}
	if len(roles) == 0 {
		return nil
	}
	for _, role := range roles {
		if caller.Role == role {
			return nil
		}
	}
	return apperrors.ErrForbidden
}
