package middleware

import (
	"strings"

	"absensi/constants"
	apperrors "absensi/errors"
	"absensi/response"
	"absensi/services"
	"absensi/types"

	"github.com/gin-gonic/gin"
)

const (
	AccessTokenCookie = "access_token"
	identityKey       = "identity"
)

// AuthMiddleware resolves the caller from a bearer token (or the
// access_token cookie) and, when roles are given, requires one of them.
func AuthMiddleware(tokens *services.TokenManager, roles ...int) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := extractToken(c)
		if tokenString == "" {
			response.Unauthorized(c)
			c.Abort()
			return
		}

		identity, err := tokens.ParseToken(tokenString)
		if err != nil {
			response.Unauthorized(c)
			c.Abort()
			return
		}

		if err := services.RequireRole(identity, roles...); err != nil {
			abortWith(c, err)
			return
		}

		setIdentity(c, identity)
		c.Next()
	}
}

// AdminMiddleware admits admin callers only. Anyone else, including a
// caller without a valid token, gets 403.
func AdminMiddleware(tokens *services.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, err := tokens.ParseToken(extractToken(c))
		if err == nil {
			err = services.RequireRole(identity, constants.RoleAdmin)
		}
		if err != nil {
			response.Forbidden(c)
			c.Abort()
			return
		}

		setIdentity(c, identity)
		c.Next()
	}
}

func setIdentity(c *gin.Context, identity types.Identity) {
	c.Set(identityKey, identity)
	c.Set("userID", identity.UserID)
	c.Set("userRole", identity.Role)
}

// CurrentIdentity returns the caller stored by AuthMiddleware.
func CurrentIdentity(c *gin.Context) (types.Identity, bool) {
	v, exists := c.Get(identityKey)
	if !exists {
		return types.Identity{}, false
	}
	identity, ok := v.(types.Identity)
	return identity, ok
}

func extractToken(c *gin.Context) string {
	if header := c.GetHeader("Authorization"); header != "" {
		if strings.HasPrefix(header, "Bearer ") {
			return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
		}
		return ""
	}
	if cookie, err := c.Cookie(AccessTokenCookie); err == nil {
		return cookie
	}
	return ""
}

func abortWith(c *gin.Context, err error) {
	if appErr := apperrors.GetAppError(err); appErr != nil && appErr.Code == apperrors.ErrCodeForbidden {
		response.Forbidden(c)
	} else {
		response.Unauthorized(c)
	}
	c.Abort()
}
