package middleware

import (
	"context"
	"net/http"
	"strings"

	usermodel "NagarSeva/module/user/model"
	"NagarSeva/tools/errs"
	"NagarSeva/tools/security"

	"github.com/gin-gonic/gin"
)

// context keys downstream handlers read
const (
	CtxUserIDKey = "userId"
	CtxRoleKey   = "role"
)

// UserLookup resolves a token subject to an account, (nil, nil) if absent.
type UserLookup func(ctx context.Context, id string) (*usermodel.User, error)

// Auth verifies the bearer token and requires a verified account.
func Auth(opts security.Options, lookup UserLookup) gin.HandlerFunc {
	return requireRole(opts, lookup, "")
}

// AdminAuth additionally requires the admin role.
func AdminAuth(opts security.Options, lookup UserLookup) gin.HandlerFunc {
	return requireRole(opts, lookup, usermodel.RoleAdmin)
}

func requireRole(opts security.Options, lookup UserLookup, role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, errs.ErrTokenInvalid)
			return
		}
		claims, err := security.Verify(opts, token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, errs.ErrTokenInvalid)
			return
		}

		user, err := lookup(c.Request.Context(), claims.UserID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, errs.ErrServerInternal)
			return
		}
		if user == nil || !user.IsVerified {
			c.AbortWithStatusJSON(http.StatusUnauthorized, errs.ErrTokenInvalid)
			return
		}
		if role != "" && user.Role != role {
			c.AbortWithStatusJSON(http.StatusUnauthorized, errs.ErrForbidden)
			return
		}

		c.Set(CtxUserIDKey, claims.UserID)
		c.Set(CtxRoleKey, user.Role)
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	authz := strings.TrimSpace(c.GetHeader("Authorization"))
	if authz == "" {
		return ""
	}
	if strings.HasPrefix(strings.ToLower(authz), "bearer ") {
		return strings.TrimSpace(authz[len("bearer "):])
	}
	return authz
}
