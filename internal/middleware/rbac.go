package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/campus-allocator/internal/models"
	appErrors "github.com/noah-isme/campus-allocator/pkg/errors"
	"github.com/noah-isme/campus-allocator/pkg/response"
)

// RequireRoles lets a request through when the JWT claims carry one of roles. It must run
// after JWT; a request without claims is answered 401, a foreign role 403.
func RequireRoles(roles ...models.UserRole) gin.HandlerFunc {
	allowed := make(map[models.UserRole]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}

	return func(c *gin.Context) {
		claims, ok := claimsFrom(c)
		if !ok {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}
		if _, ok := allowed[claims.Role]; !ok {
			response.Error(c, appErrors.Clone(appErrors.ErrForbidden, "role "+string(claims.Role)+" may not access this resource"))
			c.Abort()
			return
		}
		c.Next()
	}
}

func claimsFrom(c *gin.Context) (*models.JWTClaims, bool) {
	value, exists := c.Get(ContextUserKey)
	if !exists {
		return nil, false
	}
	claims, ok := value.(*models.JWTClaims)
	return claims, ok && claims != nil
}
