package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/Miraines/MoonyAndStarry/catalog-service/internal/adapters/transport/http/dto"
	"github.com/Miraines/MoonyAndStarry/catalog-service/internal/domain/auth/jwt"
	"github.com/Miraines/MoonyAndStarry/catalog-service/internal/domain/auth/policy"
	customErrors "github.com/Miraines/MoonyAndStarry/catalog-service/internal/domain/errors"
	"github.com/gin-gonic/gin"
)

const claimsKey = "claims"

type Authenticator interface {
	Authenticate(ctx context.Context, accessToken string) (jwt.Claims, error)
}

// RequireAuth checks the bearer token and stores its claims on the context.
func RequireAuth(a Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		parts := strings.SplitN(c.GetHeader("Authorization"), " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
			c.Header("WWW-Authenticate", "Bearer")
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ResponseDTO{Status: "Error", Message: "Bearer token required"})
			return
		}

		claims, err := a.Authenticate(c.Request.Context(), strings.TrimSpace(parts[1]))
		if err != nil {
			if customErrors.IsInternal(err) {
				_ = c.Error(err)
				c.AbortWithStatusJSON(http.StatusInternalServerError, dto.ResponseDTO{Status: "Error", Message: "internal error"})
				return
			}
			c.Header("WWW-Authenticate", `Bearer error="invalid_token"`)
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ResponseDTO{Status: "Error", Message: "Invalid access token"})
			return
		}

		c.Set(claimsKey, claims)
		c.Next()
	}
}

// RequirePolicy must run after RequireAuth.
func RequirePolicy(p policy.Policy) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := ClaimsFromContext(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ResponseDTO{Status: "Error", Message: "Unauthorized"})
			return
		}
		if !p.Allow(claims) {
			c.AbortWithStatusJSON(http.StatusForbidden, dto.ResponseDTO{Status: "Error", Message: "Forbidden"})
			return
		}
		c.Next()
	}
}

func ClaimsFromContext(c *gin.Context) (jwt.Claims, bool) {
	v, ok := c.Get(claimsKey)
	if !ok {
		return jwt.Claims{}, false
	}
	claims, ok := v.(jwt.Claims)
	return claims, ok
}
