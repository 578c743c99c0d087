package middleware

import (
	"context"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"oragh/backend/internal/access"
	"oragh/backend/internal/api/handler"
	"oragh/backend/pkg/jwt"
	"oragh/backend/pkg/response"
)

// TokenChecker reports revoked access token ids.
type TokenChecker interface {
	IsBlacklisted(ctx context.Context, jti string) (bool, error)
}

// JWTAuth verifies the Bearer access token and puts the caller on the
// context. blacklist may be nil; when the lookup fails the request is let
// through, like RateLimit.
func JWTAuth(jwtMgr *jwt.Manager, blacklist TokenChecker, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, 10002, "Authentication credentials were not provided")
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.Unauthorized(c, 10002, "Malformed Authorization header")
			c.Abort()
			return
		}

		claims, err := jwtMgr.ParseToken(parts[1])
		if err != nil {
			response.Unauthorized(c, 10002, "Token is invalid or expired")
			c.Abort()
			return
		}

		if claims.TokenType != jwt.TokenTypeAccess {
			response.Unauthorized(c, 10002, "Token is not an access token")
			c.Abort()
			return
		}

		if blacklist != nil && claims.ID != "" {
			revoked, err := blacklist.IsBlacklisted(c.Request.Context(), claims.ID)
			if err != nil {
				logger.Warn("token blacklist lookup failed", zap.Error(err))
			} else if revoked {
				response.Unauthorized(c, 10002, "Token has been revoked")
				c.Abort()
				return
			}
		}

		var exp time.Time
		if claims.ExpiresAt != nil {
			exp = claims.ExpiresAt.Time
		}

		c.Set(handler.CtxUserID, claims.UserID)
		c.Set(handler.CtxPrincipal, access.Principal{
			UserID:      claims.UserID,
			Groups:      claims.Groups,
			IsStaff:     claims.IsStaff,
			IsSuperuser: claims.IsSuperuser,
		})
		c.Set(handler.CtxTokenJTI, claims.ID)
		c.Set(handler.CtxTokenExp, exp)

		c.Next()
	}
}

// RequirePerm lets the request through when the caller holds perm.
// Must run after JWTAuth.
func RequirePerm(perm access.Perm) gin.HandlerFunc {
	return func(c *gin.Context) {
		v, exists := c.Get(handler.CtxPrincipal)
		if !exists {
			response.Unauthorized(c, 10002, "Authentication required")
			c.Abort()
			return
		}

		p, _ := v.(access.Principal)
		if !p.HasPerm(perm) {
			response.Forbidden(c, 10003, "You do not have permission to perform this action")
			c.Abort()
			return
		}

		c.Next()
	}
}
