package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"oragh/backend/internal/access"
	"oragh/backend/pkg/response"
)

// Context keys set by middleware.JWTAuth.
const (
	CtxUserID    = "user_id"
	CtxPrincipal = "principal"
	CtxTokenJTI  = "token_jti"
	CtxTokenExp  = "token_exp"
)

// MustGetUserID extracts user_id from the gin context.
// It writes a 401 and returns false when the auth middleware did not run;
// callers return immediately in that case.
func MustGetUserID(c *gin.Context) (string, bool) {
	v, exists := c.Get(CtxUserID)
	if !exists {
		response.Unauthorized(c, 10002, "Authentication required")
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		response.Unauthorized(c, 10002, "Authentication required")
		return "", false
	}
	return s, true
}

// MustGetPrincipal extracts the authenticated caller.
func MustGetPrincipal(c *gin.Context) (access.Principal, bool) {
	v, exists := c.Get(CtxPrincipal)
	if !exists {
		response.Unauthorized(c, 10002, "Authentication required")
		return access.Principal{}, false
	}
	p, ok := v.(access.Principal)
	if !ok || p.UserID == "" {
		response.Unauthorized(c, 10002, "Authentication required")
		return access.Principal{}, false
	}
	return p, true
}

// tokenMeta returns the id and expiry of the access token of the request.
func tokenMeta(c *gin.Context) (string, time.Time) {
	jti := c.GetString(CtxTokenJTI)
	exp, _ := c.Get(CtxTokenExp)
	t, _ := exp.(time.Time)
	return jti, t
}
