package middleware

import (
	"github.com/gin-gonic/gin"

	"waterpermits/internal/domain"
)

const (
	ctxKeyUser    = "user"
	ctxKeyUserID  = "user_id"
	ctxKeySession = "session"
)

func setPrincipal(c *gin.Context, sess *domain.Session, user *domain.User) {
	c.Set(ctxKeyUser, user)
	c.Set(ctxKeyUserID, user.ID)
	c.Set(ctxKeySession, sess)
}

func clearPrincipal(c *gin.Context) {
	c.Set(ctxKeyUser, nil)
	c.Set(ctxKeyUserID, int64(0))
	c.Set(ctxKeySession, nil)
}

// Principal returns the authenticated user and session set by the session
// middleware, or ok=false when the request is unauthenticated.
func Principal(c *gin.Context) (*domain.User, *domain.Session, bool) {
	v, exists := c.Get(ctxKeyUser)
	if !exists {
		return nil, nil, false
	}
	user, ok := v.(*domain.User)
	if !ok || user == nil {
		return nil, nil, false
	}

	sv, _ := c.Get(ctxKeySession)
	sess, ok := sv.(*domain.Session)
	if !ok || sess == nil {
		return nil, nil, false
	}

	return user, sess, true
}
