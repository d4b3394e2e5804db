package middleware

import (
	"errors"
	"log"
	"net/http"
	"net/url"

	"waterpermits/internal/coredb"
	"waterpermits/internal/modules/auth"
	"waterpermits/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

// ExternalSessionParam is the query parameter the agency portal appends
// when handing a user off to this app.
const ExternalSessionParam = "session_id"

// ExternalSession is the session adoption gateway. It runs on every request
// before route dispatch: it resolves whatever local session the browser
// already holds, and when a ?session_id= hand-off token is present it
// validates the token against the core system, creates or resyncs the
// shadow user, logs them in on a fresh local session and redirects to the
// same URL with the token stripped.
//
// Requests without the parameter pass through untouched.
func ExternalSession(
	core *coredb.Store,
	syncer *auth.IdentitySync,
	sessions *auth.SessionService,
	cookies auth.CookieConfig,
) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		if token, err := c.Cookie(cookies.Name); err == nil && token != "" {
			if sess, user, rerr := sessions.Resolve(ctx, token); rerr == nil {
				setPrincipal(c, sess, user)
			}
		}

		sid := c.Query(ExternalSessionParam)
		if sid == "" {
			c.Next()
			return
		}

		ident, err := core.LookupSession(ctx, sid)
		if errors.Is(err, coredb.ErrSessionNotFound) {
			response.Error(c, http.StatusForbidden,
				"INVALID_EXTERNAL_SESSION", "Invalid or expired external session.")
			c.Abort()
			return
		}
		if err != nil {
			// core DB down is a hard stop, never a silent fall-through
			log.Printf("external session lookup failed: %v", err)
			response.Error(c, http.StatusServiceUnavailable,
				"AUTH_UNAVAILABLE", "Authentication service unavailable.")
			c.Abort()
			return
		}

		profile := auth.NormalizeIdentity(ident)

		if user, sess, ok := Principal(c); ok {
			if user.ExternalUserID != nil && *user.ExternalUserID == profile.ExternalUserID {
				// same person re-entering; refresh the shadow profile and
				// keep their session
				synced, serr := syncer.ResolveOrCreate(ctx, profile)
				if serr != nil {
					log.Printf("profile resync failed for external id %d: %v", profile.ExternalUserID, serr)
					response.Error(c, http.StatusInternalServerError,
						"INTERNAL_SERVER_ERROR", "Could not sync your profile.")
					c.Abort()
					return
				}
				setPrincipal(c, sess, synced)
				c.Next()
				return
			}

			// a different person owns this browser session; force the old
			// identity out everywhere before the new one logs in
			if rerr := sessions.RevokeUser(ctx, sess.UserID); rerr != nil {
				log.Printf("session revoke failed during takeover: %v", rerr)
			}
			cookies.Clear(c)
			clearPrincipal(c)
		}

		user, err := syncer.ResolveOrCreate(ctx, profile)
		if err != nil {
			log.Printf("shadow user resolve failed for external id %d: %v", profile.ExternalUserID, err)
			response.Error(c, http.StatusInternalServerError,
				"INTERNAL_SERVER_ERROR", "Could not sign you in.")
			c.Abort()
			return
		}

		_, token, err := sessions.Issue(ctx, user.ID)
		if err != nil {
			log.Printf("session issue failed for user %d: %v", user.ID, err)
			response.Error(c, http.StatusInternalServerError,
				"INTERNAL_SERVER_ERROR", "Could not sign you in.")
			c.Abort()
			return
		}
		cookies.Set(c, token)

		// the hand-off token must not linger in the address bar or get
		// bookmarked; send the browser back without it
		c.Redirect(http.StatusFound, stripQueryParam(c.Request.URL, ExternalSessionParam))
		c.Abort()
	}
}

func stripQueryParam(u *url.URL, key string) string {
	clean := *u
	q := clean.Query()
	q.Del(key)
	clean.RawQuery = q.Encode()
	return clean.String()
}
