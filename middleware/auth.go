package middleware

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"
	"github.com/hermes-oms/hermes/models"
)

// SessionName is the cookie under which the login session is stored
const SessionName = "hermes_session"

const (
	sessionAuthKey = "authenticated"
	sessionUserKey = "user_id"
	contextUserKey = "user_id"
)

// NewSessionStore builds the cookie session store signed with the
// configured secret
func NewSessionStore(secret string) *sessions.CookieStore {
	store := sessions.NewCookieStore([]byte(secret))
	store.Options.HttpOnly = true
	store.Options.SameSite = http.SameSiteLaxMode
	store.Options.Path = "/"
	return store
}

// RequireLogin redirects unauthenticated requests to the login view.
// Authenticated requests get the session's user id placed on the gin
// context for downstream handlers.
func RequireLogin(store *sessions.CookieStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, _ := store.Get(c.Request, SessionName)
		if auth, ok := session.Values[sessionAuthKey].(bool); !ok || !auth {
			c.Redirect(http.StatusSeeOther, "/login")
			c.Abort()
			return
		}
		if uid, ok := session.Values[sessionUserKey].(uint); ok {
			c.Set(contextUserKey, uid)
		}
		c.Next()
	}
}

// IsAuthenticated reports whether the request carries a logged-in session
func IsAuthenticated(store *sessions.CookieStore, r *http.Request) bool {
	session, _ := store.Get(r, SessionName)
	auth, ok := session.Values[sessionAuthKey].(bool)
	return ok && auth
}

// LoginUser marks the session as authenticated for the given user
func LoginUser(store *sessions.CookieStore, c *gin.Context, user *models.User) error {
	session, _ := store.Get(c.Request, SessionName)
	session.Values[sessionAuthKey] = true
	session.Values[sessionUserKey] = user.ID
	return session.Save(c.Request, c.Writer)
}

// LogoutUser invalidates the session's identity
func LogoutUser(store *sessions.CookieStore, c *gin.Context) error {
	session, _ := store.Get(c.Request, SessionName)
	session.Values[sessionAuthKey] = false
	delete(session.Values, sessionUserKey)
	session.Options.MaxAge = -1 // expire immediately
	return session.Save(c.Request, c.Writer)
}

// GetUserID extracts the logged-in user's id from the gin context
func GetUserID(c *gin.Context) (uint, error) {
	v, exists := c.Get(contextUserKey)
	if !exists {
		return 0, fmt.Errorf("no user id in context")
	}
	uid, ok := v.(uint)
	if !ok {
		return 0, fmt.Errorf("user id in context has unexpected type %T", v)
	}
	return uid, nil
}
