// Package auth guards the pages that need a signed-in user.
package auth

import (
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/kickit-app/kickit/internal/session"
	"github.com/kickit-app/kickit/pkg/kickit"
)

// Context keys set by the guard.
const (
	ContextKeyStore = "session_store"
	ContextKeyUser  = "user"
)

// Paths the guard redirects to.
const (
	SignInPath    = "/signin"
	DashboardPath = "/dashboard"
)

// Decision is the outcome of evaluating a session for a protected page.
type Decision int

const (
	// DecisionWait renders the loading placeholder.
	DecisionWait Decision = iota
	// DecisionRedirect sends the visitor to the sign-in page.
	DecisionRedirect
	// DecisionAllow renders the protected page.
	DecisionAllow
)

// Evaluate maps the session state onto what a protected page should do.
func Evaluate(store *session.Store) Decision {
	switch store.State() {
	case session.StateAuthenticated:
		return DecisionAllow
	case session.StateUnauthenticated:
		return DecisionRedirect
	default:
		return DecisionWait
	}
}

// Store returns the session store of the request, restoring it from the
// session cookie on first use.
func Store(c *gin.Context) *session.Store {
	if v, ok := c.Get(ContextKeyStore); ok {
		if store, ok := v.(*session.Store); ok {
			return store
		}
	}

	storage := session.NewCookieStorage(sessions.Default(c))
	store := session.New(storage)
	if err := store.Restore(); err != nil {
		// the store stays loading for this request, the next one starts clean
		log.Error("failed to restore session, discarding it", "error", err)
		if err := storage.Delete(session.KeyToken, session.KeyUser); err != nil {
			log.Error("failed to discard session", "error", err)
		}
	}
	c.Set(ContextKeyStore, store)
	return store
}

// User returns the signed-in user set by RequireAuth.
func User(c *gin.Context) (kickit.User, bool) {
	v, ok := c.Get(ContextKeyUser)
	if !ok {
		return kickit.User{}, false
	}
	user, ok := v.(kickit.User)
	return user, ok
}

// RequireAuth lets authenticated requests through. Unauthenticated visitors
// are redirected to the sign-in page and a session that could not be read
// yet gets the loading page.
func RequireAuth(loading gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		store := Store(c)
		switch Evaluate(store) {
		case DecisionAllow:
			user, _ := store.User()
			c.Set(ContextKeyUser, user)
			c.Next()
		case DecisionRedirect:
			c.Redirect(http.StatusFound, SignInPath)
			c.Abort()
		default:
			loading(c)
			c.Abort()
		}
	}
}

// RedirectIfAuthenticated sends signed-in users away from the auth forms.
func RedirectIfAuthenticated() gin.HandlerFunc {
	return func(c *gin.Context) {
		if Evaluate(Store(c)) == DecisionAllow {
			c.Redirect(http.StatusFound, DashboardPath)
			c.Abort()
			return
		}
		c.Next()
	}
}
