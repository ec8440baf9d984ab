package middleware

import (
	"context"
	"net/http"

	"github.com/gorilla/sessions"

	"github.com/miradev/mira/internal/adminflow"
	"github.com/miradev/mira/internal/auth"
)

const (
	// SessionContextKey is the context key for the resolved account session
	SessionContextKey contextKey = "session"

	// GateContextKey is the context key for the admin gate state
	GateContextKey contextKey = "gate"

	// SessionCookieName holds the opaque account session token.
	SessionCookieName = "mira_session"

	// CartCookieName holds the opaque cart token.
	CartCookieName = "mira_cart"

	// AdminSessionName is the gorilla session holding the access gate
	// flag and flash messages.
	AdminSessionName = "mira_admin"

	// GateUnlockedKey is the admin session value set once the access
	// password has been accepted.
	GateUnlockedKey = "unlocked"
)

// WithSession resolves the account session cookie and adds the session to
// the request context. It never rejects: anonymous requests continue
// without a session.
func WithSession(provider auth.Provider) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(SessionCookieName)
			if err != nil || cookie.Value == "" {
				next.ServeHTTP(w, r)
				return
			}

			session, err := provider.GetSession(r.Context(), cookie.Value)
			if err != nil || session == nil {
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), SessionContextKey, session)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetSession retrieves the account session from the request context.
// Returns nil for anonymous requests.
func GetSession(ctx context.Context) *auth.Session {
	session, ok := ctx.Value(SessionContextKey).(*auth.Session)
	if !ok {
		return nil
	}
	return session
}

// WithGate derives the admin gate state for the request from the access
// gate flag, the account session and the role store, and stores it in the
// context. A failed role lookup is logged and resolves as Unauthorized.
// Place after WithSession and WithRequestLogger.
func WithGate(store sessions.Store, roles adminflow.RoleStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			adminSession, _ := store.Get(r, AdminSessionName)
			unlocked, _ := adminSession.Values[GateUnlockedKey].(bool)

			accountID := ""
			if session := GetSession(r.Context()); session != nil {
				accountID = session.AccountID
			}

			state, err := adminflow.ResolveGate(r.Context(), unlocked, accountID, roles)
			if err != nil {
				GetLogger(r.Context()).Error("admin role lookup failed",
					"error", err,
					"account_id", accountID,
				)
			}

			ctx := context.WithValue(r.Context(), GateContextKey, state)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetGateState retrieves the admin gate state from the request context.
// Requests outside the WithGate chain count as Locked.
func GetGateState(ctx context.Context) adminflow.GateState {
	state, ok := ctx.Value(GateContextKey).(adminflow.GateState)
	if !ok {
		return adminflow.GateLocked
	}
	return state
}

// RequireAuthorized lets only fully authorized admins through. Everyone
// else is sent to the step their gate state asks for next.
func RequireAuthorized(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch GetGateState(r.Context()) {
		case adminflow.GateAuthorized:
			next.ServeHTTP(w, r)
		case adminflow.GateUnauthorized:
			http.Redirect(w, r, "/admin/denied", http.StatusSeeOther)
		case adminflow.GateUnauthenticated:
			http.Redirect(w, r, "/admin/login", http.StatusSeeOther)
		default:
			http.Redirect(w, r, "/admin/access", http.StatusSeeOther)
		}
	})
}

// RequireUnlocked lets requests through once the access password has been
// accepted, regardless of account state. Used by the login and signup
// pages themselves.
func RequireUnlocked(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if GetGateState(r.Context()) == adminflow.GateLocked {
			http.Redirect(w, r, "/admin/access", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}
