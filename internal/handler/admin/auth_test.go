package admin

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/miradev/mira/internal/adminflow"
	"github.com/miradev/mira/internal/auth"
	"github.com/miradev/mira/internal/domain"
	"github.com/miradev/mira/internal/middleware"
)

func sessionCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == middleware.SessionCookieName {
			return c
		}
	}
	return nil
}

func TestSubmitAccess(t *testing.T) {
	t.Run("correct password unlocks the gate", func(t *testing.T) {
		env := newTestEnv(t)

		req := postForm("/admin/access", url.Values{"password": {testAccessPassword}})
		rec := httptest.NewRecorder()
		env.handler.SubmitAccess(rec, req)

		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/admin/products", rec.Header().Get("Location"))
		assert.NotEmpty(t, rec.Result().Cookies(), "unlock flag should be saved to the browser session")
	})

	t.Run("wrong password re-renders the form", func(t *testing.T) {
		env := newTestEnv(t)

		req := postForm("/admin/access", url.Values{"password": {"nope"}})
		rec := httptest.NewRecorder()
		env.handler.SubmitAccess(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), accessDeniedMessage)
		assert.Empty(t, rec.Result().Cookies())
	})
}

func TestShowAccess(t *testing.T) {
	env := newTestEnv(t)

	t.Run("locked browser sees the password form", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/admin/access", nil)
		rec := httptest.NewRecorder()
		env.handler.ShowAccess(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `action="/admin/access"`)
	})

	t.Run("unlocked browser is sent onward", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/admin/access", nil)
		ctx := context.WithValue(req.Context(), middleware.GateContextKey, adminflow.GateUnauthenticated)
		rec := httptest.NewRecorder()
		env.handler.ShowAccess(rec, req.WithContext(ctx))

		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/admin/products", rec.Header().Get("Location"))
	})
}

func TestSubmitLogin(t *testing.T) {
	t.Run("valid credentials open a session", func(t *testing.T) {
		env := newTestEnv(t)
		env.provider.signInFunc = func(ctx context.Context, email, password string) (*auth.Session, error) {
			assert.Equal(t, "admin@example.com", email)
			assert.Equal(t, "correct-horse", password)
			return &auth.Session{
				Token:     testSessionToken,
				AccountID: "acct-1",
				Email:     email,
				ExpiresAt: time.Now().Add(time.Hour),
			}, nil
		}

		req := postForm("/admin/login", url.Values{
			"email":    {"admin@example.com"},
			"password": {"correct-horse"},
		})
		rec := httptest.NewRecorder()
		env.handler.SubmitLogin(rec, req)

		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/admin/products", rec.Header().Get("Location"))

		cookie := sessionCookie(rec)
		require.NotNil(t, cookie)
		assert.Equal(t, testSessionToken, cookie.Value)
		assert.True(t, cookie.HttpOnly)
	})

	t.Run("rejected credentials keep the email and show one message", func(t *testing.T) {
		env := newTestEnv(t)
		env.provider.signInFunc = func(ctx context.Context, email, password string) (*auth.Session, error) {
			return nil, auth.ErrInvalidCredentials
		}

		req := postForm("/admin/login", url.Values{
			"email":    {"admin@example.com"},
			"password": {"wrong"},
		})
		rec := httptest.NewRecorder()
		env.handler.SubmitLogin(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), "Invalid login credentials")
		assert.Contains(t, rec.Body.String(), `value="admin@example.com"`)
		assert.Nil(t, sessionCookie(rec))
	})
}

func TestShowLogin(t *testing.T) {
	env := newTestEnv(t)

	t.Run("anonymous request renders the form", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/admin/login", nil)
		rec := httptest.NewRecorder()
		env.handler.ShowLogin(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `action="/admin/login"`)
	})

	t.Run("signed-in account skips the form", func(t *testing.T) {
		req := withSession(httptest.NewRequest(http.MethodGet, "/admin/login", nil))
		rec := httptest.NewRecorder()
		env.handler.ShowLogin(rec, req)

		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/admin/products", rec.Header().Get("Location"))
	})
}

func TestSubmitSignup(t *testing.T) {
	t.Run("new account is signed in immediately", func(t *testing.T) {
		env := newTestEnv(t)
		env.provider.signUpFunc = func(ctx context.Context, email, password, redirectTarget string) (*auth.Session, error) {
			assert.Equal(t, "/admin/products", redirectTarget)
			return &auth.Session{
				Token:     testSessionToken,
				AccountID: "acct-1",
				Email:     email,
				ExpiresAt: time.Now().Add(time.Hour),
			}, nil
		}

		req := postForm("/admin/signup", url.Values{
			"email":    {"new@example.com"},
			"password": {"longenough"},
		})
		rec := httptest.NewRecorder()
		env.handler.SubmitSignup(rec, req)

		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/admin/products", rec.Header().Get("Location"))
		require.NotNil(t, sessionCookie(rec))
	})

	t.Run("duplicate email re-renders with the conflict", func(t *testing.T) {
		env := newTestEnv(t)
		env.provider.signUpFunc = func(ctx context.Context, email, password, redirectTarget string) (*auth.Session, error) {
			return nil, auth.ErrEmailTaken
		}

		req := postForm("/admin/signup", url.Values{
			"email":    {"taken@example.com"},
			"password": {"longenough"},
		})
		rec := httptest.NewRecorder()
		env.handler.SubmitSignup(rec, req)

		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Contains(t, rec.Body.String(), "already registered")
		assert.Contains(t, rec.Body.String(), `value="taken@example.com"`)
	})

	t.Run("short password is rejected before any account exists", func(t *testing.T) {
		env := newTestEnv(t)
		env.provider.signUpFunc = func(ctx context.Context, email, password, redirectTarget string) (*auth.Session, error) {
			return nil, domain.Invalid("auth.signup", "Password must be at least 8 characters")
		}

		req := postForm("/admin/signup", url.Values{
			"email":    {"new@example.com"},
			"password": {"short"},
		})
		rec := httptest.NewRecorder()
		env.handler.SubmitSignup(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "at least 8 characters")
	})
}

func TestLogout(t *testing.T) {
	env := newTestEnv(t)

	var signedOutToken string
	env.provider.signOutFunc = func(ctx context.Context, token string) error {
		signedOutToken = token
		return nil
	}

	// Leave a wizard open so sign-out has something to discard.
	wiz := env.wizards.Get(testSessionToken)
	require.NoError(t, wiz.StartCreate())

	req := postForm("/admin/logout", url.Values{})
	req.AddCookie(&http.Cookie{Name: middleware.SessionCookieName, Value: testSessionToken})
	rec := httptest.NewRecorder()
	env.handler.Logout(rec, req)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/admin/login", rec.Header().Get("Location"))
	assert.Equal(t, testSessionToken, signedOutToken)

	cookie := sessionCookie(rec)
	require.NotNil(t, cookie)
	assert.Empty(t, cookie.Value)
	assert.Negative(t, cookie.MaxAge)

	// A fresh wizard replaces the dropped one.
	assert.Equal(t, adminflow.WizardIdle, env.wizards.Get(testSessionToken).State())
}

func TestSettings(t *testing.T) {
	t.Run("shows the saved number", func(t *testing.T) {
		env := newTestEnv(t)
		env.settings.getFunc = func(ctx context.Context, key string) (string, error) {
			assert.Equal(t, domain.SettingWhatsAppNumber, key)
			return "967700000001", nil
		}

		req := withSession(httptest.NewRequest(http.MethodGet, "/admin/settings", nil))
		rec := httptest.NewRecorder()
		env.handler.ShowSettings(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "967700000001")
	})

	t.Run("falls back while nothing is saved", func(t *testing.T) {
		env := newTestEnv(t)

		req := withSession(httptest.NewRequest(http.MethodGet, "/admin/settings", nil))
		rec := httptest.NewRecorder()
		env.handler.ShowSettings(rec, req)

		assert.Contains(t, rec.Body.String(), testFallbackNumber)
	})

	t.Run("saves a trimmed number", func(t *testing.T) {
		env := newTestEnv(t)

		var savedKey, savedValue string
		env.settings.setFunc = func(ctx context.Context, key, value string) error {
			savedKey, savedValue = key, value
			return nil
		}

		req := withSession(postForm("/admin/settings", url.Values{"whatsapp_number": {"  967700000002  "}}))
		rec := httptest.NewRecorder()
		env.handler.SubmitSettings(rec, req)

		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/admin/settings", rec.Header().Get("Location"))
		assert.Equal(t, domain.SettingWhatsAppNumber, savedKey)
		assert.Equal(t, "967700000002", savedValue)
	})

	t.Run("empty number is rejected", func(t *testing.T) {
		env := newTestEnv(t)

		called := false
		env.settings.setFunc = func(ctx context.Context, key, value string) error {
			called = true
			return nil
		}

		req := withSession(postForm("/admin/settings", url.Values{"whatsapp_number": {"   "}}))
		rec := httptest.NewRecorder()
		env.handler.SubmitSettings(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.False(t, called)
	})
}
