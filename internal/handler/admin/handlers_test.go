package admin

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/sessions"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/miradev/mira/internal/adminflow"
	"github.com/miradev/mira/internal/auth"
	"github.com/miradev/mira/internal/catalog"
	"github.com/miradev/mira/internal/domain"
	"github.com/miradev/mira/internal/handler"
	"github.com/miradev/mira/internal/middleware"
)

const (
	testAccessPassword = "open-sesame"
	testFallbackNumber = "967773226263"
	testSessionToken   = "session-token-1"
)

// mockProvider implements auth.Provider with configurable functions
type mockProvider struct {
	signInFunc     func(ctx context.Context, email, password string) (*auth.Session, error)
	signUpFunc     func(ctx context.Context, email, password, redirectTarget string) (*auth.Session, error)
	signOutFunc    func(ctx context.Context, token string) error
	getSessionFunc func(ctx context.Context, token string) (*auth.Session, error)
}

func (m *mockProvider) SignIn(ctx context.Context, email, password string) (*auth.Session, error) {
	if m.signInFunc != nil {
		return m.signInFunc(ctx, email, password)
	}
	return nil, auth.ErrInvalidCredentials
}

func (m *mockProvider) SignUp(ctx context.Context, email, password, redirectTarget string) (*auth.Session, error) {
	if m.signUpFunc != nil {
		return m.signUpFunc(ctx, email, password, redirectTarget)
	}
	return nil, auth.ErrEmailTaken
}

func (m *mockProvider) SignOut(ctx context.Context, token string) error {
	if m.signOutFunc != nil {
		return m.signOutFunc(ctx, token)
	}
	return nil
}

func (m *mockProvider) GetSession(ctx context.Context, token string) (*auth.Session, error) {
	if m.getSessionFunc != nil {
		return m.getSessionFunc(ctx, token)
	}
	return nil, nil
}

func (m *mockProvider) Subscribe(fn func(auth.Change)) func() {
	return func() {}
}

// mockProductStore implements domain.ProductStore with configurable functions
type mockProductStore struct {
	listCalls  int
	listFunc   func(ctx context.Context) ([]domain.Product, error)
	getFunc    func(ctx context.Context, id string) (*domain.Product, error)
	createFunc func(ctx context.Context, params domain.ProductParams) (*domain.Product, error)
	updateFunc func(ctx context.Context, id string, params domain.ProductParams) error
	deleteFunc func(ctx context.Context, id string) error
}

func (m *mockProductStore) ListProducts(ctx context.Context) ([]domain.Product, error) {
	m.listCalls++
	if m.listFunc != nil {
		return m.listFunc(ctx)
	}
	return nil, nil
}

func (m *mockProductStore) ListInStockProducts(ctx context.Context) ([]domain.Product, error) {
	return nil, nil
}

func (m *mockProductStore) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	if m.getFunc != nil {
		return m.getFunc(ctx, id)
	}
	return nil, domain.ErrProductNotFound
}

func (m *mockProductStore) CreateProduct(ctx context.Context, params domain.ProductParams) (*domain.Product, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, params)
	}
	p := domain.Product{Name: params.Name, Price: params.Price, InStock: params.InStock}
	return &p, nil
}

func (m *mockProductStore) UpdateProduct(ctx context.Context, id string, params domain.ProductParams) error {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, id, params)
	}
	return nil
}

func (m *mockProductStore) DeleteProduct(ctx context.Context, id string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}

// mockSettingsStore implements domain.SettingsStore with configurable functions
type mockSettingsStore struct {
	getFunc func(ctx context.Context, key string) (string, error)
	setFunc func(ctx context.Context, key, value string) error
}

func (m *mockSettingsStore) GetSetting(ctx context.Context, key string) (string, error) {
	if m.getFunc != nil {
		return m.getFunc(ctx, key)
	}
	return "", domain.ErrSettingNotFound
}

func (m *mockSettingsStore) SetSetting(ctx context.Context, key, value string) error {
	if m.setFunc != nil {
		return m.setFunc(ctx, key, value)
	}
	return nil
}

// mockStorage implements storage.Storage with configurable functions
type mockStorage struct {
	putFunc func(ctx context.Context, key string, content io.Reader, contentType string) (string, error)
}

func (m *mockStorage) Put(ctx context.Context, key string, content io.Reader, contentType string) (string, error) {
	if m.putFunc != nil {
		return m.putFunc(ctx, key, content, contentType)
	}
	return "/uploads/" + key, nil
}

func (m *mockStorage) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	return nil, nil
}

func (m *mockStorage) Delete(ctx context.Context, key string) error { return nil }

func (m *mockStorage) URL(key string) string { return "/uploads/" + key }

func (m *mockStorage) Exists(ctx context.Context, key string) (bool, error) { return false, nil }

// testEnv bundles a handler with the mocks behind it.
type testEnv struct {
	handler  *Handler
	provider *mockProvider
	products *mockProductStore
	settings *mockSettingsStore
	storage  *mockStorage
	wizards  *adminflow.Wizards
	feed     *catalog.Feed
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	renderer, err := handler.NewRenderer("../../../web/templates")
	require.NoError(t, err)

	env := &testEnv{
		provider: &mockProvider{},
		products: &mockProductStore{},
		settings: &mockSettingsStore{},
		storage:  &mockStorage{},
		wizards:  adminflow.NewWizards(),
	}
	env.feed = catalog.NewFeed(env.products)

	sessionStore := sessions.NewCookieStore([]byte("test-secret"))
	env.handler = NewHandler(env.provider, env.wizards, env.products, env.feed,
		env.settings, env.storage, sessionStore, renderer,
		testAccessPassword, testFallbackNumber, false)
	return env
}

// withSession attaches a signed-in account session to the request context,
// the way WithSession does in the live middleware chain.
func withSession(req *http.Request) *http.Request {
	session := &auth.Session{
		Token:     testSessionToken,
		AccountID: "7f9c2c43-0000-0000-0000-000000000001",
		Email:     "admin@example.com",
		ExpiresAt: time.Now().Add(time.Hour),
	}
	ctx := context.WithValue(req.Context(), middleware.SessionContextKey, session)
	return req.WithContext(ctx)
}

func postForm(path string, form url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

// multipartUpload builds a multipart POST with one image file field.
func multipartUpload(t *testing.T, path, filename string) *http.Request {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("image", filename)
	require.NoError(t, err)
	_, err = part.Write([]byte("fake image bytes"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func testProduct(idByte byte, name string, price string, inStock bool) domain.Product {
	var id pgtype.UUID
	id.Bytes[15] = idByte
	id.Valid = true

	return domain.Product{
		ID:      id,
		Name:    name,
		Price:   decimal.RequireFromString(price),
		InStock: inStock,
	}
}
