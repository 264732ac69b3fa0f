package handlers_test

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"solar-store/auth"
	"solar-store/checkout"
	"solar-store/handlers"
	"solar-store/metrics"
	"solar-store/middleware"
	"solar-store/models"
	"solar-store/routes"
	"solar-store/session"
	"solar-store/testutil"
	"solar-store/uploads"
	"solar-store/web"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// 10 March 2026: the earliest delivery date is 12 March.
var fixedNow = time.Date(2026, time.March, 10, 9, 0, 0, 0, time.UTC)

var baseURL, _ = url.Parse("http://example.com/")

type testApp struct {
	t       *testing.T
	db      *gorm.DB
	handler *handlers.Handler
	router  *gin.Engine
	// server is what clients talk to: the router, optionally behind CSRF checks.
	server http.Handler
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	db := testutil.NewDB(t)
	templates, err := web.LoadTemplates()
	require.NoError(t, err)
	uploadDir := t.TempDir()
	store, err := uploads.NewStore(uploadDir)
	require.NoError(t, err)

	sessions := session.NewManager(session.NewCookieStore([]byte("0123456789abcdef0123456789abcdef"), false, ""))
	h := &handlers.Handler{
		DB:       db,
		Sessions: sessions,
		Carts:    sessions.Carts(),
		Checkout: checkout.NewService(db, decimal.NewFromInt(5000), checkout.WithClock(func() time.Time { return fixedNow })),
		Uploads:  store,
		States:   auth.NewStateSigner([]byte("state-key-for-tests"), 10*time.Minute),
		Metrics:  metrics.NewCollector(),
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	router := routes.NewRouter(h, templates, nil, uploadDir)
	return &testApp{t: t, db: db, handler: h, router: router, server: router}
}

var csrfKey = []byte("fedcba9876543210fedcba9876543210")

// newCSRFApp serves the router behind the same CSRF wrapper main uses, over plain http.
func newCSRFApp(t *testing.T) *testApp {
	t.Helper()
	app := newTestApp(t)
	app.server = middleware.CSRF(csrfKey, false, app.handler.Logger)(app.router)
	return app
}

// client is one browser: it carries its own cookies between requests.
type client struct {
	app *testApp
	jar *cookiejar.Jar
}

func (a *testApp) client() *client {
	jar, err := cookiejar.New(nil)
	require.NoError(a.t, err)
	return &client{app: a, jar: jar}
}

func (c *client) do(req *http.Request) *httptest.ResponseRecorder {
	for _, ck := range c.jar.Cookies(baseURL) {
		req.AddCookie(ck)
	}
	rec := httptest.NewRecorder()
	c.app.server.ServeHTTP(rec, req)
	c.jar.SetCookies(baseURL, rec.Result().Cookies())
	return rec
}

func (c *client) get(path string) *httptest.ResponseRecorder {
	return c.do(httptest.NewRequest(http.MethodGet, path, nil))
}

func (c *client) post(path string, form url.Values) *httptest.ResponseRecorder {
	return c.do(newPost(path, form))
}

func newPost(path string, form url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

// createAccount stores a user with a local password.
func (a *testApp) createAccount(username, password string, role models.UserRole) *models.User {
	a.t.Helper()
	hash, err := auth.HashPassword(password)
	require.NoError(a.t, err)
	u := &models.User{Username: &username, PasswordHash: &hash, Role: role}
	require.NoError(a.t, a.db.Create(u).Error)
	return u
}

// loggedIn returns a client that has signed in as a fresh user with role.
func (a *testApp) loggedIn(username string, role models.UserRole) (*client, *models.User) {
	a.t.Helper()
	u := a.createAccount(username, "secret-pass", role)
	c := a.client()
	rec := c.post("/login", url.Values{"username": {username}, "password": {"secret-pass"}})
	require.Equal(a.t, http.StatusSeeOther, rec.Code, rec.Body.String())
	return c, u
}

func newGet(path string) *http.Request {
	return httptest.NewRequest(http.MethodGet, path, nil)
}
