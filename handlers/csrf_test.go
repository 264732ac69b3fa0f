package handlers_test

import (
	"net/http"
	"net/url"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solar-store/middleware"
	"solar-store/models"
)

var csrfInput = regexp.MustCompile(`name="` + regexp.QuoteMeta(middleware.CSRFFieldName) + `" value="([^"]+)"`)

// formToken loads path and returns the token from the rendered hidden field.
func (c *client) formToken(t *testing.T, path string) string {
	t.Helper()
	rec := c.get(path)
	require.Equal(t, http.StatusOK, rec.Code)
	m := csrfInput.FindStringSubmatch(rec.Body.String())
	require.Len(t, m, 2, "page renders the csrf field")
	return m[1]
}

func loginValues(token string) url.Values {
	v := url.Values{"username": {"boss"}, "password": {"pw-boss"}}
	if token != "" {
		v.Set(middleware.CSRFFieldName, token)
	}
	return v
}

func TestCSRF_RejectsFormWithoutToken(t *testing.T) {
	app := newCSRFApp(t)
	app.createAccount("boss", "pw-boss", models.RoleAdmin)
	c := app.client()
	c.formToken(t, "/login")

	rec := c.post("/login", loginValues(""))
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, http.StatusSeeOther, c.get("/my-orders").Code, "not logged in")
}

func TestCSRF_AcceptsRenderedTokenOverPlainHTTP(t *testing.T) {
	app := newCSRFApp(t)
	app.createAccount("boss", "pw-boss", models.RoleAdmin)
	c := app.client()

	token := c.formToken(t, "/login")
	rec := c.post("/login", loginValues(token))
	require.Equal(t, http.StatusSeeOther, rec.Code, rec.Body.String())
	assert.Equal(t, "/dashboard", rec.Header().Get("Location"))
	assert.Equal(t, http.StatusOK, c.get("/dashboard").Code)
}

func TestCSRF_TokenFromAnotherBrowserIsRejected(t *testing.T) {
	app := newCSRFApp(t)
	app.createAccount("boss", "pw-boss", models.RoleAdmin)
	attacker := app.client()
	victim := app.client()

	token := attacker.formToken(t, "/login")
	victim.formToken(t, "/login")
	assert.Equal(t, http.StatusForbidden, victim.post("/login", loginValues(token)).Code)
}

func TestCSRF_RejectsCrossOrigin(t *testing.T) {
	app := newCSRFApp(t)
	app.createAccount("boss", "pw-boss", models.RoleAdmin)
	c := app.client()
	token := c.formToken(t, "/login")

	req := newPost("/login", loginValues(token))
	req.Header.Set("Origin", "http://evil.example")
	assert.Equal(t, http.StatusForbidden, c.do(req).Code)

	req = newPost("/login", loginValues(token))
	req.Header.Set("Origin", "http://example.com")
	assert.Equal(t, http.StatusSeeOther, c.do(req).Code)
}

func TestCSRF_SafeMethodsPass(t *testing.T) {
	app := newCSRFApp(t)
	p := app.client()
	assert.Equal(t, http.StatusOK, p.get("/products").Code)
	assert.Equal(t, http.StatusOK, p.get("/health").Code)
}
