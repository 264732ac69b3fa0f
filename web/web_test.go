package web

import (
	"io/fs"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solar-store/models"
)

func TestLoadTemplates_EveryPage(t *testing.T) {
	tc, err := LoadTemplates()
	require.NoError(t, err)

	pages := []string{
		"index.html", "calculators.html", "products.html", "offers.html", "projects.html",
		"blog.html", "cart.html", "checkout.html", "maintenance_booking.html", "login.html",
		"dashboard.html", "product_form.html", "blog_form.html", "orders.html",
		"order_detail.html", "order_confirmation.html", "my_orders.html", "bookings.html",
		"users.html", "error.html",
	}
	for _, page := range pages {
		assert.True(t, tc.Has(page), page)
	}
	assert.False(t, tc.Has("layout.html"), "the layout is not a page")
}

func TestInstance_RendersInsideLayout(t *testing.T) {
	tc, err := LoadTemplates()
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	r := tc.Instance("error.html", map[string]any{
		"Status":  404,
		"Heading": "Not found",
		"Message": "<script>nope</script>",
	})
	require.NoError(t, r.Render(rec))

	body := rec.Body.String()
	assert.Contains(t, body, "<html")
	assert.Contains(t, body, "<h1>404</h1>")
	assert.Contains(t, body, "&lt;script&gt;nope&lt;/script&gt;")
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
}

func TestInstance_UnknownPagePanics(t *testing.T) {
	tc, err := LoadTemplates()
	require.NoError(t, err)
	assert.Panics(t, func() { tc.Instance("missing.html", nil) })
}

func TestFormatPrice(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"0", "0"},
		{"950", "950"},
		{"5000", "5,000"},
		{"1250000", "1,250,000"},
		{"125000.50", "125,000.50"},
		{"99.9", "99.90"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatPrice(decimal.RequireFromString(tt.in)))
		})
	}
}

func TestFuncs(t *testing.T) {
	funcs := Funcs()

	category := funcs["category"].(func(models.Category) string)
	assert.Equal(t, "طاقة شمسية (Solar Energy)", category(models.CategorySolar))
	assert.Equal(t, "wind", category("wind"))

	status := funcs["status"].(func(any) string)
	assert.Equal(t, "جديد (New)", status(models.OrderNew))
	assert.Equal(t, "مجدول (Scheduled)", status(models.BookingScheduled))
	assert.Equal(t, "Archived", status("Archived"))

	upload := funcs["upload"].(func(string) string)
	assert.Equal(t, "/uploads/a.jpg", upload("a.jpg"))
	assert.Empty(t, upload(""))

	excerpt := funcs["excerpt"].(func(string, int) string)
	assert.Equal(t, "شمس", excerpt("  شمس  ", 10))
	assert.Equal(t, "abc…", excerpt("abcdef", 3))

	coord := funcs["coord"].(func(*float64) string)
	v := 33.315200
	assert.Equal(t, "33.3152", coord(&v))
	assert.Empty(t, coord(nil))
}

func TestStatic(t *testing.T) {
	_, err := fs.Stat(Static(), "css/site.css")
	assert.NoError(t, err)
	_, err = fs.Stat(Static(), "js/site.js")
	assert.NoError(t, err)
}
