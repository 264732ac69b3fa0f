package handlers_test

import (
	"bytes"
	"image"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solar-store/models"
	"solar-store/testutil"
)

func TestDashboard_RoleGate(t *testing.T) {
	app := newTestApp(t)
	customer, _ := app.loggedIn("customer", models.RoleCustomer)
	staff, _ := app.loggedIn("staff", models.RoleStaff)
	admin, _ := app.loggedIn("admin", models.RoleAdmin)
	anonymous := app.client()

	tests := []struct {
		name   string
		client *client
		path   string
		want   int
	}{
		{"anonymous dashboard", anonymous, "/dashboard", http.StatusSeeOther},
		{"customer dashboard", customer, "/dashboard", http.StatusForbidden},
		{"staff dashboard", staff, "/dashboard", http.StatusOK},
		{"admin dashboard", admin, "/dashboard", http.StatusOK},
		{"customer add form", customer, "/dashboard/add", http.StatusForbidden},
		{"staff orders", staff, "/dashboard/orders", http.StatusOK},
		{"staff bookings", staff, "/dashboard/bookings", http.StatusOK},
		{"staff users", staff, "/dashboard/users", http.StatusForbidden},
		{"admin users", admin, "/dashboard/users", http.StatusOK},
		{"anonymous users", anonymous, "/dashboard/users", http.StatusSeeOther},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := tt.client.get(tt.path)
			assert.Equal(t, tt.want, rec.Code)
			if tt.want == http.StatusForbidden {
				assert.Contains(t, rec.Body.String(), "403")
			}
		})
	}
}

func TestDashboard_Counts(t *testing.T) {
	app := newTestApp(t)
	testutil.CreateProduct(t, app.db, "Inverter 5kW", 900000)
	require.NoError(t, app.db.Create(&models.MaintenanceBooking{CustomerName: "Omar", PhoneNumber: "0770", Status: models.BookingPending}).Error)
	staff, _ := app.loggedIn("staff", models.RoleStaff)

	rec := staff.get("/dashboard")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Inverter 5kW")
}

func productForm(name, price string) url.Values {
	return url.Values{
		"name":             {name},
		"description":      {"Monocrystalline 550W"},
		"category":         {"solar"},
		"price":            {price},
		"stock":            {"4"},
		"is_special_offer": {"true"},
	}
}

func countProducts(t *testing.T, app *testApp) int64 {
	var n int64
	require.NoError(t, app.db.Model(&models.Product{}).Count(&n).Error)
	return n
}

func TestAddProduct(t *testing.T) {
	app := newTestApp(t)
	staff, _ := app.loggedIn("staff", models.RoleStaff)

	rec := staff.post("/dashboard/add", productForm("Jinko 550W", "125000.50"))
	require.Equal(t, http.StatusSeeOther, rec.Code, rec.Body.String())
	assert.Equal(t, "/dashboard", rec.Header().Get("Location"))

	var p models.Product
	require.NoError(t, app.db.First(&p).Error)
	assert.Equal(t, "Jinko 550W", p.Name)
	assert.Equal(t, "125000.5", p.Price.String())
	assert.Equal(t, 4, p.Stock)
	assert.True(t, p.IsSpecialOffer)
	assert.Empty(t, p.ImageFilename)

	assert.Contains(t, app.client().get("/offers").Body.String(), "Jinko 550W")
}

func TestAddProduct_InvalidInputChangesNothing(t *testing.T) {
	app := newTestApp(t)
	staff, _ := app.loggedIn("staff", models.RoleStaff)

	bad := map[string]url.Values{
		"short name":      productForm("X", "100"),
		"negative price":  productForm("Panel", "-1"),
		"garbage price":   productForm("Panel", "cheap"),
		"missing price":   productForm("Panel", ""),
		"unknown category": func() url.Values {
			f := productForm("Panel", "100")
			f.Set("category", "wind")
			return f
		}(),
		"negative stock": func() url.Values {
			f := productForm("Panel", "100")
			f.Set("stock", "-3")
			return f
		}(),
	}
	for name, form := range bad {
		t.Run(name, func(t *testing.T) {
			rec := staff.post("/dashboard/add", form)
			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Contains(t, rec.Body.String(), "يرجى التحقق من بيانات المنتج")
		})
	}
	assert.Zero(t, countProducts(t, app))
}

func TestAddProduct_ForbiddenForCustomer(t *testing.T) {
	app := newTestApp(t)
	customer, _ := app.loggedIn("customer", models.RoleCustomer)

	rec := customer.post("/dashboard/add", productForm("Panel", "100"))
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Zero(t, countProducts(t, app))
}

func multipartProduct(t *testing.T, form url.Values, img image.Image) (*bytes.Buffer, string) {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for k, vs := range form {
		for _, v := range vs {
			require.NoError(t, w.WriteField(k, v))
		}
	}
	part, err := w.CreateFormFile("image", "panel.png")
	require.NoError(t, err)
	require.NoError(t, png.Encode(part, img))
	require.NoError(t, w.Close())
	return &body, w.FormDataContentType()
}

func TestAddProduct_WithImage(t *testing.T) {
	app := newTestApp(t)
	staff, _ := app.loggedIn("staff", models.RoleStaff)

	body, contentType := multipartProduct(t, productForm("Camera Kit", "80000"), image.NewRGBA(image.Rect(0, 0, 1200, 600)))
	req := httptest.NewRequest(http.MethodPost, "/dashboard/add", body)
	req.Header.Set("Content-Type", contentType)
	rec := staff.do(req)
	require.Equal(t, http.StatusSeeOther, rec.Code, rec.Body.String())

	var p models.Product
	require.NoError(t, app.db.First(&p).Error)
	require.NotEmpty(t, p.ImageFilename)
	assert.Equal(t, ".jpg", filepath.Ext(p.ImageFilename))

	f, err := os.Open(filepath.Join(app.handler.Uploads.Dir, p.ImageFilename))
	require.NoError(t, err)
	defer f.Close()
	cfg, _, err := image.DecodeConfig(f)
	require.NoError(t, err)
	assert.Equal(t, 800, cfg.Width)
	assert.Equal(t, 400, cfg.Height)

	assert.Equal(t, http.StatusOK, app.client().get("/uploads/"+p.ImageFilename).Code)
}

func TestEditProduct(t *testing.T) {
	app := newTestApp(t)
	p := testutil.CreateProduct(t, app.db, "Old name", 1000)
	staff, _ := app.loggedIn("staff", models.RoleStaff)

	rec := staff.get(path("/dashboard/edit/", p.ID))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Old name")

	rec = staff.post(path("/dashboard/edit/", p.ID), productForm("New name", "2500"))
	require.Equal(t, http.StatusSeeOther, rec.Code, rec.Body.String())

	var got models.Product
	require.NoError(t, app.db.First(&got, p.ID).Error)
	assert.Equal(t, "New name", got.Name)
	assert.Equal(t, "2500", got.Price.String())

	rec = staff.post(path("/dashboard/edit/", p.ID), productForm("New name", "-5"))
	assert.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, app.db.First(&got, p.ID).Error)
	assert.Equal(t, "2500", got.Price.String(), "rejected edit leaves the row alone")

	assert.Equal(t, http.StatusNotFound, staff.get("/dashboard/edit/999").Code)
	assert.Equal(t, http.StatusNotFound, staff.post("/dashboard/edit/999", productForm("Ghost", "1")).Code)
}

func TestDeleteProduct(t *testing.T) {
	app := newTestApp(t)
	p := testutil.CreateProduct(t, app.db, "Doomed", 1000)
	staff, _ := app.loggedIn("staff", models.RoleStaff)

	rec := staff.get(path("/dashboard/delete/", p.ID))
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/dashboard", rec.Header().Get("Location"))
	assert.Zero(t, countProducts(t, app))

	assert.Equal(t, http.StatusNotFound, staff.get(path("/dashboard/delete/", p.ID)).Code)
	assert.Equal(t, http.StatusNotFound, staff.get("/dashboard/delete/abc").Code)
}

func TestCreateBlogPost(t *testing.T) {
	app := newTestApp(t)
	staff, author := app.loggedIn("writer", models.RoleStaff)

	rec := staff.post("/dashboard/blog/add", url.Values{"title": {""}, "content": {"body"}})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "يرجى ملء العنوان والمحتوى")

	rec = staff.post("/dashboard/blog/add", url.Values{"title": {"Cleaning panels"}, "content": {"Use soft water."}})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/blog", rec.Header().Get("Location"))

	var post models.BlogPost
	require.NoError(t, app.db.First(&post).Error)
	assert.Equal(t, author.ID, post.AuthorID)

	body := app.client().get("/blog").Body.String()
	assert.Contains(t, body, "Cleaning panels")
	assert.Contains(t, body, "writer")
}
