package handlers_test

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solar-store/models"
)

// seedOrder stores a New order of 2 × 10000 with 5000 delivery.
func seedOrder(t *testing.T, app *testApp) *models.Order {
	t.Helper()
	order := &models.Order{
		CustomerName: "Zainab",
		PhoneNumber:  "07701234567",
		Address:      "Basra",
		DeliveryDate: fixedNow.AddDate(0, 0, 3),
		DeliveryCost: decimal.NewFromInt(5000),
		TotalPrice:   decimal.NewFromInt(25000),
		Status:       models.OrderNew,
		Items: []models.OrderItem{
			{ProductID: 1, ProductName: "Panel", Quantity: 2, PriceAtPurchase: decimal.NewFromInt(10000)},
		},
	}
	require.NoError(t, app.db.Create(order).Error)
	return order
}

func reloadOrder(t *testing.T, app *testApp, id uint) models.Order {
	t.Helper()
	var o models.Order
	require.NoError(t, app.db.Preload("StatusHistory").First(&o, id).Error)
	return o
}

func TestOrders_ListAndDetail(t *testing.T) {
	app := newTestApp(t)
	order := seedOrder(t, app)
	staff, _ := app.loggedIn("staff", models.RoleStaff)

	rec := staff.get("/dashboard/orders")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Zainab")

	rec = staff.get("/dashboard/orders?status=Completed")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "Zainab")

	rec = staff.get(staffOrderPath(order.ID))
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Panel")
	assert.Contains(t, body, "25,000")
	assert.Contains(t, body, `value="Processing"`)

	assert.Equal(t, http.StatusNotFound, staff.get("/dashboard/orders/999").Code)
}

func staffOrderPath(id uint) string {
	return path("/dashboard/orders/", id)
}

func TestUpdateOrderStatus(t *testing.T) {
	app := newTestApp(t)
	order := seedOrder(t, app)
	staff, clerk := app.loggedIn("staff", models.RoleStaff)

	rec := staff.post(staffOrderPath(order.ID)+"/status", url.Values{"status": {"Completed"}})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	got := reloadOrder(t, app, order.ID)
	assert.Equal(t, models.OrderNew, got.Status, "New cannot jump to Completed")
	assert.Empty(t, got.StatusHistory)

	rec = staff.post(staffOrderPath(order.ID)+"/status", url.Values{"status": {"Processing"}, "note": {"called customer"}})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, staffOrderPath(order.ID), rec.Header().Get("Location"))

	got = reloadOrder(t, app, order.ID)
	assert.Equal(t, models.OrderProcessing, got.Status)
	require.Len(t, got.StatusHistory, 1)
	assert.Equal(t, models.OrderNew, got.StatusHistory[0].FromStatus)
	assert.Equal(t, "called customer", got.StatusHistory[0].Note)
	require.NotNil(t, got.StatusHistory[0].ChangedBy)
	assert.Equal(t, clerk.ID, *got.StatusHistory[0].ChangedBy)

	rec = staff.post(staffOrderPath(order.ID)+"/status", url.Values{"status": {"Shipped"}})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, models.OrderProcessing, reloadOrder(t, app, order.ID).Status)

	assert.Equal(t, http.StatusNotFound, staff.post("/dashboard/orders/999/status", url.Values{"status": {"Processing"}}).Code)
}

func TestUpdateDeliveryCost(t *testing.T) {
	app := newTestApp(t)
	order := seedOrder(t, app)
	staff, _ := app.loggedIn("staff", models.RoleStaff)

	rec := staff.post(staffOrderPath(order.ID)+"/delivery", url.Values{"delivery_cost": {"7500"}})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	got := reloadOrder(t, app, order.ID)
	assert.Equal(t, "7500", got.DeliveryCost.String())
	assert.Equal(t, "27500", got.TotalPrice.String())

	for _, bad := range []string{"-1", "free", ""} {
		staff.post(staffOrderPath(order.ID)+"/delivery", url.Values{"delivery_cost": {bad}})
		assert.Equal(t, "27500", reloadOrder(t, app, order.ID).TotalPrice.String(), bad)
	}

	require.NoError(t, app.db.Model(&models.Order{}).Where("id = ?", order.ID).Update("status", models.OrderCancelled).Error)
	staff.post(staffOrderPath(order.ID)+"/delivery", url.Values{"delivery_cost": {"0"}})
	assert.Equal(t, "27500", reloadOrder(t, app, order.ID).TotalPrice.String(), "closed orders are locked")
}

func TestOrderManagement_CustomerForbidden(t *testing.T) {
	app := newTestApp(t)
	order := seedOrder(t, app)
	customer, _ := app.loggedIn("customer", models.RoleCustomer)

	assert.Equal(t, http.StatusForbidden, customer.post(staffOrderPath(order.ID)+"/status", url.Values{"status": {"Processing"}}).Code)
	assert.Equal(t, http.StatusForbidden, customer.post(staffOrderPath(order.ID)+"/delivery", url.Values{"delivery_cost": {"0"}}).Code)
	assert.Equal(t, models.OrderNew, reloadOrder(t, app, order.ID).Status)
}

func TestUpdateBookingStatus(t *testing.T) {
	app := newTestApp(t)
	booking := &models.MaintenanceBooking{CustomerName: "Omar", PhoneNumber: "0780", Status: models.BookingPending}
	require.NoError(t, app.db.Create(booking).Error)
	staff, _ := app.loggedIn("staff", models.RoleStaff)

	rec := staff.get("/dashboard/bookings")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Omar")

	statusOf := func() models.BookingStatus {
		var b models.MaintenanceBooking
		require.NoError(t, app.db.First(&b, booking.ID).Error)
		return b.Status
	}

	rec = staff.post(path("/dashboard/bookings/", booking.ID)+"/status", url.Values{"status": {"Scheduled"}})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/dashboard/bookings", rec.Header().Get("Location"))
	assert.Equal(t, models.BookingScheduled, statusOf())

	staff.post(path("/dashboard/bookings/", booking.ID)+"/status", url.Values{"status": {"Pending"}})
	assert.Equal(t, models.BookingScheduled, statusOf(), "no way back to Pending")

	staff.post(path("/dashboard/bookings/", booking.ID)+"/status", url.Values{"status": {"Completed"}})
	assert.Equal(t, models.BookingCompleted, statusOf())

	assert.NotContains(t, staff.get("/dashboard/bookings?status=Pending").Body.String(), "Omar")
	assert.Equal(t, http.StatusNotFound, staff.post("/dashboard/bookings/999/status", url.Values{"status": {"Scheduled"}}).Code)
}

func TestUpdateUserRole(t *testing.T) {
	app := newTestApp(t)
	admin, me := app.loggedIn("admin", models.RoleAdmin)
	target := app.createAccount("promoted", "pw-promoted", models.RoleCustomer)

	roleOf := func(id uint) models.UserRole {
		var u models.User
		require.NoError(t, app.db.First(&u, id).Error)
		return u.Role
	}

	rec := admin.post(path("/dashboard/users/", target.ID)+"/role", url.Values{"role": {"staff"}})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, models.RoleStaff, roleOf(target.ID))

	admin.post(path("/dashboard/users/", target.ID)+"/role", url.Values{"role": {"owner"}})
	assert.Equal(t, models.RoleStaff, roleOf(target.ID))

	rec = admin.post(path("/dashboard/users/", me.ID)+"/role", url.Values{"role": {"customer"}})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, models.RoleAdmin, roleOf(me.ID))
	assert.Contains(t, admin.get("/dashboard/users").Body.String(), "لا يمكنك تغيير دورك بنفسك")

	assert.Equal(t, http.StatusNotFound, admin.post("/dashboard/users/999/role", url.Values{"role": {"staff"}}).Code)

	promoted := app.client()
	promoted.post("/login", url.Values{"username": {"promoted"}, "password": {"pw-promoted"}})
	assert.Equal(t, http.StatusOK, promoted.get("/dashboard").Code)
	assert.Equal(t, http.StatusForbidden, promoted.post(path("/dashboard/users/", me.ID)+"/role", url.Values{"role": {"customer"}}).Code)
}

func TestWorkflowEndpoint(t *testing.T) {
	app := newTestApp(t)
	staff, _ := app.loggedIn("staff", models.RoleStaff)

	rec := staff.get("/dashboard/workflow")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"from":"New"`)
	assert.Contains(t, rec.Body.String(), `"to":"Processing"`)
}
