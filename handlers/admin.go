package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"solar-store/maintenance"
	"solar-store/middleware"
	"solar-store/models"
	"solar-store/orders"
	"solar-store/statemachine"
)

// ListOrders returns all orders newest first, with an optional ?status= filter (staff only)
func (h *Handler) ListOrders(c *gin.Context) {
	ctx := c.Request.Context()
	status := models.OrderStatus(c.Query("status"))
	list, err := orders.List(ctx, h.DB, orders.Filter{Status: status})
	if err != nil {
		h.serverError(c, err)
		return
	}
	summary, err := orders.Summarize(ctx, h.DB)
	if err != nil {
		h.serverError(c, err)
		return
	}
	h.render(c, http.StatusOK, "orders.html", gin.H{
		"Orders":   list,
		"Status":   string(status),
		"Statuses": models.OrderStatuses,
		"Summary":  summary,
	})
}

// OrderDetail shows items, history and the allowed next steps (staff only)
func (h *Handler) OrderDetail(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		h.NotFound(c)
		return
	}
	order, err := orders.Get(c.Request.Context(), h.DB, id)
	if errors.Is(err, orders.ErrNotFound) {
		h.NotFound(c)
		return
	}
	if err != nil {
		h.serverError(c, err)
		return
	}
	h.render(c, http.StatusOK, "order_detail.html", gin.H{
		"Order":    order,
		"Next":     statemachine.Orders.ValidTransitionsFrom(order.Status),
		"Editable": order.Status == models.OrderNew || order.Status == models.OrderProcessing,
	})
}

// UpdateOrderStatus applies a workflow transition and records it in the history
func (h *Handler) UpdateOrderStatus(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		h.NotFound(c)
		return
	}
	var req struct {
		Status string `form:"status" binding:"required"`
		Note   string `form:"note" binding:"max=255"`
	}
	back := orderPath(id)
	if err := c.ShouldBind(&req); err != nil {
		h.flash(c, flashDanger, "يرجى اختيار الحالة")
		h.redirect(c, back)
		return
	}

	user := middleware.GetUser(c)
	order, err := orders.UpdateStatus(c.Request.Context(), h.DB, id, models.OrderStatus(req.Status), user, strings.TrimSpace(req.Note))
	switch {
	case errors.Is(err, orders.ErrNotFound):
		h.NotFound(c)
		return
	case errors.Is(err, statemachine.ErrInvalidTransition), errors.Is(err, orders.ErrUnknownStatus), errors.Is(err, orders.ErrStale):
		h.Logger.Warn("Rejected order transition", "order_id", id, "to", req.Status, "error", err)
		h.flash(c, flashDanger, "لا يمكن تغيير حالة الطلب إلى "+req.Status)
		h.redirect(c, back)
		return
	case err != nil:
		h.serverError(c, err)
		return
	}
	h.Logger.Info("Order status changed", "order_id", id, "status", order.Status, "by", user.ID)
	h.flash(c, flashSuccess, "تم تحديث حالة الطلب")
	h.redirect(c, back)
}

// UpdateDeliveryCost overrides the delivery charge; the total follows
func (h *Handler) UpdateDeliveryCost(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		h.NotFound(c)
		return
	}
	back := orderPath(id)
	cost, err := decimal.NewFromString(strings.TrimSpace(c.PostForm("delivery_cost")))
	if err != nil {
		h.flash(c, flashDanger, "كلفة التوصيل غير صحيحة")
		h.redirect(c, back)
		return
	}

	_, err = orders.SetDeliveryCost(c.Request.Context(), h.DB, id, cost)
	switch {
	case errors.Is(err, orders.ErrNotFound):
		h.NotFound(c)
		return
	case errors.Is(err, orders.ErrNegativeDelivery):
		h.flash(c, flashDanger, "كلفة التوصيل غير صحيحة")
		h.redirect(c, back)
		return
	case errors.Is(err, orders.ErrDeliveryLocked):
		h.flash(c, flashWarning, "لا يمكن تعديل كلفة التوصيل لطلب مكتمل أو ملغي")
		h.redirect(c, back)
		return
	case err != nil:
		h.serverError(c, err)
		return
	}
	h.flash(c, flashSuccess, "تم تحديث كلفة التوصيل")
	h.redirect(c, back)
}

func orderPath(id uint) string {
	return "/dashboard/orders/" + strconv.FormatUint(uint64(id), 10)
}

type bookingRow struct {
	Booking *models.MaintenanceBooking
	Next    []models.BookingStatus
}

var bookingStatuses = []models.BookingStatus{models.BookingPending, models.BookingScheduled, models.BookingCompleted}

// ListBookings shows maintenance requests with their possible next steps (staff only)
func (h *Handler) ListBookings(c *gin.Context) {
	status := models.BookingStatus(c.Query("status"))
	list, err := maintenance.List(c.Request.Context(), h.DB, status)
	if err != nil {
		h.serverError(c, err)
		return
	}
	rows := make([]bookingRow, len(list))
	for i := range list {
		rows[i] = bookingRow{Booking: &list[i], Next: statemachine.Bookings.ValidTransitionsFrom(list[i].Status)}
	}
	h.render(c, http.StatusOK, "bookings.html", gin.H{
		"Rows":     rows,
		"Status":   string(status),
		"Statuses": bookingStatuses,
	})
}

func (h *Handler) UpdateBookingStatus(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		h.NotFound(c)
		return
	}
	to := models.BookingStatus(c.PostForm("status"))
	_, err := maintenance.UpdateStatus(c.Request.Context(), h.DB, id, to)
	switch {
	case errors.Is(err, maintenance.ErrNotFound):
		h.NotFound(c)
		return
	case errors.Is(err, statemachine.ErrInvalidTransition), errors.Is(err, maintenance.ErrUnknownStatus):
		h.flash(c, flashDanger, "لا يمكن تغيير حالة طلب الصيانة")
	case err != nil:
		h.serverError(c, err)
		return
	default:
		h.flash(c, flashSuccess, "تم تحديث حالة طلب الصيانة")
	}
	h.redirect(c, "/dashboard/bookings")
}

// ListUsers returns all users (admin only)
func (h *Handler) ListUsers(c *gin.Context) {
	var users []models.User
	if err := h.DB.WithContext(c.Request.Context()).Order("id").Find(&users).Error; err != nil {
		h.serverError(c, err)
		return
	}
	h.render(c, http.StatusOK, "users.html", gin.H{
		"Users": users,
		"Roles": []models.UserRole{models.RoleCustomer, models.RoleStaff, models.RoleAdmin},
	})
}

// UpdateUserRole changes another user's role (admin only). Admins cannot change
// their own role, so the last admin cannot lock everyone out.
func (h *Handler) UpdateUserRole(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		h.NotFound(c)
		return
	}
	role := models.UserRole(c.PostForm("role"))
	if !role.Valid() {
		h.flash(c, flashDanger, "دور غير معروف")
		h.redirect(c, "/dashboard/users")
		return
	}
	me := middleware.GetUser(c)
	if me.ID == id {
		h.flash(c, flashWarning, "لا يمكنك تغيير دورك بنفسك")
		h.redirect(c, "/dashboard/users")
		return
	}

	res := h.DB.WithContext(c.Request.Context()).Model(&models.User{}).Where("id = ?", id).Update("role", role)
	if res.Error != nil {
		h.serverError(c, res.Error)
		return
	}
	if res.RowsAffected == 0 {
		h.NotFound(c)
		return
	}
	h.Logger.Info("User role changed", "user_id", id, "role", role, "by", me.ID)
	h.flash(c, flashSuccess, "تم تحديث الدور")
	h.redirect(c, "/dashboard/users")
}
