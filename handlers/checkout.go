package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"solar-store/checkout"
	"solar-store/middleware"
	"solar-store/models"
	"solar-store/orders"
)

// CheckoutForm shows the delivery form for a non-empty cart
func (h *Handler) CheckoutForm(c *gin.Context) {
	crt, err := h.Carts.Load(c.Request)
	if err != nil {
		h.serverError(c, err)
		return
	}
	quote, err := h.Checkout.Quote(c.Request.Context(), crt)
	if err != nil {
		h.serverError(c, err)
		return
	}
	if quote.Cart.IsEmpty() {
		h.redirect(c, "/cart")
		return
	}
	user := middleware.GetUser(c)
	h.renderCheckout(c, http.StatusOK, quote, checkout.Form{CustomerName: user.DisplayName()})
}

// PlaceOrder turns the cart into an order. Validation failures re-render the form
// with what was typed; the cart is only cleared once the order is committed.
func (h *Handler) PlaceOrder(c *gin.Context) {
	var form checkout.Form
	if err := c.ShouldBind(&form); err != nil {
		h.flash(c, flashDanger, "يرجى ملء كافة الحقول")
		h.redirect(c, "/checkout")
		return
	}
	crt, err := h.Carts.Load(c.Request)
	if err != nil {
		h.serverError(c, err)
		return
	}

	user := middleware.GetUser(c)
	order, quote, err := h.Checkout.PlaceOrder(c.Request.Context(), user, crt, form)
	var fieldErr *checkout.FieldError
	switch {
	case err == nil:
	case errors.Is(err, checkout.ErrEmptyCart):
		h.redirect(c, "/cart")
		return
	case errors.As(err, &fieldErr):
		if fieldErr.Field == "delivery_date" && fieldErr.Reason != "required" {
			h.flash(c, flashDanger, "صيغة التاريخ غير صحيحة")
		} else {
			h.flash(c, flashDanger, "يرجى ملء كافة الحقول")
		}
		h.renderCheckout(c, http.StatusOK, quote, form)
		return
	case errors.Is(err, checkout.ErrDeliveryTooSoon):
		h.flash(c, flashWarning, "التاريخ يجب أن يكون بعد يومين على الأقل")
		h.renderCheckout(c, http.StatusOK, quote, form)
		return
	default:
		h.serverError(c, err)
		return
	}

	if err := h.Carts.Clear(c.Writer, c.Request); err != nil {
		h.Logger.Error("Failed to clear cart after order", "order_id", order.ID, "error", err)
	}
	h.Metrics.OrderPlaced()
	h.Logger.Info("Order placed", "order_id", order.ID, "user_id", user.ID, "total", order.TotalPrice.String())
	h.flash(c, flashSuccess, "تم استلام طلبك بنجاح!")
	h.redirect(c, "/orders/"+strconv.FormatUint(uint64(order.ID), 10))
}

func (h *Handler) renderCheckout(c *gin.Context, status int, quote *checkout.Quote, form checkout.Form) {
	h.render(c, status, "checkout.html", gin.H{
		"Quote":   quote,
		"Form":    form,
		"MinDate": h.Checkout.EarliestDeliveryDate().Format(checkout.DateLayout),
	})
}

// OrderConfirmation shows one order to its owner or to staff
func (h *Handler) OrderConfirmation(c *gin.Context) {
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
	if !canView(middleware.GetUser(c), order) {
		h.forbidden(c)
		return
	}
	h.render(c, http.StatusOK, "order_confirmation.html", gin.H{"Order": order})
}

// MyOrders lists the caller's own orders
func (h *Handler) MyOrders(c *gin.Context) {
	list, err := orders.ListForUser(c.Request.Context(), h.DB, middleware.GetUser(c).ID)
	if err != nil {
		h.serverError(c, err)
		return
	}
	h.render(c, http.StatusOK, "my_orders.html", gin.H{"Orders": list})
}

func canView(user *models.User, order *models.Order) bool {
	if user == nil {
		return false
	}
	if user.Role.IsStaff() {
		return true
	}
	return order.UserID != nil && *order.UserID == user.ID
}
