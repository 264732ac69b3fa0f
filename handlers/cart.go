package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"solar-store/cart"
	"solar-store/catalog"
)

// Cart shows the session cart priced from the current catalog
func (h *Handler) Cart(c *gin.Context) {
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
	h.render(c, http.StatusOK, "cart.html", gin.H{
		"Cart":         quote.Cart,
		"DeliveryCost": quote.DeliveryCost,
		"Total":        quote.Total,
	})
}

// AddToCart increments the product's quantity and goes back where the visitor came from
func (h *Handler) AddToCart(c *gin.Context) {
	back := backTo(c, "/products")
	id, ok := idParam(c)
	if !ok {
		h.flash(c, flashDanger, "المنتج غير موجود")
		h.redirect(c, back)
		return
	}
	if _, err := catalog.GetProduct(c.Request.Context(), h.DB, id); err != nil {
		if !errors.Is(err, catalog.ErrProductNotFound) {
			h.serverError(c, err)
			return
		}
		h.flash(c, flashDanger, "المنتج غير موجود")
		h.redirect(c, back)
		return
	}

	crt, err := h.Carts.Load(c.Request)
	if err != nil {
		h.serverError(c, err)
		return
	}
	if err := crt.Add(id); errors.Is(err, cart.ErrFull) {
		h.flash(c, flashWarning, "السلة ممتلئة، يرجى إتمام الطلب أو حذف بعض المنتجات")
		h.redirect(c, back)
		return
	}
	if err := h.Carts.Save(c.Writer, c.Request, crt); err != nil {
		h.Logger.Warn("Failed to save cart", "product_id", id, "lines", len(crt), "error", err)
		h.flash(c, flashWarning, "تعذر تحديث السلة، يرجى المحاولة مرة أخرى")
		h.redirect(c, back)
		return
	}
	h.flash(c, flashSuccess, "تم إضافة المنتج للسلة")
	h.redirect(c, back)
}

// RemoveFromCart drops the whole line for a product
func (h *Handler) RemoveFromCart(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		h.redirect(c, "/cart")
		return
	}
	crt, err := h.Carts.Load(c.Request)
	if err != nil {
		h.serverError(c, err)
		return
	}
	if crt.Remove(id) {
		if err := h.Carts.Save(c.Writer, c.Request, crt); err != nil {
			h.serverError(c, err)
			return
		}
		h.flash(c, flashInfo, "تم حذف المنتج من السلة")
	}
	h.redirect(c, "/cart")
}

// backTo returns the referring local path, or fallback.
func backTo(c *gin.Context, fallback string) string {
	ref := c.Request.Referer()
	if ref == "" {
		return fallback
	}
	if u, err := c.Request.URL.Parse(ref); err == nil && u.Host == c.Request.Host {
		return u.RequestURI()
	}
	return fallback
}
