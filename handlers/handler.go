// Package handlers holds the gin handlers for every page of the site.
package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/csrf"
	"gorm.io/gorm"

	"solar-store/auth"
	"solar-store/cart"
	"solar-store/checkout"
	"solar-store/metrics"
	"solar-store/middleware"
	"solar-store/session"
	"solar-store/uploads"
)

// Handler carries the dependencies shared by all pages. Google is nil when
// federated login is not configured.
type Handler struct {
	DB       *gorm.DB
	Sessions *session.Manager
	Carts    cart.Store
	Checkout *checkout.Service
	Uploads  *uploads.Store
	Google   *auth.Google
	States   *auth.StateSigner
	Metrics  *metrics.Collector
	Logger   *slog.Logger
}

// Flash categories understood by the layout.
const (
	flashSuccess = "success"
	flashInfo    = "info"
	flashWarning = "warning"
	flashDanger  = "danger"
)

// render fills the layout fields every page needs and writes the page. Pending
// flashes are consumed, so the session is saved first.
func (h *Handler) render(c *gin.Context, status int, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	data["User"] = middleware.GetUser(c)
	data["Flashes"] = h.Sessions.Flashes(c.Request)
	data["CSRFField"] = csrf.TemplateField(c.Request)
	data["GoogleEnabled"] = h.Google != nil
	if crt, err := h.Carts.Load(c.Request); err == nil {
		data["CartCount"] = crt.Count()
	}
	h.saveSession(c)
	c.HTML(status, name, data)
}

func (h *Handler) flash(c *gin.Context, kind, message string) {
	h.Sessions.AddFlash(c.Request, kind, message)
}

// redirect saves the session and sends a 303.
func (h *Handler) redirect(c *gin.Context, location string) {
	h.saveSession(c)
	c.Redirect(http.StatusSeeOther, location)
}

func (h *Handler) saveSession(c *gin.Context) {
	if err := h.Sessions.Save(c.Writer, c.Request); err != nil {
		h.Logger.Error("Failed to save session", "error", err)
	}
}

var errorPages = map[int][2]string{
	http.StatusForbidden:           {"غير مسموح (Forbidden)", "ليست لديك صلاحية الوصول إلى هذه الصفحة."},
	http.StatusNotFound:            {"الصفحة غير موجودة (Not found)", "لم نتمكن من العثور على ما تبحث عنه."},
	http.StatusInternalServerError: {"خطأ في الخادم (Server error)", "حدث خطأ غير متوقع، يرجى المحاولة لاحقاً."},
}

// RenderStatus writes the error page for status.
func (h *Handler) RenderStatus(c *gin.Context, status int) {
	page, ok := errorPages[status]
	if !ok {
		page = [2]string{http.StatusText(status), ""}
	}
	h.render(c, status, "error.html", gin.H{"Status": status, "Heading": page[0], "Message": page[1]})
}

func (h *Handler) NotFound(c *gin.Context) {
	h.RenderStatus(c, http.StatusNotFound)
}

func (h *Handler) forbidden(c *gin.Context) {
	h.RenderStatus(c, http.StatusForbidden)
}

// serverError logs err and renders the 500 page.
func (h *Handler) serverError(c *gin.Context, err error) {
	_ = c.Error(err)
	h.Logger.Error("Request failed", "path", c.Request.URL.Path, "error", err)
	h.RenderStatus(c, http.StatusInternalServerError)
}

// idParam parses the :id route parameter. ok is false for anything that is not a
// positive integer, which callers treat as not found.
func idParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// Health pings the database.
func (h *Handler) Health(c *gin.Context) {
	sqlDB, err := h.DB.DB()
	if err == nil {
		err = sqlDB.PingContext(c.Request.Context())
	}
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "healthy", "service": "solar-store"})
}
