package routes

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/render"

	"solar-store/handlers"
	"solar-store/middleware"
	"solar-store/web"
)

// NewRouter builds the engine with the global middleware chain, asset routes and
// the page routes. uploadDir may be empty to skip serving uploads.
func NewRouter(h *handlers.Handler, templates render.HTMLRender, metricsHandler http.Handler, uploadDir string) *gin.Engine {
	r := gin.New()
	r.HTMLRender = templates
	r.Use(
		middleware.RequestLogger(h.Logger),
		gin.CustomRecovery(func(c *gin.Context, recovered any) {
			h.Logger.Error("Panic recovered", "path", c.Request.URL.Path, "panic", fmt.Sprint(recovered))
			h.RenderStatus(c, http.StatusInternalServerError)
			c.Abort()
		}),
		middleware.Metrics(h.Metrics),
		middleware.SecurityHeaders(),
		middleware.ErrorPages(h.RenderStatus),
		middleware.CurrentUser(h.DB, h.Sessions, h.Logger),
	)

	r.StaticFS("/static", http.FS(web.Static()))
	if uploadDir != "" {
		r.Static("/uploads", uploadDir)
	}
	SetupRoutes(r, h, metricsHandler)
	return r
}
