package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"solar-store/handlers"
	"solar-store/middleware"
)

func SetupRoutes(r *gin.Engine, h *handlers.Handler, metricsHandler http.Handler) {
	r.NoRoute(h.NotFound)
	r.GET("/health", h.Health)
	if metricsHandler != nil {
		r.GET("/metrics", gin.WrapH(metricsHandler))
	}

	// ── Public pages ───────────────────────────────────────────────
	r.GET("/", h.Index)
	r.GET("/calculators", h.Calculators)
	r.GET("/products", h.Products)
	r.GET("/offers", h.Offers)
	r.GET("/projects", h.Projects)
	r.GET("/blog", h.Blog)
	r.GET("/maintenance", h.MaintenanceForm)
	r.POST("/maintenance", h.BookMaintenance)

	// Cart
	r.GET("/cart", h.Cart)
	r.GET("/add_to_cart/:id", h.AddToCart)
	r.GET("/remove_from_cart/:id", h.RemoveFromCart)

	// Auth
	r.GET("/login", h.LoginForm)
	r.POST("/login", h.Login)
	r.GET("/login/google", h.GoogleLogin)
	r.GET("/login/google/callback", h.GoogleCallback)

	// ── Logged-in customers ────────────────────────────────────────
	customer := r.Group("/")
	customer.Use(middleware.LoginRequired())
	{
		customer.GET("/logout", h.Logout)
		customer.GET("/checkout", h.CheckoutForm)
		customer.POST("/checkout", h.PlaceOrder)
		customer.GET("/orders/:id", h.OrderConfirmation)
		customer.GET("/my-orders", h.MyOrders)
	}

	// ── Staff dashboard ────────────────────────────────────────────
	staff := r.Group("/dashboard")
	staff.Use(middleware.StaffRequired(h.Logger))
	{
		staff.GET("", h.Dashboard)
		staff.GET("/add", h.AddProductForm)
		staff.POST("/add", h.AddProduct)
		staff.GET("/edit/:id", h.EditProductForm)
		staff.POST("/edit/:id", h.EditProduct)
		staff.GET("/delete/:id", h.DeleteProduct)

		staff.GET("/blog/add", h.BlogPostForm)
		staff.POST("/blog/add", h.CreateBlogPost)

		staff.GET("/orders", h.ListOrders)
		staff.GET("/orders/:id", h.OrderDetail)
		staff.POST("/orders/:id/status", h.UpdateOrderStatus)
		staff.POST("/orders/:id/delivery", h.UpdateDeliveryCost)

		staff.GET("/bookings", h.ListBookings)
		staff.POST("/bookings/:id/status", h.UpdateBookingStatus)

		staff.GET("/workflow", h.Workflow)
	}

	// ── Admin only ─────────────────────────────────────────────────
	admin := r.Group("/dashboard/users")
	admin.Use(middleware.AdminRequired(h.Logger))
	{
		admin.GET("", h.ListUsers)
		admin.POST("/:id/role", h.UpdateUserRole)
	}
}
