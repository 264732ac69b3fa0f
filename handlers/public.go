package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"solar-store/catalog"
	"solar-store/models"
	"solar-store/statemachine"
)

const homeOffers = 6

// Index is the home page with the latest special offers
func (h *Handler) Index(c *gin.Context) {
	offers, err := catalog.SpecialOffers(c.Request.Context(), h.DB, homeOffers)
	if err != nil {
		h.serverError(c, err)
		return
	}
	h.render(c, http.StatusOK, "index.html", gin.H{"Offers": offers})
}

func (h *Handler) Calculators(c *gin.Context) {
	h.render(c, http.StatusOK, "calculators.html", nil)
}

// Products lists the catalog, optionally narrowed by ?category=. An unknown
// category yields an empty list rather than an error.
func (h *Handler) Products(c *gin.Context) {
	category := c.Query("category")
	products, err := catalog.ListProducts(c.Request.Context(), h.DB, models.Category(category))
	if err != nil {
		h.serverError(c, err)
		return
	}
	h.render(c, http.StatusOK, "products.html", gin.H{
		"Products":   products,
		"Category":   category,
		"Categories": models.Categories,
	})
}

func (h *Handler) Offers(c *gin.Context) {
	products, err := catalog.SpecialOffers(c.Request.Context(), h.DB, 0)
	if err != nil {
		h.serverError(c, err)
		return
	}
	h.render(c, http.StatusOK, "offers.html", gin.H{"Products": products})
}

func (h *Handler) Projects(c *gin.Context) {
	projects, err := catalog.ListProjects(c.Request.Context(), h.DB)
	if err != nil {
		h.serverError(c, err)
		return
	}
	h.render(c, http.StatusOK, "projects.html", gin.H{"Projects": projects})
}

func (h *Handler) Blog(c *gin.Context) {
	posts, err := catalog.ListBlogPosts(c.Request.Context(), h.DB)
	if err != nil {
		h.serverError(c, err)
		return
	}
	h.render(c, http.StatusOK, "blog.html", gin.H{"Posts": posts})
}

// Workflow returns the order and booking state machines for the dashboard docs
func (h *Handler) Workflow(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"orders":   statemachine.Orders.Transitions(),
		"bookings": statemachine.Bookings.Transitions(),
	})
}
