package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"solar-store/catalog"
	"solar-store/maintenance"
	"solar-store/middleware"
	"solar-store/models"
	"solar-store/orders"
	"solar-store/uploads"
)

// Dashboard lists every product with counts of work waiting for staff
func (h *Handler) Dashboard(c *gin.Context) {
	ctx := c.Request.Context()
	products, err := catalog.ListProducts(ctx, h.DB, "")
	if err != nil {
		h.serverError(c, err)
		return
	}
	summary, err := orders.Summarize(ctx, h.DB)
	if err != nil {
		h.serverError(c, err)
		return
	}
	pending, err := maintenance.CountPending(ctx, h.DB)
	if err != nil {
		h.serverError(c, err)
		return
	}
	h.render(c, http.StatusOK, "dashboard.html", gin.H{
		"Products":        products,
		"NewOrders":       summary[models.OrderNew],
		"PendingBookings": pending,
	})
}

func (h *Handler) AddProductForm(c *gin.Context) {
	h.renderProductForm(c, nil, catalog.ProductForm{Category: string(models.CategorySolar)})
}

// AddProduct creates a product from the dashboard form
func (h *Handler) AddProduct(c *gin.Context) {
	var form catalog.ProductForm
	if err := c.ShouldBind(&form); err != nil {
		h.invalidProduct(c, nil, form)
		return
	}
	var product models.Product
	if err := form.Apply(&product); err != nil {
		h.invalidProduct(c, nil, form)
		return
	}
	if !h.attachImage(c, &product.ImageFilename) {
		h.renderProductForm(c, nil, form)
		return
	}
	if err := catalog.CreateProduct(c.Request.Context(), h.DB, &product); err != nil {
		h.serverError(c, err)
		return
	}
	h.Logger.Info("Product created", "product_id", product.ID, "by", middleware.GetUser(c).ID)
	h.flash(c, flashSuccess, "تم إضافة المنتج بنجاح!")
	h.redirect(c, "/dashboard")
}

func (h *Handler) EditProductForm(c *gin.Context) {
	product, ok := h.productParam(c)
	if !ok {
		return
	}
	h.renderProductForm(c, product, catalog.FormFromProduct(product))
}

// EditProduct updates a product; a new image replaces the stored one
func (h *Handler) EditProduct(c *gin.Context) {
	product, ok := h.productParam(c)
	if !ok {
		return
	}
	var form catalog.ProductForm
	if err := c.ShouldBind(&form); err != nil {
		h.invalidProduct(c, product, form)
		return
	}
	if err := form.Apply(product); err != nil {
		h.invalidProduct(c, product, form)
		return
	}
	if !h.attachImage(c, &product.ImageFilename) {
		h.renderProductForm(c, product, form)
		return
	}
	if err := catalog.UpdateProduct(c.Request.Context(), h.DB, product); err != nil {
		h.serverError(c, err)
		return
	}
	h.Logger.Info("Product updated", "product_id", product.ID, "by", middleware.GetUser(c).ID)
	h.flash(c, flashSuccess, "تم تحديث المنتج")
	h.redirect(c, "/dashboard")
}

// DeleteProduct removes a product outright. Orders keep their item snapshots.
func (h *Handler) DeleteProduct(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		h.NotFound(c)
		return
	}
	err := catalog.DeleteProduct(c.Request.Context(), h.DB, id)
	if errors.Is(err, catalog.ErrProductNotFound) {
		h.NotFound(c)
		return
	}
	if err != nil {
		h.serverError(c, err)
		return
	}
	h.Logger.Info("Product deleted", "product_id", id, "by", middleware.GetUser(c).ID)
	h.flash(c, flashSuccess, "تم حذف المنتج")
	h.redirect(c, "/dashboard")
}

// productParam loads the :id product, rendering 404 when it does not exist.
func (h *Handler) productParam(c *gin.Context) (*models.Product, bool) {
	id, ok := idParam(c)
	if !ok {
		h.NotFound(c)
		return nil, false
	}
	product, err := catalog.GetProduct(c.Request.Context(), h.DB, id)
	if errors.Is(err, catalog.ErrProductNotFound) {
		h.NotFound(c)
		return nil, false
	}
	if err != nil {
		h.serverError(c, err)
		return nil, false
	}
	return product, true
}

func (h *Handler) invalidProduct(c *gin.Context, product *models.Product, form catalog.ProductForm) {
	h.flash(c, flashDanger, "يرجى التحقق من بيانات المنتج")
	h.renderProductForm(c, product, form)
}

func (h *Handler) renderProductForm(c *gin.Context, product *models.Product, form catalog.ProductForm) {
	data := gin.H{
		"Form":       form,
		"Product":    product,
		"Categories": models.Categories,
		"Heading":    "إضافة منتج",
		"Action":     "/dashboard/add",
	}
	if product != nil {
		data["Heading"] = "تعديل المنتج"
		data["Action"] = "/dashboard/edit/" + strconv.FormatUint(uint64(product.ID), 10)
	}
	h.render(c, http.StatusOK, "product_form.html", data)
}

// attachImage stores the optional "image" upload and points *filename at it. It
// returns false after flashing when the upload is unusable.
func (h *Handler) attachImage(c *gin.Context, filename *string) bool {
	fh, err := c.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return true
	}
	if err != nil {
		h.flash(c, flashDanger, "تعذر قراءة الصورة")
		return false
	}
	name, err := h.Uploads.SaveImage(fh)
	switch {
	case errors.Is(err, uploads.ErrTooLarge):
		h.flash(c, flashDanger, "حجم الصورة يتجاوز 10 ميغابايت")
		return false
	case errors.Is(err, uploads.ErrUnsupported):
		h.flash(c, flashDanger, "صيغة الصورة غير مدعومة")
		return false
	case err != nil:
		h.Logger.Error("Failed to store upload", "error", err)
		h.flash(c, flashDanger, "تعذر حفظ الصورة")
		return false
	}
	*filename = name
	return true
}

type BlogPostRequest struct {
	Title   string `form:"title" binding:"required,max=200"`
	Content string `form:"content" binding:"required"`
}

func (h *Handler) BlogPostForm(c *gin.Context) {
	h.render(c, http.StatusOK, "blog_form.html", gin.H{"Form": BlogPostRequest{}})
}

// CreateBlogPost publishes a post authored by the current staff member
func (h *Handler) CreateBlogPost(c *gin.Context) {
	var req BlogPostRequest
	if err := c.ShouldBind(&req); err != nil || strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.Content) == "" {
		h.flash(c, flashDanger, "يرجى ملء العنوان والمحتوى")
		h.render(c, http.StatusOK, "blog_form.html", gin.H{"Form": req})
		return
	}
	post := models.BlogPost{
		Title:    strings.TrimSpace(req.Title),
		Content:  strings.TrimSpace(req.Content),
		AuthorID: middleware.GetUser(c).ID,
	}
	if !h.attachImage(c, &post.ImageFilename) {
		h.render(c, http.StatusOK, "blog_form.html", gin.H{"Form": req})
		return
	}
	if err := catalog.CreateBlogPost(c.Request.Context(), h.DB, &post); err != nil {
		h.serverError(c, err)
		return
	}
	h.flash(c, flashSuccess, "تم نشر المقال")
	h.redirect(c, "/blog")
}
