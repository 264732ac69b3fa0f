package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"solar-store/maintenance"
)

var serviceTypes = []string{
	"تنظيف الألواح الشمسية",
	"فحص منظومة الطاقة الشمسية",
	"صيانة العاكس (Inverter)",
	"فحص البطاريات",
	"تركيب كاميرات مراقبة",
	"صيانة كاميرات المراقبة",
}

func (h *Handler) MaintenanceForm(c *gin.Context) {
	h.renderMaintenance(c, http.StatusOK, maintenance.Form{})
}

// BookMaintenance records a service request from the public form
func (h *Handler) BookMaintenance(c *gin.Context) {
	var form maintenance.Form
	if err := c.ShouldBind(&form); err != nil {
		h.flash(c, flashDanger, "يرجى ملء الاسم ورقم الهاتف")
		h.renderMaintenance(c, http.StatusOK, form)
		return
	}

	booking, err := maintenance.Create(c.Request.Context(), h.DB, form)
	switch {
	case errors.Is(err, maintenance.ErrMissingContact):
		h.flash(c, flashDanger, "يرجى ملء الاسم ورقم الهاتف")
		h.renderMaintenance(c, http.StatusOK, form)
		return
	case errors.Is(err, maintenance.ErrInvalidCoordinate):
		h.flash(c, flashDanger, "إحداثيات الموقع غير صحيحة")
		form.Latitude, form.Longitude = "", ""
		h.renderMaintenance(c, http.StatusOK, form)
		return
	case err != nil:
		h.serverError(c, err)
		return
	}

	h.Metrics.BookingCreated()
	h.Logger.Info("Maintenance booked", "booking_id", booking.ID, "service_type", booking.ServiceType)
	h.flash(c, flashSuccess, "تم استلام طلب الصيانة. سنتصل بك قريباً.")
	h.redirect(c, "/")
}

func (h *Handler) renderMaintenance(c *gin.Context, status int, form maintenance.Form) {
	h.render(c, status, "maintenance_booking.html", gin.H{
		"Form":         form,
		"ServiceTypes": serviceTypes,
	})
}
