package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	domain "github.com/GHanamaAhmed/cancer-detection/internal/domain/appointment"
	"github.com/GHanamaAhmed/cancer-detection/internal/dto"
	"github.com/GHanamaAhmed/cancer-detection/internal/httperr"
	"github.com/GHanamaAhmed/cancer-detection/internal/middleware"
)

// ======================================================
// AVAILABILITY
// ======================================================

// MyAvailability is the doctor's own calendar: no same-day lead time.
func (h *AppointmentHandler) MyAvailability(c *gin.Context) {
	h.respondAvailability(c, domain.AvailabilityInput{
		DoctorID:         middleware.UserID(c),
		From:             c.Query("from"),
		To:               c.Query("to"),
		SelfService:      true,
		IncludeEmptyDays: c.Query("include_empty") == "true",
	})
}

// DoctorAvailability is what a patient sees when booking.
func (h *AppointmentHandler) DoctorAvailability(c *gin.Context) {
	doctorID, ok := paramID(c, "id")
	if !ok {
		return
	}

	h.respondAvailability(c, domain.AvailabilityInput{
		DoctorID:         doctorID,
		From:             c.Query("from"),
		To:               c.Query("to"),
		IncludeEmptyDays: c.Query("include_empty") == "true",
	})
}

func (h *AppointmentHandler) respondAvailability(c *gin.Context, in domain.AvailabilityInput) {
	result, err := h.availability.Execute(c.Request.Context(), in)
	if err != nil {
		httperr.Respond(c, err, "availability_failed")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"doctor_id":    result.DoctorID,
		"timezone":     result.Timezone,
		"slot_minutes": result.SlotMinutes,
		"days":         dto.NewAvailability(result.Days),
	})
}
