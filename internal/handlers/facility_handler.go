package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/GHanamaAhmed/cancer-detection/internal/httperr"
	"github.com/GHanamaAhmed/cancer-detection/internal/middleware"
	"github.com/GHanamaAhmed/cancer-detection/internal/models"
	"github.com/GHanamaAhmed/cancer-detection/internal/timezone"
)

// Geocoder resolves a street address to coordinates.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (float64, float64, error)
}

type FacilityHandler struct {
	db       *gorm.DB
	geocoder Geocoder
	log      *zap.Logger
}

// NewFacilityHandler accepts a nil geocoder; addresses are then stored
// without coordinates.
func NewFacilityHandler(db *gorm.DB, geocoder Geocoder, log *zap.Logger) *FacilityHandler {
	return &FacilityHandler{db: db, geocoder: geocoder, log: log}
}

type UpdateFacilityRequest struct {
	Name     *string `json:"name,omitempty"`
	Slug     *string `json:"slug,omitempty"`
	Phone    *string `json:"phone,omitempty"`
	Address  *string `json:"address,omitempty"`
	Timezone *string `json:"timezone,omitempty"`

	SlotMinutes          *int `json:"slot_minutes,omitempty"`
	SameDayBufferMinutes *int `json:"same_day_buffer_minutes,omitempty"`
}

func (h *FacilityHandler) load(c *gin.Context) (*models.Facility, bool) {
	var facility models.Facility
	if err := h.db.WithContext(c.Request.Context()).
		Where("doctor_id = ?", middleware.UserID(c)).
		First(&facility).Error; err != nil {

		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "facility_not_found", "The doctor has not set up a facility yet.")
			return nil, false
		}
		httperr.Internal(c, "failed_to_get_facility", "Unexpected error.")
		return nil, false
	}
	return &facility, true
}

func (h *FacilityHandler) GetMeFacility(c *gin.Context) {
	facility, ok := h.load(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, facility)
}

func (h *FacilityHandler) UpdateMeFacility(c *gin.Context) {
	facility, ok := h.load(c)
	if !ok {
		return
	}

	var req UpdateFacilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			httperr.BadRequest(c, "invalid_name", "Name cannot be empty.")
			return
		}
		facility.Name = name
	}
	if req.Slug != nil {
		slug := slugify(*req.Slug)
		facility.Slug = slug
	}
	if req.Phone != nil {
		facility.Phone = *req.Phone
	}
	if req.Timezone != nil {
		if !timezone.IsValid(*req.Timezone) {
			httperr.BadRequest(c, "invalid_timezone", "Unknown IANA timezone.")
			return
		}
		facility.Timezone = *req.Timezone
	}

	if req.SlotMinutes != nil {
		if *req.SlotMinutes < 5 || *req.SlotMinutes > 240 {
			httperr.BadRequest(c, "invalid_slot_minutes", "Slot length must be between 5 and 240 minutes.")
			return
		}
		facility.SlotMinutes = *req.SlotMinutes
	}
	if req.SameDayBufferMinutes != nil {
		if *req.SameDayBufferMinutes < 0 {
			httperr.BadRequest(c, "invalid_buffer", "Same-day buffer must be zero or positive (minutes).")
			return
		}
		facility.SameDayBufferMinutes = *req.SameDayBufferMinutes
	}

	if req.Address != nil && strings.TrimSpace(*req.Address) != facility.Address {
		facility.Address = strings.TrimSpace(*req.Address)
		facility.Latitude, facility.Longitude = 0, 0

		if h.geocoder != nil && facility.Address != "" {
			lat, lng, err := h.geocoder.Geocode(c.Request.Context(), facility.Address)
			if err != nil {
				h.log.Warn("geocode failed",
					zap.Uint("facility_id", facility.ID),
					zap.Error(err),
				)
			} else {
				facility.Latitude, facility.Longitude = lat, lng
			}
		}
	}

	if err := h.db.WithContext(c.Request.Context()).Save(facility).Error; err != nil {
		if httperr.IsUniqueViolation(err) {
			httperr.Conflict(c, "slug_already_used", "This facility address is taken.")
			return
		}
		httperr.Internal(c, "failed_to_update_facility", "Unexpected error.")
		return
	}

	c.JSON(http.StatusOK, facility)
}
