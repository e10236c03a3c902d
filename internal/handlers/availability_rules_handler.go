package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/GHanamaAhmed/cancer-detection/internal/domain/availability"
	"github.com/GHanamaAhmed/cancer-detection/internal/httperr"
	"github.com/GHanamaAhmed/cancer-detection/internal/middleware"
	"github.com/GHanamaAhmed/cancer-detection/internal/models"
)

type AvailabilityRulesHandler struct {
	db *gorm.DB
}

func NewAvailabilityRulesHandler(db *gorm.DB) *AvailabilityRulesHandler {
	return &AvailabilityRulesHandler{db: db}
}

type AvailabilityRuleConfig struct {
	Weekday   *int   `json:"weekday" binding:"required,min=0,max=6"`
	StartTime string `json:"start_time" binding:"required"`
	EndTime   string `json:"end_time" binding:"required"`
	Enabled   *bool  `json:"enabled"`
}

type AvailabilityRulesUpdateRequest struct {
	Rules []AvailabilityRuleConfig `json:"rules" binding:"required,dive"`
}

func (h *AvailabilityRulesHandler) Get(c *gin.Context) {
	doctorID := middleware.UserID(c)

	var rules []models.AvailabilityRule
	if err := h.db.WithContext(c.Request.Context()).
		Where("doctor_id = ?", doctorID).
		Order("weekday ASC, start_time ASC").
		Find(&rules).Error; err != nil {

		httperr.Internal(c, "failed_to_get_availability_rules", "Unexpected error.")
		return
	}

	c.JSON(http.StatusOK, rules)
}

// Update replaces the doctor's whole weekly schedule. Several rules on the
// same weekday are allowed and are merged when slots are generated.
func (h *AvailabilityRulesHandler) Update(c *gin.Context) {
	doctorID := middleware.UserID(c)

	var req AvailabilityRulesUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	toCreate := make([]models.AvailabilityRule, 0, len(req.Rules))
	for _, r := range req.Rules {
		start, okStart := availability.NormalizeClock(r.StartTime)
		end, okEnd := availability.NormalizeClock(r.EndTime)
		if !okStart || !okEnd {
			httperr.BadRequest(c, "invalid_time_format", "Times must be HH:MM.")
			return
		}

		rule := availability.Rule{StartTime: start, EndTime: end}
		if !rule.Valid() {
			httperr.BadRequest(c, "invalid_time_range", "Start time must be before end time.")
			return
		}

		enabled := true
		if r.Enabled != nil {
			enabled = *r.Enabled
		}

		toCreate = append(toCreate, models.AvailabilityRule{
			DoctorID:  doctorID,
			Weekday:   *r.Weekday,
			StartTime: start,
			EndTime:   end,
			Enabled:   enabled,
		})
	}

	err := h.db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("doctor_id = ?", doctorID).Delete(&models.AvailabilityRule{}).Error; err != nil {
			return err
		}
		if len(toCreate) == 0 {
			return nil
		}
		return tx.Create(&toCreate).Error
	})
	if err != nil {
		httperr.Internal(c, "failed_to_save_availability_rules", "Unexpected error.")
		return
	}

	c.JSON(http.StatusOK, toCreate)
}
