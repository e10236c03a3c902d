package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/GHanamaAhmed/cancer-detection/internal/httperr"
	"github.com/GHanamaAhmed/cancer-detection/internal/middleware"
	"github.com/GHanamaAhmed/cancer-detection/internal/models"
)

type DeviceHandler struct {
	db *gorm.DB
}

func NewDeviceHandler(db *gorm.DB) *DeviceHandler {
	return &DeviceHandler{db: db}
}

type RegisterDeviceRequest struct {
	Token    string `json:"token" binding:"required,max=255"`
	Platform string `json:"platform" binding:"omitempty,oneof=android ios web"`
}

// Register stores an FCM token for the caller. A token moves to the latest
// user that registers it.
func (h *DeviceHandler) Register(c *gin.Context) {
	var req RegisterDeviceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	device := models.Device{
		UserID:   middleware.UserID(c),
		Token:    req.Token,
		Platform: req.Platform,
	}

	if err := h.db.WithContext(c.Request.Context()).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "token"}},
			DoUpdates: clause.AssignmentColumns([]string{"user_id", "platform", "updated_at"}),
		}).
		Create(&device).Error; err != nil {

		httperr.Internal(c, "failed_to_register_device", "Unexpected error.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *DeviceHandler) Unregister(c *gin.Context) {
	token := c.Param("token")

	if err := h.db.WithContext(c.Request.Context()).
		Where("token = ? AND user_id = ?", token, middleware.UserID(c)).
		Delete(&models.Device{}).Error; err != nil {

		httperr.Internal(c, "failed_to_unregister_device", "Unexpected error.")
		return
	}

	c.Status(http.StatusNoContent)
}
