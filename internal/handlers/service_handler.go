package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/GHanamaAhmed/cancer-detection/internal/httperr"
	"github.com/GHanamaAhmed/cancer-detection/internal/httpresp"
	"github.com/GHanamaAhmed/cancer-detection/internal/middleware"
	"github.com/GHanamaAhmed/cancer-detection/internal/models"
)

// ServiceHandler manages a doctor's consultation catalogue.
type ServiceHandler struct {
	db *gorm.DB
}

func NewServiceHandler(db *gorm.DB) *ServiceHandler {
	return &ServiceHandler{db: db}
}

// --------- Requests ---------

type CreateServiceRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description"`
	DurationMin int     `json:"duration_min" binding:"required,min=5,max=480"`
	Price       float64 `json:"price" binding:"min=0"`
	Currency    string  `json:"currency" binding:"omitempty,len=3"`
	Mode        string  `json:"mode" binding:"omitempty,oneof=video in_person"`
}

type UpdateServiceRequest struct {
	Name        *string  `json:"name,omitempty"`
	Description *string  `json:"description,omitempty"`
	DurationMin *int     `json:"duration_min,omitempty" binding:"omitempty,min=5,max=480"`
	Price       *float64 `json:"price,omitempty" binding:"omitempty,min=0"`
	Mode        *string  `json:"mode,omitempty" binding:"omitempty,oneof=video in_person"`
	Active      *bool    `json:"active,omitempty"`
}

// --------- Handlers ---------

func (h *ServiceHandler) List(c *gin.Context) {
	doctorID := middleware.UserID(c)

	q := h.db.WithContext(c.Request.Context()).Where("doctor_id = ?", doctorID)

	switch strings.TrimSpace(c.Query("active")) {
	case "true":
		q = q.Where("active = ?", true)
	case "false":
		q = q.Where("active = ?", false)
	}

	if query := strings.ToLower(strings.TrimSpace(c.Query("query"))); query != "" {
		like := "%" + query + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", like, like)
	}

	var services []models.ConsultationService
	if err := q.Order("id ASC").Find(&services).Error; err != nil {
		httperr.Internal(c, "failed_to_list_services", "Unexpected error.")
		return
	}

	httpresp.List(c, services)
}

// ListForDoctor is the public catalogue: active services only.
func (h *ServiceHandler) ListForDoctor(c *gin.Context) {
	doctorID, ok := paramID(c, "id")
	if !ok {
		return
	}

	var services []models.ConsultationService
	if err := h.db.WithContext(c.Request.Context()).
		Where("doctor_id = ? AND active = ?", doctorID, true).
		Order("id ASC").
		Find(&services).Error; err != nil {

		httperr.Internal(c, "failed_to_list_services", "Unexpected error.")
		return
	}

	httpresp.List(c, services)
}

func (h *ServiceHandler) Create(c *gin.Context) {
	doctorID := middleware.UserID(c)

	var req CreateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	mode := req.Mode
	if mode == "" {
		mode = models.ModeVideo
	}
	currency := strings.ToUpper(req.Currency)
	if currency == "" {
		currency = "DZD"
	}

	service := models.ConsultationService{
		DoctorID:    doctorID,
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		DurationMin: req.DurationMin,
		Price:       req.Price,
		Currency:    currency,
		Mode:        mode,
		Active:      true,
	}

	if err := h.db.WithContext(c.Request.Context()).Create(&service).Error; err != nil {
		httperr.Internal(c, "failed_to_create_service", "Unexpected error.")
		return
	}

	c.JSON(http.StatusCreated, service)
}

func (h *ServiceHandler) Update(c *gin.Context) {
	doctorID := middleware.UserID(c)

	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var service models.ConsultationService
	if err := h.db.WithContext(c.Request.Context()).
		Where("id = ? AND doctor_id = ?", id, doctorID).
		First(&service).Error; err != nil {

		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "service_not_found", "Consultation service not found.")
			return
		}
		httperr.Internal(c, "failed_to_get_service", "Unexpected error.")
		return
	}

	var req UpdateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	if req.Name != nil {
		service.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		service.Description = *req.Description
	}
	if req.DurationMin != nil {
		service.DurationMin = *req.DurationMin
	}
	if req.Price != nil {
		service.Price = *req.Price
	}
	if req.Mode != nil {
		service.Mode = *req.Mode
	}
	if req.Active != nil {
		service.Active = *req.Active
	}

	if err := h.db.WithContext(c.Request.Context()).Save(&service).Error; err != nil {
		httperr.Internal(c, "failed_to_update_service", "Unexpected error.")
		return
	}

	c.JSON(http.StatusOK, service)
}
