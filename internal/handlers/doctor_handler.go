package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/GHanamaAhmed/cancer-detection/internal/httperr"
	"github.com/GHanamaAhmed/cancer-detection/internal/httpresp"
	"github.com/GHanamaAhmed/cancer-detection/internal/models"
)

// DoctorHandler is the public doctor directory.
type DoctorHandler struct {
	db *gorm.DB
}

func NewDoctorHandler(db *gorm.DB) *DoctorHandler {
	return &DoctorHandler{db: db}
}

type doctorCard struct {
	ID        uint             `json:"id"`
	Name      string           `json:"name"`
	Specialty string           `json:"specialty"`
	Bio       string           `json:"bio,omitempty"`
	Facility  *models.Facility `json:"facility,omitempty"`
}

// List filters by free text (name or specialty) and optionally by specialty.
func (h *DoctorHandler) List(c *gin.Context) {
	query := strings.ToLower(strings.TrimSpace(c.Query("query")))
	specialty := strings.ToLower(strings.TrimSpace(c.Query("specialty")))

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page <= 0 {
		page = 1
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	q := h.db.WithContext(c.Request.Context()).
		Model(&models.User{}).
		Where("role = ?", models.RoleDoctor)

	if specialty != "" {
		q = q.Where("LOWER(specialty) = ?", specialty)
	}

	if query != "" {
		like := "%" + query + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(specialty) LIKE ?", like, like)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		httperr.Internal(c, "failed_to_list_doctors", "Unexpected error.")
		return
	}

	var doctors []models.User
	if err := q.
		Order("name ASC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&doctors).Error; err != nil {

		httperr.Internal(c, "failed_to_list_doctors", "Unexpected error.")
		return
	}

	ids := make([]uint, 0, len(doctors))
	for _, d := range doctors {
		ids = append(ids, d.ID)
	}

	facilities := map[uint]*models.Facility{}
	if len(ids) > 0 {
		var rows []models.Facility
		if err := h.db.WithContext(c.Request.Context()).
			Where("doctor_id IN ?", ids).
			Find(&rows).Error; err != nil {

			httperr.Internal(c, "failed_to_list_doctors", "Unexpected error.")
			return
		}
		for i := range rows {
			facilities[rows[i].DoctorID] = &rows[i]
		}
	}

	out := make([]doctorCard, 0, len(doctors))
	for _, d := range doctors {
		out = append(out, doctorCard{
			ID:        d.ID,
			Name:      d.Name,
			Specialty: d.Specialty,
			Facility:  facilities[d.ID],
		})
	}

	httpresp.Page(c, out, page, limit, total)
}

// Get returns the doctor profile with facility and active services.
func (h *DoctorHandler) Get(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	ctx := c.Request.Context()

	var doctor models.User
	if err := h.db.WithContext(ctx).
		Where("id = ? AND role = ?", id, models.RoleDoctor).
		First(&doctor).Error; err != nil {

		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "doctor_not_found", "Doctor not found.")
			return
		}
		httperr.Internal(c, "failed_to_get_doctor", "Unexpected error.")
		return
	}

	card := doctorCard{
		ID:        doctor.ID,
		Name:      doctor.Name,
		Specialty: doctor.Specialty,
		Bio:       doctor.Bio,
	}

	var facility models.Facility
	if err := h.db.WithContext(ctx).Where("doctor_id = ?", id).First(&facility).Error; err == nil {
		card.Facility = &facility
	}

	var services []models.ConsultationService
	if err := h.db.WithContext(ctx).
		Where("doctor_id = ? AND active = ?", id, true).
		Order("id ASC").
		Find(&services).Error; err != nil {

		httperr.Internal(c, "failed_to_list_services", "Unexpected error.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"doctor":   card,
		"services": services,
	})
}
