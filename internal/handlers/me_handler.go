package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type MeHandler struct {
	db *gorm.DB
}

func NewMeHandler(db *gorm.DB) *MeHandler {
	return &MeHandler{db: db}
}

type UpdateProfileRequest struct {
	Name      *string `json:"name,omitempty"`
	Phone     *string `json:"phone,omitempty"`
	Specialty *string `json:"specialty,omitempty"`
	Bio       *string `json:"bio,omitempty"`
}

func (h *MeHandler) GetMe(c *gin.Context) {
	user, ok := currentUser(c, h.db)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": userJSON(user)})
}

func (h *MeHandler) UpdateMe(c *gin.Context) {
	user, ok := currentUser(c, h.db)
	if !ok {
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error_code": "invalid_request", "message": err.Error()})
		return
	}

	if req.Name != nil && *req.Name != "" {
		user.Name = *req.Name
	}
	if req.Phone != nil {
		user.Phone = *req.Phone
	}
	if user.IsDoctor() {
		if req.Specialty != nil {
			user.Specialty = *req.Specialty
		}
		if req.Bio != nil {
			user.Bio = *req.Bio
		}
	}

	if err := h.db.WithContext(c.Request.Context()).Save(user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error_code": "failed_to_update_user"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": userJSON(user)})
}
