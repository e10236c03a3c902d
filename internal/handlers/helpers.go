package handlers

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/GHanamaAhmed/cancer-detection/internal/httperr"
	"github.com/GHanamaAhmed/cancer-detection/internal/middleware"
	"github.com/GHanamaAhmed/cancer-detection/internal/models"
)

func paramID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		httperr.BadRequest(c, "invalid_id", "Invalid identifier.")
		return 0, false
	}
	return uint(id), true
}

// currentUser loads the authenticated user. Tokens can outlive accounts, so
// a missing row is reported as unauthorized.
func currentUser(c *gin.Context, db *gorm.DB) (*models.User, bool) {
	var user models.User
	if err := db.WithContext(c.Request.Context()).First(&user, middleware.UserID(c)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.Unauthorized(c, "user_not_found", "Account no longer exists.")
			return nil, false
		}
		httperr.Internal(c, "failed_to_load_user", "Unexpected error.")
		return nil, false
	}
	return &user, true
}

func userJSON(u *models.User) gin.H {
	out := gin.H{
		"id":    u.ID,
		"name":  u.Name,
		"email": u.Email,
		"phone": u.Phone,
		"role":  u.Role,
	}
	if u.IsDoctor() {
		out["specialty"] = u.Specialty
		out["bio"] = u.Bio
	}
	return out
}
