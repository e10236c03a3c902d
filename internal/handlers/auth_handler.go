package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/GHanamaAhmed/cancer-detection/internal/config"
	"github.com/GHanamaAhmed/cancer-detection/internal/httperr"
	"github.com/GHanamaAhmed/cancer-detection/internal/middleware"
	"github.com/GHanamaAhmed/cancer-detection/internal/models"
	"github.com/GHanamaAhmed/cancer-detection/internal/validators"
)

type AuthHandler struct {
	db     *gorm.DB
	config *config.Config

	// domainCheck is replaced in tests to avoid DNS lookups.
	domainCheck func(email string) bool
}

func NewAuthHandler(db *gorm.DB, cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		db:          db,
		config:      cfg,
		domainCheck: validators.IsEmailDomainValid,
	}
}

// --------- Requests ---------

type RegisterRequest struct {
	Name      string `json:"name" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
	Phone     string `json:"phone"`
	Role      string `json:"role" binding:"required,oneof=doctor patient"`
	Specialty string `json:"specialty"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// --------- Handlers ---------

// Register creates the account. Doctors also get an empty facility in the
// default timezone so their availability can be configured right away.
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error_code": "invalid_request",
			"message":    err.Error(),
		})
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	if !validators.IsEmailFormatValid(email) {
		httperr.BadRequest(c, "invalid_email", "The email address is not valid.")
		return
	}
	if !h.domainCheck(email) {
		httperr.BadRequest(c, "invalid_email_domain", "The email domain does not seem to exist.")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		httperr.Internal(c, "failed_to_hash_password", "Unexpected error.")
		return
	}

	user := models.User{
		Name:         strings.TrimSpace(req.Name),
		Email:        email,
		PasswordHash: string(hashed),
		Phone:        req.Phone,
		Role:         req.Role,
	}
	if req.Role == models.RoleDoctor {
		user.Specialty = req.Specialty
	}

	var facility *models.Facility

	err = h.db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		if !user.IsDoctor() {
			return nil
		}

		facility = &models.Facility{
			DoctorID: user.ID,
			Name:     user.Name,
			Slug:     fmt.Sprintf("%s-%d", slugify(user.Name), user.ID),
			Phone:    user.Phone,
			Timezone: h.config.DefaultTimezone,
		}
		return tx.Create(facility).Error
	})
	if err != nil {
		if httperr.IsUniqueViolation(err) {
			httperr.Conflict(c, "email_already_used", "An account with this email already exists.")
			return
		}
		httperr.Internal(c, "failed_to_create_user", "Unexpected error.")
		return
	}

	token, err := middleware.IssueToken(h.config.JWTSecret, user.ID, user.Role, time.Now())
	if err != nil {
		httperr.Internal(c, "failed_to_generate_token", "Unexpected error.")
		return
	}

	resp := gin.H{
		"user":  userJSON(&user),
		"token": token,
	}
	if facility != nil {
		resp["facility"] = facility
	}

	c.JSON(http.StatusCreated, resp)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	var user models.User
	if err := h.db.WithContext(c.Request.Context()).
		Where("email = ?", email).
		First(&user).Error; err != nil {

		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.Unauthorized(c, "invalid_credentials", "Wrong email or password.")
			return
		}
		httperr.Internal(c, "internal_error", "Unexpected error.")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		httperr.Unauthorized(c, "invalid_credentials", "Wrong email or password.")
		return
	}

	token, err := middleware.IssueToken(h.config.JWTSecret, user.ID, user.Role, time.Now())
	if err != nil {
		httperr.Internal(c, "failed_to_generate_token", "Unexpected error.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":  userJSON(&user),
		"token": token,
	})
}

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

func slugify(s string) string {
	slug := strings.Trim(nonSlug.ReplaceAllString(strings.ToLower(s), "-"), "-")
	if slug == "" {
		return "clinic"
	}
	return slug
}
