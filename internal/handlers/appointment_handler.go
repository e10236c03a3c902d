package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/GHanamaAhmed/cancer-detection/internal/audit"
	domain "github.com/GHanamaAhmed/cancer-detection/internal/domain/appointment"
	"github.com/GHanamaAhmed/cancer-detection/internal/httperr"
	"github.com/GHanamaAhmed/cancer-detection/internal/middleware"
	"github.com/GHanamaAhmed/cancer-detection/internal/models"
	"github.com/GHanamaAhmed/cancer-detection/internal/usecase/appointment"
)

// ======================================================
// HANDLER
// ======================================================

// AppointmentDeps are the collaborators shared by the appointment use cases.
// Reminders, Checkout and Tokens may be nil.
type AppointmentDeps struct {
	Repo      domain.Repository
	Audit     *audit.Dispatcher
	Notifier  appointment.Notifier
	Reminders appointment.ReminderScheduler
	Checkout  appointment.Checkout
	Tokens    appointment.TokenIssuer
	Settings  appointment.Settings
	Log       *zap.Logger
}

type AppointmentHandler struct {
	availability *appointment.GetAvailability
	request      *appointment.RequestAppointment
	confirm      *appointment.ConfirmAppointment
	reject       *appointment.RejectAppointment
	cancel       *appointment.CancelAppointment
	complete     *appointment.CompleteAppointment
	get          *appointment.GetAppointment
	byDate       *appointment.ListAppointmentsByDate
	byMonth      *appointment.ListAppointmentsByMonth
	video        *appointment.IssueVideoToken
}

func NewAppointmentHandler(deps AppointmentDeps) *AppointmentHandler {
	h := &AppointmentHandler{
		availability: appointment.NewGetAvailability(deps.Repo, deps.Settings, deps.Log),
		request:      appointment.NewRequestAppointment(deps.Repo, deps.Audit, deps.Notifier, deps.Settings),
		confirm: appointment.NewConfirmAppointment(
			deps.Repo,
			deps.Audit,
			deps.Notifier,
			deps.Reminders,
			deps.Checkout,
			deps.Log,
		),
		reject:   appointment.NewRejectAppointment(deps.Repo, deps.Audit, deps.Notifier),
		cancel:   appointment.NewCancelAppointment(deps.Repo, deps.Audit, deps.Notifier),
		complete: appointment.NewCompleteAppointment(deps.Repo, deps.Audit, deps.Notifier),
		get:      appointment.NewGetAppointment(deps.Repo),
		byDate:   appointment.NewListAppointmentsByDate(deps.Repo, deps.Settings),
		byMonth:  appointment.NewListAppointmentsByMonth(deps.Repo, deps.Settings),
	}
	if deps.Tokens != nil {
		h.video = appointment.NewIssueVideoToken(deps.Repo, deps.Tokens)
	}
	return h
}

// ======================================================
// REQUESTS
// ======================================================

type CreateAppointmentRequest struct {
	ServiceID *uint  `json:"service_id"`
	Date      string `json:"date" binding:"required"` // YYYY-MM-DD
	Time      string `json:"time" binding:"required"` // HH:mm
	Reason    string `json:"reason" binding:"max=255"`
}

type RejectAppointmentRequest struct {
	Note string `json:"note" binding:"max=255"`
}

// tokenUser is the caller as carried by the bearer token. The list use cases
// only need the id and role.
func tokenUser(c *gin.Context) *models.User {
	return &models.User{
		ID:   middleware.UserID(c),
		Role: middleware.UserRole(c),
	}
}

// ======================================================
// CREATE (patient)
// ======================================================

func (h *AppointmentHandler) Create(c *gin.Context) {
	doctorID, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	ap, err := h.request.Execute(
		c.Request.Context(),
		domain.CreateRequestInput{
			DoctorID:  doctorID,
			PatientID: middleware.UserID(c),
			ServiceID: req.ServiceID,
			Date:      req.Date,
			Time:      req.Time,
			Reason:    req.Reason,
		},
	)
	if err != nil {
		httperr.Respond(c, err, "failed_to_create_appointment")
		return
	}

	c.JSON(http.StatusCreated, ap)
}

// ======================================================
// LIST
// ======================================================

func (h *AppointmentHandler) ListByDate(c *gin.Context) {
	date := c.Query("date")

	items, err := h.byDate.Execute(c.Request.Context(), tokenUser(c), date)
	if err != nil {
		httperr.Respond(c, err, "failed_to_list_appointments")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"date":         date,
		"appointments": items,
	})
}

func (h *AppointmentHandler) ListByMonth(c *gin.Context) {
	yearStr := c.Query("year")
	monthStr := c.Query("month")

	if yearStr == "" || monthStr == "" {
		httperr.BadRequest(c, "missing_year_or_month", "Year and month are required.")
		return
	}

	year, err := strconv.Atoi(yearStr)
	if err != nil {
		httperr.BadRequest(c, "invalid_month", "Invalid year or month.")
		return
	}
	month, err := strconv.Atoi(monthStr)
	if err != nil {
		httperr.BadRequest(c, "invalid_month", "Invalid year or month.")
		return
	}

	items, err := h.byMonth.Execute(c.Request.Context(), tokenUser(c), year, month)
	if err != nil {
		httperr.Respond(c, err, "failed_to_list_appointments")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"year":         year,
		"month":        month,
		"appointments": items,
	})
}

func (h *AppointmentHandler) Get(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	ap, err := h.get.Execute(c.Request.Context(), middleware.UserID(c), id)
	if err != nil {
		httperr.Respond(c, err, "failed_to_get_appointment")
		return
	}

	c.JSON(http.StatusOK, ap)
}

// ======================================================
// STATE CHANGES
// ======================================================

func (h *AppointmentHandler) Confirm(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	ap, err := h.confirm.Execute(c.Request.Context(), middleware.UserID(c), id)
	if err != nil {
		httperr.Respond(c, err, "failed_to_confirm_appointment")
		return
	}

	c.JSON(http.StatusOK, ap)
}

func (h *AppointmentHandler) Reject(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req RejectAppointmentRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			httperr.BadRequest(c, "invalid_request", err.Error())
			return
		}
	}

	ap, err := h.reject.Execute(c.Request.Context(), middleware.UserID(c), id, req.Note)
	if err != nil {
		httperr.Respond(c, err, "failed_to_reject_appointment")
		return
	}

	c.JSON(http.StatusOK, ap)
}

func (h *AppointmentHandler) Complete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	ap, err := h.complete.Execute(c.Request.Context(), middleware.UserID(c), id)
	if err != nil {
		httperr.Respond(c, err, "failed_to_complete_appointment")
		return
	}

	c.JSON(http.StatusOK, ap)
}

// Cancel is open to both participants.
func (h *AppointmentHandler) Cancel(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	ap, err := h.cancel.Execute(c.Request.Context(), middleware.UserID(c), id)
	if err != nil {
		httperr.Respond(c, err, "failed_to_cancel_appointment")
		return
	}

	c.JSON(http.StatusOK, ap)
}

// ======================================================
// VIDEO
// ======================================================

func (h *AppointmentHandler) VideoToken(c *gin.Context) {
	if h.video == nil {
		httperr.Write(c, http.StatusServiceUnavailable, "video_unavailable", "Video calls are not configured.")
		return
	}

	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	session, err := h.video.Execute(c.Request.Context(), middleware.UserID(c), id)
	if err != nil {
		httperr.Respond(c, err, "failed_to_issue_video_token")
		return
	}

	c.JSON(http.StatusOK, session)
}
