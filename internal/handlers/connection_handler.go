package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/GHanamaAhmed/cancer-detection/internal/audit"
	"github.com/GHanamaAhmed/cancer-detection/internal/httperr"
	"github.com/GHanamaAhmed/cancer-detection/internal/httpresp"
	"github.com/GHanamaAhmed/cancer-detection/internal/middleware"
	"github.com/GHanamaAhmed/cancer-detection/internal/models"
	"github.com/GHanamaAhmed/cancer-detection/internal/notify"
)

// Notifier delivers realtime and push notifications to a user.
type Notifier interface {
	Notify(ctx context.Context, userID uint, n notify.Notification)
}

type ConnectionHandler struct {
	db       *gorm.DB
	audit    *audit.Dispatcher
	notifier Notifier
}

func NewConnectionHandler(db *gorm.DB, dispatcher *audit.Dispatcher, notifier Notifier) *ConnectionHandler {
	return &ConnectionHandler{db: db, audit: dispatcher, notifier: notifier}
}

type RequestConnectionRequest struct {
	Message string `json:"message" binding:"max=255"`
}

// ======================================================
// REQUEST (patient)
// ======================================================

// Request asks a doctor to take the patient on. A previously rejected request
// can be sent again; pending and accepted ones cannot.
func (h *ConnectionHandler) Request(c *gin.Context) {
	patientID := middleware.UserID(c)

	doctorID, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req RequestConnectionRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			httperr.BadRequest(c, "invalid_request", err.Error())
			return
		}
	}

	ctx := c.Request.Context()

	var doctor models.User
	if err := h.db.WithContext(ctx).
		Where("id = ? AND role = ?", doctorID, models.RoleDoctor).
		First(&doctor).Error; err != nil {

		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "doctor_not_found", "Doctor not found.")
			return
		}
		httperr.Internal(c, "failed_to_get_doctor", "Unexpected error.")
		return
	}

	var conn models.Connection
	err := h.db.WithContext(ctx).
		Where("doctor_id = ? AND patient_id = ?", doctorID, patientID).
		First(&conn).Error

	switch {
	case err == nil && conn.Status != models.ConnectionRejected:
		httperr.Conflict(c, "already_connected", "A connection with this doctor already exists.")
		return
	case err == nil:
		conn.Status = models.ConnectionPending
		conn.Message = strings.TrimSpace(req.Message)
		conn.RespondedAt = nil
		err = h.db.WithContext(ctx).Omit("Doctor", "Patient").Save(&conn).Error
	case errors.Is(err, gorm.ErrRecordNotFound):
		conn = models.Connection{
			DoctorID:  doctorID,
			PatientID: patientID,
			Status:    models.ConnectionPending,
			Message:   strings.TrimSpace(req.Message),
		}
		err = h.db.WithContext(ctx).Omit("Doctor", "Patient").Create(&conn).Error
	}
	if err != nil {
		if httperr.IsUniqueViolation(err) {
			httperr.Conflict(c, "already_connected", "A connection with this doctor already exists.")
			return
		}
		httperr.Internal(c, "failed_to_request_connection", "Unexpected error.")
		return
	}

	h.announce(ctx, &conn, patientID, doctorID, "connection_requested", "New patient request")

	c.JSON(http.StatusCreated, conn)
}

// ======================================================
// LIST
// ======================================================

func (h *ConnectionHandler) List(c *gin.Context) {
	userID := middleware.UserID(c)

	column := "patient_id"
	if middleware.UserRole(c) == models.RoleDoctor {
		column = "doctor_id"
	}

	q := h.db.WithContext(c.Request.Context()).
		Preload("Doctor").
		Preload("Patient").
		Where(column+" = ?", userID)

	if status := strings.TrimSpace(c.Query("status")); status != "" {
		switch status {
		case models.ConnectionPending, models.ConnectionAccepted, models.ConnectionRejected:
			q = q.Where("status = ?", status)
		default:
			httperr.BadRequest(c, "invalid_status", "Unknown connection status.")
			return
		}
	}

	var conns []models.Connection
	if err := q.Order("created_at DESC").Find(&conns).Error; err != nil {
		httperr.Internal(c, "failed_to_list_connections", "Unexpected error.")
		return
	}

	httpresp.List(c, conns)
}

// ======================================================
// RESPOND (doctor)
// ======================================================

func (h *ConnectionHandler) Accept(c *gin.Context) {
	h.respond(c, models.ConnectionAccepted)
}

func (h *ConnectionHandler) Reject(c *gin.Context) {
	h.respond(c, models.ConnectionRejected)
}

func (h *ConnectionHandler) respond(c *gin.Context, status string) {
	doctorID := middleware.UserID(c)

	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	ctx := c.Request.Context()

	var conn models.Connection
	if err := h.db.WithContext(ctx).
		Where("id = ? AND doctor_id = ?", id, doctorID).
		First(&conn).Error; err != nil {

		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "connection_not_found", "Connection not found.")
			return
		}
		httperr.Internal(c, "failed_to_get_connection", "Unexpected error.")
		return
	}

	if conn.Status != models.ConnectionPending {
		httperr.Conflict(c, "invalid_state", "Only pending requests can be answered.")
		return
	}

	now := time.Now().UTC()
	conn.Status = status
	conn.RespondedAt = &now

	if err := h.db.WithContext(ctx).Omit("Doctor", "Patient").Save(&conn).Error; err != nil {
		httperr.Internal(c, "failed_to_update_connection", "Unexpected error.")
		return
	}

	title := "Your request was accepted"
	if status == models.ConnectionRejected {
		title = "Your request was declined"
	}
	h.announce(ctx, &conn, doctorID, conn.PatientID, "connection_"+status, title)

	c.JSON(http.StatusOK, conn)
}

func (h *ConnectionHandler) announce(
	ctx context.Context,
	conn *models.Connection,
	actorID uint,
	recipientID uint,
	action string,
	title string,
) {
	entityID := conn.ID

	// both sides see the event in their trail
	for _, owner := range []uint{conn.DoctorID, conn.PatientID} {
		h.audit.Dispatch(audit.Event{
			OwnerID:  owner,
			ActorID:  &actorID,
			Action:   action,
			Entity:   "connection",
			EntityID: &entityID,
		})
	}

	h.notifier.Notify(ctx, recipientID, notify.Notification{
		Type:  notify.EventConnectionUpdated,
		Title: title,
		Data: map[string]string{
			"connection_id": strconv.FormatUint(uint64(conn.ID), 10),
			"status":        conn.Status,
		},
		Payload: conn,
	})
}
