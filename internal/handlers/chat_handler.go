package handlers

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/GHanamaAhmed/cancer-detection/internal/httperr"
	"github.com/GHanamaAhmed/cancer-detection/internal/httpresp"
	"github.com/GHanamaAhmed/cancer-detection/internal/middleware"
	"github.com/GHanamaAhmed/cancer-detection/internal/models"
	"github.com/GHanamaAhmed/cancer-detection/internal/notify"
)

const (
	defaultMessagePage = 50
	maxMessagePage     = 200
	maxMessageLength   = 4000

	defaultMessageTitle = "New message"
)

// CareTeam answers whether two users share an accepted connection.
type CareTeam interface {
	AreConnected(ctx context.Context, a, b uint) (bool, error)
}

type ChatHandler struct {
	db       *gorm.DB
	team     CareTeam
	notifier Notifier
}

func NewChatHandler(db *gorm.DB, team CareTeam, notifier Notifier) *ChatHandler {
	return &ChatHandler{db: db, team: team, notifier: notifier}
}

type SendMessageRequest struct {
	Body string `json:"body" binding:"required"`
}

func (h *ChatHandler) counterpart(c *gin.Context) (uint, bool) {
	otherID, ok := paramID(c, "userId")
	if !ok {
		return 0, false
	}

	connected, err := h.team.AreConnected(c.Request.Context(), middleware.UserID(c), otherID)
	if err != nil {
		httperr.Internal(c, "failed_to_check_connection", "Unexpected error.")
		return 0, false
	}
	if !connected {
		httperr.Forbidden(c, "not_connected", "You need an accepted connection first.")
		return 0, false
	}
	return otherID, true
}

// ======================================================
// SEND
// ======================================================

func (h *ChatHandler) Send(c *gin.Context) {
	senderID := middleware.UserID(c)

	recipientID, ok := h.counterpart(c)
	if !ok {
		return
	}

	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	body := strings.TrimSpace(req.Body)
	if body == "" || len(body) > maxMessageLength {
		httperr.BadRequest(c, "invalid_message", "Messages must be between 1 and 4000 characters.")
		return
	}

	msg := models.Message{
		SenderID:    senderID,
		RecipientID: recipientID,
		Body:        body,
	}
	if err := h.db.WithContext(c.Request.Context()).Create(&msg).Error; err != nil {
		httperr.Internal(c, "failed_to_send_message", "Unexpected error.")
		return
	}

	var sender models.User
	err := h.db.WithContext(c.Request.Context()).Select("id", "name").First(&sender, senderID).Error

	h.notifier.Notify(c.Request.Context(), recipientID, notify.Notification{
		Type:  notify.EventMessageCreated,
		Title: messageTitle(sender.Name, err),
		Body:  preview(body),
		Data: map[string]string{
			"message_id": strconv.FormatUint(uint64(msg.ID), 10),
			"sender_id":  strconv.FormatUint(uint64(senderID), 10),
		},
		Payload: msg,
	})

	c.JSON(http.StatusCreated, msg)
}

// ======================================================
// LIST
// ======================================================

// List pages backwards through the conversation. before is a message id;
// results are newest first. Listing marks the caller's incoming messages read.
func (h *ChatHandler) List(c *gin.Context) {
	userID := middleware.UserID(c)

	otherID, ok := h.counterpart(c)
	if !ok {
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultMessagePage)))
	if limit <= 0 || limit > maxMessagePage {
		limit = defaultMessagePage
	}

	ctx := c.Request.Context()

	q := h.db.WithContext(ctx).
		Where(
			"(sender_id = ? AND recipient_id = ?) OR (sender_id = ? AND recipient_id = ?)",
			userID, otherID, otherID, userID,
		)

	if beforeStr := c.Query("before"); beforeStr != "" {
		before, err := strconv.ParseUint(beforeStr, 10, 64)
		if err != nil {
			httperr.BadRequest(c, "invalid_cursor", "Invalid before cursor.")
			return
		}
		q = q.Where("id < ?", before)
	}

	var messages []models.Message
	if err := q.Order("id DESC").Limit(limit).Find(&messages).Error; err != nil {
		httperr.Internal(c, "failed_to_list_messages", "Unexpected error.")
		return
	}

	if err := h.db.WithContext(ctx).
		Model(&models.Message{}).
		Where("sender_id = ? AND recipient_id = ? AND read_at IS NULL", otherID, userID).
		Update("read_at", time.Now().UTC()).Error; err != nil {

		httperr.Internal(c, "failed_to_mark_read", "Unexpected error.")
		return
	}

	var next *uint
	if len(messages) == limit {
		next = &messages[len(messages)-1].ID
	}

	httpresp.Cursor(c, messages, next)
}

// messageTitle falls back to a generic title when the sender's name is unknown.
func messageTitle(name string, lookupErr error) string {
	if lookupErr != nil || strings.TrimSpace(name) == "" {
		return defaultMessageTitle
	}
	return name
}

func preview(body string) string {
	const max = 120
	r := []rune(body)
	if len(r) <= max {
		return body
	}
	return string(r[:max-1]) + "…"
}
