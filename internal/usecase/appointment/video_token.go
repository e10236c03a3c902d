package appointment

import (
	"context"
	"fmt"
	"time"

	domain "github.com/GHanamaAhmed/cancer-detection/internal/domain/appointment"
	"github.com/GHanamaAhmed/cancer-detection/internal/httperr"
)

const (
	callOpensBefore = 15 * time.Minute
	callClosesAfter = 30 * time.Minute
)

type TokenIssuer interface {
	APIKey() string
	Issue(userID uint, issuedAt, expiresAt time.Time) (string, error)
}

type VideoSession struct {
	APIKey    string    `json:"api_key"`
	Token     string    `json:"token"`
	CallID    string    `json:"call_id"`
	UserID    string    `json:"user_id"`
	ExpiresAt time.Time `json:"expires_at"`
}

// IssueVideoToken lets a participant join the call of a confirmed
// appointment from 15 minutes before the start until 30 minutes after the end.
type IssueVideoToken struct {
	repo   domain.Repository
	tokens TokenIssuer
	now    nowFunc
}

func NewIssueVideoToken(repo domain.Repository, tokens TokenIssuer) *IssueVideoToken {
	return &IssueVideoToken{repo: repo, tokens: tokens, now: time.Now}
}

func (uc *IssueVideoToken) Execute(
	ctx context.Context,
	userID uint,
	appointmentID uint,
) (*VideoSession, error) {

	ap, err := loadForParticipant(ctx, uc.repo, appointmentID, userID)
	if err != nil {
		return nil, err
	}
	if ap.Status != string(domain.StatusConfirmed) {
		return nil, httperr.ErrBusiness("appointment_not_confirmed")
	}

	now := uc.now()
	opens := ap.StartTime.Add(-callOpensBefore)
	closes := ap.EndTime.Add(callClosesAfter)
	if now.Before(opens) || now.After(closes) {
		return nil, httperr.ErrBusiness("call_not_open")
	}

	token, err := uc.tokens.Issue(userID, now, closes)
	if err != nil {
		return nil, err
	}

	return &VideoSession{
		APIKey:    uc.tokens.APIKey(),
		Token:     token,
		CallID:    fmt.Sprintf("appointment-%d", ap.ID),
		UserID:    fmt.Sprint(userID),
		ExpiresAt: closes,
	}, nil
}
