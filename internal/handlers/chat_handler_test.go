package handlers

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/GHanamaAhmed/cancer-detection/internal/middleware"
	"github.com/GHanamaAhmed/cancer-detection/internal/models"
)

type stubCareTeam struct {
	connected bool
	err       error
	checked   [][2]uint
}

func (s *stubCareTeam) AreConnected(_ context.Context, a, b uint) (bool, error) {
	s.checked = append(s.checked, [2]uint{a, b})
	return s.connected, s.err
}

// Every request here stops before the database, so the handler runs without one.
func newChatRouter(team CareTeam, notifier Notifier) *gin.Engine {
	h := NewChatHandler(nil, team, notifier)

	r := gin.New()
	as := func(c *gin.Context) {
		c.Set(middleware.ContextUserID, uint(testPatientID))
		c.Set(middleware.ContextUserRole, models.RolePatient)
	}
	r.POST("/conversations/:userId/messages", as, h.Send)
	r.GET("/conversations/:userId/messages", as, h.List)
	return r
}

func TestChat_RequiresAcceptedConnection(t *testing.T) {
	team := &stubCareTeam{connected: false}
	notifier := &countingNotifier{}
	r := newChatRouter(team, notifier)

	w := send(r, http.MethodPost, "/conversations/1/messages", "", gin.H{"body": "hello doctor"})
	if w.Code != http.StatusForbidden || errorCode(t, w) != "not_connected" {
		t.Fatalf("send: got %d %s", w.Code, w.Body.String())
	}

	w = send(r, http.MethodGet, "/conversations/1/messages", "", nil)
	if w.Code != http.StatusForbidden || errorCode(t, w) != "not_connected" {
		t.Fatalf("list: got %d %s", w.Code, w.Body.String())
	}

	if len(team.checked) != 2 || team.checked[0] != [2]uint{testPatientID, testDoctorID} {
		t.Fatalf("unexpected connection checks %v", team.checked)
	}
	if len(notifier.calls) != 0 {
		t.Fatalf("expected no notifications, got %v", notifier.calls)
	}
}

func TestChat_ConnectionLookupFails(t *testing.T) {
	r := newChatRouter(&stubCareTeam{err: errors.New("db down")}, &countingNotifier{})

	w := send(r, http.MethodPost, "/conversations/1/messages", "", gin.H{"body": "hello"})
	if w.Code != http.StatusInternalServerError || errorCode(t, w) != "failed_to_check_connection" {
		t.Fatalf("got %d %s", w.Code, w.Body.String())
	}
}

func TestChat_SendValidation(t *testing.T) {
	r := newChatRouter(&stubCareTeam{connected: true}, &countingNotifier{})

	cases := []struct {
		name string
		body any
		code string
	}{
		{"missing body", gin.H{}, "invalid_request"},
		{"blank body", gin.H{"body": "   "}, "invalid_message"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := send(r, http.MethodPost, "/conversations/1/messages", "", tc.body)
			if w.Code != http.StatusBadRequest || errorCode(t, w) != tc.code {
				t.Fatalf("got %d %s", w.Code, w.Body.String())
			}
		})
	}

	w := send(r, http.MethodPost, "/conversations/abc/messages", "", gin.H{"body": "hi"})
	if w.Code != http.StatusBadRequest || errorCode(t, w) != "invalid_id" {
		t.Fatalf("bad id: got %d %s", w.Code, w.Body.String())
	}
}

func TestMessageTitle(t *testing.T) {
	if got := messageTitle("Dr. Amel", nil); got != "Dr. Amel" {
		t.Fatalf("expected sender name, got %q", got)
	}
	if got := messageTitle("", errors.New("record not found")); got != defaultMessageTitle {
		t.Fatalf("expected fallback on lookup error, got %q", got)
	}
	if got := messageTitle("  ", nil); got != defaultMessageTitle {
		t.Fatalf("expected fallback on blank name, got %q", got)
	}
}
