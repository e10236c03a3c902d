package httperr

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgconn"
)

func TestIsBusiness_Wrapped(t *testing.T) {
	err := fmt.Errorf("create appointment: %w", ErrBusiness("time_conflict"))

	if !IsBusiness(err, "time_conflict") {
		t.Fatal("expected wrapped business error to match")
	}
	if IsBusiness(err, "too_soon") {
		t.Fatal("expected different code not to match")
	}
	if code, ok := BusinessCode(err); !ok || code != "time_conflict" {
		t.Fatalf("expected code time_conflict, got %q (%v)", code, ok)
	}
}

func TestPgConflicts(t *testing.T) {
	excl := fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23P01"})
	uniq := &pgconn.PgError{Code: "23505"}

	if !IsExclusionConflict(excl) {
		t.Error("expected exclusion conflict")
	}
	if IsExclusionConflict(uniq) {
		t.Error("unique violation is not an exclusion conflict")
	}
	if !IsUniqueViolation(uniq) {
		t.Error("expected unique violation")
	}
	if IsUniqueViolation(fmt.Errorf("plain")) {
		t.Error("plain error is not a pg error")
	}
}

func TestRespond(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		err    error
		status int
		code   string
	}{
		{ErrBusiness("time_conflict"), http.StatusConflict, "time_conflict"},
		{fmt.Errorf("wrapped: %w", ErrBusiness("appointment_not_found")), http.StatusNotFound, "appointment_not_found"},
		{ErrBusiness("something_new"), http.StatusBadRequest, "something_new"},
		{errors.New("db down"), http.StatusInternalServerError, "fallback"},
	}

	for _, tc := range cases {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)

		Respond(c, tc.err, "fallback")

		if w.Code != tc.status {
			t.Errorf("%v: expected %d, got %d", tc.err, tc.status, w.Code)
		}
		var body HTTPError
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil || body.Code != tc.code {
			t.Errorf("%v: expected code %s, got %s", tc.err, tc.code, w.Body.String())
		}
	}
}
