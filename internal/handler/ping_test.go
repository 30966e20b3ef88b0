package handler_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Manav-Sonawane/CodeCloud/internal/handler"
)

type stubClock struct {
	now time.Time
	err error
}

func (c *stubClock) Now(ctx context.Context) (time.Time, error) {
	return c.now, c.err
}

func TestPingHandler(t *testing.T) {
	t.Run("healthy database", func(t *testing.T) {
		clock := &stubClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
		h := handler.NewPingHandler(clock, testLogger())

		rr := httptest.NewRecorder()
		h.HandlePing(rr, httptest.NewRequest(http.MethodGet, "/ping", nil))

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `{"message":"pong","db_time":"2025-06-01T12:00:00Z"}`, rr.Body.String())
	})

	t.Run("database down", func(t *testing.T) {
		clock := &stubClock{err: errors.New("connection refused")}
		h := handler.NewPingHandler(clock, testLogger())

		rr := httptest.NewRecorder()
		h.HandlePing(rr, httptest.NewRequest(http.MethodGet, "/ping", nil))

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
		assert.JSONEq(t, `{"error":"Database connection failed"}`, rr.Body.String())
	})
}
