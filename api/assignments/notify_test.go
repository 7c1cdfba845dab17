package assignments

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"lumino_server/api/health"
	"lumino_server/lib"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

type stubNotifier struct {
	err   error
	calls int
}

func (s *stubNotifier) HandleAssignmentWritten(_ context.Context, _ uuid.UUID) error {
	s.calls++
	return s.err
}

func (s *stubNotifier) NotifyPending(_ context.Context) (int, error) {
	return 0, s.err
}

func newNotifyManager(notifier assignmentNotifier) *AssignmentRoutesManager {
	return &AssignmentRoutesManager{
		logger:          gecho.NewDefaultLogger(),
		notifierService: notifier,
	}
}

func notifyRequest(t *testing.T, id uuid.UUID) *http.Request {
	t.Helper()
	r := httptest.NewRequest("POST", "/assignments/"+id.String()+"/notify", nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", id.String())
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func failureCount() float64 {
	return testutil.ToFloat64(health.EmailsSent.WithLabelValues("failure"))
}

func successCount() float64 {
	return testutil.ToFloat64(health.EmailsSent.WithLabelValues("success"))
}

func TestHandleNotifyMetrics(t *testing.T) {
	t.Run("missing assignment does not count as a failed send", func(t *testing.T) {
		before := failureCount()
		arm := newNotifyManager(&stubNotifier{err: lib.ErrNotFound})

		w := httptest.NewRecorder()
		arm.HandleNotify(w, notifyRequest(t, uuid.New()))

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, before, failureCount())
	})

	t.Run("provider failure counts as a failed send", func(t *testing.T) {
		before := failureCount()
		arm := newNotifyManager(&stubNotifier{err: fmt.Errorf("%w: outage", lib.ErrProviderFailure)})

		w := httptest.NewRecorder()
		arm.HandleNotify(w, notifyRequest(t, uuid.New()))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, before+1, failureCount())
	})

	t.Run("invalid recipient counts as a failed send", func(t *testing.T) {
		before := failureCount()
		arm := newNotifyManager(&stubNotifier{err: lib.ErrInvalidPayload})

		w := httptest.NewRecorder()
		arm.HandleNotify(w, notifyRequest(t, uuid.New()))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, before+1, failureCount())
	})

	t.Run("successful dispatch counts", func(t *testing.T) {
		before := successCount()
		arm := newNotifyManager(&stubNotifier{})

		w := httptest.NewRecorder()
		arm.HandleNotify(w, notifyRequest(t, uuid.New()))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, before+1, successCount())
	})
}

func TestHandleWriteHookMetrics(t *testing.T) {
	hookRequest := func(id uuid.UUID) *http.Request {
		body := fmt.Sprintf(`{"assignment_id":%q}`, id)
		return httptest.NewRequest("POST", "/hooks/assignments", strings.NewReader(body))
	}

	t.Run("missing assignment does not count as a failed send", func(t *testing.T) {
		before := failureCount()
		arm := newNotifyManager(&stubNotifier{err: lib.ErrNotFound})

		w := httptest.NewRecorder()
		arm.HandleWriteHook(w, hookRequest(uuid.New()))

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, before, failureCount())
	})

	t.Run("failed dispatch counts", func(t *testing.T) {
		before := failureCount()
		arm := newNotifyManager(&stubNotifier{err: fmt.Errorf("%w: outage", lib.ErrProviderFailure)})

		w := httptest.NewRecorder()
		arm.HandleWriteHook(w, hookRequest(uuid.New()))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, before+1, failureCount())
	})
}
