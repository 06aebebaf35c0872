package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/yoga-admission/internal/client"
	"github.com/noah-isme/yoga-admission/internal/models"
	"github.com/noah-isme/yoga-admission/internal/service"
	"github.com/noah-isme/yoga-admission/pkg/config"
	"github.com/noah-isme/yoga-admission/pkg/response"
)

const validBody = `{"name":"Asha","date_of_birth":"2000-01-01","contact_number":"9876543210","email":"a@b.com","batch_id":2,"month":"2025-06"}`

func newStubEngine(t *testing.T, fullBatches ...int) (*gin.Engine, *service.MetricsService) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	metrics := service.NewMetricsService()
	stub := service.NewStubEnrollmentService(fullBatches, metrics, nil)
	cfg := &config.Config{Env: config.EnvDevelopment}
	return NewStubRouter(cfg, stub, metrics, nil), metrics
}

func postEnroll(r http.Handler, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/enroll", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) response.Envelope {
	t.Helper()
	var env response.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func TestEnrollmentHandlerAcceptsValidPayload(t *testing.T) {
	r, metrics := newStubEngine(t)

	w := postEnroll(r, validBody)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	var body struct {
		Data struct {
			EnrollmentID string `json:"enrollment_id"`
			RequestID    string `json:"request_id"`
			Message      string `json:"message"`
			Batch        string `json:"batch"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Enrollment received", body.Data.Message)
	assert.Equal(t, "7-8AM", body.Data.Batch)
	assert.Equal(t, w.Header().Get("X-Request-ID"), body.Data.RequestID)
	assert.NotEmpty(t, body.Data.EnrollmentID)

	count, err := testutil.GatherAndCount(metrics.Registry(), "enrollments_received_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestEnrollmentHandlerRejectsSchemaViolations(t *testing.T) {
	r, _ := newStubEngine(t)

	w := postEnroll(r, `{"name":"Asha","date_of_birth":"2000-01-01","contact_number":"123","email":"a@b.com","batch_id":2,"month":"2025-06"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	env := decodeEnvelope(t, w)
	assert.Equal(t, "VALIDATION_ERROR", env.Code)
	assert.Contains(t, env.Error, "contact_number")
	assert.NotNil(t, env.Details)
}

func TestEnrollmentHandlerRejectsNonJSON(t *testing.T) {
	r, _ := newStubEngine(t)

	w := postEnroll(r, `name=Asha`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_PAYLOAD", decodeEnvelope(t, w).Code)
}

func TestEnrollmentHandlerFullBatch(t *testing.T) {
	r, _ := newStubEngine(t, 2)

	w := postEnroll(r, validBody)
	require.Equal(t, http.StatusConflict, w.Code)
	env := decodeEnvelope(t, w)
	assert.Equal(t, "Batch full", env.Error)
	assert.Equal(t, "BATCH_FULL", env.Code)
}

func TestStubRouterAuxiliaryRoutes(t *testing.T) {
	r, _ := newStubEngine(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/batches", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var batches struct {
		Data []models.Batch `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &batches))
	assert.Equal(t, models.Batches, batches.Data)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "http_requests_total")

	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodOptions, "/enroll", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestStatusHealthCountsServedRequests(t *testing.T) {
	r, _ := newStubEngine(t)

	postEnroll(r, validBody)
	scrape := httptest.NewRecorder()
	r.ServeHTTP(scrape, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, scrape.Code)
	assert.NotContains(t, scrape.Body.String(), `path="/metrics"`)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Data StatusReport `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "ok", body.Data.Status)
	assert.Equal(t, uint64(1), body.Data.RequestsServed)
}

func TestStatusMetricsDisabled(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := NewStubRouter(&config.Config{}, service.NewStubEnrollmentService(nil, nil, nil), nil, nil)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestEnrollmentHandlerUsingTestContext(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewEnrollmentHandler(service.NewStubEnrollmentService(nil, nil, nil))
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost, "/enroll", bytes.NewBufferString(validBody))

	h.Create(c)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestEnrollmentRoundTrip(t *testing.T) {
	for _, tc := range []struct {
		name        string
		fullBatches []int
		phase       service.Phase
		notice      string
	}{
		{name: "accepted", phase: service.PhaseSucceeded},
		{name: "batch full", fullBatches: []int{2}, phase: service.PhaseEditing, notice: "Batch full"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			r, _ := newStubEngine(t, tc.fullBatches...)
			srv := httptest.NewServer(r)
			t.Cleanup(srv.Close)

			sub, err := client.NewEnrollmentClient(srv.URL, 5*time.Second)
			require.NoError(t, err)
			ctrl := service.NewEnrollmentController(sub, service.WithClock(func() time.Time {
				return time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)
			}))
			for field, value := range map[models.Field]string{
				models.FieldName:          "Asha",
				models.FieldDateOfBirth:   "2000-01-01",
				models.FieldContactNumber: "9876543210",
				models.FieldEmail:         "a@b.com",
				models.FieldBatchID:       "7-8AM",
				models.FieldMonth:         "2025-06",
			} {
				ctrl.Edit(field, value)
			}

			state, err := ctrl.Submit(context.Background())
			assert.Equal(t, tc.phase, state.Phase)
			assert.Equal(t, tc.notice, state.Notice)
			if tc.phase == service.PhaseSucceeded {
				require.NoError(t, err)
				require.NotNil(t, state.Ack)
				assert.Equal(t, http.StatusOK, state.Ack.Status)
			} else {
				assert.Error(t, err)
			}
		})
	}
}
