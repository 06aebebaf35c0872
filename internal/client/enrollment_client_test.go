package client

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/yoga-admission/internal/contract"
	"github.com/noah-isme/yoga-admission/internal/models"
)

func samplePayload() models.EnrollmentPayload {
	return models.EnrollmentPayload{
		Name:          "Asha",
		DateOfBirth:   "2000-01-01",
		ContactNumber: "9876543210",
		Email:         "a@b.com",
		BatchID:       2,
		Month:         "2025-06",
	}
}

func newTestClient(t *testing.T, h http.HandlerFunc) *EnrollmentClient {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c, err := NewEnrollmentClient(srv.URL, 0, WithRequestIDGenerator(func() string { return "req-fixed" }))
	require.NoError(t, err)
	return c
}

func TestSubmitEnrollmentSendsExactBody(t *testing.T) {
	var body []byte
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/enroll", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "req-fixed", r.Header.Get("X-Request-ID"))
		body, _ = io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":{"message":"Enrollment received"}}`))
	})

	ack, err := c.SubmitEnrollment(context.Background(), samplePayload())
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"Asha","date_of_birth":"2000-01-01","contact_number":"9876543210","email":"a@b.com","batch_id":2,"month":"2025-06"}`, string(body))
	assert.Equal(t, http.StatusOK, ack.Status)
	assert.Equal(t, "req-fixed", ack.RequestID)
	assert.JSONEq(t, `{"data":{"message":"Enrollment received"}}`, string(ack.Body))

	violations, err := contract.ValidateEnrollmentRequest(body)
	require.NoError(t, err)
	assert.Empty(t, violations)
}

func TestSubmitEnrollmentUsesServerRequestID(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Request-ID", "server-id")
		w.WriteHeader(http.StatusOK)
	})
	ack, err := c.SubmitEnrollment(context.Background(), samplePayload())
	require.NoError(t, err)
	assert.Equal(t, "server-id", ack.RequestID)
}

func TestSubmitEnrollmentErrorMessages(t *testing.T) {
	cases := []struct {
		name    string
		status  int
		body    string
		message string
	}{
		{"plain error", http.StatusConflict, `{"error":"Batch full"}`, "Batch full"},
		{"envelope error", http.StatusInternalServerError, `{"error":{"code":"X","message":"database down"}}`, "database down"},
		{"empty error", http.StatusBadRequest, `{"error":""}`, models.DefaultSubmissionMessage},
		{"no error field", http.StatusBadRequest, `{"data":null}`, models.DefaultSubmissionMessage},
		{"not json", http.StatusBadGateway, `<html>bad gateway</html>`, models.DefaultSubmissionMessage},
		{"created is not ok", http.StatusCreated, `{"data":{}}`, models.DefaultSubmissionMessage},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			})
			ack, err := c.SubmitEnrollment(context.Background(), samplePayload())
			assert.Nil(t, ack)
			var subErr *models.SubmissionError
			require.True(t, errors.As(err, &subErr))
			assert.Equal(t, tc.status, subErr.Status)
			assert.Equal(t, tc.message, subErr.UserMessage())
		})
	}
}

func TestSubmitEnrollmentTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	c, err := NewEnrollmentClient(url, time.Second)
	require.NoError(t, err)
	_, err = c.SubmitEnrollment(context.Background(), samplePayload())
	var subErr *models.SubmissionError
	require.True(t, errors.As(err, &subErr))
	assert.NotNil(t, subErr.Unwrap())
	assert.Equal(t, models.DefaultSubmissionMessage, subErr.UserMessage())
}

func TestSubmitEnrollmentHonoursContext(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.SubmitEnrollment(ctx, samplePayload())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewEnrollmentClientEndpoint(t *testing.T) {
	c, err := NewEnrollmentClient("https://yoga.example.com/api/", 0)
	require.NoError(t, err)
	assert.Equal(t, "https://yoga.example.com/api/enroll", c.Endpoint())

	_, err = NewEnrollmentClient("not a url", 0)
	assert.Error(t, err)
	_, err = NewEnrollmentClient("", 0)
	assert.Error(t, err)
}
