package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/yoga-admission/internal/models"
	appErrors "github.com/noah-isme/yoga-admission/pkg/errors"
)

const (
	enrollPath      = "/enroll"
	requestIDHeader = "X-Request-ID"
	maxResponseBody = 1 << 20
)

// EnrollmentClient submits enrollments to the remote enrollment endpoint.
type EnrollmentClient struct {
	endpoint   string
	httpClient *http.Client
	logger     *zap.Logger
	newID      func() string
	now        func() time.Time
}

// Option customises an EnrollmentClient.
type Option func(*EnrollmentClient)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *EnrollmentClient) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithLogger sets the diagnostic logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *EnrollmentClient) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithRequestIDGenerator overrides how X-Request-ID values are produced.
func WithRequestIDGenerator(fn func() string) Option {
	return func(c *EnrollmentClient) {
		if fn != nil {
			c.newID = fn
		}
	}
}

// NewEnrollmentClient builds a client for baseURL. A zero timeout means the
// request runs until the server answers or ctx is done.
func NewEnrollmentClient(baseURL string, timeout time.Duration, opts ...Option) (*EnrollmentClient, error) {
	parsed, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		if err == nil {
			err = fmt.Errorf("base url %q must be absolute", baseURL)
		}
		return nil, appErrors.Wrap(err, appErrors.ErrConfig.Code, appErrors.ErrConfig.Status, "invalid enrollment api base url")
	}
	c := &EnrollmentClient{
		endpoint:   strings.TrimRight(parsed.String(), "/") + enrollPath,
		httpClient: &http.Client{Timeout: timeout},
		logger:     zap.NewNop(),
		newID:      uuid.NewString,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Endpoint returns the full submission URL.
func (c *EnrollmentClient) Endpoint() string {
	return c.endpoint
}

// SubmitEnrollment posts payload and reports an acknowledgment on HTTP 200.
// Every other outcome is returned as *models.SubmissionError.
func (c *EnrollmentClient) SubmitEnrollment(ctx context.Context, payload models.EnrollmentPayload) (*models.EnrollmentAck, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, &models.SubmissionError{Err: fmt.Errorf("encode payload: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, &models.SubmissionError{Err: fmt.Errorf("build request: %w", err)}
	}
	reqID := c.newID()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set(requestIDHeader, reqID)

	start := c.now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug("enrollment request failed", zap.String("request_id", reqID), zap.Error(err))
		return nil, &models.SubmissionError{Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return nil, &models.SubmissionError{Status: resp.StatusCode, Err: fmt.Errorf("read response: %w", err)}
	}

	c.logger.Debug("enrollment response",
		zap.String("request_id", reqID),
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", c.now().Sub(start)),
	)

	if resp.StatusCode != http.StatusOK {
		return nil, &models.SubmissionError{
			Message: extractErrorMessage(respBody),
			Status:  resp.StatusCode,
		}
	}

	if id := resp.Header.Get(requestIDHeader); id != "" {
		reqID = id
	}
	return &models.EnrollmentAck{
		Status:     resp.StatusCode,
		RequestID:  reqID,
		Body:       json.RawMessage(respBody),
		ReceivedAt: c.now().UTC(),
	}, nil
}

// extractErrorMessage reads the "error" member of a response body. Both the
// plain string form and the {"error":{"message":...}} envelope are accepted.
func extractErrorMessage(body []byte) string {
	var envelope struct {
		Error json.RawMessage `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil || len(envelope.Error) == 0 {
		return ""
	}
	var text string
	if err := json.Unmarshal(envelope.Error, &text); err == nil {
		return strings.TrimSpace(text)
	}
	var detail struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(envelope.Error, &detail); err == nil {
		return strings.TrimSpace(detail.Message)
	}
	return ""
}
