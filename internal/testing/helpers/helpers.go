package helpers

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"github.com/mergington/activities/internal/handler"
	"github.com/mergington/activities/internal/middleware"
	"github.com/mergington/activities/internal/model"
	"github.com/mergington/activities/internal/repository"
	"github.com/mergington/activities/internal/seed"
	"github.com/mergington/activities/internal/service"
	"github.com/mergington/activities/web"
)

// ============================================================================
// Test Stack
// ============================================================================

// StackOptions tune NewStack
type StackOptions struct {
	Seed              model.ActivityDirectory // nil uses the embedded catalog
	EnforceCapacity   bool
	HeartbeatInterval time.Duration
	// WithMiddleware wraps the router in the production middleware chain
	WithMiddleware bool
	RateLimit      middleware.RateLimitConfig
}

// Stack is a fully wired in-process API
type Stack struct {
	Repo    *repository.ActivityRepository
	Hub     *service.EventHub
	Service *service.ActivityService
	Mux     *http.ServeMux
	Handler http.Handler
	Logger  *zap.Logger
}

// NewStack builds a Stack whose resources are released with t.Cleanup
func NewStack(t *testing.T, opts StackOptions) *Stack {
	t.Helper()

	dir := opts.Seed
	if dir == nil {
		dir = seed.MustDefault()
	}
	logger := zaptest.NewLogger(t)

	repo := repository.NewActivityRepository(dir)
	hub := service.NewEventHub(opts.HeartbeatInterval)
	t.Cleanup(hub.Close)

	svc := service.NewActivityService(service.ActivityServiceConfig{
		Repo:            repo,
		Events:          hub,
		EnforceCapacity: opts.EnforceCapacity,
	})

	mux := handler.NewRouter(handler.RouterConfig{
		Activities:  handler.NewActivityHandler(svc, logger),
		Events:      handler.NewEventsHandler(hub, svc),
		StaticFS:    web.Static(),
		MetricsPath: "/metrics",
	})

	var h http.Handler = mux
	if opts.WithMiddleware {
		limiter := middleware.NewRateLimiter(opts.RateLimit)
		t.Cleanup(limiter.Stop)
		store := middleware.NewIdempotencyStore(middleware.IdempotencyConfig{})
		t.Cleanup(store.Stop)

		h = middleware.Chain(mux,
			middleware.RequestID,
			middleware.Logger(logger),
			middleware.Recovery(logger),
			middleware.CORS([]string{"*"}),
			middleware.RateLimit(limiter),
			middleware.Idempotency(store),
			middleware.Compress,
			middleware.Metrics,
		)
	}

	return &Stack{
		Repo:    repo,
		Hub:     hub,
		Service: svc,
		Mux:     mux,
		Handler: h,
		Logger:  logger,
	}
}

// ============================================================================
// HTTP Request Helpers
// ============================================================================

// RequestBuilder helps construct HTTP requests for testing
type RequestBuilder struct {
	t          *testing.T
	method     string
	path       string
	query      url.Values
	body       string
	headers    map[string]string
	remoteAddr string
}

// NewRequest creates a new request builder. path may already be escaped,
// e.g. /activities/Chess%20Club/signup.
func NewRequest(t *testing.T, method, path string) *RequestBuilder {
	t.Helper()
	return &RequestBuilder{
		t:       t,
		method:  method,
		path:    path,
		query:   url.Values{},
		headers: make(map[string]string),
	}
}

// WithQuery adds a query parameter; values are escaped
func (rb *RequestBuilder) WithQuery(key, value string) *RequestBuilder {
	rb.query.Add(key, value)
	return rb
}

// WithBody sets a raw request body
func (rb *RequestBuilder) WithBody(body string) *RequestBuilder {
	rb.body = body
	return rb
}

// WithHeader adds a header to the request
func (rb *RequestBuilder) WithHeader(key, value string) *RequestBuilder {
	rb.headers[key] = value
	return rb
}

// WithRemoteAddr overrides the client address
func (rb *RequestBuilder) WithRemoteAddr(addr string) *RequestBuilder {
	rb.remoteAddr = addr
	return rb
}

// Build creates the HTTP request
func (rb *RequestBuilder) Build() *http.Request {
	rb.t.Helper()

	target := rb.path
	if len(rb.query) > 0 {
		target += "?" + rb.query.Encode()
	}

	var body io.Reader
	if rb.body != "" {
		body = strings.NewReader(rb.body)
	}

	req := httptest.NewRequest(rb.method, target, body)
	for k, v := range rb.headers {
		req.Header.Set(k, v)
	}
	if rb.remoteAddr != "" {
		req.RemoteAddr = rb.remoteAddr
	}
	return req
}

// Do serves the request on h and returns the recorded response
func (rb *RequestBuilder) Do(h http.Handler) *httptest.ResponseRecorder {
	rb.t.Helper()

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, rb.Build())
	return rr
}

// ============================================================================
// Response Assertion Helpers
// ============================================================================

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, resp *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if resp.Code != expected {
		t.Errorf("expected status %d, got %d. Body: %s", expected, resp.Code, resp.Body.String())
	}
}

// DecodeProblem decodes an RFC 9457 Problem Details body
func DecodeProblem(t *testing.T, resp *httptest.ResponseRecorder) model.ProblemDetails {
	t.Helper()

	if ct := resp.Header().Get("Content-Type"); ct != "application/problem+json" {
		t.Errorf("expected Content-Type application/problem+json, got %q", ct)
	}

	var problem model.ProblemDetails
	if err := json.Unmarshal(resp.Body.Bytes(), &problem); err != nil {
		t.Fatalf("failed to decode problem details: %v. Body: %s", err, resp.Body.String())
	}
	return problem
}

// AssertProblemDetails validates an RFC 9457 Problem Details error response
func AssertProblemDetails(t *testing.T, resp *httptest.ResponseRecorder, expectedStatus int, expectedCode model.ErrorCode) {
	t.Helper()

	AssertStatus(t, resp, expectedStatus)
	problem := DecodeProblem(t, resp)

	if problem.Status != expectedStatus {
		t.Errorf("expected problem.status %d, got %d", expectedStatus, problem.Status)
	}
	if expectedCode != 0 && problem.Code != expectedCode {
		t.Errorf("expected problem.code %d, got %d", expectedCode, problem.Code)
	}
}

// AssertProblemDetail checks the exact detail string of a problem response
func AssertProblemDetail(t *testing.T, resp *httptest.ResponseRecorder, detail string) {
	t.Helper()

	if problem := DecodeProblem(t, resp); problem.Detail != detail {
		t.Errorf("expected detail %q, got %q", detail, problem.Detail)
	}
}

// AssertValidationError checks for a validation error on a specific field
func AssertValidationError(t *testing.T, resp *httptest.ResponseRecorder, field string) {
	t.Helper()

	AssertStatus(t, resp, http.StatusUnprocessableEntity)
	problem := DecodeProblem(t, resp)

	for _, fe := range problem.Errors {
		if fe.Field == field {
			return
		}
	}
	t.Errorf("expected validation error on field %q, but not found. Errors: %+v", field, problem.Errors)
}

// DecodeResponse decodes the response body into the given value
func DecodeResponse(t *testing.T, resp *httptest.ResponseRecorder, v interface{}) {
	t.Helper()

	if err := json.Unmarshal(resp.Body.Bytes(), v); err != nil {
		t.Fatalf("failed to decode response: %v. Body: %s", err, resp.Body.String())
	}
}
