// Package api wraps the outbound calls to the GoCode backend. Every
// operation is a single request/response: no retry, no caching, no
// status-specific handling beyond success or failure.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/TalelKhemiri/GoCodeMobile/internal/domain"
	"github.com/TalelKhemiri/GoCodeMobile/internal/errors"
)

// TokenSource resolves the current bearer credential. An empty token means
// the request goes out without an Authorization header; rejecting it is the
// server's job, not the client's.
type TokenSource interface {
	Token() string
}

type Config struct {
	// BaseURL including the /api prefix, e.g. http://10.0.2.2:8000/api.
	BaseURL string
	Timeout time.Duration
	Tokens  TokenSource
}

type Client struct {
	base   string
	http   *http.Client
	tokens TokenSource
}

func New(c Config) *Client {
	base := c.BaseURL
	for len(base) > 0 && base[len(base)-1] == '/' {
		base = base[:len(base)-1]
	}

	return &Client{
		base:   base,
		http:   &http.Client{Timeout: c.Timeout},
		tokens: c.Tokens,
	}
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Access   string `json:"access"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

func (c *Client) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	var resp LoginResponse
	if err := c.do(ctx, http.MethodPost, "/users/login/", req, &resp, "Login failed"); err != nil {
		return nil, err
	}
	return &resp, nil
}

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role,omitempty"`
}

func (c *Client) Register(ctx context.Context, req RegisterRequest) error {
	return c.do(ctx, http.MethodPost, "/users/register/", req, nil, "Registration failed")
}

func (c *Client) GetCourses(ctx context.Context) ([]domain.Course, error) {
	var l list[domain.Course]
	if err := c.do(ctx, http.MethodGet, "/courses/", nil, &l, "Failed to fetch courses"); err != nil {
		return nil, err
	}
	return l.Items, nil
}

func (c *Client) GetMyCourses(ctx context.Context) ([]domain.Course, error) {
	var l list[domain.Course]
	if err := c.do(ctx, http.MethodGet, "/courses/my-courses/", nil, &l, "Failed to fetch my courses"); err != nil {
		return nil, err
	}
	return l.Items, nil
}

func (c *Client) GetCourseDetails(ctx context.Context, id int64) (*domain.Course, error) {
	var course domain.Course
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/courses/%d/full/", id), nil, &course, "Failed to load course content"); err != nil {
		return nil, err
	}
	return &course, nil
}

func (c *Client) GetMonitorDashboard(ctx context.Context) ([]domain.Enrollment, error) {
	var l list[domain.Enrollment]
	if err := c.do(ctx, http.MethodGet, "/courses/monitor/dashboard/", nil, &l, "Failed to fetch monitor dashboard"); err != nil {
		return nil, err
	}
	return l.Items, nil
}

func (c *Client) MarkLessonComplete(ctx context.Context, lessonID int64) error {
	return c.do(ctx, http.MethodPost, fmt.Sprintf("/courses/lessons/%d/complete/", lessonID), nil, nil, "Failed to update progress")
}

func (c *Client) EnrollCourse(ctx context.Context, courseID int64) error {
	return c.do(ctx, http.MethodPost, fmt.Sprintf("/courses/%d/enroll/", courseID), nil, nil, "Enrollment failed")
}

func (c *Client) ManageEnrollment(ctx context.Context, enrollmentID int64, action domain.EnrollmentAction) error {
	if !action.Valid() {
		return errors.New(errors.CodeInvalidArgument,
			errors.WithMessagef("invalid enrollment action: %s", action))
	}

	body := struct {
		Action domain.EnrollmentAction `json:"action"`
	}{Action: action}

	return c.do(ctx, http.MethodPost, fmt.Sprintf("/courses/enrollment/%d/manage/", enrollmentID), body, nil, "Action failed")
}

// do issues one request. A transport failure or a non-2xx status surfaces as
// an *errors.Error carrying opMsg; the response body is decoded into out
// verbatim when out is non-nil.
func (c *Client) do(ctx context.Context, method, path string, body, out any, opMsg string) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return errors.Internal(fmt.Errorf("encode request: %w", err))
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, reader)
	if err != nil {
		return errors.Internal(fmt.Errorf("build request: %w", err))
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.tokens != nil {
		if token := c.tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}
	if id, err := uuid.NewV7(); err == nil {
		req.Header.Set("X-Request-ID", id.String())
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return errors.New(errors.CodeUnavailable,
			errors.WithMessagef("%s", opMsg),
			errors.WithCause(err))
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<10))
		return errors.New(errors.FromHTTPStatus(resp.StatusCode),
			errors.WithMessagef("%s", opMsg),
			errors.WithCause(fmt.Errorf("%s %s: %s: %s", method, path, resp.Status, bytes.TrimSpace(detail))))
	}

	if out == nil {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Internal(fmt.Errorf("decode response: %w", err))
	}

	return nil
}

// list normalizes the two shapes the backend uses for collections, a bare
// array or a paginated {results: [...]}, so nothing downstream branches on
// response shape.
type list[T any] struct {
	Items []T
}

func (l *list[T]) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '[' {
		return json.Unmarshal(b, &l.Items)
	}

	var env struct {
		Results []T `json:"results"`
	}
	if err := json.Unmarshal(b, &env); err != nil {
		return err
	}
	l.Items = env.Results

	return nil
}
