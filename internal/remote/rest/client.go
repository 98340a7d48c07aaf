package rest

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

	"github.com/you/drivingschool-training/internal/domain"
	"github.com/you/drivingschool-training/internal/remote"
)

// Client talks to the training service's REST API and implements
// remote.Collaborator.
type Client struct {
	baseURL string
	http    *http.Client
	token   string
}

type Option func(*Client)

// WithToken sets the bearer token attached to every request.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 15 * time.Second},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

var _ remote.Collaborator = (*Client)(nil)

type sessionEnvelope struct {
	Session domain.TrainingSession `json:"session"`
}

type sessionsEnvelope struct {
	Sessions []domain.TrainingSession `json:"sessions"`
}

type enrollmentEnvelope struct {
	Enrollment domain.Enrollment `json:"enrollment"`
}

type enrollmentsEnvelope struct {
	Enrollments []domain.Enrollment `json:"enrollments"`
}

type errorEnvelope struct {
	Error string `json:"error"`
}

func (c *Client) do(ctx context.Context, op, method, path string, body, out any) error {
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return &domain.RemoteError{Op: op, Err: err}
		}
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rd)
	if err != nil {
		return &domain.RemoteError{Op: op, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return &domain.RemoteError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var ee errorEnvelope
		msg := resp.Status
		if err := json.NewDecoder(resp.Body).Decode(&ee); err == nil && ee.Error != "" {
			msg = ee.Error
		}
		return &domain.RemoteError{Op: op, Status: resp.StatusCode, Err: fmt.Errorf("%s", msg)}
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &domain.RemoteError{Op: op, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

func (c *Client) listSessions(ctx context.Context, op string, q url.Values) ([]domain.TrainingSession, error) {
	path := "/v1/sessions"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}
	var env sessionsEnvelope
	if err := c.do(ctx, op, http.MethodGet, path, nil, &env); err != nil {
		return nil, err
	}
	return env.Sessions, nil
}

func (c *Client) ListSessions(ctx context.Context) ([]domain.TrainingSession, error) {
	return c.listSessions(ctx, "list sessions", nil)
}

func (c *Client) ListSessionsByInstructor(ctx context.Context, instructorID string) ([]domain.TrainingSession, error) {
	q := url.Values{"instructor_id": {instructorID}}
	return c.listSessions(ctx, "list instructor sessions", q)
}

func (c *Client) ListSessionsByDateRange(ctx context.Context, start, end time.Time) ([]domain.TrainingSession, error) {
	q := url.Values{
		"from": {start.UTC().Format(time.RFC3339)},
		"to":   {end.UTC().Format(time.RFC3339)},
	}
	return c.listSessions(ctx, "list sessions by date range", q)
}

func (c *Client) ListAvailableSessions(ctx context.Context) ([]domain.TrainingSession, error) {
	q := url.Values{"available": {"true"}}
	return c.listSessions(ctx, "list available sessions", q)
}

func (c *Client) GetSession(ctx context.Context, sessionID string) (*domain.TrainingSession, error) {
	var env sessionEnvelope
	if err := c.do(ctx, "get session", http.MethodGet, "/v1/sessions/"+sessionID, nil, &env); err != nil {
		return nil, err
	}
	return &env.Session, nil
}

func (c *Client) CreateSession(ctx context.Context, in domain.SessionInput) (*domain.TrainingSession, error) {
	var env sessionEnvelope
	if err := c.do(ctx, "create session", http.MethodPost, "/v1/sessions", in, &env); err != nil {
		return nil, err
	}
	return &env.Session, nil
}

func (c *Client) UpdateSession(ctx context.Context, sessionID string, in domain.SessionInput) (*domain.TrainingSession, error) {
	var env sessionEnvelope
	if err := c.do(ctx, "update session", http.MethodPut, "/v1/sessions/"+sessionID, in, &env); err != nil {
		return nil, err
	}
	return &env.Session, nil
}

func (c *Client) UpdateSessionStatus(ctx context.Context, sessionID string, status domain.SessionStatus) (*domain.TrainingSession, error) {
	body := map[string]domain.SessionStatus{"status": status}
	var env sessionEnvelope
	if err := c.do(ctx, "update session status", http.MethodPatch, "/v1/sessions/"+sessionID+"/status", body, &env); err != nil {
		return nil, err
	}
	return &env.Session, nil
}

func (c *Client) CancelSession(ctx context.Context, sessionID string) (*domain.TrainingSession, error) {
	var env sessionEnvelope
	if err := c.do(ctx, "cancel session", http.MethodDelete, "/v1/sessions/"+sessionID, nil, &env); err != nil {
		return nil, err
	}
	return &env.Session, nil
}

func (c *Client) Enroll(ctx context.Context, userID, sessionID string) (*domain.Enrollment, error) {
	body := map[string]string{"userId": userID, "sessionId": sessionID}
	var env enrollmentEnvelope
	if err := c.do(ctx, "enroll", http.MethodPost, "/v1/enrollments", body, &env); err != nil {
		return nil, err
	}
	return &env.Enrollment, nil
}

func (c *Client) ListEnrollmentsBySession(ctx context.Context, sessionID string) ([]domain.Enrollment, error) {
	var env enrollmentsEnvelope
	if err := c.do(ctx, "list enrollments", http.MethodGet, "/v1/sessions/"+sessionID+"/enrollments", nil, &env); err != nil {
		return nil, err
	}
	return env.Enrollments, nil
}

func (c *Client) UpdateEnrollmentStatus(ctx context.Context, enrollmentID string, status domain.EnrollmentStatus) (*domain.Enrollment, error) {
	body := map[string]domain.EnrollmentStatus{"status": status}
	var env enrollmentEnvelope
	if err := c.do(ctx, "update enrollment status", http.MethodPatch, "/v1/enrollments/"+enrollmentID, body, &env); err != nil {
		return nil, err
	}
	return &env.Enrollment, nil
}

func (c *Client) CancelEnrollment(ctx context.Context, enrollmentID string) (*domain.Enrollment, error) {
	var env enrollmentEnvelope
	if err := c.do(ctx, "cancel enrollment", http.MethodDelete, "/v1/enrollments/"+enrollmentID, nil, &env); err != nil {
		return nil, err
	}
	return &env.Enrollment, nil
}

func (c *Client) ListInstructors(ctx context.Context) ([]domain.Instructor, error) {
	var env struct {
		Instructors []domain.Instructor `json:"instructors"`
	}
	if err := c.do(ctx, "list instructors", http.MethodGet, "/v1/instructors", nil, &env); err != nil {
		return nil, err
	}
	return env.Instructors, nil
}

func (c *Client) ListVehicles(ctx context.Context) ([]domain.Vehicle, error) {
	var env struct {
		Vehicles []domain.Vehicle `json:"vehicles"`
	}
	if err := c.do(ctx, "list vehicles", http.MethodGet, "/v1/vehicles", nil, &env); err != nil {
		return nil, err
	}
	return env.Vehicles, nil
}
