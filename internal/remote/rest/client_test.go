package rest

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/you/drivingschool-training/internal/domain"
)

func testServer(t *testing.T, wantMethod, wantPath string, status int, body string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, wantMethod, r.Method)
		assert.Equal(t, wantPath, r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
}

func TestListSessions(t *testing.T) {
	srv := testServer(t, http.MethodGet, "/v1/sessions", http.StatusOK,
		`{"sessions":[{"sessionId":"S001","status":"pending","maxCount":2}]}`)
	defer srv.Close()

	c := NewClient(srv.URL)
	got, err := c.ListSessions(context.Background())
	assert.NoError(t, err)
	assert.Len(t, got, 1)
	assert.Equal(t, "S001", got[0].SessionID)
	assert.Equal(t, domain.SessionPending, got[0].Status)
}

func TestListSessionsByInstructorQuery(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "I001", r.URL.Query().Get("instructor_id"))
		_, _ = w.Write([]byte(`{"sessions":[]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	_, err := c.ListSessionsByInstructor(context.Background(), "I001")
	assert.NoError(t, err)
}

func TestListSessionsByDateRangeQuery(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "2025-06-01T00:00:00Z", r.URL.Query().Get("from"))
		assert.Equal(t, "2025-06-30T00:00:00Z", r.URL.Query().Get("to"))
		_, _ = w.Write([]byte(`{"sessions":[]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	_, err := c.ListSessionsByDateRange(context.Background(),
		time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC))
	assert.NoError(t, err)
}

func TestCreateSessionSendsTokenAndBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer tok123", r.Header.Get("Authorization"))
		var in domain.SessionInput
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		assert.Equal(t, "Lot A", in.Location)
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"session":{"sessionId":"S001","status":"pending"}}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, WithToken("tok123"))
	got, err := c.CreateSession(context.Background(), domain.SessionInput{
		Date: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), Time: "10:00",
		Location: "Lot A", VehicleID: "V001", InstructorID: "I001", MaxCount: 2,
	})
	assert.NoError(t, err)
	assert.Equal(t, "S001", got.SessionID)
}

func TestUpdateSessionStatus(t *testing.T) {
	srv := testServer(t, http.MethodPatch, "/v1/sessions/S001/status", http.StatusOK,
		`{"session":{"sessionId":"S001","status":"completed"}}`)
	defer srv.Close()

	c := NewClient(srv.URL)
	got, err := c.UpdateSessionStatus(context.Background(), "S001", domain.SessionCompleted)
	assert.NoError(t, err)
	assert.Equal(t, domain.SessionCompleted, got.Status)
}

func TestCancelSessionUsesDelete(t *testing.T) {
	srv := testServer(t, http.MethodDelete, "/v1/sessions/S001", http.StatusOK,
		`{"session":{"sessionId":"S001","status":"cancelled"}}`)
	defer srv.Close()

	c := NewClient(srv.URL)
	got, err := c.CancelSession(context.Background(), "S001")
	assert.NoError(t, err)
	assert.Equal(t, domain.SessionCancelled, got.Status)
}

func TestEnroll(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/enrollments", r.URL.Path)
		var in map[string]string
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		assert.Equal(t, "U1", in["userId"])
		assert.Equal(t, "S001", in["sessionId"])
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"enrollment":{"enrollmentId":"E001","userId":"U1","sessionId":"S001","status":"confirmed"}}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	got, err := c.Enroll(context.Background(), "U1", "S001")
	assert.NoError(t, err)
	assert.Equal(t, "E001", got.EnrollmentID)
	assert.Equal(t, domain.EnrollmentConfirmed, got.Status)
}

func TestListEnrollmentsBySession(t *testing.T) {
	srv := testServer(t, http.MethodGet, "/v1/sessions/S001/enrollments", http.StatusOK,
		`{"enrollments":[{"enrollmentId":"E001","status":"confirmed"}]}`)
	defer srv.Close()

	c := NewClient(srv.URL)
	got, err := c.ListEnrollmentsBySession(context.Background(), "S001")
	assert.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestRemoteErrorCarriesStatusAndMessage(t *testing.T) {
	srv := testServer(t, http.MethodPost, "/v1/enrollments", http.StatusConflict,
		`{"error":"session_full"}`)
	defer srv.Close()

	c := NewClient(srv.URL)
	_, err := c.Enroll(context.Background(), "U1", "S001")
	var re *domain.RemoteError
	assert.ErrorAs(t, err, &re)
	assert.Equal(t, http.StatusConflict, re.Status)
	assert.Contains(t, re.Error(), "session_full")
}

func TestConnectionErrorIsRemoteError(t *testing.T) {
	c := NewClient("http://127.0.0.1:1") // nothing listens here
	_, err := c.ListSessions(context.Background())
	assert.True(t, domain.IsRemote(err))
}
