package rest

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/you/drivingschool-training/internal/domain"
	"github.com/you/drivingschool-training/internal/server/repository"
)

// Service is what the HTTP layer needs from the training service.
type Service interface {
	CreateSession(ctx context.Context, in domain.SessionInput) (*domain.TrainingSession, error)
	UpdateSession(ctx context.Context, id string, in domain.SessionInput) (*domain.TrainingSession, error)
	UpdateSessionStatus(ctx context.Context, id string, to domain.SessionStatus) (*domain.TrainingSession, error)
	CancelSession(ctx context.Context, id string) (*domain.TrainingSession, error)
	GetSession(ctx context.Context, id string) (*domain.TrainingSession, error)
	ListSessions(ctx context.Context, f repository.SessionFilter) ([]domain.TrainingSession, error)

	Enroll(ctx context.Context, userID, sessionID string) (*domain.Enrollment, error)
	ListEnrollmentsBySession(ctx context.Context, sessionID string) ([]domain.Enrollment, error)
	UpdateEnrollmentStatus(ctx context.Context, id string, to domain.EnrollmentStatus) (*domain.Enrollment, error)
	CancelEnrollment(ctx context.Context, id string) (*domain.Enrollment, error)

	ListInstructors(ctx context.Context) ([]domain.Instructor, error)
	CreateInstructor(ctx context.Context, in domain.Instructor) (*domain.Instructor, error)
	ListVehicles(ctx context.Context) ([]domain.Vehicle, error)
	CreateVehicle(ctx context.Context, v domain.Vehicle) (*domain.Vehicle, error)
}

type Handler struct {
	svc Service
}

func NewHandler(svc Service) *Handler {
	return &Handler{svc: svc}
}

// writeErr maps the domain error taxonomy onto HTTP statuses.
func writeErr(c *gin.Context, err error) {
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": ve.Error(), "fields": ve.Fields})
		return
	}
	if domain.IsPrecondition(err) {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, repository.ErrSessionFull),
		errors.Is(err, repository.ErrAlreadyEnrolled),
		errors.Is(err, repository.ErrSessionNotOpen),
		errors.Is(err, repository.ErrNotPending),
		errors.Is(err, repository.ErrAttendanceFrozen):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

// POST /v1/sessions
func (h *Handler) CreateSession(c *gin.Context) {
	var in domain.SessionInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	ts, err := h.svc.CreateSession(c.Request.Context(), in)
	if err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"session": ts})
}

// PUT /v1/sessions/:id
func (h *Handler) UpdateSession(c *gin.Context) {
	var in domain.SessionInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	ts, err := h.svc.UpdateSession(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"session": ts})
}

// PATCH /v1/sessions/:id/status
func (h *Handler) UpdateSessionStatus(c *gin.Context) {
	var in struct {
		Status domain.SessionStatus `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	ts, err := h.svc.UpdateSessionStatus(c.Request.Context(), c.Param("id"), in.Status)
	if err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"session": ts})
}

// DELETE /v1/sessions/:id — tombstones as cancelled, echoes the record.
func (h *Handler) CancelSession(c *gin.Context) {
	ts, err := h.svc.CancelSession(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"session": ts})
}

// GET /v1/sessions/:id
func (h *Handler) GetSession(c *gin.Context) {
	ts, err := h.svc.GetSession(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"session": ts})
}

// GET /v1/sessions?instructor_id=&from=&to=&available=true
func (h *Handler) ListSessions(c *gin.Context) {
	f := repository.SessionFilter{
		InstructorID:  c.Query("instructor_id"),
		AvailableOnly: c.Query("available") == "true",
	}
	if v := c.Query("from"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "from must be RFC3339"})
			return
		}
		f.From = t
	}
	if v := c.Query("to"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "to must be RFC3339"})
			return
		}
		f.To = t
	}
	list, err := h.svc.ListSessions(c.Request.Context(), f)
	if err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sessions": list})
}

// POST /v1/enrollments
func (h *Handler) Enroll(c *gin.Context) {
	var in struct {
		UserID    string `json:"userId" binding:"required"`
		SessionID string `json:"sessionId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	e, err := h.svc.Enroll(c.Request.Context(), in.UserID, in.SessionID)
	if err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"enrollment": e})
}

// GET /v1/sessions/:id/enrollments
func (h *Handler) ListEnrollments(c *gin.Context) {
	list, err := h.svc.ListEnrollmentsBySession(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"enrollments": list})
}

// PATCH /v1/enrollments/:id
func (h *Handler) UpdateEnrollment(c *gin.Context) {
	var in struct {
		Status domain.EnrollmentStatus `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	e, err := h.svc.UpdateEnrollmentStatus(c.Request.Context(), c.Param("id"), in.Status)
	if err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"enrollment": e})
}

// DELETE /v1/enrollments/:id — cancels, echoes the record.
func (h *Handler) CancelEnrollment(c *gin.Context) {
	e, err := h.svc.CancelEnrollment(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"enrollment": e})
}

// GET /v1/instructors
func (h *Handler) ListInstructors(c *gin.Context) {
	list, err := h.svc.ListInstructors(c.Request.Context())
	if err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"instructors": list})
}

// POST /v1/instructors (ADMIN)
func (h *Handler) CreateInstructor(c *gin.Context) {
	var in domain.Instructor
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	created, err := h.svc.CreateInstructor(c.Request.Context(), in)
	if err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"instructor": created})
}

// GET /v1/vehicles
func (h *Handler) ListVehicles(c *gin.Context) {
	list, err := h.svc.ListVehicles(c.Request.Context())
	if err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"vehicles": list})
}

// POST /v1/vehicles (ADMIN)
func (h *Handler) CreateVehicle(c *gin.Context) {
	var in domain.Vehicle
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	created, err := h.svc.CreateVehicle(c.Request.Context(), in)
	if err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"vehicle": created})
}
