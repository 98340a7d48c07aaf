package notify

import (
	"encoding/json"
	"fmt"
)

// Routing keys published by the training service.
const (
	RKSessionCreated   = "session.created"
	RKSessionUpdated   = "session.updated"
	RKSessionCompleted = "session.completed"
	RKSessionCancelled = "session.cancelled"

	RKEnrollmentCreated   = "enrollment.created"
	RKEnrollmentUpdated   = "enrollment.updated"
	RKEnrollmentCancelled = "enrollment.cancelled"
)

type SessionCreated struct {
	SessionID    string `json:"session_id"`
	InstructorID string `json:"instructor_id"`
	VehicleID    string `json:"vehicle_id"`
	Date         string `json:"date"` // yyyy-MM-dd
	Time         string `json:"time"` // HH:mm
	Location     string `json:"location"`
}

type SessionSimple struct {
	SessionID string `json:"session_id"`
}

type EnrollmentCreated struct {
	EnrollmentID string `json:"enrollment_id"`
	UserID       string `json:"user_id"`
	SessionID    string `json:"session_id"`
}

type EnrollmentUpdated struct {
	EnrollmentID string `json:"enrollment_id"`
	Status       string `json:"status"`
}

type EnrollmentCancelled struct {
	EnrollmentID string `json:"enrollment_id"`
	UserID       string `json:"user_id"`
	SessionID    string `json:"session_id"`
}

func MustUnmarshal[T any](b []byte) (T, error) {
	var t T
	if err := json.Unmarshal(b, &t); err != nil {
		var zero T
		return zero, fmt.Errorf("decode payload failed: %w", err)
	}
	return t, nil
}
