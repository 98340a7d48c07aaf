package domain

import (
	"time"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// SessionInput is the typed form for creating or editing a session.
type SessionInput struct {
	Date         time.Time `json:"date" validate:"required"`
	Time         string    `json:"time" validate:"required,datetime=15:04"`
	Location     string    `json:"location" validate:"required"`
	VehicleID    string    `json:"vehicleId" validate:"required"`
	InstructorID string    `json:"instructorId" validate:"required"`
	MaxCount     int       `json:"maxCount" validate:"required,min=1"`
}

var inputMessages = map[string]string{
	"Date":         "date is required",
	"Time":         "time is required in HH:mm format",
	"Location":     "location is required",
	"VehicleID":    "vehicle is required",
	"InstructorID": "instructor is required",
	"MaxCount":     "capacity must be at least 1",
}

// Validate checks field rules. For new sessions the date must be
// today-or-later; edits may keep a date in the past.
func (in SessionInput) Validate(today time.Time, forNew bool) error {
	var fields []FieldError
	if err := validate.Struct(in); err != nil {
		verr, ok := err.(validator.ValidationErrors)
		if !ok {
			return err
		}
		for _, fe := range verr {
			msg, ok := inputMessages[fe.StructField()]
			if !ok {
				msg = "invalid value"
			}
			fields = append(fields, FieldError{Field: jsonName(fe.StructField()), Message: msg})
		}
	}
	if forNew && !in.Date.IsZero() && DateOnly(in.Date).Before(DateOnly(today)) {
		fields = append(fields, FieldError{Field: "date", Message: "date cannot be in the past"})
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

func jsonName(structField string) string {
	switch structField {
	case "Date":
		return "date"
	case "Time":
		return "time"
	case "Location":
		return "location"
	case "VehicleID":
		return "vehicleId"
	case "InstructorID":
		return "instructorId"
	case "MaxCount":
		return "maxCount"
	}
	return structField
}
