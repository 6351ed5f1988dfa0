package model

import (
	"encoding/json"
	"fmt"
	"time"
)

// AppointmentStatus is the lifecycle state of an appointment
type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "Pending"
	StatusConfirmed AppointmentStatus = "Confirmed"
	StatusRejected  AppointmentStatus = "Rejected"
)

// Valid reports whether s is one of the known statuses.
func (s AppointmentStatus) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusRejected:
		return true
	default:
		return false
	}
}

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// Date is a calendar date without time of day. It serialises as YYYY-MM-DD.
type Date struct {
	time.Time
}

// NewDate truncates t to its calendar day in UTC.
func NewDate(t time.Time) Date {
	return Date{time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q, use YYYY-MM-DD", s)
	}
	return NewDate(t), nil
}

func (d Date) String() string {
	return d.Format(DateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// ParseTimeOfDay validates an HH:MM (24h) string and returns it normalised.
func ParseTimeOfDay(s string) (string, error) {
	t, err := time.Parse(TimeLayout, s)
	if err != nil {
		return "", fmt.Errorf("invalid time %q, use HH:MM", s)
	}
	return t.Format(TimeLayout), nil
}

// Appointment is a slot a student requested with a teacher
type Appointment struct {
	ID        string            `json:"id"`
	StudentID string            `json:"student_id"`
	TeacherID string            `json:"teacher_id"`
	Date      Date              `json:"date"`
	Time      string            `json:"time"` // HH:MM, independent of Date
	Status    AppointmentStatus `json:"status"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// CreateAppointmentRequest is used for booking a new appointment
type CreateAppointmentRequest struct {
	TeacherID string `json:"teacher_id" binding:"required"`
	Date      string `json:"date" binding:"required"`
	Time      string `json:"time" binding:"required"`
}

// UpdateStatusRequest carries the teacher's decision
type UpdateStatusRequest struct {
	Status AppointmentStatus `json:"status" binding:"required"`
}
