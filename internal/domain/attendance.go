package domain

import (
	"math"
	"time"

	"github.com/google/uuid"
)

// ClockAction identifies which attendance transition a recognition
// event produced.
type ClockAction string

const (
	ActionLogin  ClockAction = "login"
	ActionLogout ClockAction = "logout"
)

// AttendanceRecord is one row per (user, calendar date). LoginTime is
// set when the record is created; LogoutTime and WorkingHours are set
// together by the second recognized event of the day. A closed record
// never changes again.
type AttendanceRecord struct {
	ID           uuid.UUID  `json:"id"`
	UserID       uuid.UUID  `json:"user_id"`
	Date         time.Time  `json:"date"`
	LoginTime    *time.Time `json:"login_time,omitempty"`
	LogoutTime   *time.Time `json:"logout_time,omitempty"`
	WorkingHours *float64   `json:"working_hours,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

// Closed reports whether the record already has a logout.
func (r *AttendanceRecord) Closed() bool {
	return r.LogoutTime != nil
}

// WorkingHours returns the elapsed time between login and logout in
// hours, rounded to two decimal places.
func WorkingHours(login, logout time.Time) float64 {
	h := logout.Sub(login).Hours()
	return math.Round(h*100) / 100
}
