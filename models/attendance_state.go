package models

import (
	"time"

	apperrors "absensi/errors"
)

// AttendanceState is the lifecycle position of one day key:
// NONE -> CHECKED_IN -> CHECKED_OUT, forward only.
type AttendanceState interface {
	Name() string
	CheckIn() error
	CheckOut(record *Attendance, at time.Time, status string) error
}

const (
	StateNone       = "NONE"
	StateCheckedIn  = "CHECKED_IN"
	StateCheckedOut = "CHECKED_OUT"
)

// NoneState: nothing recorded for the day yet.
type NoneState struct{}

func (s *NoneState) Name() string { return StateNone }

func (s *NoneState) CheckIn() error {
	return nil
}

func (s *NoneState) CheckOut(record *Attendance, at time.Time, status string) error {
	return apperrors.ErrNotCheckedIn
}

// CheckedInState: arrival recorded, departure pending.
type CheckedInState struct{}

func (s *CheckedInState) Name() string { return StateCheckedIn }

func (s *CheckedInState) CheckIn() error {
	return apperrors.ErrAlreadyCheckedIn
}

func (s *CheckedInState) CheckOut(record *Attendance, at time.Time, status string) error {
	record.CheckOutAt = &at
	record.CheckOutStatus = &status
	return nil
}

// CheckedOutState is terminal for the day.
type CheckedOutState struct{}

func (s *CheckedOutState) Name() string { return StateCheckedOut }

func (s *CheckedOutState) CheckIn() error {
	return apperrors.ErrAlreadyCheckedIn
}

func (s *CheckedOutState) CheckOut(record *Attendance, at time.Time, status string) error {
	return apperrors.ErrAlreadyCheckedOut
}

// GetAttendanceState returns the state for record; nil means no record today.
func GetAttendanceState(record *Attendance) AttendanceState {
	switch {
	case record == nil:
		return &NoneState{}
	case record.CheckedOut():
		return &CheckedOutState{}
	default:
		return &CheckedInState{}
	}
}
