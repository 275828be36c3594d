package builders

import (
	"time"

	"absensi/constants"
	"absensi/models"
)

// AttendanceBuilder assembles a new check-in record step by step.
type AttendanceBuilder struct {
	record *models.Attendance
}

func NewAttendanceBuilder() *AttendanceBuilder {
	return &AttendanceBuilder{
		record: &models.Attendance{CheckInStatus: constants.CheckInPresent},
	}
}

func (b *AttendanceBuilder) WithUser(userID uint) *AttendanceBuilder {
	b.record.UserID = userID
	return b
}

// WithDate sets the day key; callers pass an already normalized date.
func (b *AttendanceBuilder) WithDate(date time.Time) *AttendanceBuilder {
	b.record.Date = date
	return b
}

// WithCheckIn sets the arrival time; an empty status keeps HADIR.
func (b *AttendanceBuilder) WithCheckIn(at time.Time, status string) *AttendanceBuilder {
	b.record.CheckInAt = at
	if status != "" {
		b.record.CheckInStatus = status
	}
	return b
}

func (b *AttendanceBuilder) WithLocation(lat, lon, accuracy *float64) *AttendanceBuilder {
	b.record.Latitude = lat
	b.record.Longitude = lon
	b.record.Accuracy = accuracy
	return b
}

func (b *AttendanceBuilder) WithPhoto(url string) *AttendanceBuilder {
	if url != "" {
		b.record.PhotoURL = &url
	}
	return b
}

func (b *AttendanceBuilder) Build() *models.Attendance {
	return b.record
}
