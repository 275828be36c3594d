package models

import "time"

// Attendance is one row per (user, calendar day). The composite unique
// index is what serializes concurrent check-ins for the same day key.
type Attendance struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	UserID         uint       `gorm:"not null;uniqueIndex:uk_attendance_user_date,priority:1" json:"userId"`
	Date           time.Time  `gorm:"type:date;not null;uniqueIndex:uk_attendance_user_date,priority:2;index" json:"date"`
	CheckInAt      time.Time  `gorm:"type:timestamptz;not null" json:"checkInAt"`
	CheckOutAt     *time.Time `gorm:"type:timestamptz" json:"checkOutAt"`
	CheckInStatus  string     `gorm:"type:varchar(10);not null;default:HADIR" json:"checkInStatus"`
	CheckOutStatus *string    `gorm:"type:varchar(10)" json:"checkOutStatus"`
	PhotoURL       *string    `json:"photoUrl,omitempty"`
	Latitude       *float64   `json:"latitude,omitempty"`
	Longitude      *float64   `json:"longitude,omitempty"`
	Accuracy       *float64   `json:"accuracy,omitempty"`
	CreatedAt      time.Time  `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt      time.Time  `gorm:"autoUpdateTime" json:"updatedAt"`
	User           *User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (Attendance) TableName() string {
	return "attendances"
}

func (a *Attendance) CheckedOut() bool {
	return a.CheckOutAt != nil
}
