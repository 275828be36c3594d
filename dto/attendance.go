package dto

import (
	"time"

	"absensi/types"
)

// CheckInInput is bound from JSON or multipart form; every field is optional.
type CheckInInput struct {
	Status    string   `json:"status" form:"status" validate:"omitempty,oneof=HADIR IZIN SAKIT ALPHA"`
	Latitude  *float64 `json:"lat" form:"lat" validate:"omitempty,gte=-90,lte=90"`
	Longitude *float64 `json:"lon" form:"lon" validate:"omitempty,gte=-180,lte=180"`
	Accuracy  *float64 `json:"accuracy" form:"accuracy" validate:"omitempty,gte=0"`
}

type CheckOutInput struct {
	Status string `json:"status" form:"status" validate:"omitempty,oneof=PULANG LEMBUR"`
}

type AttendanceResponse struct {
	ID             uint       `json:"id"`
	UserID         uint       `json:"userId"`
	Date           string     `json:"date"`
	CheckInAt      time.Time  `json:"checkInAt"`
	CheckOutAt     *time.Time `json:"checkOutAt"`
	CheckInStatus  string     `json:"checkInStatus"`
	CheckOutStatus *string    `json:"checkOutStatus"`
	PhotoURL       *string    `json:"photoUrl,omitempty"`
	Latitude       *float64   `json:"latitude,omitempty"`
	Longitude      *float64   `json:"longitude,omitempty"`
	Accuracy       *float64   `json:"accuracy,omitempty"`
	State          string     `json:"state"`
}

type AdminAttendanceResponse struct {
	AttendanceResponse
	User *types.AttendanceUserResponse `json:"user"`
}
