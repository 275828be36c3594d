package constants

// User role
const (
	RoleUser  = 0
	RoleAdmin = 1
)

// Check-in status
const (
	CheckInPresent = "HADIR"
	CheckInExcused = "IZIN"
	CheckInSick    = "SAKIT"
	CheckInAbsent  = "ALPHA"
)

// Check-out status
const (
	CheckOutDeparted = "PULANG"
	CheckOutOvertime = "LEMBUR"
)

// DefaultTimezone is the reference timezone used to cut calendar days.
const DefaultTimezone = "Asia/Jakarta"

func IsValidCheckInStatus(status string) bool {
	switch status {
	case CheckInPresent, CheckInExcused, CheckInSick, CheckInAbsent:
		return true
	}
	return false
}

func IsValidCheckOutStatus(status string) bool {
	switch status {
	case CheckOutDeparted, CheckOutOvertime:
		return true
	}
	return false
}

// RoleName returns the role label used in responses.
func RoleName(role int) string {
	if role == RoleAdmin {
		return "ADMIN"
	}
	return "USER"
}
