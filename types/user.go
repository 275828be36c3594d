package types

// Identity is the caller resolved from the access token.
type Identity struct {
	UserID uint
	Role   int
}

// AttendanceUserResponse is the owner block joined into admin listings.
type AttendanceUserResponse struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}
