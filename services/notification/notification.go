package notification

import (
	"fmt"
	"time"

	"github.com/olahol/melody"
)

type Service interface {
	SendMessage(message string) error
}

// MelodyService broadcasts to every connected /ws session.
type MelodyService struct {
	m *melody.Melody
}

func NewMelodyService(m *melody.Melody) *MelodyService {
	return &MelodyService{m: m}
}

func (s *MelodyService) SendMessage(message string) error {
	if s.m == nil {
		return fmt.Errorf("melody instance is nil")
	}
	return s.m.Broadcast([]byte(message))
}

// Event kinds carried in attendance messages.
const (
	EventCheckIn  = "check-in"
	EventCheckOut = "check-out"
)

type MessageBuilder struct {
	event  string
	userID uint
	status string
	at     time.Time
}

func NewMessageBuilder(event string, userID uint) *MessageBuilder {
	return &MessageBuilder{
		event:  event,
		userID: userID,
	}
}

func (b *MessageBuilder) WithStatus(status string) *MessageBuilder {
	b.status = status
	return b
}

func (b *MessageBuilder) At(at time.Time) *MessageBuilder {
	b.at = at
	return b
}

func (b *MessageBuilder) Build() string {
	msg := fmt.Sprintf("[%s] user %d", b.event, b.userID)
	if b.status != "" {
		msg += " " + b.status
	}
	if !b.at.IsZero() {
		msg += " pukul " + b.at.Format("15:04")
	}
	return msg
}

// RecapMessage summarizes one closed day.
func RecapMessage(day time.Time, checkedIn, notCheckedOut int) string {
	return fmt.Sprintf("[rekap] %s: %d hadir, %d belum absen pulang", day.Format("2006-01-02"), checkedIn, notCheckedOut)
}
