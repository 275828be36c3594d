package services

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	apperrors "absensi/errors"
	"absensi/models"
)

type dayKey struct {
	userID uint
	date   int64
}

// MemoryStore keeps users and attendances in process. A single mutex gives
// InsertIfAbsent and UpdateIfCheckOutUnset the same atomicity the postgres
// unique index and conditional update give GormAttendanceStore.
type MemoryStore struct {
	mu          sync.Mutex
	nextUserID  uint
	nextID      uint
	users       map[uint]models.User
	emails      map[string]uint
	attendances map[uint]models.Attendance
	byDay       map[dayKey]uint
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:       make(map[uint]models.User),
		emails:      make(map[string]uint),
		attendances: make(map[uint]models.Attendance),
		byDay:       make(map[dayKey]uint),
	}
}

func keyOf(userID uint, date time.Time) dayKey {
	return dayKey{userID: userID, date: date.Unix()}
}

func (s *MemoryStore) FindOneByUserAndDate(ctx context.Context, userID uint, date time.Time) (*models.Attendance, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.byDay[keyOf(userID, date)]
	if !ok {
		return nil, nil
	}
	record := s.attendances[id]
	return &record, nil
}

func (s *MemoryStore) InsertIfAbsent(ctx context.Context, record *models.Attendance) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := keyOf(record.UserID, record.Date)
	if _, exists := s.byDay[key]; exists {
		return apperrors.ErrAlreadyCheckedIn
	}
	s.nextID++
	record.ID = s.nextID
	record.CreatedAt = record.CheckInAt
	record.UpdatedAt = record.CheckInAt
	s.attendances[record.ID] = *record
	s.byDay[key] = record.ID
	return nil
}

func (s *MemoryStore) UpdateIfCheckOutUnset(ctx context.Context, record *models.Attendance, at time.Time, status string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.attendances[record.ID]
	if !ok {
		return apperrors.ErrNotCheckedIn
	}
	if stored.CheckOutAt != nil {
		return apperrors.ErrAlreadyCheckedOut
	}
	stored.CheckOutAt = &at
	stored.CheckOutStatus = &status
	stored.UpdatedAt = at
	s.attendances[record.ID] = stored
	*record = stored
	return nil
}

func (s *MemoryStore) FindManyByUser(ctx context.Context, userID uint) ([]models.Attendance, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	records := make([]models.Attendance, 0)
	for _, rec := range s.attendances {
		if rec.UserID == userID {
			records = append(records, rec)
		}
	}
	sortByDateDesc(records)
	return records, nil
}

func (s *MemoryStore) FindAllWithUser(ctx context.Context) ([]models.Attendance, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	records := make([]models.Attendance, 0, len(s.attendances))
	for _, rec := range s.attendances {
		if u, ok := s.users[rec.UserID]; ok {
			rec.User = &models.User{ID: u.ID, Name: u.Name, Email: u.Email}
		}
		records = append(records, rec)
	}
	sortByDateDesc(records)
	return records, nil
}

func (s *MemoryStore) FindByDate(ctx context.Context, date time.Time) ([]models.Attendance, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	records := make([]models.Attendance, 0)
	for _, rec := range s.attendances {
		if rec.Date.Equal(date) {
			records = append(records, rec)
		}
	}
	sort.Slice(records, func(i, j int) bool { return records[i].ID < records[j].ID })
	return records, nil
}

func (s *MemoryStore) FindByID(ctx context.Context, id uint) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	return &u, nil
}

func (s *MemoryStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.emails[strings.ToLower(email)]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	u := s.users[id]
	return &u, nil
}

func (s *MemoryStore) Create(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	user.Email = strings.ToLower(user.Email)
	if _, exists := s.emails[user.Email]; exists {
		return apperrors.ErrUserExists
	}
	s.nextUserID++
	user.ID = s.nextUserID
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	s.users[user.ID] = *user
	s.emails[user.Email] = user.ID
	return nil
}

func sortByDateDesc(records []models.Attendance) {
	sort.Slice(records, func(i, j int) bool {
		if !records[i].Date.Equal(records[j].Date) {
			return records[i].Date.After(records[j].Date)
		}
		return records[i].ID > records[j].ID
	})
}
