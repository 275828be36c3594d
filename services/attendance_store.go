package services

import (
	"context"
	"errors"
	"time"

	"absensi/commands"
	"absensi/models"

	"gorm.io/gorm"
)

// AttendanceStore is the persistence boundary of the attendance core.
// InsertIfAbsent and UpdateIfCheckOutUnset must be atomic at the store:
// they report ErrAlreadyCheckedIn / ErrAlreadyCheckedOut themselves.
type AttendanceStore interface {
	FindOneByUserAndDate(ctx context.Context, userID uint, date time.Time) (*models.Attendance, error)
	InsertIfAbsent(ctx context.Context, record *models.Attendance) error
	UpdateIfCheckOutUnset(ctx context.Context, record *models.Attendance, at time.Time, status string) error
	FindManyByUser(ctx context.Context, userID uint) ([]models.Attendance, error)
	FindAllWithUser(ctx context.Context) ([]models.Attendance, error)
	FindByDate(ctx context.Context, date time.Time) ([]models.Attendance, error)
}

type GormAttendanceStore struct {
	db *gorm.DB
}

func NewGormAttendanceStore(db *gorm.DB) *GormAttendanceStore {
	return &GormAttendanceStore{db: db}
}

func (s *GormAttendanceStore) FindOneByUserAndDate(ctx context.Context, userID uint, date time.Time) (*models.Attendance, error) {
	var record models.Attendance
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND date = ?", userID, date).
		First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (s *GormAttendanceStore) InsertIfAbsent(ctx context.Context, record *models.Attendance) error {
	return commands.NewCheckInCommand(record, s.db).Execute(ctx)
}

func (s *GormAttendanceStore) UpdateIfCheckOutUnset(ctx context.Context, record *models.Attendance, at time.Time, status string) error {
	if err := commands.NewCheckOutCommand(record.ID, at, status, s.db).Execute(ctx); err != nil {
		return err
	}
	record.CheckOutAt = &at
	record.CheckOutStatus = &status
	return nil
}

func (s *GormAttendanceStore) FindManyByUser(ctx context.Context, userID uint) ([]models.Attendance, error) {
	var records []models.Attendance
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("date desc, id desc").
		Find(&records).Error
	return records, err
}

func (s *GormAttendanceStore) FindAllWithUser(ctx context.Context) ([]models.Attendance, error) {
	var records []models.Attendance
	err := s.db.WithContext(ctx).
		Preload("User", ownerColumns).
		Order("date desc, id desc").
		Find(&records).Error
	return records, err
}

// ownerColumns limits a joined owner to what listings show.
func ownerColumns(db *gorm.DB) *gorm.DB {
	return db.Select("id", "name", "email")
}

func (s *GormAttendanceStore) FindByDate(ctx context.Context, date time.Time) ([]models.Attendance, error) {
	var records []models.Attendance
	err := s.db.WithContext(ctx).
		Where("date = ?", date).
		Order("id asc").
		Find(&records).Error
	return records, err
}
