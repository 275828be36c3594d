package commands

import (
	"context"
	"errors"
	"time"

	apperrors "absensi/errors"
	"absensi/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AttendanceCommand is a single atomic write against the attendances table.
type AttendanceCommand interface {
	Execute(ctx context.Context) error
}

// CheckInCommand inserts a record unless one already exists for its
// (user_id, date). The unique index decides; no prior read is involved.
type CheckInCommand struct {
	record *models.Attendance
	db     *gorm.DB
}

func NewCheckInCommand(record *models.Attendance, db *gorm.DB) *CheckInCommand {
	return &CheckInCommand{
		record: record,
		db:     db,
	}
}

func (c *CheckInCommand) Execute(ctx context.Context) error {
	res := c.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "date"}},
			DoNothing: true,
		}).
		Create(c.record)
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
			return apperrors.ErrAlreadyCheckedIn
		}
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrAlreadyCheckedIn
	}
	return nil
}

// CheckOutCommand sets the departure fields only while check_out_at is NULL.
type CheckOutCommand struct {
	recordID uint
	at       time.Time
	status   string
	db       *gorm.DB
}

func NewCheckOutCommand(recordID uint, at time.Time, status string, db *gorm.DB) *CheckOutCommand {
	return &CheckOutCommand{
		recordID: recordID,
		at:       at,
		status:   status,
		db:       db,
	}
}

func (c *CheckOutCommand) Execute(ctx context.Context) error {
	res := c.db.WithContext(ctx).
		Model(&models.Attendance{}).
		Where("id = ? AND check_out_at IS NULL", c.recordID).
		Updates(map[string]interface{}{
			"check_out_at":     c.at,
			"check_out_status": c.status,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrAlreadyCheckedOut
	}
	return nil
}
