package services

import (
	"context"
	"time"

	"absensi/services/logger"
	"absensi/services/notification"
)

// AttendanceFlusher drops cached attendance lists.
type AttendanceFlusher interface {
	FlushAttendance(ctx context.Context) error
}

// AttendanceRecapAdapter plugs the attendance service into the cron job.
type AttendanceRecapAdapter struct {
	service  *AttendanceService
	notifier notification.Service
	flusher  AttendanceFlusher
	logger   logger.Logger
}

func NewAttendanceRecapAdapter(service *AttendanceService, notifier notification.Service, flusher AttendanceFlusher, log logger.Logger) *AttendanceRecapAdapter {
	if log == nil {
		log = logger.NewDefaultLogger(logger.InfoLevel)
	}
	return &AttendanceRecapAdapter{
		service:  service,
		notifier: notifier,
		flusher:  flusher,
		logger:   log,
	}
}

// RunDailyRecap summarizes the day that just ended. It never writes records.
func (a *AttendanceRecapAdapter) RunDailyRecap() error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	yesterday := a.service.Today().AddDate(0, 0, -1)
	checkedIn, notCheckedOut, err := a.service.DailySummary(ctx, yesterday)
	if err != nil {
		a.logger.Error("daily recap failed: %v", err)
		return err
	}

	msg := notification.RecapMessage(yesterday, checkedIn, notCheckedOut)
	a.logger.Info("%s", msg)
	if a.notifier != nil {
		if err := a.notifier.SendMessage(msg); err != nil {
			a.logger.Error("recap broadcast failed: %v", err)
		}
	}
	if a.flusher != nil {
		if err := a.flusher.FlushAttendance(ctx); err != nil {
			a.logger.Error("cache flush failed: %v", err)
		}
	}
	return nil
}
