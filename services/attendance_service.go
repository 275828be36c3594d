package services

import (
	"context"
	"errors"
	"time"

	"absensi/builders"
	"absensi/constants"
	apperrors "absensi/errors"
	"absensi/models"
	"absensi/services/logger"
	"absensi/services/notification"
	"absensi/types"
	"absensi/utils"
)

// CheckInOptions carries the optional data captured with a check-in.
type CheckInOptions struct {
	Status    string
	Latitude  *float64
	Longitude *float64
	Accuracy  *float64
	PhotoURL  string
}

type AttendanceServiceOptions struct {
	Store    AttendanceStore
	Clock    utils.Clock
	Location *time.Location
	Logger   logger.Logger
	Cache    Cache                // optional
	Notifier notification.Service // optional
}

// AttendanceService enforces one check-in and one check-out per user per
// calendar day of the reference timezone.
type AttendanceService struct {
	store    AttendanceStore
	clock    utils.Clock
	loc      *time.Location
	logger   logger.Logger
	cache    Cache
	notifier notification.Service
}

func NewAttendanceService(opts AttendanceServiceOptions) *AttendanceService {
	s := &AttendanceService{
		store:    opts.Store,
		clock:    opts.Clock,
		loc:      opts.Location,
		logger:   opts.Logger,
		cache:    opts.Cache,
		notifier: opts.Notifier,
	}
	if s.clock == nil {
		s.clock = utils.SystemClock{}
	}
	if s.loc == nil {
		loc, err := utils.LoadLocation(constants.DefaultTimezone)
		if err != nil {
			loc = time.UTC
		}
		s.loc = loc
	}
	if s.logger == nil {
		s.logger = logger.NewDefaultLogger(logger.InfoLevel)
	}
	return s
}

// Today is the current day key.
func (s *AttendanceService) Today() time.Time {
	return utils.DayKey(s.clock.Now(), s.loc)
}

func (s *AttendanceService) CheckIn(ctx context.Context, userID uint, opts CheckInOptions) (*models.Attendance, error) {
	if userID == 0 {
		return nil, apperrors.ErrUnauthenticated
	}
	status := opts.Status
	if status == "" {
		status = constants.CheckInPresent
	}
	if !constants.IsValidCheckInStatus(status) {
		return nil, apperrors.Validation("Status masuk tidak valid")
	}

	now := s.clock.Now()
	record := builders.NewAttendanceBuilder().
		WithUser(userID).
		WithDate(utils.DayKey(now, s.loc)).
		WithCheckIn(now, status).
		WithLocation(opts.Latitude, opts.Longitude, opts.Accuracy).
		WithPhoto(opts.PhotoURL).
		Build()

	if err := s.store.InsertIfAbsent(ctx, record); err != nil {
		if errors.Is(err, apperrors.ErrAlreadyCheckedIn) {
			s.logger.Debug("duplicate check-in user_id=%d date=%s", userID, record.Date.Format("2006-01-02"))
			return nil, apperrors.ErrAlreadyCheckedIn
		}
		s.logger.Error("check-in insert failed user_id=%d: %v", userID, err)
		return nil, apperrors.Internal("Gagal menyimpan absen masuk", err)
	}

	s.logger.Info("check-in user_id=%d id=%d status=%s", userID, record.ID, status)
	s.afterWrite(ctx, userID, notification.NewMessageBuilder(notification.EventCheckIn, userID).WithStatus(status).At(now.In(s.loc)))
	return record, nil
}

func (s *AttendanceService) CheckOut(ctx context.Context, userID uint, status string) (*models.Attendance, error) {
	if userID == 0 {
		return nil, apperrors.ErrUnauthenticated
	}
	if status == "" {
		status = constants.CheckOutDeparted
	}
	if !constants.IsValidCheckOutStatus(status) {
		return nil, apperrors.Validation("Status pulang tidak valid")
	}

	now := s.clock.Now()
	record, err := s.store.FindOneByUserAndDate(ctx, userID, utils.DayKey(now, s.loc))
	if err != nil {
		s.logger.Error("check-out lookup failed user_id=%d: %v", userID, err)
		return nil, apperrors.Internal("Gagal membaca absensi", err)
	}
	if err := models.GetAttendanceState(record).CheckOut(record, now, status); err != nil {
		return nil, err
	}

	if err := s.store.UpdateIfCheckOutUnset(ctx, record, now, status); err != nil {
		if errors.Is(err, apperrors.ErrAlreadyCheckedOut) || errors.Is(err, apperrors.ErrNotCheckedIn) {
			return nil, err
		}
		s.logger.Error("check-out update failed user_id=%d id=%d: %v", userID, record.ID, err)
		return nil, apperrors.Internal("Gagal menyimpan absen pulang", err)
	}

	s.logger.Info("check-out user_id=%d id=%d status=%s", userID, record.ID, status)
	s.afterWrite(ctx, userID, notification.NewMessageBuilder(notification.EventCheckOut, userID).WithStatus(status).At(now.In(s.loc)))
	return record, nil
}

// GetToday returns today's record, or nil without error when there is none.
func (s *AttendanceService) GetToday(ctx context.Context, userID uint) (*models.Attendance, error) {
	if userID == 0 {
		return nil, apperrors.ErrUnauthenticated
	}
	record, err := s.store.FindOneByUserAndDate(ctx, userID, s.Today())
	if err != nil {
		s.logger.Error("get today failed user_id=%d: %v", userID, err)
		return nil, apperrors.Internal("Gagal membaca absensi", err)
	}
	return record, nil
}

func (s *AttendanceService) ListHistory(ctx context.Context, userID uint) ([]models.Attendance, error) {
	if userID == 0 {
		return nil, apperrors.ErrUnauthenticated
	}
	key := HistoryCacheKey(userID)
	var records []models.Attendance
	if s.cacheGet(ctx, key, &records) {
		return records, nil
	}

	records, err := s.store.FindManyByUser(ctx, userID)
	if err != nil {
		s.logger.Error("list history failed user_id=%d: %v", userID, err)
		return nil, apperrors.Internal("Gagal membaca riwayat absensi", err)
	}
	s.cacheSet(ctx, key, records)
	return records, nil
}

// ListAll returns every record joined with its owner. Admin only. A non-empty
// query narrows the result to owners whose name or email match it.
func (s *AttendanceService) ListAll(ctx context.Context, caller types.Identity, query string) ([]models.Attendance, error) {
	if err := RequireRole(caller, constants.RoleAdmin); err != nil {
		return nil, err
	}

	var records []models.Attendance
	if !s.cacheGet(ctx, AdminAttendanceCacheKey, &records) {
		var err error
		records, err = s.store.FindAllWithUser(ctx)
		if err != nil {
			s.logger.Error("list all failed: %v", err)
			return nil, apperrors.Internal("Gagal membaca data absensi", err)
		}
		s.cacheSet(ctx, AdminAttendanceCacheKey, records)
	}
	return FilterByOwner(records, query), nil
}

// DailySummary counts records of one day and those still missing a check-out.
func (s *AttendanceService) DailySummary(ctx context.Context, day time.Time) (checkedIn, notCheckedOut int, err error) {
	records, err := s.store.FindByDate(ctx, utils.DayKey(day, s.loc))
	if err != nil {
		return 0, 0, err
	}
	for _, rec := range records {
		checkedIn++
		if !rec.CheckedOut() {
			notCheckedOut++
		}
	}
	return checkedIn, notCheckedOut, nil
}

func (s *AttendanceService) afterWrite(ctx context.Context, userID uint, msg *notification.MessageBuilder) {
	if s.cache != nil {
		if err := s.cache.Delete(ctx, HistoryCacheKey(userID), AdminAttendanceCacheKey); err != nil {
			s.logger.Error("cache invalidation failed user_id=%d: %v", userID, err)
		}
	}
	if s.notifier != nil {
		if err := s.notifier.SendMessage(msg.Build()); err != nil {
			s.logger.Error("notify failed user_id=%d: %v", userID, err)
		}
	}
}

func (s *AttendanceService) cacheGet(ctx context.Context, key string, target interface{}) bool {
	if s.cache == nil {
		return false
	}
	found, err := s.cache.Get(ctx, key, target)
	if err != nil {
		s.logger.Error("cache get %s failed: %v", key, err)
		return false
	}
	return found
}

func (s *AttendanceService) cacheSet(ctx context.Context, key string, value interface{}) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, key, value, AttendanceCacheTTL); err != nil {
		s.logger.Error("cache set %s failed: %v", key, err)
	}
}
