package services

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"absensi/constants"
	apperrors "absensi/errors"
	"absensi/models"
	"absensi/services/logger"
	"absensi/types"
	"absensi/utils"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingNotifier struct {
	mu       sync.Mutex
	messages []string
}

func (n *recordingNotifier) SendMessage(message string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.messages = append(n.messages, message)
	return nil
}

func (n *recordingNotifier) all() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.messages...)
}

type attendanceFixture struct {
	service  *AttendanceService
	store    *MemoryStore
	clock    *utils.FixedClock
	loc      *time.Location
	notifier *recordingNotifier
}

func newAttendanceFixture(t *testing.T) *attendanceFixture {
	t.Helper()
	loc, err := time.LoadLocation("Asia/Jakarta")
	require.NoError(t, err)

	store := NewMemoryStore()
	clock := utils.NewFixedClock(time.Date(2024, 5, 1, 8, 0, 0, 0, loc))
	notifier := &recordingNotifier{}
	svc := NewAttendanceService(AttendanceServiceOptions{
		Store:    store,
		Clock:    clock,
		Location: loc,
		Logger:   logger.NewWriterLogger(io.Discard, logger.DebugLevel),
		Notifier: notifier,
	})
	return &attendanceFixture{service: svc, store: store, clock: clock, loc: loc, notifier: notifier}
}

func (f *attendanceFixture) at(day, hour, min int) {
	f.clock.Set(time.Date(2024, 5, day, hour, min, 0, 0, f.loc))
}

func (f *attendanceFixture) addUser(t *testing.T, name, email string, role int) uint {
	t.Helper()
	u := &models.User{Name: name, Email: email, Password: "x", Role: role}
	require.NoError(t, f.store.Create(context.Background(), u))
	return u.ID
}

func TestCheckInCreatesTodayRecord(t *testing.T) {
	f := newAttendanceFixture(t)
	ctx := context.Background()

	rec, err := f.service.CheckIn(ctx, 1, CheckInOptions{})
	require.NoError(t, err)
	assert.NotZero(t, rec.ID)
	assert.Equal(t, uint(1), rec.UserID)
	assert.Equal(t, time.Date(2024, 5, 1, 0, 0, 0, 0, f.loc), rec.Date)
	assert.Equal(t, time.Date(2024, 5, 1, 8, 0, 0, 0, f.loc), rec.CheckInAt)
	assert.Equal(t, constants.CheckInPresent, rec.CheckInStatus)
	assert.Nil(t, rec.CheckOutAt)
	assert.Nil(t, rec.CheckOutStatus)

	assert.Equal(t, []string{"[check-in] user 1 HADIR pukul 08:00"}, f.notifier.all())
}

func TestCheckInTwiceSameDay(t *testing.T) {
	f := newAttendanceFixture(t)
	ctx := context.Background()

	_, err := f.service.CheckIn(ctx, 1, CheckInOptions{})
	require.NoError(t, err)

	f.at(1, 8, 5)
	_, err = f.service.CheckIn(ctx, 1, CheckInOptions{})
	assert.True(t, errors.Is(err, apperrors.ErrAlreadyCheckedIn))

	history, err := f.service.ListHistory(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, history, 1)
	assert.Equal(t, time.Date(2024, 5, 1, 8, 0, 0, 0, f.loc), history[0].CheckInAt)
}

func TestCheckInConcurrentSingleWinner(t *testing.T) {
	f := newAttendanceFixture(t)
	ctx := context.Background()

	const workers = 32
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		conflicts int
	)
	start := make(chan struct{})
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			_, err := f.service.CheckIn(ctx, 9, CheckInOptions{})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case errors.Is(err, apperrors.ErrAlreadyCheckedIn):
				conflicts++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	close(start)
	wg.Wait()

	assert.Equal(t, 1, successes)
	assert.Equal(t, workers-1, conflicts)

	history, err := f.service.ListHistory(ctx, 9)
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

func TestCheckInOptionalFields(t *testing.T) {
	f := newAttendanceFixture(t)
	lat, lon := -6.2, 106.8

	rec, err := f.service.CheckIn(context.Background(), 1, CheckInOptions{
		Status:    constants.CheckInExcused,
		Latitude:  &lat,
		Longitude: &lon,
		PhotoURL:  "https://res.cloudinary.com/demo/a.jpg",
	})
	require.NoError(t, err)
	assert.Equal(t, constants.CheckInExcused, rec.CheckInStatus)
	require.NotNil(t, rec.PhotoURL)
	assert.Equal(t, "https://res.cloudinary.com/demo/a.jpg", *rec.PhotoURL)
	assert.Equal(t, lat, *rec.Latitude)

	_, err = f.service.CheckIn(context.Background(), 2, CheckInOptions{Status: "CUTI"})
	assert.Equal(t, apperrors.ErrCodeValidation, apperrors.GetAppError(err).Code)
}

func TestUnauthenticatedCaller(t *testing.T) {
	f := newAttendanceFixture(t)
	ctx := context.Background()

	_, err := f.service.CheckIn(ctx, 0, CheckInOptions{})
	assert.True(t, errors.Is(err, apperrors.ErrUnauthenticated))
	_, err = f.service.CheckOut(ctx, 0, "")
	assert.True(t, errors.Is(err, apperrors.ErrUnauthenticated))
	_, err = f.service.GetToday(ctx, 0)
	assert.True(t, errors.Is(err, apperrors.ErrUnauthenticated))
	_, err = f.service.ListHistory(ctx, 0)
	assert.True(t, errors.Is(err, apperrors.ErrUnauthenticated))
	_, err = f.service.ListAll(ctx, types.Identity{}, "")
	assert.True(t, errors.Is(err, apperrors.ErrUnauthenticated))
}

func TestCheckOutBeforeCheckIn(t *testing.T) {
	f := newAttendanceFixture(t)
	ctx := context.Background()

	_, err := f.service.CheckOut(ctx, 1, "")
	assert.True(t, errors.Is(err, apperrors.ErrNotCheckedIn))

	today, err := f.service.GetToday(ctx, 1)
	require.NoError(t, err)
	assert.Nil(t, today, "check-out must not create a record")
}

func TestDailyLifecycleScenario(t *testing.T) {
	f := newAttendanceFixture(t)
	ctx := context.Background()

	_, err := f.service.CheckIn(ctx, 1, CheckInOptions{})
	require.NoError(t, err)

	f.at(1, 8, 5)
	_, err = f.service.CheckIn(ctx, 1, CheckInOptions{})
	require.True(t, errors.Is(err, apperrors.ErrAlreadyCheckedIn))

	f.at(1, 17, 0)
	out, err := f.service.CheckOut(ctx, 1, "")
	require.NoError(t, err)
	require.NotNil(t, out.CheckOutAt)
	assert.Equal(t, time.Date(2024, 5, 1, 17, 0, 0, 0, f.loc), *out.CheckOutAt)
	assert.Equal(t, constants.CheckOutDeparted, *out.CheckOutStatus)

	f.at(1, 17, 10)
	_, err = f.service.CheckOut(ctx, 1, constants.CheckOutOvertime)
	require.True(t, errors.Is(err, apperrors.ErrAlreadyCheckedOut))

	today, err := f.service.GetToday(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, today)
	assert.Equal(t, time.Date(2024, 5, 1, 17, 0, 0, 0, f.loc), *today.CheckOutAt)
	assert.Equal(t, constants.CheckOutDeparted, *today.CheckOutStatus)
}

func TestCheckOutConcurrentSingleWinner(t *testing.T) {
	f := newAttendanceFixture(t)
	ctx := context.Background()
	_, err := f.service.CheckIn(ctx, 1, CheckInOptions{})
	require.NoError(t, err)
	f.at(1, 17, 0)

	const workers = 16
	var wg sync.WaitGroup
	results := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.service.CheckOut(ctx, 1, "")
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	ok := 0
	for err := range results {
		if err == nil {
			ok++
			continue
		}
		assert.True(t, errors.Is(err, apperrors.ErrAlreadyCheckedOut), "unexpected error: %v", err)
	}
	assert.Equal(t, 1, ok)
}

func TestGetTodayNoneThenRecord(t *testing.T) {
	f := newAttendanceFixture(t)
	ctx := context.Background()

	none, err := f.service.GetToday(ctx, 1)
	require.NoError(t, err)
	assert.Nil(t, none)

	created, err := f.service.CheckIn(ctx, 1, CheckInOptions{})
	require.NoError(t, err)

	today, err := f.service.GetToday(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, today)
	assert.Equal(t, created.ID, today.ID)
	assert.Equal(t, created.Date, today.Date)
	assert.Equal(t, created.CheckInAt, today.CheckInAt)
	assert.Equal(t, created.CheckInStatus, today.CheckInStatus)
	assert.Nil(t, today.CheckOutAt)
}

func TestDayBoundaryResetsState(t *testing.T) {
	f := newAttendanceFixture(t)
	ctx := context.Background()

	f.at(1, 23, 59)
	_, err := f.service.CheckIn(ctx, 1, CheckInOptions{})
	require.NoError(t, err)

	// Midnight in the reference timezone opens a new day key.
	f.at(2, 0, 0)
	today, err := f.service.GetToday(ctx, 1)
	require.NoError(t, err)
	assert.Nil(t, today)

	_, err = f.service.CheckOut(ctx, 1, "")
	assert.True(t, errors.Is(err, apperrors.ErrNotCheckedIn), "yesterday's record is not today's")

	rec, err := f.service.CheckIn(ctx, 1, CheckInOptions{})
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 5, 2, 0, 0, 0, 0, f.loc), rec.Date)
}

func TestDayKeyUsesReferenceTimezone(t *testing.T) {
	f := newAttendanceFixture(t)
	ctx := context.Background()

	// 17:30 UTC on May 1 is 00:30 on May 2 in Jakarta.
	f.clock.Set(time.Date(2024, 5, 1, 17, 30, 0, 0, time.UTC))
	rec, err := f.service.CheckIn(ctx, 1, CheckInOptions{})
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 5, 2, 0, 0, 0, 0, f.loc), rec.Date)

	f.clock.Set(time.Date(2024, 5, 1, 23, 0, 0, 0, f.loc))
	_, err = f.service.CheckIn(ctx, 1, CheckInOptions{})
	require.NoError(t, err, "May 1 Jakarta is a different day key")
}

func TestListHistoryDescending(t *testing.T) {
	f := newAttendanceFixture(t)
	ctx := context.Background()

	for _, day := range []int{2, 3, 1} {
		f.at(day, 8, 0)
		_, err := f.service.CheckIn(ctx, 1, CheckInOptions{})
		require.NoError(t, err)
	}
	f.at(3, 9, 0)
	_, err := f.service.CheckIn(ctx, 2, CheckInOptions{})
	require.NoError(t, err)

	history, err := f.service.ListHistory(ctx, 1)
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, 3, history[0].Date.Day())
	assert.Equal(t, 2, history[1].Date.Day())
	assert.Equal(t, 1, history[2].Date.Day())

	again, err := f.service.ListHistory(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, history, again)
}

func TestListAllRequiresAdmin(t *testing.T) {
	f := newAttendanceFixture(t)
	ctx := context.Background()
	budi := f.addUser(t, "Budi Santoso", "budi@kantor.id", constants.RoleUser)
	siti := f.addUser(t, "Siti Rahayu", "siti@kantor.id", constants.RoleUser)
	admin := f.addUser(t, "Admin", "admin@kantor.id", constants.RoleAdmin)

	f.at(1, 8, 0)
	_, err := f.service.CheckIn(ctx, budi, CheckInOptions{})
	require.NoError(t, err)
	f.at(2, 8, 0)
	_, err = f.service.CheckIn(ctx, siti, CheckInOptions{})
	require.NoError(t, err)

	_, err = f.service.ListAll(ctx, types.Identity{UserID: budi, Role: constants.RoleUser}, "")
	assert.True(t, errors.Is(err, apperrors.ErrForbidden))

	all, err := f.service.ListAll(ctx, types.Identity{UserID: admin, Role: constants.RoleAdmin}, "")
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, siti, all[0].UserID)
	require.NotNil(t, all[0].User)
	assert.Equal(t, "Siti Rahayu", all[0].User.Name)
	assert.Equal(t, "siti@kantor.id", all[0].User.Email)
	assert.Equal(t, budi, all[1].UserID)

	filtered, err := f.service.ListAll(ctx, types.Identity{UserID: admin, Role: constants.RoleAdmin}, "budi")
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, budi, filtered[0].UserID)
}

func TestListsAreInvalidatedInCache(t *testing.T) {
	f := newAttendanceFixture(t)
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	f.service.cache = NewRedisCache(rdb)
	ctx := context.Background()

	history, err := f.service.ListHistory(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, history)
	assert.True(t, mr.Exists(HistoryCacheKey(1)))

	_, err = f.service.CheckIn(ctx, 1, CheckInOptions{})
	require.NoError(t, err)
	assert.False(t, mr.Exists(HistoryCacheKey(1)))

	history, err = f.service.ListHistory(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, history, 1)

	f.at(1, 17, 0)
	_, err = f.service.CheckOut(ctx, 1, "")
	require.NoError(t, err)

	history, err = f.service.ListHistory(ctx, 1)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.NotNil(t, history[0].CheckOutAt)
}

func TestDailySummaryAndRecap(t *testing.T) {
	f := newAttendanceFixture(t)
	ctx := context.Background()

	_, err := f.service.CheckIn(ctx, 1, CheckInOptions{})
	require.NoError(t, err)
	_, err = f.service.CheckIn(ctx, 2, CheckInOptions{})
	require.NoError(t, err)
	f.at(1, 17, 0)
	_, err = f.service.CheckOut(ctx, 1, "")
	require.NoError(t, err)

	in, open, err := f.service.DailySummary(ctx, f.clock.Now())
	require.NoError(t, err)
	assert.Equal(t, 2, in)
	assert.Equal(t, 1, open)

	f.at(2, 0, 0)
	notifier := &recordingNotifier{}
	recap := NewAttendanceRecapAdapter(f.service, notifier, nil, logger.NewWriterLogger(io.Discard, logger.InfoLevel))
	require.NoError(t, recap.RunDailyRecap())
	assert.Equal(t, []string{"[rekap] 2024-05-01: 2 hadir, 1 belum absen pulang"}, notifier.all())
}
