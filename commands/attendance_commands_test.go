package commands

import (
	"context"
	"errors"
	"testing"
	"time"

	apperrors "absensi/errors"
	"absensi/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// capturedStatement records the SQL gorm built for the last write.
type capturedStatement struct {
	sql  string
	vars []interface{}
}

// newDryRunDB builds statements for postgres without connecting. The hook
// runs after gorm's own create/update step and may fake the outcome.
func newDryRunDB(t *testing.T, outcome func(tx *gorm.DB)) (*gorm.DB, *capturedStatement) {
	t.Helper()
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN: "host=localhost user=absensi dbname=absensi sslmode=disable",
	}), &gorm.Config{
		DryRun:               true,
		DisableAutomaticPing: true,
		TranslateError:       true,
	})
	require.NoError(t, err)

	captured := &capturedStatement{}
	record := func(tx *gorm.DB) {
		captured.sql = tx.Statement.SQL.String()
		captured.vars = append([]interface{}(nil), tx.Statement.Vars...)
		if outcome != nil {
			outcome(tx)
		}
	}
	require.NoError(t, db.Callback().Create().After("gorm:create").Register("absensi:capture_create", record))
	require.NoError(t, db.Callback().Update().After("gorm:update").Register("absensi:capture_update", record))
	return db, captured
}

func rowsAffected(n int64) func(tx *gorm.DB) {
	return func(tx *gorm.DB) {
		tx.RowsAffected = n
	}
}

func newRecord() *models.Attendance {
	jakarta := time.FixedZone("WIB", 7*3600)
	return &models.Attendance{
		UserID:        3,
		Date:          time.Date(2024, 5, 1, 0, 0, 0, 0, jakarta),
		CheckInAt:     time.Date(2024, 5, 1, 8, 0, 0, 0, jakarta),
		CheckInStatus: "HADIR",
	}
}

func TestCheckInCommandInsertsOnConflictDoNothing(t *testing.T) {
	db, captured := newDryRunDB(t, rowsAffected(1))

	err := NewCheckInCommand(newRecord(), db).Execute(context.Background())
	require.NoError(t, err)

	assert.Contains(t, captured.sql, `INSERT INTO "attendances"`)
	assert.Contains(t, captured.sql, `ON CONFLICT ("user_id","date") DO NOTHING`)
	assert.Contains(t, captured.vars, uint(3))
}

func TestCheckInCommandNoRowsMeansAlreadyCheckedIn(t *testing.T) {
	db, _ := newDryRunDB(t, rowsAffected(0))

	err := NewCheckInCommand(newRecord(), db).Execute(context.Background())
	assert.True(t, errors.Is(err, apperrors.ErrAlreadyCheckedIn))
}

func TestCheckInCommandDuplicateKeyMeansAlreadyCheckedIn(t *testing.T) {
	db, _ := newDryRunDB(t, func(tx *gorm.DB) {
		tx.AddError(gorm.ErrDuplicatedKey)
	})

	err := NewCheckInCommand(newRecord(), db).Execute(context.Background())
	assert.True(t, errors.Is(err, apperrors.ErrAlreadyCheckedIn))
}

func TestCheckInCommandPassesStoreFailures(t *testing.T) {
	dbErr := errors.New("connection reset")
	db, _ := newDryRunDB(t, func(tx *gorm.DB) {
		tx.AddError(dbErr)
	})

	err := NewCheckInCommand(newRecord(), db).Execute(context.Background())
	assert.True(t, errors.Is(err, dbErr))
	assert.False(t, errors.Is(err, apperrors.ErrAlreadyCheckedIn))
}

func TestCheckOutCommandUpdatesOnlyOpenRecord(t *testing.T) {
	db, captured := newDryRunDB(t, rowsAffected(1))
	at := time.Date(2024, 5, 1, 17, 0, 0, 0, time.UTC)

	err := NewCheckOutCommand(7, at, "LEMBUR", db).Execute(context.Background())
	require.NoError(t, err)

	assert.Contains(t, captured.sql, `UPDATE "attendances" SET`)
	assert.Contains(t, captured.sql, `"check_out_at"=$1,"check_out_status"=$2`)
	assert.Regexp(t, `WHERE id = \$\d+ AND check_out_at IS NULL`, captured.sql)
	assert.Contains(t, captured.vars, uint(7))
	assert.Contains(t, captured.vars, "LEMBUR")
}

func TestCheckOutCommandNoRowsMeansAlreadyCheckedOut(t *testing.T) {
	db, _ := newDryRunDB(t, rowsAffected(0))

	err := NewCheckOutCommand(7, time.Now(), "PULANG", db).Execute(context.Background())
	assert.True(t, errors.Is(err, apperrors.ErrAlreadyCheckedOut))
}
