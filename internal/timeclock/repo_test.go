package timeclock

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/elevate-hq/elevate-backend/pkg/db/models"
)

func setupTimeEntriesTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	ddl := `
CREATE TABLE IF NOT EXISTS time_entries (
  id TEXT PRIMARY KEY,
  student_id TEXT NOT NULL,
  clock_in DATETIME NOT NULL,
  clock_out DATETIME,
  minutes INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME
);`
	require.NoError(t, db.Exec(ddl).Error)
	return db
}

func TestTimeEntryOpenCloseRoundTrip(t *testing.T) {
	db := setupTimeEntriesTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	studentID := uuid.New()
	clockIn := time.Date(2025, 8, 5, 9, 0, 0, 0, time.UTC)

	created, err := repo.Create(ctx, &models.TimeEntry{
		ID:        uuid.New(),
		StudentID: studentID,
		ClockIn:   clockIn,
	})
	require.NoError(t, err)

	open, err := repo.FindOpenEntry(ctx, studentID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, open.ID)
	assert.Nil(t, open.ClockOut)

	clockOut := clockIn.Add(7*time.Hour + 30*time.Minute)
	require.NoError(t, repo.Close(ctx, created.ID, clockOut, 450))

	_, err = repo.FindOpenEntry(ctx, studentID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	var closed models.TimeEntry
	require.NoError(t, db.First(&closed, "id = ?", created.ID).Error)
	assert.Equal(t, 450, closed.Minutes)
	require.NotNil(t, closed.ClockOut)
}

func TestFindOpenEntryScopedToStudent(t *testing.T) {
	db := setupTimeEntriesTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	other := uuid.New()
	_, err := repo.Create(ctx, &models.TimeEntry{
		ID:        uuid.New(),
		StudentID: other,
		ClockIn:   time.Now().UTC(),
	})
	require.NoError(t, err)

	_, err = repo.FindOpenEntry(ctx, uuid.New())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	found, err := repo.FindOpenEntry(ctx, other)
	require.NoError(t, err)
	assert.Equal(t, other, found.StudentID)
}
