package quota

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/elevate-hq/elevate-backend/pkg/enums"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "quota.db") + "?_busy_timeout=5000"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	ddl := `CREATE TABLE license_usage (
		id TEXT PRIMARY KEY,
		org_id TEXT NOT NULL UNIQUE,
		student_count INTEGER NOT NULL DEFAULT 0,
		student_limit INTEGER NOT NULL DEFAULT -1,
		admin_count INTEGER NOT NULL DEFAULT 0,
		admin_limit INTEGER NOT NULL DEFAULT -1,
		program_count INTEGER NOT NULL DEFAULT 0,
		program_limit INTEGER NOT NULL DEFAULT -1,
		created_at DATETIME,
		updated_at DATETIME
	)`
	if err := db.Exec(ddl).Error; err != nil {
		t.Fatalf("create table: %v", err)
	}
	return db
}

func seedUsage(t *testing.T, db *gorm.DB, orgID uuid.UUID, studentCount, studentLimit int) {
	t.Helper()
	err := db.Exec(
		"INSERT INTO license_usage (id, org_id, student_count, student_limit) VALUES (?, ?, ?, ?)",
		uuid.NewString(), orgID.String(), studentCount, studentLimit,
	).Error
	if err != nil {
		t.Fatalf("seed usage: %v", err)
	}
}

func TestIncrementStopsAtLimit(t *testing.T) {
	db := openTestDB(t)
	repo := NewRepository(db)
	orgID := uuid.New()
	seedUsage(t, db, orgID, 4, 5)

	ok, err := repo.Increment(context.Background(), orgID, enums.QuotaResourceStudents)
	if err != nil {
		t.Fatalf("Increment returned error: %v", err)
	}
	if !ok {
		t.Fatalf("expected increment into last slot to succeed")
	}

	ok, err = repo.Increment(context.Background(), orgID, enums.QuotaResourceStudents)
	if err != nil {
		t.Fatalf("Increment returned error: %v", err)
	}
	if ok {
		t.Fatalf("expected increment past limit to fail")
	}
}

func TestConcurrentIncrementsNeverOvershoot(t *testing.T) {
	db := openTestDB(t)
	repo := NewRepository(db)
	orgID := uuid.New()
	seedUsage(t, db, orgID, 4, 5)

	var wg sync.WaitGroup
	results := make([]bool, 2)
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			results[idx], errs[idx] = repo.Increment(context.Background(), orgID, enums.QuotaResourceStudents)
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Fatalf("caller %d returned error: %v", i, err)
		}
	}

	successes := 0
	for _, ok := range results {
		if ok {
			successes++
		}
	}
	if successes != 1 {
		t.Fatalf("expected exactly one success, got %d", successes)
	}

	usage, err := repo.FindByOrgID(context.Background(), orgID)
	if err != nil {
		t.Fatalf("FindByOrgID returned error: %v", err)
	}
	if usage.StudentCount != 5 {
		t.Fatalf("expected counter at limit, got %d", usage.StudentCount)
	}
}

func TestIncrementUnlimitedSentinel(t *testing.T) {
	db := openTestDB(t)
	repo := NewRepository(db)
	orgID := uuid.New()
	seedUsage(t, db, orgID, 999, -1)

	ok, err := repo.Increment(context.Background(), orgID, enums.QuotaResourceStudents)
	if err != nil {
		t.Fatalf("Increment returned error: %v", err)
	}
	if !ok {
		t.Fatalf("expected -1 limit to always accept increments")
	}
}

func TestDecrementFloorsAtZero(t *testing.T) {
	db := openTestDB(t)
	repo := NewRepository(db)
	orgID := uuid.New()
	seedUsage(t, db, orgID, 1, 5)

	for i := 0; i < 3; i++ {
		if err := repo.Decrement(context.Background(), orgID, enums.QuotaResourceStudents); err != nil {
			t.Fatalf("Decrement returned error: %v", err)
		}
	}

	usage, err := repo.FindByOrgID(context.Background(), orgID)
	if err != nil {
		t.Fatalf("FindByOrgID returned error: %v", err)
	}
	if usage.StudentCount != 0 {
		t.Fatalf("expected floor at zero, got %d", usage.StudentCount)
	}
}
