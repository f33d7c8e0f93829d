package testutil

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/felipe-r91/Rocketseat-Habits-App/models"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SetupTestDB opens a throwaway sqlite database with the full schema. The
// file lives in t.TempDir so every test gets a clean database.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "habits_test.db")
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := db.AutoMigrate(models.All()...); err != nil {
		t.Fatalf("failed to migrate test schema: %v", err)
	}

	return db
}

// SeedHabit inserts a habit with an explicit creation date, bypassing the
// store so tests can place habits in the past.
func SeedHabit(t *testing.T, db *gorm.DB, title string, createdAt time.Time, weekDays ...int) models.Habit {
	t.Helper()

	habit := models.Habit{
		ID:        uuid.New(),
		Title:     title,
		CreatedAt: models.NewUnixMillis(models.StartOfDay(createdAt)),
	}
	for _, weekDay := range weekDays {
		habit.WeekDays = append(habit.WeekDays, models.HabitWeekDay{
			ID:      uuid.New(),
			WeekDay: weekDay,
		})
	}

	if err := db.Create(&habit).Error; err != nil {
		t.Fatalf("failed to seed habit: %v", err)
	}
	return habit
}
