package store

import (
	"errors"
	"fmt"
	"time"

	"github.com/felipe-r91/Rocketseat-Habits-App/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrHabitNotFound is returned when a toggle references a habit id that was
// never created. Without the check the toggle would write a dangling
// day_habits row.
var ErrHabitNotFound = errors.New("habit not found")

// Store owns every query the handlers run. The *gorm.DB is injected so tests
// can point it at a throwaway database.
type Store struct {
	db  *gorm.DB
	now func() time.Time
}

func New(db *gorm.DB) *Store {
	return &Store{db: db, now: time.Now}
}

// CreateHabit inserts the habit and one habit_week_days row per entry of
// weekDays as a single unit; if any insert fails nothing persists.
// created_at is the current UTC midnight, so the habit is already possible
// on the day it is created.
func (s *Store) CreateHabit(title string, weekDays []int) (*models.Habit, error) {
	habit := models.Habit{
		ID:        uuid.New(),
		Title:     title,
		CreatedAt: models.NewUnixMillis(models.StartOfDay(s.now())),
	}
	for _, weekDay := range weekDays {
		habit.WeekDays = append(habit.WeekDays, models.HabitWeekDay{
			ID:      uuid.New(),
			WeekDay: weekDay,
		})
	}

	if err := s.db.Create(&habit).Error; err != nil {
		return nil, fmt.Errorf("create habit: %w", err)
	}
	return &habit, nil
}

// DayInfo returns the habits scheduled for the given date and the ids of the
// ones already completed on it. The creation cutoff compares against the raw
// input instant; only the day lookup and the weekday use the UTC midnight.
func (s *Store) DayInfo(date time.Time) ([]models.Habit, []uuid.UUID, error) {
	parsed := models.StartOfDay(date)
	weekDay := models.WeekDay(parsed)

	possible := make([]models.Habit, 0)
	err := s.db.
		Where("created_at <= ?", models.NewUnixMillis(date)).
		Where("id IN (?)", s.db.Model(&models.HabitWeekDay{}).
			Select("habit_id").
			Where("week_day = ?", weekDay)).
		Order("created_at").
		Find(&possible).Error
	if err != nil {
		return nil, nil, fmt.Errorf("possible habits: %w", err)
	}

	completed := make([]uuid.UUID, 0)
	var day models.Day
	err = s.db.Where("date = ?", models.NewUnixMillis(parsed)).First(&day).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// No toggle ever happened on this date.
		return possible, completed, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("find day: %w", err)
	}

	err = s.db.Model(&models.DayHabit{}).
		Where("day_id = ?", day.ID).
		Pluck("habit_id", &completed).Error
	if err != nil {
		return nil, nil, fmt.Errorf("completed habits: %w", err)
	}
	return possible, completed, nil
}

// ToggleHabit flips the completion state of a habit for today. The day row is
// materialized on first use; the insert uses ON CONFLICT(date) DO NOTHING and
// the whole operation runs in one transaction, so two concurrent toggles for
// the same date converge on a single day row.
func (s *Store) ToggleHabit(habitID uuid.UUID) error {
	today := models.NewUnixMillis(models.StartOfDay(s.now()))

	return s.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Habit{}).Where("id = ?", habitID).Count(&count).Error; err != nil {
			return fmt.Errorf("check habit: %w", err)
		}
		if count == 0 {
			return ErrHabitNotFound
		}

		day := models.Day{ID: uuid.New(), Date: today}
		err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "date"}},
			DoNothing: true,
		}).Create(&day).Error
		if err != nil {
			return fmt.Errorf("upsert day: %w", err)
		}
		// Re-read so a lost conflict still yields the canonical row.
		if err := tx.Where("date = ?", today).First(&day).Error; err != nil {
			return fmt.Errorf("find day: %w", err)
		}

		var dayHabit models.DayHabit
		err = tx.Where("day_id = ? AND habit_id = ?", day.ID, habitID).First(&dayHabit).Error
		switch {
		case err == nil:
			if err := tx.Delete(&dayHabit).Error; err != nil {
				return fmt.Errorf("remove completion: %w", err)
			}
			return nil
		case errors.Is(err, gorm.ErrRecordNotFound):
			dayHabit = models.DayHabit{ID: uuid.New(), DayID: day.ID, HabitID: habitID}
			if err := tx.Create(&dayHabit).Error; err != nil {
				return fmt.Errorf("record completion: %w", err)
			}
			return nil
		default:
			return fmt.Errorf("find completion: %w", err)
		}
	})
}

// Summary returns, for every materialized day, how many habits were completed
// and how many were scheduled. The weekday is derived inside the database
// from the numeric epoch-ms date column so that amount agrees with DayInfo's
// weekday logic; only that expression differs per dialect.
func (s *Store) Summary() ([]models.DaySummary, error) {
	weekDayExpr := "CAST(EXTRACT(DOW FROM to_timestamp(d.date / 1000.0) AT TIME ZONE 'UTC') AS int)"
	if s.db.Dialector.Name() == "sqlite" {
		weekDayExpr = "CAST(strftime('%w', d.date / 1000.0, 'unixepoch') AS int)"
	}

	query := fmt.Sprintf(`
		SELECT
			d.id,
			d.date,
			(
				SELECT CAST(COUNT(*) AS float)
				FROM day_habits dh
				WHERE dh.day_id = d.id
			) AS completed,
			(
				SELECT CAST(COUNT(*) AS float)
				FROM habit_week_days hwd
				JOIN habits h ON h.id = hwd.habit_id
				WHERE hwd.week_day = %s
					AND h.created_at <= d.date
			) AS amount
		FROM days d
		ORDER BY d.date`, weekDayExpr)

	summary := make([]models.DaySummary, 0)
	if err := s.db.Raw(query).Scan(&summary).Error; err != nil {
		return nil, fmt.Errorf("summary: %w", err)
	}
	return summary, nil
}
