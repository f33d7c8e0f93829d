package models

import (
	"github.com/google/uuid"
)

// Habit is a recurring activity. Which calendar days it applies to is driven
// by its week day entries and its creation date: a habit is possible on a day
// iff that day's weekday has a HabitWeekDay row and the day is not before
// CreatedAt.
type Habit struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Title     string         `gorm:"not null" json:"title"`
	CreatedAt UnixMillis     `gorm:"not null;index" json:"created_at"`
	WeekDays  []HabitWeekDay `gorm:"foreignKey:HabitID;constraint:OnDelete:CASCADE" json:"-"`
}

// HabitWeekDay attaches one weekday (0=Sunday..6=Saturday) to a habit.
// Rows are written together with the habit and never updated afterwards.
type HabitWeekDay struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	HabitID uuid.UUID `gorm:"type:uuid;not null;index" json:"habit_id"`
	WeekDay int       `gorm:"not null" json:"week_day"`
}

// Day is a calendar date, materialized the first time any habit is toggled on
// it. Date is the UTC midnight of that date; at most one row per date.
type Day struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Date      UnixMillis `gorm:"not null;uniqueIndex" json:"date"`
	DayHabits []DayHabit `gorm:"foreignKey:DayID;constraint:OnDelete:CASCADE" json:"-"`
}

// DayHabit records that a habit was completed on a day. The row's existence
// is the completion flag; there is no boolean column.
type DayHabit struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	DayID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_day_habits_day_habit" json:"day_id"`
	HabitID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_day_habits_day_habit" json:"habit_id"`
}

// DaySummary is one row of the /summary aggregate. Completed and Amount are
// floats so clients can build completion ratios without casting.
type DaySummary struct {
	ID        uuid.UUID  `json:"id"`
	Date      UnixMillis `json:"date"`
	Completed float64    `json:"completed"`
	Amount    float64    `json:"amount"`
}

// All lists every model handed to AutoMigrate.
func All() []interface{} {
	return []interface{}{&Habit{}, &HabitWeekDay{}, &Day{}, &DayHabit{}}
}
