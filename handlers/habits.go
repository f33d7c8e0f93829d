package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/felipe-r91/Rocketseat-Habits-App/middleware"
	"github.com/felipe-r91/Rocketseat-Habits-App/models"
	"github.com/felipe-r91/Rocketseat-Habits-App/store"
	"github.com/felipe-r91/Rocketseat-Habits-App/utils"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// HabitHandler carries the store and logger into the four endpoint handlers.
type HabitHandler struct {
	store  *store.Store
	logger *zap.Logger
}

func NewHabitHandler(s *store.Store, logger *zap.Logger) *HabitHandler {
	return &HabitHandler{store: s, logger: logger}
}

type createHabitBody struct {
	Title    string `json:"title" validate:"required"`
	WeekDays []int  `json:"weekDays" validate:"required,dive,gte=0,lte=6"`
}

type dayResponse struct {
	PossibleHabits  []models.Habit `json:"possibleHabits"`
	CompletedHabits []uuid.UUID    `json:"completedHabits"`
}

// CreateHabit handles POST /habits.
func (h *HabitHandler) CreateHabit(c *gin.Context) {
	var body createHabitBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if err := middleware.ValidateStruct(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title is required and weekDays must be integers between 0 and 6"})
		return
	}

	habit, err := h.store.CreateHabit(body.Title, body.WeekDays)
	if err != nil {
		h.logger.Error("create_habit_failed", zap.Error(err))
		utils.ErrorCount.WithLabelValues("create_habit", "db").Inc()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create habit"})
		return
	}

	utils.HabitsCreated.Inc()
	h.logger.Info("habit_created",
		zap.String("habit_id", habit.ID.String()),
		zap.Int("week_days", len(body.WeekDays)),
	)
	c.Status(http.StatusCreated)
}

// GetDay handles GET /day. It lists the habits scheduled for the requested
// date and the ids of the ones completed on it.
func (h *HabitHandler) GetDay(c *gin.Context) {
	date, err := parseDate(c.Query("date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must be an RFC3339 timestamp, a YYYY-MM-DD date or epoch milliseconds"})
		return
	}

	possible, completed, err := h.store.DayInfo(date)
	if err != nil {
		h.logger.Error("get_day_failed", zap.Error(err), zap.Time("date", date))
		utils.ErrorCount.WithLabelValues("get_day", "db").Inc()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load day"})
		return
	}

	c.JSON(http.StatusOK, dayResponse{
		PossibleHabits:  possible,
		CompletedHabits: completed,
	})
}

// ToggleHabit handles PATCH /habits/:id/toggle. Each call flips today's
// completion state for the habit.
func (h *HabitHandler) ToggleHabit(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id must be a valid uuid"})
		return
	}

	if err := h.store.ToggleHabit(id); err != nil {
		if errors.Is(err, store.ErrHabitNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "habit not found"})
			return
		}
		h.logger.Error("toggle_habit_failed", zap.Error(err), zap.String("habit_id", id.String()))
		utils.ErrorCount.WithLabelValues("toggle_habit", "db").Inc()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to toggle habit"})
		return
	}

	utils.HabitToggles.Inc()
	h.logger.Info("habit_toggled", zap.String("habit_id", id.String()))
	c.Status(http.StatusOK)
}

// GetSummary handles GET /summary.
func (h *HabitHandler) GetSummary(c *gin.Context) {
	summary, err := h.store.Summary()
	if err != nil {
		h.logger.Error("get_summary_failed", zap.Error(err))
		utils.ErrorCount.WithLabelValues("get_summary", "db").Inc()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load summary"})
		return
	}

	c.JSON(http.StatusOK, summary)
}

// parseDate coerces the /day query parameter. Accepts RFC3339, a bare date
// or an epoch-millisecond number, mirroring what the web client sends.
func parseDate(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, errors.New("date is required")
	}
	if ms, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return time.UnixMilli(ms).UTC(), nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, errors.New("unrecognized date format")
}
