package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/felipe-r91/Rocketseat-Habits-App/models"
	"github.com/felipe-r91/Rocketseat-Habits-App/store"
	"github.com/felipe-r91/Rocketseat-Habits-App/testutil"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testutil.SetupTestDB(t)
	h := NewHabitHandler(store.New(db), zap.NewNop())

	r := gin.New()
	r.POST("/habits", h.CreateHabit)
	r.GET("/day", h.GetDay)
	r.PATCH("/habits/:id/toggle", h.ToggleHabit)
	r.GET("/summary", h.GetSummary)
	return r, db
}

func doRequest(r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestCreateHabitValidation(t *testing.T) {
	tests := []struct {
		name string
		body interface{}
	}{
		{"missing title", gin.H{"weekDays": []int{1, 2}}},
		{"empty title", gin.H{"title": "", "weekDays": []int{1}}},
		{"missing weekDays", gin.H{"title": "Read"}},
		{"weekday above range", gin.H{"title": "Read", "weekDays": []int{7}}},
		{"weekday below range", gin.H{"title": "Read", "weekDays": []int{-1}}},
		{"non-integer weekday", gin.H{"title": "Read", "weekDays": []string{"monday"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, db := setupRouter(t)

			rec := doRequest(r, http.MethodPost, "/habits", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)

			var count int64
			require.NoError(t, db.Model(&models.Habit{}).Count(&count).Error)
			assert.EqualValues(t, 0, count, "no habit row may persist on rejected input")
		})
	}
}

func TestCreateHabit(t *testing.T) {
	r, db := setupRouter(t)

	rec := doRequest(r, http.MethodPost, "/habits", gin.H{
		"title":    "Drink water",
		"weekDays": []int{0, 2, 4},
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var habit models.Habit
	require.NoError(t, db.First(&habit).Error)
	assert.Equal(t, "Drink water", habit.Title)

	var weekDayCount int64
	require.NoError(t, db.Model(&models.HabitWeekDay{}).Where("habit_id = ?", habit.ID).Count(&weekDayCount).Error)
	assert.EqualValues(t, 3, weekDayCount)
}

func TestGetDayRejectsBadDates(t *testing.T) {
	r, _ := setupRouter(t)

	for _, path := range []string{"/day", "/day?date=banana"} {
		rec := doRequest(r, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code, path)
	}
}

func TestGetDayWeekDayScenario(t *testing.T) {
	r, db := setupRouter(t)

	// 2023-01-01 was a Sunday.
	sunday := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	habit := testutil.SeedHabit(t, db, "Drink water", sunday, 0, 2, 4)

	rec := doRequest(r, http.MethodGet, "/day?date=2023-01-01", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var day dayResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &day))
	require.Len(t, day.PossibleHabits, 1)
	assert.Equal(t, habit.ID, day.PossibleHabits[0].ID)
	assert.Empty(t, day.CompletedHabits)

	// The following Monday is not in the habit's week days.
	rec = doRequest(r, http.MethodGet, "/day?date=2023-01-02", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &day))
	assert.Empty(t, day.PossibleHabits)
}

func TestGetDayAcceptsEpochMillis(t *testing.T) {
	r, db := setupRouter(t)

	sunday := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	testutil.SeedHabit(t, db, "Read", sunday, 0)

	rec := doRequest(r, http.MethodGet, "/day?date=1672531200000", nil) // 2023-01-01T00:00:00Z
	require.Equal(t, http.StatusOK, rec.Code)

	var day dayResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &day))
	assert.Len(t, day.PossibleHabits, 1)
}

func TestToggleHabitLifecycle(t *testing.T) {
	r, db := setupRouter(t)

	now := time.Now().UTC()
	habit := testutil.SeedHabit(t, db, "Read", now, 0, 1, 2, 3, 4, 5, 6)
	today := now.Format(time.RFC3339)

	rec := doRequest(r, http.MethodPatch, "/habits/"+habit.ID.String()+"/toggle", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(r, http.MethodGet, "/day?date="+today, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var day dayResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &day))
	require.Len(t, day.CompletedHabits, 1)
	assert.Equal(t, habit.ID, day.CompletedHabits[0])

	// Toggling again reverts the completion but keeps the day row.
	rec = doRequest(r, http.MethodPatch, "/habits/"+habit.ID.String()+"/toggle", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(r, http.MethodGet, "/day?date="+today, nil)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &day))
	assert.Empty(t, day.CompletedHabits)

	var dayCount int64
	require.NoError(t, db.Model(&models.Day{}).Count(&dayCount).Error)
	assert.EqualValues(t, 1, dayCount)
}

func TestToggleHabitBadIDs(t *testing.T) {
	r, _ := setupRouter(t)

	rec := doRequest(r, http.MethodPatch, "/habits/not-a-uuid/toggle", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(r, http.MethodPatch, "/habits/"+uuid.NewString()+"/toggle", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSummaryAgreesWithDay(t *testing.T) {
	r, db := setupRouter(t)

	now := time.Now().UTC()
	first := testutil.SeedHabit(t, db, "Read", now, 0, 1, 2, 3, 4, 5, 6)
	testutil.SeedHabit(t, db, "Run", now, 0, 1, 2, 3, 4, 5, 6)

	rec := doRequest(r, http.MethodPatch, "/habits/"+first.ID.String()+"/toggle", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(r, http.MethodGet, "/day?date="+now.Format(time.RFC3339), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var day dayResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &day))

	rec = doRequest(r, http.MethodGet, "/summary", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var summary []models.DaySummary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summary))

	require.Len(t, summary, 1)
	assert.EqualValues(t, len(day.CompletedHabits), summary[0].Completed)
	assert.EqualValues(t, len(day.PossibleHabits), summary[0].Amount)
}

func TestSummaryEmpty(t *testing.T) {
	r, _ := setupRouter(t)

	rec := doRequest(r, http.MethodGet, "/summary", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())
}
