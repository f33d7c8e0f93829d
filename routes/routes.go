package routes

import (
	"net/http"
	"time"

	"github.com/felipe-r91/Rocketseat-Habits-App/handlers"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"
)

// Register binds the habit endpoints plus the health and metrics surface.
func Register(r *gin.Engine, h *handlers.HabitHandler, db *gorm.DB) {
	r.POST("/habits", h.CreateHabit)
	r.GET("/day", h.GetDay)
	r.PATCH("/habits/:id/toggle", h.ToggleHabit)
	r.GET("/summary", h.GetSummary)

	r.GET("/health", func(c *gin.Context) {
		status := "ok"
		dbStatus := "connected"
		code := http.StatusOK

		if sqlDB, err := db.DB(); err != nil || sqlDB.Ping() != nil {
			status = "degraded"
			dbStatus = "unreachable"
			code = http.StatusServiceUnavailable
		}

		c.JSON(code, gin.H{
			"status":    status,
			"timestamp": time.Now().UTC(),
			"database":  dbStatus,
		})
	})

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
}
