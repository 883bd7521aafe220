package controllers

import (
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type HealthController struct {
	pool      *pgxpool.Pool
	startedAt time.Time
	logger    *zap.Logger
}

func NewHealthController(pool *pgxpool.Pool, logger *zap.Logger) *HealthController {
	return &HealthController{pool: pool, startedAt: time.Now(), logger: logger}
}

// Check - readiness-проба: БД доступна и сервис живет.
func (c *HealthController) Check(ctx echo.Context) error {
	if err := c.pool.Ping(ctx.Request().Context()); err != nil {
		c.logger.Error("health: БД недоступна", zap.Error(err))
		return ctx.JSON(http.StatusServiceUnavailable, map[string]interface{}{
			"status": "unavailable",
		})
	}

	return ctx.JSON(http.StatusOK, map[string]interface{}{
		"status":         "ok",
		"uptime_seconds": int64(time.Since(c.startedAt).Seconds()),
	})
}
