package main

import (
	"context"
	"database/sql"
	"net/http"

	"github.com/go-redis/redis/v8"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pressly/goose/v3"
	"go.uber.org/zap"

	"toro-system/internal/routes"
	"toro-system/migrations"
	"toro-system/pkg/config"
	"toro-system/pkg/database/postgresql"
	apperrors "toro-system/pkg/errors"
	applogger "toro-system/pkg/logger"
	appmiddleware "toro-system/pkg/middleware"
	"toro-system/pkg/utils"
	"toro-system/pkg/validation"
)

func main() {
	e := echo.New()
	e.HideBanner = true

	logger := applogger.NewLogger()
	defer logger.Sync()

	cfg := config.New()

	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		DisableStackAll: true,
		StackSize:       1 << 10,
		LogErrorFunc: func(c echo.Context, err error, stack []byte) error {
			logger.Error("!!! ОБНАРУЖЕНА ПАНИКА (PANIC) !!!",
				zap.String("method", c.Request().Method),
				zap.String("uri", c.Request().RequestURI),
				zap.Error(err),
				zap.String("stack", string(stack)),
			)
			if !c.Response().Committed {
				httpErr := apperrors.NewHttpError(http.StatusInternalServerError, "Unexpected server error", err, nil)
				utils.ErrorResponse(c, httpErr, logger)
			}
			return err
		},
	}))

	// API открыт для всех источников: фронтенды ТОРО живут на других хостах.
	e.Use(middleware.CORS())
	e.Use(appmiddleware.RequestLogger(logger))

	e.Validator = validation.New()

	runMigrations(cfg.Postgres.DSN, logger)

	dbConn := postgresql.ConnectDB(context.Background(), cfg.Postgres.DSN)
	defer dbConn.Close()

	var redisClient *redis.Client
	if cfg.Redis.Address != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Address,
			Password: cfg.Redis.Password,
			DB:       0,
		})
		if _, err := redisClient.Ping(context.Background()).Result(); err != nil {
			logger.Fatal("не удалось подключиться к Redis", zap.Error(err), zap.String("address", cfg.Redis.Address))
		}
	}

	routes.InitRouter(e, dbConn, redisClient, logger)

	logger.Info("🚀 Сервер запущен", zap.String("port", cfg.Server.Port))
	if err := e.Start(":" + cfg.Server.Port); err != nil {
		logger.Fatal("Ошибка запуска сервера", zap.Error(err))
	}
}

// runMigrations применяет встроенные goose-миграции до открытия пула.
func runMigrations(dsn string, logger *zap.Logger) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		logger.Fatal("не удалось открыть соединение для миграций", zap.Error(err))
	}
	defer db.Close()

	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("postgres"); err != nil {
		logger.Fatal("goose: неверный диалект", zap.Error(err))
	}
	if err := goose.Up(db, "."); err != nil {
		logger.Fatal("goose: миграции не применились", zap.Error(err))
	}
	logger.Info("Миграции применены")
}
