package routes

import (
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"toro-system/internal/controllers"
	"toro-system/internal/listeners"
	"toro-system/internal/repositories"
	"toro-system/internal/services"
	"toro-system/pkg/eventbus"
)

const orderCacheTTL = 5 * time.Minute

// InitRouter собирает и связывает репозитории, сервисы и контроллеры.
// redisClient может быть nil — тогда кеш заявок отключен.
func InitRouter(e *echo.Echo, dbConn *pgxpool.Pool, redisClient *redis.Client, logger *zap.Logger) {
	logger.Info("InitRouter: Начало создания маршрутов")

	txManager := repositories.NewTxManager(dbConn)
	orderRepo := repositories.NewOrderRepository(dbConn, logger)

	var orderCache repositories.OrderCacheInterface
	if redisClient != nil {
		orderCache = repositories.NewRedisOrderCache(redisClient, orderCacheTTL)
	} else {
		orderCache = repositories.NewNoopOrderCache()
	}

	bus := eventbus.New(logger)
	listeners.NewNotificationListener(logger).Register(bus)

	orderService := services.NewOrderService(txManager, orderRepo, orderCache, bus, logger)
	reportService := services.NewReportService(orderRepo, logger)

	orderCtrl := controllers.NewOrderController(orderService, logger)
	reportCtrl := controllers.NewReportController(reportService, logger)
	healthCtrl := controllers.NewHealthController(dbConn, logger)

	api := e.Group("/api/v1")
	runOrderRouter(api, orderCtrl, reportCtrl)

	e.GET("/health", healthCtrl.Check)

	logger.Info("InitRouter: Создание маршрутов завершено")
}
