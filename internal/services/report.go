package services

import (
	"context"

	"go.uber.org/zap"

	"toro-system/internal/dto"
	"toro-system/internal/entities"
	"toro-system/internal/repositories"
)

type ReportServiceInterface interface {
	GetOrdersForExport(ctx context.Context, filter dto.OrderFilterDTO) ([]entities.Order, error)
}

type reportService struct {
	orderRepo repositories.OrderRepositoryInterface
	logger    *zap.Logger
}

func NewReportService(orderRepo repositories.OrderRepositoryInterface, logger *zap.Logger) ReportServiceInterface {
	return &reportService{orderRepo: orderRepo, logger: logger}
}

// GetOrdersForExport отдает заявки под выгрузку в Excel: те же фильтры,
// что у списка, без пагинации.
func (s *reportService) GetOrdersForExport(ctx context.Context, filter dto.OrderFilterDTO) ([]entities.Order, error) {
	orders, total, err := s.orderRepo.GetOrders(ctx, filter)
	if err != nil {
		s.logger.Error("не удалось собрать данные для отчета", zap.Error(err))
		return nil, err
	}
	s.logger.Debug("данные для отчета собраны", zap.Uint64("total", total))
	return orders, nil
}
