package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aarondl/null/v8"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"toro-system/internal/dto"
	"toro-system/internal/entities"
	"toro-system/internal/events"
	"toro-system/internal/repositories"
	"toro-system/pkg/constants"
	apperrors "toro-system/pkg/errors"
	"toro-system/pkg/eventbus"
	"toro-system/pkg/utils"
	"toro-system/pkg/validation"
)

// Генерация номера и вставка идут в одной транзакции с блокировкой
// последнего номера года, но под снятой блокировкой (перезапуск сервиса,
// ручная вставка) коллизия всё равно возможна — тогда повторяем.
const maxCreateAttempts = 3

type OrderServiceInterface interface {
	CreateOrder(ctx context.Context, payload map[string]interface{}) (*dto.OrderDTO, error)
	GetOrders(ctx context.Context, filter dto.OrderFilterDTO) (*dto.OrderListDTO, error)
	FindOrder(ctx context.Context, id int64) (*dto.OrderDTO, error)
	UpdateOrderStatus(ctx context.Context, id int64, upd dto.UpdateOrderStatusDTO) (*dto.OrderDTO, error)
	DeleteOrder(ctx context.Context, id int64) error
}

type OrderService struct {
	txManager repositories.TxManagerInterface
	orderRepo repositories.OrderRepositoryInterface
	cache     repositories.OrderCacheInterface
	bus       *eventbus.Bus
	logger    *zap.Logger
}

func NewOrderService(
	txManager repositories.TxManagerInterface,
	orderRepo repositories.OrderRepositoryInterface,
	cache repositories.OrderCacheInterface,
	bus *eventbus.Bus,
	logger *zap.Logger,
) OrderServiceInterface {
	return &OrderService{
		txManager: txManager,
		orderRepo: orderRepo,
		cache:     cache,
		bus:       bus,
		logger:    logger,
	}
}

func (s *OrderService) CreateOrder(ctx context.Context, payload map[string]interface{}) (*dto.OrderDTO, error) {
	data, fieldErrs := validation.ValidateCreateOrder(payload)
	if len(fieldErrs) > 0 {
		return nil, apperrors.NewValidationError(fieldErrs)
	}

	var (
		created *entities.Order
		err     error
	)
	for attempt := 1; attempt <= maxCreateAttempts; attempt++ {
		created, err = s.tryCreateOrder(ctx, data)
		if errors.Is(err, repositories.ErrOrderNumberTaken) {
			s.logger.Warn("коллизия номера заявки, повторяем генерацию", zap.Int("attempt", attempt))
			continue
		}
		break
	}
	if err != nil {
		return nil, s.wrapStoreError(err)
	}

	s.logger.Info("заявка создана",
		zap.String("order_number", created.OrderNumber),
		zap.String("priority", created.Priority),
		zap.String("equipment_id", created.EquipmentID),
		zap.String("requester", created.RequesterName),
	)
	s.bus.Publish(ctx, events.OrderCreatedEvent{Order: *created})

	return toOrderDTO(created), nil
}

func (s *OrderService) tryCreateOrder(ctx context.Context, data dto.CreateOrderDTO) (*entities.Order, error) {
	var created *entities.Order
	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		year := time.Now().UTC().Year()
		latestNumber, latestID, err := s.orderRepo.LatestOrderForUpdateInTx(ctx, tx, utils.OrderNumberPrefix(year))
		if err != nil {
			return err
		}

		order := &entities.Order{
			OrderNumber:      utils.NextOrderNumber(year, latestNumber, latestID),
			Status:           constants.StatusCreated,
			EquipmentType:    data.EquipmentType,
			EquipmentID:      data.EquipmentID,
			IssueDescription: data.IssueDescription,
			Priority:         data.Priority,
			RequesterName:    data.RequesterName,
			Department:       data.Department,
			ContactPhone:     data.ContactPhone,
			ContactEmail:     data.ContactEmail,
		}
		if err := s.orderRepo.CreateOrderInTx(ctx, tx, order); err != nil {
			return err
		}
		created = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *OrderService) GetOrders(ctx context.Context, filter dto.OrderFilterDTO) (*dto.OrderListDTO, error) {
	orders, total, err := s.orderRepo.GetOrders(ctx, filter)
	if err != nil {
		return nil, s.wrapStoreError(err)
	}

	list := make([]dto.OrderDTO, 0, len(orders))
	for i := range orders {
		list = append(list, *toOrderDTO(&orders[i]))
	}
	return &dto.OrderListDTO{Orders: list, Total: total}, nil
}

func (s *OrderService) FindOrder(ctx context.Context, id int64) (*dto.OrderDTO, error) {
	if cached, err := s.cache.GetOrder(ctx, id); err == nil {
		return toOrderDTO(cached), nil
	} else if !errors.Is(err, repositories.ErrCacheMiss) {
		s.logger.Warn("кеш заявок недоступен", zap.Error(err))
	}

	order, err := s.orderRepo.FindOrder(ctx, id)
	if err != nil {
		return nil, s.wrapStoreError(err)
	}

	if err := s.cache.SetOrder(ctx, order); err != nil {
		s.logger.Warn("не удалось положить заявку в кеш", zap.Int64("id", id), zap.Error(err))
	}
	return toOrderDTO(order), nil
}

func (s *OrderService) UpdateOrderStatus(ctx context.Context, id int64, upd dto.UpdateOrderStatusDTO) (*dto.OrderDTO, error) {
	if !constants.IsValidStatus(upd.Status) {
		return nil, apperrors.NewValidationError(map[string]string{
			"status": fmt.Sprintf("Must be one of: %s", strings.Join(constants.OrderStatuses, ", ")),
		})
	}

	var (
		updated   *entities.Order
		oldStatus string
	)
	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		order, err := s.orderRepo.FindOrderForUpdateInTx(ctx, tx, id)
		if err != nil {
			return err
		}

		if order.Status == upd.Status {
			return apperrors.NewValidationError(map[string]string{
				"status": "Order is already in requested status",
			})
		}
		if !constants.CanTransition(order.Status, upd.Status) {
			return apperrors.NewConflictError(
				fmt.Sprintf("Status transition from %q to %q is not allowed", order.Status, upd.Status),
			)
		}

		oldStatus = order.Status
		completedAt := order.CompletedAt
		if upd.Status == constants.StatusCompleted {
			completedAt = null.TimeFrom(time.Now().UTC())
		}

		updated, err = s.orderRepo.UpdateOrderStatusInTx(ctx, tx, id, upd.Status, completedAt)
		return err
	})
	if err != nil {
		return nil, s.wrapStoreError(err)
	}

	if err := s.cache.DeleteOrder(ctx, id); err != nil {
		s.logger.Warn("не удалось инвалидировать кеш заявки", zap.Int64("id", id), zap.Error(err))
	}

	s.logger.Info("статус заявки изменен",
		zap.String("order_number", updated.OrderNumber),
		zap.String("old_status", oldStatus),
		zap.String("new_status", updated.Status),
	)
	s.bus.Publish(ctx, events.OrderStatusChangedEvent{Order: *updated, OldStatus: oldStatus})

	return toOrderDTO(updated), nil
}

func (s *OrderService) DeleteOrder(ctx context.Context, id int64) error {
	order, err := s.orderRepo.FindOrder(ctx, id)
	if err != nil {
		return s.wrapStoreError(err)
	}

	if err := s.orderRepo.DeleteOrder(ctx, id); err != nil {
		return s.wrapStoreError(err)
	}

	if err := s.cache.DeleteOrder(ctx, id); err != nil {
		s.logger.Warn("не удалось инвалидировать кеш заявки", zap.Int64("id", id), zap.Error(err))
	}

	s.logger.Info("заявка удалена",
		zap.String("order_number", order.OrderNumber),
		zap.Int64("id", order.ID),
	)
	s.bus.Publish(ctx, events.OrderDeletedEvent{OrderID: order.ID, OrderNumber: order.OrderNumber})
	return nil
}

// wrapStoreError прячет отказ хранилища за store_error,
// не трогая ошибки, которые уже несут HTTP-семантику.
func (s *OrderService) wrapStoreError(err error) error {
	var httpErr *apperrors.HttpError
	if errors.As(err, &httpErr) || errors.Is(err, apperrors.ErrNotFound) {
		return err
	}
	return apperrors.NewStoreError(err)
}

func toOrderDTO(o *entities.Order) *dto.OrderDTO {
	out := &dto.OrderDTO{
		ID:               o.ID,
		OrderNumber:      o.OrderNumber,
		EquipmentType:    o.EquipmentType,
		EquipmentID:      o.EquipmentID,
		IssueDescription: o.IssueDescription,
		Priority:         o.Priority,
		Status:           o.Status,
		RequesterName:    o.RequesterName,
		Department:       o.Department,
		ContactPhone:     o.ContactPhone,
		ContactEmail:     o.ContactEmail,
		CreatedAt:        utils.FormatTimestamp(o.CreatedAt),
		UpdatedAt:        utils.FormatTimestamp(o.UpdatedAt),
	}
	if o.CompletedAt.Valid {
		completed := utils.FormatTimestamp(o.CompletedAt.Time)
		out.CompletedAt = &completed
	}
	return out
}
