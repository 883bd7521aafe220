package listeners

import (
	"context"

	"go.uber.org/zap"

	"toro-system/internal/events"
	"toro-system/pkg/eventbus"
)

// NotificationListener слушает события жизненного цикла заявок.
// Сейчас уведомления сводятся к структурному логу; сюда же позже
// встанет отправка почты диспетчерской.
type NotificationListener struct {
	logger *zap.Logger
}

func NewNotificationListener(logger *zap.Logger) *NotificationListener {
	return &NotificationListener{logger: logger}
}

// Register подписывает слушателя на все события заявок.
func (l *NotificationListener) Register(bus *eventbus.Bus) {
	bus.Subscribe(events.OrderCreatedEvent{}.Name(), l.onOrderCreated)
	bus.Subscribe(events.OrderStatusChangedEvent{}.Name(), l.onOrderStatusChanged)
	bus.Subscribe(events.OrderDeletedEvent{}.Name(), l.onOrderDeleted)
}

func (l *NotificationListener) onOrderCreated(ctx context.Context, event eventbus.Event) error {
	e, ok := event.(events.OrderCreatedEvent)
	if !ok {
		return nil
	}
	l.logger.Info("уведомление: создана заявка",
		zap.String("order_number", e.Order.OrderNumber),
		zap.String("priority", e.Order.Priority),
		zap.String("equipment_id", e.Order.EquipmentID),
		zap.String("requester", e.Order.RequesterName),
	)
	return nil
}

func (l *NotificationListener) onOrderStatusChanged(ctx context.Context, event eventbus.Event) error {
	e, ok := event.(events.OrderStatusChangedEvent)
	if !ok {
		return nil
	}
	l.logger.Info("уведомление: статус заявки изменен",
		zap.String("order_number", e.Order.OrderNumber),
		zap.String("old_status", e.OldStatus),
		zap.String("new_status", e.Order.Status),
	)
	return nil
}

func (l *NotificationListener) onOrderDeleted(ctx context.Context, event eventbus.Event) error {
	e, ok := event.(events.OrderDeletedEvent)
	if !ok {
		return nil
	}
	l.logger.Info("уведомление: заявка удалена",
		zap.String("order_number", e.OrderNumber),
		zap.Int64("order_id", e.OrderID),
	)
	return nil
}
