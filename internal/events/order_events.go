package events

import "toro-system/internal/entities"

// OrderCreatedEvent возникает после коммита создания заявки.
type OrderCreatedEvent struct {
	Order entities.Order
}

func (e OrderCreatedEvent) Name() string { return "order.created" }

// OrderStatusChangedEvent возникает после успешного перехода статуса.
type OrderStatusChangedEvent struct {
	Order     entities.Order
	OldStatus string
}

func (e OrderStatusChangedEvent) Name() string { return "order.status.changed" }

// OrderDeletedEvent возникает после удаления заявки.
type OrderDeletedEvent struct {
	OrderID     int64
	OrderNumber string
}

func (e OrderDeletedEvent) Name() string { return "order.deleted" }
