package services

import (
	"encoding/json"
	"time"

	"storefront/internal/models"

	"go.uber.org/zap"
)

const (
	// OrderExchange is the topic exchange order events are published to.
	OrderExchange = "orders"

	RoutingOrderCreated       = "order.created"
	RoutingOrderStatusUpdated = "order.status_updated"
)

// EventPublisher sends a message to a broker exchange.
type EventPublisher interface {
	Publish(exchange, routingKey string, body []byte) error
}

// OrderCreatedEvent is published after a checkout succeeds.
type OrderCreatedEvent struct {
	OrderID    string             `json:"order_id"`
	CustomerID string             `json:"customer_id"`
	Status     models.OrderStatus `json:"status"`
	Total      string             `json:"total"`
	Lines      int                `json:"lines"`
	CreatedAt  time.Time          `json:"created_at"`
}

func orderCreatedEvent(order *models.Order) OrderCreatedEvent {
	return OrderCreatedEvent{
		OrderID:    order.ID,
		CustomerID: order.CustomerID,
		Status:     order.Status,
		Total:      order.Total().StringFixed(2),
		Lines:      len(order.Lines),
		CreatedAt:  order.CreatedAt,
	}
}

// OrderStatusUpdatedEvent is published after an order changes status.
type OrderStatusUpdatedEvent struct {
	OrderID   string             `json:"order_id"`
	Status    models.OrderStatus `json:"status"`
	UpdatedAt time.Time          `json:"updated_at"`
}

// publishEvent marshals event and hands it to publisher. Failures are logged
// only; the caller's operation has already been committed.
func publishEvent(publisher EventPublisher, log *zap.Logger, routingKey string, event interface{}) {
	if publisher == nil {
		return
	}
	body, err := json.Marshal(event)
	if err != nil {
		log.Error("failed to marshal event", zap.String("routing_key", routingKey), zap.Error(err))
		return
	}
	if err := publisher.Publish(OrderExchange, routingKey, body); err != nil {
		log.Warn("failed to publish event", zap.String("routing_key", routingKey), zap.Error(err))
		return
	}
	log.Debug("event published", zap.String("routing_key", routingKey))
}
