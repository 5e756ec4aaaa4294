package services_test

import (
	"context"
	"encoding/json"
	"testing"

	"storefront/internal/models"
	"storefront/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func placeOrder(t *testing.T, s *shop, userID, sid string) *models.Order {
	t.Helper()
	ctx := context.Background()
	p := s.addProduct(t, "Widget", "3.00", 10)
	_, err := s.cart.Add(ctx, sid, p.ID, 1)
	require.NoError(t, err)
	order, err := s.checkout.Checkout(ctx, userID, sid)
	require.NoError(t, err)
	return order
}

func TestOrderService_UpdateOrderStatus(t *testing.T) {
	ctx := context.Background()
	s := newShop(t)
	order := placeOrder(t, s, shopperID, sessionID)
	publisher := &recordingPublisher{}
	service := services.NewOrderService(s.orders, s.customers, s.products, publisher, zap.NewNop())

	// Any status may follow any other, including going back.
	for _, status := range []models.OrderStatus{models.StatusDelivered, models.StatusAwaitingPayment, models.StatusCancelled} {
		require.NoError(t, service.UpdateOrderStatus(ctx, order.ID, status))
		got, err := service.GetOrderByID(ctx, order.ID)
		require.NoError(t, err)
		assert.Equal(t, status, got.Status)
	}

	err := service.UpdateOrderStatus(ctx, order.ID, "lost")
	assert.ErrorIs(t, err, models.ErrInvalidStatus)

	err = service.UpdateOrderStatus(ctx, "missing", models.StatusShipped)
	assert.ErrorIs(t, err, models.ErrNotFound)

	require.Len(t, publisher.messages, 3)
	var event services.OrderStatusUpdatedEvent
	require.NoError(t, json.Unmarshal(publisher.messages[2].body, &event))
	assert.Equal(t, services.RoutingOrderStatusUpdated, publisher.messages[2].routingKey)
	assert.Equal(t, models.StatusCancelled, event.Status)
}

func TestOrderService_CustomersSeeOnlyTheirOrders(t *testing.T) {
	ctx := context.Background()
	s := newShop(t)
	other := models.NewCustomer("user-2")
	require.NoError(t, s.customers.Create(ctx, other))

	mine := placeOrder(t, s, shopperID, "s-1")
	theirs := placeOrder(t, s, "user-2", "s-2")
	service := services.NewOrderService(s.orders, s.customers, s.products, nil, zap.NewNop())

	all, err := service.GetAllOrders(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	own, err := service.GetOrdersForUser(ctx, shopperID)
	require.NoError(t, err)
	require.Len(t, own, 1)
	assert.Equal(t, mine.ID, own[0].ID)

	got, err := service.GetOrderForUser(ctx, mine.ID, shopperID)
	require.NoError(t, err)
	assert.Equal(t, mine.ID, got.ID)

	_, err = service.GetOrderForUser(ctx, theirs.ID, shopperID)
	assert.ErrorIs(t, err, models.ErrNotFound)

	none, err := service.GetOrdersForUser(ctx, "user-without-profile")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestOrderService_DeleteOrder(t *testing.T) {
	ctx := context.Background()
	s := newShop(t)
	order := placeOrder(t, s, shopperID, sessionID)
	service := services.NewOrderService(s.orders, s.customers, s.products, nil, zap.NewNop())

	require.NoError(t, service.DeleteOrder(ctx, order.ID))
	_, err := service.GetOrderByID(ctx, order.ID)
	assert.ErrorIs(t, err, models.ErrNotFound)
	assert.ErrorIs(t, service.DeleteOrder(ctx, order.ID), models.ErrNotFound)
}

func TestOrderService_CreateOrder(t *testing.T) {
	ctx := context.Background()
	s := newShop(t)
	pen := s.addProduct(t, "Pen", "1.25", 10)
	ink := s.addProduct(t, "Ink", "4.00", 2)
	publisher := &recordingPublisher{}
	service := services.NewOrderService(s.orders, s.customers, s.products, publisher, zap.NewNop())

	order, err := service.CreateOrder(ctx, s.customer.ID, []services.OrderLineInput{
		{ProductID: pen.ID, Quantity: 1},
		{ProductID: ink.ID, Quantity: 2},
		{ProductID: pen.ID, Quantity: 3},
	})
	require.NoError(t, err)
	require.NotEmpty(t, order.ID)
	assert.Equal(t, s.customer.ID, order.CustomerID)
	assert.Equal(t, models.StatusAwaitingPayment, order.Status)
	require.Len(t, order.Lines, 2, "lines of the same product are merged")
	assert.Equal(t, pen.ID, order.Lines[0].ProductID)
	assert.Equal(t, 4, order.Lines[0].Quantity)
	assert.True(t, order.Lines[0].Price.Equal(price("1.25")))
	assert.Equal(t, "13.00", order.Total().StringFixed(2))
	assert.Equal(t, 6, s.stockOf(t, pen.ID))
	assert.Equal(t, 0, s.stockOf(t, ink.ID))

	require.Len(t, publisher.messages, 1)
	assert.Equal(t, services.RoutingOrderCreated, publisher.messages[0].routingKey)
	var event services.OrderCreatedEvent
	require.NoError(t, json.Unmarshal(publisher.messages[0].body, &event))
	assert.Equal(t, order.ID, event.OrderID)
	assert.Equal(t, "13.00", event.Total)
}

func TestOrderService_CreateOrderRejectsBadInput(t *testing.T) {
	ctx := context.Background()
	s := newShop(t)
	pen := s.addProduct(t, "Pen", "1.25", 1)
	service := services.NewOrderService(s.orders, s.customers, s.products, nil, zap.NewNop())

	_, err := service.CreateOrder(ctx, s.customer.ID, nil)
	assert.ErrorIs(t, err, services.ErrNoOrderLines)

	_, err = service.CreateOrder(ctx, "missing", []services.OrderLineInput{{ProductID: pen.ID, Quantity: 1}})
	assert.ErrorIs(t, err, models.ErrNotFound)

	_, err = service.CreateOrder(ctx, s.customer.ID, []services.OrderLineInput{{ProductID: pen.ID, Quantity: 0}})
	assert.ErrorIs(t, err, models.ErrInvalidQuantity)

	_, err = service.CreateOrder(ctx, s.customer.ID, []services.OrderLineInput{{ProductID: "gone", Quantity: 1}})
	assert.ErrorIs(t, err, models.ErrNotFound)

	_, err = service.CreateOrder(ctx, s.customer.ID, []services.OrderLineInput{{ProductID: pen.ID, Quantity: 2}})
	var stockErr *models.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, 1, stockErr.Available)

	assert.Equal(t, 1, s.stockOf(t, pen.ID))
	all, err := service.GetAllOrders(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}
