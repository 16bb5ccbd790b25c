package service

import (
	"context"
	"errors"
	"testing"
	"time"

	cartDomain "github.com/danuarta/shop-microservices/internal/cart/domain"
	inventoryDomain "github.com/danuarta/shop-microservices/internal/inventory/domain"
	"github.com/danuarta/shop-microservices/internal/order/domain"
	oRepo "github.com/danuarta/shop-microservices/internal/order/repository"
	repoMocks "github.com/danuarta/shop-microservices/internal/order/repository/mocks"
	clientMocks "github.com/danuarta/shop-microservices/internal/order/service/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newTestOrderService(t *testing.T, timeout time.Duration) (OrderService, *repoMocks.MockOrderRepository, *clientMocks.MockInventoryClient, *clientMocks.MockCartClient) {
	t.Helper()
	mockRepo := new(repoMocks.MockOrderRepository)
	mockInventory := new(clientMocks.MockInventoryClient)
	mockCart := new(clientMocks.MockCartClient)
	return NewOrderService(mockRepo, mockInventory, mockCart, timeout), mockRepo, mockInventory, mockCart
}

func TestOrderService_CreateOrder(t *testing.T) {
	ctx := context.TODO()
	createOrderReq := domain.CreateOrderRequest{
		UserID: "user123",
		Items: []domain.CreateOrderItemRequest{
			{ProductID: "prod1", Quantity: 2, Price: 10.0},
			{ProductID: "prod2", Quantity: 1, Price: 25.0},
		},
	}

	t.Run("Successful order creation", func(t *testing.T) {
		orderService, mockRepo, mockInventory, _ := newTestOrderService(t, time.Minute)
		mockInventory.On("ReserveStock", ctx, "prod1", 2).Return(nil).Once()
		mockInventory.On("ReserveStock", ctx, "prod2", 1).Return(nil).Once()
		mockRepo.On("CreateOrderWithItems", ctx, mock.AnythingOfType("*domain.Order"), mock.AnythingOfType("[]domain.OrderItem")).Return(nil).Once()

		resp, err := orderService.CreateOrder(ctx, createOrderReq)

		assert.NoError(t, err)
		assert.NotNil(t, resp)
		assert.Equal(t, "mock-order-id", resp.ID)
		assert.Equal(t, domain.StatusPendingPayment, resp.Status)
		assert.Equal(t, (2*10.0)+(1*25.0), resp.TotalAmount)
		mockRepo.AssertExpectations(t)
		mockInventory.AssertExpectations(t)
	})

	t.Run("Stock reservation failed for one item, ensure rollback", func(t *testing.T) {
		orderService, _, mockInventory, _ := newTestOrderService(t, time.Minute)
		mockInventory.On("ReserveStock", ctx, "prod1", 2).Return(nil).Once()
		mockInventory.On("ReserveStock", ctx, "prod2", 1).Return(errors.New("stock unavailable")).Once()
		// Rollback pakai background context
		mockInventory.On("ReleaseStock", context.Background(), "prod1", 2).Return(nil).Once()

		resp, err := orderService.CreateOrder(ctx, createOrderReq)

		assert.Error(t, err)
		assert.Nil(t, resp)
		assert.ErrorIs(t, err, ErrStockReservationFailed)
		assert.Contains(t, err.Error(), "prod2")
		mockInventory.AssertExpectations(t)
	})

	t.Run("CreateOrderWithItems fails after stock reservation", func(t *testing.T) {
		orderService, mockRepo, mockInventory, _ := newTestOrderService(t, time.Minute)
		mockInventory.On("ReserveStock", ctx, "prod1", 2).Return(nil).Once()
		mockInventory.On("ReserveStock", ctx, "prod2", 1).Return(nil).Once()
		repoErr := errors.New("db transaction error")
		mockRepo.On("CreateOrderWithItems", ctx, mock.AnythingOfType("*domain.Order"), mock.AnythingOfType("[]domain.OrderItem")).Return(repoErr).Once()

		// Tidak ada rollback eksplisit di sini; reservasi menggantung sampai payment timeout.
		resp, err := orderService.CreateOrder(ctx, createOrderReq)

		assert.Error(t, err)
		assert.Nil(t, resp)
		assert.ErrorIs(t, err, ErrOrderCreationFailed)
		assert.Contains(t, err.Error(), repoErr.Error())
		mockRepo.AssertExpectations(t)
		mockInventory.AssertExpectations(t)
	})

	t.Run("Empty order rejected", func(t *testing.T) {
		orderService, _, mockInventory, _ := newTestOrderService(t, time.Minute)

		resp, err := orderService.CreateOrder(ctx, domain.CreateOrderRequest{UserID: "user123"})

		assert.Nil(t, resp)
		assert.ErrorIs(t, err, ErrEmptyOrder)
		mockInventory.AssertNotCalled(t, "ReserveStock")
	})
}

func TestOrderService_CreateOrderFromCart(t *testing.T) {
	ctx := context.TODO()
	checkoutReq := domain.CreateOrderRequest{UserID: "user123", FromCart: true}
	cart := &cartDomain.Cart{
		ID:     "cart-1",
		UserID: "user123",
		Items: []cartDomain.CartItem{
			{ProductID: "prod1", Name: "Keyboard", UnitPrice: 45.0, Quantity: 2},
		},
	}

	t.Run("Checkout prices come from the cart and the cart is cleared", func(t *testing.T) {
		orderService, mockRepo, mockInventory, mockCart := newTestOrderService(t, time.Minute)
		mockCart.On("GetCart", ctx, "user123").Return(cart, nil).Once()
		mockInventory.On("ReserveStock", ctx, "prod1", 2).Return(nil).Once()
		mockRepo.On("CreateOrderWithItems", ctx, mock.AnythingOfType("*domain.Order"), mock.MatchedBy(func(items []domain.OrderItem) bool {
			return len(items) == 1 && items[0].PriceAtPurchase == 45.0 && items[0].Quantity == 2
		})).Return(nil).Once()
		mockCart.On("ClearCart", ctx, "user123").Return(nil).Once()

		resp, err := orderService.CreateOrder(ctx, checkoutReq)

		assert.NoError(t, err)
		assert.Equal(t, 90.0, resp.TotalAmount)
		mockRepo.AssertExpectations(t)
		mockCart.AssertExpectations(t)
	})

	t.Run("Cart service unreachable", func(t *testing.T) {
		orderService, _, mockInventory, mockCart := newTestOrderService(t, time.Minute)
		mockCart.On("GetCart", ctx, "user123").Return(nil, errors.New("connection refused")).Once()

		resp, err := orderService.CreateOrder(ctx, checkoutReq)

		assert.Nil(t, resp)
		assert.ErrorIs(t, err, ErrCartCheckoutFailed)
		mockInventory.AssertNotCalled(t, "ReserveStock")
	})

	t.Run("Empty cart rejected", func(t *testing.T) {
		orderService, _, _, mockCart := newTestOrderService(t, time.Minute)
		mockCart.On("GetCart", ctx, "user123").Return(&cartDomain.Cart{ID: "cart-1", UserID: "user123", Items: []cartDomain.CartItem{}}, nil).Once()

		resp, err := orderService.CreateOrder(ctx, checkoutReq)

		assert.Nil(t, resp)
		assert.ErrorIs(t, err, ErrEmptyOrder)
	})

	t.Run("Failed cart clear does not fail the order", func(t *testing.T) {
		orderService, mockRepo, mockInventory, mockCart := newTestOrderService(t, time.Minute)
		mockCart.On("GetCart", ctx, "user123").Return(cart, nil).Once()
		mockInventory.On("ReserveStock", ctx, "prod1", 2).Return(nil).Once()
		mockRepo.On("CreateOrderWithItems", ctx, mock.AnythingOfType("*domain.Order"), mock.AnythingOfType("[]domain.OrderItem")).Return(nil).Once()
		mockCart.On("ClearCart", ctx, "user123").Return(errors.New("cart service down")).Once()

		resp, err := orderService.CreateOrder(ctx, checkoutReq)

		assert.NoError(t, err)
		assert.NotNil(t, resp)
	})
}

func TestOrderService_ConfirmPayment(t *testing.T) {
	ctx := context.TODO()
	orderID := "order-confirm-123"
	mockOrderItems := []domain.OrderItem{
		{ID: "item1", ProductID: "prodA", Quantity: 1, PriceAtPurchase: 20.0},
		{ID: "item2", ProductID: "prodB", Quantity: 2, PriceAtPurchase: 15.0},
	}
	mockReservations := []inventoryDomain.ProductLocationReservation{
		{ProductID: "prodA", LocationID: "loc1", Reserved: 1},
		{ProductID: "prodB", LocationID: "loc1", Reserved: 2},
	}

	t.Run("Successful payment confirmation", func(t *testing.T) {
		orderService, mockRepo, mockInventory, _ := newTestOrderService(t, time.Minute)
		pendingOrder := &domain.Order{ID: orderID, UserID: "user1", Status: domain.StatusPendingPayment, TotalAmount: 50.0}
		mockRepo.On("GetOrderByID", ctx, orderID).Return(pendingOrder, nil).Once()
		mockRepo.On("GetOrderItemsByOrderID", ctx, orderID).Return(mockOrderItems, nil).Once()
		mockInventory.On("FindReservations", ctx, []string{"prodA", "prodB"}).Return(mockReservations, nil).Once()
		deductReqA := inventoryDomain.DeductStockRequest{ProductID: "prodA", LocationID: "loc1", Quantity: 1}
		deductReqB := inventoryDomain.DeductStockRequest{ProductID: "prodB", LocationID: "loc1", Quantity: 2}
		mockInventory.On("DeductStock", ctx, deductReqA).Return(nil).Once()
		mockInventory.On("DeductStock", ctx, deductReqB).Return(nil).Once()
		mockRepo.On("UpdateOrderStatus", ctx, orderID, domain.StatusAwaitingShipment).Return(nil).Once()

		order, err := orderService.ConfirmPayment(ctx, orderID)

		assert.NoError(t, err)
		assert.NotNil(t, order)
		assert.Equal(t, domain.StatusAwaitingShipment, order.Status)
		mockRepo.AssertExpectations(t)
		mockInventory.AssertExpectations(t)
	})

	t.Run("Reservation spans two locations", func(t *testing.T) {
		orderService, mockRepo, mockInventory, _ := newTestOrderService(t, time.Minute)
		pendingOrder := &domain.Order{ID: orderID, Status: domain.StatusPendingPayment}
		items := []domain.OrderItem{{ID: "item1", ProductID: "prodA", Quantity: 5}}
		split := []inventoryDomain.ProductLocationReservation{
			{ProductID: "prodA", LocationID: "loc1", Reserved: 3},
			{ProductID: "prodA", LocationID: "loc2", Reserved: 2},
		}
		mockRepo.On("GetOrderByID", ctx, orderID).Return(pendingOrder, nil).Once()
		mockRepo.On("GetOrderItemsByOrderID", ctx, orderID).Return(items, nil).Once()
		mockInventory.On("FindReservations", ctx, []string{"prodA"}).Return(split, nil).Once()
		mockInventory.On("DeductStock", ctx, inventoryDomain.DeductStockRequest{ProductID: "prodA", LocationID: "loc1", Quantity: 3}).Return(nil).Once()
		mockInventory.On("DeductStock", ctx, inventoryDomain.DeductStockRequest{ProductID: "prodA", LocationID: "loc2", Quantity: 2}).Return(nil).Once()
		mockRepo.On("UpdateOrderStatus", ctx, orderID, domain.StatusAwaitingShipment).Return(nil).Once()

		order, err := orderService.ConfirmPayment(ctx, orderID)

		assert.NoError(t, err)
		assert.NotNil(t, order)
		mockInventory.AssertExpectations(t)
	})

	t.Run("Order not found", func(t *testing.T) {
		orderService, mockRepo, mockInventory, _ := newTestOrderService(t, time.Minute)
		mockRepo.On("GetOrderByID", ctx, orderID).Return(nil, oRepo.ErrOrderNotFound).Once()

		order, err := orderService.ConfirmPayment(ctx, orderID)

		assert.Nil(t, order)
		assert.ErrorIs(t, err, ErrOrderCannotBeConfirmed)
		mockInventory.AssertNotCalled(t, "FindReservations")
		mockInventory.AssertNotCalled(t, "DeductStock")
		mockRepo.AssertNotCalled(t, "UpdateOrderStatus")
	})

	t.Run("Order not in PENDING_PAYMENT status", func(t *testing.T) {
		orderService, mockRepo, _, _ := newTestOrderService(t, time.Minute)
		shippedOrder := &domain.Order{ID: orderID, Status: domain.StatusShipped}
		mockRepo.On("GetOrderByID", ctx, orderID).Return(shippedOrder, nil).Once()

		order, err := orderService.ConfirmPayment(ctx, orderID)

		assert.Nil(t, order)
		assert.ErrorIs(t, err, ErrOrderCannotBeConfirmed)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Reservation shortfall aborts confirmation", func(t *testing.T) {
		orderService, mockRepo, mockInventory, _ := newTestOrderService(t, time.Minute)
		pendingOrder := &domain.Order{ID: orderID, Status: domain.StatusPendingPayment}
		items := []domain.OrderItem{{ID: "item1", ProductID: "prodA", Quantity: 5}}
		short := []inventoryDomain.ProductLocationReservation{
			{ProductID: "prodA", LocationID: "loc1", Reserved: 3},
		}
		mockRepo.On("GetOrderByID", ctx, orderID).Return(pendingOrder, nil).Once()
		mockRepo.On("GetOrderItemsByOrderID", ctx, orderID).Return(items, nil).Once()
		mockInventory.On("FindReservations", ctx, []string{"prodA"}).Return(short, nil).Once()
		mockInventory.On("DeductStock", ctx, inventoryDomain.DeductStockRequest{ProductID: "prodA", LocationID: "loc1", Quantity: 3}).Return(nil).Once()

		order, err := orderService.ConfirmPayment(ctx, orderID)

		assert.Nil(t, order)
		assert.Error(t, err)
		mockRepo.AssertNotCalled(t, "UpdateOrderStatus")
	})
}

func TestOrderService_ProcessPaymentTimeouts(t *testing.T) {
	ctx := context.Background()
	timeoutDuration := 30 * time.Minute
	pendingOrder1 := domain.Order{ID: "timeout1", UserID: "userA", Status: domain.StatusPendingPayment, CreatedAt: time.Now().Add(-timeoutDuration * 2)}
	itemsForOrder1 := []domain.OrderItem{
		{ProductID: "prodX", Quantity: 1},
		{ProductID: "prodY", Quantity: 2},
	}

	t.Run("Successfully process one timed-out order", func(t *testing.T) {
		orderService, mockRepo, mockInventory, _ := newTestOrderService(t, timeoutDuration)
		mockRepo.On("GetPendingOrdersOlderThan", ctx, timeoutDuration).Return([]domain.Order{pendingOrder1}, nil).Once()
		mockRepo.On("GetOrderItemsByOrderID", ctx, pendingOrder1.ID).Return(itemsForOrder1, nil).Once()
		mockInventory.On("ReleaseStock", ctx, "prodX", 1).Return(nil).Once()
		mockInventory.On("ReleaseStock", ctx, "prodY", 2).Return(nil).Once()
		mockRepo.On("UpdateOrderStatus", ctx, pendingOrder1.ID, domain.StatusPaymentTimeout).Return(nil).Once()

		orderService.ProcessPaymentTimeouts(ctx)

		mockRepo.AssertExpectations(t)
		mockInventory.AssertExpectations(t)
	})

	t.Run("No orders past payment timeout", func(t *testing.T) {
		orderService, mockRepo, mockInventory, _ := newTestOrderService(t, timeoutDuration)
		mockRepo.On("GetPendingOrdersOlderThan", ctx, timeoutDuration).Return([]domain.Order{}, nil).Once()

		orderService.ProcessPaymentTimeouts(ctx)

		mockRepo.AssertExpectations(t)
		mockInventory.AssertNotCalled(t, "ReleaseStock")
		mockRepo.AssertNotCalled(t, "GetOrderItemsByOrderID")
		mockRepo.AssertNotCalled(t, "UpdateOrderStatus")
	})

	t.Run("Failed to release stock for an item", func(t *testing.T) {
		orderService, mockRepo, mockInventory, _ := newTestOrderService(t, timeoutDuration)
		mockRepo.On("GetPendingOrdersOlderThan", ctx, timeoutDuration).Return([]domain.Order{pendingOrder1}, nil).Once()
		mockRepo.On("GetOrderItemsByOrderID", ctx, pendingOrder1.ID).Return(itemsForOrder1, nil).Once()
		mockInventory.On("ReleaseStock", ctx, "prodX", 1).Return(errors.New("inventory client error")).Once()
		mockInventory.On("ReleaseStock", ctx, "prodY", 2).Return(nil).Once()

		// Status tetap di-flip supaya order tidak diproses ulang terus.
		mockRepo.On("UpdateOrderStatus", ctx, pendingOrder1.ID, domain.StatusPaymentTimeout).Return(nil).Once()

		orderService.ProcessPaymentTimeouts(ctx)

		mockRepo.AssertExpectations(t)
		mockInventory.AssertExpectations(t)
	})
}
