package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	inventoryDomain "github.com/danuarta/shop-microservices/internal/inventory/domain"
	"github.com/danuarta/shop-microservices/internal/order/domain"
	"github.com/danuarta/shop-microservices/internal/order/repository"
	"github.com/danuarta/shop-microservices/internal/platform/logger"
	"github.com/robfig/cron/v3"
)

var (
	ErrOrderCreationFailed    = errors.New("order creation failed")
	ErrStockReservationFailed = errors.New("stock reservation failed for one or more items")
	ErrOrderCannotBeConfirmed = errors.New("order cannot be confirmed")
	ErrEmptyOrder             = errors.New("order must contain at least one item")
	ErrCartCheckoutFailed     = errors.New("failed to load cart for checkout")
)

type OrderService interface {
	CreateOrder(ctx context.Context, req domain.CreateOrderRequest) (*domain.CreateOrderResponse, error)
	GetOrderDetails(ctx context.Context, orderID string) (*domain.Order, error)
	ListUserOrders(ctx context.Context, userID string) ([]domain.Order, error)
	ConfirmPayment(ctx context.Context, orderID string) (*domain.Order, error)
	ProcessPaymentTimeouts(ctx context.Context) // Fungsi untuk scheduler
}

type orderServiceImpl struct {
	orderRepo              repository.OrderRepository
	inventoryClient        InventoryClient
	cartClient             CartClient
	scheduler              *cron.Cron
	paymentTimeoutDuration time.Duration
}

func NewOrderService(or repository.OrderRepository, ic InventoryClient, cc CartClient, paymentTimeout time.Duration) OrderService {
	s := &orderServiceImpl{
		orderRepo:              or,
		inventoryClient:        ic,
		cartClient:             cc,
		scheduler:              cron.New(cron.WithSeconds()),
		paymentTimeoutDuration: paymentTimeout,
	}
	s.initScheduler()
	return s
}

func (s *orderServiceImpl) initScheduler() {
	spec := "*/30 * * * * *"
	s.scheduler.AddFunc(spec, func() {
		logger.Info("Scheduler: Running ProcessPaymentTimeouts job...")
		s.ProcessPaymentTimeouts(context.Background())
	})
	s.scheduler.Start()
	logger.Info(fmt.Sprintf("Payment timeout scheduler initialized with spec '%s' and timeout duration %v", spec, s.paymentTimeoutDuration))
}

func (s *orderServiceImpl) CreateOrder(ctx context.Context, req domain.CreateOrderRequest) (*domain.CreateOrderResponse, error) {
	itemRequests := req.Items
	if req.FromCart {
		cart, err := s.cartClient.GetCart(ctx, req.UserID)
		if err != nil {
			logger.Error("CreateOrder: failed to load cart for user "+req.UserID, err)
			return nil, fmt.Errorf("%w: %v", ErrCartCheckoutFailed, err)
		}
		itemRequests = make([]domain.CreateOrderItemRequest, len(cart.Items))
		for i, cartItem := range cart.Items {
			// Harga sudah diisi server-side oleh cart service saat item ditambahkan.
			itemRequests[i] = domain.CreateOrderItemRequest{
				ProductID: cartItem.ProductID,
				Quantity:  cartItem.Quantity,
				Price:     cartItem.UnitPrice,
			}
		}
	}
	if len(itemRequests) == 0 {
		return nil, ErrEmptyOrder
	}

	// Reservasi per item; kalau satu gagal, reservasi yang sudah jalan dilepas lagi.
	successfullyReservedItems := []domain.CreateOrderItemRequest{}

	for _, itemReq := range itemRequests {
		logger.Info(fmt.Sprintf("Attempting to reserve stock for ProductID: %s, Quantity: %d", itemReq.ProductID, itemReq.Quantity))
		err := s.inventoryClient.ReserveStock(ctx, itemReq.ProductID, itemReq.Quantity)
		if err != nil {
			logger.Error("Failed to reserve stock for ProductID: "+itemReq.ProductID, err)

			if len(successfullyReservedItems) > 0 {
				logger.Info(fmt.Sprintf("Rolling back reservations for %d successfully reserved items due to failure on ProductID: %s", len(successfullyReservedItems), itemReq.ProductID))
				for _, reservedItem := range successfullyReservedItems {
					// Best-effort rollback dengan background context; ctx asli bisa saja sudah selesai.
					releaseErr := s.inventoryClient.ReleaseStock(context.Background(), reservedItem.ProductID, reservedItem.Quantity)
					if releaseErr != nil {
						logger.Error(fmt.Sprintf("CRITICAL: Failed to release previously reserved stock for ProductID: %s after order failure.", reservedItem.ProductID), releaseErr)
					}
				}
			}
			return nil, fmt.Errorf("%w: product_id %s, quantity %d. %v", ErrStockReservationFailed, itemReq.ProductID, itemReq.Quantity, err)
		}
		successfullyReservedItems = append(successfullyReservedItems, itemReq)
		logger.Info(fmt.Sprintf("Successfully reserved stock for ProductID: %s, Quantity: %d", itemReq.ProductID, itemReq.Quantity))
	}

	var totalAmount float64
	orderItems := make([]domain.OrderItem, len(itemRequests))
	for i, itemReq := range itemRequests {
		totalAmount += itemReq.Price * float64(itemReq.Quantity)
		orderItems[i] = domain.OrderItem{
			ProductID:       itemReq.ProductID,
			Quantity:        itemReq.Quantity,
			PriceAtPurchase: itemReq.Price,
		}
	}

	newOrder := &domain.Order{
		UserID:      req.UserID,
		TotalAmount: totalAmount,
		Status:      domain.StatusPendingPayment,
	}

	err := s.orderRepo.CreateOrderWithItems(ctx, newOrder, orderItems)
	if err != nil {
		logger.Error("CreateOrder: failed to save order to repository", err)
		// Stok sudah direservasi tapi order gagal disimpan; reservasi menggantung
		// dan nantinya dibereskan oleh job payment timeout.
		return nil, fmt.Errorf("%w: %v", ErrOrderCreationFailed, err)
	}

	if req.FromCart {
		// Cart baru dibersihkan setelah order berhasil di-commit.
		if err := s.cartClient.ClearCart(ctx, req.UserID); err != nil {
			logger.Warn(fmt.Sprintf("CreateOrder: order %s created but failed to clear cart for user %s: %v", newOrder.ID, req.UserID, err))
		}
	}

	return &domain.CreateOrderResponse{Order: *newOrder}, nil
}

func (s *orderServiceImpl) GetOrderDetails(ctx context.Context, orderID string) (*domain.Order, error) {
	order, err := s.orderRepo.GetOrderByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	items, err := s.orderRepo.GetOrderItemsByOrderID(ctx, orderID)
	if err != nil {
		logger.Error("GetOrderDetails: failed to get items for order "+orderID, err)
		return nil, err
	}
	order.Items = items
	return order, nil
}

func (s *orderServiceImpl) ListUserOrders(ctx context.Context, userID string) ([]domain.Order, error) {
	return s.orderRepo.ListOrdersByUserID(ctx, userID)
}

// ConfirmPayment dipanggil payment service setelah pembayaran sukses.
// Hanya order PENDING_PAYMENT yang bisa dikonfirmasi; stok yang direservasi
// di-deduct dari lokasi tempat reservasinya berada.
func (s *orderServiceImpl) ConfirmPayment(ctx context.Context, orderID string) (*domain.Order, error) {
	order, err := s.orderRepo.GetOrderByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return nil, fmt.Errorf("%w: order %s not found", ErrOrderCannotBeConfirmed, orderID)
		}
		return nil, err
	}
	if order.Status != domain.StatusPendingPayment {
		return nil, fmt.Errorf("%w: order %s is in status %s", ErrOrderCannotBeConfirmed, orderID, order.Status)
	}

	items, err := s.orderRepo.GetOrderItemsByOrderID(ctx, orderID)
	if err != nil {
		logger.Error("ConfirmPayment: failed to get items for order "+orderID, err)
		return nil, err
	}

	productIDs := make([]string, len(items))
	for i, item := range items {
		productIDs[i] = item.ProductID
	}

	reservations, err := s.inventoryClient.FindReservations(ctx, productIDs)
	if err != nil {
		logger.Error("ConfirmPayment: failed to find reservations for order "+orderID, err)
		return nil, err
	}

	reservationsByProduct := map[string][]inventoryDomain.ProductLocationReservation{}
	for _, info := range reservations {
		reservationsByProduct[info.ProductID] = append(reservationsByProduct[info.ProductID], info)
	}

	for _, item := range items {
		remaining := item.Quantity
		for _, info := range reservationsByProduct[item.ProductID] {
			if remaining <= 0 {
				break
			}
			take := remaining
			if info.Reserved < take {
				take = info.Reserved
			}
			deductReq := inventoryDomain.DeductStockRequest{
				ProductID:  item.ProductID,
				LocationID: info.LocationID,
				Quantity:   take,
			}
			if err := s.inventoryClient.DeductStock(ctx, deductReq); err != nil {
				logger.Error(fmt.Sprintf("CRITICAL: ConfirmPayment: failed to deduct stock for ProductID: %s at location %s (order %s)", item.ProductID, info.LocationID, orderID), err)
				return nil, err
			}
			remaining -= take
		}
		if remaining > 0 {
			// Reservasi kurang dari quantity order; jangan lanjut setengah jalan.
			err := fmt.Errorf("no remaining reservation covers %d of product %s for order %s", remaining, item.ProductID, orderID)
			logger.Error("CRITICAL: ConfirmPayment: reservation shortfall", err)
			return nil, err
		}
	}

	if err := s.orderRepo.UpdateOrderStatus(ctx, orderID, domain.StatusAwaitingShipment); err != nil {
		logger.Error("ConfirmPayment: failed to update status for order "+orderID, err)
		return nil, err
	}
	order.Status = domain.StatusAwaitingShipment
	order.Items = items
	logger.Info(fmt.Sprintf("Order %s confirmed, now awaiting shipment.", orderID))
	return order, nil
}

func (s *orderServiceImpl) ProcessPaymentTimeouts(ctx context.Context) {
	logger.Info("Processing payment timeouts...")
	orders, err := s.orderRepo.GetPendingOrdersOlderThan(ctx, s.paymentTimeoutDuration)
	if err != nil {
		logger.Error("ProcessPaymentTimeouts: failed to get pending orders", err)
		return
	}

	if len(orders) == 0 {
		logger.Info("ProcessPaymentTimeouts: No orders found past payment timeout.")
		return
	}

	logger.Info(fmt.Sprintf("ProcessPaymentTimeouts: Found %d orders to process for timeout.", len(orders)))

	for _, order := range orders {
		logger.Info(fmt.Sprintf("Processing timeout for order ID: %s", order.ID))

		items, err := s.orderRepo.GetOrderItemsByOrderID(ctx, order.ID)
		if err != nil {
			logger.Error(fmt.Sprintf("ProcessPaymentTimeouts: Failed to get items for order %s", order.ID), err)
			continue // Lanjut ke order berikutnya
		}

		allReleased := true
		for _, item := range items {
			logger.Info(fmt.Sprintf("Releasing stock for ProductID: %s, Quantity: %d (Order: %s)", item.ProductID, item.Quantity, order.ID))
			err := s.inventoryClient.ReleaseStock(ctx, item.ProductID, item.Quantity)
			if err != nil {
				logger.Error(fmt.Sprintf("CRITICAL: Failed to release stock for ProductID: %s, OrderID: %s during timeout processing", item.ProductID, order.ID), err)
				allReleased = false
				// Status order tetap di-update supaya tidak diproses ulang terus.
			}
		}

		err = s.orderRepo.UpdateOrderStatus(ctx, order.ID, domain.StatusPaymentTimeout)
		if err != nil {
			logger.Error(fmt.Sprintf("ProcessPaymentTimeouts: Failed to update order status for %s", order.ID), err)
		} else {
			if allReleased {
				logger.Info(fmt.Sprintf("Order %s marked as PAYMENT_TIMEOUT and stock released.", order.ID))
			} else {
				logger.Warn(fmt.Sprintf("Order %s marked as PAYMENT_TIMEOUT, but some stock items may not have been released successfully. Needs review.", order.ID))
			}
		}
	}
}
