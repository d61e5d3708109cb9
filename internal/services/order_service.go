package services

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"secondarypro/internal/events"
	"secondarypro/internal/models"
	"secondarypro/internal/repositories"
)

const (
	DefaultOrderPageSize = 20
	backgroundTimeout    = 30 * time.Second
)

// Notifier delivers an order confirmation to the customer.
type Notifier interface {
	Notify(ctx context.Context, recipient string, confirmation models.OrderConfirmation) error
}

// OrderPolicy toggles the optional order checks.
type OrderPolicy struct {
	RequireInStock     bool
	EnforceTransitions bool
	PageSize           int
	Producer           string
}

// OrderService handles business logic related to orders.
type OrderService struct {
	orderRepo   repositories.OrderRepository
	productRepo repositories.ProductRepository
	notifier    Notifier
	publisher   events.Publisher
	policy      OrderPolicy
	validator   *Validator
	wg          sync.WaitGroup
}

// NewOrderService creates a new OrderService. notifier and publisher may be nil.
func NewOrderService(orderRepo repositories.OrderRepository, productRepo repositories.ProductRepository, notifier Notifier, publisher events.Publisher, policy OrderPolicy) *OrderService {
	if policy.PageSize < 1 {
		policy.PageSize = DefaultOrderPageSize
	}
	if policy.Producer == "" {
		policy.Producer = "secondarypro"
	}
	return &OrderService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		notifier:    notifier,
		publisher:   publisher,
		policy:      policy,
		validator:   NewValidator(),
	}
}

// CreateOrder places a pending order for an existing product.
func (s *OrderService) CreateOrder(ctx context.Context, input models.OrderInput) (*models.Order, error) {
	if err := s.validator.Struct(input); err != nil {
		return nil, err
	}

	order := input.Order()
	product, err := s.productRepo.GetByID(ctx, order.ProductID)
	if err != nil {
		return nil, err
	}
	if s.policy.RequireInStock && !product.InStock {
		return nil, models.NewValidationError("productId", "product is out of stock")
	}

	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to create order in repository: %w", err)
	}

	created := *order
	snapshot := *product
	s.background(func(ctx context.Context) {
		s.confirm(ctx, &created, &snapshot)
		s.emit(ctx, events.TopicOrderCreated, events.EventOrderCreated, created.ID, events.OrderCreatedPayload{
			OrderID:       created.ID,
			ProductID:     snapshot.ID,
			ProductName:   snapshot.Name,
			Size:          created.Size,
			Price:         snapshot.Price,
			PaymentMethod: string(created.PaymentMethod),
			Email:         created.Email,
		})
	})
	return order, nil
}

// GetOrderByID returns an order joined with its product.
func (s *OrderService) GetOrderByID(ctx context.Context, id string) (*models.OrderDetail, error) {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.detail(ctx, order)
}

// ListOrders returns one page of orders, newest first.
func (s *OrderService) ListOrders(ctx context.Context, params models.OrderListParams) (*models.OrderPage, error) {
	status := models.OrderStatus(params.Status)
	if status != "" && !status.Valid() {
		return nil, models.NewValidationError("status", "must be one of Pending, Confirmed, Shipped, Delivered, Cancelled")
	}
	page, size, offset := models.NormalizePage(params.Page, params.PageSize, s.policy.PageSize)

	orders, total, err := s.orderRepo.Find(ctx, repositories.OrderQuery{Status: status, Offset: offset, Limit: size})
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}

	ids := make([]string, 0, len(orders))
	seen := make(map[string]bool, len(orders))
	for _, o := range orders {
		if !seen[o.ProductID] {
			seen[o.ProductID] = true
			ids = append(ids, o.ProductID)
		}
	}
	products, err := s.productRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load order products: %w", err)
	}
	byID := make(map[string]*models.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}

	details := make([]models.OrderDetail, 0, len(orders))
	for _, o := range orders {
		details = append(details, models.OrderDetail{Order: o, Product: byID[o.ProductID]})
	}
	return &models.OrderPage{
		Orders:     details,
		Pagination: models.NewPagination(total, page, size),
	}, nil
}

// UpdateOrderStatus overwrites status and notes of an order.
func (s *OrderService) UpdateOrderStatus(ctx context.Context, id string, update models.OrderStatusUpdate) (*models.OrderDetail, error) {
	if err := s.validator.Struct(update); err != nil {
		return nil, err
	}
	status := models.OrderStatus(update.Status)

	if s.policy.EnforceTransitions {
		current, err := s.orderRepo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if current.Status != status && !current.Status.CanTransitionTo(status) {
			return nil, models.NewValidationError("status", fmt.Sprintf("cannot move from %s to %s", current.Status, status))
		}
	}

	order, err := s.orderRepo.UpdateStatus(ctx, id, status, update.Notes)
	if err != nil {
		return nil, err
	}

	s.background(func(ctx context.Context) {
		s.emit(ctx, events.TopicOrderStatusUpdated, events.EventOrderStatusUpdated, order.ID, events.OrderStatusUpdatedPayload{
			OrderID: order.ID,
			Status:  string(order.Status),
			Notes:   order.Notes,
		})
	})
	return s.detail(ctx, order)
}

// Wait blocks until every background notification has finished.
func (s *OrderService) Wait() {
	s.wg.Wait()
}

func (s *OrderService) detail(ctx context.Context, order *models.Order) (*models.OrderDetail, error) {
	product, err := s.productRepo.GetByID(ctx, order.ProductID)
	if err != nil {
		if !isNotFound(err) {
			return nil, fmt.Errorf("failed to load product for order %s: %w", order.ID, err)
		}
		product = nil
	}
	return &models.OrderDetail{Order: *order, Product: product}, nil
}

// background runs fn detached from the request context.
func (s *OrderService) background(fn func(ctx context.Context)) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), backgroundTimeout)
		defer cancel()
		fn(ctx)
	}()
}

func (s *OrderService) confirm(ctx context.Context, order *models.Order, product *models.Product) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Notify(ctx, order.Email, models.NewOrderConfirmation(order, product)); err != nil {
		log.Printf("Warning: failed to send confirmation for order %s: %v", order.ID, err)
	}
}

func (s *OrderService) emit(ctx context.Context, topic, eventType, orderID string, payload any) {
	if s.publisher == nil {
		return
	}
	env, err := events.New(eventType, s.policy.Producer, orderID, payload)
	if err != nil {
		log.Printf("Warning: failed to build %s event for order %s: %v", eventType, orderID, err)
		return
	}
	if err := events.Emit(ctx, s.publisher, topic, env); err != nil {
		log.Printf("Warning: failed to publish %s event for order %s: %v", eventType, orderID, err)
	}
}
