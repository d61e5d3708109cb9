package services_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"os"
	"sync"
	"testing"

	"secondarypro/internal/events"
	"secondarypro/internal/models"
	"secondarypro/internal/repositories"
	"secondarypro/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	log.SetOutput(io.Discard)
	os.Exit(m.Run())
}

// MockNotifier is a mock implementation of services.Notifier
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Notify(ctx context.Context, recipient string, confirmation models.OrderConfirmation) error {
	args := m.Called(ctx, recipient, confirmation)
	return args.Error(0)
}

type publishedEvent struct {
	topic, key string
	env        events.Envelope
}

type fakePublisher struct {
	mu     sync.Mutex
	events []publishedEvent
	err    error
}

func (p *fakePublisher) Publish(_ context.Context, topic, key string, body []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	var env events.Envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return err
	}
	p.events = append(p.events, publishedEvent{topic: topic, key: key, env: env})
	return p.err
}

func (p *fakePublisher) published() []publishedEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]publishedEvent(nil), p.events...)
}

type orderFixture struct {
	products  *repositories.MemoryProductRepository
	orders    *repositories.MemoryOrderRepository
	notifier  *MockNotifier
	publisher *fakePublisher
	service   *services.OrderService
	product   models.Product
}

func newOrderFixture(t *testing.T, policy services.OrderPolicy) *orderFixture {
	t.Helper()
	f := &orderFixture{
		products:  repositories.NewMemoryProductRepository(),
		orders:    repositories.NewMemoryOrderRepository(),
		notifier:  new(MockNotifier),
		publisher: &fakePublisher{},
	}
	f.product = models.Product{Name: "Court Classic", Price: 49.9, Category: models.CategorySneakers, SizeRange: "38-45", InStock: true}
	require.NoError(t, f.products.Create(context.Background(), &f.product))
	f.service = services.NewOrderService(f.orders, f.products, f.notifier, f.publisher, policy)
	return f
}

func validOrderInput(productID string) models.OrderInput {
	return models.OrderInput{
		CustomerName: "Rina",
		Email:        "rina@example.com",
		Phone:        "+62 811 000",
		Address:      "Jl. Melati 3, Bandung",
		ProductID:    productID,
		Size:         "42",
	}
}

func TestOrderService_CreateOrder(t *testing.T) {
	f := newOrderFixture(t, services.OrderPolicy{})
	ctx := context.Background()

	f.notifier.On("Notify", mock.Anything, "rina@example.com", mock.MatchedBy(func(c models.OrderConfirmation) bool {
		return c.ProductName == "Court Classic" && c.Price == 49.9 && c.PaymentMethod == models.PaymentCOD
	})).Return(nil).Once()

	order, err := f.service.CreateOrder(ctx, validOrderInput(f.product.ID))
	require.NoError(t, err)
	f.service.Wait()

	assert.NotEmpty(t, order.ID)
	assert.Equal(t, models.StatusPending, order.Status)
	assert.Equal(t, models.PaymentCOD, order.PaymentMethod)
	assert.False(t, order.CreatedAt.IsZero())

	stored, err := f.orders.GetByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, f.product.ID, stored.ProductID)

	published := f.publisher.published()
	require.Len(t, published, 1)
	assert.Equal(t, events.TopicOrderCreated, published[0].topic)
	assert.Equal(t, order.ID, published[0].key)
	assert.Equal(t, events.EventOrderCreated, published[0].env.EventType)
	f.notifier.AssertExpectations(t)
}

func TestOrderService_CreateOrder_UnknownProduct(t *testing.T) {
	f := newOrderFixture(t, services.OrderPolicy{})
	ctx := context.Background()

	_, err := f.service.CreateOrder(ctx, validOrderInput("does-not-exist"))
	f.service.Wait()

	assert.ErrorIs(t, err, models.ErrNotFound)
	n, err := f.orders.Count(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)
	f.notifier.AssertNotCalled(t, "Notify", mock.Anything, mock.Anything, mock.Anything)
	assert.Empty(t, f.publisher.published())
}

func TestOrderService_CreateOrder_Validation(t *testing.T) {
	f := newOrderFixture(t, services.OrderPolicy{})

	input := validOrderInput(f.product.ID)
	input.Email = "not-an-email"
	input.PaymentMethod = "Bitcoin"
	input.CustomerName = ""

	_, err := f.service.CreateOrder(context.Background(), input)
	require.ErrorIs(t, err, models.ErrValidation)

	var verr *models.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Fields, "email")
	assert.Contains(t, verr.Fields, "paymentMethod")
	assert.Contains(t, verr.Fields, "customerName")
}

func TestOrderService_CreateOrder_NotifierFailureIsSwallowed(t *testing.T) {
	f := newOrderFixture(t, services.OrderPolicy{})
	f.publisher.err = errors.New("broker down")
	f.notifier.On("Notify", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("smtp timeout")).Once()

	input := validOrderInput(f.product.ID)
	input.PaymentMethod = "Bank Transfer"
	order, err := f.service.CreateOrder(context.Background(), input)
	f.service.Wait()

	require.NoError(t, err)
	assert.Equal(t, models.PaymentBankTransfer, order.PaymentMethod)
	f.notifier.AssertExpectations(t)
}

func TestOrderService_CreateOrder_OutOfStock(t *testing.T) {
	ctx := context.Background()

	permissive := newOrderFixture(t, services.OrderPolicy{})
	permissive.notifier.On("Notify", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	soldOut := models.Product{Name: "Sold Out", Price: 10, Category: models.CategoryCasual, InStock: false}
	require.NoError(t, permissive.products.Create(ctx, &soldOut))
	_, err := permissive.service.CreateOrder(ctx, validOrderInput(soldOut.ID))
	permissive.service.Wait()
	assert.NoError(t, err)

	strict := newOrderFixture(t, services.OrderPolicy{RequireInStock: true})
	require.NoError(t, strict.products.Create(ctx, &soldOut))
	_, err = strict.service.CreateOrder(ctx, validOrderInput(soldOut.ID))
	strict.service.Wait()
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestOrderService_GetOrderByID_JoinsProduct(t *testing.T) {
	f := newOrderFixture(t, services.OrderPolicy{})
	f.notifier.On("Notify", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	ctx := context.Background()

	order, err := f.service.CreateOrder(ctx, validOrderInput(f.product.ID))
	require.NoError(t, err)
	f.service.Wait()

	detail, err := f.service.GetOrderByID(ctx, order.ID)
	require.NoError(t, err)
	require.NotNil(t, detail.Product)
	assert.Equal(t, "Court Classic", detail.Product.Name)

	// the detail reflects the product's current state
	f.product.Price = 59.9
	require.NoError(t, f.products.Update(ctx, &f.product))
	detail, err = f.service.GetOrderByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, 59.9, detail.Product.Price)

	require.NoError(t, f.products.Delete(ctx, f.product.ID))
	detail, err = f.service.GetOrderByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Nil(t, detail.Product)
	assert.Equal(t, order.ID, detail.ID)

	_, err = f.service.GetOrderByID(ctx, "missing")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestOrderService_ListOrders(t *testing.T) {
	f := newOrderFixture(t, services.OrderPolicy{PageSize: 2})
	f.notifier.On("Notify", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	ctx := context.Background()

	var ids []string
	for i := 0; i < 3; i++ {
		order, err := f.service.CreateOrder(ctx, validOrderInput(f.product.ID))
		require.NoError(t, err)
		ids = append(ids, order.ID)
	}
	f.service.Wait()
	_, err := f.service.UpdateOrderStatus(ctx, ids[0], models.OrderStatusUpdate{Status: "Shipped"})
	require.NoError(t, err)
	f.service.Wait()

	page, err := f.service.ListOrders(ctx, models.OrderListParams{})
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.Total)
	assert.Equal(t, int64(2), page.TotalPages)
	require.Len(t, page.Orders, 2)
	for _, o := range page.Orders {
		require.NotNil(t, o.Product)
		assert.Equal(t, f.product.ID, o.Product.ID)
	}

	page, err = f.service.ListOrders(ctx, models.OrderListParams{Status: "Pending"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Total)

	_, err = f.service.ListOrders(ctx, models.OrderListParams{Status: "Lost"})
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestOrderService_UpdateOrderStatus(t *testing.T) {
	f := newOrderFixture(t, services.OrderPolicy{})
	f.notifier.On("Notify", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	ctx := context.Background()

	order, err := f.service.CreateOrder(ctx, validOrderInput(f.product.ID))
	require.NoError(t, err)
	f.service.Wait()

	detail, err := f.service.UpdateOrderStatus(ctx, order.ID, models.OrderStatusUpdate{Status: "Shipped", Notes: "JNE 123"})
	require.NoError(t, err)
	f.service.Wait()
	assert.Equal(t, models.StatusShipped, detail.Status)
	assert.Equal(t, "JNE 123", detail.Notes)
	require.NotNil(t, detail.Product)

	// backward moves are accepted unless transitions are enforced
	detail, err = f.service.UpdateOrderStatus(ctx, order.ID, models.OrderStatusUpdate{Status: "Pending"})
	require.NoError(t, err)
	f.service.Wait()
	assert.Equal(t, models.StatusPending, detail.Status)
	assert.Empty(t, detail.Notes)

	_, err = f.service.UpdateOrderStatus(ctx, order.ID, models.OrderStatusUpdate{Status: "Lost"})
	assert.ErrorIs(t, err, models.ErrValidation)

	_, err = f.service.UpdateOrderStatus(ctx, "missing", models.OrderStatusUpdate{Status: "Shipped"})
	assert.ErrorIs(t, err, models.ErrNotFound)

	var topics []string
	for _, e := range f.publisher.published() {
		topics = append(topics, e.topic)
	}
	assert.Equal(t, []string{events.TopicOrderCreated, events.TopicOrderStatusUpdated, events.TopicOrderStatusUpdated}, topics)
}

func TestOrderService_UpdateOrderStatus_EnforcedTransitions(t *testing.T) {
	f := newOrderFixture(t, services.OrderPolicy{EnforceTransitions: true})
	f.notifier.On("Notify", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	ctx := context.Background()

	order, err := f.service.CreateOrder(ctx, validOrderInput(f.product.ID))
	require.NoError(t, err)

	_, err = f.service.UpdateOrderStatus(ctx, order.ID, models.OrderStatusUpdate{Status: "Delivered"})
	assert.ErrorIs(t, err, models.ErrValidation)

	_, err = f.service.UpdateOrderStatus(ctx, order.ID, models.OrderStatusUpdate{Status: "Confirmed"})
	require.NoError(t, err)
	_, err = f.service.UpdateOrderStatus(ctx, order.ID, models.OrderStatusUpdate{Status: "Shipped"})
	require.NoError(t, err)
	f.service.Wait()
}
