package fulfillment_test

import (
	"context"
	"errors"
	"testing"

	"velora_back_end/internal/fulfillment"
	"velora_back_end/internal/models"

	"github.com/gocql/gocql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockCartStore struct {
	mock.Mock
}

func (m *MockCartStore) Items(ctx context.Context, userID string) ([]models.CartItem, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]models.CartItem), args.Error(1)
}

func (m *MockCartStore) Upsert(ctx context.Context, userID string, item models.CartItem) error {
	args := m.Called(ctx, userID, item)
	return args.Error(0)
}

func (m *MockCartStore) SetQuantity(ctx context.Context, userID, productID string, quantity int) error {
	args := m.Called(ctx, userID, productID, quantity)
	return args.Error(0)
}

func (m *MockCartStore) Remove(ctx context.Context, userID, productID string) error {
	args := m.Called(ctx, userID, productID)
	return args.Error(0)
}

func (m *MockCartStore) Clear(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

type MockOrderStore struct {
	mock.Mock
}

func (m *MockOrderStore) ClaimSession(ctx context.Context, sessionID string, orderID gocql.UUID) (bool, gocql.UUID, error) {
	args := m.Called(ctx, sessionID, orderID)
	return args.Bool(0), args.Get(1).(gocql.UUID), args.Error(2)
}

func (m *MockOrderStore) CreateWithItems(ctx context.Context, order models.Order, items []models.OrderItem) error {
	args := m.Called(ctx, order, items)
	return args.Error(0)
}

func (m *MockOrderStore) ByID(ctx context.Context, orderID gocql.UUID) (*models.Order, error) {
	args := m.Called(ctx, orderID)
	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *MockOrderStore) BySession(ctx context.Context, sessionID string) (*models.Order, error) {
	args := m.Called(ctx, sessionID)
	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *MockOrderStore) ByUser(ctx context.Context, userID string) ([]models.Order, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]models.Order), args.Error(1)
}

func (m *MockOrderStore) SetPaymentStatusByIntent(ctx context.Context, paymentIntentID, status string) (bool, error) {
	args := m.Called(ctx, paymentIntentID, status)
	return args.Bool(0), args.Error(1)
}

type MockEventStore struct {
	mock.Mock
}

func (m *MockEventStore) WasProcessed(ctx context.Context, eventID string) (bool, error) {
	args := m.Called(ctx, eventID)
	return args.Bool(0), args.Error(1)
}

func (m *MockEventStore) MarkProcessed(ctx context.Context, eventID string) error {
	args := m.Called(ctx, eventID)
	return args.Error(0)
}

func completedEvent() fulfillment.CheckoutCompleted {
	return fulfillment.CheckoutCompleted{
		ID:              "evt_001",
		SessionID:       "cs_test_001",
		PaymentIntentID: "pi_001",
		UserID:          "user-1",
		Email:           "client@example.com",
		AmountSubtotal:  5000,
		AmountTotal:     6500,
	}
}

func cartFixture() []models.CartItem {
	return []models.CartItem{
		{ProductID: "prod-a", Name: "Lampe", Price: 20, Quantity: 2},
		{ProductID: "prod-b", Name: "Vase", Price: 10, Quantity: 1},
	}
}

func TestCheckoutCompleted(t *testing.T) {
	t.Run("CreatesOneOrderWithAllCartItems", func(t *testing.T) {
		carts := new(MockCartStore)
		orders := new(MockOrderStore)
		events := new(MockEventStore)
		svc := fulfillment.NewService(carts, orders, events)

		ev := completedEvent()
		cart := cartFixture()

		events.On("WasProcessed", mock.Anything, ev.ID).Return(false, nil)
		orders.On("ClaimSession", mock.Anything, ev.SessionID, mock.Anything).Return(true, gocql.UUID{}, nil)
		carts.On("Items", mock.Anything, ev.UserID).Return(cart, nil)

		var created models.Order
		var createdItems []models.OrderItem
		orders.On("CreateWithItems", mock.Anything, mock.Anything, mock.Anything).
			Run(func(args mock.Arguments) {
				created = args.Get(1).(models.Order)
				createdItems = args.Get(2).([]models.OrderItem)
			}).Return(nil).Once()
		carts.On("Clear", mock.Anything, ev.UserID).Return(nil).Once()
		events.On("MarkProcessed", mock.Anything, ev.ID).Return(nil).Once()

		err := svc.Handle(context.Background(), ev)
		require.NoError(t, err)

		orders.AssertNumberOfCalls(t, "CreateWithItems", 1)
		require.Len(t, createdItems, len(cart))
		for i, item := range createdItems {
			assert.Equal(t, cart[i].ProductID, item.ProductID)
			assert.Equal(t, cart[i].Quantity, item.Quantity)
			assert.Equal(t, cart[i].Price, item.Price)
		}

		// Les lignes somment avec le sous-total enregistré
		var sum float64
		for _, item := range createdItems {
			sum += item.Price * float64(item.Quantity)
		}
		assert.InDelta(t, created.Subtotal, sum, 1e-9)
		assert.InDelta(t, created.Total, created.Subtotal+created.Tax+created.Shipping, 1e-9)
		assert.Equal(t, ev.SessionID, created.SessionID)
		assert.Equal(t, ev.PaymentIntentID, created.PaymentIntentID)
		assert.Equal(t, models.PaymentStatusPaid, created.PaymentStatus)

		carts.AssertCalled(t, "Clear", mock.Anything, ev.UserID)
		events.AssertCalled(t, "MarkProcessed", mock.Anything, ev.ID)
	})

	t.Run("RedeliveredEventIsNoOp", func(t *testing.T) {
		carts := new(MockCartStore)
		orders := new(MockOrderStore)
		events := new(MockEventStore)
		svc := fulfillment.NewService(carts, orders, events)

		ev := completedEvent()
		events.On("WasProcessed", mock.Anything, ev.ID).Return(true, nil)

		err := svc.Handle(context.Background(), ev)
		require.NoError(t, err)

		orders.AssertNotCalled(t, "ClaimSession", mock.Anything, mock.Anything, mock.Anything)
		orders.AssertNotCalled(t, "CreateWithItems", mock.Anything, mock.Anything, mock.Anything)
		carts.AssertNotCalled(t, "Clear", mock.Anything, mock.Anything)
		events.AssertNotCalled(t, "MarkProcessed", mock.Anything, mock.Anything)
	})

	t.Run("TwoDistinctEventsForSameSessionCreateOneOrder", func(t *testing.T) {
		carts := new(MockCartStore)
		orders := new(MockOrderStore)
		events := new(MockEventStore)
		svc := fulfillment.NewService(carts, orders, events)

		first := completedEvent()
		second := completedEvent()
		second.ID = "evt_002" // même session, identifiant d'événement différent

		existingID := gocql.TimeUUID()

		events.On("WasProcessed", mock.Anything, first.ID).Return(false, nil)
		events.On("WasProcessed", mock.Anything, second.ID).Return(false, nil)
		orders.On("ClaimSession", mock.Anything, first.SessionID, mock.Anything).
			Return(true, gocql.UUID{}, nil).Once()
		orders.On("ClaimSession", mock.Anything, second.SessionID, mock.Anything).
			Return(false, existingID, nil).Once()
		carts.On("Items", mock.Anything, first.UserID).Return(cartFixture(), nil)
		orders.On("CreateWithItems", mock.Anything, mock.Anything, mock.Anything).Return(nil)
		carts.On("Clear", mock.Anything, first.UserID).Return(nil)
		events.On("MarkProcessed", mock.Anything, mock.Anything).Return(nil)

		require.NoError(t, svc.Handle(context.Background(), first))
		require.NoError(t, svc.Handle(context.Background(), second))

		orders.AssertNumberOfCalls(t, "CreateWithItems", 1)
	})

	t.Run("FailureBeforeCartClearResumesOnRedelivery", func(t *testing.T) {
		carts := new(MockCartStore)
		orders := new(MockOrderStore)
		events := new(MockEventStore)
		svc := fulfillment.NewService(carts, orders, events)

		ev := completedEvent()
		existingID := gocql.TimeUUID()

		// Première livraison : la commande est créée mais le vidage du panier échoue
		events.On("WasProcessed", mock.Anything, ev.ID).Return(false, nil).Once()
		orders.On("ClaimSession", mock.Anything, ev.SessionID, mock.Anything).
			Return(true, gocql.UUID{}, nil).Once()
		carts.On("Items", mock.Anything, ev.UserID).Return(cartFixture(), nil).Once()
		orders.On("CreateWithItems", mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()
		carts.On("Clear", mock.Anything, ev.UserID).Return(errors.New("timeout")).Once()

		require.Error(t, svc.Handle(context.Background(), ev))
		events.AssertNotCalled(t, "MarkProcessed", mock.Anything, mock.Anything)

		// Relivraison : pas de nouvelle commande, le panier est vidé cette fois
		events.On("WasProcessed", mock.Anything, ev.ID).Return(false, nil).Once()
		orders.On("ClaimSession", mock.Anything, ev.SessionID, mock.Anything).
			Return(false, existingID, nil).Once()
		carts.On("Clear", mock.Anything, ev.UserID).Return(nil).Once()
		events.On("MarkProcessed", mock.Anything, ev.ID).Return(nil).Once()

		require.NoError(t, svc.Handle(context.Background(), ev))
		orders.AssertNumberOfCalls(t, "CreateWithItems", 1)
		events.AssertNumberOfCalls(t, "MarkProcessed", 1)
	})
}

func TestPaymentStatusEvents(t *testing.T) {
	t.Run("SucceededUpdatesOnlyMatchingIntent", func(t *testing.T) {
		carts := new(MockCartStore)
		orders := new(MockOrderStore)
		events := new(MockEventStore)
		svc := fulfillment.NewService(carts, orders, events)

		orders.On("SetPaymentStatusByIntent", mock.Anything, "pi_123", models.PaymentStatusPaid).
			Return(true, nil).Once()

		err := svc.Handle(context.Background(), fulfillment.PaymentSucceeded{ID: "evt_010", PaymentIntentID: "pi_123"})
		require.NoError(t, err)

		orders.AssertExpectations(t)
		orders.AssertNumberOfCalls(t, "SetPaymentStatusByIntent", 1)
	})

	t.Run("FailedSetsFailedStatus", func(t *testing.T) {
		carts := new(MockCartStore)
		orders := new(MockOrderStore)
		events := new(MockEventStore)
		svc := fulfillment.NewService(carts, orders, events)

		orders.On("SetPaymentStatusByIntent", mock.Anything, "pi_456", models.PaymentStatusFailed).
			Return(true, nil).Once()

		err := svc.Handle(context.Background(), fulfillment.PaymentFailed{ID: "evt_011", PaymentIntentID: "pi_456"})
		require.NoError(t, err)
		orders.AssertExpectations(t)
	})

	t.Run("UnknownIntentIsAcknowledged", func(t *testing.T) {
		carts := new(MockCartStore)
		orders := new(MockOrderStore)
		events := new(MockEventStore)
		svc := fulfillment.NewService(carts, orders, events)

		orders.On("SetPaymentStatusByIntent", mock.Anything, "pi_ghost", models.PaymentStatusPaid).
			Return(false, nil).Once()

		err := svc.Handle(context.Background(), fulfillment.PaymentSucceeded{ID: "evt_012", PaymentIntentID: "pi_ghost"})
		require.NoError(t, err)
	})
}

func TestUnrecognizedEvent(t *testing.T) {
	carts := new(MockCartStore)
	orders := new(MockOrderStore)
	events := new(MockEventStore)
	svc := fulfillment.NewService(carts, orders, events)

	err := svc.Handle(context.Background(), fulfillment.Unrecognized{ID: "evt_020", Kind: "invoice.created"})
	require.NoError(t, err)

	orders.AssertNotCalled(t, "CreateWithItems", mock.Anything, mock.Anything, mock.Anything)
	carts.AssertNotCalled(t, "Clear", mock.Anything, mock.Anything)
	events.AssertNotCalled(t, "MarkProcessed", mock.Anything, mock.Anything)
}
