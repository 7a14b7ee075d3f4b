package payement_test

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"velora_back_end/internal/fulfillment"
	"velora_back_end/internal/handlers/payement"
	"velora_back_end/internal/models"
	"velora_back_end/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "whsec_test_secret"

// fakes simples : comptent les écritures pour vérifier qu'une signature
// invalide ne déclenche aucun accès base

type fakeCarts struct {
	items      []models.CartItem
	clearCalls int
}

func (f *fakeCarts) Items(ctx context.Context, userID string) ([]models.CartItem, error) {
	return f.items, nil
}
func (f *fakeCarts) Upsert(ctx context.Context, userID string, item models.CartItem) error {
	return nil
}
func (f *fakeCarts) SetQuantity(ctx context.Context, userID, productID string, quantity int) error {
	return nil
}
func (f *fakeCarts) Remove(ctx context.Context, userID, productID string) error { return nil }
func (f *fakeCarts) Clear(ctx context.Context, userID string) error {
	f.clearCalls++
	return nil
}

type fakeOrders struct {
	created     []models.Order
	claimErr    error
	statusCalls []string
}

func (f *fakeOrders) ClaimSession(ctx context.Context, sessionID string, orderID gocql.UUID) (bool, gocql.UUID, error) {
	if f.claimErr != nil {
		return false, gocql.UUID{}, f.claimErr
	}
	return true, orderID, nil
}
func (f *fakeOrders) CreateWithItems(ctx context.Context, order models.Order, items []models.OrderItem) error {
	order.Items = items
	f.created = append(f.created, order)
	return nil
}
func (f *fakeOrders) ByID(ctx context.Context, orderID gocql.UUID) (*models.Order, error) {
	return nil, store.ErrNotFound
}
func (f *fakeOrders) BySession(ctx context.Context, sessionID string) (*models.Order, error) {
	return nil, store.ErrNotFound
}
func (f *fakeOrders) ByUser(ctx context.Context, userID string) ([]models.Order, error) {
	return nil, nil
}
func (f *fakeOrders) SetPaymentStatusByIntent(ctx context.Context, paymentIntentID, status string) (bool, error) {
	f.statusCalls = append(f.statusCalls, paymentIntentID+":"+status)
	return true, nil
}

type fakeEvents struct {
	marked []string
}

func (f *fakeEvents) WasProcessed(ctx context.Context, eventID string) (bool, error) {
	for _, id := range f.marked {
		if id == eventID {
			return true, nil
		}
	}
	return false, nil
}
func (f *fakeEvents) MarkProcessed(ctx context.Context, eventID string) error {
	f.marked = append(f.marked, eventID)
	return nil
}

// signPayload reproduit le schéma de signature Stripe : t=...,v1=HMAC-SHA256(t.payload)
func signPayload(payload []byte, secret string, ts time.Time) string {
	signed := fmt.Sprintf("%d.%s", ts.Unix(), payload)
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(signed))
	return fmt.Sprintf("t=%d,v1=%s", ts.Unix(), hex.EncodeToString(mac.Sum(nil)))
}

func newTestRouter(carts *fakeCarts, orders *fakeOrders, events *fakeEvents) *gin.Engine {
	gin.SetMode(gin.TestMode)
	handler := &payement.WebhookHandler{
		Service: fulfillment.NewService(carts, orders, events),
		Secret:  testSecret,
	}
	r := gin.New()
	r.POST("/api/webhooks/stripe", handler.Handle)
	return r
}

func postWebhook(r *gin.Engine, payload []byte, signature string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/webhooks/stripe", bytes.NewReader(payload))
	req.Header.Set("Stripe-Signature", signature)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func completedPayload(eventID string) []byte {
	return []byte(fmt.Sprintf(`{
		"id": %q,
		"type": "checkout.session.completed",
		"data": {
			"object": {
				"id": "cs_test_42",
				"amount_subtotal": 5000,
				"amount_total": 6500,
				"payment_intent": "pi_42",
				"metadata": {"user_id": "user-1", "email": "client@example.com"}
			}
		}
	}`, eventID))
}

func TestWebhook(t *testing.T) {
	t.Run("InvalidSignatureRejectedWithoutWrites", func(t *testing.T) {
		carts := &fakeCarts{items: []models.CartItem{{ProductID: "p1", Price: 50, Quantity: 1}}}
		orders := &fakeOrders{}
		events := &fakeEvents{}
		r := newTestRouter(carts, orders, events)

		payload := completedPayload("evt_bad")
		w := postWebhook(r, payload, signPayload(payload, "whsec_wrong_secret", time.Now()))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "error")
		assert.Empty(t, orders.created)
		assert.Zero(t, carts.clearCalls)
		assert.Empty(t, events.marked)
	})

	t.Run("CompletedSessionCreatesOrderAndClearsCart", func(t *testing.T) {
		carts := &fakeCarts{items: []models.CartItem{
			{ProductID: "p1", Name: "Lampe", Price: 20, Quantity: 2},
			{ProductID: "p2", Name: "Vase", Price: 10, Quantity: 1},
		}}
		orders := &fakeOrders{}
		events := &fakeEvents{}
		r := newTestRouter(carts, orders, events)

		payload := completedPayload("evt_ok")
		w := postWebhook(r, payload, signPayload(payload, testSecret, time.Now()))

		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"received": true}`, w.Body.String())

		require.Len(t, orders.created, 1)
		order := orders.created[0]
		assert.Equal(t, "cs_test_42", order.SessionID)
		assert.Equal(t, "pi_42", order.PaymentIntentID)
		assert.Len(t, order.Items, 2)
		assert.Equal(t, 1, carts.clearCalls)
		assert.Equal(t, []string{"evt_ok"}, events.marked)
	})

	t.Run("RedeliveredEventDoesNotDuplicateOrder", func(t *testing.T) {
		carts := &fakeCarts{items: []models.CartItem{{ProductID: "p1", Price: 50, Quantity: 1}}}
		orders := &fakeOrders{}
		events := &fakeEvents{}
		r := newTestRouter(carts, orders, events)

		payload := completedPayload("evt_dup")

		w := postWebhook(r, payload, signPayload(payload, testSecret, time.Now()))
		require.Equal(t, http.StatusOK, w.Code)

		w = postWebhook(r, payload, signPayload(payload, testSecret, time.Now()))
		require.Equal(t, http.StatusOK, w.Code)

		assert.Len(t, orders.created, 1)
	})

	t.Run("PaymentSucceededUpdatesMatchingIntent", func(t *testing.T) {
		carts := &fakeCarts{}
		orders := &fakeOrders{}
		events := &fakeEvents{}
		r := newTestRouter(carts, orders, events)

		payload := []byte(`{
			"id": "evt_pi",
			"type": "payment_intent.succeeded",
			"data": {"object": {"id": "pi_42"}}
		}`)
		w := postWebhook(r, payload, signPayload(payload, testSecret, time.Now()))

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, []string{"pi_42:paid"}, orders.statusCalls)
		assert.Empty(t, orders.created)
	})

	t.Run("UnknownEventKindAcknowledgedWithoutAction", func(t *testing.T) {
		carts := &fakeCarts{}
		orders := &fakeOrders{}
		events := &fakeEvents{}
		r := newTestRouter(carts, orders, events)

		payload := []byte(`{
			"id": "evt_misc",
			"type": "invoice.created",
			"data": {"object": {"id": "in_1"}}
		}`)
		w := postWebhook(r, payload, signPayload(payload, testSecret, time.Now()))

		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"received": true}`, w.Body.String())
		assert.Empty(t, orders.created)
		assert.Empty(t, events.marked)
	})

	t.Run("ProcessingFailureReturns500", func(t *testing.T) {
		carts := &fakeCarts{items: []models.CartItem{{ProductID: "p1", Price: 50, Quantity: 1}}}
		orders := &fakeOrders{claimErr: fmt.Errorf("timeout base")}
		events := &fakeEvents{}
		r := newTestRouter(carts, orders, events)

		payload := completedPayload("evt_err")
		w := postWebhook(r, payload, signPayload(payload, testSecret, time.Now()))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Empty(t, events.marked)
	})
}
