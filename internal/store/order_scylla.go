package store

import (
	"context"
	"encoding/json"
	"errors"

	"velora_back_end/internal/database"
	"velora_back_end/internal/models"

	"github.com/gocql/gocql"
)

// ScyllaOrderStore persiste les commandes dans le keyspace orders.
// Tables dénormalisées par clé d'accès : orders, order_items,
// orders_by_user, orders_by_session, orders_by_intent.
type ScyllaOrderStore struct{}

func NewScyllaOrderStore() *ScyllaOrderStore {
	return &ScyllaOrderStore{}
}

func (s *ScyllaOrderStore) ClaimSession(ctx context.Context, sessionID string, orderID gocql.UUID) (bool, gocql.UUID, error) {
	session, err := database.GetOrdersSession()
	if err != nil {
		return false, gocql.UUID{}, err
	}

	// LWT : une seule commande par session de paiement, même si le
	// fournisseur livre deux événements de complétion distincts
	var existing gocql.UUID
	applied, err := session.Query(`INSERT INTO orders_by_session (session_id, order_id) VALUES (?, ?) IF NOT EXISTS`,
		sessionID, orderID).WithContext(ctx).ScanCAS(&existing)
	if err != nil {
		return false, gocql.UUID{}, err
	}
	if applied {
		return true, orderID, nil
	}
	return false, existing, nil
}

func (s *ScyllaOrderStore) CreateWithItems(ctx context.Context, order models.Order, items []models.OrderItem) error {
	session, err := database.GetOrdersSession()
	if err != nil {
		return err
	}

	billing, err := json.Marshal(order.BillingAddress)
	if err != nil {
		return err
	}
	shipping, err := json.Marshal(order.ShippingAddress)
	if err != nil {
		return err
	}

	// Batch logged : la commande, ses lignes et les vues par clé
	// sont écrites toutes ou aucune
	batch := session.NewBatch(gocql.LoggedBatch).WithContext(ctx)

	batch.Query(`INSERT INTO orders (order_id, order_number, user_id, status, payment_status, subtotal, tax, shipping, total, billing_address, shipping_address, session_id, payment_intent_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		order.ID, order.OrderNumber, order.UserID, order.Status, order.PaymentStatus,
		order.Subtotal, order.Tax, order.Shipping, order.Total,
		string(billing), string(shipping), order.SessionID, order.PaymentIntentID, order.CreatedAt)

	batch.Query(`INSERT INTO orders_by_user (user_id, created_at, order_id) VALUES (?, ?, ?)`,
		order.UserID, order.CreatedAt, order.ID)

	if order.PaymentIntentID != "" {
		batch.Query(`INSERT INTO orders_by_intent (payment_intent_id, order_id) VALUES (?, ?)`,
			order.PaymentIntentID, order.ID)
	}

	for _, item := range items {
		batch.Query(`INSERT INTO order_items (order_id, product_id, name, quantity, price)
			VALUES (?, ?, ?, ?, ?)`,
			order.ID, item.ProductID, item.Name, item.Quantity, item.Price)
	}

	return session.ExecuteBatch(batch)
}

func (s *ScyllaOrderStore) ByID(ctx context.Context, orderID gocql.UUID) (*models.Order, error) {
	session, err := database.GetOrdersSession()
	if err != nil {
		return nil, err
	}

	var (
		order             models.Order
		billing, shipping string
	)
	order.ID = orderID

	err = session.Query(`SELECT order_number, user_id, status, payment_status, subtotal, tax, shipping, total, billing_address, shipping_address, session_id, payment_intent_id, created_at
		FROM orders WHERE order_id = ?`, orderID).WithContext(ctx).Scan(
		&order.OrderNumber, &order.UserID, &order.Status, &order.PaymentStatus,
		&order.Subtotal, &order.Tax, &order.Shipping, &order.Total,
		&billing, &shipping, &order.SessionID, &order.PaymentIntentID, &order.CreatedAt)
	if errors.Is(err, gocql.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	_ = json.Unmarshal([]byte(billing), &order.BillingAddress)
	_ = json.Unmarshal([]byte(shipping), &order.ShippingAddress)

	items, err := s.itemsFor(ctx, orderID)
	if err != nil {
		return nil, err
	}
	order.Items = items

	return &order, nil
}

func (s *ScyllaOrderStore) BySession(ctx context.Context, sessionID string) (*models.Order, error) {
	session, err := database.GetOrdersSession()
	if err != nil {
		return nil, err
	}

	var orderID gocql.UUID
	err = session.Query(`SELECT order_id FROM orders_by_session WHERE session_id = ?`, sessionID).
		WithContext(ctx).Scan(&orderID)
	if errors.Is(err, gocql.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return s.ByID(ctx, orderID)
}

func (s *ScyllaOrderStore) ByUser(ctx context.Context, userID string) ([]models.Order, error) {
	session, err := database.GetOrdersSession()
	if err != nil {
		return nil, err
	}

	// orders_by_user est clusterisée par created_at DESC : déjà triée
	iter := session.Query(`SELECT order_id FROM orders_by_user WHERE user_id = ?`, userID).
		WithContext(ctx).Iter()

	var orderIDs []gocql.UUID
	var id gocql.UUID
	for iter.Scan(&id) {
		orderIDs = append(orderIDs, id)
	}
	if err := iter.Close(); err != nil {
		return nil, err
	}

	orders := []models.Order{}
	for _, orderID := range orderIDs {
		order, err := s.ByID(ctx, orderID)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				continue
			}
			return nil, err
		}
		orders = append(orders, *order)
	}
	return orders, nil
}

func (s *ScyllaOrderStore) SetPaymentStatusByIntent(ctx context.Context, paymentIntentID, status string) (bool, error) {
	session, err := database.GetOrdersSession()
	if err != nil {
		return false, err
	}

	var orderID gocql.UUID
	err = session.Query(`SELECT order_id FROM orders_by_intent WHERE payment_intent_id = ?`, paymentIntentID).
		WithContext(ctx).Scan(&orderID)
	if errors.Is(err, gocql.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	err = session.Query(`UPDATE orders SET payment_status = ? WHERE order_id = ?`, status, orderID).
		WithContext(ctx).Exec()
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *ScyllaOrderStore) itemsFor(ctx context.Context, orderID gocql.UUID) ([]models.OrderItem, error) {
	session, err := database.GetOrdersSession()
	if err != nil {
		return nil, err
	}

	iter := session.Query(`SELECT product_id, name, quantity, price FROM order_items WHERE order_id = ?`,
		orderID).WithContext(ctx).Iter()

	items := []models.OrderItem{}
	var item models.OrderItem
	for iter.Scan(&item.ProductID, &item.Name, &item.Quantity, &item.Price) {
		item.OrderID = orderID
		items = append(items, item)
	}
	if err := iter.Close(); err != nil {
		return nil, err
	}
	return items, nil
}
