package store

import (
	"context"
	"time"

	"velora_back_end/internal/database"
	"velora_back_end/internal/models"
)

// ScyllaCartStore persiste le panier dans la table cart_items du keyspace users.
// Une ligne par (user_id, product_id), détails produit dénormalisés à l'ajout.
type ScyllaCartStore struct{}

func NewScyllaCartStore() *ScyllaCartStore {
	return &ScyllaCartStore{}
}

func (s *ScyllaCartStore) Items(ctx context.Context, userID string) ([]models.CartItem, error) {
	session, err := database.GetUsersSession()
	if err != nil {
		return nil, err
	}

	iter := session.Query(`SELECT product_id, name, price, quantity, image_url, added_at
		FROM cart_items WHERE user_id = ?`, userID).WithContext(ctx).Iter()

	items := []models.CartItem{}
	var item models.CartItem
	var addedAt time.Time
	for iter.Scan(&item.ProductID, &item.Name, &item.Price, &item.Quantity, &item.ImageURL, &addedAt) {
		t := addedAt
		item.AddedAt = &t
		items = append(items, item)
	}
	if err := iter.Close(); err != nil {
		return nil, err
	}
	return items, nil
}

func (s *ScyllaCartStore) Upsert(ctx context.Context, userID string, item models.CartItem) error {
	session, err := database.GetUsersSession()
	if err != nil {
		return err
	}

	// Ligne existante → on cumule les quantités (lecture puis écriture,
	// le dernier écrivain gagne en cas de concurrence)
	var existing int
	err = session.Query(`SELECT quantity FROM cart_items WHERE user_id = ? AND product_id = ?`,
		userID, item.ProductID).WithContext(ctx).Scan(&existing)
	if err == nil {
		item.Quantity += existing
	}

	return session.Query(`INSERT INTO cart_items (user_id, product_id, name, price, quantity, image_url, added_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		userID, item.ProductID, item.Name, item.Price, item.Quantity, item.ImageURL, time.Now()).
		WithContext(ctx).Exec()
}

func (s *ScyllaCartStore) SetQuantity(ctx context.Context, userID, productID string, quantity int) error {
	// Quantité nulle ou négative = suppression, jamais de ligne à quantité négative
	if quantity < 1 {
		return s.Remove(ctx, userID, productID)
	}

	session, err := database.GetUsersSession()
	if err != nil {
		return err
	}

	return session.Query(`UPDATE cart_items SET quantity = ? WHERE user_id = ? AND product_id = ?`,
		quantity, userID, productID).WithContext(ctx).Exec()
}

func (s *ScyllaCartStore) Remove(ctx context.Context, userID, productID string) error {
	session, err := database.GetUsersSession()
	if err != nil {
		return err
	}

	return session.Query(`DELETE FROM cart_items WHERE user_id = ? AND product_id = ?`,
		userID, productID).WithContext(ctx).Exec()
}

func (s *ScyllaCartStore) Clear(ctx context.Context, userID string) error {
	session, err := database.GetUsersSession()
	if err != nil {
		return err
	}

	return session.Query(`DELETE FROM cart_items WHERE user_id = ?`, userID).
		WithContext(ctx).Exec()
}
