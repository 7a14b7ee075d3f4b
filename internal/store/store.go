package store

import (
	"context"
	"errors"

	"velora_back_end/internal/models"

	"github.com/gocql/gocql"
)

var ErrNotFound = errors.New("introuvable")

// CartStore : opérations panier d'un utilisateur. Les mutations sont
// last-write-wins côté base, aucune coordination locale.
type CartStore interface {
	Items(ctx context.Context, userID string) ([]models.CartItem, error)
	// Upsert ajoute l'article ou incrémente la quantité d'une ligne existante
	Upsert(ctx context.Context, userID string, item models.CartItem) error
	// SetQuantity fixe la quantité d'une ligne. Une quantité < 1 supprime la ligne.
	SetQuantity(ctx context.Context, userID, productID string, quantity int) error
	Remove(ctx context.Context, userID, productID string) error
	Clear(ctx context.Context, userID string) error
}

// OrderStore : commandes et leurs lignes.
type OrderStore interface {
	// ClaimSession réserve la session de paiement pour un order_id (LWT).
	// claimed=false signifie qu'une commande existe déjà pour cette session,
	// existing contient alors son identifiant.
	ClaimSession(ctx context.Context, sessionID string, orderID gocql.UUID) (claimed bool, existing gocql.UUID, err error)
	// CreateWithItems écrit la commande et toutes ses lignes en un batch logged
	CreateWithItems(ctx context.Context, order models.Order, items []models.OrderItem) error
	ByID(ctx context.Context, orderID gocql.UUID) (*models.Order, error)
	BySession(ctx context.Context, sessionID string) (*models.Order, error)
	ByUser(ctx context.Context, userID string) ([]models.Order, error)
	// SetPaymentStatusByIntent met à jour le statut de paiement de la commande
	// correspondant au payment intent. matched=false si aucune commande ne correspond.
	SetPaymentStatusByIntent(ctx context.Context, paymentIntentID, status string) (matched bool, err error)
}

// EventStore : registre des événements webhook déjà traités (idempotence)
type EventStore interface {
	WasProcessed(ctx context.Context, eventID string) (bool, error)
	MarkProcessed(ctx context.Context, eventID string) error
}
