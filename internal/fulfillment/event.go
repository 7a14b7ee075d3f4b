package fulfillment

import "velora_back_end/internal/models"

// Event : union fermée des événements de paiement traités.
// Tout type d'événement inconnu du fournisseur devient Unrecognized
// et est acquitté sans action.
type Event interface {
	EventID() string
}

// CheckoutCompleted : session de paiement complétée, déclenche la
// matérialisation de la commande depuis le panier
type CheckoutCompleted struct {
	ID              string
	SessionID       string
	PaymentIntentID string
	UserID          string
	Email           string
	AmountSubtotal  int64 // centimes
	AmountTotal     int64 // centimes
	BillingAddress  models.Address
	ShippingAddress models.Address
}

func (e CheckoutCompleted) EventID() string { return e.ID }

// PaymentSucceeded : paiement confirmé pour un payment intent
type PaymentSucceeded struct {
	ID              string
	PaymentIntentID string
}

func (e PaymentSucceeded) EventID() string { return e.ID }

// PaymentFailed : paiement échoué pour un payment intent
type PaymentFailed struct {
	ID              string
	PaymentIntentID string
}

func (e PaymentFailed) EventID() string { return e.ID }

// Unrecognized : type d'événement non géré, no-op volontaire
// (compatibilité avec les futurs types du fournisseur)
type Unrecognized struct {
	ID   string
	Kind string
}

func (e Unrecognized) EventID() string { return e.ID }
