package fulfillment

import (
	"context"
	"fmt"
	"log"
	"math"
	"time"

	"velora_back_end/internal/models"
	"velora_back_end/internal/store"

	"github.com/gocql/gocql"
)

// Service matérialise les commandes à partir des événements de paiement.
// Le traitement d'un CheckoutCompleted est idempotent :
//  1. événement déjà marqué traité → acquittement sans écriture
//  2. réservation LWT de la session → une seule commande par session
//  3. commande + lignes en un batch logged
//  4. vidage du panier
//  5. marquage de l'événement
//
// Une erreur à n'importe quelle étape remonte au fournisseur (500), dont
// la relivraison reprend à la première étape non terminée.
type Service struct {
	carts  store.CartStore
	orders store.OrderStore
	events store.EventStore

	// AfterFulfill est appelé en asynchrone après création d'une commande
	// (e-mail de confirmation, facture). Jamais bloquant pour le webhook.
	AfterFulfill func(order models.Order, email string)
}

func NewService(carts store.CartStore, orders store.OrderStore, events store.EventStore) *Service {
	return &Service{carts: carts, orders: orders, events: events}
}

// Handle traite un événement du fournisseur de paiement
func (s *Service) Handle(ctx context.Context, ev Event) error {
	switch e := ev.(type) {
	case CheckoutCompleted:
		return s.fulfillCheckout(ctx, e)
	case PaymentSucceeded:
		return s.setPaymentStatus(ctx, e.PaymentIntentID, models.PaymentStatusPaid)
	case PaymentFailed:
		return s.setPaymentStatus(ctx, e.PaymentIntentID, models.PaymentStatusFailed)
	case Unrecognized:
		log.Printf("ℹ️ Événement ignoré : %s (%s)", e.Kind, e.ID)
		return nil
	default:
		return fmt.Errorf("type d'événement inattendu : %T", ev)
	}
}

func (s *Service) fulfillCheckout(ctx context.Context, e CheckoutCompleted) error {
	// Relivraison d'un événement intégralement traité → no-op
	processed, err := s.events.WasProcessed(ctx, e.ID)
	if err != nil {
		return err
	}
	if processed {
		log.Printf("🔁 Événement %s déjà traité, on ignore", e.ID)
		return nil
	}

	orderID := gocql.TimeUUID()
	claimed, existingID, err := s.orders.ClaimSession(ctx, e.SessionID, orderID)
	if err != nil {
		return err
	}

	var createdOrder *models.Order
	if claimed {
		order, items, err := s.buildOrder(ctx, orderID, e)
		if err != nil {
			return err
		}
		if err := s.orders.CreateWithItems(ctx, order, items); err != nil {
			return err
		}
		order.Items = items
		createdOrder = &order
		log.Printf("✅ Commande %s créée (%d articles, %.2f) pour %s",
			order.OrderNumber, len(items), order.Total, e.UserID)
	} else {
		// Doublon de complétion pour la même session : la commande existe,
		// on termine seulement les étapes restantes
		log.Printf("🔁 Session %s déjà réservée par la commande %s", e.SessionID, existingID)
	}

	if err := s.carts.Clear(ctx, e.UserID); err != nil {
		return err
	}

	if err := s.events.MarkProcessed(ctx, e.ID); err != nil {
		return err
	}

	if createdOrder != nil && s.AfterFulfill != nil {
		go s.AfterFulfill(*createdOrder, e.Email)
	}

	return nil
}

// buildOrder construit la commande et ses lignes depuis l'état du panier
// au moment de l'événement. Les lignes somment avec le sous-total enregistré
// par construction ; le total de la session sert de contrôle.
func (s *Service) buildOrder(ctx context.Context, orderID gocql.UUID, e CheckoutCompleted) (models.Order, []models.OrderItem, error) {
	cartItems, err := s.carts.Items(ctx, e.UserID)
	if err != nil {
		return models.Order{}, nil, err
	}

	var totals models.CartTotals
	if len(cartItems) > 0 {
		totals = models.TotalsFor(cartItems)
	} else {
		// Panier déjà vide (cas limite) : on retombe sur les montants de la session
		totals.Subtotal = float64(e.AmountSubtotal) / 100
		totals.Total = float64(e.AmountTotal) / 100
		totals.Tax = totals.Subtotal * models.TaxRate
		totals.Shipping = totals.Total - totals.Subtotal - totals.Tax
		log.Printf("⚠️ Panier vide pour la session %s, montants repris de la session", e.SessionID)
	}

	if drift := totals.Total - float64(e.AmountTotal)/100; math.Abs(drift) > 0.01 {
		log.Printf("⚠️ Écart total commande/session %s : %.2f vs %.2f",
			e.SessionID, totals.Total, float64(e.AmountTotal)/100)
	}

	now := time.Now()
	order := models.Order{
		ID:              orderID,
		OrderNumber:     fmt.Sprintf("ORD-%d", now.UnixMilli()),
		UserID:          e.UserID,
		Status:          models.OrderStatusProcessing,
		PaymentStatus:   models.PaymentStatusPaid,
		Subtotal:        totals.Subtotal,
		Tax:             totals.Tax,
		Shipping:        totals.Shipping,
		Total:           totals.Total,
		BillingAddress:  e.BillingAddress,
		ShippingAddress: e.ShippingAddress,
		SessionID:       e.SessionID,
		PaymentIntentID: e.PaymentIntentID,
		CreatedAt:       now,
	}

	items := make([]models.OrderItem, 0, len(cartItems))
	for _, item := range cartItems {
		items = append(items, models.OrderItem{
			OrderID:   orderID,
			ProductID: item.ProductID,
			Name:      item.Name,
			Quantity:  item.Quantity,
			Price:     item.Price,
		})
	}

	return order, items, nil
}

func (s *Service) setPaymentStatus(ctx context.Context, paymentIntentID, status string) error {
	matched, err := s.orders.SetPaymentStatusByIntent(ctx, paymentIntentID, status)
	if err != nil {
		return err
	}
	if !matched {
		// Pas encore de commande pour cet intent (événements arrivés dans le
		// désordre) : acquitté quand même, le statut initial reste correct
		log.Printf("⚠️ Aucune commande pour le payment intent %s", paymentIntentID)
		return nil
	}
	log.Printf("💳 Statut de paiement '%s' pour l'intent %s", status, paymentIntentID)
	return nil
}
