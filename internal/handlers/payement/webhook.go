package payement

import (
	"encoding/json"
	"log"
	"net/http"
	"os"

	"velora_back_end/internal/fulfillment"
	"velora_back_end/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v83"
	"github.com/stripe/stripe-go/v83/webhook"
)

// WebhookHandler reçoit les événements asynchrones du fournisseur de paiement
type WebhookHandler struct {
	Service *fulfillment.Service
	Secret  string
}

func NewWebhookHandler(service *fulfillment.Service) *WebhookHandler {
	return &WebhookHandler{
		Service: service,
		Secret:  os.Getenv("STRIPE_WEBHOOK_SECRET"),
	}
}

// Handle vérifie la signature, traduit l'événement et le confie au service.
// 400 = signature invalide (aucun traitement), 500 = échec de traitement
// (Stripe relivrera), 200 {"received": true} = acquitté.
func (h *WebhookHandler) Handle(c *gin.Context) {
	const MaxBodyBytes = int64(65536)
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, MaxBodyBytes)

	payload, err := c.GetRawData()
	if err != nil {
		log.Println("❌ Lecture payload échouée:", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Échec lecture body"})
		return
	}

	// IgnoreAPIVersionMismatch : seuls les champs communs aux versions
	// d'API sont lus ici, la vérification de signature reste stricte
	event, err := webhook.ConstructEventWithOptions(payload, c.GetHeader("Stripe-Signature"), h.Secret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true})
	if err != nil {
		log.Println("❌ Signature Stripe invalide:", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Signature invalide"})
		return
	}

	log.Printf("📥 Événement Stripe reçu : %s (%s)", event.Type, event.ID)

	ev, err := translateEvent(event)
	if err != nil {
		log.Println("❌ Décodage événement:", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Événement illisible"})
		return
	}

	if err := h.Service.Handle(c.Request.Context(), ev); err != nil {
		log.Println("❌ Erreur traitement webhook:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur traitement webhook"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}

// translateEvent projette l'événement Stripe sur l'union fermée des
// événements gérés. Tout type inconnu devient Unrecognized.
func translateEvent(event stripe.Event) (fulfillment.Event, error) {
	switch event.Type {
	case "checkout.session.completed":
		var session stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
			return nil, err
		}

		ev := fulfillment.CheckoutCompleted{
			ID:             event.ID,
			SessionID:      session.ID,
			UserID:         session.Metadata["user_id"],
			Email:          session.Metadata["email"],
			AmountSubtotal: session.AmountSubtotal,
			AmountTotal:    session.AmountTotal,
		}
		if session.PaymentIntent != nil {
			ev.PaymentIntentID = session.PaymentIntent.ID
		}
		if session.CustomerDetails != nil && session.CustomerDetails.Address != nil {
			addr := toAddress(session.CustomerDetails.Address)
			ev.BillingAddress = addr
			ev.ShippingAddress = addr
		}
		if ev.UserID == "" {
			// Session créée hors de cette application : rien à matérialiser
			log.Printf("⚠️ Session %s sans user_id, traitée comme non reconnue", session.ID)
			return fulfillment.Unrecognized{ID: event.ID, Kind: string(event.Type)}, nil
		}
		return ev, nil

	case "payment_intent.succeeded":
		var pi stripe.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &pi); err != nil {
			return nil, err
		}
		return fulfillment.PaymentSucceeded{ID: event.ID, PaymentIntentID: pi.ID}, nil

	case "payment_intent.payment_failed":
		var pi stripe.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &pi); err != nil {
			return nil, err
		}
		return fulfillment.PaymentFailed{ID: event.ID, PaymentIntentID: pi.ID}, nil

	default:
		return fulfillment.Unrecognized{ID: event.ID, Kind: string(event.Type)}, nil
	}
}

func toAddress(a *stripe.Address) models.Address {
	return models.Address{
		Line1:      a.Line1,
		Line2:      a.Line2,
		City:       a.City,
		PostalCode: a.PostalCode,
		State:      a.State,
		Country:    a.Country,
	}
}
