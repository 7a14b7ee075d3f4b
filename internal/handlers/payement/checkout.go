package payement

import (
	"log"
	"net/http"

	"velora_back_end/internal/config"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v83"
	"github.com/stripe/stripe-go/v83/checkout/session"
)

// CreateCheckoutSession crée une session de paiement hébergée chez Stripe.
// Aucune écriture locale : en cas d'erreur fournisseur il n'y a rien à nettoyer.
func CreateCheckoutSession(c *gin.Context) {
	var req struct {
		Items []CheckoutItem `json:"items" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || len(req.Items) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Requête invalide ou panier vide"})
		return
	}

	userID := c.GetString("user_id")
	email := c.GetString("email")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Utilisateur non authentifié"})
		return
	}

	for _, item := range req.Items {
		if item.Quantity <= 0 || item.Price < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Ligne de panier invalide : " + item.Name})
			return
		}
	}

	frontend := config.FrontendURL()

	lineItems := make([]*stripe.CheckoutSessionLineItemParams, 0, len(req.Items))
	for _, item := range req.Items {
		productData := &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
			Name: stripe.String(item.Name),
		}
		if item.Image != "" {
			productData.Images = stripe.StringSlice([]string{item.Image})
		}
		lineItems = append(lineItems, &stripe.CheckoutSessionLineItemParams{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:    stripe.String("usd"),
				ProductData: productData,
				UnitAmount:  stripe.Int64(toMinorUnits(item.Price)),
			},
			Quantity: stripe.Int64(int64(item.Quantity)),
		})
	}

	params := &stripe.CheckoutSessionParams{
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		LineItems:          lineItems,
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL:         stripe.String(frontend + "/checkout/confirmation?session_id={CHECKOUT_SESSION_ID}"),
		CancelURL:          stripe.String(frontend + "/cart"),
	}
	params.AddMetadata("user_id", userID)
	params.AddMetadata("email", email)

	s, err := session.New(params)
	if err != nil {
		log.Println("❌ Erreur création session Stripe:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur création session de paiement"})
		return
	}

	log.Printf("💳 Session checkout créée : %s (%d lignes) pour %s", s.ID, len(req.Items), userID)

	c.JSON(http.StatusOK, gin.H{"sessionId": s.ID})
}
