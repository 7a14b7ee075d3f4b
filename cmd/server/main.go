package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"

	"velora_back_end/internal/config"
	"velora_back_end/internal/database"
	"velora_back_end/internal/fulfillment"
	"velora_back_end/internal/handlers/cart"
	"velora_back_end/internal/handlers/payement"
	"velora_back_end/internal/handlers/user"
	"velora_back_end/internal/models"
	"velora_back_end/internal/routes"
	"velora_back_end/internal/store"
	"velora_back_end/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"
	"github.com/markbates/goth"
	"github.com/markbates/goth/gothic"
	"github.com/markbates/goth/providers/facebook"
	"github.com/markbates/goth/providers/google"
	"github.com/stripe/stripe-go/v83"
)

func main() {
	config.Load()

	stripe.Key = os.Getenv("STRIPE_SECRET_KEY")
	if stripe.Key == "" {
		log.Fatal("❌ Impossible d'initialiser Stripe : clé manquante")
	}
	log.Println("✅ Stripe initialisé")

	database.ConnectDatabases()

	// ✅ Prepared statements pour les requêtes chaudes (profils)
	database.InitPreparedStatements()

	// ✅ Pré-chauffer le cache Redis
	warmupRedisCache()

	initOAuthProviders()

	// Stores Scylla partagés par les handlers et le service de fulfillment
	carts := store.NewScyllaCartStore()
	orders := store.NewScyllaOrderStore()
	events := store.NewScyllaEventStore()

	fulfillSvc := fulfillment.NewService(carts, orders, events)
	fulfillSvc.AfterFulfill = sendOrderConfirmation

	h := routes.Handlers{
		Cart:    cart.NewHandler(carts),
		Orders:  user.NewOrderHandler(orders),
		Webhook: payement.NewWebhookHandler(fulfillSvc),
	}

	r := gin.Default()
	routes.RegisterRoutes(r, h)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Println("🚀 Serveur Velora lancé sur le port", port)
	r.Run(":" + port)
}

// sendOrderConfirmation envoie l'e-mail de confirmation avec la facture PDF.
// Appelé en goroutine par le service de fulfillment, jamais sur le chemin du webhook.
func sendOrderConfirmation(order models.Order, email string) {
	if email == "" {
		log.Println("⚠️ Commande", order.OrderNumber, "sans email, pas de confirmation envoyée")
		return
	}

	pdf, err := utils.GenerateInvoicePDF(order)
	if err != nil {
		log.Println("⚠️ Génération facture PDF échouée:", err)
		pdf = nil // l'email part quand même, sans pièce jointe
	}

	html := utils.GenerateOrderConfirmationHTML(order)
	subject := "✅ Confirmation de votre commande " + order.OrderNumber

	if err := utils.SendConfirmationEmail(email, subject, html, pdf); err != nil {
		log.Println("❌ Envoi email de confirmation échoué:", err)
		return
	}
	log.Println("📧 Confirmation envoyée pour la commande", order.OrderNumber)
}

func initOAuthProviders() {
	sessionSecret := os.Getenv("SESSION_SECRET")
	if sessionSecret == "" {
		log.Println("⚠️ SESSION_SECRET manquant, OAuth désactivé")
		return
	}

	store := sessions.NewCookieStore([]byte(sessionSecret))
	store.MaxAge(86400 * 30)
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 30,
		HttpOnly: true,
		Secure:   false, // false en dev, true en prod
		SameSite: http.SameSiteLaxMode,
	}

	gothic.Store = store

	// gothic lit le provider dans l'URL, pas dans le path gin
	gothic.GetProviderName = func(req *http.Request) (string, error) {
		if provider := req.URL.Query().Get("provider"); provider != "" {
			return provider, nil
		}
		if provider := req.FormValue("provider"); provider != "" {
			return provider, nil
		}
		return "", errors.New("provider not found")
	}

	baseURL := os.Getenv("BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}

	googleCallback := baseURL + "/api/auth/google/callback"
	facebookCallback := baseURL + "/api/auth/facebook/callback"

	googleClientID := os.Getenv("GOOGLE_CLIENT_ID")
	googleClientSecret := os.Getenv("GOOGLE_CLIENT_SECRET")
	facebookClientID := os.Getenv("FACEBOOK_CLIENT_ID")
	facebookClientSecret := os.Getenv("FACEBOOK_CLIENT_SECRET")

	var providers []goth.Provider

	if googleClientID != "" && googleClientSecret != "" {
		providers = append(providers, google.New(
			googleClientID,
			googleClientSecret,
			googleCallback,
		))
		log.Println("✅ Google OAuth activé")
	}

	if facebookClientID != "" && facebookClientSecret != "" {
		providers = append(providers, facebook.New(
			facebookClientID,
			facebookClientSecret,
			facebookCallback,
		))
		log.Println("✅ Facebook OAuth activé")
	}

	if len(providers) == 0 {
		log.Println("⚠️ Aucun provider OAuth configuré")
		return
	}

	goth.UseProviders(providers...)
	log.Printf("✅ %d OAuth provider(s) initialisé(s)", len(providers))
}

// warmupRedisCache établit la connexion Redis avant le premier appel
func warmupRedisCache() {
	ctx := context.Background()
	if err := database.Redis.Ping(ctx).Err(); err == nil {
		log.Println("✅ Cache Redis pré-chauffé")
	}
}
