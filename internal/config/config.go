package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

// Variables obligatoires au démarrage : sans elles, on refuse de lancer
// (échec rapide plutôt qu'erreur à la première requête).
var requiredVars = []string{
	"SCYLLA_HOSTS",
	"SCYLLA_KS_USERS_KEYSPACE",
	"SCYLLA_KS_PRODUCTS_KEYSPACE",
	"SCYLLA_KS_ORDERS_KEYSPACE",
	"REDIS_HOST",
	"ELASTIC_URL",
	"MINIO_ENDPOINT",
	"MINIO_ACCESS_KEY",
	"MINIO_SECRET_KEY",
	"MINIO_BUCKET",
	"STRIPE_SECRET_KEY",
	"STRIPE_WEBHOOK_SECRET",
	"JWT_SECRET",
}

// Variables optionnelles : leur absence désactive la fonctionnalité associée
var optionalVars = map[string]string{
	"SMTP_HOST":            "envoi des e-mails de confirmation",
	"GOOGLE_CLIENT_ID":     "connexion Google",
	"FACEBOOK_CLIENT_ID":   "connexion Facebook",
	"FRONTEND_URL":         "URLs de redirection checkout (fallback localhost)",
	"FRONTEND_INVOICE_URL": "génération des factures PDF",
}

func Load() {
	err := godotenv.Load(".env")
	if err != nil {
		log.Println("⚠️  Aucun fichier .env trouvé — on continue avec les variables d'environnement du système")
	} else {
		log.Println("✅ Fichier .env chargé avec succès")
	}

	var missing []string
	for _, name := range requiredVars {
		if os.Getenv(name) == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		log.Fatalf("❌ Variables d'environnement manquantes : %v", missing)
	}

	for name, feature := range optionalVars {
		if os.Getenv(name) == "" {
			log.Printf("⚠️ %s non défini — %s désactivé(e)", name, feature)
		}
	}
}

// FrontendURL retourne l'URL du front (pages React) pour les redirections
func FrontendURL() string {
	if u := os.Getenv("FRONTEND_URL"); u != "" {
		return u
	}
	return "http://localhost:3000"
}
