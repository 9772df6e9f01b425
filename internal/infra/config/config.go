// internal/infra/config/config.go
package config

import "os"

// Backend selects the remote cart/order store implementation.
const (
	BackendPostgres  = "postgres"
	BackendFirestore = "firestore"
)

// Config holds the whole application's environment configuration.
type Config struct {
	Port string

	// CartBackend is BackendPostgres or BackendFirestore.
	CartBackend string

	// PostgreSQL (used when CartBackend == postgres)
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	// DBPasswordSecret optionally names a Secret Manager secret that
	// supplies DBPassword when the env var is unset.
	DBPasswordSecret string

	// Firestore (used when CartBackend == firestore)
	GCPProjectID             string
	FirestoreProjectID       string
	FirestoreCredentialsFile string

	// Firebase Auth project for ID token verification.
	FirebaseProjectID string

	// BadgerPath is the directory for the guest-cart slot store.
	BadgerPath string

	// SendGrid (order confirmation mail; empty key disables mail)
	SendGridAPIKey string
	MailFrom       string

	// Payment webhook HMAC secret; optionally resolved from Secret
	// Manager when only the secret name is set.
	PaymentWebhookSecret     string
	PaymentWebhookSecretName string
}

// Load reads configuration from environment variables.
func Load() *Config {
	defaultProject := os.Getenv("GCP_PROJECT_ID")

	return &Config{
		Port:        getenvDefault("PORT", "8080"),
		CartBackend: getenvDefault("CART_BACKEND", BackendPostgres),

		DBHost:           getenvDefault("DB_HOST", "localhost"),
		DBPort:           getenvDefault("DB_PORT", "5432"),
		DBUser:           getenvDefault("DB_USER", "postgres"),
		DBPassword:       os.Getenv("DB_PASSWORD"),
		DBName:           getenvDefault("DB_NAME", "santimill"),
		DBPasswordSecret: os.Getenv("DB_PASSWORD_SECRET"),

		GCPProjectID:             defaultProject,
		FirestoreProjectID:       getenvDefault("FIRESTORE_PROJECT_ID", defaultProject),
		FirestoreCredentialsFile: os.Getenv("FIRESTORE_CREDENTIALS_FILE"),

		FirebaseProjectID: getenvDefault("FIREBASE_PROJECT_ID", defaultProject),

		BadgerPath: getenvDefault("BADGER_PATH", "data/guest-carts"),

		SendGridAPIKey: os.Getenv("SENDGRID_API_KEY"),
		MailFrom:       getenvDefault("MAIL_FROM", "orders@santimill.example"),

		PaymentWebhookSecret:     os.Getenv("PAYMENT_WEBHOOK_SECRET"),
		PaymentWebhookSecretName: os.Getenv("PAYMENT_WEBHOOK_SECRET_NAME"),
	}
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
