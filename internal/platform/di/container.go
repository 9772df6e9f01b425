// internal/platform/di/container.go
package di

import (
	"context"
	"errors"
	"fmt"
	"log"

	firebase "firebase.google.com/go/v4"
	"github.com/dgraph-io/badger/v4"

	httpin "santimill/internal/adapters/in/http"
	"santimill/internal/adapters/in/http/handler"
	"santimill/internal/adapters/in/http/middleware"
	fsadapter "santimill/internal/adapters/out/firestore"
	badgerstore "santimill/internal/adapters/out/localstore"
	"santimill/internal/adapters/out/mail"
	pgadapter "santimill/internal/adapters/out/postgres"
	"santimill/internal/application/cartsync"
	"santimill/internal/application/usecase"
	cartdom "santimill/internal/domain/cart"
	orderdom "santimill/internal/domain/order"
	appcfg "santimill/internal/infra/config"
	"santimill/internal/infra/database"
	firestoreinfra "santimill/internal/infra/firestore"
	"santimill/internal/infra/localstore"
	"santimill/internal/infra/secrets"
)

// Container wires config, infrastructure, adapters and usecases; main
// only builds it, takes the router and closes it on shutdown.
type Container struct {
	Config *appcfg.Config

	Manager    *cartsync.Manager
	CheckoutUC *usecase.CheckoutUsecase
	Orders     orderdom.Store

	FirebaseAuth *middleware.FirebaseAuthClient

	webhookSecret string

	db       *database.DB
	fs       *firestoreinfra.ClientWrapper
	badgerDB *badger.DB
	secrets  *secrets.Accessor
}

// NewContainer builds the dependency graph:
//
//	config → secrets → backend stores (postgres|firestore) →
//	guest slot store (badger) → engine manager → checkout usecase.
//
// Firebase Auth, Secret Manager and SendGrid are best-effort; the
// selected cart backend and the badger store are strict.
func NewContainer(ctx context.Context) (*Container, error) {
	cfg := appcfg.Load()
	c := &Container{Config: cfg}

	// Secret Manager (best-effort; only needed when secrets are named)
	if cfg.GCPProjectID != "" {
		acc, err := secrets.NewAccessor(ctx, cfg.GCPProjectID)
		if err != nil {
			log.Printf("[di] WARN: secret manager init failed: %v (named secrets unavailable)", err)
		} else {
			c.secrets = acc
		}
	}

	// Remote stores for the selected backend (strict)
	var (
		cartStore  cartdom.RemoteStore
		orderStore orderdom.Store
	)
	switch cfg.CartBackend {
	case appcfg.BackendPostgres:
		password := cfg.DBPassword
		if password == "" && cfg.DBPasswordSecret != "" {
			p, err := c.resolveSecret(ctx, cfg.DBPasswordSecret)
			if err != nil {
				c.Close()
				return nil, fmt.Errorf("di: resolve db password: %w", err)
			}
			password = p
		}

		db, err := database.NewConnection(cfg.DBHost, cfg.DBPort, cfg.DBUser, password, cfg.DBName)
		if err != nil {
			c.Close()
			return nil, fmt.Errorf("di: postgres: %w", err)
		}
		c.db = db
		cartStore = pgadapter.NewCartStorePG(db.Client)
		orderStore = pgadapter.NewOrderStorePG(db.Client)

	case appcfg.BackendFirestore:
		if cfg.FirestoreProjectID == "" {
			c.Close()
			return nil, errors.New("di: FIRESTORE_PROJECT_ID is required for the firestore backend")
		}
		fs, err := firestoreinfra.NewClient(ctx, cfg.FirestoreProjectID, cfg.FirestoreCredentialsFile)
		if err != nil {
			c.Close()
			return nil, fmt.Errorf("di: firestore: %w", err)
		}
		c.fs = fs
		cartStore = fsadapter.NewCartStoreFS(fs.Client)
		orderStore = fsadapter.NewOrderStoreFS(fs.Client)

	default:
		c.Close()
		return nil, fmt.Errorf("di: unknown CART_BACKEND %q", cfg.CartBackend)
	}
	c.Orders = orderStore
	log.Printf("[di] cart backend = %s", cfg.CartBackend)

	// Guest slot store (strict)
	bdb, err := localstore.Open(localstore.DefaultConfig(cfg.BadgerPath))
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("di: badger: %w", err)
	}
	c.badgerDB = bdb

	// Engine manager
	c.Manager = cartsync.NewManager(cartsync.ManagerConfig{
		Remote:  cartStore,
		Storage: badgerstore.NewGuestStorageBadger(bdb),
	})

	// Firebase Auth (best-effort: without it every request is anonymous)
	if cfg.FirebaseProjectID != "" {
		app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: cfg.FirebaseProjectID})
		if err != nil {
			log.Printf("[di] WARN: firebase app init failed: %v", err)
		} else if auth, err := app.Auth(ctx); err != nil {
			log.Printf("[di] WARN: firebase auth init failed: %v", err)
		} else {
			c.FirebaseAuth = auth
			log.Printf("[di] firebase auth initialized project=%s", cfg.FirebaseProjectID)
		}
	} else {
		log.Printf("[di] WARN: FIREBASE_PROJECT_ID empty; all requests are anonymous")
	}

	// Confirmation mail (best-effort; nil mailer disables it)
	var mailer usecase.Mailer
	if cfg.SendGridAPIKey != "" {
		mailer = mail.NewSendGridClient(cfg.SendGridAPIKey, cfg.MailFrom)
	} else {
		log.Printf("[di] SENDGRID_API_KEY empty; confirmation mail disabled")
	}

	c.CheckoutUC = usecase.NewCheckoutUsecase(orderStore, mailer, cfg.MailFrom)

	// Payment webhook secret: env value wins, named secret is fallback
	c.webhookSecret = cfg.PaymentWebhookSecret
	if c.webhookSecret == "" && cfg.PaymentWebhookSecretName != "" {
		s, err := c.resolveSecret(ctx, cfg.PaymentWebhookSecretName)
		if err != nil {
			log.Printf("[di] WARN: resolve payment webhook secret: %v (webhook disabled)", err)
		} else {
			c.webhookSecret = s
		}
	}

	return c, nil
}

// RouterDeps assembles the storefront handler set.
func (c *Container) RouterDeps() httpin.Deps {
	deps := httpin.Deps{
		Cart:     handler.NewCartHandler(c.Manager),
		Session:  handler.NewSessionHandler(c.Manager),
		Checkout: handler.NewCheckoutHandler(c.Manager, c.CheckoutUC, c.Orders),
	}
	if c.FirebaseAuth != nil {
		deps.IdentityMw = &middleware.Identity{FirebaseAuth: c.FirebaseAuth}
	}
	if c.webhookSecret != "" {
		deps.Payment = handler.NewPaymentHandler(c.Manager, c.CheckoutUC, c.webhookSecret)
	}
	return deps
}

func (c *Container) resolveSecret(ctx context.Context, name string) (string, error) {
	if c.secrets == nil {
		return "", secrets.ErrNotConfigured
	}
	return c.secrets.Access(ctx, name)
}

// Close releases owned resources in reverse construction order.
func (c *Container) Close() {
	if c == nil {
		return
	}
	if c.Manager != nil {
		c.Manager.Close()
	}
	if c.badgerDB != nil {
		if err := c.badgerDB.Close(); err != nil {
			log.Printf("[di] badger close: %v", err)
		}
	}
	if c.fs != nil {
		_ = c.fs.Close()
	}
	if c.db != nil {
		_ = c.db.Close()
	}
	if c.secrets != nil {
		_ = c.secrets.Close()
	}
}
