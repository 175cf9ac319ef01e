// Package app builds the long-lived components shared by the server and the
// command line tool.
package app

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/redis/go-redis/v9"

	"designhub-backend/internal/auth"
	"designhub-backend/internal/cache"
	"designhub-backend/internal/changefeed"
	"designhub-backend/internal/config"
	"designhub-backend/internal/localstore"
	"designhub-backend/internal/reconcile"
	"designhub-backend/internal/remote"
	"designhub-backend/internal/services"
	"designhub-backend/internal/state"
	"designhub-backend/internal/supabase"
	"designhub-backend/internal/websocket"
)

type App struct {
	Config *config.Config

	Cache       *cache.Store
	Remote      *remote.Adapter
	Attachments *supabase.StorageClient
	State       *state.Holder

	Feed   *changefeed.Feed
	Source changefeed.Source
	Hub    *websocket.Hub
	Engine *reconcile.Engine

	Portfolio *services.PortfolioService
	Orders    *services.OrderService
	Verifier  auth.Verifier
	Tokens    *auth.TokenIssuer

	closers []func() error
}

// New wires every component from cfg. Remote failures are not fatal: the
// app falls back to the local cache.
func New(cfg *config.Config) (*App, error) {
	a := &App{Config: cfg}

	blobs, err := a.openLocalStore()
	if err != nil {
		return nil, err
	}
	a.Cache = cache.New(localstore.WithQuota(blobs, cfg.LocalStoreQuotaBytes))

	a.Remote = a.openRemote()
	if cfg.SupabaseConfigured() {
		a.Attachments = supabase.NewStorageClient(cfg.SupabaseURL, cfg.SupabasePublishableKey, cfg.SupabaseStorageBucket)
	}

	a.State = state.NewHolder()
	a.Feed = changefeed.New()
	if a.Remote.Available() && cfg.DatabaseURL != "" {
		a.Source = supabase.NewRealtimeListener(cfg.DatabaseURL)
	}

	a.Hub = websocket.NewHub(cfg.CORSAllowedOrigins)
	a.Engine = reconcile.NewEngine(a.Remote, a.Cache, a.State, reconcile.WithNotifier(a.Hub))

	a.Portfolio = services.NewPortfolioService(a.Cache, a.State)
	var attachments services.AttachmentStore
	if a.Attachments != nil {
		attachments = a.Attachments
	}
	a.Orders = services.NewOrderService(a.Remote, a.Cache, a.State, a.Engine, attachments)

	a.Verifier = auth.BcryptVerifier{Username: cfg.AdminUsername, PasswordHash: cfg.AdminPasswordHash}
	a.Tokens = auth.NewTokenIssuer(cfg.AdminJWTSecret, cfg.AdminTokenTTL)

	return a, nil
}

// Load publishes the portfolio and runs the initial order reconciliation.
func (a *App) Load(ctx context.Context) error {
	if err := a.Portfolio.Load(ctx); err != nil {
		return err
	}
	res, err := a.Engine.Reconcile(ctx, reconcile.TriggerInitial)
	if err != nil {
		return fmt.Errorf("failed initial order sync: %w", err)
	}
	log.Printf("Loaded %d orders from %s", len(res.Orders), res.Source)
	return nil
}

func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (a *App) openLocalStore() (localstore.Store, error) {
	cfg := a.Config
	switch cfg.LocalStore {
	case config.LocalStoreMemory:
		log.Println("Warning: using in-memory local store, data is lost on restart")
		return localstore.NewMemoryStore(), nil
	case config.LocalStoreRedis:
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		a.closers = append(a.closers, client.Close)
		return localstore.NewRedisStore(client, ""), nil
	default:
		store, err := localstore.OpenSQLite(cfg.LocalStorePath)
		if err != nil {
			return nil, fmt.Errorf("failed to open local store: %w", err)
		}
		a.closers = append(a.closers, store.Close)
		return store, nil
	}
}

func (a *App) openRemote() *remote.Adapter {
	cfg := a.Config
	if !cfg.RemoteConfigured() {
		log.Println("Warning: remote order store not configured. Orders are kept locally only.")
		return remote.Unavailable()
	}

	if cfg.RemoteDriver == config.RemoteDriverPostgres {
		db, err := supabase.NewDatabaseClient(cfg.DatabaseURL)
		if err != nil {
			log.Printf("Warning: failed to connect to order database: %v", err)
			return remote.Unavailable()
		}
		a.closers = append(a.closers, db.Close)
		return remote.NewAdapter(db, config.RemoteDriverPostgres)
	}

	client, err := supabase.NewClient(cfg)
	if err != nil {
		log.Printf("Warning: failed to initialize Supabase client: %v", err)
		return remote.Unavailable()
	}
	return remote.NewAdapter(supabase.NewOrderTable(client.Supabase), config.RemoteDriverPostgREST)
}
