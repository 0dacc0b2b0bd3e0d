package app

import (
	"context"
	"crypto/rand"
	"fmt"
	"os"

	"hub-go/internal/blob"
	"hub-go/internal/config"
	"hub-go/internal/encryption"
	"hub-go/internal/hub"
	"hub-go/internal/server"
)

// App is the application layer between the CLI and the service packages.
// It constructs all dependencies from config, exposes the wired components,
// and manages resource lifecycle on Close.
type App struct {
	cfg      *config.Config
	env      config.Env
	store    hub.BlobStore
	repo     *hub.ItemRepository
	auth     *hub.AuthService
	sessions *hub.SessionManager
	logger   hub.Logger
	logFile  *os.File
}

// NewApp creates a fully wired App from the given config and environment.
// The caller must call Close when done.
func NewApp(ctx context.Context, cfg *config.Config, env config.Env) (*App, error) {
	logger, logFile, err := newLogger(cfg.LogDir)
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}

	store, err := blob.NewStoreFromConfig(ctx, cfg.Blob)
	if err != nil {
		logFile.Close()
		return nil, fmt.Errorf("creating blob store: %w", err)
	}

	if cfg.Encryption.Enabled {
		enc := encryption.NewAgeEncryptor(cfg.Encryption.RecipientPath, cfg.Encryption.IdentityPath)
		if !enc.IsConfigured() {
			store.Close()
			logFile.Close()
			return nil, fmt.Errorf("encryption enabled but key files are missing (run `hub keys init`)")
		}
		store = blob.NewEncryptedStore(store, enc)
	}

	key, err := sessionKey(env, logger)
	if err != nil {
		store.Close()
		logFile.Close()
		return nil, err
	}

	clock := hub.RealClock{}
	idgen := hub.UUIDGenerator{}

	return &App{
		cfg:      cfg,
		env:      env,
		store:    store,
		repo:     hub.NewItemRepository(store, cfg.Blob.Key, idgen, logger),
		auth:     hub.NewAuthService(env.UserPassword, env.AdminPassword),
		sessions: hub.NewSessionManager(key, hub.DefaultSessionTTL, clock, idgen),
		logger:   logger,
		logFile:  logFile,
	}, nil
}

// Items returns the item repository for direct CLI operations.
func (a *App) Items() *hub.ItemRepository { return a.repo }

// Auth returns the authentication service.
func (a *App) Auth() *hub.AuthService { return a.auth }

// Sessions returns the session manager.
func (a *App) Sessions() *hub.SessionManager { return a.sessions }

// Serve validates the blob backend and runs the HTTP server until ctx is
// cancelled.
func (a *App) Serve(ctx context.Context) error {
	if err := a.store.Ping(ctx); err != nil {
		return fmt.Errorf("blob store not ready: %w", err)
	}

	site := server.Site{Name: a.env.SiteName, SupportContact: a.env.SupportContact}
	h := server.NewHandler(a.repo, a.auth, a.sessions, site, a.logger)
	srv := server.New(a.cfg.ListenAddr, h, a.logger)
	return server.Run(ctx, srv, a.logger)
}

// Close releases all resources.
func (a *App) Close() error {
	var firstErr error
	if err := a.store.Close(); err != nil {
		firstErr = fmt.Errorf("closing blob store: %w", err)
	}
	if a.logFile != nil {
		a.logFile.Close()
	}
	return firstErr
}

// sessionKey returns the HMAC key for session tokens. Without
// HUB_SESSION_KEY a random per-process key is generated: tokens then stop
// verifying after a restart, which is tolerable for an intranet tool but
// worth a warning.
func sessionKey(env config.Env, logger hub.Logger) ([]byte, error) {
	if env.SessionKey != "" {
		return []byte(env.SessionKey), nil
	}

	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("generating session key: %w", err)
	}
	logger.Warn("HUB_SESSION_KEY not set, sessions will not survive restarts")
	return key, nil
}
