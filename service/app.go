package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"time"

	"instafront/app/client"
	"instafront/app/repositories"
	"instafront/app/routes"
	"instafront/app/services"
	"instafront/app/session"
	"instafront/app/views"
	"instafront/config"
)

// App is the wired front-end: session store, remote API services and router.
type App struct {
	Config     *config.Config
	Repository *repositories.Repository
	Handler    http.Handler
}

// NewApp opens the session store and wires the routes to the remote API.
func NewApp(cfg *config.Config) (*App, error) {
	templates, err := views.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load templates: %w", err)
	}

	repo, err := repositories.NewRepository(cfg.Session.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open session store: %w", err)
	}

	api := client.New(cfg.API.BaseURL, cfg.API.Timeout)
	sessions := session.NewManager(repositories.NewSessionRepository(repo), session.Options{
		TTL:    cfg.Session.TTL,
		Secure: cfg.Session.CookieSecure,
	})

	router := routes.SetupRoutes(routes.Dependencies{
		Templates: templates,
		Sessions:  sessions,
		Auth:      services.NewAuthService(api),
		Posts:     services.NewPostService(api),
		Tags:      services.NewTagService(api),
		Users:     services.NewUserService(api),
	})

	return &App{Config: cfg, Repository: repo, Handler: router}, nil
}

// Close releases the session store.
func (a *App) Close() error {
	return a.Repository.Close()
}

// Serve answers on ln until ctx is cancelled, then drains in-flight
// requests within the configured shutdown timeout.
func (a *App) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           a.Handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	store := a.Repository.Path()
	if store == "" {
		store = "in-memory"
	}
	errCh := make(chan error, 1)
	go func() {
		log.Printf("Starting instafront on %s (API %s, sessions %s)", ln.Addr(), a.Config.API.BaseURL, store)
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Println("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.Config.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// RunAppServer starts the front-end on the configured address and blocks
// until ctx is cancelled.
func RunAppServer(ctx context.Context, cfg *config.Config) error {
	app, err := NewApp(cfg)
	if err != nil {
		return err
	}
	defer app.Close()

	ln, err := net.Listen("tcp", cfg.Server.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", cfg.Server.Addr, err)
	}
	return app.Serve(ctx, ln)
}
