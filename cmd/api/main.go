package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/narensv/vyapari/internal/backend"
	"github.com/narensv/vyapari/internal/config"
	"github.com/narensv/vyapari/internal/database"
	vyapariHttp "github.com/narensv/vyapari/internal/http"
	invoiceHandler "github.com/narensv/vyapari/internal/http/invoice"
	sessionHandler "github.com/narensv/vyapari/internal/http/session"
	"github.com/narensv/vyapari/internal/render"
	"github.com/narensv/vyapari/internal/session"
	sessionStore "github.com/narensv/vyapari/internal/session/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	exchanger, err := session.NewClient(cfg.Backend.URL, cfg.Backend.Timeout)
	if err != nil {
		slog.Error("failed to build exchange client", "error", err)
		os.Exit(1)
	}

	var registry session.CodeRegistry

	if cfg.DB.Host != "" {
		db, err := database.New(cfg.ConnectionString())
		if err != nil {
			slog.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer db.Close()

		store := sessionStore.New(db)
		registry = store

		go purgeLoop(store, cfg.Session.CodeTTL)
	} else {
		registry = session.NewMemoryRegistry(cfg.Session.CodeTTL)
	}

	upstream := backend.NewClient(cfg.Backend.URL, exchanger.HTTPClient())

	var (
		sessionH = sessionHandler.NewHandler(exchanger, registry, upstream, sessionHandler.ShellURLs{
			Landing:   cfg.Shell.LandingURL,
			Dashboard: cfg.Shell.DashboardURL,
		})
		invoiceH = invoiceHandler.NewHandler(render.Seller{
			Name:    cfg.Seller.Name,
			GSTIN:   cfg.Seller.GSTIN,
			Address: cfg.Seller.Address,
			Phone:   cfg.Seller.Phone,
		})
	)

	router := vyapariHttp.New(sessionH, invoiceH, cfg.App.AllowedOrigins)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	slog.Info("starting server", "app", cfg.App.Name, "port", port)

	if err := http.ListenAndServe(port, router); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

// purgeLoop trims expired exchange-code claims so the table stays tiny.
func purgeLoop(store *sessionStore.Store, ttl time.Duration) {
	ticker := time.NewTicker(ttl)
	defer ticker.Stop()

	for range ticker.C {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)

		if err := store.PurgeExpired(ctx, ttl); err != nil {
			slog.Error("failed to purge exchange codes", "error", err)
		}

		cancel()
	}
}
