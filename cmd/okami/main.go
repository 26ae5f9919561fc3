package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/saltnbase/okami/internal/ai"
	"github.com/saltnbase/okami/internal/bot"
	"github.com/saltnbase/okami/internal/config"
	"github.com/saltnbase/okami/internal/line"
	"github.com/saltnbase/okami/internal/sheets"
	"github.com/saltnbase/okami/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	cache := store.NewCache(cfg.CacheTTL, snapshotFetcher(cfg), cfg.FallbackFile)
	responder := ai.NewResponder(cfg.OpenAIAPIKey, cfg.OpenAIModel)
	lineClient := line.NewClient(cfg.ChannelAccessToken)

	resolver := bot.NewResolver(cache, responder)
	botHandler := bot.NewHandler(lineClient, resolver)
	webhookHandler := line.NewWebhookHandler(cfg.ChannelSecret, botHandler.HandleEvent)

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("okami: LINE bot running"))
	})
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	r.Handle("/webhook", webhookHandler)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("okami: listening on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("okami: shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("shutdown: %v", err)
	}
	log.Println("okami: stopped")
}

// snapshotFetcher wires the Sheets client into the cache. When the Sheets
// credentials are absent the fetch always errors, which pushes every load
// straight to the fallback chain.
func snapshotFetcher(cfg *config.Config) store.FetchFunc {
	client, err := sheets.NewClient(cfg.SpreadsheetID, cfg.ServiceAccountEmail, cfg.ServiceAccountKey)
	if err != nil {
		log.Printf("okami: sheets disabled: %v", err)
		return func(ctx context.Context) (store.Snapshot, error) {
			return store.Snapshot{}, err
		}
	}
	return client.LoadSnapshot
}
