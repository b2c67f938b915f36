package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rowguard/rowguard/internal/config"
	"github.com/rowguard/rowguard/internal/db"
	"github.com/rowguard/rowguard/internal/export"
	"github.com/rowguard/rowguard/internal/httpapi"
	"github.com/rowguard/rowguard/internal/ingestion"
	"github.com/rowguard/rowguard/internal/logging"
	appmiddleware "github.com/rowguard/rowguard/internal/middleware"
	"github.com/rowguard/rowguard/internal/repository"
	"github.com/rowguard/rowguard/internal/revalidation"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load(".")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logging.Setup(cfg.Server.LogLevel, cfg.Server.LogFormat)

	conn, err := db.NewConnection(ctx, cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer conn.Close()

	if err := db.RunMigrations(cfg.Database); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	store := repository.NewPostgresStore(conn)
	ingestionSvc := ingestion.NewService(store)
	revalidationSvc := revalidation.NewService(store)
	exportSvc := export.NewService(store)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(appmiddleware.Logging)

	r.Method(http.MethodPost, "/upload", ingestion.NewHTTPHandler(ingestionSvc))
	r.Method(http.MethodGet, "/jobs/{jobID}/export", export.NewHTTPHandler(exportSvc))
	httpapi.NewHandler(store, revalidationSvc).Routes(r)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.Server.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
	})

	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      corsHandler.Handler(r),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("server listening", "addr", cfg.Server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	slog.Info("shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server shutdown failed: %v", err)
	}
}
