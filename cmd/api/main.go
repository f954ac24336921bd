package main

import (
	"database/sql"
	"net/http"
	"os"
	"time"

	pg "consultation-registry/internal/adapters/storage/postgres"
	"consultation-registry/internal/platform/logger"
	"consultation-registry/internal/router"
)

func main() {
	log := logger.NewFromEnv()

	addr := ":8080"
	if v := os.Getenv("PORT"); v != "" {
		addr = ":" + v
	}

	var db *sql.DB
	if dsn := os.Getenv("DB_DSN"); dsn != "" {
		opened, err := pg.Open(dsn)
		if err != nil {
			log.Error("db open failed", map[string]any{"error": err.Error()})
			os.Exit(1)
		}
		db = opened

		source := os.Getenv("MIGRATIONS_URL")
		if source == "" {
			source = "file://migrations"
		}
		if err := pg.Migrate(db, source); err != nil {
			log.Error("migrations failed", map[string]any{"error": err.Error()})
			os.Exit(1)
		}
		log.Info("connected to postgres", nil)
	} else {
		log.Warn("DB_DSN not set, using in-memory storage", nil)
	}

	r := router.NewRouter(router.Options{
		DB:  db,
		Log: log,
	})

	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	log.Info("starting server", map[string]any{"addr": addr})
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", map[string]any{"error": err.Error()})
		os.Exit(1)
	}
}
