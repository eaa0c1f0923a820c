package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"bookfx/internal/book"
	"bookfx/internal/dataset"
	"bookfx/internal/exchange"
	"bookfx/internal/httpx"
	"bookfx/internal/store"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load(".env.local")

	serverAddress := getEnv("APP_ADDR", ":8080")
	apiKey := os.Getenv("API_KEY")
	dataDir := getEnv("DATA_DIR", "data")
	databaseDSN := os.Getenv("DB_DSN")
	hub := getEnv("HUB_CURRENCY", exchange.DefaultHub)
	rps := getEnvFloat("RATE_LIMIT_RPS", 10)
	burst := getEnvInt("RATE_LIMIT_BURST", 20)

	if apiKey == "" {
		log.Println("API_KEY not set, authentication disabled (dev mode)")
	}

	var source dataset.Source
	if databaseDSN != "" {
		dbPool := mustOpenDB(databaseDSN)
		defer dbPool.Close()
		source = store.NewPGSource(dbPool)
	} else {
		source = dataset.NewCSVSource(dataDir)
	}

	provider := dataset.NewProvider(source)

	// Warm the snapshot so the first request doesn't pay for the load.
	// A failure is logged, not fatal: data endpoints answer 500 and
	// /readyz stays red until the process is restarted with data.
	warmCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if snap, err := provider.Snapshot(warmCtx); err != nil {
		log.Printf("dataset load failed: %v", err)
	} else {
		log.Printf("dataset loaded: %d books, %d rate pairs", len(snap.Books), len(snap.Rates))
	}
	cancel()

	router := newRouter(provider, hub, apiKey)

	var handler http.Handler = router
	handler = httpx.NewRateLimitMiddleware(rps, burst).Middleware(handler)
	if origins := os.Getenv("CORS_ORIGINS"); origins != "" {
		handler = httpx.CORSMiddleware(strings.Split(origins, ","))(handler)
	}
	handler = httpx.SecurityHeadersMiddleware(handler)
	handler = httpx.RecoveryMiddleware(handler)
	handler = httpx.AccessLogMiddleware(handler)
	handler = httpx.RequestIDMiddleware(handler)

	httpServer := &http.Server{
		Addr:         serverAddress,
		Handler:      handler,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	log.Printf("Starting server on %s", serverAddress)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server error: %v", err)
	}
}

func newRouter(provider *dataset.Provider, hub, apiKey string) *http.ServeMux {
	bookHandler := book.NewHTTPHandler(book.NewService(provider))
	exchangeHandler := exchange.NewHTTPHandler(exchange.NewService(provider, exchange.NewResolver(hub)))

	router := http.NewServeMux()

	router.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	router.HandleFunc("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		if _, err := provider.Snapshot(r.Context()); err != nil {
			http.Error(w, "dataset not loaded", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	protect := httpx.APIKeyMiddleware(apiKey)
	router.Handle("GET /books", protect(http.HandlerFunc(bookHandler.List)))
	router.Handle("GET /books/{id}", protect(http.HandlerFunc(bookHandler.Get)))
	router.Handle("GET /exchange", protect(http.HandlerFunc(exchangeHandler.Convert)))
	router.Handle("GET /resources", protect(http.HandlerFunc(resourcesHandler)))

	return router
}

// resourcesHandler describes the query surfaces the service exposes.
func resourcesHandler(w http.ResponseWriter, r *http.Request) {
	httpx.JSON(w, http.StatusOK, map[string]any{
		"resources": []map[string]any{
			{
				"name":      "books",
				"type":      "static",
				"endpoints": []string{"/books", "/books/{id}"},
				"filters": []string{
					"q", "title_contains", "author", "genre",
					"year", "min_price", "max_price",
					"sort_by", "order", "page", "per_page",
				},
			},
			{
				"name":      "exchange",
				"type":      "dynamic",
				"endpoints": []string{"/exchange"},
				"params":    []string{"from", "to", "amount"},
			},
		},
	})
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getEnvFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func mustOpenDB(dsn string) *pgxpool.Pool {
	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		log.Fatalf("cannot create db pool: %v", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		log.Fatalf("cannot ping database: %v", err)
	}
	log.Println("database connection OK")
	return pool
}
