package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charitydrive/backend/internal/config"
	"github.com/charitydrive/backend/internal/handler"
	"github.com/charitydrive/backend/internal/logging"
	"github.com/charitydrive/backend/internal/repository"
	"github.com/charitydrive/backend/internal/service"
	"github.com/charitydrive/backend/pkg/auth"
	"github.com/charitydrive/backend/pkg/notify"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	_ = godotenv.Load()
	logging.Setup()

	cfg, err := config.Load(context.Background())
	if err != nil {
		logging.Fatal("failed to load configuration", "error", err)
	}

	pool, err := repository.NewPool(context.Background(), cfg.Database.URL)
	if err != nil {
		logging.Fatal("failed to connect to database", "error", err)
	}
	defer pool.Close()

	store := repository.NewPgStore(pool)
	repos := store.Repos()

	notifier := notify.NewClient(cfg.Notify.URL, cfg.Notify.Token)

	eligibility := service.NewEligibilityService()
	drawing := service.NewDrawingService(store, eligibility, notifier)
	claims := service.NewClaimService(store, notifier)
	keys := service.NewKeyService(store)

	h := handler.New(pool, cfg.CORS.FrontendURL)
	eventHandler := handler.NewEventHandler(repos.Events)
	prizeHandler := handler.NewPrizeHandler(repos.Prizes, drawing, keys)
	claimHandler := handler.NewClaimHandler(claims)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/health", h.Health)
	mux.Handle("GET /metrics", promhttp.Handler())

	// Public read endpoints
	mux.HandleFunc("GET /api/events", eventHandler.List)
	mux.HandleFunc("GET /api/events/{id}", eventHandler.Get)
	mux.HandleFunc("GET /api/prizes", prizeHandler.List)
	mux.HandleFunc("GET /api/prizes/{id}", prizeHandler.Get)

	// Donor self-service endpoints, rate limited per client IP because they
	// carry the claim auth code
	limiter := handler.NewRateLimiter(cfg.RateLimit.PerSecond, cfg.RateLimit.Burst)
	mux.Handle("GET /api/claims/{id}", limiter.Limit(http.HandlerFunc(claimHandler.Get)))
	mux.Handle("POST /api/claims/{id}/accept", limiter.Limit(http.HandlerFunc(claimHandler.Accept)))
	mux.Handle("POST /api/claims/{id}/decline", limiter.Limit(http.HandlerFunc(claimHandler.Decline)))

	// Admin endpoints
	wrapAuth := func(next http.Handler) http.Handler {
		if cfg.Auth.Required {
			return auth.RequireAdmin(cfg.Auth.AdminToken)(next)
		}
		return auth.DevAuth(next)
	}
	mux.Handle("POST /api/admin/prizes", wrapAuth(http.HandlerFunc(prizeHandler.Create)))
	mux.Handle("PUT /api/admin/prizes/{id}", wrapAuth(http.HandlerFunc(prizeHandler.Update)))
	mux.Handle("POST /api/admin/prizes/{id}/draw", wrapAuth(http.HandlerFunc(prizeHandler.Draw)))
	mux.Handle("POST /api/admin/prizes/{id}/draw-keys", wrapAuth(http.HandlerFunc(prizeHandler.DrawKeys)))
	mux.Handle("POST /api/admin/prizes/{id}/keys", wrapAuth(http.HandlerFunc(prizeHandler.ImportKeys)))
	mux.Handle("POST /api/admin/claims/sweep", wrapAuth(http.HandlerFunc(claimHandler.Sweep)))
	mux.Handle("POST /api/admin/claims/{id}/shipped", wrapAuth(http.HandlerFunc(claimHandler.Shipped)))

	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      handler.RequestLogger(h.CORS(mux)),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		slog.Info("server listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.Fatal("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		slog.Error("shutdown error", "error", err)
	}
}
