package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rogerio-castellano/pos-manager/internal/auth"
	"github.com/rogerio-castellano/pos-manager/internal/config"
	"github.com/rogerio-castellano/pos-manager/internal/db"
	"github.com/rogerio-castellano/pos-manager/internal/http/ban"
	"github.com/rogerio-castellano/pos-manager/internal/http/handlers"
	rl "github.com/rogerio-castellano/pos-manager/internal/http/rate_limiter"
	"github.com/rogerio-castellano/pos-manager/internal/http/router"
	"github.com/rogerio-castellano/pos-manager/internal/logging"
	"github.com/rogerio-castellano/pos-manager/internal/redissvc"
	"github.com/rogerio-castellano/pos-manager/internal/repo"
	"github.com/rogerio-castellano/pos-manager/internal/sales"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// @title POS Manager API
// @version 1.0
// @description REST API for a point-of-sale backend: products, sales transactions and authentication.
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// Money goes over the wire as JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Mode, cfg.Log.File)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	if err := cfg.ValidateServer(); err != nil {
		zap.L().Fatal("invalid configuration", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		zap.L().Fatal("could not connect to database", zap.Error(err))
	}
	defer database.Close()

	if err := db.Migrate(ctx, database); err != nil {
		zap.L().Fatal("could not apply schema", zap.Error(err))
	}

	products := repo.NewPostgresProductRepository(database)
	transactions := repo.NewPostgresTransactionRepository(database)
	users := repo.NewPostgresUserRepository(database)
	uow := repo.NewPostgresUnitOfWork(database)

	tokens := auth.NewTokenIssuer(cfg.JWT.Secret, cfg.JWT.TTL)

	handlers.SetProductRepo(products)
	handlers.SetMetricsRepo(repo.NewPostgresMetricsRepository(database))
	handlers.SetAuthService(auth.NewService(users, tokens))
	handlers.SetSalesService(sales.NewService(uow, products, transactions))

	var strikes ban.StrikeStore = ban.NewMemoryStore()
	if cfg.RedisAddr != "" {
		rdb, err := redissvc.Connect(ctx, cfg.RedisAddr)
		if err != nil {
			zap.L().Fatal("could not connect to redis", zap.Error(err))
		}
		defer rdb.Close()
		strikes = ban.NewRedisStore(rdb)
		zap.L().Info("login lockout backed by redis", zap.String("addr", cfg.RedisAddr))
	}
	handlers.SetBanTracker(ban.NewTracker(strikes, cfg.Login.MaxStrikes, cfg.Login.BanDuration))

	limiter := rl.New(cfg.RateLimit.RPS, cfg.RateLimit.Burst)
	go limiter.StartVisitorCleanupLoop(ctx, time.Minute)

	server := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           router.NewRouter(tokens, limiter),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		zap.L().Info("server running", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zap.L().Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	zap.L().Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		zap.L().Error("server forced to shutdown", zap.Error(err))
		os.Exit(1)
	}
	zap.L().Info("server exiting")
}
