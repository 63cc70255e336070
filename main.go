// main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"supermarket-erp/cache"
	"supermarket-erp/config"
	"supermarket-erp/controllers"
	"supermarket-erp/events"
	"supermarket-erp/models"
	"supermarket-erp/pos"
	"supermarket-erp/routes"
	"supermarket-erp/store"
	"supermarket-erp/utils"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found. Proceeding with environment variables.")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, err := utils.NewLogger(cfg.Development())
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func run(ctx context.Context, cfg config.Config, logger *zap.Logger) error {
	st, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Warn("redis unavailable, catalog cache disabled", zap.String("addr", cfg.RedisAddr), zap.Error(err))
		} else {
			st = store.NewCachedStore(st, cache.NewRedisCache(rdb, cfg.CacheTTL), logger)
			logger.Info("catalog cache enabled", zap.String("addr", cfg.RedisAddr), zap.Duration("ttl", cfg.CacheTTL))
		}
	}

	if cfg.SeedDemo {
		n, err := store.SeedCatalog(ctx, st)
		if err != nil {
			return fmt.Errorf("seed catalog: %w", err)
		}
		if n > 0 {
			logger.Info("demo catalog seeded", zap.Int("products", n))
		}
	}
	hashed, err := utils.HashPassword(cfg.AdminPassword)
	if err != nil {
		return err
	}
	if err := store.EnsureUser(ctx, st, models.User{
		Name:     cfg.AdminName,
		Email:    cfg.AdminEmail,
		Password: hashed,
		Role:     models.RoleAdmin,
	}); err != nil {
		return fmt.Errorf("admin account: %w", err)
	}

	var publisher events.Publisher = events.NopPublisher{}
	if cfg.RabbitURL != "" {
		conn, err := events.Dial(cfg.RabbitURL)
		if err != nil {
			return err
		}
		defer conn.Close()
		rabbit, err := events.NewRabbitPublisher(conn)
		if err != nil {
			return err
		}
		publisher = rabbit
		logger.Info("publishing events to RabbitMQ")
	}
	defer publisher.Close()

	// Initialize EmailService
	var emailService *utils.EmailService
	if cfg.PostmarkToken != "" && cfg.AlertEmail != "" {
		emailService = utils.NewEmailService(cfg.PostmarkToken, cfg.EmailSender, cfg.AlertEmail)
	}
	notifier := controllers.NewNotifier(publisher, emailService, logger)
	defer notifier.Wait()

	tokens := utils.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL)
	calc := pos.NewCalculator(cfg.TaxRate)
	sessions := pos.NewRegistry()
	recorder := pos.NewRecorder(st, calc)

	// Initialize controllers
	router := routes.NewRouter(routes.Controllers{
		Users:     controllers.NewUserController(st, tokens, sessions, logger),
		Products:  controllers.NewProductController(st, logger),
		Stock:     controllers.NewStockController(st, notifier, logger),
		Suppliers: controllers.NewSupplierController(st, logger),
		Sales:     controllers.NewSaleController(st, calc, notifier, logger),
		POS:       controllers.NewPOSController(sessions, st, recorder, calc, notifier, logger),
		Reports:   controllers.NewReportController(st, logger),
	}, tokens, logger, cfg.RequestTimeout)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening",
			zap.String("port", cfg.Port),
			zap.String("store", cfg.StoreBackend),
			zap.String("tax_rate", cfg.TaxRate.String()),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func openStore(ctx context.Context, cfg config.Config, logger *zap.Logger) (store.Store, func(), error) {
	if cfg.StoreBackend != config.BackendMongo {
		logger.Info("using in-memory store")
		return store.NewMemoryStore(), func() {}, nil
	}

	// Connect to MongoDB
	client, err := store.ConnectMongo(ctx, cfg.MongoURI)
	if err != nil {
		return nil, nil, err
	}
	closeFn := func() {
		if err := client.Disconnect(context.Background()); err != nil {
			logger.Error("mongo disconnect", zap.Error(err))
		}
	}

	ms := store.NewMongoStore(client.Database(cfg.MongoDatabase), logger)
	if err := ms.CreateIndexes(ctx); err != nil {
		closeFn()
		return nil, nil, err
	}
	logger.Info("connected to MongoDB", zap.String("database", cfg.MongoDatabase))
	return ms, closeFn, nil
}
