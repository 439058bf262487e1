package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/RagdeMoises/mars-front-mayor-2025/internal/cart"
	"github.com/RagdeMoises/mars-front-mayor-2025/internal/cartstore"
	"github.com/RagdeMoises/mars-front-mayor-2025/internal/catalog"
	"github.com/RagdeMoises/mars-front-mayor-2025/internal/checkout"
	"github.com/RagdeMoises/mars-front-mayor-2025/internal/config"
	"github.com/RagdeMoises/mars-front-mayor-2025/internal/events"
	"github.com/RagdeMoises/mars-front-mayor-2025/internal/httpapi"
	"github.com/RagdeMoises/mars-front-mayor-2025/internal/orders"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		os.Exit(1)
	}
	defer logger.Sync()

	cfg := config.Load()
	ctx := context.Background()

	store, cleanup, err := newCartStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to set up cart store", zap.Error(err))
	}
	defer cleanup()

	cartManager := cart.NewManager(store, logger)
	if err := cartManager.Restore(ctx); err != nil {
		logger.Fatal("failed to restore cart", zap.Error(err))
	}

	client := catalog.NewClient(catalog.Endpoints{
		Products:   cfg.ProductsURL,
		Categories: cfg.CategoriesURL,
		Novedades:  cfg.NovedadesURL,
		Ofertas:    cfg.OfertasURL,
	}, logger)
	feed := catalog.NewFeed(client, cfg.PageSize, logger)

	orderLog, err := orders.NewRepository(cfg.OrdersDBPath)
	if err != nil {
		logger.Fatal("failed to open order log", zap.Error(err))
	}
	defer orderLog.Close()
	if err := orderLog.RunMigrations(cfg.MigrationsPath); err != nil {
		logger.Fatal("failed to run order log migrations", zap.Error(err))
	}
	logger.Info("order log migrations completed")

	var publisher events.Publisher = events.NoopPublisher{}
	if len(cfg.KafkaBrokers) > 0 {
		kafkaPublisher := events.NewKafkaPublisher(logger, cfg.KafkaBrokers...)
		defer kafkaPublisher.Close()
		publisher = kafkaPublisher
		logger.Info("order events enabled", zap.Strings("brokers", cfg.KafkaBrokers))
	}

	notifier := checkout.NewNotifier(cfg.SendCartURL, logger)
	checkoutService := checkout.NewService(cartManager, notifier, cfg.WhatsAppPhone, orderLog, publisher, logger)

	cartHandler := httpapi.NewCartHandler(cartManager, cfg.RequestTimeout)
	catalogHandler := httpapi.NewCatalogHandler(feed, client, cfg.RequestTimeout)
	checkoutHandler := httpapi.NewCheckoutHandler(checkoutService, orderLog, cfg.RequestTimeout)

	router := httpapi.NewRouter(cartHandler, catalogHandler, checkoutHandler, cfg.RequestTimeout)

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("storefront listening", zap.String("port", cfg.HTTPPort))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("server forced to shutdown", zap.Error(err))
	}

	logger.Info("server exited")
}

func newCartStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (cartstore.Store, func(), error) {
	switch cfg.CartBackend {
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       0,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, nil, err
		}
		logger.Info("cart store: redis", zap.String("addr", cfg.RedisAddr))
		return cartstore.NewRedisStore(client, logger), func() { client.Close() }, nil

	case "mongo":
		db, err := cartstore.ConnectMongoDB(ctx, cfg.MongoURI, cfg.MongoDBName)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("cart store: mongo", zap.String("uri", cfg.MongoURI))
		cleanup := func() { db.Client().Disconnect(context.Background()) }
		return cartstore.NewMongoStore(db, logger), cleanup, nil

	default:
		logger.Info("cart store: file", zap.String("path", cfg.CartFilePath))
		return cartstore.NewFileStore(cfg.CartFilePath, logger), func() {}, nil
	}
}
