package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pizzahunt/config"
	"pizzahunt/internal/auth"
	"pizzahunt/internal/delivery"
	grpcHandler "pizzahunt/internal/delivery/grpc"
	"pizzahunt/internal/domain"
	"pizzahunt/internal/repository"
	"pizzahunt/internal/repository/memory"
	"pizzahunt/internal/usecase"
	"pizzahunt/pkg/db"
	"pizzahunt/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type storage struct {
	tx       domain.TxManager
	catalog  domain.CatalogRepository
	orders   domain.OrderRepository
	users    domain.UserRepository
	feedback domain.FeedbackRepository
	close    func()
}

func openStorage(ctx context.Context, cfg *config.Config, log *logrus.Logger) (*storage, error) {
	if cfg.Storage == config.StorageMemory {
		store := memory.NewStore(log)
		store.SeedDemo()
		log.Warn("Using in-memory storage with demo catalog; data is lost on restart")
		return &storage{
			tx:       store,
			catalog:  store,
			orders:   store,
			users:    store,
			feedback: store,
			close:    func() {},
		}, nil
	}

	database, err := db.Connect(ctx, cfg.DatabaseURL, log)
	if err != nil {
		return nil, err
	}
	if cfg.Migrate {
		if err := db.Migrate(ctx, database, log); err != nil {
			database.Close()
			return nil, err
		}
	}

	repos := repository.NewPostgresRepositories(database, log)
	return &storage{
		tx:       repository.NewPostgresTxManager(database, log),
		catalog:  repos.Catalog,
		orders:   repos.Orders,
		users:    repository.NewPostgresUserRepository(database, log),
		feedback: repository.NewPostgresFeedbackRepository(database, log),
		close: func() {
			if err := database.Close(); err != nil {
				log.Errorf("Error closing database connection: %v", err)
			} else {
				log.Info("Database connection closed.")
			}
		},
	}, nil
}

func main() {
	bootLogger := logger.New("info", "json")
	cfg := config.LoadConfig(bootLogger)

	log := logger.New(cfg.LogLevel, cfg.LogFormat)
	log.Info("Starting Pizzahunt storefront...")
	if log.IsLevelEnabled(logrus.DebugLevel) {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	connectCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	store, err := openStorage(connectCtx, cfg, log)
	cancel()
	if err != nil {
		log.Fatalf("Failed to initialize storage: %v", err)
	}
	defer store.close()

	// --- Dependency Injection ---
	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTTTL)

	catalogUseCase := usecase.NewCatalogUseCase(store.catalog, log)
	cartUseCase := usecase.NewCartUseCase(store.tx, log)
	checkoutUseCase := usecase.NewCheckoutUseCase(store.tx, log)
	orderUseCase := usecase.NewOrderUseCase(store.orders, log)
	userUseCase := usecase.NewUserUseCase(store.users, tokens, log)
	feedbackUseCase := usecase.NewFeedbackUseCase(store.feedback, log)
	log.Info("Use cases initialized.")

	router := delivery.NewRouter(delivery.RouterConfig{
		Session: delivery.SessionConfig{
			CookieName: cfg.SessionCookie,
			TTL:        cfg.SessionTTL,
			Secure:     cfg.CookieSecure,
		},
		AdminAPIKey: cfg.AdminAPIKey,
		CORSOrigins: cfg.CORSOrigins,
	}, tokens, delivery.Handlers{
		Catalog:  delivery.NewCatalogHandler(catalogUseCase, log),
		Cart:     delivery.NewCartHandler(cartUseCase, log),
		Orders:   delivery.NewOrderHandler(checkoutUseCase, orderUseCase, log),
		Users:    delivery.NewUserHandler(userUseCase, log),
		Feedback: delivery.NewFeedbackHandler(feedbackUseCase, log),
	}, log)

	// --- Start Servers ---
	httpServer := &http.Server{
		Addr:              cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	grpcServer := grpcHandler.NewServer(log)

	lis, err := net.Listen("tcp", cfg.GrpcPort)
	if err != nil {
		log.Fatalf("Failed to listen on port %s: %v", cfg.GrpcPort, err)
	}

	serverErr := make(chan error, 2)
	go func() {
		log.Infof("Starting HTTP server on port %s", cfg.HTTPPort)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()
	go func() {
		if err := grpcServer.Serve(lis); err != nil {
			serverErr <- err
		}
	}()
	grpcServer.SetServing(true)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		log.Warnf("Shutdown signal received (%s)...", sig)
	case err := <-serverErr:
		log.Errorf("Server failed: %v", err)
	}

	grpcServer.SetServing(false)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Errorf("HTTP server forced to shut down: %v", err)
	}
	grpcServer.Stop()
	log.Info("Pizzahunt storefront shut down gracefully.")
}
