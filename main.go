package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/Madhav-Gupta-28/market-mate-backend-go/config"
	"github.com/Madhav-Gupta-28/market-mate-backend-go/database"
	"github.com/Madhav-Gupta-28/market-mate-backend-go/events"
	"github.com/Madhav-Gupta-28/market-mate-backend-go/handlers"
	"github.com/Madhav-Gupta-28/market-mate-backend-go/logging"
	"github.com/Madhav-Gupta-28/market-mate-backend-go/metrics"
	customMiddleware "github.com/Madhav-Gupta-28/market-mate-backend-go/middleware"
	"github.com/Madhav-Gupta-28/market-mate-backend-go/repositories"
	"github.com/Madhav-Gupta-28/market-mate-backend-go/routes"
	"github.com/Madhav-Gupta-28/market-mate-backend-go/services"
	"github.com/Madhav-Gupta-28/market-mate-backend-go/utils"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.mongodb.org/mongo-driver/mongo"
)

type stores struct {
	users     repositories.UserRepository
	products  repositories.ProductRepository
	orders    repositories.OrderRepository
	carousels repositories.CarouselRepository
	client    *mongo.Client
}

func openStores(ctx context.Context, cfg *config.Config) (*stores, error) {
	if cfg.Store == config.StoreMemory {
		logging.Warn().Msg("using in-memory store; data is lost on restart")
		mem := repositories.NewMemoryStore()
		return &stores{
			users:     mem.Users(),
			products:  mem.Products(),
			orders:    mem.Orders(),
			carousels: mem.Carousel(),
		}, nil
	}

	client, db, err := database.Connect(ctx, cfg.MongoURI, cfg.MongoDatabase)
	if err != nil {
		return nil, err
	}
	if err := database.EnsureIndexes(ctx, db); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return &stores{
		users:     repositories.NewMongoUserRepository(db),
		products:  repositories.NewMongoProductRepository(db),
		orders:    repositories.NewMongoOrderRepository(db, cfg.MongoTransactions),
		carousels: repositories.NewMongoCarouselRepository(db),
		client:    client,
	}, nil
}

func openPublisher(cfg *config.Config) events.Publisher {
	if cfg.RabbitMQURL == "" {
		logging.Info().Msg("RABBITMQ_URL not set; order events are not published")
		return events.NopPublisher{}
	}
	publisher, err := events.NewAMQPPublisher(cfg.RabbitMQURL)
	if err != nil {
		logging.Error().Err(err).Msg("failed to connect to RabbitMQ; order events are not published")
		return events.NopPublisher{}
	}
	return publisher
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("invalid configuration")
	}
	logging.Init(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := openStores(ctx, cfg)
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to open store")
	}
	publisher := openPublisher(cfg)

	tokens := utils.NewTokenManager(cfg.JWTSecret, cfg.JWTTTL)
	authService := services.NewAuthService(st.users, tokens)
	h := handlers.New(handlers.Services{
		Auth:     authService,
		Accounts: services.NewAccountService(st.users, st.products),
		Catalog:  services.NewCatalogService(st.products, st.users),
		Orders:   services.NewOrderService(st.orders, st.users, st.products, publisher),
		Carousel: services.NewCarouselService(st.carousels),
		Admin:    services.NewAdminService(st.users, st.products),
	}, handlers.Options{
		CookieSecure:   cfg.CookieSecure,
		TokenTTL:       cfg.JWTTTL,
		MaxUploadBytes: cfg.MaxUploadBytes,
	})

	// Initialize Echo
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = handlers.ErrorHandler

	// Middleware
	e.Use(middleware.Recover())
	e.Use(customMiddleware.RequestID())
	e.Use(customMiddleware.RequestLogger())
	e.Use(metrics.Middleware())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.CORSOrigins,
		AllowCredentials: true,
	}))
	// Carousel uploads carry up to five images plus form fields.
	e.Use(middleware.BodyLimit(strconv.FormatInt(6*cfg.MaxUploadBytes/1024, 10) + "K"))

	limiter := customMiddleware.NewRateLimiter(cfg.AuthRateLimit, cfg.AuthRateBurst)
	limiter.StartCleanup(10*time.Minute, ctx.Done())

	routes.SetupRoutes(e, h, routes.Options{
		Prefix:        cfg.APIPrefix,
		Authenticator: authService,
		AuthLimiter:   limiter,
	})

	go func() {
		logging.Info().Str("addr", cfg.Address()).Str("store", cfg.Store).Msg("server starting")
		if err := e.Start(cfg.Address()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatal().Err(err).Msg("server stopped")
		}
	}()

	<-ctx.Done()
	logging.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logging.Error().Err(err).Msg("server shutdown failed")
	}
	if err := publisher.Close(); err != nil {
		logging.Warn().Err(err).Msg("failed to close event publisher")
	}
	if st.client != nil {
		if err := st.client.Disconnect(shutdownCtx); err != nil {
			logging.Warn().Err(err).Msg("failed to disconnect from MongoDB")
		}
	}
}
