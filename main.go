package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echoMw "github.com/labstack/echo/v4/middleware"
	"github.com/tfos262/ott-backend/config"
	"github.com/tfos262/ott-backend/internal/consumer"
	"github.com/tfos262/ott-backend/internal/handler"
	"github.com/tfos262/ott-backend/internal/middleware"
	"github.com/tfos262/ott-backend/internal/repository"
	"github.com/tfos262/ott-backend/internal/service"
	"github.com/tfos262/ott-backend/pkg/auth"
	"github.com/tfos262/ott-backend/pkg/database"
	"github.com/tfos262/ott-backend/pkg/gateway"
	applog "github.com/tfos262/ott-backend/pkg/logger"
	"github.com/tfos262/ott-backend/pkg/obs"
	"github.com/tfos262/ott-backend/pkg/rabbitmq"
	"go.uber.org/zap"
)

const serviceName = "ott-backend"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, err := applog.New(cfg.IsProduction())
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracer, err := obs.InitTracer(ctx, serviceName, cfg.OTLPEndpoint, cfg.Env)
	if err != nil {
		logger.Fatal("failed to init tracer", zap.Error(err))
	}

	db, err := database.NewPostgresDB(cfg.DSN())
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	if err := database.Migrate(ctx, db); err != nil {
		logger.Fatal("failed to migrate database", zap.Error(err))
	}

	// Repositories
	teeTimeRepo := repository.NewTeeTimeRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)

	// RabbitMQ: domain events out, settled payments in
	var publisher service.EventPublisher
	var consumerDone <-chan struct{}
	if cfg.RabbitURL != "" {
		pub, err := rabbitmq.NewPublisher(cfg.RabbitURL, logger)
		if err != nil {
			logger.Fatal("failed to connect publisher to RabbitMQ", zap.Error(err))
		}
		defer pub.Close()
		publisher = pub

		mqConsumer, err := rabbitmq.NewConsumer(cfg.RabbitURL, rabbitmq.PaymentSubscription(), logger)
		if err != nil {
			logger.Fatal("failed to connect consumer to RabbitMQ", zap.Error(err))
		}
		msgs, err := mqConsumer.Consume(ctx)
		if err != nil {
			logger.Fatal("failed to start consuming", zap.Error(err))
		}
		consumerDone = consumer.NewPaymentConsumer(paymentRepo, logger).Start(msgs)
		defer func() {
			mqConsumer.Close()
			<-consumerDone
		}()
	} else {
		logger.Warn("RABBITMQ_URL not set, messaging disabled")
	}

	var gw service.PaymentGateway = gateway.Unconfigured{}
	if cfg.OmiseSecretKey != "" {
		omiseGw, err := gateway.NewOmiseGateway(cfg.OmisePublicKey, cfg.OmiseSecretKey)
		if err != nil {
			logger.Fatal("failed to create payment gateway", zap.Error(err))
		}
		gw = omiseGw
	} else {
		logger.Warn("OMISE_SECRET_KEY not set, payment processing disabled")
	}

	// Services
	issuer := auth.NewTokenIssuer(cfg.JWTSecret, cfg.JWTTTL)
	ledger := service.NewTeeTimeLedger(teeTimeRepo, publisher, logger)
	customerSvc := service.NewCustomerService(customerRepo, logger)
	authSvc := service.NewAuthService(customerRepo, issuer)
	paymentSvc := service.NewPaymentService(paymentRepo, gw, publisher, cfg.PaymentCurrency, logger)

	// Echo
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = middleware.NewErrorHandler(logger)
	e.Validator = middleware.NewValidator()
	e.Use(echoMw.RequestLoggerWithConfig(echoMw.RequestLoggerConfig{
		LogStatus:  true,
		LogURI:     true,
		LogMethod:  true,
		LogLatency: true,
		LogValuesFunc: func(c echo.Context, v echoMw.RequestLoggerValues) error {
			logger.Info("request",
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
			)
			return nil
		},
	}))
	e.Use(echoMw.Recover())
	e.Use(echoMw.CORSWithConfig(echoMw.CORSConfig{
		AllowOrigins:     []string{cfg.CORSOrigin},
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		AllowCredentials: true,
	}))

	e.GET("/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"message": "Server is running"})
	})
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok", "service": serviceName})
	})

	requireAuth := middleware.RequireAuth(issuer)
	requireAdmin := middleware.RequireAdmin()

	api := e.Group("/api")
	handler.NewTeeTimeHandler(ledger).RegisterRoutes(api, requireAuth)
	handler.NewAuthHandler(authSvc, customerSvc).RegisterRoutes(api, requireAuth, requireAdmin)
	handler.NewCustomerHandler(customerSvc).RegisterRoutes(api, requireAuth, requireAdmin)
	handler.NewPaymentHandler(paymentSvc).RegisterRoutes(api, requireAuth, middleware.OptionalAuth(issuer))

	go func() {
		logger.Info("server starting", zap.String("port", cfg.ServerPort), zap.String("env", cfg.Env))
		if err := e.Start(":" + cfg.ServerPort); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server stopped", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}
	if err := shutdownTracer(shutdownCtx); err != nil {
		logger.Error("tracer shutdown", zap.Error(err))
	}
}
