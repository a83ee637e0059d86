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

	"go.uber.org/zap"

	"github.com/opencart/opencart-gobackend/internal/cache"
	"github.com/opencart/opencart-gobackend/internal/config"
	"github.com/opencart/opencart-gobackend/internal/db"
	"github.com/opencart/opencart-gobackend/internal/events"
	"github.com/opencart/opencart-gobackend/internal/gateways"
	"github.com/opencart/opencart-gobackend/internal/handlers"
	"github.com/opencart/opencart-gobackend/internal/logger"
	"github.com/opencart/opencart-gobackend/internal/models"
	"github.com/opencart/opencart-gobackend/internal/repository"
	"github.com/opencart/opencart-gobackend/internal/services"
)

const (
	kafkaAttempts   = 10
	kafkaRetryWait  = 3 * time.Second
	shutdownTimeout = 15 * time.Second
)

type publisher interface {
	Publish(ctx context.Context, event models.Event) error
	Close() error
}

func main() {
	cfg, loadedDotEnv, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	zlog, err := logger.New(cfg.Production())
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer zlog.Sync()
	if !loadedDotEnv {
		zlog.Info("no .env file found, using process environment")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, err := db.Connect(ctx, cfg.MongoURI)
	if err != nil {
		zlog.Fatal("failed to connect to MongoDB", zap.Error(err))
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := client.Disconnect(disconnectCtx); err != nil {
			zlog.Error("error disconnecting from MongoDB", zap.Error(err))
		}
	}()
	zlog.Info("connected to MongoDB", zap.String("database", cfg.MongoDB))

	store := repository.NewTransactionStore(client.Database(cfg.MongoDB))
	if err := store.EnsureIndexes(ctx); err != nil {
		zlog.Fatal("failed to create indexes", zap.Error(err))
	}

	var tokens gateways.TokenCache
	if cfg.RedisAddr != "" {
		rdb, err := cache.Connect(ctx, cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			zlog.Warn("redis unavailable, provider tokens will not be cached", zap.Error(err))
		} else {
			defer rdb.Close()
			tokens = cache.NewRedisTokenCache(rdb)
			zlog.Info("provider token cache enabled", zap.String("addr", cfg.RedisAddr))
		}
	}

	var pub publisher = events.NewLogPublisher(zlog)
	if len(cfg.KafkaBrokers) > 0 {
		producer, err := events.NewSyncProducer(cfg.KafkaBrokers, kafkaAttempts, kafkaRetryWait, zlog)
		if err != nil {
			zlog.Fatal("failed to start kafka producer", zap.Error(err))
		}
		pub = events.NewKafkaPublisher(producer, zlog)
	}
	defer pub.Close()

	daraja := gateways.NewDaraja(gateways.DarajaConfig{
		BaseURL:            cfg.MpesaBaseURL,
		ConsumerKey:        cfg.MpesaConsumerKey,
		ConsumerSecret:     cfg.MpesaConsumerSecret,
		ShortCode:          cfg.MpesaShortCode,
		Passkey:            cfg.MpesaPasskey,
		InitiatorName:      cfg.MpesaInitiatorName,
		SecurityCredential: cfg.MpesaSecurityCredential,
		CallbackURL:        cfg.CallbackURL,
		ResultURL:          cfg.ResultURL,
		QueueTimeoutURL:    cfg.QueueTimeoutURL,
		Timeout:            cfg.ProviderTimeout,
	}, tokens, zlog)
	card := gateways.NewStripeGateway(cfg.StripeSecretKey, cfg.StripeWebhookSecret, nil, zlog)

	payments := services.NewPaymentService(store, gateways.NewMpesaGateway(daraja), gateways.NewBankGateway(daraja), card, zlog, cfg.ProviderTimeout)
	reconciler := services.NewReconciliationService(store, card, pub, zlog)
	router := handlers.NewRouter(handlers.NewPaymentHandler(payments, reconciler, zlog), []byte(cfg.JWTSecret), zlog)

	server := &http.Server{
		Addr:         "0.0.0.0:" + cfg.Port,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.ProviderTimeout + 10*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		zlog.Info("server running", zap.String("port", cfg.Port), zap.String("env", cfg.AppEnv))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Error("server stopped", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	zlog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		zlog.Error("graceful shutdown failed", zap.Error(err))
	}
}
