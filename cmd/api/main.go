package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"retroshop/internal/config"
	"retroshop/internal/db"
	"retroshop/internal/events"
	"retroshop/internal/httpserver"
	"retroshop/internal/payment"
	addressrepo "retroshop/internal/repository/address"
	cartrepo "retroshop/internal/repository/cart"
	orderrepo "retroshop/internal/repository/order"
	productrepo "retroshop/internal/repository/product"
	sessionrepo "retroshop/internal/repository/session"
	userrepo "retroshop/internal/repository/user"
	cartsvc "retroshop/internal/service/cart"
	checkoutsvc "retroshop/internal/service/checkout"
	webhooksvc "retroshop/internal/service/webhook"

	"github.com/redis/go-redis/v9"
)

func main() {
	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[api] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	ctx := context.Background()
	dbpool, err := db.Connect(ctx, cfg.DBConnString, int32(cfg.DBMaxConns))
	if err != nil {
		logger.Fatalf("connect to db: %v", err)
	}
	defer dbpool.Close()

	productRepo := productrepo.NewPostgres(dbpool, logger)
	cartRepo := cartrepo.NewPostgres(dbpool)
	addressRepo := addressrepo.NewPostgres(dbpool)
	orderRepo := orderrepo.NewPostgres(dbpool, logger)
	sessionRepo := sessionrepo.NewPostgres(dbpool)
	userRepo := userrepo.NewPostgres(dbpool)

	gatewayClient := payment.NewClient(cfg.GatewayBaseURL, cfg.GatewayToken, cfg.GatewayTimeout)

	var publisher *events.Publisher
	if cfg.AMQPURL != "" {
		publisher, err = events.NewPublisher(cfg.AMQPURL, cfg.AMQPQueue, cfg.AMQPPoolSize)
		if err != nil {
			logger.Fatalf("connect to broker: %v", err)
		}
		defer publisher.Close()
	}

	cartService := cartsvc.New(cartRepo, productRepo, logger)
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword})
		defer redisClient.Close()
		cartService.SetRedisClient(redisClient)
	}

	var checkoutService *checkoutsvc.Service
	var webhookService *webhooksvc.Service
	if publisher != nil {
		checkoutService = checkoutsvc.New(cartRepo, productRepo, addressRepo, userRepo, orderRepo, gatewayClient, publisher, logger)
		webhookService = webhooksvc.New(orderRepo, gatewayClient, cfg.WebhookSecret, cfg.AllowUnsignedWebhooks, publisher, logger)
	} else {
		checkoutService = checkoutsvc.New(cartRepo, productRepo, addressRepo, userRepo, orderRepo, gatewayClient, nil, logger)
		webhookService = webhooksvc.New(orderRepo, gatewayClient, cfg.WebhookSecret, cfg.AllowUnsignedWebhooks, nil, logger)
	}

	srv, err := httpserver.New(cfg.HTTPAddr, logger, dbpool, httpserver.Deps{
		CartSvc:     cartService,
		CheckoutSvc: checkoutService,
		WebhookSvc:  webhookService,
		Products:    productRepo,
		Addresses:   addressRepo,
		Orders:      orderRepo,
		Sessions:    sessionRepo,
	})
	if err != nil {
		logger.Fatalf("init server: %v", err)
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Printf("starting http server on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Printf("received signal %s, shutting down", sig)
	case err := <-serverErr:
		logger.Printf("server error: %v", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Printf("graceful shutdown failed: %v", err)
	} else {
		logger.Printf("server stopped")
	}
}
