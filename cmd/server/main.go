package main

import (
	"context"
	"log"
	"net/http"
	"os"

	"oakmart-be/internal/checkout"
	"oakmart-be/internal/config"
	"oakmart-be/internal/db"
	"oakmart-be/internal/logger"
	"oakmart-be/internal/middleware"
	"oakmart-be/internal/order"
	"oakmart-be/internal/qualpay"
	"oakmart-be/internal/vault"
	"oakmart-be/internal/webhook"

	"go.uber.org/zap"
)

func main() {
	cfg := config.LoadConfig()
	logger.Init(cfg.AppEnv)
	defer logger.Sync()

	database := db.InitDB(cfg)
	defer database.Close()

	gateway := qualpay.NewClient(cfg.Qualpay)
	vaultManager := vault.NewManager(gateway)

	orderRepo := order.NewRepository(database)
	orderSvc := order.NewService(orderRepo)

	checkoutSvc := checkout.NewService(cfg.Qualpay, gateway, gateway, vaultManager, orderSvc, checkout.SystemClock{})
	checkoutHandler := checkout.NewHandler(checkoutSvc, vaultManager)

	webhookSecret := cfg.Qualpay.WebhookSecret
	if notificationURL := os.Getenv("QUALPAY_WEBHOOK_URL"); notificationURL != "" {
		registered, err := webhook.NewRegistrar(gateway).Ensure(context.Background(), cfg.Qualpay.WebhookID, notificationURL)
		if err != nil {
			logger.L().Warn("webhook registration failed, inbound events disabled", zap.Error(err))
		} else if registered.Secret != "" {
			webhookSecret = registered.Secret
		}
	}

	verifier := webhook.NewVerifier(webhookSecret)
	dispatcher := webhook.NewDispatcher(orderSvc, gateway)
	webhookHandler := webhook.NewHandler(verifier, dispatcher)

	mux := http.NewServeMux()
	mux.HandleFunc("POST /checkout/pay", checkoutHandler.Pay)
	mux.HandleFunc("POST /checkout/recurring", checkoutHandler.PayRecurring)
	mux.HandleFunc("POST /checkout/capture", checkoutHandler.Capture)
	mux.HandleFunc("POST /checkout/refund", checkoutHandler.Refund)
	mux.HandleFunc("POST /checkout/void", checkoutHandler.Void)
	mux.HandleFunc("POST /checkout/cancel-recurring", checkoutHandler.CancelRecurring)
	mux.HandleFunc("GET /checkout/transient-key", checkoutHandler.TransientKey)
	mux.HandleFunc("GET /cards", checkoutHandler.ListCards)
	mux.HandleFunc("POST /cards", checkoutHandler.AddCard)
	mux.HandleFunc("DELETE /cards", checkoutHandler.DeleteCard)
	mux.Handle("POST /webhook/qualpay", webhookHandler)

	srv := middleware.LoggingMiddleware(
		middleware.AuthMiddleware(
			middleware.RateLimitMiddleware(mux),
		),
	)

	logger.L().Info("server listening", zap.String("port", cfg.AppPort))
	log.Fatal(http.ListenAndServe(":"+cfg.AppPort, srv))
}
