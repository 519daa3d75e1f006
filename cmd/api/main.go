package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"

	"charity-donation-backend/internal/client"
	"charity-donation-backend/internal/config"
	"charity-donation-backend/internal/fees"
	"charity-donation-backend/internal/handler"
	"charity-donation-backend/internal/mail"
	"charity-donation-backend/internal/provider"
	"charity-donation-backend/internal/repository"
	"charity-donation-backend/internal/server"
	"charity-donation-backend/internal/service"
)

func setupLogger(cfg *config.Log) {
	level := slog.LevelInfo
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	var h slog.Handler
	if cfg.Format == "text" {
		h = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	} else {
		h = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	}
	slog.SetDefault(slog.New(h))
}

func main() {
	// load .env into os.Environ
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found (ok in prod)")
	}

	cfg := &config.Config{}
	if err := env.Parse(cfg); err != nil {
		fmt.Printf("Failed to parse config: %v\n", err)
		os.Exit(1)
	}

	setupLogger(&cfg.Log)

	db := client.InitDBClient(cfg.DatabaseURL)

	estimator, err := fees.NewEstimator(&cfg.Fees)
	if err != nil {
		slog.Error("build fee table", "err", err)
		os.Exit(1)
	}

	exchange := client.NewExchangeClient(&cfg.Exchange)
	stripeClient := client.NewStripeClient(&cfg.Stripe)
	paypalClient := client.NewPaypalClient(&cfg.Paypal)
	braintreeClient := client.NewBraintreeClient(&cfg.Braintree)
	pakClient := client.NewPakGatewayClient(&cfg.PakGateway)

	registry := provider.NewRegistry(
		provider.NewStripe(stripeClient),
		provider.NewPaypal(paypalClient),
		provider.NewApplePay(braintreeClient),
		provider.NewGooglePay(braintreeClient),
		provider.NewPakGateway(pakClient),
	)

	donationRepo := repository.NewDonationRepository(db)
	caseRepo := repository.NewCaseRepository(db)
	webhookEventRepo := repository.NewWebhookEventRepository(db)

	mailer := mail.NewSMTPMailer(&cfg.SMTP)
	dispatcher := mail.NewAsyncDispatcher(mailer)

	ledger := service.NewLedgerService(donationRepo)
	aggregator := service.NewAggregator(caseRepo, donationRepo, exchange)
	reconciler := service.NewReconciler(ledger, caseRepo, webhookEventRepo, aggregator, dispatcher, exchange)
	checkout := service.NewCheckoutService(ledger, registry, estimator, reconciler, cfg.BaseURL)
	cases := service.NewCaseService(caseRepo)

	feeHandler := handler.NewFeeHandler(estimator, cfg.Exchange.BaseCurrency)
	webhookHandler := handler.NewWebhookHandler(registry, reconciler)

	srv := server.NewServer(cfg, ledger, checkout, cases, aggregator, feeHandler, webhookHandler)

	sweepCtx, sweepCancel := context.WithCancel(context.Background())
	defer sweepCancel()

	// heal missed aggregation triggers and keep the dedup table bounded
	go aggregator.RunSweep(sweepCtx, 15*time.Minute)
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-sweepCtx.Done():
				return
			case <-ticker.C:
				if err := reconciler.PurgeDedupWindow(sweepCtx); err != nil {
					slog.Error("purge webhook dedup window", "err", err)
				}
			}
		}
	}()

	serverAddr := cfg.HTTP.Host + ":" + cfg.HTTP.Port

	slog.Info("starting HTTP server", "addr", serverAddr)
	go func() {
		if err := srv.Start(serverAddr); err != nil && err != http.ErrServerClosed {
			slog.Error("HTTP server error", "err", err)
			os.Exit(1)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	<-sigChan
	slog.Info("signal received, starting graceful shutdown")

	sweepCancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "err", err)
		os.Exit(1)
	}
}
