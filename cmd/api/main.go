package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/karbadigital/leads-api/cmd/mainconfig"
	"github.com/karbadigital/leads-api/internal/api/router"
	appconfig "github.com/karbadigital/leads-api/internal/config"
	httpmiddleware "github.com/karbadigital/leads-api/internal/http/middleware"
	"github.com/karbadigital/leads-api/internal/leads"
	"github.com/karbadigital/leads-api/internal/notify"
	"github.com/karbadigital/leads-api/internal/observability/metrics"
	"github.com/karbadigital/leads-api/internal/recaptcha"
	"github.com/karbadigital/leads-api/pkg/logging"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := appconfig.Load()

	logger := logging.New(cfg.LogLevel)
	logger.Info("starting leads API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	verifier := recaptcha.New(recaptcha.Config{
		Secret:    cfg.RecaptchaSecret,
		Threshold: cfg.RecaptchaThreshold,
		Timeout:   cfg.RecaptchaTimeout,
	}, logger.Named("recaptcha"))

	sender := buildEmailSender(cfg, logger)
	if sender == nil {
		logger.Warn("email channel not configured",
			"provider", cfg.EmailProvider,
			"misconfig_policy", cfg.NotifyMisconfigPolicy,
		)
	}
	mailer := notify.NewLeadMailer(sender, notify.LeadMailerConfig{
		To:     cfg.LeadRecipient,
		ToName: cfg.LeadRecipientName,
		Policy: notify.ParseMisconfigPolicy(cfg.NotifyMisconfigPolicy),
	}, logger.Named("notify"))

	leadMetrics := metrics.NewLeadMetrics(prometheus.DefaultRegisterer)
	leadsHandler := leads.NewHandler(verifier, mailer, leadMetrics, logger.Named("leads"))

	gate := httpmiddleware.NewOriginGate(cfg.AllowedOrigins(), cfg.CORSOriginSuffix)

	r := router.New(&router.Config{
		Logger:             logger,
		LeadsHandler:       leadsHandler,
		OriginGate:         gate,
		MetricsHandler:     promhttp.Handler(),
		RateLimitPerSecond: cfg.RateLimitPerSecond,
		RateLimitBurst:     cfg.RateLimitBurst,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}

// buildEmailSender picks the outbound channel from configuration. A nil
// return means no channel is configured; the mailer's misconfig policy
// decides what happens to accepted leads.
func buildEmailSender(cfg *appconfig.Config, logger *logging.Logger) notify.EmailSender {
	switch cfg.EmailProvider {
	case "ses":
		awsCfg, err := mainconfig.LoadAWSConfig(context.Background(), cfg)
		if err != nil {
			logger.Error("failed to load AWS config", "error", err)
			return nil
		}
		sender := notify.NewSESSender(sesv2.NewFromConfig(awsCfg), notify.SESConfig{
			FromEmail: cfg.SESFromEmail,
			FromName:  cfg.SESFromName,
		}, logger.Named("notify"))
		if sender == nil {
			return nil
		}
		return sender
	default:
		sender := notify.NewSendGridSender(notify.SendGridConfig{
			APIKey:    cfg.SendGridAPIKey,
			FromEmail: cfg.SendGridFromEmail,
			FromName:  cfg.SendGridFromName,
		}, logger.Named("notify"))
		if sender == nil {
			return nil
		}
		return sender
	}
}
