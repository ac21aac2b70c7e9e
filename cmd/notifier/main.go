package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/readysetcloud/newsletter-service-sub010/internal/application/pipeline"
	"github.com/readysetcloud/newsletter-service-sub010/internal/config"
	"github.com/readysetcloud/newsletter-service-sub010/internal/infrastructure/dynamo"
	"github.com/readysetcloud/newsletter-service-sub010/internal/infrastructure/realtime"
	s3infra "github.com/readysetcloud/newsletter-service-sub010/internal/infrastructure/s3"
	"github.com/readysetcloud/newsletter-service-sub010/internal/infrastructure/sns"
	"github.com/readysetcloud/newsletter-service-sub010/internal/pkg/retry"
	"github.com/readysetcloud/newsletter-service-sub010/internal/transport/bus"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading from environment")
	}

	cfg := config.Load()

	// Bootstrap the notifications table (creates it if it doesn't exist).
	dynamoClient := dynamo.NewClient(cfg)
	dynamo.Bootstrap(context.Background(), dynamoClient, cfg.DynamoTableNotifications)

	redisClient, err := realtime.NewRedisClient(context.Background(), cfg.RedisAddr, cfg.RedisPassword)
	if err != nil {
		log.Fatalf("redis connection failed: %v", err)
	}

	vendor := realtime.NewVendor(cfg.RealtimeTokenSecret, cfg.RealtimeTokenTTL)

	// SNS operator alerts are optional; missing config disables them.
	var alerts sns.AlertSender
	if sender, err := sns.NewSender(cfg); err == nil {
		alerts = sender
	} else {
		log.Printf("WARN: SNS alert sender not available: %v", err)
	}

	pipelineSvc := pipeline.NewService(pipeline.ServiceDeps{
		Store:       dynamo.NewNotificationRepo(dynamoClient, cfg.DynamoTableNotifications),
		Credentials: vendor,
		Publisher:   realtime.NewPublisher(redisClient, vendor),
		Archive:     s3infra.NewArchive(s3infra.NewClient(cfg), cfg.S3DeadLetterBucket),
		Alerts:      alerts,

		Mode:            pipeline.Mode(cfg.PipelineMode),
		NotificationTTL: cfg.NotificationTTL,
		PublishTimeout:  cfg.PublishTimeout,
		Retry: retry.Policy{
			MaxAttempts: cfg.RetryMaxAttempts,
			BaseDelay:   cfg.RetryBaseDelay,
			MaxDelay:    8 * time.Second,
			Jitter:      cfg.RetryJitter,
		},
	})

	consumer := bus.NewConsumer(cfg.KafkaBrokers, cfg.KafkaTopic, cfg.KafkaGroupID, pipelineSvc)

	// Prometheus metrics endpoint.
	metricsSrv := &http.Server{
		Addr:    ":" + cfg.MetricsPort,
		Handler: promhttp.Handler(),
	}
	go func() {
		log.Printf("Metrics listening on :%s", cfg.MetricsPort)
		if err := metricsSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("metrics server error: %v", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() { errCh <- consumer.Run(ctx) }()

	select {
	case <-ctx.Done():
		log.Println("Shutting down consumer...")
	case err := <-errCh:
		if err != nil {
			log.Printf("consumer error: %v", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = metricsSrv.Shutdown(shutdownCtx)
	_ = consumer.Close()
	_ = redisClient.Close()
	log.Println("Consumer stopped")
}
