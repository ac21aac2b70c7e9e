package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/readysetcloud/newsletter-service-sub010/internal/config"
	"github.com/readysetcloud/newsletter-service-sub010/internal/infrastructure/dynamo"
	jwtinfra "github.com/readysetcloud/newsletter-service-sub010/internal/infrastructure/jwt"
	"github.com/readysetcloud/newsletter-service-sub010/internal/infrastructure/realtime"
	s3infra "github.com/readysetcloud/newsletter-service-sub010/internal/infrastructure/s3"
	"github.com/readysetcloud/newsletter-service-sub010/internal/infrastructure/sns"
	transporthttp "github.com/readysetcloud/newsletter-service-sub010/internal/transport/http"
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

	deps := &transporthttp.Deps{
		NotificationRepo: dynamo.NewNotificationRepo(dynamoClient, cfg.DynamoTableNotifications),
		Vendor:           vendor,
		Publisher:        realtime.NewPublisher(redisClient, vendor),
		Archive:          s3infra.NewArchive(s3infra.NewClient(cfg), cfg.S3DeadLetterBucket),
		Alerts:           alerts,
		JWTProvider:      jwtinfra.NewProvider(cfg.PlatformJWTSecret),
	}

	router := transporthttp.NewRouter(cfg, deps)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.AppPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on :%s (env=%s)", cfg.AppPort, cfg.AppEnv)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("forced shutdown: %v", err)
	}
	_ = redisClient.Close()
	log.Println("Server stopped")
}
