/**
 * @description
 * This is the main entry point for the instruction-service. It initializes
 * configuration, the optional Redis rate limiter, the optional RabbitMQ
 * consumer and outcome producer, the evaluation service, and the HTTP
 * server, and wires everything together before starting the service.
 *
 * @dependencies
 * - log, net/http: Standard Go libraries for logging and HTTP serving.
 * - github.com/go-chi/chi/v5: For HTTP routing.
 * - github.com/redis/go-redis/v9: Redis client for rate limiting.
 * - internal/api, internal/app, internal/config: Internal packages.
 * - pkg/rabbitmq: Client for RabbitMQ.
 */

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

	"github.com/redis/go-redis/v9"

	"github.com/ledgerline/instruction-service/internal/api"
	"github.com/ledgerline/instruction-service/internal/app"
	"github.com/ledgerline/instruction-service/internal/config"
	"github.com/ledgerline/instruction-service/pkg/rabbitmq"
)

func main() {
	// Load application configuration from environment variables.
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("level=fatal component=bootstrap msg=\"config load failed\" err=%v", err)
	}

	log.Printf("level=info component=bootstrap msg=\"starting instruction-service\" port=%s", cfg.ServerPort)

	service := app.NewService()

	// The Redis rate limiter is optional; without it every request is
	// allowed through.
	var limiter *app.RedisEvaluationRateLimiter
	if cfg.RedisURL != "" {
		redisOpts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			log.Printf("level=warn component=bootstrap msg=\"redis url parse failed; rate limiting disabled\" err=%v", err)
		} else {
			redisClient := redis.NewClient(redisOpts)
			pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			if err := redisClient.Ping(pingCtx).Err(); err != nil {
				log.Printf("level=warn component=bootstrap msg=\"redis unavailable; rate limiting disabled\" err=%v", err)
			} else {
				limiter = app.NewRedisEvaluationRateLimiter(redisClient, cfg.RedisRateLimitPrefix)
				log.Println("level=info component=bootstrap msg=\"redis connected\"")
			}
			cancel()
		}
	}

	// RabbitMQ is optional: without it the service runs HTTP-only. If only
	// the producer fails, queued instructions are still evaluated and their
	// outcomes logged by the fallback publisher.
	if cfg.RabbitMQURL != "" {
		var publisher rabbitmq.Publisher
		producer, err := rabbitmq.NewEventProducer(cfg.RabbitMQURL)
		if err != nil {
			log.Printf("level=warn component=bootstrap msg=\"rabbitmq producer unavailable; using fallback\" err=%v", err)
			publisher = &rabbitmq.EventProducerFallback{}
		} else {
			defer producer.Close()
			publisher = producer
			log.Println("level=info component=bootstrap msg=\"rabbitmq producer connected\"")
		}

		consumer, err := rabbitmq.NewConsumer(cfg.RabbitMQURL)
		if err != nil {
			log.Printf("level=warn component=bootstrap msg=\"rabbitmq consumer unavailable; running http-only\" err=%v", err)
		} else {
			defer consumer.Close()
			instructionConsumer := app.NewInstructionConsumer(service, publisher, cfg.OutcomeExchange, cfg.OutcomeRoutingKey)
			if err := consumer.Consume(cfg.InstructionQueue, instructionConsumer.HandleMessage); err != nil {
				log.Printf("level=warn component=bootstrap msg=\"queue consume failed; running http-only\" queue=%s err=%v", cfg.InstructionQueue, err)
			} else {
				log.Printf("level=info component=bootstrap msg=\"consuming instruction queue\" queue=%s", cfg.InstructionQueue)
			}
		}
	}

	handlers := api.NewPaymentHandlers(service, limiter, cfg.EvaluateRateLimitPerMinute)
	router := api.PaymentRoutes(handlers)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start the server in a goroutine so shutdown signals can be handled.
	go func() {
		log.Printf("level=info component=bootstrap msg=\"http server listening\" addr=%s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("level=fatal component=bootstrap msg=\"http server failed\" err=%v", err)
		}
	}()

	// Wait for an interrupt signal, then shut down gracefully.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("level=info component=bootstrap msg=\"shutting down\"")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("level=error component=bootstrap msg=\"graceful shutdown failed\" err=%v", err)
	}
}
