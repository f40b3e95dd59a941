package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"github.com/nats-io/nats.go"

	"github.com/vinomercato/marketplace/internal/config"
	"github.com/vinomercato/marketplace/internal/delivery/events"
	"github.com/vinomercato/marketplace/internal/pkg/database"
	"github.com/vinomercato/marketplace/internal/pkg/logger"
	"github.com/vinomercato/marketplace/internal/repository/postgres"
	"github.com/vinomercato/marketplace/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	appLogger := logger.New(cfg.Env)
	appLogger.Info("Starting rating worker...")

	appLogger.Info("Connecting to PostgreSQL...")
	db, err := database.WaitForDB(cfg, 10, 2*time.Second)
	if err != nil {
		appLogger.Fatal("Failed to connect to database", err)
	}
	defer db.Close()
	appLogger.Info("Connected to database")

	sellerRepo := postgres.NewSellerRepository(db)
	calculator := worker.NewCalculator(db, sellerRepo, appLogger)
	ratingWorker := worker.NewRatingWorker(calculator, appLogger)

	appLogger.Info("Connecting to NATS JetStream...")
	nc, err := nats.Connect(cfg.NATS.URL)
	if err != nil {
		appLogger.Fatal("Failed to connect to NATS", err)
	}
	defer nc.Close()

	js, err := nc.JetStream()
	if err != nil {
		appLogger.Fatal("Failed to create JetStream context", err)
	}

	appLogger.WithFields(map[string]any{
		"url": cfg.NATS.URL,
	}).Info("Connected to NATS JetStream")

	appLogger.Info("Initializing JetStream stream and consumer...")
	streamConfig := events.NewStreamConfig(js, appLogger)

	if err := streamConfig.EnsureStream(); err != nil {
		appLogger.Fatal("Failed to ensure stream", err)
	}

	if err := streamConfig.EnsureConsumer(); err != nil {
		appLogger.Fatal("Failed to ensure consumer", err)
	}

	// Pull from the durable consumer; acks track delivery per message
	sub, err := js.PullSubscribe(events.StreamSubjects, events.ConsumerName, nats.ManualAck())
	if err != nil {
		appLogger.Fatal("Failed to subscribe to JetStream consumer", err)
	}
	defer func() {
		if err := sub.Unsubscribe(); err != nil {
			appLogger.Error("Failed to unsubscribe from JetStream", err)
		}
	}()

	appLogger.WithFields(map[string]any{
		"stream":   events.StreamName,
		"consumer": events.ConsumerName,
	}).Info("Subscribed to JetStream consumer")

	go func() {
		for {
			msgs, err := sub.Fetch(10, nats.MaxWait(5*time.Second))
			if err != nil {
				if err == nats.ErrTimeout {
					continue
				}
				appLogger.WithFields(map[string]any{
					"error": err.Error(),
				}).Error("Failed to fetch messages from JetStream", err)
				time.Sleep(5 * time.Second)
				continue
			}

			for _, msg := range msgs {
				if err := ratingWorker.HandleEvent(msg.Data); err != nil {
					appLogger.WithFields(map[string]any{
						"error": err.Error(),
					}).Error("Failed to handle event", err)

					// NACK redelivers with backoff until the delivery
					// limit, then the message is dropped; the next review
					// event recomputes the same seller anyway
					if nackErr := msg.Nak(); nackErr != nil {
						appLogger.WithFields(map[string]any{
							"error": nackErr.Error(),
						}).Error("Failed to NACK message", nackErr)
					}
					continue
				}

				if ackErr := msg.Ack(); ackErr != nil {
					appLogger.WithFields(map[string]any{
						"error": ackErr.Error(),
					}).Error("Failed to ACK message", ackErr)
				}
			}
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	<-sigCh
	appLogger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := ratingWorker.Shutdown(shutdownCtx); err != nil {
		appLogger.WithFields(map[string]any{
			"error": err.Error(),
		}).Error("Error during shutdown", err)
	}

	appLogger.Info("Rating worker stopped")
}
