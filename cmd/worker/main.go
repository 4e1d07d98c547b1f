package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/arinovich/bookwidget/config"
	"github.com/arinovich/bookwidget/internal/email"
	"github.com/arinovich/bookwidget/internal/kafka"
	"github.com/arinovich/bookwidget/internal/payment"
	"github.com/arinovich/bookwidget/internal/repository"
	"github.com/arinovich/bookwidget/internal/service/bookings"
	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	producer := kafka.NewProducer(cfg.Kafka.Brokers)
	gateway := payment.NewClient(cfg.Payment.BaseURL, cfg.Payment.APIKey, time.Duration(cfg.Payment.TimeoutSeconds)*time.Second)

	bookingRepo := repository.NewBookingRepository(pool)
	bookingService := bookings.NewBookingService(
		bookingRepo,
		gateway,
		producer,
		cfg.Kafka.BookingTopic,
		time.Duration(cfg.Booking.SlotHoldTTLMinutes)*time.Minute,
		cfg.Booking.Currency,
		bookings.WithNotificationsTopic(cfg.Kafka.NotificationsTopic),
	)

	consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.NotificationsTopic)
	defer consumer.Close()

	emailSender := email.NewSender()

	go func() {
		if err := consumer.Consume(ctx, func(ctx context.Context, event kafka.BookingEvent) error {
			return emailSender.Send(ctx, event)
		}); err != nil {
			log.Printf("consumer stopped: %v", err)
		}
	}()

	expireTicker := time.NewTicker(time.Duration(cfg.Worker.ExpirationSweepMinutes) * time.Minute)
	defer expireTicker.Stop()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case <-expireTicker.C:
			expired, err := bookingService.ExpirePendingBookings(ctx)
			if err != nil {
				log.Printf("expire bookings error: %v", err)
				continue
			}
			if len(expired) > 0 {
				log.Printf("expired %d bookings, released their slots", len(expired))
			}
		case s := <-sig:
			log.Printf("received signal %v, shutting down", s)
			return
		}
	}
}
