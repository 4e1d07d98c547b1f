package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/arinovich/bookwidget/api"
	"github.com/arinovich/bookwidget/config"
	"github.com/arinovich/bookwidget/internal/bootstrap"
	"github.com/arinovich/bookwidget/internal/cache"
	"github.com/arinovich/bookwidget/internal/discount"
	"github.com/arinovich/bookwidget/internal/kafka"
	"github.com/arinovich/bookwidget/internal/payment"
	"github.com/arinovich/bookwidget/internal/repository"
	"github.com/arinovich/bookwidget/internal/service/availability"
	"github.com/arinovich/bookwidget/internal/service/bookings"
	"github.com/arinovich/bookwidget/internal/service/catalog"
	"github.com/arinovich/bookwidget/internal/service/checkout"
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

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	redisCache := cache.NewRedisCache(
		cfg.Redis,
		time.Duration(cfg.Booking.ExperiencesCacheTTL)*time.Second,
		time.Duration(cfg.Booking.SessionTTLMinutes)*time.Minute,
	)
	producer := kafka.NewProducer(cfg.Kafka.Brokers)
	gateway := payment.NewClient(cfg.Payment.BaseURL, cfg.Payment.APIKey, time.Duration(cfg.Payment.TimeoutSeconds)*time.Second)

	experienceRepo := repository.NewExperienceRepository(pool)
	slotRepo := repository.NewSlotRepository(pool)
	promoRepo := repository.NewPromoCodeRepository(pool)
	giftCardRepo := repository.NewGiftCardRepository(pool)
	bookingRepo := repository.NewBookingRepository(pool)

	catalogService := catalog.NewCatalogService(experienceRepo, redisCache)
	availabilityService := availability.NewAvailabilityService(slotRepo, experienceRepo)
	bookingService := bookings.NewBookingService(
		bookingRepo,
		gateway,
		producer,
		cfg.Kafka.BookingTopic,
		time.Duration(cfg.Booking.SlotHoldTTLMinutes)*time.Minute,
		cfg.Booking.Currency,
		bookings.WithNotificationsTopic(cfg.Kafka.NotificationsTopic),
		bookings.WithDiscountSettlement(promoRepo, giftCardRepo),
	)
	checkoutService := checkout.NewCheckoutService(
		redisCache,
		experienceRepo,
		slotRepo,
		discount.NewPromoValidator(promoRepo),
		discount.NewGiftCardValidator(giftCardRepo),
		bookingService,
		time.Duration(cfg.Booking.SlotHoldTTLMinutes)*time.Minute,
		cfg.Booking.MaxQuantityPerType,
		checkout.WithSlotHolder(redisCache),
		checkout.WithSubmitTimeout(time.Duration(cfg.Booking.CheckoutTimeoutSeconds)*time.Second),
	)

	handlers := bootstrap.Handlers{
		Experiences: api.NewExperienceHandler(catalogService, availabilityService),
		Checkout:    api.NewCheckoutHandler(checkoutService),
		Embed:       api.NewEmbedHandler(catalogService, cfg.Embed.BaseURL),
	}

	if err := bootstrap.Run(ctx, cfg, handlers); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
