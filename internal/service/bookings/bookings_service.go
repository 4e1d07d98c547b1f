package bookings

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/arinovich/bookwidget/internal/domain"
	"github.com/arinovich/bookwidget/internal/kafka"
	"github.com/arinovich/bookwidget/internal/payment"
	"github.com/arinovich/bookwidget/internal/repository"
	"github.com/google/uuid"
)

type BookingUseCase interface {
	CreatePending(ctx context.Context, req domain.BookingRequest) (*domain.Booking, error)
	Confirm(ctx context.Context, reference string, contact domain.ContactDetails, card domain.CardDetails, amounts domain.BookingAmounts) (*domain.Booking, error)
	Cancel(ctx context.Context, reference string) (*domain.Booking, error)
	ExpirePendingBookings(ctx context.Context) ([]domain.Booking, error)
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

// PromoRedeemer and GiftCardDebitor settle applied discounts once a booking
// is paid. Both are optional collaborators.
type PromoRedeemer interface {
	IncrementUsage(ctx context.Context, orgID int64, code string) error
}

type GiftCardDebitor interface {
	Debit(ctx context.Context, orgID int64, code string, amountCents int64) error
}

type BookingService struct {
	bookings           repository.BookingRepository
	gateway            payment.Gateway
	producer           Producer
	promos             PromoRedeemer
	giftCards          GiftCardDebitor
	bookingTopic       string
	notificationsTopic string
	holdTTL            time.Duration
	currency           string
}

type BookingServiceOption func(*BookingService)

func WithNotificationsTopic(topic string) BookingServiceOption {
	return func(s *BookingService) {
		s.notificationsTopic = topic
	}
}

func WithDiscountSettlement(promos PromoRedeemer, giftCards GiftCardDebitor) BookingServiceOption {
	return func(s *BookingService) {
		s.promos = promos
		s.giftCards = giftCards
	}
}

func NewBookingService(
	bookings repository.BookingRepository,
	gateway payment.Gateway,
	producer Producer,
	bookingTopic string,
	holdTTL time.Duration,
	currency string,
	opts ...BookingServiceOption,
) *BookingService {
	service := &BookingService{
		bookings:     bookings,
		gateway:      gateway,
		producer:     producer,
		bookingTopic: bookingTopic,
		holdTTL:      holdTTL,
		currency:     currency,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

// CreatePending places a capacity hold for an in-progress checkout. The
// booking expires and releases its seats if it is never confirmed.
func (s *BookingService) CreatePending(ctx context.Context, req domain.BookingRequest) (*domain.Booking, error) {
	if req.PartySize <= 0 {
		return nil, errors.New("party size must be positive")
	}

	booking := &domain.Booking{
		OrgID:        req.OrgID,
		ExperienceID: req.ExperienceID,
		SlotID:       req.SlotID,
		PartySize:    req.PartySize,
		Email:        req.Email,
		Reference:    uuid.NewString(),
		ExpiresAt:    time.Now().Add(s.holdTTL),
	}

	if err := s.bookings.CreatePending(ctx, booking); err != nil {
		return nil, err
	}

	booking.Status = domain.BookingStatusPending
	if err := s.publish(ctx, "booking_created", booking); err != nil {
		log.Printf("WARNING: failed to publish booking_created event for booking %s: %v", booking.Reference, err)
	}
	return booking, nil
}

// Confirm charges the card and finalizes the pending booking with its
// monetary breakdown. Applied discounts are settled after the charge
// succeeds.
func (s *BookingService) Confirm(ctx context.Context, reference string, contact domain.ContactDetails, card domain.CardDetails, amounts domain.BookingAmounts) (*domain.Booking, error) {
	current, err := s.bookings.GetByReference(ctx, reference)
	if err != nil {
		return nil, err
	}
	if current.Status != domain.BookingStatusPending {
		return nil, domain.ErrBookingNotPending
	}

	var paymentRef string
	if amounts.TotalCents > 0 {
		result, err := s.gateway.Charge(ctx, payment.ChargeRequest{
			AmountCents: amounts.TotalCents,
			Currency:    s.currency,
			CardNumber:  card.Number,
			Expiry:      card.Expiry,
			CVV:         card.CVV,
			Description: "booking " + reference,
			Reference:   reference,
		})
		if err != nil {
			return nil, err
		}
		paymentRef = result.TransactionID
	}

	updated, err := s.bookings.Confirm(ctx, reference, paymentRef, contact, amounts)
	if err != nil {
		return nil, err
	}

	s.settleDiscounts(ctx, updated.OrgID, amounts)

	if err := s.publish(ctx, "booking_confirmed", updated); err != nil {
		log.Printf("WARNING: failed to publish booking_confirmed event for booking %s: %v", updated.Reference, err)
	}
	return updated, nil
}

func (s *BookingService) Cancel(ctx context.Context, reference string) (*domain.Booking, error) {
	current, err := s.bookings.GetByReference(ctx, reference)
	if err != nil {
		return nil, err
	}
	if current.Status == domain.BookingStatusCancelled || current.Status == domain.BookingStatusExpired {
		return current, nil
	}

	updated, err := s.bookings.UpdateStatus(ctx, reference, domain.BookingStatusCancelled)
	if err != nil {
		return nil, err
	}
	_ = s.bookings.ReleaseSlot(ctx, updated.SlotID, updated.PartySize)
	if err := s.publish(ctx, "booking_cancelled", updated); err != nil {
		log.Printf("WARNING: failed to publish booking_cancelled event for booking %s: %v", updated.Reference, err)
	}
	return updated, nil
}

// ExpirePendingBookings sweeps abandoned checkouts and releases their seats.
func (s *BookingService) ExpirePendingBookings(ctx context.Context) ([]domain.Booking, error) {
	expired, err := s.bookings.ExpirePendingBefore(ctx, time.Now())
	if err != nil {
		return nil, err
	}
	for _, b := range expired {
		_ = s.bookings.ReleaseSlot(ctx, b.SlotID, b.PartySize)
		_ = s.publish(ctx, "booking_expired", &b)
	}
	return expired, nil
}

func (s *BookingService) settleDiscounts(ctx context.Context, orgID int64, amounts domain.BookingAmounts) {
	if s.promos != nil && amounts.PromoCode != "" {
		if err := s.promos.IncrementUsage(ctx, orgID, amounts.PromoCode); err != nil {
			log.Printf("WARNING: failed to record promo usage for %s: %v", amounts.PromoCode, err)
		}
	}
	if s.giftCards != nil && amounts.GiftCardCode != "" && amounts.GiftCardDiscountCents > 0 {
		if err := s.giftCards.Debit(ctx, orgID, amounts.GiftCardCode, amounts.GiftCardDiscountCents); err != nil {
			log.Printf("WARNING: failed to debit gift card %s: %v", amounts.GiftCardCode, err)
		}
	}
}

func (s *BookingService) publish(ctx context.Context, eventType string, booking *domain.Booking) error {
	if s.producer == nil || s.bookingTopic == "" {
		return nil
	}
	event := kafka.BookingEvent{
		Type:         eventType,
		Reference:    booking.Reference,
		ExperienceID: booking.ExperienceID,
		SlotID:       booking.SlotID,
		PartySize:    booking.PartySize,
		Email:        booking.Email,
		Status:       string(booking.Status),
		TotalCents:   booking.TotalCents,
		ExpiresAt:    booking.ExpiresAt,
	}
	if err := s.producer.Publish(ctx, s.bookingTopic, booking.Reference, event); err != nil {
		return err
	}
	if s.notificationsTopic != "" {
		return s.producer.Publish(ctx, s.notificationsTopic, booking.Reference, event)
	}
	return nil
}

var _ BookingUseCase = (*BookingService)(nil)
