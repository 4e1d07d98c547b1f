package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/arinovich/bookwidget/internal/cart"
	"github.com/arinovich/bookwidget/internal/discount"
	"github.com/arinovich/bookwidget/internal/domain"
	"github.com/arinovich/bookwidget/internal/repository"
	"github.com/google/uuid"
)

type CheckoutUseCase interface {
	StartSession(ctx context.Context, orgID int64) (*Draft, error)
	GetSession(ctx context.Context, sessionID string) (*Draft, error)
	SelectExperience(ctx context.Context, sessionID string, experienceID int64) (*Draft, error)
	SelectSlot(ctx context.Context, sessionID string, slotID int64) (*Draft, error)
	AddTickets(ctx context.Context, sessionID string, ticketTypeID int64, quantity int) (*Draft, error)
	RemoveLine(ctx context.Context, sessionID, lineID string) (*Draft, error)
	ApplyPromoCode(ctx context.Context, sessionID, code string) (*Draft, error)
	RemovePromoCode(ctx context.Context, sessionID string) (*Draft, error)
	ApplyGiftCard(ctx context.Context, sessionID, code string) (*Draft, error)
	RemoveGiftCard(ctx context.Context, sessionID string) (*Draft, error)
	ProceedToCheckout(ctx context.Context, sessionID string) (*Draft, error)
	Submit(ctx context.Context, sessionID string, contact ContactInput, card PaymentInput) (*Draft, error)
	TryAgain(ctx context.Context, sessionID string) (*Draft, error)
	StartOver(ctx context.Context, sessionID string) (*Draft, error)
}

type SessionStore interface {
	GetSession(ctx context.Context, sessionID string) (*Draft, error)
	SaveSession(ctx context.Context, draft *Draft) error
	DeleteSession(ctx context.Context, sessionID string) error
}

type SlotHolder interface {
	AcquireSlotHold(ctx context.Context, slotID int64, sessionID string, ttl time.Duration) (bool, error)
	ReleaseSlotHold(ctx context.Context, slotID int64, sessionID string) error
}

type PromoValidator interface {
	Validate(ctx context.Context, orgID int64, code string, subtotalCents int64) (*discount.PromoResult, error)
}

type GiftCardValidator interface {
	Validate(ctx context.Context, orgID int64, code string, remainingCents int64) (*discount.GiftCardResult, error)
}

type Bookings interface {
	CreatePending(ctx context.Context, req domain.BookingRequest) (*domain.Booking, error)
	Confirm(ctx context.Context, reference string, contact domain.ContactDetails, card domain.CardDetails, amounts domain.BookingAmounts) (*domain.Booking, error)
	Cancel(ctx context.Context, reference string) (*domain.Booking, error)
}

var (
	ErrInvalidTransition = errors.New("operation not allowed in current checkout state")
	ErrSubmitInFlight    = errors.New("a submission is already in progress")
)

type CheckoutService struct {
	sessions      SessionStore
	experiences   repository.ExperienceRepository
	slots         repository.SlotRepository
	promos        PromoValidator
	giftCards     GiftCardValidator
	bookings      Bookings
	holder        SlotHolder
	holdTTL       time.Duration
	submitTimeout time.Duration
	maxPerType    int
}

type CheckoutServiceOption func(*CheckoutService)

func WithSlotHolder(holder SlotHolder) CheckoutServiceOption {
	return func(s *CheckoutService) {
		s.holder = holder
	}
}

func WithSubmitTimeout(timeout time.Duration) CheckoutServiceOption {
	return func(s *CheckoutService) {
		s.submitTimeout = timeout
	}
}

func NewCheckoutService(
	sessions SessionStore,
	experiences repository.ExperienceRepository,
	slots repository.SlotRepository,
	promos PromoValidator,
	giftCards GiftCardValidator,
	bookings Bookings,
	holdTTL time.Duration,
	maxPerType int,
	opts ...CheckoutServiceOption,
) *CheckoutService {
	service := &CheckoutService{
		sessions:    sessions,
		experiences: experiences,
		slots:       slots,
		promos:      promos,
		giftCards:   giftCards,
		bookings:    bookings,
		holdTTL:     holdTTL,
		maxPerType:  maxPerType,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

func (s *CheckoutService) StartSession(ctx context.Context, orgID int64) (*Draft, error) {
	now := time.Now()
	draft := &Draft{
		SessionID: uuid.NewString(),
		OrgID:     orgID,
		State:     StateBrowsing,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.sessions.SaveSession(ctx, draft); err != nil {
		return nil, err
	}
	return draft, nil
}

func (s *CheckoutService) GetSession(ctx context.Context, sessionID string) (*Draft, error) {
	return s.sessions.GetSession(ctx, sessionID)
}

func (s *CheckoutService) SelectExperience(ctx context.Context, sessionID string, experienceID int64) (*Draft, error) {
	draft, err := s.sessions.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !draft.State.before(StateDetails) {
		return nil, ErrInvalidTransition
	}

	experience, err := s.experiences.GetByID(ctx, experienceID)
	if err != nil {
		return nil, err
	}

	// Switching experience discards any slot and tickets priced for the old one.
	if draft.ExperienceID != experience.ID {
		draft.Cart.Reset()
		draft.SlotID = 0
		draft.SlotStartsAt = time.Time{}
	}
	draft.ExperienceID = experience.ID
	draft.ExperienceName = experience.Name
	draft.State = StateSlotSelection
	return s.save(ctx, draft)
}

func (s *CheckoutService) SelectSlot(ctx context.Context, sessionID string, slotID int64) (*Draft, error) {
	draft, err := s.sessions.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if draft.ExperienceID == 0 || !draft.State.before(StateDetails) {
		return nil, ErrInvalidTransition
	}

	slot, err := s.slots.GetByID(ctx, slotID)
	if err != nil {
		return nil, err
	}
	if slot.ExperienceID != draft.ExperienceID {
		return nil, domain.ErrSlotNotFound
	}
	if !slot.Available() {
		return nil, domain.ErrSlotSoldOut
	}

	draft.SlotID = slot.ID
	draft.SlotStartsAt = slot.StartsAt
	draft.State = StateTicketSelection
	return s.save(ctx, draft)
}

func (s *CheckoutService) AddTickets(ctx context.Context, sessionID string, ticketTypeID int64, quantity int) (*Draft, error) {
	draft, err := s.sessions.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if draft.State != StateTicketSelection && draft.State != StateCart {
		return nil, ErrInvalidTransition
	}
	if quantity <= 0 {
		return draft, nil
	}

	ticketType, err := s.experiences.GetTicketType(ctx, ticketTypeID)
	if err != nil {
		return nil, err
	}
	if ticketType.ExperienceID != draft.ExperienceID {
		return nil, domain.ErrTicketTypeNotFound
	}
	if s.maxPerType > 0 && countOfType(draft.Cart.Lines, ticketTypeID)+quantity > s.maxPerType {
		return nil, fmt.Errorf("at most %d tickets per type", s.maxPerType)
	}

	draft.Cart.AddTickets(ticketType.ID, ticketType.Name, ticketType.PriceCents, quantity)
	draft.State = StateCart
	return s.save(ctx, draft)
}

func (s *CheckoutService) RemoveLine(ctx context.Context, sessionID, lineID string) (*Draft, error) {
	draft, err := s.sessions.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if draft.State != StateTicketSelection && draft.State != StateCart {
		return nil, ErrInvalidTransition
	}

	draft.Cart.RemoveLine(lineID)
	if draft.Cart.Empty() {
		draft.State = StateTicketSelection
	}
	return s.save(ctx, draft)
}

// ApplyPromoCode validates the code against the current subtotal. On
// rejection the draft is returned exactly as it was, unsaved. A valid code
// replaces any previously applied one.
func (s *CheckoutService) ApplyPromoCode(ctx context.Context, sessionID, code string) (*Draft, error) {
	draft, err := s.sessions.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !draft.State.discountsAllowed() {
		return nil, ErrInvalidTransition
	}

	result, err := s.promos.Validate(ctx, draft.OrgID, code, draft.Cart.Subtotal())
	if err != nil {
		return nil, err
	}

	applied := cart.AppliedPromo{Code: result.Code}
	if result.Kind == domain.DiscountPercentage {
		applied.Kind = cart.PromoPercentage
		applied.Percent = result.Percent
	} else {
		applied.Kind = cart.PromoFixed
		applied.AmountCents = result.AmountCents
	}
	draft.Cart.ApplyPromo(applied)

	// Re-anchor the gift card against the new remainder.
	if g := draft.Cart.GiftCard; g != nil {
		draft.Cart.ApplyGiftCard(g.Code, g.BalanceCents)
	}
	return s.save(ctx, draft)
}

func (s *CheckoutService) RemovePromoCode(ctx context.Context, sessionID string) (*Draft, error) {
	draft, err := s.sessions.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !draft.State.discountsAllowed() {
		return nil, ErrInvalidTransition
	}

	draft.Cart.RemovePromo()
	if g := draft.Cart.GiftCard; g != nil {
		draft.Cart.ApplyGiftCard(g.Code, g.BalanceCents)
	}
	return s.save(ctx, draft)
}

func (s *CheckoutService) ApplyGiftCard(ctx context.Context, sessionID, code string) (*Draft, error) {
	draft, err := s.sessions.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !draft.State.discountsAllowed() {
		return nil, ErrInvalidTransition
	}

	totals := draft.Cart.Totals()
	result, err := s.giftCards.Validate(ctx, draft.OrgID, code, totals.SubtotalCents-totals.PromoDiscountCents)
	if err != nil {
		return nil, err
	}

	draft.Cart.ApplyGiftCard(result.Code, result.BalanceCents)
	return s.save(ctx, draft)
}

func (s *CheckoutService) RemoveGiftCard(ctx context.Context, sessionID string) (*Draft, error) {
	draft, err := s.sessions.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !draft.State.discountsAllowed() {
		return nil, ErrInvalidTransition
	}

	draft.Cart.RemoveGiftCard()
	return s.save(ctx, draft)
}

// ProceedToCheckout moves the session to the details step, holding the slot
// and creating a pending booking so the capacity survives until payment or
// expiry.
func (s *CheckoutService) ProceedToCheckout(ctx context.Context, sessionID string) (*Draft, error) {
	draft, err := s.sessions.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if draft.State != StateCart {
		return nil, ErrInvalidTransition
	}
	if draft.Cart.Empty() {
		return nil, domain.ErrEmptyCart
	}

	held := false
	if s.holder != nil {
		ok, err := s.holder.AcquireSlotHold(ctx, draft.SlotID, draft.SessionID, s.holdTTL)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, domain.ErrSlotHeld
		}
		held = true
	}

	booking, err := s.bookings.CreatePending(ctx, domain.BookingRequest{
		OrgID:        draft.OrgID,
		ExperienceID: draft.ExperienceID,
		SlotID:       draft.SlotID,
		PartySize:    draft.PartySize(),
		Email:        draft.Contact.Email,
	})
	if err != nil {
		if held {
			_ = s.holder.ReleaseSlotHold(ctx, draft.SlotID, draft.SessionID)
		}
		return nil, err
	}

	draft.BookingReference = booking.Reference
	draft.State = StateDetails
	return s.save(ctx, draft)
}

// Submit validates contact and payment input, then confirms the pending
// booking within the configured timeout. A decline or error moves the
// session to the failed state with the draft preserved for retry; a timeout
// is reported as an unknown outcome.
func (s *CheckoutService) Submit(ctx context.Context, sessionID string, contact ContactInput, card PaymentInput) (*Draft, error) {
	draft, err := s.sessions.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if draft.State != StateDetails {
		return nil, ErrInvalidTransition
	}
	if draft.Processing {
		return nil, ErrSubmitInFlight
	}
	if err := validateContact(contact); err != nil {
		return nil, err
	}
	if err := validatePayment(card); err != nil {
		return nil, err
	}

	draft.Contact = contact
	draft.Processing = true
	if _, err := s.save(ctx, draft); err != nil {
		return nil, err
	}

	submitCtx := ctx
	if s.submitTimeout > 0 {
		var cancel context.CancelFunc
		submitCtx, cancel = context.WithTimeout(ctx, s.submitTimeout)
		defer cancel()
	}

	totals := draft.Cart.Totals()
	amounts := domain.BookingAmounts{
		SubtotalCents:         totals.SubtotalCents,
		PromoDiscountCents:    totals.PromoDiscountCents,
		GiftCardDiscountCents: totals.GiftCardDiscountCents,
		TotalCents:            totals.TotalCents,
	}
	if draft.Cart.Promo != nil {
		amounts.PromoCode = draft.Cart.Promo.Code
	}
	if draft.Cart.GiftCard != nil {
		amounts.GiftCardCode = draft.Cart.GiftCard.Code
	}

	_, err = s.bookings.Confirm(submitCtx, draft.BookingReference,
		domain.ContactDetails{Name: contact.Name, Email: contact.Email, Phone: contact.Phone},
		domain.CardDetails{Number: card.CardNumber, Expiry: card.Expiry, CVV: card.CVV},
		amounts)

	draft.Processing = false
	if err != nil {
		draft.State = StateFailed
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(submitCtx.Err(), context.DeadlineExceeded) {
			draft.FailureReason = domain.ErrOutcomeUnknown.Error()
		} else {
			draft.FailureReason = err.Error()
		}
		return s.save(ctx, draft)
	}

	draft.State = StateSuccess
	draft.FailureReason = ""
	if s.holder != nil {
		_ = s.holder.ReleaseSlotHold(ctx, draft.SlotID, draft.SessionID)
	}
	return s.save(ctx, draft)
}

// TryAgain re-enters the details step after a failed submission. The draft,
// including all ticket selections and discounts, is retained.
func (s *CheckoutService) TryAgain(ctx context.Context, sessionID string) (*Draft, error) {
	draft, err := s.sessions.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if draft.State != StateFailed {
		return nil, ErrInvalidTransition
	}

	draft.State = StateDetails
	draft.FailureReason = ""
	return s.save(ctx, draft)
}

// StartOver abandons the session from any state: the pending booking is
// cancelled, the slot hold released and the cart fully reset.
func (s *CheckoutService) StartOver(ctx context.Context, sessionID string) (*Draft, error) {
	draft, err := s.sessions.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if draft.BookingReference != "" && draft.State != StateSuccess {
		_, _ = s.bookings.Cancel(ctx, draft.BookingReference)
	}
	if s.holder != nil && draft.SlotID != 0 {
		_ = s.holder.ReleaseSlotHold(ctx, draft.SlotID, draft.SessionID)
	}

	draft.Cart.Reset()
	draft.ExperienceID = 0
	draft.ExperienceName = ""
	draft.SlotID = 0
	draft.SlotStartsAt = time.Time{}
	draft.Contact = ContactInput{}
	draft.BookingReference = ""
	draft.FailureReason = ""
	draft.Processing = false
	draft.State = StateBrowsing
	return s.save(ctx, draft)
}

func (s *CheckoutService) save(ctx context.Context, draft *Draft) (*Draft, error) {
	draft.UpdatedAt = time.Now()
	if err := s.sessions.SaveSession(ctx, draft); err != nil {
		return nil, err
	}
	return draft, nil
}

func countOfType(lines []cart.Line, ticketTypeID int64) int {
	n := 0
	for _, l := range lines {
		if l.TicketTypeID == ticketTypeID {
			n++
		}
	}
	return n
}

func (st State) before(other State) bool {
	order := map[State]int{
		StateBrowsing:        0,
		StateSlotSelection:   1,
		StateTicketSelection: 2,
		StateCart:            3,
		StateDetails:         4,
		StateFailed:          4,
		StateSuccess:         5,
	}
	return order[st] < order[other]
}

func (st State) discountsAllowed() bool {
	return st == StateCart || st == StateDetails
}

func validateContact(c ContactInput) error {
	if strings.TrimSpace(c.Name) == "" {
		return errors.New("name is required")
	}
	email := strings.TrimSpace(c.Email)
	if email == "" || !strings.Contains(email, "@") {
		return errors.New("a valid email is required")
	}
	if strings.TrimSpace(c.Phone) == "" {
		return errors.New("phone is required")
	}
	return nil
}

func validatePayment(p PaymentInput) error {
	digits := strings.ReplaceAll(strings.TrimSpace(p.CardNumber), " ", "")
	if len(digits) < 13 {
		return errors.New("card number must have at least 13 digits")
	}
	for _, r := range digits {
		if r < '0' || r > '9' {
			return errors.New("card number must contain only digits")
		}
	}
	if strings.TrimSpace(p.Expiry) == "" {
		return errors.New("expiry is required")
	}
	if len(strings.TrimSpace(p.CVV)) < 3 {
		return errors.New("cvv must have at least 3 digits")
	}
	return nil
}

var _ CheckoutUseCase = (*CheckoutService)(nil)
