// Package discount validates promo codes and gift cards against an
// organization's configured discounts. Both validators share the input shape
// (org scope, code, current subtotal) and the rejection taxonomy. When no
// organization scope is supplied they fall back to a fixed in-memory demo
// table so the booking flow works without a backend.
package discount

import (
	"context"
	"strings"
	"time"

	"github.com/arinovich/bookwidget/internal/domain"
)

type Reason string

const (
	ReasonInvalidCode       Reason = "invalid-code"
	ReasonExpired           Reason = "expired"
	ReasonNotYetActive      Reason = "not-yet-active"
	ReasonUsageLimitReached Reason = "usage-limit-reached"
	ReasonBelowMinimumOrder Reason = "below-minimum-order"
	ReasonNoBalance         Reason = "no-balance"
)

// RejectionError reports why a code was not accepted. The cart is left
// untouched by the caller on rejection.
type RejectionError struct {
	Reason Reason
}

func (e *RejectionError) Error() string {
	return string(e.Reason)
}

func reject(r Reason) error {
	return &RejectionError{Reason: r}
}

// PromoResult is a successful promo validation: the discount terms plus the
// amount they are worth against the submitted subtotal.
type PromoResult struct {
	Code          string
	Kind          domain.DiscountKind
	AmountCents   int64
	Percent       int64
	DiscountCents int64
}

// GiftCardResult is a successful gift-card validation.
type GiftCardResult struct {
	Code               string
	BalanceCents       int64
	AmountAppliedCents int64
}

type PromoRepository interface {
	FindByCode(ctx context.Context, orgID int64, code string) (*domain.PromoCode, error)
}

type GiftCardRepository interface {
	FindByCode(ctx context.Context, orgID int64, code string) (*domain.GiftCard, error)
}

type PromoValidator struct {
	repo PromoRepository
	now  func() time.Time
}

func NewPromoValidator(repo PromoRepository) *PromoValidator {
	return &PromoValidator{repo: repo, now: time.Now}
}

func (v *PromoValidator) Validate(ctx context.Context, orgID int64, code string, subtotalCents int64) (*PromoResult, error) {
	code = strings.ToUpper(strings.TrimSpace(code))

	promo, err := v.lookup(ctx, orgID, code)
	if err != nil {
		return nil, err
	}

	now := v.now()
	switch {
	case promo == nil || !promo.Active:
		return nil, reject(ReasonInvalidCode)
	case promo.ValidFrom != nil && now.Before(*promo.ValidFrom):
		return nil, reject(ReasonNotYetActive)
	case promo.ValidTo != nil && now.After(*promo.ValidTo):
		return nil, reject(ReasonExpired)
	case promo.UsageLimit > 0 && promo.TimesUsed >= promo.UsageLimit:
		return nil, reject(ReasonUsageLimitReached)
	case promo.MinOrderCents > 0 && subtotalCents < promo.MinOrderCents:
		return nil, reject(ReasonBelowMinimumOrder)
	}

	result := &PromoResult{
		Code:        promo.Code,
		Kind:        promo.Kind,
		AmountCents: promo.AmountCents,
		Percent:     promo.Percent,
	}
	if promo.Kind == domain.DiscountPercentage {
		result.DiscountCents = percentageOf(subtotalCents, promo.Percent)
	} else {
		result.DiscountCents = promo.AmountCents
	}
	if result.DiscountCents > subtotalCents {
		result.DiscountCents = subtotalCents
	}
	return result, nil
}

func (v *PromoValidator) lookup(ctx context.Context, orgID int64, code string) (*domain.PromoCode, error) {
	if v.repo == nil || orgID == 0 {
		return demoPromo(code), nil
	}
	promo, err := v.repo.FindByCode(ctx, orgID, code)
	if err != nil {
		if err == domain.ErrPromoCodeNotFound {
			return nil, reject(ReasonInvalidCode)
		}
		return nil, err
	}
	return promo, nil
}

type GiftCardValidator struct {
	repo GiftCardRepository
	now  func() time.Time
}

func NewGiftCardValidator(repo GiftCardRepository) *GiftCardValidator {
	return &GiftCardValidator{repo: repo, now: time.Now}
}

func (v *GiftCardValidator) Validate(ctx context.Context, orgID int64, code string, remainingCents int64) (*GiftCardResult, error) {
	code = strings.ToUpper(strings.TrimSpace(code))

	card, err := v.lookup(ctx, orgID, code)
	if err != nil {
		return nil, err
	}

	switch {
	case card == nil || !card.Active:
		return nil, reject(ReasonInvalidCode)
	case card.ExpiresAt != nil && v.now().After(*card.ExpiresAt):
		return nil, reject(ReasonExpired)
	case card.BalanceCents <= 0:
		return nil, reject(ReasonNoBalance)
	}

	applied := card.BalanceCents
	if remainingCents < applied {
		applied = remainingCents
	}
	if applied < 0 {
		applied = 0
	}
	return &GiftCardResult{
		Code:               card.Code,
		BalanceCents:       card.BalanceCents,
		AmountAppliedCents: applied,
	}, nil
}

func (v *GiftCardValidator) lookup(ctx context.Context, orgID int64, code string) (*domain.GiftCard, error) {
	if v.repo == nil || orgID == 0 {
		return demoGiftCard(code), nil
	}
	card, err := v.repo.FindByCode(ctx, orgID, code)
	if err != nil {
		if err == domain.ErrGiftCardNotFound {
			return nil, reject(ReasonInvalidCode)
		}
		return nil, err
	}
	return card, nil
}

func percentageOf(amountCents, percent int64) int64 {
	return (amountCents*percent + 50) / 100
}
