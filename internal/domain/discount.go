package domain

import "time"

type DiscountKind string

const (
	// DiscountFixed reduces the subtotal by a fixed amount of cents.
	DiscountFixed DiscountKind = "fixed"
	// DiscountPercentage reduces the subtotal by a percentage.
	DiscountPercentage DiscountKind = "percentage"
)

type PromoCode struct {
	ID            int64
	OrgID         int64
	Code          string
	Kind          DiscountKind
	AmountCents   int64
	Percent       int64
	MinOrderCents int64
	ValidFrom     *time.Time
	ValidTo       *time.Time
	UsageLimit    int
	TimesUsed     int
	Active        bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type GiftCard struct {
	ID           int64
	OrgID        int64
	Code         string
	BalanceCents int64
	Active       bool
	ExpiresAt    *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
