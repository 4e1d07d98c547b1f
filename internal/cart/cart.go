// Package cart holds the booking cart and its pricing arithmetic. The cart is
// a plain state object with pure transitions so it can back any presentation
// layer and be tested without one. All money is int64 cents.
package cart

import "github.com/google/uuid"

// Line is one unit of a ticket type added to the cart. Its price is fixed at
// creation; changing cart-level discounts never mutates existing lines.
type Line struct {
	LineID         string `json:"line_id"`
	TicketTypeID   int64  `json:"ticket_type_id"`
	TicketTypeName string `json:"ticket_type_name"`
	UnitPriceCents int64  `json:"unit_price_cents"`
}

type PromoKind string

const (
	PromoFixed      PromoKind = "fixed"
	PromoPercentage PromoKind = "percentage"
)

// AppliedPromo is the single active promo code. Applying another code
// replaces it.
type AppliedPromo struct {
	Code        string    `json:"code"`
	Kind        PromoKind `json:"kind"`
	AmountCents int64     `json:"amount_cents,omitempty"`
	Percent     int64     `json:"percent,omitempty"`
}

// AppliedGiftCard is the single active gift card. AmountAppliedCents is the
// value captured at apply time for display; totals always recompute the
// covered amount from the balance so later line changes stay consistent.
type AppliedGiftCard struct {
	Code               string `json:"code"`
	BalanceCents       int64  `json:"balance_cents"`
	AmountAppliedCents int64  `json:"amount_applied_cents"`
}

type Cart struct {
	Lines    []Line           `json:"lines"`
	Promo    *AppliedPromo    `json:"promo,omitempty"`
	GiftCard *AppliedGiftCard `json:"gift_card,omitempty"`
}

// Totals is the derived monetary breakdown. It is never stored.
type Totals struct {
	SubtotalCents         int64 `json:"subtotal_cents"`
	PromoDiscountCents    int64 `json:"promo_discount_cents"`
	GiftCardDiscountCents int64 `json:"gift_card_discount_cents"`
	TotalCents            int64 `json:"total_cents"`
}

// AddTickets appends quantity new lines at the given unit price and returns
// them. Zero or negative quantity is a no-op.
func (c *Cart) AddTickets(ticketTypeID int64, name string, unitPriceCents int64, quantity int) []Line {
	if quantity <= 0 {
		return nil
	}
	added := make([]Line, 0, quantity)
	for i := 0; i < quantity; i++ {
		added = append(added, Line{
			LineID:         uuid.NewString(),
			TicketTypeID:   ticketTypeID,
			TicketTypeName: name,
			UnitPriceCents: unitPriceCents,
		})
	}
	c.Lines = append(c.Lines, added...)
	return added
}

// RemoveLine removes the line with the given id. Removing an absent id is a
// no-op.
func (c *Cart) RemoveLine(lineID string) {
	for i, l := range c.Lines {
		if l.LineID == lineID {
			c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
			return
		}
	}
}

// ApplyPromo sets the active promo code, replacing any previous one.
func (c *Cart) ApplyPromo(p AppliedPromo) {
	c.Promo = &p
}

func (c *Cart) RemovePromo() {
	c.Promo = nil
}

// ApplyGiftCard sets the active gift card, replacing any previous one, and
// captures the amount covered against the current subtotal less the promo
// discount.
func (c *Cart) ApplyGiftCard(code string, balanceCents int64) {
	g := AppliedGiftCard{Code: code, BalanceCents: balanceCents}
	g.AmountAppliedCents = minCents(balanceCents, c.Subtotal()-c.promoDiscount())
	if g.AmountAppliedCents < 0 {
		g.AmountAppliedCents = 0
	}
	c.GiftCard = &g
}

func (c *Cart) RemoveGiftCard() {
	c.GiftCard = nil
}

func (c *Cart) Subtotal() int64 {
	var sum int64
	for _, l := range c.Lines {
		sum += l.UnitPriceCents
	}
	return sum
}

func (c *Cart) Empty() bool {
	return len(c.Lines) == 0
}

// Totals computes the breakdown in the fixed order promo then gift card.
// It has no side effects and is stable between mutations.
func (c *Cart) Totals() Totals {
	t := Totals{SubtotalCents: c.Subtotal()}
	t.PromoDiscountCents = c.promoDiscount()
	if t.PromoDiscountCents > t.SubtotalCents {
		t.PromoDiscountCents = t.SubtotalCents
	}
	if c.GiftCard != nil {
		t.GiftCardDiscountCents = minCents(c.GiftCard.BalanceCents, t.SubtotalCents-t.PromoDiscountCents)
		if t.GiftCardDiscountCents < 0 {
			t.GiftCardDiscountCents = 0
		}
	}
	t.TotalCents = t.SubtotalCents - t.PromoDiscountCents - t.GiftCardDiscountCents
	if t.TotalCents < 0 {
		t.TotalCents = 0
	}
	return t
}

// Reset clears all lines and applied discounts.
func (c *Cart) Reset() {
	c.Lines = nil
	c.Promo = nil
	c.GiftCard = nil
}

func (c *Cart) promoDiscount() int64 {
	if c.Promo == nil {
		return 0
	}
	if c.Promo.Kind == PromoPercentage {
		return PercentageOf(c.Subtotal(), c.Promo.Percent)
	}
	return c.Promo.AmountCents
}

// PercentageOf computes percent of an amount in cents, rounding half up.
func PercentageOf(amountCents, percent int64) int64 {
	return (amountCents*percent + 50) / 100
}

func minCents(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}
