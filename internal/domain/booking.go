package domain

import "time"

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "PENDING"
	BookingStatusConfirmed BookingStatus = "CONFIRMED"
	BookingStatusCancelled BookingStatus = "CANCELLED"
	BookingStatusExpired   BookingStatus = "EXPIRED"
)

type Booking struct {
	ID                    int64
	OrgID                 int64
	ExperienceID          int64
	SlotID                int64
	Reference             string
	Status                BookingStatus
	PartySize             int
	SubtotalCents         int64
	PromoDiscountCents    int64
	GiftCardDiscountCents int64
	TotalCents            int64
	PromoCode             string
	GiftCardCode          string
	Name                  string
	Email                 string
	Phone                 string
	PaymentRef            string
	ExpiresAt             time.Time
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// BookingRequest carries everything needed to place a capacity hold for an
// in-progress checkout. Amounts are finalized later, at confirmation.
type BookingRequest struct {
	OrgID        int64
	ExperienceID int64
	SlotID       int64
	PartySize    int
	Email        string
}

// BookingAmounts is the monetary breakdown recorded on a confirmed booking.
type BookingAmounts struct {
	SubtotalCents         int64
	PromoDiscountCents    int64
	GiftCardDiscountCents int64
	TotalCents            int64
	PromoCode             string
	GiftCardCode          string
}

// CardDetails is the raw payment input forwarded to the payment gateway.
// It is never persisted.
type CardDetails struct {
	Number string
	Expiry string
	CVV    string
}

// ContactDetails identifies the guest making the reservation.
type ContactDetails struct {
	Name  string
	Email string
	Phone string
}
