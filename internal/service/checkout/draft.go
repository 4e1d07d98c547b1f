package checkout

import (
	"time"

	"github.com/arinovich/bookwidget/internal/cart"
)

// State is the checkout flow position of a session. The same flow backs all
// widget variants.
type State string

const (
	StateBrowsing        State = "browsing"
	StateSlotSelection   State = "slot-selection"
	StateTicketSelection State = "ticket-selection"
	StateCart            State = "cart"
	StateDetails         State = "checkout-details"
	StateSuccess         State = "success"
	StateFailed          State = "failed"
)

type ContactInput struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// PaymentInput is raw card input. It is forwarded to the gateway and never
// stored on the draft.
type PaymentInput struct {
	CardNumber string `json:"card_number"`
	Expiry     string `json:"expiry"`
	CVV        string `json:"cvv"`
}

// Draft is the full in-progress reservation: cart, selected slot, contact
// details and flow state. It lives in the session store until the booking
// succeeds or the guest starts over; a failed submission keeps it intact so
// the guest can retry.
type Draft struct {
	SessionID        string        `json:"session_id"`
	OrgID            int64         `json:"org_id"`
	State            State         `json:"state"`
	ExperienceID     int64         `json:"experience_id,omitempty"`
	ExperienceName   string        `json:"experience_name,omitempty"`
	SlotID           int64         `json:"slot_id,omitempty"`
	SlotStartsAt     time.Time     `json:"slot_starts_at,omitempty"`
	Cart             cart.Cart     `json:"cart"`
	Contact          ContactInput  `json:"contact"`
	BookingReference string        `json:"booking_reference,omitempty"`
	FailureReason    string        `json:"failure_reason,omitempty"`
	Processing       bool          `json:"processing"`
	CreatedAt        time.Time     `json:"created_at"`
	UpdatedAt        time.Time     `json:"updated_at"`
}

// PartySize is the number of seats the draft will occupy.
func (d *Draft) PartySize() int {
	return len(d.Cart.Lines)
}
