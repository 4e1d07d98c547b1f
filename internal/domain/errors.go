package domain

import "errors"

var (
	ErrExperienceNotFound = errors.New("experience not found")
	ErrTicketTypeNotFound = errors.New("ticket type not found")
	ErrSlotNotFound       = errors.New("slot not found")
	ErrBookingNotFound    = errors.New("booking not found")
	ErrSessionNotFound    = errors.New("checkout session not found")
	ErrPromoCodeNotFound  = errors.New("promo code not found")
	ErrGiftCardNotFound   = errors.New("gift card not found")
)

var (
	ErrSlotSoldOut       = errors.New("slot is sold out")
	ErrSlotHeld          = errors.New("slot hold is taken")
	ErrBookingNotPending = errors.New("booking is not pending")
	ErrEmptyCart         = errors.New("cart is empty")
)

var (
	ErrCardDeclined   = errors.New("card declined")
	ErrOutcomeUnknown = errors.New("payment outcome unknown, contact support")
)
