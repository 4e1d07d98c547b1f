package email

import (
	"context"
	"fmt"

	"github.com/arinovich/bookwidget/internal/kafka"
)

type Sender struct{}

func NewSender() *Sender {
	return &Sender{}
}

func (s *Sender) Send(ctx context.Context, event kafka.BookingEvent) error {
	fmt.Printf("send email to %s about %s for booking %s (experience %d, party of %d)\n",
		event.Email, event.Type, event.Reference, event.ExperienceID, event.PartySize)
	return nil
}
