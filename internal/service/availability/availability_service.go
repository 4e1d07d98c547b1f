// Package availability answers the one question the booking widgets ask:
// given an experience and a date, which time slots can still be booked.
package availability

import (
	"context"
	"time"

	"github.com/arinovich/bookwidget/internal/repository"
)

type AvailabilityUseCase interface {
	SlotsForDay(ctx context.Context, experienceID int64, day time.Time) ([]SlotTime, error)
}

// SlotTime is one bookable time on a given day, ordered by start time.
type SlotTime struct {
	SlotID    int64     `json:"slot_id"`
	StartsAt  time.Time `json:"starts_at"`
	Remaining int       `json:"remaining"`
	Available bool      `json:"available"`
}

type AvailabilityService struct {
	slots       repository.SlotRepository
	experiences repository.ExperienceRepository
}

func NewAvailabilityService(slots repository.SlotRepository, experiences repository.ExperienceRepository) *AvailabilityService {
	return &AvailabilityService{slots: slots, experiences: experiences}
}

func (s *AvailabilityService) SlotsForDay(ctx context.Context, experienceID int64, day time.Time) ([]SlotTime, error) {
	if _, err := s.experiences.GetByID(ctx, experienceID); err != nil {
		return nil, err
	}

	slots, err := s.slots.ListForDay(ctx, experienceID, day)
	if err != nil {
		return nil, err
	}

	times := make([]SlotTime, 0, len(slots))
	for _, slot := range slots {
		times = append(times, SlotTime{
			SlotID:    slot.ID,
			StartsAt:  slot.StartsAt,
			Remaining: slot.Remaining,
			Available: slot.Available(),
		})
	}
	return times, nil
}

var _ AvailabilityUseCase = (*AvailabilityService)(nil)
