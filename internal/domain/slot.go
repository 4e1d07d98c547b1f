package domain

import "time"

type Slot struct {
	ID           int64
	ExperienceID int64
	StartsAt     time.Time
	Capacity     int
	Remaining    int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Available reports whether the slot can still seat at least one more guest.
func (s Slot) Available() bool {
	return s.Remaining > 0
}
