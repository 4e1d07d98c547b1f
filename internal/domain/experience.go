package domain

import "time"

type Experience struct {
	ID              int64
	OrgID           int64
	Name            string
	Description     string
	DurationMinutes int
	Capacity        int
	CoverImageURL   string
	EmbedKey        string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// TicketType is a purchasable category of an experience with its own base price.
type TicketType struct {
	ID           int64
	ExperienceID int64
	Name         string
	PriceCents   int64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
