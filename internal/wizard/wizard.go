// Package wizard holds the setup flow an operator walks through when
// configuring a new bookable experience. Steps accumulate into one draft;
// navigation is unconditional and fields are only checked at publish time
// by the publisher itself.
package wizard

import (
	"context"
	"fmt"
)

type Step string

const (
	StepBasics  Step = "basics"
	StepTickets Step = "tickets"
	StepSlots   Step = "slots"
	StepEmbed   Step = "embed"
	StepReview  Step = "review"
)

var stepOrder = []Step{StepBasics, StepTickets, StepSlots, StepEmbed, StepReview}

// Publisher turns a completed draft into a live experience.
type Publisher interface {
	Publish(ctx context.Context, draft *Draft) (experienceID int64, err error)
}

// Draft is the single mutable configuration object shared by all steps.
type Draft struct {
	OrgID  int64                  `json:"org_id"`
	Step   Step                   `json:"step"`
	Fields map[string]interface{} `json:"fields"`
}

func NewDraft(orgID int64) *Draft {
	return &Draft{
		OrgID:  orgID,
		Step:   StepBasics,
		Fields: map[string]interface{}{},
	}
}

// Update sets exactly one named field. Steps never read each other's fields
// to gate navigation, so there is no cross-field validation here.
func (d *Draft) Update(field string, value interface{}) {
	d.Fields[field] = value
}

func (d *Draft) Field(field string) (interface{}, bool) {
	v, ok := d.Fields[field]
	return v, ok
}

// Next advances to the following step unconditionally. On the last step it
// stays put.
func (d *Draft) Next() Step {
	for i, s := range stepOrder {
		if s == d.Step && i+1 < len(stepOrder) {
			d.Step = stepOrder[i+1]
			break
		}
	}
	return d.Step
}

// Back moves to the previous step unconditionally.
func (d *Draft) Back() Step {
	for i, s := range stepOrder {
		if s == d.Step && i > 0 {
			d.Step = stepOrder[i-1]
			break
		}
	}
	return d.Step
}

// Complete hands the draft to the publisher. Only reachable state is checked
// here; field contents are the publisher's problem.
func (d *Draft) Complete(ctx context.Context, publisher Publisher) (int64, error) {
	if d.Step != StepReview {
		return 0, fmt.Errorf("draft is on step %q, not ready to publish", d.Step)
	}
	return publisher.Publish(ctx, d)
}
