package model

import (
	"fmt"
	"time"
)

// OpportunityStatus is the publication state of an opportunity
type OpportunityStatus string

const (
	OpportunityDraft     OpportunityStatus = "draft"
	OpportunityPublished OpportunityStatus = "published"
	OpportunityClosed    OpportunityStatus = "closed"
	OpportunityFull      OpportunityStatus = "full"
)

func (s OpportunityStatus) IsValid() bool {
	switch s {
	case OpportunityDraft, OpportunityPublished, OpportunityClosed, OpportunityFull:
		return true
	}
	return false
}

// OpportunityEvent drives NextOpportunityStatus
type OpportunityEvent string

const (
	// EventPublish is the organization making an opportunity visible
	EventPublish OpportunityEvent = "publish"
	// EventClose is the organization withdrawing an opportunity
	EventClose OpportunityEvent = "close"
	// EventCapacityChanged follows any mutation of remaining slots
	EventCapacityChanged OpportunityEvent = "capacity_changed"
)

// NextOpportunityStatus is the single transition function for opportunity
// publication state. remaining must be the post-mutation slot count.
//
// Draft and Closed never react to capacity changes; Published and Full flip
// between each other depending on whether any slot remains.
func NextOpportunityStatus(current OpportunityStatus, event OpportunityEvent, remaining int) (OpportunityStatus, error) {
	if !current.IsValid() {
		return current, fmt.Errorf("%w: unknown opportunity status %q", ErrInvalidStatus, current)
	}

	switch event {
	case EventPublish:
		if current == OpportunityPublished || current == OpportunityFull {
			return current, fmt.Errorf("%w: opportunity is already %s", ErrInvalidStatus, current)
		}
		if remaining <= 0 {
			return OpportunityFull, nil
		}
		return OpportunityPublished, nil

	case EventClose:
		if current == OpportunityClosed {
			return current, fmt.Errorf("%w: opportunity is already closed", ErrInvalidStatus)
		}
		return OpportunityClosed, nil

	case EventCapacityChanged:
		switch {
		case current == OpportunityPublished && remaining <= 0:
			return OpportunityFull, nil
		case current == OpportunityFull && remaining > 0:
			return OpportunityPublished, nil
		}
		return current, nil
	}

	return current, fmt.Errorf("%w: unknown opportunity event %q", ErrInvalidStatus, event)
}

// Opportunity is a volunteer engagement with a fixed capacity
type Opportunity struct {
	ID             string            `json:"id"`
	OrgID          string            `json:"orgId,omitempty"`
	SeriesID       string            `json:"seriesId,omitempty"` // empty unless created from a recurrence rule
	Title          string            `json:"title"`
	Description    string            `json:"description"`
	Location       string            `json:"location"`
	StartDate      time.Time         `json:"startDate"`
	EndDate        time.Time         `json:"endDate"`
	TotalSlots     int               `json:"totalSlots"`
	RemainingSlots int               `json:"remainingSlots"`
	Status         OpportunityStatus `json:"status"`
	CreatedAt      time.Time         `json:"createdAt"`
}

// HasStarted reports whether the opportunity's start time is before now
func (o *Opportunity) HasStarted(now time.Time) bool {
	return o.StartDate.Before(now)
}

// ClaimSlot takes one slot from the ledger and re-derives the publication status
func (o *Opportunity) ClaimSlot() error {
	if o.RemainingSlots <= 0 {
		return fmt.Errorf("%w: opportunity %s", ErrCapacityExhausted, o.ID)
	}
	o.RemainingSlots--
	return o.applyCapacityChange()
}

// ReleaseSlot returns one slot to the ledger and re-derives the publication status.
// It refuses to exceed TotalSlots rather than silently overbooking the ledger.
func (o *Opportunity) ReleaseSlot() error {
	if o.RemainingSlots >= o.TotalSlots {
		return fmt.Errorf("%w: opportunity %s already has %d/%d slots free",
			ErrLedgerInconsistent, o.ID, o.RemainingSlots, o.TotalSlots)
	}
	o.RemainingSlots++
	return o.applyCapacityChange()
}

// Resize changes the total capacity given the number of slots currently held
func (o *Opportunity) Resize(totalSlots, held int) error {
	if totalSlots < 1 {
		return fmt.Errorf("%w: total slots must be positive, got %d", ErrValidation, totalSlots)
	}
	if totalSlots < held {
		return fmt.Errorf("%w: total slots (%d) cannot be less than current signups (%d)", ErrValidation, totalSlots, held)
	}
	o.TotalSlots = totalSlots
	o.RemainingSlots = totalSlots - held
	return o.applyCapacityChange()
}

// Apply runs an organization-initiated publication event
func (o *Opportunity) Apply(event OpportunityEvent) error {
	next, err := NextOpportunityStatus(o.Status, event, o.RemainingSlots)
	if err != nil {
		return err
	}
	o.Status = next
	return nil
}

func (o *Opportunity) applyCapacityChange() error {
	return o.Apply(EventCapacityChanged)
}
