package response_models

import (
	"sync"
	"time"

	"tripsmith/internal/models/request_models"
)

type ConfirmationRecord struct {
	OptionID    string    `json:"option_id"`
	ConfirmedAt time.Time `json:"confirmed_at"`
}

// ConfirmationSet holds one record per trip component; nil means unconfirmed.
type ConfirmationSet struct {
	Flight    *ConfirmationRecord `json:"flight"`
	Hotel     *ConfirmationRecord `json:"hotel"`
	CarRental *ConfirmationRecord `json:"car_rental"`
}

type FinalReview struct {
	Summary            string `json:"summary"`
	FinalQuestion      string `json:"final_question"`
	NoPurchaseReminder string `json:"no_purchase_reminder"`
}

// PlanningSession is the aggregate for one planning request. Confirmation
// operations must hold the session lock; distinct sessions are independent.
type PlanningSession struct {
	ID             string                     `json:"id"`
	Preferences    request_models.PlanRequest `json:"preferences"`
	Itinerary      *Itinerary                 `json:"itinerary"`
	Confirmations  ConfirmationSet            `json:"confirmations"`
	FinalReview    *FinalReview               `json:"final_review"`
	FinalApproved  *bool                      `json:"final_approved"`
	FinalDecidedAt *time.Time                 `json:"final_decided_at"`
	CreatedAt      time.Time                  `json:"created_at"`

	mu sync.Mutex
}

func (s *PlanningSession) Lock()   { s.mu.Lock() }
func (s *PlanningSession) Unlock() { s.mu.Unlock() }

// Snapshot deep-copies the session for handing outside the lock, so
// readers never marshal state a concurrent confirm is mutating. The
// caller must hold the session lock.
func (s *PlanningSession) Snapshot() *PlanningSession {
	out := &PlanningSession{
		ID:            s.ID,
		Preferences:   s.Preferences,
		Itinerary:     s.Itinerary.Clone(),
		Confirmations: s.Confirmations.Clone(),
		FinalReview:   s.FinalReview.Clone(),
		CreatedAt:     s.CreatedAt,
	}
	out.Preferences.Activities = append([]string(nil), s.Preferences.Activities...)
	if s.FinalApproved != nil {
		approved := *s.FinalApproved
		out.FinalApproved = &approved
	}
	if s.FinalDecidedAt != nil {
		decided := *s.FinalDecidedAt
		out.FinalDecidedAt = &decided
	}
	return out
}

func (c ConfirmationSet) Clone() ConfirmationSet {
	out := ConfirmationSet{}
	if c.Flight != nil {
		record := *c.Flight
		out.Flight = &record
	}
	if c.Hotel != nil {
		record := *c.Hotel
		out.Hotel = &record
	}
	if c.CarRental != nil {
		record := *c.CarRental
		out.CarRental = &record
	}
	return out
}

func (f *FinalReview) Clone() *FinalReview {
	if f == nil {
		return nil
	}
	out := *f
	return &out
}
