package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"tripsmith/internal/models/response_models"
	"tripsmith/internal/models/stage_models"
	"tripsmith/internal/repositories"
	mem "tripsmith/pkg/memcache"
	"tripsmith/pkg/utils"
)

const (
	ComponentFlight    = "flight"
	ComponentHotel     = "hotel"
	ComponentCarRental = "carRental"
)

const noPurchasePolicy = "No bookings have been made and no payment will be taken. " +
	"This approval only records your decision."

type ConfirmationServiceInterface interface {
	GetSession(ctx context.Context, sessionID string) (*response_models.PlanningSession, error)
	Confirm(ctx context.Context, sessionID, component, optionID string) (*response_models.ConfirmResult, error)
	FinalApprove(ctx context.Context, sessionID string, approved bool) (*response_models.FinalApprovalResult, error)
}

type ConfirmationService struct {
	sessions mem.SessionStore
	runner   utils.StageRunnerInterface
	archive  repositories.ArchiveRepository
}

func NewConfirmationService(
	sessions mem.SessionStore,
	runner utils.StageRunnerInterface,
	archive repositories.ArchiveRepository,
) ConfirmationServiceInterface {
	return &ConfirmationService{
		sessions: sessions,
		runner:   runner,
		archive:  archive,
	}
}

// GetSession returns a snapshot taken under the session lock; callers may
// marshal it while a concurrent confirm mutates the live session.
func (s *ConfirmationService) GetSession(ctx context.Context, sessionID string) (*response_models.PlanningSession, error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return nil, utils.ErrSessionNotFound
	}

	session.Lock()
	defer session.Unlock()
	return session.Snapshot(), nil
}

// Confirm records the traveller's choice for one component. Confirming the
// flight recomputes the stay window, re-normalizes hotel and car pricing
// against it, and clears any hotel/car confirmation and final review: a
// flight change must never leave a stale downstream confirmation standing.
func (s *ConfirmationService) Confirm(ctx context.Context, sessionID, component, optionID string) (*response_models.ConfirmResult, error) {
	component, err := canonicalComponent(component)
	if err != nil {
		return nil, err
	}

	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return nil, utils.ErrSessionNotFound
	}

	session.Lock()
	defer session.Unlock()

	it := session.Itinerary
	if !componentOffersOption(it, component, optionID) {
		return nil, fmt.Errorf("%w: %q has no option %q", utils.ErrOptionNotOffered, component, optionID)
	}

	record := &response_models.ConfirmationRecord{
		OptionID:    optionID,
		ConfirmedAt: time.Now(),
	}

	switch component {
	case ComponentFlight:
		session.Confirmations.Flight = record
		it.Flight.RecommendedOptionID = optionID
		s.recomputeAfterFlightChange(session)
	case ComponentHotel:
		session.Confirmations.Hotel = record
		it.Hotel.RecommendedOptionID = optionID
	case ComponentCarRental:
		session.Confirmations.CarRental = record
		it.CarRental.RecommendedOptionID = optionID
	}
	it.Costs = AggregateCosts(it)

	if nextUnconfirmed(session) == "" && session.FinalReview == nil {
		session.FinalReview = s.generateFinalReview(ctx, session)
	}

	// Copies, not the live pointers: the caller marshals the result after
	// the lock is released.
	return &response_models.ConfirmResult{
		Itinerary:              it.Clone(),
		Confirmations:          session.Confirmations.Clone(),
		NextComponentToConfirm: nextComponentPtr(session),
		FinalReview:            session.FinalReview.Clone(),
	}, nil
}

// FinalApprove records the non-binding final decision. Repeat calls simply
// overwrite the decision and timestamp; nothing downstream is triggered.
func (s *ConfirmationService) FinalApprove(ctx context.Context, sessionID string, approved bool) (*response_models.FinalApprovalResult, error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return nil, utils.ErrSessionNotFound
	}

	session.Lock()
	defer session.Unlock()

	if next := nextUnconfirmed(session); next != "" {
		return nil, &utils.PendingComponentsError{Next: next}
	}

	now := time.Now()
	session.FinalApproved = &approved
	session.FinalDecidedAt = &now

	message := "Decision recorded: plan not approved. You can keep adjusting your confirmations."
	if approved {
		message = "Your trip plan is approved and saved for reference."
		if err := s.archive.SaveApprovedPlan(ctx, session); err != nil {
			log.Printf("failed to archive approved plan %s: %v", session.ID, err)
		}
	}

	return &response_models.FinalApprovalResult{
		Approved:         approved,
		Message:          message,
		NoPurchasePolicy: noPurchasePolicy,
	}, nil
}

// recomputeAfterFlightChange is the cascading invalidation path: stay
// window from the newly confirmed flight, hotel/car re-normalized against
// it, downstream confirmations and any final review discarded.
func (s *ConfirmationService) recomputeAfterFlightChange(session *response_models.PlanningSession) {
	it := session.Itinerary

	it.StayWindow = DeriveStayWindow(&it.Flight, session.Preferences)
	it.Hotel = NormalizeHotelComponent(&it.Hotel, nil, defaultHotelQuestion, it.StayWindow)
	it.CarRental = NormalizeCarComponent(&it.CarRental, nil, defaultCarQuestion, it.StayWindow)

	session.Confirmations.Hotel = nil
	session.Confirmations.CarRental = nil
	session.FinalReview = nil
	session.FinalApproved = nil
	session.FinalDecidedAt = nil
}

// generateFinalReview makes one generation call over the confirmed options.
// Engine trouble is not allowed to fail the confirm that unlocked review, so
// a deterministic summary stands in when the call or its contract fails.
func (s *ConfirmationService) generateFinalReview(ctx context.Context, session *response_models.PlanningSession) *response_models.FinalReview {
	fallback := fallbackFinalReview(session)

	raw, err := s.runner.RunStage(ctx, StageFinalReview, finalReviewPrompt(session))
	if err != nil {
		log.Printf("final review generation failed for %s: %v", session.ID, err)
		return fallback
	}

	var doc stage_models.FinalReviewDocument
	if err := utils.DecodeStageDocument(StageFinalReview, raw, &doc); err != nil {
		log.Printf("final review output rejected for %s: %v", session.ID, err)
		return fallback
	}

	review := &response_models.FinalReview{
		Summary:            doc.Summary,
		FinalQuestion:      doc.FinalQuestion,
		NoPurchaseReminder: doc.Reminder,
	}
	if review.Summary == "" {
		review.Summary = fallback.Summary
	}
	if review.FinalQuestion == "" {
		review.FinalQuestion = fallback.FinalQuestion
	}
	if review.NoPurchaseReminder == "" {
		review.NoPurchaseReminder = noPurchasePolicy
	}
	return review
}

func fallbackFinalReview(session *response_models.PlanningSession) *response_models.FinalReview {
	it := session.Itinerary
	var parts []string
	if opt := pickFlightOption(&it.Flight); opt != nil {
		parts = append(parts, fmt.Sprintf("flight %s ($%.2f)", opt.Label, opt.CostUSD))
	}
	if opt := pickHotelOption(&it.Hotel); opt != nil {
		parts = append(parts, fmt.Sprintf("%d nights at %s ($%.2f)", opt.Nights, opt.Label, opt.CostUSD))
	}
	if opt := pickCarOption(&it.CarRental); opt != nil {
		parts = append(parts, fmt.Sprintf("%s rental ($%.2f)", opt.Label, opt.CostUSD))
	}

	return &response_models.FinalReview{
		Summary: fmt.Sprintf("All set: %s. Estimated total $%.2f including activities.",
			strings.Join(parts, ", "), it.Costs.TotalUSD),
		FinalQuestion:      "Does this complete plan look right to you?",
		NoPurchaseReminder: noPurchasePolicy,
	}
}

func finalReviewPrompt(session *response_models.PlanningSession) string {
	it := session.Itinerary
	var b strings.Builder
	fmt.Fprintf(&b, "Write a short, friendly final review of this confirmed trip plan.\n\n")
	fmt.Fprintf(&b, "Trip: %s\n", it.TripSummary)
	if opt := pickFlightOption(&it.Flight); opt != nil {
		fmt.Fprintf(&b, "Confirmed flight: %s, %s, $%.2f\n", opt.Label, opt.Route, opt.CostUSD)
	}
	if opt := pickHotelOption(&it.Hotel); opt != nil {
		fmt.Fprintf(&b, "Confirmed hotel: %s, %d nights, $%.2f\n", opt.Label, opt.Nights, opt.CostUSD)
	}
	if opt := pickCarOption(&it.CarRental); opt != nil {
		fmt.Fprintf(&b, "Confirmed car: %s, %d days, $%.2f\n", opt.Label, opt.Days, opt.CostUSD)
	}
	fmt.Fprintf(&b, "Total estimate: $%.2f\n\n", it.Costs.TotalUSD)
	b.WriteString(`Return JSON only, matching exactly:
{"summary":"...","final_question":"...","reminder":"..."}

The reminder must state clearly that nothing is booked and no payment is taken.`)
	return b.String()
}

func canonicalComponent(component string) (string, error) {
	switch component {
	case ComponentFlight, ComponentHotel, ComponentCarRental:
		return component, nil
	default:
		return "", fmt.Errorf("%w: %q (want flight, hotel, or carRental)", utils.ErrUnknownComponent, component)
	}
}

func componentOffersOption(it *response_models.Itinerary, component, optionID string) bool {
	switch component {
	case ComponentFlight:
		for _, o := range it.Flight.Options {
			if o.ID == optionID {
				return true
			}
		}
	case ComponentHotel:
		for _, o := range it.Hotel.Options {
			if o.ID == optionID {
				return true
			}
		}
	case ComponentCarRental:
		for _, o := range it.CarRental.Options {
			if o.ID == optionID {
				return true
			}
		}
	}
	return false
}

// nextUnconfirmed walks the fixed confirmation order flight → hotel →
// carRental and returns the first unconfirmed component, or "".
func nextUnconfirmed(session *response_models.PlanningSession) string {
	switch {
	case session.Confirmations.Flight == nil:
		return ComponentFlight
	case session.Confirmations.Hotel == nil:
		return ComponentHotel
	case session.Confirmations.CarRental == nil:
		return ComponentCarRental
	}
	return ""
}

func nextComponentPtr(session *response_models.PlanningSession) *string {
	if next := nextUnconfirmed(session); next != "" {
		return &next
	}
	return nil
}
