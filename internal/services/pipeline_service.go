package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"tripsmith/internal/cache"
	"tripsmith/internal/models/request_models"
	"tripsmith/internal/models/response_models"
	"tripsmith/internal/models/stage_models"
	mem "tripsmith/pkg/memcache"
	"tripsmith/pkg/utils"
)

const (
	StageResearch    = "research"
	StageSafety      = "safety"
	StageComposition = "composition"
	StageFinalReview = "final_review"
)

const (
	defaultFlightQuestion = "Which flight would you like to lock in for this trip?"
	defaultHotelQuestion  = "Which hotel should we hold for your stay?"
	defaultCarQuestion    = "Which rental car works best for you?"
	defaultDisclaimer     = "This plan is for review only. Nothing has been booked and no payment will be taken."
)

// ProgressSink receives pipeline notifications in stage execution order.
// Delivery is best effort; a sink failure must never abort the run.
type ProgressSink func(event response_models.ProgressEvent)

type PipelineServiceInterface interface {
	CreatePlan(ctx context.Context, req request_models.PlanRequest, sink ProgressSink) (*response_models.PlanningSession, error)
}

type PipelineService struct {
	runner   utils.StageRunnerInterface
	sessions mem.SessionStore
	research cache.ResearchCache
}

func NewPipelineService(
	runner utils.StageRunnerInterface,
	sessions mem.SessionStore,
	research cache.ResearchCache,
) PipelineServiceInterface {
	return &PipelineService{
		runner:   runner,
		sessions: sessions,
		research: research,
	}
}

// CreatePlan drives the ordered stage sequence research → safety →
// composition, validating each stage's output at the contract boundary, then
// assembles the normalized itinerary draft and opens a planning session.
// Any stage failure aborts the whole run; no partial draft is returned.
func (p *PipelineService) CreatePlan(ctx context.Context, req request_models.PlanRequest, sink ProgressSink) (*response_models.PlanningSession, error) {
	if problems := req.Problems(); len(problems) > 0 {
		return nil, &utils.ValidationError{Fields: problems}
	}

	emit := p.emitter(ctx, sink)

	researchDoc, err := p.runResearchStage(ctx, req, emit)
	if err != nil {
		emit(failureEvent(StageResearch, err))
		return nil, err
	}

	safetyDoc, err := p.runSafetyStage(ctx, req, researchDoc, emit)
	if err != nil {
		emit(failureEvent(StageSafety, err))
		return nil, err
	}

	itinerary, err := p.runCompositionStage(ctx, req, researchDoc, safetyDoc, emit)
	if err != nil {
		emit(failureEvent(StageComposition, err))
		return nil, err
	}

	session := &response_models.PlanningSession{
		ID:          uuid.NewString(),
		Preferences: req,
		Itinerary:   itinerary,
		CreatedAt:   time.Now(),
	}
	p.sessions.Set(session)

	emit(response_models.ProgressEvent{
		Type:      response_models.EventComplete,
		Stage:     StageComposition,
		Message:   "Trip plan ready for review",
		SessionID: session.ID,
		Summary: map[string]any{
			"total_usd":  itinerary.Costs.TotalUSD,
			"days":       itinerary.StayWindow.DaysAtDestination,
			"nights":     itinerary.StayWindow.NightsAtDestination,
			"activities": len(itinerary.Activities),
		},
	})

	return session, nil
}

// emitter wraps the sink so a disconnected or panicking sink cannot take
// the pipeline down, and stops notifying once the caller is gone.
func (p *PipelineService) emitter(ctx context.Context, sink ProgressSink) func(response_models.ProgressEvent) {
	return func(ev response_models.ProgressEvent) {
		if sink == nil || ctx.Err() != nil {
			return
		}
		defer func() {
			if r := recover(); r != nil {
				log.Printf("progress sink failed on %s/%s: %v", ev.Type, ev.Stage, r)
			}
		}()
		sink(ev)
	}
}

func (p *PipelineService) runResearchStage(ctx context.Context, req request_models.PlanRequest, emit func(response_models.ProgressEvent)) (*stage_models.ResearchDocument, error) {
	emit(startedEvent(StageResearch, "Researching flights, hotels, and rental cars"))

	if doc, ok := p.research.Get(ctx, req); ok {
		if err := validateResearchDocument(doc); err == nil {
			emit(completedEvent(StageResearch, "Reused recent research for this trip", researchSummary(doc)))
			return doc, nil
		}
	}

	raw, err := p.callEngine(ctx, StageResearch, researchPrompt(req), emit)
	if err != nil {
		return nil, err
	}

	var doc stage_models.ResearchDocument
	if err := utils.DecodeStageDocument(StageResearch, raw, &doc); err != nil {
		return nil, err
	}
	if err := validateResearchDocument(&doc); err != nil {
		return nil, err
	}

	if err := p.research.Set(ctx, req, &doc); err != nil {
		log.Printf("research cache write failed: %v", err)
	}

	emit(completedEvent(StageResearch, "Found candidate options for every component", researchSummary(&doc)))
	return &doc, nil
}

func (p *PipelineService) runSafetyStage(ctx context.Context, req request_models.PlanRequest, research *stage_models.ResearchDocument, emit func(response_models.ProgressEvent)) (*stage_models.SafetyDocument, error) {
	emit(startedEvent(StageSafety, "Reviewing destination safety and packing needs"))

	raw, err := p.callEngine(ctx, StageSafety, safetyPrompt(req, research), emit)
	if err != nil {
		return nil, err
	}

	var doc stage_models.SafetyDocument
	if err := utils.DecodeStageDocument(StageSafety, raw, &doc); err != nil {
		return nil, err
	}

	emit(completedEvent(StageSafety, "Safety review complete", map[string]any{
		"safety_concerns": len(doc.SafetyConcerns),
		"packing_items":   len(doc.PackingList),
	}))
	return &doc, nil
}

func (p *PipelineService) runCompositionStage(ctx context.Context, req request_models.PlanRequest, research *stage_models.ResearchDocument, safety *stage_models.SafetyDocument, emit func(response_models.ProgressEvent)) (*response_models.Itinerary, error) {
	emit(startedEvent(StageComposition, "Composing the day-by-day itinerary"))

	raw, err := p.callEngine(ctx, StageComposition, compositionPrompt(req, research, safety), emit)
	if err != nil {
		return nil, err
	}

	var doc stage_models.CompositionDocument
	if err := utils.DecodeStageDocument(StageComposition, raw, &doc); err != nil {
		return nil, err
	}

	itinerary := assembleItinerary(req, &doc, research, safety)

	covered, missing := CoverageReport(req.Activities, itinerary.Activities)
	if len(missing) > 0 {
		log.Printf("composition left activity categories uncovered: %s", strings.Join(missing, ", "))
	}
	emit(completedEvent(StageComposition, "Itinerary drafted and priced", map[string]any{
		"activities":         len(itinerary.Activities),
		"categories_covered": len(covered),
		"categories_missing": len(missing),
		"total_usd":          itinerary.Costs.TotalUSD,
	}))
	return itinerary, nil
}

// callEngine performs the single suspension point of a stage and reports
// it on the telemetry side channel.
func (p *PipelineService) callEngine(ctx context.Context, stage, prompt string, emit func(response_models.ProgressEvent)) (string, error) {
	emit(response_models.ProgressEvent{
		Type:    response_models.EventToolUsed,
		Stage:   stage,
		Agent:   stage + "_agent",
		Message: "Calling generation engine",
	})

	raw, err := p.runner.RunStage(ctx, stage, prompt)
	if err != nil {
		return "", fmt.Errorf("%w: %s stage: %v", utils.ErrEngineUnavailable, stage, err)
	}
	return raw, nil
}

// assembleItinerary passes the composition output through the normalizers
// and cost aggregator so no caller ever observes an un-normalized draft.
func assembleItinerary(req request_models.PlanRequest, doc *stage_models.CompositionDocument, research *stage_models.ResearchDocument, safety *stage_models.SafetyDocument) *response_models.Itinerary {
	flight := NormalizeFlightComponent(doc.Flight, research.Flight, defaultFlightQuestion)
	stay := DeriveStayWindow(&flight, req)
	hotel := NormalizeHotelComponent(doc.Hotel, research.Hotel, defaultHotelQuestion, stay)
	car := NormalizeCarComponent(doc.CarRental, research.CarRental, defaultCarQuestion, stay)

	activities := doc.Activities
	if len(activities) == 0 {
		activities = scheduleActivityIdeas(research.ActivityIdeas, stay.DaysAtDestination)
	}

	summary := doc.TripSummary
	if summary == "" {
		summary = fmt.Sprintf("A %d-day trip from %s to %s", stay.DaysAtDestination, req.Origin, req.Destination)
	}
	disclaimer := doc.Disclaimer
	if disclaimer == "" {
		disclaimer = defaultDisclaimer
	}

	it := &response_models.Itinerary{
		TripSummary:    summary,
		StayWindow:     stay,
		Flight:         flight,
		Hotel:          hotel,
		CarRental:      car,
		Activities:     activities,
		SafetyConcerns: safety.SafetyConcerns,
		PackingList:    safety.PackingList,
		Disclaimer:     disclaimer,
	}
	it.Costs = AggregateCosts(it)
	return it
}

// scheduleActivityIdeas spreads raw research ideas across the stay when the
// composition stage returned no schedule of its own.
func scheduleActivityIdeas(ideas []stage_models.ActivityIdea, days int) []response_models.Activity {
	if days < 1 {
		days = 1
	}
	activities := make([]response_models.Activity, 0, len(ideas))
	for i, idea := range ideas {
		activities = append(activities, response_models.Activity{
			Name:             idea.Name,
			Category:         idea.Category,
			EstimatedCostUSD: idea.EstimatedCostUSD,
			Day:              (i % days) + 1,
			Notes:            idea.Notes,
		})
	}
	return activities
}

// validateResearchDocument enforces the research contract beyond raw JSON
// shape: every component present with at least one option, ids unique
// within each list.
func validateResearchDocument(doc *stage_models.ResearchDocument) error {
	if doc.Flight == nil || len(doc.Flight.Options) == 0 {
		return utils.NewStageError(StageResearch, "", "no flight options returned")
	}
	if doc.Hotel == nil || len(doc.Hotel.Options) == 0 {
		return utils.NewStageError(StageResearch, "", "no hotel options returned")
	}
	if doc.CarRental == nil || len(doc.CarRental.Options) == 0 {
		return utils.NewStageError(StageResearch, "", "no car rental options returned")
	}

	ids := make(map[string]bool)
	for _, o := range doc.Flight.Options {
		if o.ID == "" || ids[o.ID] {
			return utils.NewStageError(StageResearch, o.ID, "flight option ids must be unique and non-empty")
		}
		ids[o.ID] = true
	}
	ids = make(map[string]bool)
	for _, o := range doc.Hotel.Options {
		if o.ID == "" || ids[o.ID] {
			return utils.NewStageError(StageResearch, o.ID, "hotel option ids must be unique and non-empty")
		}
		ids[o.ID] = true
	}
	ids = make(map[string]bool)
	for _, o := range doc.CarRental.Options {
		if o.ID == "" || ids[o.ID] {
			return utils.NewStageError(StageResearch, o.ID, "car option ids must be unique and non-empty")
		}
		ids[o.ID] = true
	}
	return nil
}

func startedEvent(stage, message string) response_models.ProgressEvent {
	return response_models.ProgressEvent{
		Type:    response_models.EventStageStarted,
		Stage:   stage,
		Message: message,
	}
}

func completedEvent(stage, message string, summary map[string]any) response_models.ProgressEvent {
	return response_models.ProgressEvent{
		Type:    response_models.EventStageCompleted,
		Stage:   stage,
		Message: message,
		Summary: summary,
	}
}

func failureEvent(stage string, err error) response_models.ProgressEvent {
	return response_models.ProgressEvent{
		Type:    response_models.EventError,
		Stage:   stage,
		Message: err.Error(),
	}
}

func researchSummary(doc *stage_models.ResearchDocument) map[string]any {
	return map[string]any{
		"flight_options": len(doc.Flight.Options),
		"hotel_options":  len(doc.Hotel.Options),
		"car_options":    len(doc.CarRental.Options),
		"activity_ideas": len(doc.ActivityIdeas),
	}
}

func researchPrompt(req request_models.PlanRequest) string {
	return fmt.Sprintf(`Research travel options for a round trip.

Origin: %s
Destination: %s
Dates: %s to %s (%d days)
Travel class: %s
Hotel rating: %d stars
Weather preference: %s
Desired activity categories: %s
Transportation notes: %s

Return JSON only, matching exactly:
{
  "flight": {
    "options": [{"id":"f1","label":"...","airline":"...","route":"...","travel_class":"...",
      "outbound_departure":"2026-03-21T08:30","outbound_arrival":"2026-03-22T14:10",
      "return_departure":"2026-03-29T16:45","return_arrival":"2026-03-30T09:20","cost_usd":0}],
    "recommended_option_id": "f1",
    "confirmation_question": "..."
  },
  "hotel": {
    "options": [{"id":"h1","label":"...","stars":4,"nightly_rate_usd":0,"nights":0,"cost_usd":0}],
    "recommended_option_id": "h1",
    "confirmation_question": "..."
  },
  "car_rental": {
    "options": [{"id":"c1","label":"...","company":"...","car_type":"...","daily_rate_usd":0,"days":0,"cost_usd":0}],
    "recommended_option_id": "c1",
    "confirmation_question": "..."
  },
  "activity_ideas": [{"name":"...","category":"...","estimated_cost_usd":0,"notes":"..."}]
}

Provide 3 options per component with unique ids. Timestamps are local clock
times at the relevant airport. Cover every requested activity category.`,
		req.Origin, req.Destination, req.StartDate, req.EndDate, req.DurationDays,
		req.TravelClass, req.HotelStars, req.WeatherPreference,
		strings.Join(req.Activities, ", "), req.TransportNotes)
}

func safetyPrompt(req request_models.PlanRequest, research *stage_models.ResearchDocument) string {
	researchJSON, _ := json.Marshal(research)
	return fmt.Sprintf(`Assess traveller safety and packing needs for a trip to %s
between %s and %s. Weather preference: %s.

Researched options (context):
%s

Return JSON only, matching exactly:
{"safety_concerns":["..."],"packing_list":["..."]}`,
		req.Destination, req.StartDate, req.EndDate, req.WeatherPreference, researchJSON)
}

func compositionPrompt(req request_models.PlanRequest, research *stage_models.ResearchDocument, safety *stage_models.SafetyDocument) string {
	researchJSON, _ := json.Marshal(research)
	safetyJSON, _ := json.Marshal(safety)
	return fmt.Sprintf(`Compose a complete trip plan from the validated documents below.
Use only option ids that appear in the research document.

Preferences: origin %s, destination %s, %s to %s, %d days, activities: %s.

Research document:
%s

Safety document:
%s

Return JSON only, matching exactly:
{
  "trip_summary": "...",
  "flight": {"options":[...],"recommended_option_id":"...","confirmation_question":"..."},
  "hotel": {"options":[...],"recommended_option_id":"...","confirmation_question":"..."},
  "car_rental": {"options":[...],"recommended_option_id":"...","confirmation_question":"..."},
  "activities": [{"name":"...","category":"...","estimated_cost_usd":0,"day":1,"notes":"..."}],
  "disclaimer": "..."
}

Schedule activities across the stay, day numbers starting at 1. Keep the
option shapes identical to the research document.`,
		req.Origin, req.Destination, req.StartDate, req.EndDate, req.DurationDays,
		strings.Join(req.Activities, ", "), researchJSON, safetyJSON)
}
