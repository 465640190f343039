package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"tripsmith/internal/models/response_models"
	mem "tripsmith/pkg/memcache"
	"tripsmith/pkg/utils"
)

const finalReviewJSON = `{"summary":"Flights, hotel, and car all set.","final_question":"Ready to wrap up?","reminder":"Nothing is booked and no payment is taken."}`

type recordingArchive struct {
	saved []string
}

func (a *recordingArchive) SaveApprovedPlan(ctx context.Context, session *response_models.PlanningSession) error {
	a.saved = append(a.saved, session.ID)
	return nil
}

func newTestSession() (*response_models.PlanningSession, mem.SessionStore) {
	prefs := basePrefs()

	it := &response_models.Itinerary{
		TripSummary: "Eight days in Tokyo",
		Flight: response_models.FlightComponent{
			Options: []response_models.FlightOption{
				{ID: "f1", Label: "NH 178", OutboundArrival: "2026-03-22T16:20+09:00", ReturnDeparture: "2026-03-29T17:55+09:00", CostUSD: 1180},
				{ID: "f2", Label: "JL 068", OutboundArrival: "2026-03-22T15:05+09:00", ReturnDeparture: "2026-03-26T18:10+09:00", CostUSD: 1045},
			},
			RecommendedOptionID: "f1",
		},
		Hotel: response_models.HotelComponent{
			Options: []response_models.HotelOption{
				{ID: "h1", Label: "Shinjuku Grand", NightlyRateUSD: 250},
				{ID: "h2", Label: "Asakusa Riverside", NightlyRateUSD: 180},
			},
			RecommendedOptionID: "h1",
		},
		CarRental: response_models.CarComponent{
			Options: []response_models.CarOption{
				{ID: "c1", Label: "Compact", DailyRateUSD: 55},
			},
			RecommendedOptionID: "c1",
		},
	}
	it.StayWindow = DeriveStayWindow(&it.Flight, prefs)
	it.Hotel = NormalizeHotelComponent(&it.Hotel, nil, defaultHotelQuestion, it.StayWindow)
	it.CarRental = NormalizeCarComponent(&it.CarRental, nil, defaultCarQuestion, it.StayWindow)
	it.Costs = AggregateCosts(it)

	session := &response_models.PlanningSession{
		ID:          "sess-1",
		Preferences: prefs,
		Itinerary:   it,
		CreatedAt:   time.Now(),
	}

	sessions := mem.NewSessionCache(time.Hour)
	sessions.Set(session)
	return session, sessions
}

func newConfirmationService(sessions mem.SessionStore) (ConfirmationServiceInterface, *fakeRunner, *recordingArchive) {
	runner := &fakeRunner{outputs: map[string]string{StageFinalReview: finalReviewJSON}}
	archive := &recordingArchive{}
	return NewConfirmationService(sessions, runner, archive), runner, archive
}

func TestConfirmHotelUsesRecomputedStayPricing(t *testing.T) {
	_, sessions := newTestSession()
	svc, _, _ := newConfirmationService(sessions)
	ctx := context.Background()

	if _, err := svc.Confirm(ctx, "sess-1", ComponentFlight, "f1"); err != nil {
		t.Fatalf("confirm flight: %v", err)
	}

	result, err := svc.Confirm(ctx, "sess-1", ComponentHotel, "h1")
	if err != nil {
		t.Fatalf("confirm hotel: %v", err)
	}

	// 7 nights at $250 after flight f1's schedule.
	if got := result.Itinerary.Hotel.Options[0].CostUSD; got != 1750 {
		t.Fatalf("hotel cost = %v, want 1750", got)
	}
	if result.Itinerary.Costs.HotelUSD != 1750 {
		t.Fatalf("cost summary hotel = %v, want 1750", result.Itinerary.Costs.HotelUSD)
	}
}

func TestConfirmOrderAndFinalReview(t *testing.T) {
	_, sessions := newTestSession()
	svc, _, _ := newConfirmationService(sessions)
	ctx := context.Background()

	result, err := svc.Confirm(ctx, "sess-1", ComponentFlight, "f1")
	if err != nil {
		t.Fatalf("confirm flight: %v", err)
	}
	if result.NextComponentToConfirm == nil || *result.NextComponentToConfirm != ComponentHotel {
		t.Fatalf("next = %v, want hotel", result.NextComponentToConfirm)
	}
	if result.FinalReview != nil {
		t.Fatal("final review must not exist before all components confirmed")
	}

	if _, err := svc.Confirm(ctx, "sess-1", ComponentHotel, "h1"); err != nil {
		t.Fatalf("confirm hotel: %v", err)
	}

	result, err = svc.Confirm(ctx, "sess-1", ComponentCarRental, "c1")
	if err != nil {
		t.Fatalf("confirm car: %v", err)
	}
	if result.NextComponentToConfirm != nil {
		t.Fatalf("next = %v, want nil when all confirmed", *result.NextComponentToConfirm)
	}
	if result.FinalReview == nil {
		t.Fatal("final review must be generated once all components are confirmed")
	}
	if result.FinalReview.NoPurchaseReminder == "" {
		t.Fatal("final review must carry the no-purchase reminder")
	}
}

func TestFlightChangeCascadesInvalidation(t *testing.T) {
	session, sessions := newTestSession()
	svc, _, _ := newConfirmationService(sessions)
	ctx := context.Background()

	for _, step := range []struct{ component, option string }{
		{ComponentFlight, "f1"}, {ComponentHotel, "h1"}, {ComponentCarRental, "c1"},
	} {
		if _, err := svc.Confirm(ctx, "sess-1", step.component, step.option); err != nil {
			t.Fatalf("confirm %s: %v", step.component, err)
		}
	}
	if session.FinalReview == nil {
		t.Fatal("precondition: final review generated")
	}

	// Re-confirm a different flight: f2 stays only 4 nights.
	result, err := svc.Confirm(ctx, "sess-1", ComponentFlight, "f2")
	if err != nil {
		t.Fatalf("re-confirm flight: %v", err)
	}

	if result.Confirmations.Hotel != nil || result.Confirmations.CarRental != nil {
		t.Fatal("hotel and car confirmations must be cleared by a flight change")
	}
	if result.FinalReview != nil {
		t.Fatal("final review must be discarded by a flight change")
	}
	if result.NextComponentToConfirm == nil || *result.NextComponentToConfirm != ComponentHotel {
		t.Fatalf("next = %v, want hotel", result.NextComponentToConfirm)
	}

	// Stay window and downstream pricing follow the new flight.
	if result.Itinerary.StayWindow.NightsAtDestination != 4 {
		t.Fatalf("nights = %d, want 4 after f2", result.Itinerary.StayWindow.NightsAtDestination)
	}
	if got := result.Itinerary.Hotel.Options[0].CostUSD; got != 1000 {
		t.Fatalf("hotel cost = %v, want 250*4 = 1000", got)
	}
	if got := result.Itinerary.CarRental.Options[0].CostUSD; got != 275 {
		t.Fatalf("car cost = %v, want 55*5 = 275", got)
	}
}

func TestConfirmUnknownComponent(t *testing.T) {
	_, sessions := newTestSession()
	svc, _, _ := newConfirmationService(sessions)

	// Only the three canonical names are valid; near-miss spellings fail too.
	for _, component := range []string{"submarine", "car", "car_rental", "Flight", ""} {
		_, err := svc.Confirm(context.Background(), "sess-1", component, "c1")
		if !errors.Is(err, utils.ErrUnknownComponent) {
			t.Fatalf("component %q: err = %v, want ErrUnknownComponent", component, err)
		}
	}
}

func TestConfirmSessionNotFound(t *testing.T) {
	_, sessions := newTestSession()
	svc, _, _ := newConfirmationService(sessions)

	_, err := svc.Confirm(context.Background(), "nope", ComponentFlight, "f1")
	if !errors.Is(err, utils.ErrSessionNotFound) {
		t.Fatalf("err = %v, want ErrSessionNotFound", err)
	}
}

func TestConfirmUnknownOptionDoesNotMutate(t *testing.T) {
	session, sessions := newTestSession()
	svc, _, _ := newConfirmationService(sessions)

	_, err := svc.Confirm(context.Background(), "sess-1", ComponentHotel, "h999")
	if !errors.Is(err, utils.ErrOptionNotOffered) {
		t.Fatalf("err = %v, want ErrOptionNotOffered", err)
	}
	if session.Confirmations.Hotel != nil {
		t.Fatal("failed confirm must not record a confirmation")
	}
	if session.Itinerary.Hotel.RecommendedOptionID != "h1" {
		t.Fatal("failed confirm must not change the recommended option")
	}
}

func TestFinalApproveRequiresAllComponents(t *testing.T) {
	_, sessions := newTestSession()
	svc, _, archive := newConfirmationService(sessions)
	ctx := context.Background()

	_, err := svc.FinalApprove(ctx, "sess-1", true)
	if !errors.Is(err, utils.ErrPendingComponents) {
		t.Fatalf("err = %v, want ErrPendingComponents", err)
	}
	var pending *utils.PendingComponentsError
	if !errors.As(err, &pending) || pending.Next != ComponentFlight {
		t.Fatalf("pending error should name flight, got %v", err)
	}

	if _, err := svc.Confirm(ctx, "sess-1", ComponentFlight, "f1"); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Confirm(ctx, "sess-1", ComponentHotel, "h1"); err != nil {
		t.Fatal(err)
	}

	_, err = svc.FinalApprove(ctx, "sess-1", true)
	if !errors.As(err, &pending) || pending.Next != ComponentCarRental {
		t.Fatalf("pending error should name carRental, got %v", err)
	}
	if len(archive.saved) != 0 {
		t.Fatal("nothing may be archived before approval succeeds")
	}
}

func TestFinalApproveRecordsAndOverwritesDecision(t *testing.T) {
	session, sessions := newTestSession()
	svc, _, archive := newConfirmationService(sessions)
	ctx := context.Background()

	for _, step := range []struct{ component, option string }{
		{ComponentFlight, "f1"}, {ComponentHotel, "h1"}, {ComponentCarRental, "c1"},
	} {
		if _, err := svc.Confirm(ctx, "sess-1", step.component, step.option); err != nil {
			t.Fatal(err)
		}
	}

	result, err := svc.FinalApprove(ctx, "sess-1", false)
	if err != nil {
		t.Fatalf("final approve: %v", err)
	}
	if result.Approved || session.FinalApproved == nil || *session.FinalApproved {
		t.Fatal("rejected decision not recorded")
	}
	if result.NoPurchasePolicy == "" {
		t.Fatal("no-purchase policy must always be stated")
	}
	if len(archive.saved) != 0 {
		t.Fatal("rejected plans are not archived")
	}

	// Repeating simply overwrites.
	result, err = svc.FinalApprove(ctx, "sess-1", true)
	if err != nil {
		t.Fatalf("second final approve: %v", err)
	}
	if !result.Approved || session.FinalApproved == nil || !*session.FinalApproved {
		t.Fatal("approval overwrite not recorded")
	}
	if len(archive.saved) != 1 {
		t.Fatalf("approved plan should be archived once, got %d", len(archive.saved))
	}
}

func TestGetSessionReturnsDetachedSnapshot(t *testing.T) {
	_, sessions := newTestSession()
	svc, _, _ := newConfirmationService(sessions)
	ctx := context.Background()

	if _, err := svc.Confirm(ctx, "sess-1", ComponentFlight, "f1"); err != nil {
		t.Fatal(err)
	}
	snapshot, err := svc.GetSession(ctx, "sess-1")
	if err != nil {
		t.Fatal(err)
	}

	// A later flight change must not bleed into the snapshot.
	if _, err := svc.Confirm(ctx, "sess-1", ComponentFlight, "f2"); err != nil {
		t.Fatal(err)
	}

	if snapshot.Itinerary.StayWindow.NightsAtDestination != 7 {
		t.Fatalf("snapshot nights = %d, want f1's 7", snapshot.Itinerary.StayWindow.NightsAtDestination)
	}
	if got := snapshot.Itinerary.Hotel.Options[0].CostUSD; got != 1750 {
		t.Fatalf("snapshot hotel cost = %v, want 1750", got)
	}
	if snapshot.Confirmations.Flight == nil || snapshot.Confirmations.Flight.OptionID != "f1" {
		t.Fatalf("snapshot flight confirmation = %+v, want f1", snapshot.Confirmations.Flight)
	}
}

func TestConfirmResultDetachedFromLaterChanges(t *testing.T) {
	_, sessions := newTestSession()
	svc, _, _ := newConfirmationService(sessions)
	ctx := context.Background()

	first, err := svc.Confirm(ctx, "sess-1", ComponentFlight, "f1")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Confirm(ctx, "sess-1", ComponentFlight, "f2"); err != nil {
		t.Fatal(err)
	}

	if first.Itinerary.StayWindow.NightsAtDestination != 7 {
		t.Fatalf("earlier result nights = %d, want f1's 7", first.Itinerary.StayWindow.NightsAtDestination)
	}
	if first.Confirmations.Flight == nil || first.Confirmations.Flight.OptionID != "f1" {
		t.Fatalf("earlier result flight confirmation = %+v, want f1", first.Confirmations.Flight)
	}
}

// Readers serialize against confirms through the session lock; under the
// race detector this fails if a reader ever marshals live session state.
func TestConcurrentReadsDuringConfirms(t *testing.T) {
	_, sessions := newTestSession()
	svc, _, _ := newConfirmationService(sessions)
	ctx := context.Background()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 200; i++ {
			svc.Confirm(ctx, "sess-1", ComponentFlight, "f1")
			svc.Confirm(ctx, "sess-1", ComponentHotel, "h1")
			svc.Confirm(ctx, "sess-1", ComponentFlight, "f2")
		}
	}()

	for i := 0; i < 200; i++ {
		snapshot, err := svc.GetSession(ctx, "sess-1")
		if err != nil {
			t.Fatal(err)
		}
		if _, err := json.Marshal(snapshot); err != nil {
			t.Fatal(err)
		}
	}
	<-done
}

func TestFinalReviewSurvivesEngineFailure(t *testing.T) {
	_, sessions := newTestSession()
	runner := &fakeRunner{errs: map[string]error{StageFinalReview: errors.New("engine down")}}
	svc := NewConfirmationService(sessions, runner, &recordingArchive{})
	ctx := context.Background()

	for _, step := range []struct{ component, option string }{
		{ComponentFlight, "f1"}, {ComponentHotel, "h1"}, {ComponentCarRental, "c1"},
	} {
		if _, err := svc.Confirm(ctx, "sess-1", step.component, step.option); err != nil {
			t.Fatalf("confirm %s: %v", step.component, err)
		}
	}

	session, err := svc.GetSession(ctx, "sess-1")
	if err != nil {
		t.Fatal(err)
	}
	if session.FinalReview == nil || session.FinalReview.Summary == "" {
		t.Fatal("a deterministic final review must stand in when the engine fails")
	}
}
