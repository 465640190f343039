package stage_models

import "tripsmith/internal/models/response_models"

// CompositionDocument is the contract for the composition stage. Components
// may be partial or missing; the normalizer backfills them from research.
type CompositionDocument struct {
	TripSummary string                           `json:"trip_summary"`
	Flight      *response_models.FlightComponent `json:"flight"`
	Hotel       *response_models.HotelComponent  `json:"hotel"`
	CarRental   *response_models.CarComponent    `json:"car_rental"`
	Activities  []response_models.Activity       `json:"activities"`
	Disclaimer  string                           `json:"disclaimer"`
}

// FinalReviewDocument is the contract for the final-review call issued once
// every component has been confirmed.
type FinalReviewDocument struct {
	Summary       string `json:"summary"`
	FinalQuestion string `json:"final_question"`
	Reminder      string `json:"reminder"`
}
