package stage_models

import "tripsmith/internal/models/response_models"

// ResearchDocument is the contract for the research stage: candidate options
// for each trip component plus raw activity ideas for the composition stage.
type ResearchDocument struct {
	Flight        *response_models.FlightComponent `json:"flight"`
	Hotel         *response_models.HotelComponent  `json:"hotel"`
	CarRental     *response_models.CarComponent    `json:"car_rental"`
	ActivityIdeas []ActivityIdea                   `json:"activity_ideas"`
}

type ActivityIdea struct {
	Name             string  `json:"name"`
	Category         string  `json:"category"`
	EstimatedCostUSD float64 `json:"estimated_cost_usd"`
	Notes            string  `json:"notes,omitempty"`
}
