package request_models

import "strings"

// PlanRequest carries the traveller's preferences for one planning run.
// Dates are local calendar dates in YYYY-MM-DD form.
type PlanRequest struct {
	Origin            string   `json:"origin"`
	Destination       string   `json:"destination"`
	StartDate         string   `json:"start_date"`
	EndDate           string   `json:"end_date"`
	DurationDays      int      `json:"duration_days"`
	Activities        []string `json:"activities"`
	WeatherPreference string   `json:"weather_preference"`
	TravelClass       string   `json:"travel_class"`
	HotelStars        int      `json:"hotel_stars"`
	TransportNotes    string   `json:"transport_notes,omitempty"`
}

// Problems returns one entry per invalid field, empty when the request is usable.
func (r *PlanRequest) Problems() []string {
	var problems []string

	if strings.TrimSpace(r.Origin) == "" {
		problems = append(problems, "origin is required")
	}
	if strings.TrimSpace(r.Destination) == "" {
		problems = append(problems, "destination is required")
	}
	if strings.TrimSpace(r.StartDate) == "" {
		problems = append(problems, "start_date is required")
	}
	if strings.TrimSpace(r.EndDate) == "" {
		problems = append(problems, "end_date is required")
	}
	if r.StartDate != "" && r.EndDate != "" && r.EndDate <= r.StartDate {
		problems = append(problems, "end_date must be after start_date")
	}
	if r.DurationDays < 1 {
		problems = append(problems, "duration_days must be at least 1")
	}
	if len(r.Activities) == 0 {
		problems = append(problems, "activities must contain at least one category")
	}
	if r.HotelStars < 1 || r.HotelStars > 5 {
		problems = append(problems, "hotel_stars must be between 1 and 5")
	}

	return problems
}
