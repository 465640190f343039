package response_models

// FlightOption is one bookable round-trip candidate. Timestamps are local
// clock times at the relevant airport, RFC3339-like with or without offset.
type FlightOption struct {
	ID                string  `json:"id"`
	Label             string  `json:"label"`
	Airline           string  `json:"airline"`
	Route             string  `json:"route"`
	TravelClass       string  `json:"travel_class"`
	OutboundDeparture string  `json:"outbound_departure"`
	OutboundArrival   string  `json:"outbound_arrival"`
	ReturnDeparture   string  `json:"return_departure"`
	ReturnArrival     string  `json:"return_arrival"`
	DayNightCount     string  `json:"day_night_count,omitempty"`
	CostUSD           float64 `json:"cost_usd"`
}

type HotelOption struct {
	ID             string  `json:"id"`
	Label          string  `json:"label"`
	Stars          int     `json:"stars"`
	NightlyRateUSD float64 `json:"nightly_rate_usd"`
	Nights         int     `json:"nights"`
	CostUSD        float64 `json:"cost_usd"`
}

type CarOption struct {
	ID           string  `json:"id"`
	Label        string  `json:"label"`
	Company      string  `json:"company"`
	CarType      string  `json:"car_type"`
	DailyRateUSD float64 `json:"daily_rate_usd"`
	Days         int     `json:"days"`
	CostUSD      float64 `json:"cost_usd"`
}

type FlightComponent struct {
	Options              []FlightOption `json:"options"`
	RecommendedOptionID  string         `json:"recommended_option_id"`
	ConfirmationQuestion string         `json:"confirmation_question"`
}

type HotelComponent struct {
	Options              []HotelOption `json:"options"`
	RecommendedOptionID  string        `json:"recommended_option_id"`
	ConfirmationQuestion string        `json:"confirmation_question"`
}

type CarComponent struct {
	Options              []CarOption `json:"options"`
	RecommendedOptionID  string      `json:"recommended_option_id"`
	ConfirmationQuestion string      `json:"confirmation_question"`
}

// StayWindow is the derived on-the-ground timing at the destination.
// DerivationNote records which path produced the counts (flight schedule
// vs. the raw preference date window).
type StayWindow struct {
	Arrival             string `json:"arrival"`
	Departure           string `json:"departure"`
	DaysAtDestination   int    `json:"days_at_destination"`
	NightsAtDestination int    `json:"nights_at_destination"`
	DerivationNote      string `json:"derivation_note"`
}

type Activity struct {
	Name             string  `json:"name"`
	Category         string  `json:"category"`
	EstimatedCostUSD float64 `json:"estimated_cost_usd"`
	Day              int     `json:"day"`
	Notes            string  `json:"notes,omitempty"`
}

type CostSummary struct {
	FlightUSD     float64 `json:"flight_usd"`
	HotelUSD      float64 `json:"hotel_usd"`
	CarRentalUSD  float64 `json:"car_rental_usd"`
	ActivitiesUSD float64 `json:"activities_usd"`
	TotalUSD      float64 `json:"total_usd"`
}

type Itinerary struct {
	TripSummary    string          `json:"trip_summary"`
	StayWindow     StayWindow      `json:"stay_window"`
	Flight         FlightComponent `json:"flight"`
	Hotel          HotelComponent  `json:"hotel"`
	CarRental      CarComponent    `json:"car_rental"`
	Activities     []Activity      `json:"activities"`
	SafetyConcerns []string        `json:"safety_concerns"`
	PackingList    []string        `json:"packing_list"`
	Costs          CostSummary     `json:"costs"`
	Disclaimer     string          `json:"disclaimer"`
}

// Clone deep-copies the itinerary; option and activity entries are plain
// values, so copying the slices detaches the result completely.
func (it *Itinerary) Clone() *Itinerary {
	if it == nil {
		return nil
	}
	out := *it
	out.Flight.Options = append([]FlightOption(nil), it.Flight.Options...)
	out.Hotel.Options = append([]HotelOption(nil), it.Hotel.Options...)
	out.CarRental.Options = append([]CarOption(nil), it.CarRental.Options...)
	out.Activities = append([]Activity(nil), it.Activities...)
	out.SafetyConcerns = append([]string(nil), it.SafetyConcerns...)
	out.PackingList = append([]string(nil), it.PackingList...)
	return &out
}
