package services

import (
	"tripsmith/internal/models/response_models"
	"tripsmith/pkg/utils"
)

// AggregateCosts sums the currently-recommended option of each component
// plus activity estimates. Per-part figures are rounded to cents; the total
// is the exact sum of the four parts, never rounded independently, so the
// reported figures can never disagree.
func AggregateCosts(it *response_models.Itinerary) response_models.CostSummary {
	var flightUSD, hotelUSD, carUSD, activitiesUSD float64

	if opt := pickFlightOption(&it.Flight); opt != nil {
		flightUSD = opt.CostUSD
	}

	if opt := pickHotelOption(&it.Hotel); opt != nil {
		hotelUSD = opt.CostUSD
		if hotelUSD <= 0 && opt.NightlyRateUSD > 0 {
			hotelUSD = opt.NightlyRateUSD * float64(it.StayWindow.NightsAtDestination)
		}
	}

	if opt := pickCarOption(&it.CarRental); opt != nil {
		carUSD = opt.CostUSD
	}

	for _, a := range it.Activities {
		activitiesUSD += a.EstimatedCostUSD
	}

	summary := response_models.CostSummary{
		FlightUSD:     utils.Round2(flightUSD),
		HotelUSD:      utils.Round2(hotelUSD),
		CarRentalUSD:  utils.Round2(carUSD),
		ActivitiesUSD: utils.Round2(activitiesUSD),
	}
	summary.TotalUSD = summary.FlightUSD + summary.HotelUSD + summary.CarRentalUSD + summary.ActivitiesUSD
	return summary
}

// pickHotelOption mirrors pickFlightOption: recommended id first, falling
// back to the first option when the id is stale or missing.
func pickHotelOption(hotel *response_models.HotelComponent) *response_models.HotelOption {
	if hotel == nil || len(hotel.Options) == 0 {
		return nil
	}
	for i := range hotel.Options {
		if hotel.Options[i].ID == hotel.RecommendedOptionID {
			return &hotel.Options[i]
		}
	}
	return &hotel.Options[0]
}

func pickCarOption(car *response_models.CarComponent) *response_models.CarOption {
	if car == nil || len(car.Options) == 0 {
		return nil
	}
	for i := range car.Options {
		if car.Options[i].ID == car.RecommendedOptionID {
			return &car.Options[i]
		}
	}
	return &car.Options[0]
}
