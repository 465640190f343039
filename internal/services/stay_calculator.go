package services

import (
	"fmt"

	"tripsmith/internal/models/request_models"
	"tripsmith/internal/models/response_models"
	"tripsmith/pkg/utils"
)

// DeriveStayWindow computes arrival/departure timing and whole day/night
// counts at the destination. Primary path reads the chosen flight's local
// schedule date-only (clock times across timezones would skew the counts);
// fallback is the raw preference date window, then the declared trip length.
// Pure and deterministic for given inputs.
func DeriveStayWindow(flight *response_models.FlightComponent, prefs request_models.PlanRequest) response_models.StayWindow {
	if opt := pickFlightOption(flight); opt != nil {
		arrival, okArr := utils.ParseLocalDate(opt.OutboundArrival)
		departure, okDep := utils.ParseLocalDate(opt.ReturnDeparture)
		if okArr && okDep {
			nights := utils.WholeDaysBetween(arrival, departure)
			if nights >= 0 {
				return response_models.StayWindow{
					Arrival:             opt.OutboundArrival,
					Departure:           opt.ReturnDeparture,
					DaysAtDestination:   nights + 1,
					NightsAtDestination: nights,
					DerivationNote:      fmt.Sprintf("Derived from flight schedule (%s)", opt.Label),
				}
			}
		}
	}

	start, okStart := utils.ParseLocalDate(prefs.StartDate)
	end, okEnd := utils.ParseLocalDate(prefs.EndDate)
	if okStart && okEnd {
		diff := utils.WholeDaysBetween(start, end)
		return response_models.StayWindow{
			Arrival:             prefs.StartDate,
			Departure:           prefs.EndDate,
			DaysAtDestination:   maxInt(1, diff),
			NightsAtDestination: maxInt(0, diff-1),
			DerivationNote:      "Derived from trip date window",
		}
	}

	return response_models.StayWindow{
		Arrival:             prefs.StartDate,
		Departure:           prefs.EndDate,
		DaysAtDestination:   maxInt(1, prefs.DurationDays),
		NightsAtDestination: maxInt(0, prefs.DurationDays-1),
		DerivationNote:      "Estimated from requested trip length",
	}
}

// pickFlightOption returns the option referenced by the component's
// recommended id, the first option when no id matches, or nil.
func pickFlightOption(flight *response_models.FlightComponent) *response_models.FlightOption {
	if flight == nil || len(flight.Options) == 0 {
		return nil
	}
	for i := range flight.Options {
		if flight.Options[i].ID == flight.RecommendedOptionID {
			return &flight.Options[i]
		}
	}
	return &flight.Options[0]
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
