package services

import (
	"fmt"

	"tripsmith/internal/models/response_models"
	"tripsmith/pkg/utils"
)

// The normalizers guarantee a well-formed component out of whatever a
// generation stage produced: non-empty option list (falling back to the
// research options), a recommended id that references a real option, and a
// confirmation question. Hotel and car passes additionally realign every
// option's total cost with its per-unit rate and the current stay length.

func NormalizeFlightComponent(comp, fallback *response_models.FlightComponent, fallbackQuestion string) response_models.FlightComponent {
	out := response_models.FlightComponent{}
	if comp != nil {
		out = *comp
	}
	if len(out.Options) == 0 && fallback != nil {
		out.Options = fallback.Options
		if out.RecommendedOptionID == "" {
			out.RecommendedOptionID = fallback.RecommendedOptionID
		}
	}
	out.RecommendedOptionID = ensureRecommendedFlight(out.Options, out.RecommendedOptionID)
	if out.ConfirmationQuestion == "" {
		if fallback != nil && fallback.ConfirmationQuestion != "" {
			out.ConfirmationQuestion = fallback.ConfirmationQuestion
		} else {
			out.ConfirmationQuestion = fallbackQuestion
		}
	}

	for i := range out.Options {
		opt := &out.Options[i]
		opt.CostUSD = utils.Round2(opt.CostUSD)
		arrival, okArr := utils.ParseLocalDate(opt.OutboundArrival)
		departure, okDep := utils.ParseLocalDate(opt.ReturnDeparture)
		if okArr && okDep {
			if nights := utils.WholeDaysBetween(arrival, departure); nights >= 0 {
				opt.DayNightCount = fmt.Sprintf("%d days / %d nights", nights+1, nights)
			}
		}
	}
	return out
}

func NormalizeHotelComponent(comp, fallback *response_models.HotelComponent, fallbackQuestion string, stay response_models.StayWindow) response_models.HotelComponent {
	out := response_models.HotelComponent{}
	if comp != nil {
		out = *comp
	}
	if len(out.Options) == 0 && fallback != nil {
		out.Options = fallback.Options
		if out.RecommendedOptionID == "" {
			out.RecommendedOptionID = fallback.RecommendedOptionID
		}
	}
	out.RecommendedOptionID = ensureRecommendedHotel(out.Options, out.RecommendedOptionID)
	if out.ConfirmationQuestion == "" {
		if fallback != nil && fallback.ConfirmationQuestion != "" {
			out.ConfirmationQuestion = fallback.ConfirmationQuestion
		} else {
			out.ConfirmationQuestion = fallbackQuestion
		}
	}

	for i := range out.Options {
		opt := &out.Options[i]
		rate := opt.NightlyRateUSD
		if rate <= 0 {
			switch {
			case opt.Nights > 0:
				rate = opt.CostUSD / float64(opt.Nights)
			case stay.NightsAtDestination > 0:
				rate = opt.CostUSD / float64(stay.NightsAtDestination)
			default:
				rate = opt.CostUSD
			}
		}
		opt.NightlyRateUSD = utils.Round2(rate)
		opt.Nights = stay.NightsAtDestination
		opt.CostUSD = utils.Round2(opt.NightlyRateUSD * float64(stay.NightsAtDestination))
	}
	return out
}

func NormalizeCarComponent(comp, fallback *response_models.CarComponent, fallbackQuestion string, stay response_models.StayWindow) response_models.CarComponent {
	out := response_models.CarComponent{}
	if comp != nil {
		out = *comp
	}
	if len(out.Options) == 0 && fallback != nil {
		out.Options = fallback.Options
		if out.RecommendedOptionID == "" {
			out.RecommendedOptionID = fallback.RecommendedOptionID
		}
	}
	out.RecommendedOptionID = ensureRecommendedCar(out.Options, out.RecommendedOptionID)
	if out.ConfirmationQuestion == "" {
		if fallback != nil && fallback.ConfirmationQuestion != "" {
			out.ConfirmationQuestion = fallback.ConfirmationQuestion
		} else {
			out.ConfirmationQuestion = fallbackQuestion
		}
	}

	for i := range out.Options {
		opt := &out.Options[i]
		rate := opt.DailyRateUSD
		if rate <= 0 {
			switch {
			case opt.Days > 0:
				rate = opt.CostUSD / float64(opt.Days)
			case stay.DaysAtDestination > 0:
				rate = opt.CostUSD / float64(stay.DaysAtDestination)
			default:
				rate = opt.CostUSD
			}
		}
		opt.DailyRateUSD = utils.Round2(rate)
		opt.Days = stay.DaysAtDestination
		opt.CostUSD = utils.Round2(opt.DailyRateUSD * float64(stay.DaysAtDestination))
	}
	return out
}

func ensureRecommendedFlight(options []response_models.FlightOption, id string) string {
	for _, o := range options {
		if o.ID == id && id != "" {
			return id
		}
	}
	if len(options) > 0 {
		return options[0].ID
	}
	return ""
}

func ensureRecommendedHotel(options []response_models.HotelOption, id string) string {
	for _, o := range options {
		if o.ID == id && id != "" {
			return id
		}
	}
	if len(options) > 0 {
		return options[0].ID
	}
	return ""
}

func ensureRecommendedCar(options []response_models.CarOption, id string) string {
	for _, o := range options {
		if o.ID == id && id != "" {
			return id
		}
	}
	if len(options) > 0 {
		return options[0].ID
	}
	return ""
}
