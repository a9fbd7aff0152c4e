/*
weather.go - Weather correlation over the window

PURPOSE:

	Summarizes the window's hand-keyed weather samples: the dominant
	condition, bad-weather day count, temperature outlier flags and a
	sales-impact hint. All thresholds and the keyword table come from Config.

MODE FINDING:

	The dominant condition is the statistical mode over all start/end
	condition strings observed in the window, with FIRST-SEEN wins on ties.
	The accumulator is insertion-ordered for exactly that reason - hash-map
	iteration order would make tie results nondeterministic.
*/
package analytics

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var decimalHundred = decimal.NewFromInt(100)

// Outlier flag identifiers. All flags are independent; any subset may fire.
const (
	FlagFrequentBadWeather = "frequent_bad_weather"
	FlagWideTempRange      = "wide_temperature_range"
	FlagIntradaySwings     = "intraday_temperature_swings"
)

// WeatherSummary is the weather block of a period summary.
type WeatherSummary struct {
	// DominantCondition is the modal condition string, nil when no
	// condition was ever observed.
	DominantCondition *string

	BadWeatherDays int
	MinTempF       *float64
	MaxTempF       *float64

	OutlierFlags []string

	// ImpactHint is set only when at least one bad-weather day also had
	// sales below the configured share of the window's mean daily sales.
	ImpactHint *string
}

// IsBadWeather reports whether a condition or description matches the
// configured keyword table (case-insensitive substring).
func (c Config) IsBadWeather(obs *WeatherObservation) bool {
	if obs == nil {
		return false
	}
	for _, s := range []*string{obs.Condition, obs.Description} {
		if s == nil {
			continue
		}
		lower := strings.ToLower(*s)
		for _, kw := range c.BadWeatherKeywords {
			if strings.Contains(lower, kw) {
				return true
			}
		}
	}
	return false
}

// dayHasBadWeather checks either of the day's observations.
func dayHasBadWeather(cfg Config, r DailyRollup) bool {
	return cfg.IsBadWeather(r.StartWeather) || cfg.IsBadWeather(r.EndWeather)
}

// SummarizeWeather builds the weather block from a store's date-ordered
// rollups and the window's volatility (for the mean daily sales the impact
// hint compares against).
func SummarizeWeather(cfg Config, rollups []DailyRollup, vol VolatilitySummary) WeatherSummary {
	out := WeatherSummary{}

	// Dominant condition: insertion-ordered mode over start and end
	// conditions.
	counts := make(map[string]int)
	var seen []string
	observe := func(obs *WeatherObservation) {
		if obs == nil || obs.Condition == nil {
			return
		}
		cond := *obs.Condition
		if _, ok := counts[cond]; !ok {
			seen = append(seen, cond)
		}
		counts[cond]++
	}

	swingDays := 0
	impactDays := 0

	for _, r := range rollups {
		observe(r.StartWeather)
		observe(r.EndWeather)

		if dayHasBadWeather(cfg, r) {
			out.BadWeatherDays++
			if r.SalesCents != nil && vol.MeanDailySalesCents != nil {
				threshold := vol.MeanDailySalesCents.Mul(cfg.WeatherImpactSalesRatio)
				if r.SalesCents.Decimal().LessThan(threshold) {
					impactDays++
				}
			}
		}

		for _, obs := range []*WeatherObservation{r.StartWeather, r.EndWeather} {
			if obs == nil || obs.TempF == nil {
				continue
			}
			t := *obs.TempF
			if out.MinTempF == nil || t < *out.MinTempF {
				out.MinTempF = Float64Ptr(t)
			}
			if out.MaxTempF == nil || t > *out.MaxTempF {
				out.MaxTempF = Float64Ptr(t)
			}
		}

		if r.StartWeather != nil && r.EndWeather != nil &&
			r.StartWeather.TempF != nil && r.EndWeather.TempF != nil {
			swing := *r.EndWeather.TempF - *r.StartWeather.TempF
			if swing < 0 {
				swing = -swing
			}
			if swing >= cfg.IntradaySwingThresholdF {
				swingDays++
			}
		}
	}

	best := ""
	bestCount := 0
	for _, cond := range seen {
		if counts[cond] > bestCount {
			best = cond
			bestCount = counts[cond]
		}
	}
	if bestCount > 0 {
		out.DominantCondition = StringPtr(best)
	}

	if out.BadWeatherDays >= cfg.BadWeatherDayFlagThreshold {
		out.OutlierFlags = append(out.OutlierFlags, FlagFrequentBadWeather)
	}
	if out.MinTempF != nil && out.MaxTempF != nil &&
		*out.MaxTempF-*out.MinTempF >= cfg.TempRangeFlagThresholdF {
		out.OutlierFlags = append(out.OutlierFlags, FlagWideTempRange)
	}
	if swingDays >= cfg.IntradaySwingDayThreshold {
		out.OutlierFlags = append(out.OutlierFlags, FlagIntradaySwings)
	}

	if impactDays > 0 {
		out.ImpactHint = StringPtr(fmt.Sprintf(
			"%d bad-weather day(s) ran below %s%% of mean daily sales",
			impactDays,
			cfg.WeatherImpactSalesRatio.Mul(decimalHundred).String(),
		))
	}

	return out
}
