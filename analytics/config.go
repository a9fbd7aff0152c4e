/*
config.go - Tuning tables for the analytics engine

PURPOSE:

	Every threshold and keyword table the engine consults lives here as an
	overridable Config value rather than a magic literal buried in an
	algorithm. DefaultConfig carries the production values; tests and the
	config factory can override any of them.

SEE ALSO:
  - weather.go: Consumes the keyword table and outlier thresholds
  - factory/config.go: JSON overrides layered over DefaultConfig
*/
package analytics

import (
	"time"

	"github.com/shopspring/decimal"
)

// Config holds the engine's tuning tables. The zero value is not usable;
// start from DefaultConfig.
type Config struct {
	// Timezone is the business timezone used to turn shift timestamps into
	// business dates. Nil falls back to UTC.
	Timezone *time.Location

	// RollingWindowDays is the trailing rolling-average span for the daily
	// trend (current day plus up to RollingWindowDays-1 preceding present
	// days; the window shrinks at the start of the series).
	RollingWindowDays int

	// BadWeatherKeywords mark a condition or description as bad weather
	// when any keyword appears as a case-insensitive substring.
	BadWeatherKeywords []string

	// Outlier flag thresholds (all independent; all may fire).
	BadWeatherDayFlagThreshold int     // >= this many bad-weather days
	TempRangeFlagThresholdF    float64 // intra-window temperature range >=
	IntradaySwingThresholdF    float64 // single-day start->end swing >=
	IntradaySwingDayThreshold  int     // >= this many swing days

	// WeatherImpactSalesRatio: a bad-weather day counts toward the impact
	// hint when its sales fall below this share of the window's mean daily
	// sales.
	WeatherImpactSalesRatio decimal.Decimal
}

// DefaultConfig returns the standard tuning values.
func DefaultConfig() Config {
	return Config{
		Timezone:          time.UTC,
		RollingWindowDays: 7,
		BadWeatherKeywords: []string{
			"rain", "drizzle", "thunder", "storm", "snow", "sleet",
			"hail", "freezing", "mist", "fog", "squall",
		},
		BadWeatherDayFlagThreshold: 3,
		TempRangeFlagThresholdF:    25,
		IntradaySwingThresholdF:    18,
		IntradaySwingDayThreshold:  2,
		WeatherImpactSalesRatio:    decimal.NewFromFloat(0.85),
	}
}

// Location returns the configured timezone, defaulting to UTC.
func (c Config) Location() *time.Location {
	if c.Timezone == nil {
		return time.UTC
	}
	return c.Timezone
}
