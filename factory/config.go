/*
Package factory provides JSON to engine-config conversion.

PURPOSE:

	Converts JSON tuning definitions into analytics.Config values. This
	enables threshold configuration without code changes - operations can
	adjust weather keyword tables and outlier thresholds in JSON, and the
	factory layers them over the engine defaults.

WHY JSON?
  - Non-developers can tune thresholds
  - Easy integration with deployment config
  - Version control for tuning definitions

JSON SCHEMA:

	{
	  "timezone": "America/Chicago",
	  "rolling_window_days": 7,
	  "bad_weather_keywords": ["rain", "snow", "ice storm"],
	  "bad_weather_day_flag_threshold": 3,
	  "temp_range_flag_threshold_f": 25,
	  "intraday_swing_threshold_f": 18,
	  "intraday_swing_day_threshold": 2,
	  "weather_impact_sales_ratio": 0.85
	}

	Every field is optional; omitted fields keep their default values.

USAGE:

	factory := NewConfigFactory()
	cfg, err := factory.ParseConfig(jsonString)

SEE ALSO:
  - analytics/config.go: The Config type and its defaults
  - cmd/server/main.go: Loads the JSON file given by -config
*/
package factory

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/keystone/store-analytics/analytics"
)

// =============================================================================
// JSON SCHEMA TYPES
// =============================================================================

// ConfigJSON is the JSON representation of engine tuning overrides.
// Pointer fields distinguish "not set" from an explicit zero.
type ConfigJSON struct {
	Timezone                   *string  `json:"timezone,omitempty"`
	RollingWindowDays          *int     `json:"rolling_window_days,omitempty"`
	BadWeatherKeywords         []string `json:"bad_weather_keywords,omitempty"`
	BadWeatherDayFlagThreshold *int     `json:"bad_weather_day_flag_threshold,omitempty"`
	TempRangeFlagThresholdF    *float64 `json:"temp_range_flag_threshold_f,omitempty"`
	IntradaySwingThresholdF    *float64 `json:"intraday_swing_threshold_f,omitempty"`
	IntradaySwingDayThreshold  *int     `json:"intraday_swing_day_threshold,omitempty"`
	WeatherImpactSalesRatio    *float64 `json:"weather_impact_sales_ratio,omitempty"`
}

// =============================================================================
// FACTORY
// =============================================================================

// ConfigFactory builds engine configs from JSON overrides.
type ConfigFactory struct{}

// NewConfigFactory creates a config factory.
func NewConfigFactory() *ConfigFactory {
	return &ConfigFactory{}
}

// ParseConfig layers JSON overrides over the engine defaults. Unknown
// fields are rejected so a typoed key fails loudly instead of silently
// keeping a default.
func (f *ConfigFactory) ParseConfig(jsonStr string) (analytics.Config, error) {
	cfg := analytics.DefaultConfig()

	var overrides ConfigJSON
	dec := json.NewDecoder(strings.NewReader(jsonStr))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&overrides); err != nil {
		return cfg, fmt.Errorf("invalid config JSON: %w", err)
	}

	if overrides.Timezone != nil {
		loc, err := time.LoadLocation(*overrides.Timezone)
		if err != nil {
			return cfg, fmt.Errorf("invalid timezone %q: %w", *overrides.Timezone, err)
		}
		cfg.Timezone = loc
	}
	if overrides.RollingWindowDays != nil {
		if *overrides.RollingWindowDays < 1 {
			return cfg, fmt.Errorf("rolling_window_days must be at least 1, got %d", *overrides.RollingWindowDays)
		}
		cfg.RollingWindowDays = *overrides.RollingWindowDays
	}
	if overrides.BadWeatherKeywords != nil {
		cfg.BadWeatherKeywords = overrides.BadWeatherKeywords
	}
	if overrides.BadWeatherDayFlagThreshold != nil {
		cfg.BadWeatherDayFlagThreshold = *overrides.BadWeatherDayFlagThreshold
	}
	if overrides.TempRangeFlagThresholdF != nil {
		cfg.TempRangeFlagThresholdF = *overrides.TempRangeFlagThresholdF
	}
	if overrides.IntradaySwingThresholdF != nil {
		cfg.IntradaySwingThresholdF = *overrides.IntradaySwingThresholdF
	}
	if overrides.IntradaySwingDayThreshold != nil {
		cfg.IntradaySwingDayThreshold = *overrides.IntradaySwingDayThreshold
	}
	if overrides.WeatherImpactSalesRatio != nil {
		if *overrides.WeatherImpactSalesRatio <= 0 || *overrides.WeatherImpactSalesRatio > 1 {
			return cfg, fmt.Errorf("weather_impact_sales_ratio must be in (0, 1], got %v", *overrides.WeatherImpactSalesRatio)
		}
		cfg.WeatherImpactSalesRatio = decimal.NewFromFloat(*overrides.WeatherImpactSalesRatio)
	}

	return cfg, nil
}
