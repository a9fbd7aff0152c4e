/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:

	Defines the JSON structures for API communication. These types decouple
	the engine's value objects from the external API contract, allowing:
	- Field renaming without breaking clients
	- API-specific formatting (dates as YYYY-MM-DD, decimals as numbers)
	- Version evolution

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

NULL HANDLING:

	The engine's absent-data contract carries straight through: every nil
	pointer in a summary serializes as JSON null, never as 0. Clients can
	therefore distinguish "no data" from "measured zero" on every metric.

DECIMALS:

	decimal.Decimal values are converted to float64 at the API boundary
	only. All engine math stays in decimals; the float is a display value.

SEE ALSO:
  - handlers.go: Uses these types
  - analytics/summary.go: The value objects these mirror
*/
package api

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/keystone/store-analytics/analytics"
)

// =============================================================================
// REQUEST TYPES
// =============================================================================

// CreateStoreRequest registers a store.
type CreateStoreRequest struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// CreateEmployeeRequest registers an employee.
type CreateEmployeeRequest struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// WeatherDTO is a hand-keyed weather sample. All fields optional.
type WeatherDTO struct {
	Condition   *string  `json:"condition"`
	Description *string  `json:"description"`
	TempF       *float64 `json:"temp_f"`
}

// CreateShiftRequest records a clock event. Timestamps are RFC3339.
type CreateShiftRequest struct {
	ID             string      `json:"id"`
	StoreID        string      `json:"store_id"`
	EmployeeID     string      `json:"employee_id"`
	Kind           string      `json:"kind"`
	PlannedStartAt string      `json:"planned_start_at"`
	EndedAt        *string     `json:"ended_at"`
	StartWeather   *WeatherDTO `json:"start_weather"`
	EndWeather     *WeatherDTO `json:"end_weather"`
}

// SaveSalesRecordRequest records the register readings for one store
// business day. Monetary fields are integer cents; absent readings stay
// null.
type SaveSalesRecordRequest struct {
	StoreID      string  `json:"store_id"`
	BusinessDate string  `json:"business_date"`
	OpenShiftID  *string `json:"open_shift_id"`
	CloseShiftID *string `json:"close_shift_id"`

	OpenXCents       *int64 `json:"open_x_cents"`
	CloseSalesCents  *int64 `json:"close_sales_cents"`
	ZReportCents     *int64 `json:"z_report_cents"`
	RolloverInCents  *int64 `json:"rollover_in_cents"`
	RolloverOutCents *int64 `json:"rollover_out_cents"`
	IsRolloverNight  bool   `json:"is_rollover_night"`

	OpenTxnCount  *int `json:"open_txn_count"`
	CloseTxnCount *int `json:"close_txn_count"`
}

// SaveCloseoutRequest records an end-of-day safe count.
type SaveCloseoutRequest struct {
	StoreID              string `json:"store_id"`
	BusinessDate         string `json:"business_date"`
	Status               string `json:"status"`
	CashCents            int64  `json:"cash_cents"`
	CardCents            int64  `json:"card_cents"`
	ExpectedDepositCents int64  `json:"expected_deposit_cents"`
	ActualDepositCents   int64  `json:"actual_deposit_cents"`
	VarianceCents        int64  `json:"variance_cents"`
}

// LoadScenarioRequest selects a demo scenario.
type LoadScenarioRequest struct {
	Name string `json:"name"`
}

// ErrorResponse is the standard error payload.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// =============================================================================
// RESPONSE TYPES
// =============================================================================

// StoreDTO represents a store in API responses.
type StoreDTO struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// EmployeeDTO represents an employee in API responses.
type EmployeeDTO struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ScenarioDTO describes a loadable demo scenario.
type ScenarioDTO struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// DaySalesDTO labels a best/worst day.
type DaySalesDTO struct {
	Date       string `json:"date"`
	SalesCents int64  `json:"sales_cents"`
}

// ShiftTypeAverageDTO labels the best shift type.
type ShiftTypeAverageDTO struct {
	Kind          string  `json:"kind"`
	AvgSalesCents float64 `json:"avg_sales_cents"`
}

// TrendPointDTO is one day of the per-store trend series.
type TrendPointDTO struct {
	Date          string   `json:"date"`
	SalesCents    *int64   `json:"sales_cents"`
	AdjustedSales *float64 `json:"adjusted_sales_cents"`
	Rolling7      *float64 `json:"rolling_7_cents"`
	TxnCount      *int     `json:"txn_count"`
	LaborHours    float64  `json:"labor_hours"`
	RPLH          *float64 `json:"rplh_cents"`
	BasketSize    *float64 `json:"basket_size_cents"`
}

// WeekdayStatsDTO is one row of the weekday breakdown table.
type WeekdayStatsDTO struct {
	Weekday         string   `json:"weekday"`
	AvgSalesCents   *float64 `json:"avg_sales_cents"`
	AvgTransactions *float64 `json:"avg_transactions"`
	AvgBasketSize   *float64 `json:"avg_basket_size_cents"`
	AvgLaborHours   *float64 `json:"avg_labor_hours"`
	AvgRPLH         *float64 `json:"avg_rplh_cents"`
	DayCount        int      `json:"day_count"`
}

// ShiftTypeStatsDTO is one row of the shift-type breakdown table.
type ShiftTypeStatsDTO struct {
	Kind            string   `json:"kind"`
	AvgSalesCents   *float64 `json:"avg_sales_cents"`
	AvgTransactions *float64 `json:"avg_transactions"`
	AvgBasketSize   *float64 `json:"avg_basket_size_cents"`
	AvgLaborHours   *float64 `json:"avg_labor_hours"`
	AvgRPLH         *float64 `json:"avg_rplh_cents"`
	ShiftCount      int      `json:"shift_count"`
}

// VolatilityDTO is the dispersion block.
type VolatilityDTO struct {
	SampleDays             int      `json:"sample_days"`
	MeanDailySalesCents    *float64 `json:"mean_daily_sales_cents"`
	StdDevDailySalesCents  *float64 `json:"std_dev_daily_sales_cents"`
	CoefficientOfVariation *float64 `json:"coefficient_of_variation"`
	DaysBelowBand          int      `json:"days_below_band"`
	DaysAboveBand          int      `json:"days_above_band"`
	LargestIncreaseCents   *int64   `json:"largest_increase_cents"`
	LargestDecreaseCents   *int64   `json:"largest_decrease_cents"`
}

// WeatherSummaryDTO is the weather block.
type WeatherSummaryDTO struct {
	DominantCondition *string  `json:"dominant_condition"`
	BadWeatherDays    int      `json:"bad_weather_days"`
	MinTempF          *float64 `json:"min_temp_f"`
	MaxTempF          *float64 `json:"max_temp_f"`
	OutlierFlags      []string `json:"outlier_flags"`
	ImpactHint        *string  `json:"impact_hint"`
}

// CashMixDTO is the tender-split block.
type CashMixDTO struct {
	CashPct              *float64 `json:"cash_pct"`
	CardPct              *float64 `json:"card_pct"`
	DepositVarianceCents int64    `json:"deposit_variance_cents"`
	CloseoutDayCount     int      `json:"closeout_day_count"`
}

// CashRiskDTO is the cash-handling risk block.
type CashRiskDTO struct {
	CloseoutCount        int      `json:"closeout_count"`
	TotalVarianceCents   int64    `json:"total_variance_cents"`
	MeanAbsVarianceCents *float64 `json:"mean_abs_variance_cents"`
	ShortageDays         int      `json:"shortage_days"`
	OverageDays          int      `json:"overage_days"`
	LargestShortageCents *int64   `json:"largest_shortage_cents"`
	LargestOverageCents  *int64   `json:"largest_overage_cents"`
}

// IntegrityDTO is the data-coverage block.
type IntegrityDTO struct {
	ExpectedDays          int `json:"expected_days"`
	DaysWithSales         int `json:"days_with_sales"`
	DaysWithTransactions  int `json:"days_with_transactions"`
	DaysWithLabor         int `json:"days_with_labor"`
	DaysWithCloseout      int `json:"days_with_closeout"`
	SalesDaysFromCloseout int `json:"sales_days_from_closeout"`
	MissingSalesDays      int `json:"missing_sales_days"`
	MissingLaborDays      int `json:"missing_labor_days"`
	MissingCloseoutDays   int `json:"missing_closeout_days"`
}

// PerformerDTO labels one metric winner.
type PerformerDTO struct {
	EmployeeID string  `json:"employee_id"`
	Name       string  `json:"name"`
	Value      float64 `json:"value"`
}

// PerformersDTO holds the six independent winners.
type PerformersDTO struct {
	TotalSales        *PerformerDTO `json:"total_sales"`
	TotalTransactions *PerformerDTO `json:"total_transactions"`
	TotalLaborHours   *PerformerDTO `json:"total_labor_hours"`
	RPLH              *PerformerDTO `json:"rplh"`
	TxnPerLaborHour   *PerformerDTO `json:"txn_per_labor_hour"`
	BasketSize        *PerformerDTO `json:"basket_size"`
}

// DeltasDTO is the current-minus-previous comparison block.
type DeltasDTO struct {
	GrossSalesCents    *float64 `json:"gross_sales_cents"`
	AdjustedGrossSales *float64 `json:"adjusted_gross_sales_cents"`
	Transactions       *float64 `json:"transactions"`
	BasketSize         *float64 `json:"basket_size_cents"`
	RPLH               *float64 `json:"rplh_cents"`
}

// StoreSummaryDTO is the full per-store report for one window.
type StoreSummaryDTO struct {
	StoreID   string `json:"store_id"`
	StoreName string `json:"store_name"`
	From      string `json:"from"`
	To        string `json:"to"`

	GrossSalesCents    *int64   `json:"gross_sales_cents"`
	AdjustedGrossSales *float64 `json:"adjusted_gross_sales_cents"`
	ScalingFactor      float64  `json:"scaling_factor"`

	TotalTransactions    *int     `json:"total_transactions"`
	AdjustedTransactions *float64 `json:"adjusted_transactions"`
	BasketSize           *float64 `json:"basket_size_cents"`
	AdjustedBasketSize   *float64 `json:"adjusted_basket_size_cents"`

	TotalLaborHours float64  `json:"total_labor_hours"`
	RPLH            *float64 `json:"rplh_cents"`
	AdjustedRPLH    *float64 `json:"adjusted_rplh_cents"`

	CashMix  CashMixDTO        `json:"cash_mix"`
	CashRisk CashRiskDTO       `json:"cash_risk"`
	Weather  WeatherSummaryDTO `json:"weather"`

	BestDay       *DaySalesDTO         `json:"best_day"`
	WorstDay      *DaySalesDTO         `json:"worst_day"`
	BestShiftType *ShiftTypeAverageDTO `json:"best_shift_type"`

	Trend      []TrendPointDTO     `json:"trend"`
	Weekdays   []WeekdayStatsDTO   `json:"weekdays"`
	ShiftTypes []ShiftTypeStatsDTO `json:"shift_types"`
	Volatility VolatilityDTO       `json:"volatility"`

	Integrity  IntegrityDTO  `json:"integrity"`
	Performers PerformersDTO `json:"performers"`

	Previous DeltasDTO `json:"previous_deltas"`
}

// =============================================================================
// CONVERSIONS
// =============================================================================

func fptr(d *decimal.Decimal) *float64 {
	if d == nil {
		return nil
	}
	f, _ := d.Float64()
	return &f
}

func centsToInt64Ptr(c *analytics.Cents) *int64 {
	if c == nil {
		return nil
	}
	v := int64(*c)
	return &v
}

func toSummaryDTO(s analytics.StorePeriodSummary) StoreSummaryDTO {
	factor, _ := s.ScalingFactor.Float64()
	labor, _ := s.TotalLaborHours.Float64()

	dto := StoreSummaryDTO{
		StoreID:   s.StoreID,
		StoreName: s.StoreName,
		From:      s.Window.From.String(),
		To:        s.Window.To.String(),

		GrossSalesCents:    centsToInt64Ptr(s.GrossSalesCents),
		AdjustedGrossSales: fptr(s.AdjustedGrossSales),
		ScalingFactor:      factor,

		TotalTransactions:    s.TotalTransactions,
		AdjustedTransactions: fptr(s.AdjustedTransactions),
		BasketSize:           fptr(s.BasketSize),
		AdjustedBasketSize:   fptr(s.AdjustedBasketSize),

		TotalLaborHours: labor,
		RPLH:            fptr(s.RPLH),
		AdjustedRPLH:    fptr(s.AdjustedRPLH),

		CashMix: CashMixDTO{
			CashPct:              fptr(s.CashMix.CashPct),
			CardPct:              fptr(s.CashMix.CardPct),
			DepositVarianceCents: int64(s.CashMix.DepositVarianceCents),
			CloseoutDayCount:     s.CashMix.CloseoutDayCount,
		},
		CashRisk: CashRiskDTO{
			CloseoutCount:        s.CashRisk.CloseoutCount,
			TotalVarianceCents:   int64(s.CashRisk.TotalVarianceCents),
			MeanAbsVarianceCents: fptr(s.CashRisk.MeanAbsVarianceCents),
			ShortageDays:         s.CashRisk.ShortageDays,
			OverageDays:          s.CashRisk.OverageDays,
			LargestShortageCents: centsToInt64Ptr(s.CashRisk.LargestShortageCents),
			LargestOverageCents:  centsToInt64Ptr(s.CashRisk.LargestOverageCents),
		},
		Weather: WeatherSummaryDTO{
			DominantCondition: s.Weather.DominantCondition,
			BadWeatherDays:    s.Weather.BadWeatherDays,
			MinTempF:          s.Weather.MinTempF,
			MaxTempF:          s.Weather.MaxTempF,
			OutlierFlags:      s.Weather.OutlierFlags,
			ImpactHint:        s.Weather.ImpactHint,
		},
		Volatility: VolatilityDTO{
			SampleDays:             s.Volatility.SampleDays,
			MeanDailySalesCents:    fptr(s.Volatility.MeanDailySalesCents),
			StdDevDailySalesCents:  fptr(s.Volatility.StdDevDailySalesCents),
			CoefficientOfVariation: fptr(s.Volatility.CoefficientOfVariation),
			DaysBelowBand:          s.Volatility.DaysBelowBand,
			DaysAboveBand:          s.Volatility.DaysAboveBand,
			LargestIncreaseCents:   centsToInt64Ptr(s.Volatility.LargestIncreaseCents),
			LargestDecreaseCents:   centsToInt64Ptr(s.Volatility.LargestDecreaseCents),
		},
		Integrity: IntegrityDTO{
			ExpectedDays:          s.Integrity.ExpectedDays,
			DaysWithSales:         s.Integrity.DaysWithSales,
			DaysWithTransactions:  s.Integrity.DaysWithTransactions,
			DaysWithLabor:         s.Integrity.DaysWithLabor,
			DaysWithCloseout:      s.Integrity.DaysWithCloseout,
			SalesDaysFromCloseout: s.Integrity.SalesDaysFromCloseout,
			MissingSalesDays:      s.Integrity.MissingSalesDays,
			MissingLaborDays:      s.Integrity.MissingLaborDays,
			MissingCloseoutDays:   s.Integrity.MissingCloseoutDays,
		},
		Performers: PerformersDTO{
			TotalSales:        toPerformerDTO(s.Performers.TotalSales),
			TotalTransactions: toPerformerDTO(s.Performers.TotalTransactions),
			TotalLaborHours:   toPerformerDTO(s.Performers.TotalLaborHours),
			RPLH:              toPerformerDTO(s.Performers.RPLH),
			TxnPerLaborHour:   toPerformerDTO(s.Performers.TxnPerLaborHour),
			BasketSize:        toPerformerDTO(s.Performers.BasketSize),
		},
		Previous: DeltasDTO{
			GrossSalesCents:    fptr(s.Previous.GrossSalesCents),
			AdjustedGrossSales: fptr(s.Previous.AdjustedGrossSales),
			Transactions:       fptr(s.Previous.Transactions),
			BasketSize:         fptr(s.Previous.BasketSize),
			RPLH:               fptr(s.Previous.RPLH),
		},
	}

	if s.BestDay != nil {
		dto.BestDay = &DaySalesDTO{Date: s.BestDay.Date.String(), SalesCents: int64(s.BestDay.SalesCents)}
	}
	if s.WorstDay != nil {
		dto.WorstDay = &DaySalesDTO{Date: s.WorstDay.Date.String(), SalesCents: int64(s.WorstDay.SalesCents)}
	}
	if s.BestShiftType != nil {
		avg, _ := s.BestShiftType.AvgSalesCents.Float64()
		dto.BestShiftType = &ShiftTypeAverageDTO{Kind: string(s.BestShiftType.Kind), AvgSalesCents: avg}
	}

	dto.Trend = make([]TrendPointDTO, len(s.Trend))
	for i, p := range s.Trend {
		laborHours, _ := p.LaborHours.Float64()
		dto.Trend[i] = TrendPointDTO{
			Date:          p.Date.String(),
			SalesCents:    centsToInt64Ptr(p.SalesCents),
			AdjustedSales: fptr(p.AdjustedSales),
			Rolling7:      fptr(p.Rolling7),
			TxnCount:      p.TxnCount,
			LaborHours:    laborHours,
			RPLH:          fptr(p.RPLH),
			BasketSize:    fptr(p.BasketSize),
		}
	}

	dto.Weekdays = make([]WeekdayStatsDTO, len(s.Weekdays))
	for i, wd := range s.Weekdays {
		dto.Weekdays[i] = WeekdayStatsDTO{
			Weekday:         wd.Weekday.String(),
			AvgSalesCents:   fptr(wd.AvgSalesCents),
			AvgTransactions: fptr(wd.AvgTransactions),
			AvgBasketSize:   fptr(wd.AvgBasketSize),
			AvgLaborHours:   fptr(wd.AvgLaborHours),
			AvgRPLH:         fptr(wd.AvgRPLH),
			DayCount:        wd.DayCount,
		}
	}

	dto.ShiftTypes = make([]ShiftTypeStatsDTO, len(s.ShiftTypes))
	for i, st := range s.ShiftTypes {
		dto.ShiftTypes[i] = ShiftTypeStatsDTO{
			Kind:            string(st.Kind),
			AvgSalesCents:   fptr(st.AvgSalesCents),
			AvgTransactions: fptr(st.AvgTransactions),
			AvgBasketSize:   fptr(st.AvgBasketSize),
			AvgLaborHours:   fptr(st.AvgLaborHours),
			AvgRPLH:         fptr(st.AvgRPLH),
			ShiftCount:      st.ShiftCount,
		}
	}

	return dto
}

func toPerformerDTO(p *analytics.TopPerformer) *PerformerDTO {
	if p == nil {
		return nil
	}
	v, _ := p.Value.Float64()
	return &PerformerDTO{EmployeeID: p.EmployeeID, Name: p.Name, Value: v}
}

func toWeather(d *WeatherDTO) *analytics.WeatherObservation {
	if d == nil {
		return nil
	}
	return &analytics.WeatherObservation{
		Condition:   d.Condition,
		Description: d.Description,
		TempF:       d.TempF,
	}
}

func centsFromInt64Ptr(v *int64) *analytics.Cents {
	if v == nil {
		return nil
	}
	return analytics.CentsPtr(analytics.Cents(*v))
}

func parseRFC3339(s string) (time.Time, error) {
	return time.Parse(time.RFC3339, s)
}
