package reports

import (
	"errors"
	"time"

	"github.com/mdtanbirulislam55-maxorasoft/tanisha-enterprise-sub002/calculator"
	"github.com/mdtanbirulislam55-maxorasoft/tanisha-enterprise-sub002/models"
	"github.com/shopspring/decimal"
)

const trendMonths = 6

var ErrNoSnapshot = errors.New("no dashboard snapshot has been computed yet")

// MetricsSnapshot is the dashboard state computed from a single RawData load.
type MetricsSnapshot struct {
	AsOf           string          `json:"as_of"`
	GeneratedAt    time.Time       `json:"generated_at"`
	TodaysSales    decimal.Decimal `json:"todays_sales"`
	TodaysProfit   decimal.Decimal `json:"todays_profit"`
	ProfitMargin   decimal.Decimal `json:"profit_margin"`
	MonthlyRevenue decimal.Decimal `json:"monthly_revenue"`
	StockValue     decimal.Decimal `json:"stock_value"`
	CustomerDue    decimal.Decimal `json:"customer_due"`
	WeeklySummary  []Bucket        `json:"weekly_summary"`
	MonthlyTrend   []Bucket        `json:"monthly_trend"`
	ServiceStats   ServiceStats    `json:"service_stats"`
}

// Clone returns a copy that shares no slices with s.
func (s MetricsSnapshot) Clone() MetricsSnapshot {
	out := s
	if s.WeeklySummary != nil {
		out.WeeklySummary = append([]Bucket(nil), s.WeeklySummary...)
	}
	if s.MonthlyTrend != nil {
		out.MonthlyTrend = append([]Bucket(nil), s.MonthlyTrend...)
	}
	return out
}

func CalculateTodaysSales(sales []models.DatedRecord, today time.Time) decimal.Decimal {
	return SumByExactDate(sales, models.FormatDateKey(today))
}

func CalculateTodaysCosts(costs []models.DatedRecord, today time.Time) decimal.Decimal {
	return SumByExactDate(costs, models.FormatDateKey(today))
}

func CalculateTodaysProfit(sales, costs []models.DatedRecord, today time.Time) decimal.Decimal {
	return calculator.Subtract(CalculateTodaysSales(sales, today), CalculateTodaysCosts(costs, today))
}

func CalculateMonthlyRevenue(sales []models.DatedRecord, today time.Time) decimal.Decimal {
	return SumByCalendarMonth(sales, today.Year(), today.Month())
}

// CalculateProfitMargin is profit as a percentage of revenue; zero revenue yields 0.
func CalculateProfitMargin(revenue, profit any) decimal.Decimal {
	return calculator.Percentage(profit, revenue)
}

// ComputeSnapshot derives every dashboard metric from raw as of the calendar date of asOf.
// asOf is expected in the business's timezone.
func ComputeSnapshot(raw models.RawData, asOf time.Time) MetricsSnapshot {
	warnUnparsableDates("sale", raw.Sales)
	warnUnparsableDates("cost", raw.Costs)

	todaysSales := CalculateTodaysSales(raw.Sales, asOf)
	todaysProfit := calculator.Subtract(todaysSales, CalculateTodaysCosts(raw.Costs, asOf))

	return MetricsSnapshot{
		AsOf:           models.FormatDateKey(asOf),
		GeneratedAt:    asOf,
		TodaysSales:    todaysSales,
		TodaysProfit:   todaysProfit,
		ProfitMargin:   CalculateProfitMargin(todaysSales, todaysProfit),
		MonthlyRevenue: CalculateMonthlyRevenue(raw.Sales, asOf),
		StockValue:     StockValue(raw.Products),
		CustomerDue:    OutstandingDue(raw.Customers),
		WeeklySummary:  TrailingWeek(raw.Sales, asOf),
		MonthlyTrend:   TrailingMonths(raw.Sales, asOf, trendMonths),
		ServiceStats:   ServiceStatusCounts(raw.ServiceRequests),
	}
}
