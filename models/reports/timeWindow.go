package reports

import (
	"time"

	"github.com/mdtanbirulislam55-maxorasoft/tanisha-enterprise-sub002/calculator"
	"github.com/mdtanbirulislam55-maxorasoft/tanisha-enterprise-sub002/config"
	"github.com/mdtanbirulislam55-maxorasoft/tanisha-enterprise-sub002/models"
	"github.com/shopspring/decimal"
)

const weekLength = 7

// Bucket is one labelled accumulation slot of a time window.
// Key is an ISO date for daily buckets and YYYY-MM for monthly ones.
type Bucket struct {
	Key    string          `json:"key"`
	Day    string          `json:"day,omitempty"`
	Label  string          `json:"label"`
	Amount decimal.Decimal `json:"amount"`
}

type ServiceStats struct {
	Total      int             `json:"total"`
	InProgress int             `json:"in_progress"`
	Completed  int             `json:"completed"`
	Pending    int             `json:"pending"`
	Revenue    decimal.Decimal `json:"revenue"`
}

// recordKey is silent; ComputeSnapshot reports unparsable dates once per record.
func recordKey(r models.DatedRecord) (string, bool) {
	return r.DateKey()
}

// warnUnparsableDates logs each record of kind whose date no window can place.
func warnUnparsableDates(kind string, records []models.DatedRecord) {
	for i, r := range records {
		if _, ok := r.DateKey(); !ok {
			config.LogWarning(config.GetLogger(), "Reports", "ComputeSnapshot", "record with unparsable date skipped", map[string]any{
				"kind":  kind,
				"index": i,
				"date":  r.Date,
			})
		}
	}
}

// groupByDate keeps each day's amounts in record order so sums round identically
// whether a day is summed alone or as part of a window.
func groupByDate(records []models.DatedRecord) map[string][]any {
	out := make(map[string][]any)
	for _, r := range records {
		key, ok := recordKey(r)
		if !ok {
			continue
		}
		out[key] = append(out[key], r.Amount)
	}
	return out
}

// SumByExactDate sums the records dated isoDate.
func SumByExactDate(records []models.DatedRecord, isoDate string) decimal.Decimal {
	var values []any
	for _, r := range records {
		if key, ok := recordKey(r); ok && key == isoDate {
			values = append(values, r.Amount)
		}
	}
	return calculator.Add(values...)
}

func SumByCalendarMonth(records []models.DatedRecord, year int, month time.Month) decimal.Decimal {
	var values []any
	for _, r := range records {
		key, ok := recordKey(r)
		if !ok {
			continue
		}
		d, err := models.ParseDateKey(key)
		if err != nil {
			continue
		}
		if d.Year() == year && d.Month() == month {
			values = append(values, r.Amount)
		}
	}
	return calculator.Add(values...)
}

// SumBetween sums records dated within [from, to], both inclusive, by calendar date.
func SumBetween(records []models.DatedRecord, from, to time.Time) decimal.Decimal {
	fromKey, toKey := models.FormatDateKey(from), models.FormatDateKey(to)
	var values []any
	for _, r := range records {
		if key, ok := recordKey(r); ok && key >= fromKey && key <= toKey {
			values = append(values, r.Amount)
		}
	}
	return calculator.Add(values...)
}

// TrailingWeek returns exactly 7 daily buckets ending at endDate, oldest first.
// Days without records are present with a zero amount.
func TrailingWeek(records []models.DatedRecord, endDate time.Time) []Bucket {
	byDate := groupByDate(records)
	end := time.Date(endDate.Year(), endDate.Month(), endDate.Day(), 0, 0, 0, 0, endDate.Location())

	buckets := make([]Bucket, 0, weekLength)
	for i := weekLength - 1; i >= 0; i-- {
		day := end.AddDate(0, 0, -i)
		key := models.FormatDateKey(day)
		buckets = append(buckets, Bucket{
			Key:    key,
			Day:    day.Weekday().String(),
			Label:  day.Format("Mon, Jan 2"),
			Amount: calculator.Add(byDate[key]...),
		})
	}
	return buckets
}

// TrailingMonths returns n monthly buckets ending with endDate's month, oldest first.
func TrailingMonths(records []models.DatedRecord, endDate time.Time, n int) []Bucket {
	if n <= 0 {
		return []Bucket{}
	}
	byMonth := make(map[string][]any)
	for _, r := range records {
		key, ok := recordKey(r)
		if !ok {
			continue
		}
		byMonth[key[:7]] = append(byMonth[key[:7]], r.Amount)
	}

	first := time.Date(endDate.Year(), endDate.Month(), 1, 0, 0, 0, 0, endDate.Location())
	buckets := make([]Bucket, 0, n)
	for i := n - 1; i >= 0; i-- {
		month := first.AddDate(0, -i, 0)
		key := month.Format("2006-01")
		buckets = append(buckets, Bucket{
			Key:    key,
			Label:  month.Format("Jan 2006"),
			Amount: calculator.Add(byMonth[key]...),
		})
	}
	return buckets
}

// StockValue is the sum of quantity * unit cost over all products. Line values are
// accumulated at full precision and the total is rounded once.
func StockValue(products []models.Product) decimal.Decimal {
	total := decimal.Zero
	for _, p := range products {
		total = total.Add(p.Quantity.Decimal().Mul(p.CostPrice.Decimal()))
	}
	return calculator.RoundToCurrency(total)
}

// OutstandingDue sums customer dues; missing dues count as 0.
func OutstandingDue(customers []models.Customer) decimal.Decimal {
	values := make([]any, 0, len(customers))
	for _, c := range customers {
		values = append(values, c.Due)
	}
	return calculator.Add(values...)
}

// ServiceStatusCounts partitions requests by exact status label and sums their charges.
func ServiceStatusCounts(requests []models.ServiceRequest) ServiceStats {
	stats := ServiceStats{Total: len(requests)}
	charges := make([]any, 0, len(requests))
	for _, r := range requests {
		switch models.ServiceStatus(r.Status) {
		case models.ServiceStatusInProgress:
			stats.InProgress++
		case models.ServiceStatusCompleted:
			stats.Completed++
		case models.ServiceStatusPending:
			stats.Pending++
		}
		charges = append(charges, r.Charge)
	}
	stats.Revenue = calculator.Add(charges...)
	return stats
}
