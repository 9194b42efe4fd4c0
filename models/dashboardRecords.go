package models

import "time"

const recordDateLayout = "2006-01-02"

type ServiceStatus string

const (
	ServiceStatusInProgress ServiceStatus = "In Progress"
	ServiceStatusCompleted  ServiceStatus = "Completed"
	ServiceStatusPending    ServiceStatus = "Pending"
)

// DatedRecord is the shape every sale, cost and service charge reduces to.
// Date is either a calendar date (YYYY-MM-DD) or a timestamp whose first ten characters are one.
type DatedRecord struct {
	Date     string `json:"date"`
	Amount   Amount `json:"amount"`
	Status   string `json:"status,omitempty"`
	Category string `json:"category,omitempty"`
}

// DateKey returns the record's calendar date as written, without timezone conversion.
func (r DatedRecord) DateKey() (string, bool) {
	return DateKey(r.Date)
}

type Product struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	Quantity  Amount `json:"quantity"`
	CostPrice Amount `json:"cost_price"`
	SellPrice Amount `json:"sell_price"`
}

type Customer struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Due  Amount `json:"due"`
}

type ServiceRequest struct {
	ID     int    `json:"id"`
	Date   string `json:"date"`
	Status string `json:"status"`
	Charge Amount `json:"charge"`
}

// RawData is one load of everything the dashboard is computed from.
type RawData struct {
	Sales           []DatedRecord    `json:"sales"`
	Costs           []DatedRecord    `json:"costs"`
	Products        []Product        `json:"products"`
	Customers       []Customer       `json:"customers"`
	ServiceRequests []ServiceRequest `json:"service_requests"`
}

// DateKey extracts the YYYY-MM-DD prefix of s. Timestamps keep their own calendar date.
func DateKey(s string) (string, bool) {
	if len(s) < len(recordDateLayout) {
		return "", false
	}
	key := s[:len(recordDateLayout)]
	if _, err := time.Parse(recordDateLayout, key); err != nil {
		return "", false
	}
	return key, true
}

// FormatDateKey renders t's calendar date in its own location.
func FormatDateKey(t time.Time) string {
	return t.Format(recordDateLayout)
}

func ParseDateKey(s string) (time.Time, error) {
	return time.Parse(recordDateLayout, s)
}
