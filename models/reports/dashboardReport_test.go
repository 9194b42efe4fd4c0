package reports

import (
	"testing"

	"github.com/mdtanbirulislam55-maxorasoft/tanisha-enterprise-sub002/config"
	"github.com/mdtanbirulislam55-maxorasoft/tanisha-enterprise-sub002/models"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
)

func sampleRawData() models.RawData {
	return models.RawData{
		Sales: []models.DatedRecord{
			{Date: "2024-01-15", Amount: models.NewAmount(15000)},
			{Date: "2024-01-15", Amount: models.NewAmount(500)},
			{Date: "2024-01-03", Amount: models.NewAmount(1200)},
			{Date: "2023-12-30", Amount: models.NewAmount(700)},
		},
		Costs: []models.DatedRecord{
			{Date: "2024-01-15", Amount: models.NewAmount(8000)},
		},
		Products: []models.Product{
			{ID: 1, Quantity: models.NewAmount(4), CostPrice: models.NewAmount("12.50")},
		},
		Customers: []models.Customer{
			{ID: 1, Due: models.NewAmount("300")},
		},
		ServiceRequests: []models.ServiceRequest{
			{Status: "Completed", Charge: models.NewAmount(50)},
		},
	}
}

func TestComputeSnapshot_EndToEnd(t *testing.T) {
	snap := ComputeSnapshot(sampleRawData(), day("2024-01-15"))

	checks := []struct {
		name, got, want string
	}{
		{"todays sales", snap.TodaysSales.StringFixed(2), "15500.00"},
		{"todays profit", snap.TodaysProfit.StringFixed(2), "7500.00"},
		{"profit margin", snap.ProfitMargin.StringFixed(2), "48.39"},
		{"monthly revenue", snap.MonthlyRevenue.StringFixed(2), "16700.00"},
		{"stock value", snap.StockValue.StringFixed(2), "50.00"},
		{"customer due", snap.CustomerDue.StringFixed(2), "300.00"},
		{"service revenue", snap.ServiceStats.Revenue.StringFixed(2), "50.00"},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Fatalf("%s: expected %s, got %s", c.name, c.want, c.got)
		}
	}
	if snap.AsOf != "2024-01-15" {
		t.Fatalf("unexpected as-of %q", snap.AsOf)
	}
	if len(snap.WeeklySummary) != 7 || len(snap.MonthlyTrend) != trendMonths {
		t.Fatalf("unexpected bucket counts %d/%d", len(snap.WeeklySummary), len(snap.MonthlyTrend))
	}
	if snap.MonthlyTrend[trendMonths-2].Amount.StringFixed(2) != "700.00" {
		t.Fatalf("december bucket expected 700.00, got %s", snap.MonthlyTrend[trendMonths-2].Amount)
	}
}

func TestCalculateTodaysHelpers(t *testing.T) {
	raw := sampleRawData()
	today := day("2024-01-15")
	if got := CalculateTodaysSales(raw.Sales, today); got.StringFixed(2) != "15500.00" {
		t.Fatalf("todays sales: %s", got)
	}
	if got := CalculateTodaysProfit(raw.Sales, raw.Costs, today); got.StringFixed(2) != "7500.00" {
		t.Fatalf("todays profit: %s", got)
	}
}

func TestCalculateProfitMargin_ZeroRevenue(t *testing.T) {
	if got := CalculateProfitMargin(0, 100); !got.IsZero() {
		t.Fatalf("expected 0 for zero revenue, got %s", got)
	}
	if got := CalculateProfitMargin(200, 50); got.StringFixed(2) != "25.00" {
		t.Fatalf("expected 25.00, got %s", got)
	}
}

func TestSnapshotClone_IsIndependent(t *testing.T) {
	snap := ComputeSnapshot(sampleRawData(), day("2024-01-15"))
	clone := snap.Clone()
	clone.WeeklySummary[0].Label = "mutated"
	clone.MonthlyTrend[0].Key = "mutated"
	if snap.WeeklySummary[0].Label == "mutated" || snap.MonthlyTrend[0].Key == "mutated" {
		t.Fatalf("clone shares bucket storage with the original")
	}
}

func TestComputeSnapshot_WarnsOncePerUnparsableDate(t *testing.T) {
	logger := config.GetLogger()
	prev := logger.GetLevel()
	logger.SetLevel(logrus.WarnLevel)
	defer logger.SetLevel(prev)
	hook := test.NewLocal(logger)
	defer hook.Reset()

	raw := sampleRawData()
	raw.Sales = append(raw.Sales, models.DatedRecord{Date: "15/01/2024", Amount: models.NewAmount(99)})
	raw.Costs = append(raw.Costs, models.DatedRecord{Date: "yesterday", Amount: models.NewAmount(1)})

	snap := ComputeSnapshot(raw, day("2024-01-15"))
	if snap.TodaysSales.StringFixed(2) != "15500.00" {
		t.Fatalf("unparsable sale must be skipped, got %s", snap.TodaysSales)
	}

	var dateWarnings int
	for _, e := range hook.AllEntries() {
		if e.Message == "record with unparsable date skipped" {
			dateWarnings++
		}
	}
	if dateWarnings != 2 {
		t.Fatalf("expected one warning per bad record (2), got %d", dateWarnings)
	}
}
