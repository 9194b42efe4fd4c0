package reports

import (
	"fmt"
	"io"

	"github.com/mdtanbirulislam55-maxorasoft/tanisha-enterprise-sub002/calculator"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

const (
	summarySheet = "Summary"
	weeklySheet  = "Weekly"
	trendSheet   = "Monthly"
	amountFormat = "#,##0.00"
)

// ExcelExporter is a row of an exported sheet.
type ExcelExporter interface {
	GetCellValues() []interface{}
}

type metricRow struct {
	name      string
	amount    decimal.Decimal
	formatted string
}

func (r metricRow) GetCellValues() []interface{} {
	return []interface{}{r.name, r.amount.InexactFloat64(), r.formatted}
}

type countRow struct {
	name  string
	count int
}

func (r countRow) GetCellValues() []interface{} {
	return []interface{}{r.name, r.count}
}

func (b Bucket) GetCellValues() []interface{} {
	return []interface{}{b.Key, b.Day, b.Label, b.Amount.InexactFloat64()}
}

// ExportDashboardExcel writes the snapshot as an xlsx workbook with summary,
// trailing-week and monthly-trend sheets.
func ExportDashboardExcel(w io.Writer, snapshot MetricsSnapshot, locale string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return err
	}
	for _, name := range []string{weeklySheet, trendSheet} {
		if _, err := f.NewSheet(name); err != nil {
			return err
		}
	}
	style, err := f.NewStyle(&excelize.Style{CustomNumFmt: stringPtr(amountFormat)})
	if err != nil {
		return err
	}

	metric := func(name string, amount decimal.Decimal) ExcelExporter {
		return metricRow{name: name, amount: amount, formatted: calculator.Format(amount, locale)}
	}
	summary := []ExcelExporter{
		metric("Today's Sales", snapshot.TodaysSales),
		metric("Today's Profit", snapshot.TodaysProfit),
		metricRow{name: "Profit Margin %", amount: snapshot.ProfitMargin, formatted: snapshot.ProfitMargin.StringFixed(calculator.Places) + "%"},
		metric("Monthly Revenue", snapshot.MonthlyRevenue),
		metric("Stock Value", snapshot.StockValue),
		metric("Customer Due", snapshot.CustomerDue),
		metric("Service Revenue", snapshot.ServiceStats.Revenue),
		countRow{name: "Service Requests", count: snapshot.ServiceStats.Total},
		countRow{name: "In Progress", count: snapshot.ServiceStats.InProgress},
		countRow{name: "Completed", count: snapshot.ServiceStats.Completed},
		countRow{name: "Pending", count: snapshot.ServiceStats.Pending},
	}
	if err := writeSheet(f, summarySheet, summary, []string{"Metric", "Amount", "Formatted"}); err != nil {
		return err
	}
	if err := f.SetCellValue(summarySheet, "E1", "As Of"); err != nil {
		return err
	}
	if err := f.SetCellValue(summarySheet, "F1", snapshot.AsOf); err != nil {
		return err
	}
	// Only the money rows get the amount format; counts stay integers.
	if err := f.SetCellStyle(summarySheet, "B2", "B8", style); err != nil {
		return err
	}

	if err := writeSheet(f, weeklySheet, bucketRows(snapshot.WeeklySummary), []string{"Date", "Day", "Label", "Sales"}); err != nil {
		return err
	}
	if err := styleColumn(f, weeklySheet, "D", len(snapshot.WeeklySummary), style); err != nil {
		return err
	}
	if err := writeSheet(f, trendSheet, bucketRows(snapshot.MonthlyTrend), []string{"Month", "", "Label", "Sales"}); err != nil {
		return err
	}
	if err := styleColumn(f, trendSheet, "D", len(snapshot.MonthlyTrend), style); err != nil {
		return err
	}

	return f.Write(w)
}

func bucketRows(buckets []Bucket) []ExcelExporter {
	rows := make([]ExcelExporter, 0, len(buckets))
	for _, b := range buckets {
		rows = append(rows, b)
	}
	return rows
}

func writeSheet(f *excelize.File, sheetName string, data []ExcelExporter, headings []string) error {
	for i, h := range headings {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheetName, cell, h); err != nil {
			return err
		}
	}
	for rowNo, d := range data {
		for col, value := range d.GetCellValues() {
			cell, err := excelize.CoordinatesToCellName(col+1, rowNo+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheetName, cell, value); err != nil {
				return err
			}
		}
	}
	return nil
}

func styleColumn(f *excelize.File, sheetName string, col string, rows int, style int) error {
	if rows == 0 {
		return nil
	}
	return f.SetCellStyle(sheetName, col+"2", fmt.Sprintf("%s%d", col, rows+1), style)
}

func stringPtr(s string) *string {
	return &s
}
