package reports

import (
	"bytes"
	"testing"

	"github.com/xuri/excelize/v2"
)

func TestExportDashboardExcel(t *testing.T) {
	snap := ComputeSnapshot(sampleRawData(), day("2024-01-15"))

	var buf bytes.Buffer
	if err := ExportDashboardExcel(&buf, snap, "en-US"); err != nil {
		t.Fatalf("export: %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("open exported workbook: %v", err)
	}
	defer f.Close()

	raw := excelize.Options{RawCellValue: true}
	cases := []struct {
		sheet, cell, want string
	}{
		{summarySheet, "A2", "Today's Sales"},
		{summarySheet, "B2", "15500"},
		{summarySheet, "C2", "$15,500.00"},
		{summarySheet, "B3", "7500"},
		{summarySheet, "F1", "2024-01-15"},
		{summarySheet, "B9", "1"},
		{weeklySheet, "A8", "2024-01-15"},
		{weeklySheet, "D8", "15500"},
		{trendSheet, "A7", "2024-01"},
	}
	for _, c := range cases {
		got, err := f.GetCellValue(c.sheet, c.cell, raw)
		if err != nil {
			t.Fatalf("read %s!%s: %v", c.sheet, c.cell, err)
		}
		if got != c.want {
			t.Fatalf("%s!%s expected %q, got %q", c.sheet, c.cell, c.want, got)
		}
	}

	rows, err := f.GetRows(weeklySheet)
	if err != nil {
		t.Fatalf("rows: %v", err)
	}
	if len(rows) != 8 {
		t.Fatalf("expected header + 7 rows, got %d", len(rows))
	}
}
