package utils

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestConvertToDate(t *testing.T) {
	utc := time.Date(2024, time.January, 14, 20, 0, 0, 0, time.UTC)
	d, err := ConvertToDate(utc, "Asia/Dhaka")
	if err != nil {
		t.Fatalf("ConvertToDate: %v", err)
	}
	if d.Format("2006-01-02") != "2024-01-15" || d.Hour() != 0 {
		t.Fatalf("expected Dhaka midnight of 2024-01-15, got %s", d)
	}
	if _, err := ConvertToDate(utc, "Nowhere/Land"); err == nil {
		t.Fatalf("expected error for unknown timezone")
	}
}

func TestParseAsOfDate(t *testing.T) {
	d, err := ParseAsOfDate("2024-01-15", "Asia/Dhaka")
	if err != nil {
		t.Fatalf("ParseAsOfDate: %v", err)
	}
	if d.Format("2006-01-02") != "2024-01-15" || d.Location().String() != "Asia/Dhaka" {
		t.Fatalf("unexpected date %s", d)
	}
	if _, err := ParseAsOfDate("15/01/2024", "Asia/Dhaka"); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestReadJSONFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "in.json")
	if err := os.WriteFile(path, []byte(`{"name":"Rice"}`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	var out struct {
		Name string `json:"name"`
	}
	if err := ReadJSONFile(path, &out); err != nil || out.Name != "Rice" {
		t.Fatalf("ReadJSONFile: %+v err=%v", out, err)
	}
}

func TestContextHelpers(t *testing.T) {
	ctx := SetCorrelationIdInContext(context.Background(), "cid-1")
	ctx = SetBusinessIdInContext(ctx, "biz-1")
	if v, ok := GetCorrelationIdFromContext(ctx); !ok || v != "cid-1" {
		t.Fatalf("correlation id: %q %v", v, ok)
	}
	if v, ok := GetBusinessIdFromContext(ctx); !ok || v != "biz-1" {
		t.Fatalf("business id: %q %v", v, ok)
	}
}
