package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/mdtanbirulislam55-maxorasoft/tanisha-enterprise-sub002/config"
	"github.com/mdtanbirulislam55-maxorasoft/tanisha-enterprise-sub002/models"
	"github.com/mdtanbirulislam55-maxorasoft/tanisha-enterprise-sub002/models/reports"
	"github.com/mdtanbirulislam55-maxorasoft/tanisha-enterprise-sub002/realtime"
	"github.com/mdtanbirulislam55-maxorasoft/tanisha-enterprise-sub002/utils"
)

func main() {
	settings, err := config.LoadSettings()
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid settings: %v\n", err)
		os.Exit(1)
	}

	input := flag.String("input", "", "Raw data JSON file (sales, costs, products, customers, service_requests). If empty, exports the snapshot cached in Redis.")
	asOf := flag.String("as-of", "", "Optional: dashboard date (YYYY-MM-DD). Defaults to today in -timezone.")
	out := flag.String("out", "dashboard.xlsx", "Output workbook path")
	locale := flag.String("locale", settings.Locale, "Locale for currency formatting")
	timezone := flag.String("timezone", settings.Timezone, "Business timezone used for -as-of")
	flag.Parse()

	ctx := context.Background()

	var snapshot reports.MetricsSnapshot
	if strings.TrimSpace(*input) != "" {
		var raw models.RawData
		if err := utils.ReadJSONFile(strings.TrimSpace(*input), &raw); err != nil {
			fmt.Fprintf(os.Stderr, "failed to read %s: %v\n", *input, err)
			os.Exit(1)
		}
		day, err := utils.ParseAsOfDate(*asOf, *timezone)
		if err != nil {
			fmt.Fprintf(os.Stderr, "invalid -as-of/-timezone: %v\n", err)
			os.Exit(1)
		}
		snapshot = reports.ComputeSnapshot(raw, day)
	} else {
		if err := config.ConnectRedisWithRetry(ctx, settings.RedisAddress, 3); err != nil {
			fmt.Fprintf(os.Stderr, "no -input given and redis unavailable: %v\n", err)
			os.Exit(1)
		}
		defer config.GetRedisDB().Close()

		cache := realtime.NewSnapshotCache(config.GetRedisDB(), settings.SnapshotKey, settings.SnapshotTTL)
		cached, found, err := cache.Load(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to load cached snapshot: %v\n", err)
			os.Exit(1)
		}
		if !found {
			fmt.Fprintf(os.Stderr, "%v (key %s)\n", reports.ErrNoSnapshot, settings.SnapshotKey)
			os.Exit(1)
		}
		snapshot = cached
	}

	f, err := os.Create(*out)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create %s: %v\n", *out, err)
		os.Exit(1)
	}
	if err := reports.ExportDashboardExcel(f, snapshot, *locale); err != nil {
		_ = f.Close()
		fmt.Fprintf(os.Stderr, "export failed: %v\n", err)
		os.Exit(1)
	}
	if err := f.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to write %s: %v\n", *out, err)
		os.Exit(1)
	}

	fmt.Printf("Exported dashboard as_of=%s sales=%s profit=%s to %s\n",
		snapshot.AsOf, snapshot.TodaysSales.StringFixed(2), snapshot.TodaysProfit.StringFixed(2), *out)
}
