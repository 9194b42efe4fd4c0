package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/mdtanbirulislam55-maxorasoft/tanisha-enterprise-sub002/calculator"
	"github.com/mdtanbirulislam55-maxorasoft/tanisha-enterprise-sub002/models/reports"
	"github.com/mdtanbirulislam55-maxorasoft/tanisha-enterprise-sub002/realtime"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/xuri/excelize/v2"
)

const sampleBody = `{
	"sales": [{"date": "2024-01-15", "amount": 15000}, {"date": "2024-01-15", "amount": "500"}],
	"costs": [{"date": "2024-01-15", "amount": 8000}],
	"products": [{"id": 1, "quantity": 10, "cost_price": "5.00"}],
	"customers": [{"id": 1, "due": 300}]
}`

type fakeRefresher struct {
	gotBusinessId string
	snapshot      reports.MetricsSnapshot
	err           error
}

func (f *fakeRefresher) Refresh(ctx context.Context, businessId string) (reports.MetricsSnapshot, error) {
	f.gotBusinessId = businessId
	return f.snapshot, f.err
}

func newTestRouter(t *testing.T, refresher Refresher) (*gin.Engine, *realtime.Publisher) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger, _ := test.NewNullLogger()
	clock := func() time.Time { return time.Date(2024, time.January, 15, 10, 0, 0, 0, time.UTC) }
	publisher := realtime.NewPublisher(realtime.WithLogger(logger), realtime.WithClock(clock))
	return NewRouter(Deps{
		Publisher: publisher,
		Refresher: refresher,
		Logger:    logger,
		Locale:    "en-US",
	}), publisher
}

func do(r http.Handler, method, target string, body string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHealthz(t *testing.T) {
	r, _ := newTestRouter(t, nil)
	w := do(r, http.MethodGet, "/healthz", "", nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", w.Code)
	}
}

func TestMetrics_NotFoundBeforeFirstUpdate(t *testing.T) {
	r, _ := newTestRouter(t, nil)
	w := do(r, http.MethodGet, "/dashboard/metrics", "", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), reports.ErrNoSnapshot.Error()) {
		t.Fatalf("unexpected body: %s", w.Body.String())
	}
}

func TestPostData_ThenMetrics(t *testing.T) {
	r, _ := newTestRouter(t, nil)
	w := do(r, http.MethodPost, "/dashboard/data", sampleBody, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	w = do(r, http.MethodGet, "/dashboard/metrics", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var got reports.MetricsSnapshot
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	checks := map[string][2]string{
		"todays sales":  {got.TodaysSales.StringFixed(2), "15500.00"},
		"todays profit": {got.TodaysProfit.StringFixed(2), "7500.00"},
		"stock value":   {got.StockValue.StringFixed(2), "50.00"},
		"customer due":  {got.CustomerDue.StringFixed(2), "300.00"},
	}
	for name, c := range checks {
		if c[0] != c[1] {
			t.Fatalf("%s: expected %s, got %s", name, c[1], c[0])
		}
	}
	if len(got.WeeklySummary) != 7 || got.AsOf != "2024-01-15" {
		t.Fatalf("unexpected snapshot shape: as_of=%s weekly=%d", got.AsOf, len(got.WeeklySummary))
	}
}

func TestPostData_RejectsInvalidJSON(t *testing.T) {
	r, publisher := newTestRouter(t, nil)
	w := do(r, http.MethodPost, "/dashboard/data", `{"sales": [`, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if _, ok := publisher.GetCurrentMetrics(); ok {
		t.Fatalf("invalid body must not publish a snapshot")
	}
}

func TestRefresh(t *testing.T) {
	cases := []struct {
		name      string
		refresher *fakeRefresher
		headers   map[string]string
		want      int
	}{
		{"no business", &fakeRefresher{}, nil, http.StatusBadRequest},
		{"ok", &fakeRefresher{snapshot: reports.MetricsSnapshot{AsOf: "2024-01-15"}}, map[string]string{headerBusinessId: "biz-1"}, http.StatusOK},
		{"locked", &fakeRefresher{err: realtime.ErrRefreshInProgress}, map[string]string{headerBusinessId: "biz-1"}, http.StatusConflict},
		{"load error", &fakeRefresher{err: errors.New("db down")}, map[string]string{headerBusinessId: "biz-1"}, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r, _ := newTestRouter(t, tc.refresher)
			w := do(r, http.MethodPost, "/dashboard/refresh", "", tc.headers)
			if w.Code != tc.want {
				t.Fatalf("expected %d, got %d: %s", tc.want, w.Code, w.Body.String())
			}
			if tc.headers != nil && tc.refresher.gotBusinessId != "biz-1" {
				t.Fatalf("business id not forwarded: %q", tc.refresher.gotBusinessId)
			}
		})
	}
}

func TestRefresh_UnavailableWithoutDataSource(t *testing.T) {
	r, _ := newTestRouter(t, nil)
	w := do(r, http.MethodPost, "/dashboard/refresh", "", map[string]string{headerBusinessId: "biz-1"})
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", w.Code)
	}
}

func TestExport(t *testing.T) {
	r, _ := newTestRouter(t, nil)
	if w := do(r, http.MethodGet, "/dashboard/export", "", nil); w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 before data, got %d", w.Code)
	}
	do(r, http.MethodPost, "/dashboard/data", sampleBody, nil)

	w := do(r, http.MethodGet, "/dashboard/export", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if w.Header().Get("Content-Type") != xlsxContentType {
		t.Fatalf("unexpected content type %q", w.Header().Get("Content-Type"))
	}
	if !strings.Contains(w.Header().Get("Content-Disposition"), "dashboard-2024-01-15.xlsx") {
		t.Fatalf("unexpected disposition %q", w.Header().Get("Content-Disposition"))
	}
	f, err := excelize.OpenReader(bytes.NewReader(w.Body.Bytes()))
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()
	if idx, _ := f.GetSheetIndex("Summary"); idx < 0 {
		t.Fatalf("summary sheet missing")
	}
}

func TestCurrency(t *testing.T) {
	r, _ := newTestRouter(t, nil)

	w := do(r, http.MethodGet, "/dashboard/currency?amount=1234.56&locale=en-US", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var split calculator.CurrencySplit
	if err := json.Unmarshal(w.Body.Bytes(), &split); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if split.MajorUnits != 1234 || split.MinorUnits != 56 || split.Formatted != "$1,234.56" {
		t.Fatalf("unexpected split %+v", split)
	}

	if w := do(r, http.MethodGet, "/dashboard/currency", "", nil); w.Code != http.StatusBadRequest {
		t.Fatalf("missing amount: expected 400, got %d", w.Code)
	}
	if w := do(r, http.MethodGet, "/dashboard/currency?amount=1&locale=%21%21", "", nil); w.Code != http.StatusBadRequest {
		t.Fatalf("bad locale: expected 400, got %d", w.Code)
	}
}

func TestCorrelationIdHeader(t *testing.T) {
	r, _ := newTestRouter(t, nil)
	w := do(r, http.MethodGet, "/dashboard/metrics", "", map[string]string{headerCorrelationId: "cid-42"})
	if got := w.Header().Get(headerCorrelationId); got != "cid-42" {
		t.Fatalf("expected echoed correlation id, got %q", got)
	}
	w = do(r, http.MethodGet, "/dashboard/metrics", "", nil)
	if w.Header().Get(headerCorrelationId) == "" {
		t.Fatalf("expected generated correlation id")
	}
}

func TestCorsConfig_Valid(t *testing.T) {
	cases := map[string]struct {
		origins    []string
		production bool
	}{
		"development":        {nil, false},
		"production allow":   {[]string{"https://dash.example"}, true},
		"production no list": {nil, true},
	}
	for name, tc := range cases {
		if err := corsConfig(tc.origins, tc.production).Validate(); err != nil {
			t.Fatalf("%s: %v", name, err)
		}
	}
}

func newLimitedRouter(t *testing.T, limit int64, window time.Duration) (*gin.Engine, *miniredis.Miniredis) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	logger, _ := test.NewNullLogger()
	r := NewRouter(Deps{
		Publisher:   realtime.NewPublisher(realtime.WithLogger(logger)),
		RateLimiter: NewRateLimiter(client, limit, window),
		Logger:      logger,
	})
	return r, mr
}

func TestRateLimiter_BlocksAfterLimitUntilWindowEnds(t *testing.T) {
	r, mr := newLimitedRouter(t, 2, time.Minute)
	call := func() int {
		req := httptest.NewRequest(http.MethodGet, "/dashboard/metrics", nil)
		req.RemoteAddr = "192.0.2.10:4321"
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}

	for i, want := range []int{http.StatusNotFound, http.StatusNotFound, http.StatusTooManyRequests} {
		if got := call(); got != want {
			t.Fatalf("request %d: expected %d, got %d", i+1, want, got)
		}
	}

	ttl := mr.TTL(rateLimitPrefix + "192.0.2.10")
	if ttl <= 0 || ttl > time.Minute {
		t.Fatalf("window key must carry the window ttl, got %s", ttl)
	}

	mr.FastForward(time.Minute)
	if got := call(); got != http.StatusNotFound {
		t.Fatalf("expected the limit to reset after the window, got %d", got)
	}
}

func TestRateLimiter_RedisDown(t *testing.T) {
	r, mr := newLimitedRouter(t, 10, time.Minute)
	mr.Close()
	if w := do(r, http.MethodGet, "/dashboard/metrics", "", nil); w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 when redis is unreachable, got %d", w.Code)
	}
}

func TestNewRateLimiter_NilClient(t *testing.T) {
	if NewRateLimiter(nil, 1, time.Second) != nil {
		t.Fatalf("expected no limiter without a redis client")
	}
}
