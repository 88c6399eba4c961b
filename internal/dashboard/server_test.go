package dashboard

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Afrawles/teamdash/internal/report"
)

type fakeFetcher struct {
	records  []report.Record
	failures map[string]error
	calls    int
}

func (f *fakeFetcher) Generate(ctx context.Context, months []report.MonthRequest) ([]report.Record, map[string]error) {
	f.calls++
	failures := f.failures
	if failures == nil {
		failures = map[string]error{}
	}
	return f.records, failures
}

func testServer(t *testing.T, fetcher Fetcher) *Server {
	t.Helper()
	engine := report.NewEngine(
		report.DefaultClassifier(),
		report.NewRoster([]string{"Jane Doe", "Raj Kumar"}, "", nil),
		15,
	)
	return NewServer(nil, engine, fetcher, 2, 10*time.Minute)
}

func loadedServer(t *testing.T) *Server {
	t.Helper()
	s := testServer(t, &fakeFetcher{})
	end := time.Date(2025, 7, 15, 10, 0, 0, 0, time.UTC)
	s.Load(report.NewDataset([]report.Record{
		{ID: "WO-1", Type: "WO", Assignee: "jane doe", End: end},
		{ID: "WO-2", Type: "WO", Assignee: "jane doe", Tags: "atc-mon", End: end},
		{ID: "WO-3", Type: "TR", Assignee: "outsider", End: end},
	}))
	return s
}

func TestHealthEndpoint(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(loadedServer(t).Router())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "ok", body["status"])
	assert.EqualValues(t, 3, body["records"])
}

func TestIndexEmptyState(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(testServer(t, &fakeFetcher{}).Router())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()

	body := readAll(t, resp)
	assert.Contains(t, body, "No data loaded yet")
	assert.Contains(t, body, `action="/refresh"`)
}

func TestIndexRendersDashboard(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(loadedServer(t).Router())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := readAll(t, resp)
	assert.Contains(t, body, "Jane Doe")
	assert.Contains(t, body, "Raj Kumar")
	assert.Contains(t, body, "2025-W29")
}

func TestIndexDrillDownDefaultsToFirstAssignee(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(loadedServer(t).Router())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()

	body := readAll(t, resp)
	assert.Contains(t, body, "Detailed Activity Drill-Down")
	assert.Contains(t, body, `<option value="jane doe" selected>`)
	assert.Contains(t, body, "WO-1")
	assert.Contains(t, body, "WO-2")
	assert.NotContains(t, body, ">WO-3<", "other assignees' records stay out of the listing")
}

func TestIndexDrillDownSelectedMember(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(loadedServer(t).Router())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/?member=outsider")
	require.NoError(t, err)
	defer resp.Body.Close()

	body := readAll(t, resp)
	assert.Contains(t, body, `<option value="outsider" selected>`)
	assert.Contains(t, body, ">WO-3<")
	assert.NotContains(t, body, ">WO-1<")
}

func TestIndexAllTeamsTable(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(loadedServer(t).Router())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()

	body := readAll(t, resp)
	assert.Contains(t, body, "Full Team Contributions")
	assert.Contains(t, body, "Outsider", "non-roster assignees appear title-cased")
}

func TestIndexRejectsBadSelection(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(loadedServer(t).Router())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/?week=garbage")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestSummaryEndpoint(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(loadedServer(t).Router())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/api/summary?week=2025-W29&month=2025-07")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var rep report.Report
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&rep))
	assert.Equal(t, 15, rep.Target)
	assert.Equal(t, 3, rep.TotalRecords)
	require.Len(t, rep.WeekSummary.Rows, 2)
	assert.Equal(t, 1, rep.WeekSummary.RosterNet(), "exempted record stays out of the net count")
}

func TestSummaryWithoutData(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(testServer(t, &fakeFetcher{}).Router())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/api/summary")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestChartsEndpoint(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(loadedServer(t).Router())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/charts")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, readAll(t, resp), "echarts")
}

func TestRefreshMergesSnapshot(t *testing.T) {
	t.Parallel()

	end := time.Date(2025, 7, 16, 10, 0, 0, 0, time.UTC)
	fetcher := &fakeFetcher{records: []report.Record{
		{ID: "WO-1", Type: "WO", Assignee: "jane doe", End: end},
		{ID: "WO-9", Type: "WO", Assignee: "raj kumar", End: end},
	}}
	s := loadedServer(t)
	s.fetcher = fetcher

	ts := httptest.NewServer(s.Router())
	defer ts.Close()

	req, err := http.NewRequest(http.MethodPost, ts.URL+"/refresh", nil)
	require.NoError(t, err)
	req.Header.Set("Accept", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.EqualValues(t, 2, body["fetched"])
	assert.EqualValues(t, 4, body["total"], "WO-1 already present, only WO-9 is new")
	assert.Equal(t, 1, fetcher.calls)
}

func TestRefreshAllUnitsFailed(t *testing.T) {
	t.Parallel()

	fetcher := &fakeFetcher{failures: map[string]error{
		"teamactivity/2025-07": fmt.Errorf("connection refused"),
	}}
	ts := httptest.NewServer(testServer(t, fetcher).Router())
	defer ts.Close()

	resp, err := http.Post(ts.URL+"/refresh", "", nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
}

func TestRefreshRedirectsBrowsers(t *testing.T) {
	t.Parallel()

	end := time.Date(2025, 7, 16, 10, 0, 0, 0, time.UTC)
	fetcher := &fakeFetcher{records: []report.Record{
		{ID: "WO-1", Type: "WO", Assignee: "jane doe", End: end},
	}}
	ts := httptest.NewServer(testServer(t, fetcher).Router())
	defer ts.Close()

	client := &http.Client{CheckRedirect: func(req *http.Request, via []*http.Request) error {
		return http.ErrUseLastResponse
	}}
	resp, err := client.Post(ts.URL+"/refresh", "", nil)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get("Location"))
}

func readAll(t *testing.T, resp *http.Response) string {
	t.Helper()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(body)
}
