package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theirongolddev/hoafund/internal/forecast"
	"github.com/theirongolddev/hoafund/internal/money"
	"github.com/theirongolddev/hoafund/internal/scenario"
	"github.com/theirongolddev/hoafund/internal/store"
)

const workedExample = `{
	"name": "Baseline",
	"starting_balance": 10000,
	"horizon_years": 3,
	"annual_contribution": 2000,
	"contribution_policy": "independent",
	"projects": [{"name": "Roof", "base_cost": 15000, "scheduled_year": 2}]
}`

func newTestService(t *testing.T, presets PresetSource) *Service {
	t.Helper()
	s, err := New(Config{
		Options: forecast.DefaultOptions(),
		Presets: presets,
		Log:     zerolog.Nop(),
	})
	require.NoError(t, err)
	return s
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r *http.Request
	if body == "" {
		r = httptest.NewRequest(method, path, nil)
	} else {
		r = httptest.NewRequest(method, path, strings.NewReader(body))
		r.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, r)
	return rec
}

func TestNew_RejectsBadOptions(t *testing.T) {
	_, err := New(Config{Options: forecast.Options{AdequateThreshold: 2, LookaheadYears: 5}})
	assert.ErrorIs(t, err, forecast.ErrInvalidOptions)
}

func TestHealth(t *testing.T) {
	rec := do(t, newTestService(t, nil).Handler(), http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok\n", rec.Body.String())
}

func TestForecast_WorkedExample(t *testing.T) {
	s := newTestService(t, nil)
	rec := do(t, s.Handler(), http.MethodPost, "/v1/forecast", workedExample)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp ForecastResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Results, 3)

	assert.Equal(t, "Baseline", resp.Name)
	assert.Equal(t, money.FromCents(1200000), resp.Results[0].EndingBalance)
	assert.Equal(t, money.FromCents(-100000), resp.Results[1].EndingBalance)
	assert.Equal(t, money.FromCents(100000), resp.Results[2].EndingBalance)
	assert.Equal(t, forecast.StatusUnderfunded, resp.Results[1].FundingStatus)
	assert.Equal(t, []string{"Roof"}, resp.Results[1].ProjectsDue)
	assert.Equal(t, 2, resp.Summary.FirstDeficitYear)

	assert.Contains(t, rec.Body.String(), `"funding_status":"UNDERFUNDED"`)
	assert.Equal(t, int64(1), s.snapshotStatus().Forecasts)
}

func TestForecast_DefaultPolicy(t *testing.T) {
	body := `{"starting_balance": 0, "horizon_years": 3, "annual_contribution": 1000, "inflation_rate": 0.1}`
	rec := do(t, newTestService(t, nil).Handler(), http.MethodPost, "/v1/forecast", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp ForecastResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	// Contributions track inflation by default: 1000, 1100, 1210.
	assert.Equal(t, money.FromCents(121000), resp.Results[2].Contribution)
}

func TestForecast_ValidationError(t *testing.T) {
	s := newTestService(t, nil)
	body := `{"starting_balance": -1, "horizon_years": 0, "contribution_policy": "independent"}`
	rec := do(t, s.Handler(), http.MethodPost, "/v1/forecast", body)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var resp errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	fields := make([]string, len(resp.Issues))
	for i, is := range resp.Issues {
		fields[i] = is.Field
	}
	assert.ElementsMatch(t, []string{"starting_balance", "horizon_years"}, fields)
	assert.Equal(t, int64(1), s.snapshotStatus().ValidationErrors)
}

func TestForecast_RejectsOutOfRangeInputs(t *testing.T) {
	s := newTestService(t, nil)
	body := `{"starting_balance": 1000000, "horizon_years": 1000000000, "interest_rate": 50, "contribution_policy": "independent"}`
	rec := do(t, s.Handler(), http.MethodPost, "/v1/forecast", body)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var resp errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	fields := make([]string, len(resp.Issues))
	for i, is := range resp.Issues {
		fields[i] = is.Field
	}
	assert.ElementsMatch(t, []string{"horizon_years", "interest_rate"}, fields)
}

func TestForecast_BadJSON(t *testing.T) {
	h := newTestService(t, nil).Handler()

	rec := do(t, h, http.MethodPost, "/v1/forecast", `{"horizon_years": `)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodPost, "/v1/forecast", `{"horizon": 3}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "horizon")
}

func TestCompare(t *testing.T) {
	body := `{"cases": [` + workedExample + `, {"starting_balance": 50000, "horizon_years": 3}]}`
	rec := do(t, newTestService(t, nil).Handler(), http.MethodPost, "/v1/compare", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp CompareResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Outcomes, 2)
	assert.Equal(t, "Baseline", resp.Outcomes[0].Name)
	assert.Equal(t, "case 2", resp.Outcomes[1].Name)
	assert.Equal(t, money.FromCents(100000), resp.Outcomes[0].Summary.FinalBalance)
}

func TestCompare_ValidationIssuesArePrefixed(t *testing.T) {
	body := `{"cases": [` + workedExample + `, {"horizon_years": 0}]}`
	rec := do(t, newTestService(t, nil).Handler(), http.MethodPost, "/v1/compare", body)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var resp errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Issues)
	assert.Equal(t, "cases[1].horizon_years", resp.Issues[0].Field)
}

func TestCompare_Empty(t *testing.T) {
	rec := do(t, newTestService(t, nil).Handler(), http.MethodPost, "/v1/compare", `{"cases": []}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPresets(t *testing.T) {
	st, err := store.Open(filepath.Join(t.TempDir(), "presets.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	_, err = st.SavePreset("Baseline", scenario.Params{
		StartingBalance:    money.FromCents(1000000),
		HorizonYears:       3,
		AnnualContribution: money.FromCents(200000),
		ContributionPolicy: scenario.ContributionIndependent,
		Projects: []scenario.ProjectParams{
			{Name: "Roof", BaseCost: money.FromCents(1500000), ScheduledYear: 2},
		},
	})
	require.NoError(t, err)

	h := newTestService(t, st).Handler()

	rec := do(t, h, http.MethodGet, "/v1/presets", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var list []PresetInfo
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.Equal(t, "Baseline", list[0].Name)
	assert.Equal(t, 3, list[0].HorizonYears)

	rec = do(t, h, http.MethodGet, "/v1/presets/Baseline/forecast", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp ForecastResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, money.FromCents(100000), resp.Summary.FinalBalance)

	rec = do(t, h, http.MethodGet, "/v1/presets/Missing/forecast", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, h, http.MethodGet, "/v1/status", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var st Status
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &st))
	assert.True(t, st.PresetsEnabled)
	assert.Equal(t, 1, st.PresetCount)
}

func TestPresets_Disabled(t *testing.T) {
	h := newTestService(t, nil).Handler()

	rec := do(t, h, http.MethodGet, "/v1/presets", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())

	rec = do(t, h, http.MethodGet, "/v1/presets/x/forecast", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestEvents_RingBuffer(t *testing.T) {
	s, err := New(Config{Options: forecast.DefaultOptions(), Log: zerolog.Nop(), EventsBuffer: 2})
	require.NoError(t, err)

	s.recordForecast("a", forecast.Summary{})
	s.recordForecast("b", forecast.Summary{})
	s.recordForecast("c", forecast.Summary{})

	rec := do(t, s.Handler(), http.MethodGet, "/v1/events", "")
	var events []Event
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &events))
	require.Len(t, events, 2)
	assert.Equal(t, "b", events[0].Name)
	assert.Equal(t, int64(3), events[1].ID)
}

func TestStatus(t *testing.T) {
	rec := do(t, newTestService(t, nil).Handler(), http.MethodGet, "/v1/status", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var st Status
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &st))
	assert.Equal(t, forecast.DefaultAdequateThreshold, st.AdequateThreshold)
	assert.Equal(t, forecast.DefaultLookaheadYears, st.LookaheadYears)
	assert.False(t, st.PresetsEnabled)
}

func TestRun_Shutdown(t *testing.T) {
	s, err := New(Config{Addr: "127.0.0.1:0", Options: forecast.DefaultOptions(), Log: zerolog.Nop()})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestForecast_BodyLimit(t *testing.T) {
	s, err := New(Config{Options: forecast.DefaultOptions(), Log: zerolog.Nop(), MaxBodyBytes: 16})
	require.NoError(t, err)

	r := httptest.NewRequest(http.MethodPost, "/v1/forecast", bytes.NewBufferString(workedExample))
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, r)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
