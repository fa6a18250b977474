package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/theirongolddev/hoafund/internal/forecast"
	"github.com/theirongolddev/hoafund/internal/scenario"
	"github.com/theirongolddev/hoafund/internal/store"
)

// ForecastRequest is the body of POST /v1/forecast. An omitted
// contribution_policy takes the server default.
type ForecastRequest struct {
	Name string `json:"name,omitempty"`
	scenario.Params
}

// CompareRequest is the body of POST /v1/compare.
type CompareRequest struct {
	Cases []ForecastRequest `json:"cases"`
}

// ForecastResponse carries one projection.
type ForecastResponse struct {
	Name    string                `json:"name,omitempty"`
	Results []forecast.YearResult `json:"results"`
	Summary forecast.Summary      `json:"summary"`
}

// CompareResponse carries projections in request order.
type CompareResponse struct {
	Outcomes []forecast.Outcome `json:"outcomes"`
}

// PresetInfo is a preset listing entry.
type PresetInfo struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	HorizonYears int       `json:"horizon_years"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type errorResponse struct {
	Error  string           `json:"error"`
	Issues []scenario.Issue `json:"issues,omitempty"`
}

func (s *Service) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

func (s *Service) handleStatus(w http.ResponseWriter, _ *http.Request) {
	st := s.snapshotStatus()
	if s.cfg.Presets != nil {
		n, err := s.cfg.Presets.PresetCount()
		if err != nil {
			s.log.Warn().Err(err).Msg("counting presets")
		}
		st.PresetCount = n
	}
	writeJSON(w, http.StatusOK, st)
}

func (s *Service) handleForecast(w http.ResponseWriter, r *http.Request) {
	var req ForecastRequest
	if !s.decode(w, r, &req) {
		return
	}

	sc, err := s.build(req)
	if err != nil {
		s.writeScenarioError(w, err, "")
		return
	}

	results := s.engine.Project(sc)
	sum := forecast.Summarize(results)
	s.recordForecast(req.Name, sum)

	writeJSON(w, http.StatusOK, ForecastResponse{Name: req.Name, Results: results, Summary: sum})
}

func (s *Service) handleCompare(w http.ResponseWriter, r *http.Request) {
	var req CompareRequest
	if !s.decode(w, r, &req) {
		return
	}
	if len(req.Cases) == 0 {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "cases must not be empty"})
		return
	}

	cases := make([]forecast.Case, len(req.Cases))
	for i, c := range req.Cases {
		sc, err := s.build(c)
		if err != nil {
			s.writeScenarioError(w, err, fmt.Sprintf("cases[%d].", i))
			return
		}
		name := c.Name
		if name == "" {
			name = fmt.Sprintf("case %d", i+1)
		}
		cases[i] = forecast.Case{Name: name, Scenario: sc}
	}

	outcomes, err := forecast.Compare(r.Context(), s.engine, cases)
	if err != nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: err.Error()})
		return
	}
	for _, o := range outcomes {
		s.recordForecast(o.Name, o.Summary)
	}

	writeJSON(w, http.StatusOK, CompareResponse{Outcomes: outcomes})
}

func (s *Service) handleListPresets(w http.ResponseWriter, _ *http.Request) {
	if s.cfg.Presets == nil {
		writeJSON(w, http.StatusOK, []PresetInfo{})
		return
	}

	presets, err := s.cfg.Presets.ListPresets()
	if err != nil {
		s.log.Error().Err(err).Msg("listing presets")
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "listing presets failed"})
		return
	}

	out := make([]PresetInfo, 0, len(presets))
	for _, p := range presets {
		out = append(out, PresetInfo{
			ID:           p.ID,
			Name:         p.Name,
			HorizonYears: p.Params.HorizonYears,
			UpdatedAt:    p.UpdatedAt,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Service) handlePresetForecast(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if s.cfg.Presets == nil {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "presets are not enabled"})
		return
	}

	p, err := s.cfg.Presets.LoadPreset(name)
	if errors.Is(err, store.ErrPresetNotFound) {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
		return
	}
	if err != nil {
		s.log.Error().Err(err).Str("preset", name).Msg("loading preset")
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "loading preset failed"})
		return
	}

	sc, err := scenario.New(p.Params)
	if err != nil {
		s.writeScenarioError(w, err, "")
		return
	}

	results := s.engine.Project(sc)
	sum := forecast.Summarize(results)
	s.recordForecast(p.Name, sum)

	writeJSON(w, http.StatusOK, ForecastResponse{Name: p.Name, Results: results, Summary: sum})
}

func (s *Service) handleEvents(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	events := make([]Event, len(s.events))
	copy(events, s.events)
	s.mu.RUnlock()

	writeJSON(w, http.StatusOK, events)
}

func (s *Service) handleStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch := make(chan Event, 16)
	id := s.addSubscriber(ch)
	defer s.removeSubscriber(id)

	_, _ = fmt.Fprint(w, ": connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case ev := <-ch:
			writeSSE(w, ev)
			flusher.Flush()
		}
	}
}

// build applies server defaults to req and validates it.
func (s *Service) build(req ForecastRequest) (scenario.Scenario, error) {
	p := req.Params
	if p.ContributionPolicy == "" {
		p.ContributionPolicy = s.cfg.DefaultPolicy
	}
	return scenario.New(p)
}

func (s *Service) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON: " + err.Error()})
		return false
	}
	return true
}

func (s *Service) writeScenarioError(w http.ResponseWriter, err error, prefix string) {
	var verr *scenario.ValidationError
	if !errors.As(err, &verr) {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	s.recordInvalid()

	issues := make([]scenario.Issue, len(verr.Issues))
	for i, is := range verr.Issues {
		issues[i] = scenario.Issue{Field: prefix + is.Field, Reason: is.Reason}
	}
	msg := "invalid scenario"
	if prefix != "" {
		msg += " in " + strings.TrimSuffix(prefix, ".")
	}
	writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: msg, Issues: issues})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeSSE(w http.ResponseWriter, ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		return
	}
	_, _ = fmt.Fprintf(w, "id: %d\n", ev.ID)
	_, _ = fmt.Fprintf(w, "event: %s\n", ev.Type)
	_, _ = fmt.Fprintf(w, "data: %s\n\n", data)
}
