// Package api serves forecasts over HTTP.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/theirongolddev/hoafund/internal/forecast"
	"github.com/theirongolddev/hoafund/internal/scenario"
	"github.com/theirongolddev/hoafund/internal/store"
)

// PresetSource is the subset of the preset store the API reads from.
type PresetSource interface {
	ListPresets() ([]store.Preset, error)
	LoadPreset(name string) (store.Preset, error)
	PresetCount() (int, error)
}

// Config controls the API runtime behavior.
type Config struct {
	Addr          string
	Options       forecast.Options
	DefaultPolicy scenario.ContributionPolicy
	Presets       PresetSource // optional
	Log           zerolog.Logger
	EventsBuffer  int
	MaxBodyBytes  int64
}

// Event is emitted whenever the API computes a forecast.
type Event struct {
	ID        int64            `json:"id"`
	Type      string           `json:"type"`
	Timestamp time.Time        `json:"timestamp"`
	Name      string           `json:"name,omitempty"`
	Summary   forecast.Summary `json:"summary"`
}

// Status is served at /v1/status.
type Status struct {
	StartedAt         time.Time `json:"started_at"`
	Forecasts         int64     `json:"forecasts"`
	ValidationErrors  int64     `json:"validation_errors"`
	AdequateThreshold float64   `json:"adequate_threshold"`
	LookaheadYears    int       `json:"lookahead_years"`
	PresetsEnabled    bool      `json:"presets_enabled"`
	PresetCount       int       `json:"preset_count"`
	EventCount        int       `json:"event_count"`
	SubscriberCount   int       `json:"subscriber_count"`
}

// Service provides the HTTP API.
type Service struct {
	cfg    Config
	engine forecast.Engine
	log    zerolog.Logger

	mu          sync.RWMutex
	startedAt   time.Time
	forecasts   int64
	invalid     int64
	nextEventID int64
	events      []Event
	nextSubID   int
	subs        map[int]chan Event
}

// New returns a service with the provided config. Options are validated
// here so a bad threshold fails at startup rather than per request.
func New(cfg Config) (*Service, error) {
	if cfg.EventsBuffer < 1 {
		cfg.EventsBuffer = 200
	}
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:8787"
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = 1 << 20
	}
	if cfg.DefaultPolicy == "" {
		cfg.DefaultPolicy = scenario.ContributionTracksInflation
	}

	engine, err := forecast.NewEngine(cfg.Options)
	if err != nil {
		return nil, err
	}

	return &Service{
		cfg:       cfg,
		engine:    engine,
		log:       cfg.Log.With().Str("component", "api").Logger(),
		startedAt: time.Now(),
		subs:      make(map[int]chan Event),
	}, nil
}

// Handler returns the routed HTTP handler.
func (s *Service) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(s.loggingMiddleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Get("/status", s.handleStatus)
		r.Post("/forecast", s.handleForecast)
		r.Post("/compare", s.handleCompare)
		r.Get("/events", s.handleEvents)
		r.Get("/stream", s.handleStream)
		r.Route("/presets", func(r chi.Router) {
			r.Get("/", s.handleListPresets)
			r.Get("/{name}/forecast", s.handlePresetForecast)
		})
	})

	return r
}

// Run serves the API until ctx is canceled, then shuts down gracefully.
func (s *Service) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", s.cfg.Addr).Msg("listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		s.log.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	case err := <-errCh:
		return fmt.Errorf("api http server: %w", err)
	}
}

func (s *Service) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		s.log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Dur("duration", time.Since(start)).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("http request")
	})
}

func (s *Service) recordForecast(name string, sum forecast.Summary) {
	s.mu.Lock()
	s.forecasts++
	s.nextEventID++
	ev := Event{
		ID:        s.nextEventID,
		Type:      "forecast",
		Timestamp: time.Now(),
		Name:      name,
		Summary:   sum,
	}
	s.mu.Unlock()

	s.publishEvent(ev)
}

func (s *Service) recordInvalid() {
	s.mu.Lock()
	s.invalid++
	s.mu.Unlock()
}

func (s *Service) publishEvent(ev Event) {
	s.mu.Lock()
	s.events = append(s.events, ev)
	if len(s.events) > s.cfg.EventsBuffer {
		s.events = s.events[len(s.events)-s.cfg.EventsBuffer:]
	}

	for _, ch := range s.subs {
		select {
		case ch <- ev:
		default:
		}
	}
	s.mu.Unlock()
}

func (s *Service) snapshotStatus() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()

	opts := s.engine.Options()
	return Status{
		StartedAt:         s.startedAt,
		Forecasts:         s.forecasts,
		ValidationErrors:  s.invalid,
		AdequateThreshold: opts.AdequateThreshold,
		LookaheadYears:    opts.LookaheadYears,
		PresetsEnabled:    s.cfg.Presets != nil,
		EventCount:        len(s.events),
		SubscriberCount:   len(s.subs),
	}
}

func (s *Service) addSubscriber(ch chan Event) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextSubID++
	id := s.nextSubID
	s.subs[id] = ch
	return id
}

func (s *Service) removeSubscriber(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.subs, id)
}
