// Package analyzerservice exposes the schedule analyzers and the property
// search over HTTP/JSON. It is a thin surface: all decisions come from
// core/analysis and core/generator, this package only decodes requests,
// invokes them, and counts what happened.
package analyzerservice

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"

	"github.com/txnlab/schedlab/core/analysis"
	"github.com/txnlab/schedlab/core/generator"
	"github.com/txnlab/schedlab/core/schedule"
)

// Config holds the service configuration.
type Config struct {
	// ListenAddr is the address the HTTP server binds, e.g. ":8090".
	ListenAddr string `yaml:"listen_addr"`
}

// Service wires the HTTP handlers to the analyzers.
type Service struct {
	cfg    Config
	logger *zap.Logger
	server *http.Server

	analyzed metric.Int64Counter
	searches metric.Int64Counter
	attempts metric.Int64Counter
}

// New creates the service and registers its metrics on the given meter.
func New(cfg Config, logger *zap.Logger, meter metric.Meter) (*Service, error) {
	s := &Service{cfg: cfg, logger: logger}

	var err error
	if s.analyzed, err = meter.Int64Counter("schedlab_schedules_analyzed_total",
		metric.WithDescription("Schedules analyzed via the HTTP API")); err != nil {
		return nil, fmt.Errorf("create analyzed counter: %w", err)
	}
	if s.searches, err = meter.Int64Counter("schedlab_property_searches_total",
		metric.WithDescription("Property searches run via the HTTP API")); err != nil {
		return nil, fmt.Errorf("create searches counter: %w", err)
	}
	if s.attempts, err = meter.Int64Counter("schedlab_generator_attempts_total",
		metric.WithDescription("Random schedules generated during property searches")); err != nil {
		return nil, fmt.Errorf("create attempts counter: %w", err)
	}

	s.server = &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      s.Handler(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
	return s, nil
}

// Handler returns the service's route mux, exposed separately for tests.
func (s *Service) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/analyze", s.handleAnalyze)
	mux.HandleFunc("/generate", s.handleGenerate)
	mux.HandleFunc("/healthz", s.handleHealthz)
	return mux
}

// ListenAndServe runs the HTTP server until Shutdown or failure.
func (s *Service) ListenAndServe() error {
	s.logger.Info("analyzer service listening", zap.String("addr", s.cfg.ListenAddr))
	err := s.server.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown gracefully stops the HTTP server.
func (s *Service) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// AnalyzeRequest asks for the characterization of one schedule given in
// textual form, e.g. "R1(A) W2(A) C1 C2".
type AnalyzeRequest struct {
	Schedule string `json:"schedule"`
}

// GraphPayload is the conflict graph in wire form for downstream rendering.
type GraphPayload struct {
	Nodes []int    `json:"nodes"`
	Edges [][2]int `json:"edges"`
}

// AnalyzeResponse carries the five verdicts and the conflict graph.
type AnalyzeResponse struct {
	Schedule      string          `json:"schedule"`
	Report        analysis.Report `json:"report"`
	ConflictGraph GraphPayload    `json:"conflict_graph"`
}

// ErrorResponse is the body of every non-2xx reply.
type ErrorResponse struct {
	Error string `json:"error"`
}

func (s *Service) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "POST only")
		return
	}
	var req AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	sched, err := schedule.Parse(req.Schedule)
	if err != nil {
		s.analyzed.Add(r.Context(), 1, metric.WithAttributes(attribute.String("outcome", "invalid")))
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	report, err := analysis.Analyze(sched)
	if err != nil {
		// Only the view-search budget can fail here; the schedule is too
		// large for an exact answer.
		s.analyzed.Add(r.Context(), 1, metric.WithAttributes(attribute.String("outcome", "budget")))
		s.writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	s.analyzed.Add(r.Context(), 1, metric.WithAttributes(attribute.String("outcome", "ok")))

	s.writeJSON(w, http.StatusOK, AnalyzeResponse{
		Schedule:      sched.String(),
		Report:        report,
		ConflictGraph: graphPayload(analysis.BuildConflictGraph(sched)),
	})
}

// GenerateRequest asks the property search for a schedule matching the
// required property combination. A nil config uses the classic exercise
// defaults; a nil seed derives one from the clock (and reports it back).
type GenerateRequest struct {
	Config      *generator.Config `json:"config,omitempty"`
	Require     []string          `json:"require"`
	Seed        *int64            `json:"seed,omitempty"`
	MaxAttempts int               `json:"max_attempts"`
}

// GenerateResponse reports the search outcome. Found=false is a normal
// reply, not an error.
type GenerateResponse struct {
	Found    bool             `json:"found"`
	Attempts int              `json:"attempts"`
	Seed     int64            `json:"seed"`
	ID       string           `json:"id,omitempty"`
	Schedule string           `json:"schedule,omitempty"`
	Report   *analysis.Report `json:"report,omitempty"`
}

func (s *Service) handleGenerate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "POST only")
		return
	}
	var req GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	cfg := generator.DefaultConfig()
	if req.Config != nil {
		cfg = *req.Config
	}
	target, err := generator.ParseTarget(req.Require)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	maxAttempts := req.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = 10000
	}
	seed := time.Now().UnixNano()
	if req.Seed != nil {
		seed = *req.Seed
	}

	res, err := generator.Search(rand.New(rand.NewSource(seed)), cfg, target, maxAttempts)
	s.searches.Add(r.Context(), 1, metric.WithAttributes(attribute.Bool("found", res.Found)))
	s.attempts.Add(r.Context(), int64(res.Attempts))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	resp := GenerateResponse{Found: res.Found, Attempts: res.Attempts, Seed: seed}
	if res.Found {
		resp.ID = res.ID.String()
		resp.Schedule = res.Schedule.String()
		resp.Report = &res.Report
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Service) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "ok")
}

func graphPayload(g *analysis.ConflictGraph) GraphPayload {
	p := GraphPayload{Nodes: g.Nodes()}
	for _, e := range g.Edges() {
		p.Edges = append(p.Edges, [2]int{e.From, e.To})
	}
	return p
}

func (s *Service) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Error("failed to encode response", zap.Error(err))
	}
}

func (s *Service) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, ErrorResponse{Error: msg})
}
