package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/eatwhat/eatwhat/internal/ai/dashscope"
	"github.com/eatwhat/eatwhat/internal/invitation"
	"github.com/eatwhat/eatwhat/internal/match"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

type recommender interface {
	Recommend(ctx context.Context, req *match.Request) (*match.Recommendation, error)
}

// Config holds the server's runtime settings.
type Config struct {
	Addr string
	// RequestTimeout bounds one pipeline run, including the model call.
	RequestTimeout time.Duration
	// AnalysisDelay and CandidateDelay pace the SSE progressive reveal.
	AnalysisDelay  time.Duration
	CandidateDelay time.Duration
}

// Server exposes the recommendation pipeline and the invitation selection
// flow over HTTP.
type Server struct {
	config      Config
	logger      *zap.Logger
	pipeline    recommender
	invitations *invitation.Store
}

func New(config Config, log *zap.Logger, pipeline recommender, invitations *invitation.Store) *Server {
	if config.RequestTimeout <= 0 {
		config.RequestTimeout = 90 * time.Second
	}

	return &Server{
		config:      config,
		logger:      log,
		pipeline:    pipeline,
		invitations: invitations,
	}
}

// Handler builds the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("POST /api/recommend", s.instrument("/api/recommend", s.handleRecommend))
	mux.HandleFunc("POST /api/match", s.instrument("/api/match", s.handleMatchStream))
	mux.HandleFunc("POST /api/invite", s.instrument("/api/invite", s.handleCreateInvite))
	mux.HandleFunc("GET /api/invite/{id}/status", s.instrument("/api/invite/status", s.handleInviteStatus))
	mux.HandleFunc("POST /api/invite/{id}/select", s.instrument("/api/invite/select", s.handleInviteSelect))

	return mux
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.config.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", zap.String("addr", s.config.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "service": "eatwhat"})
}

type recommendRequest struct {
	Input *match.Request `json:"input"`
}

func (s *Server) handleRecommend(w http.ResponseWriter, r *http.Request) {
	input, ok := s.decodeInput(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.config.RequestTimeout)
	defer cancel()

	rec, err := s.pipeline.Recommend(ctx, input)
	if err != nil {
		s.failRecommend(w, err)
		return
	}

	writeJSON(w, http.StatusOK, rec)
}

type createInviteRequest struct {
	HostID  string         `json:"hostId"`
	GuestID string         `json:"guestId"`
	Input   *match.Request `json:"input"`
}

// handleCreateInvite registers an invitation, runs the pipeline once and
// attaches the validated result, leaving the invitation in the selecting
// phase. On pipeline failure the invitation stays in ai_matching so the
// caller may retry the whole flow.
func (s *Server) handleCreateInvite(w http.ResponseWriter, r *http.Request) {
	var body createInviteRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Input == nil || body.HostID == "" || body.GuestID == "" {
		writeError(w, http.StatusBadRequest, "Missing input.")
		return
	}

	inv := s.invitations.Create(body.HostID, body.GuestID)

	ctx, cancel := context.WithTimeout(r.Context(), s.config.RequestTimeout)
	defer cancel()

	rec, err := s.pipeline.Recommend(ctx, body.Input)
	if err != nil {
		s.failRecommend(w, err)
		return
	}

	if err := s.invitations.AttachResult(inv.ID, rec); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	updated, err := s.invitations.Get(inv.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleInviteStatus(w http.ResponseWriter, r *http.Request) {
	status, err := s.invitations.StatusOf(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, status)
}

type selectRequest struct {
	UserID         string `json:"userId"`
	CandidateIndex int    `json:"candidateIndex"`
}

func (s *Server) handleInviteSelect(w http.ResponseWriter, r *http.Request) {
	var body selectRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.UserID == "" {
		writeError(w, http.StatusBadRequest, "Missing input.")
		return
	}

	status, err := s.invitations.Select(r.PathValue("id"), body.UserID, body.CandidateIndex)
	if err != nil {
		switch {
		case errors.Is(err, invitation.ErrNotFound):
			writeError(w, http.StatusNotFound, err.Error())
		case errors.Is(err, invitation.ErrNotSelecting), errors.Is(err, invitation.ErrBadCandidate):
			writeError(w, http.StatusConflict, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	writeJSON(w, http.StatusOK, status)
}

func (s *Server) decodeInput(w http.ResponseWriter, r *http.Request) (*match.Request, bool) {
	var body recommendRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Input == nil {
		writeError(w, http.StatusBadRequest, "Missing input.")
		return nil, false
	}
	return body.Input, true
}

// failRecommend maps a pipeline failure to the inbound contract: schema
// mismatches are 422, upstream API errors carry the upstream status (or 400
// when it is unusable), everything else is 500.
func (s *Server) failRecommend(w http.ResponseWriter, err error) {
	pipelineFailuresTotal.WithLabelValues(failureStage(err)).Inc()
	s.logger.Warn("recommendation failed", zap.Error(err))

	var schemaErr *match.SchemaError
	var apiErr *dashscope.APIError

	switch {
	case errors.As(err, &schemaErr):
		writeError(w, http.StatusUnprocessableEntity, "AI response does not match expected schema.")
	case errors.As(err, &apiErr):
		status := apiErr.StatusCode
		if status < 400 {
			status = http.StatusBadRequest
		}
		writeError(w, status, apiErr.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func (s *Server) instrument(route string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next(recorder, r)

		httpRequestsTotal.WithLabelValues(route, strconv.Itoa(recorder.status)).Inc()
		httpRequestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// Flush keeps the SSE handler working through the instrumented writer.
func (r *statusRecorder) Flush() {
	if flusher, ok := r.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}
