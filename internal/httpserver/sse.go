package httpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/eatwhat/eatwhat/internal/match"
	"github.com/eatwhat/eatwhat/internal/utils"
	"go.uber.org/zap"
)

type analysisEvent struct {
	Text string `json:"text"`
	Done bool   `json:"done"`
}

type candidateEvent struct {
	Index     int             `json:"index"`
	Candidate match.Candidate `json:"candidate"`
}

// handleMatchStream is the SSE variant of the recommendation endpoint. The
// pipeline runs to completion and the result is validated before the first
// event goes out; streaming is purely progressive reveal. Ordering is fixed:
// analysis events, then candidate events, then exactly one complete event,
// or a single terminal error event.
func (s *Server) handleMatchStream(w http.ResponseWriter, r *http.Request) {
	input, ok := s.decodeInput(w, r)
	if !ok {
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming is not supported")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.config.RequestTimeout)
	defer cancel()

	rec, err := s.pipeline.Recommend(ctx, input)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	if err != nil {
		pipelineFailuresTotal.WithLabelValues(failureStage(err)).Inc()
		s.logger.Warn("streaming recommendation failed", zap.Error(err))
		writeEvent(w, flusher, "error", map[string]string{"message": err.Error()})
		return
	}

	analysis := []rune(rec.MidpointAnalysis)
	for i := range analysis {
		writeEvent(w, flusher, "analysis", analysisEvent{
			Text: string(analysis[:i+1]),
			Done: i == len(analysis)-1,
		})
		if err := utils.WaitFor(ctx, s.config.AnalysisDelay); err != nil {
			return
		}
	}

	for i, candidate := range rec.Candidates {
		if err := utils.WaitFor(ctx, s.config.CandidateDelay); err != nil {
			return
		}
		writeEvent(w, flusher, "candidate", candidateEvent{Index: i, Candidate: candidate})
	}

	writeEvent(w, flusher, "complete", rec)
}

func writeEvent(w http.ResponseWriter, flusher http.Flusher, event string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		return
	}

	fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data)
	flusher.Flush()
}
