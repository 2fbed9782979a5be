package httpserver

import (
	"errors"

	"github.com/eatwhat/eatwhat/internal/match"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "eatwhat_http_requests_total",
			Help: "Total number of HTTP requests handled, by route and status code",
		},
		[]string{"route", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "eatwhat_http_request_duration_seconds",
			Help: "Duration of HTTP request handling in seconds",
		},
		[]string{"route"},
	)

	pipelineFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "eatwhat_pipeline_failures_total",
			Help: "Total number of recommendation pipeline failures, by stage",
		},
		[]string{"stage"},
	)
)

// failureStage maps a pipeline error to the stage label used in metrics.
func failureStage(err error) string {
	var schemaErr *match.SchemaError
	switch {
	case errors.Is(err, match.ErrModelCall):
		return "model_call"
	case errors.Is(err, match.ErrNoJSON):
		return "extract"
	case errors.Is(err, match.ErrBadJSON):
		return "parse"
	case errors.As(err, &schemaErr):
		return "schema"
	default:
		return "unknown"
	}
}
