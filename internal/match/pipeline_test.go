package match

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"go.uber.org/zap"
)

type stubGenerator struct {
	response   string
	err        error
	lastPrompt string
}

func (s *stubGenerator) GenerateContent(_ context.Context, prompt string) (string, error) {
	s.lastPrompt = prompt
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

func TestPipelineEndToEnd(t *testing.T) {
	t.Parallel()

	stub := &stubGenerator{
		response: "```json\n{\"midpoint_analysis\":\"A\",\"candidates\":[{\"name\":\"Cafe X\",\"lat\":1,\"lng\":2,\"price\":30,\"best_for\":\"Chat,Work\"}]}\n```",
	}
	pipeline := NewPipeline(stub, zap.NewNop(), 0)

	rec, err := pipeline.Recommend(context.Background(), sampleRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := &Recommendation{
		MidpointAnalysis: "A",
		Candidates: []Candidate{{
			VenueName:     "Cafe X",
			Location:      Location{Lat: 1, Lng: 2},
			Type:          TypeOrganic,
			EstimatedCost: 30,
			BestFor:       []string{"Chat", "Work"},
		}},
	}

	if !reflect.DeepEqual(rec, want) {
		t.Fatalf("unexpected recommendation:\ngot  %+v\nwant %+v", rec, want)
	}

	if !strings.Contains(stub.lastPrompt, "venue_name") {
		t.Fatalf("expected the output contract in the prompt, got:\n%s", stub.lastPrompt)
	}
}

func TestPipelineModelCallFailure(t *testing.T) {
	t.Parallel()

	upstream := errors.New("boom")
	pipeline := NewPipeline(&stubGenerator{err: upstream}, zap.NewNop(), 0)

	_, err := pipeline.Recommend(context.Background(), sampleRequest())
	if !errors.Is(err, ErrModelCall) {
		t.Fatalf("expected ErrModelCall, got %v", err)
	}

	if !errors.Is(err, upstream) {
		t.Fatalf("expected the upstream error to stay reachable, got %v", err)
	}
}

func TestPipelineNoJSONInResponse(t *testing.T) {
	t.Parallel()

	pipeline := NewPipeline(&stubGenerator{response: "I could not find any venues, sorry."}, zap.NewNop(), 0)

	_, err := pipeline.Recommend(context.Background(), sampleRequest())
	if !errors.Is(err, ErrNoJSON) {
		t.Fatalf("expected ErrNoJSON, got %v", err)
	}
}

func TestPipelineInvalidJSON(t *testing.T) {
	t.Parallel()

	pipeline := NewPipeline(&stubGenerator{response: `{"midpoint_analysis": not json}`}, zap.NewNop(), 0)

	_, err := pipeline.Recommend(context.Background(), sampleRequest())
	if !errors.Is(err, ErrBadJSON) {
		t.Fatalf("expected ErrBadJSON, got %v", err)
	}
}

func TestPipelineAllCandidatesDropped(t *testing.T) {
	t.Parallel()

	pipeline := NewPipeline(&stubGenerator{
		response: `{"midpoint_analysis":"A","candidates":[{"address":"no name"}]}`,
	}, zap.NewNop(), 0)

	_, err := pipeline.Recommend(context.Background(), sampleRequest())

	var schemaErr *SchemaError
	if !errors.As(err, &schemaErr) {
		t.Fatalf("expected a SchemaError, got %v", err)
	}

	if schemaErr.Reason != ReasonCandidateCount {
		t.Fatalf("expected candidate count reason, got %q", schemaErr.Reason)
	}
}

func TestFallbackIsValid(t *testing.T) {
	t.Parallel()

	if err := Validate(*Fallback()); err != nil {
		t.Fatalf("fallback recommendation must pass validation: %v", err)
	}

	// Each call returns a fresh copy callers may mutate.
	first := Fallback()
	first.Candidates[0].VenueName = "mutated"
	if Fallback().Candidates[0].VenueName == "mutated" {
		t.Fatalf("expected Fallback to return an independent copy")
	}
}
