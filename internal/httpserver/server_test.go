package httpserver

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/eatwhat/eatwhat/internal/ai/dashscope"
	"github.com/eatwhat/eatwhat/internal/invitation"
	"github.com/eatwhat/eatwhat/internal/match"
)

type stubRecommender struct {
	rec     *match.Recommendation
	err     error
	lastReq *match.Request
}

func (s *stubRecommender) Recommend(_ context.Context, req *match.Request) (*match.Recommendation, error) {
	s.lastReq = req
	if s.err != nil {
		return nil, s.err
	}
	return s.rec, nil
}

func newTestServer(stub *stubRecommender) *Server {
	return New(Config{}, zap.NewNop(), stub, invitation.NewStore())
}

const recommendBody = `{"input":{"host":{"address":"南京西路 1601 号"},"guest":{"address":"漕溪北路 331 号"},"context":{"purpose":"coffee_chat"}}}`

func TestRecommendSuccess(t *testing.T) {
	stub := &stubRecommender{rec: match.Fallback()}
	server := newTestServer(stub)

	req := httptest.NewRequest(http.MethodPost, "/api/recommend", strings.NewReader(recommendBody))
	resp := httptest.NewRecorder()
	server.Handler().ServeHTTP(resp, req)

	require.Equal(t, http.StatusOK, resp.Code)

	var rec match.Recommendation
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &rec))
	assert.Len(t, rec.Candidates, 3)

	require.NotNil(t, stub.lastReq)
	assert.Equal(t, "南京西路 1601 号", stub.lastReq.Host.Address)
}

func TestRecommendMissingInput(t *testing.T) {
	server := newTestServer(&stubRecommender{rec: match.Fallback()})

	for _, body := range []string{"", "{}", "not json", `{"input":null}`} {
		req := httptest.NewRequest(http.MethodPost, "/api/recommend", strings.NewReader(body))
		resp := httptest.NewRecorder()
		server.Handler().ServeHTTP(resp, req)

		assert.Equal(t, http.StatusBadRequest, resp.Code, "body %q", body)
		assert.Contains(t, resp.Body.String(), "Missing input.")
	}
}

func TestRecommendFailureMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{
			name:       "schema mismatch",
			err:        &match.SchemaError{Reason: match.ReasonFieldMismatch, Violations: []string{"type invalid"}},
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name:       "candidate count",
			err:        &match.SchemaError{Reason: match.ReasonCandidateCount},
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name:       "upstream status carried over",
			err:        &dashscope.APIError{StatusCode: http.StatusTooManyRequests, Message: "throttled"},
			wantStatus: http.StatusTooManyRequests,
		},
		{
			name:       "body-level upstream error with 200 status",
			err:        &dashscope.APIError{StatusCode: http.StatusOK, Code: "InvalidApiKey", Message: "bad key"},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "extraction failure",
			err:        match.ErrNoJSON,
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := newTestServer(&stubRecommender{err: tt.err})

			req := httptest.NewRequest(http.MethodPost, "/api/recommend", strings.NewReader(recommendBody))
			resp := httptest.NewRecorder()
			server.Handler().ServeHTTP(resp, req)

			assert.Equal(t, tt.wantStatus, resp.Code)
		})
	}
}

func TestInviteFlow(t *testing.T) {
	server := newTestServer(&stubRecommender{rec: match.Fallback()})
	handler := server.Handler()

	body := `{"hostId":"host-1","guestId":"guest-1","input":{"host":{"address":"A"},"guest":{"address":"B"}}}`
	req := httptest.NewRequest(http.MethodPost, "/api/invite", strings.NewReader(body))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	require.Equal(t, http.StatusOK, resp.Code)

	var inv invitation.Invitation
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &inv))
	assert.Equal(t, invitation.StatusSelecting, inv.Status)
	require.NotNil(t, inv.Result)
	assert.Len(t, inv.Result.Candidates, 3)

	req = httptest.NewRequest(http.MethodGet, "/api/invite/"+inv.ID+"/status", nil)
	resp = httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	require.Equal(t, http.StatusOK, resp.Code)

	var status invitation.Status
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &status))
	assert.Equal(t, invitation.StatusSelecting, status.Status)
	assert.Nil(t, status.HostSelected)

	selectCandidate := func(userID string, index int) *httptest.ResponseRecorder {
		payload := `{"userId":"` + userID + `","candidateIndex":` + strconv.Itoa(index) + `}`
		req := httptest.NewRequest(http.MethodPost, "/api/invite/"+inv.ID+"/select", strings.NewReader(payload))
		resp := httptest.NewRecorder()
		handler.ServeHTTP(resp, req)
		return resp
	}

	resp = selectCandidate("host-1", 2)
	require.Equal(t, http.StatusOK, resp.Code)

	resp = selectCandidate("guest-1", 2)
	require.Equal(t, http.StatusOK, resp.Code)
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &status))
	assert.Equal(t, invitation.StatusConfirmed, status.Status)
}

func TestInviteSelectErrors(t *testing.T) {
	server := newTestServer(&stubRecommender{rec: match.Fallback()})
	handler := server.Handler()

	req := httptest.NewRequest(http.MethodGet, "/api/invite/missing/status", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	assert.Equal(t, http.StatusNotFound, resp.Code)

	body := `{"hostId":"host-1","guestId":"guest-1","input":{"host":{"address":"A"},"guest":{"address":"B"}}}`
	req = httptest.NewRequest(http.MethodPost, "/api/invite", strings.NewReader(body))
	resp = httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	require.Equal(t, http.StatusOK, resp.Code)

	var inv invitation.Invitation
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &inv))

	// Candidate index out of range is a conflict, not a bad request.
	req = httptest.NewRequest(http.MethodPost, "/api/invite/"+inv.ID+"/select", strings.NewReader(`{"userId":"host-1","candidateIndex":9}`))
	resp = httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	assert.Equal(t, http.StatusConflict, resp.Code)

	req = httptest.NewRequest(http.MethodPost, "/api/invite/"+inv.ID+"/select", strings.NewReader(`{"candidateIndex":0}`))
	resp = httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestHealthz(t *testing.T) {
	server := newTestServer(&stubRecommender{rec: match.Fallback()})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	resp := httptest.NewRecorder()
	server.Handler().ServeHTTP(resp, req)

	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `"status":"ok"`)
}
