package api_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	sdkmath "cosmossdk.io/math"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/OmeoneChain/omeonechain-sub000/pkg/api"
	"github.com/OmeoneChain/omeonechain-sub000/pkg/governance"
	"github.com/OmeoneChain/omeonechain-sub000/pkg/governance/executor"
	"github.com/OmeoneChain/omeonechain-sub000/pkg/governance/store"
	"github.com/OmeoneChain/omeonechain-sub000/pkg/governance/validator"
	"github.com/OmeoneChain/omeonechain-sub000/pkg/token"
)

func newTestServer(t *testing.T) (*httptest.Server, *token.System) {
	t.Helper()
	tokens := token.NewSystem()
	memStore := store.NewMemoryStore()
	service := governance.NewService(
		tokens,
		memStore,
		memStore,
		executor.New(zap.NewNop()),
		validator.NewDefaultValidator(),
		governance.SystemClock{},
		nil,
		zap.NewNop(),
		nil,
	)
	server := api.NewServer(service, zap.NewNop(), ":0", prometheus.NewRegistry())
	ts := httptest.NewServer(server.Router())
	t.Cleanup(ts.Close)
	return ts, tokens
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	buf, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(buf))
	require.NoError(t, err)
	return resp
}

func decode(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

func TestStakeAndQuery(t *testing.T) {
	ts, tokens := newTestServer(t)
	require.NoError(t, tokens.SetBalance("alice", sdkmath.NewInt(1000)))

	resp := postJSON(t, ts.URL+"/api/stake", map[string]any{
		"account":     "alice",
		"amount":      "200",
		"tier":        "curator",
		"duration_ms": 90 * 24 * 3600 * 1000,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var stake struct {
		Handle string `json:"handle"`
		Amount string `json:"amount"`
		Tier   string `json:"tier"`
	}
	decode(t, resp, &stake)
	assert.NotEmpty(t, stake.Handle)
	assert.Equal(t, "200", stake.Amount)
	assert.Equal(t, "curator", stake.Tier)

	resp, err := http.Get(ts.URL + "/api/stakes/alice")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp, err = http.Get(ts.URL + "/api/registry")
	require.NoError(t, err)
	var registry struct {
		TotalStaked      string `json:"total_staked"`
		TotalVotingPower string `json:"total_voting_power"`
		ActiveStakers    int    `json:"active_stakers"`
	}
	decode(t, resp, &registry)
	assert.Equal(t, "200", registry.TotalStaked)
	assert.Equal(t, "200", registry.TotalVotingPower)
	assert.Equal(t, 1, registry.ActiveStakers)
}

func TestStakeValidation(t *testing.T) {
	ts, _ := newTestServer(t)

	resp := postJSON(t, ts.URL+"/api/stake", map[string]any{
		"account": "alice", "amount": "not-a-number", "tier": "curator",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	resp = postJSON(t, ts.URL+"/api/stake", map[string]any{
		"account": "alice", "amount": "100", "tier": "emperor",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	// Below the tier minimum maps to a 400.
	resp = postJSON(t, ts.URL+"/api/stake", map[string]any{
		"account": "alice", "amount": "1", "tier": "curator", "duration_ms": 90 * 24 * 3600 * 1000,
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestProposalLifecycleOverHTTP(t *testing.T) {
	ts, tokens := newTestServer(t)
	require.NoError(t, tokens.SetBalance("alice", sdkmath.NewInt(1000)))
	require.NoError(t, tokens.SetBalance("bob", sdkmath.NewInt(1000)))

	durationMS := 90 * 24 * 3600 * 1000
	for _, account := range []string{"alice", "bob"} {
		resp := postJSON(t, ts.URL+"/api/stake", map[string]any{
			"account": account, "amount": "100", "tier": "curator", "duration_ms": durationMS,
		})
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		resp.Body.Close()
	}

	resp := postJSON(t, ts.URL+"/api/proposals", map[string]any{
		"account":     "alice",
		"type":        "parameter",
		"title":       "tune fees",
		"description": "lower the platform fee",
		"changes":     []map[string]any{{"name": "platform_fee_bp", "value": 100}},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created struct {
		ID uint64 `json:"id"`
	}
	decode(t, resp, &created)
	require.EqualValues(t, 1, created.ID)

	voteURL := fmt.Sprintf("%s/api/proposals/%d/votes", ts.URL, created.ID)
	resp = postJSON(t, voteURL, map[string]any{"account": "bob", "support": true})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	// Double vote maps to a conflict.
	resp = postJSON(t, voteURL, map[string]any{"account": "bob", "support": false})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	resp.Body.Close()

	resp, err := http.Get(fmt.Sprintf("%s/api/proposals/%d", ts.URL, created.ID))
	require.NoError(t, err)
	var proposal struct {
		Status     string `json:"status"`
		VoterCount int    `json:"voter_count"`
		Critical   bool   `json:"critical"`
	}
	decode(t, resp, &proposal)
	assert.Equal(t, "active", proposal.Status)
	assert.Equal(t, 1, proposal.VoterCount)
	assert.False(t, proposal.Critical)

	// Executing an active proposal is a conflict; unknown ids are 404.
	resp = postJSON(t, fmt.Sprintf("%s/api/proposals/%d/execute", ts.URL, created.ID), map[string]any{"account": "alice"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	resp.Body.Close()

	resp, err = http.Get(ts.URL + "/api/proposals/99")
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	// Cancellation by a stranger is forbidden, by the proposer allowed.
	cancelURL := fmt.Sprintf("%s/api/proposals/%d/cancel", ts.URL, created.ID)
	resp = postJSON(t, cancelURL, map[string]any{"account": "mallory"})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	resp = postJSON(t, cancelURL, map[string]any{"account": "alice"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
}

func TestParametersEndpoint(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/api/parameters")
	require.NoError(t, err)
	var params struct {
		DefaultQuorumBP    int64 `json:"default_quorum_bp"`
		DefaultThresholdBP int64 `json:"default_threshold_bp"`
	}
	decode(t, resp, &params)
	assert.EqualValues(t, 2000, params.DefaultQuorumBP)
	assert.EqualValues(t, 5001, params.DefaultThresholdBP)
}

func TestMetricsEndpoint(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
}
