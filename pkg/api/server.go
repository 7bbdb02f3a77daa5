package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	sdkmath "cosmossdk.io/math"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/OmeoneChain/omeonechain-sub000/pkg/governance"
)

// Server exposes the governance entry points over HTTP.
type Server struct {
	service *governance.Service
	logger  *zap.Logger
	router  *mux.Router
	server  *http.Server
}

// NewServer creates a new API server. The prometheus registry may be nil, in
// which case no /metrics endpoint is mounted.
func NewServer(service *governance.Service, logger *zap.Logger, addr string, promRegistry *prometheus.Registry) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		service: service,
		logger:  logger,
		router:  mux.NewRouter(),
	}
	s.setupRoutes(promRegistry)
	s.server = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// enableCORS enables CORS for all routes
func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// setupRoutes configures the HTTP routes
func (s *Server) setupRoutes(promRegistry *prometheus.Registry) {
	s.router.Use(enableCORS)

	s.router.HandleFunc("/api/stake", s.handleStake).Methods("POST")
	s.router.HandleFunc("/api/unstake", s.handleUnstake).Methods("POST")
	s.router.HandleFunc("/api/stakes/{account}", s.handleGetStake).Methods("GET")

	s.router.HandleFunc("/api/proposals", s.handleCreateProposal).Methods("POST")
	s.router.HandleFunc("/api/proposals", s.handleListProposals).Methods("GET")
	s.router.HandleFunc("/api/proposals/{id}", s.handleGetProposal).Methods("GET")
	s.router.HandleFunc("/api/proposals/{id}/votes", s.handleVote).Methods("POST")
	s.router.HandleFunc("/api/proposals/{id}/finalize", s.handleFinalize).Methods("POST")
	s.router.HandleFunc("/api/proposals/{id}/execute", s.handleExecute).Methods("POST")
	s.router.HandleFunc("/api/proposals/{id}/cancel", s.handleCancel).Methods("POST")

	s.router.HandleFunc("/api/registry", s.handleGetRegistry).Methods("GET")
	s.router.HandleFunc("/api/parameters", s.handleGetParameters).Methods("GET")

	if promRegistry != nil {
		s.router.Handle("/metrics", promhttp.HandlerFor(promRegistry, promhttp.HandlerOpts{}))
	}
}

// Router returns the underlying HTTP handler, mainly for tests.
func (s *Server) Router() http.Handler {
	return s.router
}

// Start begins serving requests and blocks until the server stops.
func (s *Server) Start() error {
	s.logger.Info("starting API server", zap.String("addr", s.server.Addr))
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("api server: %w", err)
	}
	return nil
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

type stakeRequest struct {
	Account    string `json:"account"`
	Amount     string `json:"amount"`
	Tier       string `json:"tier"`
	DurationMS int64  `json:"duration_ms"`
}

type stakeView struct {
	Handle      string      `json:"handle"`
	Account     string      `json:"account"`
	Amount      sdkmath.Int `json:"amount"`
	Tier        string      `json:"tier"`
	LockedUntil time.Time   `json:"locked_until"`
	Penalty     sdkmath.Int `json:"penalty"`
}

func newStakeView(stake *governance.Stake) stakeView {
	return stakeView{
		Handle:      stake.Handle,
		Account:     stake.Account,
		Amount:      stake.Amount,
		Tier:        stake.Tier.String(),
		LockedUntil: stake.LockedUntil,
		Penalty:     stake.Penalty,
	}
}

func (s *Server) handleStake(w http.ResponseWriter, r *http.Request) {
	var req stakeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}
	amount, ok := sdkmath.NewIntFromString(req.Amount)
	if !ok {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("invalid amount %q", req.Amount))
		return
	}
	tier, err := governance.ParseTier(req.Tier)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	stake, err := s.service.Stake(req.Account, amount, tier, time.Duration(req.DurationMS)*time.Millisecond)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, newStakeView(stake))
}

type unstakeRequest struct {
	Account string `json:"account"`
	Handle  string `json:"handle"`
	Amount  string `json:"amount"`
}

func (s *Server) handleUnstake(w http.ResponseWriter, r *http.Request) {
	var req unstakeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}
	amount, ok := sdkmath.NewIntFromString(req.Amount)
	if !ok {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("invalid amount %q", req.Amount))
		return
	}

	returned, err := s.service.Unstake(req.Account, req.Handle, amount)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"returned": returned})
}

func (s *Server) handleGetStake(w http.ResponseWriter, r *http.Request) {
	account := mux.Vars(r)["account"]
	stake, err := s.service.StakeInfo(account)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, newStakeView(stake))
}

type paramChangeRequest struct {
	Name  string `json:"name"`
	Value int64  `json:"value"`
}

type createProposalRequest struct {
	Account          string               `json:"account"`
	Type             string               `json:"type"`
	Title            string               `json:"title"`
	Description      string               `json:"description"`
	PayloadHash      string               `json:"payload_hash"`
	Changes          []paramChangeRequest `json:"changes"`
	VotingDurationMS int64                `json:"voting_duration_ms"`
}

type proposalView struct {
	ID            uint64                   `json:"id"`
	Proposer      string                   `json:"proposer"`
	Type          string                   `json:"type"`
	Title         string                   `json:"title"`
	Description   string                   `json:"description"`
	PayloadHash   string                   `json:"payload_hash,omitempty"`
	Changes       []governance.ParamChange `json:"changes,omitempty"`
	Status        string                   `json:"status"`
	VotesFor      sdkmath.Int              `json:"votes_for"`
	VotesAgainst  sdkmath.Int              `json:"votes_against"`
	VoterCount    int                      `json:"voter_count"`
	VotingStart   time.Time                `json:"voting_start"`
	VotingEnd     time.Time                `json:"voting_end"`
	ExecutionTime time.Time                `json:"execution_time"`
	ThresholdBP   int64                    `json:"threshold_bp"`
	QuorumBP      int64                    `json:"quorum_bp"`
	MinVoters     int                      `json:"min_voters"`
	Critical      bool                     `json:"critical"`
}

func newProposalView(p *governance.Proposal) proposalView {
	return proposalView{
		ID:            p.ID,
		Proposer:      p.Proposer,
		Type:          string(p.Type),
		Title:         p.Title,
		Description:   p.Description,
		PayloadHash:   p.PayloadHash,
		Changes:       p.Changes,
		Status:        p.Status.String(),
		VotesFor:      p.VotesFor,
		VotesAgainst:  p.VotesAgainst,
		VoterCount:    len(p.Voters),
		VotingStart:   p.VotingStart,
		VotingEnd:     p.VotingEnd,
		ExecutionTime: p.ExecutionTime,
		ThresholdBP:   p.ThresholdBP,
		QuorumBP:      p.QuorumBP,
		MinVoters:     p.MinVoters,
		Critical:      p.Critical,
	}
}

func (s *Server) handleCreateProposal(w http.ResponseWriter, r *http.Request) {
	var req createProposalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}
	changes := make([]governance.ParamChange, 0, len(req.Changes))
	for _, c := range req.Changes {
		changes = append(changes, governance.ParamChange{Name: c.Name, Value: c.Value})
	}

	id, err := s.service.CreateProposal(
		req.Account,
		governance.ProposalType(req.Type),
		req.Title,
		req.Description,
		req.PayloadHash,
		changes,
		time.Duration(req.VotingDurationMS)*time.Millisecond,
	)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, map[string]any{"id": id})
}

func (s *Server) handleListProposals(w http.ResponseWriter, r *http.Request) {
	proposals, err := s.service.ListProposals()
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	views := make([]proposalView, 0, len(proposals))
	for _, p := range proposals {
		views = append(views, newProposalView(p))
	}
	s.writeJSON(w, http.StatusOK, views)
}

func (s *Server) handleGetProposal(w http.ResponseWriter, r *http.Request) {
	id, err := parseProposalID(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	proposal, err := s.service.ProposalInfo(id)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, newProposalView(proposal))
}

type voteRequest struct {
	Account string `json:"account"`
	Support bool   `json:"support"`
}

func (s *Server) handleVote(w http.ResponseWriter, r *http.Request) {
	id, err := parseProposalID(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	var req voteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}

	if err := s.service.Vote(req.Account, id, req.Support); err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (s *Server) handleFinalize(w http.ResponseWriter, r *http.Request) {
	id, err := parseProposalID(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := s.service.Finalize(id); err != nil {
		s.writeServiceError(w, err)
		return
	}
	proposal, err := s.service.ProposalInfo(id)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, newProposalView(proposal))
}

type accountRequest struct {
	Account string `json:"account"`
}

func (s *Server) handleExecute(w http.ResponseWriter, r *http.Request) {
	id, err := parseProposalID(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	var req accountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}

	if err := s.service.Execute(req.Account, id); err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (s *Server) handleCancel(w http.ResponseWriter, r *http.Request) {
	id, err := parseProposalID(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	var req accountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}

	if err := s.service.Cancel(req.Account, id); err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (s *Server) handleGetRegistry(w http.ResponseWriter, r *http.Request) {
	info := s.service.RegistryInfo()
	s.writeJSON(w, http.StatusOK, map[string]any{
		"total_staked":       info.TotalStaked,
		"total_voting_power": info.TotalVotingPower,
		"active_stakers":     info.ActiveStakers,
		"next_proposal_id":   info.NextProposalID,
	})
}

func (s *Server) handleGetParameters(w http.ResponseWriter, r *http.Request) {
	params := s.service.Parameters()
	s.writeJSON(w, http.StatusOK, map[string]any{
		"platform_fee_bp":      params.PlatformFeeBP,
		"reward_cap":           params.RewardCap,
		"trust_weight_bp":      params.TrustWeightBP,
		"proposal_fee":         params.ProposalFee,
		"default_quorum_bp":    params.DefaultQuorumBP,
		"default_threshold_bp": params.DefaultThresholdBP,
	})
}

func parseProposalID(r *http.Request) (uint64, error) {
	raw := mux.Vars(r)["id"]
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid proposal id %q", raw)
	}
	return id, nil
}

// statusFromError maps governance errors onto HTTP status codes.
func statusFromError(err error) int {
	switch {
	case errors.Is(err, governance.ErrUnknownProposal):
		return http.StatusNotFound
	case errors.Is(err, governance.ErrNotAuthorized):
		return http.StatusForbidden
	case errors.Is(err, governance.ErrAlreadyVoted),
		errors.Is(err, governance.ErrProposalNotActive),
		errors.Is(err, governance.ErrInvalidProposalState),
		errors.Is(err, governance.ErrInvalidTimelock):
		return http.StatusConflict
	case errors.Is(err, governance.ErrInsufficientStake),
		errors.Is(err, governance.ErrInvalidProposalType):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeServiceError(w http.ResponseWriter, err error) {
	s.writeError(w, statusFromError(err), err)
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	s.logger.Debug("request failed", zap.Int("status", status), zap.Error(err))
	s.writeJSON(w, status, map[string]string{"error": err.Error()})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("failed to encode response", zap.Error(err))
	}
}
