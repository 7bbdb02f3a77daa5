package governance

import (
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/OmeoneChain/omeonechain-sub000/pkg/event"
)

// Config represents the governance service configuration
type Config struct {
	// Admins may cancel any active proposal.
	Admins []string
	// MinTrustScore gates proposal creation through the reputation oracle.
	// Zero disables the gate.
	MinTrustScore int64
	// Oracle is consulted when MinTrustScore is set. Optional.
	Oracle ReputationOracle
}

// Service is the governance engine: stake ledger, proposal registry, voting
// engine and finalization/execution in one state machine. Every mutating
// operation is atomic — a failed precondition leaves no partial effect.
type Service struct {
	tokens    TokenSystem
	stakes    StakeStore
	proposals ProposalStore
	executor  ProposalExecutor
	validator ProposalValidator
	clock     Clock
	events    EventSink
	logger    *zap.Logger

	config   *Config
	params   *Params
	registry *Registry
	admins   map[string]struct{}

	mutex sync.RWMutex
}

// NewService creates a new governance service
func NewService(
	tokens TokenSystem,
	stakes StakeStore,
	proposals ProposalStore,
	executor ProposalExecutor,
	validator ProposalValidator,
	clock Clock,
	events EventSink,
	logger *zap.Logger,
	config *Config,
) *Service {
	if clock == nil {
		clock = SystemClock{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if config == nil {
		config = &Config{}
	}
	admins := make(map[string]struct{}, len(config.Admins))
	for _, a := range config.Admins {
		admins[a] = struct{}{}
	}
	return &Service{
		tokens:    tokens,
		stakes:    stakes,
		proposals: proposals,
		executor:  executor,
		validator: validator,
		clock:     clock,
		events:    events,
		logger:    logger,
		config:    config,
		params:    DefaultParams(),
		registry:  NewRegistry(),
		admins:    admins,
	}
}

// IsAdmin checks if an account is a governance administrator.
func (s *Service) IsAdmin(account string) bool {
	_, ok := s.admins[account]
	return ok
}

// StakeInfo returns a copy of an account's stake record.
func (s *Service) StakeInfo(account string) (*Stake, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	stake, err := s.stakes.GetStake(account)
	if err != nil {
		return nil, fmt.Errorf("failed to get stake: %w", err)
	}
	if stake == nil {
		return nil, fmt.Errorf("%w: account %s has no stake", ErrInsufficientStake, account)
	}
	return stake, nil
}

// ProposalInfo returns a copy of a proposal by id.
func (s *Service) ProposalInfo(id uint64) (*Proposal, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	proposal, err := s.proposals.GetProposal(id)
	if err != nil {
		return nil, fmt.Errorf("failed to get proposal: %w", err)
	}
	if proposal == nil {
		return nil, fmt.Errorf("%w: id %d", ErrUnknownProposal, id)
	}
	return proposal, nil
}

// ListProposals returns all proposals
func (s *Service) ListProposals() ([]*Proposal, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.proposals.ListProposals()
}

// ListProposalsByStatus returns proposals with the specified status
func (s *Service) ListProposalsByStatus(status ProposalStatus) ([]*Proposal, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.proposals.ListProposalsByStatus(status)
}

// RegistryInfo returns a snapshot of the registry totals.
func (s *Service) RegistryInfo() RegistrySnapshot {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	return RegistrySnapshot{
		TotalStaked:      s.registry.TotalStaked,
		TotalVotingPower: s.registry.TotalVotingPower,
		ActiveStakers:    len(s.registry.ActiveAccounts),
		NextProposalID:   s.registry.NextProposalID,
	}
}

// Parameters returns a copy of the current governance parameters.
func (s *Service) Parameters() Params {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return *s.params
}

func (s *Service) publish(eventType event.EventType, data any) {
	if s.events == nil {
		return
	}
	s.events.Publish(eventType, event.NewEvent(eventType, data))
}
