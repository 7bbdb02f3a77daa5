package store

import (
	"sync"

	"github.com/OmeoneChain/omeonechain-sub000/pkg/governance"
)

// MemoryStore is an in-memory implementation of StakeStore and ProposalStore.
// All reads return copies so callers cannot mutate stored state without going
// back through a save.
type MemoryStore struct {
	proposals map[uint64]*governance.Proposal
	stakes    map[string]*governance.Stake
	ballots   map[string]map[uint64]*governance.Ballot
	mutex     sync.RWMutex
}

// NewMemoryStore creates a new memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		proposals: make(map[uint64]*governance.Proposal),
		stakes:    make(map[string]*governance.Stake),
		ballots:   make(map[string]map[uint64]*governance.Ballot),
	}
}

func copyProposal(proposal *governance.Proposal) *governance.Proposal {
	cp := *proposal
	cp.Voters = make(map[string]struct{}, len(proposal.Voters))
	for k := range proposal.Voters {
		cp.Voters[k] = struct{}{}
	}
	cp.Changes = make([]governance.ParamChange, len(proposal.Changes))
	copy(cp.Changes, proposal.Changes)
	return &cp
}

// SaveProposal saves a proposal to the store
func (s *MemoryStore) SaveProposal(proposal *governance.Proposal) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.proposals[proposal.ID] = copyProposal(proposal)
	return nil
}

// GetProposal retrieves a proposal by ID. Returns nil when not found.
func (s *MemoryStore) GetProposal(id uint64) (*governance.Proposal, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	if proposal, exists := s.proposals[id]; exists {
		return copyProposal(proposal), nil
	}
	return nil, nil
}

// ListProposals lists all proposals
func (s *MemoryStore) ListProposals() ([]*governance.Proposal, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	proposals := make([]*governance.Proposal, 0, len(s.proposals))
	for _, proposal := range s.proposals {
		proposals = append(proposals, copyProposal(proposal))
	}
	return proposals, nil
}

// ListProposalsByStatus lists proposals by status
func (s *MemoryStore) ListProposalsByStatus(status governance.ProposalStatus) ([]*governance.Proposal, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	proposals := make([]*governance.Proposal, 0)
	for _, proposal := range s.proposals {
		if proposal.Status == status {
			proposals = append(proposals, copyProposal(proposal))
		}
	}
	return proposals, nil
}

// SaveStake saves a stake record
func (s *MemoryStore) SaveStake(stake *governance.Stake) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	cp := *stake
	s.stakes[stake.Account] = &cp
	return nil
}

// GetStake retrieves an account's stake record. Returns nil when not found.
func (s *MemoryStore) GetStake(account string) (*governance.Stake, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	if stake, exists := s.stakes[account]; exists {
		cp := *stake
		return &cp, nil
	}
	return nil, nil
}

// ListStakes lists all stake records
func (s *MemoryStore) ListStakes() ([]*governance.Stake, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	stakes := make([]*governance.Stake, 0, len(s.stakes))
	for _, stake := range s.stakes {
		cp := *stake
		stakes = append(stakes, &cp)
	}
	return stakes, nil
}

// SaveBallot records an account's vote on a proposal
func (s *MemoryStore) SaveBallot(account string, id uint64, ballot *governance.Ballot) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if _, exists := s.ballots[account]; !exists {
		s.ballots[account] = make(map[uint64]*governance.Ballot)
	}
	cp := *ballot
	s.ballots[account][id] = &cp
	return nil
}

// GetBallot retrieves an account's vote on a proposal. Returns nil when the
// account has not voted.
func (s *MemoryStore) GetBallot(account string, id uint64) (*governance.Ballot, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	if ballot, exists := s.ballots[account][id]; exists {
		cp := *ballot
		return &cp, nil
	}
	return nil, nil
}
