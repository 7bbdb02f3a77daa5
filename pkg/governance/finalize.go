package governance

import (
	"fmt"

	sdkmath "cosmossdk.io/math"
	"go.uber.org/zap"
)

// Finalize evaluates a proposal's voting outcome. It is independently
// callable and idempotent: it does nothing unless the proposal is Active and
// its voting window has closed, and once a terminal state is set further
// calls have no effect. Quorum and threshold misses are normal outcomes
// recorded as Failed, not errors.
func (s *Service) Finalize(id uint64) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	proposal, err := s.proposals.GetProposal(id)
	if err != nil {
		return fmt.Errorf("failed to get proposal: %w", err)
	}
	if proposal == nil {
		return fmt.Errorf("%w: id %d", ErrUnknownProposal, id)
	}
	return s.finalizeLocked(proposal)
}

// finalizeLocked runs the quorum/approval evaluation on a loaded proposal.
// Callers must hold s.mutex and are responsible for having loaded the
// proposal from the store; the decided state is saved here.
func (s *Service) finalizeLocked(proposal *Proposal) error {
	if proposal.Status != ProposalStatusActive || !s.clock.Now().After(proposal.VotingEnd) {
		return nil
	}

	totalVotes := proposal.VotesFor.Add(proposal.VotesAgainst)
	quorumTarget := s.registry.TotalVotingPower.MulRaw(proposal.QuorumBP).QuoRaw(bpDenom)
	quorumReached := totalVotes.GTE(quorumTarget)
	voterCountMet := len(proposal.Voters) >= proposal.MinVoters
	thresholdReached := false
	if totalVotes.IsPositive() {
		approvalBP := proposal.VotesFor.MulRaw(bpDenom).Quo(totalVotes)
		thresholdReached = approvalBP.GTE(sdkmath.NewInt(proposal.ThresholdBP))
	}

	if quorumReached && voterCountMet && thresholdReached {
		proposal.Status = ProposalStatusPassed
	} else {
		proposal.Status = ProposalStatusFailed
	}

	if err := s.proposals.SaveProposal(proposal); err != nil {
		return fmt.Errorf("failed to save proposal: %w", err)
	}

	s.logger.Info("proposal finalized",
		zap.Uint64("id", proposal.ID),
		zap.String("status", proposal.Status.String()),
		zap.String("votes_for", proposal.VotesFor.String()),
		zap.String("votes_against", proposal.VotesAgainst.String()),
		zap.Bool("quorum_reached", quorumReached),
		zap.Bool("threshold_reached", thresholdReached),
		zap.Bool("voter_count_met", voterCountMet),
	)
	s.publish(EventTypeProposalFinalized, ProposalFinalizedEvent{
		ID:               proposal.ID,
		Status:           proposal.Status,
		VotesFor:         proposal.VotesFor,
		VotesAgainst:     proposal.VotesAgainst,
		QuorumReached:    quorumReached,
		ThresholdReached: thresholdReached,
		VoterCountMet:    voterCountMet,
	})
	return nil
}

// Execute applies a passed proposal after its timelock has elapsed. A
// proposal whose window closed without finalization is finalized lazily
// first. Execution is all-or-nothing: if the execution strategy rejects the
// proposal, the state stays Passed.
func (s *Service) Execute(executor string, id uint64) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	proposal, err := s.proposals.GetProposal(id)
	if err != nil {
		return fmt.Errorf("failed to get proposal: %w", err)
	}
	if proposal == nil {
		return fmt.Errorf("%w: id %d", ErrUnknownProposal, id)
	}
	if err := s.finalizeLocked(proposal); err != nil {
		return err
	}
	if proposal.Status != ProposalStatusPassed {
		return fmt.Errorf("%w: proposal %d is %s", ErrInvalidProposalState, id, proposal.Status)
	}
	if s.clock.Now().Before(proposal.ExecutionTime) {
		return fmt.Errorf("%w: proposal %d executable at %s", ErrInvalidTimelock, id, proposal.ExecutionTime)
	}

	if err := s.executor.Execute(proposal, s.params); err != nil {
		return fmt.Errorf("%w: proposal %d: %w", ErrProposalExecutionFailed, id, err)
	}

	proposal.Status = ProposalStatusExecuted
	if err := s.proposals.SaveProposal(proposal); err != nil {
		return fmt.Errorf("failed to save proposal: %w", err)
	}

	s.logger.Info("proposal executed",
		zap.Uint64("id", id),
		zap.String("executor", executor),
	)
	s.publish(EventTypeProposalExecuted, ProposalExecutedEvent{ID: id, Executor: executor})
	return nil
}
