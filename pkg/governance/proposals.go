package governance

import (
	"fmt"
	"time"

	sdkmath "cosmossdk.io/math"
	"go.uber.org/zap"
)

// CreateProposal mints a new proposal. The proposer must hold a live stake at
// Curator tier or higher. The voting period, timelock, approval threshold,
// quorum requirement and minimum voter count are looked up for the proposal
// type and stored immutably on the proposal. The requested voting duration is
// honored only when it exceeds the type's standard period.
func (s *Service) CreateProposal(
	proposer string,
	proposalType ProposalType,
	title string,
	description string,
	payloadHash string,
	changes []ParamChange,
	requestedVotingDuration time.Duration,
) (uint64, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if !proposalType.Valid() {
		return 0, fmt.Errorf("%w: %q", ErrInvalidProposalType, proposalType)
	}

	stake, err := s.stakes.GetStake(proposer)
	if err != nil {
		return 0, fmt.Errorf("failed to get stake: %w", err)
	}
	if stake == nil || !stake.Amount.IsPositive() {
		return 0, fmt.Errorf("%w: account %s has no active stake", ErrInsufficientStake, proposer)
	}
	if stake.Account != proposer {
		return 0, fmt.Errorf("%w: stake does not belong to %s", ErrNotAuthorized, proposer)
	}
	if stake.Tier < TierCurator {
		return 0, fmt.Errorf("%w: proposal creation requires %s tier or higher", ErrInsufficientStake, TierCurator)
	}

	if s.config.MinTrustScore > 0 && s.config.Oracle != nil {
		score, err := s.config.Oracle.TrustScore(proposer)
		if err != nil {
			return 0, fmt.Errorf("failed to get trust score: %w", err)
		}
		if score < s.config.MinTrustScore {
			return 0, fmt.Errorf("%w: trust score %d below required %d", ErrNotAuthorized, score, s.config.MinTrustScore)
		}
	}

	rules := rulesFor(proposalType, s.params)
	votingPeriod := rules.VotingPeriod
	if requestedVotingDuration > votingPeriod {
		votingPeriod = requestedVotingDuration
	}

	now := s.clock.Now()
	votingEnd := now.Add(votingPeriod)

	proposal := &Proposal{
		ID:            s.registry.NextProposalID,
		Proposer:      proposer,
		Type:          proposalType,
		Title:         title,
		Description:   description,
		PayloadHash:   payloadHash,
		Changes:       changes,
		Status:        ProposalStatusActive,
		VotesFor:      sdkmath.ZeroInt(),
		VotesAgainst:  sdkmath.ZeroInt(),
		Voters:        make(map[string]struct{}),
		VotingStart:   now,
		VotingEnd:     votingEnd,
		ExecutionTime: votingEnd.Add(rules.Timelock),
		ThresholdBP:   rules.ThresholdBP,
		QuorumBP:      rules.QuorumBP,
		MinVoters:     rules.MinVoters,
		Critical:      proposalType.Critical(),
	}

	if s.validator != nil {
		if err := s.validator.ValidateProposal(proposal); err != nil {
			return 0, fmt.Errorf("invalid proposal: %w", err)
		}
	}

	feePaid := sdkmath.ZeroInt()
	if s.params.ProposalFee.IsPositive() {
		if err := s.tokens.Withdraw(proposer, s.params.ProposalFee); err != nil {
			return 0, fmt.Errorf("failed to pay proposal fee: %w", err)
		}
		feePaid = s.params.ProposalFee
	}

	if err := s.proposals.SaveProposal(proposal); err != nil {
		if feePaid.IsPositive() {
			if derr := s.tokens.Deposit(proposer, feePaid); derr != nil {
				s.logger.Error("failed to refund proposal fee",
					zap.String("account", proposer), zap.Error(derr))
			}
		}
		return 0, fmt.Errorf("failed to save proposal: %w", err)
	}
	s.registry.NextProposalID++

	s.logger.Info("proposal created",
		zap.Uint64("id", proposal.ID),
		zap.String("proposer", proposer),
		zap.String("type", string(proposalType)),
		zap.Bool("critical", proposal.Critical),
		zap.Time("voting_end", proposal.VotingEnd),
	)
	s.publish(EventTypeProposalCreated, ProposalCreatedEvent{
		ID:            proposal.ID,
		Proposer:      proposer,
		Type:          proposalType,
		Critical:      proposal.Critical,
		ThresholdBP:   proposal.ThresholdBP,
		QuorumBP:      proposal.QuorumBP,
		MinVoters:     proposal.MinVoters,
		VotingEnd:     proposal.VotingEnd,
		ExecutionTime: proposal.ExecutionTime,
	})

	return proposal.ID, nil
}

// Cancel cancels an active proposal. Only the proposer or an administrator
// may cancel, and only before the proposal has been finalized. No tokens move.
func (s *Service) Cancel(caller string, id uint64) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	proposal, err := s.proposals.GetProposal(id)
	if err != nil {
		return fmt.Errorf("failed to get proposal: %w", err)
	}
	if proposal == nil {
		return fmt.Errorf("%w: id %d", ErrUnknownProposal, id)
	}
	if caller != proposal.Proposer && !s.IsAdmin(caller) {
		return fmt.Errorf("%w: only the proposer or an admin can cancel proposal %d", ErrNotAuthorized, id)
	}

	// A proposal whose window has closed finalizes lazily before the state
	// check, so cancellation cannot race past a decided outcome.
	if err := s.finalizeLocked(proposal); err != nil {
		return err
	}
	if proposal.Status != ProposalStatusActive {
		return fmt.Errorf("%w: proposal %d is %s", ErrInvalidProposalState, id, proposal.Status)
	}

	proposal.Status = ProposalStatusCanceled
	if err := s.proposals.SaveProposal(proposal); err != nil {
		return fmt.Errorf("failed to save proposal: %w", err)
	}

	s.logger.Info("proposal canceled",
		zap.Uint64("id", id),
		zap.String("caller", caller),
	)
	s.publish(EventTypeProposalCanceled, ProposalCanceledEvent{ID: id, Caller: caller})
	return nil
}
