package governance

import (
	"fmt"

	sdkmath "cosmossdk.io/math"
	"go.uber.org/zap"
)

// Vote casts a single immutable vote on an active proposal. The voter's raw
// power is their tier-weighted stake; the power applied to the tally is
// capped at 3% of the registry's total voting power at the moment of the
// vote, so the cap tracks the live network size. Voting also triggers a lazy
// finalization check as a convenience.
func (s *Service) Vote(voter string, id uint64, support bool) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	proposal, err := s.proposals.GetProposal(id)
	if err != nil {
		return fmt.Errorf("failed to get proposal: %w", err)
	}
	if proposal == nil {
		return fmt.Errorf("%w: id %d", ErrUnknownProposal, id)
	}
	if proposal.Status != ProposalStatusActive {
		return fmt.Errorf("%w: proposal %d is %s", ErrProposalNotActive, id, proposal.Status)
	}
	if s.clock.Now().After(proposal.VotingEnd) {
		return fmt.Errorf("%w: voting on proposal %d closed at %s", ErrProposalNotActive, id, proposal.VotingEnd)
	}

	stake, err := s.stakes.GetStake(voter)
	if err != nil {
		return fmt.Errorf("failed to get stake: %w", err)
	}
	if stake == nil || !stake.Amount.IsPositive() {
		return fmt.Errorf("%w: account %s has no active stake", ErrInsufficientStake, voter)
	}

	ballot, err := s.proposals.GetBallot(voter, id)
	if err != nil {
		return fmt.Errorf("failed to get ballot: %w", err)
	}
	if ballot != nil {
		return fmt.Errorf("%w: account %s already voted on proposal %d", ErrAlreadyVoted, voter, id)
	}

	rawPower := votingPower(stake.Amount, stake.Tier)
	powerCap := s.registry.TotalVotingPower.MulRaw(voteCapBP).QuoRaw(bpDenom)
	cappedPower := sdkmath.MinInt(rawPower, powerCap)

	if support {
		proposal.VotesFor = proposal.VotesFor.Add(cappedPower)
	} else {
		proposal.VotesAgainst = proposal.VotesAgainst.Add(cappedPower)
	}
	proposal.Voters[voter] = struct{}{}

	if err := s.proposals.SaveBallot(voter, id, &Ballot{Support: support, Power: cappedPower}); err != nil {
		return fmt.Errorf("failed to save ballot: %w", err)
	}
	if err := s.proposals.SaveProposal(proposal); err != nil {
		return fmt.Errorf("failed to save proposal: %w", err)
	}

	s.logger.Info("vote cast",
		zap.Uint64("proposal", id),
		zap.String("voter", voter),
		zap.Bool("support", support),
		zap.String("raw_power", rawPower.String()),
		zap.String("capped_power", cappedPower.String()),
	)
	s.publish(EventTypeVoteCast, VoteCastEvent{
		ProposalID:  id,
		Voter:       voter,
		Support:     support,
		RawPower:    rawPower,
		CappedPower: cappedPower,
	})

	// Convenience trigger; a no-op while the voting window is still open.
	return s.finalizeLocked(proposal)
}

// Ballot returns the recorded vote of an account on a proposal, or nil if the
// account has not voted.
func (s *Service) Ballot(voter string, id uint64) (*Ballot, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.proposals.GetBallot(voter, id)
}
