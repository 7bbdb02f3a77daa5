package governance

import (
	"time"

	sdkmath "cosmossdk.io/math"

	"github.com/OmeoneChain/omeonechain-sub000/pkg/event"
)

const (
	EventTypeStaked            event.EventType = "governance.staked"
	EventTypeUnstaked          event.EventType = "governance.unstaked"
	EventTypeProposalCreated   event.EventType = "governance.proposal.created"
	EventTypeVoteCast          event.EventType = "governance.vote.cast"
	EventTypeProposalFinalized event.EventType = "governance.proposal.finalized"
	EventTypeProposalExecuted  event.EventType = "governance.proposal.executed"
	EventTypeProposalCanceled  event.EventType = "governance.proposal.canceled"
)

// StakedEvent is emitted when an account stakes tokens.
type StakedEvent struct {
	Account     string
	Handle      string
	Amount      sdkmath.Int
	Tier        Tier
	LockedUntil time.Time
}

// UnstakedEvent is emitted when an account unstakes tokens.
type UnstakedEvent struct {
	Account  string
	Amount   sdkmath.Int
	Returned sdkmath.Int
	Penalty  sdkmath.Int
	Early    bool
}

// ProposalCreatedEvent carries the thresholds computed at creation so
// observers do not need to re-derive the tier rules.
type ProposalCreatedEvent struct {
	ID            uint64
	Proposer      string
	Type          ProposalType
	Critical      bool
	ThresholdBP   int64
	QuorumBP      int64
	MinVoters     int
	VotingEnd     time.Time
	ExecutionTime time.Time
}

// VoteCastEvent carries both the raw and the capped voting power for
// auditability.
type VoteCastEvent struct {
	ProposalID  uint64
	Voter       string
	Support     bool
	RawPower    sdkmath.Int
	CappedPower sdkmath.Int
}

// ProposalFinalizedEvent is emitted when a proposal reaches a terminal
// voting outcome.
type ProposalFinalizedEvent struct {
	ID               uint64
	Status           ProposalStatus
	VotesFor         sdkmath.Int
	VotesAgainst     sdkmath.Int
	QuorumReached    bool
	ThresholdReached bool
	VoterCountMet    bool
}

// ProposalExecutedEvent is emitted when a passed proposal is executed.
type ProposalExecutedEvent struct {
	ID       uint64
	Executor string
}

// ProposalCanceledEvent is emitted when a proposal is canceled.
type ProposalCanceledEvent struct {
	ID     uint64
	Caller string
}
