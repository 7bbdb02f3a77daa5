package governance

import (
	"time"

	sdkmath "cosmossdk.io/math"

	"github.com/OmeoneChain/omeonechain-sub000/pkg/event"
)

// TokenSystem defines the ledger-asset operations the engine needs. Token
// issuance and pricing live behind this boundary.
type TokenSystem interface {
	Withdraw(account string, amount sdkmath.Int) error
	Deposit(account string, amount sdkmath.Int) error
	Balance(account string) (sdkmath.Int, error)
}

// Clock is the external time source. All waiting (voting windows, timelocks)
// is expressed as stored deadlines compared against Clock.Now.
type Clock interface {
	Now() time.Time
}

// SystemClock is the production Clock backed by the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// ReputationOracle exposes trust scores for proposal-creation gating. It is
// optional; deployments without one leave the gate disabled.
type ReputationOracle interface {
	TrustScore(account string) (int64, error)
}

// StakeStore defines methods for storing stakes
type StakeStore interface {
	SaveStake(stake *Stake) error
	GetStake(account string) (*Stake, error)
	ListStakes() ([]*Stake, error)
}

// ProposalStore defines methods for storing proposals and ballots
type ProposalStore interface {
	SaveProposal(proposal *Proposal) error
	GetProposal(id uint64) (*Proposal, error)
	ListProposals() ([]*Proposal, error)
	ListProposalsByStatus(status ProposalStatus) ([]*Proposal, error)
	SaveBallot(account string, id uint64, ballot *Ballot) error
	GetBallot(account string, id uint64) (*Ballot, error)
}

// ProposalExecutor defines methods for executing passed proposals
type ProposalExecutor interface {
	Execute(proposal *Proposal, params *Params) error
}

// ProposalValidator defines methods for validating proposal submissions
type ProposalValidator interface {
	ValidateProposal(proposal *Proposal) error
}

// EventSink receives the events emitted by governance operations.
type EventSink interface {
	Publish(eventType event.EventType, evt event.Event)
}
