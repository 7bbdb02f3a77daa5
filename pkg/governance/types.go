package governance

import (
	"fmt"
	"time"

	sdkmath "cosmossdk.io/math"
)

// Tier classifies a stake and determines its minimum amount, minimum lock
// duration and voting-power weight.
type Tier int

const (
	TierExplorer Tier = iota
	TierCurator
	TierValidator
)

func (t Tier) String() string {
	switch t {
	case TierExplorer:
		return "explorer"
	case TierCurator:
		return "curator"
	case TierValidator:
		return "validator"
	default:
		return fmt.Sprintf("tier(%d)", int(t))
	}
}

// ParseTier parses a tier name as used on the wire.
func ParseTier(s string) (Tier, error) {
	switch s {
	case "explorer":
		return TierExplorer, nil
	case "curator":
		return TierCurator, nil
	case "validator":
		return TierValidator, nil
	default:
		return 0, fmt.Errorf("unknown tier %q", s)
	}
}

// bpDenom is the denominator for all basis-point figures (weights, caps,
// quorums and thresholds).
const bpDenom = 10_000

// voteCapBP caps a single vote at 3% of the registry's total voting power.
const voteCapBP = 300

// earlyUnstakePenaltyBP is withheld from any unstake before the lock expires.
const earlyUnstakePenaltyBP = 500

// TierRequirements holds the staking rules for one tier.
type TierRequirements struct {
	MinAmount sdkmath.Int
	MinLock   time.Duration
	WeightBP  int64
}

var tierRequirements = map[Tier]TierRequirements{
	TierExplorer:  {MinAmount: sdkmath.NewInt(10), MinLock: 7 * 24 * time.Hour, WeightBP: 10_000},
	TierCurator:   {MinAmount: sdkmath.NewInt(100), MinLock: 30 * 24 * time.Hour, WeightBP: 10_000},
	TierValidator: {MinAmount: sdkmath.NewInt(1_000), MinLock: 90 * 24 * time.Hour, WeightBP: 15_000},
}

// RequirementsFor returns the staking rules for a tier.
func RequirementsFor(tier Tier) (TierRequirements, bool) {
	req, ok := tierRequirements[tier]
	return req, ok
}

// votingPower returns the tier-weighted voting power of a stake amount.
func votingPower(amount sdkmath.Int, tier Tier) sdkmath.Int {
	return amount.MulRaw(tierRequirements[tier].WeightBP).QuoRaw(bpDenom)
}

// Stake is one account's tiered, time-locked stake. The record persists even
// when its amount has been reduced to zero; the penalty balance is additive
// across early unstakes and is never auto-returned.
type Stake struct {
	Handle      string
	Account     string
	Amount      sdkmath.Int
	Tier        Tier
	LockedUntil time.Time
	Penalty     sdkmath.Int
}

// ProposalType represents the type of a proposal
type ProposalType string

const (
	ProposalTypeParameter     ProposalType = "parameter"
	ProposalTypeUpgrade       ProposalType = "upgrade"
	ProposalTypeTreasury      ProposalType = "treasury"
	ProposalTypeContentPolicy ProposalType = "content_policy"
)

// Valid reports whether t is one of the known proposal types.
func (t ProposalType) Valid() bool {
	switch t {
	case ProposalTypeParameter, ProposalTypeUpgrade, ProposalTypeTreasury, ProposalTypeContentPolicy:
		return true
	default:
		return false
	}
}

// Critical reports whether proposals of this type are subject to the stricter
// voting period, timelock, quorum, threshold and voter-count rules.
func (t ProposalType) Critical() bool {
	return t == ProposalTypeUpgrade || t == ProposalTypeTreasury
}

// ProposalStatus represents the status of a proposal
type ProposalStatus int

const (
	ProposalStatusActive ProposalStatus = iota
	ProposalStatusPassed
	ProposalStatusFailed
	ProposalStatusExecuted
	ProposalStatusCanceled
)

func (s ProposalStatus) String() string {
	switch s {
	case ProposalStatusActive:
		return "active"
	case ProposalStatusPassed:
		return "passed"
	case ProposalStatusFailed:
		return "failed"
	case ProposalStatusExecuted:
		return "executed"
	case ProposalStatusCanceled:
		return "canceled"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// ParamChange is one requested governance-parameter update carried by a
// Parameter-type proposal.
type ParamChange struct {
	Name  string
	Value int64
}

// Proposal represents a governance proposal. The approval threshold, quorum
// requirement and minimum voter count are captured at creation time and never
// change afterwards, even if the global defaults do.
type Proposal struct {
	ID           uint64
	Proposer     string
	Type         ProposalType
	Title        string
	Description  string
	PayloadHash  string
	Changes      []ParamChange
	Status       ProposalStatus
	VotesFor     sdkmath.Int
	VotesAgainst sdkmath.Int
	Voters       map[string]struct{}

	VotingStart   time.Time
	VotingEnd     time.Time
	ExecutionTime time.Time

	ThresholdBP int64
	QuorumBP    int64
	MinVoters   int
	Critical    bool
}

// Ballot records a single cast vote: the direction and the capped voting
// power actually applied to the tally. Ballots are immutable once cast.
type Ballot struct {
	Support bool
	Power   sdkmath.Int
}

// Registry holds the process-wide governance totals. The running totals are
// maintained incrementally by every stake/unstake so the voting-power cap
// check stays O(1).
type Registry struct {
	NextProposalID   uint64
	TotalStaked      sdkmath.Int
	TotalVotingPower sdkmath.Int
	ActiveAccounts   map[string]struct{}
}

// NewRegistry returns an empty registry with the proposal counter at 1.
func NewRegistry() *Registry {
	return &Registry{
		NextProposalID:   1,
		TotalStaked:      sdkmath.ZeroInt(),
		TotalVotingPower: sdkmath.ZeroInt(),
		ActiveAccounts:   make(map[string]struct{}),
	}
}

// RegistrySnapshot is a read-only copy of the registry totals.
type RegistrySnapshot struct {
	TotalStaked      sdkmath.Int
	TotalVotingPower sdkmath.Int
	ActiveStakers    int
	NextProposalID   uint64
}

// Params is the shared record of protocol-tunable values. It is mutated only
// by executing a passed Parameter-type proposal.
type Params struct {
	PlatformFeeBP      int64
	RewardCap          sdkmath.Int
	TrustWeightBP      int64
	ProposalFee        sdkmath.Int
	DefaultQuorumBP    int64
	DefaultThresholdBP int64
}

// DefaultParams returns the default governance parameters.
func DefaultParams() *Params {
	return &Params{
		PlatformFeeBP:      250,
		RewardCap:          sdkmath.NewInt(1_000),
		TrustWeightBP:      2_500,
		ProposalFee:        sdkmath.ZeroInt(),
		DefaultQuorumBP:    2_000,
		DefaultThresholdBP: 5_001,
	}
}

// ProposalRules are the voting rules fixed onto a proposal at creation time.
type ProposalRules struct {
	VotingPeriod time.Duration
	Timelock     time.Duration
	ThresholdBP  int64
	QuorumBP     int64
	MinVoters    int
}

// criticalRules apply to Upgrade and Treasury proposals and are not tunable
// through governance.
var criticalRules = ProposalRules{
	VotingPeriod: 14 * 24 * time.Hour,
	Timelock:     14 * 24 * time.Hour,
	ThresholdBP:  7_000,
	QuorumBP:     3_000,
	MinVoters:    1_000,
}

// rulesFor returns the voting rules for a proposal type. Standard proposals
// take their quorum and threshold from the current governance parameters;
// critical proposals use the fixed table.
func rulesFor(t ProposalType, params *Params) ProposalRules {
	if t.Critical() {
		return criticalRules
	}
	return ProposalRules{
		VotingPeriod: 7 * 24 * time.Hour,
		Timelock:     2 * 24 * time.Hour,
		ThresholdBP:  params.DefaultThresholdBP,
		QuorumBP:     params.DefaultQuorumBP,
		MinVoters:    10,
	}
}
