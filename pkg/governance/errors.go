package governance

import "errors"

var (
	// ErrNotAuthorized indicates the caller may not perform the action
	ErrNotAuthorized = errors.New("not authorized")

	// ErrInsufficientStake indicates a stake amount, tier or lock duration below requirement
	ErrInsufficientStake = errors.New("insufficient stake")

	// ErrAlreadyVoted indicates the account already voted on the proposal
	ErrAlreadyVoted = errors.New("already voted")

	// ErrProposalNotActive indicates the proposal is not open for voting
	ErrProposalNotActive = errors.New("proposal is not active")

	// ErrInvalidProposalState indicates the proposal is in the wrong state for the transition
	ErrInvalidProposalState = errors.New("invalid proposal state")

	// ErrUnknownProposal indicates the proposal id does not exist
	ErrUnknownProposal = errors.New("unknown proposal")

	// ErrInvalidTimelock indicates execution was attempted before the timelock elapsed
	ErrInvalidTimelock = errors.New("timelock has not elapsed")

	// ErrInvalidProposalType indicates an invalid proposal type
	ErrInvalidProposalType = errors.New("invalid proposal type")

	// ErrUnsupportedProposalType indicates a proposal type with no execution effect
	ErrUnsupportedProposalType = errors.New("unsupported proposal type")

	// ErrUnknownParameter indicates a parameter change naming no known parameter
	ErrUnknownParameter = errors.New("unknown governance parameter")

	// ErrProposalExecutionFailed indicates the execution strategy rejected the proposal
	ErrProposalExecutionFailed = errors.New("proposal execution failed")
)
