package executor

import (
	"errors"
	"fmt"

	sdkmath "cosmossdk.io/math"
	"go.uber.org/zap"

	"github.com/OmeoneChain/omeonechain-sub000/pkg/governance"
)

// Executor implements the ProposalExecutor interface with an explicit
// strategy per proposal type. Only Parameter proposals have an execution
// effect; the remaining types are a deliberate Unsupported result.
type Executor struct {
	logger *zap.Logger
}

// New creates a new executor
func New(logger *zap.Logger) *Executor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Executor{logger: logger}
}

// Execute applies a passed proposal to the governance parameters.
func (e *Executor) Execute(proposal *governance.Proposal, params *governance.Params) error {
	if proposal == nil {
		return errors.New("proposal is nil")
	}

	switch proposal.Type {
	case governance.ProposalTypeParameter:
		return e.executeParamChanges(proposal, params)
	case governance.ProposalTypeUpgrade,
		governance.ProposalTypeTreasury,
		governance.ProposalTypeContentPolicy:
		return fmt.Errorf("%w: %s", governance.ErrUnsupportedProposalType, proposal.Type)
	default:
		return fmt.Errorf("%w: %s", governance.ErrInvalidProposalType, proposal.Type)
	}
}

// executeParamChanges applies every change or none: all names and values are
// validated before the first write so a bad entry cannot leave the parameter
// record half-updated.
func (e *Executor) executeParamChanges(proposal *governance.Proposal, params *governance.Params) error {
	for _, change := range proposal.Changes {
		if err := validateChange(change); err != nil {
			return err
		}
	}
	for _, change := range proposal.Changes {
		applyChange(change, params)
		e.logger.Info("governance parameter changed",
			zap.Uint64("proposal", proposal.ID),
			zap.String("name", change.Name),
			zap.Int64("value", change.Value),
		)
	}
	return nil
}

func validateChange(change governance.ParamChange) error {
	switch change.Name {
	case "platform_fee_bp", "trust_weight_bp", "default_quorum_bp", "default_threshold_bp":
		if change.Value < 0 || change.Value > 10_000 {
			return fmt.Errorf("parameter %s: value %d out of range [0, 10000]", change.Name, change.Value)
		}
	case "reward_cap", "proposal_fee":
		if change.Value < 0 {
			return fmt.Errorf("parameter %s: value %d must not be negative", change.Name, change.Value)
		}
	default:
		return fmt.Errorf("%w: %q", governance.ErrUnknownParameter, change.Name)
	}
	return nil
}

func applyChange(change governance.ParamChange, params *governance.Params) {
	switch change.Name {
	case "platform_fee_bp":
		params.PlatformFeeBP = change.Value
	case "reward_cap":
		params.RewardCap = sdkmath.NewInt(change.Value)
	case "trust_weight_bp":
		params.TrustWeightBP = change.Value
	case "proposal_fee":
		params.ProposalFee = sdkmath.NewInt(change.Value)
	case "default_quorum_bp":
		params.DefaultQuorumBP = change.Value
	case "default_threshold_bp":
		params.DefaultThresholdBP = change.Value
	}
}
