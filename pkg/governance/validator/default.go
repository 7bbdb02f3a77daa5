package validator

import (
	"fmt"

	"github.com/OmeoneChain/omeonechain-sub000/pkg/governance"
)

// DefaultValidator implements the ProposalValidator interface with
// type-specific submission checks.
type DefaultValidator struct{}

// NewDefaultValidator creates a new default proposal validator
func NewDefaultValidator() *DefaultValidator {
	return &DefaultValidator{}
}

// ValidateProposal validates a proposal submission before it is stored.
func (v *DefaultValidator) ValidateProposal(proposal *governance.Proposal) error {
	// Basic validation
	if proposal.Title == "" {
		return fmt.Errorf("proposal title is required")
	}

	if proposal.Description == "" {
		return fmt.Errorf("proposal description is required")
	}

	if proposal.Proposer == "" {
		return fmt.Errorf("proposal proposer is required")
	}

	// Type-specific validation
	switch proposal.Type {
	case governance.ProposalTypeParameter:
		return v.validateParameterProposal(proposal)
	case governance.ProposalTypeUpgrade, governance.ProposalTypeTreasury:
		return v.validateCriticalProposal(proposal)
	case governance.ProposalTypeContentPolicy:
		return nil
	default:
		return fmt.Errorf("%w: %s", governance.ErrInvalidProposalType, proposal.Type)
	}
}

// validateParameterProposal validates parameter change proposals
func (v *DefaultValidator) validateParameterProposal(proposal *governance.Proposal) error {
	for _, change := range proposal.Changes {
		if change.Name == "" {
			return fmt.Errorf("parameter change name is required")
		}
	}
	return nil
}

// validateCriticalProposal validates upgrade and treasury proposals, which
// must reference the payload they intend to execute.
func (v *DefaultValidator) validateCriticalProposal(proposal *governance.Proposal) error {
	if proposal.PayloadHash == "" {
		return fmt.Errorf("%s proposal requires an execution payload hash", proposal.Type)
	}
	return nil
}
