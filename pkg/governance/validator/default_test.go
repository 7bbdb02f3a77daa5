package validator_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/OmeoneChain/omeonechain-sub000/pkg/governance"
	"github.com/OmeoneChain/omeonechain-sub000/pkg/governance/validator"
)

func baseProposal(proposalType governance.ProposalType) *governance.Proposal {
	return &governance.Proposal{
		ID:          1,
		Proposer:    "alice",
		Type:        proposalType,
		Title:       "a title",
		Description: "a description",
	}
}

func TestValidateProposal(t *testing.T) {
	v := validator.NewDefaultValidator()

	t.Run("valid parameter proposal", func(t *testing.T) {
		p := baseProposal(governance.ProposalTypeParameter)
		p.Changes = []governance.ParamChange{{Name: "platform_fee_bp", Value: 100}}
		assert.NoError(t, v.ValidateProposal(p))
	})

	t.Run("missing title", func(t *testing.T) {
		p := baseProposal(governance.ProposalTypeParameter)
		p.Title = ""
		assert.Error(t, v.ValidateProposal(p))
	})

	t.Run("missing description", func(t *testing.T) {
		p := baseProposal(governance.ProposalTypeParameter)
		p.Description = ""
		assert.Error(t, v.ValidateProposal(p))
	})

	t.Run("empty change name", func(t *testing.T) {
		p := baseProposal(governance.ProposalTypeParameter)
		p.Changes = []governance.ParamChange{{Name: "", Value: 1}}
		assert.Error(t, v.ValidateProposal(p))
	})

	t.Run("upgrade requires payload hash", func(t *testing.T) {
		p := baseProposal(governance.ProposalTypeUpgrade)
		assert.Error(t, v.ValidateProposal(p))
		p.PayloadHash = "deadbeef"
		assert.NoError(t, v.ValidateProposal(p))
	})

	t.Run("treasury requires payload hash", func(t *testing.T) {
		p := baseProposal(governance.ProposalTypeTreasury)
		assert.Error(t, v.ValidateProposal(p))
		p.PayloadHash = "deadbeef"
		assert.NoError(t, v.ValidateProposal(p))
	})

	t.Run("content policy needs no payload", func(t *testing.T) {
		p := baseProposal(governance.ProposalTypeContentPolicy)
		assert.NoError(t, v.ValidateProposal(p))
	})

	t.Run("unknown type", func(t *testing.T) {
		p := baseProposal(governance.ProposalType("bogus"))
		assert.ErrorIs(t, v.ValidateProposal(p), governance.ErrInvalidProposalType)
	})
}
