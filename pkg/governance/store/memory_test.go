package store_test

import (
	"testing"

	sdkmath "cosmossdk.io/math"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OmeoneChain/omeonechain-sub000/pkg/governance"
	"github.com/OmeoneChain/omeonechain-sub000/pkg/governance/store"
)

func TestProposalCopyOnRead(t *testing.T) {
	s := store.NewMemoryStore()
	proposal := &governance.Proposal{
		ID:           1,
		Proposer:     "alice",
		Type:         governance.ProposalTypeParameter,
		Status:       governance.ProposalStatusActive,
		VotesFor:     sdkmath.ZeroInt(),
		VotesAgainst: sdkmath.ZeroInt(),
		Voters:       map[string]struct{}{"alice": {}},
		Changes:      []governance.ParamChange{{Name: "platform_fee_bp", Value: 100}},
	}
	require.NoError(t, s.SaveProposal(proposal))

	got, err := s.GetProposal(1)
	require.NoError(t, err)
	require.NotNil(t, got)

	// Mutating the returned copy must not affect the stored proposal.
	got.Status = governance.ProposalStatusCanceled
	got.Voters["bob"] = struct{}{}
	got.Changes[0].Value = 9999

	fresh, err := s.GetProposal(1)
	require.NoError(t, err)
	assert.Equal(t, governance.ProposalStatusActive, fresh.Status)
	assert.Len(t, fresh.Voters, 1)
	assert.EqualValues(t, 100, fresh.Changes[0].Value)
}

func TestGetProposalMissing(t *testing.T) {
	s := store.NewMemoryStore()
	got, err := s.GetProposal(42)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestListProposalsByStatus(t *testing.T) {
	s := store.NewMemoryStore()
	for i, status := range []governance.ProposalStatus{
		governance.ProposalStatusActive,
		governance.ProposalStatusActive,
		governance.ProposalStatusFailed,
	} {
		require.NoError(t, s.SaveProposal(&governance.Proposal{
			ID:           uint64(i + 1),
			Status:       status,
			VotesFor:     sdkmath.ZeroInt(),
			VotesAgainst: sdkmath.ZeroInt(),
		}))
	}

	active, err := s.ListProposalsByStatus(governance.ProposalStatusActive)
	require.NoError(t, err)
	assert.Len(t, active, 2)

	all, err := s.ListProposals()
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestStakeRoundTrip(t *testing.T) {
	s := store.NewMemoryStore()
	stake := &governance.Stake{
		Handle:  "h-1",
		Account: "alice",
		Amount:  sdkmath.NewInt(100),
		Tier:    governance.TierCurator,
		Penalty: sdkmath.ZeroInt(),
	}
	require.NoError(t, s.SaveStake(stake))

	got, err := s.GetStake("alice")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "h-1", got.Handle)

	got.Amount = sdkmath.NewInt(1)
	fresh, err := s.GetStake("alice")
	require.NoError(t, err)
	assert.EqualValues(t, 100, fresh.Amount.Int64())

	missing, err := s.GetStake("bob")
	require.NoError(t, err)
	assert.Nil(t, missing)

	stakes, err := s.ListStakes()
	require.NoError(t, err)
	assert.Len(t, stakes, 1)
}

func TestBallots(t *testing.T) {
	s := store.NewMemoryStore()

	got, err := s.GetBallot("alice", 1)
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, s.SaveBallot("alice", 1, &governance.Ballot{Support: true, Power: sdkmath.NewInt(42)}))

	got, err = s.GetBallot("alice", 1)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, got.Support)
	assert.EqualValues(t, 42, got.Power.Int64())

	other, err := s.GetBallot("alice", 2)
	require.NoError(t, err)
	assert.Nil(t, other)
}
