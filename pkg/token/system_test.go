package token_test

import (
	"testing"

	sdkmath "cosmossdk.io/math"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OmeoneChain/omeonechain-sub000/pkg/token"
)

func TestBalanceDefaultsToZero(t *testing.T) {
	s := token.NewSystem()
	balance, err := s.Balance("alice")
	require.NoError(t, err)
	assert.True(t, balance.IsZero())
}

func TestWithdrawDeposit(t *testing.T) {
	s := token.NewSystem()
	require.NoError(t, s.SetBalance("alice", sdkmath.NewInt(100)))

	require.NoError(t, s.Withdraw("alice", sdkmath.NewInt(40)))
	balance, err := s.Balance("alice")
	require.NoError(t, err)
	assert.EqualValues(t, 60, balance.Int64())

	err = s.Withdraw("alice", sdkmath.NewInt(61))
	assert.ErrorIs(t, err, token.ErrInsufficientBalance)

	require.NoError(t, s.Deposit("alice", sdkmath.NewInt(40)))
	balance, err = s.Balance("alice")
	require.NoError(t, err)
	assert.EqualValues(t, 100, balance.Int64())
}

func TestTransfer(t *testing.T) {
	s := token.NewSystem()
	require.NoError(t, s.SetBalance("alice", sdkmath.NewInt(100)))

	require.NoError(t, s.Transfer("alice", "bob", sdkmath.NewInt(30)))
	aliceBalance, err := s.Balance("alice")
	require.NoError(t, err)
	bobBalance, err := s.Balance("bob")
	require.NoError(t, err)
	assert.EqualValues(t, 70, aliceBalance.Int64())
	assert.EqualValues(t, 30, bobBalance.Int64())

	err = s.Transfer("bob", "alice", sdkmath.NewInt(31))
	assert.ErrorIs(t, err, token.ErrInsufficientBalance)
}

func TestTotalSupply(t *testing.T) {
	s := token.NewSystem()
	require.NoError(t, s.SetBalance("alice", sdkmath.NewInt(100)))
	require.NoError(t, s.SetBalance("bob", sdkmath.NewInt(50)))

	total, err := s.TotalSupply()
	require.NoError(t, err)
	assert.EqualValues(t, 150, total.Int64())

	// Transfers conserve supply.
	require.NoError(t, s.Transfer("alice", "bob", sdkmath.NewInt(25)))
	total, err = s.TotalSupply()
	require.NoError(t, err)
	assert.EqualValues(t, 150, total.Int64())
}

func TestSetBalanceRejectsNegative(t *testing.T) {
	s := token.NewSystem()
	assert.Error(t, s.SetBalance("alice", sdkmath.NewInt(-1)))
}
