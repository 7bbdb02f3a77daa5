package token

import (
	"errors"
	"fmt"
	"sync"

	sdkmath "cosmossdk.io/math"
)

var (
	// ErrInsufficientBalance represents insufficient token balance error
	ErrInsufficientBalance = errors.New("insufficient balance")
)

// System is an in-process implementation of the ledger-asset service holding
// fungible token balances. The governance engine talks to it through the
// governance.TokenSystem interface.
type System struct {
	balances map[string]sdkmath.Int
	mutex    sync.RWMutex
}

// NewSystem creates a new token system
func NewSystem() *System {
	return &System{
		balances: make(map[string]sdkmath.Int),
	}
}

// Balance returns the balance of an account
func (s *System) Balance(account string) (sdkmath.Int, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	if balance, exists := s.balances[account]; exists {
		return balance, nil
	}
	return sdkmath.ZeroInt(), nil
}

// SetBalance sets the balance of an account
func (s *System) SetBalance(account string, amount sdkmath.Int) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if amount.IsNegative() {
		return fmt.Errorf("negative balance %s for %s", amount, account)
	}
	s.balances[account] = amount
	return nil
}

// Withdraw removes tokens from an account
func (s *System) Withdraw(account string, amount sdkmath.Int) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	balance, exists := s.balances[account]
	if !exists {
		balance = sdkmath.ZeroInt()
	}

	if balance.LT(amount) {
		return fmt.Errorf("%w: account %s has %s, needs %s", ErrInsufficientBalance, account, balance, amount)
	}

	s.balances[account] = balance.Sub(amount)
	return nil
}

// Deposit adds tokens to an account
func (s *System) Deposit(account string, amount sdkmath.Int) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	balance, exists := s.balances[account]
	if !exists {
		balance = sdkmath.ZeroInt()
	}

	s.balances[account] = balance.Add(amount)
	return nil
}

// Transfer transfers tokens from one account to another
func (s *System) Transfer(from, to string, amount sdkmath.Int) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	fromBalance, exists := s.balances[from]
	if !exists {
		fromBalance = sdkmath.ZeroInt()
	}

	if fromBalance.LT(amount) {
		return fmt.Errorf("%w: account %s has %s, needs %s", ErrInsufficientBalance, from, fromBalance, amount)
	}

	toBalance, exists := s.balances[to]
	if !exists {
		toBalance = sdkmath.ZeroInt()
	}

	s.balances[from] = fromBalance.Sub(amount)
	s.balances[to] = toBalance.Add(amount)
	return nil
}

// TotalSupply returns the total supply of tokens
func (s *System) TotalSupply() (sdkmath.Int, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	total := sdkmath.ZeroInt()
	for _, balance := range s.balances {
		total = total.Add(balance)
	}
	return total, nil
}
