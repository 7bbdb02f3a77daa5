package governance

import (
	"fmt"
	"time"

	sdkmath "cosmossdk.io/math"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Stake locks tokens into a tiered stake for the given duration. The amount
// is withdrawn from the account's token balance; the registry totals grow by
// the raw amount and by the tier-weighted voting power. Additional staking
// augments the existing record and can only extend the lock, never shorten it.
func (s *Service) Stake(account string, amount sdkmath.Int, tier Tier, duration time.Duration) (*Stake, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	req, ok := tierRequirements[tier]
	if !ok {
		return nil, fmt.Errorf("%w: unknown tier %d", ErrInsufficientStake, tier)
	}
	if amount.IsNil() || amount.LT(req.MinAmount) {
		return nil, fmt.Errorf("%w: %s tier requires at least %s tokens", ErrInsufficientStake, tier, req.MinAmount)
	}
	if duration < req.MinLock {
		return nil, fmt.Errorf("%w: %s tier requires a lock of at least %s", ErrInsufficientStake, tier, req.MinLock)
	}

	existing, err := s.stakes.GetStake(account)
	if err != nil {
		return nil, fmt.Errorf("failed to get stake: %w", err)
	}
	if existing != nil && existing.Amount.IsPositive() && existing.Tier != tier {
		return nil, fmt.Errorf("%w: account %s already staked at %s tier", ErrInsufficientStake, account, existing.Tier)
	}

	if err := s.tokens.Withdraw(account, amount); err != nil {
		return nil, fmt.Errorf("failed to withdraw stake: %w", err)
	}

	now := s.clock.Now()
	lockedUntil := now.Add(duration)

	var stake *Stake
	if existing != nil {
		stake = existing
		stake.Amount = stake.Amount.Add(amount)
		stake.Tier = tier
		if lockedUntil.After(stake.LockedUntil) {
			stake.LockedUntil = lockedUntil
		}
	} else {
		stake = &Stake{
			Handle:      uuid.NewString(),
			Account:     account,
			Amount:      amount,
			Tier:        tier,
			LockedUntil: lockedUntil,
			Penalty:     sdkmath.ZeroInt(),
		}
	}

	if err := s.stakes.SaveStake(stake); err != nil {
		if derr := s.tokens.Deposit(account, amount); derr != nil {
			s.logger.Error("failed to refund stake withdrawal",
				zap.String("account", account), zap.Error(derr))
		}
		return nil, fmt.Errorf("failed to save stake: %w", err)
	}

	s.registry.TotalStaked = s.registry.TotalStaked.Add(amount)
	s.registry.TotalVotingPower = s.registry.TotalVotingPower.Add(votingPower(amount, tier))
	s.registry.ActiveAccounts[account] = struct{}{}

	s.logger.Info("tokens staked",
		zap.String("account", account),
		zap.String("amount", amount.String()),
		zap.String("tier", tier.String()),
		zap.Time("locked_until", stake.LockedUntil),
	)
	s.publish(EventTypeStaked, StakedEvent{
		Account:     account,
		Handle:      stake.Handle,
		Amount:      amount,
		Tier:        tier,
		LockedUntil: stake.LockedUntil,
	})

	return stake, nil
}

// Unstake releases staked tokens back to the account. Unstaking before the
// lock expires withholds a 5% penalty into the stake's penalty balance; only
// the remainder is returned. Returns the amount deposited back.
func (s *Service) Unstake(account, handle string, amount sdkmath.Int) (sdkmath.Int, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if amount.IsNil() || !amount.IsPositive() {
		return sdkmath.Int{}, fmt.Errorf("%w: unstake amount must be positive", ErrInsufficientStake)
	}

	stake, err := s.stakes.GetStake(account)
	if err != nil {
		return sdkmath.Int{}, fmt.Errorf("failed to get stake: %w", err)
	}
	if stake == nil || stake.Amount.LT(amount) {
		return sdkmath.Int{}, fmt.Errorf("%w: account %s cannot unstake %s", ErrInsufficientStake, account, amount)
	}
	if handle != "" && stake.Handle != handle {
		return sdkmath.Int{}, fmt.Errorf("%w: stake %s does not belong to %s", ErrNotAuthorized, handle, account)
	}

	now := s.clock.Now()
	early := now.Before(stake.LockedUntil)
	penalty := sdkmath.ZeroInt()
	if early {
		penalty = amount.MulRaw(earlyUnstakePenaltyBP).QuoRaw(bpDenom)
	}
	returned := amount.Sub(penalty)

	stake.Amount = stake.Amount.Sub(amount)
	stake.Penalty = stake.Penalty.Add(penalty)

	if err := s.stakes.SaveStake(stake); err != nil {
		return sdkmath.Int{}, fmt.Errorf("failed to save stake: %w", err)
	}

	s.registry.TotalStaked = s.registry.TotalStaked.Sub(amount)
	s.registry.TotalVotingPower = s.registry.TotalVotingPower.Sub(votingPower(amount, stake.Tier))
	if stake.Amount.IsZero() {
		delete(s.registry.ActiveAccounts, account)
	}

	if err := s.tokens.Deposit(account, returned); err != nil {
		return sdkmath.Int{}, fmt.Errorf("failed to return tokens: %w", err)
	}

	s.logger.Info("tokens unstaked",
		zap.String("account", account),
		zap.String("amount", amount.String()),
		zap.String("penalty", penalty.String()),
		zap.Bool("early", early),
	)
	s.publish(EventTypeUnstaked, UnstakedEvent{
		Account:  account,
		Amount:   amount,
		Returned: returned,
		Penalty:  penalty,
		Early:    early,
	})

	return returned, nil
}
