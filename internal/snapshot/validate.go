package snapshot

import (
	"fmt"
	"math/big"

	"github.com/gmx-io/gmx-interface-sub014/internal/fixed"
	"github.com/gmx-io/gmx-interface-sub014/internal/model"
)

// maxExponentFactor is the largest exponent the fixed-point power routine
// accepts; anything above it marks a corrupt feed.
var maxExponentFactor = new(big.Int).Mul(big.NewInt(10), fixed.Precision)

// Validate rejects snapshots whose configuration would make the math
// routines divide by zero or produce absurd results. Errors wrap
// model.ErrArithmeticOverflow so callers can treat the whole snapshot as
// unusable.
func Validate(s *model.Snapshot) error {
	for _, t := range s.Tokens {
		if err := validateToken(t); err != nil {
			return fmt.Errorf("token %s: %w", t.Symbol, err)
		}
	}
	for _, m := range s.Markets {
		if err := validateMarket(m); err != nil {
			return fmt.Errorf("market %s: %w", m.Name, err)
		}
	}
	return nil
}

func validateToken(t *model.Token) error {
	if t.Decimals == 0 || t.Decimals > 30 {
		return fmt.Errorf("decimals %d out of range: %w", t.Decimals, model.ErrArithmeticOverflow)
	}
	if t.Prices.Min == nil || t.Prices.Max == nil ||
		t.Prices.Min.Sign() <= 0 || t.Prices.Max.Sign() <= 0 {
		return fmt.Errorf("non-positive price: %w", model.ErrArithmeticOverflow)
	}
	if t.Prices.Min.Cmp(t.Prices.Max) > 0 {
		return fmt.Errorf("min price above max price: %w", model.ErrArithmeticOverflow)
	}
	return nil
}

func validateMarket(m *model.Market) error {
	nonNegative := map[string]*big.Int{
		"long_pool_amount":         m.LongPoolAmount,
		"short_pool_amount":        m.ShortPoolAmount,
		"long_interest_usd":        m.LongInterestUsd,
		"short_interest_usd":       m.ShortInterestUsd,
		"long_interest_in_tokens":  m.LongInterestInTokens,
		"short_interest_in_tokens": m.ShortInterestInTokens,
		"reserve_factor_long":      m.ReserveFactorLong,
		"reserve_factor_short":     m.ReserveFactorShort,
		"min_collateral_factor":    m.MinCollateralFactor,
	}
	for name, v := range nonNegative {
		if v == nil || v.Sign() < 0 {
			return fmt.Errorf("field %s negative or missing: %w", name, model.ErrArithmeticOverflow)
		}
	}

	exponents := map[string]*big.Int{
		"position_impact_exponent_factor": m.PositionImpactExponentFactor,
		"swap_impact_exponent_factor":     m.SwapImpactExponentFactor,
		"borrowing_exponent_factor_long":  m.BorrowingExponentFactorLong,
		"borrowing_exponent_factor_short": m.BorrowingExponentFactorShort,
	}
	for name, v := range exponents {
		if v == nil || v.Sign() < 0 || v.Cmp(maxExponentFactor) > 0 {
			return fmt.Errorf("field %s out of range: %w", name, model.ErrArithmeticOverflow)
		}
	}

	return nil
}
