package model

import "errors"

// Error kinds surfaced by the trade computation engine. Callers match with
// errors.Is; the first failing constraint wins and later checks are never
// evaluated.
var (
	// ErrNoRouteFound means the swap router exhausted every candidate path
	// between the two tokens.
	ErrNoRouteFound = errors.New("trade: no swap route found")

	// ErrInsufficientLiquidity means a route exists but no hop (or the
	// position side) has capacity for the requested size.
	ErrInsufficientLiquidity = errors.New("trade: insufficient liquidity")

	// ErrBelowMinCollateral means the collateral remaining after fees is
	// under the protocol minimum.
	ErrBelowMinCollateral = errors.New("trade: collateral below minimum")

	// ErrAboveMaxLeverage means the resulting leverage violates the
	// min-collateral-factor bound.
	ErrAboveMaxLeverage = errors.New("trade: leverage above maximum")

	// ErrPnlFactorExceeded means the trade would push the pool past its
	// max PnL factor for traders.
	ErrPnlFactorExceeded = errors.New("trade: max pnl factor for pool exceeded")

	// ErrInvalidSlippage means the user-specified slippage is out of range.
	ErrInvalidSlippage = errors.New("trade: invalid slippage")

	// ErrAcceptablePriceInverted means the trigger or acceptable price is
	// on the wrong side of the mark price for the order direction.
	ErrAcceptablePriceInverted = errors.New("trade: acceptable price on wrong side of mark price")

	// ErrArithmeticOverflow marks corrupt upstream configuration (zero or
	// absurd factors). It is fatal: results computed from such a snapshot
	// must never be submitted.
	ErrArithmeticOverflow = errors.New("trade: arithmetic overflow from corrupt configuration")
)
