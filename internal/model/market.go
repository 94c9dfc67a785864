package model

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// Market is an immutable snapshot of one perpetual market (pool) together
// with its full fee/impact configuration. Every factor field is a
// 10^30-scaled fixed-point value; pool amounts are token units; interest
// values are 10^30-scaled USD unless the name says InTokens. All fields
// are populated at snapshot construction, none are optional.
type Market struct {
	Address    common.Address
	Name       string
	IndexToken *Token
	LongToken  *Token
	ShortToken *Token

	IsDisabled        bool
	IsSameCollaterals bool

	// Pool state.
	LongPoolAmount     *big.Int
	ShortPoolAmount    *big.Int
	MaxLongPoolAmount  *big.Int
	MaxShortPoolAmount *big.Int

	// Open interest.
	LongInterestUsd       *big.Int
	ShortInterestUsd      *big.Int
	LongInterestInTokens  *big.Int
	ShortInterestInTokens *big.Int
	MaxOpenInterestLong   *big.Int
	MaxOpenInterestShort  *big.Int

	// Reserve configuration.
	ReserveFactorLong              *big.Int
	ReserveFactorShort             *big.Int
	OpenInterestReserveFactorLong  *big.Int
	OpenInterestReserveFactorShort *big.Int

	// Borrowing fees.
	BorrowingFactorLong            *big.Int
	BorrowingFactorShort           *big.Int
	BorrowingExponentFactorLong    *big.Int
	BorrowingExponentFactorShort   *big.Int
	CumulativeBorrowingFactorLong  *big.Int
	CumulativeBorrowingFactorShort *big.Int

	// Funding fees. Per-size values are 10^30-scaled USD per token of
	// position size, tracked per position side and per fee-token leg.
	FundingFactorPerSecond         *big.Int
	LongsPayShorts                 bool
	FundingIncreaseFactorPerSecond *big.Int
	FundingDecreaseFactorPerSecond *big.Int
	MinFundingFactorPerSecond      *big.Int
	MaxFundingFactorPerSecond      *big.Int
	ThresholdForStableFunding      *big.Int
	ThresholdForDecreaseFunding    *big.Int
	FundingFeePerSizeLong          FundingPerSize
	FundingFeePerSizeShort         FundingPerSize

	// Position price impact.
	PositionImpactFactorPositive           *big.Int
	PositionImpactFactorNegative           *big.Int
	PositionImpactExponentFactor           *big.Int
	MaxPositionImpactFactorPositive        *big.Int
	MaxPositionImpactFactorNegative        *big.Int
	MaxPositionImpactFactorForLiquidations *big.Int
	PositionImpactPoolAmount               *big.Int

	// Swap price impact.
	SwapImpactFactorPositive  *big.Int
	SwapImpactFactorNegative  *big.Int
	SwapImpactExponentFactor  *big.Int
	SwapImpactPoolAmountLong  *big.Int
	SwapImpactPoolAmountShort *big.Int

	// Fees.
	SwapFeeFactorForPositiveImpact     *big.Int
	SwapFeeFactorForNegativeImpact     *big.Int
	PositionFeeFactorForPositiveImpact *big.Int
	PositionFeeFactorForNegativeImpact *big.Int

	// Position constraints.
	MinCollateralFactor         *big.Int
	MaxPnlFactorForTradersLong  *big.Int
	MaxPnlFactorForTradersShort *big.Int

	// Virtual (cross-market netted) inventory.
	VirtualPoolAmountForLongToken  *big.Int
	VirtualPoolAmountForShortToken *big.Int
	VirtualInventoryForPositions   *big.Int
	HasVirtualInventory            bool
}

// FundingPerSize holds cumulative funding-fee-per-size values for the two
// fee-token legs of one position side.
type FundingPerSize struct {
	LongToken  *big.Int
	ShortToken *big.Int
}

// PoolAmount returns the pool token amount for the requested side.
func (m *Market) PoolAmount(isLong bool) *big.Int {
	if isLong {
		return m.LongPoolAmount
	}
	return m.ShortPoolAmount
}

// CollateralToken returns the pool token backing one side.
func (m *Market) CollateralToken(isLong bool) *Token {
	if isLong {
		return m.LongToken
	}
	return m.ShortToken
}

// PoolUsd values one side of the pool at the oracle price; maximize picks
// the max price, otherwise the min.
func (m *Market) PoolUsd(isLong, maximize bool) *big.Int {
	token := m.CollateralToken(isLong)
	return ConvertToUsd(m.PoolAmount(isLong), token.Prices.Pick(maximize))
}

// InterestUsd returns the open interest in USD for one position side.
func (m *Market) InterestUsd(isLong bool) *big.Int {
	if isLong {
		return m.LongInterestUsd
	}
	return m.ShortInterestUsd
}

// InterestInTokens returns the open interest in index tokens for one side.
func (m *Market) InterestInTokens(isLong bool) *big.Int {
	if isLong {
		return m.LongInterestInTokens
	}
	return m.ShortInterestInTokens
}

// ReservedUsd is the USD amount of pool liquidity reserved by open
// positions on one side. Longs reserve index-token exposure valued at the
// max price; shorts reserve their USD interest directly.
func (m *Market) ReservedUsd(isLong bool) *big.Int {
	if isLong {
		return ConvertToUsd(m.LongInterestInTokens, m.IndexToken.Prices.Max)
	}
	return new(big.Int).Set(m.ShortInterestUsd)
}

// SwapImpactPoolAmount returns the swap impact pool for the given token
// side.
func (m *Market) SwapImpactPoolAmount(isLong bool) *big.Int {
	if isLong {
		return m.SwapImpactPoolAmountLong
	}
	return m.SwapImpactPoolAmountShort
}

// OppositeToken maps one collateral token of the market to the other.
// Returns nil when the address is not a collateral token of this market.
func (m *Market) OppositeToken(addr common.Address) *Token {
	switch addr {
	case m.LongToken.Address:
		return m.ShortToken
	case m.ShortToken.Address:
		return m.LongToken
	default:
		return nil
	}
}

// HasCollateral reports whether addr is one of the market's pool tokens.
func (m *Market) HasCollateral(addr common.Address) bool {
	return addr == m.LongToken.Address || addr == m.ShortToken.Address
}

// IsLongTokenSide reports whether addr is the long pool token.
func (m *Market) IsLongTokenSide(addr common.Address) bool {
	return addr == m.LongToken.Address
}
