// Package enginetest builds deterministic snapshot fixtures for the
// engine test suites. All markets start with balanced pools, zero open
// interest, and min == max oracle prices so expected values can be
// computed by hand; tests mutate the returned snapshot to set up
// imbalance, open interest, or pending fees.
package enginetest

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/gmx-io/gmx-interface-sub014/internal/fixed"
	"github.com/gmx-io/gmx-interface-sub014/internal/model"
)

// Usd returns n dollars at the 10^30 scale.
func Usd(n int64) *big.Int {
	return fixed.ExpandDecimals(n, fixed.USDDecimals)
}

// Factor returns mantissa * 10^exp, for fixed-point configuration factors.
func Factor(mantissa, exp int64) *big.Int {
	return fixed.ExpandDecimals(mantissa, exp)
}

func stableToken(addr, symbol string, decimals uint8) *model.Token {
	priceScale := fixed.Exp10(int64(30 - decimals))
	return &model.Token{
		Address:  common.HexToAddress(addr),
		Symbol:   symbol,
		Decimals: decimals,
		IsStable: true,
		Prices:   model.TokenPrices{Min: priceScale, Max: new(big.Int).Set(priceScale)},
	}
}

func indexToken(addr, symbol string, decimals uint8, priceUsd int64) *model.Token {
	price := new(big.Int).Mul(big.NewInt(priceUsd), fixed.Exp10(int64(30-decimals)))
	return &model.Token{
		Address:     common.HexToAddress(addr),
		Symbol:      symbol,
		Decimals:    decimals,
		IsShortable: true,
		Prices:      model.TokenPrices{Min: price, Max: new(big.Int).Set(price)},
	}
}

// baseMarket fills every configuration factor with the fixture defaults:
// quadratic impact curves, 5/7 bps swap and position fees, 1% min
// collateral factor, 50% reserve factors.
func baseMarket(addr string, index, long, short *model.Token) *model.Market {
	name := fmt.Sprintf("%s/USD [%s-%s]", index.Symbol, long.Symbol, short.Symbol)
	return &model.Market{
		Address:    common.HexToAddress(addr),
		Name:       name,
		IndexToken: index,
		LongToken:  long,
		ShortToken: short,

		LongPoolAmount:     new(big.Int),
		ShortPoolAmount:    new(big.Int),
		MaxLongPoolAmount:  new(big.Int),
		MaxShortPoolAmount: new(big.Int),

		LongInterestUsd:       new(big.Int),
		ShortInterestUsd:      new(big.Int),
		LongInterestInTokens:  new(big.Int),
		ShortInterestInTokens: new(big.Int),
		MaxOpenInterestLong:   Usd(1_000_000),
		MaxOpenInterestShort:  Usd(1_000_000),

		ReserveFactorLong:              Factor(5, 29),
		ReserveFactorShort:             Factor(5, 29),
		OpenInterestReserveFactorLong:  Factor(5, 29),
		OpenInterestReserveFactorShort: Factor(5, 29),

		BorrowingFactorLong:            Factor(1, 20),
		BorrowingFactorShort:           Factor(1, 20),
		BorrowingExponentFactorLong:    Factor(1, 30),
		BorrowingExponentFactorShort:   Factor(1, 30),
		CumulativeBorrowingFactorLong:  new(big.Int),
		CumulativeBorrowingFactorShort: new(big.Int),

		FundingFactorPerSecond:         new(big.Int),
		LongsPayShorts:                 true,
		FundingIncreaseFactorPerSecond: new(big.Int),
		FundingDecreaseFactorPerSecond: new(big.Int),
		MinFundingFactorPerSecond:      new(big.Int),
		MaxFundingFactorPerSecond:      Factor(1, 17),
		ThresholdForStableFunding:      Factor(5, 28),
		ThresholdForDecreaseFunding:    Factor(1, 28),
		FundingFeePerSizeLong:          model.FundingPerSize{LongToken: new(big.Int), ShortToken: new(big.Int)},
		FundingFeePerSizeShort:         model.FundingPerSize{LongToken: new(big.Int), ShortToken: new(big.Int)},

		PositionImpactFactorPositive:           Factor(5, 20),
		PositionImpactFactorNegative:           Factor(1, 21),
		PositionImpactExponentFactor:           Factor(2, 30),
		MaxPositionImpactFactorPositive:        Factor(5, 27),
		MaxPositionImpactFactorNegative:        Factor(5, 27),
		MaxPositionImpactFactorForLiquidations: Factor(1, 27),
		PositionImpactPoolAmount:               new(big.Int),

		SwapImpactFactorPositive:  Factor(5, 20),
		SwapImpactFactorNegative:  Factor(1, 21),
		SwapImpactExponentFactor:  Factor(2, 30),
		SwapImpactPoolAmountLong:  new(big.Int),
		SwapImpactPoolAmountShort: new(big.Int),

		SwapFeeFactorForPositiveImpact:     Factor(5, 26),
		SwapFeeFactorForNegativeImpact:     Factor(7, 26),
		PositionFeeFactorForPositiveImpact: Factor(5, 26),
		PositionFeeFactorForNegativeImpact: Factor(7, 26),

		MinCollateralFactor:         Factor(1, 28),
		MaxPnlFactorForTradersLong:  Factor(9, 29),
		MaxPnlFactorForTradersShort: Factor(9, 29),

		VirtualPoolAmountForLongToken:  new(big.Int),
		VirtualPoolAmountForShortToken: new(big.Int),
		VirtualInventoryForPositions:   new(big.Int),
	}
}

// Snapshot builds the standard three-market fixture:
//
//	ETH/USD [WETH-USDC]  1000 WETH / 2,000,000 USDC, balanced at $2M/$2M
//	BTC/USD [WBTC-USDC]  50 WBTC / 2,000,000 USDC, balanced at $2M/$2M
//	BTC/USD [WBTC-WETH]  10 WBTC / 250 WETH, imbalanced and expensive
//
// plus a DAI token no market lists, for no-route cases. WETH trades at
// $2000, WBTC at $40000.
func Snapshot() *model.Snapshot {
	usdc := stableToken("0x00000000000000000000000000000000000000a1", "USDC", 6)
	dai := stableToken("0x00000000000000000000000000000000000000a2", "DAI", 18)
	weth := indexToken("0x00000000000000000000000000000000000000b1", "WETH", 18, 2000)
	wbtc := indexToken("0x00000000000000000000000000000000000000b2", "WBTC", 8, 40000)

	ethUsd := baseMarket("0x00000000000000000000000000000000000000c1", weth, weth, usdc)
	ethUsd.LongPoolAmount = fixed.ExpandDecimals(1000, 18)
	ethUsd.ShortPoolAmount = fixed.ExpandDecimals(2_000_000, 6)
	ethUsd.MaxLongPoolAmount = fixed.ExpandDecimals(2000, 18)
	ethUsd.MaxShortPoolAmount = fixed.ExpandDecimals(4_000_000, 6)
	ethUsd.PositionImpactPoolAmount = fixed.ExpandDecimals(10, 18)
	ethUsd.SwapImpactPoolAmountLong = fixed.ExpandDecimals(1, 18)
	ethUsd.SwapImpactPoolAmountShort = fixed.ExpandDecimals(1000, 6)

	btcUsd := baseMarket("0x00000000000000000000000000000000000000c2", wbtc, wbtc, usdc)
	btcUsd.LongPoolAmount = fixed.ExpandDecimals(50, 8)
	btcUsd.ShortPoolAmount = fixed.ExpandDecimals(2_000_000, 6)
	btcUsd.MaxLongPoolAmount = fixed.ExpandDecimals(100, 8)
	btcUsd.MaxShortPoolAmount = fixed.ExpandDecimals(4_000_000, 6)
	btcUsd.PositionImpactPoolAmount = fixed.ExpandDecimals(1, 8)
	btcUsd.SwapImpactPoolAmountLong = fixed.ExpandDecimals(1, 7)
	btcUsd.SwapImpactPoolAmountShort = fixed.ExpandDecimals(1000, 6)

	// The WETH-collateral BTC market is lopsided and charges a 30 bps
	// swap fee, so direct WETH<->WBTC swaps lose to two-hop routes.
	btcEth := baseMarket("0x00000000000000000000000000000000000000c3", wbtc, wbtc, weth)
	btcEth.LongPoolAmount = fixed.ExpandDecimals(10, 8)
	btcEth.ShortPoolAmount = fixed.ExpandDecimals(250, 18)
	btcEth.MaxLongPoolAmount = fixed.ExpandDecimals(50, 8)
	btcEth.MaxShortPoolAmount = fixed.ExpandDecimals(500, 18)
	btcEth.SwapImpactPoolAmountLong = fixed.ExpandDecimals(1, 7)
	btcEth.SwapImpactPoolAmountShort = fixed.ExpandDecimals(1, 18)
	btcEth.SwapFeeFactorForNegativeImpact = Factor(3, 27)
	btcEth.SwapFeeFactorForPositiveImpact = Factor(3, 27)

	return &model.Snapshot{
		ChainID:     42161,
		BlockNumber: 250_000_000,
		Timestamp:   1_756_700_000,
		Tokens:      []*model.Token{usdc, dai, weth, wbtc},
		Markets:     []*model.Market{ethUsd, btcUsd, btcEth},
	}
}

// Token returns the fixture token by symbol.
func Token(s *model.Snapshot, symbol string) *model.Token {
	for _, t := range s.Tokens {
		if t.Symbol == symbol {
			return t
		}
	}
	panic("unknown fixture token " + symbol)
}

// Market returns the fixture market by name.
func Market(s *model.Snapshot, name string) *model.Market {
	for _, m := range s.Markets {
		if m.Name == name {
			return m
		}
	}
	panic("unknown fixture market " + name)
}

// EthUsd returns the WETH-USDC market.
func EthUsd(s *model.Snapshot) *model.Market {
	return Market(s, "WETH/USD [WETH-USDC]")
}

// BtcUsd returns the WBTC-USDC market.
func BtcUsd(s *model.Snapshot) *model.Market {
	return Market(s, "WBTC/USD [WBTC-USDC]")
}

// BtcEth returns the WBTC-WETH market.
func BtcEth(s *model.Snapshot) *model.Market {
	return Market(s, "WBTC/USD [WBTC-WETH]")
}
