package pricing

import (
	"math/big"

	"github.com/gmx-io/gmx-interface-sub014/internal/fixed"
	"github.com/gmx-io/gmx-interface-sub014/internal/model"
)

// AvailableOpenInterestUsd is how much new position size one side can
// absorb: the lesser of the max-open-interest headroom and the
// open-interest reserve headroom, floored at zero.
func AvailableOpenInterestUsd(market *model.Market, isLong bool) *big.Int {
	maxOI := market.MaxOpenInterestShort
	reserveFactor := market.OpenInterestReserveFactorShort
	if isLong {
		maxOI = market.MaxOpenInterestLong
		reserveFactor = market.OpenInterestReserveFactorLong
	}

	headroom := new(big.Int).Sub(maxOI, market.InterestUsd(isLong))
	if headroom.Sign() < 0 {
		headroom.SetInt64(0)
	}

	poolUsd := market.PoolUsd(isLong, false)
	reserveHeadroom := fixed.ApplyFactor(poolUsd, reserveFactor)
	reserveHeadroom.Sub(reserveHeadroom, market.ReservedUsd(isLong))
	if reserveHeadroom.Sign() < 0 {
		reserveHeadroom.SetInt64(0)
	}

	if headroom.Cmp(reserveHeadroom) < 0 {
		return headroom
	}
	return reserveHeadroom
}

// PoolPnlUsd is the aggregate unrealized trader PnL against the pool for
// one side, valued at the given price preference.
func PoolPnlUsd(market *model.Market, isLong, maximize bool) *big.Int {
	price := market.IndexToken.Prices.Pick(maximize)
	oiValueUsd := model.ConvertToUsd(market.InterestInTokens(isLong), price)
	if isLong {
		return new(big.Int).Sub(oiValueUsd, market.InterestUsd(isLong))
	}
	return new(big.Int).Sub(market.InterestUsd(isLong), oiValueUsd)
}

// ExceedsMaxPnlFactor reports whether trader PnL on one side exceeds the
// pool's configured max PnL factor.
func ExceedsMaxPnlFactor(market *model.Market, isLong bool) bool {
	pnl := PoolPnlUsd(market, isLong, true)
	if pnl.Sign() <= 0 {
		return false
	}
	maxFactor := market.MaxPnlFactorForTradersShort
	if isLong {
		maxFactor = market.MaxPnlFactorForTradersLong
	}
	poolUsd := market.PoolUsd(isLong, false)
	maxPnlUsd := fixed.ApplyFactor(poolUsd, maxFactor)
	return pnl.Cmp(maxPnlUsd) > 0
}
