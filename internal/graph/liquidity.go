package graph

import (
	"math/big"

	"github.com/gmx-io/gmx-interface-sub014/internal/fixed"
	"github.com/gmx-io/gmx-interface-sub014/internal/model"
)

// AvailableSwapLiquidityUsd estimates how much USD can flow out of the
// given pool side in a swap:
//
//	min(reserveFactor * poolUsd - reservedUsd, deposit room on the opposite side)
//
// floored at zero. The reserve term keeps liquidity backing open positions
// untouchable; the deposit-room term stops a swap that would push the
// opposite pool past its max amount.
func AvailableSwapLiquidityUsd(market *model.Market, outIsLong bool) *big.Int {
	poolUsd := market.PoolUsd(outIsLong, false)

	reserveFactor := market.ReserveFactorShort
	if outIsLong {
		reserveFactor = market.ReserveFactorLong
	}
	reserveBounded := fixed.ApplyFactor(poolUsd, reserveFactor)
	reserveBounded.Sub(reserveBounded, market.ReservedUsd(outIsLong))
	if reserveBounded.Sign() < 0 {
		reserveBounded.SetInt64(0)
	}

	poolBounded := depositRoomUsd(market, !outIsLong)

	if reserveBounded.Cmp(poolBounded) < 0 {
		return reserveBounded
	}
	return poolBounded
}

// depositRoomUsd values the remaining capacity of one pool side at the min
// oracle price.
func depositRoomUsd(market *model.Market, isLong bool) *big.Int {
	maxAmount := market.MaxShortPoolAmount
	if isLong {
		maxAmount = market.MaxLongPoolAmount
	}
	room := new(big.Int).Sub(maxAmount, market.PoolAmount(isLong))
	if room.Sign() <= 0 {
		return new(big.Int)
	}
	return model.ConvertToUsd(room, market.CollateralToken(isLong).Prices.Min)
}
