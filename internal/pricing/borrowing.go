package pricing

import (
	"math/big"

	"github.com/gmx-io/gmx-interface-sub014/internal/fixed"
	"github.com/gmx-io/gmx-interface-sub014/internal/model"
)

// BorrowingFactorPerSecond returns the current per-second borrowing rate
// for one position side:
//
//	baseFactor * (reservedUsd / poolUsd) ^ exponentFactor
//
// A side with no reserves or an empty pool accrues nothing.
func BorrowingFactorPerSecond(market *model.Market, isLong bool) *big.Int {
	reservedUsd := market.ReservedUsd(isLong)
	poolUsd := market.PoolUsd(isLong, false)
	if reservedUsd.Sign() == 0 || poolUsd.Sign() == 0 {
		return new(big.Int)
	}

	baseFactor := market.BorrowingFactorShort
	exponentFactor := market.BorrowingExponentFactorShort
	if isLong {
		baseFactor = market.BorrowingFactorLong
		exponentFactor = market.BorrowingExponentFactorLong
	}

	utilization := fixed.MulDiv(reservedUsd, fixed.Precision, poolUsd)
	powed := fixed.ApplyExponentFactor(utilization, exponentFactor)
	return fixed.ApplyFactor(powed, baseFactor)
}

// CumulativeBorrowingFactor returns the side's cumulative factor as of the
// snapshot.
func CumulativeBorrowingFactor(market *model.Market, isLong bool) *big.Int {
	if isLong {
		return market.CumulativeBorrowingFactorLong
	}
	return market.CumulativeBorrowingFactorShort
}

// NextCumulativeBorrowingFactor projects the cumulative borrowing factor
// after holding for the given number of seconds at the current rate.
func NextCumulativeBorrowingFactor(market *model.Market, isLong bool, seconds int64) *big.Int {
	perSecond := BorrowingFactorPerSecond(market, isLong)
	accrued := perSecond.Mul(perSecond, big.NewInt(seconds))
	return accrued.Add(accrued, CumulativeBorrowingFactor(market, isLong))
}

// PendingBorrowingFeeUsd is the position's unsettled borrowing fee:
// (cumulativeFactor_now - cumulativeFactor_atEntry) * sizeInUsd. Always a
// non-negative cost.
func PendingBorrowingFeeUsd(position *model.Position, market *model.Market) *big.Int {
	cumulative := CumulativeBorrowingFactor(market, position.IsLong)
	delta := new(big.Int).Sub(cumulative, position.BorrowingFactorAtEntry)
	if delta.Sign() <= 0 {
		return new(big.Int)
	}
	return fixed.ApplyFactorRoundUp(position.SizeInUsd, delta)
}
