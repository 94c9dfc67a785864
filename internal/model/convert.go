package model

import "math/big"

// ConvertToUsd converts a token amount into a 10^30-scaled USD value using
// a 10^(30-decimals)-scaled price.
func ConvertToUsd(amount, price *big.Int) *big.Int {
	if amount == nil || price == nil {
		return new(big.Int)
	}
	return new(big.Int).Mul(amount, price)
}

// ConvertToTokenAmount converts a 10^30-scaled USD value back into token
// units, truncating toward zero.
func ConvertToTokenAmount(usd, price *big.Int) *big.Int {
	if usd == nil || price == nil || price.Sign() == 0 {
		return new(big.Int)
	}
	return new(big.Int).Quo(usd, price)
}

// ConvertToTokenAmountRoundUp converts USD to token units rounding the
// magnitude away from zero. Used when charging a cost denominated in
// tokens so the protocol never undercharges by a rounding step.
func ConvertToTokenAmountRoundUp(usd, price *big.Int) *big.Int {
	if usd == nil || price == nil || price.Sign() == 0 {
		return new(big.Int)
	}
	quo, rem := new(big.Int).QuoRem(usd, price, new(big.Int))
	if rem.Sign() == 0 {
		return quo
	}
	if (usd.Sign() < 0) != (price.Sign() < 0) {
		return quo.Sub(quo, big.NewInt(1))
	}
	return quo.Add(quo, big.NewInt(1))
}
