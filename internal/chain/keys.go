package chain

import (
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// DataStore keys are keccak256 hashes of ABI-encoded tuples, with the
// first element being the hash of the key name.
var (
	keyPoolAmount                = hashString("POOL_AMOUNT")
	keyOpenInterest              = hashString("OPEN_INTEREST")
	keyOpenInterestInTokens      = hashString("OPEN_INTEREST_IN_TOKENS")
	keyPositionImpactPoolAmount  = hashString("POSITION_IMPACT_POOL_AMOUNT")
	keySwapImpactPoolAmount      = hashString("SWAP_IMPACT_POOL_AMOUNT")
	keyCumulativeBorrowingFactor = hashString("CUMULATIVE_BORROWING_FACTOR")
	keyFundingFeeAmountPerSize   = hashString("FUNDING_FEE_AMOUNT_PER_SIZE")
	keyIsMarketDisabled          = hashString("IS_MARKET_DISABLED")
)

var (
	bytes32Type = mustABIType("bytes32")
	addressType = mustABIType("address")
	boolType    = mustABIType("bool")
	stringType  = mustABIType("string")
)

func mustABIType(t string) abi.Type {
	typ, err := abi.NewType(t, "", nil)
	if err != nil {
		panic(err)
	}
	return typ
}

func hashString(s string) common.Hash {
	enc, err := abi.Arguments{{Type: stringType}}.Pack(s)
	if err != nil {
		panic(err)
	}
	return crypto.Keccak256Hash(enc)
}

func hashMarket(base common.Hash, market common.Address) common.Hash {
	enc, err := abi.Arguments{{Type: bytes32Type}, {Type: addressType}}.Pack([32]byte(base), market)
	if err != nil {
		panic(err)
	}
	return crypto.Keccak256Hash(enc)
}

func hashMarketToken(base common.Hash, market, token common.Address) common.Hash {
	enc, err := abi.Arguments{{Type: bytes32Type}, {Type: addressType}, {Type: addressType}}.
		Pack([32]byte(base), market, token)
	if err != nil {
		panic(err)
	}
	return crypto.Keccak256Hash(enc)
}

func hashMarketSide(base common.Hash, market common.Address, isLong bool) common.Hash {
	enc, err := abi.Arguments{{Type: bytes32Type}, {Type: addressType}, {Type: boolType}}.
		Pack([32]byte(base), market, isLong)
	if err != nil {
		panic(err)
	}
	return crypto.Keccak256Hash(enc)
}

func hashMarketTokenSide(base common.Hash, market, token common.Address, isLong bool) common.Hash {
	enc, err := abi.Arguments{
		{Type: bytes32Type}, {Type: addressType}, {Type: addressType}, {Type: boolType},
	}.Pack([32]byte(base), market, token, isLong)
	if err != nil {
		panic(err)
	}
	return crypto.Keccak256Hash(enc)
}

// PoolAmountKey keys the pool token balance of a market.
func PoolAmountKey(market, token common.Address) common.Hash {
	return hashMarketToken(keyPoolAmount, market, token)
}

// OpenInterestKey keys one side's open interest in USD for one collateral
// token. The full side value is the sum over both collateral tokens.
func OpenInterestKey(market, collateralToken common.Address, isLong bool) common.Hash {
	return hashMarketTokenSide(keyOpenInterest, market, collateralToken, isLong)
}

// OpenInterestInTokensKey keys one side's open interest in index tokens
// for one collateral token.
func OpenInterestInTokensKey(market, collateralToken common.Address, isLong bool) common.Hash {
	return hashMarketTokenSide(keyOpenInterestInTokens, market, collateralToken, isLong)
}

// PositionImpactPoolAmountKey keys the position impact pool of a market.
func PositionImpactPoolAmountKey(market common.Address) common.Hash {
	return hashMarket(keyPositionImpactPoolAmount, market)
}

// SwapImpactPoolAmountKey keys the swap impact pool for one pool token.
func SwapImpactPoolAmountKey(market, token common.Address) common.Hash {
	return hashMarketToken(keySwapImpactPoolAmount, market, token)
}

// CumulativeBorrowingFactorKey keys the cumulative borrowing factor for
// one position side.
func CumulativeBorrowingFactorKey(market common.Address, isLong bool) common.Hash {
	return hashMarketSide(keyCumulativeBorrowingFactor, market, isLong)
}

// FundingFeeAmountPerSizeKey keys the cumulative funding fee per size for
// one position side and fee-token leg.
func FundingFeeAmountPerSizeKey(market, collateralToken common.Address, isLong bool) common.Hash {
	return hashMarketTokenSide(keyFundingFeeAmountPerSize, market, collateralToken, isLong)
}

// IsMarketDisabledKey keys the market disabled flag.
func IsMarketDisabledKey(market common.Address) common.Hash {
	return hashMarket(keyIsMarketDisabled, market)
}
