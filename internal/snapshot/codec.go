package snapshot

import (
	"encoding/json"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/gmx-io/gmx-interface-sub014/internal/model"
)

// tokenJSON is the wire form of a token snapshot. Amounts are decimal
// strings so 10^30-scaled values survive JSON round trips.
type tokenJSON struct {
	Address     string `json:"address"`
	Symbol      string `json:"symbol"`
	Decimals    uint8  `json:"decimals"`
	IsStable    bool   `json:"is_stable,omitempty"`
	IsShortable bool   `json:"is_shortable,omitempty"`
	IsSynthetic bool   `json:"is_synthetic,omitempty"`
	IsNative    bool   `json:"is_native,omitempty"`
	MinPrice    string `json:"min_price"`
	MaxPrice    string `json:"max_price"`
}

type fundingPerSizeJSON struct {
	LongToken  string `json:"long_token"`
	ShortToken string `json:"short_token"`
}

type marketJSON struct {
	Address    string `json:"address"`
	Name       string `json:"name"`
	IndexToken string `json:"index_token"`
	LongToken  string `json:"long_token"`
	ShortToken string `json:"short_token"`

	IsDisabled        bool `json:"is_disabled,omitempty"`
	IsSameCollaterals bool `json:"is_same_collaterals,omitempty"`

	LongPoolAmount     string `json:"long_pool_amount"`
	ShortPoolAmount    string `json:"short_pool_amount"`
	MaxLongPoolAmount  string `json:"max_long_pool_amount"`
	MaxShortPoolAmount string `json:"max_short_pool_amount"`

	LongInterestUsd       string `json:"long_interest_usd"`
	ShortInterestUsd      string `json:"short_interest_usd"`
	LongInterestInTokens  string `json:"long_interest_in_tokens"`
	ShortInterestInTokens string `json:"short_interest_in_tokens"`
	MaxOpenInterestLong   string `json:"max_open_interest_long"`
	MaxOpenInterestShort  string `json:"max_open_interest_short"`

	ReserveFactorLong              string `json:"reserve_factor_long"`
	ReserveFactorShort             string `json:"reserve_factor_short"`
	OpenInterestReserveFactorLong  string `json:"open_interest_reserve_factor_long"`
	OpenInterestReserveFactorShort string `json:"open_interest_reserve_factor_short"`

	BorrowingFactorLong            string `json:"borrowing_factor_long"`
	BorrowingFactorShort           string `json:"borrowing_factor_short"`
	BorrowingExponentFactorLong    string `json:"borrowing_exponent_factor_long"`
	BorrowingExponentFactorShort   string `json:"borrowing_exponent_factor_short"`
	CumulativeBorrowingFactorLong  string `json:"cumulative_borrowing_factor_long"`
	CumulativeBorrowingFactorShort string `json:"cumulative_borrowing_factor_short"`

	FundingFactorPerSecond         string             `json:"funding_factor_per_second"`
	LongsPayShorts                 bool               `json:"longs_pay_shorts,omitempty"`
	FundingIncreaseFactorPerSecond string             `json:"funding_increase_factor_per_second"`
	FundingDecreaseFactorPerSecond string             `json:"funding_decrease_factor_per_second"`
	MinFundingFactorPerSecond      string             `json:"min_funding_factor_per_second"`
	MaxFundingFactorPerSecond      string             `json:"max_funding_factor_per_second"`
	ThresholdForStableFunding      string             `json:"threshold_for_stable_funding"`
	ThresholdForDecreaseFunding    string             `json:"threshold_for_decrease_funding"`
	FundingFeePerSizeLong          fundingPerSizeJSON `json:"funding_fee_per_size_long"`
	FundingFeePerSizeShort         fundingPerSizeJSON `json:"funding_fee_per_size_short"`

	PositionImpactFactorPositive           string `json:"position_impact_factor_positive"`
	PositionImpactFactorNegative           string `json:"position_impact_factor_negative"`
	PositionImpactExponentFactor           string `json:"position_impact_exponent_factor"`
	MaxPositionImpactFactorPositive        string `json:"max_position_impact_factor_positive"`
	MaxPositionImpactFactorNegative        string `json:"max_position_impact_factor_negative"`
	MaxPositionImpactFactorForLiquidations string `json:"max_position_impact_factor_for_liquidations"`
	PositionImpactPoolAmount               string `json:"position_impact_pool_amount"`

	SwapImpactFactorPositive  string `json:"swap_impact_factor_positive"`
	SwapImpactFactorNegative  string `json:"swap_impact_factor_negative"`
	SwapImpactExponentFactor  string `json:"swap_impact_exponent_factor"`
	SwapImpactPoolAmountLong  string `json:"swap_impact_pool_amount_long"`
	SwapImpactPoolAmountShort string `json:"swap_impact_pool_amount_short"`

	SwapFeeFactorForPositiveImpact     string `json:"swap_fee_factor_for_positive_impact"`
	SwapFeeFactorForNegativeImpact     string `json:"swap_fee_factor_for_negative_impact"`
	PositionFeeFactorForPositiveImpact string `json:"position_fee_factor_for_positive_impact"`
	PositionFeeFactorForNegativeImpact string `json:"position_fee_factor_for_negative_impact"`

	MinCollateralFactor         string `json:"min_collateral_factor"`
	MaxPnlFactorForTradersLong  string `json:"max_pnl_factor_for_traders_long"`
	MaxPnlFactorForTradersShort string `json:"max_pnl_factor_for_traders_short"`

	VirtualPoolAmountForLongToken  string `json:"virtual_pool_amount_for_long_token"`
	VirtualPoolAmountForShortToken string `json:"virtual_pool_amount_for_short_token"`
	VirtualInventoryForPositions   string `json:"virtual_inventory_for_positions"`
	HasVirtualInventory            bool   `json:"has_virtual_inventory,omitempty"`
}

type snapshotJSON struct {
	ChainID     uint64       `json:"chain_id"`
	BlockNumber uint64       `json:"block_number"`
	Timestamp   uint64       `json:"timestamp"`
	Tokens      []tokenJSON  `json:"tokens"`
	Markets     []marketJSON `json:"markets"`
}

// amountParser parses decimal-string amounts and remembers the first
// failure, so decoders do not need an error check per field.
type amountParser struct {
	err error
}

func (p *amountParser) parse(field, s string) *big.Int {
	if p.err != nil {
		return new(big.Int)
	}
	if s == "" {
		return new(big.Int)
	}
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		p.err = fmt.Errorf("field %s: invalid integer %q", field, s)
		return new(big.Int)
	}
	return v
}

func (p *amountParser) address(field, s string) common.Address {
	if p.err != nil {
		return common.Address{}
	}
	if !common.IsHexAddress(s) {
		p.err = fmt.Errorf("field %s: invalid address %q", field, s)
		return common.Address{}
	}
	return common.HexToAddress(s)
}

func formatAmount(v *big.Int) string {
	if v == nil {
		return "0"
	}
	return v.String()
}

// Encode serializes a snapshot into indented JSON.
func Encode(s *model.Snapshot) ([]byte, error) {
	doc := snapshotJSON{
		ChainID:     s.ChainID,
		BlockNumber: s.BlockNumber,
		Timestamp:   s.Timestamp,
		Tokens:      make([]tokenJSON, 0, len(s.Tokens)),
		Markets:     make([]marketJSON, 0, len(s.Markets)),
	}

	for _, t := range s.Tokens {
		doc.Tokens = append(doc.Tokens, tokenJSON{
			Address:     t.Address.Hex(),
			Symbol:      t.Symbol,
			Decimals:    t.Decimals,
			IsStable:    t.IsStable,
			IsShortable: t.IsShortable,
			IsSynthetic: t.IsSynthetic,
			IsNative:    t.IsNative,
			MinPrice:    formatAmount(t.Prices.Min),
			MaxPrice:    formatAmount(t.Prices.Max),
		})
	}

	for _, m := range s.Markets {
		doc.Markets = append(doc.Markets, encodeMarket(m))
	}

	return json.MarshalIndent(doc, "", "  ")
}

func encodeMarket(m *model.Market) marketJSON {
	return marketJSON{
		Address:    m.Address.Hex(),
		Name:       m.Name,
		IndexToken: m.IndexToken.Address.Hex(),
		LongToken:  m.LongToken.Address.Hex(),
		ShortToken: m.ShortToken.Address.Hex(),

		IsDisabled:        m.IsDisabled,
		IsSameCollaterals: m.IsSameCollaterals,

		LongPoolAmount:     formatAmount(m.LongPoolAmount),
		ShortPoolAmount:    formatAmount(m.ShortPoolAmount),
		MaxLongPoolAmount:  formatAmount(m.MaxLongPoolAmount),
		MaxShortPoolAmount: formatAmount(m.MaxShortPoolAmount),

		LongInterestUsd:       formatAmount(m.LongInterestUsd),
		ShortInterestUsd:      formatAmount(m.ShortInterestUsd),
		LongInterestInTokens:  formatAmount(m.LongInterestInTokens),
		ShortInterestInTokens: formatAmount(m.ShortInterestInTokens),
		MaxOpenInterestLong:   formatAmount(m.MaxOpenInterestLong),
		MaxOpenInterestShort:  formatAmount(m.MaxOpenInterestShort),

		ReserveFactorLong:              formatAmount(m.ReserveFactorLong),
		ReserveFactorShort:             formatAmount(m.ReserveFactorShort),
		OpenInterestReserveFactorLong:  formatAmount(m.OpenInterestReserveFactorLong),
		OpenInterestReserveFactorShort: formatAmount(m.OpenInterestReserveFactorShort),

		BorrowingFactorLong:            formatAmount(m.BorrowingFactorLong),
		BorrowingFactorShort:           formatAmount(m.BorrowingFactorShort),
		BorrowingExponentFactorLong:    formatAmount(m.BorrowingExponentFactorLong),
		BorrowingExponentFactorShort:   formatAmount(m.BorrowingExponentFactorShort),
		CumulativeBorrowingFactorLong:  formatAmount(m.CumulativeBorrowingFactorLong),
		CumulativeBorrowingFactorShort: formatAmount(m.CumulativeBorrowingFactorShort),

		FundingFactorPerSecond:         formatAmount(m.FundingFactorPerSecond),
		LongsPayShorts:                 m.LongsPayShorts,
		FundingIncreaseFactorPerSecond: formatAmount(m.FundingIncreaseFactorPerSecond),
		FundingDecreaseFactorPerSecond: formatAmount(m.FundingDecreaseFactorPerSecond),
		MinFundingFactorPerSecond:      formatAmount(m.MinFundingFactorPerSecond),
		MaxFundingFactorPerSecond:      formatAmount(m.MaxFundingFactorPerSecond),
		ThresholdForStableFunding:      formatAmount(m.ThresholdForStableFunding),
		ThresholdForDecreaseFunding:    formatAmount(m.ThresholdForDecreaseFunding),
		FundingFeePerSizeLong: fundingPerSizeJSON{
			LongToken:  formatAmount(m.FundingFeePerSizeLong.LongToken),
			ShortToken: formatAmount(m.FundingFeePerSizeLong.ShortToken),
		},
		FundingFeePerSizeShort: fundingPerSizeJSON{
			LongToken:  formatAmount(m.FundingFeePerSizeShort.LongToken),
			ShortToken: formatAmount(m.FundingFeePerSizeShort.ShortToken),
		},

		PositionImpactFactorPositive:           formatAmount(m.PositionImpactFactorPositive),
		PositionImpactFactorNegative:           formatAmount(m.PositionImpactFactorNegative),
		PositionImpactExponentFactor:           formatAmount(m.PositionImpactExponentFactor),
		MaxPositionImpactFactorPositive:        formatAmount(m.MaxPositionImpactFactorPositive),
		MaxPositionImpactFactorNegative:        formatAmount(m.MaxPositionImpactFactorNegative),
		MaxPositionImpactFactorForLiquidations: formatAmount(m.MaxPositionImpactFactorForLiquidations),
		PositionImpactPoolAmount:               formatAmount(m.PositionImpactPoolAmount),

		SwapImpactFactorPositive:  formatAmount(m.SwapImpactFactorPositive),
		SwapImpactFactorNegative:  formatAmount(m.SwapImpactFactorNegative),
		SwapImpactExponentFactor:  formatAmount(m.SwapImpactExponentFactor),
		SwapImpactPoolAmountLong:  formatAmount(m.SwapImpactPoolAmountLong),
		SwapImpactPoolAmountShort: formatAmount(m.SwapImpactPoolAmountShort),

		SwapFeeFactorForPositiveImpact:     formatAmount(m.SwapFeeFactorForPositiveImpact),
		SwapFeeFactorForNegativeImpact:     formatAmount(m.SwapFeeFactorForNegativeImpact),
		PositionFeeFactorForPositiveImpact: formatAmount(m.PositionFeeFactorForPositiveImpact),
		PositionFeeFactorForNegativeImpact: formatAmount(m.PositionFeeFactorForNegativeImpact),

		MinCollateralFactor:         formatAmount(m.MinCollateralFactor),
		MaxPnlFactorForTradersLong:  formatAmount(m.MaxPnlFactorForTradersLong),
		MaxPnlFactorForTradersShort: formatAmount(m.MaxPnlFactorForTradersShort),

		VirtualPoolAmountForLongToken:  formatAmount(m.VirtualPoolAmountForLongToken),
		VirtualPoolAmountForShortToken: formatAmount(m.VirtualPoolAmountForShortToken),
		VirtualInventoryForPositions:   formatAmount(m.VirtualInventoryForPositions),
		HasVirtualInventory:            m.HasVirtualInventory,
	}
}

// Decode parses a snapshot document, resolving market token references
// against the token list.
func Decode(data []byte) (*model.Snapshot, error) {
	var doc snapshotJSON
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse snapshot: %w", err)
	}

	snap := &model.Snapshot{
		ChainID:     doc.ChainID,
		BlockNumber: doc.BlockNumber,
		Timestamp:   doc.Timestamp,
		Tokens:      make([]*model.Token, 0, len(doc.Tokens)),
		Markets:     make([]*model.Market, 0, len(doc.Markets)),
	}

	for i, tj := range doc.Tokens {
		p := &amountParser{}
		token := &model.Token{
			Address:     p.address("address", tj.Address),
			Symbol:      tj.Symbol,
			Decimals:    tj.Decimals,
			IsStable:    tj.IsStable,
			IsShortable: tj.IsShortable,
			IsSynthetic: tj.IsSynthetic,
			IsNative:    tj.IsNative,
			Prices: model.TokenPrices{
				Min: p.parse("min_price", tj.MinPrice),
				Max: p.parse("max_price", tj.MaxPrice),
			},
		}
		if p.err != nil {
			return nil, fmt.Errorf("token %d (%s): %w", i, tj.Symbol, p.err)
		}
		snap.Tokens = append(snap.Tokens, token)
	}

	for i, mj := range doc.Markets {
		market, err := decodeMarket(snap, mj)
		if err != nil {
			return nil, fmt.Errorf("market %d (%s): %w", i, mj.Name, err)
		}
		snap.Markets = append(snap.Markets, market)
	}

	return snap, nil
}

func decodeMarket(snap *model.Snapshot, mj marketJSON) (*model.Market, error) {
	p := &amountParser{}

	indexToken := snap.TokenByAddress(p.address("index_token", mj.IndexToken))
	longToken := snap.TokenByAddress(p.address("long_token", mj.LongToken))
	shortToken := snap.TokenByAddress(p.address("short_token", mj.ShortToken))
	if p.err != nil {
		return nil, p.err
	}
	if indexToken == nil || longToken == nil || shortToken == nil {
		return nil, fmt.Errorf("references a token missing from the token list")
	}

	m := &model.Market{
		Address:    p.address("address", mj.Address),
		Name:       mj.Name,
		IndexToken: indexToken,
		LongToken:  longToken,
		ShortToken: shortToken,

		IsDisabled:        mj.IsDisabled,
		IsSameCollaterals: mj.IsSameCollaterals,

		LongPoolAmount:     p.parse("long_pool_amount", mj.LongPoolAmount),
		ShortPoolAmount:    p.parse("short_pool_amount", mj.ShortPoolAmount),
		MaxLongPoolAmount:  p.parse("max_long_pool_amount", mj.MaxLongPoolAmount),
		MaxShortPoolAmount: p.parse("max_short_pool_amount", mj.MaxShortPoolAmount),

		LongInterestUsd:       p.parse("long_interest_usd", mj.LongInterestUsd),
		ShortInterestUsd:      p.parse("short_interest_usd", mj.ShortInterestUsd),
		LongInterestInTokens:  p.parse("long_interest_in_tokens", mj.LongInterestInTokens),
		ShortInterestInTokens: p.parse("short_interest_in_tokens", mj.ShortInterestInTokens),
		MaxOpenInterestLong:   p.parse("max_open_interest_long", mj.MaxOpenInterestLong),
		MaxOpenInterestShort:  p.parse("max_open_interest_short", mj.MaxOpenInterestShort),

		ReserveFactorLong:              p.parse("reserve_factor_long", mj.ReserveFactorLong),
		ReserveFactorShort:             p.parse("reserve_factor_short", mj.ReserveFactorShort),
		OpenInterestReserveFactorLong:  p.parse("open_interest_reserve_factor_long", mj.OpenInterestReserveFactorLong),
		OpenInterestReserveFactorShort: p.parse("open_interest_reserve_factor_short", mj.OpenInterestReserveFactorShort),

		BorrowingFactorLong:            p.parse("borrowing_factor_long", mj.BorrowingFactorLong),
		BorrowingFactorShort:           p.parse("borrowing_factor_short", mj.BorrowingFactorShort),
		BorrowingExponentFactorLong:    p.parse("borrowing_exponent_factor_long", mj.BorrowingExponentFactorLong),
		BorrowingExponentFactorShort:   p.parse("borrowing_exponent_factor_short", mj.BorrowingExponentFactorShort),
		CumulativeBorrowingFactorLong:  p.parse("cumulative_borrowing_factor_long", mj.CumulativeBorrowingFactorLong),
		CumulativeBorrowingFactorShort: p.parse("cumulative_borrowing_factor_short", mj.CumulativeBorrowingFactorShort),

		FundingFactorPerSecond:         p.parse("funding_factor_per_second", mj.FundingFactorPerSecond),
		LongsPayShorts:                 mj.LongsPayShorts,
		FundingIncreaseFactorPerSecond: p.parse("funding_increase_factor_per_second", mj.FundingIncreaseFactorPerSecond),
		FundingDecreaseFactorPerSecond: p.parse("funding_decrease_factor_per_second", mj.FundingDecreaseFactorPerSecond),
		MinFundingFactorPerSecond:      p.parse("min_funding_factor_per_second", mj.MinFundingFactorPerSecond),
		MaxFundingFactorPerSecond:      p.parse("max_funding_factor_per_second", mj.MaxFundingFactorPerSecond),
		ThresholdForStableFunding:      p.parse("threshold_for_stable_funding", mj.ThresholdForStableFunding),
		ThresholdForDecreaseFunding:    p.parse("threshold_for_decrease_funding", mj.ThresholdForDecreaseFunding),
		FundingFeePerSizeLong: model.FundingPerSize{
			LongToken:  p.parse("funding_fee_per_size_long.long_token", mj.FundingFeePerSizeLong.LongToken),
			ShortToken: p.parse("funding_fee_per_size_long.short_token", mj.FundingFeePerSizeLong.ShortToken),
		},
		FundingFeePerSizeShort: model.FundingPerSize{
			LongToken:  p.parse("funding_fee_per_size_short.long_token", mj.FundingFeePerSizeShort.LongToken),
			ShortToken: p.parse("funding_fee_per_size_short.short_token", mj.FundingFeePerSizeShort.ShortToken),
		},

		PositionImpactFactorPositive:           p.parse("position_impact_factor_positive", mj.PositionImpactFactorPositive),
		PositionImpactFactorNegative:           p.parse("position_impact_factor_negative", mj.PositionImpactFactorNegative),
		PositionImpactExponentFactor:           p.parse("position_impact_exponent_factor", mj.PositionImpactExponentFactor),
		MaxPositionImpactFactorPositive:        p.parse("max_position_impact_factor_positive", mj.MaxPositionImpactFactorPositive),
		MaxPositionImpactFactorNegative:        p.parse("max_position_impact_factor_negative", mj.MaxPositionImpactFactorNegative),
		MaxPositionImpactFactorForLiquidations: p.parse("max_position_impact_factor_for_liquidations", mj.MaxPositionImpactFactorForLiquidations),
		PositionImpactPoolAmount:               p.parse("position_impact_pool_amount", mj.PositionImpactPoolAmount),

		SwapImpactFactorPositive:  p.parse("swap_impact_factor_positive", mj.SwapImpactFactorPositive),
		SwapImpactFactorNegative:  p.parse("swap_impact_factor_negative", mj.SwapImpactFactorNegative),
		SwapImpactExponentFactor:  p.parse("swap_impact_exponent_factor", mj.SwapImpactExponentFactor),
		SwapImpactPoolAmountLong:  p.parse("swap_impact_pool_amount_long", mj.SwapImpactPoolAmountLong),
		SwapImpactPoolAmountShort: p.parse("swap_impact_pool_amount_short", mj.SwapImpactPoolAmountShort),

		SwapFeeFactorForPositiveImpact:     p.parse("swap_fee_factor_for_positive_impact", mj.SwapFeeFactorForPositiveImpact),
		SwapFeeFactorForNegativeImpact:     p.parse("swap_fee_factor_for_negative_impact", mj.SwapFeeFactorForNegativeImpact),
		PositionFeeFactorForPositiveImpact: p.parse("position_fee_factor_for_positive_impact", mj.PositionFeeFactorForPositiveImpact),
		PositionFeeFactorForNegativeImpact: p.parse("position_fee_factor_for_negative_impact", mj.PositionFeeFactorForNegativeImpact),

		MinCollateralFactor:         p.parse("min_collateral_factor", mj.MinCollateralFactor),
		MaxPnlFactorForTradersLong:  p.parse("max_pnl_factor_for_traders_long", mj.MaxPnlFactorForTradersLong),
		MaxPnlFactorForTradersShort: p.parse("max_pnl_factor_for_traders_short", mj.MaxPnlFactorForTradersShort),

		VirtualPoolAmountForLongToken:  p.parse("virtual_pool_amount_for_long_token", mj.VirtualPoolAmountForLongToken),
		VirtualPoolAmountForShortToken: p.parse("virtual_pool_amount_for_short_token", mj.VirtualPoolAmountForShortToken),
		VirtualInventoryForPositions:   p.parse("virtual_inventory_for_positions", mj.VirtualInventoryForPositions),
		HasVirtualInventory:            mj.HasVirtualInventory,
	}
	if p.err != nil {
		return nil, p.err
	}
	return m, nil
}
