package trade

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixSwap(inst *Instruction, legType PriceType) Trade {
	return Trade{
		Kind:     KindSwap,
		Quantity: "5",
		Leg1:     Leg{Side: SideBuy, Type: TypeAVG, Month: "January", Year: 2025},
		Leg2:     Leg{Side: SideSell, Type: legType, FixDate: "2025-01-02", Instruction: inst},
	}
}

func TestInstructionLines(t *testing.T) {
	tests := []struct {
		name  string
		trade Trade
		want  []string
	}{
		{
			name:  "limit order with price",
			trade: fixSwap(&Instruction{Order: OrderLimit, LimitPrice: "2450.5"}, TypeFix),
			want:  []string{"Execution Instruction: Sell leg limit order at USD 2450.5, valid Day."},
		},
		{
			name:  "limit order without price",
			trade: fixSwap(&Instruction{Order: OrderLimit, Validity: "GTC"}, TypeFix),
			want:  []string{"Execution Instruction: Sell leg limit order, valid GTC."},
		},
		{
			name:  "range order",
			trade: fixSwap(&Instruction{Order: OrderRange, RangeFrom: "2400", RangeTo: "2450", Validity: "GTC"}, TypeFix),
			want:  []string{"Execution Instruction: Sell leg range order USD 2400 to 2450, valid GTC."},
		},
		{
			name:  "resting order",
			trade: fixSwap(&Instruction{Order: OrderResting}, TypeFix),
			want:  []string{"Execution Instruction: Sell leg resting order, best bid/offer in book, valid Day."},
		},
		{
			name:  "at market",
			trade: fixSwap(&Instruction{Order: OrderAtMarket}, TypeFix),
			want:  []string{"Execution Instruction: Sell leg at market, valid Day."},
		},
		{
			name:  "c2r carries instructions by default",
			trade: fixSwap(&Instruction{Order: OrderAtMarket}, TypeC2R),
			want:  []string{"Execution Instruction: Sell leg at market, valid Day."},
		},
		{
			name: "averaging legs never carry instructions",
			trade: Trade{
				Kind:     KindSwap,
				Quantity: "5",
				Leg1:     Leg{Side: SideBuy, Type: TypeAVG, Month: "January", Year: 2025, Instruction: &Instruction{Order: OrderAtMarket}},
				Leg2:     Leg{Side: SideSell, Type: TypeAVG, Month: "February", Year: 2025},
			},
			want: nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestResolver(t, DefaultPolicy())
			res, err := r.Resolve(tt.trade)
			require.NoError(t, err)
			assert.Equal(t, tt.want, res.Instructions)
		})
	}
}

func TestInstructionPolicySkipsC2R(t *testing.T) {
	r := newTestResolver(t, Policy{InstructionsForC2R: false})
	res, err := r.Resolve(fixSwap(&Instruction{Order: OrderAtMarket}, TypeC2R))
	require.NoError(t, err)
	assert.Empty(t, res.Instructions)
}

func TestInstructionsFollowDisplayOrder(t *testing.T) {
	r := newTestResolver(t, DefaultPolicy())
	res, err := r.Resolve(Trade{
		Kind:     KindSwap,
		Quantity: "2",
		Leg1:     Leg{Side: SideBuy, Type: TypeFix, FixDate: "2025-01-02", Instruction: &Instruction{Order: OrderLimit, LimitPrice: "2400"}},
		Leg2:     Leg{Side: SideSell, Type: TypeFix, FixDate: "2025-01-10", Instruction: &Instruction{Order: OrderAtMarket}},
	})
	require.NoError(t, err)
	require.Len(t, res.Instructions, 2)
	assert.Equal(t, "Execution Instruction: Buy leg limit order at USD 2400, valid Day.", res.Instructions[0])
	assert.Equal(t, "Execution Instruction: Sell leg at market, valid Day.", res.Instructions[1])
}
