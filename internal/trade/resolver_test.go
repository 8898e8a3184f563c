package trade

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lmedesk/internal/holidays"
)

func newTestResolver(t *testing.T, policy Policy) *Resolver {
	t.Helper()
	r, err := NewResolver(holidays.NewSet(), policy)
	require.NoError(t, err)
	return r
}

func TestResolveSwapRequests(t *testing.T) {
	tests := []struct {
		name    string
		policy  Policy
		trade   Trade
		want    string
		wantErr string
	}{
		{
			name:   "avg against avg",
			policy: DefaultPolicy(),
			trade: Trade{
				Kind:     KindSwap,
				Quantity: "10",
				Leg1:     Leg{Side: SideBuy, Type: TypeAVG, Month: "January", Year: 2025},
				Leg2:     Leg{Side: SideSell, Type: TypeAVG, Month: "February", Year: 2025},
			},
			want: "LME Request: Buy 10 mt Al AVG January 2025 Flat and Sell 10 mt Al AVG February 2025 Flat against",
		},
		{
			name:   "fix rides avg settlement cycle and lists first",
			policy: DefaultPolicy(),
			trade: Trade{
				Kind:     KindSwap,
				Quantity: "5",
				Leg1:     Leg{Side: SideBuy, Type: TypeAVG, Month: "January", Year: 2025},
				Leg2:     Leg{Side: SideSell, Type: TypeFix, FixDate: "2025-01-02"},
			},
			want: "LME Request: Sell 5 mt Al USD ppt 04/02/25 and Buy 5 mt Al AVG January 2025 Flat against",
		},
		{
			name:   "fix without a date still resolves by default",
			policy: DefaultPolicy(),
			trade: Trade{
				Kind:     KindSwap,
				Quantity: "5",
				Leg1:     Leg{Side: SideBuy, Type: TypeAVG, Month: "January", Year: 2025},
				Leg2:     Leg{Side: SideSell, Type: TypeFix},
			},
			want: "LME Request: Sell 5 mt Al USD ppt 04/02/25 and Buy 5 mt Al AVG January 2025 Flat against",
		},
		{
			name:   "shared ppt shows on the avg leg too",
			policy: DefaultPolicy(),
			trade: Trade{
				Kind:     KindSwap,
				Quantity: "3",
				Leg1:     Leg{Side: SideBuy, Type: TypeFix, SharePPT: true},
				Leg2:     Leg{Side: SideSell, Type: TypeAVG, Month: "February", Year: 2025},
			},
			want: "LME Request: Buy 3 mt Al USD ppt 04/03/25 and Sell 3 mt Al AVG February 2025 ppt 04/03/25 Flat against",
		},
		{
			name:   "honor fix date settles on the manual date",
			policy: Policy{HonorFixDate: true, InstructionsForC2R: true},
			trade: Trade{
				Kind:     KindSwap,
				Quantity: "5",
				Leg1:     Leg{Side: SideBuy, Type: TypeAVG, Month: "January", Year: 2025},
				Leg2:     Leg{Side: SideSell, Type: TypeFix, FixDate: "2025-01-02"},
			},
			want: "LME Request: Sell 5 mt Al USD ppt 06/01/25 and Buy 5 mt Al AVG January 2025 ppt 04/02/25 Flat against",
		},
		{
			name:   "honor fix date requires the date",
			policy: Policy{HonorFixDate: true, InstructionsForC2R: true},
			trade: Trade{
				Kind:     KindSwap,
				Quantity: "5",
				Leg1:     Leg{Side: SideBuy, Type: TypeAVG, Month: "January", Year: 2025},
				Leg2:     Leg{Side: SideSell, Type: TypeFix},
			},
			wantErr: "Please provide a fixing date.",
		},
		{
			name:   "fixing date past the pricing month",
			policy: DefaultPolicy(),
			trade: Trade{
				Kind:     KindSwap,
				Quantity: "5",
				Leg1:     Leg{Side: SideBuy, Type: TypeAVG, Month: "January", Year: 2025},
				Leg2:     Leg{Side: SideSell, Type: TypeFix, FixDate: "2025-02-03"},
			},
			wantErr: "Fixing date cannot be after 31/01/25.",
		},
		{
			name:   "c2r shows its fixing date and lists first",
			policy: DefaultPolicy(),
			trade: Trade{
				Kind:     KindSwap,
				Quantity: "7",
				Leg1:     Leg{Side: SideBuy, Type: TypeAVG, Month: "January", Year: 2025},
				Leg2:     Leg{Side: SideSell, Type: TypeC2R, FixDate: "2025-01-02"},
			},
			want: "LME Request: Sell 7 mt Al C2R 02/01/25 ppt 06/01/25 and Buy 7 mt Al AVG January 2025 Flat against",
		},
		{
			name:   "averaging period against avg",
			policy: DefaultPolicy(),
			trade: Trade{
				Kind:     KindSwap,
				Quantity: "5",
				Leg1:     Leg{Side: SideBuy, Type: TypeAVGInter, StartDate: "2025-09-01", EndDate: "2025-09-10"},
				Leg2:     Leg{Side: SideSell, Type: TypeAVG, Month: "October", Year: 2025},
			},
			want: "LME Request: Buy 5 mt Al Fixing AVG 01/09/25 to 10/09/25 and Sell 5 mt Al AVG October 2025 Flat against",
		},
		{
			name:   "averaging period sharing the avg ppt",
			policy: DefaultPolicy(),
			trade: Trade{
				Kind:     KindSwap,
				Quantity: "5",
				Leg1:     Leg{Side: SideBuy, Type: TypeAVGInter, StartDate: "2025-09-01", EndDate: "2025-09-10", SharePPT: true},
				Leg2:     Leg{Side: SideSell, Type: TypeAVG, Month: "October", Year: 2025},
			},
			want: "LME Request: Buy 5 mt Al Fixing AVG 01/09/25 to 10/09/25, ppt 04/11/25 and Sell 5 mt Al AVG October 2025 Flat against",
		},
		{
			name:   "fix settles off the averaging period end",
			policy: DefaultPolicy(),
			trade: Trade{
				Kind:     KindSwap,
				Quantity: "5",
				Leg1:     Leg{Side: SideBuy, Type: TypeAVGInter, StartDate: "2025-09-01", EndDate: "2025-09-10"},
				Leg2:     Leg{Side: SideSell, Type: TypeFix},
			},
			want: "LME Request: Sell 5 mt Al USD ppt 12/09/25 and Buy 5 mt Al Fixing AVG 01/09/25 to 10/09/25 against",
		},
		{
			name:   "fix against fix keeps leg order",
			policy: DefaultPolicy(),
			trade: Trade{
				Kind:     KindSwap,
				Quantity: "2",
				Leg1:     Leg{Side: SideBuy, Type: TypeFix, FixDate: "2025-01-02"},
				Leg2:     Leg{Side: SideSell, Type: TypeFix, FixDate: "2025-01-10"},
			},
			want: "LME Request: Buy 2 mt Al USD ppt 06/01/25 and Sell 2 mt Al USD ppt 14/01/25 against",
		},
		{
			name:   "decimal quantity renders as entered",
			policy: DefaultPolicy(),
			trade: Trade{
				Kind:     KindSwap,
				Quantity: "7.5",
				Leg1:     Leg{Side: SideBuy, Type: TypeAVG, Month: "March", Year: 2025},
				Leg2:     Leg{Side: SideSell, Type: TypeAVG, Month: "April", Year: 2025},
			},
			want: "LME Request: Buy 7.5 mt Al AVG March 2025 Flat and Sell 7.5 mt Al AVG April 2025 Flat against",
		},
		{
			name:   "defaults fill sides and type",
			policy: DefaultPolicy(),
			trade: Trade{
				Kind:     KindSwap,
				Quantity: "4",
				Leg1:     Leg{Month: "January", Year: 2025},
				Leg2:     Leg{Type: TypeAVG, Month: "February", Year: 2025},
			},
			want: "LME Request: Buy 4 mt Al AVG January 2025 Flat and Sell 4 mt Al AVG February 2025 Flat against",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestResolver(t, tt.policy)
			res, err := r.Resolve(tt.trade)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.EqualError(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, res.RequestText)
		})
	}
}

func TestResolveValidation(t *testing.T) {
	tests := []struct {
		name      string
		trade     Trade
		wantKind  ErrorKind
		wantMsg   string
		wantField string
	}{
		{
			name:      "empty quantity",
			trade:     Trade{Quantity: "", Leg1: Leg{Type: TypeAVG, Month: "January", Year: 2025}},
			wantKind:  KindInvalidQuantity,
			wantMsg:   "Please enter a valid quantity.",
			wantField: "quantity",
		},
		{
			name:      "non numeric quantity",
			trade:     Trade{Quantity: "abc", Leg1: Leg{Type: TypeAVG, Month: "January", Year: 2025}},
			wantKind:  KindInvalidQuantity,
			wantMsg:   "Please enter a valid quantity.",
			wantField: "quantity",
		},
		{
			name:      "zero quantity",
			trade:     Trade{Quantity: "0", Leg1: Leg{Type: TypeAVG, Month: "January", Year: 2025}},
			wantKind:  KindNonPositiveQuantity,
			wantMsg:   "Quantity must be greater than zero.",
			wantField: "quantity",
		},
		{
			name:      "negative quantity",
			trade:     Trade{Quantity: "-3", Leg1: Leg{Type: TypeAVG, Month: "January", Year: 2025}},
			wantKind:  KindNonPositiveQuantity,
			wantMsg:   "Quantity must be greater than zero.",
			wantField: "quantity",
		},
		{
			name: "unknown pricing type",
			trade: Trade{
				Quantity: "5",
				Leg1:     Leg{Type: PriceType("Weird")},
				Leg2:     Leg{Type: TypeAVG, Month: "January", Year: 2025},
			},
			wantKind:  KindInvalidType,
			wantMsg:   "Unknown pricing type.",
			wantField: "leg1.type",
		},
		{
			name: "bad month name",
			trade: Trade{
				Quantity: "5",
				Leg1:     Leg{Type: TypeAVG, Month: "Januray", Year: 2025},
				Leg2:     Leg{Type: TypeAVG, Month: "February", Year: 2025},
			},
			wantKind:  KindInvalidDate,
			wantMsg:   "Pricing month is invalid.",
			wantField: "leg1.month",
		},
		{
			name: "missing year",
			trade: Trade{
				Quantity: "5",
				Leg1:     Leg{Type: TypeAVG, Month: "January"},
				Leg2:     Leg{Type: TypeAVG, Month: "February", Year: 2025},
			},
			wantKind:  KindInvalidDate,
			wantMsg:   "Pricing year is invalid.",
			wantField: "leg1.year",
		},
		{
			name: "averaging period missing end",
			trade: Trade{
				Quantity: "5",
				Leg1:     Leg{Type: TypeAVGInter, StartDate: "2025-09-01"},
				Leg2:     Leg{Type: TypeAVG, Month: "October", Year: 2025},
			},
			wantKind:  KindMissingDate,
			wantMsg:   "Start and end dates are required for the averaging period.",
			wantField: "leg1.end_date",
		},
		{
			name: "averaging period bad date",
			trade: Trade{
				Quantity: "5",
				Leg1:     Leg{Type: TypeAVGInter, StartDate: "2025-09-01", EndDate: "soon"},
				Leg2:     Leg{Type: TypeAVG, Month: "October", Year: 2025},
			},
			wantKind:  KindInvalidDate,
			wantMsg:   "Averaging period dates are invalid.",
			wantField: "leg1.end_date",
		},
		{
			name: "c2r without fixing date",
			trade: Trade{
				Quantity: "5",
				Leg1:     Leg{Type: TypeAVG, Month: "January", Year: 2025},
				Leg2:     Leg{Type: TypeC2R},
			},
			wantKind:  KindMissingDate,
			wantMsg:   "Please provide a fixing date.",
			wantField: "leg2.fix_date",
		},
		{
			name: "fix with unparsable date",
			trade: Trade{
				Quantity: "5",
				Leg1:     Leg{Type: TypeFix, FixDate: "2025-13-40"},
				Leg2:     Leg{Type: TypeFix, FixDate: "2025-01-02"},
			},
			wantKind:  KindInvalidDate,
			wantMsg:   "Fixing date is invalid.",
			wantField: "leg1.fix_date",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestResolver(t, DefaultPolicy())
			_, err := r.Resolve(tt.trade)
			require.Error(t, err)
			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.wantKind, ve.Kind)
			assert.Equal(t, tt.wantMsg, ve.Message)
			assert.Equal(t, tt.wantField, ve.Field)
		})
	}
}

func TestResolveForward(t *testing.T) {
	r := newTestResolver(t, DefaultPolicy())

	t.Run("single leg", func(t *testing.T) {
		res, err := r.Resolve(Trade{
			Kind:     KindForward,
			Quantity: "5",
			Leg1:     Leg{Side: SideBuy, Type: TypeFix, FixDate: "2025-01-02"},
		})
		require.NoError(t, err)
		assert.Equal(t, "LME Request: Buy 5 mt Al USD ppt 06/01/25", res.RequestText)
		require.Len(t, res.LegTexts, 1)
		assert.NotContains(t, res.RequestText, " against")
		assert.NotContains(t, res.RequestText, " and ")
	})

	t.Run("two legs without against", func(t *testing.T) {
		res, err := r.Resolve(Trade{
			Kind:     KindForward,
			Quantity: "5",
			Leg1:     Leg{Side: SideBuy, Type: TypeFix, FixDate: "2025-01-02"},
			Leg2:     Leg{Side: SideSell, Type: TypeFix, FixDate: "2025-01-10"},
		})
		require.NoError(t, err)
		assert.Equal(t, "LME Request: Buy 5 mt Al USD ppt 06/01/25 and Sell 5 mt Al USD ppt 14/01/25", res.RequestText)
	})

	t.Run("sync ppt uses the later date on both legs", func(t *testing.T) {
		res, err := r.Resolve(Trade{
			Kind:     KindForward,
			Quantity: "5",
			SyncPPT:  true,
			Leg1:     Leg{Side: SideBuy, Type: TypeFix, FixDate: "2025-01-02"},
			Leg2:     Leg{Side: SideSell, Type: TypeFix, FixDate: "2025-01-10"},
		})
		require.NoError(t, err)
		assert.Equal(t, "LME Request: Buy 5 mt Al USD ppt 14/01/25 and Sell 5 mt Al USD ppt 14/01/25", res.RequestText)
	})

	t.Run("sync ppt is a no-op for swaps", func(t *testing.T) {
		res, err := r.Resolve(Trade{
			Kind:     KindSwap,
			Quantity: "5",
			SyncPPT:  true,
			Leg1:     Leg{Side: SideBuy, Type: TypeFix, FixDate: "2025-01-02"},
			Leg2:     Leg{Side: SideSell, Type: TypeFix, FixDate: "2025-01-10"},
		})
		require.NoError(t, err)
		assert.Equal(t, "LME Request: Buy 5 mt Al USD ppt 06/01/25 and Sell 5 mt Al USD ppt 14/01/25 against", res.RequestText)
	})
}

func TestResolveIdempotent(t *testing.T) {
	r := newTestResolver(t, DefaultPolicy())
	trade := Trade{
		Kind:     KindSwap,
		Quantity: "5",
		Leg1:     Leg{Side: SideBuy, Type: TypeAVG, Month: "January", Year: 2025},
		Leg2:     Leg{Side: SideSell, Type: TypeFix, FixDate: "2025-01-02"},
	}
	first, err := r.Resolve(trade)
	require.NoError(t, err)
	second, err := r.Resolve(trade)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestResolveHolidayAware(t *testing.T) {
	set := holidays.NewSet()
	set.Add("2025-02-03")
	r, err := NewResolver(set, DefaultPolicy())
	require.NoError(t, err)

	res, err := r.Resolve(Trade{
		Kind:     KindSwap,
		Quantity: "5",
		Leg1:     Leg{Side: SideBuy, Type: TypeAVG, Month: "January", Year: 2025},
		Leg2:     Leg{Side: SideSell, Type: TypeFix},
	})
	require.NoError(t, err)
	assert.Equal(t, "LME Request: Sell 5 mt Al USD ppt 05/02/25 and Buy 5 mt Al AVG January 2025 Flat against", res.RequestText)
}
