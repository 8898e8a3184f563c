package trade

import "strings"

// Side is the direction of a single leg.
type Side string

const (
	SideBuy  Side = "Buy"
	SideSell Side = "Sell"
)

// PriceType is the pricing variant of a leg.
type PriceType string

const (
	// TypeAVG prices against the calendar-month average, settled on the
	// second business day of the following month.
	TypeAVG PriceType = "AVG"
	// TypeAVGInter prices against the average over an explicit date range.
	TypeAVGInter PriceType = "AVGInter"
	// TypeFix is a price fixed on a nominated date, cash-settled two
	// business days later.
	TypeFix PriceType = "Fix"
	// TypeC2R is the cash-settled fix variant; it always carries its own
	// fixing date.
	TypeC2R PriceType = "C2R"
)

// normalize maps the empty selection to AVG, the default pricing type.
func (p PriceType) normalize() PriceType {
	if p == "" {
		return TypeAVG
	}
	return p
}

func (p PriceType) fixed() bool     { return p == TypeFix || p == TypeC2R }
func (p PriceType) averaging() bool { return p == TypeAVG || p == TypeAVGInter }

// OrderType classifies the execution instruction on a fixed-price leg.
type OrderType string

const (
	OrderLimit    OrderType = "Limit"
	OrderRange    OrderType = "Range"
	OrderResting  OrderType = "Resting"
	OrderAtMarket OrderType = "AtMarket"
)

// Instruction is an optional execution instruction carried by a Fix or C2R
// leg. Prices are kept as entered and rendered verbatim.
type Instruction struct {
	Order      OrderType `json:"order" yaml:"order"`
	LimitPrice string    `json:"limit_price,omitempty" yaml:"limit_price"`
	RangeFrom  string    `json:"range_from,omitempty" yaml:"range_from"`
	RangeTo    string    `json:"range_to,omitempty" yaml:"range_to"`
	Validity   string    `json:"validity,omitempty" yaml:"validity"`
}

// Kind distinguishes paired swaps from forwards.
type Kind string

const (
	KindSwap    Kind = "Swap"
	KindForward Kind = "Forward"
)

// Leg describes one side of a trade. Month/Year apply to AVG legs,
// StartDate/EndDate (ISO yyyy-mm-dd) to AVGInter legs, FixDate to Fix and C2R
// legs. SharePPT marks the "use same ppt" toggle: a Fix leg rides the paired
// AVG leg's settlement cycle, an AVGInter leg displays the paired AVG leg's
// ppt inline.
type Leg struct {
	Side        Side         `json:"side" yaml:"side"`
	Type        PriceType    `json:"type" yaml:"type"`
	Month       string       `json:"month,omitempty" yaml:"month"`
	Year        int          `json:"year,omitempty" yaml:"year"`
	StartDate   string       `json:"start_date,omitempty" yaml:"start_date"`
	EndDate     string       `json:"end_date,omitempty" yaml:"end_date"`
	FixDate     string       `json:"fix_date,omitempty" yaml:"fix_date"`
	SharePPT    bool         `json:"share_ppt,omitempty" yaml:"share_ppt"`
	Instruction *Instruction `json:"instruction,omitempty" yaml:"instruction"`
}

// populated reports whether any field of the leg was filled in; a forward with
// an unpopulated second leg is resolved as a single-leg trade.
func (l Leg) populated() bool {
	return l.Side != "" || l.Type != "" || l.Month != "" || l.Year != 0 ||
		l.StartDate != "" || l.EndDate != "" || l.FixDate != "" || l.Instruction != nil
}

// Trade is one two-legged swap or forward. A single quantity drives both legs.
// Company is only used for output labeling. SyncPPT applies to two-legged
// forwards: both displayed settlement dates become the later of the two.
type Trade struct {
	Kind     Kind   `json:"kind" yaml:"kind"`
	Company  string `json:"company,omitempty" yaml:"company"`
	Quantity string `json:"quantity" yaml:"quantity"`
	SyncPPT  bool   `json:"sync_ppt,omitempty" yaml:"sync_ppt"`
	Leg1     Leg    `json:"leg1" yaml:"leg1"`
	Leg2     Leg    `json:"leg2" yaml:"leg2"`
}

// Result is the fully rendered outcome of resolving one trade. LegTexts and
// Instructions follow display order.
type Result struct {
	RequestText      string   `json:"request"`
	ConfirmationText string   `json:"confirmation"`
	LegTexts         []string `json:"legs"`
	Instructions     []string `json:"instructions,omitempty"`
}

var monthNames = [12]string{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

// monthIndex resolves an English month name to its zero-based index.
func monthIndex(name string) (int, bool) {
	for i, m := range monthNames {
		if strings.EqualFold(m, name) {
			return i, true
		}
	}
	return 0, false
}
