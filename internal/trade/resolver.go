package trade

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"lmedesk/internal/calendar"
	"lmedesk/internal/holidays"
)

// Policy captures the points where historical revisions of the desk tool
// disagreed. HonorFixDate switches a Fix leg paired with an AVG leg from
// riding the AVG month's settlement cycle (the default) to settling two
// business days after its manually entered fixing date, with the AVG
// counterpart then showing its own ppt inline. InstructionsForC2R controls
// whether execution instruction lines are emitted for C2R legs as well as Fix
// legs.
type Policy struct {
	HonorFixDate       bool          `json:"honor_fix_date" yaml:"honor_fix_date"`
	InstructionsForC2R bool          `json:"c2r_instructions" yaml:"c2r_instructions"`
	Calendar           calendar.Type `json:"calendar" yaml:"calendar"`
}

// DefaultPolicy follows the latest revision's behavior.
func DefaultPolicy() Policy {
	return Policy{InstructionsForC2R: true, Calendar: calendar.Gregorian}
}

// Resolver turns trades into rendered request and confirmation strings. It is
// stateless apart from the read-only holiday set, so concurrent resolutions
// are independent.
type Resolver struct {
	calc    *calendar.Calculator
	adapter calendar.Adapter
	policy  Policy
}

// NewResolver builds a resolver over the holiday set using the policy's
// calendar type.
func NewResolver(set *holidays.Set, policy Policy) (*Resolver, error) {
	calType := policy.Calendar
	if calType == "" {
		calType = calendar.Gregorian
	}
	adapter, err := calendar.ForType(calType)
	if err != nil {
		return nil, err
	}
	return &Resolver{
		calc:    calendar.NewCalculator(set, adapter),
		adapter: adapter,
		policy:  policy,
	}, nil
}

// Calculator exposes the underlying business-day calculator.
func (r *Resolver) Calculator() *calendar.Calculator { return r.calc }

// Policy returns the active resolution policy.
func (r *Resolver) Policy() Policy { return r.policy }

// legRef is a leg plus its original position, for error field names.
type legRef struct {
	Leg
	pos int
}

func (l legRef) field(name string) string {
	return fmt.Sprintf("leg%d.%s", l.pos, name)
}

// resolvedLeg is one leg after settlement resolution: a render function taking
// the ppt to display, the computed settlement date (zero when the leg has
// none), whether it is displayed, and the Portuguese confirmation phrase.
type resolvedLeg struct {
	leg    legRef
	render func(ppt string) string
	ppt    time.Time
	shown  bool
	phrase string
}

func (o resolvedLeg) text(a calendar.Adapter) string {
	if o.shown && !o.ppt.IsZero() {
		return o.render(a.Format(o.ppt))
	}
	return o.render("")
}

// Resolve validates and resolves a single trade into its rendered strings.
// Quantity validation runs first, then the pairing rules for the leg types.
func (r *Resolver) Resolve(t Trade) (*Result, error) {
	q, err := parseQuantity(t.Quantity)
	if err != nil {
		return nil, err
	}

	l1 := legRef{Leg: t.Leg1, pos: 1}
	l1.Type = l1.Type.normalize()
	if l1.Side == "" {
		l1.Side = SideBuy
	}
	if err := checkType(l1); err != nil {
		return nil, err
	}

	if t.Kind == KindForward && !t.Leg2.populated() {
		out, err := r.resolveSingle(q, l1)
		if err != nil {
			return nil, err
		}
		text := out.text(r.adapter)
		return &Result{
			RequestText:      "LME Request: " + text,
			ConfirmationText: r.confirmationSingle(q, out),
			LegTexts:         []string{text},
			Instructions:     r.instructionLines([]resolvedLeg{out}),
		}, nil
	}

	l2 := legRef{Leg: t.Leg2, pos: 2}
	l2.Type = l2.Type.normalize()
	if l2.Side == "" {
		l2.Side = SideSell
	}
	if err := checkType(l2); err != nil {
		return nil, err
	}

	outs, shared, err := r.resolvePair(q, l1, l2)
	if err != nil {
		return nil, err
	}

	// A fixed-price leg paired with an averaging leg is listed first;
	// same-family pairs keep their original order.
	if outs[1].leg.Type.fixed() && outs[0].leg.Type.averaging() {
		outs[0], outs[1] = outs[1], outs[0]
	}

	if t.Kind == KindForward && t.SyncPPT {
		syncLater(&outs)
	}

	texts := []string{outs[0].text(r.adapter), outs[1].text(r.adapter)}
	request := "LME Request: " + texts[0] + " and " + texts[1]
	if t.Kind != KindForward {
		request += " against"
	}

	return &Result{
		RequestText:      request,
		ConfirmationText: r.confirmation(q, outs, shared),
		LegTexts:         texts,
		Instructions:     r.instructionLines(outs[:]),
	}, nil
}

func checkType(l legRef) error {
	switch l.Type {
	case TypeAVG, TypeAVGInter, TypeFix, TypeC2R:
		return nil
	}
	return &ValidationError{Kind: KindInvalidType, Message: "Unknown pricing type.", Field: l.field("type")}
}

func parseQuantity(s string) (string, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return "", errInvalidQuantity()
	}
	if !d.IsPositive() {
		return "", errNonPositiveQuantity()
	}
	return d.String(), nil
}

// parseLegDate accepts ISO input (as produced by date fields) with the active
// calendar's display format as a fallback.
func (r *Resolver) parseLegDate(s string) (time.Time, bool) {
	if t, ok := calendar.ParseISO(s); ok {
		return t, true
	}
	return r.adapter.Parse(s)
}

func typeRank(p PriceType) int {
	switch p {
	case TypeAVG:
		return 0
	case TypeAVGInter:
		return 1
	case TypeFix:
		return 2
	default:
		return 3
	}
}

// resolvePair dispatches on the (type1, type2) pair. The pair is put in
// canonical rank order first so every combination is handled exactly once;
// the result is swapped back to original leg order.
func (r *Resolver) resolvePair(q string, l1, l2 legRef) ([2]resolvedLeg, string, error) {
	a, b := l1, l2
	swapped := false
	if typeRank(a.Type) > typeRank(b.Type) {
		a, b = b, a
		swapped = true
	}
	outs, shared, err := r.resolveCanonical(q, a, b)
	if err != nil {
		return outs, "", err
	}
	if swapped {
		outs[0], outs[1] = outs[1], outs[0]
	}
	return outs, shared, nil
}

func (r *Resolver) resolveCanonical(q string, a, b legRef) ([2]resolvedLeg, string, error) {
	var outs [2]resolvedLeg
	type pair struct{ a, b PriceType }

	switch (pair{a.Type, b.Type}) {
	case pair{TypeAVG, TypeAVG}:
		oa, _, _, err := r.avgLeg(q, a)
		if err != nil {
			return outs, "", err
		}
		ob, _, _, err := r.avgLeg(q, b)
		if err != nil {
			return outs, "", err
		}
		return [2]resolvedLeg{oa, ob}, "", nil

	case pair{TypeAVG, TypeAVGInter}:
		oa, year, month0, err := r.avgLeg(q, a)
		if err != nil {
			return outs, "", err
		}
		ob, _, _, err := r.interLeg(q, b)
		if err != nil {
			return outs, "", err
		}
		// The averaging-period leg's settlement rides on the AVG
		// leg's cycle; it is displayed when the share toggle is set.
		ob.ppt = r.calc.SecondBusinessDayDate(year, month0)
		ob.shown = b.SharePPT
		shared := ""
		if ob.shown {
			shared = r.adapter.Format(ob.ppt)
		}
		return [2]resolvedLeg{oa, ob}, shared, nil

	case pair{TypeAVG, TypeFix}:
		return r.resolveAVGFix(q, a, b)

	case pair{TypeAVG, TypeC2R}:
		oa, _, _, err := r.avgLeg(q, a)
		if err != nil {
			return outs, "", err
		}
		ob, err := r.c2rLeg(q, b)
		if err != nil {
			return outs, "", err
		}
		return [2]resolvedLeg{oa, ob}, "", nil

	case pair{TypeAVGInter, TypeAVGInter}:
		oa, _, _, err := r.interLeg(q, a)
		if err != nil {
			return outs, "", err
		}
		ob, _, _, err := r.interLeg(q, b)
		if err != nil {
			return outs, "", err
		}
		return [2]resolvedLeg{oa, ob}, "", nil

	case pair{TypeAVGInter, TypeFix}:
		oa, _, end, err := r.interLeg(q, a)
		if err != nil {
			return outs, "", err
		}
		// The fix leg settles off the averaging period's end date; a
		// manually entered fixing date is not consulted here.
		ob := r.fixOut(q, b)
		ob.ppt = r.calc.FixPPTFrom(end)
		ob.shown = true
		return [2]resolvedLeg{oa, ob}, "", nil

	case pair{TypeAVGInter, TypeC2R}:
		oa, _, _, err := r.interLeg(q, a)
		if err != nil {
			return outs, "", err
		}
		ob, err := r.c2rLeg(q, b)
		if err != nil {
			return outs, "", err
		}
		return [2]resolvedLeg{oa, ob}, "", nil

	case pair{TypeFix, TypeFix}:
		oa, err := r.fixOwnLeg(q, a)
		if err != nil {
			return outs, "", err
		}
		ob, err := r.fixOwnLeg(q, b)
		if err != nil {
			return outs, "", err
		}
		return [2]resolvedLeg{oa, ob}, "", nil

	case pair{TypeFix, TypeC2R}:
		oa, err := r.fixOwnLeg(q, a)
		if err != nil {
			return outs, "", err
		}
		ob, err := r.c2rLeg(q, b)
		if err != nil {
			return outs, "", err
		}
		return [2]resolvedLeg{oa, ob}, "", nil

	case pair{TypeC2R, TypeC2R}:
		oa, err := r.c2rLeg(q, a)
		if err != nil {
			return outs, "", err
		}
		ob, err := r.c2rLeg(q, b)
		if err != nil {
			return outs, "", err
		}
		return [2]resolvedLeg{oa, ob}, "", nil
	}

	return outs, "", &ValidationError{Kind: KindInvalidType, Message: "Unknown pricing type.", Field: a.field("type")}
}

// resolveAVGFix handles the AVG/Fix pairing, the case where the revisions
// disagreed. Default: the fix leg settles on the AVG month's second business
// day, a manual fixing date is only validated against the month's last
// business day, and the AVG leg stays plain unless the share toggle is set.
// HonorFixDate: the fix leg settles two business days after its own fixing
// date and the AVG leg shows its own ppt inline.
func (r *Resolver) resolveAVGFix(q string, a, f legRef) ([2]resolvedLeg, string, error) {
	var outs [2]resolvedLeg
	oa, year, month0, err := r.avgLeg(q, a)
	if err != nil {
		return outs, "", err
	}
	shared := oa.ppt

	var fixDate time.Time
	hasFixDate := f.FixDate != ""
	if hasFixDate {
		fd, ok := r.parseLegDate(f.FixDate)
		if !ok {
			return outs, "", errInvalidFixDate(f.field("fix_date"))
		}
		bound := r.calc.LastBusinessDayDate(year, month0)
		if fd.After(bound) {
			return outs, "", errFixDateBeyond(r.adapter.Format(bound), f.field("fix_date"))
		}
		fixDate = fd
	}

	of := r.fixOut(q, f)
	if r.policy.HonorFixDate && !f.SharePPT {
		if !hasFixDate {
			return outs, "", errMissingFixDate(f.field("fix_date"))
		}
		of.ppt = r.calc.FixPPTFrom(fixDate)
		of.shown = true
		oa.shown = true
	} else {
		of.ppt = shared
		of.shown = true
		oa.shown = f.SharePPT
	}
	return [2]resolvedLeg{oa, of}, r.adapter.Format(shared), nil
}

// avgLeg builds a flat-month averaging leg. Its natural ppt (the second
// business day after the pricing month) is computed up front but hidden until
// a pairing rule decides it should display.
func (r *Resolver) avgLeg(q string, l legRef) (resolvedLeg, int, int, error) {
	month0, ok := monthIndex(l.Month)
	if !ok {
		return resolvedLeg{}, 0, 0, errInvalidMonth(l.field("month"))
	}
	if l.Year < 1 {
		return resolvedLeg{}, 0, 0, &ValidationError{Kind: KindInvalidDate, Message: "Pricing year is invalid.", Field: l.field("year")}
	}
	name := monthNames[month0]
	side, year := l.Side, l.Year
	out := resolvedLeg{
		leg:    l,
		ppt:    r.calc.SecondBusinessDayDate(year, month0),
		phrase: fmt.Sprintf("pela média de %s/%d", ptMonths[month0], year),
		render: func(ppt string) string {
			s := fmt.Sprintf("%s %s mt Al AVG %s %d", side, q, name, year)
			if ppt != "" {
				s += " ppt " + ppt
			}
			return s + " Flat"
		},
	}
	return out, year, month0, nil
}

// interLeg builds an explicit-range averaging leg and returns the parsed
// range bounds.
func (r *Resolver) interLeg(q string, l legRef) (resolvedLeg, time.Time, time.Time, error) {
	if l.StartDate == "" {
		return resolvedLeg{}, time.Time{}, time.Time{}, errMissingRange(l.field("start_date"))
	}
	if l.EndDate == "" {
		return resolvedLeg{}, time.Time{}, time.Time{}, errMissingRange(l.field("end_date"))
	}
	start, ok := r.parseLegDate(l.StartDate)
	if !ok {
		return resolvedLeg{}, time.Time{}, time.Time{}, errInvalidRange(l.field("start_date"))
	}
	end, ok := r.parseLegDate(l.EndDate)
	if !ok {
		return resolvedLeg{}, time.Time{}, time.Time{}, errInvalidRange(l.field("end_date"))
	}
	startStr := r.adapter.Format(start)
	endStr := r.adapter.Format(end)
	side := l.Side
	out := resolvedLeg{
		leg:    l,
		phrase: fmt.Sprintf("pela média de %s a %s", startStr, endStr),
		render: func(ppt string) string {
			s := fmt.Sprintf("%s %s mt Al Fixing AVG %s to %s", side, q, startStr, endStr)
			if ppt != "" {
				s += ", ppt " + ppt
			}
			return s
		},
	}
	return out, start, end, nil
}

// fixOut builds the shell of a fixed-price leg; the caller decides its ppt.
func (r *Resolver) fixOut(q string, l legRef) resolvedLeg {
	side := l.Side
	return resolvedLeg{
		leg:    l,
		phrase: "com preço fixado",
		render: func(ppt string) string {
			return fmt.Sprintf("%s %s mt Al USD ppt %s", side, q, ppt)
		},
	}
}

// fixOwnLeg builds a fix leg that settles off its own mandatory fixing date.
func (r *Resolver) fixOwnLeg(q string, l legRef) (resolvedLeg, error) {
	if l.FixDate == "" {
		return resolvedLeg{}, errMissingFixDate(l.field("fix_date"))
	}
	fd, ok := r.parseLegDate(l.FixDate)
	if !ok {
		return resolvedLeg{}, errInvalidFixDate(l.field("fix_date"))
	}
	out := r.fixOut(q, l)
	out.ppt = r.calc.FixPPTFrom(fd)
	out.shown = true
	return out, nil
}

// c2rLeg builds a cash-settled fix leg; it always requires its own fixing
// date and displays it alongside the settlement date.
func (r *Resolver) c2rLeg(q string, l legRef) (resolvedLeg, error) {
	if l.FixDate == "" {
		return resolvedLeg{}, errMissingFixDate(l.field("fix_date"))
	}
	fd, ok := r.parseLegDate(l.FixDate)
	if !ok {
		return resolvedLeg{}, errInvalidFixDate(l.field("fix_date"))
	}
	fixStr := r.adapter.Format(fd)
	side := l.Side
	out := resolvedLeg{
		leg:    l,
		ppt:    r.calc.FixPPTFrom(fd),
		shown:  true,
		phrase: "com preço fixado em " + fixStr,
		render: func(ppt string) string {
			return fmt.Sprintf("%s %s mt Al C2R %s ppt %s", side, q, fixStr, ppt)
		},
	}
	return out, nil
}

// resolveSingle handles a forward with only the first leg populated.
func (r *Resolver) resolveSingle(q string, l legRef) (resolvedLeg, error) {
	switch l.Type {
	case TypeAVG:
		out, _, _, err := r.avgLeg(q, l)
		return out, err
	case TypeAVGInter:
		out, _, _, err := r.interLeg(q, l)
		return out, err
	case TypeFix:
		return r.fixOwnLeg(q, l)
	default:
		return r.c2rLeg(q, l)
	}
}

// syncLater overrides both displayed settlement dates with the later of the
// two. Legs without a natural settlement date are left alone.
func syncLater(outs *[2]resolvedLeg) {
	a, b := outs[0].ppt, outs[1].ppt
	if a.IsZero() || b.IsZero() {
		return
	}
	later := a
	if b.After(a) {
		later = b
	}
	outs[0].ppt, outs[1].ppt = later, later
	outs[0].shown, outs[1].shown = true, true
}
