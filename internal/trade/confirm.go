package trade

import "fmt"

// Localized month names for the confirmation sentence.
var ptMonths = [12]string{
	"janeiro", "fevereiro", "março", "abril", "maio", "junho",
	"julho", "agosto", "setembro", "outubro", "novembro", "dezembro",
}

func gerund(s Side) string {
	if s == SideSell {
		return "vendendo"
	}
	return "comprando"
}

// confirmation renders the Portuguese confirmation sentence from the same
// resolved data as the request line, so the two outputs never disagree about
// which leg prices against which date. The buying clause always comes first;
// the shared settlement date, when the pair has one, attaches after the first
// clause.
func (r *Resolver) confirmation(q string, outs [2]resolvedLeg, shared string) string {
	first, second := outs[0], outs[1]
	if second.leg.Side == SideBuy && first.leg.Side != SideBuy {
		first, second = second, first
	}
	if shared != "" {
		return fmt.Sprintf("Você está %s %s toneladas de Al %s, ppt %s, e %s %s toneladas de Al %s. Confirma?",
			gerund(first.leg.Side), q, first.phrase, shared,
			gerund(second.leg.Side), q, second.phrase)
	}
	return fmt.Sprintf("Você está %s %s toneladas de Al %s e %s %s toneladas de Al %s. Confirma?",
		gerund(first.leg.Side), q, first.phrase,
		gerund(second.leg.Side), q, second.phrase)
}

// confirmationSingle is the one-clause variant for single-leg forwards.
func (r *Resolver) confirmationSingle(q string, out resolvedLeg) string {
	if out.shown && !out.ppt.IsZero() {
		return fmt.Sprintf("Você está %s %s toneladas de Al %s, ppt %s. Confirma?",
			gerund(out.leg.Side), q, out.phrase, r.adapter.Format(out.ppt))
	}
	return fmt.Sprintf("Você está %s %s toneladas de Al %s. Confirma?",
		gerund(out.leg.Side), q, out.phrase)
}
