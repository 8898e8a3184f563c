// Package trade holds the leg-pricing resolution engine: the Trade/Leg model,
// the pairing state machine that decides settlement dates and wording for each
// combination of leg pricing types, and the composers that produce the LME
// request line, the Portuguese confirmation sentence, and execution
// instruction lines. Everything here is a pure computation over the trade and
// the holiday set; resolving the same trade twice against an unchanged set
// yields identical strings.
package trade
