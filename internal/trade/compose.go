package trade

import (
	"errors"
	"strings"
)

// BatchResult is the outcome for one trade in a batch: either the rendered
// strings or a validation error. A failed trade contributes its error message
// as its output line and never affects the other trades.
type BatchResult struct {
	Request      string           `json:"request,omitempty"`
	Confirmation string           `json:"confirmation,omitempty"`
	Legs         []string         `json:"legs,omitempty"`
	Instructions []string         `json:"instructions,omitempty"`
	Error        *ValidationError `json:"error,omitempty"`
}

// ResolveBatch resolves every trade and aggregates the rendered lines into
// one final block. The company argument is a batch-level default applied to
// trades without their own tag; a trade's line is prefixed with its company
// label when one is active.
func (r *Resolver) ResolveBatch(company string, trades []Trade) ([]BatchResult, string) {
	results := make([]BatchResult, len(trades))
	var block []string
	for i, t := range trades {
		if t.Company == "" {
			t.Company = company
		}
		res, err := r.Resolve(t)
		if err != nil {
			ve := asValidationError(err)
			results[i] = BatchResult{Error: ve}
			block = append(block, label(t.Company, ve.Message))
			continue
		}
		results[i] = BatchResult{
			Request:      res.RequestText,
			Confirmation: res.ConfirmationText,
			Legs:         res.LegTexts,
			Instructions: res.Instructions,
		}
		block = append(block, label(t.Company, res.RequestText))
		block = append(block, res.Instructions...)
	}
	return results, strings.Join(block, "\n")
}

func label(company, line string) string {
	if company == "" {
		return line
	}
	return company + ": " + line
}

func asValidationError(err error) *ValidationError {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve
	}
	return &ValidationError{Kind: KindInvalidType, Message: err.Error()}
}
