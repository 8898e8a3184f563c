package trade

// ErrorKind classifies a validation failure so the presentation layer can
// react without the engine knowing about field identifiers.
type ErrorKind string

const (
	KindInvalidQuantity     ErrorKind = "invalid_quantity"
	KindNonPositiveQuantity ErrorKind = "nonpositive_quantity"
	KindMissingDate         ErrorKind = "missing_date"
	KindInvalidDate         ErrorKind = "invalid_date"
	KindDateOutOfBounds     ErrorKind = "date_out_of_bounds"
	KindInvalidType         ErrorKind = "invalid_type"
)

// ValidationError is a single-trade failure. Message is exactly the sentence
// shown to the desk; Field names the offending input (for example
// "leg2.fix_date"). One trade failing never prevents resolving the others in
// a batch.
type ValidationError struct {
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`
	Field   string    `json:"field,omitempty"`
}

func (e *ValidationError) Error() string { return e.Message }

func errInvalidQuantity() *ValidationError {
	return &ValidationError{Kind: KindInvalidQuantity, Message: "Please enter a valid quantity.", Field: "quantity"}
}

func errNonPositiveQuantity() *ValidationError {
	return &ValidationError{Kind: KindNonPositiveQuantity, Message: "Quantity must be greater than zero.", Field: "quantity"}
}

func errMissingFixDate(field string) *ValidationError {
	return &ValidationError{Kind: KindMissingDate, Message: "Please provide a fixing date.", Field: field}
}

func errInvalidFixDate(field string) *ValidationError {
	return &ValidationError{Kind: KindInvalidDate, Message: "Fixing date is invalid.", Field: field}
}

func errMissingRange(field string) *ValidationError {
	return &ValidationError{Kind: KindMissingDate, Message: "Start and end dates are required for the averaging period.", Field: field}
}

func errInvalidRange(field string) *ValidationError {
	return &ValidationError{Kind: KindInvalidDate, Message: "Averaging period dates are invalid.", Field: field}
}

func errInvalidMonth(field string) *ValidationError {
	return &ValidationError{Kind: KindInvalidDate, Message: "Pricing month is invalid.", Field: field}
}

func errFixDateBeyond(bound, field string) *ValidationError {
	return &ValidationError{Kind: KindDateOutOfBounds, Message: "Fixing date cannot be after " + bound + ".", Field: field}
}
