package apperror

import "errors"

// ValidationError marks user input that fails a local constraint: a reply
// outside the offered list, an unparseable duration, a malformed date.
// It is always handled by re-prompting the same step and never carries
// transport detail.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func NewValidation(msg string) *ValidationError {
	return &ValidationError{Msg: msg}
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
