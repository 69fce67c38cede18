package models

// CompletionResult is the outcome of one completion call.
// Exactly one of Text (on success) or Message (on failure) is meaningful.
type CompletionResult struct {
	ok        bool
	formatted bool
	err       error
	Text      string
	Message   string
}

// Success builds a successful result carrying raw reply text
func Success(text string) CompletionResult {
	return CompletionResult{ok: true, Text: text}
}

// FormattedSuccess builds a successful result whose text already went
// through the formatting transform
func FormattedSuccess(text string) CompletionResult {
	return CompletionResult{ok: true, formatted: true, Text: text}
}

// Failure builds a failed result carrying a human readable description
func Failure(message string) CompletionResult {
	return CompletionResult{Message: message}
}

// WithCause attaches the error behind a failed result
func (r CompletionResult) WithCause(err error) CompletionResult {
	if !r.ok {
		r.err = err
	}
	return r
}

// Err returns the error behind a failed result, if one was attached
func (r CompletionResult) Err() error {
	return r.err
}

// IsSuccess reports whether the completion produced a reply
func (r CompletionResult) IsSuccess() bool {
	return r.ok
}

// Formatted reports whether Text is already markup
func (r CompletionResult) Formatted() bool {
	return r.formatted
}
