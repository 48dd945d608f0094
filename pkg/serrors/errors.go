package serrors

// BaseError is a coded error shared across packages. Code is stable and machine readable,
// Message is the default English text.
type BaseError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	// LocaleKey identifies the message in a translation bundle, if any.
	LocaleKey string `json:"locale_key,omitempty"`
}

func (b *BaseError) Error() string {
	return b.Message
}

// Is reports whether target is a *BaseError with the same code, so wrapped copies of a
// sentinel still match with errors.Is.
func (b *BaseError) Is(target error) bool {
	t, ok := target.(*BaseError)
	if !ok {
		return false
	}
	return t.Code == b.Code
}

func NewError(code, message, localeKey string) *BaseError {
	return &BaseError{
		Code:      code,
		Message:   message,
		LocaleKey: localeKey,
	}
}
