package apperrors

// Error is a chained application error. Every error derived with New keeps a
// reference to its parent so errors.Is matches any ancestor kind, and carries
// the HTTP status code that the transport layer reports for it.
type Error interface {
	Error() string
	// ErrorAll joins the wrapped causes into the message when expansion is on.
	ErrorAll() string

	// New derives a child kind. The child inherits status and expansion.
	New(msg string) Error
	// Msg, MsgErr, Prefix, Suffix and Err return copies of the same kind.
	Msg(msg string) Error
	MsgErr(msg string, err ...error) Error
	Prefix(prefix string) Error
	Suffix(suffix string) Error
	Err(err ...error) Error
	SetExpandError(expand bool) Error
	SetStatusCode(code int) Error

	StatusCode() int
	Unwrap() []error
	Is(target error) bool
}
