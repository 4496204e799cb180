package apperrors

import "strings"

// appError implements the apperrors.Error interface
type appError struct {
	msg           string
	base          *appError
	wrappedErrors []error
	statuscode    int
	expandError   bool
}

func (e *appError) Error() string {
	return e.msg
}

func (e *appError) ErrorAll() string {
	if !e.expandError || len(e.wrappedErrors) == 0 {
		return e.msg
	}
	msgs := make([]string, 0, len(e.wrappedErrors))
	for _, err := range e.wrappedErrors {
		if err != nil {
			msgs = append(msgs, err.Error())
		}
	}
	if len(msgs) == 0 {
		return e.msg
	}
	return e.msg + ": " + strings.Join(msgs, ";")
}

func (e *appError) Unwrap() []error {
	return e.wrappedErrors
}

// New creates a child kind. The child inherits the status code and expansion
// setting of its parent.
func (e *appError) New(msg string) Error {
	return &appError{
		msg:         msg,
		base:        e,
		statuscode:  e.statuscode,
		expandError: e.expandError,
	}
}

// derive returns a copy that matches e via Is. Package level sentinels are
// shared between goroutines and must never be modified after init.
func (e *appError) derive() *appError {
	d := &appError{
		msg:         e.msg,
		base:        e,
		statuscode:  e.statuscode,
		expandError: e.expandError,
	}
	if len(e.wrappedErrors) > 0 {
		d.wrappedErrors = append([]error(nil), e.wrappedErrors...)
	}
	return d
}

func (e *appError) Msg(msg string) Error {
	d := e.derive()
	d.msg = msg
	return d
}

func (e *appError) Prefix(prefix string) Error {
	d := e.derive()
	d.msg = prefix + ": " + d.msg
	return d
}

func (e *appError) Suffix(suffix string) Error {
	d := e.derive()
	d.msg = d.msg + ": " + suffix
	return d
}

func (e *appError) MsgErr(msg string, err ...error) Error {
	d := e.derive()
	d.msg = msg
	d.wrappedErrors = append(d.wrappedErrors, err...)
	return d
}

func (e *appError) Err(err ...error) Error {
	d := e.derive()
	d.wrappedErrors = append(d.wrappedErrors, err...)
	return d
}

// Is reports whether target is e or one of its ancestors. Wrapped errors are
// walked by errors.Is through Unwrap.
func (e *appError) Is(target error) bool {
	t, ok := target.(*appError)
	if !ok {
		return false
	}
	for b := e; b != nil; b = b.base {
		if b == t {
			return true
		}
	}
	return false
}

// SetExpandError and SetStatusCode are meant for sentinel declarations.
func (e *appError) SetExpandError(expand bool) Error {
	e.expandError = expand
	return e
}

func (e *appError) SetStatusCode(code int) Error {
	e.statuscode = code
	return e
}

func (e *appError) StatusCode() int {
	return e.statuscode
}

func New(msg string) Error {
	return &appError{
		msg: msg,
	}
}
