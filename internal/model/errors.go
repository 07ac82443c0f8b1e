package model

import "github.com/rotisserie/eris"

// ErrInvalidInput marks malformed request parameters. It is the only error
// class a caller ever sees as a request failure: everything downstream of
// input validation degrades instead of failing.
var ErrInvalidInput = eris.New("invalid input")

// IsInvalidInput reports whether err is an input-validation failure.
func IsInvalidInput(err error) bool {
	return eris.Is(err, ErrInvalidInput)
}
