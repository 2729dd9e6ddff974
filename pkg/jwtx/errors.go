package jwtx

import (
	"errors"
	"fmt"
)

// ErrInvalid is the root of every validation failure. Callers that only
// care whether a token is usable match on it with errors.Is.
var ErrInvalid = errors.New("jwtx: invalid token")

var (
	ErrMalformed      = fmt.Errorf("%w: malformed", ErrInvalid)
	ErrAlgMismatch    = fmt.Errorf("%w: algorithm mismatch", ErrInvalid)
	ErrInvalidSig     = fmt.Errorf("%w: invalid signature", ErrInvalid)
	ErrIssuer         = fmt.Errorf("%w: issuer mismatch", ErrInvalid)
	ErrExpired        = fmt.Errorf("%w: expired", ErrInvalid)
	ErrNotYetValid    = fmt.Errorf("%w: not yet valid", ErrInvalid)
	ErrMissingSubject = fmt.Errorf("%w: missing subject", ErrInvalid)
	ErrMissingExpiry  = fmt.Errorf("%w: missing expiry", ErrInvalid)
)

// ErrUnsupportedAlg is a configuration error, not a token error.
var ErrUnsupportedAlg = errors.New("jwtx: unsupported algorithm")
