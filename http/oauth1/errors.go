package oauth1

import "errors"

var (
	ErrUnsupportedSignatureMethod = errors.New("unsupported signature method")
	ErrMissingConsumerSecret      = errors.New("consumer key configured without consumer secret")
	ErrInvalidBody                = errors.New("malformed form-encoded request body")
	ErrInvalidOption              = errors.New("invalid transport option")
	ErrSigningFailure             = errors.New("failed to sign request")
)
