package stegx

import (
	"context"
	"errors"
	"fmt"

	"github.com/hengadev/stegx/internal/channel"
	"github.com/hengadev/stegx/internal/crypto"
	"github.com/hengadev/stegx/internal/frame"
)

var (
	// Configuration errors
	ErrInvalidConfiguration = errors.New("invalid configuration")
	ErrMissingPassword      = errors.New("password not available")

	// Password source errors
	ErrPasswordSourceUnavailable = errors.New("password source unavailable")
	ErrPasswordSourceAuth        = errors.New("password source authentication failed")

	// Encode errors
	ErrCapacityExceeded = errors.New("message does not fit in image")
	ErrPayloadTooLarge  = errors.New("encrypted payload exceeds 65535 bytes")
	ErrInvalidImage     = errors.New("invalid pixel buffer")
	ErrInvalidMessage   = errors.New("message is not valid UTF-8")

	// Crypto errors
	ErrCryptoUnavailable = errors.New("cryptographic primitive unavailable")

	// Decode errors. Every decode failure matches ErrDecodeFailed; the
	// specific kind is also matchable for diagnostics.
	ErrDecodeFailed = errors.New("could not recover a message")
	ErrBadHeader    = errors.New("bad frame header")
	ErrTruncated    = errors.New("truncated frame")
	ErrAuthFailure  = errors.New("authentication failed")
)

// DecodeError is returned by Decode. Kind is one of ErrBadHeader,
// ErrTruncated, ErrAuthFailure, ErrInvalidMessage, ErrInvalidImage or
// ErrCryptoUnavailable.
type DecodeError struct {
	Kind error
	Err  error
}

func (e *DecodeError) Error() string {
	if e.Err == nil || e.Err == e.Kind {
		return fmt.Sprintf("%s: %s", ErrDecodeFailed, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %s", ErrDecodeFailed, e.Kind, e.Err)
}

// Is matches ErrDecodeFailed and the error's Kind.
func (e *DecodeError) Is(target error) bool {
	return target == ErrDecodeFailed || target == e.Kind
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

func newDecodeError(kind, err error) *DecodeError {
	return &DecodeError{Kind: kind, Err: err}
}

// classifyDecode maps an internal error onto a decode error kind.
func classifyDecode(err error) *DecodeError {
	switch {
	case errors.Is(err, frame.ErrBadHeader):
		return newDecodeError(ErrBadHeader, err)
	case errors.Is(err, frame.ErrTruncated):
		return newDecodeError(ErrTruncated, err)
	case errors.Is(err, crypto.ErrAuthentication), errors.Is(err, crypto.ErrBlobTooShort):
		return newDecodeError(ErrAuthFailure, err)
	case errors.Is(err, channel.ErrInvalidBuffer):
		return newDecodeError(ErrInvalidImage, err)
	default:
		return newDecodeError(ErrCryptoUnavailable, err)
	}
}

// errorKind returns a short stable label for metrics and logs.
func errorKind(err error) string {
	switch {
	case errors.Is(err, ErrBadHeader):
		return "bad_header"
	case errors.Is(err, ErrTruncated):
		return "truncated"
	case errors.Is(err, ErrAuthFailure):
		return "auth_failure"
	case errors.Is(err, ErrCapacityExceeded):
		return "capacity_exceeded"
	case errors.Is(err, ErrPayloadTooLarge):
		return "payload_too_large"
	case errors.Is(err, ErrInvalidImage):
		return "invalid_image"
	case errors.Is(err, ErrInvalidMessage):
		return "invalid_message"
	case errors.Is(err, ErrCryptoUnavailable):
		return "crypto_unavailable"
	case errors.Is(err, ErrInvalidConfiguration):
		return "invalid_configuration"
	case errors.Is(err, ErrMissingPassword):
		return "missing_password"
	case errors.Is(err, ErrPasswordSourceUnavailable), errors.Is(err, ErrPasswordSourceAuth):
		return "password_source"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	default:
		return "unknown"
	}
}

// IsRetryableError returns true if the error represents a transient failure that might succeed on retry.
func IsRetryableError(err error) bool {
	return errors.Is(err, ErrPasswordSourceUnavailable)
}

// IsDecodeError returns true if the error came out of Decode.
func IsDecodeError(err error) bool {
	return errors.Is(err, ErrDecodeFailed)
}

// IsAuthError returns true if the password was wrong or the payload was tampered with.
func IsAuthError(err error) bool {
	return errors.Is(err, ErrAuthFailure)
}

// IsCapacityError returns true if the message cannot be carried by the image.
func IsCapacityError(err error) bool {
	return errors.Is(err, ErrCapacityExceeded) ||
		errors.Is(err, ErrPayloadTooLarge)
}

// IsConfigurationError returns true if the error represents a configuration problem.
func IsConfigurationError(err error) bool {
	return errors.Is(err, ErrInvalidConfiguration) ||
		errors.Is(err, ErrMissingPassword)
}

// IsCryptoError returns true if a cryptographic primitive failed. These are
// not recoverable by retry.
func IsCryptoError(err error) bool {
	return errors.Is(err, ErrCryptoUnavailable)
}

// IsValidationError returns true if the caller supplied a bad image or message.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidImage) ||
		errors.Is(err, ErrInvalidMessage)
}
