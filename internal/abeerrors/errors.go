// Package abeerrors defines the error-kind taxonomy shared across the abe4
// scheme: parsing, policy evaluation, cryptographic, serialisation and
// contract-violation failures are kept as distinct sentinel-wrapped kinds so
// callers can discriminate with errors.Is/As without string matching.
package abeerrors

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind classifies a failure into one of the categories the scheme
// distinguishes for callers.
type Kind int

const (
	// KindParse marks a failure to lex or parse a policy string.
	KindParse Kind = iota
	// KindUnsatisfiable marks a well-formed policy that the presented
	// attribute set cannot satisfy.
	KindUnsatisfiable
	// KindCrypto marks a failure inside a cryptographic primitive, most
	// importantly AEAD tag verification. Callers MUST treat KindCrypto
	// and KindUnsatisfiable identically from a timing/observability
	// standpoint: neither must leak which of the two occurred.
	KindCrypto
	// KindSerialisation marks malformed or truncated wire data.
	KindSerialisation
	// KindContractViolation marks a violated API invariant (e.g. a
	// duplicate authority contribution). These are programmer errors,
	// not input errors, and callers are expected to crash loudly on them
	// during development.
	KindContractViolation
)

func (k Kind) String() string {
	switch k {
	case KindParse:
		return "parse"
	case KindUnsatisfiable:
		return "unsatisfiable"
	case KindCrypto:
		return "crypto"
	case KindSerialisation:
		return "serialisation"
	case KindContractViolation:
		return "contract violation"
	default:
		return "unknown"
	}
}

// Error is the concrete error type produced by this package. It carries a
// Kind so callers can branch with errors.As, plus a human-readable message
// and, optionally, the lower-level cause that produced it.
type Error struct {
	Kind  Kind
	Msg   string
	cause error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %s", e.Kind, e.Msg, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

// Unwrap exposes the wrapped cause, if any, to errors.Is/errors.As chains.
func (e *Error) Unwrap() error {
	return e.cause
}

// New builds an *Error of the given kind.
func New(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// Wrap attaches a lower-level cause (e.g. an I/O or crypto/rand failure) to
// a new *Error of the given kind, annotating it with a stack trace via
// github.com/pkg/errors so the original failure site survives translation
// into this package's Kind taxonomy.
func Wrap(kind Kind, cause error, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...), cause: errors.WithStack(cause)}
}

// Is reports whether err is an *Error of kind k, so callers can write
// errors.Is(err, abeerrors.Sentinel(KindUnsatisfiable)).
func (e *Error) Is(target error) bool {
	o, ok := target.(*Error)
	if !ok {
		return false
	}
	if o.Msg != "" {
		return e.Kind == o.Kind && e.Msg == o.Msg
	}
	return e.Kind == o.Kind
}

// Sentinel returns a zero-message *Error of kind k, suitable for use with
// errors.Is(err, abeerrors.Sentinel(k)).
func Sentinel(kind Kind) *Error {
	return &Error{Kind: kind}
}
