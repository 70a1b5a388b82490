package abe4

import (
	"errors"

	"github.com/accless/abe4/internal/abeerrors"
)

// ErrUnsatisfiable is returned (wrapped) whenever a presented user secret
// key does not satisfy a ciphertext's policy. See Decrypt and DecryptHybrid
// for why this is deliberately indistinguishable from an AEAD tag failure.
var ErrUnsatisfiable = abeerrors.Sentinel(abeerrors.KindUnsatisfiable)

// ErrCrypto is returned (wrapped) by DecryptHybrid for any cryptographic
// failure, including both policy unsatisfiability and AEAD tag mismatch.
var ErrCrypto = abeerrors.Sentinel(abeerrors.KindCrypto)

// ErrParse is returned (wrapped) by ParsePolicy for malformed policy text.
var ErrParse = abeerrors.Sentinel(abeerrors.KindParse)

// ErrSerialisation is returned (wrapped) by the Marshal/Unmarshal family for
// malformed or truncated wire data.
var ErrSerialisation = abeerrors.Sentinel(abeerrors.KindSerialisation)

// IsUnsatisfiable reports whether err indicates a policy that could not be
// satisfied by the presented key.
func IsUnsatisfiable(err error) bool {
	return errors.Is(err, ErrUnsatisfiable)
}

// IsCryptoFailure reports whether err indicates a hybrid-decryption failure
// (policy-unsatisfied or AEAD-tag-mismatch; the two are indistinguishable
// by design).
func IsCryptoFailure(err error) bool {
	return errors.Is(err, ErrCrypto)
}

// IsParseError reports whether err indicates malformed policy text.
func IsParseError(err error) bool {
	return errors.Is(err, ErrParse)
}

// IsSerialisationError reports whether err indicates malformed wire data.
func IsSerialisationError(err error) bool {
	return errors.Is(err, ErrSerialisation)
}
