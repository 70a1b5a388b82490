package abe4

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"io"

	"github.com/fentec-project/bn256"
	"golang.org/x/crypto/hkdf"

	"github.com/accless/abe4/internal/abeerrors"
)

const (
	kdfSalt = "accless-abe4-kem-salt"
	kdfInfo = "accless-abe4-aes-gcm-128"

	aesKeyLen   = 16
	gcmNonceLen = 12
	gcmTagLen   = 16
)

// deriveAES128Key turns a GT element into a 128-bit AES key via
// HKDF-SHA256, domain-separated with a fixed salt and info string so the
// derived key can never be confused with a key derived for a different
// purpose from the same GT value.
func deriveAES128Key(k *bn256.GT) ([]byte, error) {
	r := hkdf.New(sha256.New, []byte(k.String()), []byte(kdfSalt), []byte(kdfInfo))
	key := make([]byte, aesKeyLen)
	if _, err := io.ReadFull(r, key); err != nil {
		return nil, err
	}
	return key, nil
}

// EncryptHybrid encrypts msg under p: Encrypt encapsulates a fresh GT
// session key, which is then used (through HKDF + AES-128-GCM) to
// symmetrically encrypt msg with aad bound in as additional authenticated
// data. The wire format of the symmetric part is nonce(12) || ciphertext ||
// tag(16).
func EncryptHybrid(msg, aad []byte, p *Policy, mpk MPK, tau *Tau) (*Ciphertext, []byte, error) {
	symKey, ct, err := Encrypt(mpk, p, tau)
	if err != nil {
		return nil, nil, err
	}

	key, err := deriveAES128Key(symKey)
	if err != nil {
		return nil, nil, err
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, nil, err
	}
	gcm, err := cipher.NewGCMWithNonceSize(block, gcmNonceLen)
	if err != nil {
		return nil, nil, err
	}

	nonce := make([]byte, gcmNonceLen)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, nil, err
	}

	sealed := gcm.Seal(nil, nonce, msg, aad)
	out := make([]byte, 0, len(nonce)+len(sealed))
	out = append(out, nonce...)
	out = append(out, sealed...)

	return ct, out, nil
}

// DecryptHybrid reverses EncryptHybrid. A failure to satisfy the policy and
// a failure of the AEAD tag check are both reported as the single
// abeerrors.KindCrypto sentinel: distinguishing them to a caller would turn
// the AEAD tag into a decryption oracle for the underlying ABE scheme.
func DecryptHybrid(ct *Ciphertext, payload, aad []byte, usk *USK, gid string, iot *Iota, tau *Tau, p *Policy) ([]byte, error) {
	if len(payload) < gcmNonceLen+gcmTagLen {
		return nil, abeerrors.Sentinel(abeerrors.KindCrypto)
	}

	symKey, err := Decrypt(usk, gid, iot, tau, p, ct)
	if err != nil {
		return nil, abeerrors.Sentinel(abeerrors.KindCrypto)
	}

	key, err := deriveAES128Key(symKey)
	if err != nil {
		return nil, abeerrors.Sentinel(abeerrors.KindCrypto)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, abeerrors.Sentinel(abeerrors.KindCrypto)
	}
	gcm, err := cipher.NewGCMWithNonceSize(block, gcmNonceLen)
	if err != nil {
		return nil, abeerrors.Sentinel(abeerrors.KindCrypto)
	}

	nonce, sealed := payload[:gcmNonceLen], payload[gcmNonceLen:]
	plain, err := gcm.Open(nil, nonce, sealed, aad)
	if err != nil {
		return nil, abeerrors.Sentinel(abeerrors.KindCrypto)
	}

	return plain, nil
}
