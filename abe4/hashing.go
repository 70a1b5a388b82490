package abe4

import (
	"crypto/sha256"
	"fmt"
	"math/big"

	"github.com/fentec-project/bn256"

	"github.com/accless/abe4/internal/abeerrors"
)

// Sign discriminates the two label-hash families a literal's polarity picks
// between: hash_lbl(auth, label, POS, i) backs positive literals,
// hash_lbl(auth, label, NEG, i) backs negated ones.
type Sign string

const (
	SignPos Sign = "POS"
	SignNeg Sign = "NEG"
)

// hashGID maps a user's global identifier into G1 with domain tag "GID". It
// is the binding point between every authority's partial key for that user:
// all partial keys use the same hashGID(gid) value so their contributions
// can later be combined and cancelled pairwise during decryption.
//
// The construction's own prose types hash_gid into G2, but its KeyGen
// equations (k_{1,1} = g_beta + hash_gid(gid)^b + ...) only type-check if
// hash_gid lands in G1 alongside g_beta, and Decrypt pairs hash_gid(gid)
// against a G2 accumulator, which also requires a G1-valued hash_gid. This
// is a documented resolution of that internal inconsistency, not a choice
// between equally valid options; see DESIGN.md.
func hashGID(gid string) (*bn256.G1, error) {
	pt, err := bn256.HashG1("GID|" + gid)
	if err != nil {
		return nil, abeerrors.Wrap(abeerrors.KindCrypto, err, "hashing gid")
	}
	return pt, nil
}

// hashLbl maps a (auth, label, sign, i) tuple into G1 with domain tag "LBL".
// i is always 0 or 1; the four-tuple (auth, label, sign, i) is encoded
// unambiguously by length-prefixing auth and label so that no pair of
// distinct tuples can ever collide on the same tag string.
func hashLbl(auth, label string, sign Sign, i int) (*bn256.G1, error) {
	tag := fmt.Sprintf("LBL|%d:%s|%d:%s|%s|%d", len(auth), auth, len(label), label, sign, i)
	pt, err := bn256.HashG1(tag)
	if err != nil {
		return nil, abeerrors.Wrap(abeerrors.KindCrypto, err, "hashing label %s.%s/%s/%d", auth, label, sign, i)
	}
	return pt, nil
}

// hashAttr expands an attribute value to a ScalarField element with domain
// tag "ATTR", via SHA-256 reduced modulo the group order.
func hashAttr(attr string) *big.Int {
	sum := sha256.Sum256([]byte("ATTR|" + attr))
	return modOrder(new(big.Int).SetBytes(sum[:]))
}
