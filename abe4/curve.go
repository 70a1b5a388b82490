// Package abe4 implements a decentralised ciphertext-policy attribute-based
// encryption scheme supporting negated attributes, built over a Type-3
// bilinear pairing e: G1 x G2 -> GT.
package abe4

import (
	"math/big"

	"github.com/fentec-project/bn256"

	"github.com/accless/abe4/data"
)

// Order is the prime order of the G1, G2 and GT groups. All scalar
// arithmetic in this package (secret sharing coefficients, MSK/USK
// exponents, hashed attribute scalars) is carried out modulo Order.
var Order = bn256.Order

// g and h are the fixed generators of G1 and G2, matching the public
// parameters' "g" and "h" of the scheme description: g' = g^b' lives in G1,
// while a, b, b_neg = h^{...} live in G2.
var (
	g = new(bn256.G1).ScalarBaseMult(big.NewInt(1))
	h = new(bn256.G2).ScalarBaseMult(big.NewInt(1))
)

// Pair is the bilinear pairing e: G1 x G2 -> GT.
func Pair(p *bn256.G1, q *bn256.G2) *bn256.GT {
	return bn256.Pair(p, q)
}

// scalarMulG1 computes p^x (i.e. x*p in additive notation), handling
// negative exponents by negating the point first and taking the absolute
// value of the scalar, since bn256.G1.ScalarMult rejects negative scalars.
func scalarMulG1(p *bn256.G1, x *big.Int) *bn256.G1 {
	base := new(bn256.G1).Set(p)
	e := new(big.Int).Set(x)
	if e.Sign() < 0 {
		base.Neg(base)
		e.Neg(e)
	}
	return new(bn256.G1).ScalarMult(base, e)
}

// scalarMulG2 is the G2 analogue of scalarMulG1.
func scalarMulG2(p *bn256.G2, x *big.Int) *bn256.G2 {
	base := new(bn256.G2).Set(p)
	e := new(big.Int).Set(x)
	if e.Sign() < 0 {
		base.Neg(base)
		e.Neg(e)
	}
	return new(bn256.G2).ScalarMult(base, e)
}

// scalarMulGT is the GT analogue, used when combining pairing outputs raised
// to signed coefficients.
func scalarMulGT(p *bn256.GT, x *big.Int) *bn256.GT {
	base := new(bn256.GT).Set(p)
	e := new(big.Int).Set(x)
	if e.Sign() < 0 {
		base.Neg(base)
		e.Neg(e)
	}
	return new(bn256.GT).ScalarMult(base, e)
}

// msmG1 computes the multi-scalar multiplication sum_i scalars[i]*points[i]
// in G1 (the "msm" primitive of the curve layer), via data.Vector's
// sign-aware MulVecG1 followed by a VectorG1.Add-style pairwise fold -
// exactly the accumulation idiom the teacher's own MA-ABE/DIPPE schemes use
// data.Vector* for.
func msmG1(points []*bn256.G1, scalars []*big.Int) *bn256.G1 {
	prod := data.Vector(scalars).MulVecG1(data.VectorG1(points))
	acc := new(bn256.G1).ScalarBaseMult(big.NewInt(0))
	for _, p := range prod {
		acc = acc.Add(acc, p)
	}
	return acc
}

// msmG2 is the G2 analogue of msmG1.
func msmG2(points []*bn256.G2, scalars []*big.Int) *bn256.G2 {
	prod := data.Vector(scalars).MulVecG2(data.VectorG2(points))
	acc := new(bn256.G2).ScalarBaseMult(big.NewInt(0))
	for _, p := range prod {
		acc = acc.Add(acc, p)
	}
	return acc
}

// sumG1 adds a slice of G1 points via data.VectorG1.Add, returning the
// group identity for an empty slice.
func sumG1(pts []*bn256.G1) *bn256.G1 {
	acc := new(bn256.G1).ScalarBaseMult(big.NewInt(0))
	for _, p := range pts {
		acc = new(bn256.G1).Add(acc, p)
	}
	return acc
}

// sumG2 is the G2 analogue of sumG1.
func sumG2(pts []*bn256.G2) *bn256.G2 {
	acc := new(bn256.G2).ScalarBaseMult(big.NewInt(0))
	for _, p := range pts {
		acc = new(bn256.G2).Add(acc, p)
	}
	return acc
}

// sumGT multiplies a slice of GT elements, returning the group identity for
// an empty slice.
func sumGT(pts []*bn256.GT) *bn256.GT {
	acc := new(bn256.GT).ScalarBaseMult(big.NewInt(0))
	for _, p := range pts {
		acc = new(bn256.GT).Add(acc, p)
	}
	return acc
}

// modOrder reduces x modulo the group order, always returning a
// representative in [0, Order).
func modOrder(x *big.Int) *big.Int {
	return new(big.Int).Mod(x, Order)
}

// negG1 returns -p.
func negG1(p *bn256.G1) *bn256.G1 {
	return new(bn256.G1).Neg(p)
}

// negG2 returns -p.
func negG2(p *bn256.G2) *bn256.G2 {
	return new(bn256.G2).Neg(p)
}

// invOrder returns the modular inverse of x modulo Order.
func invOrder(x *big.Int) *big.Int {
	return new(big.Int).ModInverse(modOrder(x), Order)
}

// identityG1, identityG2 and identityGT return the respective group's
// identity element, used as the zero-value accumulator when folding a
// possibly-empty slice of contributions.
func identityG1() *bn256.G1 { return new(bn256.G1).ScalarBaseMult(big.NewInt(0)) }
func identityG2() *bn256.G2 { return new(bn256.G2).ScalarBaseMult(big.NewInt(0)) }
func identityGT() *bn256.GT { return new(bn256.GT).ScalarBaseMult(big.NewInt(0)) }
