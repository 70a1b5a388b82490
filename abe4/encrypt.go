package abe4

import (
	"math/big"

	"github.com/fentec-project/bn256"

	"github.com/accless/abe4/internal/abeerrors"
	"github.com/accless/abe4/sample"
)

// lblKey caches a (auth, label) pair's hash_lbl pair so Encrypt computes
// each one at most once even though many literals can share a bucket.
type lblKey struct {
	auth  string
	label string
}

// Encrypt runs the CP-ABE KEM's encapsulation step for p under mpk, using
// tau to address the shared c_4 vector. It returns the encapsulated
// session key K = e(g,h)^s and the ciphertext that lets any attribute set
// satisfying p recover K.
func Encrypt(mpk MPK, p *Policy, tau *Tau) (*bn256.GT, *Ciphertext, error) {
	if p.Root == nil {
		return nil, nil, abeerrors.New(abeerrors.KindContractViolation, "cannot encrypt under an empty policy")
	}

	sampler := sample.NewUniform(Order)

	m := tau.Max()
	if tilde := tau.MaxTilde(); tilde > m {
		m = tilde
	}

	sVec := make([]*big.Int, m+1)
	sVecPrime := make([]*big.Int, m+1)
	s, err := sampler.Sample()
	if err != nil {
		return nil, nil, err
	}
	sVec[0] = s
	sVecPrime[0] = big.NewInt(0)
	for k := 1; k <= m; k++ {
		v, err := sampler.Sample()
		if err != nil {
			return nil, nil, err
		}
		vp, err := sampler.Sample()
		if err != nil {
			return nil, nil, err
		}
		sVec[k] = v
		sVecPrime[k] = vp
	}

	entries, err := Share(p)
	if err != nil {
		return nil, nil, err
	}
	leaves := p.Leaves()
	if len(entries) != len(leaves) {
		return nil, nil, abeerrors.New(abeerrors.KindContractViolation, "share produced %d entries for %d literals", len(entries), len(leaves))
	}

	posHash := make(map[lblKey][2]*bn256.G1)
	negHash := make(map[lblKey][2]*bn256.G1)

	getHash := func(cache map[lblKey][2]*bn256.G1, sign Sign, auth, label string) ([2]*bn256.G1, error) {
		k := lblKey{auth, label}
		if v, ok := cache[k]; ok {
			return v, nil
		}
		l0, err := hashLbl(auth, label, sign, 0)
		if err != nil {
			return [2]*bn256.G1{}, err
		}
		l1, err := hashLbl(auth, label, sign, 1)
		if err != nil {
			return [2]*bn256.G1{}, err
		}
		v := [2]*bn256.G1{l0, l1}
		cache[k] = v
		return v, nil
	}

	n := len(leaves)
	c1 := make([]*bn256.G2, n)
	c2 := make([]*bn256.G1, n)
	c3 := make([]*bn256.G2, n)

	for j, lit := range leaves {
		ua, err := ParseUserAttribute(lit.Attr)
		if err != nil {
			return nil, nil, err
		}
		part, ok := mpk[ua.Auth]
		if !ok {
			return nil, nil, abeerrors.New(abeerrors.KindContractViolation, "no public key known for authority %q", ua.Auth)
		}

		lambdaJ := entries[j].Eval(sVec)
		muJ := entries[j].Eval(sVecPrime)
		sJ := sVec[tau.Get(lit)]
		sTildeJ := sVec[tau.GetTilde(lit)]
		x := hashAttr(ua.Attr)

		bPt := part.B
		if lit.Neg {
			bPt = part.BNeg
		}
		c1[j] = sumG2([]*bn256.G2{scalarMulG2(h, muJ), scalarMulG2(bPt, sTildeJ)})

		if !lit.Neg {
			hashes, err := getHash(posHash, SignPos, ua.Auth, ua.Label)
			if err != nil {
				return nil, nil, err
			}
			msm := msmG1(hashes[:], []*big.Int{sJ, modOrder(new(big.Int).Mul(sJ, x))})
			c2[j] = sumG1([]*bn256.G1{scalarMulG1(part.BPrime, sTildeJ), msm})
		} else {
			hashes, err := getHash(negHash, SignNeg, ua.Auth, ua.Label)
			if err != nil {
				return nil, nil, err
			}
			c2[j] = msmG1(hashes[:], []*big.Int{sTildeJ, modOrder(new(big.Int).Mul(sTildeJ, x))})
		}

		c3[j] = sumG2([]*bn256.G2{scalarMulG2(h, lambdaJ), scalarMulG2(part.A, sTildeJ)})
	}

	c4 := make([]*bn256.G2, m+1)
	for k := 0; k <= m; k++ {
		c4[k] = scalarMulG2(h, sVec[k])
	}

	K := scalarMulGT(Pair(g, h), s)

	return K, &Ciphertext{C1: c1, C2: c2, C3: c3, C4: c4}, nil
}
