package abe4

import (
	"math/big"
	"sort"

	"github.com/fentec-project/bn256"

	"github.com/accless/abe4/internal/abeerrors"
	"github.com/accless/abe4/sample"
)

// KeyGen derives a user's full secret key from every authority present in
// userAttrs, using iota to size and index each authority's key vectors.
// iota must have been built from exactly userAttrs.
func KeyGen(gid string, msk MSK, userAttrs []UserAttribute, iot *Iota) (*USK, error) {
	byAuth := make(map[string][]UserAttribute)
	for _, ua := range userAttrs {
		byAuth[ua.Auth] = append(byAuth[ua.Auth], ua)
	}

	auths := make([]string, 0, len(byAuth))
	for auth := range byAuth {
		auths = append(auths, auth)
	}
	sort.Strings(auths) // deterministic iteration per the source material's design note

	H, err := hashGID(gid)
	if err != nil {
		return nil, err
	}

	usk := NewUSK(gid)
	maxIota := iot.Max()

	for _, auth := range auths {
		partMSK, ok := msk[auth]
		if !ok {
			return nil, abeerrors.New(abeerrors.KindContractViolation, "no master key for authority %q", auth)
		}
		part, err := keygenAuthority(H, partMSK, byAuth[auth], iot, maxIota)
		if err != nil {
			return nil, err
		}
		if err := usk.AddPartialKey(part); err != nil {
			return nil, err
		}
	}

	return usk, nil
}

// keygenAuthority derives one authority's contribution, per §4.6's KeyGen
// steps 1-8. Every per-call randomness value (r[iota], r_neg[iota]) is
// sampled fresh here; reusing randomness across KeyGen calls would let a
// user (or colluding users) combine keys across calls to forge satisfying
// combinations, which is why this is a security property and not a
// performance knob.
func keygenAuthority(H *bn256.G1, msk *PartialMSK, attrs []UserAttribute, iot *Iota, maxIota int) (*PartialUSK, error) {
	gBeta := scalarMulG1(g, msk.Beta)
	G := scalarMulG1(H, msk.B)
	GNeg := scalarMulG1(H, msk.BNeg)

	sampler := sample.NewUniform(Order)
	r := make(map[int]*big.Int, maxIota+1)
	rNeg := make(map[int]*big.Int, maxIota+1)
	for i := 0; i <= maxIota; i++ {
		ri, err := sampler.Sample()
		if err != nil {
			return nil, err
		}
		rNegI, err := sampler.Sample()
		if err != nil {
			return nil, err
		}
		r[i] = ri
		rNeg[i] = rNegI
	}

	rLab := make(map[string]*big.Int)
	for _, ua := range attrs {
		iotaIdx, ok := iot.Get(ua)
		if !ok {
			return nil, abeerrors.New(abeerrors.KindContractViolation, "no iota index for attribute %s", ua)
		}
		acc, has := rLab[ua.Label]
		if !has {
			acc = big.NewInt(0)
		}
		rLab[ua.Label] = modOrder(new(big.Int).Add(acc, rNeg[iotaIdx]))
	}

	k11 := make(map[int]*bn256.G1, maxIota+1)
	k4 := make(map[int]*bn256.G2, maxIota+1)
	k5 := make(map[int]*bn256.G2, maxIota+1)
	for i := 0; i <= maxIota; i++ {
		gr := scalarMulG1(g, modOrder(new(big.Int).Mul(r[i], msk.BPrime)))
		k11[i] = sumG1([]*bn256.G1{gBeta, G, gr})
		k4[i] = scalarMulG2(h, r[i])
		k5[i] = scalarMulG2(h, rNeg[i])
	}

	k12 := make(map[labelAttr]*bn256.G1, len(attrs))
	k3 := make(map[labelAttr]*bn256.G1, len(attrs))
	for _, ua := range attrs {
		iotaIdx, _ := iot.Get(ua)
		x := hashAttr(ua.Attr)

		pos0, err := hashLbl(ua.Auth, ua.Label, SignPos, 0)
		if err != nil {
			return nil, err
		}
		pos1, err := hashLbl(ua.Auth, ua.Label, SignPos, 1)
		if err != nil {
			return nil, err
		}
		k12[labelAttr{ua.Label, ua.Attr}] = msmG1(
			[]*bn256.G1{pos0, pos1},
			[]*big.Int{r[iotaIdx], modOrder(new(big.Int).Mul(r[iotaIdx], x))},
		)

		neg0, err := hashLbl(ua.Auth, ua.Label, SignNeg, 0)
		if err != nil {
			return nil, err
		}
		neg1, err := hashLbl(ua.Auth, ua.Label, SignNeg, 1)
		if err != nil {
			return nil, err
		}
		k3[labelAttr{ua.Label, ua.Attr}] = msmG1(
			[]*bn256.G1{neg0, neg1},
			[]*big.Int{rNeg[iotaIdx], modOrder(new(big.Int).Mul(rNeg[iotaIdx], x))},
		)
	}

	var labels []string
	seenLabel := make(map[string]bool)
	for _, ua := range attrs {
		if !seenLabel[ua.Label] {
			seenLabel[ua.Label] = true
			labels = append(labels, ua.Label)
		}
	}
	sort.Strings(labels)

	k2 := make(map[string]*bn256.G1, len(labels))
	for _, label := range labels {
		l1, err := hashLbl(msk.Auth, label, SignNeg, 1)
		if err != nil {
			return nil, err
		}
		term := scalarMulG1(l1, rLab[label])
		k2[label] = sumG1([]*bn256.G1{gBeta, GNeg, term})
	}

	return &PartialUSK{
		Auth: msk.Auth,
		K11:  k11,
		K12:  k12,
		K2:   k2,
		K3:   k3,
		K4:   k4,
		K5:   k5,
	}, nil
}
