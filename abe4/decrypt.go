package abe4

import (
	"math/big"

	"github.com/fentec-project/bn256"

	"github.com/accless/abe4/internal/abeerrors"
)

// DecryptStrategy selects which of the two algebraically equivalent
// groupings Decrypt uses for the positive-literal contribution. StrategyAuto
// (the default) picks whichever needs fewer pairings for the given policy
// and key; StrategyA and StrategyB force one grouping, which tests use to
// check both produce the same result.
type DecryptStrategy int

const (
	StrategyAuto DecryptStrategy = iota
	StrategyA
	StrategyB
)

// authIotaKey groups a positive literal by the (authority, iota index) its
// user-attribute key components live at.
type authIotaKey struct {
	auth string
	iota int
}

// Decrypt recovers the GT session key Encrypt encapsulated, given a user
// secret key, the GID it is bound to, the iota index built from that same
// user's attributes, the tau index built from p, and the ciphertext.
//
// It never reports WHY decryption failed beyond the single
// abeerrors.KindUnsatisfiable sentinel: a forged ciphertext that merely
// fails an AEAD tag check downstream must be indistinguishable from a
// policy-unsatisfied failure to any caller, in both timing and message, or
// the negation predicate could be used as a decryption oracle.
func Decrypt(usk *USK, gid string, iot *Iota, tau *Tau, p *Policy, ct *Ciphertext) (*bn256.GT, error) {
	return DecryptWithStrategy(usk, gid, iot, tau, p, ct, StrategyAuto)
}

// DecryptWithStrategy is Decrypt with an explicit choice of the
// positive-literal pairing grouping; see DecryptStrategy.
func DecryptWithStrategy(usk *USK, gid string, iot *Iota, tau *Tau, p *Policy, ct *Ciphertext, strategy DecryptStrategy) (*bn256.GT, error) {
	if usk.GID != gid {
		return nil, abeerrors.New(abeerrors.KindContractViolation, "usk is bound to gid %q, not %q", usk.GID, gid)
	}

	leaves := p.Leaves()
	idxs, err := Reconstruct(p, iot.Attrs())
	if err != nil {
		return nil, err
	}

	var posIdxs, negIdxs []int
	var c1Terms, c3Terms []*bn256.G2
	for _, j := range idxs {
		c1Terms = append(c1Terms, ct.C1[j])
		c3Terms = append(c3Terms, ct.C3[j])
		if leaves[j].Neg {
			negIdxs = append(negIdxs, j)
		} else {
			posIdxs = append(posIdxs, j)
		}
	}

	H, err := hashGID(gid)
	if err != nil {
		return nil, err
	}

	K := new(bn256.GT).Add(Pair(g, sumG2(c3Terms)), Pair(H, sumG2(c1Terms)))

	posK, err := decryptPositive(usk, leaves, iot, tau, posIdxs, ct, strategy)
	if err != nil {
		return nil, err
	}
	K = new(bn256.GT).Add(K, posK)

	negK, err := decryptNegative(usk, leaves, iot, tau, negIdxs, ct)
	if err != nil {
		return nil, err
	}
	K = new(bn256.GT).Add(K, negK)

	return K, nil
}

// decryptPositive computes the full positive-literal contribution to K:
// the grouped k11/k12-against-c4 term (by whichever of the two equivalent
// strategies is cheaper), plus the c2-against-k4 term common to both.
func decryptPositive(usk *USK, leaves []*Lit, iot *Iota, tau *Tau, posIdxs []int, ct *Ciphertext, strategy DecryptStrategy) (*bn256.GT, error) {
	if len(posIdxs) == 0 {
		return identityGT(), nil
	}

	type leafInfo struct {
		auth string
		iota int
	}
	info := make(map[int]leafInfo, len(posIdxs))
	authIotaGroups := make(map[authIotaKey][]int)
	tauGroups := make(map[int][]int)
	tauTildeGroups := make(map[int][]int)

	for _, j := range posIdxs {
		ua, err := ParseUserAttribute(leaves[j].Attr)
		if err != nil {
			return nil, err
		}
		iotaIdx, ok := iot.Get(ua)
		if !ok {
			return nil, abeerrors.New(abeerrors.KindContractViolation, "no iota index for attribute %s", ua)
		}
		info[j] = leafInfo{ua.Auth, iotaIdx}

		k := authIotaKey{ua.Auth, iotaIdx}
		authIotaGroups[k] = append(authIotaGroups[k], j)
		tauGroups[tau.Get(leaves[j])] = append(tauGroups[tau.Get(leaves[j])], j)
		tauTildeGroups[tau.GetTilde(leaves[j])] = append(tauTildeGroups[tau.GetTilde(leaves[j])], j)
	}

	union := make(map[int]bool, len(tauGroups)+len(tauTildeGroups))
	for t := range tauGroups {
		union[t] = true
	}
	for t := range tauTildeGroups {
		union[t] = true
	}

	useB := strategy == StrategyB
	if strategy == StrategyAuto {
		costA := len(authIotaGroups) + len(tauGroups)
		useB = len(union) < costA
	}

	K := identityGT()

	if useB {
		for t := range union {
			term := identityG1()
			for _, j := range tauGroups[t] {
				li := info[j]
				part, ok := usk.Parts[li.auth]
				if !ok {
					return nil, abeerrors.New(abeerrors.KindContractViolation, "no partial key for authority %q", li.auth)
				}
				ua, _ := ParseUserAttribute(leaves[j].Attr)
				k12, ok := part.K12[labelAttr{ua.Label, ua.Attr}]
				if !ok {
					return nil, abeerrors.New(abeerrors.KindContractViolation, "no k_1,2 for %s", ua)
				}
				term = new(bn256.G1).Add(term, negG1(k12))
			}
			for _, j := range tauTildeGroups[t] {
				li := info[j]
				part, ok := usk.Parts[li.auth]
				if !ok {
					return nil, abeerrors.New(abeerrors.KindContractViolation, "no partial key for authority %q", li.auth)
				}
				k11, ok := part.K11[li.iota]
				if !ok {
					return nil, abeerrors.New(abeerrors.KindContractViolation, "no k_1,1 for authority %q iota %d", li.auth, li.iota)
				}
				term = new(bn256.G1).Add(term, negG1(k11))
			}
			K = new(bn256.GT).Add(K, Pair(term, ct.C4[t]))
		}
	} else {
		for t, js := range tauGroups {
			term := identityG1()
			for _, j := range js {
				li := info[j]
				part, ok := usk.Parts[li.auth]
				if !ok {
					return nil, abeerrors.New(abeerrors.KindContractViolation, "no partial key for authority %q", li.auth)
				}
				ua, _ := ParseUserAttribute(leaves[j].Attr)
				k12, ok := part.K12[labelAttr{ua.Label, ua.Attr}]
				if !ok {
					return nil, abeerrors.New(abeerrors.KindContractViolation, "no k_1,2 for %s", ua)
				}
				term = new(bn256.G1).Add(term, negG1(k12))
			}
			K = new(bn256.GT).Add(K, Pair(term, ct.C4[t]))
		}
		for key, js := range authIotaGroups {
			part, ok := usk.Parts[key.auth]
			if !ok {
				return nil, abeerrors.New(abeerrors.KindContractViolation, "no partial key for authority %q", key.auth)
			}
			k11, ok := part.K11[key.iota]
			if !ok {
				return nil, abeerrors.New(abeerrors.KindContractViolation, "no k_1,1 for authority %q iota %d", key.auth, key.iota)
			}
			c4Sum := identityG2()
			for _, j := range js {
				c4Sum = new(bn256.G2).Add(c4Sum, ct.C4[tau.GetTilde(leaves[j])])
			}
			K = new(bn256.GT).Add(K, Pair(negG1(k11), c4Sum))
		}
	}

	for key, js := range authIotaGroups {
		part, ok := usk.Parts[key.auth]
		if !ok {
			return nil, abeerrors.New(abeerrors.KindContractViolation, "no partial key for authority %q", key.auth)
		}
		k4, ok := part.K4[key.iota]
		if !ok {
			return nil, abeerrors.New(abeerrors.KindContractViolation, "no k4 for authority %q iota %d", key.auth, key.iota)
		}
		c2Sum := identityG1()
		for _, j := range js {
			c2Sum = new(bn256.G1).Add(c2Sum, ct.C2[j])
		}
		K = new(bn256.GT).Add(K, Pair(c2Sum, k4))
	}

	return K, nil
}

// decryptNegative computes the negative-literal contribution to K (§4.6
// step 6): one term per tau-tilde group built from k_2/k_3 and the
// alternative-attribute Lagrange-like sum, and one term per exact
// (auth,label,attr) group built from c_2 and k_5.
func decryptNegative(usk *USK, leaves []*Lit, iot *Iota, tau *Tau, negIdxs []int, ct *Ciphertext) (*bn256.GT, error) {
	if len(negIdxs) == 0 {
		return identityGT(), nil
	}

	tauTildeGroups := make(map[int][]int)
	exactGroups := make(map[UserAttribute][]int)

	for _, j := range negIdxs {
		ua, err := ParseUserAttribute(leaves[j].Attr)
		if err != nil {
			return nil, err
		}
		t := tau.GetTilde(leaves[j])
		tauTildeGroups[t] = append(tauTildeGroups[t], j)
		exactGroups[ua] = append(exactGroups[ua], j)
	}

	K := identityGT()

	for t, js := range tauTildeGroups {
		term := identityG1()
		for _, j := range js {
			ua, err := ParseUserAttribute(leaves[j].Attr)
			if err != nil {
				return nil, err
			}
			part, ok := usk.Parts[ua.Auth]
			if !ok {
				return nil, abeerrors.New(abeerrors.KindContractViolation, "no partial key for authority %q", ua.Auth)
			}
			k2, ok := part.K2[ua.Label]
			if !ok {
				return nil, abeerrors.New(abeerrors.KindContractViolation, "no k2 for authority %q label %q", ua.Auth, ua.Label)
			}
			term = new(bn256.G1).Add(term, negG1(k2))

			x := hashAttr(ua.Attr)
			for altKey, k3 := range part.K3 {
				if altKey.Label != ua.Label || altKey.Attr == ua.Attr {
					continue
				}
				if _, known := part.K12[altKey]; !known {
					continue
				}
				xAlt := hashAttr(altKey.Attr)
				coeff := modOrder(new(big.Int).Neg(invOrder(modOrder(new(big.Int).Sub(x, xAlt)))))
				term = new(bn256.G1).Add(term, scalarMulG1(k3, coeff))
			}
		}
		K = new(bn256.GT).Add(K, Pair(term, ct.C4[t]))
	}

	for ua, js := range exactGroups {
		part, ok := usk.Parts[ua.Auth]
		if !ok {
			return nil, abeerrors.New(abeerrors.KindContractViolation, "no partial key for authority %q", ua.Auth)
		}
		c2Sum := identityG1()
		for _, j := range js {
			c2Sum = new(bn256.G1).Add(c2Sum, ct.C2[j])
		}

		x := hashAttr(ua.Attr)
		k5 := identityG2()
		for altKey := range part.K12 {
			if altKey.Label != ua.Label || altKey.Attr == ua.Attr {
				continue
			}
			altUA := UserAttribute{Auth: ua.Auth, Label: ua.Label, Attr: altKey.Attr}
			iotaIdx, ok := iot.Get(altUA)
			if !ok {
				continue
			}
			k5Alt, ok := part.K5[iotaIdx]
			if !ok {
				continue
			}
			xAlt := hashAttr(altKey.Attr)
			coeff := invOrder(modOrder(new(big.Int).Sub(x, xAlt)))
			k5 = new(bn256.G2).Add(k5, scalarMulG2(k5Alt, coeff))
		}
		K = new(bn256.GT).Add(K, Pair(c2Sum, k5))
	}

	return K, nil
}
