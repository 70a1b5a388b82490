package abe4

import (
	"math/big"

	"github.com/fentec-project/bn256"

	"github.com/accless/abe4/internal/abeerrors"
)

// PartialMSK is one authority's master secret key: four independent
// uniform scalars. b' is stored here as a raw scalar (unlike its public
// counterpart PartialMPK.BPrime, which is the G1 point g^{b'}).
type PartialMSK struct {
	Auth   string
	Beta   *big.Int
	B      *big.Int
	BNeg   *big.Int
	BPrime *big.Int
}

// Zeroize overwrites every scalar in the master secret key in place.
func (m *PartialMSK) Zeroize() {
	m.Beta.SetInt64(0)
	m.B.SetInt64(0)
	m.BNeg.SetInt64(0)
	m.BPrime.SetInt64(0)
}

// PartialMPK is the public counterpart of a PartialMSK: a = h^beta, b =
// h^b and b_neg = h^{b_neg} live in G2; b' = g^{b'} lives in G1.
type PartialMPK struct {
	Auth   string
	A      *bn256.G2
	B      *bn256.G2
	BNeg   *bn256.G2
	BPrime *bn256.G1
}

// MSK aggregates every authority's master secret key known to a given
// caller. In the fully decentralised setting no single party ever holds a
// full MSK; this type exists for callers (tests, the CLI) that run every
// authority locally.
type MSK map[string]*PartialMSK

// MPK aggregates every authority's public key a user's key derivation or a
// ciphertext's authority set needs.
type MPK map[string]*PartialMPK

// labelAttr keys the per-(label,attr) maps of a PartialUSK.
type labelAttr struct {
	Label string
	Attr  string
}

// PartialUSK is one authority's contribution to a user's secret key, built
// over the global iota index so that k_{1,1}, k_4 and k_5 are sized by
// iota.get_max()+1 even for authorities whose own attributes only occupy a
// few of those indices.
type PartialUSK struct {
	Auth string
	K11  map[int]*bn256.G1       // k_{1,1}[iota]
	K12  map[labelAttr]*bn256.G1 // k_{1,2}[(label,attr)]
	K2   map[string]*bn256.G1    // k_2[label]
	K3   map[labelAttr]*bn256.G1 // k_3[(label,attr)]
	K4   map[int]*bn256.G2       // k_4[iota]
	K5   map[int]*bn256.G2       // k_5[iota]
}

// Zeroize overwrites every group element in the partial key. bn256 group
// elements are represented as coordinate big.Ints internally; setting each
// entry to the group's identity element at least ensures a stale reference
// can no longer be used as live key material, even though the underlying
// allocation is not scrubbed (Go gives no portable way to scrub a *bn256.G1
// in place).
func (k *PartialUSK) Zeroize() {
	idG1 := new(bn256.G1).ScalarBaseMult(big.NewInt(0))
	idG2 := new(bn256.G2).ScalarBaseMult(big.NewInt(0))
	for key := range k.K11 {
		k.K11[key] = idG1
	}
	for key := range k.K12 {
		k.K12[key] = idG1
	}
	for key := range k.K2 {
		k.K2[key] = idG1
	}
	for key := range k.K3 {
		k.K3[key] = idG1
	}
	for key := range k.K4 {
		k.K4[key] = idG2
	}
	for key := range k.K5 {
		k.K5[key] = idG2
	}
}

// USK is the full user secret key: every authority's partial contribution,
// all implicitly bound to the same GID (the GID string is mixed into every
// k-value via hashGID, but is not itself part of the key material).
type USK struct {
	GID   string
	Parts map[string]*PartialUSK
}

// NewUSK returns an empty user secret key for gid.
func NewUSK(gid string) *USK {
	return &USK{GID: gid, Parts: make(map[string]*PartialUSK)}
}

// AddPartialKey installs an authority's contribution into a user secret
// key. Supplying two contributions from the same authority is a caller
// contract violation per the attestation-service collaborator interface.
func (u *USK) AddPartialKey(part *PartialUSK) error {
	if _, exists := u.Parts[part.Auth]; exists {
		return abeerrors.New(abeerrors.KindContractViolation, "duplicate partial key for authority %q", part.Auth)
	}
	u.Parts[part.Auth] = part
	return nil
}

// Ciphertext is the CP-ABE KEM's encapsulation output for one policy: one
// G2/G1/G2 triple per policy literal, plus the shared c_4 vector of size
// max(tau.Max(), tau.MaxTilde())+1.
type Ciphertext struct {
	C1 []*bn256.G2
	C2 []*bn256.G1
	C3 []*bn256.G2
	C4 []*bn256.G2
}
