package abe4

import (
	"github.com/accless/abe4/internal/abeerrors"
	"github.com/accless/abe4/sample"
)

// Setup runs per-authority setup for every id in auths and aggregates the
// results into a full MSK/MPK pair. No coordination between authorities is
// required; this is what makes the scheme decentralised — Setup could just
// as well be called once per authority by independent parties and the
// results later merged by aggregating the returned maps.
func Setup(auths []string) (MSK, MPK, error) {
	if len(auths) == 0 {
		return nil, nil, abeerrors.New(abeerrors.KindContractViolation, "setup requires at least one authority")
	}

	msk := make(MSK, len(auths))
	mpk := make(MPK, len(auths))

	for _, auth := range auths {
		if _, dup := msk[auth]; dup {
			return nil, nil, abeerrors.New(abeerrors.KindContractViolation, "duplicate authority %q", auth)
		}
		partMSK, partMPK, err := setupAuthority(auth)
		if err != nil {
			return nil, nil, err
		}
		msk[auth] = partMSK
		mpk[auth] = partMPK
	}

	return msk, mpk, nil
}

// setupAuthority samples one authority's four master secret scalars and
// derives its public parameters.
func setupAuthority(auth string) (*PartialMSK, *PartialMPK, error) {
	sampler := sample.NewUniform(Order)

	beta, err := sampler.Sample()
	if err != nil {
		return nil, nil, err
	}
	b, err := sampler.Sample()
	if err != nil {
		return nil, nil, err
	}
	bNeg, err := sampler.Sample()
	if err != nil {
		return nil, nil, err
	}
	bPrime, err := sampler.Sample()
	if err != nil {
		return nil, nil, err
	}

	msk := &PartialMSK{Auth: auth, Beta: beta, B: b, BNeg: bNeg, BPrime: bPrime}
	mpk := &PartialMPK{
		Auth:   auth,
		A:      scalarMulG2(h, beta),
		B:      scalarMulG2(h, b),
		BNeg:   scalarMulG2(h, bNeg),
		BPrime: scalarMulG1(g, bPrime),
	}
	return msk, mpk, nil
}
