package abe4

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupAuthorities(t *testing.T, auths ...string) (MSK, MPK) {
	t.Helper()
	msk, mpk, err := Setup(auths)
	require.NoError(t, err)
	return msk, mpk
}

func issueUSK(t *testing.T, msk MSK, gid string, held []UserAttribute) (*USK, *Iota) {
	t.Helper()
	iot := BuildIota(held)
	usk, err := KeyGen(gid, msk, held, iot)
	require.NoError(t, err)
	return usk, iot
}

func TestEndToEnd_PositiveConjunction(t *testing.T) {
	msk, mpk := setupAuthorities(t, "hr", "it")

	policy, err := ParsePolicy("hr.dept:eng & it.clearance:high")
	require.NoError(t, err)
	tau, err := BuildTau(policy)
	require.NoError(t, err)

	held := attrs("hr.dept:eng", "it.clearance:high")
	usk, iot := issueUSK(t, msk, "alice", held)

	symKey, ct, err := Encrypt(mpk, policy, tau)
	require.NoError(t, err)

	recovered, err := Decrypt(usk, "alice", iot, tau, policy, ct)
	require.NoError(t, err)
	assert.Equal(t, symKey.String(), recovered.String())
}

func TestEndToEnd_NegatedAttributeExcludesHolder(t *testing.T) {
	msk, mpk := setupAuthorities(t, "hr")

	policy, err := ParsePolicy("hr.dept:eng & !hr.dept:intern")
	require.NoError(t, err)
	tau, err := BuildTau(policy)
	require.NoError(t, err)

	symKey, ct, err := Encrypt(mpk, policy, tau)
	require.NoError(t, err)

	goodUSK, goodIota := issueUSK(t, msk, "bob", attrs("hr.dept:eng"))
	recovered, err := Decrypt(goodUSK, "bob", goodIota, tau, policy, ct)
	require.NoError(t, err)
	assert.Equal(t, symKey.String(), recovered.String())

	internUSK, internIota := issueUSK(t, msk, "carol", attrs("hr.dept:intern"))
	_, err = Decrypt(internUSK, "carol", internIota, tau, policy, ct)
	assert.True(t, IsUnsatisfiable(err))
}

func TestEndToEnd_BothDecryptStrategiesAgree(t *testing.T) {
	msk, mpk := setupAuthorities(t, "A", "B", "C")

	policy, err := ParsePolicy("A.a:2 | (!A.b:0 & A.a:2) & !(A.c:1 | A.c:2)")
	require.NoError(t, err)
	tau, err := BuildTau(policy)
	require.NoError(t, err)

	symKey, ct, err := Encrypt(mpk, policy, tau)
	require.NoError(t, err)

	held := attrs("A.a:2", "A.b:1", "A.c:0")
	usk, iot := issueUSK(t, msk, "dave", held)

	a, err := DecryptWithStrategy(usk, "dave", iot, tau, policy, ct, StrategyA)
	require.NoError(t, err)
	b, err := DecryptWithStrategy(usk, "dave", iot, tau, policy, ct, StrategyB)
	require.NoError(t, err)

	assert.Equal(t, symKey.String(), a.String())
	assert.Equal(t, symKey.String(), b.String())
}

func TestEndToEnd_Hybrid_RoundTrip(t *testing.T) {
	msk, mpk := setupAuthorities(t, "hr", "it")

	policy, err := ParsePolicy("it.clearance:high | hr.dept:eng")
	require.NoError(t, err)
	tau, err := BuildTau(policy)
	require.NoError(t, err)

	usk, iot := issueUSK(t, msk, "dave", attrs("hr.dept:eng"))

	msg := []byte("the launch code is 1234")
	aad := []byte("dave")

	ct, payload, err := EncryptHybrid(msg, aad, policy, mpk, tau)
	require.NoError(t, err)

	plain, err := DecryptHybrid(ct, payload, aad, usk, "dave", iot, tau, policy)
	require.NoError(t, err)
	assert.Equal(t, msg, plain)
}

func TestEndToEnd_Hybrid_TamperedTagFails(t *testing.T) {
	msk, mpk := setupAuthorities(t, "hr")

	policy, err := ParsePolicy("hr.dept:eng")
	require.NoError(t, err)
	tau, err := BuildTau(policy)
	require.NoError(t, err)

	usk, iot := issueUSK(t, msk, "erin", attrs("hr.dept:eng"))

	ct, payload, err := EncryptHybrid([]byte("secret"), nil, policy, mpk, tau)
	require.NoError(t, err)

	tampered := append([]byte(nil), payload...)
	tampered[len(tampered)-1] ^= 0xff

	_, err = DecryptHybrid(ct, tampered, nil, usk, "erin", iot, tau, policy)
	assert.True(t, IsCryptoFailure(err))
}

func TestEndToEnd_UnrelatedAuthorityCannotDecrypt(t *testing.T) {
	msk, mpk := setupAuthorities(t, "hr", "it")

	policy, err := ParsePolicy("it.clearance:high")
	require.NoError(t, err)
	tau, err := BuildTau(policy)
	require.NoError(t, err)

	usk, iot := issueUSK(t, msk, "frank", attrs("hr.dept:eng"))

	_, ct, err := Encrypt(mpk, policy, tau)
	require.NoError(t, err)

	_, err = Decrypt(usk, "frank", iot, tau, policy, ct)
	assert.True(t, IsUnsatisfiable(err))
}

func TestMarshalCiphertext_RoundTrip(t *testing.T) {
	_, mpk := setupAuthorities(t, "hr")

	policy, err := ParsePolicy("hr.dept:eng & !hr.dept:intern")
	require.NoError(t, err)
	tau, err := BuildTau(policy)
	require.NoError(t, err)

	_, ct, err := Encrypt(mpk, policy, tau)
	require.NoError(t, err)

	wire, err := MarshalCiphertext(ct)
	require.NoError(t, err)

	got, err := UnmarshalCiphertext(wire)
	require.NoError(t, err)

	require.Equal(t, len(ct.C1), len(got.C1))
	for i := range ct.C1 {
		assert.Equal(t, ct.C1[i].String(), got.C1[i].String())
		assert.Equal(t, ct.C2[i].String(), got.C2[i].String())
		assert.Equal(t, ct.C3[i].String(), got.C3[i].String())
	}
	require.Equal(t, len(ct.C4), len(got.C4))
	for i := range ct.C4 {
		assert.Equal(t, ct.C4[i].String(), got.C4[i].String())
	}
}

func TestMarshalUSK_RoundTrip(t *testing.T) {
	msk, _ := setupAuthorities(t, "hr", "it")
	usk, _ := issueUSK(t, msk, "gina", attrs("hr.dept:eng", "it.clearance:high"))

	wire, err := MarshalUSK(usk)
	require.NoError(t, err)

	got, err := UnmarshalUSK(wire)
	require.NoError(t, err)

	assert.Equal(t, usk.GID, got.GID)
	require.Equal(t, len(usk.Parts), len(got.Parts))
	for auth, part := range usk.Parts {
		gotPart, ok := got.Parts[auth]
		require.True(t, ok)
		for i, v := range part.K11 {
			assert.Equal(t, v.String(), gotPart.K11[i].String())
		}
	}
}
