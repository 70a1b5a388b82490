package abe4

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalPartialMSK_RoundTrip(t *testing.T) {
	msk, _, err := Setup([]string{"hr"})
	require.NoError(t, err)

	wire, err := MarshalPartialMSK(msk["hr"])
	require.NoError(t, err)

	got, err := UnmarshalPartialMSK(wire)
	require.NoError(t, err)

	assert.Equal(t, msk["hr"].Auth, got.Auth)
	assert.Equal(t, msk["hr"].Beta.String(), got.Beta.String())
	assert.Equal(t, msk["hr"].B.String(), got.B.String())
	assert.Equal(t, msk["hr"].BNeg.String(), got.BNeg.String())
	assert.Equal(t, msk["hr"].BPrime.String(), got.BPrime.String())
}

func TestMarshalPartialMPK_RoundTrip(t *testing.T) {
	_, mpk, err := Setup([]string{"hr"})
	require.NoError(t, err)

	wire, err := MarshalPartialMPK(mpk["hr"])
	require.NoError(t, err)

	got, err := UnmarshalPartialMPK(wire)
	require.NoError(t, err)

	assert.Equal(t, mpk["hr"].Auth, got.Auth)
	assert.Equal(t, mpk["hr"].A.String(), got.A.String())
	assert.Equal(t, mpk["hr"].B.String(), got.B.String())
	assert.Equal(t, mpk["hr"].BNeg.String(), got.BNeg.String())
	assert.Equal(t, mpk["hr"].BPrime.String(), got.BPrime.String())
}

func TestMarshalPartialUSK_RoundTrip(t *testing.T) {
	msk, _, err := Setup([]string{"hr"})
	require.NoError(t, err)

	held := attrs("hr.dept:eng")
	iot := BuildIota(held)
	usk, err := KeyGen("alice", msk, held, iot)
	require.NoError(t, err)

	part := usk.Parts["hr"]
	wire, err := MarshalPartialUSK(part)
	require.NoError(t, err)

	got, err := UnmarshalPartialUSK(wire)
	require.NoError(t, err)

	assert.Equal(t, part.Auth, got.Auth)
	for i, v := range part.K11 {
		require.Contains(t, got.K11, i)
		assert.Equal(t, v.String(), got.K11[i].String())
	}
	for la, v := range part.K12 {
		require.Contains(t, got.K12, la)
		assert.Equal(t, v.String(), got.K12[la].String())
	}
	for label, v := range part.K2 {
		require.Contains(t, got.K2, label)
		assert.Equal(t, v.String(), got.K2[label].String())
	}
}

func TestUnmarshalPartialMSK_RejectsTruncatedInput(t *testing.T) {
	_, err := UnmarshalPartialMSK([]byte{0, 0, 0, 1, 'x'})
	assert.Error(t, err)
}
