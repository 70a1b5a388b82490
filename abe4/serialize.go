package abe4

import (
	"encoding/binary"
	"math/big"
	"sort"

	"github.com/fentec-project/bn256"

	"github.com/accless/abe4/internal"
)

// scalarLen is the fixed width every serialised scalar occupies: Order is a
// ~254-bit prime, so 32 bytes comfortably covers every representative in
// [0, Order).
const scalarLen = 32

func putScalar(buf []byte, x *big.Int) []byte {
	b := make([]byte, scalarLen)
	x.FillBytes(b)
	return append(buf, b...)
}

func takeScalar(b []byte) (*big.Int, []byte, error) {
	if len(b) < scalarLen {
		return nil, nil, internal.MalformedInput
	}
	return new(big.Int).SetBytes(b[:scalarLen]), b[scalarLen:], nil
}

func putUint32(buf []byte, n int) []byte {
	var tmp [4]byte
	binary.LittleEndian.PutUint32(tmp[:], uint32(n))
	return append(buf, tmp[:]...)
}

func takeUint32(b []byte) (int, []byte, error) {
	if len(b) < 4 {
		return 0, nil, internal.MalformedInput
	}
	return int(binary.LittleEndian.Uint32(b[:4])), b[4:], nil
}

func putString(buf []byte, s string) []byte {
	buf = putUint32(buf, len(s))
	return append(buf, s...)
}

func takeString(b []byte) (string, []byte, error) {
	n, rest, err := takeUint32(b)
	if err != nil {
		return "", nil, err
	}
	if len(rest) < n {
		return "", nil, internal.MalformedInput
	}
	return string(rest[:n]), rest[n:], nil
}

func putG1(buf []byte, p *bn256.G1) []byte {
	m := p.Marshal()
	buf = putUint32(buf, len(m))
	return append(buf, m...)
}

func takeG1(b []byte) (*bn256.G1, []byte, error) {
	n, rest, err := takeUint32(b)
	if err != nil {
		return nil, nil, err
	}
	if len(rest) < n {
		return nil, nil, internal.MalformedCipher
	}
	p := new(bn256.G1)
	if _, ok := p.Unmarshal(rest[:n]); !ok {
		return nil, nil, internal.MalformedCipher
	}
	return p, rest[n:], nil
}

func putG2(buf []byte, p *bn256.G2) []byte {
	m := p.Marshal()
	buf = putUint32(buf, len(m))
	return append(buf, m...)
}

func takeG2(b []byte) (*bn256.G2, []byte, error) {
	n, rest, err := takeUint32(b)
	if err != nil {
		return nil, nil, err
	}
	if len(rest) < n {
		return nil, nil, internal.MalformedCipher
	}
	p := new(bn256.G2)
	if _, ok := p.Unmarshal(rest[:n]); !ok {
		return nil, nil, internal.MalformedCipher
	}
	return p, rest[n:], nil
}

// sortedIntKeysG1 / sortedIntKeysG2 return an int-keyed map's keys in
// ascending order, so map-valued fields always serialise in a canonical,
// reproducible order regardless of Go's randomised map iteration.
func sortedIntKeysG1(m map[int]*bn256.G1) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}

func sortedIntKeysG2(m map[int]*bn256.G2) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}

func sortedLabelAttrKeys(m map[labelAttr]*bn256.G1) []labelAttr {
	keys := make([]labelAttr, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Label != keys[j].Label {
			return keys[i].Label < keys[j].Label
		}
		return keys[i].Attr < keys[j].Attr
	})
	return keys
}

func sortedStringKeysG1(m map[string]*bn256.G1) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// MarshalCiphertext encodes a Ciphertext into the canonical wire format: the
// four component vectors in order, each length-prefixed.
func MarshalCiphertext(ct *Ciphertext) ([]byte, error) {
	var buf []byte
	buf = putUint32(buf, len(ct.C1))
	for _, p := range ct.C1 {
		buf = putG2(buf, p)
	}
	buf = putUint32(buf, len(ct.C2))
	for _, p := range ct.C2 {
		buf = putG1(buf, p)
	}
	buf = putUint32(buf, len(ct.C3))
	for _, p := range ct.C3 {
		buf = putG2(buf, p)
	}
	buf = putUint32(buf, len(ct.C4))
	for _, p := range ct.C4 {
		buf = putG2(buf, p)
	}
	return buf, nil
}

// UnmarshalCiphertext decodes a Ciphertext from the format MarshalCiphertext
// produces.
func UnmarshalCiphertext(b []byte) (*Ciphertext, error) {
	n1, b, err := takeUint32(b)
	if err != nil {
		return nil, internal.MalformedCipher
	}
	c1 := make([]*bn256.G2, n1)
	for i := range c1 {
		c1[i], b, err = takeG2(b)
		if err != nil {
			return nil, err
		}
	}

	n2, b, err := takeUint32(b)
	if err != nil {
		return nil, internal.MalformedCipher
	}
	c2 := make([]*bn256.G1, n2)
	for i := range c2 {
		c2[i], b, err = takeG1(b)
		if err != nil {
			return nil, err
		}
	}

	n3, b, err := takeUint32(b)
	if err != nil {
		return nil, internal.MalformedCipher
	}
	c3 := make([]*bn256.G2, n3)
	for i := range c3 {
		c3[i], b, err = takeG2(b)
		if err != nil {
			return nil, err
		}
	}

	n4, b, err := takeUint32(b)
	if err != nil {
		return nil, internal.MalformedCipher
	}
	c4 := make([]*bn256.G2, n4)
	for i := range c4 {
		c4[i], b, err = takeG2(b)
		if err != nil {
			return nil, err
		}
	}

	return &Ciphertext{C1: c1, C2: c2, C3: c3, C4: c4}, nil
}

// MarshalPartialMSK encodes an authority's master secret key: its name and
// its four scalar exponents. This never leaves an authority's own storage
// in the decentralised setting, but an authority still needs to persist it
// across restarts.
func MarshalPartialMSK(m *PartialMSK) ([]byte, error) {
	var buf []byte
	buf = putString(buf, m.Auth)
	buf = putScalar(buf, m.Beta)
	buf = putScalar(buf, m.B)
	buf = putScalar(buf, m.BNeg)
	buf = putScalar(buf, m.BPrime)
	return buf, nil
}

// UnmarshalPartialMSK decodes the format MarshalPartialMSK produces.
func UnmarshalPartialMSK(b []byte) (*PartialMSK, error) {
	auth, b, err := takeString(b)
	if err != nil {
		return nil, internal.MalformedSecKey
	}
	beta, b, err := takeScalar(b)
	if err != nil {
		return nil, internal.MalformedSecKey
	}
	bScalar, b, err := takeScalar(b)
	if err != nil {
		return nil, internal.MalformedSecKey
	}
	bNeg, b, err := takeScalar(b)
	if err != nil {
		return nil, internal.MalformedSecKey
	}
	bPrime, _, err := takeScalar(b)
	if err != nil {
		return nil, internal.MalformedSecKey
	}
	return &PartialMSK{Auth: auth, Beta: beta, B: bScalar, BNeg: bNeg, BPrime: bPrime}, nil
}

// MarshalPartialMPK encodes an authority's public key: its name and its
// four group elements (A, B, BNeg in G2; BPrime in G1).
func MarshalPartialMPK(m *PartialMPK) ([]byte, error) {
	var buf []byte
	buf = putString(buf, m.Auth)
	buf = putG2(buf, m.A)
	buf = putG2(buf, m.B)
	buf = putG2(buf, m.BNeg)
	buf = putG1(buf, m.BPrime)
	return buf, nil
}

// UnmarshalPartialMPK decodes the format MarshalPartialMPK produces.
func UnmarshalPartialMPK(b []byte) (*PartialMPK, error) {
	auth, b, err := takeString(b)
	if err != nil {
		return nil, internal.MalformedPubKey
	}
	a, b, err := takeG2(b)
	if err != nil {
		return nil, internal.MalformedPubKey
	}
	bp, b, err := takeG2(b)
	if err != nil {
		return nil, internal.MalformedPubKey
	}
	bNeg, b, err := takeG2(b)
	if err != nil {
		return nil, internal.MalformedPubKey
	}
	bPrime, _, err := takeG1(b)
	if err != nil {
		return nil, internal.MalformedPubKey
	}
	return &PartialMPK{Auth: auth, A: a, B: bp, BNeg: bNeg, BPrime: bPrime}, nil
}

// MarshalPartialUSK encodes one authority's slice of a user's decryption
// key: the authority name, then each of k_{1,1}, k_{1,2}, k_2, k_3, k_4, k_5
// in canonical key order.
func MarshalPartialUSK(k *PartialUSK) ([]byte, error) {
	var buf []byte
	buf = putString(buf, k.Auth)

	k11keys := sortedIntKeysG1(k.K11)
	buf = putUint32(buf, len(k11keys))
	for _, i := range k11keys {
		buf = putUint32(buf, i)
		buf = putG1(buf, k.K11[i])
	}

	k12keys := sortedLabelAttrKeys(k.K12)
	buf = putUint32(buf, len(k12keys))
	for _, la := range k12keys {
		buf = putString(buf, la.Label)
		buf = putString(buf, la.Attr)
		buf = putG1(buf, k.K12[la])
	}

	k2keys := sortedStringKeysG1(k.K2)
	buf = putUint32(buf, len(k2keys))
	for _, label := range k2keys {
		buf = putString(buf, label)
		buf = putG1(buf, k.K2[label])
	}

	k3keys := sortedLabelAttrKeys(k.K3)
	buf = putUint32(buf, len(k3keys))
	for _, la := range k3keys {
		buf = putString(buf, la.Label)
		buf = putString(buf, la.Attr)
		buf = putG1(buf, k.K3[la])
	}

	k4keys := sortedIntKeysG2(k.K4)
	buf = putUint32(buf, len(k4keys))
	for _, i := range k4keys {
		buf = putUint32(buf, i)
		buf = putG2(buf, k.K4[i])
	}

	k5keys := sortedIntKeysG2(k.K5)
	buf = putUint32(buf, len(k5keys))
	for _, i := range k5keys {
		buf = putUint32(buf, i)
		buf = putG2(buf, k.K5[i])
	}

	return buf, nil
}

// UnmarshalPartialUSK decodes the format MarshalPartialUSK produces.
func UnmarshalPartialUSK(b []byte) (*PartialUSK, error) {
	auth, b, err := takeString(b)
	if err != nil {
		return nil, internal.MalformedDecKey
	}

	n, b, err := takeUint32(b)
	if err != nil {
		return nil, internal.MalformedDecKey
	}
	k11 := make(map[int]*bn256.G1, n)
	for i := 0; i < n; i++ {
		var idx int
		idx, b, err = takeUint32(b)
		if err != nil {
			return nil, internal.MalformedDecKey
		}
		var pt *bn256.G1
		pt, b, err = takeG1(b)
		if err != nil {
			return nil, internal.MalformedDecKey
		}
		k11[idx] = pt
	}

	n, b, err = takeUint32(b)
	if err != nil {
		return nil, internal.MalformedDecKey
	}
	k12 := make(map[labelAttr]*bn256.G1, n)
	for i := 0; i < n; i++ {
		var label, attr string
		label, b, err = takeString(b)
		if err != nil {
			return nil, internal.MalformedDecKey
		}
		attr, b, err = takeString(b)
		if err != nil {
			return nil, internal.MalformedDecKey
		}
		var pt *bn256.G1
		pt, b, err = takeG1(b)
		if err != nil {
			return nil, internal.MalformedDecKey
		}
		k12[labelAttr{label, attr}] = pt
	}

	n, b, err = takeUint32(b)
	if err != nil {
		return nil, internal.MalformedDecKey
	}
	k2 := make(map[string]*bn256.G1, n)
	for i := 0; i < n; i++ {
		var label string
		label, b, err = takeString(b)
		if err != nil {
			return nil, internal.MalformedDecKey
		}
		var pt *bn256.G1
		pt, b, err = takeG1(b)
		if err != nil {
			return nil, internal.MalformedDecKey
		}
		k2[label] = pt
	}

	n, b, err = takeUint32(b)
	if err != nil {
		return nil, internal.MalformedDecKey
	}
	k3 := make(map[labelAttr]*bn256.G1, n)
	for i := 0; i < n; i++ {
		var label, attr string
		label, b, err = takeString(b)
		if err != nil {
			return nil, internal.MalformedDecKey
		}
		attr, b, err = takeString(b)
		if err != nil {
			return nil, internal.MalformedDecKey
		}
		var pt *bn256.G1
		pt, b, err = takeG1(b)
		if err != nil {
			return nil, internal.MalformedDecKey
		}
		k3[labelAttr{label, attr}] = pt
	}

	n, b, err = takeUint32(b)
	if err != nil {
		return nil, internal.MalformedDecKey
	}
	k4 := make(map[int]*bn256.G2, n)
	for i := 0; i < n; i++ {
		var idx int
		idx, b, err = takeUint32(b)
		if err != nil {
			return nil, internal.MalformedDecKey
		}
		var pt *bn256.G2
		pt, b, err = takeG2(b)
		if err != nil {
			return nil, internal.MalformedDecKey
		}
		k4[idx] = pt
	}

	n, b, err = takeUint32(b)
	if err != nil {
		return nil, internal.MalformedDecKey
	}
	k5 := make(map[int]*bn256.G2, n)
	for i := 0; i < n; i++ {
		var idx int
		idx, b, err = takeUint32(b)
		if err != nil {
			return nil, internal.MalformedDecKey
		}
		var pt *bn256.G2
		pt, b, err = takeG2(b)
		if err != nil {
			return nil, internal.MalformedDecKey
		}
		k5[idx] = pt
	}

	return &PartialUSK{Auth: auth, K11: k11, K12: k12, K2: k2, K3: k3, K4: k4, K5: k5}, nil
}

// MarshalUSK encodes a user's full secret key: the gid it is bound to, then
// each authority's partial key in sorted-authority order.
func MarshalUSK(u *USK) ([]byte, error) {
	var buf []byte
	buf = putString(buf, u.GID)
	auths := make([]string, 0, len(u.Parts))
	for a := range u.Parts {
		auths = append(auths, a)
	}
	sort.Strings(auths)
	buf = putUint32(buf, len(auths))
	for _, auth := range auths {
		partBytes, err := MarshalPartialUSK(u.Parts[auth])
		if err != nil {
			return nil, err
		}
		buf = putUint32(buf, len(partBytes))
		buf = append(buf, partBytes...)
	}
	return buf, nil
}

// UnmarshalUSK decodes the format MarshalUSK produces.
func UnmarshalUSK(b []byte) (*USK, error) {
	gid, b, err := takeString(b)
	if err != nil {
		return nil, internal.MalformedDecKey
	}
	n, b, err := takeUint32(b)
	if err != nil {
		return nil, internal.MalformedDecKey
	}
	usk := NewUSK(gid)
	for i := 0; i < n; i++ {
		var partLen int
		partLen, b, err = takeUint32(b)
		if err != nil {
			return nil, internal.MalformedDecKey
		}
		if len(b) < partLen {
			return nil, internal.MalformedDecKey
		}
		part, err := UnmarshalPartialUSK(b[:partLen])
		if err != nil {
			return nil, err
		}
		b = b[partLen:]
		if err := usk.AddPartialKey(part); err != nil {
			return nil, err
		}
	}
	return usk, nil
}
