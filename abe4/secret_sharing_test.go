package abe4

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func attrs(ss ...string) []UserAttribute {
	out := make([]UserAttribute, len(ss))
	for i, s := range ss {
		ua, err := ParseUserAttribute(s)
		if err != nil {
			panic(err)
		}
		out[i] = ua
	}
	return out
}

func TestReconstruct_Conjunction(t *testing.T) {
	p, err := ParsePolicy("a.b:c & a.b:d & a.b:e")
	assert.NoError(t, err)

	idxs, err := Reconstruct(p, attrs("a.b:c", "a.b:d", "a.b:e"))
	assert.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2}, idxs)

	_, err = Reconstruct(p, attrs("a.b:c", "a.b:d"))
	assert.Error(t, err)
}

func TestReconstruct_Disjunction(t *testing.T) {
	p, err := ParsePolicy("a.b:c | a.b:d")
	assert.NoError(t, err)

	idxs, err := Reconstruct(p, attrs("a.b:c"))
	assert.NoError(t, err)
	assert.Equal(t, []int{0}, idxs)

	idxs, err = Reconstruct(p, attrs("a.b:d"))
	assert.NoError(t, err)
	assert.Equal(t, []int{1}, idxs)

	_, err = Reconstruct(p, nil)
	assert.Error(t, err)
}

func TestReconstruct_NegatedLeafSatisfiedByAbsence(t *testing.T) {
	p, err := ParsePolicy("!a.b:c")
	assert.NoError(t, err)

	idxs, err := Reconstruct(p, nil)
	assert.NoError(t, err)
	assert.Equal(t, []int{0}, idxs)

	_, err = Reconstruct(p, attrs("a.b:c"))
	assert.Error(t, err)
}

func TestSatisfies_MixedPolicy(t *testing.T) {
	p, err := ParsePolicy("a.b:c & (a.b:d | !a.b:e)")
	assert.NoError(t, err)

	assert.True(t, Satisfies(p, attrs("a.b:c", "a.b:d")))
	assert.True(t, Satisfies(p, attrs("a.b:c")))
	assert.False(t, Satisfies(p, attrs("a.b:c", "a.b:e")))
	assert.False(t, Satisfies(p, attrs("a.b:d")))
}

// Scenarios S1-S9: literal (user_attrs, policy) pairs and whether the
// attribute set satisfies the policy.
func TestReconstruct_Scenarios(t *testing.T) {
	cases := []struct {
		name    string
		attrs   []UserAttribute
		policy  string
		wantOK  bool
	}{
		{"S1", attrs(), "A.a:0", false},
		{"S2", attrs("A.a:0"), "A.a:0", true},
		{"S3", attrs("A.a:0", "A.b:0"), "A.a:0 & A.b:0", true},
		{"S4", attrs("A.a:0"), "!A.a:1", true},
		{"S5", attrs("A.a:1"), "!A.a:1", false},
		{"S6", attrs("A.a:1", "A.a:2", "A.a:3"), "!A.a:0", true},
		{"S7", attrs("A.a:2", "A.b:1", "A.c:0"), "A.a:0 | (!A.b:0 & A.a:2) & !(A.c:1 | A.c:2)", true},
		{"S8", attrs("B.a:0"), "!A.a:0", false},
		{"S9", attrs("D.b:5_00", "D.b:5_01", "D.b:5_02", "D.b:5_03"), "!D.b:5", true},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			p, err := ParsePolicy(c.policy)
			assert.NoError(t, err)
			assert.Equal(t, c.wantOK, Satisfies(p, c.attrs))
		})
	}
}

// S10: share_secret's signed-index vectors for a policy mixing And/Or/Not
// at several depths.
func TestShare_S10(t *testing.T) {
	p, err := ParsePolicy("x.b:a & !(!x.b:a2 | orr.y:u) | anda.z:z")
	assert.NoError(t, err)

	entries, err := Share(p)
	assert.NoError(t, err)
	assert.Len(t, entries, 4)

	want := [][]int64{
		{0, 1},
		{-1, 2},
		{-2},
		{0},
	}
	for i, e := range entries {
		assert.Equal(t, want[i], e.Indices, "entry %d", i)
	}
}
