package abe4

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildTau_RestartsPerAuthLabelBucket(t *testing.T) {
	p, err := ParsePolicy("hr.dept:eng & hr.dept:sales & hr.level:senior & it.dept:eng")
	assert.NoError(t, err)

	tau, err := BuildTau(p)
	assert.NoError(t, err)

	leaves := p.Leaves()

	assert.Equal(t, 0, tau.Get(leaves[0]))
	assert.Equal(t, 1, tau.Get(leaves[1]))
	assert.Equal(t, 0, tau.Get(leaves[2]))
	assert.Equal(t, 0, tau.Get(leaves[3]))

	assert.Equal(t, 1, tau.MaxInBucket("hr", "dept"))
	assert.Equal(t, 0, tau.MaxInBucket("hr", "level"))
	assert.Equal(t, -1, tau.MaxInBucket("hr", "nonexistent"))
	assert.Equal(t, 1, tau.Max())
}

func TestBuildTau_CoversNegatedLeavesToo(t *testing.T) {
	p, err := ParsePolicy("hr.dept:eng & !hr.dept:sales")
	assert.NoError(t, err)

	tau, err := BuildTau(p)
	assert.NoError(t, err)

	leaves := p.Leaves()
	assert.Equal(t, 0, tau.Get(leaves[0]))
	assert.Equal(t, 1, tau.Get(leaves[1]), "tau groups every literal regardless of polarity")
}

func TestBuildTauTilde_GroupsByAuthorityOnly(t *testing.T) {
	p, err := ParsePolicy("!hr.dept:eng & !hr.level:senior & !it.dept:eng")
	assert.NoError(t, err)

	tau, err := BuildTau(p)
	assert.NoError(t, err)

	leaves := p.Leaves()

	assert.Equal(t, 0, tau.GetTilde(leaves[0]))
	assert.Equal(t, 1, tau.GetTilde(leaves[1]), "same authority, different label, counter does not restart")
	assert.Equal(t, 0, tau.GetTilde(leaves[2]), "different authority restarts the counter")

	assert.Equal(t, 1, tau.MaxInAuth("hr"))
	assert.Equal(t, 0, tau.MaxInAuth("it"))
	assert.Equal(t, 1, tau.MaxTilde())
}

func TestBuildTau_IndicesCanCollideAcrossBuckets(t *testing.T) {
	p, err := ParsePolicy("hr.dept:eng & it.dept:eng")
	assert.NoError(t, err)

	tau, err := BuildTau(p)
	assert.NoError(t, err)

	leaves := p.Leaves()
	assert.Equal(t, 0, tau.Get(leaves[0]))
	assert.Equal(t, 0, tau.Get(leaves[1]), "distinct buckets independently start at 0")
}
