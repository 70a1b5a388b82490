package abe4

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildIota_RestartsPerBucket(t *testing.T) {
	attrs := []UserAttribute{
		{Auth: "hr", Label: "dept", Attr: "eng"},
		{Auth: "hr", Label: "dept", Attr: "sales"},
		{Auth: "hr", Label: "level", Attr: "senior"},
		{Auth: "it", Label: "dept", Attr: "eng"},
	}

	io := BuildIota(attrs)

	i0, ok := io.Get(attrs[0])
	assert.True(t, ok)
	assert.Equal(t, 0, i0)

	i1, ok := io.Get(attrs[1])
	assert.True(t, ok)
	assert.Equal(t, 1, i1)

	i2, ok := io.Get(attrs[2])
	assert.True(t, ok)
	assert.Equal(t, 0, i2, "new (auth,label) bucket restarts at 0")

	i3, ok := io.Get(attrs[3])
	assert.True(t, ok)
	assert.Equal(t, 0, i3, "different authority restarts at 0 even for the same label/attr")

	assert.Equal(t, 1, io.Max())
}

func TestBuildIota_DuplicateAttributeKeepsFirstIndex(t *testing.T) {
	attrs := []UserAttribute{
		{Auth: "hr", Label: "dept", Attr: "eng"},
		{Auth: "hr", Label: "dept", Attr: "sales"},
		{Auth: "hr", Label: "dept", Attr: "eng"},
	}

	io := BuildIota(attrs)
	i, ok := io.Get(attrs[0])
	assert.True(t, ok)
	assert.Equal(t, 0, i)
	assert.Equal(t, 1, io.Max())
}

func TestBuildIota_Empty(t *testing.T) {
	io := BuildIota(nil)
	assert.Equal(t, -1, io.Max())
}
