package entry

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSortDefault(t *testing.T) {
	entries := []Entry{
		{Name: "zebra.txt", Kind: KindFile},
		{Name: "Apps", Kind: KindDirectory},
		{Name: "alpha.txt", Kind: KindFile},
		{Name: "music", Kind: KindDirectory},
		{Name: "Beta.txt", Kind: KindFile},
	}

	SortDefault(entries)

	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name
	}
	assert.Equal(t, []string{"Apps", "music", "alpha.txt", "Beta.txt", "zebra.txt"}, names)
}

func TestPartialKeepsKind(t *testing.T) {
	e := Partial("/root/broken.jpg", false)
	assert.Equal(t, KindFile, e.Kind)
	assert.Equal(t, "broken.jpg", e.Name)
	assert.Equal(t, ".jpg", e.Extension)
	assert.Zero(t, e.Size)

	d := Partial("/root/dir", true)
	assert.True(t, d.IsDir())
	assert.Empty(t, d.Extension)
}
