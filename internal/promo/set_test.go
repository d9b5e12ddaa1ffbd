package promo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMapCodeSet(t *testing.T) {
	set := NewMapCodeSet(16).(*mapCodeSet)

	assert.Equal(t, 0, set.Size())
	assert.False(t, set.Contains("VERANO2026"))

	set.Add("VERANO2026")
	set.Add("PROMO12345")

	assert.Equal(t, 2, set.Size())
	assert.True(t, set.Contains("VERANO2026"))
	assert.True(t, set.Contains("PROMO12345"))
	assert.False(t, set.Contains("verano2026"))
}

func TestMapCodeSet_AddDuplicate(t *testing.T) {
	set := NewMapCodeSet(4).(*mapCodeSet)

	set.Add("VERANO2026")
	set.Add("VERANO2026")

	assert.Equal(t, 1, set.Size())
}
