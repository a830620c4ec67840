package modetable

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestByNameRoundTripsToIndicators(t *testing.T) {
	for _, name := range Names() {
		m, ok := ByName(name)
		assert.True(t, ok)

		found, ok := ByIndicators(m.D1, m.D2)
		assert.True(t, ok, "mode %s's (D1,D2)=(%d,%d) should resolve back to a mode", name, m.D1, m.D2)
		assert.Equal(t, name, found.Name)
	}
}

func TestIndicatorPairsAreUnique(t *testing.T) {
	seen := map[[2]int]string{}
	for _, name := range Names() {
		m, _ := ByName(name)
		key := [2]int{m.D1, m.D2}
		if other, ok := seen[key]; ok {
			t.Fatalf("modes %s and %s share indicator pair (%d,%d)", name, other, m.D1, m.D2)
		}
		seen[key] = name
	}
}

func TestUnknownIndicatorsYieldUnknown(t *testing.T) {
	_, ok := ByIndicators(7, 7)
	assert.False(t, ok)
}

func TestM4800SIsUncoded(t *testing.T) {
	m, ok := ByName("M4800S")
	assert.True(t, ok)
	assert.False(t, m.Coded)
}
