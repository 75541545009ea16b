package prng

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUniformIsPure(t *testing.T) {
	for seed := int64(-50); seed < 50; seed++ {
		assert.Equal(t, Uniform(seed), Uniform(seed), "seed %d", seed)
	}
}

func TestUniformRange(t *testing.T) {
	for seed := int64(0); seed < 20000; seed++ {
		v := Uniform(seed)
		assert.GreaterOrEqual(t, v, 0.0)
		assert.Less(t, v, 1.0)
	}
}

func TestUniformDistinctSeeds(t *testing.T) {
	assert.NotEqual(t, Uniform(10042), Uniform(10043))
	assert.NotEqual(t, Uniform(1), Uniform(2))
}

func TestSeqOffsets(t *testing.T) {
	s := New(10001)
	assert.Equal(t, Uniform(10001), s.At(0))
	assert.Equal(t, Uniform(10004), s.At(3))
}

func TestSeqBetween(t *testing.T) {
	tests := []struct {
		name   string
		lo, hi int
	}{
		{name: "single digit", lo: 1, hi: 9},
		{name: "two digits", lo: 10, hi: 99},
		{name: "degenerate", lo: 5, hi: 5},
		{name: "reversed", lo: 9, hi: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lo, hi := tt.lo, tt.hi
			if hi < lo {
				lo, hi = hi, lo
			}
			for base := int64(0); base < 500; base++ {
				v := New(base).Between(1, tt.lo, tt.hi)
				assert.GreaterOrEqual(t, v, lo)
				assert.LessOrEqual(t, v, hi)
			}
		})
	}
}

func TestIntnNonPositive(t *testing.T) {
	assert.Equal(t, 0, New(7).Intn(0, 0))
	assert.Equal(t, 0, New(7).Intn(0, -3))
}

func TestPick(t *testing.T) {
	items := []int{2, 4, 5, 8, 10}
	for base := int64(0); base < 200; base++ {
		assert.Contains(t, items, Pick(New(base), 1, items))
	}
	assert.Equal(t, "", Pick(New(3), 1, []string(nil)))
}
