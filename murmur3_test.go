package hllmap

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMurmurHash3_128Deterministic(t *testing.T) {
	key := []byte("the quick brown fox")
	h0a, h1a := murmurHash3_128(key, murmurSeed)
	h0b, h1b := murmurHash3_128(key, murmurSeed)
	assert.Equal(t, h0a, h0b)
	assert.Equal(t, h1a, h1b)
}

func TestMurmurHash3_128DifferentSeedsDiffer(t *testing.T) {
	key := []byte("the quick brown fox")
	h0a, h1a := murmurHash3_128(key, murmurSeed)
	h0b, h1b := murmurHash3_128(key, murmurSeed+1)
	assert.False(t, h0a == h0b && h1a == h1b)
}

func TestMurmurHash3_128HandlesAllTailLengths(t *testing.T) {
	for n := 0; n < 40; n++ {
		key := make([]byte, n)
		for i := range key {
			key[i] = byte(i * 31)
		}
		assert.NotPanics(t, func() {
			murmurHash3_128(key, murmurSeed)
		}, "length %d", n)
	}
}

func TestMurmurHash3_128EmptyKey(t *testing.T) {
	h0, h1 := murmurHash3_128(nil, murmurSeed)
	h0b, h1b := murmurHash3_128([]byte{}, murmurSeed)
	assert.Equal(t, h0, h0b)
	assert.Equal(t, h1, h1b)
}
