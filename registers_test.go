package hllmap

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegisterPackUnpackRoundTrip(t *testing.T) {
	k := uint32(1024)
	l := wordsPerSlot(k)
	registers := make([]uint64, l)

	for r := uint32(0); r < k; r++ {
		v := uint8((r * 7) % 64)
		setRegister(registers, 0, r, v)
		assert.Equal(t, v, getRegister(registers, 0, r), "register %d", r)
	}
}

func TestSetRegisterPreservesNeighbors(t *testing.T) {
	l := wordsPerSlot(1024)
	registers := make([]uint64, l)

	for r := uint32(0); r < 10; r++ {
		setRegister(registers, 0, r, uint8(r+1))
	}
	setRegister(registers, 0, 3, 63)

	for r := uint32(0); r < 10; r++ {
		if r == 3 {
			assert.EqualValues(t, 63, getRegister(registers, 0, r))
			continue
		}
		assert.EqualValues(t, r+1, getRegister(registers, 0, r))
	}
}

func TestSetRegisterPreservesHighBitsOfWord(t *testing.T) {
	// Ten 6-bit registers only fill 60 of a word's 64 bits; the top four
	// bits must never be disturbed by a write (spec §4.1).
	l := wordsPerSlot(10)
	registers := make([]uint64, l)
	registers[0] = 0xF << 60

	setRegister(registers, 0, 9, 0x3F)
	assert.Equal(t, uint64(0xF)<<60, registers[0]&(uint64(0xF)<<60))
	assert.EqualValues(t, 0x3F, getRegister(registers, 0, 9))
}

func TestWordsPerSlot(t *testing.T) {
	assert.EqualValues(t, 2, wordsPerSlot(10))
	assert.EqualValues(t, 3, wordsPerSlot(11))
	assert.EqualValues(t, 104, wordsPerSlot(1024))
}
