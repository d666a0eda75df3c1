/**
 * Copyright 2016 l0vest0rm.hllmap authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License"): you may
 * not use this file except in compliance with the License. You may obtain
 * a copy of the License at
 *
 *     http: *www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS, WITHOUT
 * WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the
 * License for the specific language governing permissions and limitations
 * under the License.
 */

// Created by xuning on 2016/12/19

package hllmap

import (
	"math"
	"math/bits"
)

const (
	// initialTableSize is T0 (spec §3): the first prime table size a new
	// HllMap is allocated with.
	initialTableSize = 157
	// loadFactorNumerator / loadFactorDenominator is the fixed 15/16 load
	// factor used to compute capacity from T.
	loadFactorNumerator   = 15
	loadFactorDenominator = 16
	// growthFactor is applied to T before rounding up to the next prime
	// on resize.
	growthFactor = 2.0

	// rse is hard-coded to k=1024 regardless of the map's actual k. Per
	// spec §4.4 and §9(b) this is preserved as-is rather than silently
	// "fixed" to use the configured k — callers with k != 1024 should
	// scale the bound themselves (0.836/sqrt(k)).
	rse = 0.836 / 32 // 0.836 / sqrt(1024)
)

// HllMap is a densely packed open-addressing hash table mapping
// fixed-length keys to a compact HLL+HIP sketch (spec §1, §3).
//
// Not safe for concurrent use; callers that need concurrent access must
// wrap an HllMap in an external mutex (spec §5).
type HllMap struct {
	keySize uint32
	k       uint32 // registers per sketch, a power of two
	lgK     uint32 // log2(k)
	l       uint32 // words per slot: wordsPerSlot(k)

	t        uint32 // table size, always prime
	capacity uint32 // floor(t * 15/16)
	count    uint32 // occupied slot count

	keys      []byte    // t * keySize
	registers []uint64  // t * l
	occupied  []byte    // ceil(t/8) bitmap
	sumHi     []float64 // t
	sumLo     []float64 // t
	hip       []float64 // t
}

// New allocates an empty HllMap for fixed-length keys of keySize bytes,
// each holding a k-register HLL+HIP sketch (spec §4.4 "new"). k must be a
// power of two, since registers are addressed by coupon & (k-1).
func New(keySize uint32, k uint32) (*HllMap, error) {
	if keySize == 0 {
		return nil, newBadInput("key_size_bytes must be positive")
	}
	if k == 0 || k&(k-1) != 0 {
		return nil, newBadInput("k must be a positive power of two (got %d)", k)
	}

	m := &HllMap{
		keySize: keySize,
		k:       k,
		lgK:     uint32(bits.TrailingZeros32(k)),
		l:       wordsPerSlot(k),
	}
	m.allocate(initialTableSize)
	return m, nil
}

func (m *HllMap) allocate(t uint32) {
	m.t = t
	m.capacity = t * loadFactorNumerator / loadFactorDenominator
	m.keys = make([]byte, uint64(t)*uint64(m.keySize))
	m.registers = make([]uint64, uint64(t)*uint64(m.l))
	m.occupied = make([]byte, (t+7)/8)
	m.sumHi = make([]float64, t)
	m.sumLo = make([]float64, t)
	m.hip = make([]float64, t)
}

func (m *HllMap) probeTable() *probeTable {
	return &probeTable{keys: m.keys, occupied: m.occupied, t: m.t, keySize: m.keySize}
}

// Update co-maintains key's sketch with one coupon observation and returns
// the post-update HIP estimate (spec §4.4 "update").
func (m *HllMap) Update(key []byte, coupon uint32) (float64, error) {
	if uint32(len(key)) != m.keySize {
		return 0, newBadInput("key has length %d, want %d", len(key), m.keySize)
	}

	regIdx, regVal, err := decodeCoupon(m.k, m.lgK, coupon)
	if err != nil {
		return 0, err
	}

	pt := m.probeTable()
	res, err := pt.findKey(key)
	if err != nil {
		return 0, err
	}

	var i uint32
	if res.outcome == probeEmpty {
		i = res.index
		m.insertNewSlot(i, key)
		m.count++
		if m.count > m.capacity {
			if err := m.resize(); err != nil {
				return 0, err
			}
			i, err = m.mustFind(key)
			if err != nil {
				return 0, err
			}
		}
	} else {
		i = res.index
	}

	slotBase := i * m.l
	applyRegisterUpdate(m.registers, slotBase, m.k, regIdx, regVal, &m.sumHi[i], &m.sumLo[i], &m.hip[i])
	return m.hip[i], nil
}

// mustFind re-locates key after a resize; by construction it must succeed
// (spec §4.4 step 2).
func (m *HllMap) mustFind(key []byte) (uint32, error) {
	res, err := m.probeTable().findKey(key)
	if err != nil {
		return 0, err
	}
	if res.outcome != probeFound {
		return 0, newInvariantViolated("key vanished across resize")
	}
	return res.index, nil
}

func (m *HllMap) insertNewSlot(i uint32, key []byte) {
	off := i * m.keySize
	copy(m.keys[off:off+m.keySize], key)
	m.occupied[i/8] |= 1 << (i % 8)
	m.sumHi[i] = float64(m.k)
	m.sumLo[i] = 0
	m.hip[i] = 0
}

// Estimate returns the current HIP estimate for key, or 0.0 if key has
// never been updated (spec §4.4 "estimate"). A nil key mirrors the
// source's NaN-on-null behavior.
func (m *HllMap) Estimate(key []byte) float64 {
	if key == nil {
		return math.NaN()
	}
	if uint32(len(key)) != m.keySize {
		return 0.0
	}
	res, err := m.probeTable().findKey(key)
	if err != nil {
		panic(err)
	}
	if res.outcome == probeFound {
		return m.hip[res.index]
	}
	return 0.0
}

// UpperBound returns estimate(key) * (1 + RSE). RSE is fixed to k=1024
// (see the rse constant above) regardless of the map's configured k.
func (m *HllMap) UpperBound(key []byte) float64 {
	return m.Estimate(key) * (1 + rse)
}

// LowerBound returns estimate(key) * (1 - RSE).
func (m *HllMap) LowerBound(key []byte) float64 {
	return m.Estimate(key) * (1 - rse)
}

// resize grows the table to the next prime at least t*growthFactor and
// rehashes every occupied slot into it (spec §4.4 "resize"). Triggered
// strictly when count > capacity after an insertion.
func (m *HllMap) resize() (err error) {
	newT64 := nextPrime(uint64(math.Ceil(float64(m.t) * growthFactor)))
	if newT64 > math.MaxUint32 {
		return newOutOfMemory(nil, "next table size %d overflows uint32", newT64)
	}
	newT := uint32(newT64)

	defer func() {
		if r := recover(); r != nil {
			if cause, ok := r.(error); ok {
				err = newOutOfMemory(cause, "allocation failed while resizing to %d slots", newT)
			} else {
				err = newOutOfMemory(nil, "allocation failed while resizing to %d slots: %v", newT, r)
			}
		}
	}()

	old := m
	next := &HllMap{keySize: old.keySize, k: old.k, lgK: old.lgK, l: old.l}
	next.allocate(newT)

	newPT := next.probeTable()
	for j := uint32(0); j < old.t; j++ {
		if old.occupied[j/8]&(1<<(j%8)) == 0 {
			continue
		}
		key := old.keyAt(j)
		dst, ferr := newPT.findEmpty(key)
		if ferr != nil {
			return ferr
		}

		off := dst * next.keySize
		copy(next.keys[off:off+next.keySize], key)
		next.occupied[dst/8] |= 1 << (dst % 8)

		srcBase := j * old.l
		dstBase := dst * next.l
		copy(next.registers[dstBase:dstBase+next.l], old.registers[srcBase:srcBase+old.l])

		next.sumHi[dst] = old.sumHi[j]
		next.sumLo[dst] = old.sumLo[j]
		next.hip[dst] = old.hip[j]
	}

	m.t = next.t
	m.capacity = next.capacity
	m.keys = next.keys
	m.registers = next.registers
	m.occupied = next.occupied
	m.sumHi = next.sumHi
	m.sumLo = next.sumLo
	m.hip = next.hip
	return nil
}

func (m *HllMap) keyAt(i uint32) []byte {
	off := i * m.keySize
	return m.keys[off : off+m.keySize]
}

// EntrySizeBytes is a design-time self-report of per-entry storage cost
// (spec §4.4): key bytes, register words, the three float64 scalars, and
// this slot's amortized share of the occupancy bitmap.
func (m *HllMap) EntrySizeBytes() float64 {
	const perSlotScalarOverhead = 24 // sumHi + sumLo + hip, 8 bytes each
	return float64(m.keySize) + 8*float64(m.l) + perSlotScalarOverhead + float64((m.t+7)/8)/float64(m.t)
}

// MemoryUsageBytes is the total live allocation across the six backing
// arrays (spec §4.4).
func (m *HllMap) MemoryUsageBytes() int64 {
	return int64(len(m.keys)) +
		int64(len(m.registers))*8 +
		int64(len(m.occupied)) +
		int64(len(m.sumHi))*8 +
		int64(len(m.sumLo))*8 +
		int64(len(m.hip))*8
}

// TableEntries returns T, the current table size.
func (m *HllMap) TableEntries() uint32 { return m.t }

// CapacityEntries returns floor(T * 15/16).
func (m *HllMap) CapacityEntries() uint32 { return m.capacity }

// CurrentCountEntries returns the number of occupied slots.
func (m *HllMap) CurrentCountEntries() uint32 { return m.count }

// decodeCoupon splits a 32-bit coupon into its register index (the low
// lgK bits) and register value (the remaining high bits), the external
// coupon16Value contract named in spec §6. A decoded value outside
// [0, 63] is BadInput: no 6-bit register can hold it.
func decodeCoupon(k, lgK, coupon uint32) (registerIndex uint32, registerValue uint8, err error) {
	registerIndex = coupon & (k - 1)
	value := coupon >> lgK
	if value > registerMask {
		return 0, 0, newBadInput("coupon register value %d outside [0, 63]", value)
	}
	return registerIndex, uint8(value), nil
}
