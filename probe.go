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

// Created by xuning on 2016/12/20

package hllmap

import "bytes"

// probeTable is the slice of HllMap's backing arrays the probe engine
// needs: keys and the occupancy bitmap. map.go passes either the live
// table or the table being built during resize.
type probeTable struct {
	keys     []byte
	occupied []byte
	t        uint32
	keySize  uint32
}

func (pt *probeTable) keyAt(i uint32) []byte {
	off := i * pt.keySize
	return pt.keys[off : off+pt.keySize]
}

func (pt *probeTable) isOccupied(i uint32) bool {
	return pt.occupied[i/8]&(1<<(i%8)) != 0
}

func (pt *probeTable) setOccupied(i uint32) {
	pt.occupied[i/8] |= 1 << (i % 8)
}

// probeStart hashes key into an initial index and a stride, per spec §4.2.
// Because t is prime and 1 <= stride <= t-1, stride is coprime with t and
// the probe sequence i, i+stride, i+2*stride, ... (mod t) visits every
// slot exactly once before returning to i.
func probeStart(key []byte, t uint32) (initial, stride uint32) {
	h0, h1 := murmurHash3_128(key, murmurSeed)
	initial = uint32(h0 % uint64(t))
	stride = uint32(1 + h1%uint64(t-1))
	return initial, stride
}

// probeOutcome distinguishes the two ways a probe sequence can end, in
// place of the source's "index or ~index" signed-integer encoding, which
// spec §9 calls out as language-specific noise rather than part of the
// contract.
type probeOutcome int

const (
	probeFound probeOutcome = iota
	probeEmpty
)

type probeResult struct {
	outcome probeOutcome
	index   uint32
}

// findKey walks the probe sequence for key, stopping at the first matching
// occupied slot (probeFound) or the first empty slot (probeEmpty). A probe
// that returns to its own starting index without resolving indicates the
// load-factor invariant was violated elsewhere in the map and is reported
// as InvariantViolated (spec §4.2, §9(a)).
func (pt *probeTable) findKey(key []byte) (probeResult, error) {
	initial, stride := probeStart(key, pt.t)
	i := initial
	for {
		if !pt.isOccupied(i) {
			return probeResult{outcome: probeEmpty, index: i}, nil
		}
		if bytes.Equal(pt.keyAt(i), key) {
			return probeResult{outcome: probeFound, index: i}, nil
		}
		i = (i + stride) % pt.t
		if i == initial {
			return probeResult{}, newInvariantViolated("probe for key returned to start without match or empty slot")
		}
	}
}

// findEmpty is findKey without the key-comparison branch, used only by
// resize against a destination table that is known to be strictly under
// capacity (spec §4.2): it never needs to inspect an already-written key.
func (pt *probeTable) findEmpty(key []byte) (uint32, error) {
	initial, stride := probeStart(key, pt.t)
	i := initial
	for {
		if !pt.isOccupied(i) {
			return i, nil
		}
		i = (i + stride) % pt.t
		if i == initial {
			return 0, newInvariantViolated("no empty slot found while resizing")
		}
	}
}
