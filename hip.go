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

package hllmap

// splitSumThreshold is the register value at or above which a register's
// contribution to the inverse-power-of-two sum moves from sumHi into
// sumLo (spec §3 invariant 3). The two accumulators differ in magnitude
// by roughly 2^32 so that floating point addition never silently drops a
// small term into a much larger one.
const splitSumThreshold = 32

// applyRegisterUpdate co-maintains the packed register, the split sum, and
// the HIP accumulator for one slot, in the load-bearing order spec §4.3
// requires: the HIP increment is computed from the pre-update sum, *then*
// the sum and register are updated to reflect the new value. It is a no-op
// (P3) when newVal does not strictly raise the stored register.
func applyRegisterUpdate(registers []uint64, slotBase uint32, k uint32, r uint32, newVal uint8, sumHi, sumLo, hip *float64) {
	old := getRegister(registers, slotBase, r)
	if newVal <= old {
		return
	}

	s := *sumHi + *sumLo
	*hip += float64(k) / s

	if old < splitSumThreshold {
		*sumHi -= invPow2(old)
	} else {
		*sumLo -= invPow2(old)
	}

	if newVal < splitSumThreshold {
		*sumHi += invPow2(newVal)
	} else {
		*sumLo += invPow2(newVal)
	}

	setRegister(registers, slotBase, r, newVal)
}
