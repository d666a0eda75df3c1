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

// invPow2Table holds 2^-v for v in [0, 63], precomputed once at package
// init so the HIP hot path never calls math.Pow.
var invPow2Table [64]float64

func init() {
	v := 1.0
	for i := 0; i < 64; i++ {
		invPow2Table[i] = v
		v /= 2
	}
}

// invPow2 returns 2^-v with full IEEE-754 precision for v in [0, 63]. The
// external collaborator named in spec §6.
func invPow2(v uint8) float64 {
	return invPow2Table[v]
}
