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

// Mapper is the capability set the surrounding Map hierarchy expects from
// any keyed-sketch implementation (spec §6, §9). HllMap is the one variant
// described by this repository; the source's abstract Map base class and
// its other subclasses (DirectCouponList and friends) are out of scope.
type Mapper interface {
	Update(key []byte, coupon uint32) (float64, error)
	Estimate(key []byte) float64
	UpperBound(key []byte) float64
	LowerBound(key []byte) float64
	EntrySizeBytes() float64
	MemoryUsageBytes() int64
	TableEntries() uint32
	CapacityEntries() uint32
	CurrentCountEntries() uint32
}

var _ Mapper = (*HllMap)(nil)
