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

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind classifies the failure modes an HllMap can report (spec §7).
type Kind int

const (
	// KindBadInput: caller passed a key of the wrong length, or a coupon
	// whose decoded register value is outside [0, 63]. The map is
	// unchanged.
	KindBadInput Kind = iota
	// KindOutOfMemory: resize could not allocate the larger arrays. The
	// map remains usable in its pre-resize state.
	KindOutOfMemory
	// KindInvariantViolated: a probe completed a full cycle without
	// finding the key or an empty slot. The load-factor invariant
	// guarantees this never happens; if it does, the map is poisoned.
	KindInvariantViolated
)

func (k Kind) String() string {
	switch k {
	case KindBadInput:
		return "BadInput"
	case KindOutOfMemory:
		return "OutOfMemory"
	case KindInvariantViolated:
		return "InvariantViolated"
	default:
		return "Unknown"
	}
}

// Error is the error type returned by every HllMap operation that can fail.
type Error struct {
	Kind Kind
	// Msg is a human-readable description of the failure.
	Msg string
	// cause, when non-nil, is the underlying error (e.g. an allocation
	// failure surfaced through a panic-recover in resize).
	cause error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

// Unwrap lets errors.Is/As reach the wrapped cause, if any.
func (e *Error) Unwrap() error {
	return e.cause
}

func newBadInput(format string, args ...interface{}) error {
	return errors.WithStack(&Error{Kind: KindBadInput, Msg: fmt.Sprintf(format, args...)})
}

func newOutOfMemory(cause error, format string, args ...interface{}) error {
	return errors.WithStack(&Error{Kind: KindOutOfMemory, Msg: fmt.Sprintf(format, args...), cause: cause})
}

func newInvariantViolated(format string, args ...interface{}) error {
	return errors.WithStack(&Error{Kind: KindInvariantViolated, Msg: fmt.Sprintf(format, args...)})
}

// IsKind reports whether err (or any error it wraps) is an *Error of the
// given kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}
