// Copyright 2018 PingCAP, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// See the License for the specific language governing permissions and
// limitations under the License.

package random

import "math/rand"

// Source draws uniformly distributed integers.
type Source interface {
	// Number returns an integer in [lower, upper].
	Number(lower, upper int) int
}

// RealSource draws from a seeded math/rand generator. It is not safe for
// concurrent use; give each goroutine its own.
type RealSource struct {
	r *rand.Rand
}

func NewRealSource(seed int64) *RealSource {
	return &RealSource{r: rand.New(rand.NewSource(seed))}
}

func (s *RealSource) Number(lower, upper int) int {
	interval := int64(upper - lower + 1)
	return int(s.r.Int63n(interval)) + lower
}

// MockSource always returns one end of the range.
type MockSource struct {
	Minimum bool
}

func (s *MockSource) Number(lower, upper int) int {
	if s.Minimum {
		return lower
	}
	return upper
}
