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

// Package measurement keeps per transaction latency histograms and renders
// them as plain text, a table or JSON.
package measurement

import (
	"io"
	"sort"
	"sync"
	"time"

	"go.uber.org/atomic"
)

var header = []string{"Operation", "Takes(s)", "Count", "TPS", "Avg(us)", "Min(us)", "Max(us)", "99th(us)", "99.9th(us)", "99.99th(us)"}

type Measurement struct {
	sync.RWMutex

	style      string
	histograms map[string]*histogram
	// warmUp is true until the warmup period ends; samples are dropped
	// meanwhile.
	warmUp atomic.Bool
	now    func() time.Time
}

// New creates a Measurement rendering with style, one of "plain", "table"
// or "json".
func New(style string) *Measurement {
	return &Measurement{
		style:      style,
		histograms: make(map[string]*histogram, 16),
		now:        time.Now,
	}
}

func (m *Measurement) EnableWarmUp(b bool) {
	m.warmUp.Store(b)
}

func (m *Measurement) IsWarmUpFinished() bool {
	return !m.warmUp.Load()
}

// Measure records one latency sample for op.
func (m *Measurement) Measure(op string, latency time.Duration) {
	if !m.IsWarmUpFinished() {
		return
	}
	m.Lock()
	h, ok := m.histograms[op]
	if !ok {
		h = newHistogram(m.now())
		m.histograms[op] = h
	}
	h.Measure(latency)
	m.Unlock()
}

// Snapshot returns the current statistics of every operation.
func (m *Measurement) Snapshot() map[string]Stats {
	m.RLock()
	defer m.RUnlock()
	now := m.now()
	out := make(map[string]Stats, len(m.histograms))
	for op, h := range m.histograms {
		out[op] = h.stats(now)
	}
	return out
}

// Output renders the statistics of every operation, sorted by name.
func (m *Measurement) Output(w io.Writer) error {
	snapshot := m.Snapshot()
	ops := make([]string, 0, len(snapshot))
	for op := range snapshot {
		ops = append(ops, op)
	}
	sort.Strings(ops)

	lines := make([][]string, 0, len(ops))
	for _, op := range ops {
		lines = append(lines, snapshot[op].row(op))
	}

	switch m.style {
	case OutputStyleTable:
		RenderTable(w, header, lines)
	case OutputStyleJSON:
		return RenderJSON(w, header, lines)
	default:
		RenderString(w, "%-12s - %s\n", header, lines)
	}
	return nil
}
