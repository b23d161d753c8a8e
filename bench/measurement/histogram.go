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

package measurement

import (
	"fmt"
	"time"

	hdrhistogram "github.com/HdrHistogram/hdrhistogram-go"
)

// Stats summarises the latencies of one operation, in microseconds.
type Stats struct {
	Elapsed float64 `json:"elapsed"`
	Count   int64   `json:"count"`
	OPS     float64 `json:"ops"`
	Avg     int64   `json:"avg_us"`
	Min     int64   `json:"min_us"`
	Max     int64   `json:"max_us"`
	P99     int64   `json:"p99_us"`
	P999    int64   `json:"p999_us"`
	P9999   int64   `json:"p9999_us"`
}

func (s Stats) row(op string) []string {
	return []string{
		op,
		fmt.Sprintf("%.1f", s.Elapsed),
		fmt.Sprintf("%d", s.Count),
		fmt.Sprintf("%.1f", s.OPS),
		fmt.Sprintf("%d", s.Avg),
		fmt.Sprintf("%d", s.Min),
		fmt.Sprintf("%d", s.Max),
		fmt.Sprintf("%d", s.P99),
		fmt.Sprintf("%d", s.P999),
		fmt.Sprintf("%d", s.P9999),
	}
}

type histogram struct {
	startTime time.Time
	hist      *hdrhistogram.Histogram
}

func newHistogram(now time.Time) *histogram {
	return &histogram{
		startTime: now,
		hist:      hdrhistogram.New(1, 24*60*60*1000*1000, 3),
	}
}

func (h *histogram) Measure(latency time.Duration) {
	us := latency.Microseconds()
	if us < 1 {
		us = 1
	}
	// Values above the highest trackable one are dropped.
	_ = h.hist.RecordValue(us)
}

func (h *histogram) stats(now time.Time) Stats {
	elapsed := now.Sub(h.startTime).Seconds()
	count := h.hist.TotalCount()
	s := Stats{
		Elapsed: elapsed,
		Count:   count,
		Avg:     int64(h.hist.Mean()),
		Min:     h.hist.Min(),
		Max:     h.hist.Max(),
		P99:     h.hist.ValueAtQuantile(99),
		P999:    h.hist.ValueAtQuantile(99.9),
		P9999:   h.hist.ValueAtQuantile(99.99),
	}
	if elapsed > 0 {
		s.OPS = float64(count) / elapsed
	}
	return s
}
