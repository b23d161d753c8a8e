// Package random generates the TPC-C parameter and population values.
package random

import (
	"math"
	"strings"

	"github.com/pingcap-incubator/tinytpcc/log"
)

// NURandC holds the run time constants of the non-uniform generator, one
// per value of A.
type NURandC struct {
	CLast           int
	CID             int
	OrderLineItemID int
}

// Generator builds TPC-C values on top of a Source.
type Generator struct {
	src Source
	c   NURandC
}

func NewGenerator(src Source) *Generator {
	return &Generator{src: src}
}

// NewMockGenerator returns a generator that always picks the lower bound, or
// the upper bound when minimum is false.
func NewMockGenerator(minimum bool) (*Generator, *MockSource) {
	src := &MockSource{Minimum: minimum}
	return NewGenerator(src), src
}

// SetC installs the NURand constants.
func (g *Generator) SetC(c NURandC) {
	g.c = c
}

func (g *Generator) C() NURandC {
	return g.c
}

// Number returns an integer in [lower, upper].
func (g *Generator) Number(lower, upper int) int {
	return g.src.Number(lower, upper)
}

// NumberExcluding returns an integer in [lower, upper] other than excluding.
func (g *Generator) NumberExcluding(lower, upper, excluding int) int {
	if lower >= upper {
		log.Panicf("empty range [%d, %d] excluding %d", lower, upper, excluding)
	}
	n := g.Number(lower, upper-1)
	if n >= excluding {
		n++
	}
	return n
}

// FixedPoint returns a number in [lower, upper] with the given count of
// decimal digits.
func (g *Generator) FixedPoint(digits int, lower, upper float32) float32 {
	multiplier := math.Pow10(digits)
	intLower := int(math.Round(float64(lower) * multiplier))
	intUpper := int(math.Round(float64(upper) * multiplier))
	return float32(g.Number(intLower, intUpper)) / float32(multiplier)
}

// NURand is the TPC-C non-uniform random function. A selects which
// constant is used and must be 255, 1023 or 8191.
func (g *Generator) NURand(a, x, y int) int {
	var c int
	switch a {
	case 255:
		c = g.c.CLast
	case 1023:
		c = g.c.CID
	case 8191:
		c = g.c.OrderLineItemID
	default:
		log.Panicf("NURand: unsupported A %d", a)
	}
	return (((g.Number(0, a) | g.Number(x, y)) + c) % (y - x + 1)) + x
}

// AString returns a random lowercase string of length in [min, max].
func (g *Generator) AString(min, max int) string {
	return g.randomString(min, max, 'a', 'z')
}

// NString returns a random numeric string of length in [min, max].
func (g *Generator) NString(min, max int) string {
	return g.randomString(min, max, '0', '9')
}

func (g *Generator) randomString(min, max int, lower, upper byte) string {
	n := g.Number(min, max)
	var b strings.Builder
	b.Grow(n)
	for i := 0; i < n; i++ {
		b.WriteByte(byte(g.Number(int(lower), int(upper))))
	}
	return b.String()
}

// LastName returns a customer last name suitable for a district with
// maxCID customers.
func (g *Generator) LastName(maxCID int) string {
	upper := maxCID - 1
	if upper > 999 {
		upper = 999
	}
	return MakeLastName(g.NURand(255, 0, upper))
}

// UniqueIDs returns num distinct integers from [lower, upper].
func (g *Generator) UniqueIDs(num, lower, upper int) map[int]struct{} {
	if num > upper-lower+1 {
		log.Panicf("cannot pick %d unique ids from [%d, %d]", num, lower, upper)
	}
	ids := make(map[int]struct{}, num)
	for len(ids) < num {
		ids[g.Number(lower, upper)] = struct{}{}
	}
	return ids
}

// Permutation returns the integers of [lower, upper] in random order.
func (g *Generator) Permutation(lower, upper int) []int {
	n := upper - lower + 1
	p := make([]int, n)
	for i := range p {
		p[i] = lower + i
	}
	for i := 0; i < n-1; i++ {
		j := g.Number(i, n-1)
		p[i], p[j] = p[j], p[i]
	}
	return p
}

// MakeNURandC draws a fresh set of NURand constants.
func MakeNURandC(g *Generator) NURandC {
	return NURandC{
		CLast:           g.Number(0, 255),
		CID:             g.Number(0, 1023),
		OrderLineItemID: g.Number(0, 8191),
	}
}

// MakeNURandCForRun draws constants for a run against data loaded with
// cLoad. The last name constant must differ from the load value by a delta
// in [65, 119] other than 96 and 112.
func MakeNURandCForRun(g *Generator, cLoad NURandC) NURandC {
	c := MakeNURandC(g)
	for !validCDelta(cLoad.CLast, c.CLast) {
		c.CLast = g.Number(0, 255)
	}
	return c
}

func validCDelta(load, run int) bool {
	delta := load - run
	if delta < 0 {
		delta = -delta
	}
	return delta >= 65 && delta <= 119 && delta != 96 && delta != 112
}
