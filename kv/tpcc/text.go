package tpcc

import (
	"bytes"

	"github.com/pingcap-incubator/tinytpcc/log"
)

// SetText copies s into the fixed width column dst and zero fills the rest.
func SetText(dst []byte, s string) {
	if len(s) > len(dst) {
		log.Panicf("text %q does not fit in %d bytes", s, len(dst))
	}
	n := copy(dst, s)
	for i := n; i < len(dst); i++ {
		dst[i] = 0
	}
}

// Text returns the logical value of a fixed width column.
func Text(b []byte) string {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		return string(b[:i])
	}
	return string(b)
}

// prependText puts prefix in front of the current value of dst, keeping only
// what fits.
func prependText(dst []byte, prefix string) {
	combined := prefix + Text(dst)
	if len(combined) > len(dst) {
		combined = combined[:len(dst)]
	}
	SetText(dst, combined)
}

func containsText(b []byte, sub string) bool {
	return bytes.Contains(textBytes(b), []byte(sub))
}

func textBytes(b []byte) []byte {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		return b[:i]
	}
	return b
}
