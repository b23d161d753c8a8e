package random

import "github.com/pingcap-incubator/tinytpcc/log"

// MaxLastName is the longest name MakeLastName can produce.
const MaxLastName = 15

var syllables = [10]string{
	"BAR", "OUGHT", "ABLE", "PRI", "PRES", "ESE", "ANTI", "CALLY", "ATION", "EING",
}

// MakeLastName builds the last name for num in [0, 999] from the syllables
// of its three decimal digits.
func MakeLastName(num int) string {
	if num < 0 || num > 999 {
		log.Panicf("last name number %d out of range", num)
	}
	return syllables[num/100] + syllables[(num/10)%10] + syllables[num%10]
}
