package booking

import (
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"
	"time"

	"mobilvask/internal/models"
)

// suffixSpace = 36^4, the number of possible 4-char base-36 suffixes.
const suffixSpace = 36 * 36 * 36 * 36

// NewReference mints a booking reference of the form BK-YYYYMMDD-XXXX.
// The date segment is the current UTC calendar day; the suffix is four
// base-36 characters from a random source. References are unique enough
// for support lookup, not cryptographically unique.
func NewReference() string {
	return newReferenceAt(time.Now())
}

func newReferenceAt(now time.Time) string {
	date := now.UTC().Format("20060102")
	return fmt.Sprintf("%s-%s-%s", models.ReferencePrefix, date, randomSuffix())
}

func randomSuffix() string {
	s := strings.ToUpper(strconv.FormatUint(rand.Uint64N(suffixSpace), 36))
	// FormatUint drops leading zeros; pad back to the fixed length.
	for len(s) < models.ReferenceSuffixLen {
		s = "0" + s
	}
	return s
}
