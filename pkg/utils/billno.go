package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"regexp"
	"time"
)

// billNoPattern matches generated bill numbers: INV-YYYYMMDD-XXXXX
var billNoPattern = regexp.MustCompile(`^INV-\d{8}-\d{5}$`)

// GenerateBillNo generates a bill number of the form INV-<YYYYMMDD>-<5 digits>.
// Uniqueness is the caller's responsibility; collisions are retried there.
func GenerateBillNo(date time.Time) string {
	n, err := rand.Int(rand.Reader, big.NewInt(100000))
	if err != nil {
		// crypto/rand only fails if the OS entropy source is broken;
		// fall back to a time-derived suffix rather than panic.
		n = big.NewInt(time.Now().UnixNano() % 100000)
	}
	return fmt.Sprintf("INV-%s-%05d", date.Format("20060102"), n.Int64())
}

// IsValidBillNo reports whether s matches the generated bill number format
func IsValidBillNo(s string) bool {
	return billNoPattern.MatchString(s)
}
