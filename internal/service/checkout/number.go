package checkout

import (
	"crypto/rand"
	"fmt"
	"time"
)

const (
	orderNumberPrefix = "RC"
	suffixCharset     = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	suffixLength      = 5
)

// NewOrderNumber mints a human-readable order identifier of the form
// RC-YYYYMMDD-XXXXX: sortable by creation date, with a random suffix
// that makes collisions negligible. The generator does not probe the
// order table; the unique constraint on order_number backstops it.
func NewOrderNumber(now time.Time) (string, error) {
	buf := make([]byte, suffixLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random suffix: %w", err)
	}
	for i, b := range buf {
		buf[i] = suffixCharset[int(b)%len(suffixCharset)]
	}
	return fmt.Sprintf("%s-%s-%s", orderNumberPrefix, now.UTC().Format("20060102"), buf), nil
}
