package checkout

import (
	"regexp"
	"strings"
	"testing"
	"time"
)

var orderNumberPattern = regexp.MustCompile(`^RC-\d{8}-[A-Z0-9]{5}$`)

func TestNewOrderNumberFormat(t *testing.T) {
	now := time.Date(2026, time.March, 14, 9, 30, 0, 0, time.UTC)
	number, err := NewOrderNumber(now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !orderNumberPattern.MatchString(number) {
		t.Fatalf("number %q does not match pattern", number)
	}
	if !strings.HasPrefix(number, "RC-20260314-") {
		t.Fatalf("number %q missing date part", number)
	}
}

func TestNewOrderNumberVaries(t *testing.T) {
	now := time.Now()
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		number, err := NewOrderNumber(now)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		seen[number] = true
	}
	if len(seen) < 2 {
		t.Fatalf("expected varying suffixes, got %d distinct of 50", len(seen))
	}
}
