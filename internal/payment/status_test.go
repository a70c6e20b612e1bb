package payment

import (
	"testing"

	"retroshop/internal/domain"
)

func TestMapStatusPairs(t *testing.T) {
	cases := []struct {
		gateway string
		order   domain.OrderStatus
		payment domain.PaymentStatus
	}{
		{"approved", domain.OrderConfirmed, domain.PaymentPaid},
		{"pending", domain.OrderPending, domain.PaymentPending},
		{"in_process", domain.OrderPending, domain.PaymentPending},
		{"rejected", domain.OrderCancelled, domain.PaymentFailed},
		{"cancelled", domain.OrderCancelled, domain.PaymentFailed},
		{"refunded", domain.OrderCancelled, domain.PaymentFailed},
		{"charged_back", domain.OrderCancelled, domain.PaymentFailed},
	}
	for _, tc := range cases {
		order, pay := MapStatus(tc.gateway)
		if order != tc.order || pay != tc.payment {
			t.Fatalf("MapStatus(%q) = (%s, %s), want (%s, %s)", tc.gateway, order, pay, tc.order, tc.payment)
		}
	}
}

func TestMapStatusTotal(t *testing.T) {
	// Unknown inputs must land in a valid bucket, never an empty pair.
	for _, input := range []string{"", "APPROVED", "garbage", "unknown_status", "  ", "approved "} {
		order, pay := MapStatus(input)
		if order == "" || pay == "" {
			t.Fatalf("MapStatus(%q) returned empty status", input)
		}
	}
}

func TestRejected(t *testing.T) {
	for _, status := range []string{"approved", "pending", "in_process"} {
		if Rejected(status) {
			t.Fatalf("Rejected(%q) = true, want false", status)
		}
	}
	for _, status := range []string{"rejected", "cancelled", "refunded", "charged_back", "", "nonsense"} {
		if !Rejected(status) {
			t.Fatalf("Rejected(%q) = false, want true", status)
		}
	}
}
