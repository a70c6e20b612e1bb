package payment

import "retroshop/internal/domain"

// Gateway status vocabulary. Anything outside this set maps to the
// cancelled/failed pair.
const (
	StatusApproved  = "approved"
	StatusPending   = "pending"
	StatusInProcess = "in_process"
	StatusRejected  = "rejected"
)

// MapStatus projects the gateway's status vocabulary onto the storefront's
// coarser order/payment pair. The mapping is total: unknown inputs land in
// the cancelled/failed bucket, so no caller ever handles an unmapped case.
func MapStatus(gatewayStatus string) (domain.OrderStatus, domain.PaymentStatus) {
	switch gatewayStatus {
	case StatusApproved:
		return domain.OrderConfirmed, domain.PaymentPaid
	case StatusPending, StatusInProcess:
		return domain.OrderPending, domain.PaymentPending
	default:
		return domain.OrderCancelled, domain.PaymentFailed
	}
}

// Rejected reports whether the gateway explicitly refused the charge.
// Anything not rejected (approved, pending, in process) proceeds to
// order persistence.
func Rejected(gatewayStatus string) bool {
	switch gatewayStatus {
	case StatusApproved, StatusPending, StatusInProcess:
		return false
	default:
		return true
	}
}
