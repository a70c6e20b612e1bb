package webhook

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"time"

	"retroshop/internal/domain"
	"retroshop/internal/events"
	"retroshop/internal/payment"
)

var (
	// ErrMalformedBody rejects notifications whose body cannot be parsed.
	ErrMalformedBody = errors.New("malformed webhook body")
	// ErrGatewayUnavailable tells the sender to retry later: the
	// authoritative re-fetch failed.
	ErrGatewayUnavailable = errors.New("payment gateway unavailable")
)

type orderRepo interface {
	GetByNumber(ctx context.Context, number string) (*domain.Order, error)
	UpdateStatus(ctx context.Context, id string, status domain.OrderStatus, paymentStatus domain.PaymentStatus) error
}

type gateway interface {
	GetPayment(ctx context.Context, id string) (*payment.Payment, error)
}

type publisher interface {
	Publish(ctx context.Context, event events.OrderEvent) error
}

type Service struct {
	orders        orderRepo
	gateway       gateway
	secret        string
	allowUnsigned bool
	events        publisher
	logger        *log.Logger
	now           func() time.Time
}

// New builds the reconciler. An empty secret fails closed: every webhook
// is rejected unless allowUnsigned is set (local development only).
func New(orders orderRepo, gw gateway, secret string, allowUnsigned bool, pub publisher, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Service{
		orders:        orders,
		gateway:       gw,
		secret:        secret,
		allowUnsigned: allowUnsigned,
		events:        pub,
		logger:        logger,
		now:           time.Now,
	}
}

type notification struct {
	Type string `json:"type"`
	Data struct {
		ID string `json:"id"`
	} `json:"data"`
}

// Process runs the reconciliation state machine over one inbound
// notification. A nil return means "acknowledge": either the order was
// reconciled or the notification was deliberately ignored. Only bad
// signatures, malformed bodies, and gateway fetch failures error out,
// because any non-success response makes the sender retry.
//
// The signature covers the raw payload, so rawBody must be the exact
// bytes received, pre-parse.
func (s *Service) Process(ctx context.Context, rawBody []byte, signatureHeader, requestID string) error {
	var note notification
	if err := json.Unmarshal(rawBody, &note); err != nil {
		return ErrMalformedBody
	}

	if err := s.verify(signatureHeader, requestID, note.Data.ID); err != nil {
		return err
	}

	// Only payment notifications carry state this system owns. Everything
	// else is acked so the sender stops redelivering.
	if note.Type != "payment" {
		return nil
	}
	if note.Data.ID == "" {
		return ErrMalformedBody
	}

	// The payload's embedded status is never trusted; only the id is.
	// The authoritative state is always re-read from the gateway.
	pay, err := s.gateway.GetPayment(ctx, note.Data.ID)
	if err != nil {
		s.logger.Printf("webhook: fetch payment id=%s error=%v", note.Data.ID, err)
		return ErrGatewayUnavailable
	}

	if pay.ExternalReference == "" {
		return nil
	}
	order, err := s.orders.GetByNumber(ctx, pay.ExternalReference)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			// Not ours; ack to stop retries.
			return nil
		}
		return err
	}

	status, paymentStatus := payment.MapStatus(pay.Status)
	if paymentStatus == order.PaymentStatus {
		// Duplicate delivery; nothing changed.
		return nil
	}
	if order.Status == domain.OrderCancelled && status != domain.OrderCancelled {
		// Statuses advance, never regress.
		return nil
	}

	if err := s.orders.UpdateStatus(ctx, order.ID, status, paymentStatus); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		return err
	}
	s.logger.Printf("webhook: order=%s payment_status %s -> %s", order.Number, order.PaymentStatus, paymentStatus)

	s.publish(ctx, events.OrderEvent{
		Type:          events.TypeOrderStatusChanged,
		OrderID:       order.ID,
		OrderNumber:   order.Number,
		Status:        string(status),
		PaymentStatus: string(paymentStatus),
		OccurredAt:    s.now().UTC(),
	})
	return nil
}

func (s *Service) verify(signatureHeader, requestID, paymentID string) error {
	if s.secret == "" {
		if s.allowUnsigned {
			s.logger.Printf("webhook: no secret configured, skipping signature verification")
			return nil
		}
		return payment.ErrBadSignature
	}
	return payment.VerifySignature(s.secret, signatureHeader, requestID, paymentID)
}

func (s *Service) publish(ctx context.Context, event events.OrderEvent) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, event); err != nil {
		s.logger.Printf("webhook: publish %s order=%s error=%v", event.Type, event.OrderNumber, err)
	}
}
