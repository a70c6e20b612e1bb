package checkout

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"retroshop/internal/domain"
	"retroshop/internal/events"
	"retroshop/internal/payment"
	orderrepo "retroshop/internal/repository/order"
)

var (
	// ErrGatewayUnavailable covers transport failures and timeouts on the
	// charge call. No charge is assumed, no order is created.
	ErrGatewayUnavailable = errors.New("payment gateway unavailable")
	// ErrPersistFailed is the reconciliation-gap case: the gateway accepted
	// the charge but local persistence failed. Details go to the log, the
	// caller gets this generic error.
	ErrPersistFailed = errors.New("order persistence failed")
)

// RejectedError carries the gateway's rejection reason. Terminal for this
// attempt; the user may retry with another payment method.
type RejectedError struct {
	Status string
	Detail string
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("payment rejected: %s (%s)", e.Status, e.Detail)
}

type cartRepo interface {
	GetWithItems(ctx context.Context, userID string) (*domain.Cart, error)
}

type productRepo interface {
	GetByID(ctx context.Context, id string) (*domain.Product, error)
}

type addressRepo interface {
	GetForUser(ctx context.Context, userID, id string) (*domain.Address, error)
}

type userRepo interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
}

type orderRepo interface {
	CreateCheckout(ctx context.Context, in orderrepo.CheckoutInput) (*domain.Order, error)
}

type gateway interface {
	CreatePayment(ctx context.Context, in payment.ChargeRequest, idempotencyKey string) (*payment.Payment, error)
}

type publisher interface {
	Publish(ctx context.Context, event events.OrderEvent) error
}

type Service struct {
	carts     cartRepo
	products  productRepo
	addresses addressRepo
	users     userRepo
	orders    orderRepo
	gateway   gateway
	events    publisher
	logger    *log.Logger
	now       func() time.Time
}

func New(carts cartRepo, products productRepo, addresses addressRepo, users userRepo, orders orderRepo, gw gateway, pub publisher, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Service{
		carts:     carts,
		products:  products,
		addresses: addresses,
		users:     users,
		orders:    orders,
		gateway:   gw,
		events:    pub,
		logger:    logger,
		now:       time.Now,
	}
}

// Input is a validated checkout submission. RequestID, when supplied by
// the client, is reused across retries of the same attempt and becomes
// the gateway idempotency key instead of the fresh order number.
type Input struct {
	Token                string
	PaymentMethodID      string
	IssuerID             string
	Installments         int
	AddressID            string
	RequestID            string
	IdentificationType   string
	IdentificationNumber string
}

// Result is returned on a non-rejected charge. Status is the gateway's
// raw status string.
type Result struct {
	OrderID     string `json:"orderId"`
	OrderNumber string `json:"orderNumber"`
	Status      string `json:"status"`
}

// Checkout runs the synchronous request path: address ownership, cart and
// live stock re-validation, the gateway charge, then order + stock + cart
// persistence as one atomic unit.
func (s *Service) Checkout(ctx context.Context, userID string, in Input) (*Result, error) {
	address, err := s.addresses.GetForUser(ctx, userID, in.AddressID)
	if err != nil {
		return nil, err
	}

	cart, err := s.carts.GetWithItems(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrCartEmpty
		}
		return nil, err
	}
	if len(cart.Items) == 0 {
		return nil, domain.ErrCartEmpty
	}

	// Stock may have been consumed since items were added, so every line
	// is re-checked now. All shortfalls are reported together.
	var outOfStock []string
	items := make([]orderrepo.CheckoutItem, 0, len(cart.Items))
	var totalCents int64
	currency := "USD"
	for _, line := range cart.Items {
		product, err := s.products.GetByID(ctx, line.ProductID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				// Pulled from the catalog after being carted; report it
				// like a shortfall so the caller knows which line to drop.
				name := line.ProductID
				if line.Product != nil {
					name = line.Product.Name
				}
				outOfStock = append(outOfStock, name)
				continue
			}
			return nil, err
		}
		if line.Quantity > product.Stock {
			outOfStock = append(outOfStock, product.Name)
			continue
		}
		items = append(items, orderrepo.CheckoutItem{
			ProductID:      product.ID,
			Name:           product.Name,
			Quantity:       line.Quantity,
			UnitPriceCents: product.PriceCents,
		})
		totalCents += product.PriceCents * int64(line.Quantity)
		currency = product.Currency
	}
	if len(outOfStock) > 0 {
		return nil, &domain.OutOfStockError{Products: outOfStock}
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	number, err := NewOrderNumber(s.now())
	if err != nil {
		return nil, err
	}
	idempotencyKey := in.RequestID
	if idempotencyKey == "" {
		idempotencyKey = number
	}

	installments := in.Installments
	if installments <= 0 {
		installments = 1
	}

	charge := payment.ChargeRequest{
		Amount:            domain.FormatCents(totalCents),
		Token:             in.Token,
		Description:       fmt.Sprintf("retroshop order %s", number),
		ExternalReference: number,
		Installments:      installments,
		PaymentMethodID:   in.PaymentMethodID,
		IssuerID:          in.IssuerID,
		Payer:             payment.Payer{Email: user.Email},
	}
	if in.IdentificationType != "" && in.IdentificationNumber != "" {
		charge.Payer.Identification = &payment.Identification{
			Type:   in.IdentificationType,
			Number: in.IdentificationNumber,
		}
	}

	pay, err := s.gateway.CreatePayment(ctx, charge, idempotencyKey)
	if err != nil {
		s.logger.Printf("checkout: gateway charge user=%s order=%s error=%v", userID, number, err)
		return nil, fmt.Errorf("%w: %v", ErrGatewayUnavailable, err)
	}

	if payment.Rejected(pay.Status) {
		return nil, &RejectedError{Status: pay.Status, Detail: pay.StatusDetail}
	}

	status, paymentStatus := payment.MapStatus(pay.Status)
	order, err := s.orders.CreateCheckout(ctx, orderrepo.CheckoutInput{
		UserID:        userID,
		AddressID:     address.ID,
		Number:        number,
		TotalCents:    totalCents,
		Currency:      currency,
		Status:        status,
		PaymentStatus: paymentStatus,
		Notes:         fmt.Sprintf("gateway payment id: %s", pay.ID),
		Items:         items,
	})
	if err != nil {
		var oos *domain.OutOfStockError
		if errors.As(err, &oos) {
			return nil, oos
		}
		// The charge went through but nothing was recorded locally. No
		// automatic compensation; this line is the input for manual
		// backoffice recovery.
		s.logger.Printf("CRITICAL checkout: gateway accepted charge but persistence failed payment_id=%s user=%s order_number=%s error=%v",
			pay.ID, userID, number, err)
		return nil, ErrPersistFailed
	}

	s.publish(ctx, events.OrderEvent{
		Type:          events.TypeOrderCreated,
		OrderID:       order.ID,
		OrderNumber:   order.Number,
		Status:        string(order.Status),
		PaymentStatus: string(order.PaymentStatus),
		OccurredAt:    s.now().UTC(),
	})

	return &Result{
		OrderID:     order.ID,
		OrderNumber: order.Number,
		Status:      pay.Status,
	}, nil
}

func (s *Service) publish(ctx context.Context, event events.OrderEvent) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, event); err != nil {
		s.logger.Printf("checkout: publish %s order=%s error=%v", event.Type, event.OrderNumber, err)
	}
}
