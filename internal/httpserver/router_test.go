package httpserver

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"retroshop/internal/domain"
	"retroshop/internal/payment"
	sessionrepo "retroshop/internal/repository/session"
	cartsvc "retroshop/internal/service/cart"
	webhooksvc "retroshop/internal/service/webhook"
)

type stubSessions struct {
	sessions map[string]*sessionrepo.Session
}

func (s *stubSessions) Create(ctx context.Context, sess sessionrepo.Session) error {
	s.sessions[sess.Token] = &sess
	return nil
}

func (s *stubSessions) Get(ctx context.Context, token string) (*sessionrepo.Session, error) {
	sess, ok := s.sessions[token]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return sess, nil
}

func (s *stubSessions) Delete(ctx context.Context, token string) error {
	delete(s.sessions, token)
	return nil
}

type stubCartRepo struct{}

func (stubCartRepo) GetOrCreate(ctx context.Context, userID string) (*domain.Cart, error) {
	return &domain.Cart{ID: "cart-1", UserID: userID}, nil
}
func (stubCartRepo) GetWithItems(ctx context.Context, userID string) (*domain.Cart, error) {
	return &domain.Cart{ID: "cart-1", UserID: userID}, nil
}
func (stubCartRepo) GetItemForUser(ctx context.Context, userID, itemID string) (*domain.CartItem, error) {
	return nil, domain.ErrNotFound
}
func (stubCartRepo) SetItemQuantity(ctx context.Context, cartID, productID string, quantity int) error {
	return nil
}
func (stubCartRepo) UpdateItemQuantity(ctx context.Context, itemID string, quantity int) error {
	return nil
}
func (stubCartRepo) DeleteItem(ctx context.Context, itemID string) error { return nil }
func (stubCartRepo) ClearByUser(ctx context.Context, userID string) error {
	return nil
}
func (stubCartRepo) CountByUser(ctx context.Context, userID string) (int, error) {
	return 3, nil
}

type stubProductRepo struct{}

func (stubProductRepo) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	return nil, domain.ErrNotFound
}

type stubWebhookOrders struct{}

func (stubWebhookOrders) GetByNumber(ctx context.Context, number string) (*domain.Order, error) {
	return nil, domain.ErrNotFound
}
func (stubWebhookOrders) UpdateStatus(ctx context.Context, id string, status domain.OrderStatus, paymentStatus domain.PaymentStatus) error {
	return nil
}

type stubWebhookGateway struct{}

func (stubWebhookGateway) GetPayment(ctx context.Context, id string) (*payment.Payment, error) {
	return &payment.Payment{ID: id, Status: "approved"}, nil
}

func testRouter(t *testing.T, secret string) http.Handler {
	t.Helper()

	logger := log.New(io.Discard, "", 0)
	sessions := &stubSessions{sessions: map[string]*sessionrepo.Session{
		"valid-token": {Token: "valid-token", UserID: "u1", ExpiresAt: time.Now().Add(time.Hour)},
		"stale-token": {Token: "stale-token", UserID: "u1", ExpiresAt: time.Now().Add(-time.Minute)},
	}}

	deps := Deps{
		CartSvc:    cartsvc.New(stubCartRepo{}, stubProductRepo{}, logger),
		WebhookSvc: webhooksvc.New(stubWebhookOrders{}, stubWebhookGateway{}, secret, secret == "", nil, logger),
		Sessions:   sessions,
	}
	return buildRouter(logger, nil, deps)
}

func TestHealthz(t *testing.T) {
	router := testRouter(t, "")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

func TestAuthMiddleware(t *testing.T) {
	router := testRouter(t, "")

	cases := []struct {
		name   string
		header string
		want   int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"not bearer", "Basic abc", http.StatusUnauthorized},
		{"unknown token", "Bearer nope", http.StatusUnauthorized},
		{"expired session", "Bearer stale-token", http.StatusUnauthorized},
		{"valid session", "Bearer valid-token", http.StatusOK},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, "/cart/count", nil)
		if tc.header != "" {
			req.Header.Set("Authorization", tc.header)
		}
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		if rec.Code != tc.want {
			t.Fatalf("%s: status = %d, want %d", tc.name, rec.Code, tc.want)
		}
	}
}

func TestCartCountBody(t *testing.T) {
	router := testRouter(t, "")

	req := httptest.NewRequest(http.MethodGet, "/cart/count", nil)
	req.Header.Set("Authorization", "Bearer valid-token")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var body struct {
		Count int `json:"count"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Count != 3 {
		t.Fatalf("count = %d, want 3", body.Count)
	}
}

func TestWebhookEndpointNoAuthRequired(t *testing.T) {
	// Unsigned mode: the unknown order is acked with 200.
	router := testRouter(t, "")

	req := httptest.NewRequest(http.MethodPost, "/payments/webhook",
		strings.NewReader(`{"type":"payment","data":{"id":"pay-1"}}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
}

func TestWebhookEndpointRejectsBadSignature(t *testing.T) {
	router := testRouter(t, "webhook-secret")

	req := httptest.NewRequest(http.MethodPost, "/payments/webhook",
		strings.NewReader(`{"type":"payment","data":{"id":"pay-1"}}`))
	req.Header.Set("X-Signature", "ts=1,v1=deadbeef")
	req.Header.Set("X-Request-Id", "req-1")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401: %s", rec.Code, rec.Body.String())
	}
}

func TestWebhookEndpointRejectsMalformedBody(t *testing.T) {
	router := testRouter(t, "")

	req := httptest.NewRequest(http.MethodPost, "/payments/webhook", strings.NewReader("{broken"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400: %s", rec.Code, rec.Body.String())
	}
}
