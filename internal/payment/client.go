package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Identification carries optional government-ID fields for the payer.
type Identification struct {
	Type   string `json:"type"`
	Number string `json:"number"`
}

type Payer struct {
	Email          string          `json:"email"`
	Identification *Identification `json:"identification,omitempty"`
}

// ChargeRequest is the tokenized-charge creation payload. Amount is a
// fixed-point decimal string; no float ever touches money.
type ChargeRequest struct {
	Amount            string `json:"transaction_amount"`
	Token             string `json:"token"`
	Description       string `json:"description"`
	ExternalReference string `json:"external_reference"`
	Installments      int    `json:"installments"`
	PaymentMethodID   string `json:"payment_method_id"`
	IssuerID          string `json:"issuer_id,omitempty"`
	Payer             Payer  `json:"payer"`
}

// Payment is the gateway's view of a charge, shared by the create-charge
// response and the single-payment lookup.
type Payment struct {
	ID                string `json:"id"`
	Status            string `json:"status"`
	StatusDetail      string `json:"status_detail"`
	ExternalReference string `json:"external_reference"`
}

// APIError is a non-2xx gateway response. Timeouts and transport errors
// come back as plain errors from the HTTP client; both mean "no charge
// was recorded locally" to callers.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("gateway: status %d: %s", e.StatusCode, e.Message)
}

// Client wraps the external card-payment processor's HTTP API.
type Client struct {
	baseURL string
	token   string
	httpc   *http.Client
}

// NewClient builds a gateway client. The timeout bounds every call so a
// hanging gateway surfaces as an error instead of an ambiguous state.
func NewClient(baseURL, token string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL: baseURL,
		token:   token,
		httpc:   &http.Client{Timeout: timeout},
	}
}

// CreatePayment submits a tokenized charge. The idempotency key guarantees
// at most one charge per key value even if the request is replayed.
func (c *Client) CreatePayment(ctx context.Context, in ChargeRequest, idempotencyKey string) (*Payment, error) {
	body, err := json.Marshal(in)
	if err != nil {
		return nil, fmt.Errorf("marshal charge: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/payments", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("X-Idempotency-Key", idempotencyKey)

	return c.do(req)
}

// GetPayment fetches the authoritative payment object by id.
func (c *Client) GetPayment(ctx context.Context, id string) (*Payment, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/payments/"+id, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	return c.do(req)
}

func (c *Client) do(req *http.Request) (*Payment, error) {
	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gateway request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read gateway response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := parseErrorMessage(raw)
		return nil, &APIError{StatusCode: resp.StatusCode, Message: msg}
	}

	var out struct {
		ID                json.Number `json:"id"`
		Status            string      `json:"status"`
		StatusDetail      string      `json:"status_detail"`
		ExternalReference string      `json:"external_reference"`
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode gateway response: %w", err)
	}
	return &Payment{
		ID:                out.ID.String(),
		Status:            out.Status,
		StatusDetail:      out.StatusDetail,
		ExternalReference: out.ExternalReference,
	}, nil
}

func parseErrorMessage(raw []byte) string {
	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(raw, &body); err == nil {
		if body.Message != "" {
			return body.Message
		}
		if body.Error != "" {
			return body.Error
		}
	}
	if len(raw) > 200 {
		raw = raw[:200]
	}
	return string(raw)
}
