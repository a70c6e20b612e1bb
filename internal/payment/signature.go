package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrBadSignature means the supplied digest does not match the manifest.
	ErrBadSignature = errors.New("webhook signature mismatch")
	// ErrMalformedSignature means the signature header could not be parsed.
	ErrMalformedSignature = errors.New("malformed signature header")
)

// parseSignatureHeader splits a "ts=<unix-ms>,v1=<hex-hmac>" header.
func parseSignatureHeader(header string) (ts, v1 string, err error) {
	for _, part := range strings.Split(header, ",") {
		key, value, found := strings.Cut(strings.TrimSpace(part), "=")
		if !found {
			continue
		}
		switch key {
		case "ts":
			ts = value
		case "v1":
			v1 = value
		}
	}
	if ts == "" || v1 == "" {
		return "", "", ErrMalformedSignature
	}
	return ts, v1, nil
}

// VerifySignature checks the keyed hash over the exact manifest the sender
// signed: `id:<paymentId>;request-id:<requestId>;ts:<ts>;`. The comparison
// is constant-time.
func VerifySignature(secret, header, requestID, paymentID string) error {
	ts, v1, err := parseSignatureHeader(header)
	if err != nil {
		return err
	}

	supplied, err := hex.DecodeString(v1)
	if err != nil {
		return ErrMalformedSignature
	}

	manifest := fmt.Sprintf("id:%s;request-id:%s;ts:%s;", paymentID, requestID, ts)
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(manifest))
	if !hmac.Equal(mac.Sum(nil), supplied) {
		return ErrBadSignature
	}
	return nil
}
