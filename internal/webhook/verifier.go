package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"oakmart-be/internal/qualpay"
)

// SignatureHeader carries the provider's HMAC over the raw body.
const SignatureHeader = "x-qualpay-webhook-signature"

var (
	ErrEmptyBody        = errors.New("webhook body is empty")
	ErrMissingSignature = errors.New("webhook signature header is missing")
	ErrBadSignature     = errors.New("webhook signature does not match")
)

// Verifier authenticates inbound notifications against the shared webhook
// secret before any payload field is trusted.
type Verifier struct {
	secret []byte
}

func NewVerifier(secret string) *Verifier {
	return &Verifier{secret: []byte(secret)}
}

// Verify reads the request body exactly once, checks the signature over
// the raw bytes and only then decodes the event.
func (v *Verifier) Verify(r *http.Request) (*qualpay.WebhookEvent[qualpay.Subscription], error) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, err
	}
	if len(body) == 0 {
		return nil, ErrEmptyBody
	}

	signatures := r.Header.Values(SignatureHeader)
	if len(signatures) == 0 {
		return nil, ErrMissingSignature
	}

	mac := hmac.New(sha256.New, v.secret)
	mac.Write(body)
	expected := base64.StdEncoding.EncodeToString(mac.Sum(nil))

	// the provider sends several signature values while a secret rotation
	// is in flight; any one matching authenticates the body
	matched := false
	for _, signature := range signatures {
		if hmac.Equal([]byte(signature), []byte(expected)) {
			matched = true
			break
		}
	}
	if !matched {
		return nil, ErrBadSignature
	}

	var event qualpay.WebhookEvent[qualpay.Subscription]
	if err := json.Unmarshal(body, &event); err != nil {
		return nil, err
	}
	return &event, nil
}
