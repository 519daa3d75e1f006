package client

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"charity-donation-backend/internal/apperr"
	"charity-donation-backend/internal/config"
)

// PakGatewayClient talks to the local Pakistani acquirer. The gateway issues
// a tracker token per checkout and pushes IPN-style status notifications
// signed with a shared-key HMAC.
type PakGatewayClient interface {
	CreateCheckout(ctx context.Context, amount decimal.Decimal, currency, redirectURL string) (*PakCheckout, error)
	VerifyNotification(body []byte, signature string) error
}

type PakCheckout struct {
	TrackerToken string
	CheckoutURL  string
}

type pakGatewayClientImpl struct {
	httpClient *http.Client
	baseApiURL string
	apiKey     string
	sharedKey  string
}

func NewPakGatewayClient(cfg *config.PakGateway) PakGatewayClient {
	return &pakGatewayClientImpl{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseApiURL: cfg.BaseApiURL,
		apiKey:     cfg.APIKey,
		sharedKey:  cfg.SharedKey,
	}
}

func (c *pakGatewayClientImpl) CreateCheckout(ctx context.Context, amount decimal.Decimal, currency, redirectURL string) (*PakCheckout, error) {
	payload := map[string]interface{}{
		"amount":       amount.StringFixed(2),
		"currency":     currency,
		"environment":  "sandbox",
		"redirect_url": redirectURL,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal req payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseApiURL+"/checkout/create", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("http new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-SFPY-MERCHANT-SECRET", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apperr.ProviderUnavailable("pakistan_gateway", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("gateway error %d: %s", resp.StatusCode, string(b))
	}

	var result struct {
		Data struct {
			Token       string `json:"token"`
			CheckoutURL string `json:"checkout_url"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode gateway response: %w", err)
	}

	return &PakCheckout{
		TrackerToken: result.Data.Token,
		CheckoutURL:  result.Data.CheckoutURL,
	}, nil
}

// VerifyNotification recomputes the HMAC-SHA256 of the raw body with the
// shared key and compares it to the signature header in constant time.
func (c *pakGatewayClientImpl) VerifyNotification(body []byte, signature string) error {
	mac := hmac.New(sha256.New, []byte(c.sharedKey))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))

	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return fmt.Errorf("notification signature mismatch")
	}
	return nil
}
