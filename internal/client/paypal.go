package client

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"charity-donation-backend/internal/apperr"
	"charity-donation-backend/internal/config"
)

type PaypalClient interface {
	CreateOrder(ctx context.Context, amount decimal.Decimal, currency, returnURL, cancelURL string) (*PaypalOrder, error)
	CaptureOrder(ctx context.Context, orderID string) (*PaypalCapture, error)
	CreateSubscription(ctx context.Context, amount decimal.Decimal, currency, interval, returnURL string) (*PaypalSubscription, error)
	VerifyWebhookSignature(ctx context.Context, headers http.Header, body []byte) error
}

type paypalClientImpl struct {
	httpClient   *http.Client
	baseApiURL   string
	clientID     string
	clientSecret string
	webhookID    string
}

type PaypalOrder struct {
	OrderID    string
	ApproveURL string
}

type PaypalCapture struct {
	CaptureID string
	PayerID   string
}

type PaypalSubscription struct {
	SubscriptionID string
	ApproveURL     string
}

func NewPaypalClient(cfg *config.Paypal) PaypalClient {
	return &paypalClientImpl{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseApiURL:   cfg.BaseApiURL,
		clientID:     cfg.ClientID,
		clientSecret: cfg.ClientSecret,
		webhookID:    cfg.WebhookID,
	}
}

func (c *paypalClientImpl) getAccessToken(ctx context.Context) (string, error) {
	auth := base64.StdEncoding.EncodeToString(
		[]byte(c.clientID + ":" + c.clientSecret),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseApiURL+"/v1/oauth2/token",
		bytes.NewBufferString("grant_type=client_credentials"))
	if err != nil {
		return "", fmt.Errorf("http new request: %w", err)
	}
	req.Header.Set("Authorization", "Basic "+auth)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", apperr.ProviderUnavailable("paypal", err)
	}
	defer resp.Body.Close()

	var res struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return "", fmt.Errorf("decode token response: %w", err)
	}

	return res.AccessToken, nil
}

func (c *paypalClientImpl) post(ctx context.Context, path, accessToken string, payload any) (*http.Response, error) {
	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("marshal req payload: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseApiURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("http new request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apperr.ProviderUnavailable("paypal", err)
	}
	return resp, nil
}

func (c *paypalClientImpl) CreateOrder(ctx context.Context, amount decimal.Decimal, currency, returnURL, cancelURL string) (*PaypalOrder, error) {
	accessToken, err := c.getAccessToken(ctx)
	if err != nil {
		return nil, fmt.Errorf("get paypal access token: %w", err)
	}

	payload := map[string]interface{}{
		"intent": "CAPTURE",
		"purchase_units": []map[string]interface{}{
			{
				"amount": map[string]string{
					"currency_code": currency,
					"value":         amount.StringFixed(2),
				},
			},
		},
		"application_context": map[string]string{
			"return_url": returnURL,
			"cancel_url": cancelURL,
		},
	}

	resp, err := c.post(ctx, "/v2/checkout/orders", accessToken, payload)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("paypal error %d: %s", resp.StatusCode, string(b))
	}

	var result struct {
		ID    string `json:"id"`
		Links []struct {
			Rel  string `json:"rel"`
			Href string `json:"href"`
		} `json:"links"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode paypal response: %w", err)
	}

	order := &PaypalOrder{OrderID: result.ID}
	for _, link := range result.Links {
		if link.Rel == "approve" {
			order.ApproveURL = link.Href
		}
	}
	return order, nil
}

func (c *paypalClientImpl) CaptureOrder(ctx context.Context, orderID string) (*PaypalCapture, error) {
	accessToken, err := c.getAccessToken(ctx)
	if err != nil {
		return nil, fmt.Errorf("get paypal access token: %w", err)
	}

	resp, err := c.post(ctx, fmt.Sprintf("/v2/checkout/orders/%s/capture", orderID), accessToken, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("paypal capture failed: status=%d body=%s", resp.StatusCode, string(body))
	}

	var result struct {
		Payer struct {
			PayerID string `json:"payer_id"`
		} `json:"payer"`
		PurchaseUnits []struct {
			Payments struct {
				Captures []struct {
					ID string `json:"id"`
				} `json:"captures"`
			} `json:"payments"`
		} `json:"purchase_units"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("decode capture response: %w", err)
	}

	capture := &PaypalCapture{PayerID: result.Payer.PayerID}
	if len(result.PurchaseUnits) > 0 && len(result.PurchaseUnits[0].Payments.Captures) > 0 {
		capture.CaptureID = result.PurchaseUnits[0].Payments.Captures[0].ID
	}
	return capture, nil
}

// CreateSubscription provisions a throwaway product+plan for the donation
// amount and opens a subscription against it. PayPal requires a plan per
// price point; donation amounts are arbitrary, so plans are created on the
// fly rather than pre-registered.
func (c *paypalClientImpl) CreateSubscription(ctx context.Context, amount decimal.Decimal, currency, interval, returnURL string) (*PaypalSubscription, error) {
	accessToken, err := c.getAccessToken(ctx)
	if err != nil {
		return nil, fmt.Errorf("get paypal access token: %w", err)
	}

	productID, err := c.createProduct(ctx, accessToken)
	if err != nil {
		return nil, err
	}

	planID, err := c.createPlan(ctx, accessToken, productID, amount, currency, interval)
	if err != nil {
		return nil, err
	}

	payload := map[string]interface{}{
		"plan_id": planID,
		"application_context": map[string]string{
			"return_url": returnURL,
		},
	}
	resp, err := c.post(ctx, "/v1/billing/subscriptions", accessToken, payload)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("paypal subscription error %d: %s", resp.StatusCode, string(b))
	}

	var result struct {
		ID    string `json:"id"`
		Links []struct {
			Rel  string `json:"rel"`
			Href string `json:"href"`
		} `json:"links"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode subscription response: %w", err)
	}

	sub := &PaypalSubscription{SubscriptionID: result.ID}
	for _, link := range result.Links {
		if link.Rel == "approve" {
			sub.ApproveURL = link.Href
		}
	}
	return sub, nil
}

func (c *paypalClientImpl) createProduct(ctx context.Context, accessToken string) (string, error) {
	resp, err := c.post(ctx, "/v1/catalogs/products", accessToken, map[string]string{
		"name": "Recurring donation",
		"type": "SERVICE",
	})
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("paypal product error %d: %s", resp.StatusCode, string(b))
	}

	var result struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("decode product response: %w", err)
	}
	return result.ID, nil
}

func (c *paypalClientImpl) createPlan(ctx context.Context, accessToken, productID string, amount decimal.Decimal, currency, interval string) (string, error) {
	payload := map[string]interface{}{
		"product_id": productID,
		"name":       fmt.Sprintf("Donation %s %s / %s", amount.StringFixed(2), currency, interval),
		"billing_cycles": []map[string]interface{}{
			{
				"frequency": map[string]interface{}{
					"interval_unit":  interval,
					"interval_count": 1,
				},
				"tenure_type": "REGULAR",
				"sequence":    1,
				"total_cycles": 0,
				"pricing_scheme": map[string]interface{}{
					"fixed_price": map[string]string{
						"value":         amount.StringFixed(2),
						"currency_code": currency,
					},
				},
			},
		},
		"payment_preferences": map[string]interface{}{
			"auto_bill_outstanding": true,
		},
	}

	resp, err := c.post(ctx, "/v1/billing/plans", accessToken, payload)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("paypal plan error %d: %s", resp.StatusCode, string(b))
	}

	var result struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("decode plan response: %w", err)
	}
	return result.ID, nil
}

// VerifyWebhookSignature checks the transmission signature against PayPal's
// verification endpoint. Any verdict other than SUCCESS rejects the payload.
func (c *paypalClientImpl) VerifyWebhookSignature(ctx context.Context, headers http.Header, body []byte) error {
	accessToken, err := c.getAccessToken(ctx)
	if err != nil {
		return fmt.Errorf("get paypal access token: %w", err)
	}

	payload := map[string]interface{}{
		"auth_algo":         headers.Get("Paypal-Auth-Algo"),
		"cert_url":          headers.Get("Paypal-Cert-Url"),
		"transmission_id":   headers.Get("Paypal-Transmission-Id"),
		"transmission_sig":  headers.Get("Paypal-Transmission-Sig"),
		"transmission_time": headers.Get("Paypal-Transmission-Time"),
		"webhook_id":        c.webhookID,
		"webhook_event":     json.RawMessage(body),
	}

	resp, err := c.post(ctx, "/v1/notifications/verify-webhook-signature", accessToken, payload)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var result struct {
		VerificationStatus string `json:"verification_status"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("decode verification response: %w", err)
	}
	if result.VerificationStatus != "SUCCESS" {
		return fmt.Errorf("webhook signature verification failed: %s", result.VerificationStatus)
	}
	return nil
}
