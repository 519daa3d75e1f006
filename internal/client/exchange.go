package client

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"charity-donation-backend/internal/config"
	"charity-donation-backend/internal/currency"
)

// ExchangeClient serves exchange rates from a public rates feed, cached for
// a TTL, falling back to a static snapshot while the feed is unreachable.
// It satisfies currency.Converter.
type ExchangeClient struct {
	httpClient *http.Client
	ratesURL   string
	base       string
	ttl        time.Duration

	mu        sync.RWMutex
	snapshot  *currency.StaticConverter
	fetchedAt time.Time
}

func NewExchangeClient(cfg *config.Exchange) *ExchangeClient {
	ttl, err := time.ParseDuration(cfg.CacheTTL)
	if err != nil {
		ttl = time.Hour
	}

	return &ExchangeClient{
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		ratesURL: cfg.RatesURL,
		base:     strings.ToUpper(cfg.BaseCurrency),
		ttl:      ttl,
		snapshot: currency.DefaultStatic(),
	}
}

func (c *ExchangeClient) Rate(from, to string) (decimal.Decimal, error) {
	c.refreshIfStale()

	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snapshot.Rate(from, to)
}

func (c *ExchangeClient) refreshIfStale() {
	c.mu.RLock()
	stale := time.Since(c.fetchedAt) > c.ttl
	c.mu.RUnlock()
	if !stale {
		return
	}

	snap, err := c.fetch()
	if err != nil {
		// keep serving the previous snapshot
		slog.Warn("exchange rate refresh failed", "err", err)
		c.mu.Lock()
		c.fetchedAt = time.Now() // back off for a full TTL before retrying
		c.mu.Unlock()
		return
	}

	c.mu.Lock()
	c.snapshot = snap
	c.fetchedAt = time.Now()
	c.mu.Unlock()
}

func (c *ExchangeClient) fetch() (*currency.StaticConverter, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		fmt.Sprintf("%s/%s", c.ratesURL, c.base), nil)
	if err != nil {
		return nil, fmt.Errorf("http new request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch rates: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("rates feed status %d", resp.StatusCode)
	}

	var payload struct {
		BaseCode string             `json:"base_code"`
		Rates    map[string]float64 `json:"rates"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode rates: %w", err)
	}
	if len(payload.Rates) == 0 {
		return nil, fmt.Errorf("rates feed returned no rates")
	}

	rates := make(map[string]decimal.Decimal, len(payload.Rates))
	for code, rate := range payload.Rates {
		rates[strings.ToUpper(code)] = decimal.NewFromFloat(rate)
	}
	rates[c.base] = decimal.NewFromInt(1)

	return &currency.StaticConverter{Base: c.base, Rates: rates}, nil
}
