package currency

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

var ErrRateUnavailable = errors.New("exchange rate unavailable")

// rateCacheTTL keeps fetched rates for an hour. Travel expense conversion
// does not need tick-level freshness.
const rateCacheTTL = time.Hour

// Converter fetches exchange rates from an external API and caches them in
// Redis. The inverse rate is cached alongside every fetch to halve API
// traffic for round trips.
type Converter struct {
	rdb        *redis.Client
	baseURL    string
	httpClient *http.Client
	log        *logrus.Logger
}

// NewConverter creates a new currency converter
func NewConverter(rdb *redis.Client, baseURL string, log *logrus.Logger) *Converter {
	return &Converter{
		rdb:     rdb,
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		log: log,
	}
}

type rateResponse struct {
	Result string                 `json:"result"`
	Rates  map[string]json.Number `json:"rates"`
}

// GetRate returns the exchange rate from one currency to another
func (c *Converter) GetRate(ctx context.Context, from, to string) (decimal.Decimal, error) {
	if from == to {
		return decimal.NewFromInt(1), nil
	}

	if cached, err := c.rdb.Get(ctx, rateKey(from, to)).Result(); err == nil {
		if rate, parseErr := decimal.NewFromString(cached); parseErr == nil {
			return rate, nil
		}
	} else if !errors.Is(err, redis.Nil) {
		c.log.WithError(err).Warn("rate cache read failed, falling through to API")
	}

	rate, err := c.fetchRate(ctx, from, to)
	if err != nil {
		return decimal.Zero, err
	}

	c.cacheRate(ctx, from, to, rate)
	return rate, nil
}

// Convert converts an amount between currencies, rounded to cents
func (c *Converter) Convert(ctx context.Context, amount decimal.Decimal, from, to string) (decimal.Decimal, error) {
	rate, err := c.GetRate(ctx, from, to)
	if err != nil {
		return decimal.Zero, err
	}
	return amount.Mul(rate).Round(2), nil
}

func (c *Converter) fetchRate(ctx context.Context, from, to string) (decimal.Decimal, error) {
	url := fmt.Sprintf("%s/%s", c.baseURL, from)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to build rate request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %v", ErrRateUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return decimal.Zero, fmt.Errorf("%w: upstream returned %d", ErrRateUnavailable, resp.StatusCode)
	}

	var body rateResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return decimal.Zero, fmt.Errorf("%w: %v", ErrRateUnavailable, err)
	}

	raw, ok := body.Rates[to]
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: no rate for %s", ErrRateUnavailable, to)
	}

	rate, err := decimal.NewFromString(raw.String())
	if err != nil || !rate.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: bad rate for %s", ErrRateUnavailable, to)
	}

	return rate, nil
}

func (c *Converter) cacheRate(ctx context.Context, from, to string, rate decimal.Decimal) {
	if err := c.rdb.Set(ctx, rateKey(from, to), rate.String(), rateCacheTTL).Err(); err != nil {
		c.log.WithError(err).Warn("failed to cache exchange rate")
		return
	}

	inverse := decimal.NewFromInt(1).DivRound(rate, 6)
	if err := c.rdb.Set(ctx, rateKey(to, from), inverse.String(), rateCacheTTL).Err(); err != nil {
		c.log.WithError(err).Warn("failed to cache inverse exchange rate")
	}
}

func rateKey(from, to string) string {
	return fmt.Sprintf("exchange_rate:%s:%s", from, to)
}
