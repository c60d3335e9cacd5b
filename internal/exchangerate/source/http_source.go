package source

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/smallbiznis/cloudslip/internal/config"
	domain "github.com/smallbiznis/cloudslip/internal/exchangerate/domain"
	"go.uber.org/zap"
)

const sourceName = "feed"

// HTTPSource pulls daily quotes from the published rate feed. All pairs
// are quoted against KRW.
type HTTPSource struct {
	url     string
	authKey string
	client  *http.Client
	log     *zap.Logger
}

// NewHTTPSource returns nil when no feed URL is configured, which
// disables sync and the refresh-and-retry path.
func NewHTTPSource(cfg config.Config, log *zap.Logger) domain.Source {
	if cfg.RateFeedURL == "" {
		return nil
	}
	timeout := time.Duration(cfg.RateFeedTimeoutSec) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPSource{
		url:     cfg.RateFeedURL,
		authKey: cfg.RateFeedAuthKey,
		client:  &http.Client{Timeout: timeout},
		log:     log.Named("exchangerate.source"),
	}
}

type feedItem struct {
	Currency  string `json:"currency"`
	BasicRate string `json:"basic_rate"`
	SendRate  string `json:"send_rate"`
	BuyRate   string `json:"buy_rate"`
	SellRate  string `json:"sell_rate"`
}

func (s *HTTPSource) Fetch(ctx context.Context, day time.Time) ([]domain.ExchangeRate, error) {
	endpoint, err := url.Parse(s.url)
	if err != nil {
		return nil, fmt.Errorf("parse rate feed url: %w", err)
	}
	query := endpoint.Query()
	query.Set("date", day.Format("20060102"))
	if s.authKey != "" {
		query.Set("authkey", s.authKey)
	}
	endpoint.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch rate feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("rate feed returned status %d", resp.StatusCode)
	}

	var items []feedItem
	if err := json.NewDecoder(resp.Body).Decode(&items); err != nil {
		return nil, fmt.Errorf("decode rate feed: %w", err)
	}

	rates := make([]domain.ExchangeRate, 0, len(items))
	for _, item := range items {
		currency := normalizeCurrency(item.Currency)
		if currency == "" || currency == "KRW" {
			continue
		}
		basic, err := parseFeedRate(item.BasicRate)
		if err != nil || basic.IsZero() {
			s.log.Warn("skipping feed item with no basic rate", zap.String("currency", item.Currency))
			continue
		}
		rate := domain.ExchangeRate{
			RateDate:     day,
			CurrencyFrom: currency,
			CurrencyTo:   "KRW",
			BasicRate:    basic,
			Source:       sourceName,
		}
		if v, err := parseFeedRate(item.SendRate); err == nil {
			rate.SendRate = v
		}
		if v, err := parseFeedRate(item.BuyRate); err == nil {
			rate.BuyRate = v
		}
		if v, err := parseFeedRate(item.SellRate); err == nil {
			rate.SellRate = v
		}
		rates = append(rates, rate)
	}
	return rates, nil
}

// Some currencies are quoted per 100 units, e.g. "JPY(100)".
func normalizeCurrency(raw string) string {
	raw = strings.ToUpper(strings.TrimSpace(raw))
	if idx := strings.Index(raw, "("); idx > 0 {
		raw = raw[:idx]
	}
	return raw
}

func parseFeedRate(raw string) (decimal.Decimal, error) {
	raw = strings.ReplaceAll(strings.TrimSpace(raw), ",", "")
	if raw == "" {
		return decimal.Zero, fmt.Errorf("empty rate")
	}
	return decimal.NewFromString(raw)
}
