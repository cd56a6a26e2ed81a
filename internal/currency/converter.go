// Package currency получает курс валюты к базовой валюте через exchangerate-api v6.
package currency

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
)

// ErrConversionUnavailable: сервис курсов недоступен или не вернул курс для валюты.
var ErrConversionUnavailable = errors.New("курс валюты недоступен")

const (
	DefaultAPIURL = "https://v6.exchangerate-api.com/v6"
	maxAttempts   = 3
)

type Config struct {
	APIURL       string
	APIKey       string
	BaseCurrency string
	HTTPClient   *http.Client
	// RetryInterval: пауза между попытками; 0 означает 2 секунды.
	RetryInterval time.Duration
}

// Converter не кэширует курсы: каждый вызов Rate для не базовой валюты идёт во внешний сервис.
type Converter struct {
	apiURL   string
	apiKey   string
	base     string
	client   *http.Client
	interval time.Duration
	log      zerolog.Logger
}

func NewConverter(cfg Config, log zerolog.Logger) *Converter {
	c := &Converter{
		apiURL:   strings.TrimRight(cfg.APIURL, "/"),
		apiKey:   cfg.APIKey,
		base:     strings.ToUpper(cfg.BaseCurrency),
		client:   cfg.HTTPClient,
		interval: cfg.RetryInterval,
		log:      log,
	}
	if c.apiURL == "" {
		c.apiURL = DefaultAPIURL
	}
	if c.base == "" {
		c.base = "LKR"
	}
	if c.client == nil {
		c.client = &http.Client{Timeout: 10 * time.Second}
	}
	if c.interval <= 0 {
		c.interval = 2 * time.Second
	}
	return c
}

func (c *Converter) Base() string {
	return c.base
}

type latestResponse struct {
	Result          string             `json:"result"`
	ConversionRates map[string]float64 `json:"conversion_rates"`
}

// Rate возвращает курс code к базовой валюте. Для базовой валюты: 1 без обращения к сервису.
func (c *Converter) Rate(ctx context.Context, code string) (float64, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" || code == c.base {
		return 1, nil
	}

	url := fmt.Sprintf("%s/%s/latest/%s", c.apiURL, c.apiKey, code)
	var rate float64

	op := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return backoff.Permanent(err)
		}
		resp, err := c.client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode >= http.StatusInternalServerError {
			return fmt.Errorf("сервис курсов вернул статус %d", resp.StatusCode)
		}
		if resp.StatusCode != http.StatusOK {
			return backoff.Permanent(fmt.Errorf("сервис курсов вернул статус %d", resp.StatusCode))
		}

		var body latestResponse
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
			return backoff.Permanent(fmt.Errorf("ошибка разбора ответа: %w", err))
		}
		r, ok := body.ConversionRates[c.base]
		if !ok || r <= 0 {
			return backoff.Permanent(fmt.Errorf("курс %s к %s не найден", code, c.base))
		}
		rate = r
		return nil
	}

	b := backoff.WithContext(backoff.WithMaxRetries(backoff.NewConstantBackOff(c.interval), maxAttempts-1), ctx)
	notify := func(err error, wait time.Duration) {
		c.log.Warn().Err(err).Str("currency", code).Dur("retry_in", wait).Msg("повтор запроса курса")
	}
	if err := backoff.RetryNotify(op, b, notify); err != nil {
		c.log.Error().Err(err).Str("currency", code).Msg("не удалось получить курс валюты")
		return 0, fmt.Errorf("%w: %s: %v", ErrConversionUnavailable, code, err)
	}
	return rate, nil
}
