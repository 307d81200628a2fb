// Package external wraps the third-party HTTP APIs the catalog proxies:
// postal codes, exchange rates, random users, IP geolocation, crypto prices
// and country data.
package external

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrUpstream     = errors.New("upstream failure")
)

const DefaultTimeout = 10 * time.Second

type Config struct {
	CEPBaseURL         string
	CurrencyBaseURL    string
	RandomUserBaseURL  string
	GeolocationBaseURL string
	CryptoBaseURL      string
	CountryBaseURL     string
	Timeout            time.Duration
}

func DefaultConfig() Config {
	return Config{
		CEPBaseURL:         "https://viacep.com.br/ws",
		CurrencyBaseURL:    "https://api.exchangerate-api.com/v4",
		RandomUserBaseURL:  "https://randomuser.me/api",
		GeolocationBaseURL: "http://ip-api.com/json",
		CryptoBaseURL:      "https://api.coingecko.com/api/v3",
		CountryBaseURL:     "https://restcountries.com/v3.1",
		Timeout:            DefaultTimeout,
	}
}

type Client struct {
	cfg        Config
	httpClient *http.Client
}

// NewClient fills empty base URLs and timeout from DefaultConfig.
func NewClient(cfg Config) *Client {
	def := DefaultConfig()
	fill := func(v *string, d string) {
		*v = strings.TrimRight(strings.TrimSpace(*v), "/")
		if *v == "" {
			*v = d
		}
	}
	fill(&cfg.CEPBaseURL, def.CEPBaseURL)
	fill(&cfg.CurrencyBaseURL, def.CurrencyBaseURL)
	fill(&cfg.RandomUserBaseURL, def.RandomUserBaseURL)
	fill(&cfg.GeolocationBaseURL, def.GeolocationBaseURL)
	fill(&cfg.CryptoBaseURL, def.CryptoBaseURL)
	fill(&cfg.CountryBaseURL, def.CountryBaseURL)
	if cfg.Timeout <= 0 {
		cfg.Timeout = def.Timeout
	}

	return &Client{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
			Transport: otelhttp.NewTransport(&http.Transport{
				Proxy:               http.ProxyFromEnvironment,
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			}),
		},
	}
}

// getJSON issues one GET and decodes the body into out. Non-2xx answers
// are ErrNotFound; transport and decode failures are ErrUpstream.
func (c *Client) getJSON(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("%w: create request: %v", ErrUpstream, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: do request: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return fmt.Errorf("%w: upstream status %d", ErrNotFound, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode response: %v", ErrUpstream, err)
	}
	return nil
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}
