package currency

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/shopspring/decimal"
	x_currency "golang.org/x/text/currency"
)

var (
	ErrInvalidCurrencyCode = errors.New("the currency code is not a valid ISO 4217 code")
	ErrRateNotAvailable    = errors.New("no exchange rate is available for the currency")
)

// DefaultAPIURL is the rate API used when RATE_API_URL is not set.
// The API follows the frankfurter.app response format.
const DefaultAPIURL = "https://api.frankfurter.app"

type ratesResponse struct {
	Base  string                     `json:"base"`
	Rates map[string]decimal.Decimal `json:"rates"`
}

// HTTPFetcher fetches exchange rates from a frankfurter.app style JSON API.
type HTTPFetcher struct {
	baseURL string
	base    string
	client  *http.Client
}

// NewHTTPFetcher returns a fetcher for rates relative to the given base
// currency. baseURL may be empty, then DefaultAPIURL is used.
func NewHTTPFetcher(baseURL, base string) *HTTPFetcher {
	if baseURL == "" {
		baseURL = DefaultAPIURL
	}

	return &HTTPFetcher{
		baseURL: baseURL,
		base:    normalize(base),
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// FetchRate returns the value of one unit of the given currency in the
// base currency.
func (f *HTTPFetcher) FetchRate(ctx context.Context, code string) (decimal.Decimal, error) {
	code = normalize(code)

	// Reject garbage before it reaches the network
	if _, err := x_currency.ParseISO(code); err != nil {
		return decimal.Decimal{}, fmt.Errorf("%w: %s", ErrInvalidCurrencyCode, code)
	}

	query := url.Values{}
	query.Set("from", code)
	query.Set("to", f.base)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.baseURL+"/latest?"+query.Encode(), nil)
	if err != nil {
		return decimal.Decimal{}, err
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("could not fetch exchange rate: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return decimal.Decimal{}, fmt.Errorf("%w: %s (HTTP %d)", ErrRateNotAvailable, code, resp.StatusCode)
	}

	var rates ratesResponse
	err = json.NewDecoder(resp.Body).Decode(&rates)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("could not parse exchange rate response: %w", err)
	}

	rate, ok := rates.Rates[f.base]
	if !ok {
		return decimal.Decimal{}, fmt.Errorf("%w: %s", ErrRateNotAvailable, code)
	}

	return rate, nil
}
