// Package currency provides cached exchange rates and amount conversion.
//
// Rates are stored relative to a fixed pivot base so that any pair can be
// converted with two lookups. Lookups never hit the network when a rate is
// cached, fetches for the same currency are coalesced into one request.
package currency

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/singleflight"
)

// ErrNoFetcher is returned when a rate is not cached and the cache has no
// fetcher to retrieve it with.
var ErrNoFetcher = errors.New("no rate fetcher configured")

// Fetcher retrieves the exchange rate of one currency relative to the
// pivot base of the cache.
type Fetcher interface {
	FetchRate(ctx context.Context, code string) (decimal.Decimal, error)
}

type cacheEntry struct {
	rate      decimal.Decimal
	fetchedAt time.Time
}

// Cache is a process-wide exchange rate cache.
//
// The zero value is not usable, use New.
type Cache struct {
	base    string
	fetcher Fetcher

	// ttl of zero means entries never expire.
	ttl time.Duration

	mu      sync.RWMutex
	entries map[string]cacheEntry

	group singleflight.Group
}

// New returns a cache for rates relative to the given pivot base currency.
func New(base string, fetcher Fetcher, ttl time.Duration) *Cache {
	cache := &Cache{
		base:    normalize(base),
		fetcher: fetcher,
		ttl:     ttl,
		entries: make(map[string]cacheEntry),
	}

	// The base converts to itself at 1
	cache.entries[cache.base] = cacheEntry{rate: decimal.NewFromInt(1), fetchedAt: time.Now()}

	return cache
}

// Base returns the pivot base currency of the cache.
func (c *Cache) Base() string {
	return c.base
}

// RateSync returns the cached rate for the currency relative to the pivot
// base. It never performs I/O, the bool return is false when no rate is
// cached.
func (c *Cache) RateSync(code string) (decimal.Decimal, bool) {
	code = normalize(code)

	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[code]
	if !ok {
		return decimal.Decimal{}, false
	}

	if c.ttl > 0 && code != c.base && time.Since(entry.fetchedAt) > c.ttl {
		return decimal.Decimal{}, false
	}

	return entry.rate, true
}

// RateAsync returns the cached rate for the currency, fetching it first if
// it is not cached yet. Concurrent calls for the same currency share one
// in-flight fetch.
func (c *Cache) RateAsync(ctx context.Context, code string) (decimal.Decimal, error) {
	code = normalize(code)

	if rate, ok := c.RateSync(code); ok {
		return rate, nil
	}

	if c.fetcher == nil {
		return decimal.Decimal{}, ErrNoFetcher
	}

	result, err, _ := c.group.Do(code, func() (any, error) {
		// Re-check the cache, another caller may have fetched the rate
		// between our RateSync and the singleflight slot being free.
		if rate, ok := c.RateSync(code); ok {
			return rate, nil
		}

		rate, err := c.fetcher.FetchRate(ctx, code)
		if err != nil {
			return decimal.Decimal{}, err
		}

		c.mu.Lock()
		c.entries[code] = cacheEntry{rate: rate, fetchedAt: time.Now()}
		c.mu.Unlock()

		log.Debug().Str("currency", code).Str("rate", rate.String()).Msg("exchange rate fetched")
		return rate, nil
	})
	if err != nil {
		return decimal.Decimal{}, err
	}

	return result.(decimal.Decimal), nil
}

// Convert converts an amount between two currencies using cached rates,
// fetching missing rates. The bool return is false when either rate cannot
// be obtained; callers are expected to fall back to the unconverted amount.
func (c *Cache) Convert(ctx context.Context, amount decimal.Decimal, from, to string) (decimal.Decimal, bool) {
	from = normalize(from)
	to = normalize(to)

	if from == to {
		return amount, true
	}

	fromRate, err := c.RateAsync(ctx, from)
	if err != nil {
		log.Warn().Err(err).Str("currency", from).Msg("exchange rate unavailable")
		return decimal.Decimal{}, false
	}

	toRate, err := c.RateAsync(ctx, to)
	if err != nil {
		log.Warn().Err(err).Str("currency", to).Msg("exchange rate unavailable")
		return decimal.Decimal{}, false
	}

	if fromRate.IsZero() || toRate.IsZero() {
		return decimal.Decimal{}, false
	}

	// Rates are relative to the pivot base: amount * rate(from) / rate(to)
	return amount.Mul(fromRate).Div(toRate), true
}

func normalize(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
