// Package currency converts heterogeneous cost amounts into a single
// reporting currency. The exchange-rate source is an injected collaborator;
// this package only defines the normalization contract: bounded lookups,
// minor-unit rounding, and no silent fallback rates.
package currency

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ratewise/ratewise/internal/apperrors"
	"github.com/ratewise/ratewise/internal/rate"
)

// RateSource resolves the exchange rate for a currency pair on a given
// calendar date. Implementations must honor ctx cancellation.
type RateSource interface {
	Rate(ctx context.Context, from, to string, on time.Time) (float64, error)
}

// zeroDecimal lists ISO 4217 currencies without minor units.
var zeroDecimal = map[string]bool{
	"JPY": true,
	"KRW": true,
	"VND": true,
	"CLP": true,
	"ISK": true,
	"UGX": true,
	"RWF": true,
}

// MinorUnits returns the number of decimal places amounts in the given
// currency are rounded to when surfaced.
func MinorUnits(code string) int {
	if zeroDecimal[strings.ToUpper(code)] {
		return 0
	}
	return 2
}

// Normalizer converts amounts between currencies with a bounded lookup.
type Normalizer struct {
	source  RateSource
	timeout time.Duration
}

func NewNormalizer(source RateSource, timeout time.Duration) *Normalizer {
	return &Normalizer{
		source:  source,
		timeout: timeout,
	}
}

// Normalize converts amount from one currency to another, rounded to the
// target currency's minor-unit precision. Identity pairs skip the lookup.
// An unresolvable pair yields RATE_UNAVAILABLE; a lookup that exceeds the
// configured timeout yields UPSTREAM_TIMEOUT. No default rate is ever
// substituted.
func (n *Normalizer) Normalize(ctx context.Context, amount float64, from, to string, on time.Time) (float64, error) {
	from = strings.ToUpper(from)
	to = strings.ToUpper(to)

	if from == to {
		return rate.RoundTo(amount, MinorUnits(to)), nil
	}

	ctx, cancel := context.WithTimeout(ctx, n.timeout)
	defer cancel()

	r, err := n.source.Rate(ctx, from, to, on)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return 0, apperrors.UpstreamTimeout(fmt.Sprintf("exchange rate lookup %s/%s timed out", from, to))
		}
		var appErr *apperrors.Error
		if errors.As(err, &appErr) {
			return 0, err
		}
		return 0, apperrors.RateUnavailable(fmt.Sprintf("no exchange rate for %s/%s: %v", from, to, err))
	}

	return rate.RoundTo(amount*r, MinorUnits(to)), nil
}

// FixedSource is a static in-memory rate table keyed "FROM/TO". It answers
// inverse pairs from the reciprocal and ignores the date. Used for
// development and tests; production wires a live source.
type FixedSource struct {
	rates map[string]float64
}

func NewFixedSource(rates map[string]float64) *FixedSource {
	normalized := make(map[string]float64, len(rates))
	for pair, r := range rates {
		normalized[strings.ToUpper(pair)] = r
	}
	return &FixedSource{rates: normalized}
}

func (s *FixedSource) Rate(ctx context.Context, from, to string, _ time.Time) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if r, ok := s.rates[from+"/"+to]; ok {
		return r, nil
	}
	if r, ok := s.rates[to+"/"+from]; ok && r != 0 {
		return 1 / r, nil
	}
	return 0, apperrors.RateUnavailable(fmt.Sprintf("no exchange rate for %s/%s", from, to))
}
