/*
Package exchange fetches the official VES/USD rate and keeps the stored
pay parameters current.

The payroll engine never fetches the rate itself: it reads whatever value is
stored in the parameters. The Refresher is the only writer, and when the
provider fails it leaves the previous value in place.
*/
package exchange

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bradycnk/Nominaft/generic"
)

// DefaultURL is the public endpoint for the central bank's official rate.
const DefaultURL = "https://ve.dolarapi.com/v1/dolares/oficial"

// RateSource returns the current VES per USD rate.
type RateSource interface {
	Fetch(ctx context.Context) (decimal.Decimal, error)
}

// Client reads the official rate over HTTP.
type Client struct {
	url        string
	httpClient *http.Client
}

func NewClient(url string, timeout time.Duration) *Client {
	if url == "" {
		url = DefaultURL
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{url: url, httpClient: &http.Client{Timeout: timeout}}
}

// quote is the provider's response. promedio is preferred; some mirrors
// only send price.
type quote struct {
	Promedio           *decimal.Decimal `json:"promedio"`
	Price              *decimal.Decimal `json:"price"`
	FechaActualizacion string           `json:"fechaActualizacion"`
}

// Fetch returns ErrRateUnavailable (wrapped) on transport errors, non-2xx
// responses, and missing or non-positive rates.
func (c *Client) Fetch(ctx context.Context) (decimal.Decimal, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %v", generic.ErrRateUnavailable, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %v", generic.ErrRateUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, resp.Body)
		return decimal.Zero, fmt.Errorf("%w: provider returned %d", generic.ErrRateUnavailable, resp.StatusCode)
	}

	var q quote
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&q); err != nil {
		return decimal.Zero, fmt.Errorf("%w: decode: %v", generic.ErrRateUnavailable, err)
	}

	var rate decimal.Decimal
	switch {
	case q.Promedio != nil && q.Promedio.IsPositive():
		rate = *q.Promedio
	case q.Price != nil && q.Price.IsPositive():
		rate = *q.Price
	default:
		return decimal.Zero, fmt.Errorf("%w: no positive rate in response", generic.ErrRateUnavailable)
	}
	return rate, nil
}
