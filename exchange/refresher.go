package exchange

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bradycnk/Nominaft/events"
	"github.com/bradycnk/Nominaft/logger"
	"github.com/bradycnk/Nominaft/payroll"
)

// Result describes one refresh attempt.
type Result struct {
	Rate     decimal.Decimal // rate in effect after the attempt
	Previous decimal.Decimal
	Updated  bool
	Fallback bool // provider failed, previous rate kept
}

// Refresher copies the provider's rate into the stored pay parameters.
type Refresher struct {
	source     RateSource
	parameters payroll.ParameterStore
	events     *events.Emitter
	logger     *logger.Logger
	now        func() time.Time
}

func NewRefresher(source RateSource, params payroll.ParameterStore, emitter *events.Emitter, log *logger.Logger) *Refresher {
	if log == nil {
		log = logger.Nop()
	}
	return &Refresher{
		source:     source,
		parameters: params,
		events:     emitter,
		logger:     log.WithComponent("exchange"),
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// Refresh fetches the rate and stores it. On a provider failure the stored
// rate is untouched and the result is marked Fallback; the provider error
// is returned alongside it.
func (r *Refresher) Refresh(ctx context.Context) (Result, error) {
	current, err := r.parameters.GetParameters(ctx)
	if err != nil {
		return Result{}, err
	}
	res := Result{Rate: current.ExchangeRate, Previous: current.ExchangeRate}

	rate, err := r.source.Fetch(ctx)
	if err != nil {
		res.Fallback = true
		r.logger.Warn().Err(err).
			Str("rate", current.ExchangeRate.String()).
			Msg("rate refresh failed, keeping previous rate")
		return res, err
	}

	if rate.Equal(current.ExchangeRate) {
		return res, nil
	}

	next := *current
	next.ExchangeRate = rate
	next.UpdatedAt = r.now()
	if err := r.parameters.SaveParameters(ctx, next); err != nil {
		res.Fallback = true
		return res, err
	}

	res.Rate = rate
	res.Updated = true

	r.logger.Info().
		Str("previous", current.ExchangeRate.String()).
		Str("rate", rate.String()).
		Msg("exchange rate refreshed")
	r.events.Emit(ctx, events.EventRateRefreshed, events.RateRefreshed{
		Previous: current.ExchangeRate.String(),
		Current:  rate.String(),
	})
	return res, nil
}
