/*
Package events publishes domain events about attendance and payroll.

Events are fire-and-forget notifications for downstream consumers (accounting,
receipt rendering, audit). A failed publish never fails the operation that
produced it: the Emitter logs the error and moves on.

EVENT TYPES:
  attendance.period_closed   A half-month of attendance was locked
  payroll.run_completed      Pay runs were persisted for a half-month
  payroll.run_paid           A single run was marked as paid
  parameters.rate_refreshed  The exchange rate was updated from the provider
*/
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Event types
const (
	EventPeriodClosed  = "attendance.period_closed"
	EventRunCompleted  = "payroll.run_completed"
	EventRunPaid       = "payroll.run_paid"
	EventRateRefreshed = "parameters.rate_refreshed"
)

// ExchangePayroll is the AMQP topic exchange all events go to.
const ExchangePayroll = "nomina.events"

// Event is the envelope written to the broker.
type Event struct {
	ID            string          `json:"id"`
	Type          string          `json:"type"`
	Source        string          `json:"source"`
	Timestamp     time.Time       `json:"timestamp"`
	CorrelationID string          `json:"correlation_id,omitempty"`
	Data          json.RawMessage `json:"data"`
}

// NewEvent wraps data in an envelope with a fresh ID.
func NewEvent(eventType, source, correlationID string, data any) (*Event, error) {
	body, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return &Event{
		ID:            uuid.NewString(),
		Type:          eventType,
		Source:        source,
		Timestamp:     time.Now().UTC(),
		CorrelationID: correlationID,
		Data:          body,
	}, nil
}

// Publisher delivers events. Implementations must be safe for concurrent use.
type Publisher interface {
	Publish(ctx context.Context, eventType string, data any) error
}

// =============================================================================
// PAYLOADS
// =============================================================================

type PeriodClosed struct {
	EmployeeID string `json:"employee_id"`
	Start      string `json:"start"`
	End        string `json:"end"`
	Records    int    `json:"records"`
}

type RunCompleted struct {
	Year      int      `json:"year"`
	Month     int      `json:"month"`
	Half      int      `json:"half"`
	RunIDs    []string `json:"run_ids"`
	TotalNet  string   `json:"total_net"`
	Employees int      `json:"employees"`
}

type RunPaid struct {
	RunID      string `json:"run_id"`
	EmployeeID string `json:"employee_id"`
	NetPay     string `json:"net_pay"`
}

type RateRefreshed struct {
	Previous string `json:"previous"`
	Current  string `json:"current"`
}

// =============================================================================
// CORRELATION
// =============================================================================

type contextKey string

const correlationIDKey contextKey = "correlation_id"

// WithCorrelationID adds a correlation ID to the context
func WithCorrelationID(ctx context.Context, correlationID string) context.Context {
	return context.WithValue(ctx, correlationIDKey, correlationID)
}

// CorrelationID retrieves the correlation ID from context
func CorrelationID(ctx context.Context) string {
	if id, ok := ctx.Value(correlationIDKey).(string); ok {
		return id
	}
	return ""
}
