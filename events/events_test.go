package events_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bradycnk/Nominaft/events"
	"github.com/bradycnk/Nominaft/logger"
)

type failingPublisher struct{ calls int }

func (f *failingPublisher) Publish(context.Context, string, any) error {
	f.calls++
	return errors.New("broker down")
}

func TestNewEvent_WrapsPayload(t *testing.T) {
	ev, err := events.NewEvent(events.EventRunPaid, "payroll", "req-1", events.RunPaid{RunID: "r1", NetPay: "9885.375"})
	require.NoError(t, err)

	assert.NotEmpty(t, ev.ID)
	assert.Equal(t, "req-1", ev.CorrelationID)

	var payload events.RunPaid
	require.NoError(t, json.Unmarshal(ev.Data, &payload))
	assert.Equal(t, "r1", payload.RunID)
	assert.Equal(t, "9885.375", payload.NetPay)
}

func TestRecorder_KeepsCorrelationID(t *testing.T) {
	rec := &events.Recorder{}
	ctx := events.WithCorrelationID(context.Background(), "abc")

	require.NoError(t, rec.Publish(ctx, events.EventPeriodClosed, events.PeriodClosed{EmployeeID: "e1"}))
	require.NoError(t, rec.Publish(ctx, events.EventRateRefreshed, events.RateRefreshed{Current: "40"}))

	assert.Len(t, rec.Events(), 2)
	closed := rec.OfType(events.EventPeriodClosed)
	require.Len(t, closed, 1)
	assert.Equal(t, "abc", closed[0].CorrelationID)
}

func TestEmitter_SwallowsPublishErrors(t *testing.T) {
	// GIVEN: A publisher that always fails
	// WHEN: Emitting
	// THEN: The caller is not affected and the publisher was attempted

	pub := &failingPublisher{}
	em := events.NewEmitter(pub, logger.Nop())

	assert.NotPanics(t, func() { em.Emit(context.Background(), events.EventRunCompleted, events.RunCompleted{}) })
	assert.Equal(t, 1, pub.calls)
}

func TestEmitter_NilSafe(t *testing.T) {
	var em *events.Emitter
	assert.NotPanics(t, func() { em.Emit(context.Background(), events.EventRunPaid, nil) })

	em = events.NewEmitter(nil, nil)
	assert.NotPanics(t, func() { em.Emit(context.Background(), events.EventRunPaid, nil) })
}
