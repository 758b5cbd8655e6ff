package kvstore

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/2beens/localblog/internal/telemetry/tracing"
)

var _ Backend = (*InstrumentedBackend)(nil)

// InstrumentedBackend records the duration of every backend call, labeled by
// operation and outcome, and wraps it in a span.
type InstrumentedBackend struct {
	next     Backend
	duration prometheus.ObserverVec
}

func NewInstrumentedBackend(next Backend, duration prometheus.ObserverVec) *InstrumentedBackend {
	return &InstrumentedBackend{
		next:     next,
		duration: duration,
	}
}

func (b *InstrumentedBackend) observe(op string, begin time.Time, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	b.duration.With(prometheus.Labels{
		"op":      op,
		"outcome": outcome,
	}).Observe(time.Since(begin).Seconds())
}

func (b *InstrumentedBackend) GetItem(ctx context.Context, key string) (_ string, _ bool, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "kvstore.get")
	defer span.End()
	defer func(begin time.Time) { b.observe("get", begin, err) }(time.Now())

	return b.next.GetItem(ctx, key)
}

func (b *InstrumentedBackend) SetItem(ctx context.Context, key, value string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "kvstore.set")
	defer span.End()
	defer func(begin time.Time) { b.observe("set", begin, err) }(time.Now())

	return b.next.SetItem(ctx, key, value)
}

func (b *InstrumentedBackend) RemoveItem(ctx context.Context, key string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "kvstore.remove")
	defer span.End()
	defer func(begin time.Time) { b.observe("remove", begin, err) }(time.Now())

	return b.next.RemoveItem(ctx, key)
}

func (b *InstrumentedBackend) Update(ctx context.Context, key string, fn UpdateFunc) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "kvstore.update")
	defer span.End()
	defer func(begin time.Time) { b.observe("update", begin, err) }(time.Now())

	return b.next.Update(ctx, key, fn)
}
