package telemetry

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// MeterName scopes every fulfillment instrument.
const MeterName = "fulfillment"

// Instruments are the counters the background jobs and the event publisher
// report to. A nil *Instruments records nothing.
type Instruments struct {
	jobRuns      metric.Int64Counter
	autoApproval metric.Int64Counter
	assignments  metric.Int64Counter
	published    metric.Int64Counter
	backlog      metric.Int64Gauge
}

func NewInstruments(meter metric.Meter) (*Instruments, error) {
	jobRuns, err1 := meter.Int64Counter("fulfillment.job.runs",
		metric.WithDescription("Scheduled job executions by job and status"))
	autoApproval, err2 := meter.Int64Counter("fulfillment.auto_approval.items",
		metric.WithDescription("Pending items evaluated by the auto-approval scheduler, by outcome"))
	assignments, err3 := meter.Int64Counter("fulfillment.assignment.attempts",
		metric.WithDescription("Partner assignment attempts by outcome"))
	published, err4 := meter.Int64Counter("fulfillment.events.published",
		metric.WithDescription("Lifecycle events handed to the notification channel, by kind"))
	backlog, err5 := meter.Int64Gauge("fulfillment.outbox.backlog",
		metric.WithDescription("Unpublished lifecycle events after the last relay pass"))
	if err := errors.Join(err1, err2, err3, err4, err5); err != nil {
		return nil, err
	}

	return &Instruments{
		jobRuns:      jobRuns,
		autoApproval: autoApproval,
		assignments:  assignments,
		published:    published,
		backlog:      backlog,
	}, nil
}

func (i *Instruments) RecordJobRun(ctx context.Context, job string, err error) {
	if i == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	i.jobRuns.Add(ctx, 1, metric.WithAttributes(
		attribute.String("job", job),
		attribute.String("status", status),
	))
}

func (i *Instruments) RecordAutoApproval(ctx context.Context, outcome string, n int) {
	if i == nil || n <= 0 {
		return
	}
	i.autoApproval.Add(ctx, int64(n), metric.WithAttributes(attribute.String("outcome", outcome)))
}

func (i *Instruments) RecordAssignments(ctx context.Context, outcome string, n int) {
	if i == nil || n <= 0 {
		return
	}
	i.assignments.Add(ctx, int64(n), metric.WithAttributes(attribute.String("outcome", outcome)))
}

func (i *Instruments) RecordPublished(ctx context.Context, kind string) {
	if i == nil {
		return
	}
	i.published.Add(ctx, 1, metric.WithAttributes(attribute.String("kind", kind)))
}

func (i *Instruments) RecordBacklog(ctx context.Context, n int64) {
	if i == nil {
		return
	}
	i.backlog.Record(ctx, n)
}
