package gojob

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/goliatone/go-databinding/core"
	glog "github.com/goliatone/go-logger/glog"

	job "github.com/goliatone/go-job"
	"github.com/goliatone/go-job/queue"
	"github.com/goliatone/go-job/queue/worker"
)

const (
	JobIDInspectDiscovery = "databinding.discovery.inspect"

	// AttemptParameter carries the delivery attempt in job parameters for
	// queues whose deliveries do not report attempts themselves.
	AttemptParameter = "attempt"
)

// RetryPolicy bounds sink retries. Delays double from BaseDelay per attempt
// and stop growing at MaxDelay. MaxAttempts <= 0 allows a single attempt.
type RetryPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
}

// Decide returns the nack for a failed attempt (1-based): retry with backoff
// until MaxAttempts, then dead-letter.
func (p RetryPolicy) Decide(attempt int, err error) queue.NackOptions {
	opts := worker.DefaultRetryPolicy{
		MaxAttempts: p.MaxAttempts,
		Backoff: worker.BackoffConfig{
			Strategy:    worker.BackoffExponential,
			Interval:    p.BaseDelay,
			MaxInterval: p.MaxDelay,
		},
	}.Decide(attempt, err)
	opts.Reason = strings.TrimSpace(opts.Reason)
	return opts
}

// Inspector is the discovery surface a background inspection needs.
type Inspector interface {
	Inspect(ctx context.Context) core.DiscoveryReport
}

// ReportSink receives each completed discovery report. Returning an error
// nacks the delivery.
type ReportSink func(ctx context.Context, report core.DiscoveryReport) error

// InspectionEnqueuer schedules discovery inspections on a go-job queue.
type InspectionEnqueuer struct {
	enqueuer queue.Enqueuer
}

func NewInspectionEnqueuer(enqueuer queue.Enqueuer) *InspectionEnqueuer {
	return &InspectionEnqueuer{enqueuer: enqueuer}
}

func (e *InspectionEnqueuer) Enqueue(ctx context.Context, idempotencyKey string) (queue.EnqueueReceipt, error) {
	if e == nil || e.enqueuer == nil {
		return queue.EnqueueReceipt{}, fmt.Errorf("gojob: enqueuer is not configured")
	}
	return e.enqueuer.Enqueue(ctx, &job.ExecutionMessage{
		JobID:          JobIDInspectDiscovery,
		ScriptPath:     JobIDInspectDiscovery,
		Parameters:     map[string]any{AttemptParameter: 1},
		IdempotencyKey: strings.TrimSpace(idempotencyKey),
	})
}

// InspectionRunner drains inspection jobs one delivery at a time.
type InspectionRunner struct {
	dequeuer  queue.Dequeuer
	inspector Inspector
	sink      ReportSink
	policy    RetryPolicy
	logger    glog.Logger
}

func NewInspectionRunner(
	dequeuer queue.Dequeuer,
	inspector Inspector,
	sink ReportSink,
	policy RetryPolicy,
	logger glog.Logger,
) *InspectionRunner {
	return &InspectionRunner{
		dequeuer:  dequeuer,
		inspector: inspector,
		sink:      sink,
		policy:    policy,
		logger:    glog.Ensure(logger),
	}
}

// ProcessNext dequeues one delivery, runs a discovery pass and acks it.
// Deliveries for other jobs are dead-lettered.
func (r *InspectionRunner) ProcessNext(ctx context.Context) error {
	if r == nil || r.dequeuer == nil || r.inspector == nil {
		return fmt.Errorf("gojob: inspection runner is not configured")
	}
	delivery, err := r.dequeuer.Dequeue(ctx)
	if err != nil {
		return err
	}
	if delivery == nil {
		return nil
	}

	msg := delivery.Message()
	if msg == nil || strings.TrimSpace(msg.JobID) != JobIDInspectDiscovery {
		jobID := ""
		if msg != nil {
			jobID = msg.JobID
		}
		r.logger.Warn("dead-lettering unsupported job", "job_id", jobID)
		return delivery.Nack(ctx, queue.NackOptions{
			Disposition: queue.NackDispositionDeadLetter,
			Reason:      "unsupported job",
		})
	}

	report := r.inspector.Inspect(ctx)
	r.logger.Info("discovery inspection completed",
		"providers", len(report.Providers),
		"faults", len(report.Faults),
		"default_injected", report.DefaultInjected,
	)
	if r.sink != nil {
		if sinkErr := r.sink(ctx, report); sinkErr != nil {
			attempt := deliveryAttempt(delivery, msg)
			nack := r.policy.Decide(attempt, sinkErr)
			r.logger.Error("discovery report sink failed",
				"error", sinkErr,
				"attempt", attempt,
				"disposition", string(nack.Disposition),
				"delay_ms", nack.Delay.Milliseconds(),
			)
			if nack.Disposition == queue.NackDispositionRetry {
				if msg.Parameters == nil {
					msg.Parameters = map[string]any{}
				}
				msg.Parameters[AttemptParameter] = attempt + 1
			}
			if err := delivery.Nack(ctx, nack); err != nil {
				return err
			}
			return sinkErr
		}
	}
	return delivery.Ack(ctx)
}

type attemptsReader interface {
	Attempts() int
}

// deliveryAttempt prefers the attempt count tracked by the queue and falls
// back to the message parameter.
func deliveryAttempt(delivery queue.Delivery, msg *job.ExecutionMessage) int {
	if reader, ok := delivery.(attemptsReader); ok {
		if attempts := reader.Attempts(); attempts > 0 {
			return attempts
		}
	}
	if msg != nil {
		switch value := msg.Parameters[AttemptParameter].(type) {
		case int:
			if value > 0 {
				return value
			}
		case int64:
			if value > 0 {
				return int(value)
			}
		case float64:
			if value > 0 {
				return int(value)
			}
		}
	}
	return 1
}

// LoggingHook reports go-job worker lifecycle events through a glog logger.
type LoggingHook struct {
	logger glog.Logger
}

func NewLoggingHook(logger glog.Logger) *LoggingHook {
	return &LoggingHook{logger: glog.Ensure(logger)}
}

func (h *LoggingHook) OnStart(_ context.Context, event worker.Event) {
	h.log("debug", "job started", event)
}

func (h *LoggingHook) OnSuccess(_ context.Context, event worker.Event) {
	h.log("info", "job succeeded", event)
}

func (h *LoggingHook) OnFailure(_ context.Context, event worker.Event) {
	h.log("error", "job failed", event)
}

func (h *LoggingHook) OnRetry(_ context.Context, event worker.Event) {
	h.log("warn", "job retry scheduled", event)
}

func (h *LoggingHook) log(level string, msg string, event worker.Event) {
	if h == nil || h.logger == nil {
		return
	}
	args := eventArgs(event)
	switch level {
	case "debug":
		h.logger.Debug(msg, args...)
	case "info":
		h.logger.Info(msg, args...)
	case "warn":
		h.logger.Warn(msg, args...)
	default:
		h.logger.Error(msg, args...)
	}
}

func eventArgs(event worker.Event) []any {
	message := event.Message
	if message == nil && event.Delivery != nil {
		message = event.Delivery.Message()
	}
	jobID := ""
	if message != nil {
		jobID = strings.TrimSpace(message.JobID)
	}
	args := []any{
		"job_id", jobID,
		"attempt", event.Attempt,
		"duration_ms", event.Duration.Milliseconds(),
	}
	if event.Delay > 0 {
		args = append(args, "delay_ms", event.Delay.Milliseconds())
	}
	if event.Err != nil {
		args = append(args, "error", event.Err)
	}
	return args
}

var (
	_ worker.Hook        = (*LoggingHook)(nil)
	_ worker.RetryPolicy = RetryPolicy{}
	_ Inspector          = (*core.Factory)(nil)
)
