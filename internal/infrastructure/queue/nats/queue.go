package nats

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/kirillkom/docproof/internal/infrastructure/resilience"
	"github.com/nats-io/nats.go"
)

const workerQueueGroup = "workers"

// Subjects names the two job event subjects. Submitted jobs are load
// balanced across workers; cancel events reach every worker.
type Subjects struct {
	Submitted string
	Cancel    string
}

type Queue struct {
	conn     *nats.Conn
	subjects Subjects
	executor *resilience.Executor
	logger   *slog.Logger
}

type Options struct {
	ConnectTimeout       time.Duration
	ReconnectWait        time.Duration
	MaxReconnects        int
	RetryOnFailedConnect *bool
	ResilienceExecutor   *resilience.Executor
	Logger               *slog.Logger
}

func New(url string, subjects Subjects) (*Queue, error) {
	return NewWithOptions(url, subjects, Options{})
}

func NewWithOptions(url string, subjects Subjects, options Options) (*Queue, error) {
	connectTimeout := options.ConnectTimeout
	if connectTimeout <= 0 {
		connectTimeout = 2 * time.Second
	}
	reconnectWait := options.ReconnectWait
	if reconnectWait <= 0 {
		reconnectWait = 2 * time.Second
	}
	maxReconnects := options.MaxReconnects
	if maxReconnects <= 0 {
		maxReconnects = 60
	}
	retryOnFailedConnect := true
	if options.RetryOnFailedConnect != nil {
		retryOnFailedConnect = *options.RetryOnFailedConnect
	}
	logger := options.Logger
	if logger == nil {
		logger = slog.Default()
	}

	conn, err := nats.Connect(
		url,
		nats.Name("docproof"),
		nats.Timeout(connectTimeout),
		nats.ReconnectWait(reconnectWait),
		nats.MaxReconnects(maxReconnects),
		nats.RetryOnFailedConnect(retryOnFailedConnect),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			logger.Warn("nats_disconnected", "error", err)
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info("nats_reconnected", "url", nc.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connect nats: %w", err)
	}
	return &Queue{
		conn:     conn,
		subjects: subjects,
		executor: options.ResilienceExecutor,
		logger:   logger,
	}, nil
}

func (q *Queue) Close() {
	if q.conn != nil {
		q.conn.Close()
	}
}

func (q *Queue) PublishJobSubmitted(ctx context.Context, jobID string) error {
	return q.publish(ctx, q.subjects.Submitted, jobID)
}

func (q *Queue) PublishJobCancelled(ctx context.Context, jobID string) error {
	return q.publish(ctx, q.subjects.Cancel, jobID)
}

// SubscribeJobSubmitted blocks until ctx is done. Each job is delivered to
// one worker of the queue group.
func (q *Queue) SubscribeJobSubmitted(ctx context.Context, handler func(context.Context, string) error) error {
	return q.subscribe(ctx, q.subjects.Submitted, workerQueueGroup, handler)
}

// SubscribeJobCancelled blocks until ctx is done. Every worker receives every
// cancel event because only the worker running the job can stop it.
func (q *Queue) SubscribeJobCancelled(ctx context.Context, handler func(context.Context, string) error) error {
	return q.subscribe(ctx, q.subjects.Cancel, "", handler)
}

func (q *Queue) publish(ctx context.Context, subject, jobID string) error {
	call := func(_ context.Context) error {
		if err := q.conn.Publish(subject, []byte(jobID)); err != nil {
			return fmt.Errorf("nats publish: %w", err)
		}
		return nil
	}

	var err error
	if q.executor != nil {
		err = q.executor.Execute(ctx, "nats.publish", call, classifyNATSError)
	} else {
		err = call(ctx)
	}
	if err != nil {
		return wrapTemporaryIfNeeded(err)
	}
	return nil
}

func (q *Queue) subscribe(ctx context.Context, subject, group string, handler func(context.Context, string) error) error {
	onMessage := func(msg *nats.Msg) {
		if errors.Is(ctx.Err(), context.Canceled) {
			return
		}

		handlerCtx, cancel := context.WithCancel(ctx)
		defer cancel()
		if err := handler(handlerCtx, string(msg.Data)); err != nil {
			q.logger.Error("worker_handler_error", "subject", subject, "job_id", string(msg.Data), "error", err)
		}
	}

	var (
		sub *nats.Subscription
		err error
	)
	if group != "" {
		sub, err = q.conn.QueueSubscribe(subject, group, onMessage)
	} else {
		sub, err = q.conn.Subscribe(subject, onMessage)
	}
	if err != nil {
		return fmt.Errorf("nats subscribe %s: %w", subject, err)
	}

	if err := q.conn.Flush(); err != nil {
		return fmt.Errorf("nats flush: %w", err)
	}

	<-ctx.Done()
	if err := sub.Drain(); err != nil {
		return fmt.Errorf("nats drain subscription: %w", err)
	}
	if err := q.conn.FlushTimeout(5 * time.Second); err != nil {
		return fmt.Errorf("nats flush after drain: %w", err)
	}
	return nil
}
