// Package postcommit выполняет побочные задачи после сохранения заказа.
// Задачи независимы: ошибка или паника одной не влияет на остальные и на ответ клиенту.
package postcommit

import (
	"context"
	"fmt"
	"sync"
	"time"

	"storefront/internal/metrics"
	"storefront/internal/observability"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// Task - одна побочная задача заказа.
type Task struct {
	Name string
	Run  func(ctx context.Context) error
}

// Scheduler запускает список задач после коммита.
type Scheduler interface {
	Schedule(ctx context.Context, fields []zap.Field, tasks ...Task)
}

// AsyncScheduler выполняет задачи в горутинах, отвязанных от отмены запроса.
type AsyncScheduler struct {
	reporter observability.Reporter
	timeout  time.Duration
	tracer   trace.Tracer
	wg       sync.WaitGroup
}

func NewAsyncScheduler(reporter observability.Reporter, timeout time.Duration) *AsyncScheduler {
	return &AsyncScheduler{reporter: reporter, timeout: timeout, tracer: otel.Tracer("postcommit")}
}

func (s *AsyncScheduler) Schedule(ctx context.Context, fields []zap.Field, tasks ...Task) {
	// Запрос может завершиться раньше задач, значения контекста (спан) сохраняются.
	base := context.WithoutCancel(ctx)
	for _, task := range tasks {
		s.wg.Add(1)
		go func(task Task) {
			defer s.wg.Done()
			taskCtx, cancel := context.WithTimeout(base, s.timeout)
			defer cancel()
			run(taskCtx, s.tracer, s.reporter, task, fields)
		}(task)
	}
}

// Wait дожидается завершения запущенных задач или истечения ctx.
func (s *AsyncScheduler) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("фоновые задачи не завершились: %w", ctx.Err())
	}
}

// SyncScheduler выполняет задачи последовательно в текущей горутине.
type SyncScheduler struct {
	reporter observability.Reporter
	tracer   trace.Tracer
}

func NewSyncScheduler(reporter observability.Reporter) *SyncScheduler {
	return &SyncScheduler{reporter: reporter, tracer: otel.Tracer("postcommit")}
}

func (s *SyncScheduler) Schedule(ctx context.Context, fields []zap.Field, tasks ...Task) {
	for _, task := range tasks {
		run(ctx, s.tracer, s.reporter, task, fields)
	}
}

// run выполняет задачу в собственном корневом спане со ссылкой на спан запроса:
// к моменту ошибки спан запроса обычно уже закрыт.
func run(ctx context.Context, tracer trace.Tracer, reporter observability.Reporter, task Task, fields []zap.Field) {
	opts := []trace.SpanStartOption{
		trace.WithNewRoot(),
		trace.WithAttributes(attribute.String("postcommit.task", task.Name)),
	}
	if parent := trace.SpanContextFromContext(ctx); parent.IsValid() {
		opts = append(opts, trace.WithLinks(trace.Link{SpanContext: parent}))
	}
	ctx, span := tracer.Start(ctx, "postcommit."+task.Name, opts...)
	defer span.End()

	defer func() {
		if p := recover(); p != nil {
			metrics.PostCommitFailures.WithLabelValues(task.Name).Inc()
			reporter.Report(ctx, task.Name, fmt.Errorf("паника в задаче: %v", p), fields...)
		}
	}()

	if err := task.Run(ctx); err != nil {
		metrics.PostCommitFailures.WithLabelValues(task.Name).Inc()
		reporter.Report(ctx, task.Name, err, fields...)
	}
}
