// internal/scheduler/scheduler.go
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/unclebandit/hvac-backend/internal/metrics"
)

// Task is one unit of scheduled work.
type Task func(ctx context.Context) error

// Scheduler runs tasks on six-field cron specs (seconds first). A task
// still running when its next tick fires is skipped for that tick.
type Scheduler struct {
	cron    *cron.Cron
	log     *logrus.Entry
	timeout time.Duration

	mu    sync.Mutex
	ctx   context.Context
	stop  context.CancelFunc
	tasks map[string]Task
}

// New returns a scheduler whose runs are cut off after timeout.
func New(log *logrus.Entry, timeout time.Duration) *Scheduler {
	ctx, stop := context.WithCancel(context.Background())
	cl := cronLogger{log}
	return &Scheduler{
		cron: cron.New(
			cron.WithSeconds(),
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
		log:     log,
		timeout: timeout,
		ctx:     ctx,
		stop:    stop,
		tasks:   make(map[string]Task),
	}
}

// Add registers task under name on spec.
func (s *Scheduler) Add(name, spec string, task Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, dup := s.tasks[name]; dup {
		return fmt.Errorf("task %q already registered", name)
	}
	if _, err := s.cron.AddFunc(spec, func() { _ = s.run(s.ctx, name, task) }); err != nil {
		return fmt.Errorf("schedule %s (%q): %w", name, spec, err)
	}
	s.tasks[name] = task
	s.log.WithFields(logrus.Fields{"task": name, "spec": spec}).Info("task scheduled")
	return nil
}

// RunNow executes a registered task immediately on the caller's goroutine.
func (s *Scheduler) RunNow(ctx context.Context, name string) error {
	s.mu.Lock()
	task, ok := s.tasks[name]
	s.mu.Unlock()
	if !ok {
		return fmt.Errorf("unknown task %q", name)
	}
	return s.run(ctx, name, task)
}

func (s *Scheduler) run(parent context.Context, name string, task Task) error {
	ctx := parent
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(parent, s.timeout)
		defer cancel()
	}

	log := s.log.WithField("task", name)
	log.Info("task started")
	start := time.Now()
	err := task(ctx)
	elapsed := time.Since(start)
	metrics.RecordJobRun(name, elapsed, err == nil)

	if err != nil {
		log.WithError(err).WithField("duration", elapsed.String()).Error("task failed")
		return err
	}
	log.WithField("duration", elapsed.String()).Info("task finished")
	return nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop cancels running tasks and waits for them to return.
func (s *Scheduler) Stop() {
	s.stop()
	<-s.cron.Stop().Done()
}

// cronLogger routes cron's own messages through logrus.
type cronLogger struct {
	log *logrus.Entry
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.WithFields(fields(keysAndValues)).Debug(msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.WithError(err).WithFields(fields(keysAndValues)).Error(msg)
}

func fields(kv []interface{}) logrus.Fields {
	f := make(logrus.Fields, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		f[fmt.Sprint(kv[i])] = kv[i+1]
	}
	return f
}
