package scheduler_test

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unclebandit/hvac-backend/internal/model"
	"github.com/unclebandit/hvac-backend/internal/scheduler"
)

func quietLog() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}

func TestAddRejectsBadSpecAndDuplicates(t *testing.T) {
	s := scheduler.New(quietLog(), time.Second)
	noop := func(context.Context) error { return nil }

	require.Error(t, s.Add("bad", "every day", noop))
	require.NoError(t, s.Add("nightly", "0 0 2 * * *", noop))
	require.Error(t, s.Add("nightly", "0 0 3 * * *", noop))
}

func TestRunNowAppliesTimeout(t *testing.T) {
	s := scheduler.New(quietLog(), 20*time.Millisecond)
	require.NoError(t, s.Add("slow", "0 0 2 * * *", func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	}))

	err := s.RunNow(context.Background(), "slow")
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	assert.Error(t, s.RunNow(context.Background(), "missing"))
}

func TestScheduledTaskFires(t *testing.T) {
	s := scheduler.New(quietLog(), time.Second)
	ran := make(chan struct{}, 1)
	require.NoError(t, s.Add("tick", "* * * * * *", func(context.Context) error {
		select {
		case ran <- struct{}{}:
		default:
		}
		return nil
	}))

	s.Start()
	defer s.Stop()

	select {
	case <-ran:
	case <-time.After(3 * time.Second):
		t.Fatal("task did not run")
	}
}

type fakeCleaner struct{ err error }

func (f fakeCleaner) Run(context.Context) (*model.CleanupResult, error) {
	return &model.CleanupResult{}, f.err
}

type fakeReminder struct{ calls *int }

func (f fakeReminder) Run(context.Context) (*model.ReminderResult, error) {
	*f.calls++
	return &model.ReminderResult{}, nil
}

func TestRegister(t *testing.T) {
	s := scheduler.New(quietLog(), time.Second)
	calls := 0
	require.NoError(t, scheduler.Register(s,
		"0 0 2 * * *", fakeCleaner{err: errors.New("db gone")},
		"0 0 9 * * *", fakeReminder{calls: &calls}))

	assert.EqualError(t, s.RunNow(context.Background(), scheduler.CleanupTask), "db gone")
	require.NoError(t, s.RunNow(context.Background(), scheduler.RemindersTask))
	assert.Equal(t, 1, calls)
}
