package main

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unclebandit/hvac-backend/internal/model"
	"github.com/unclebandit/hvac-backend/internal/queue"
	"github.com/unclebandit/hvac-backend/internal/service"
)

// MockLogRepo stores email logs in memory
type MockLogRepo struct {
	mu   sync.Mutex
	logs []model.EmailLog
}

func (m *MockLogRepo) Create(_ context.Context, l *model.EmailLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logs = append(m.logs, *l)
	return nil
}

func (m *MockLogRepo) statuses() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.logs))
	for i, l := range m.logs {
		out[i] = l.Status
	}
	return out
}

// flakySender fails its first n sends, then succeeds.
type flakySender struct {
	mu       sync.Mutex
	failures int
	calls    int
}

func (s *flakySender) Send(_ context.Context, _ model.EmailMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.calls <= s.failures {
		return errors.New("smtp unavailable")
	}
	return nil
}

func newWorker(sender *flakySender, logs *MockLogRepo) *service.EmailWorker {
	l := logrus.New()
	l.SetLevel(logrus.PanicLevel)
	return service.NewEmailWorker(sender, logs, logrus.NewEntry(l))
}

func TestWorker(t *testing.T) {
	q := queue.NewInMemoryQueue()
	logs := &MockLogRepo{}
	sender := &flakySender{}
	require.NoError(t, consume(q, newWorker(sender, logs).Handle))

	require.NoError(t, q.Publish(queue.EmailSendsTopic, model.EmailMessage{
		ID:      "m-1",
		Type:    model.EmailConfirmation,
		To:      "jane@example.com",
		Subject: "Service Request Received - HVAC Company",
		HTML:    "<p>hi</p>",
	}))
	q.Wait()

	assert.Equal(t, 1, sender.calls)
	assert.Equal(t, []string{model.EmailStatusSent}, logs.statuses())
}

func TestWorkerRetriesFailedSend(t *testing.T) {
	q := queue.NewInMemoryQueue()
	q.Backoff = time.Millisecond
	logs := &MockLogRepo{}
	sender := &flakySender{failures: 2}
	require.NoError(t, consume(q, newWorker(sender, logs).Handle))

	require.NoError(t, q.Publish(queue.EmailSendsTopic, model.EmailMessage{ID: "m-2", To: "a@b.co", Subject: "s"}))
	q.Wait()

	assert.Equal(t, 3, sender.calls)
	assert.Equal(t, []string{model.EmailStatusFailed, model.EmailStatusFailed, model.EmailStatusSent}, logs.statuses())
}

func TestWorkerDropsMalformedPayload(t *testing.T) {
	q := queue.NewInMemoryQueue()
	logs := &MockLogRepo{}
	sender := &flakySender{}
	require.NoError(t, consume(q, newWorker(sender, logs).Handle))

	require.NoError(t, q.Publish(queue.EmailSendsTopic, "not an email"))
	q.Wait()

	assert.Zero(t, sender.calls)
	assert.Empty(t, logs.statuses())
}
