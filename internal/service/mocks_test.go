package service_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/unclebandit/hvac-backend/internal/mailer"
	"github.com/unclebandit/hvac-backend/internal/model"
	"github.com/unclebandit/hvac-backend/internal/service"
)

var fixedNow = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

func quietLog() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}

// MockQueue records every published email.
type MockQueue struct {
	mu       sync.Mutex
	messages []model.EmailMessage
	fail     bool
}

func (q *MockQueue) Publish(topic string, payload any) error {
	if q.fail {
		return errors.New("broker down")
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	var msg model.EmailMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		return err
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	q.messages = append(q.messages, msg)
	return nil
}

func (q *MockQueue) Subscribe(string, func([]byte) error) error { return nil }

func (q *MockQueue) sent() []model.EmailMessage {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]model.EmailMessage(nil), q.messages...)
}

func newEmailService(t *testing.T, q *MockQueue) *service.EmailService {
	t.Helper()
	tpl, err := mailer.LoadTemplates()
	require.NoError(t, err)
	return &service.EmailService{
		Queue:        q,
		Templates:    tpl,
		CompanyEmail: "office@hvacpro.com",
		CompanyPhone: "(555) 123-4567",
		FrontendURL:  "https://hvacpro.com/",
		Now:          clock,
	}
}

// MockSender records deliveries and fails for addresses in failFor.
// afterSend, when set, runs after each successful delivery.
type MockSender struct {
	mu        sync.Mutex
	sent      []model.EmailMessage
	failFor   map[string]bool
	afterSend func()
}

func (s *MockSender) Send(_ context.Context, msg model.EmailMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failFor[msg.To] {
		return errors.New("mailbox unavailable")
	}
	s.sent = append(s.sent, msg)
	if s.afterSend != nil {
		s.afterSend()
	}
	return nil
}

// MockEmailLogs collects email_logs rows.
type MockEmailLogs struct {
	mu   sync.Mutex
	rows []model.EmailLog
}

func (m *MockEmailLogs) Create(_ context.Context, l *model.EmailLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows = append(m.rows, *l)
	return nil
}

func strPtr(s string) *string { return &s }
