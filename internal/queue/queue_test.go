package queue

import (
	"encoding/json"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/streadway/amqp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unclebandit/hvac-backend/internal/logger"
)

func TestPublishWithoutSubscribersFails(t *testing.T) {
	q := NewInMemoryQueue()
	err := q.Publish(EmailSendsTopic, map[string]string{"to": "a@b.c"})
	assert.Error(t, err)
}

func TestPublishDeliversJSON(t *testing.T) {
	q := NewInMemoryQueue()

	got := make(chan map[string]string, 1)
	require.NoError(t, q.Subscribe(EmailSendsTopic, func(payload []byte) error {
		var m map[string]string
		if err := json.Unmarshal(payload, &m); err != nil {
			return err
		}
		got <- m
		return nil
	}))

	require.NoError(t, q.Publish(EmailSendsTopic, map[string]string{"to": "a@b.c"}))
	q.Wait()

	select {
	case m := <-got:
		assert.Equal(t, "a@b.c", m["to"])
	case <-time.After(time.Second):
		t.Fatal("handler was not called")
	}
}

func TestRetriesUntilSuccess(t *testing.T) {
	q := NewInMemoryQueue()
	q.Backoff = time.Millisecond

	var calls int32
	require.NoError(t, q.Subscribe("t", func([]byte) error {
		if atomic.AddInt32(&calls, 1) < 3 {
			return errors.New("smtp down")
		}
		return nil
	}))

	require.NoError(t, q.Publish("t", 1))
	q.Wait()
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestGivesUpAfterMaxRetries(t *testing.T) {
	q := NewInMemoryQueue()
	q.Backoff = time.Millisecond
	q.MaxRetries = 2

	var calls int32
	require.NoError(t, q.Subscribe("t", func([]byte) error {
		atomic.AddInt32(&calls, 1)
		return errors.New("always")
	}))

	require.NoError(t, q.Publish("t", 1))
	q.Wait()
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestRetryCountHeader(t *testing.T) {
	assert.Equal(t, 0, retryCount(nil))
	assert.Equal(t, 0, retryCount(amqp.Table{}))
	assert.Equal(t, 2, retryCount(amqp.Table{retryHeader: int32(2)}))
	assert.Equal(t, 3, retryCount(amqp.Table{retryHeader: int64(3)}))
	assert.Equal(t, 0, retryCount(amqp.Table{retryHeader: "x"}))
}

type recordingAcker struct {
	acked, nacked, requeued bool
}

func (a *recordingAcker) Ack(uint64, bool) error {
	a.acked = true
	return nil
}

func (a *recordingAcker) Nack(_ uint64, _ bool, requeue bool) error {
	a.nacked, a.requeued = true, requeue
	return nil
}

func (a *recordingAcker) Reject(uint64, bool) error { return nil }

func TestHandleDelivery(t *testing.T) {
	q := &AMQPQueue{MaxRetries: 3}
	log := logger.WithComponent("amqp-test")
	failing := func([]byte) error { return errors.New("smtp down") }

	tests := []struct {
		name       string
		handler    func([]byte) error
		retries    int32
		publishErr error
		wantAck    bool
		wantNack   bool
		wantRetry  int
	}{
		{"success is acked", func([]byte) error { return nil }, 0, nil, true, false, -1},
		{"failure is republished then acked", failing, 1, nil, true, false, 2},
		{"failed republish is nacked for redelivery", failing, 0, errors.New("channel closed"), false, true, 1},
		{"exhausted retries are dropped", failing, 3, nil, true, false, -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			acker := &recordingAcker{}
			d := amqp.Delivery{
				Acknowledger: acker,
				Headers:      amqp.Table{retryHeader: tt.retries},
				Body:         []byte(`{"to":"a@b.c"}`),
			}
			republished := -1
			q.handleDelivery(log, EmailSendsTopic, d, tt.handler, func(_ string, _ []byte, retries int) error {
				republished = retries
				return tt.publishErr
			})

			assert.Equal(t, tt.wantAck, acker.acked)
			assert.Equal(t, tt.wantNack, acker.nacked)
			assert.Equal(t, tt.wantNack, acker.requeued)
			assert.Equal(t, tt.wantRetry, republished)
		})
	}
}
