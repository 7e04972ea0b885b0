package queue

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/unclebandit/hvac-backend/internal/logger"
)

// EmailSendsTopic carries rendered model.EmailMessage payloads.
const EmailSendsTopic = "email_sends"

// Queue publishes JSON payloads to topic subscribers.
type Queue interface {
	Publish(topic string, payload any) error
	Subscribe(topic string, handler func(payload []byte) error) error
}

// InMemoryQueue delivers to in-process subscribers with retry.
type InMemoryQueue struct {
	mu       sync.Mutex
	handlers map[string][]func(payload []byte) error
	wg       sync.WaitGroup

	MaxRetries int
	Backoff    time.Duration
}

func NewInMemoryQueue() *InMemoryQueue {
	return &InMemoryQueue{
		handlers:   make(map[string][]func(payload []byte) error),
		MaxRetries: 3,
		Backoff:    500 * time.Millisecond,
	}
}

// job wraps a message payload with retry info
type job struct {
	Topic      string
	Payload    []byte
	RetryCount int
	MaxRetries int
}

// Publish fans the payload out to every subscriber of topic.
func (q *InMemoryQueue) Publish(topic string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode %s payload: %w", topic, err)
	}

	q.mu.Lock()
	handlers := q.handlers[topic]
	q.mu.Unlock()

	if len(handlers) == 0 {
		return fmt.Errorf("no subscribers for topic %s", topic)
	}

	for _, handler := range handlers {
		q.wg.Add(1)
		go q.processJob(handler, job{Topic: topic, Payload: body, MaxRetries: q.MaxRetries})
	}
	return nil
}

// processJob handles retries and errors
func (q *InMemoryQueue) processJob(handler func(payload []byte) error, j job) {
	defer q.wg.Done()
	log := logger.WithComponent("queue").WithField("topic", j.Topic)

	for j.RetryCount <= j.MaxRetries {
		err := handler(j.Payload)
		if err == nil {
			return
		}

		j.RetryCount++
		log.WithError(err).Warnf("job failed (attempt %d/%d)", j.RetryCount, j.MaxRetries+1)

		if j.RetryCount > j.MaxRetries {
			log.Errorf("job permanently failed after %d attempts", j.RetryCount)
			return
		}

		// linear backoff
		time.Sleep(time.Duration(j.RetryCount) * q.Backoff)
	}
}

// Subscribe adds a handler for a topic
func (q *InMemoryQueue) Subscribe(topic string, handler func(payload []byte) error) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.handlers[topic] = append(q.handlers[topic], handler)
	return nil
}

// Wait blocks until every published job has finished or given up.
func (q *InMemoryQueue) Wait() {
	q.wg.Wait()
}
