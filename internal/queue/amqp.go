package queue

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/streadway/amqp"

	"github.com/unclebandit/hvac-backend/internal/logger"
)

const retryHeader = "x-retry-count"

// AMQPQueue publishes to and consumes from durable RabbitMQ queues named
// after the topic.
type AMQPQueue struct {
	conn *amqp.Connection

	mu       sync.Mutex
	pubCh    *amqp.Channel
	declared map[string]bool

	MaxRetries int
}

func DialAMQP(url string) (*AMQPQueue, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("connect to rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}
	return &AMQPQueue{
		conn:       conn,
		pubCh:      ch,
		declared:   make(map[string]bool),
		MaxRetries: 3,
	}, nil
}

func declare(ch *amqp.Channel, topic string) error {
	_, err := ch.QueueDeclare(
		topic, // name
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,   // arguments
	)
	return err
}

func (q *AMQPQueue) Publish(topic string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode %s payload: %w", topic, err)
	}
	return q.publish(topic, body, 0)
}

func (q *AMQPQueue) publish(topic string, body []byte, retries int) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if !q.declared[topic] {
		if err := declare(q.pubCh, topic); err != nil {
			return fmt.Errorf("declare queue %s: %w", topic, err)
		}
		q.declared[topic] = true
	}

	return q.pubCh.Publish("", topic, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    uuid.NewString(),
		Timestamp:    time.Now(),
		Headers:      amqp.Table{retryHeader: int32(retries)},
		Body:         body,
	})
}

// Subscribe consumes topic on its own channel with manual acks. A failed
// delivery is republished with an incremented retry header until MaxRetries
// is reached, then dropped.
func (q *AMQPQueue) Subscribe(topic string, handler func(payload []byte) error) error {
	ch, err := q.conn.Channel()
	if err != nil {
		return fmt.Errorf("open consumer channel: %w", err)
	}
	if err := declare(ch, topic); err != nil {
		ch.Close()
		return fmt.Errorf("declare queue %s: %w", topic, err)
	}
	if err := ch.Qos(1, 0, false); err != nil {
		ch.Close()
		return fmt.Errorf("set qos: %w", err)
	}

	msgs, err := ch.Consume(
		topic,
		"",
		false, // autoAck = false for reliability
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		ch.Close()
		return fmt.Errorf("register consumer: %w", err)
	}

	log := logger.WithComponent("amqp").WithField("topic", topic)
	go func() {
		for d := range msgs {
			q.handleDelivery(log, topic, d, handler, q.publish)
		}
		log.Info("consumer channel closed")
	}()
	return nil
}

// handleDelivery runs handler on d. A failed delivery is republished with
// its retry count bumped; if that republish fails the original is nacked
// back onto the queue instead of acked.
func (q *AMQPQueue) handleDelivery(log *logrus.Entry, topic string, d amqp.Delivery, handler func([]byte) error,
	republish func(topic string, body []byte, retries int) error) {
	if err := handler(d.Body); err != nil {
		retries := retryCount(d.Headers)
		if retries < q.MaxRetries {
			log.WithError(err).Warnf("delivery %s failed (attempt %d), requeueing", d.MessageId, retries+1)
			if perr := republish(topic, d.Body, retries+1); perr != nil {
				log.WithError(perr).Errorf("requeue %s failed, returning it to the queue", d.MessageId)
				_ = d.Nack(false, true)
				return
			}
		} else {
			log.WithError(err).Errorf("delivery %s permanently failed after %d attempts", d.MessageId, retries+1)
		}
	}
	_ = d.Ack(false)
}

// retryCount reads the retry header regardless of the integer width the
// broker decoded it as.
func retryCount(h amqp.Table) int {
	switch v := h[retryHeader].(type) {
	case int:
		return v
	case int16:
		return int(v)
	case int32:
		return int(v)
	case int64:
		return int(v)
	case uint8:
		return int(v)
	default:
		return 0
	}
}

// Close shuts down the channel and connection.
func (q *AMQPQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.pubCh != nil {
		q.pubCh.Close()
	}
	return q.conn.Close()
}

// NotifyClose reports when the broker connection drops.
func (q *AMQPQueue) NotifyClose() <-chan *amqp.Error {
	return q.conn.NotifyClose(make(chan *amqp.Error, 1))
}
