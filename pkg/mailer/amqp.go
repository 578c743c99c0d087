package mailer

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// AMQPSender publishes mail jobs as persistent JSON messages to a durable
// queue. Delivery is left to whatever worker consumes the queue.
type AMQPSender struct {
	mu    sync.Mutex
	conn  *amqp.Connection
	url   string
	queue string
	from  string
}

// mailJob is the queue payload.
type mailJob struct {
	From string `json:"from"`
	Message
}

func NewAMQPSender(url, queue, from string) (*AMQPSender, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("amqp dial: %w", err)
	}
	return &AMQPSender{conn: conn, url: url, queue: queue, from: from}, nil
}

func (s *AMQPSender) Send(ctx context.Context, msg Message) error {
	ch, err := s.channel()
	if err != nil {
		return err
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(s.queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("amqp queue declare: %w", err)
	}

	body, err := encodeJob(s.from, msg)
	if err != nil {
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", s.queue, false, false, pub); err != nil {
		return fmt.Errorf("amqp publish: %w", err)
	}
	return nil
}

// channel opens a channel, redialing once if the broker dropped the connection.
func (s *AMQPSender) channel() (*amqp.Channel, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.conn == nil || s.conn.IsClosed() {
		conn, err := amqp.Dial(s.url)
		if err != nil {
			return nil, fmt.Errorf("amqp redial: %w", err)
		}
		s.conn = conn
	}

	ch, err := s.conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("amqp channel: %w", err)
	}
	return ch, nil
}

func (s *AMQPSender) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn == nil || s.conn.IsClosed() {
		return nil
	}
	return s.conn.Close()
}

func encodeJob(from string, msg Message) ([]byte, error) {
	body, err := json.Marshal(mailJob{From: from, Message: msg})
	if err != nil {
		return nil, fmt.Errorf("encode mail job: %w", err)
	}
	return body, nil
}
