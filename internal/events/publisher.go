package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/streadway/amqp"
	"go.uber.org/zap"

	"medintake/config"
	"medintake/internal/domain"
)

const RoutingKeyDoctorCreated = "doctor.created"

type DoctorCreated struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Specialty      string    `json:"specialty"`
	ProfilePicture string    `json:"profilePicture"`
	CreatedAt      time.Time `json:"createdAt"`
}

func NewDoctorCreated(sub domain.Submission) DoctorCreated {
	return DoctorCreated{
		ID:             sub.ID,
		Name:           sub.Record.Name,
		Specialty:      sub.Record.Specialty,
		ProfilePicture: sub.ImageURL,
		CreatedAt:      sub.SubmittedAt,
	}
}

type Publisher interface {
	PublishDoctorCreated(ctx context.Context, sub domain.Submission) error
	Close() error
}

type NopPublisher struct{}

func (NopPublisher) PublishDoctorCreated(context.Context, domain.Submission) error { return nil }

func (NopPublisher) Close() error { return nil }

// channel is the subset of *amqp.Channel used for publishing.
type channel interface {
	Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

type AMQPPublisher struct {
	conn     *amqp.Connection
	exchange string
	logger   *zap.Logger

	mu sync.Mutex
	ch channel
}

// NewAMQPPublisher dials the broker and declares a durable topic exchange.
func NewAMQPPublisher(cfg config.AMQPConfig, logger *zap.Logger) (*AMQPPublisher, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("dial amqp: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open amqp channel: %w", err)
	}

	err = ch.ExchangeDeclare(
		cfg.Exchange,
		"topic",
		true,  // durable
		false, // auto-deleted
		false, // internal
		false, // no-wait
		nil,
	)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("declare exchange %s: %w", cfg.Exchange, err)
	}

	return &AMQPPublisher{
		conn:     conn,
		exchange: cfg.Exchange,
		logger:   logger,
		ch:       ch,
	}, nil
}

func (p *AMQPPublisher) PublishDoctorCreated(_ context.Context, sub domain.Submission) error {
	body, err := json.Marshal(NewDoctorCreated(sub))
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	// amqp.Channel is not safe for concurrent publishes.
	p.mu.Lock()
	defer p.mu.Unlock()

	err = p.ch.Publish(
		p.exchange,
		RoutingKeyDoctorCreated,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    sub.SubmittedAt,
			MessageId:    sub.ID,
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("publish %s: %w", RoutingKeyDoctorCreated, err)
	}

	p.logger.Debug("event published", zap.String("routing_key", RoutingKeyDoctorCreated), zap.String("id", sub.ID))
	return nil
}

func (p *AMQPPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}
