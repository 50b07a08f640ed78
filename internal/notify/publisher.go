package notify

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Veraticus/safe-to-spend/internal/budget"
	"github.com/Veraticus/safe-to-spend/internal/common"
	"github.com/rabbitmq/amqp091-go"
)

const publishTimeout = 5 * time.Second

// Config describes the broker topology.
type Config struct {
	URL      string
	Exchange string
	Queue    string // Also used as the routing key
}

// Validate checks that every field is set.
func (c Config) Validate() error {
	if c.URL == "" || c.Exchange == "" || c.Queue == "" {
		return fmt.Errorf("%w: amqp url, exchange and queue are required", common.ErrMissingConfig)
	}
	return nil
}

// channel is the subset of *amqp091.Channel used for publishing.
type channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp091.Publishing) error
	Close() error
}

// Publisher sends alerts to a durable direct exchange.
type Publisher struct {
	conn     *amqp091.Connection
	ch       channel
	logger   *slog.Logger
	now      func() time.Time
	exchange string
	key      string
}

// NewPublisher dials the broker and declares the exchange, queue and binding.
func NewPublisher(cfg Config, logger *slog.Logger) (*Publisher, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	conn, err := amqp091.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("%w: dial AMQP: %w", common.ErrPublishFailed, err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("%w: open channel: %w", common.ErrPublishFailed, err)
	}

	if err := declare(ch, cfg); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("%w: %w", common.ErrPublishFailed, err)
	}

	p := newPublisher(ch, cfg, logger)
	p.conn = conn
	return p, nil
}

func newPublisher(ch channel, cfg Config, logger *slog.Logger) *Publisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Publisher{
		ch:       ch,
		logger:   logger.With("component", "notify"),
		now:      time.Now,
		exchange: cfg.Exchange,
		key:      cfg.Queue,
	}
}

func declare(ch *amqp091.Channel, cfg Config) error {
	if err := ch.ExchangeDeclare(cfg.Exchange, "direct", true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare exchange: %w", err)
	}
	if _, err := ch.QueueDeclare(cfg.Queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare queue: %w", err)
	}
	if err := ch.QueueBind(cfg.Queue, cfg.Queue, cfg.Exchange, false, nil); err != nil {
		return fmt.Errorf("bind queue: %w", err)
	}
	return nil
}

// Publish sends one persistent alert message.
func (p *Publisher) Publish(ctx context.Context, alert OverBudgetAlert) error {
	body, err := alert.ToJSON()
	if err != nil {
		return fmt.Errorf("%w: marshal alert: %w", common.ErrPublishFailed, err)
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	err = p.ch.PublishWithContext(ctx, p.exchange, p.key, false, false, amqp091.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp091.Persistent,
		Timestamp:    alert.PublishedAt,
		MessageId:    alert.MessageID(),
		Type:         alert.Type,
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("%w: %w", common.ErrPublishFailed, err)
	}

	p.logger.InfoContext(ctx, "Published over-budget alert",
		"user", alert.UserID,
		"week", alert.WeekLabel,
		"category", alert.Category,
		"exchange", p.exchange)
	return nil
}

// PublishOverBudget publishes one alert per row and returns how many were
// sent. It stops at the first failure.
func (p *Publisher) PublishOverBudget(ctx context.Context, userID string, rows []budget.OverBudgetRow, message string) (int, error) {
	now := p.now()
	for i, row := range rows {
		if err := p.Publish(ctx, NewOverBudgetAlert(userID, row, message, now)); err != nil {
			return i, err
		}
	}
	return len(rows), nil
}

// Close closes the channel and connection.
func (p *Publisher) Close() error {
	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}
