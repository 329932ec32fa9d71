// Package events publishes reservation events to RabbitMQ as persistent JSON
// messages on durable queues bound to the default exchange.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Channel подмножество *amqp.Channel, которое нужно публикатору
type Channel interface {
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// Dialer открывает канал к брокеру и возвращает функцию закрытия соединения
type Dialer func(url string) (Channel, func() error, error)

// Config конфигурация публикатора
type Config struct {
	URL            string
	PublishTimeout time.Duration
}

// Publisher публикатор событий бронирований.
// Соединение открывается лениво и переоткрывается после ошибки публикации.
type Publisher struct {
	cfg    Config
	dial   Dialer
	logger Logger
	now    func() time.Time

	mu        sync.Mutex
	ch        Channel
	closeConn func() error
	declared  map[string]bool
}

// NewPublisher создает публикатор поверх amqp091
func NewPublisher(cfg Config, logger Logger) *Publisher {
	return NewPublisherWithDialer(cfg, dialAMQP, logger)
}

// NewPublisherWithDialer создает публикатор с заданным способом подключения
func NewPublisherWithDialer(cfg Config, dial Dialer, logger Logger) *Publisher {
	if cfg.PublishTimeout <= 0 {
		cfg.PublishTimeout = 5 * time.Second
	}
	return &Publisher{
		cfg:      cfg,
		dial:     dial,
		logger:   logger,
		now:      time.Now,
		declared: make(map[string]bool),
	}
}

func dialAMQP(url string) (Channel, func() error, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, nil, err
	}
	return ch, conn.Close, nil
}

// PublishCreated публикует событие reservation.created
func (p *Publisher) PublishCreated(ctx context.Context, res *domain.Reservation) error {
	return p.publish(ctx, QueueReservationCreated, newCreatedEvent(res))
}

// PublishStatusChanged публикует событие reservation.status_changed
func (p *Publisher) PublishStatusChanged(ctx context.Context, res *domain.Reservation, from domain.ReservationStatus, actor domain.Actor) error {
	return p.publish(ctx, QueueReservationStatusChanged, newStatusChangedEvent(res, from, actor, p.now()))
}

func (p *Publisher) publish(ctx context.Context, queue string, event interface{}) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMarshal, err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	ch, err := p.channel()
	if err != nil {
		p.logger.Error("publish: %v", err)
		return err
	}

	if !p.declared[queue] {
		if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
			p.reset()
			p.logger.Error("publish: queue declare %s failed: %v", queue, err)
			return fmt.Errorf("%w: declare %s: %v", ErrPublish, queue, err)
		}
		p.declared[queue] = true
	}

	pubCtx, cancel := context.WithTimeout(ctx, p.cfg.PublishTimeout)
	defer cancel()

	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    p.now().UTC(),
		Body:         body,
	}

	if err := ch.PublishWithContext(pubCtx, "", queue, false, false, msg); err != nil {
		p.reset()
		p.logger.Error("publish: %s failed: %v", queue, err)
		return fmt.Errorf("%w: %s: %v", ErrPublish, queue, err)
	}

	return nil
}

// channel возвращает открытый канал (вызывается под p.mu)
func (p *Publisher) channel() (Channel, error) {
	if p.ch != nil {
		return p.ch, nil
	}

	ch, closeConn, err := p.dial(p.cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConnect, err)
	}

	p.ch = ch
	p.closeConn = closeConn
	p.declared = make(map[string]bool)
	p.logger.Info("events: connected to broker")

	return ch, nil
}

// reset закрывает текущее соединение (вызывается под p.mu)
func (p *Publisher) reset() {
	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.closeConn != nil {
		_ = p.closeConn()
	}
	p.ch = nil
	p.closeConn = nil
}

// Close закрывает соединение с брокером
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.reset()
	return nil
}
