package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/pkg/logger"
	"github.com/m04kA/SMC-ReservationService/pkg/types"
)

type published struct {
	key string
	msg amqp.Publishing
}

type fakeChannel struct {
	declared   []string
	published  []published
	publishErr error
	closed     bool
}

func (c *fakeChannel) QueueDeclare(name string, durable, _, _, _ bool, _ amqp.Table) (amqp.Queue, error) {
	if !durable {
		return amqp.Queue{}, errors.New("queue must be durable")
	}
	c.declared = append(c.declared, name)
	return amqp.Queue{Name: name}, nil
}

func (c *fakeChannel) PublishWithContext(_ context.Context, exchange, key string, _, _ bool, msg amqp.Publishing) error {
	if c.publishErr != nil {
		return c.publishErr
	}
	if exchange != "" {
		return errors.New("default exchange expected")
	}
	c.published = append(c.published, published{key: key, msg: msg})
	return nil
}

func (c *fakeChannel) Close() error {
	c.closed = true
	return nil
}

func sampleReservation() *domain.Reservation {
	deposit := 40.0
	return &domain.Reservation{
		ID:            12,
		CustomerID:    7,
		TableID:       3,
		Date:          time.Date(2030, 6, 1, 0, 0, 0, 0, time.UTC),
		Time:          types.MustTimeString("19:00"),
		GuestCount:    2,
		Status:        domain.StatusPending,
		DepositAmount: &deposit,
	}
}

func TestPublisher_PublishCreated(t *testing.T) {
	ch := &fakeChannel{}
	dials := 0
	p := NewPublisherWithDialer(Config{URL: "amqp://test"}, func(string) (Channel, func() error, error) {
		dials++
		return ch, func() error { return nil }, nil
	}, logger.NewNop())

	require.NoError(t, p.PublishCreated(context.Background(), sampleReservation()))
	require.NoError(t, p.PublishCreated(context.Background(), sampleReservation()))

	assert.Equal(t, 1, dials)
	assert.Equal(t, []string{QueueReservationCreated}, ch.declared)
	require.Len(t, ch.published, 2)

	msg := ch.published[0].msg
	assert.Equal(t, QueueReservationCreated, ch.published[0].key)
	assert.Equal(t, "application/json", msg.ContentType)
	assert.Equal(t, amqp.Persistent, msg.DeliveryMode)

	var ev ReservationCreatedEvent
	require.NoError(t, json.Unmarshal(msg.Body, &ev))
	assert.Equal(t, int64(12), ev.ReservationID)
	assert.Equal(t, "2030-06-01", ev.Date)
	assert.Equal(t, "19:00", ev.Time)
	require.NotNil(t, ev.DepositAmount)
	assert.Equal(t, 40.0, *ev.DepositAmount)
}

func TestPublisher_PublishStatusChanged(t *testing.T) {
	ch := &fakeChannel{}
	p := NewPublisherWithDialer(Config{}, func(string) (Channel, func() error, error) {
		return ch, nil, nil
	}, logger.NewNop())

	res := sampleReservation()
	res.Status = domain.StatusCancelled
	actor := domain.Actor{UserID: 7, Role: domain.RoleCustomer}

	require.NoError(t, p.PublishStatusChanged(context.Background(), res, domain.StatusPending, actor))
	require.Len(t, ch.published, 1)

	var ev StatusChangedEvent
	require.NoError(t, json.Unmarshal(ch.published[0].msg.Body, &ev))
	assert.Equal(t, "pending", ev.From)
	assert.Equal(t, "cancelled", ev.To)
	assert.Equal(t, "customer", ev.ActorRole)
}

func TestPublisher_ReconnectsAfterFailure(t *testing.T) {
	broken := &fakeChannel{publishErr: errors.New("channel closed")}
	healthy := &fakeChannel{}
	channels := []*fakeChannel{broken, healthy}

	p := NewPublisherWithDialer(Config{}, func(string) (Channel, func() error, error) {
		ch := channels[0]
		channels = channels[1:]
		return ch, nil, nil
	}, logger.NewNop())

	err := p.PublishCreated(context.Background(), sampleReservation())
	assert.ErrorIs(t, err, ErrPublish)
	assert.True(t, broken.closed)

	require.NoError(t, p.PublishCreated(context.Background(), sampleReservation()))
	assert.Len(t, healthy.published, 1)
	assert.Equal(t, []string{QueueReservationCreated}, healthy.declared)
}

func TestPublisher_DialFailure(t *testing.T) {
	p := NewPublisherWithDialer(Config{}, func(string) (Channel, func() error, error) {
		return nil, nil, errors.New("connection refused")
	}, logger.NewNop())

	err := p.PublishCreated(context.Background(), sampleReservation())
	assert.ErrorIs(t, err, ErrConnect)
}

func TestNoop(t *testing.T) {
	n := NewNoop()
	assert.NoError(t, n.PublishCreated(context.Background(), sampleReservation()))
	assert.NoError(t, n.PublishStatusChanged(context.Background(), sampleReservation(), domain.StatusPending, domain.Actor{}))
	assert.NoError(t, n.Close())
}
