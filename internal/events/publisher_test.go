package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/streadway/amqp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"medintake/internal/domain"
)

type fakeChannel struct {
	exchange string
	key      string
	msg      amqp.Publishing
	err      error
	closed   bool
}

func (c *fakeChannel) Publish(exchange, key string, _, _ bool, msg amqp.Publishing) error {
	c.exchange, c.key, c.msg = exchange, key, msg
	return c.err
}

func (c *fakeChannel) Close() error {
	c.closed = true
	return nil
}

func testSubmission() domain.Submission {
	return domain.Submission{
		ID:       "42",
		ImageURL: "https://cdn.example/pic.png",
		Record: domain.DoctorRecord{
			Name:           "Dr. A",
			Specialty:      "Cardiology",
			ProfilePicture: "https://cdn.example/pic.png",
		},
		SubmittedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}

func TestAMQPPublisher_PublishDoctorCreated(t *testing.T) {
	ch := &fakeChannel{}
	p := &AMQPPublisher{exchange: "doctor_events", logger: zap.NewNop(), ch: ch}

	require.NoError(t, p.PublishDoctorCreated(context.Background(), testSubmission()))

	assert.Equal(t, "doctor_events", ch.exchange)
	assert.Equal(t, RoutingKeyDoctorCreated, ch.key)
	assert.Equal(t, "application/json", ch.msg.ContentType)
	assert.Equal(t, "42", ch.msg.MessageId)

	var evt DoctorCreated
	require.NoError(t, json.Unmarshal(ch.msg.Body, &evt))
	assert.Equal(t, "Dr. A", evt.Name)
	assert.Equal(t, "https://cdn.example/pic.png", evt.ProfilePicture)

	require.NoError(t, p.Close())
	assert.True(t, ch.closed)
}

func TestAMQPPublisher_PublishError(t *testing.T) {
	cause := errors.New("channel closed")
	p := &AMQPPublisher{exchange: "doctor_events", logger: zap.NewNop(), ch: &fakeChannel{err: cause}}

	err := p.PublishDoctorCreated(context.Background(), testSubmission())
	assert.ErrorIs(t, err, cause)
}
