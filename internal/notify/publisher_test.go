package notify

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Veraticus/safe-to-spend/internal/budget"
	"github.com/Veraticus/safe-to-spend/internal/common"
	"github.com/rabbitmq/amqp091-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type publishedMessage struct {
	exchange string
	key      string
	msg      amqp091.Publishing
}

type fakeChannel struct {
	err       error
	failAfter int
	published []publishedMessage
	closed    bool
}

func (f *fakeChannel) PublishWithContext(ctx context.Context, exchange, key string, _, _ bool, msg amqp091.Publishing) error {
	if _, ok := ctx.Deadline(); !ok {
		return errors.New("publish without deadline")
	}
	if f.err != nil && len(f.published) >= f.failAfter {
		return f.err
	}
	f.published = append(f.published, publishedMessage{exchange: exchange, key: key, msg: msg})
	return nil
}

func (f *fakeChannel) Close() error {
	f.closed = true
	return nil
}

var fixedNow = time.Date(2024, 3, 17, 9, 0, 0, 0, time.UTC)

func rows() []budget.OverBudgetRow {
	start := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	return []budget.OverBudgetRow{
		{
			WeekStart:  start,
			WeekEnd:    start.AddDate(0, 0, 6),
			WeekLabel:  "Mar 10 - Mar 16, 2024",
			Category:   "Coffee",
			Spent:      decimal.RequireFromString("10"),
			OverBudget: decimal.RequireFromString("10"),
		},
		{
			WeekStart:  start,
			WeekEnd:    start.AddDate(0, 0, 6),
			WeekLabel:  "Mar 10 - Mar 16, 2024",
			Category:   "Groceries",
			Available:  decimal.RequireFromString("150"),
			Spent:      decimal.RequireFromString("180.5"),
			OverBudget: decimal.RequireFromString("30.5"),
		},
	}
}

func newTestPublisher(ch *fakeChannel) *Publisher {
	p := newPublisher(ch, Config{URL: "amqp://test", Exchange: "budget", Queue: "alerts"}, nil)
	p.now = func() time.Time { return fixedNow }
	return p
}

func TestPublishOverBudget(t *testing.T) {
	ch := &fakeChannel{}
	p := newTestPublisher(ch)

	n, err := p.PublishOverBudget(context.Background(), "alice", rows(), "Slow down on coffee.")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	require.Len(t, ch.published, 2)

	first := ch.published[0]
	assert.Equal(t, "budget", first.exchange)
	assert.Equal(t, "alerts", first.key)
	assert.Equal(t, "application/json", first.msg.ContentType)
	assert.Equal(t, amqp091.Persistent, first.msg.DeliveryMode)
	assert.Equal(t, "alice:2024-03-10:Coffee", first.msg.MessageId)
	assert.Equal(t, MessageType, first.msg.Type)
	assert.Equal(t, fixedNow, first.msg.Timestamp)

	alert, err := AlertFromJSON(ch.published[1].msg.Body)
	require.NoError(t, err)
	assert.Equal(t, "Groceries", alert.Category)
	assert.Equal(t, "alice", alert.UserID)
	assert.Equal(t, "Slow down on coffee.", alert.Message)
	assert.True(t, alert.OverBudget.Equal(decimal.RequireFromString("30.5")))
	assert.True(t, alert.WeekStart.Equal(time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)))
}

func TestPublishOverBudget_StopsOnFailure(t *testing.T) {
	ch := &fakeChannel{err: errors.New("channel closed"), failAfter: 1}
	p := newTestPublisher(ch)

	n, err := p.PublishOverBudget(context.Background(), "alice", rows(), "")
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrPublishFailed)
	assert.Equal(t, 1, n)
}

func TestPublishOverBudget_NoRows(t *testing.T) {
	ch := &fakeChannel{}
	n, err := newTestPublisher(ch).PublishOverBudget(context.Background(), "alice", nil, "")
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Empty(t, ch.published)
}

func TestConfig_Validate(t *testing.T) {
	assert.NoError(t, Config{URL: "amqp://x", Exchange: "e", Queue: "q"}.Validate())
	assert.ErrorIs(t, Config{URL: "amqp://x"}.Validate(), common.ErrMissingConfig)

	_, err := NewPublisher(Config{}, nil)
	assert.ErrorIs(t, err, common.ErrMissingConfig)
}

func TestAlertFromJSON_Invalid(t *testing.T) {
	_, err := AlertFromJSON([]byte("{"))
	assert.Error(t, err)
}

func TestPublisher_Close(t *testing.T) {
	ch := &fakeChannel{}
	require.NoError(t, newTestPublisher(ch).Close())
	assert.True(t, ch.closed)
}
