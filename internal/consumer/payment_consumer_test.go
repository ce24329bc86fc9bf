package consumer

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tfos262/ott-backend/internal/models"
	"go.uber.org/zap"
)

type fakeAcknowledger struct {
	acked   int
	nacked  int
	requeue bool
}

func (f *fakeAcknowledger) Ack(tag uint64, multiple bool) error {
	f.acked++
	return nil
}

func (f *fakeAcknowledger) Nack(tag uint64, multiple, requeue bool) error {
	f.nacked++
	f.requeue = requeue
	return nil
}

func (f *fakeAcknowledger) Reject(tag uint64, requeue bool) error {
	return f.Nack(tag, false, requeue)
}

type fakeStore struct {
	upserted []*models.Payment
	err      error
}

func (f *fakeStore) Upsert(ctx context.Context, p *models.Payment) error {
	if f.err != nil {
		return f.err
	}
	f.upserted = append(f.upserted, p)
	return nil
}

func delivery(ack amqp.Acknowledger, body string) amqp.Delivery {
	return amqp.Delivery{Acknowledger: ack, DeliveryTag: 1, Body: []byte(body)}
}

func TestHandleMessage_Upserts(t *testing.T) {
	store := &fakeStore{}
	ack := &fakeAcknowledger{}
	pc := NewPaymentConsumer(store, zap.NewNop())

	pc.handleMessage(delivery(ack, `{"customer_id":3,"gateway_payment_id":"chrg_1","amount":1000,"currency":"thb","status":"successful","last4":"4242"}`))

	assert.Equal(t, 1, ack.acked)
	assert.Zero(t, ack.nacked)
	require.Len(t, store.upserted, 1)
	assert.Equal(t, "THB", store.upserted[0].Currency)
	assert.Equal(t, "chrg_1", store.upserted[0].GatewayPaymentID)
}

func TestHandleMessage_MalformedDropped(t *testing.T) {
	store := &fakeStore{}
	ack := &fakeAcknowledger{}

	NewPaymentConsumer(store, zap.NewNop()).handleMessage(delivery(ack, `{not json`))

	assert.Equal(t, 1, ack.nacked)
	assert.False(t, ack.requeue)
	assert.Empty(t, store.upserted)
}

func TestHandleMessage_MissingIDsDropped(t *testing.T) {
	ack := &fakeAcknowledger{}

	NewPaymentConsumer(&fakeStore{}, zap.NewNop()).handleMessage(delivery(ack, `{"amount":1000}`))

	assert.Equal(t, 1, ack.nacked)
	assert.False(t, ack.requeue)
}

func TestHandleMessage_StoreFailureRequeued(t *testing.T) {
	ack := &fakeAcknowledger{}

	NewPaymentConsumer(&fakeStore{err: errors.New("db down")}, zap.NewNop()).
		handleMessage(delivery(ack, `{"customer_id":3,"gateway_payment_id":"chrg_1","amount":1000}`))

	assert.Equal(t, 1, ack.nacked)
	assert.True(t, ack.requeue)
	assert.Zero(t, ack.acked)
}

func TestHandleMessage_ConstraintViolationDropped(t *testing.T) {
	ack := &fakeAcknowledger{}
	fkErr := &pgconn.PgError{Code: "23503", ConstraintName: "fk_payments_customer"}

	NewPaymentConsumer(&fakeStore{err: fmt.Errorf("upsert payment: %w", fkErr)}, zap.NewNop()).
		handleMessage(delivery(ack, `{"customer_id":999,"gateway_payment_id":"chrg_1","amount":1000}`))

	assert.Equal(t, 1, ack.nacked)
	assert.False(t, ack.requeue)
	assert.Zero(t, ack.acked)
}

func TestHandleMessage_TransientPgErrorRequeued(t *testing.T) {
	ack := &fakeAcknowledger{}

	NewPaymentConsumer(&fakeStore{err: &pgconn.PgError{Code: "40001"}}, zap.NewNop()).
		handleMessage(delivery(ack, `{"customer_id":3,"gateway_payment_id":"chrg_1","amount":1000}`))

	assert.True(t, ack.requeue)
}

func TestStart_StopsWhenChannelCloses(t *testing.T) {
	store := &fakeStore{}
	ack := &fakeAcknowledger{}
	msgs := make(chan amqp.Delivery, 2)
	msgs <- delivery(ack, `{"customer_id":3,"gateway_payment_id":"chrg_1","amount":1000}`)
	msgs <- delivery(ack, `{"customer_id":3,"gateway_payment_id":"chrg_2","amount":500}`)
	close(msgs)

	<-NewPaymentConsumer(store, zap.NewNop()).Start(msgs)

	assert.Equal(t, 2, ack.acked)
	assert.Len(t, store.upserted, 2)
}
