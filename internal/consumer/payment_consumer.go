package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/tfos262/ott-backend/internal/models"
	"go.uber.org/zap"
)

const handleTimeout = 10 * time.Second

// PaymentSettledMessage is a charge the gateway relay reports as settled.
type PaymentSettledMessage struct {
	CustomerID       uint   `json:"customer_id"`
	GatewayPaymentID string `json:"gateway_payment_id"`
	Amount           int64  `json:"amount"`
	Currency         string `json:"currency"`
	Status           string `json:"status"`
	Last4            string `json:"last4"`
}

type PaymentStore interface {
	Upsert(ctx context.Context, p *models.Payment) error
}

type PaymentConsumer struct {
	store  PaymentStore
	logger *zap.Logger
}

func NewPaymentConsumer(store PaymentStore, logger *zap.Logger) *PaymentConsumer {
	return &PaymentConsumer{store: store, logger: logger}
}

// Start processes deliveries until msgs is closed. done is closed afterwards.
func (pc *PaymentConsumer) Start(msgs <-chan amqp.Delivery) (done <-chan struct{}) {
	finished := make(chan struct{})
	go func() {
		defer close(finished)
		for msg := range msgs {
			pc.handleMessage(msg)
		}
		pc.logger.Info("payment consumer channel closed")
	}()
	return finished
}

func (pc *PaymentConsumer) handleMessage(msg amqp.Delivery) {
	var m PaymentSettledMessage
	if err := json.Unmarshal(msg.Body, &m); err != nil {
		pc.logger.Warn("dropping malformed payment message", zap.Error(err))
		_ = msg.Nack(false, false)
		return
	}
	if m.GatewayPaymentID == "" || m.CustomerID == 0 {
		pc.logger.Warn("dropping payment message without ids",
			zap.String("gateway_payment_id", m.GatewayPaymentID),
			zap.Uint("customer_id", m.CustomerID),
		)
		_ = msg.Nack(false, false)
		return
	}

	p := &models.Payment{
		CustomerID:       m.CustomerID,
		Amount:           m.Amount,
		Currency:         strings.ToUpper(m.Currency),
		GatewayPaymentID: m.GatewayPaymentID,
		Status:           m.Status,
		Last4:            m.Last4,
	}
	if p.Currency == "" {
		p.Currency = "USD"
	}

	ctx, cancel := context.WithTimeout(context.Background(), handleTimeout)
	defer cancel()

	if err := pc.store.Upsert(ctx, p); err != nil {
		if isConstraintViolation(err) {
			pc.logger.Warn("dropping payment rejected by constraint",
				zap.String("gateway_payment_id", m.GatewayPaymentID),
				zap.Uint("customer_id", m.CustomerID),
				zap.Error(err),
			)
			_ = msg.Nack(false, false)
			return
		}
		pc.logger.Error("failed to upsert payment",
			zap.String("gateway_payment_id", m.GatewayPaymentID),
			zap.Error(err),
		)
		_ = msg.Nack(false, true)
		return
	}

	pc.logger.Info("payment settled",
		zap.String("gateway_payment_id", m.GatewayPaymentID),
		zap.String("status", m.Status),
	)
	_ = msg.Ack(false)
}

// isConstraintViolation reports postgres integrity errors (SQLSTATE class 23).
// Redelivering such a message fails the same way every time.
func isConstraintViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && strings.HasPrefix(pgErr.Code, "23")
}
