package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/tfos262/ott-backend/internal/models"
	"github.com/tfos262/ott-backend/internal/repository"
	"github.com/tfos262/ott-backend/pkg/gateway"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const PaymentRecordedKey = "payment.recorded"

type PaymentGateway interface {
	CreateCharge(ctx context.Context, req gateway.ChargeRequest) (*gateway.Charge, error)
	GetCharge(ctx context.Context, id string) (*gateway.Charge, error)
}

type ProcessPaymentInput struct {
	SourceToken string
	Amount      int64
	CustomerID  uint
}

type RecordPaymentInput struct {
	CustomerID       uint
	GatewayPaymentID string
	Amount           int64
	Currency         string
	Status           string
	Last4            string
}

type PaymentRecordedEvent struct {
	PaymentID        uint   `json:"payment_id"`
	GatewayPaymentID string `json:"gateway_payment_id"`
	CustomerID       uint   `json:"customer_id"`
	Amount           int64  `json:"amount"`
	Currency         string `json:"currency"`
	Status           string `json:"status"`
}

type PaymentService interface {
	ProcessPayment(ctx context.Context, in ProcessPaymentInput) (*gateway.Charge, error)
	VerifyPayment(ctx context.Context, gatewayPaymentID string) (*gateway.Charge, error)
	RecordPayment(ctx context.Context, in RecordPaymentInput) (*models.Payment, error)
	GetPayment(ctx context.Context, gatewayPaymentID string) (*models.Payment, error)
	ListPayments(ctx context.Context) ([]models.Payment, error)
}

type paymentService struct {
	repo      repository.PaymentRepository
	gw        PaymentGateway
	publisher EventPublisher
	currency  string
	logger    *zap.Logger
}

func NewPaymentService(repo repository.PaymentRepository, gw PaymentGateway, publisher EventPublisher, currency string, logger *zap.Logger) PaymentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if currency == "" {
		currency = "USD"
	}
	return &paymentService{
		repo:      repo,
		gw:        gw,
		publisher: publisher,
		currency:  strings.ToUpper(currency),
		logger:    logger,
	}
}

// ProcessPayment charges the source once. Every call gets a fresh
// idempotency key.
func (s *paymentService) ProcessPayment(ctx context.Context, in ProcessPaymentInput) (*gateway.Charge, error) {
	if in.Amount <= 0 {
		return nil, ErrInvalidAmount
	}

	req := gateway.ChargeRequest{
		SourceToken:    in.SourceToken,
		Amount:         in.Amount,
		Currency:       s.currency,
		IdempotencyKey: uuid.NewString(),
	}
	if in.CustomerID != 0 {
		req.Metadata = map[string]any{"customer_id": in.CustomerID}
	}

	ch, err := s.gw.CreateCharge(ctx, req)
	if err != nil {
		s.logger.Error("charge failed",
			zap.String("idempotency_key", req.IdempotencyKey),
			zap.Int64("amount", in.Amount),
			zap.Error(err),
		)
		return nil, fmt.Errorf("process payment: %w", err)
	}

	s.logger.Info("charge created",
		zap.String("charge_id", ch.ID),
		zap.String("status", ch.Status),
		zap.Int64("amount", ch.Amount),
	)
	return ch, nil
}

func (s *paymentService) VerifyPayment(ctx context.Context, gatewayPaymentID string) (*gateway.Charge, error) {
	ch, err := s.gw.GetCharge(ctx, gatewayPaymentID)
	if err != nil {
		return nil, fmt.Errorf("verify payment: %w", err)
	}
	return ch, nil
}

func (s *paymentService) RecordPayment(ctx context.Context, in RecordPaymentInput) (*models.Payment, error) {
	if in.Amount <= 0 {
		return nil, ErrInvalidAmount
	}
	currency := strings.ToUpper(in.Currency)
	if currency == "" {
		currency = s.currency
	}

	p := &models.Payment{
		CustomerID:       in.CustomerID,
		Amount:           in.Amount,
		Currency:         currency,
		GatewayPaymentID: in.GatewayPaymentID,
		Status:           in.Status,
		Last4:            in.Last4,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("record payment: %w", err)
	}

	s.logger.Info("payment recorded",
		zap.Uint("payment_id", p.ID),
		zap.String("gateway_payment_id", p.GatewayPaymentID),
		zap.Uint("customer_id", p.CustomerID),
	)

	if s.publisher != nil {
		ev := PaymentRecordedEvent{
			PaymentID:        p.ID,
			GatewayPaymentID: p.GatewayPaymentID,
			CustomerID:       p.CustomerID,
			Amount:           p.Amount,
			Currency:         p.Currency,
			Status:           p.Status,
		}
		if err := s.publisher.Publish(ctx, PaymentRecordedKey, ev); err != nil {
			s.logger.Error("failed to publish payment event", zap.Uint("payment_id", p.ID), zap.Error(err))
		}
	}
	return p, nil
}

func (s *paymentService) GetPayment(ctx context.Context, gatewayPaymentID string) (*models.Payment, error) {
	p, err := s.repo.FindByGatewayID(ctx, gatewayPaymentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPaymentNotFound
		}
		return nil, fmt.Errorf("find payment %s: %w", gatewayPaymentID, err)
	}
	return p, nil
}

func (s *paymentService) ListPayments(ctx context.Context) ([]models.Payment, error) {
	payments, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	return payments, nil
}
