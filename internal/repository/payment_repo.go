package repository

import (
	"context"

	"github.com/tfos262/ott-backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PaymentRepository interface {
	Create(ctx context.Context, p *models.Payment) error
	FindByGatewayID(ctx context.Context, gatewayID string) (*models.Payment, error)
	FindAll(ctx context.Context) ([]models.Payment, error)
	Upsert(ctx context.Context, p *models.Payment) error
}

type paymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

func (r *paymentRepository) Create(ctx context.Context, p *models.Payment) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *paymentRepository) FindByGatewayID(ctx context.Context, gatewayID string) (*models.Payment, error) {
	var p models.Payment
	if err := r.db.WithContext(ctx).Where("gateway_payment_id = ?", gatewayID).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *paymentRepository) FindAll(ctx context.Context) ([]models.Payment, error) {
	var payments []models.Payment
	if err := r.db.WithContext(ctx).Order("created_at DESC, id DESC").Find(&payments).Error; err != nil {
		return nil, err
	}
	return payments, nil
}

// Upsert inserts the payment or refreshes status and card digits of an
// existing row with the same gateway id.
func (r *paymentRepository) Upsert(ctx context.Context, p *models.Payment) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "gateway_payment_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"status", "last4", "amount", "currency"}),
		}).
		Create(p).Error
}
