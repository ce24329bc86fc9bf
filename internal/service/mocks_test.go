package service

import (
	"context"

	"github.com/tfos262/ott-backend/internal/models"
	"github.com/tfos262/ott-backend/pkg/gateway"
	"gorm.io/gorm"
)

// --- Mock CustomerRepository ---

type mockCustomerRepo struct {
	createFn      func(ctx context.Context, c *models.Customer) error
	findByIDFn    func(ctx context.Context, id uint) (*models.Customer, error)
	findByEmailFn func(ctx context.Context, email string) (*models.Customer, error)
	findAllFn     func(ctx context.Context) ([]models.Customer, error)
	updateFn      func(ctx context.Context, c *models.Customer) error
	setAdminFn    func(ctx context.Context, id uint, admin bool) error
	deleteFn      func(ctx context.Context, id uint) error
}

func (m *mockCustomerRepo) Create(ctx context.Context, c *models.Customer) error {
	if m.createFn != nil {
		return m.createFn(ctx, c)
	}
	return nil
}
func (m *mockCustomerRepo) FindByID(ctx context.Context, id uint) (*models.Customer, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}
func (m *mockCustomerRepo) FindByEmail(ctx context.Context, email string) (*models.Customer, error) {
	if m.findByEmailFn != nil {
		return m.findByEmailFn(ctx, email)
	}
	return nil, gorm.ErrRecordNotFound
}
func (m *mockCustomerRepo) FindAll(ctx context.Context) ([]models.Customer, error) {
	if m.findAllFn != nil {
		return m.findAllFn(ctx)
	}
	return nil, nil
}
func (m *mockCustomerRepo) Update(ctx context.Context, c *models.Customer) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, c)
	}
	return nil
}
func (m *mockCustomerRepo) SetAdmin(ctx context.Context, id uint, admin bool) error {
	if m.setAdminFn != nil {
		return m.setAdminFn(ctx, id, admin)
	}
	return nil
}
func (m *mockCustomerRepo) Delete(ctx context.Context, id uint) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

// --- Mock PaymentRepository ---

type mockPaymentRepo struct {
	createFn          func(ctx context.Context, p *models.Payment) error
	findByGatewayIDFn func(ctx context.Context, id string) (*models.Payment, error)
	findAllFn         func(ctx context.Context) ([]models.Payment, error)
}

func (m *mockPaymentRepo) Create(ctx context.Context, p *models.Payment) error {
	if m.createFn != nil {
		return m.createFn(ctx, p)
	}
	return nil
}
func (m *mockPaymentRepo) FindByGatewayID(ctx context.Context, id string) (*models.Payment, error) {
	if m.findByGatewayIDFn != nil {
		return m.findByGatewayIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}
func (m *mockPaymentRepo) FindAll(ctx context.Context) ([]models.Payment, error) {
	if m.findAllFn != nil {
		return m.findAllFn(ctx)
	}
	return nil, nil
}
func (m *mockPaymentRepo) Upsert(ctx context.Context, p *models.Payment) error { return nil }

// --- Mock PaymentGateway ---

type mockGateway struct {
	createChargeFn func(ctx context.Context, req gateway.ChargeRequest) (*gateway.Charge, error)
	getChargeFn    func(ctx context.Context, id string) (*gateway.Charge, error)
}

func (m *mockGateway) CreateCharge(ctx context.Context, req gateway.ChargeRequest) (*gateway.Charge, error) {
	return m.createChargeFn(ctx, req)
}
func (m *mockGateway) GetCharge(ctx context.Context, id string) (*gateway.Charge, error) {
	return m.getChargeFn(ctx, id)
}

// --- Mock TokenIssuer ---

type mockIssuer struct {
	issued []models.Principal
}

func (m *mockIssuer) Issue(p models.Principal) (string, error) {
	m.issued = append(m.issued, p)
	return "signed-token", nil
}
