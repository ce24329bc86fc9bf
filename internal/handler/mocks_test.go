package handler

import (
	"context"

	"github.com/tfos262/ott-backend/internal/models"
	"github.com/tfos262/ott-backend/internal/service"
	"github.com/tfos262/ott-backend/pkg/gateway"
)

// --- Mock TeeTimeLedger ---

type mockLedger struct {
	availableFn func(ctx context.Context, date string) ([]service.AvailableSlot, error)
	reservedFn  func(ctx context.Context, date string) ([]service.ReservedSlot, error)
	createFn    func(ctx context.Context, in service.CreateReservationInput) (uint, error)
	listAllFn   func(ctx context.Context) ([]models.Reservation, error)
	listByDayFn func(ctx context.Context, date string) ([]models.Reservation, error)
}

func (m *mockLedger) Slots() []string { return service.BuildSlotCatalog() }
func (m *mockLedger) BookedMapByDate(ctx context.Context, date string) (map[string]int, error) {
	return map[string]int{}, nil
}
func (m *mockLedger) AvailableTeeTimes(ctx context.Context, date string) ([]service.AvailableSlot, error) {
	return m.availableFn(ctx, date)
}
func (m *mockLedger) ReservedTeeTimes(ctx context.Context, date string) ([]service.ReservedSlot, error) {
	return m.reservedFn(ctx, date)
}
func (m *mockLedger) CreateReservation(ctx context.Context, in service.CreateReservationInput) (uint, error) {
	return m.createFn(ctx, in)
}
func (m *mockLedger) ListAll(ctx context.Context) ([]models.Reservation, error) {
	return m.listAllFn(ctx)
}
func (m *mockLedger) ListByDate(ctx context.Context, date string) ([]models.Reservation, error) {
	return m.listByDayFn(ctx, date)
}

// --- Mock AuthService ---

type mockAuthService struct {
	loginFn func(ctx context.Context, email, password string) (*service.LoginResult, error)
	meFn    func(ctx context.Context, id uint) (*models.Customer, error)
}

func (m *mockAuthService) Login(ctx context.Context, email, password string) (*service.LoginResult, error) {
	return m.loginFn(ctx, email, password)
}
func (m *mockAuthService) Me(ctx context.Context, id uint) (*models.Customer, error) {
	return m.meFn(ctx, id)
}

// --- Mock CustomerService ---

type mockCustomerService struct {
	registerFn   func(ctx context.Context, in service.RegisterInput) (uint, error)
	getByIDFn    func(ctx context.Context, id uint) (*models.Customer, error)
	getByEmailFn func(ctx context.Context, email string) (*models.Customer, error)
	listFn       func(ctx context.Context) ([]models.Customer, error)
	reportFn     func(ctx context.Context, caller models.Principal) ([]models.Customer, error)
	updateFn     func(ctx context.Context, caller models.Principal, in service.UpdateCustomerInput) (*models.Customer, error)
	promoteFn    func(ctx context.Context, caller models.Principal, id uint) error
	deleteFn     func(ctx context.Context, caller models.Principal, id uint) error
}

func (m *mockCustomerService) Register(ctx context.Context, in service.RegisterInput) (uint, error) {
	return m.registerFn(ctx, in)
}
func (m *mockCustomerService) GetByID(ctx context.Context, id uint) (*models.Customer, error) {
	return m.getByIDFn(ctx, id)
}
func (m *mockCustomerService) GetByEmail(ctx context.Context, email string) (*models.Customer, error) {
	return m.getByEmailFn(ctx, email)
}
func (m *mockCustomerService) List(ctx context.Context) ([]models.Customer, error) {
	return m.listFn(ctx)
}
func (m *mockCustomerService) Report(ctx context.Context, caller models.Principal) ([]models.Customer, error) {
	return m.reportFn(ctx, caller)
}
func (m *mockCustomerService) Update(ctx context.Context, caller models.Principal, in service.UpdateCustomerInput) (*models.Customer, error) {
	return m.updateFn(ctx, caller, in)
}
func (m *mockCustomerService) PromoteToAdmin(ctx context.Context, caller models.Principal, id uint) error {
	return m.promoteFn(ctx, caller, id)
}
func (m *mockCustomerService) Delete(ctx context.Context, caller models.Principal, id uint) error {
	return m.deleteFn(ctx, caller, id)
}

// --- Mock PaymentService ---

type mockPaymentService struct {
	processFn func(ctx context.Context, in service.ProcessPaymentInput) (*gateway.Charge, error)
	verifyFn  func(ctx context.Context, id string) (*gateway.Charge, error)
	recordFn  func(ctx context.Context, in service.RecordPaymentInput) (*models.Payment, error)
	getFn     func(ctx context.Context, id string) (*models.Payment, error)
	listFn    func(ctx context.Context) ([]models.Payment, error)
}

func (m *mockPaymentService) ProcessPayment(ctx context.Context, in service.ProcessPaymentInput) (*gateway.Charge, error) {
	return m.processFn(ctx, in)
}
func (m *mockPaymentService) VerifyPayment(ctx context.Context, id string) (*gateway.Charge, error) {
	return m.verifyFn(ctx, id)
}
func (m *mockPaymentService) RecordPayment(ctx context.Context, in service.RecordPaymentInput) (*models.Payment, error) {
	return m.recordFn(ctx, in)
}
func (m *mockPaymentService) GetPayment(ctx context.Context, id string) (*models.Payment, error) {
	return m.getFn(ctx, id)
}
func (m *mockPaymentService) ListPayments(ctx context.Context) ([]models.Payment, error) {
	return m.listFn(ctx)
}
