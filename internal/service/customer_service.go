package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/tfos262/ott-backend/internal/models"
	"github.com/tfos262/ott-backend/internal/repository"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// UpdateCustomerInput replaces the non-empty fields. An empty Password keeps
// the current hash.
type UpdateCustomerInput struct {
	CustomerID uint
	Email      string
	Password   string
	FirstName  string
	LastName   string
}

type CustomerService interface {
	Register(ctx context.Context, in RegisterInput) (uint, error)
	GetByID(ctx context.Context, id uint) (*models.Customer, error)
	GetByEmail(ctx context.Context, email string) (*models.Customer, error)
	List(ctx context.Context) ([]models.Customer, error)
	Report(ctx context.Context, caller models.Principal) ([]models.Customer, error)
	Update(ctx context.Context, caller models.Principal, in UpdateCustomerInput) (*models.Customer, error)
	PromoteToAdmin(ctx context.Context, caller models.Principal, id uint) error
	Delete(ctx context.Context, caller models.Principal, id uint) error
}

type customerService struct {
	repo     repository.CustomerRepository
	logger   *zap.Logger
	hashCost int
}

func NewCustomerService(repo repository.CustomerRepository, logger *zap.Logger) CustomerService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &customerService{repo: repo, logger: logger, hashCost: bcrypt.DefaultCost}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *customerService) hash(password string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(password), s.hashCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(h), nil
}

func (s *customerService) Register(ctx context.Context, in RegisterInput) (uint, error) {
	email := normalizeEmail(in.Email)

	_, err := s.repo.FindByEmail(ctx, email)
	if err == nil {
		return 0, ErrEmailTaken
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, fmt.Errorf("lookup email: %w", err)
	}

	hashed, err := s.hash(in.Password)
	if err != nil {
		return 0, err
	}

	c := &models.Customer{
		Email:     email,
		Password:  hashed,
		FirstName: in.FirstName,
		LastName:  in.LastName,
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return 0, fmt.Errorf("create customer: %w", err)
	}

	s.logger.Info("customer registered", zap.Uint("customer_id", c.ID), zap.String("email", c.Email))
	return c.ID, nil
}

func (s *customerService) GetByID(ctx context.Context, id uint) (*models.Customer, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCustomerNotFound
		}
		return nil, fmt.Errorf("find customer %d: %w", id, err)
	}
	return c, nil
}

func (s *customerService) GetByEmail(ctx context.Context, email string) (*models.Customer, error) {
	c, err := s.repo.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCustomerNotFound
		}
		return nil, fmt.Errorf("find customer by email: %w", err)
	}
	return c, nil
}

func (s *customerService) List(ctx context.Context) ([]models.Customer, error) {
	customers, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	return customers, nil
}

func (s *customerService) Report(ctx context.Context, caller models.Principal) ([]models.Customer, error) {
	if !caller.Can(models.PermissionReport) {
		return nil, ErrForbidden
	}
	return s.List(ctx)
}

func (s *customerService) Update(ctx context.Context, caller models.Principal, in UpdateCustomerInput) (*models.Customer, error) {
	if caller.CustomerID != in.CustomerID && !caller.IsAdmin() {
		return nil, ErrForbidden
	}

	c, err := s.GetByID(ctx, in.CustomerID)
	if err != nil {
		return nil, err
	}

	if in.Email != "" {
		email := normalizeEmail(in.Email)
		if email != c.Email {
			other, err := s.repo.FindByEmail(ctx, email)
			switch {
			case err == nil && other.ID != c.ID:
				return nil, ErrEmailTaken
			case err != nil && !errors.Is(err, gorm.ErrRecordNotFound):
				return nil, fmt.Errorf("lookup email: %w", err)
			}
			c.Email = email
		}
	}
	if in.FirstName != "" {
		c.FirstName = in.FirstName
	}
	if in.LastName != "" {
		c.LastName = in.LastName
	}
	if in.Password != "" {
		hashed, err := s.hash(in.Password)
		if err != nil {
			return nil, err
		}
		c.Password = hashed
	}

	if err := s.repo.Update(ctx, c); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCustomerNotFound
		}
		return nil, fmt.Errorf("update customer %d: %w", c.ID, err)
	}
	return c, nil
}

func (s *customerService) PromoteToAdmin(ctx context.Context, caller models.Principal, id uint) error {
	if !caller.IsAdmin() {
		return ErrForbidden
	}
	if err := s.repo.SetAdmin(ctx, id, true); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCustomerNotFound
		}
		return fmt.Errorf("promote customer %d: %w", id, err)
	}
	s.logger.Info("customer promoted to admin", zap.Uint("customer_id", id), zap.Uint("by", caller.CustomerID))
	return nil
}

func (s *customerService) Delete(ctx context.Context, caller models.Principal, id uint) error {
	if !caller.IsAdmin() {
		return ErrForbidden
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCustomerNotFound
		}
		return fmt.Errorf("delete customer %d: %w", id, err)
	}
	s.logger.Info("customer deleted", zap.Uint("customer_id", id), zap.Uint("by", caller.CustomerID))
	return nil
}
