package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/tfos262/ott-backend/internal/models"
	"github.com/tfos262/ott-backend/internal/repository"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type TokenIssuer interface {
	Issue(p models.Principal) (string, error)
}

type LoginResult struct {
	Token     string
	Customer  *models.Customer
	Principal models.Principal
}

type AuthService interface {
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	Me(ctx context.Context, customerID uint) (*models.Customer, error)
}

type authService struct {
	repo   repository.CustomerRepository
	issuer TokenIssuer
}

func NewAuthService(repo repository.CustomerRepository, issuer TokenIssuer) AuthService {
	return &authService{repo: repo, issuer: issuer}
}

func (s *authService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	c, err := s.repo.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("lookup customer: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(c.Password), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	p := models.PrincipalFromCustomer(c)
	token, err := s.issuer.Issue(p)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &LoginResult{Token: token, Customer: c, Principal: p}, nil
}

func (s *authService) Me(ctx context.Context, customerID uint) (*models.Customer, error) {
	c, err := s.repo.FindByID(ctx, customerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCustomerNotFound
		}
		return nil, fmt.Errorf("find customer %d: %w", customerID, err)
	}
	return c, nil
}
