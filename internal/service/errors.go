package service

import "errors"

var (
	ErrCustomerNotFound   = errors.New("customer not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrPaymentNotFound    = errors.New("payment not found")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidAmount      = errors.New("amount must be greater than zero")
)
