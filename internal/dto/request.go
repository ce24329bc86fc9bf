package dto

import (
	"errors"
	"strings"
	"time"
)

var ErrInvalidDateTime = errors.New("date_time must look like 2006-01-02 15:04:05")

var dateTimeLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

type CreateReservationRequest struct {
	NumGolfers int     `json:"num_golfers" validate:"required,gt=0"`
	TotalPrice float64 `json:"total_price" validate:"gte=0"`
	Paid       bool    `json:"paid"`
	DateTime   string  `json:"date_time" validate:"required"`
}

// ParseDateTime reads the wall-clock time as written. Offsets in RFC3339
// input are dropped, since tee times are stored without a zone.
func (r *CreateReservationRequest) ParseDateTime() (time.Time, error) {
	s := strings.TrimSpace(r.DateTime)
	for _, layout := range dateTimeLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, time.UTC), nil
		}
	}
	return time.Time{}, ErrInvalidDateTime
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type RegisterRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=6"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// CustomerIDRequest accepts customer_id as a number or a numeric string.
type CustomerIDRequest struct {
	CustomerID FlexibleID `json:"customer_id"`
}

type CustomerEmailRequest struct {
	Email string `json:"email" validate:"required"`
}

type UpdateCustomerRequest struct {
	CustomerID FlexibleID `json:"customer_id"`
	Email      string     `json:"email" validate:"omitempty,email"`
	Password   string     `json:"password" validate:"omitempty,min=6"`
	FirstName  string     `json:"first_name"`
	LastName   string     `json:"last_name"`
}

type ProcessPaymentRequest struct {
	Nonce  string      `json:"nonce" validate:"required"`
	Amount FlexibleInt `json:"amount"`
}

type RecordPaymentRequest struct {
	CustomerID       FlexibleID  `json:"customer_id"`
	Amount           FlexibleInt `json:"amount"`
	Currency         string      `json:"currency" validate:"omitempty,len=3"`
	GatewayPaymentID string      `json:"payment_id" validate:"required"`
	Status           string      `json:"status"`
	Last4            string      `json:"last4" validate:"omitempty,max=4"`
}
