package dto

import (
	"time"

	"github.com/tfos262/ott-backend/internal/models"
)

const storedDateTimeLayout = "2006-01-02 15:04:05"

type MessageResponse struct {
	Message string `json:"message"`
}

type ReservationResponse struct {
	ID         uint      `json:"teetime_id"`
	CustomerID uint      `json:"customer_id"`
	NumGolfers int       `json:"num_golfers"`
	TotalPrice float64   `json:"total_price"`
	Paid       bool      `json:"paid"`
	DateTime   string    `json:"date_time"`
	CreatedAt  time.Time `json:"created_at"`
}

type CreateReservationResponse struct {
	Success   bool `json:"success"`
	TeeTimeID uint `json:"teetime_id"`
}

// UserResponse is the public view of a customer or admin.
type UserResponse struct {
	ID          uint     `json:"id"`
	Name        string   `json:"name"`
	Email       string   `json:"email"`
	Admin       bool     `json:"admin"`
	Permissions []string `json:"permissions,omitempty"`
}

type LoginResponse struct {
	Message    string `json:"message"`
	CustomerID uint   `json:"customer_id"`
	IsAdmin    bool   `json:"isAdmin"`
	Token      string `json:"token"`
}

type RegisterResponse struct {
	Message    string `json:"message"`
	CustomerID uint   `json:"customer_id"`
}

type ProcessPaymentResponse struct {
	Success bool `json:"success"`
	Payment any  `json:"payment"`
}

type RecordPaymentResponse struct {
	Message string             `json:"message"`
	Payment models.PaymentView `json:"payment"`
}

func ToReservationResponse(r *models.Reservation) ReservationResponse {
	return ReservationResponse{
		ID:         r.ID,
		CustomerID: r.CustomerID,
		NumGolfers: r.NumGolfers,
		TotalPrice: r.TotalPrice,
		Paid:       r.Paid,
		DateTime:   r.DateTime.Format(storedDateTimeLayout),
		CreatedAt:  r.CreatedAt,
	}
}

func ToReservationResponses(list []models.Reservation) []ReservationResponse {
	resp := make([]ReservationResponse, len(list))
	for i := range list {
		resp[i] = ToReservationResponse(&list[i])
	}
	return resp
}

func ToUserResponse(c *models.Customer) UserResponse {
	p := models.PrincipalFromCustomer(c)
	return UserResponse{
		ID:          p.CustomerID,
		Name:        p.Name,
		Email:       p.Email,
		Admin:       p.IsAdmin(),
		Permissions: p.Permissions,
	}
}

func ToUserResponses(customers []models.Customer) []UserResponse {
	resp := make([]UserResponse, len(customers))
	for i := range customers {
		resp[i] = ToUserResponse(&customers[i])
	}
	return resp
}

func ToPaymentViews(payments []models.Payment) []models.PaymentView {
	resp := make([]models.PaymentView, len(payments))
	for i := range payments {
		resp[i] = payments[i].View()
	}
	return resp
}
