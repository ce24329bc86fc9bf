package models

import "time"

type Payment struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	CustomerID       uint      `gorm:"not null" json:"customer_id"`
	Amount           int64     `gorm:"not null" json:"amount"`
	Currency         string    `gorm:"size:3;not null;default:'USD'" json:"currency"`
	GatewayPaymentID string    `gorm:"size:255;not null;uniqueIndex" json:"gateway_payment_id"`
	Status           string    `gorm:"size:50;not null" json:"status"`
	Last4            string    `gorm:"column:last4;size:4" json:"last4"`
	CreatedAt        time.Time `json:"created_at"`
}

func (Payment) TableName() string {
	return "payments"
}

// PaymentView is what clients get to see of a payment. The card number is
// never exposed beyond its last four digits.
type PaymentView struct {
	ID         string  `json:"id"`
	CustomerID uint    `json:"customer_id"`
	Amount     int64   `json:"amount"`
	PaidOn     *string `json:"paid_on"`
	CardLast4  *string `json:"card_last4"`
}

func (p *Payment) View() PaymentView {
	v := PaymentView{
		ID:         p.GatewayPaymentID,
		CustomerID: p.CustomerID,
		Amount:     p.Amount,
	}
	if !p.CreatedAt.IsZero() {
		paidOn := p.CreatedAt.UTC().Format("2006-01-02")
		v.PaidOn = &paidOn
	}
	if masked := MaskCardNumber(p.Last4); masked != "" {
		v.CardLast4 = &masked
	}
	return v
}

// MaskCardNumber keeps the last four digits of a card number (or of the
// last-four value itself).
func MaskCardNumber(number string) string {
	if number == "" {
		return ""
	}
	last4 := number
	if len(number) > 4 {
		last4 = number[len(number)-4:]
	}
	return "**** **** **** " + last4
}
