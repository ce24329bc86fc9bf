package models

import "time"

// Reservation is one booking of a tee time. Rows are only ever inserted.
type Reservation struct {
	ID         uint      `gorm:"column:teetime_id;primaryKey" json:"teetime_id"`
	CustomerID uint      `gorm:"not null" json:"customer_id"`
	NumGolfers int       `gorm:"not null" json:"num_golfers"`
	TotalPrice float64   `gorm:"type:numeric(10,2);not null" json:"total_price"`
	Paid       bool      `gorm:"not null;default:false" json:"paid"`
	DateTime   time.Time `gorm:"type:timestamp;not null" json:"date_time"`
	CreatedAt  time.Time `json:"created_at"`
}

func (Reservation) TableName() string {
	return "teetimes"
}

// SlotOccupancy is one row of the per-date grouping query.
type SlotOccupancy struct {
	Time        string `gorm:"column:time"`
	TotalBooked int    `gorm:"column:total_booked"`
}
