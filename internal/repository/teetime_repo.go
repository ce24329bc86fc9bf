package repository

import (
	"context"
	"time"

	"github.com/tfos262/ott-backend/internal/models"
	"gorm.io/gorm"
)

const dateLayout = "2006-01-02"

type TeeTimeRepository interface {
	SumGolfersByTimeOfDay(ctx context.Context, date string) ([]models.SlotOccupancy, error)
	FindByDate(ctx context.Context, date string) ([]models.Reservation, error)
	FindAll(ctx context.Context) ([]models.Reservation, error)
	Create(ctx context.Context, r *models.Reservation) error
}

type teeTimeRepository struct {
	db *gorm.DB
}

func NewTeeTimeRepository(db *gorm.DB) TeeTimeRepository {
	return &teeTimeRepository{db: db}
}

// validDay reports whether date is a real calendar day in YYYY-MM-DD form.
func validDay(date string) bool {
	_, err := time.Parse(dateLayout, date)
	return err == nil
}

// SumGolfersByTimeOfDay groups the day's reservations by HH:MM and sums golfers.
// An unparsable date yields no rows.
func (r *teeTimeRepository) SumGolfersByTimeOfDay(ctx context.Context, date string) ([]models.SlotOccupancy, error) {
	if !validDay(date) {
		return nil, nil
	}
	var rows []models.SlotOccupancy
	err := r.db.WithContext(ctx).
		Raw(`SELECT to_char(date_time, 'HH24:MI') AS time, COALESCE(SUM(num_golfers), 0) AS total_booked
			FROM teetimes
			WHERE date_time >= CAST(? AS date) AND date_time < CAST(? AS date) + 1
			GROUP BY time`, date, date).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *teeTimeRepository) FindByDate(ctx context.Context, date string) ([]models.Reservation, error) {
	if !validDay(date) {
		return []models.Reservation{}, nil
	}
	var reservations []models.Reservation
	err := r.db.WithContext(ctx).
		Where("date_time >= CAST(? AS date) AND date_time < CAST(? AS date) + 1", date, date).
		Order("date_time ASC, teetime_id ASC").
		Find(&reservations).Error
	if err != nil {
		return nil, err
	}
	return reservations, nil
}

func (r *teeTimeRepository) FindAll(ctx context.Context) ([]models.Reservation, error) {
	var reservations []models.Reservation
	if err := r.db.WithContext(ctx).Order("teetime_id ASC").Find(&reservations).Error; err != nil {
		return nil, err
	}
	return reservations, nil
}

func (r *teeTimeRepository) Create(ctx context.Context, res *models.Reservation) error {
	return r.db.WithContext(ctx).Create(res).Error
}
