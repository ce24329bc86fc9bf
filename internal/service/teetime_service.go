package service

import (
	"context"
	"fmt"
	"time"

	"github.com/tfos262/ott-backend/internal/models"
	"github.com/tfos262/ott-backend/internal/repository"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const (
	MaxGolfersPerSlot = 4

	firstSlotMinutes = 8 * 60
	lastSlotMinutes  = 20 * 60
	slotStepMinutes  = 15

	TeeTimeReservedKey = "teetime.reserved"
)

var tracer = otel.Tracer("github.com/tfos262/ott-backend/internal/service")

// EventPublisher emits domain events. A nil publisher disables events.
type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, payload any) error
}

type AvailableSlot struct {
	Time           string `json:"time"`
	AvailableSpots int    `json:"available_spots"`
}

type ReservedSlot struct {
	Time        string `json:"time"`
	BookedSpots int    `json:"booked_spots"`
}

type CreateReservationInput struct {
	CustomerID uint
	NumGolfers int
	TotalPrice float64
	Paid       bool
	DateTime   time.Time
}

type TeeTimeReservedEvent struct {
	TeeTimeID  uint      `json:"teetime_id"`
	CustomerID uint      `json:"customer_id"`
	NumGolfers int       `json:"num_golfers"`
	DateTime   time.Time `json:"date_time"`
}

type TeeTimeLedger interface {
	Slots() []string
	BookedMapByDate(ctx context.Context, date string) (map[string]int, error)
	AvailableTeeTimes(ctx context.Context, date string) ([]AvailableSlot, error)
	ReservedTeeTimes(ctx context.Context, date string) ([]ReservedSlot, error)
	CreateReservation(ctx context.Context, in CreateReservationInput) (uint, error)
	ListAll(ctx context.Context) ([]models.Reservation, error)
	ListByDate(ctx context.Context, date string) ([]models.Reservation, error)
}

// BuildSlotCatalog lists every bookable time of day, 08:00 to 20:00 inclusive.
func BuildSlotCatalog() []string {
	slots := make([]string, 0, (lastSlotMinutes-firstSlotMinutes)/slotStepMinutes+1)
	for m := firstSlotMinutes; m <= lastSlotMinutes; m += slotStepMinutes {
		slots = append(slots, fmt.Sprintf("%02d:%02d", m/60, m%60))
	}
	return slots
}

type teeTimeLedger struct {
	repo      repository.TeeTimeRepository
	publisher EventPublisher
	logger    *zap.Logger
	slots     []string
	inCatalog map[string]struct{}
}

func NewTeeTimeLedger(repo repository.TeeTimeRepository, publisher EventPublisher, logger *zap.Logger) TeeTimeLedger {
	if logger == nil {
		logger = zap.NewNop()
	}
	slots := BuildSlotCatalog()
	inCatalog := make(map[string]struct{}, len(slots))
	for _, s := range slots {
		inCatalog[s] = struct{}{}
	}
	return &teeTimeLedger{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
		slots:     slots,
		inCatalog: inCatalog,
	}
}

func (l *teeTimeLedger) Slots() []string {
	out := make([]string, len(l.slots))
	copy(out, l.slots)
	return out
}

func (l *teeTimeLedger) BookedMapByDate(ctx context.Context, date string) (map[string]int, error) {
	ctx, span := tracer.Start(ctx, "TeeTimeLedger.BookedMapByDate",
		trace.WithAttributes(attribute.String("teetime.date", date)))
	defer span.End()

	rows, err := l.repo.SumGolfersByTimeOfDay(ctx, date)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "sum golfers")
		return nil, fmt.Errorf("sum golfers for %q: %w", date, err)
	}

	booked := make(map[string]int, len(rows))
	for _, row := range rows {
		if _, ok := l.inCatalog[row.Time]; !ok {
			l.logger.Warn("ignoring off-grid reservation time",
				zap.String("date", date),
				zap.String("time", row.Time),
			)
			continue
		}
		booked[row.Time] = row.TotalBooked
	}
	return booked, nil
}

func (l *teeTimeLedger) AvailableTeeTimes(ctx context.Context, date string) ([]AvailableSlot, error) {
	booked, err := l.BookedMapByDate(ctx, date)
	if err != nil {
		return nil, err
	}

	available := make([]AvailableSlot, 0, len(l.slots))
	for _, slot := range l.slots {
		if spots := MaxGolfersPerSlot - booked[slot]; spots > 0 {
			available = append(available, AvailableSlot{Time: slot, AvailableSpots: spots})
		}
	}
	return available, nil
}

func (l *teeTimeLedger) ReservedTeeTimes(ctx context.Context, date string) ([]ReservedSlot, error) {
	booked, err := l.BookedMapByDate(ctx, date)
	if err != nil {
		return nil, err
	}

	reserved := make([]ReservedSlot, 0, len(booked))
	for _, slot := range l.slots {
		if n := booked[slot]; n > 0 {
			reserved = append(reserved, ReservedSlot{Time: slot, BookedSpots: n})
		}
	}
	return reserved, nil
}

// CreateReservation stores the reservation as given. Slot capacity is not
// checked here, so a slot can end up holding more than MaxGolfersPerSlot.
func (l *teeTimeLedger) CreateReservation(ctx context.Context, in CreateReservationInput) (uint, error) {
	ctx, span := tracer.Start(ctx, "TeeTimeLedger.CreateReservation")
	defer span.End()

	res := &models.Reservation{
		CustomerID: in.CustomerID,
		NumGolfers: in.NumGolfers,
		TotalPrice: in.TotalPrice,
		Paid:       in.Paid,
		DateTime:   in.DateTime,
	}
	if err := l.repo.Create(ctx, res); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "insert reservation")
		return 0, fmt.Errorf("create reservation: %w", err)
	}
	span.SetAttributes(attribute.Int64("teetime.id", int64(res.ID)))

	l.logger.Info("tee time reserved",
		zap.Uint("teetime_id", res.ID),
		zap.Uint("customer_id", res.CustomerID),
		zap.Int("num_golfers", res.NumGolfers),
		zap.Time("date_time", res.DateTime),
	)

	if l.publisher != nil {
		ev := TeeTimeReservedEvent{
			TeeTimeID:  res.ID,
			CustomerID: res.CustomerID,
			NumGolfers: res.NumGolfers,
			DateTime:   res.DateTime,
		}
		if err := l.publisher.Publish(ctx, TeeTimeReservedKey, ev); err != nil {
			l.logger.Error("failed to publish reservation event", zap.Uint("teetime_id", res.ID), zap.Error(err))
		}
	}

	return res.ID, nil
}

func (l *teeTimeLedger) ListAll(ctx context.Context) ([]models.Reservation, error) {
	list, err := l.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list reservations: %w", err)
	}
	return list, nil
}

func (l *teeTimeLedger) ListByDate(ctx context.Context, date string) ([]models.Reservation, error) {
	list, err := l.repo.FindByDate(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("list reservations for %q: %w", date, err)
	}
	return list, nil
}
