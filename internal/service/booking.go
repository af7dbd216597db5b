package service

import (
	"context"
	"fmt"
	"time"

	"carrental-dashboard/internal/apiclient"
	"carrental-dashboard/internal/domain"
	"carrental-dashboard/internal/logger"
	"carrental-dashboard/internal/session"
	"carrental-dashboard/internal/utils"
	"carrental-dashboard/internal/validation"
)

const (
	msgStartRequired  = "Start date required!"
	msgEndRequired    = "End date required!"
	msgEndBeforeStart = "End date must be after start date"
	msgStartInPast    = "Start date cannot be in the past"
)

// Booking is the car-details form: one car, a start and end date and the
// quote derived from them.
type Booking struct {
	api      apiclient.Client
	sessions *session.Manager
	now      func() time.Time

	car   *domain.Car
	start *time.Time
	end   *time.Time
}

func NewBooking(api apiclient.Client, sessions *session.Manager) *Booking {
	return &Booking{api: api, sessions: sessions, now: time.Now}
}

func (b *Booking) Load(ctx context.Context, carID int64) (*domain.Car, error) {
	car, err := b.api.GetCarDetails(ctx, carID)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to load car details", "car_id", carID, "error", err)
		return nil, err
	}
	b.car = car
	return car, nil
}

func (b *Booking) Car() *domain.Car {
	return b.car
}

// SetStart rejects days before today.
func (b *Booking) SetStart(t time.Time) error {
	now := b.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if t.Before(today) {
		return validation.Errors{"startDate": msgStartInPast}
	}
	b.start = &t
	return nil
}

func (b *Booking) SetEnd(t time.Time) {
	b.end = &t
}

func (b *Booking) Start() *time.Time { return b.start }
func (b *Booking) End() *time.Time { return b.end }

// Quote returns the total price, undefined until a car is loaded and both
// dates are set with end after start.
func (b *Booking) Quote() (float64, bool) {
	if b.car == nil {
		return 0, false
	}
	return utils.TotalPrice(b.start, b.end, b.car.CostPerHour)
}

func (b *Booking) CanSubmit() bool {
	_, ok := b.Quote()
	return ok
}

// Submit sends the rental request. Nothing is sent while the quote is
// undefined, and the form is left as is on failure.
func (b *Booking) Submit(ctx context.Context) (*domain.RentalRequest, error) {
	if b.car == nil {
		return nil, ErrCarNotLoaded
	}

	errs := validation.Errors{}
	if b.start == nil {
		errs.Add("startDate", msgStartRequired)
	}
	if b.end == nil {
		errs.Add("endDate", msgEndRequired)
	}
	total, ok := b.Quote()
	if len(errs) == 0 && !ok {
		errs.Add("endDate", msgEndBeforeStart)
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("%w: %w", ErrPriceUndefined, errs)
	}

	user, err := b.sessions.Current()
	if err != nil {
		return nil, err
	}

	payload := domain.RequestPayload{
		StartDate:  *b.start,
		EndDate:    *b.end,
		TotalPrice: total,
		CarID:      b.car.ID,
		UserID:     user.ID,
	}
	created, err := b.api.AddCarRequest(ctx, payload)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to create rental request", "car_id", b.car.ID, "error", err)
		return nil, err
	}
	logger.ViewAction(ctx, "car-details", "rent", "car_id", b.car.ID, "total_price", total)

	if created == nil {
		created = &domain.RentalRequest{
			StartDate:  payload.StartDate,
			EndDate:    payload.EndDate,
			TotalPrice: total,
			Status:     domain.RequestStatusPending,
			Car:        *b.car,
			User:       *user,
		}
	}
	return created, nil
}
