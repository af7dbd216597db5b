package service

import (
	"context"
	"fmt"
	"math"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"carrental-dashboard/internal/apiclient"
	"carrental-dashboard/internal/domain"
	"carrental-dashboard/internal/logger"
	"carrental-dashboard/internal/session"
	"carrental-dashboard/internal/validation"
)

// MinProductionYear is the oldest year offered on the list-a-car form.
const MinProductionYear = 1990

const ListingSuccessMessage = "Car successfully listed!"

type listingService struct {
	api      apiclient.Client
	sessions *session.Manager
	now      func() time.Time
}

func NewListingService(api apiclient.Client, sessions *session.Manager) ListingService {
	return &listingService{api: api, sessions: sessions, now: time.Now}
}

// YearOptions returns the selectable production years, newest first.
func YearOptions(now time.Time) []int {
	years := make([]int, 0, now.Year()-MinProductionYear+1)
	for y := now.Year(); y >= MinProductionYear; y-- {
		years = append(years, y)
	}
	return years
}

// CreateListing validates the form, uploads the image when present and
// registers the car under the session user.
func (s *listingService) CreateListing(ctx context.Context, in ListingInput) (*domain.Car, error) {
	user, err := s.sessions.Current()
	if err != nil {
		return nil, err
	}

	payload, err := s.validate(in)
	if err != nil {
		return nil, err
	}
	payload.UserID = user.ID

	if in.Image != nil && in.Image.Content != nil {
		name := imageFilename(payload.Brand, payload.Model, payload.Year, in.Image.Filename)
		uploaded, err := s.api.UploadImage(ctx, name, in.Image.Content)
		if err != nil {
			logger.ErrorContext(ctx, "Image upload failed", "filename", name, "error", err)
			return nil, err
		}
		payload.Image = uploaded.URL
	}

	car, err := s.api.AddCar(ctx, payload)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to list car", "brand", payload.Brand, "model", payload.Model, "error", err)
		return nil, err
	}
	logger.ViewAction(ctx, "list-a-car", "submit", "brand", payload.Brand, "model", payload.Model, "user_id", user.ID)
	if car == nil {
		car = &domain.Car{
			Brand:            payload.Brand,
			Model:            payload.Model,
			Image:            payload.Image,
			YearOfProduction: payload.Year,
			CostPerHour:      payload.Cost,
			Description:      payload.Description,
			OwnerID:          payload.UserID,
		}
	}
	return car, nil
}

func (s *listingService) validate(in ListingInput) (domain.CarPayload, error) {
	errs := validation.Errors{}
	payload := domain.CarPayload{
		Brand:       strings.TrimSpace(in.Brand),
		Model:       strings.TrimSpace(in.Model),
		Description: strings.TrimSpace(in.Description),
	}

	validation.Required(errs, "brand", payload.Brand, "Brand is required")
	if validation.Required(errs, "model", payload.Model, "Model name is required") &&
		domain.IsKnownBrand(payload.Brand) && !domain.HasModel(payload.Brand, payload.Model) {
		errs.Add("model", fmt.Sprintf("%s is not a %s model", payload.Model, payload.Brand))
	}

	if validation.Required(errs, "year", in.Year, "Year of production is required") {
		year, err := strconv.Atoi(strings.TrimSpace(in.Year))
		switch {
		case err != nil:
			errs.Add("year", "Year of production must be a number")
		case year < MinProductionYear || year > s.now().Year():
			errs.Add("year", fmt.Sprintf("Year of production must be between %d and %d", MinProductionYear, s.now().Year()))
		default:
			payload.Year = year
		}
	}

	if validation.Required(errs, "cost", in.Cost, "Cost is required") {
		cost, err := strconv.ParseFloat(strings.TrimSpace(in.Cost), 64)
		if err != nil || math.IsNaN(cost) || math.IsInf(cost, 0) || cost <= 0 {
			errs.Add("cost", "Cost must be a positive number")
		} else {
			payload.Cost = cost
		}
	}

	return payload, errs.Err()
}

// imageFilename names uploads "<brand>-<model>-<year>" keeping the original extension.
func imageFilename(brand, model string, year int, original string) string {
	return fmt.Sprintf("%s-%s-%d%s", brand, model, year, strings.ToLower(filepath.Ext(original)))
}
