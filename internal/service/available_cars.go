package service

import (
	"context"
	"sync"

	"carrental-dashboard/internal/apiclient"
	"carrental-dashboard/internal/domain"
	"carrental-dashboard/internal/logger"
)

// BrowserState is a snapshot of the available-cars view.
type BrowserState struct {
	Brand                string
	Model                string
	Models               []string
	ModelSelectorEnabled bool
	Cars                 []domain.Car
}

// CarBrowser drives the brand/model filter and the car list it selects.
//
// Every filter change starts a new fetch. Fetches are numbered and the one in
// flight is cancelled when a newer one starts, so only the response to the
// latest filter is ever applied.
type CarBrowser struct {
	api apiclient.Client

	mu         sync.Mutex
	brand      string
	model      string
	cars       []domain.Car
	generation uint64
	cancel     context.CancelFunc
}

func NewCarBrowser(api apiclient.Client) *CarBrowser {
	return &CarBrowser{api: api, cars: []domain.Car{}}
}

// SelectBrand sets the brand, clears the model and refetches. An empty brand
// disables the model selector.
func (b *CarBrowser) SelectBrand(ctx context.Context, brand string) error {
	b.mu.Lock()
	b.brand = brand
	b.model = ""
	b.mu.Unlock()
	logger.ViewAction(ctx, "available-cars", "select_brand", "brand", brand)
	return b.fetch(ctx)
}

func (b *CarBrowser) SelectModel(ctx context.Context, model string) error {
	b.mu.Lock()
	if b.brand == "" && model != "" {
		b.mu.Unlock()
		return ErrModelWithoutBrand
	}
	b.model = model
	b.mu.Unlock()
	logger.ViewAction(ctx, "available-cars", "select_model", "model", model)
	return b.fetch(ctx)
}

func (b *CarBrowser) ClearBrand(ctx context.Context) error {
	return b.SelectBrand(ctx, "")
}

func (b *CarBrowser) ClearModel(ctx context.Context) error {
	return b.SelectModel(ctx, "")
}

// Refresh refetches with the current filter.
func (b *CarBrowser) Refresh(ctx context.Context) error {
	return b.fetch(ctx)
}

func (b *CarBrowser) State() BrowserState {
	b.mu.Lock()
	defer b.mu.Unlock()

	cars := make([]domain.Car, len(b.cars))
	copy(cars, b.cars)
	return BrowserState{
		Brand:                b.brand,
		Model:                b.model,
		Models:               domain.ModelsFor(b.brand),
		ModelSelectorEnabled: b.brand != "",
		Cars:                 cars,
	}
}

// fetch loads cars for the current filter. A superseded fetch returns nil
// without touching state. On failure the previous list is kept.
func (b *CarBrowser) fetch(ctx context.Context) error {
	b.mu.Lock()
	if b.cancel != nil {
		b.cancel()
	}
	b.generation++
	gen := b.generation
	fetchCtx, cancel := context.WithCancel(ctx)
	b.cancel = cancel
	filter := domain.CarFilter{Brand: b.brand, Model: b.model}
	b.mu.Unlock()
	defer cancel()

	cars, err := b.api.ListAvailableCars(fetchCtx, filter)

	b.mu.Lock()
	defer b.mu.Unlock()
	if gen != b.generation {
		logger.DebugContext(ctx, "Dropping stale car list", "generation", gen, "latest", b.generation)
		return nil
	}
	b.cancel = nil
	if err != nil {
		logger.ErrorContext(ctx, "Failed to list cars", "brand", filter.Brand, "model", filter.Model, "error", err)
		return err
	}
	b.cars = cars
	return nil
}
