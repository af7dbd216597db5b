package service

import (
	"context"
	"io"

	"carrental-dashboard/internal/domain"
	"carrental-dashboard/internal/session"

	"github.com/stretchr/testify/mock"
)

// MockAPIClient
type MockAPIClient struct {
	mock.Mock
}

func (m *MockAPIClient) Register(ctx context.Context, payload domain.RegisterPayload) (*domain.User, error) {
	args := m.Called(ctx, payload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockAPIClient) Login(ctx context.Context, payload domain.LoginPayload) (*domain.User, error) {
	args := m.Called(ctx, payload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockAPIClient) ListAvailableCars(ctx context.Context, filter domain.CarFilter) ([]domain.Car, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Car), args.Error(1)
}
func (m *MockAPIClient) GetCarDetails(ctx context.Context, carID int64) (*domain.Car, error) {
	args := m.Called(ctx, carID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Car), args.Error(1)
}
func (m *MockAPIClient) AddCar(ctx context.Context, payload domain.CarPayload) (*domain.Car, error) {
	args := m.Called(ctx, payload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Car), args.Error(1)
}
func (m *MockAPIClient) UploadImage(ctx context.Context, filename string, content io.Reader) (*domain.UploadedImage, error) {
	args := m.Called(ctx, filename, content)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UploadedImage), args.Error(1)
}
func (m *MockAPIClient) AddCarRequest(ctx context.Context, payload domain.RequestPayload) (*domain.RentalRequest, error) {
	args := m.Called(ctx, payload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RentalRequest), args.Error(1)
}
func (m *MockAPIClient) ListRequestsForYourCars(ctx context.Context, userID int64) ([]domain.RentalRequest, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.RentalRequest), args.Error(1)
}
func (m *MockAPIClient) AcceptRequest(ctx context.Context, payload domain.AcceptRequestPayload) error {
	args := m.Called(ctx, payload)
	return args.Error(0)
}
func (m *MockAPIClient) DeclineRequest(ctx context.Context, requestID int64) error {
	args := m.Called(ctx, requestID)
	return args.Error(0)
}

// loggedIn returns a session manager over memory with user already started.
func loggedIn(user *domain.User) *session.Manager {
	m := session.NewManager(session.NewMemoryStore())
	if user != nil {
		if err := m.Start(user); err != nil {
			panic(err)
		}
	}
	return m
}
