package service

import (
	"context"
	"errors"
	"io"

	"carrental-dashboard/internal/domain"
)

var (
	ErrRequestNotFound   = errors.New("rental request not found")
	ErrRequestClosed     = errors.New("rental request is already accepted or declined")
	ErrRequestBusy       = errors.New("rental request has an action in progress")
	ErrCarMismatch       = errors.New("rental request does not belong to this car")
	ErrModelWithoutBrand = errors.New("select a brand before choosing a model")
	ErrCarNotLoaded      = errors.New("car details are not loaded")
	ErrPriceUndefined    = errors.New("total price is undefined until both dates are set")
)

type AuthService interface {
	Login(ctx context.Context, email, password string) (*domain.User, error)
	Register(ctx context.Context, in RegisterInput) (*domain.User, error)
	Logout(ctx context.Context) error
	CurrentUser() (*domain.User, error)
}

type ListingService interface {
	CreateListing(ctx context.Context, in ListingInput) (*domain.Car, error)
}

type RegisterInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
}

// ListingInput is the raw list-a-car form. Year and Cost arrive as text and
// are parsed during validation.
type ListingInput struct {
	Brand       string
	Model       string
	Year        string
	Cost        string
	Description string
	Image       *ImageUpload
}

type ImageUpload struct {
	Filename string
	Content  io.Reader
}
