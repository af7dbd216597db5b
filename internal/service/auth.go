package service

import (
	"context"
	"strings"

	"carrental-dashboard/internal/apiclient"
	"carrental-dashboard/internal/domain"
	"carrental-dashboard/internal/logger"
	"carrental-dashboard/internal/session"
	"carrental-dashboard/internal/validation"
)

const (
	msgInvalidEmail     = "Invalid email address"
	msgPasswordTooShort = "Password must be at least 6 characters long"
	minPasswordLength   = 6
)

type authService struct {
	api      apiclient.Client
	sessions *session.Manager
}

func NewAuthService(api apiclient.Client, sessions *session.Manager) AuthService {
	return &authService{api: api, sessions: sessions}
}

// Login validates the credentials locally, authenticates against the backend
// and starts the session with the returned user.
func (s *authService) Login(ctx context.Context, email, password string) (*domain.User, error) {
	email = strings.TrimSpace(email)

	errs := validation.Errors{}
	validation.Email(errs, "email", email, msgInvalidEmail)
	validation.MinLength(errs, "password", password, minPasswordLength, msgPasswordTooShort)
	if err := errs.Err(); err != nil {
		return nil, err
	}

	user, err := s.api.Login(ctx, domain.LoginPayload{Email: email, Password: password})
	if err != nil {
		return nil, err
	}
	if err := s.sessions.Start(user); err != nil {
		return nil, err
	}
	logger.ViewAction(ctx, "login", "login", "user_id", user.ID)
	return user, nil
}

// Register creates the account. It does not log the user in.
func (s *authService) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.Email = strings.TrimSpace(in.Email)

	errs := validation.Errors{}
	validation.Required(errs, "firstName", in.FirstName, "First name is required")
	validation.Required(errs, "lastName", in.LastName, "Last name is required")
	validation.Email(errs, "email", in.Email, msgInvalidEmail)
	validation.MinLength(errs, "password", in.Password, minPasswordLength, msgPasswordTooShort)
	if err := errs.Err(); err != nil {
		return nil, err
	}

	user, err := s.api.Register(ctx, domain.RegisterPayload{
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Email:     in.Email,
		Password:  in.Password,
	})
	if err != nil {
		return nil, err
	}
	logger.ViewAction(ctx, "register", "register", "user_id", user.ID)
	return user, nil
}

func (s *authService) Logout(ctx context.Context) error {
	logger.ViewAction(ctx, "navbar", "logout")
	return s.sessions.End()
}

func (s *authService) CurrentUser() (*domain.User, error) {
	return s.sessions.Current()
}
