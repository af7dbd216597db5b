package session

import (
	"errors"
	"fmt"

	"carrental-dashboard/internal/domain"
	"carrental-dashboard/internal/logger"
)

// Manager is the process-wide session context. It is created once at startup
// and handed to every view that needs the current user.
type Manager struct {
	store Store
}

func NewManager(store Store) *Manager {
	return &Manager{store: store}
}

// Start persists user as the logged-in identity.
func (m *Manager) Start(user *domain.User) error {
	if user == nil || user.ID == 0 {
		return errors.New("cannot start a session without a user id")
	}
	if err := m.store.Save(user); err != nil {
		return err
	}
	logger.Info("Session started", "user_id", user.ID)
	return nil
}

// End clears the persisted identity.
func (m *Manager) End() error {
	if err := m.store.Clear(); err != nil {
		return err
	}
	logger.Info("Session ended")
	return nil
}

// Current returns the logged-in user, or ErrNoSession. An unreadable or
// incomplete record counts as no session.
func (m *Manager) Current() (*domain.User, error) {
	user, err := m.store.Load()
	if errors.Is(err, ErrNoSession) {
		return nil, ErrNoSession
	}
	if err != nil {
		logger.Warn("Discarding unreadable session", "error", err)
		return nil, fmt.Errorf("%w: %v", ErrNoSession, err)
	}
	if user.ID == 0 {
		return nil, ErrNoSession
	}
	return user, nil
}

// LoggedIn reports whether a usable session exists.
func (m *Manager) LoggedIn() bool {
	_, err := m.Current()
	return err == nil
}
