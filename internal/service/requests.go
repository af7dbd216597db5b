package service

import (
	"context"
	"sync"

	"carrental-dashboard/internal/apiclient"
	"carrental-dashboard/internal/domain"
	"carrental-dashboard/internal/logger"
	"carrental-dashboard/internal/session"
)

// RequestBoard holds the owner's incoming rental requests. Local state only
// changes after the backend confirms an action.
type RequestBoard struct {
	api      apiclient.Client
	sessions *session.Manager

	mu       sync.Mutex
	ownerID  int64
	requests []domain.RentalRequest
	inFlight map[int64]bool
}

func NewRequestBoard(api apiclient.Client, sessions *session.Manager) *RequestBoard {
	return &RequestBoard{
		api:      api,
		sessions: sessions,
		requests: []domain.RentalRequest{},
		inFlight: make(map[int64]bool),
	}
}

// Load replaces the board with the requests for the session user's cars.
// Requests loaded for a different user are dropped before fetching, so a
// failed load never shows them.
func (b *RequestBoard) Load(ctx context.Context) error {
	user, err := b.sessions.Current()
	if err != nil {
		return err
	}

	b.mu.Lock()
	if b.ownerID != user.ID {
		b.ownerID = user.ID
		b.requests = []domain.RentalRequest{}
		b.inFlight = make(map[int64]bool)
	}
	b.mu.Unlock()

	requests, err := b.api.ListRequestsForYourCars(ctx, user.ID)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to load requests", "user_id", user.ID, "error", err)
		return err
	}

	b.mu.Lock()
	if b.ownerID == user.ID {
		b.requests = requests
	}
	b.mu.Unlock()
	return nil
}

func (b *RequestBoard) Requests() []domain.RentalRequest {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]domain.RentalRequest, len(b.requests))
	copy(out, b.requests)
	return out
}

// CanAct reports whether accept and decline are enabled for the request.
func (b *RequestBoard) CanAct(requestID int64) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	i := b.indexOf(requestID)
	return i >= 0 && !b.requests[i].Status.IsTerminal() && !b.inFlight[requestID]
}

// Accept approves the request. On success every other request for the same
// car leaves the board.
func (b *RequestBoard) Accept(ctx context.Context, carID, requestID int64) error {
	if carID <= 0 {
		return ErrCarMismatch
	}
	if err := b.begin(requestID, carID, domain.RequestStatusAccepted); err != nil {
		return err
	}

	err := b.api.AcceptRequest(ctx, domain.AcceptRequestPayload{CarID: carID, RequestID: requestID})

	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.inFlight, requestID)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to accept request", "request_id", requestID, "car_id", carID, "error", err)
		return err
	}

	kept := make([]domain.RentalRequest, 0, len(b.requests))
	for _, r := range b.requests {
		switch {
		case r.ID == requestID:
			r.Status = domain.RequestStatusAccepted
		case r.Car.ID == carID:
			continue
		}
		kept = append(kept, r)
	}
	b.requests = kept
	logger.ViewAction(ctx, "requests", "accept", "request_id", requestID, "car_id", carID)
	return nil
}

func (b *RequestBoard) Decline(ctx context.Context, requestID int64) error {
	if err := b.begin(requestID, 0, domain.RequestStatusDeclined); err != nil {
		return err
	}

	err := b.api.DeclineRequest(ctx, requestID)

	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.inFlight, requestID)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to decline request", "request_id", requestID, "error", err)
		return err
	}

	if i := b.indexOf(requestID); i >= 0 {
		b.requests[i].Status = domain.RequestStatusDeclined
	}
	logger.ViewAction(ctx, "requests", "decline", "request_id", requestID)
	return nil
}

// begin checks that the request may move to target and marks it in flight.
// A zero carID skips the car check.
func (b *RequestBoard) begin(requestID, carID int64, target domain.RequestStatus) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	i := b.indexOf(requestID)
	if i < 0 {
		return ErrRequestNotFound
	}
	r := b.requests[i]
	if !domain.CanTransition(r.Status, target) {
		return ErrRequestClosed
	}
	if carID != 0 && r.Car.ID != carID {
		return ErrCarMismatch
	}
	if b.inFlight[requestID] {
		return ErrRequestBusy
	}
	b.inFlight[requestID] = true
	return nil
}

func (b *RequestBoard) indexOf(requestID int64) int {
	for i, r := range b.requests {
		if r.ID == requestID {
			return i
		}
	}
	return -1
}
