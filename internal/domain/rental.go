package domain

import "time"

type RequestStatus string

const (
	RequestStatusPending  RequestStatus = "PENDING"
	RequestStatusAccepted RequestStatus = "ACCEPTED"
	RequestStatusDeclined RequestStatus = "DECLINED"
)

var requestTransitions = map[RequestStatus]map[RequestStatus]struct{}{
	RequestStatusPending: {
		RequestStatusAccepted: {},
		RequestStatusDeclined: {},
	},
	RequestStatusAccepted: {},
	RequestStatusDeclined: {},
}

// CanTransition reports whether a rental request may move from one status to
// another. ACCEPTED and DECLINED are terminal.
func CanTransition(from, to RequestStatus) bool {
	allowed, ok := requestTransitions[from]
	if !ok {
		return false
	}
	_, ok = allowed[to]
	return ok
}

// IsTerminal reports whether no further accept/decline is permitted.
func (s RequestStatus) IsTerminal() bool {
	return s == RequestStatusAccepted || s == RequestStatusDeclined
}

// RentalRequest is a proposed booking of a car, subject to owner approval.
type RentalRequest struct {
	ID         int64         `json:"id"`
	StartDate  time.Time     `json:"startDate"`
	EndDate    time.Time     `json:"endDate"`
	TotalPrice float64       `json:"totalPrice"`
	Status     RequestStatus `json:"status"`
	Car        Car           `json:"car"`
	User       User          `json:"user"`
}

// RequestPayload is the body of the create-rental-request call.
type RequestPayload struct {
	StartDate  time.Time `json:"startDate"`
	EndDate    time.Time `json:"endDate"`
	TotalPrice float64   `json:"totalPrice"`
	CarID      int64     `json:"carId"`
	UserID     int64     `json:"userId"`
}

type AcceptRequestPayload struct {
	CarID     int64 `json:"carId"`
	RequestID int64 `json:"requestId"`
}
