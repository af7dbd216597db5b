package http

import (
	"net/http"
	"strconv"

	"carrental-dashboard/internal/domain"
	"carrental-dashboard/internal/service"

	"github.com/gorilla/mux"
)

type requestRow struct {
	domain.RentalRequest
	CanAct bool
}

func requestRows(board *service.RequestBoard) []requestRow {
	requests := board.Requests()
	rows := make([]requestRow, 0, len(requests))
	for _, req := range requests {
		rows = append(rows, requestRow{RentalRequest: req, CanAct: board.CanAct(req.ID)})
	}
	return rows
}

func (d *Dashboard) requests(w http.ResponseWriter, r *http.Request) {
	_, board := d.workspace(currentUser(r))
	d.renderBoard(w, r, board, board.Load(r.Context()))
}

// acceptRequest and declineRequest re-render from local state so the board
// reflects exactly what the backend confirmed.
func (d *Dashboard) acceptRequest(w http.ResponseWriter, r *http.Request) {
	requestID, ok := pathID(w, r)
	if !ok {
		return
	}
	carID, err := strconv.ParseInt(r.PostFormValue("carId"), 10, 64)
	if err != nil || carID <= 0 {
		http.Error(w, "Invalid car id", http.StatusBadRequest)
		return
	}
	_, board := d.workspace(currentUser(r))
	d.renderBoard(w, r, board, board.Accept(r.Context(), carID, requestID))
}

func (d *Dashboard) declineRequest(w http.ResponseWriter, r *http.Request) {
	requestID, ok := pathID(w, r)
	if !ok {
		return
	}
	_, board := d.workspace(currentUser(r))
	d.renderBoard(w, r, board, board.Decline(r.Context(), requestID))
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || id <= 0 {
		http.Error(w, "Invalid request id", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

func (d *Dashboard) renderBoard(w http.ResponseWriter, r *http.Request, board *service.RequestBoard, err error) {
	status, notice := http.StatusOK, ""
	if err != nil {
		status, _, notice = describe(err)
	}
	d.views.render(w, r, status, "requests.html", pageData{
		Title:  "Requests for your cars",
		Notice: notice,
		Data:   requestRows(board),
	})
}
