package http

import (
	"net/http"
	"sync"
	"time"

	"carrental-dashboard/internal/apiclient"
	"carrental-dashboard/internal/domain"
	"carrental-dashboard/internal/service"
	"carrental-dashboard/internal/session"

	"github.com/gorilla/mux"
	"github.com/justinas/alice"
)

// Dashboard serves the browser UI for one local session.
type Dashboard struct {
	api      apiclient.Client
	sessions *session.Manager
	auth     service.AuthService
	listing  service.ListingService
	views    *views
	now      func() time.Time

	// browser and board belong to ownerID and are rebuilt when the
	// session user changes.
	mu      sync.Mutex
	ownerID int64
	browser *service.CarBrowser
	board   *service.RequestBoard
}

func NewDashboard(api apiclient.Client, sessions *session.Manager) (*Dashboard, error) {
	v, err := loadViews()
	if err != nil {
		return nil, err
	}
	return &Dashboard{
		api:      api,
		sessions: sessions,
		auth:     service.NewAuthService(api, sessions),
		listing:  service.NewListingService(api, sessions),
		views:    v,
		now:      time.Now,
	}, nil
}

// Routes wires every page behind the shared middleware chain.
func (d *Dashboard) Routes() http.Handler {
	standard := alice.New(recoverPanic, logRequest, secureHeaders)
	protected := standard.Append(requireSession(d.sessions))

	router := mux.NewRouter()
	router.Handle("/", standard.ThenFunc(d.index)).Methods(http.MethodGet)

	router.Handle("/login", standard.ThenFunc(d.loginPage)).Methods(http.MethodGet)
	router.Handle("/login", standard.ThenFunc(d.login)).Methods(http.MethodPost)
	router.Handle("/register", standard.ThenFunc(d.registerPage)).Methods(http.MethodGet)
	router.Handle("/register", standard.ThenFunc(d.register)).Methods(http.MethodPost)
	router.Handle("/logout", protected.ThenFunc(d.logout)).Methods(http.MethodPost)

	dash := router.PathPrefix("/dashboard").Subrouter()
	dash.Handle("/available-cars", protected.ThenFunc(d.availableCars)).Methods(http.MethodGet)
	dash.Handle("/car-details/{id:[0-9]+}", protected.ThenFunc(d.carDetails)).Methods(http.MethodGet)
	dash.Handle("/car-details/{id:[0-9]+}", protected.ThenFunc(d.rentCar)).Methods(http.MethodPost)
	dash.Handle("/list-a-car", protected.ThenFunc(d.listCarPage)).Methods(http.MethodGet)
	dash.Handle("/list-a-car", protected.ThenFunc(d.listCar)).Methods(http.MethodPost)
	dash.Handle("/requests", protected.ThenFunc(d.requests)).Methods(http.MethodGet)
	dash.Handle("/requests/{id:[0-9]+}/accept", protected.ThenFunc(d.acceptRequest)).Methods(http.MethodPost)
	dash.Handle("/requests/{id:[0-9]+}/decline", protected.ThenFunc(d.declineRequest)).Methods(http.MethodPost)

	return router
}

// workspace returns the view state of user, discarding any state left by
// another user.
func (d *Dashboard) workspace(user *domain.User) (*service.CarBrowser, *service.RequestBoard) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.browser == nil || d.ownerID != user.ID {
		d.ownerID = user.ID
		d.browser = service.NewCarBrowser(d.api)
		d.board = service.NewRequestBoard(d.api, d.sessions)
	}
	return d.browser, d.board
}

func (d *Dashboard) resetWorkspace() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.ownerID = 0
	d.browser = nil
	d.board = nil
}

func (d *Dashboard) index(w http.ResponseWriter, r *http.Request) {
	redirect(w, r, "/dashboard/available-cars")
}
