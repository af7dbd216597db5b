package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"carrental-dashboard/internal/domain"
	"carrental-dashboard/internal/service"
	"carrental-dashboard/internal/utils"
	"carrental-dashboard/internal/validation"

	"github.com/gorilla/mux"
)

type availableCarsView struct {
	Brands []string
	State  service.BrowserState
}

// availableCars maps the query string onto the filter controller. Only the
// part of the filter that changed is applied.
func (d *Dashboard) availableCars(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	brand := r.URL.Query().Get("brand")
	model := r.URL.Query().Get("model")
	browser, _ := d.workspace(currentUser(r))
	current := browser.State()

	var err error
	switch {
	case brand != current.Brand:
		err = browser.SelectBrand(ctx, brand)
		if err == nil && model != "" {
			err = browser.SelectModel(ctx, model)
		}
	case model != current.Model && model == "":
		err = browser.ClearModel(ctx)
	case model != current.Model:
		err = browser.SelectModel(ctx, model)
	default:
		err = browser.Refresh(ctx)
	}

	status, notice := http.StatusOK, ""
	if err != nil {
		status, _, notice = describe(err)
	}
	d.views.render(w, r, status, "available_cars.html", pageData{
		Title:  "Available cars",
		Notice: notice,
		Data:   availableCarsView{Brands: domain.Brands, State: browser.State()},
	})
}

type carDetailsView struct {
	Car      *domain.Car
	Price    float64
	HasPrice bool
}

func (d *Dashboard) carDetails(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	d.booking(w, r, query.Get("start"), query.Get("end"), false)
}

func (d *Dashboard) rentCar(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}
	d.booking(w, r, r.PostForm.Get("start"), r.PostForm.Get("end"), true)
}

// booking loads the car, applies the dates and, when submit is set, sends the
// rental request. A successful rent goes back to the car list.
func (d *Dashboard) booking(w http.ResponseWriter, r *http.Request, start, end string, submit bool) {
	ctx := r.Context()
	carID, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	booking := service.NewBooking(d.api, d.sessions)
	data := pageData{
		Title: "Car details",
		Form:  map[string]string{"start": start, "end": end},
	}

	if _, err := booking.Load(ctx, carID); err != nil {
		status, _, notice := describe(err)
		data.Notice = notice
		d.views.render(w, r, status, "car_details.html", data)
		return
	}

	fields := setDates(booking, start, end)
	status := http.StatusOK
	if submit && len(fields) == 0 {
		if _, err := booking.Submit(ctx); err != nil {
			status, fields, data.Notice = describe(err)
		} else {
			redirect(w, r, "/dashboard/available-cars")
			return
		}
	} else if submit {
		status = http.StatusUnprocessableEntity
	}

	price, ok := booking.Quote()
	data.Errors = fields
	data.Data = carDetailsView{Car: booking.Car(), Price: price, HasPrice: ok}
	d.views.render(w, r, status, "car_details.html", data)
}

func setDates(b *service.Booking, start, end string) validation.Errors {
	fields := validation.Errors{}
	if start != "" {
		t, err := utils.ParseDateTime(start, time.Local)
		if err != nil {
			fields.Add("startDate", "Invalid start date")
		} else if err := b.SetStart(t); err != nil {
			if fe, ok := validation.AsErrors(err); ok {
				for k, v := range fe {
					fields.Add(k, v)
				}
			}
		}
	}
	if end != "" {
		t, err := utils.ParseDateTime(end, time.Local)
		if err != nil {
			fields.Add("endDate", "Invalid end date")
		} else {
			b.SetEnd(t)
		}
	}
	return fields
}

type listCarView struct {
	Brands []string
	Models map[string][]string
	Years  []int
}

func (d *Dashboard) listCarView() listCarView {
	models := make(map[string][]string, len(domain.Brands))
	for _, brand := range domain.Brands {
		models[brand] = domain.ModelsFor(brand)
	}
	return listCarView{Brands: domain.Brands, Models: models, Years: service.YearOptions(d.now())}
}

func (d *Dashboard) listCarPage(w http.ResponseWriter, r *http.Request) {
	d.views.render(w, r, http.StatusOK, "list_car.html", pageData{Title: "List a car", Data: d.listCarView()})
}

const maxUploadBytes = 10 << 20

func (d *Dashboard) listCar(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}
	in := service.ListingInput{
		Brand:       r.FormValue("brand"),
		Model:       r.FormValue("model"),
		Year:        r.FormValue("year"),
		Cost:        r.FormValue("cost"),
		Description: r.FormValue("description"),
	}

	file, header, err := r.FormFile("image")
	switch {
	case err == nil:
		defer file.Close()
		in.Image = &service.ImageUpload{Filename: header.Filename, Content: file}
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
	default:
		http.Error(w, "Invalid image", http.StatusBadRequest)
		return
	}

	data := pageData{Title: "List a car", Data: d.listCarView()}
	if _, err := d.listing.CreateListing(r.Context(), in); err != nil {
		var status int
		status, data.Errors, data.Notice = describe(err)
		data.Form = map[string]string{
			"brand":       in.Brand,
			"model":       in.Model,
			"year":        in.Year,
			"cost":        in.Cost,
			"description": in.Description,
		}
		d.views.render(w, r, status, "list_car.html", data)
		return
	}
	data.Success = service.ListingSuccessMessage
	d.views.render(w, r, http.StatusOK, "list_car.html", data)
}
