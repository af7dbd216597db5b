package http

import (
	"bytes"
	"embed"
	"errors"
	"html/template"
	"net/http"

	"carrental-dashboard/internal/apiclient"
	"carrental-dashboard/internal/domain"
	"carrental-dashboard/internal/logger"
	"carrental-dashboard/internal/service"
	"carrental-dashboard/internal/session"
	"carrental-dashboard/internal/utils"
	"carrental-dashboard/internal/validation"
)

//go:embed templates/*.html
var templateFS embed.FS

var pages = []string{
	"login.html",
	"register.html",
	"available_cars.html",
	"car_details.html",
	"list_car.html",
	"requests.html",
}

var templateFuncs = template.FuncMap{
	"formatDate":  utils.FormatDate,
	"formatPrice": utils.FormatPrice,
}

type views struct {
	pages map[string]*template.Template
}

func loadViews() (*views, error) {
	v := &views{pages: make(map[string]*template.Template, len(pages))}
	for _, page := range pages {
		t, err := template.New(page).Funcs(templateFuncs).ParseFS(templateFS, "templates/layout.html", "templates/"+page)
		if err != nil {
			return nil, err
		}
		v.pages[page] = t
	}
	return v, nil
}

// pageData is handed to every template.
type pageData struct {
	Title   string
	User    *domain.User
	Notice  string
	Success string
	Errors  validation.Errors
	Form    map[string]string
	Data    any
}

// render buffers the page so a template error never leaves a half-written response.
func (v *views) render(w http.ResponseWriter, r *http.Request, status int, page string, data pageData) {
	t, ok := v.pages[page]
	if !ok {
		logger.ErrorContext(r.Context(), "Unknown template", "page", page)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	if data.User == nil {
		data.User = currentUser(r)
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		logger.ErrorContext(r.Context(), "Failed to render template", "page", page, "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// describe turns err into a status and either field errors or a notice.
func describe(err error) (int, validation.Errors, string) {
	if fields, ok := validation.AsErrors(err); ok {
		return http.StatusUnprocessableEntity, fields, ""
	}

	var apiErr *apiclient.Error
	switch {
	case errors.Is(err, session.ErrNoSession):
		return http.StatusUnauthorized, nil, err.Error()
	case errors.Is(err, service.ErrRequestNotFound):
		return http.StatusNotFound, nil, err.Error()
	case errors.Is(err, service.ErrRequestClosed),
		errors.Is(err, service.ErrRequestBusy),
		errors.Is(err, service.ErrCarMismatch):
		return http.StatusConflict, nil, err.Error()
	case errors.Is(err, service.ErrModelWithoutBrand):
		return http.StatusUnprocessableEntity, nil, err.Error()
	case errors.As(err, &apiErr):
		if apiErr.Kind == apiclient.KindRemote && apiErr.Status >= 400 && apiErr.Status < 500 {
			return apiErr.Status, nil, apiErr.Message
		}
		return http.StatusBadGateway, nil, apiErr.Message
	default:
		return http.StatusInternalServerError, nil, err.Error()
	}
}
