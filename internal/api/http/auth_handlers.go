package http

import (
	"net/http"

	"carrental-dashboard/internal/service"
)

func (d *Dashboard) loginPage(w http.ResponseWriter, r *http.Request) {
	if d.sessions.LoggedIn() {
		redirect(w, r, "/dashboard/available-cars")
		return
	}
	data := pageData{Title: "Login"}
	if r.URL.Query().Get("registered") != "" {
		data.Success = "Account created, please log in"
	}
	d.views.render(w, r, http.StatusOK, "login.html", data)
}

func (d *Dashboard) login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}
	email := r.PostForm.Get("email")

	if _, err := d.auth.Login(r.Context(), email, r.PostForm.Get("password")); err != nil {
		status, fields, notice := describe(err)
		d.views.render(w, r, status, "login.html", pageData{
			Title:  "Login",
			Notice: notice,
			Errors: fields,
			Form:   map[string]string{"email": email},
		})
		return
	}
	d.resetWorkspace()
	redirect(w, r, "/dashboard/available-cars")
}

func (d *Dashboard) registerPage(w http.ResponseWriter, r *http.Request) {
	d.views.render(w, r, http.StatusOK, "register.html", pageData{Title: "Register"})
}

func (d *Dashboard) register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}
	in := service.RegisterInput{
		FirstName: r.PostForm.Get("firstName"),
		LastName:  r.PostForm.Get("lastName"),
		Email:     r.PostForm.Get("email"),
		Password:  r.PostForm.Get("password"),
	}

	if _, err := d.auth.Register(r.Context(), in); err != nil {
		status, fields, notice := describe(err)
		d.views.render(w, r, status, "register.html", pageData{
			Title:  "Register",
			Notice: notice,
			Errors: fields,
			Form: map[string]string{
				"firstName": in.FirstName,
				"lastName":  in.LastName,
				"email":     in.Email,
			},
		})
		return
	}
	redirect(w, r, "/login?registered=1")
}

func (d *Dashboard) logout(w http.ResponseWriter, r *http.Request) {
	if err := d.auth.Logout(r.Context()); err != nil {
		http.Error(w, "Failed to log out", http.StatusInternalServerError)
		return
	}
	d.resetWorkspace()
	redirect(w, r, "/login")
}
