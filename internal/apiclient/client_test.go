package apiclient

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"carrental-dashboard/internal/domain"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBackend(t *testing.T, router *mux.Router) *HTTPClient {
	t.Helper()
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL + "/")
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

const carJSON = `{"id":7,"brand":"Toyota","model":"Corolla","image":"http://img/7.png","yearOfProduction":2020,"costPerHour":15,"description":null,"ownerId":3}`

func TestHTTPClient_Login(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		router := mux.NewRouter()
		router.HandleFunc("/auth/login", func(w http.ResponseWriter, r *http.Request) {
			var body domain.LoginPayload
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "ada@example.com", body.Email)
			assert.Equal(t, "secret1", body.Password)
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
			assert.NotEmpty(t, r.Header.Get("X-Request-ID"))
			writeJSON(w, http.StatusCreated, map[string]any{"id": 1, "firstName": "Ada", "lastName": "Lovelace", "email": "ada@example.com"})
		}).Methods(http.MethodPost)
		client := newTestBackend(t, router)

		user, err := client.Login(ctx, domain.LoginPayload{Email: "ada@example.com", Password: "secret1"})
		require.NoError(t, err)
		assert.Equal(t, int64(1), user.ID)
		assert.Equal(t, "Ada Lovelace", user.DisplayName())
	})

	t.Run("Remote message is surfaced", func(t *testing.T) {
		router := mux.NewRouter()
		router.HandleFunc("/auth/login", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusUnauthorized, map[string]any{"message": "Invalid credentials", "statusCode": 401})
		})
		client := newTestBackend(t, router)

		_, err := client.Login(ctx, domain.LoginPayload{Email: "ada@example.com", Password: "wrong12"})
		require.Error(t, err)
		assert.Equal(t, "Invalid credentials", err.Error())

		var apiErr *Error
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, KindRemote, apiErr.Kind)
		assert.Equal(t, OpLogin, apiErr.Op)
		assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
	})

	t.Run("Default message without body", func(t *testing.T) {
		router := mux.NewRouter()
		router.HandleFunc("/auth/login", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		})
		client := newTestBackend(t, router)

		_, err := client.Login(ctx, domain.LoginPayload{})
		require.Error(t, err)
		assert.Equal(t, "Login failed", err.Error())
	})
}

func TestHTTPClient_Register(t *testing.T) {
	router := mux.NewRouter()
	router.HandleFunc("/auth/register", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusBadRequest, map[string]any{"message": []string{"email must be an email", "password too short"}})
	})
	client := newTestBackend(t, router)

	_, err := client.Register(context.Background(), domain.RegisterPayload{Email: "x"})
	require.Error(t, err)
	assert.Equal(t, "email must be an email, password too short", err.Error())
}

func TestHTTPClient_ListAvailableCars(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name     string
		filter   domain.CarFilter
		expected map[string]string
	}{
		{"No filter", domain.CarFilter{}, map[string]string{}},
		{"Brand only", domain.CarFilter{Brand: "Toyota"}, map[string]string{"brand": "Toyota"}},
		{"Brand and model", domain.CarFilter{Brand: "Bmw", Model: "3 Series"}, map[string]string{"brand": "Bmw", "model": "3 Series"}},
		{"Owner", domain.CarFilter{OwnerID: 9}, map[string]string{"ownerId": "9"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := mux.NewRouter()
			router.HandleFunc("/car/get-available-cars", func(w http.ResponseWriter, r *http.Request) {
				got := map[string]string{}
				for k := range r.URL.Query() {
					got[k] = r.URL.Query().Get(k)
				}
				assert.Equal(t, tt.expected, got)
				w.Write([]byte("[" + carJSON + "]"))
			}).Methods(http.MethodGet)
			client := newTestBackend(t, router)

			cars, err := client.ListAvailableCars(ctx, tt.filter)
			require.NoError(t, err)
			require.Len(t, cars, 1)
			assert.Equal(t, "Corolla", cars[0].Model)
			assert.Equal(t, 15.0, cars[0].CostPerHour)
			assert.Empty(t, cars[0].Description)
		})
	}

	t.Run("Schema mismatch is a decode error", func(t *testing.T) {
		router := mux.NewRouter()
		router.HandleFunc("/car/get-available-cars", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`[{"id":1,"brand":"Audi","model":"A4","costPerHour":"12.50"}]`))
		})
		client := newTestBackend(t, router)

		_, err := client.ListAvailableCars(ctx, domain.CarFilter{})
		require.Error(t, err)
		assert.True(t, IsKind(err, KindDecode))
		assert.Equal(t, "unexpected response from server", err.Error())
	})

	t.Run("Malformed JSON is a decode error", func(t *testing.T) {
		router := mux.NewRouter()
		router.HandleFunc("/car/get-available-cars", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`[{`))
		})
		client := newTestBackend(t, router)

		_, err := client.ListAvailableCars(ctx, domain.CarFilter{})
		assert.True(t, IsKind(err, KindDecode))
	})
}

func TestHTTPClient_GetCarDetails(t *testing.T) {
	router := mux.NewRouter()
	router.HandleFunc("/car/car-details/{id}", func(w http.ResponseWriter, r *http.Request) {
		if mux.Vars(r)["id"] != "7" {
			writeJSON(w, http.StatusNotFound, map[string]any{"message": "Car not found"})
			return
		}
		w.Write([]byte(carJSON))
	})
	client := newTestBackend(t, router)
	ctx := context.Background()

	car, err := client.GetCarDetails(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, int64(3), car.OwnerID)
	assert.Equal(t, 2020, car.YearOfProduction)

	_, err = client.GetCarDetails(ctx, 8)
	require.Error(t, err)
	assert.Equal(t, "Car not found", err.Error())
}

func TestHTTPClient_AddCar(t *testing.T) {
	ctx := context.Background()
	payload := domain.CarPayload{Brand: "Toyota", Model: "Corolla", Image: "http://img", Year: 2020, Cost: 15, UserID: 3}

	t.Run("Empty body", func(t *testing.T) {
		router := mux.NewRouter()
		router.HandleFunc("/car/add", func(w http.ResponseWriter, r *http.Request) {
			var body map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "Toyota", body["brand"])
			assert.Equal(t, float64(2020), body["year"])
			assert.Equal(t, float64(15), body["cost"])
			assert.Equal(t, float64(3), body["userId"])
			assert.NotContains(t, body, "description")
			w.WriteHeader(http.StatusCreated)
		}).Methods(http.MethodPost)
		client := newTestBackend(t, router)

		car, err := client.AddCar(ctx, payload)
		require.NoError(t, err)
		assert.Nil(t, car)
	})

	t.Run("Created car", func(t *testing.T) {
		router := mux.NewRouter()
		router.HandleFunc("/car/add", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusCreated)
			w.Write([]byte(carJSON))
		})
		client := newTestBackend(t, router)

		car, err := client.AddCar(ctx, payload)
		require.NoError(t, err)
		require.NotNil(t, car)
		assert.Equal(t, int64(7), car.ID)
	})

	t.Run("Failure without message", func(t *testing.T) {
		router := mux.NewRouter()
		router.HandleFunc("/car/add", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusBadRequest, map[string]any{"error": "Bad Request"})
		})
		client := newTestBackend(t, router)

		_, err := client.AddCar(ctx, payload)
		require.Error(t, err)
		assert.Equal(t, "Failed to list car", err.Error())
	})
}

func TestHTTPClient_UploadImage(t *testing.T) {
	router := mux.NewRouter()
	router.HandleFunc("/s3/upload-image", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		data, _ := io.ReadAll(file)
		assert.Equal(t, "Toyota-Corolla-2020.png", header.Filename)
		assert.Equal(t, "png-bytes", string(data))
		writeJSON(w, http.StatusCreated, map[string]string{"url": "https://bucket/Toyota-Corolla-2020.png"})
	}).Methods(http.MethodPost)
	client := newTestBackend(t, router)

	img, err := client.UploadImage(context.Background(), "Toyota-Corolla-2020.png", strings.NewReader("png-bytes"))
	require.NoError(t, err)
	assert.Equal(t, "https://bucket/Toyota-Corolla-2020.png", img.URL)
}

func TestHTTPClient_Requests(t *testing.T) {
	ctx := context.Background()
	start := time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)
	end := start.Add(5 * time.Hour)

	router := mux.NewRouter()
	router.HandleFunc("/request/add-car-request", func(w http.ResponseWriter, r *http.Request) {
		var body domain.RequestPayload
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.True(t, start.Equal(body.StartDate))
		assert.True(t, end.Equal(body.EndDate))
		assert.Equal(t, 100.0, body.TotalPrice)
		w.WriteHeader(http.StatusCreated)
	}).Methods(http.MethodPost)
	router.HandleFunc("/request/requests-your-cars/{userId}", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "3", mux.Vars(r)["userId"])
		w.Write([]byte(`[{"id":1,"startDate":"2026-01-10T09:00:00.000Z","endDate":"2026-01-10T14:00:00.000Z","totalPrice":100,"status":"PENDING","car":` + carJSON + `,"user":{"id":4,"firstName":"Bo","lastName":"Renter","email":"bo@example.com"}}]`))
	}).Methods(http.MethodGet)
	router.HandleFunc("/request/accept-request", func(w http.ResponseWriter, r *http.Request) {
		var body domain.AcceptRequestPayload
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, domain.AcceptRequestPayload{CarID: 7, RequestID: 1}, body)
		w.Write([]byte(`{"success":true}`))
	}).Methods(http.MethodPost)
	router.HandleFunc("/request/decline-request/{id}", func(w http.ResponseWriter, r *http.Request) {
		if mux.Vars(r)["id"] == "2" {
			writeJSON(w, http.StatusConflict, map[string]any{"message": "Request already accepted"})
			return
		}
		w.WriteHeader(http.StatusOK)
	}).Methods(http.MethodPost)
	client := newTestBackend(t, router)

	created, err := client.AddCarRequest(ctx, domain.RequestPayload{StartDate: start, EndDate: end, TotalPrice: 100, CarID: 7, UserID: 4})
	require.NoError(t, err)
	assert.Nil(t, created)

	requests, err := client.ListRequestsForYourCars(ctx, 3)
	require.NoError(t, err)
	require.Len(t, requests, 1)
	assert.Equal(t, domain.RequestStatusPending, requests[0].Status)
	assert.Equal(t, int64(7), requests[0].Car.ID)
	assert.Equal(t, "Bo Renter", requests[0].User.DisplayName())
	assert.True(t, end.Equal(requests[0].EndDate))

	require.NoError(t, client.AcceptRequest(ctx, domain.AcceptRequestPayload{CarID: 7, RequestID: 1}))
	require.NoError(t, client.DeclineRequest(ctx, 1))

	err = client.DeclineRequest(ctx, 2)
	require.Error(t, err)
	assert.Equal(t, "Request already accepted", err.Error())
}

func TestHTTPClient_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	client := NewClient(url)
	_, err := client.GetCarDetails(context.Background(), 1)
	require.Error(t, err)
	assert.True(t, IsKind(err, KindTransport))
	assert.Equal(t, "Failed to load car details", err.Error())
}

func TestHTTPClient_ContextCancelled(t *testing.T) {
	router := mux.NewRouter()
	router.HandleFunc("/car/get-available-cars", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("[]"))
	})
	client := newTestBackend(t, router)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := client.ListAvailableCars(ctx, domain.CarFilter{})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRemoteMessage(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		expected string
	}{
		{"String", `{"message":"Car not found"}`, "Car not found"},
		{"List", `{"message":["a","b"]}`, "a, b"},
		{"Blank", `{"message":"  "}`, "fallback"},
		{"Empty list", `{"message":[]}`, "fallback"},
		{"Other shape", `{"message":{"x":1}}`, "fallback"},
		{"Not JSON", `<html>oops</html>`, "fallback"},
		{"Empty", ``, "fallback"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, remoteMessage([]byte(tt.body), "fallback"))
		})
	}
}
