package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"carrental-dashboard/internal/domain"
	"carrental-dashboard/internal/logger"

	"github.com/google/uuid"
)

// Client is the rental backend as seen by the dashboard. Every method fails
// with an *Error.
type Client interface {
	Register(ctx context.Context, payload domain.RegisterPayload) (*domain.User, error)
	Login(ctx context.Context, payload domain.LoginPayload) (*domain.User, error)
	ListAvailableCars(ctx context.Context, filter domain.CarFilter) ([]domain.Car, error)
	GetCarDetails(ctx context.Context, carID int64) (*domain.Car, error)
	AddCar(ctx context.Context, payload domain.CarPayload) (*domain.Car, error)
	UploadImage(ctx context.Context, filename string, content io.Reader) (*domain.UploadedImage, error)
	AddCarRequest(ctx context.Context, payload domain.RequestPayload) (*domain.RentalRequest, error)
	ListRequestsForYourCars(ctx context.Context, userID int64) ([]domain.RentalRequest, error)
	AcceptRequest(ctx context.Context, payload domain.AcceptRequestPayload) error
	DeclineRequest(ctx context.Context, requestID int64) error
}

// Operation names, used in logs and on *Error.Op.
const (
	OpRegister       = "register"
	OpLogin          = "login"
	OpListCars       = "list_available_cars"
	OpCarDetails     = "get_car_details"
	OpAddCar         = "add_car"
	OpUploadImage    = "upload_image"
	OpAddCarRequest  = "add_car_request"
	OpListRequests   = "list_requests_for_your_cars"
	OpAcceptRequest  = "accept_request"
	OpDeclineRequest = "decline_request"
)

var defaultMessages = map[string]string{
	OpRegister:       "Registration failed",
	OpLogin:          "Login failed",
	OpListCars:       "Failed to list cars",
	OpCarDetails:     "Failed to load car details",
	OpAddCar:         "Failed to list car",
	OpUploadImage:    "Image upload failed",
	OpAddCarRequest:  "Failed to create rental request",
	OpListRequests:   "Failed to load requests",
	OpAcceptRequest:  "Failed to accept request",
	OpDeclineRequest: "Failed to decline request",
}

const maxResponseBytes = 10 << 20

type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
}

type Option func(*HTTPClient)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *HTTPClient) {
		c.httpClient = hc
	}
}

// NewClient builds a client for the backend at baseURL. There is no client
// side timeout: calls are bounded only by the caller's context.
func NewClient(baseURL string, opts ...Option) *HTTPClient {
	c := &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *HTTPClient) Register(ctx context.Context, payload domain.RegisterPayload) (*domain.User, error) {
	out := &domain.User{}
	if err := c.doJSON(ctx, call{op: OpRegister, method: http.MethodPost, path: "/auth/register", in: payload, out: out, schema: userSchema}); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) Login(ctx context.Context, payload domain.LoginPayload) (*domain.User, error) {
	out := &domain.User{}
	if err := c.doJSON(ctx, call{op: OpLogin, method: http.MethodPost, path: "/auth/login", in: payload, out: out, schema: userSchema}); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) ListAvailableCars(ctx context.Context, filter domain.CarFilter) ([]domain.Car, error) {
	query := url.Values{}
	if filter.Brand != "" {
		query.Set("brand", filter.Brand)
	}
	if filter.Model != "" {
		query.Set("model", filter.Model)
	}
	if filter.OwnerID != 0 {
		query.Set("ownerId", strconv.FormatInt(filter.OwnerID, 10))
	}

	var out []domain.Car
	if err := c.doJSON(ctx, call{op: OpListCars, method: http.MethodGet, path: "/car/get-available-cars", query: query, out: &out, schema: carListSchema}); err != nil {
		return nil, err
	}
	if out == nil {
		out = []domain.Car{}
	}
	return out, nil
}

func (c *HTTPClient) GetCarDetails(ctx context.Context, carID int64) (*domain.Car, error) {
	out := &domain.Car{}
	path := fmt.Sprintf("/car/car-details/%d", carID)
	if err := c.doJSON(ctx, call{op: OpCarDetails, method: http.MethodGet, path: path, out: out, schema: carSchema}); err != nil {
		return nil, err
	}
	return out, nil
}

// AddCar returns the created car, or nil when the backend answers with an empty body.
func (c *HTTPClient) AddCar(ctx context.Context, payload domain.CarPayload) (*domain.Car, error) {
	out := &domain.Car{}
	found, err := c.doOptionalJSON(ctx, call{op: OpAddCar, method: http.MethodPost, path: "/car/add", in: payload, out: out, schema: carSchema})
	if err != nil || !found {
		return nil, err
	}
	return out, nil
}

// UploadImage sends content as the multipart field "file".
func (c *HTTPClient) UploadImage(ctx context.Context, filename string, content io.Reader) (*domain.UploadedImage, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filename)
	if err == nil {
		_, err = io.Copy(part, content)
	}
	if err == nil {
		err = mw.Close()
	}
	if err != nil {
		return nil, &Error{Kind: KindTransport, Op: OpUploadImage, Message: defaultMessages[OpUploadImage], Err: err}
	}

	out := &domain.UploadedImage{}
	req := call{
		op:          OpUploadImage,
		method:      http.MethodPost,
		path:        "/s3/upload-image",
		body:        &buf,
		contentType: mw.FormDataContentType(),
		out:         out,
		schema:      uploadSchema,
	}
	if err := c.doJSON(ctx, req); err != nil {
		return nil, err
	}
	return out, nil
}

// AddCarRequest returns the created request, or nil when the backend answers with an empty body.
func (c *HTTPClient) AddCarRequest(ctx context.Context, payload domain.RequestPayload) (*domain.RentalRequest, error) {
	out := &domain.RentalRequest{}
	found, err := c.doOptionalJSON(ctx, call{op: OpAddCarRequest, method: http.MethodPost, path: "/request/add-car-request", in: payload, out: out, schema: requestSchema})
	if err != nil || !found {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) ListRequestsForYourCars(ctx context.Context, userID int64) ([]domain.RentalRequest, error) {
	var out []domain.RentalRequest
	path := fmt.Sprintf("/request/requests-your-cars/%d", userID)
	if err := c.doJSON(ctx, call{op: OpListRequests, method: http.MethodGet, path: path, out: &out, schema: requestListSchema}); err != nil {
		return nil, err
	}
	if out == nil {
		out = []domain.RentalRequest{}
	}
	return out, nil
}

func (c *HTTPClient) AcceptRequest(ctx context.Context, payload domain.AcceptRequestPayload) error {
	return c.doJSON(ctx, call{op: OpAcceptRequest, method: http.MethodPost, path: "/request/accept-request", in: payload})
}

func (c *HTTPClient) DeclineRequest(ctx context.Context, requestID int64) error {
	path := fmt.Sprintf("/request/decline-request/%d", requestID)
	return c.doJSON(ctx, call{op: OpDeclineRequest, method: http.MethodPost, path: path})
}

// call describes one backend round trip. in is JSON-encoded unless body is set.
// A nil out means the response body is ignored.
type call struct {
	op          string
	method      string
	path        string
	query       url.Values
	in          any
	body        io.Reader
	contentType string
	out         any
	schema      *schema
}

func (c *HTTPClient) doJSON(ctx context.Context, req call) error {
	body, err := c.roundTrip(ctx, req)
	if err != nil {
		return err
	}
	if req.out == nil {
		return nil
	}
	return decode(req, body)
}

// doOptionalJSON is doJSON for endpoints that may answer 2xx with no body.
func (c *HTTPClient) doOptionalJSON(ctx context.Context, req call) (bool, error) {
	body, err := c.roundTrip(ctx, req)
	if err != nil {
		return false, err
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return false, nil
	}
	if err := decode(req, body); err != nil {
		return false, err
	}
	return true, nil
}

func (c *HTTPClient) roundTrip(ctx context.Context, req call) ([]byte, error) {
	fallback := defaultMessages[req.op]
	requestID := uuid.NewString()

	endpoint := c.baseURL + req.path
	if len(req.query) > 0 {
		endpoint += "?" + req.query.Encode()
	}

	body := req.body
	contentType := req.contentType
	if body == nil && req.in != nil {
		encoded, err := json.Marshal(req.in)
		if err != nil {
			return nil, &Error{Kind: KindTransport, Op: req.op, Message: fallback, Err: err}
		}
		body = bytes.NewReader(encoded)
		contentType = "application/json"
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, endpoint, body)
	if err != nil {
		return nil, &Error{Kind: KindTransport, Op: req.op, Message: fallback, Err: err}
	}
	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("X-Request-ID", requestID)

	logger.APICall(ctx, req.op, req.method, req.path, requestID)
	start := time.Now()

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		apiErr := &Error{Kind: KindTransport, Op: req.op, Message: fallback, Err: err}
		logger.APIResult(ctx, req.op, 0, time.Since(start), apiErr, requestID)
		return nil, apiErr
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		apiErr := &Error{Kind: KindTransport, Op: req.op, Status: resp.StatusCode, Message: fallback, Err: err}
		logger.APIResult(ctx, req.op, resp.StatusCode, time.Since(start), apiErr, requestID)
		return nil, apiErr
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &Error{
			Kind:    KindRemote,
			Op:      req.op,
			Status:  resp.StatusCode,
			Message: remoteMessage(respBody, fallback),
		}
		logger.APIResult(ctx, req.op, resp.StatusCode, time.Since(start), apiErr, requestID)
		return nil, apiErr
	}

	logger.APIResult(ctx, req.op, resp.StatusCode, time.Since(start), nil, requestID)
	return respBody, nil
}

func decode(req call, body []byte) error {
	if req.schema != nil {
		if err := req.schema.validate(body); err != nil {
			return &Error{Kind: KindDecode, Op: req.op, Message: decodeMessage, Err: err}
		}
	}
	if err := json.Unmarshal(body, req.out); err != nil {
		return &Error{Kind: KindDecode, Op: req.op, Message: decodeMessage, Err: err}
	}
	return nil
}
