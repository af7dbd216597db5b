package domain

// Car is a car listed for rent by its owner.
type Car struct {
	ID               int64   `json:"id"`
	Brand            string  `json:"brand"`
	Model            string  `json:"model"`
	Image            string  `json:"image"`
	YearOfProduction int     `json:"yearOfProduction"`
	CostPerHour      float64 `json:"costPerHour"`
	Description      string  `json:"description,omitempty"`
	OwnerID          int64   `json:"ownerId"`
}

// CarFilter narrows the available-cars query. Empty fields are not sent.
type CarFilter struct {
	Brand   string
	Model   string
	OwnerID int64
}

// CarPayload is the body of the create-car-listing call.
type CarPayload struct {
	Brand       string  `json:"brand"`
	Model       string  `json:"model"`
	Image       string  `json:"image"`
	Year        int     `json:"year"`
	Cost        float64 `json:"cost"`
	Description string  `json:"description,omitempty"`
	UserID      int64   `json:"userId"`
}

// UploadedImage is returned by the image upload endpoint.
type UploadedImage struct {
	URL string `json:"url"`
}
