package handler

import "time"

// errorResponse is the standard error envelope returned on 4xx/5xx responses
// that carry a body. Detail-route 404s carry no body at all.
type errorResponse struct {
	Error string `json:"error"`
}

// messageResponse carries informational bodies, e.g. the empty-year stats 404.
type messageResponse struct {
	Message string `json:"message"`
}

// --- Request types ---

// bookRequest is the full field set for both create and update: updates are
// whole-record replaces, so no field is optional.
type bookRequest struct {
	Title         string  `json:"title"          validate:"required,max=200"`
	Author        string  `json:"author"         validate:"required,max=200"`
	PublishedDate string  `json:"published_date" validate:"required"`
	Genre         string  `json:"genre"          validate:"required,max=100"`
	Price         float64 `json:"price"          validate:"gte=0"`
}

// --- Response types ---

type bookResponse struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Author        string    `json:"author"`
	PublishedDate string    `json:"published_date"`
	Genre         string    `json:"genre"`
	Price         float64   `json:"price"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type yearStatsResponse struct {
	Year         int     `json:"year"`
	AveragePrice float64 `json:"average_price"`
	MinimumPrice float64 `json:"minimum_price"`
	MaximumPrice float64 `json:"maximum_price"`
	TotalBooks   int64   `json:"total_books"`
}
