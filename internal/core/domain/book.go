package domain

import (
	"errors"
	"fmt"
	"time"
	"unicode/utf8"
)

// Field limits, counted in characters, enforced on every create and update.
const (
	MaxTitleLen  = 200
	MaxAuthorLen = 200
	MaxGenreLen  = 100
)

var ErrValidation = errors.New("validation failed")
var ErrBookNotFound = errors.New("book not found")
var ErrNoBooksInYear = errors.New("no books published in year")

// Book is the core catalog record. The ID is the storage-native identifier
// (a Mongo ObjectID rendered as hex) and is never interpreted by business
// logic beyond equality.
type Book struct {
	ID            string    `json:"id" bson:"_id,omitempty"`
	Title         string    `json:"title" bson:"title"`
	Author        string    `json:"author" bson:"author"`
	PublishedDate time.Time `json:"published_date" bson:"published_date"`
	Genre         string    `json:"genre" bson:"genre"`
	Price         float64   `json:"price" bson:"price"`
	CreatedAt     time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" bson:"updated_at"`
}

// YearStats holds the aggregated price figures for one calendar year.
type YearStats struct {
	Year         int     `json:"year"`
	AveragePrice float64 `json:"average_price"`
	MinimumPrice float64 `json:"minimum_price"`
	MaximumPrice float64 `json:"maximum_price"`
	TotalBooks   int64   `json:"total_books"`
}

// Validate checks the domain invariants that are independent of the wire
// format: field presence, length limits, non-negative price, and the
// published date not lying in the future. The date is compared as a naive
// calendar date in UTC, evaluated now (not at creation time).
func (b *Book) Validate(now time.Time) error {
	if b.Title == "" || utf8.RuneCountInString(b.Title) > MaxTitleLen {
		return fmt.Errorf("%w: title is required and must be at most 200 characters", ErrValidation)
	}
	if b.Author == "" || utf8.RuneCountInString(b.Author) > MaxAuthorLen {
		return fmt.Errorf("%w: author is required and must be at most 200 characters", ErrValidation)
	}
	if b.Genre == "" || utf8.RuneCountInString(b.Genre) > MaxGenreLen {
		return fmt.Errorf("%w: genre is required and must be at most 100 characters", ErrValidation)
	}
	if b.Price < 0 {
		return fmt.Errorf("%w: price cannot be negative", ErrValidation)
	}
	today := now.UTC().Truncate(24 * time.Hour)
	if b.PublishedDate.After(today) {
		return fmt.Errorf("%w: published date cannot be in the future", ErrValidation)
	}
	return nil
}
