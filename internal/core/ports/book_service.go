package ports

import (
	"context"

	"github.com/openshelf/book-catalog/internal/core/domain"
)

// BookInput is the DTO passed from the transport layer for create and update.
// Every call supplies the full field set: updates are whole-record replaces,
// not patches. PublishedDate is the wire form, a YYYY-MM-DD calendar date.
type BookInput struct {
	Title         string
	Author        string
	PublishedDate string
	Genre         string
	Price         float64
}

// BookService defines the use-case operations for the book catalog.
type BookService interface {
	Create(ctx context.Context, input BookInput) (*domain.Book, error)
	List(ctx context.Context) ([]*domain.Book, error)
	Get(ctx context.Context, id string) (*domain.Book, error)
	Update(ctx context.Context, id string, input BookInput) (*domain.Book, error)
	Delete(ctx context.Context, id string) error
	StatsForYear(ctx context.Context, year int) (*domain.YearStats, error)
}
