package ports

import (
	"context"

	"github.com/openshelf/book-catalog/internal/core/domain"
)

// BookRepository defines persistence operations for catalog books. The id
// parameters carry the storage-native identifier as an opaque string; a
// malformed id is reported as domain.ErrBookNotFound, not a distinct error.
type BookRepository interface {
	// Insert persists a new book and returns the stored representation with
	// the storage-assigned id.
	Insert(ctx context.Context, book *domain.Book) (*domain.Book, error)

	// FindAll returns every book in storage-native order, materialized at
	// call time.
	FindAll(ctx context.Context) ([]*domain.Book, error)

	FindByID(ctx context.Context, id string) (*domain.Book, error)

	// Replace overwrites every mutable field of the identified book (whole
	// record replace, not patch) and returns the updated record.
	Replace(ctx context.Context, id string, book *domain.Book) (*domain.Book, error)

	Delete(ctx context.Context, id string) error

	// AggregateYearStats computes count/min/max/avg price over books whose
	// published_date lies in [Jan 1 year, Jan 1 year+1). Returns
	// domain.ErrNoBooksInYear when no books match.
	AggregateYearStats(ctx context.Context, year int) (*domain.YearStats, error)
}
