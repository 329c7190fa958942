package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog"

	"github.com/openshelf/book-catalog/internal/core/domain"
	"github.com/openshelf/book-catalog/internal/core/ports"
)

// publishedDateLayout is the wire format for published_date.
const publishedDateLayout = "2006-01-02"

// BookService implements the catalog use cases on top of a BookRepository.
type BookService struct {
	repo   ports.BookRepository
	logger zerolog.Logger
	now    func() time.Time
}

func NewBookService(repo ports.BookRepository, logger zerolog.Logger) *BookService {
	return &BookService{repo: repo, logger: logger, now: time.Now}
}

// Create validates the input, assigns creation timestamps, and persists the
// book. The id is assigned by storage and returned with the stored record.
func (s *BookService) Create(ctx context.Context, input ports.BookInput) (*domain.Book, error) {
	book, err := s.buildBook(input)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	book.CreatedAt = now
	book.UpdatedAt = now

	created, err := s.repo.Insert(ctx, book)
	if err != nil {
		s.logger.Error().Err(err).Str("title", input.Title).Msg("failed to create book")
		return nil, err
	}

	s.logger.Info().Str("id", created.ID).Str("title", created.Title).Msg("book created")
	return created, nil
}

// List returns all books in storage-native order.
func (s *BookService) List(ctx context.Context) ([]*domain.Book, error) {
	return s.repo.FindAll(ctx)
}

// Get returns the book or domain.ErrBookNotFound when the id is absent or
// malformed.
func (s *BookService) Get(ctx context.Context, id string) (*domain.Book, error) {
	return s.repo.FindByID(ctx, id)
}

// Update re-validates the full field set and replaces every mutable field of
// the identified book. Only updated_at changes automatically; created_at is
// preserved by the repository.
func (s *BookService) Update(ctx context.Context, id string, input ports.BookInput) (*domain.Book, error) {
	book, err := s.buildBook(input)
	if err != nil {
		return nil, err
	}
	book.UpdatedAt = s.now().UTC()

	updated, err := s.repo.Replace(ctx, id, book)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("id", updated.ID).Msg("book updated")
	return updated, nil
}

// Delete removes the record. Deleting an already-deleted id reports
// domain.ErrBookNotFound again; the repeated not-found is deliberate.
func (s *BookService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Str("id", id).Msg("book deleted")
	return nil
}

// StatsForYear aggregates price statistics over books published within the
// calendar year. The average is rounded to 2 decimal places.
func (s *BookService) StatsForYear(ctx context.Context, year int) (*domain.YearStats, error) {
	stats, err := s.repo.AggregateYearStats(ctx, year)
	if err != nil {
		return nil, err
	}

	stats.Year = year
	stats.AveragePrice = math.Round(stats.AveragePrice*100) / 100
	return stats, nil
}

// buildBook parses the wire-format date and applies the domain invariants.
func (s *BookService) buildBook(input ports.BookInput) (*domain.Book, error) {
	published, err := time.ParseInLocation(publishedDateLayout, input.PublishedDate, time.UTC)
	if err != nil {
		return nil, fmt.Errorf("%w: published_date must be a YYYY-MM-DD date", domain.ErrValidation)
	}

	book := &domain.Book{
		Title:         input.Title,
		Author:        input.Author,
		PublishedDate: published,
		Genre:         input.Genre,
		Price:         input.Price,
	}
	if err := book.Validate(s.now()); err != nil {
		return nil, err
	}
	return book, nil
}
