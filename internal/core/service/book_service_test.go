package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/openshelf/book-catalog/internal/core/domain"
	"github.com/openshelf/book-catalog/internal/core/ports"
)

// stubBookRepo is an in-memory BookRepository. Year stats are computed in a
// single pass, mirroring the storage aggregation contract.
type stubBookRepo struct {
	books  map[string]*domain.Book
	nextID int
}

func newStubBookRepo() *stubBookRepo {
	return &stubBookRepo{books: make(map[string]*domain.Book)}
}

func cloneBook(b *domain.Book) *domain.Book {
	clone := *b
	return &clone
}

func (r *stubBookRepo) Insert(_ context.Context, b *domain.Book) (*domain.Book, error) {
	r.nextID++
	stored := cloneBook(b)
	stored.ID = fmt.Sprintf("book-%d", r.nextID)
	r.books[stored.ID] = cloneBook(stored)
	return stored, nil
}

func (r *stubBookRepo) FindAll(_ context.Context) ([]*domain.Book, error) {
	out := make([]*domain.Book, 0, len(r.books))
	for _, b := range r.books {
		out = append(out, cloneBook(b))
	}
	return out, nil
}

func (r *stubBookRepo) FindByID(_ context.Context, id string) (*domain.Book, error) {
	b, ok := r.books[id]
	if !ok {
		return nil, domain.ErrBookNotFound
	}
	return cloneBook(b), nil
}

func (r *stubBookRepo) Replace(_ context.Context, id string, b *domain.Book) (*domain.Book, error) {
	existing, ok := r.books[id]
	if !ok {
		return nil, domain.ErrBookNotFound
	}
	updated := cloneBook(b)
	updated.ID = id
	updated.CreatedAt = existing.CreatedAt
	r.books[id] = cloneBook(updated)
	return updated, nil
}

func (r *stubBookRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.books[id]; !ok {
		return domain.ErrBookNotFound
	}
	delete(r.books, id)
	return nil
}

func (r *stubBookRepo) AggregateYearStats(_ context.Context, year int) (*domain.YearStats, error) {
	from := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(year+1, time.January, 1, 0, 0, 0, 0, time.UTC)

	stats := &domain.YearStats{Year: year}
	var sum float64
	for _, b := range r.books {
		if b.PublishedDate.Before(from) || !b.PublishedDate.Before(to) {
			continue
		}
		if stats.TotalBooks == 0 || b.Price < stats.MinimumPrice {
			stats.MinimumPrice = b.Price
		}
		if stats.TotalBooks == 0 || b.Price > stats.MaximumPrice {
			stats.MaximumPrice = b.Price
		}
		sum += b.Price
		stats.TotalBooks++
	}
	if stats.TotalBooks == 0 {
		return nil, domain.ErrNoBooksInYear
	}
	stats.AveragePrice = sum / float64(stats.TotalBooks)
	return stats, nil
}

func newTestBookService(repo ports.BookRepository) *BookService {
	return NewBookService(repo, zerolog.Nop())
}

func validInput() ports.BookInput {
	return ports.BookInput{
		Title:         "Test Book",
		Author:        "Test Author",
		PublishedDate: "2023-01-01",
		Genre:         "Fiction",
		Price:         29.99,
	}
}

func TestBookService_CreateThenGet(t *testing.T) {
	svc := newTestBookService(newStubBookRepo())

	created, err := svc.Create(context.Background(), validInput())
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if created.ID == "" {
		t.Fatalf("expected assigned id")
	}
	if created.CreatedAt.IsZero() || !created.CreatedAt.Equal(created.UpdatedAt) {
		t.Fatalf("expected created_at == updated_at, got %v / %v", created.CreatedAt, created.UpdatedAt)
	}

	got, err := svc.Get(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if got.Title != "Test Book" || got.Author != "Test Author" || got.Genre != "Fiction" || got.Price != 29.99 {
		t.Fatalf("round trip mismatch: %+v", got)
	}
	if !got.PublishedDate.Equal(time.Date(2023, time.January, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected published date: %v", got.PublishedDate)
	}
}

func TestBookService_Create_Validation(t *testing.T) {
	svc := newTestBookService(newStubBookRepo())
	tomorrow := time.Now().UTC().AddDate(0, 0, 1).Format("2006-01-02")

	cases := []struct {
		name   string
		mutate func(*ports.BookInput)
	}{
		{"negative price", func(in *ports.BookInput) { in.Price = -10 }},
		{"future date", func(in *ports.BookInput) { in.PublishedDate = tomorrow }},
		{"unparsable date", func(in *ports.BookInput) { in.PublishedDate = "01/02/2023" }},
		{"empty title", func(in *ports.BookInput) { in.Title = "" }},
		{"title too long", func(in *ports.BookInput) {
			for len(in.Title) <= 200 {
				in.Title += "aaaa"
			}
		}},
		{"title too long in characters", func(in *ports.BookInput) {
			in.Title = strings.Repeat("б", 201)
		}},
		{"empty author", func(in *ports.BookInput) { in.Author = "" }},
		{"empty genre", func(in *ports.BookInput) { in.Genre = "" }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := validInput()
			tc.mutate(&in)
			if _, err := svc.Create(context.Background(), in); !errors.Is(err, domain.ErrValidation) {
				t.Fatalf("expected ErrValidation, got %v", err)
			}
		})
	}
}

func TestBookService_Create_MultibyteTitleWithinLimit(t *testing.T) {
	svc := newTestBookService(newStubBookRepo())

	// 120 characters but 240 bytes; the limit counts characters.
	in := validInput()
	in.Title = strings.Repeat("б", 120)
	created, err := svc.Create(context.Background(), in)
	if err != nil {
		t.Fatalf("multibyte title within the limit should validate: %v", err)
	}
	if created.Title != in.Title {
		t.Fatalf("title not stored intact")
	}
}

func TestBookService_Create_TodayIsValid(t *testing.T) {
	svc := newTestBookService(newStubBookRepo())

	in := validInput()
	in.PublishedDate = time.Now().UTC().Format("2006-01-02")
	if _, err := svc.Create(context.Background(), in); err != nil {
		t.Fatalf("book dated today should validate: %v", err)
	}
}

func TestBookService_Update_ReplacesFieldsAndKeepsCreatedAt(t *testing.T) {
	repo := newStubBookRepo()
	svc := newTestBookService(repo)

	created, err := svc.Create(context.Background(), validInput())
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	in := validInput()
	in.Title = "Updated Title"
	in.Price = 12.50
	updated, err := svc.Update(context.Background(), created.ID, in)
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if updated.Title != "Updated Title" || updated.Price != 12.50 {
		t.Fatalf("fields not replaced: %+v", updated)
	}
	if !updated.CreatedAt.Equal(created.CreatedAt) {
		t.Fatalf("created_at changed on update")
	}
	if updated.UpdatedAt.Before(created.UpdatedAt) {
		t.Fatalf("updated_at went backwards")
	}

	got, err := svc.Get(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if got.Title != "Updated Title" {
		t.Fatalf("update not persisted: %+v", got)
	}
}

func TestBookService_Update_NotFound(t *testing.T) {
	svc := newTestBookService(newStubBookRepo())

	if _, err := svc.Update(context.Background(), "missing", validInput()); !errors.Is(err, domain.ErrBookNotFound) {
		t.Fatalf("expected ErrBookNotFound, got %v", err)
	}
}

func TestBookService_Update_InvalidInputLeavesRecordUntouched(t *testing.T) {
	svc := newTestBookService(newStubBookRepo())

	created, err := svc.Create(context.Background(), validInput())
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	in := validInput()
	in.Price = -1
	if _, err := svc.Update(context.Background(), created.ID, in); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}

	got, _ := svc.Get(context.Background(), created.ID)
	if got.Price != 29.99 {
		t.Fatalf("invalid update mutated the record: %+v", got)
	}
}

func TestBookService_Delete_TwiceYieldsNotFound(t *testing.T) {
	svc := newTestBookService(newStubBookRepo())

	created, err := svc.Create(context.Background(), validInput())
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	if err := svc.Delete(context.Background(), created.ID); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if _, err := svc.Get(context.Background(), created.ID); !errors.Is(err, domain.ErrBookNotFound) {
		t.Fatalf("expected ErrBookNotFound after delete, got %v", err)
	}
	if err := svc.Delete(context.Background(), created.ID); !errors.Is(err, domain.ErrBookNotFound) {
		t.Fatalf("second delete should yield ErrBookNotFound, got %v", err)
	}
}

func TestBookService_StatsForYear(t *testing.T) {
	svc := newTestBookService(newStubBookRepo())

	fixtures := []ports.BookInput{
		{Title: "A", Author: "X", PublishedDate: "2023-01-01", Genre: "Fiction", Price: 20},
		{Title: "B", Author: "Y", PublishedDate: "2023-06-01", Genre: "Fiction", Price: 30},
		{Title: "C", Author: "Z", PublishedDate: "2022-12-31", Genre: "Fiction", Price: 99},
	}
	for _, in := range fixtures {
		if _, err := svc.Create(context.Background(), in); err != nil {
			t.Fatalf("Create returned error: %v", err)
		}
	}

	stats, err := svc.StatsForYear(context.Background(), 2023)
	if err != nil {
		t.Fatalf("StatsForYear returned error: %v", err)
	}
	if stats.Year != 2023 {
		t.Fatalf("unexpected year: %d", stats.Year)
	}
	if stats.TotalBooks != 2 {
		t.Fatalf("expected 2 books, got %d", stats.TotalBooks)
	}
	if stats.AveragePrice != 25.00 {
		t.Fatalf("expected average 25.00, got %v", stats.AveragePrice)
	}
	if stats.MinimumPrice != 20 || stats.MaximumPrice != 30 {
		t.Fatalf("unexpected min/max: %v / %v", stats.MinimumPrice, stats.MaximumPrice)
	}
}

func TestBookService_StatsForYear_RoundsAverage(t *testing.T) {
	svc := newTestBookService(newStubBookRepo())

	for _, price := range []float64{10, 10, 11} {
		in := validInput()
		in.Price = price
		if _, err := svc.Create(context.Background(), in); err != nil {
			t.Fatalf("Create returned error: %v", err)
		}
	}

	stats, err := svc.StatsForYear(context.Background(), 2023)
	if err != nil {
		t.Fatalf("StatsForYear returned error: %v", err)
	}
	// 31 / 3 = 10.333..., rounded to 10.33
	if stats.AveragePrice != 10.33 {
		t.Fatalf("expected 10.33, got %v", stats.AveragePrice)
	}
}

func TestBookService_StatsForYear_Empty(t *testing.T) {
	svc := newTestBookService(newStubBookRepo())

	if _, err := svc.StatsForYear(context.Background(), 1999); !errors.Is(err, domain.ErrNoBooksInYear) {
		t.Fatalf("expected ErrNoBooksInYear, got %v", err)
	}
}
