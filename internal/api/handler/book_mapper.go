package handler

import (
	"github.com/openshelf/book-catalog/internal/core/domain"
	"github.com/openshelf/book-catalog/internal/core/ports"
)

// --- Request to service input ---

func toBookInput(req bookRequest) ports.BookInput {
	return ports.BookInput{
		Title:         req.Title,
		Author:        req.Author,
		PublishedDate: req.PublishedDate,
		Genre:         req.Genre,
		Price:         req.Price,
	}
}

// --- Service result to HTTP response ---

func toBookResponse(b *domain.Book) bookResponse {
	return bookResponse{
		ID:            b.ID,
		Title:         b.Title,
		Author:        b.Author,
		PublishedDate: b.PublishedDate.UTC().Format("2006-01-02"),
		Genre:         b.Genre,
		Price:         b.Price,
		CreatedAt:     b.CreatedAt.UTC(),
		UpdatedAt:     b.UpdatedAt.UTC(),
	}
}

func toBookListResponse(books []*domain.Book) []bookResponse {
	out := make([]bookResponse, 0, len(books))
	for _, b := range books {
		out = append(out, toBookResponse(b))
	}
	return out
}

func toYearStatsResponse(s *domain.YearStats) yearStatsResponse {
	return yearStatsResponse{
		Year:         s.Year,
		AveragePrice: s.AveragePrice,
		MinimumPrice: s.MinimumPrice,
		MaximumPrice: s.MaximumPrice,
		TotalBooks:   s.TotalBooks,
	}
}
