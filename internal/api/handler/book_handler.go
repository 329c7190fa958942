package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/openshelf/book-catalog/internal/api/metrics"
	"github.com/openshelf/book-catalog/internal/core/domain"
	"github.com/openshelf/book-catalog/internal/core/ports"
)

// BookHandler handles HTTP requests for catalog operations.
type BookHandler struct {
	service ports.BookService
}

func NewBookHandler(service ports.BookService) *BookHandler {
	return &BookHandler{service: service}
}

// List handles GET /api/books.
//
// @Summary      List all books
// @Tags         books
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   bookResponse
// @Failure      401  {object}  errorResponse
// @Router       /api/books [get]
func (h *BookHandler) List(c echo.Context) error {
	books, err := h.service.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toBookListResponse(books))
}

// Create handles POST /api/books.
//
// @Summary      Add a book to the catalog
// @Tags         books
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      bookRequest  true  "Book fields"
// @Success      201   {object}  bookResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /api/books [post]
func (h *BookHandler) Create(c echo.Context) error {
	var req bookRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	book, err := h.service.Create(c.Request().Context(), toBookInput(req))
	if err != nil {
		return err
	}

	metrics.BooksCreatedTotal.WithLabelValues(book.Genre).Inc()
	return c.JSON(http.StatusCreated, toBookResponse(book))
}

// Get handles GET /api/books/:id. An absent or malformed id yields an
// empty-body 404.
//
// @Summary      Get a book by id
// @Tags         books
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Book id"
// @Success      200  {object}  bookResponse
// @Failure      401  {object}  errorResponse
// @Failure      404  "not found"
// @Router       /api/books/{id} [get]
func (h *BookHandler) Get(c echo.Context) error {
	book, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, domain.ErrBookNotFound) {
			return c.NoContent(http.StatusNotFound)
		}
		return err
	}
	return c.JSON(http.StatusOK, toBookResponse(book))
}

// Update handles PUT /api/books/:id with whole-record replace semantics.
//
// @Summary      Replace a book's fields
// @Tags         books
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string       true  "Book id"
// @Param        body  body      bookRequest  true  "Full replacement field set"
// @Success      200   {object}  bookResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      404   "not found"
// @Router       /api/books/{id} [put]
func (h *BookHandler) Update(c echo.Context) error {
	var req bookRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	book, err := h.service.Update(c.Request().Context(), c.Param("id"), toBookInput(req))
	if err != nil {
		if errors.Is(err, domain.ErrBookNotFound) {
			return c.NoContent(http.StatusNotFound)
		}
		return err
	}
	return c.JSON(http.StatusOK, toBookResponse(book))
}

// Delete handles DELETE /api/books/:id. Deleting the same id twice yields 404
// the second time.
//
// @Summary      Delete a book
// @Tags         books
// @Security     BearerAuth
// @Param        id  path  string  true  "Book id"
// @Success      204  "deleted"
// @Failure      401  {object}  errorResponse
// @Failure      404  "not found"
// @Router       /api/books/{id} [delete]
func (h *BookHandler) Delete(c echo.Context) error {
	if err := h.service.Delete(c.Request().Context(), c.Param("id")); err != nil {
		if errors.Is(err, domain.ErrBookNotFound) {
			return c.NoContent(http.StatusNotFound)
		}
		return err
	}
	metrics.BooksDeletedTotal.Inc()
	return c.NoContent(http.StatusNoContent)
}

// YearStats handles GET /api/books/stats/year/:year.
//
// @Summary      Price statistics for a calendar year
// @Tags         books
// @Produce      json
// @Security     BearerAuth
// @Param        year  path      int  true  "Calendar year"
// @Success      200   {object}  yearStatsResponse
// @Failure      401   {object}  errorResponse
// @Failure      404   {object}  messageResponse
// @Router       /api/books/stats/year/{year} [get]
func (h *BookHandler) YearStats(c echo.Context) error {
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "year must be an integer")
	}

	stats, err := h.service.StatsForYear(c.Request().Context(), year)
	if err != nil {
		if errors.Is(err, domain.ErrNoBooksInYear) {
			metrics.YearStatsQueriesTotal.WithLabelValues("empty").Inc()
			return c.JSON(http.StatusNotFound, messageResponse{
				Message: fmt.Sprintf("no books found for year %d", year),
			})
		}
		return err
	}

	metrics.YearStatsQueriesTotal.WithLabelValues("hit").Inc()
	return c.JSON(http.StatusOK, toYearStatsResponse(stats))
}
