package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/openshelf/book-catalog/internal/core/domain"
)

const collectionBooks = "books"

type BookRepository struct {
	col *mongo.Collection
}

func NewBookRepository(db *mongo.Database) *BookRepository {
	return &BookRepository{col: db.Collection(collectionBooks)}
}

// bookDoc is the persisted shape of a book. Dates are stored as BSON
// datetimes; published_date always sits at midnight UTC.
type bookDoc struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"`
	Title         string             `bson:"title"`
	Author        string             `bson:"author"`
	PublishedDate time.Time          `bson:"published_date"`
	Genre         string             `bson:"genre"`
	Price         float64            `bson:"price"`
	CreatedAt     time.Time          `bson:"created_at"`
	UpdatedAt     time.Time          `bson:"updated_at"`
}

func toDoc(b *domain.Book) bookDoc {
	return bookDoc{
		Title:         b.Title,
		Author:        b.Author,
		PublishedDate: b.PublishedDate.UTC(),
		Genre:         b.Genre,
		Price:         b.Price,
		CreatedAt:     b.CreatedAt.UTC(),
		UpdatedAt:     b.UpdatedAt.UTC(),
	}
}

func (d bookDoc) toDomain() *domain.Book {
	return &domain.Book{
		ID:            d.ID.Hex(),
		Title:         d.Title,
		Author:        d.Author,
		PublishedDate: d.PublishedDate.UTC(),
		Genre:         d.Genre,
		Price:         d.Price,
		CreatedAt:     d.CreatedAt.UTC(),
		UpdatedAt:     d.UpdatedAt.UTC(),
	}
}

// objectID parses the opaque identifier. A malformed id is deliberately
// folded into ErrBookNotFound rather than surfaced as a distinct error.
func objectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, domain.ErrBookNotFound
	}
	return oid, nil
}

// Insert persists a new book and returns it with the storage-assigned id.
func (r *BookRepository) Insert(ctx context.Context, b *domain.Book) (*domain.Book, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.InsertOne(ctx, toDoc(b))
	if err != nil {
		return nil, fmt.Errorf("insert book: %w", err)
	}

	stored := *b
	stored.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return &stored, nil
}

// FindAll returns every book in storage-native order.
func (r *BookRepository) FindAll(ctx context.Context) ([]*domain.Book, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	defer cur.Close(ctx)

	books := make([]*domain.Book, 0)
	for cur.Next(ctx) {
		var d bookDoc
		if err := cur.Decode(&d); err != nil {
			return nil, fmt.Errorf("decode book: %w", err)
		}
		books = append(books, d.toDomain())
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	return books, nil
}

func (r *BookRepository) FindByID(ctx context.Context, id string) (*domain.Book, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var d bookDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&d); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrBookNotFound
		}
		return nil, fmt.Errorf("find book: %w", err)
	}
	return d.toDomain(), nil
}

// Replace overwrites every mutable field of the identified book and refreshes
// updated_at. created_at is never part of the update document.
func (r *BookRepository) Replace(ctx context.Context, id string, b *domain.Book) (*domain.Book, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"title":          b.Title,
		"author":         b.Author,
		"published_date": b.PublishedDate.UTC(),
		"genre":          b.Genre,
		"price":          b.Price,
		"updated_at":     b.UpdatedAt.UTC(),
	}}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var d bookDoc
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update, opts).Decode(&d); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrBookNotFound
		}
		return nil, fmt.Errorf("update book: %w", err)
	}
	return d.toDomain(), nil
}

// Delete removes the record. A second delete of the same id reports
// ErrBookNotFound again.
func (r *BookRepository) Delete(ctx context.Context, id string) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete book: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrBookNotFound
	}
	return nil
}

// AggregateYearStats runs a single $match/$group pipeline over books whose
// published_date falls in the half-open interval [Jan 1 year, Jan 1 year+1).
func (r *BookRepository) AggregateYearStats(ctx context.Context, year int) (*domain.YearStats, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	from := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(year+1, time.January, 1, 0, 0, 0, 0, time.UTC)

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"published_date": bson.M{"$gte": from, "$lt": to},
		}}},
		{{Key: "$group", Value: bson.M{
			"_id":         nil,
			"avg_price":   bson.M{"$avg": "$price"},
			"min_price":   bson.M{"$min": "$price"},
			"max_price":   bson.M{"$max": "$price"},
			"total_books": bson.M{"$sum": 1},
		}}},
	}

	cur, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregate year stats: %w", err)
	}
	defer cur.Close(ctx)

	var row struct {
		AvgPrice   float64 `bson:"avg_price"`
		MinPrice   float64 `bson:"min_price"`
		MaxPrice   float64 `bson:"max_price"`
		TotalBooks int64   `bson:"total_books"`
	}
	if !cur.Next(ctx) {
		if err := cur.Err(); err != nil {
			return nil, fmt.Errorf("aggregate year stats: %w", err)
		}
		return nil, domain.ErrNoBooksInYear
	}
	if err := cur.Decode(&row); err != nil {
		return nil, fmt.Errorf("decode year stats: %w", err)
	}

	return &domain.YearStats{
		Year:         year,
		AveragePrice: row.AvgPrice,
		MinimumPrice: row.MinPrice,
		MaximumPrice: row.MaxPrice,
		TotalBooks:   row.TotalBooks,
	}, nil
}

// EnsureIndexes creates the indexes the repository relies on.
func (r *BookRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "published_date", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
