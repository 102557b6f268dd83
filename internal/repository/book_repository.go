package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/campus-allocator/internal/models"
)

// BookRepository reads the reading list catalog.
type BookRepository struct {
	db *sqlx.DB
}

// NewBookRepository constructs the repository.
func NewBookRepository(db *sqlx.DB) *BookRepository {
	return &BookRepository{db: db}
}

// FindByIDs returns the requested books in the order of ids. Unknown ids are skipped.
func (r *BookRepository) FindByIDs(ctx context.Context, ids []string) ([]models.Book, error) {
	if len(ids) == 0 {
		return []models.Book{}, nil
	}
	query, args, err := sqlx.In(`SELECT id, title, author, available_in, read_days FROM books WHERE id IN (?)`, ids)
	if err != nil {
		return nil, fmt.Errorf("build book query: %w", err)
	}
	var books []models.Book
	if err := r.db.SelectContext(ctx, &books, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("find books: %w", err)
	}

	byID := make(map[string]models.Book, len(books))
	for _, b := range books {
		byID[b.ID] = b
	}
	ordered := make([]models.Book, 0, len(books))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if b, ok := byID[id]; ok {
			ordered = append(ordered, b)
		}
	}
	return ordered, nil
}
