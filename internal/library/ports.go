package library

import (
	"context"
)

//go:generate mockgen -source=ports.go -destination=mocks_test.go -package=library

// Repository is the storage behind a user's library. Lookups that match
// nothing return ErrNotFound; inserts that hit a uniqueness rule return
// ErrDuplicate.
type Repository interface {
	FindBook(ctx context.Context, title, author string) (Book, error)
	CreateBook(ctx context.Context, b NewBook) (Book, error)
	FindEntry(ctx context.Context, userID string, bookID int64) (Entry, error)
	CreateEntry(ctx context.Context, userID string, bookID int64, status string) (Entry, error)
	ListEntries(ctx context.Context, userID string) ([]Entry, error)
	UpdateProgress(ctx context.Context, id int64, userID string, pages int) (Entry, error)
	// DeleteEntry returns the number of rows removed.
	DeleteEntry(ctx context.Context, id int64, userID string) (int64, error)
}

// CoverFinder looks up a cover image for a book not yet in the catalog.
// An empty URL with a nil error means no cover is known.
type CoverFinder interface {
	FindCover(ctx context.Context, title, author string) (string, error)
}
