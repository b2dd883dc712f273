package library

import (
	"errors"
	"time"
)

// StatusWantToRead is the status of every newly added entry.
const StatusWantToRead = "want_to_read"

var (
	ErrNotFound         = errors.New("not found")
	ErrDuplicate        = errors.New("duplicate row")
	ErrAlreadyInLibrary = errors.New("book already in library")
)

// Book is a shared catalog row, unique by title and author.
type Book struct {
	ID            int64   `json:"id"`
	Title         string  `json:"title"`
	Author        string  `json:"author"`
	PageCount     int     `json:"page_count"`
	CoverImageURL *string `json:"cover_image_url"`
}

// BookSummary is the catalog data embedded in listed entries.
type BookSummary struct {
	Title         string  `json:"title"`
	Author        string  `json:"author"`
	PageCount     int     `json:"page_count"`
	CoverImageURL *string `json:"cover_image_url"`
}

// Entry links a user to a catalog book and tracks reading progress.
type Entry struct {
	ID            int64        `json:"id"`
	UserID        string       `json:"user_id"`
	BookID        int64        `json:"book_id"`
	Status        string       `json:"status"`
	ProgressPages int          `json:"progress_pages"`
	CreatedAt     time.Time    `json:"created_at"`
	Book          *BookSummary `json:"books,omitempty"`
}

type NewBook struct {
	Title         string
	Author        string
	PageCount     int
	CoverImageURL *string
}
