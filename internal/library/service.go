package library

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
)

// Service provides library-related business logic.
type Service struct {
	repo         Repository
	logger       *log.Logger
	covers       CoverFinder
	coverTimeout time.Duration
}

type Option func(*Service)

// WithCoverFinder fills cover_image_url on newly created catalog books. Each
// lookup is bounded by timeout; failures are logged and the book is created
// without a cover.
func WithCoverFinder(f CoverFinder, timeout time.Duration) Option {
	return func(s *Service) {
		s.covers = f
		s.coverTimeout = timeout
	}
}

func WithLogger(logger *log.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// NewService creates a new library service.
func NewService(repo Repository, opts ...Option) *Service {
	s := &Service{repo: repo, logger: log.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// List returns the caller's entries with their catalog data. It never returns a nil slice.
func (s *Service) List(ctx context.Context, userID string) ([]Entry, error) {
	entries, err := s.repo.ListEntries(ctx, userID)
	if err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []Entry{}
	}
	return entries, nil
}

// Add puts a book into the caller's library, creating the catalog row on
// first use. The steps are independent writes: a catalog row created here
// stays even if linking it to the user fails.
func (s *Service) Add(ctx context.Context, userID string, nb NewBook) (Entry, error) {
	book, err := s.findOrCreateBook(ctx, nb)
	if err != nil {
		return Entry{}, err
	}

	_, err = s.repo.FindEntry(ctx, userID, book.ID)
	switch {
	case err == nil:
		return Entry{}, ErrAlreadyInLibrary
	case !errors.Is(err, ErrNotFound):
		return Entry{}, fmt.Errorf("find entry: %w", err)
	}

	entry, err := s.repo.CreateEntry(ctx, userID, book.ID, StatusWantToRead)
	if errors.Is(err, ErrDuplicate) {
		return Entry{}, ErrAlreadyInLibrary
	}
	if err != nil {
		return Entry{}, fmt.Errorf("create entry: %w", err)
	}
	return entry, nil
}

func (s *Service) findOrCreateBook(ctx context.Context, nb NewBook) (Book, error) {
	book, err := s.repo.FindBook(ctx, nb.Title, nb.Author)
	if err == nil {
		return book, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return Book{}, fmt.Errorf("find book: %w", err)
	}

	if nb.CoverImageURL == nil && s.covers != nil {
		nb.CoverImageURL = s.findCover(ctx, nb)
	}

	book, err = s.repo.CreateBook(ctx, nb)
	if errors.Is(err, ErrDuplicate) {
		// Another request created it in between.
		book, err = s.repo.FindBook(ctx, nb.Title, nb.Author)
	}
	if err != nil {
		return Book{}, fmt.Errorf("create book: %w", err)
	}
	return book, nil
}

func (s *Service) findCover(ctx context.Context, nb NewBook) *string {
	if s.coverTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.coverTimeout)
		defer cancel()
	}

	url, err := s.covers.FindCover(ctx, nb.Title, nb.Author)
	if err != nil {
		s.logger.Warn("cover lookup failed", "title", nb.Title, "author", nb.Author, "err", err)
		return nil
	}
	if url == "" {
		return nil
	}
	return &url
}

// UpdateProgress sets progress_pages on one of the caller's entries.
func (s *Service) UpdateProgress(ctx context.Context, userID string, id int64, pages int) (Entry, error) {
	return s.repo.UpdateProgress(ctx, id, userID, pages)
}

// Remove deletes one of the caller's entries.
func (s *Service) Remove(ctx context.Context, userID string, id int64) error {
	n, err := s.repo.DeleteEntry(ctx, id, userID)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
