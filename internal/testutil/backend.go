package testutil

import (
	"context"
	"net/http"
	"sort"
	"sync"
	"time"

	"bookshelf/internal/identity"
	"bookshelf/internal/library"
	"bookshelf/internal/platform/supabase"
	"bookshelf/internal/user"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const tokenTTL = time.Hour

type account struct {
	user         identity.User
	passwordHash []byte
}

// Backend is an in-memory stand-in for the hosted identity service and
// database. It implements identity.Provider, identity.Resolver,
// user.Repository and library.Repository with the same uniqueness rules
// as the real schema.
type Backend struct {
	mu       sync.Mutex
	secret   string
	verifier *identity.JWTVerifier

	accounts map[string]*account // by email
	revoked  map[string]bool
	profiles map[string]user.Profile
	books    []library.Book
	entries  []library.Entry
	nextBook int64
	nextLink int64
}

func NewBackend() *Backend {
	secret := uuid.NewString()
	return &Backend{
		secret:   secret,
		verifier: identity.NewJWTVerifier(secret),
		accounts: make(map[string]*account),
		revoked:  make(map[string]bool),
		profiles: make(map[string]user.Profile),
	}
}

func (b *Backend) SignUp(_ context.Context, email, password string) (*identity.User, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, exists := b.accounts[email]; exists {
		return nil, &supabase.Error{Status: http.StatusUnprocessableEntity, Code: "user_already_exists", Message: "User already registered"}
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	u := identity.User{
		ID:        uuid.NewString(),
		Aud:       "authenticated",
		Role:      "authenticated",
		Email:     email,
		CreatedAt: &now,
		UpdatedAt: &now,
	}
	b.accounts[email] = &account{user: u, passwordHash: hash}
	return &u, nil
}

func (b *Backend) SignIn(_ context.Context, email, password string) (identity.Session, error) {
	b.mu.Lock()
	acc, ok := b.accounts[email]
	b.mu.Unlock()

	invalid := &supabase.Error{Status: http.StatusBadRequest, Code: "invalid_credentials", Message: "Invalid login credentials"}
	if !ok {
		return identity.Session{}, invalid
	}
	if err := bcrypt.CompareHashAndPassword(acc.passwordHash, []byte(password)); err != nil {
		return identity.Session{}, invalid
	}

	token, err := identity.SignToken(b.secret, acc.user, tokenTTL)
	if err != nil {
		return identity.Session{}, err
	}
	return identity.Session{
		AccessToken:  token,
		TokenType:    "bearer",
		ExpiresIn:    int(tokenTTL.Seconds()),
		ExpiresAt:    time.Now().Add(tokenTTL).Unix(),
		RefreshToken: uuid.NewString(),
		User:         acc.user,
	}, nil
}

func (b *Backend) SignOut(_ context.Context, accessToken string) error {
	if accessToken == "" {
		return nil
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.revoked[accessToken] = true
	return nil
}

func (b *Backend) GetUser(ctx context.Context, accessToken string) (identity.User, error) {
	b.mu.Lock()
	revoked := b.revoked[accessToken]
	b.mu.Unlock()
	if revoked {
		return identity.User{}, identity.ErrInvalidToken
	}
	return b.verifier.GetUser(ctx, accessToken)
}

// Create stores a profile (user.Repository).
func (b *Backend) Create(_ context.Context, p user.Profile) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, exists := b.profiles[p.ID]; exists {
		return &supabase.Error{Status: http.StatusConflict, Code: "23505", Message: "duplicate key value violates unique constraint \"users_pkey\""}
	}
	now := time.Now().UTC()
	p.CreatedAt = &now
	b.profiles[p.ID] = p
	return nil
}

// ProfileCount reports how many profiles have been stored.
func (b *Backend) ProfileCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.profiles)
}

// BookCount reports how many catalog rows exist.
func (b *Backend) BookCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.books)
}

// EntryCount reports how many library entries exist across all users.
func (b *Backend) EntryCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.entries)
}

func (b *Backend) FindBook(_ context.Context, title, author string) (library.Book, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, bk := range b.books {
		if bk.Title == title && bk.Author == author {
			return bk, nil
		}
	}
	return library.Book{}, library.ErrNotFound
}

func (b *Backend) CreateBook(_ context.Context, nb library.NewBook) (library.Book, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, bk := range b.books {
		if bk.Title == nb.Title && bk.Author == nb.Author {
			return library.Book{}, library.ErrDuplicate
		}
	}
	b.nextBook++
	bk := library.Book{ID: b.nextBook, Title: nb.Title, Author: nb.Author, PageCount: nb.PageCount, CoverImageURL: nb.CoverImageURL}
	b.books = append(b.books, bk)
	return bk, nil
}

func (b *Backend) FindEntry(_ context.Context, userID string, bookID int64) (library.Entry, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, e := range b.entries {
		if e.UserID == userID && e.BookID == bookID {
			return e, nil
		}
	}
	return library.Entry{}, library.ErrNotFound
}

func (b *Backend) CreateEntry(_ context.Context, userID string, bookID int64, status string) (library.Entry, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, e := range b.entries {
		if e.UserID == userID && e.BookID == bookID {
			return library.Entry{}, library.ErrDuplicate
		}
	}
	b.nextLink++
	e := library.Entry{
		ID:        b.nextLink,
		UserID:    userID,
		BookID:    bookID,
		Status:    status,
		CreatedAt: time.Now().UTC(),
	}
	b.entries = append(b.entries, e)
	return e, nil
}

func (b *Backend) ListEntries(_ context.Context, userID string) ([]library.Entry, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := []library.Entry{}
	for _, e := range b.entries {
		if e.UserID != userID {
			continue
		}
		for _, bk := range b.books {
			if bk.ID == e.BookID {
				e.Book = &library.BookSummary{
					Title:         bk.Title,
					Author:        bk.Author,
					PageCount:     bk.PageCount,
					CoverImageURL: bk.CoverImageURL,
				}
				break
			}
		}
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (b *Backend) UpdateProgress(_ context.Context, id int64, userID string, pages int) (library.Entry, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, e := range b.entries {
		if e.ID == id && e.UserID == userID {
			b.entries[i].ProgressPages = pages
			return b.entries[i], nil
		}
	}
	return library.Entry{}, library.ErrNotFound
}

func (b *Backend) DeleteEntry(_ context.Context, id int64, userID string) (int64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, e := range b.entries {
		if e.ID == id && e.UserID == userID {
			b.entries = append(b.entries[:i], b.entries[i+1:]...)
			return 1, nil
		}
	}
	return 0, nil
}
