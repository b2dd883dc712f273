package library

import (
	"context"
	"errors"

	"bookshelf/internal/platform/supabase"
)

const (
	entryColumns        = "id,user_id,book_id,status,progress_pages,created_at"
	entryWithBook       = "*,books(title,author,page_count,cover_image_url)"
	bookColumns         = "id,title,author,page_count,cover_image_url"
	codeUniqueViolation = "23505"
)

// PostgRESTRepo stores the library through the Supabase REST API.
type PostgRESTRepo struct {
	client *supabase.Client
}

func NewPostgRESTRepo(client *supabase.Client) *PostgRESTRepo {
	return &PostgRESTRepo{client: client}
}

func (r *PostgRESTRepo) FindBook(ctx context.Context, title, author string) (Book, error) {
	var books []Book
	err := r.client.From("books").
		Select(bookColumns).
		Eq("title", title).
		Eq("author", author).
		Limit(1).
		Get(ctx, &books)
	if err != nil {
		return Book{}, err
	}
	if len(books) == 0 {
		return Book{}, ErrNotFound
	}
	return books[0], nil
}

func (r *PostgRESTRepo) CreateBook(ctx context.Context, b NewBook) (Book, error) {
	row := map[string]any{
		"title":      b.Title,
		"author":     b.Author,
		"page_count": b.PageCount,
	}
	if b.CoverImageURL != nil {
		row["cover_image_url"] = *b.CoverImageURL
	}
	var book Book
	err := r.client.From("books").Select(bookColumns).Single().Insert(ctx, row, &book)
	return book, translate(err)
}

func (r *PostgRESTRepo) FindEntry(ctx context.Context, userID string, bookID int64) (Entry, error) {
	var e Entry
	err := r.client.From("user_books").
		Select(entryColumns).
		Eq("user_id", userID).
		Eq("book_id", bookID).
		Single().
		Get(ctx, &e)
	return e, translate(err)
}

func (r *PostgRESTRepo) CreateEntry(ctx context.Context, userID string, bookID int64, status string) (Entry, error) {
	row := map[string]any{
		"user_id": userID,
		"book_id": bookID,
		"status":  status,
	}
	var e Entry
	err := r.client.From("user_books").Select(entryColumns).Single().Insert(ctx, row, &e)
	return e, translate(err)
}

func (r *PostgRESTRepo) ListEntries(ctx context.Context, userID string) ([]Entry, error) {
	entries := []Entry{}
	err := r.client.From("user_books").
		Select(entryWithBook).
		Eq("user_id", userID).
		Get(ctx, &entries)
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *PostgRESTRepo) UpdateProgress(ctx context.Context, id int64, userID string, pages int) (Entry, error) {
	var e Entry
	err := r.client.From("user_books").
		Eq("id", id).
		Eq("user_id", userID).
		Select(entryColumns).
		Single().
		Update(ctx, map[string]int{"progress_pages": pages}, &e)
	return e, translate(err)
}

func (r *PostgRESTRepo) DeleteEntry(ctx context.Context, id int64, userID string) (int64, error) {
	return r.client.From("user_books").
		Eq("id", id).
		Eq("user_id", userID).
		Delete(ctx)
}

// translate maps PostgREST failures onto the package sentinels.
func translate(err error) error {
	if err == nil {
		return nil
	}
	if supabase.IsNoRows(err) {
		return ErrNotFound
	}
	var apiErr *supabase.Error
	if errors.As(err, &apiErr) && apiErr.Code == codeUniqueViolation {
		return errors.Join(ErrDuplicate, err)
	}
	return err
}
