package library

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresRepo struct {
	db      *pgxpool.Pool
	timeout time.Duration
}

func NewPostgresRepo(db *pgxpool.Pool, timeout time.Duration) *PostgresRepo {
	return &PostgresRepo{db: db, timeout: timeout}
}

func (r *PostgresRepo) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}

func (r *PostgresRepo) FindBook(ctx context.Context, title, author string) (Book, error) {
	const query = `
	SELECT id, title, author, page_count, cover_image_url
	FROM books
	WHERE title = $1 AND author = $2
	LIMIT 1
	`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	var b Book
	err := r.db.QueryRow(timeoutCtx, query, title, author).Scan(&b.ID, &b.Title, &b.Author, &b.PageCount, &b.CoverImageURL)
	return b, pgError(err)
}

func (r *PostgresRepo) CreateBook(ctx context.Context, nb NewBook) (Book, error) {
	const query = `
	INSERT INTO books (title, author, page_count, cover_image_url)
	VALUES ($1, $2, $3, $4)
	RETURNING id, title, author, page_count, cover_image_url
	`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	var b Book
	err := r.db.QueryRow(timeoutCtx, query, nb.Title, nb.Author, nb.PageCount, nb.CoverImageURL).Scan(&b.ID, &b.Title, &b.Author, &b.PageCount, &b.CoverImageURL)
	return b, pgError(err)
}

func (r *PostgresRepo) FindEntry(ctx context.Context, userID string, bookID int64) (Entry, error) {
	const query = `
	SELECT id, user_id::text, book_id, status, progress_pages, created_at
	FROM user_books
	WHERE user_id = $1 AND book_id = $2
	`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	e, err := scanEntry(r.db.QueryRow(timeoutCtx, query, userID, bookID))
	return e, pgError(err)
}

func (r *PostgresRepo) CreateEntry(ctx context.Context, userID string, bookID int64, status string) (Entry, error) {
	const query = `
	INSERT INTO user_books (user_id, book_id, status)
	VALUES ($1, $2, $3)
	RETURNING id, user_id::text, book_id, status, progress_pages, created_at
	`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	e, err := scanEntry(r.db.QueryRow(timeoutCtx, query, userID, bookID, status))
	return e, pgError(err)
}

func (r *PostgresRepo) ListEntries(ctx context.Context, userID string) ([]Entry, error) {
	const query = `
	SELECT ub.id, ub.user_id::text, ub.book_id, ub.status, ub.progress_pages, ub.created_at,
	       b.title, b.author, b.page_count, b.cover_image_url
	FROM user_books ub
	JOIN books b ON b.id = ub.book_id
	WHERE ub.user_id = $1
	ORDER BY ub.id
	`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	rows, err := r.db.Query(timeoutCtx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []Entry{}
	for rows.Next() {
		var e Entry
		var b BookSummary
		if err := rows.Scan(
			&e.ID, &e.UserID, &e.BookID, &e.Status, &e.ProgressPages, &e.CreatedAt,
			&b.Title, &b.Author, &b.PageCount, &b.CoverImageURL,
		); err != nil {
			return nil, err
		}
		e.Book = &b
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (r *PostgresRepo) UpdateProgress(ctx context.Context, id int64, userID string, pages int) (Entry, error) {
	const query = `
	UPDATE user_books
	SET progress_pages = $1
	WHERE id = $2 AND user_id = $3
	RETURNING id, user_id::text, book_id, status, progress_pages, created_at
	`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	e, err := scanEntry(r.db.QueryRow(timeoutCtx, query, pages, id, userID))
	return e, pgError(err)
}

func (r *PostgresRepo) DeleteEntry(ctx context.Context, id int64, userID string) (int64, error) {
	const query = `DELETE FROM user_books WHERE id = $1 AND user_id = $2`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	tag, err := r.db.Exec(timeoutCtx, query, id, userID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func scanEntry(row pgx.Row) (Entry, error) {
	var e Entry
	err := row.Scan(&e.ID, &e.UserID, &e.BookID, &e.Status, &e.ProgressPages, &e.CreatedAt)
	return e, err
}

func pgError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == codeUniqueViolation {
		return errors.Join(ErrDuplicate, err)
	}
	return err
}
