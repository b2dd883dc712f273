package user

import (
	"context"

	"bookshelf/internal/platform/supabase"
)

// PostgRESTRepo stores profiles through the Supabase REST API.
type PostgRESTRepo struct {
	client *supabase.Client
}

func NewPostgRESTRepo(client *supabase.Client) *PostgRESTRepo {
	return &PostgRESTRepo{client: client}
}

func (r *PostgRESTRepo) Create(ctx context.Context, p Profile) error {
	return r.client.From("users").Insert(ctx, p, nil)
}
