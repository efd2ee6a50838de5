package responses

import "context"

// Repo persists responses scoped to a user. Ids are unique per user only.
type Repo interface {
	// List returns the user's responses ordered by creation time. An empty
	// category lists every category.
	List(ctx context.Context, userID string, category Category) ([]Response, error)
	Get(ctx context.Context, userID, id string) (Response, error)
	Create(ctx context.Context, r Response) error
	Update(ctx context.Context, r Response) error
	Delete(ctx context.Context, userID, id string) error
	DeleteBySource(ctx context.Context, userID, source string) (int, error)
}
