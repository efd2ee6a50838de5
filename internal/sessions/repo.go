package sessions

import "context"

type Repo interface {
	Create(ctx context.Context, s Session) error
	Get(ctx context.Context, id string) (Session, error)
	Delete(ctx context.Context, id string) error
	// DeleteByUser removes every session of the user except keepID.
	DeleteByUser(ctx context.Context, userID, keepID string) (int, error)
}
