package resumes

import "context"

type Repo interface {
	Save(ctx context.Context, rec Record) error
	Get(ctx context.Context, userID string) (Record, error)
	Delete(ctx context.Context, userID string) error
}
