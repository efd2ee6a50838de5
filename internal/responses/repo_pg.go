package responses

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

type PGRepo struct {
	DB *sql.DB
}

func (r *PGRepo) List(ctx context.Context, userID string, category Category) ([]Response, error) {
	const query = `
SELECT id, user_id, text, category, user_created, source, tags, created_at
FROM responses
WHERE user_id = $1 AND ($2 = '' OR category = $2)
ORDER BY created_at ASC, id ASC`
	rows, err := r.DB.QueryContext(ctx, query, userID, string(category))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Response{}
	for rows.Next() {
		resp, err := scanResponse(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, resp)
	}
	return out, rows.Err()
}

func (r *PGRepo) Get(ctx context.Context, userID, id string) (Response, error) {
	const query = `
SELECT id, user_id, text, category, user_created, source, tags, created_at
FROM responses
WHERE user_id = $1 AND id = $2
LIMIT 1`
	resp, err := scanResponse(r.DB.QueryRowContext(ctx, query, userID, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Response{}, ErrNotFound
		}
		return Response{}, err
	}
	return resp, nil
}

func (r *PGRepo) Create(ctx context.Context, resp Response) error {
	const query = `
INSERT INTO responses (id, user_id, text, category, user_created, source, tags, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7::jsonb, $8)`
	tags, err := encodeTags(resp.Tags)
	if err != nil {
		return err
	}
	_, err = r.DB.ExecContext(ctx, query,
		resp.ID,
		resp.UserID,
		resp.Text,
		string(resp.Category),
		resp.UserCreated,
		nullableString(resp.Source),
		tags,
		resp.CreatedAt,
	)
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	return err
}

func (r *PGRepo) Update(ctx context.Context, resp Response) error {
	const query = `
UPDATE responses
SET text = $3, category = $4, user_created = $5, source = $6, tags = $7::jsonb
WHERE user_id = $1 AND id = $2`
	tags, err := encodeTags(resp.Tags)
	if err != nil {
		return err
	}
	res, err := r.DB.ExecContext(ctx, query,
		resp.UserID,
		resp.ID,
		resp.Text,
		string(resp.Category),
		resp.UserCreated,
		nullableString(resp.Source),
		tags,
	)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (r *PGRepo) Delete(ctx context.Context, userID, id string) error {
	const query = `DELETE FROM responses WHERE user_id = $1 AND id = $2`
	res, err := r.DB.ExecContext(ctx, query, userID, id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (r *PGRepo) DeleteBySource(ctx context.Context, userID, source string) (int, error) {
	const query = `DELETE FROM responses WHERE user_id = $1 AND source = $2`
	res, err := r.DB.ExecContext(ctx, query, userID, source)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanResponse(row rowScanner) (Response, error) {
	var (
		resp     Response
		category string
		source   sql.NullString
		tags     []byte
	)
	if err := row.Scan(&resp.ID, &resp.UserID, &resp.Text, &category, &resp.UserCreated, &source, &tags, &resp.CreatedAt); err != nil {
		return Response{}, err
	}
	resp.Category = Category(category)
	if source.Valid {
		resp.Source = source.String
	}
	resp.Tags = []string{}
	if len(tags) > 0 {
		if err := json.Unmarshal(tags, &resp.Tags); err != nil {
			return Response{}, fmt.Errorf("decode tags for %s: %w", resp.ID, err)
		}
	}
	return resp, nil
}

func encodeTags(tags []string) (string, error) {
	if tags == nil {
		tags = []string{}
	}
	raw, err := json.Marshal(tags)
	if err != nil {
		return "", fmt.Errorf("encode tags: %w", err)
	}
	return string(raw), nil
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

var _ Repo = (*PGRepo)(nil)
