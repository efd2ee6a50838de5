package resumes

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

type PGRepo struct {
	DB *sql.DB
}

func (r *PGRepo) Save(ctx context.Context, rec Record) error {
	const query = `
INSERT INTO resumes (user_id, file_name, file_size, mime_type, object_key, upload_date, parsed_text, keywords, sections)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8::jsonb, $9::jsonb)
ON CONFLICT (user_id) DO UPDATE SET
  file_name = EXCLUDED.file_name,
  file_size = EXCLUDED.file_size,
  mime_type = EXCLUDED.mime_type,
  object_key = EXCLUDED.object_key,
  upload_date = EXCLUDED.upload_date,
  parsed_text = EXCLUDED.parsed_text,
  keywords = EXCLUDED.keywords,
  sections = EXCLUDED.sections`
	keywords, err := json.Marshal(nonNilKeywords(rec.Keywords))
	if err != nil {
		return fmt.Errorf("encode keywords: %w", err)
	}
	sections := rec.Sections
	if sections == nil {
		sections = map[string]string{}
	}
	sectionsJSON, err := json.Marshal(sections)
	if err != nil {
		return fmt.Errorf("encode sections: %w", err)
	}
	_, err = r.DB.ExecContext(ctx, query,
		rec.UserID,
		rec.FileName,
		rec.FileSize,
		rec.MimeType,
		nullableString(rec.ObjectKey),
		rec.UploadDate,
		rec.ParsedText,
		string(keywords),
		string(sectionsJSON),
	)
	return err
}

func (r *PGRepo) Get(ctx context.Context, userID string) (Record, error) {
	const query = `
SELECT user_id, file_name, file_size, mime_type, object_key, upload_date, parsed_text, keywords, sections
FROM resumes
WHERE user_id = $1`
	var (
		rec       Record
		objectKey sql.NullString
		keywords  []byte
		sections  []byte
	)
	err := r.DB.QueryRowContext(ctx, query, userID).Scan(
		&rec.UserID,
		&rec.FileName,
		&rec.FileSize,
		&rec.MimeType,
		&objectKey,
		&rec.UploadDate,
		&rec.ParsedText,
		&keywords,
		&sections,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Record{}, ErrNotFound
		}
		return Record{}, err
	}
	if objectKey.Valid {
		rec.ObjectKey = objectKey.String
	}
	if err := json.Unmarshal(keywords, &rec.Keywords); err != nil {
		return Record{}, fmt.Errorf("decode keywords: %w", err)
	}
	if err := json.Unmarshal(sections, &rec.Sections); err != nil {
		return Record{}, fmt.Errorf("decode sections: %w", err)
	}
	return rec, nil
}

func (r *PGRepo) Delete(ctx context.Context, userID string) error {
	const query = `DELETE FROM resumes WHERE user_id = $1`
	res, err := r.DB.ExecContext(ctx, query, userID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func nonNilKeywords(k []string) []string {
	if k == nil {
		return []string{}
	}
	return k
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}
