package object

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"coverletter-backend/internal/shared/util"
)

// ErrNotFound is returned when a storage key has no object.
var ErrNotFound = errors.New("object not found")

// ObjectStore keeps uploaded originals, namespaced per user.
type ObjectStore interface {
	Save(ctx context.Context, userID string, fileName string, r io.Reader) (storageKey string, sizeBytes int64, mimeType string, err error)
	Open(ctx context.Context, storageKey string) (io.ReadCloser, error)
	Delete(ctx context.Context, storageKey string) error
}

// sniffLimit matches the mimetype package's default read limit.
const sniffLimit = 3072

// Sniff reads the head of r for content detection and returns the detected
// type along with the consumed bytes, which callers must replay.
func Sniff(r io.Reader) (string, []byte, error) {
	buf := make([]byte, sniffLimit)
	n, err := io.ReadFull(r, buf)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return "", nil, err
	}
	return mimetype.Detect(buf[:n]).String(), buf[:n], nil
}

// NewKey builds a storage key "<user hash>/<uuid>_<file name>". Keys never
// repeat, so a re-upload of the same file does not overwrite the original
// until the caller deletes it.
func NewKey(userID, fileName string) (string, error) {
	if userID == "" {
		return "", errors.New("user id is required")
	}
	name, err := util.SanitizeFileName(fileName)
	if err != nil {
		return "", fmt.Errorf("sanitize file name: %w", err)
	}
	return path.Join(util.HashUserKey(userID), uuid.NewString()+"_"+name), nil
}
