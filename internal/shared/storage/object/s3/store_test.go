package s3

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"

	"coverletter-backend/internal/shared/storage/object"
)

func TestApplyPrefix(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		prefix string
		key    string
		want   string
	}{
		{name: "no prefix", prefix: "", key: "user/file.pdf", want: "user/file.pdf"},
		{name: "simple prefix", prefix: "root", key: "user/file.pdf", want: "root/user/file.pdf"},
		{name: "prefix trailing slash", prefix: "root/", key: "user/file.pdf", want: "root/user/file.pdf"},
		{name: "prefix and key slashes", prefix: "/root/", key: "/user/file.pdf", want: "root/user/file.pdf"},
		{name: "nested prefix", prefix: "root/sub", key: "user/file.pdf", want: "root/sub/user/file.pdf"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := applyPrefix(tt.prefix, tt.key); got != tt.want {
				t.Fatalf("applyPrefix(%q, %q) = %q, want %q", tt.prefix, tt.key, got, tt.want)
			}
		})
	}
}

type fakeS3 struct {
	puts    []*s3.PutObjectInput
	deleted []string
	body    []byte
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.body = data
	f.puts = append(f.puts, in)
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	return nil, &s3types.NoSuchKey{}
}

func (f *fakeS3) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	f.deleted = append(f.deleted, aws.ToString(in.Key))
	return &s3.DeleteObjectOutput{}, nil
}

func TestStoreSaveUsesPrefixAndKMS(t *testing.T) {
	fake := &fakeS3{}
	store := &Store{client: fake, bucket: "bucket", prefix: "resumes", kmsKeyID: "kms-1"}

	key, size, mimeType, err := store.Save(context.Background(), "user-1", "cv.pdf", strings.NewReader("%PDF-1.4 test"))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if size != int64(len("%PDF-1.4 test")) || string(fake.body) != "%PDF-1.4 test" {
		t.Fatalf("unexpected size %d body %q", size, fake.body)
	}
	if mimeType != "application/pdf" {
		t.Fatalf("unexpected mime %q", mimeType)
	}
	put := fake.puts[0]
	if got := aws.ToString(put.Key); got != "resumes/"+key {
		t.Fatalf("unexpected object key %q for storage key %q", got, key)
	}
	if aws.ToInt64(put.ContentLength) != size || put.Metadata["original-name"] != "cv.pdf" {
		t.Fatalf("unexpected length %d metadata %v", aws.ToInt64(put.ContentLength), put.Metadata)
	}
	if put.ServerSideEncryption != s3types.ServerSideEncryptionAwsKms || aws.ToString(put.SSEKMSKeyId) != "kms-1" {
		t.Fatalf("expected kms encryption, got %v", put.ServerSideEncryption)
	}

	if err := store.Delete(context.Background(), key); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if len(fake.deleted) != 1 || fake.deleted[0] != "resumes/"+key {
		t.Fatalf("unexpected deletes %v", fake.deleted)
	}
}

func TestStoreOpenMissingIsNotFound(t *testing.T) {
	store := &Store{client: &fakeS3{}, bucket: "bucket"}
	if _, err := store.Open(context.Background(), "k"); !errors.Is(err, object.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
