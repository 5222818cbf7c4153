// Package storage abstracts the object-storage capability consumed by the
// upload pipeline: issuing time-limited direct-upload credentials and
// checking that claimed objects actually exist.
package storage

import (
	"context"
	"time"
)

// CredentialRequest describes one file an admin wants to upload directly
// to object storage.
type CredentialRequest struct {
	Key          string
	ContentType  string
	OriginalName string
	// SanitizedName is the filename after replacing unsafe characters;
	// the true original name travels as metadata only.
	SanitizedName string
	OriginalPath  string
	SessionID     string
	// CategoryID may be empty when the file did not map to a category;
	// a placeholder is recorded in that case.
	CategoryID string
	FileIndex  int
	// MaxSize bounds the content-length-range condition, bytes.
	MaxSize int64
	Expiry  time.Duration
}

// UploadCredential is an opaque descriptor the client uses to POST the file
// bytes straight to storage. Valid until ExpiresAt, enforced by the storage
// service, not by us.
type UploadCredential struct {
	UploadURL string
	// Fields must be sent verbatim as form fields alongside the file.
	Fields map[string]string
	// FinalURL is where the object will be readable after upload.
	FinalURL  string
	ExpiresAt time.Time
}

// ObjectInfo is the result of an existence/metadata check.
type ObjectInfo struct {
	Size         int64
	LastModified time.Time
	ETag         string
	ContentType  string
}

// ObjectStorage is the capability boundary to the object store.
type ObjectStorage interface {
	// IssueUploadCredential returns a scoped, time-limited direct-upload
	// credential constraining content type, size range and required
	// metadata for the given key.
	IssueUploadCredential(ctx context.Context, req CredentialRequest) (*UploadCredential, error)

	// CheckObject verifies the object exists and returns its metadata.
	// Returns common.ErrNotFound when the object is absent.
	CheckObject(ctx context.Context, key string) (*ObjectInfo, error)

	// PresignGet returns a time-limited read URL for an existing object.
	PresignGet(ctx context.Context, key string, expiry time.Duration) (string, error)
}
