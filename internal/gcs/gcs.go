package gcs

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"strings"
	"time"

	"cloud.google.com/go/storage"
)

// ObjectRef identifies one blob in Cloud Storage.
type ObjectRef struct {
	Bucket string
	Name   string
}

// URI returns the gs:// form of the reference.
func (r ObjectRef) URI() string {
	return fmt.Sprintf("gs://%s/%s", r.Bucket, r.Name)
}

// Filename returns the final path element of the object name.
// e.g. "uploads/events/2025-05-12.csv" → "2025-05-12.csv"
func (r ObjectRef) Filename() string {
	return path.Base(r.Name)
}

// IsCSV reports whether the object name carries a .csv extension,
// compared case-insensitively.
func (r ObjectRef) IsCSV() bool {
	return strings.HasSuffix(strings.ToLower(r.Name), ".csv")
}

// ParseURI splits a gs:// URI into an ObjectRef.
func ParseURI(uri string) (ObjectRef, error) {
	if !strings.HasPrefix(uri, "gs://") {
		return ObjectRef{}, fmt.Errorf("invalid GCS URI: %s", uri)
	}

	trimmed := strings.TrimPrefix(uri, "gs://")
	parts := strings.SplitN(trimmed, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return ObjectRef{}, fmt.Errorf("invalid GCS URI (no object path): %s", uri)
	}

	return ObjectRef{Bucket: parts[0], Name: parts[1]}, nil
}

// StorageService provides an interface for cloud storage operations.
// This interface enables mocking and testing of storage functionality.
type StorageService interface {
	// FetchObject downloads the object bytes for the given reference.
	FetchObject(ctx context.Context, ref ObjectRef) ([]byte, error)

	// UploadFile uploads a local file to a storage bucket under the given object name.
	UploadFile(ctx context.Context, bucketName, objectName, filePath string) error
}

// Client is the concrete StorageService backed by Google Cloud Storage.
// It assumes Application Default Credentials are configured.
type Client struct{}

// NewClient creates a new storage service instance.
func NewClient() *Client {
	return &Client{}
}

// FetchObject downloads the object bytes for the given reference.
func (c *Client) FetchObject(ctx context.Context, ref ObjectRef) ([]byte, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("FetchObject: creating storage client: %w", err)
	}
	defer client.Close()

	rc, err := client.Bucket(ref.Bucket).Object(ref.Name).NewReader(ctx)
	if err != nil {
		return nil, fmt.Errorf("FetchObject: reading object %s: %w", ref.URI(), err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("FetchObject: reading bytes: %w", err)
	}

	return data, nil
}

// UploadFile uploads a local file to a GCS bucket under the given object name.
func (c *Client) UploadFile(ctx context.Context, bucketName, objectName, filePath string) error {
	f, err := os.Open(filePath)
	if err != nil {
		return fmt.Errorf("open file %q: %w", filePath, err)
	}
	defer f.Close()

	client, err := storage.NewClient(ctx)
	if err != nil {
		return fmt.Errorf("create storage client: %w", err)
	}
	defer client.Close()

	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	w := client.Bucket(bucketName).Object(objectName).NewWriter(ctx)

	if _, err := io.Copy(w, f); err != nil {
		_ = w.Close()
		return fmt.Errorf("copy file to GCS writer: %w", err)
	}

	// Close finalizes the upload
	if err := w.Close(); err != nil {
		return fmt.Errorf("finalize upload: %w", err)
	}

	return nil
}

var _ StorageService = (*Client)(nil)
