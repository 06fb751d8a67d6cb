// Package upload publishes rendered report documents to object storage so
// push payloads can link to the full page.
package upload

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"

	mclient "github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Uploader publishes one document and returns its public URL.
type Uploader interface {
	Upload(ctx context.Context, content []byte, filename string) (string, error)
}

// MinIO stores reports as HTML objects in a single bucket.
type MinIO struct {
	client     *mclient.Client
	bucket     string
	publicBase string
}

// NewMinIO connects to the object store. The endpoint may carry a scheme;
// https selects TLS, a bare host:port defaults to TLS off.
func NewMinIO(endpoint, accessKey, secretKey, bucket, publicBase string) (*MinIO, error) {
	secure := false
	if u, err := url.Parse(endpoint); err == nil && u.Scheme != "" {
		endpoint = u.Host
		secure = u.Scheme == "https"
	}

	client, err := mclient.New(endpoint, &mclient.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: secure,
	})
	if err != nil {
		return nil, fmt.Errorf("minio client: %w", err)
	}

	return &MinIO{
		client:     client,
		bucket:     bucket,
		publicBase: strings.TrimRight(publicBase, "/"),
	}, nil
}

// Upload writes the document under filename and returns the public link.
func (m *MinIO) Upload(ctx context.Context, content []byte, filename string) (string, error) {
	_, err := m.client.PutObject(ctx, m.bucket, filename, bytes.NewReader(content), int64(len(content)),
		mclient.PutObjectOptions{ContentType: "text/html; charset=utf-8"})
	if err != nil {
		return "", fmt.Errorf("put object %s/%s: %w", m.bucket, filename, err)
	}
	return m.publicBase + "/" + filename, nil
}
