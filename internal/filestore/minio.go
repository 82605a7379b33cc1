package filestore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinioConfig locates an S3-compatible bucket.
type MinioConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	// Prefix is prepended to every object name, e.g. "uploads/".
	Prefix string
}

// Minio stores files as objects in an S3-compatible bucket.
type Minio struct {
	client *minio.Client
	bucket string
	prefix string
}

// normaliseEndpoint accepts either "minio:9000" or
// "http://minio:9000" / "https://minio:9000".
func normaliseEndpoint(raw string) (endpoint string, secure bool, err error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false, fmt.Errorf("empty endpoint")
	}

	if strings.Contains(raw, "://") {
		u, err := url.Parse(raw)
		if err != nil {
			return "", false, err
		}
		if u.Host == "" {
			return "", false, fmt.Errorf("invalid endpoint")
		}
		if u.Path != "" && u.Path != "/" {
			return "", false, fmt.Errorf("endpoint must not contain a path")
		}
		return u.Host, u.Scheme == "https", nil
	}

	// Bare host:port is plain HTTP, which is what a local MinIO speaks.
	return raw, false, nil
}

// NewMinio connects to the bucket and verifies that it exists.
func NewMinio(ctx context.Context, cfg MinioConfig) (*Minio, error) {
	if cfg.Endpoint == "" || cfg.AccessKey == "" || cfg.SecretKey == "" || cfg.Bucket == "" {
		return nil, errors.New("minio configuration incomplete")
	}

	endpoint, secure, err := normaliseEndpoint(cfg.Endpoint)
	if err != nil {
		return nil, err
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: secure,
	})
	if err != nil {
		return nil, err
	}

	m := &Minio{client: client, bucket: cfg.Bucket, prefix: cfg.Prefix}
	if err := m.Check(ctx); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Minio) Name() string { return "s3" }

func isNoSuchKey(err error) bool {
	resp := minio.ToErrorResponse(err)
	return resp.Code == "NoSuchKey" || resp.StatusCode == http.StatusNotFound
}

func (m *Minio) exists(ctx context.Context, key string) (bool, error) {
	_, err := m.client.StatObject(ctx, m.bucket, key, minio.StatObjectOptions{})
	switch {
	case err == nil:
		return true, nil
	case isNoSuchKey(err):
		return false, nil
	default:
		return false, err
	}
}

func (m *Minio) Save(ctx context.Context, name string, r io.Reader, contentType string) (Object, error) {
	name = baseName(name)
	if name == "" {
		return Object{}, errors.New("invalid object name")
	}

	key := ""
	for n := 0; n <= maxSuffix; n++ {
		candidate := m.prefix + suffixed(name, n)
		taken, err := m.exists(ctx, candidate)
		if err != nil {
			return Object{}, fmt.Errorf("stat %s: %w", candidate, err)
		}
		if !taken {
			key = candidate
			break
		}
	}
	if key == "" {
		return Object{}, fmt.Errorf("no free name for %s", name)
	}

	info, err := m.client.PutObject(ctx, m.bucket, key, r, -1, minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return Object{}, fmt.Errorf("put %s: %w", key, err)
	}
	return Object{Path: key, Size: info.Size}, nil
}

func (m *Minio) Open(ctx context.Context, path string) (io.ReadCloser, error) {
	keys := []string{path}
	if fallback := m.prefix + baseName(path); fallback != path {
		keys = append(keys, fallback)
	}
	for _, key := range keys {
		if key == "" {
			continue
		}
		ok, err := m.exists(ctx, key)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		return m.client.GetObject(ctx, m.bucket, key, minio.GetObjectOptions{})
	}
	return nil, ErrNotExist
}

func (m *Minio) Remove(ctx context.Context, path string) error {
	return m.client.RemoveObject(ctx, m.bucket, path, minio.RemoveObjectOptions{})
}

func (m *Minio) Check(ctx context.Context) error {
	exists, err := m.client.BucketExists(ctx, m.bucket)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("minio bucket does not exist: %s", m.bucket)
	}
	return nil
}
