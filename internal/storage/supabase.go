package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"

	"hospital-admin-go/internal/config"
	"hospital-admin-go/pkg/logger"
)

var ErrNotConfigured = errors.New("object storage not configured")

// Object is an uploaded file.
type Object struct {
	Bucket    string
	Path      string
	PublicURL string
}

// SupabaseStorage talks to the Supabase Storage REST API.
type SupabaseStorage struct {
	client  *resty.Client
	baseURL string
	log     logger.Logger
}

type storageError struct {
	StatusCode string `json:"statusCode"`
	Error      string `json:"error"`
	Message    string `json:"message"`
}

func NewSupabase(cfg config.StorageConfig, log logger.Logger) *SupabaseStorage {
	baseURL := strings.TrimRight(cfg.URL, "/")
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	client := resty.New().
		SetBaseURL(baseURL+"/storage/v1").
		SetTimeout(timeout).
		SetHeader("Authorization", "Bearer "+cfg.ServiceKey).
		SetHeader("apikey", cfg.ServiceKey)

	return &SupabaseStorage{
		client:  client,
		baseURL: baseURL,
		log:     log,
	}
}

func (s *SupabaseStorage) configured() bool {
	return s.baseURL != ""
}

// Upload stores data under prefix with a generated name that keeps the
// original extension, and returns its public URL.
func (s *SupabaseStorage) Upload(ctx context.Context, bucket, prefix, filename, contentType string, data io.Reader) (*Object, error) {
	if !s.configured() {
		return nil, ErrNotConfigured
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	objectPath := ObjectName(prefix, filename)

	var apiErr storageError
	resp, err := s.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", contentType).
		SetHeader("x-upsert", "true").
		SetBody(data).
		SetError(&apiErr).
		Post("/object/" + bucket + "/" + escapePath(objectPath))
	if err != nil {
		return nil, fmt.Errorf("upload %s/%s: %w", bucket, objectPath, err)
	}
	if resp.IsError() {
		s.log.Error("storage: upload rejected", "bucket", bucket, "path", objectPath, "status", resp.StatusCode(), "message", apiErr.Message)
		return nil, fmt.Errorf("upload %s/%s: status %d: %s", bucket, objectPath, resp.StatusCode(), firstNonEmpty(apiErr.Message, apiErr.Error))
	}

	return &Object{
		Bucket:    bucket,
		Path:      objectPath,
		PublicURL: s.PublicURL(bucket, objectPath),
	}, nil
}

// Remove deletes objects from a bucket. Missing objects are not an error.
func (s *SupabaseStorage) Remove(ctx context.Context, bucket string, paths ...string) error {
	if !s.configured() {
		return ErrNotConfigured
	}
	if len(paths) == 0 {
		return nil
	}

	var apiErr storageError
	resp, err := s.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(map[string][]string{"prefixes": paths}).
		SetError(&apiErr).
		Delete("/object/" + bucket)
	if err != nil {
		return fmt.Errorf("remove from %s: %w", bucket, err)
	}
	if resp.IsError() {
		return fmt.Errorf("remove from %s: status %d: %s", bucket, resp.StatusCode(), firstNonEmpty(apiErr.Message, apiErr.Error))
	}
	return nil
}

func (s *SupabaseStorage) PublicURL(bucket, objectPath string) string {
	return s.baseURL + "/storage/v1/object/public/" + bucket + "/" + escapePath(objectPath)
}

// ObjectName builds prefix/<unix-millis>-<uuid><ext>.
func ObjectName(prefix, filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	name := fmt.Sprintf("%d-%s%s", time.Now().UnixMilli(), uuid.NewString(), ext)
	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		return name
	}
	return prefix + "/" + name
}

func escapePath(objectPath string) string {
	parts := strings.Split(objectPath, "/")
	for i, part := range parts {
		parts[i] = url.PathEscape(part)
	}
	return strings.Join(parts, "/")
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if value != "" {
			return value
		}
	}
	return ""
}
