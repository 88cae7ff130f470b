package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"mime"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"law_desk_app_go/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/google/uuid"
)

// ErrInvalidKey is returned for keys that are empty or leave the store
var ErrInvalidKey = errors.New("invalid storage key")

const defaultContentType = "application/octet-stream"

// StorageProvider keeps document attachments and the office logo
type StorageProvider interface {
	Put(ctx context.Context, key string, r io.Reader, contentType string, size int64) (*StoredFile, error)
	// Open returns the content and its type. Missing keys yield ErrNotFound.
	Open(ctx context.Context, key string) (io.ReadCloser, string, error)
	Remove(ctx context.Context, key string) error
	// PublicURL is the direct address of key, or "" when files are only
	// reachable through the authenticated download route
	PublicURL(key string) string
}

// StoredFile describes a file after it was written
type StoredFile struct {
	Key         string
	Size        int64
	ContentType string
}

// Storage is the global storage instance
var Storage StorageProvider

// InitializeStorage picks R2 when it is fully configured and reachable, the
// upload directory otherwise
func InitializeStorage(cfg *config.Config) {
	if !cfg.R2Configured() {
		Storage = NewLocalStorage(cfg.UploadDir)
		log.Printf("Storage connection established (Local filesystem - path: %s)", cfg.UploadDir)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	r2, err := NewR2Storage(ctx, cfg)
	if err == nil {
		err = r2.Ping(ctx)
	}
	if err != nil {
		log.Printf("[WARNING] R2 storage unavailable: %v. Falling back to local storage.", err)
		Storage = NewLocalStorage(cfg.UploadDir)
		return
	}
	Storage = r2
	log.Printf("Storage connection established (Cloudflare R2 - bucket: %s)", cfg.R2BucketName)
}

// SaveUpload writes a multipart upload under key
func SaveUpload(ctx context.Context, store StorageProvider, file *multipart.FileHeader, key string) (*StoredFile, error) {
	src, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open upload: %w", err)
	}
	defer src.Close()

	contentType := file.Header.Get("Content-Type")
	if contentType == "" {
		contentType = contentTypeFor(key)
	}
	return store.Put(ctx, key, src, contentType, file.Size)
}

// FileURL returns the address a stored file is reachable at: the provider's
// public URL, or the authenticated download route when there is none
func FileURL(store StorageProvider, key string) string {
	if u := store.PublicURL(key); u != "" {
		return u
	}
	return "/api/files/" + key
}

// CleanKey normalizes a slash separated key and rejects traversal
func CleanKey(key string) (string, error) {
	cleaned := strings.TrimPrefix(path.Clean("/"+strings.ReplaceAll(key, "\\", "/")), "/")
	if cleaned == "" || cleaned == "." || strings.Contains(key, "..") {
		return "", ErrInvalidKey
	}
	return cleaned, nil
}

func contentTypeFor(key string) string {
	if t := mime.TypeByExtension(strings.ToLower(path.Ext(key))); t != "" {
		return t
	}
	return defaultContentType
}

// R2Storage stores files in a Cloudflare R2 bucket through the S3 API
type R2Storage struct {
	client    *s3.Client
	bucket    string
	publicURL string
}

// NewR2Storage builds the S3 client for the account's R2 endpoint
func NewR2Storage(ctx context.Context, cfg *config.Config) (*R2Storage, error) {
	creds := credentials.NewStaticCredentialsProvider(cfg.R2AccessKeyID, cfg.R2SecretAccessKey, "")
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithCredentialsProvider(creds),
		awsconfig.WithRegion("auto"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	endpoint := fmt.Sprintf("https://%s.r2.cloudflarestorage.com", cfg.R2AccountID)
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(endpoint)
		o.UsePathStyle = true
	})
	return &R2Storage{client: client, bucket: cfg.R2BucketName, publicURL: cfg.R2PublicURL}, nil
}

// Ping checks the bucket is reachable with the configured credentials
func (r *R2Storage) Ping(ctx context.Context) error {
	_, err := r.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(r.bucket)})
	return err
}

func (r *R2Storage) Put(ctx context.Context, key string, body io.Reader, contentType string, size int64) (*StoredFile, error) {
	key, err := CleanKey(key)
	if err != nil {
		return nil, err
	}
	_, err = r.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(r.bucket),
		Key:           aws.String(key),
		Body:          body,
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(size),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload %s to R2: %w", key, err)
	}
	return &StoredFile{Key: key, Size: size, ContentType: contentType}, nil
}

func (r *R2Storage) Open(ctx context.Context, key string) (io.ReadCloser, string, error) {
	out, err := r.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(r.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var missing *types.NoSuchKey
		if errors.As(err, &missing) {
			return nil, "", fmt.Errorf("%s: %w", key, ErrNotFound)
		}
		return nil, "", fmt.Errorf("failed to read %s from R2: %w", key, err)
	}
	contentType := aws.ToString(out.ContentType)
	if contentType == "" {
		contentType = contentTypeFor(key)
	}
	return out.Body, contentType, nil
}

func (r *R2Storage) Remove(ctx context.Context, key string) error {
	_, err := r.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(r.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete %s from R2: %w", key, err)
	}
	return nil
}

func (r *R2Storage) PublicURL(key string) string {
	if r.publicURL == "" {
		return ""
	}
	return strings.TrimSuffix(r.publicURL, "/") + "/" + key
}

// LocalStorage keeps files under a directory on disk
type LocalStorage struct {
	baseDir string
}

func NewLocalStorage(baseDir string) *LocalStorage {
	return &LocalStorage{baseDir: baseDir}
}

// path maps key into baseDir
func (l *LocalStorage) path(key string) (string, error) {
	key, err := CleanKey(key)
	if err != nil {
		return "", err
	}
	return filepath.Join(l.baseDir, filepath.FromSlash(key)), nil
}

func (l *LocalStorage) Put(_ context.Context, key string, body io.Reader, contentType string, _ int64) (*StoredFile, error) {
	full, err := l.path(key)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	dst, err := os.Create(full)
	if err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}
	written, err := io.Copy(dst, body)
	if closeErr := dst.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(full)
		return nil, fmt.Errorf("failed to save file: %w", err)
	}
	cleaned, _ := CleanKey(key)
	return &StoredFile{Key: cleaned, Size: written, ContentType: contentType}, nil
}

func (l *LocalStorage) Open(_ context.Context, key string) (io.ReadCloser, string, error) {
	full, err := l.path(key)
	if err != nil {
		return nil, "", err
	}
	f, err := os.Open(full)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, "", fmt.Errorf("%s: %w", key, ErrNotFound)
		}
		return nil, "", fmt.Errorf("failed to open file: %w", err)
	}
	return f, contentTypeFor(key), nil
}

func (l *LocalStorage) Remove(_ context.Context, key string) error {
	full, err := l.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// PublicURL is always empty: local files are served only to a signed-in office
func (l *LocalStorage) PublicURL(string) string {
	return ""
}

// DocumentFileKey is where an attachment of document documentID is stored
func DocumentFileKey(documentID, originalFilename string) string {
	return fmt.Sprintf("documents/%s/%s%s", documentID, uuid.NewString(), strings.ToLower(filepath.Ext(originalFilename)))
}

// OfficeLogoKey is where a newly uploaded office logo is stored
func OfficeLogoKey(originalFilename string) string {
	return fmt.Sprintf("office/logo_%s%s", uuid.NewString()[:8], strings.ToLower(filepath.Ext(originalFilename)))
}
