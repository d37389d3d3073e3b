package storage

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Mirror yerel olarak yazılan dosyaları bir nesne deposuna (R2/S3) kopyalar.
type Mirror interface {
	// Put uploads the local file under key and returns its public URL.
	Put(ctx context.Context, key, localPath, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
	KeyFromURL(url string) (string, bool)
	Enabled() bool
}

// NopMirror keeps files local only.
type NopMirror struct{}

func (NopMirror) Put(context.Context, string, string, string) (string, error) { return "", nil }
func (NopMirror) Delete(context.Context, string) error                        { return nil }
func (NopMirror) KeyFromURL(string) (string, bool)                            { return "", false }
func (NopMirror) Enabled() bool                                               { return false }

type objectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

type S3Mirror struct {
	client  objectAPI
	bucket  string
	baseURL string
}

type S3MirrorConfig struct {
	AccountID  string
	AccessKey  string
	SecretKey  string
	Bucket     string
	Endpoint   string // boşsa Cloudflare R2 endpoint'i kullanılır
	CDNBaseURL string
}

func NewS3Mirror(ctx context.Context, cfg S3MirrorConfig) (*S3Mirror, error) {
	awsCfg, err := config.LoadDefaultConfig(ctx,
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKey,
			cfg.SecretKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("unable to load SDK config: %w", err)
	}

	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = fmt.Sprintf("https://%s.r2.cloudflarestorage.com", cfg.AccountID)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(endpoint)
		o.UsePathStyle = true
		o.Region = "auto"
	})

	return newS3Mirror(client, cfg.Bucket, cfg.CDNBaseURL), nil
}

func newS3Mirror(client objectAPI, bucket, baseURL string) *S3Mirror {
	return &S3Mirror{client: client, bucket: bucket, baseURL: strings.TrimRight(baseURL, "/")}
}

func (m *S3Mirror) Enabled() bool { return true }

func (m *S3Mirror) Put(ctx context.Context, key, localPath, contentType string) (string, error) {
	f, err := os.Open(localPath)
	if err != nil {
		return "", fmt.Errorf("could not open file: %w", err)
	}
	defer f.Close()

	input := &s3.PutObjectInput{
		Bucket: aws.String(m.bucket),
		Key:    aws.String(key),
		Body:   f,
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}

	if _, err := m.client.PutObject(ctx, input); err != nil {
		return "", fmt.Errorf("could not upload %s: %w", key, err)
	}
	return m.URL(key), nil
}

func (m *S3Mirror) Delete(ctx context.Context, key string) error {
	_, err := m.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(m.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("could not delete %s: %w", key, err)
	}
	return nil
}

func (m *S3Mirror) URL(key string) string {
	return m.baseURL + "/" + strings.TrimLeft(key, "/")
}

// KeyFromURL tam URL'den object key'i döndürür
func (m *S3Mirror) KeyFromURL(url string) (string, bool) {
	prefix := m.baseURL + "/"
	if !strings.HasPrefix(url, prefix) {
		return "", false
	}
	return strings.TrimPrefix(url, prefix), true
}
