// Package s3 implements the driven.Backend port on an S3-compatible
// object store. Containers are key prefixes; object identities are full
// keys. A custom endpoint makes the backend work against MinIO.
package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/gabriel-vasile/mimetype"

	"github.com/custodia-labs/qontosync/internal/core/domain"
	"github.com/custodia-labs/qontosync/internal/core/ports/driven"
)

// Ensure Backend implements the port.
var _ driven.Backend = (*Backend)(nil)

// Config carries the destination bucket settings.
type Config struct {
	Bucket string
	Prefix string
	Region string

	// Endpoint overrides the AWS endpoint for S3-compatible stores.
	// Empty uses AWS proper.
	Endpoint string

	// AccessKey and SecretKey select static credentials. When empty the
	// default provider chain applies (env, shared config, instance role).
	AccessKey string
	SecretKey string
}

// Backend stores synchronised attachments under bucket/prefix.
type Backend struct {
	client *s3.Client
	bucket string
	prefix string
}

// New builds the client and validates that the bucket is reachable.
// An unreachable bucket is a fatal configuration error.
func New(ctx context.Context, cfg Config) (*Backend, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: load AWS config: %w", domain.ErrConfig, err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	b := &Backend{client: client, bucket: cfg.Bucket, prefix: cfg.Prefix}
	if _, err := client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(cfg.Bucket)}); err != nil {
		return nil, fmt.Errorf("%w: bucket %q is not accessible: %w", domain.ErrConfig, cfg.Bucket, err)
	}
	return b, nil
}

// Exists reports whether an object named name lives under parent.
func (b *Backend) Exists(ctx context.Context, name, parent string) (string, error) {
	key := path.Join(parent, name)
	_, err := b.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return "", classify(key, err)
	}
	return key, nil
}

// Write upserts an object. PutObject replaces atomically, so there is
// never a partial object visible under the key.
func (b *Backend) Write(ctx context.Context, name, parent string, data []byte) error {
	key := path.Join(parent, name)
	_, err := b.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(b.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(mimetype.Detect(data).String()),
	})
	if err != nil {
		return classify(key, err)
	}
	return nil
}

// Rename copies the object to the new key and deletes the old one.
// Neither step is destructive until the copy succeeded.
func (b *Backend) Rename(ctx context.Context, oldName, newName, parent string) error {
	oldKey := path.Join(parent, oldName)
	newKey := path.Join(parent, newName)

	_, err := b.client.CopyObject(ctx, &s3.CopyObjectInput{
		Bucket:     aws.String(b.bucket),
		CopySource: aws.String(url.PathEscape(b.bucket + "/" + oldKey)),
		Key:        aws.String(newKey),
	})
	if err != nil {
		return classify(oldKey, err)
	}

	_, err = b.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(oldKey),
	})
	if err != nil {
		return classify(oldKey, err)
	}
	return nil
}

// Read returns an object's bytes.
func (b *Backend) Read(ctx context.Context, name, parent string) ([]byte, error) {
	key := path.Join(parent, name)
	out, err := b.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, classify(key, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", domain.ErrTransient, key, err)
	}
	return data, nil
}

// EnsureContainer returns the child prefix. Prefixes need no creation in
// an object store, so this never calls the API.
func (b *Backend) EnsureContainer(_ context.Context, name, parent string) (string, error) {
	return path.Join(parent, name), nil
}

// Root returns the configured key prefix.
func (b *Backend) Root() string { return b.prefix }

// Location describes the destination for run output.
func (b *Backend) Location() string {
	return "s3 bucket " + path.Join(b.bucket, b.prefix)
}

// ContainerLink returns "" - plain buckets have no stable browser URL.
func (b *Backend) ContainerLink(string) string { return "" }

// classify maps SDK failures onto the domain error taxonomy.
func classify(key string, err error) error {
	var notFound *types.NotFound
	var noSuchKey *types.NoSuchKey
	if errors.As(err, &notFound) || errors.As(err, &noSuchKey) {
		return fmt.Errorf("%w: %s", domain.ErrNotFound, key)
	}
	return fmt.Errorf("%w: %s: %w", domain.ErrTransient, key, err)
}
