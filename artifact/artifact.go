// Package artifact publishes prepared files (archives, manifests, graph
// supports) to where training jobs pick them up.
package artifact

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Publisher copies a local file to a destination under key.
type Publisher interface {
	Publish(ctx context.Context, key, localPath string) error
}

// Nop keeps files where they were written.
type Nop struct{}

// Publish does nothing.
func (Nop) Publish(context.Context, string, string) error { return nil }

// S3Config holds the settings of an S3 or MinIO destination.
type S3Config struct {
	Bucket          string
	Prefix          string
	Region          string
	Endpoint        string // custom endpoint such as MinIO; enables path-style addressing
	AccessKeyID     string
	SecretAccessKey string
}

// putObjectAPI is the part of *s3.Client the publisher uses.
type putObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3 uploads files to a bucket.
type S3 struct {
	client putObjectAPI
	bucket string
	prefix string
	meta   map[string]string
}

// NewS3 builds an S3 publisher from cfg. Credentials fall back to the default
// AWS chain when no static keys are set.
func NewS3(ctx context.Context, cfg S3Config, meta map[string]string) (*S3, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("artifact: bucket must be set")
	}

	opts := []func(*awsconfig.LoadOptions) error{}
	if cfg.Region != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.Region))
	}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			endpoint := cfg.Endpoint
			if !strings.Contains(endpoint, "://") {
				endpoint = "http://" + endpoint
			}
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		}
	})

	return newS3(client, cfg.Bucket, cfg.Prefix, meta), nil
}

func newS3(client putObjectAPI, bucket, prefix string, meta map[string]string) *S3 {
	return &S3{
		client: client,
		bucket: bucket,
		prefix: strings.Trim(prefix, "/"),
		meta:   meta,
	}
}

// Key returns the object key for a published name.
func (p *S3) Key(key string) string {
	key = filepath.ToSlash(key)
	if p.prefix == "" {
		return key
	}
	return path.Join(p.prefix, key)
}

// Publish uploads localPath as <prefix>/<key>.
func (p *S3) Publish(ctx context.Context, key, localPath string) error {
	f, err := os.Open(localPath)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = p.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(p.bucket),
		Key:         aws.String(p.Key(key)),
		Body:        f,
		ContentType: aws.String(contentType(localPath)),
		Metadata:    p.meta,
	})
	if err != nil {
		return fmt.Errorf("failed to upload %s to s3://%s/%s: %w", localPath, p.bucket, p.Key(key), err)
	}
	return nil
}

func contentType(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".json":
		return "application/json"
	case ".csv":
		return "text/csv"
	default:
		return "application/octet-stream"
	}
}
