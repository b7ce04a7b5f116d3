package seed

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// ObjectGetter is the part of the S3 client the loader uses.
type ObjectGetter interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Config configures the client for s3:// sources. Credentials come from
// the default AWS chain.
type S3Config struct {
	Region    string
	Endpoint  string // optional, for MinIO or R2
	PathStyle bool
}

// NewS3Client builds an S3 client from cfg.
func NewS3Client(ctx context.Context, cfg S3Config) (*s3.Client, error) {
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.PathStyle
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	}), nil
}

// HasS3Sources reports whether any source needs an S3 client.
func HasS3Sources(sources []string) bool {
	for _, s := range sources {
		if isS3(s) {
			return true
		}
	}
	return false
}

func isS3(source string) bool {
	return strings.HasPrefix(source, "s3://")
}

// parseS3 splits s3://bucket/path/to/key.
func parseS3(source string) (bucket, key string, err error) {
	u, err := url.Parse(source)
	if err != nil {
		return "", "", fmt.Errorf("invalid s3 source: %w", err)
	}
	key = strings.TrimPrefix(u.Path, "/")
	if u.Host == "" || key == "" {
		return "", "", fmt.Errorf("s3 source %s must be s3://bucket/key", source)
	}
	return u.Host, key, nil
}

func (l *Loader) openS3(ctx context.Context, source string) (io.ReadCloser, error) {
	if l.s3 == nil {
		return nil, fmt.Errorf("no S3 client configured for %s", source)
	}
	bucket, key, err := parseS3(source)
	if err != nil {
		return nil, err
	}
	out, err := l.s3.GetObject(ctx, &s3.GetObjectInput{Bucket: aws.String(bucket), Key: aws.String(key)})
	if err != nil {
		return nil, fmt.Errorf("failed to get object: %w", err)
	}
	return out.Body, nil
}
