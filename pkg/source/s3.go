package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

const s3Scheme = "s3://"

// ErrInvalidS3URI indicates a malformed s3:// input name.
var ErrInvalidS3URI = errors.New("invalid S3 URI")

// ObjectGetter is the subset of the S3 client used to stream objects.
type ObjectGetter interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// IsS3URI reports whether name uses the s3:// scheme.
func IsS3URI(name string) bool {
	return strings.HasPrefix(name, s3Scheme)
}

// ParseS3URI parses an S3 URI (s3://bucket/key) into bucket and key.
// Both parts are required since an input must name a single object.
func ParseS3URI(uri string) (bucket, key string, err error) {
	if !IsS3URI(uri) {
		return "", "", fmt.Errorf("%w: %q must start with %s", ErrInvalidS3URI, uri, s3Scheme)
	}

	bucket, key, _ = strings.Cut(strings.TrimPrefix(uri, s3Scheme), "/")
	if bucket == "" {
		return "", "", fmt.Errorf("%w: %q is missing the bucket name", ErrInvalidS3URI, uri)
	}
	if key == "" {
		return "", "", fmt.Errorf("%w: %q is missing the object key", ErrInvalidS3URI, uri)
	}
	return bucket, key, nil
}

// S3Opener streams S3 objects.
type S3Opener struct {
	client ObjectGetter
}

// NewS3Opener creates an opener over client.
func NewS3Opener(client ObjectGetter) *S3Opener {
	return &S3Opener{client: client}
}

// NewS3OpenerFromEnv creates an opener using the default AWS configuration
// chain (environment, shared config, instance role).
func NewS3OpenerFromEnv(ctx context.Context) (*S3Opener, error) {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}
	return NewS3Opener(s3.NewFromConfig(cfg)), nil
}

// Open returns the body of the object named by the s3:// URI.
func (o *S3Opener) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	bucket, key, err := ParseS3URI(name)
	if err != nil {
		return nil, err
	}

	resp, err := o.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("get object s3://%s/%s: %w", bucket, key, err)
	}
	return resp.Body, nil
}

// LazyS3Opener loads the AWS configuration on the first s3:// input, so
// runs over local files never touch AWS credentials.
type LazyS3Opener struct {
	opener *S3Opener
	err    error
	loaded bool
}

// Open implements Opener.
func (l *LazyS3Opener) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	if !l.loaded {
		l.opener, l.err = NewS3OpenerFromEnv(ctx)
		l.loaded = true
	}
	if l.err != nil {
		return nil, l.err
	}
	return l.opener.Open(ctx, name)
}
