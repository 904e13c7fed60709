// Package storage wraps the S3 client used for listing images.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

var (
	ErrMissingCredentials = errors.New("missing storage credentials")
	ErrMissingRegion      = errors.New("missing storage region")
	ErrMissingBucket      = errors.New("missing storage bucket name")
)

// ConfigError reports which environment variables were absent.
type ConfigError struct {
	Missing []string
	Err     error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%v: %s", e.Err, strings.Join(e.Missing, ", "))
}

func (e *ConfigError) Unwrap() error { return e.Err }

// Config is read once at startup.
type Config struct {
	AccessKeyID     string
	SecretAccessKey string
	Region          string
	Bucket          string
	// Endpoint overrides the AWS endpoint for S3-compatible servers.
	Endpoint string
}

// LoadConfig reads the storage settings through getenv, normally os.Getenv.
func LoadConfig(getenv func(string) string) Config {
	return Config{
		AccessKeyID:     getenv("AWS_ACCESS_KEY_ID"),
		SecretAccessKey: getenv("AWS_SECRET_ACCESS_KEY"),
		Region:          getenv("AWS_REGION"),
		Bucket:          getenv("AWS_BUCKET_NAME"),
		Endpoint:        getenv("S3_ENDPOINT"),
	}
}

// Validate checks the configuration in the order credentials, region,
// bucket.
func (c Config) Validate() error {
	var missing []string
	if c.AccessKeyID == "" {
		missing = append(missing, "AWS_ACCESS_KEY_ID")
	}
	if c.SecretAccessKey == "" {
		missing = append(missing, "AWS_SECRET_ACCESS_KEY")
	}
	if len(missing) > 0 {
		return &ConfigError{Missing: missing, Err: ErrMissingCredentials}
	}
	if c.Region == "" {
		return &ConfigError{Missing: []string{"AWS_REGION"}, Err: ErrMissingRegion}
	}
	if c.Bucket == "" {
		return &ConfigError{Missing: []string{"AWS_BUCKET_NAME"}, Err: ErrMissingBucket}
	}
	return nil
}

// UploadParams is the fixed configuration applied to every upload.
type UploadParams struct {
	Bucket string
	ACL    types.ObjectCannedACL
}

// ObjectPutter is the subset of the S3 API the client needs.
type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Client is the shared storage handle. It is immutable after New returns and
// safe for concurrent use.
type Client struct {
	api      ObjectPutter
	bucket   string
	region   string
	endpoint string
}

// New validates cfg and constructs the S3 client. No client exists unless
// the configuration is complete.
func New(cfg Config) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	api := s3.New(s3.Options{
		Region:      cfg.Region,
		Credentials: aws.NewCredentialsCache(credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")),
	}, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return NewWithAPI(api, cfg), nil
}

// NewWithAPI builds a Client around an existing S3 API implementation.
func NewWithAPI(api ObjectPutter, cfg Config) *Client {
	return &Client{
		api:      api,
		bucket:   cfg.Bucket,
		region:   cfg.Region,
		endpoint: strings.TrimRight(cfg.Endpoint, "/"),
	}
}

func (c *Client) Bucket() string { return c.bucket }

func (c *Client) Region() string { return c.region }

// PublicHost is the host serving public objects, used by the image
// allow-list.
func (c *Client) PublicHost() string {
	if c.endpoint != "" {
		if u, err := url.Parse(c.endpoint); err == nil && u.Host != "" {
			return u.Hostname()
		}
	}
	return fmt.Sprintf("%s.s3.%s.amazonaws.com", c.bucket, c.region)
}

// UploadParams returns the public-read upload configuration.
func (c *Client) UploadParams() UploadParams {
	return UploadParams{
		Bucket: c.bucket,
		ACL:    types.ObjectCannedACLPublicRead,
	}
}

// PublicURL is the address of an uploaded object.
func (c *Client) PublicURL(key string) string {
	escaped := (&url.URL{Path: key}).EscapedPath()
	if c.endpoint != "" {
		return fmt.Sprintf("%s/%s/%s", c.endpoint, c.bucket, escaped)
	}
	return fmt.Sprintf("https://%s/%s", c.PublicHost(), escaped)
}

// Upload stores body under key with public-read access and returns its URL.
func (c *Client) Upload(ctx context.Context, key, contentType string, body io.Reader) (string, error) {
	params := c.UploadParams()
	_, err := c.api.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(params.Bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
		ACL:         params.ACL,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", key, err)
	}
	return c.PublicURL(key), nil
}
