package s3

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	s3aws "github.com/aws/aws-sdk-go-v2/service/s3"
)

// Client is the subset of the S3 API the bucket uses.
type Client interface {
	PutObject(ctx context.Context, params *s3aws.PutObjectInput, optFns ...func(*s3aws.Options)) (*s3aws.PutObjectOutput, error)
	GetObject(ctx context.Context, params *s3aws.GetObjectInput, optFns ...func(*s3aws.Options)) (*s3aws.GetObjectOutput, error)
	HeadObject(ctx context.Context, params *s3aws.HeadObjectInput, optFns ...func(*s3aws.Options)) (*s3aws.HeadObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3aws.DeleteObjectInput, optFns ...func(*s3aws.Options)) (*s3aws.DeleteObjectOutput, error)
	HeadBucket(ctx context.Context, params *s3aws.HeadBucketInput, optFns ...func(*s3aws.Options)) (*s3aws.HeadBucketOutput, error)
}

// Option configures New.
type Option func(*options)

type options struct {
	client        Client
	httpClient    *http.Client
	loadOptions   []func(*config.LoadOptions) error
	clientOptions []func(*s3aws.Options)
	uploadTimeout time.Duration
}

// WithClient uses a preconfigured client instead of building one.
func WithClient(c Client) Option {
	return func(o *options) { o.client = c }
}

// WithHTTPClient sets the HTTP client used by the SDK.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) { o.httpClient = c }
}

func WithConfigOption(fn func(*config.LoadOptions) error) Option {
	return func(o *options) { o.loadOptions = append(o.loadOptions, fn) }
}

func WithClientOption(fn func(*s3aws.Options)) Option {
	return func(o *options) { o.clientOptions = append(o.clientOptions, fn) }
}

// WithUploadTimeout bounds Put calls independently of the caller's context.
func WithUploadTimeout(d time.Duration) Option {
	return func(o *options) { o.uploadTimeout = d }
}

// Object describes a stored object.
type Object struct {
	Key         string
	Size        int64
	ContentType string
	ETag        string
}

// Bucket stores objects under keys in a single bucket.
type Bucket struct {
	client        Client
	cfg           Config
	uploadTimeout time.Duration
}

// New builds a Bucket. Without static credentials the default AWS chain
// (environment, shared config, instance role) applies.
func New(ctx context.Context, cfg Config, opts ...Option) (*Bucket, error) {
	if cfg.Bucket == "" || cfg.Region == "" {
		return nil, ErrInvalidConfig
	}

	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	client := o.client
	if client == nil {
		loadOpts := []func(*config.LoadOptions) error{config.WithRegion(cfg.Region)}
		if cfg.AccessKeyID != "" && cfg.SecretKey != "" {
			loadOpts = append(loadOpts, config.WithCredentialsProvider(
				credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretKey, ""),
			))
		}
		if o.httpClient != nil {
			loadOpts = append(loadOpts, config.WithHTTPClient(o.httpClient))
		}
		loadOpts = append(loadOpts, o.loadOptions...)

		awsCfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
		if err != nil {
			return nil, errors.Join(ErrLoadAWSConfig, err)
		}
		client = s3aws.NewFromConfig(awsCfg, func(so *s3aws.Options) {
			if cfg.Endpoint != "" {
				so.BaseEndpoint = aws.String(cfg.Endpoint)
			}
			so.UsePathStyle = cfg.ForcePathStyle
			for _, fn := range o.clientOptions {
				fn(so)
			}
		})
	}

	return &Bucket{client: client, cfg: cfg, uploadTimeout: o.uploadTimeout}, nil
}

// Put uploads body under key.
func (b *Bucket) Put(ctx context.Context, key string, body io.Reader, contentType string) (*Object, error) {
	key, err := cleanKey(key)
	if err != nil {
		return nil, err
	}
	if b.uploadTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, b.uploadTimeout)
		defer cancel()
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	out, err := b.client.PutObject(ctx, &s3aws.PutObjectInput{
		Bucket:      aws.String(b.cfg.Bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return nil, classifyError(err, "put object")
	}

	return &Object{Key: key, ContentType: contentType, ETag: aws.ToString(out.ETag)}, nil
}

// Get opens the object under key. The caller closes the reader.
func (b *Bucket) Get(ctx context.Context, key string) (io.ReadCloser, *Object, error) {
	key, err := cleanKey(key)
	if err != nil {
		return nil, nil, err
	}
	out, err := b.client.GetObject(ctx, &s3aws.GetObjectInput{
		Bucket: aws.String(b.cfg.Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, nil, classifyError(err, "get object")
	}
	return out.Body, &Object{
		Key:         key,
		Size:        aws.ToInt64(out.ContentLength),
		ContentType: aws.ToString(out.ContentType),
		ETag:        aws.ToString(out.ETag),
	}, nil
}

// Exists reports whether key is present.
func (b *Bucket) Exists(ctx context.Context, key string) (bool, error) {
	key, err := cleanKey(key)
	if err != nil {
		return false, err
	}
	_, err = b.client.HeadObject(ctx, &s3aws.HeadObjectInput{
		Bucket: aws.String(b.cfg.Bucket),
		Key:    aws.String(key),
	})
	if err == nil {
		return true, nil
	}
	err = classifyError(err, "head object")
	if errors.Is(err, ErrObjectNotFound) {
		return false, nil
	}
	return false, err
}

// Delete removes key. Deleting a missing key is not an error.
func (b *Bucket) Delete(ctx context.Context, key string) error {
	key, err := cleanKey(key)
	if err != nil {
		return err
	}
	_, err = b.client.DeleteObject(ctx, &s3aws.DeleteObjectInput{
		Bucket: aws.String(b.cfg.Bucket),
		Key:    aws.String(key),
	})
	if err = classifyError(err, "delete object"); err != nil && !errors.Is(err, ErrObjectNotFound) {
		return err
	}
	return nil
}

// URL returns the public URL of key. BaseURL wins, then a custom endpoint,
// then the virtual-hosted AWS form.
func (b *Bucket) URL(key string) string {
	key = strings.TrimPrefix(key, "/")
	escaped := (&url.URL{Path: key}).EscapedPath()

	switch {
	case b.cfg.BaseURL != "":
		return strings.TrimSuffix(b.cfg.BaseURL, "/") + "/" + escaped
	case b.cfg.Endpoint != "" && b.cfg.ForcePathStyle:
		return strings.TrimSuffix(b.cfg.Endpoint, "/") + "/" + b.cfg.Bucket + "/" + escaped
	case b.cfg.Endpoint != "":
		u, err := url.Parse(b.cfg.Endpoint)
		if err != nil || u.Host == "" {
			return strings.TrimSuffix(b.cfg.Endpoint, "/") + "/" + b.cfg.Bucket + "/" + escaped
		}
		return u.Scheme + "://" + b.cfg.Bucket + "." + u.Host + "/" + escaped
	default:
		return "https://" + b.cfg.Bucket + ".s3." + b.cfg.Region + ".amazonaws.com/" + escaped
	}
}

// Check verifies the bucket is reachable with the configured credentials.
func (b *Bucket) Check(ctx context.Context) error {
	_, err := b.client.HeadBucket(ctx, &s3aws.HeadBucketInput{Bucket: aws.String(b.cfg.Bucket)})
	return classifyError(err, "head bucket")
}

func cleanKey(key string) (string, error) {
	key = strings.TrimPrefix(key, "/")
	if key == "" || strings.Contains(key, "..") {
		return "", fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return key, nil
}
