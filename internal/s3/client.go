// Package s3 wraps the AWS SDK S3 client with the bucket/prefix handling
// coldvault needs. Keys passed in and returned are relative to the
// configured prefix, so callers only ever see stored archive names.
package s3

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
)

const (
	// MinPartSizeBytes is the S3 lower bound for multipart parts.
	MinPartSizeBytes = 5 * 1024 * 1024

	// MultipartThresholdBytes is the payload size above which uploads
	// switch to the multipart API.
	MultipartThresholdBytes = 64 * 1024 * 1024
)

// Options configures a Client. Endpoint is only needed for S3-compatible
// stores (MinIO etc.); leave it empty for AWS.
type Options struct {
	Region    string
	AccessKey string
	SecretKey string
	Bucket    string
	Prefix    string
	Endpoint  string
}

type Client struct {
	client *awss3.Client
	bucket string
	prefix string
}

func New(_ context.Context, opts Options) (*Client, error) {
	if opts.Bucket == "" {
		return nil, fmt.Errorf("s3 bucket is required")
	}
	if opts.Region == "" {
		opts.Region = "us-east-1"
	}

	cfg := aws.Config{
		Region:      opts.Region,
		Credentials: credentials.NewStaticCredentialsProvider(opts.AccessKey, opts.SecretKey, ""),
	}

	client := awss3.NewFromConfig(cfg, func(o *awss3.Options) {
		if opts.Endpoint != "" {
			endpoint := opts.Endpoint
			if u, err := url.Parse(endpoint); err == nil && u.Scheme == "" {
				endpoint = "https://" + endpoint
			}
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		}
	})

	return &Client{
		client: client,
		bucket: opts.Bucket,
		prefix: strings.Trim(opts.Prefix, "/"),
	}, nil
}

// Bucket returns the configured bucket name.
func (c *Client) Bucket() string {
	return c.bucket
}

func (c *Client) fullKey(key string) string {
	key = strings.Trim(key, "/")
	if c.prefix == "" {
		return key
	}
	return path.Join(c.prefix, key)
}

func (c *Client) relativeKey(full string) string {
	if c.prefix == "" {
		return full
	}
	return strings.TrimPrefix(full, c.prefix+"/")
}

// PutObject uploads a small object in a single request.
func (c *Client) PutObject(ctx context.Context, key string, body io.Reader, contentLength int64) error {
	_, err := c.client.PutObject(ctx, &awss3.PutObjectInput{
		Bucket:        aws.String(c.bucket),
		Key:           aws.String(c.fullKey(key)),
		Body:          body,
		ContentLength: aws.Int64(contentLength),
	})
	return err
}

// GetObject streams an object's body. The caller closes it.
func (c *Client) GetObject(ctx context.Context, key string) (io.ReadCloser, error) {
	out, err := c.client.GetObject(ctx, &awss3.GetObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(c.fullKey(key)),
	})
	if err != nil {
		return nil, err
	}
	return out.Body, nil
}

// DeleteObject removes an object.
func (c *Client) DeleteObject(ctx context.Context, key string) error {
	_, err := c.client.DeleteObject(ctx, &awss3.DeleteObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(c.fullKey(key)),
	})
	return err
}

// ListKeys returns every key under the configured prefix, relative to it.
func (c *Client) ListKeys(ctx context.Context) ([]string, error) {
	input := &awss3.ListObjectsV2Input{
		Bucket: aws.String(c.bucket),
	}
	if c.prefix != "" {
		input.Prefix = aws.String(c.prefix + "/")
	}

	var keys []string
	paginator := awss3.NewListObjectsV2Paginator(c.client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		for _, obj := range page.Contents {
			if obj.Key != nil {
				keys = append(keys, c.relativeKey(*obj.Key))
			}
		}
	}
	return keys, nil
}
