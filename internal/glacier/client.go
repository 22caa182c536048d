// Package glacier wraps the AWS Glacier client for the cold-storage tier.
// The tier has no synchronous listing and serves archive bodies through
// asynchronous retrieval jobs; the shadow inventory in internal/inventory
// compensates for the former, and this client exposes the job protocol for
// the latter.
package glacier

import (
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	awsglacier "github.com/aws/aws-sdk-go-v2/service/glacier"
	"github.com/aws/aws-sdk-go-v2/service/glacier/types"
)

// accountID "-" addresses the vault owner's own account.
const accountID = "-"

type Options struct {
	Region    string
	AccessKey string
	SecretKey string
	Vault     string
}

type Client struct {
	client *awsglacier.Client
	vault  string
}

func New(_ context.Context, opts Options) (*Client, error) {
	if opts.Vault == "" {
		return nil, fmt.Errorf("glacier vault is required")
	}
	if opts.Region == "" {
		opts.Region = "us-east-1"
	}

	cfg := aws.Config{
		Region:      opts.Region,
		Credentials: credentials.NewStaticCredentialsProvider(opts.AccessKey, opts.SecretKey, ""),
	}
	return &Client{
		client: awsglacier.NewFromConfig(cfg),
		vault:  opts.Vault,
	}, nil
}

// Vault returns the configured vault name.
func (c *Client) Vault() string {
	return c.vault
}

// Upload stores an archive and returns the remote archive identifier. The
// description travels with the archive so Glacier's own (hours-stale)
// vault inventory still names the backup.
func (c *Client) Upload(ctx context.Context, body io.ReadSeeker, description string) (string, error) {
	out, err := c.client.UploadArchive(ctx, &awsglacier.UploadArchiveInput{
		AccountId:          aws.String(accountID),
		VaultName:          aws.String(c.vault),
		ArchiveDescription: aws.String(description),
		Body:               body,
	})
	if err != nil {
		return "", fmt.Errorf("glacier upload: %w", err)
	}
	if out.ArchiveId == nil {
		return "", fmt.Errorf("glacier upload: no archive id returned")
	}
	return *out.ArchiveId, nil
}

// Delete removes an archive by its remote identifier.
func (c *Client) Delete(ctx context.Context, archiveID string) error {
	_, err := c.client.DeleteArchive(ctx, &awsglacier.DeleteArchiveInput{
		AccountId: aws.String(accountID),
		VaultName: aws.String(c.vault),
		ArchiveId: aws.String(archiveID),
	})
	if err != nil {
		return fmt.Errorf("glacier delete: %w", err)
	}
	return nil
}

// RequestRetrieval initiates an archive-retrieval job and returns its id.
// The job typically completes in hours; callers persist the id and poll.
func (c *Client) RequestRetrieval(ctx context.Context, archiveID string) (string, error) {
	out, err := c.client.InitiateJob(ctx, &awsglacier.InitiateJobInput{
		AccountId: aws.String(accountID),
		VaultName: aws.String(c.vault),
		JobParameters: &types.JobParameters{
			Type:      aws.String("archive-retrieval"),
			ArchiveId: aws.String(archiveID),
		},
	})
	if err != nil {
		return "", fmt.Errorf("glacier initiate job: %w", err)
	}
	if out.JobId == nil {
		return "", fmt.Errorf("glacier initiate job: no job id returned")
	}
	return *out.JobId, nil
}

// JobReady polls a retrieval job. It is cheap and idempotent: describing a
// job never changes its state, so callers may poll indefinitely across
// process restarts. A failed job is an error, not a pending state.
func (c *Client) JobReady(ctx context.Context, jobID string) (bool, error) {
	out, err := c.client.DescribeJob(ctx, &awsglacier.DescribeJobInput{
		AccountId: aws.String(accountID),
		VaultName: aws.String(c.vault),
		JobId:     aws.String(jobID),
	})
	if err != nil {
		return false, fmt.Errorf("glacier describe job: %w", err)
	}
	switch out.StatusCode {
	case types.StatusCodeSucceeded:
		return true, nil
	case types.StatusCodeFailed:
		return false, fmt.Errorf("glacier job %s failed: %s", jobID, aws.ToString(out.StatusMessage))
	default:
		return false, nil
	}
}

// FetchJobOutput streams the body of a completed retrieval job. Only valid
// once JobReady reports true.
func (c *Client) FetchJobOutput(ctx context.Context, jobID string) (io.ReadCloser, error) {
	out, err := c.client.GetJobOutput(ctx, &awsglacier.GetJobOutputInput{
		AccountId: aws.String(accountID),
		VaultName: aws.String(c.vault),
		JobId:     aws.String(jobID),
	})
	if err != nil {
		return nil, fmt.Errorf("glacier job output: %w", err)
	}
	return out.Body, nil
}
