package storage

import (
	"errors"
	"fmt"
	"strings"
)

// R2Options configures the Cloudflare R2 backend. R2 speaks the S3 protocol,
// so it reuses the S3 client with a fixed endpoint layout.
type R2Options struct {
	AccountID       string
	Endpoint        string
	Region          string
	Bucket          string
	Prefix          string
	AccessKeyID     string
	SecretAccessKey string
}

func NewR2Storage(opts R2Options) (Storage, error) {
	bucket := strings.TrimSpace(opts.Bucket)
	if bucket == "" {
		return nil, errors.New("storage: missing R2 bucket")
	}

	endpoint := strings.TrimSpace(opts.Endpoint)
	accountID := strings.TrimSpace(opts.AccountID)
	if endpoint == "" {
		if accountID == "" {
			return nil, errors.New("storage: missing R2 endpoint or account id")
		}
		endpoint = fmt.Sprintf("https://%s.r2.cloudflarestorage.com", accountID)
	}

	region := strings.TrimSpace(opts.Region)
	if region == "" {
		region = "auto"
	}

	client, err := newS3Client(S3Options{
		Region:          region,
		Endpoint:        endpoint,
		AccessKeyID:     opts.AccessKeyID,
		SecretAccessKey: opts.SecretAccessKey,
		ForcePathStyle:  true,
	})
	if err != nil {
		return nil, fmt.Errorf("storage: create R2 client: %w", err)
	}

	return &s3Storage{
		client: client,
		bucket: bucket,
		prefix: trimPrefix(opts.Prefix),
	}, nil
}
