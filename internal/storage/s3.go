// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package storage removes the photo objects behind post files from an
// S3-compatible bucket (CEPH, MinIO, Hetzner) and names new ones.
package storage

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/google/uuid"
)

// MaxDeleteBatch is the most keys S3 accepts in one DeleteObjects call.
const MaxDeleteBatch = 1000

// deleteAPI is the part of *s3.Client the storage client calls.
type deleteAPI interface {
	DeleteObjects(ctx context.Context, in *s3.DeleteObjectsInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectsOutput, error)
}

// Client deletes objects from one bucket.
type Client struct {
	api    deleteAPI
	bucket string
}

// New returns a client using path-style addressing, or (nil, nil) when
// the endpoint or credentials are empty so the app can run without
// storage.
func New(endpoint, region, accessKey, secretKey, bucket string) (*Client, error) {
	if endpoint == "" || accessKey == "" || secretKey == "" {
		return nil, nil
	}
	if bucket == "" {
		return nil, errors.New("s3 bucket must be set when an endpoint is configured")
	}

	api := s3.New(s3.Options{
		Region:       region,
		BaseEndpoint: aws.String(strings.TrimRight(endpoint, "/")),
		Credentials:  credentials.NewStaticCredentialsProvider(accessKey, secretKey, ""),
		UsePathStyle: true,
	})
	return &Client{api: api, bucket: bucket}, nil
}

// Bucket returns the bucket name.
func (c *Client) Bucket() string {
	return c.bucket
}

// DeleteObjects removes keys in batches of MaxDeleteBatch. Keys that do
// not exist count as deleted. Every per-key failure is reported in the
// returned error; a failed request stops before the remaining batches.
func (c *Client) DeleteObjects(ctx context.Context, keys []string) error {
	var failed []error
	for start := 0; start < len(keys); start += MaxDeleteBatch {
		batch := keys[start:min(start+MaxDeleteBatch, len(keys))]

		ids := make([]types.ObjectIdentifier, len(batch))
		for i, key := range batch {
			ids[i] = types.ObjectIdentifier{Key: aws.String(key)}
		}
		out, err := c.api.DeleteObjects(ctx, &s3.DeleteObjectsInput{
			Bucket: aws.String(c.bucket),
			Delete: &types.Delete{Objects: ids, Quiet: aws.Bool(true)},
		})
		if err != nil {
			return fmt.Errorf("s3 delete %d objects from %s: %w", len(batch), c.bucket, err)
		}
		for _, e := range out.Errors {
			failed = append(failed, fmt.Errorf("%s: %s %s", aws.ToString(e.Key), aws.ToString(e.Code), aws.ToString(e.Message)))
		}
	}
	if len(failed) > 0 {
		return fmt.Errorf("s3 delete from %s: %w", c.bucket, errors.Join(failed...))
	}
	return nil
}

// NewKey returns a fresh object key for a file uploaded by userID,
// keeping the lower-cased extension of originalName.
func NewKey(userID int64, originalName string) string {
	return fmt.Sprintf("users/%d/%s%s", userID, uuid.NewString(), strings.ToLower(path.Ext(originalName)))
}
