// Package backup copies profile documents to an S3-compatible bucket.
package backup

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/trustieee/timey-sub000/internal/config"
	"github.com/trustieee/timey-sub000/internal/dates"
	"github.com/trustieee/timey-sub000/internal/storage"
)

type putObjectAPI interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type Exporter struct {
	client putObjectAPI
	bucket string
	prefix string
	now    func() time.Time
}

// New builds an exporter from the backup settings. With an endpoint set it
// talks to that host in path style (R2, MinIO); otherwise it uses AWS.
func New(ctx context.Context, cfg config.Backup) (*Exporter, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("backup: bucket is required")
	}
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.AccessKeySecret, ""),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("backup: load aws config: %w", err)
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})
	return newExporter(client, cfg.Bucket, cfg.Prefix), nil
}

func newExporter(client putObjectAPI, bucket, prefix string) *Exporter {
	return &Exporter{client: client, bucket: bucket, prefix: prefix, now: time.Now}
}

// Key returns the object key for a snapshot taken at t.
func (e *Exporter) Key(userID string, t time.Time) string {
	return path.Join(e.prefix, userID, dates.DayOf(t), uuid.NewString()+".json")
}

// Export uploads doc as JSON and returns the object key.
func (e *Exporter) Export(ctx context.Context, userID string, doc storage.Document) (string, error) {
	body, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("backup: encode %s: %w", userID, err)
	}
	key := e.Key(userID, e.now())
	_, err = e.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(e.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return "", fmt.Errorf("backup: upload %s: %w", key, err)
	}
	return key, nil
}
