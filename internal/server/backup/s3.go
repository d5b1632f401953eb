// Package backup archives account snapshots to S3-compatible object storage.
// One object is kept per user and UTC day at backups/<user>/<YYYY-MM-DD>.json;
// the first snapshot of a day wins.
package backup

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
	"github.com/dmitrijs2005/linguacards/internal/common"
	"github.com/dmitrijs2005/linguacards/internal/models"
	sc "github.com/dmitrijs2005/linguacards/internal/server/config"
	"github.com/dmitrijs2005/linguacards/internal/timex"
)

var loadDefaultAWSConfig = config.LoadDefaultConfig

type objectPutter interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type S3Archiver struct {
	client objectPutter
	bucket string

	mu   sync.Mutex
	done map[string]struct{}
}

func NewS3Archiver(ctx context.Context, c sc.BackupConfig) (*S3Archiver, error) {
	opts := []func(*config.LoadOptions) error{config.WithRegion(c.Region)}
	if c.AccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(c.AccessKey, c.SecretKey, ""),
		))
	}

	cfg, err := loadDefaultAWSConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: aws config: %w", common.ErrConfiguration, err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if c.Endpoint != "" {
			o.BaseEndpoint = aws.String(c.Endpoint)
			o.UsePathStyle = true
		}
		o.RequestChecksumCalculation = aws.RequestChecksumCalculationWhenRequired
	})

	return newS3Archiver(client, c.Bucket), nil
}

func newS3Archiver(client objectPutter, bucket string) *S3Archiver {
	return &S3Archiver{client: client, bucket: bucket, done: make(map[string]struct{})}
}

// Key is the object key of the snapshot of username taken on day.
func Key(username string, day time.Time) string {
	return fmt.Sprintf("backups/%s/%s.json", common.NormalizeUsername(username), timex.FormatDate(day.UTC()))
}

// Archive uploads data unless a snapshot for that user and day exists.
func (a *S3Archiver) Archive(ctx context.Context, username string, day time.Time, data models.SyncData) error {
	key := Key(username, day)
	if a.archived(key) {
		return nil
	}

	body, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	_, err = a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
		IfNoneMatch: aws.String("*"),
	})
	if err != nil && !isPreconditionFailed(err) {
		return fmt.Errorf("put %s: %w", key, err)
	}

	a.mu.Lock()
	a.done[key] = struct{}{}
	a.mu.Unlock()
	return nil
}

func (a *S3Archiver) archived(key string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	_, ok := a.done[key]
	return ok
}

func isPreconditionFailed(err error) bool {
	var apiErr smithy.APIError
	return errors.As(err, &apiErr) && apiErr.ErrorCode() == "PreconditionFailed"
}
