// Package s3 archives the trade-log file to object storage on a schedule.
// The archive is additive: local persistence stays authoritative.
package s3

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Archiver periodically uploads the trade-log JSONL as a dated object.
type Archiver struct {
	client   *s3.Client
	bucket   string
	prefix   string
	srcPath  string
	interval time.Duration
	logger   *slog.Logger
}

// Options configures the archiver.
type Options struct {
	Bucket   string
	Region   string
	Prefix   string
	SrcPath  string
	Interval time.Duration
}

// NewArchiver loads AWS config from the default chain.
func NewArchiver(ctx context.Context, opts Options, logger *slog.Logger) (*Archiver, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(opts.Region))
	if err != nil {
		return nil, fmt.Errorf("s3: load aws config: %w", err)
	}
	return &Archiver{
		client:   s3.NewFromConfig(awsCfg),
		bucket:   opts.Bucket,
		prefix:   opts.Prefix,
		srcPath:  opts.SrcPath,
		interval: opts.Interval,
		logger:   logger.With(slog.String("component", "archiver")),
	}, nil
}

// Run uploads on the configured interval until the context is cancelled. A
// failed upload is logged and retried on the next tick; a final upload runs
// at shutdown so the archive is never more than one interval behind.
func (a *Archiver) Run(ctx context.Context) error {
	ticker := time.NewTicker(a.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			a.uploadOnce(context.WithoutCancel(ctx))
			return ctx.Err()
		case <-ticker.C:
			a.uploadOnce(ctx)
		}
	}
}

func (a *Archiver) uploadOnce(ctx context.Context) {
	raw, err := os.ReadFile(a.srcPath)
	if err != nil {
		a.logger.WarnContext(ctx, "trade log unreadable, skipping archive",
			slog.String("path", a.srcPath),
			slog.String("error", err.Error()),
		)
		return
	}
	if len(raw) == 0 {
		return
	}

	key := path.Join(a.prefix, time.Now().UTC().Format("2006/01/02"), "trades.jsonl")
	_, err = a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(a.bucket),
		Key:    aws.String(key),
		Body:   bytes.NewReader(raw),
	})
	if err != nil {
		a.logger.WarnContext(ctx, "archive upload failed",
			slog.String("bucket", a.bucket),
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
		return
	}

	a.logger.InfoContext(ctx, "trade log archived",
		slog.String("key", key),
		slog.Int("bytes", len(raw)),
	)
}
