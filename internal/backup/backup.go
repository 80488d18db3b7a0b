// Package backup uploads the sqlite store to S3-compatible object
// storage. A WAL checkpoint runs first so the uploaded file is a
// complete standalone snapshot.
package backup

import (
	"context"
	"fmt"
	"os"
	"path"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"

	"github.com/umangkumarchaudhary/RiskAdvisor--ENTERPRISE-DECISION-INTELLIGENCE-PLATFORM/internal/database"
)

// uploadTimeout bounds one backup pass.
const uploadTimeout = 5 * time.Minute

// Config holds the object storage settings.
type Config struct {
	Bucket    string
	Prefix    string
	Region    string
	AccessKey string
	SecretKey string
}

// Service uploads store snapshots.
type Service struct {
	db       *database.DB
	uploader *manager.Uploader
	bucket   string
	prefix   string
	log      zerolog.Logger
}

// New creates a backup service. Explicit credentials take precedence;
// without them the default AWS credential chain applies.
func New(ctx context.Context, db *database.DB, cfg Config, log zerolog.Logger) (*Service, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("backup bucket is required")
	}

	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	return &Service{
		db:       db,
		uploader: manager.NewUploader(s3.NewFromConfig(awsCfg)),
		bucket:   cfg.Bucket,
		prefix:   cfg.Prefix,
		log:      log.With().Str("component", "backup").Logger(),
	}, nil
}

// Run checkpoints the WAL and uploads the database file.
func (s *Service) Run(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, uploadTimeout)
	defer cancel()

	if err := s.db.WALCheckpoint("TRUNCATE"); err != nil {
		return fmt.Errorf("wal checkpoint: %w", err)
	}

	f, err := os.Open(s.db.Path())
	if err != nil {
		return fmt.Errorf("open store file: %w", err)
	}
	defer f.Close()

	key := path.Join(s.prefix, fmt.Sprintf("%s-%s.db", s.db.Name(), time.Now().UTC().Format("20060102T150405Z")))
	if _, err := s.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   f,
	}); err != nil {
		return fmt.Errorf("upload %s: %w", key, err)
	}

	s.log.Info().
		Str("bucket", s.bucket).
		Str("key", key).
		Int64("size_bytes", s.db.SizeBytes()).
		Msg("Store backup uploaded")
	return nil
}
