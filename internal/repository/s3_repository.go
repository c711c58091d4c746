package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"go.uber.org/zap"

	appconfig "github.com/valdisdev1/mortgageProt/internal/config"
	"github.com/valdisdev1/mortgageProt/internal/domain"
)

// cidMetadataKey is the object metadata field in which S3-compatible IPFS
// pinning services (Filebase and similar) report the CID of a stored object.
const cidMetadataKey = "cid"

// ObjectAPI is the subset of the S3 client used for pinning.
type ObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
}

type s3Repository struct {
	client ObjectAPI
	bucket string
	log    *zap.Logger
}

func NewS3Repository(ctx context.Context, cfg *appconfig.S3Config, log *zap.Logger) (ContentStore, error) {
	if cfg.AccessKeyID == "" || cfg.SecretAccessKey == "" {
		return nil, fmt.Errorf("S3_ACCESS_KEY_ID/S3_SECRET_ACCESS_KEY: %w", domain.ErrMissingCredential)
	}

	awsCfg, err := config.LoadDefaultConfig(ctx,
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			"",
		)),
		config.WithRegion(cfg.Region),
	)
	if err != nil {
		return nil, err
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = true
	})

	log.Info("Initialized S3 pinning client",
		zap.String("endpoint", cfg.Endpoint),
		zap.String("bucket", cfg.BucketName))

	return NewS3RepositoryWithClient(client, cfg.BucketName, log), nil
}

func NewS3RepositoryWithClient(client ObjectAPI, bucket string, log *zap.Logger) ContentStore {
	return &s3Repository{
		client: client,
		bucket: bucket,
		log:    log,
	}
}

func (r *s3Repository) Upload(ctx context.Context, data []byte, contentType string) (string, error) {
	key := "files/" + uuid.New().String() + extensionFor(contentType)
	return r.pin(ctx, key, data, contentType)
}

func (r *s3Repository) UploadJSON(ctx context.Context, doc any) (string, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("%w: encode metadata: %w", domain.ErrUploadFailed, err)
	}
	key := "metadata/" + uuid.New().String() + ".json"
	return r.pin(ctx, key, data, "application/json")
}

func (r *s3Repository) pin(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	input := &s3.PutObjectInput{
		Bucket:        aws.String(r.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}

	if _, err := r.client.PutObject(ctx, input); err != nil {
		r.log.Error("Failed to upload file to S3",
			zap.String("key", key),
			zap.Error(err))
		return "", fmt.Errorf("%w: put %s: %w", domain.ErrUploadFailed, key, err)
	}

	head, err := r.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(r.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return "", fmt.Errorf("%w: head %s: %w", domain.ErrUploadFailed, key, err)
	}

	id, err := parseCID(head.Metadata[cidMetadataKey])
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", domain.ErrUploadFailed, key, err)
	}

	r.log.Info("File pinned via S3",
		zap.String("key", key),
		zap.String("cid", id),
		zap.Int("size", len(data)))

	return id, nil
}

func extensionFor(contentType string) string {
	if contentType == "" {
		return ""
	}
	exts, err := mime.ExtensionsByType(contentType)
	if err != nil || len(exts) == 0 {
		return ""
	}
	return exts[0]
}
