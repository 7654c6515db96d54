package storage

import (
	"context"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// NewS3ForTest builds an S3 system with client option overrides.
func NewS3ForTest(ctx context.Context, cfg *Config, logger *slog.Logger, optFns ...func(*s3.Options)) (System, error) {
	return newS3(ctx, cfg, logger, optFns...)
}
