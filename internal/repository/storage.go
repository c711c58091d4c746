package repository

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/valdisdev1/mortgageProt/internal/config"
)

// ContentStore uploads blobs and JSON documents to a content-addressed
// network and returns an identifier that pkg/utils.Gateway can resolve.
type ContentStore interface {
	Upload(ctx context.Context, data []byte, contentType string) (string, error)
	UploadJSON(ctx context.Context, doc any) (string, error)
}

// NewContentStore selects the backend once for the process lifetime.
// Production backends refuse to start without their credential.
func NewContentStore(cfg *config.Config, log *zap.Logger) (ContentStore, error) {
	if !cfg.Production() {
		log.Info("Initialized mock content store", zap.String("mode", cfg.Mode))
		return NewMockStore(log), nil
	}

	switch cfg.Storage.Provider {
	case config.ProviderNFTStorage:
		return NewNFTStorageRepository(&cfg.Storage, nil, log)
	case config.ProviderS3:
		return NewS3Repository(context.Background(), &cfg.S3, log)
	default:
		return nil, fmt.Errorf("unknown storage provider %q", cfg.Storage.Provider)
	}
}
