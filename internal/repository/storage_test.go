package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/valdisdev1/mortgageProt/internal/config"
	"github.com/valdisdev1/mortgageProt/internal/domain"
)

func TestNewContentStoreProductionWithoutCredentialFails(t *testing.T) {
	for _, provider := range []string{config.ProviderNFTStorage, config.ProviderS3} {
		t.Run(provider, func(t *testing.T) {
			cfg := &config.Config{
				Mode:    config.ModeProduction,
				Storage: config.StorageConfig{Provider: provider},
			}
			store, err := NewContentStore(cfg, zap.NewNop())
			assert.ErrorIs(t, err, domain.ErrMissingCredential)
			assert.Nil(t, store)
		})
	}
}

func TestNewContentStoreProduction(t *testing.T) {
	cfg := &config.Config{
		Mode:    config.ModeProduction,
		Storage: config.StorageConfig{Provider: config.ProviderNFTStorage, Token: "tok", Endpoint: "https://api.nft.storage"},
	}
	store, err := NewContentStore(cfg, zap.NewNop())
	require.NoError(t, err)
	assert.IsType(t, &nftStorageRepository{}, store)
}

func TestNewContentStoreDevelopmentNeedsNoCredential(t *testing.T) {
	cfg := &config.Config{Mode: config.ModeDevelopment}

	store, err := NewContentStore(cfg, zap.NewNop())
	require.NoError(t, err)

	_, err = store.Upload(context.Background(), []byte("x"), "image/png")
	assert.NoError(t, err)
}
