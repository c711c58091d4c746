package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ModeDevelopment, cfg.Mode)
	assert.False(t, cfg.Production())
	assert.Equal(t, ProviderNFTStorage, cfg.Storage.Provider)
	assert.Equal(t, "nftstorage.link", cfg.Storage.GatewayHost)
	assert.Equal(t, BackendMemory, cfg.Chain.Backend)
	assert.Equal(t, SchemaImage, cfg.Chain.MintSchema)
	assert.Equal(t, 5*time.Second, cfg.Refresh.PollInterval)
	assert.Equal(t, 4900*time.Millisecond, cfg.Refresh.MinInterval)
	assert.Equal(t, int64(10*1024*1024), cfg.App.MaxUploadSize)
}

func TestLoadProductionFromEnv(t *testing.T) {
	t.Setenv("DEPLOY_MODE", "Production")
	t.Setenv("NFT_STORAGE_TOKEN", "secret")
	t.Setenv("NFT_STORAGE_ENDPOINT", "https://api.example.com/")
	t.Setenv("CHAIN_ID", "8453")
	t.Setenv("MINT_SCHEMA", "metadata")
	t.Setenv("REFRESH_POLL_INTERVAL", "10s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.Production())
	assert.Equal(t, "secret", cfg.Storage.Token)
	assert.Equal(t, "https://api.example.com", cfg.Storage.Endpoint)
	assert.Equal(t, BackendEthereum, cfg.Chain.Backend)
	assert.Equal(t, int64(8453), cfg.Chain.ChainID)
	assert.Equal(t, SchemaMetadata, cfg.Chain.MintSchema)
	assert.Equal(t, 10*time.Second, cfg.Refresh.PollInterval)
}

func TestLoadRejectsUnknownValues(t *testing.T) {
	tests := map[string]string{
		"STORAGE_PROVIDER": "ftp",
		"CHAIN_BACKEND":    "solana",
		"MINT_SCHEMA":      "tokenuri",
	}
	for key, value := range tests {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, value)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
