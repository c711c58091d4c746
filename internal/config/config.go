package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	ModeProduction  = "production"
	ModeDevelopment = "development"

	ProviderNFTStorage = "nftstorage"
	ProviderS3         = "s3"

	BackendEthereum = "ethereum"
	BackendMemory   = "memory"

	// SchemaImage passes the image reference as the last mint argument,
	// SchemaMetadata passes the metadata document reference instead.
	SchemaImage    = "image"
	SchemaMetadata = "metadata"
)

type Config struct {
	Mode     string
	LogLevel string
	Server   ServerConfig
	Storage  StorageConfig
	S3       S3Config
	Chain    ChainConfig
	Refresh  RefreshConfig
	App      AppConfig
}

type ServerConfig struct {
	Host string
	Port string
}

type StorageConfig struct {
	Provider    string
	Token       string
	Endpoint    string
	GatewayHost string
}

type S3Config struct {
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	BucketName      string
	Region          string
}

type ChainConfig struct {
	Backend         string
	RPCURL          string
	ChainID         int64
	ContractAddress string
	PrivateKey      string
	MintSchema      string
}

type RefreshConfig struct {
	PollInterval time.Duration
	MinInterval  time.Duration
}

type AppConfig struct {
	MaxUploadSize int64
}

func (c *Config) Production() bool {
	return c.Mode == ModeProduction
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()
	v.SetDefault("DEPLOY_MODE", ModeDevelopment)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("SERVER_HOST", "localhost")
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("STORAGE_PROVIDER", ProviderNFTStorage)
	v.SetDefault("NFT_STORAGE_TOKEN", "")
	v.SetDefault("NFT_STORAGE_ENDPOINT", "https://api.nft.storage")
	v.SetDefault("IPFS_GATEWAY_HOST", "nftstorage.link")
	v.SetDefault("S3_ENDPOINT", "https://s3.filebase.com")
	v.SetDefault("S3_ACCESS_KEY_ID", "")
	v.SetDefault("S3_SECRET_ACCESS_KEY", "")
	v.SetDefault("S3_BUCKET_NAME", "properties")
	v.SetDefault("S3_REGION", "us-east-1")
	v.SetDefault("CHAIN_BACKEND", "")
	v.SetDefault("CHAIN_RPC_URL", "https://mainnet.base.org")
	v.SetDefault("CHAIN_ID", 0)
	v.SetDefault("CONTRACT_ADDRESS", "")
	v.SetDefault("SIGNER_PRIVATE_KEY", "")
	v.SetDefault("MINT_SCHEMA", SchemaImage)
	v.SetDefault("REFRESH_POLL_INTERVAL", 5*time.Second)
	v.SetDefault("REFRESH_MIN_INTERVAL", 4900*time.Millisecond)
	v.SetDefault("APP_MAX_UPLOAD_SIZE", 10*1024*1024) // 10MB

	v.AutomaticEnv()

	cfg := &Config{
		Mode:     strings.ToLower(v.GetString("DEPLOY_MODE")),
		LogLevel: v.GetString("LOG_LEVEL"),
		Server: ServerConfig{
			Host: v.GetString("SERVER_HOST"),
			Port: v.GetString("SERVER_PORT"),
		},
		Storage: StorageConfig{
			Provider:    strings.ToLower(v.GetString("STORAGE_PROVIDER")),
			Token:       v.GetString("NFT_STORAGE_TOKEN"),
			Endpoint:    strings.TrimRight(v.GetString("NFT_STORAGE_ENDPOINT"), "/"),
			GatewayHost: v.GetString("IPFS_GATEWAY_HOST"),
		},
		S3: S3Config{
			Endpoint:        v.GetString("S3_ENDPOINT"),
			AccessKeyID:     v.GetString("S3_ACCESS_KEY_ID"),
			SecretAccessKey: v.GetString("S3_SECRET_ACCESS_KEY"),
			BucketName:      v.GetString("S3_BUCKET_NAME"),
			Region:          v.GetString("S3_REGION"),
		},
		Chain: ChainConfig{
			Backend:         strings.ToLower(v.GetString("CHAIN_BACKEND")),
			RPCURL:          v.GetString("CHAIN_RPC_URL"),
			ChainID:         v.GetInt64("CHAIN_ID"),
			ContractAddress: v.GetString("CONTRACT_ADDRESS"),
			PrivateKey:      v.GetString("SIGNER_PRIVATE_KEY"),
			MintSchema:      strings.ToLower(v.GetString("MINT_SCHEMA")),
		},
		Refresh: RefreshConfig{
			PollInterval: v.GetDuration("REFRESH_POLL_INTERVAL"),
			MinInterval:  v.GetDuration("REFRESH_MIN_INTERVAL"),
		},
		App: AppConfig{
			MaxUploadSize: v.GetInt64("APP_MAX_UPLOAD_SIZE"),
		},
	}

	if cfg.Chain.Backend == "" {
		cfg.Chain.Backend = BackendMemory
		if cfg.Production() {
			cfg.Chain.Backend = BackendEthereum
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Storage.Provider {
	case ProviderNFTStorage, ProviderS3:
	default:
		return fmt.Errorf("unknown STORAGE_PROVIDER %q", c.Storage.Provider)
	}

	switch c.Chain.Backend {
	case BackendEthereum, BackendMemory:
	default:
		return fmt.Errorf("unknown CHAIN_BACKEND %q", c.Chain.Backend)
	}

	switch c.Chain.MintSchema {
	case SchemaImage, SchemaMetadata:
	default:
		return fmt.Errorf("unknown MINT_SCHEMA %q", c.Chain.MintSchema)
	}

	if c.Refresh.PollInterval <= 0 {
		return fmt.Errorf("REFRESH_POLL_INTERVAL must be positive, got %s", c.Refresh.PollInterval)
	}
	if c.App.MaxUploadSize <= 0 {
		return fmt.Errorf("APP_MAX_UPLOAD_SIZE must be positive, got %d", c.App.MaxUploadSize)
	}

	return nil
}
