package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ipfs/go-cid"
	"go.uber.org/zap"

	"github.com/valdisdev1/mortgageProt/internal/config"
	"github.com/valdisdev1/mortgageProt/internal/domain"
)

type nftStorageResponse struct {
	OK    bool `json:"ok"`
	Value struct {
		CID string `json:"cid"`
	} `json:"value"`
	Error struct {
		Name    string `json:"name"`
		Message string `json:"message"`
	} `json:"error"`
}

type nftStorageRepository struct {
	client   *http.Client
	endpoint string
	token    string
	log      *zap.Logger
}

// NewNFTStorageRepository returns a store backed by the NFT.Storage upload
// API. A nil client gets a default one with a 60s timeout.
func NewNFTStorageRepository(cfg *config.StorageConfig, client *http.Client, log *zap.Logger) (ContentStore, error) {
	if cfg.Token == "" {
		return nil, fmt.Errorf("NFT_STORAGE_TOKEN: %w", domain.ErrMissingCredential)
	}
	if client == nil {
		client = &http.Client{Timeout: 60 * time.Second}
	}

	log.Info("Initialized NFT.Storage client", zap.String("endpoint", cfg.Endpoint))

	return &nftStorageRepository{
		client:   client,
		endpoint: cfg.Endpoint,
		token:    cfg.Token,
		log:      log,
	}, nil
}

func (r *nftStorageRepository) Upload(ctx context.Context, data []byte, contentType string) (string, error) {
	id, err := r.storeBlob(ctx, data, contentType)
	if err != nil {
		r.log.Error("Failed to upload file to NFT.Storage",
			zap.String("content_type", contentType),
			zap.Int("size", len(data)),
			zap.Error(err))
		return "", fmt.Errorf("%w: %w", domain.ErrUploadFailed, err)
	}

	r.log.Info("File uploaded to NFT.Storage",
		zap.String("cid", id),
		zap.Int("size", len(data)))

	return id, nil
}

func (r *nftStorageRepository) UploadJSON(ctx context.Context, doc any) (string, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("%w: encode metadata: %w", domain.ErrUploadFailed, err)
	}

	id, err := r.storeBlob(ctx, data, "application/json")
	if err != nil {
		r.log.Error("Failed to upload metadata to NFT.Storage", zap.Error(err))
		return "", fmt.Errorf("%w: metadata: %w", domain.ErrUploadFailed, err)
	}

	r.log.Info("Metadata uploaded to NFT.Storage", zap.String("cid", id))

	return id, nil
}

func (r *nftStorageRepository) storeBlob(ctx context.Context, data []byte, contentType string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.endpoint+"/upload", bytes.NewReader(data))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+r.token)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", err
	}

	var out nftStorageResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("unexpected response (status %d): %w", resp.StatusCode, err)
	}
	if resp.StatusCode != http.StatusOK || !out.OK {
		return "", fmt.Errorf("status %d: %s %s", resp.StatusCode, out.Error.Name, out.Error.Message)
	}

	return parseCID(out.Value.CID)
}

// parseCID checks that s is a well-formed CID and returns its canonical form.
func parseCID(s string) (string, error) {
	if s == "" {
		return "", fmt.Errorf("empty CID: %w", domain.ErrInvalidReference)
	}
	c, err := cid.Decode(s)
	if err != nil {
		return "", fmt.Errorf("%q: %w", s, domain.ErrInvalidReference)
	}
	return c.String(), nil
}
