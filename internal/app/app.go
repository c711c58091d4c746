// Package app wires the storage, contract and service layers from config.
package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/valdisdev1/mortgageProt/internal/chain"
	"github.com/valdisdev1/mortgageProt/internal/config"
	"github.com/valdisdev1/mortgageProt/internal/handler"
	"github.com/valdisdev1/mortgageProt/internal/repository"
	"github.com/valdisdev1/mortgageProt/internal/service"
	"github.com/valdisdev1/mortgageProt/pkg/utils"
)

type App struct {
	Gateway  utils.Gateway
	Store    repository.ContentStore
	Registry chain.Registry
	Mint     service.MintService
	Listing  *service.ListingService
	Images   service.ImageService
}

// New builds every component once. A production store without its
// credential fails here, before any upload can happen.
func New(ctx context.Context, cfg *config.Config, log *zap.Logger) (*App, error) {
	store, err := repository.NewContentStore(cfg, log)
	if err != nil {
		return nil, fmt.Errorf("content store: %w", err)
	}

	registry, err := chain.New(ctx, &cfg.Chain, log)
	if err != nil {
		return nil, fmt.Errorf("property registry: %w", err)
	}

	gateway := utils.NewGateway(cfg.Storage.GatewayHost)

	return &App{
		Gateway:  gateway,
		Store:    store,
		Registry: registry,
		Mint:     service.NewMintService(store, registry, cfg.Chain.MintSchema, log),
		Listing:  service.NewListingService(registry, cfg.Refresh.PollInterval, cfg.Refresh.MinInterval, log),
		Images:   service.NewImageService(gateway, &http.Client{Timeout: 30 * time.Second}, log),
	}, nil
}

func (a *App) Handler(cfg *config.Config, log *zap.Logger) *handler.Handler {
	return handler.NewHandler(a.Mint, a.Listing, a.Images, a.Gateway, cfg.App.MaxUploadSize, log)
}

func (a *App) Close() {
	if c, ok := a.Registry.(interface{ Close() }); ok {
		c.Close()
	}
}
