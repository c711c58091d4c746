// Package chain talks to the RealEstateNFT contract.
package chain

import (
	"context"
	"fmt"
	"math/big"

	"go.uber.org/zap"

	"github.com/valdisdev1/mortgageProt/internal/config"
	"github.com/valdisdev1/mortgageProt/internal/domain"
)

// Registry is the contract boundary: one write entry point and two reads.
type Registry interface {
	MintRealEstate(ctx context.Context, args domain.MintArgs) (string, error)
	TokenIDCounter(ctx context.Context) (*big.Int, error)
	GetAllProperties(ctx context.Context) ([]domain.PropertyRecord, error)
}

// New selects the contract backend configured for the process.
func New(ctx context.Context, cfg *config.ChainConfig, log *zap.Logger) (Registry, error) {
	switch cfg.Backend {
	case config.BackendMemory:
		log.Info("Using in-memory property registry")
		return NewMemoryRegistry(), nil
	case config.BackendEthereum:
		return NewEthereumRegistry(ctx, cfg, log)
	default:
		return nil, fmt.Errorf("unknown chain backend %q", cfg.Backend)
	}
}
