package chain

import (
	"context"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/valdisdev1/mortgageProt/internal/config"
	"github.com/valdisdev1/mortgageProt/internal/domain"
)

const testContract = "0x5FbDB2315678afecb367f032d93F642f64180aa3"

func TestEthereumRegistryRejectsBadKey(t *testing.T) {
	_, err := NewEthereumRegistryWithBackend(nil, common.HexToAddress(testContract), "0xnothex", big.NewInt(8453), zap.NewNop())
	assert.Error(t, err)
}

func TestEthereumRegistryAcceptsPrefixedKey(t *testing.T) {
	key := "0xac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"
	reg, err := NewEthereumRegistryWithBackend(nil, common.HexToAddress(testContract), key, big.NewInt(31337), zap.NewNop())
	require.NoError(t, err)
	assert.NotNil(t, reg.key)
}

func TestEthereumRegistryWithoutSignerCannotMint(t *testing.T) {
	reg, err := NewEthereumRegistryWithBackend(nil, common.HexToAddress(testContract), "", big.NewInt(8453), zap.NewNop())
	require.NoError(t, err)

	_, err = reg.MintRealEstate(context.Background(), mintArgs("1 Main St"))
	assert.ErrorIs(t, err, domain.ErrMintFailed)
}

func TestNewRejectsInvalidContractAddress(t *testing.T) {
	_, err := New(context.Background(), &config.ChainConfig{
		Backend:         config.BackendEthereum,
		ContractAddress: "not-an-address",
	}, zap.NewNop())
	assert.Error(t, err)
}

func TestNewMemoryBackend(t *testing.T) {
	reg, err := New(context.Background(), &config.ChainConfig{Backend: config.BackendMemory}, zap.NewNop())
	require.NoError(t, err)
	assert.IsType(t, &MemoryRegistry{}, reg)
}
