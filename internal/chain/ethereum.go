package chain

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"go.uber.org/zap"

	"github.com/valdisdev1/mortgageProt/internal/config"
	"github.com/valdisdev1/mortgageProt/internal/domain"
)

const realEstateNFTABI = `[
  {"type":"function","name":"mintRealEstate","stateMutability":"nonpayable",
   "inputs":[
     {"name":"propertyAddress","type":"string"},
     {"name":"bedrooms","type":"uint256"},
     {"name":"bathrooms","type":"uint256"},
     {"name":"appraisedValue","type":"uint256"},
     {"name":"valuationDocumentHash","type":"string"},
     {"name":"imageHash","type":"string"}],
   "outputs":[]},
  {"type":"function","name":"tokenIdCounter","stateMutability":"view",
   "inputs":[],
   "outputs":[{"name":"","type":"uint256"}]},
  {"type":"function","name":"getAllProperties","stateMutability":"view",
   "inputs":[],
   "outputs":[{"name":"","type":"tuple[]","components":[
     {"name":"propertyAddress","type":"string"},
     {"name":"bedrooms","type":"uint256"},
     {"name":"bathrooms","type":"uint256"},
     {"name":"appraisedValue","type":"uint256"},
     {"name":"valuationDocumentHash","type":"string"},
     {"name":"imageHash","type":"string"}]}]}
]`

// onchainProperty mirrors the getAllProperties tuple; field names follow
// the ABI component names.
type onchainProperty struct {
	PropertyAddress       string
	Bedrooms              *big.Int
	Bathrooms             *big.Int
	AppraisedValue        *big.Int
	ValuationDocumentHash string
	ImageHash             string
}

// Backend is what the registry needs from an RPC client.
type Backend interface {
	bind.ContractBackend
	bind.DeployBackend
}

type EthereumRegistry struct {
	backend  Backend
	contract *bind.BoundContract
	key      *ecdsa.PrivateKey
	chainID  *big.Int
	log      *zap.Logger
}

func NewEthereumRegistry(ctx context.Context, cfg *config.ChainConfig, log *zap.Logger) (*EthereumRegistry, error) {
	if !common.IsHexAddress(cfg.ContractAddress) {
		return nil, fmt.Errorf("invalid CONTRACT_ADDRESS %q", cfg.ContractAddress)
	}

	client, err := ethclient.DialContext(ctx, cfg.RPCURL)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", cfg.RPCURL, err)
	}

	chainID := big.NewInt(cfg.ChainID)
	if cfg.ChainID == 0 {
		chainID, err = client.ChainID(ctx)
		if err != nil {
			client.Close()
			return nil, fmt.Errorf("query chain id: %w", err)
		}
	}

	reg, err := NewEthereumRegistryWithBackend(client, common.HexToAddress(cfg.ContractAddress), cfg.PrivateKey, chainID, log)
	if err != nil {
		client.Close()
		return nil, err
	}

	log.Info("Connected to property registry",
		zap.String("rpc", cfg.RPCURL),
		zap.String("contract", cfg.ContractAddress),
		zap.String("chain_id", chainID.String()))

	return reg, nil
}

// NewEthereumRegistryWithBackend binds the contract on an existing backend.
// An empty privateKey gives a read-only registry.
func NewEthereumRegistryWithBackend(backend Backend, address common.Address, privateKey string, chainID *big.Int, log *zap.Logger) (*EthereumRegistry, error) {
	parsed, err := abi.JSON(strings.NewReader(realEstateNFTABI))
	if err != nil {
		return nil, fmt.Errorf("parse contract abi: %w", err)
	}

	reg := &EthereumRegistry{
		backend:  backend,
		contract: bind.NewBoundContract(address, parsed, backend, backend, backend),
		chainID:  chainID,
		log:      log,
	}

	if privateKey != "" {
		reg.key, err = crypto.HexToECDSA(strings.TrimPrefix(privateKey, "0x"))
		if err != nil {
			return nil, fmt.Errorf("parse signer key: %w", err)
		}
	}

	return reg, nil
}

// MintRealEstate sends the mint transaction and waits until it is mined.
func (r *EthereumRegistry) MintRealEstate(ctx context.Context, args domain.MintArgs) (string, error) {
	if r.key == nil {
		return "", fmt.Errorf("%w: no signer key configured", domain.ErrMintFailed)
	}

	opts, err := bind.NewKeyedTransactorWithChainID(r.key, r.chainID)
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrMintFailed, err)
	}
	opts.Context = ctx

	tx, err := r.contract.Transact(opts, "mintRealEstate",
		args.PropertyAddress,
		args.Bedrooms,
		args.Bathrooms,
		args.AppraisedValue,
		args.DocumentRef,
		args.AssetRef,
	)
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrMintFailed, err)
	}

	r.log.Info("Mint transaction sent",
		zap.String("tx", tx.Hash().Hex()),
		zap.String("property_address", args.PropertyAddress))

	receipt, err := bind.WaitMined(ctx, r.backend, tx)
	if err != nil {
		return tx.Hash().Hex(), fmt.Errorf("%w: wait for %s: %w", domain.ErrMintFailed, tx.Hash().Hex(), err)
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return tx.Hash().Hex(), fmt.Errorf("%w: %s", domain.ErrTransactionReverted, tx.Hash().Hex())
	}

	r.log.Info("Mint transaction mined",
		zap.String("tx", tx.Hash().Hex()),
		zap.Uint64("block", receipt.BlockNumber.Uint64()))

	return tx.Hash().Hex(), nil
}

func (r *EthereumRegistry) TokenIDCounter(ctx context.Context) (*big.Int, error) {
	var out []interface{}
	if err := r.contract.Call(&bind.CallOpts{Context: ctx}, &out, "tokenIdCounter"); err != nil {
		return nil, fmt.Errorf("tokenIdCounter: %w", err)
	}
	return *abi.ConvertType(out[0], new(*big.Int)).(**big.Int), nil
}

func (r *EthereumRegistry) GetAllProperties(ctx context.Context) ([]domain.PropertyRecord, error) {
	var out []interface{}
	if err := r.contract.Call(&bind.CallOpts{Context: ctx}, &out, "getAllProperties"); err != nil {
		return nil, fmt.Errorf("getAllProperties: %w", err)
	}

	props := *abi.ConvertType(out[0], new([]onchainProperty)).(*[]onchainProperty)

	records := make([]domain.PropertyRecord, len(props))
	for i, p := range props {
		records[i] = domain.PropertyRecord(p)
	}
	return records, nil
}

func (r *EthereumRegistry) Close() {
	if c, ok := r.backend.(*ethclient.Client); ok {
		c.Close()
	}
}
