package chain

import (
	"context"
	"math/big"
	"strconv"
	"sync"

	"github.com/ethereum/go-ethereum/crypto"

	"github.com/valdisdev1/mortgageProt/internal/domain"
)

// MemoryRegistry is an in-process ledger with the contract's semantics,
// used for local development and tests.
type MemoryRegistry struct {
	mu      sync.RWMutex
	records []domain.PropertyRecord
}

func NewMemoryRegistry() *MemoryRegistry {
	return &MemoryRegistry{}
}

func (m *MemoryRegistry) MintRealEstate(ctx context.Context, args domain.MintArgs) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	rec := domain.PropertyRecord{
		PropertyAddress:       args.PropertyAddress,
		Bedrooms:              cloneInt(args.Bedrooms),
		Bathrooms:             cloneInt(args.Bathrooms),
		AppraisedValue:        cloneInt(args.AppraisedValue),
		ValuationDocumentHash: args.DocumentRef,
		ImageHash:             args.AssetRef,
	}

	m.mu.Lock()
	tokenID := len(m.records)
	m.records = append(m.records, rec)
	m.mu.Unlock()

	hash := crypto.Keccak256Hash(
		[]byte(strconv.Itoa(tokenID)),
		[]byte(rec.PropertyAddress),
		rec.Bedrooms.Bytes(),
		rec.Bathrooms.Bytes(),
		rec.AppraisedValue.Bytes(),
		[]byte(rec.ValuationDocumentHash),
		[]byte(rec.ImageHash),
	)
	return hash.Hex(), nil
}

func (m *MemoryRegistry) TokenIDCounter(ctx context.Context) (*big.Int, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return big.NewInt(int64(len(m.records))), nil
}

// GetAllProperties returns fresh copies so callers never share the ledger's values.
func (m *MemoryRegistry) GetAllProperties(ctx context.Context) ([]domain.PropertyRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]domain.PropertyRecord, len(m.records))
	for i, r := range m.records {
		out[i] = domain.PropertyRecord{
			PropertyAddress:       r.PropertyAddress,
			Bedrooms:              cloneInt(r.Bedrooms),
			Bathrooms:             cloneInt(r.Bathrooms),
			AppraisedValue:        cloneInt(r.AppraisedValue),
			ValuationDocumentHash: r.ValuationDocumentHash,
			ImageHash:             r.ImageHash,
		}
	}
	return out, nil
}

func cloneInt(v *big.Int) *big.Int {
	if v == nil {
		return new(big.Int)
	}
	return new(big.Int).Set(v)
}
