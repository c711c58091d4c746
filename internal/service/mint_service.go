package service

import (
	"context"
	"fmt"
	"math/big"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/valdisdev1/mortgageProt/internal/config"
	"github.com/valdisdev1/mortgageProt/internal/domain"
	"github.com/valdisdev1/mortgageProt/internal/repository"
)

const documentNotProvided = "Not provided"

// Minter is the write half of the contract boundary.
type Minter interface {
	MintRealEstate(ctx context.Context, args domain.MintArgs) (string, error)
}

type MintService interface {
	Submit(ctx context.Context, form domain.PropertyForm) (*domain.MintReceipt, error)
}

type mintService struct {
	store  repository.ContentStore
	minter Minter
	schema string
	log    *zap.Logger
}

func NewMintService(store repository.ContentStore, minter Minter, schema string, log *zap.Logger) MintService {
	if schema == "" {
		schema = config.SchemaImage
	}
	return &mintService{
		store:  store,
		minter: minter,
		schema: schema,
		log:    log,
	}
}

// Submit uploads the form's files, then the metadata document, then sends
// exactly one mint transaction. Any failure aborts the remaining steps.
func (s *mintService) Submit(ctx context.Context, form domain.PropertyForm) (*domain.MintReceipt, error) {
	receipt := &domain.MintReceipt{SubmissionID: uuid.New().String()}
	log := s.log.With(
		zap.String("submission_id", receipt.SubmissionID),
		zap.String("property_address", form.PropertyAddress))

	log.Info("Starting property submission",
		zap.Bool("has_image", form.Image != nil),
		zap.Bool("has_document", form.ValuationDocument != nil))

	g, gctx := errgroup.WithContext(ctx)
	if form.Image != nil {
		g.Go(func() error {
			ref, err := s.store.Upload(gctx, form.Image.Data, form.Image.ContentType)
			if err != nil {
				return fmt.Errorf("image %q: %w", form.Image.Name, err)
			}
			receipt.ImageRef = ref
			return nil
		})
	}
	if form.ValuationDocument != nil {
		g.Go(func() error {
			ref, err := s.store.Upload(gctx, form.ValuationDocument.Data, form.ValuationDocument.ContentType)
			if err != nil {
				return fmt.Errorf("valuation document %q: %w", form.ValuationDocument.Name, err)
			}
			receipt.DocumentRef = ref
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		log.Error("File upload failed", zap.Error(err))
		return nil, err
	}

	metadata := BuildMetadata(form, receipt.ImageRef, receipt.DocumentRef)
	metadataRef, err := s.store.UploadJSON(ctx, metadata)
	if err != nil {
		log.Error("Metadata upload failed", zap.Error(err))
		return nil, fmt.Errorf("metadata: %w", err)
	}
	receipt.MetadataRef = metadataRef

	args := s.mintArgs(form, receipt)
	txHash, err := s.minter.MintRealEstate(ctx, args)
	if err != nil {
		log.Error("Mint failed", zap.String("tx", txHash), zap.Error(err))
		return nil, err
	}
	receipt.TxHash = txHash

	log.Info("Property tokenized",
		zap.String("tx", txHash),
		zap.String("metadata_ref", metadataRef))

	return receipt, nil
}

func (s *mintService) mintArgs(form domain.PropertyForm, receipt *domain.MintReceipt) domain.MintArgs {
	asset := receipt.ImageRef
	if s.schema == config.SchemaMetadata {
		asset = receipt.MetadataRef
	}
	return domain.MintArgs{
		PropertyAddress: form.PropertyAddress,
		Bedrooms:        new(big.Int).SetUint64(form.Bedrooms),
		Bathrooms:       new(big.Int).SetUint64(form.Bathrooms),
		AppraisedValue:  new(big.Int).SetUint64(form.AppraisedValue),
		DocumentRef:     receipt.DocumentRef,
		AssetRef:        asset,
	}
}

// BuildMetadata assembles the token metadata document. The result depends
// only on its arguments.
func BuildMetadata(form domain.PropertyForm, imageRef, documentRef string) domain.PropertyMetadata {
	document := documentRef
	if document == "" {
		document = documentNotProvided
	}

	return domain.PropertyMetadata{
		Name:        "Real Estate NFT - " + form.PropertyAddress,
		Description: "Property at " + form.PropertyAddress,
		Image:       imageRef,
		Attributes: []domain.Attribute{
			{TraitType: "Property Address", Value: form.PropertyAddress},
			{TraitType: "Bedrooms", Value: form.Bedrooms},
			{TraitType: "Bathrooms", Value: form.Bathrooms},
			{TraitType: "Appraised Value", Value: form.AppraisedValue},
			{TraitType: "Valuation Document", Value: document},
		},
	}
}
