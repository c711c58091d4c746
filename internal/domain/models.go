package domain

import (
	"math/big"
	"time"
)

// File is one uploaded form attachment.
type File struct {
	Name        string `json:"name"`
	ContentType string `json:"content_type"`
	Data        []byte `json:"-"`
}

// PropertyForm is the user input for one submission. Numeric fields are
// already parsed; business rules such as address format are not checked.
type PropertyForm struct {
	PropertyAddress   string
	Bedrooms          uint64
	Bathrooms         uint64
	AppraisedValue    uint64
	Image             *File
	ValuationDocument *File
}

type Attribute struct {
	TraitType string `json:"trait_type"`
	Value     any    `json:"value"`
}

// PropertyMetadata is the token metadata document uploaded once per submission.
type PropertyMetadata struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Image       string      `json:"image"`
	Attributes  []Attribute `json:"attributes"`
}

// MintArgs are the arguments of mintRealEstate in ABI order.
type MintArgs struct {
	PropertyAddress string
	Bedrooms        *big.Int
	Bathrooms       *big.Int
	AppraisedValue  *big.Int
	DocumentRef     string
	AssetRef        string
}

type MintReceipt struct {
	SubmissionID string `json:"submission_id"`
	ImageRef     string `json:"image_ref"`
	DocumentRef  string `json:"document_ref"`
	MetadataRef  string `json:"metadata_ref"`
	TxHash       string `json:"tx_hash"`
}

// PropertyRecord is a minted property as returned by getAllProperties.
type PropertyRecord struct {
	PropertyAddress       string
	Bedrooms              *big.Int
	Bathrooms             *big.Int
	AppraisedValue        *big.Int
	ValuationDocumentHash string
	ImageHash             string
}

// Equal reports whether every field of r and o holds the same value.
func (r PropertyRecord) Equal(o PropertyRecord) bool {
	return r.PropertyAddress == o.PropertyAddress &&
		bigEqual(r.Bedrooms, o.Bedrooms) &&
		bigEqual(r.Bathrooms, o.Bathrooms) &&
		bigEqual(r.AppraisedValue, o.AppraisedValue) &&
		r.ValuationDocumentHash == o.ValuationDocumentHash &&
		r.ImageHash == o.ImageHash
}

// RecordsEqual compares two record sets element-wise, order included.
func RecordsEqual(a, b []PropertyRecord) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}

func bigEqual(a, b *big.Int) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Cmp(b) == 0
}

// DisplayState is the listing currently served to clients. It is replaced
// wholesale and never patched.
type DisplayState struct {
	TotalSupply *big.Int
	Properties  []PropertyRecord
	Generation  uint64
	UpdatedAt   time.Time
}
