package domain

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
)

func record(addr string, beds int64) PropertyRecord {
	return PropertyRecord{
		PropertyAddress:       addr,
		Bedrooms:              big.NewInt(beds),
		Bathrooms:             big.NewInt(2),
		AppraisedValue:        big.NewInt(350000),
		ValuationDocumentHash: "bafydoc",
		ImageHash:             "bafyimg",
	}
}

func TestPropertyRecordEqual(t *testing.T) {
	a := record("1 Main St", 3)

	assert.True(t, a.Equal(record("1 Main St", 3)))
	assert.False(t, a.Equal(record("1 Main St", 4)))
	assert.False(t, a.Equal(record("2 Main St", 3)))

	b := record("1 Main St", 3)
	b.ImageHash = "other"
	assert.False(t, a.Equal(b))

	c := record("1 Main St", 3)
	c.Bathrooms = nil
	assert.False(t, a.Equal(c))
	assert.True(t, c.Equal(c))
}

func TestRecordsEqual(t *testing.T) {
	x := []PropertyRecord{record("a", 1), record("b", 2)}

	assert.True(t, RecordsEqual(x, []PropertyRecord{record("a", 1), record("b", 2)}))
	assert.False(t, RecordsEqual(x, []PropertyRecord{record("a", 1)}))
	assert.False(t, RecordsEqual(x, []PropertyRecord{record("b", 2), record("a", 1)}))
	assert.True(t, RecordsEqual(nil, []PropertyRecord{}))
}
