package repository

import (
	"context"
	"encoding/base64"
	"fmt"
	"math/rand"
	"sync/atomic"

	"go.uber.org/zap"
)

const placeholderSVG = `<svg width="200" height="200" xmlns="http://www.w3.org/2000/svg">
  <rect width="200" height="200" fill="#%06x" />
  <text x="50%%" y="50%%" font-family="Arial" font-size="16" fill="white" text-anchor="middle">Mock Image %d</text>
</svg>`

// mockStore stands in for the storage network during local development.
// It never touches the network and never fails.
type mockStore struct {
	counter atomic.Uint64
	log     *zap.Logger
}

func NewMockStore(log *zap.Logger) ContentStore {
	return &mockStore{log: log}
}

func (s *mockStore) Upload(_ context.Context, data []byte, contentType string) (string, error) {
	n := s.counter.Add(1)
	s.log.Debug("Mock upload",
		zap.String("cid", mockCID(n)),
		zap.String("content_type", contentType),
		zap.Int("size", len(data)))
	return placeholderImage(n), nil
}

func (s *mockStore) UploadJSON(_ context.Context, doc any) (string, error) {
	n := s.counter.Add(1)
	s.log.Debug("Mock metadata upload",
		zap.String("cid", mockCID(n)),
		zap.Any("document", doc))
	return placeholderImage(n), nil
}

func mockCID(n uint64) string {
	return fmt.Sprintf("mock-cid-%d", n)
}

// placeholderImage renders a colored square labelled with n as a data URL.
func placeholderImage(n uint64) string {
	svg := fmt.Sprintf(placeholderSVG, rand.Intn(0x1000000), n)
	return "data:image/svg+xml;base64," + base64.StdEncoding.EncodeToString([]byte(svg))
}
