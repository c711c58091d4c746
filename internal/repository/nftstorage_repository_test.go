package repository

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/valdisdev1/mortgageProt/internal/config"
	"github.com/valdisdev1/mortgageProt/internal/domain"
)

const testCID = "bafybeigdyrzt5sfp7udm7hu76uh7y26nf3efuylqabf3oclgtqy55fbzdi"

func TestNFTStorageRequiresToken(t *testing.T) {
	_, err := NewNFTStorageRepository(&config.StorageConfig{Endpoint: "https://api.nft.storage"}, nil, zap.NewNop())
	assert.ErrorIs(t, err, domain.ErrMissingCredential)
}

func TestNFTStorageUpload(t *testing.T) {
	var gotBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/upload", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		assert.Equal(t, "image/png", r.Header.Get("Content-Type"))
		gotBody, _ = io.ReadAll(r.Body)
		_, _ = w.Write([]byte(`{"ok":true,"value":{"cid":"` + testCID + `"}}`))
	}))
	defer srv.Close()

	s, err := NewNFTStorageRepository(&config.StorageConfig{Endpoint: srv.URL, Token: "tok"}, srv.Client(), zap.NewNop())
	require.NoError(t, err)

	id, err := s.Upload(context.Background(), []byte("image"), "image/png")
	require.NoError(t, err)
	assert.Equal(t, testCID, id)
	assert.Equal(t, []byte("image"), gotBody)
}

func TestNFTStorageUploadJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		var doc domain.PropertyMetadata
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&doc))
		assert.Equal(t, "Real Estate NFT - 1 Main St", doc.Name)
		_, _ = w.Write([]byte(`{"ok":true,"value":{"cid":"` + testCID + `"}}`))
	}))
	defer srv.Close()

	s, err := NewNFTStorageRepository(&config.StorageConfig{Endpoint: srv.URL, Token: "tok"}, srv.Client(), zap.NewNop())
	require.NoError(t, err)

	id, err := s.UploadJSON(context.Background(), domain.PropertyMetadata{Name: "Real Estate NFT - 1 Main St"})
	require.NoError(t, err)
	assert.Equal(t, testCID, id)
}

func TestNFTStorageUploadErrors(t *testing.T) {
	tests := map[string]struct {
		status int
		body   string
	}{
		"unauthorized": {http.StatusUnauthorized, `{"ok":false,"error":{"name":"Unauthorized","message":"invalid token"}}`},
		"bad cid":      {http.StatusOK, `{"ok":true,"value":{"cid":"not-a-cid"}}`},
		"empty cid":    {http.StatusOK, `{"ok":true,"value":{}}`},
		"not json":     {http.StatusBadGateway, `<html>bad gateway</html>`},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			s, err := NewNFTStorageRepository(&config.StorageConfig{Endpoint: srv.URL, Token: "tok"}, srv.Client(), zap.NewNop())
			require.NoError(t, err)

			_, err = s.Upload(context.Background(), []byte("x"), "text/plain")
			assert.ErrorIs(t, err, domain.ErrUploadFailed)
		})
	}
}
