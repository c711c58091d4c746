package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/valdisdev1/mortgageProt/internal/domain"
	"github.com/valdisdev1/mortgageProt/pkg/utils"
)

const maxImageFetchSize = 20 << 20 // 20MB

type Image struct {
	Data        []byte
	ContentType string
}

type ImageService interface {
	Thumbnail(ctx context.Context, ref string, width uint) (*Image, error)
}

type imageService struct {
	gateway utils.Gateway
	client  *http.Client
	log     *zap.Logger
	proc    *utils.ImageProcessor
}

func NewImageService(gateway utils.Gateway, client *http.Client, log *zap.Logger) ImageService {
	if client == nil {
		client = http.DefaultClient
	}
	return &imageService{
		gateway: gateway,
		client:  client,
		log:     log,
		proc:    utils.NewImageProcessor(log, 80),
	}
}

// Thumbnail loads the image behind ref and scales it to width. Content the
// processor cannot decode, such as SVG placeholders, is returned unchanged.
func (s *imageService) Thumbnail(ctx context.Context, ref string, width uint) (*Image, error) {
	if strings.TrimSpace(ref) == "" {
		return nil, domain.ErrNotFound
	}

	src, err := s.load(ctx, ref)
	if err != nil {
		s.log.Error("Failed to load image",
			zap.String("ref", ref),
			zap.Error(err))
		return nil, err
	}

	data, contentType, err := s.proc.Thumbnail(src.Data, width)
	if errors.Is(err, utils.ErrUnsupportedImage) {
		return src, nil
	}
	if err != nil {
		return nil, err
	}

	return &Image{Data: data, ContentType: contentType}, nil
}

func (s *imageService) load(ctx context.Context, ref string) (*Image, error) {
	url := s.gateway.URL(ref)
	if strings.HasPrefix(url, "data:") {
		data, contentType, err := utils.DecodeDataURL(url)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrInvalidReference, err)
		}
		return &Image{Data: data, ContentType: contentType}, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidReference, err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("gateway returned status %d for %s", resp.StatusCode, url)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageFetchSize))
	if err != nil {
		return nil, err
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}

	return &Image{Data: data, ContentType: contentType}, nil
}
