package handler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/big"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/valdisdev1/mortgageProt/internal/domain"
	"github.com/valdisdev1/mortgageProt/internal/service"
	"github.com/valdisdev1/mortgageProt/pkg/utils"
)

const (
	defaultThumbnailWidth = 400
	maxThumbnailWidth     = 2000
)

// PropertyLister serves and refreshes the displayed property list.
type PropertyLister interface {
	State() domain.DisplayState
	Refresh(ctx context.Context, trigger service.Trigger) (bool, error)
}

type Handler struct {
	mint          service.MintService
	listing       PropertyLister
	images        service.ImageService
	gateway       utils.Gateway
	maxUploadSize int64
	log           *zap.Logger
}

func NewHandler(mint service.MintService, listing PropertyLister, images service.ImageService, gateway utils.Gateway, maxUploadSize int64, log *zap.Logger) *Handler {
	return &Handler{
		mint:          mint,
		listing:       listing,
		images:        images,
		gateway:       gateway,
		maxUploadSize: maxUploadSize,
		log:           log,
	}
}

type createPropertyRequest struct {
	PropertyAddress string `form:"propertyAddress" binding:"required"`
	Bedrooms        string `form:"bedrooms" binding:"required"`
	Bathrooms       string `form:"bathrooms" binding:"required"`
	AppraisedValue  string `form:"appraisedValue" binding:"required"`
}

func (r createPropertyRequest) toForm() (domain.PropertyForm, error) {
	form := domain.PropertyForm{PropertyAddress: strings.TrimSpace(r.PropertyAddress)}
	if form.PropertyAddress == "" {
		return form, errors.New("propertyAddress is required")
	}

	var err error
	if form.Bedrooms, err = parseCount("bedrooms", r.Bedrooms); err != nil {
		return form, err
	}
	if form.Bathrooms, err = parseCount("bathrooms", r.Bathrooms); err != nil {
		return form, err
	}
	if form.AppraisedValue, err = parseCount("appraisedValue", r.AppraisedValue); err != nil {
		return form, err
	}
	if form.AppraisedValue == 0 {
		return form, errors.New("appraisedValue must be greater than zero")
	}

	return form, nil
}

func parseCount(field, value string) (uint64, error) {
	n, err := strconv.ParseUint(strings.TrimSpace(value), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be a non-negative integer", field)
	}
	return n, nil
}

func (h *Handler) CreateProperty(c *gin.Context) {
	if c.Request.ContentLength > h.maxUploadSize {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "Upload too large"})
		return
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadSize)

	var req createPropertyRequest
	if err := c.ShouldBind(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "Upload too large"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required property fields"})
		return
	}

	form, err := req.toForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if form.Image, err = formFile(c, "image"); err != nil {
		h.log.Error("Failed to read image", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read image"})
		return
	}
	if form.ValuationDocument, err = formFile(c, "valuationDocument"); err != nil {
		h.log.Error("Failed to read valuation document", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read valuation document"})
		return
	}

	receipt, err := h.mint.Submit(c.Request.Context(), form)
	if err != nil {
		h.log.Error("Error creating property token", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to create property token"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Property tokenized successfully",
		"receipt": receipt,
	})
}

// formFile returns nil when the field was not submitted.
func formFile(c *gin.Context, field string) (*domain.File, error) {
	header, err := c.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return readFile(header)
}

func readFile(header *multipart.FileHeader) (*domain.File, error) {
	f, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(data)
	}

	return &domain.File{
		Name:        header.Filename,
		ContentType: contentType,
		Data:        data,
	}, nil
}

type propertyView struct {
	Index                 int    `json:"index"`
	PropertyAddress       string `json:"property_address"`
	Bedrooms              string `json:"bedrooms"`
	Bathrooms             string `json:"bathrooms"`
	AppraisedValue        string `json:"appraised_value"`
	ValuationDocumentHash string `json:"valuation_document_hash"`
	ValuationDocumentURL  string `json:"valuation_document_url,omitempty"`
	ImageHash             string `json:"image_hash"`
	ImageURL              string `json:"image_url,omitempty"`
}

func (h *Handler) ListProperties(c *gin.Context) {
	state := h.listing.State()

	etag := fmt.Sprintf(`"%d"`, state.Generation)
	c.Header("ETag", etag)
	if c.GetHeader("If-None-Match") == etag {
		c.Status(http.StatusNotModified)
		return
	}

	views := make([]propertyView, len(state.Properties))
	for i, p := range state.Properties {
		views[i] = propertyView{
			Index:                 i,
			PropertyAddress:       p.PropertyAddress,
			Bedrooms:              intString(p.Bedrooms),
			Bathrooms:             intString(p.Bathrooms),
			AppraisedValue:        intString(p.AppraisedValue),
			ValuationDocumentHash: p.ValuationDocumentHash,
			ValuationDocumentURL:  h.gateway.URL(p.ValuationDocumentHash),
			ImageHash:             p.ImageHash,
			ImageURL:              h.gateway.URL(p.ImageHash),
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"total_supply": intString(state.TotalSupply),
		"generation":   state.Generation,
		"updated_at":   state.UpdatedAt,
		"properties":   views,
	})
}

func (h *Handler) RefreshProperties(c *gin.Context) {
	refreshed, err := h.listing.Refresh(c.Request.Context(), service.TriggerManual)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to fetch properties"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"refreshed":  refreshed,
		"generation": h.listing.State().Generation,
	})
}

func (h *Handler) PropertyImage(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil || index < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid property index"})
		return
	}

	width := uint(defaultThumbnailWidth)
	if w := c.Query("width"); w != "" {
		n, err := strconv.ParseUint(w, 10, 32)
		if err != nil || n == 0 || n > maxThumbnailWidth {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid width"})
			return
		}
		width = uint(n)
	}

	state := h.listing.State()
	if index >= len(state.Properties) || state.Properties[index].ImageHash == "" {
		c.JSON(http.StatusNotFound, gin.H{"error": "No image available"})
		return
	}

	img, err := h.images.Thumbnail(c.Request.Context(), state.Properties[index].ImageHash, width)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "No image available"})
			return
		}
		h.log.Error("Failed to render thumbnail", zap.Int("index", index), zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to load image"})
		return
	}

	c.Data(http.StatusOK, img.ContentType, img.Data)
}

func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "OK"})
}

func intString(v *big.Int) string {
	if v == nil {
		return "0"
	}
	return v.String()
}
