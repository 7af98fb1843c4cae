package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/supplierlens/backend/internal/domain"
	"github.com/supplierlens/backend/internal/usecase"
	"github.com/supplierlens/backend/internal/version"
)

// MissingProductMessage is the client error for a search with no title and no image
const MissingProductMessage = "Titre ou image requis"

// SupplierFinder is the search usecase the handler delegates to
type SupplierFinder interface {
	FindSuppliers(ctx context.Context, query *domain.SearchQuery) (*domain.SearchResult, error)
	Sources() []string
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	finder SupplierFinder
	logger *slog.Logger
}

// NewHandler creates a new HTTP handler
func NewHandler(finder SupplierFinder, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{finder: finder, logger: logger}
}

// SearchRequest is the body of POST /api/v1/suppliers/search
type SearchRequest struct {
	ProductTitle    string `json:"productTitle"`
	ProductImage    string `json:"productImage"`
	ProductPrice    Price  `json:"productPrice"`
	ProductCurrency string `json:"productCurrency"`
	SearchMethod    string `json:"searchMethod"`
}

// Price accepts a JSON number, a numeric string or null
type Price float64

// UnmarshalJSON decodes numbers directly and parses strings leniently,
// so "29,99" and "29.99 €" both work
func (p *Price) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*p = 0
		return nil
	}

	if data[0] != '"' {
		f, err := strconv.ParseFloat(string(data), 64)
		if err != nil {
			return fmt.Errorf("productPrice: %w", err)
		}
		return p.set(f)
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("productPrice: %w", err)
	}
	if f, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
		return p.set(f)
	}
	amount, _ := usecase.ParsePrice(s)
	return p.set(amount)
}

// set stores f, rejecting NaN and infinities which cannot be encoded back to JSON
func (p *Price) set(f float64) error {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return fmt.Errorf("productPrice: %v is not a finite number", f)
	}
	*p = Price(f)
	return nil
}

// SearchResponse is the success body; result fields are inlined
type SearchResponse struct {
	Success bool `json:"success"`
	*domain.SearchResult
}

// ErrorResponse is the failure body
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	sources := []string{}
	if h.finder != nil {
		sources = h.finder.Sources()
	}
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": version.Service,
		"version": version.Version,
		"sources": sources,
	})
}

// SearchSuppliers handles supplier search requests
func (h *Handler) SearchSuppliers(c *gin.Context) {
	if h.finder == nil {
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "supplier search not configured"})
		return
	}

	var req SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("malformed search request", "error", err, "request_id", requestID(c))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "invalid request body: " + err.Error()})
		return
	}

	query := domain.SearchQuery{
		Title:          strings.TrimSpace(req.ProductTitle),
		ImageRef:       strings.TrimSpace(req.ProductImage),
		RetailPrice:    float64(req.ProductPrice),
		RetailCurrency: req.ProductCurrency,
		Method:         domain.ParseSearchMethod(req.SearchMethod),
	}

	result, err := h.finder.FindSuppliers(c.Request.Context(), &query)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidRequest) {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: MissingProductMessage})
			return
		}
		h.logger.Error("supplier search failed", "error", err, "request_id", requestID(c))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, SearchResponse{Success: true, SearchResult: result})
}
