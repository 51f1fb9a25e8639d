// internal/services/catalog_service.go
package services

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/yahiawalid23/HEPTA/internal/models"
	"github.com/yahiawalid23/HEPTA/internal/records"
)

type CatalogService struct {
	products *records.ProductStore
	logger   *logrus.Logger
}

type ProductFilter struct {
	Category string
	Search   string
}

type ImportResult struct {
	Count        int      `json:"count"`
	DuplicateIDs []string `json:"duplicate_ids,omitempty"`
}

func NewCatalogService(products *records.ProductStore, logger *logrus.Logger) *CatalogService {
	return &CatalogService{products: products, logger: logger}
}

// ListProducts returns the catalog in sheet order. Category matches
// exactly, ignoring case; Search matches a substring of the id or either
// name.
func (s *CatalogService) ListProducts(ctx context.Context, filter ProductFilter) []models.Product {
	all := s.products.ReadAll(ctx)
	if filter.Category == "" && filter.Search == "" {
		return all
	}

	search := strings.ToLower(strings.TrimSpace(filter.Search))
	out := make([]models.Product, 0, len(all))
	for _, p := range all {
		if filter.Category != "" && !strings.EqualFold(p.Category, filter.Category) {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(p.ID), search) &&
			!strings.Contains(strings.ToLower(p.EnglishName), search) &&
			!strings.Contains(strings.ToLower(p.ArabicName), search) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// Categories lists distinct categories in first-seen order.
func (s *CatalogService) Categories(ctx context.Context) []string {
	seen := make(map[string]bool)
	out := []string{}
	for _, p := range s.products.ReadAll(ctx) {
		if p.Category == "" || seen[p.Category] {
			continue
		}
		seen[p.Category] = true
		out = append(out, p.Category)
	}
	return out
}

// ImportProducts replaces the catalog with the rows of an uploaded sheet.
// Undecodable input returns a spreadsheet.DecodeError and writes nothing.
// Duplicate ids are kept and reported.
func (s *CatalogService) ImportProducts(ctx context.Context, data []byte) (*ImportResult, error) {
	products, err := s.products.Decode(data)
	if err != nil {
		return nil, err
	}

	dups := duplicateIDs(products)
	if len(dups) > 0 {
		s.logger.WithField("ids", dups).Warn("Product sheet contains duplicate ids")
	}

	if err := s.products.WriteAll(ctx, products); err != nil {
		return nil, err
	}

	s.logger.WithField("count", len(products)).Info("Product catalog replaced")
	return &ImportResult{Count: len(products), DuplicateIDs: dups}, nil
}

// ExportProducts returns the authoritative catalog sheet.
func (s *CatalogService) ExportProducts(ctx context.Context) ([]byte, error) {
	return s.products.Blob(ctx)
}

func duplicateIDs(products []models.Product) []string {
	counts := make(map[string]int, len(products))
	var dups []string
	for _, p := range products {
		if p.ID == "" {
			continue
		}
		counts[p.ID]++
		if counts[p.ID] == 2 {
			dups = append(dups, p.ID)
		}
	}
	return dups
}
