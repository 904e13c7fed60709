package store

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"estatehub/internal/models"
)

// SortOrder is the ordering of search results.
type SortOrder string

const (
	SortNewest    SortOrder = "newest"
	SortPriceAsc  SortOrder = "price_asc"
	SortPriceDesc SortOrder = "price_desc"
)

// SortOrders lists the orderings offered by the search page.
var SortOrders = []SortOrder{SortNewest, SortPriceAsc, SortPriceDesc}

// ParseSort maps a query parameter to a SortOrder, defaulting to newest.
func ParseSort(s string) SortOrder {
	switch SortOrder(s) {
	case SortPriceAsc, SortPriceDesc:
		return SortOrder(s)
	}
	return SortNewest
}

func (o SortOrder) clause() string {
	switch o {
	case SortPriceAsc:
		return "properties.price ASC, properties.id ASC"
	case SortPriceDesc:
		return "properties.price DESC, properties.id DESC"
	}
	return "properties.created_at DESC, properties.id DESC"
}

// SearchProperties matches published listings whose title, city or address
// contains q, case-insensitively. An empty q matches everything.
func (s *Store) SearchProperties(ctx context.Context, q string, sort SortOrder) ([]models.Property, error) {
	db := s.db.WithContext(ctx).Scopes(published)

	if q = strings.TrimSpace(q); q != "" {
		pattern := "%" + escapeLike(strings.ToLower(q)) + "%"
		db = db.Where(
			"LOWER(properties.title) LIKE ? ESCAPE '\\' OR LOWER(properties.city) LIKE ? ESCAPE '\\' OR LOWER(properties.address) LIKE ? ESCAPE '\\'",
			pattern, pattern, pattern,
		)
	}

	var properties []models.Property
	err := db.
		Preload("Images", imagesBySortOrder).
		Preload("Owner", ownerProjection).
		Order(sort.clause()).
		Limit(SearchLimit).
		Find(&properties).Error
	if err != nil {
		return nil, fmt.Errorf("failed to search properties: %w", err)
	}
	return properties, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// scopeIDs restricts a query to the given primary keys.
func scopeIDs(ids []uint) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("id IN ?", ids)
	}
}
