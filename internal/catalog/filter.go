// Package catalog serves the product lists shown to shoppers and admins
// and filters them by category and search text.
package catalog

import (
	"strings"

	"github.com/miradev/mira/internal/domain"
)

// Filter narrows products by category and search text. The ALL sentinel
// matches every category; any other value requires exact equality with the
// product's category. Search text matches case-insensitively against the
// product name only. Both conditions must hold, and the input order is
// preserved. The input slice is never modified.
func Filter(products []domain.Product, category, search string) []domain.Product {
	search = strings.ToLower(strings.TrimSpace(search))

	filtered := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if !matchesCategory(p, category) {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(p.Name), search) {
			continue
		}
		filtered = append(filtered, p)
	}
	return filtered
}

func matchesCategory(p domain.Product, category string) bool {
	if category == "" || category == domain.CategoryAll {
		return true
	}
	return p.Category.Valid && p.Category.String == category
}
