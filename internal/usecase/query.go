package usecase

import (
	"cmp"
	"slices"
	"strings"

	"github.com/tundephilps/test-ecommerce/internal/domain"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// ApplyQuery derives the visible page from the full product collection.
// Stages run in a fixed order: search, category, price, stable sort,
// paginate. The input slice is never modified.
func ApplyQuery(products []domain.Product, spec domain.QuerySpec) domain.QueryResult {
	pageSize := spec.PageSize
	if pageSize <= 0 {
		pageSize = domain.DefaultPageSize
	}
	page := spec.Page
	if page < 1 {
		page = 1
	}

	filtered := filterProducts(products, spec)
	sortProducts(filtered, spec.SortKey)

	total := len(filtered)
	totalPages := total / pageSize
	if total%pageSize != 0 {
		totalPages++
	}

	return domain.QueryResult{
		Page:        paginate(filtered, page, pageSize, totalPages),
		TotalPages:  totalPages,
		TotalItems:  total,
		CurrentPage: page,
		PageSize:    pageSize,
	}
}

// filterProducts applies the search, category and price stages and always
// returns a freshly allocated slice.
func filterProducts(products []domain.Product, spec domain.QuerySpec) []domain.Product {
	needle := strings.ToLower(spec.SearchText)

	out := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if needle != "" && !strings.Contains(strings.ToLower(p.Title), needle) {
			continue
		}
		if spec.Category != "" && p.Category != spec.Category {
			continue
		}
		if !spec.PriceRange.Contains(p.Price) {
			continue
		}
		out = append(out, p)
	}
	return out
}

func sortProducts(products []domain.Product, key domain.SortKey) {
	switch key {
	case domain.SortPriceAsc:
		slices.SortStableFunc(products, func(a, b domain.Product) int {
			return cmp.Compare(a.Price, b.Price)
		})
	case domain.SortPriceDesc:
		slices.SortStableFunc(products, func(a, b domain.Product) int {
			return cmp.Compare(b.Price, a.Price)
		})
	case domain.SortNameAsc:
		// Collators keep internal buffers, so each sort gets its own.
		c := collate.New(language.Und)
		slices.SortStableFunc(products, func(a, b domain.Product) int {
			return c.CompareString(a.Title, b.Title)
		})
	case domain.SortRatingDesc:
		slices.SortStableFunc(products, func(a, b domain.Product) int {
			return cmp.Compare(b.Rating.Rate, a.Rating.Rate)
		})
	}
}

// paginate compares page against totalPages before doing any offset
// arithmetic so that huge page numbers cannot overflow.
func paginate(products []domain.Product, page, pageSize, totalPages int) []domain.Product {
	if page > totalPages {
		return []domain.Product{}
	}
	start := (page - 1) * pageSize
	end := len(products)
	if pageSize < end-start {
		end = start + pageSize
	}
	return slices.Clone(products[start:end])
}
