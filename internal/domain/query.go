package domain

import (
	"errors"
	"math"

	"github.com/goccy/go-json"
)

// DefaultPageSize is the number of products shown per page.
const DefaultPageSize = 8

type SortKey string

const (
	SortNone       SortKey = "none"
	SortPriceAsc   SortKey = "priceAsc"
	SortPriceDesc  SortKey = "priceDesc"
	SortNameAsc    SortKey = "nameAsc"
	SortRatingDesc SortKey = "ratingDesc"
)

// List Exports for API
var SortKeys = []SortKey{
	SortNone,
	SortPriceAsc,
	SortPriceDesc,
	SortNameAsc,
	SortRatingDesc,
}

// ParseSortKey accepts the canonical keys as well as the storefront's
// select values (priceLow, priceHigh, name, rating). Anything else,
// including "", means no reordering.
func ParseSortKey(s string) SortKey {
	switch s {
	case string(SortPriceAsc), "priceLow", "price_asc":
		return SortPriceAsc
	case string(SortPriceDesc), "priceHigh", "price_desc":
		return SortPriceDesc
	case string(SortNameAsc), "name", "name_asc":
		return SortNameAsc
	case string(SortRatingDesc), "rating", "rating_desc":
		return SortRatingDesc
	default:
		return SortNone
	}
}

// PriceRange is an inclusive [Min, Max] bound. Min > Max is allowed and
// simply matches nothing.
type PriceRange struct {
	Min float64
	Max float64
}

// AnyPrice is the unbounded default range.
func AnyPrice() PriceRange {
	return PriceRange{Min: 0, Max: math.Inf(1)}
}

func (r PriceRange) Contains(price float64) bool {
	return price >= r.Min && price <= r.Max
}

type priceRangeJSON struct {
	Min float64  `json:"min"`
	Max *float64 `json:"max"`
}

// MarshalJSON encodes an unbounded Max as null since JSON has no infinity.
func (r PriceRange) MarshalJSON() ([]byte, error) {
	out := priceRangeJSON{Min: r.Min}
	if !math.IsInf(r.Max, 1) {
		hi := r.Max
		out.Max = &hi
	}
	return json.Marshal(out)
}

func (r *PriceRange) UnmarshalJSON(data []byte) error {
	if r == nil {
		return errors.New("PriceRange: UnmarshalJSON on nil pointer")
	}
	var in priceRangeJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	r.Min = in.Min
	r.Max = math.Inf(1)
	if in.Max != nil {
		r.Max = *in.Max
	}
	return nil
}

// QuerySpec is the complete set of user controlled parameters deciding which
// products are visible and in what order.
type QuerySpec struct {
	SearchText string     `json:"searchText"`
	Category   string     `json:"category"`
	PriceRange PriceRange `json:"priceRange"`
	SortKey    SortKey    `json:"sortKey"`
	Page       int        `json:"page"`
	PageSize   int        `json:"pageSize"`
}

// NewQuerySpec returns the initial spec of a session: no filters, no sort,
// first page.
func NewQuerySpec(pageSize int) QuerySpec {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return QuerySpec{
		PriceRange: AnyPrice(),
		SortKey:    SortNone,
		Page:       1,
		PageSize:   pageSize,
	}
}

// QueryResult is one rendered page plus the pagination metadata.
type QueryResult struct {
	Page        []Product `json:"page"`
	TotalPages  int       `json:"totalPages"`
	TotalItems  int       `json:"totalItems"`
	CurrentPage int       `json:"currentPage"`
	PageSize    int       `json:"pageSize"`
}
