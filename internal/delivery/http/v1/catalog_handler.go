package v1

import (
	"net/http"

	"github.com/tundephilps/test-ecommerce/internal/domain"
	"github.com/tundephilps/test-ecommerce/internal/usecase"
	"github.com/tundephilps/test-ecommerce/pkg/utils"
)

// CatalogReader exposes the loaded catalog.
type CatalogReader interface {
	Products() []domain.Product
	Categories() []string
}

// CatalogHandler answers stateless queries over the loaded catalog.
type CatalogHandler struct {
	catalog  CatalogReader
	pageSize int
}

func NewCatalogHandler(catalog CatalogReader, pageSize int) *CatalogHandler {
	return &CatalogHandler{catalog: catalog, pageSize: pageSize}
}

// ListProducts runs one query described by the URL parameters
// q, category, min_price, max_price, sort, page, page_size and view.
func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	spec := domain.NewQuerySpec(utils.ParseInt(query.Get("page_size"), h.pageSize))
	spec.SearchText = query.Get("q")
	spec.Category = query.Get("category")
	spec.PriceRange = domain.PriceRange{
		Min: utils.ParseMinPrice(query.Get("min_price")),
		Max: utils.ParseMaxPrice(query.Get("max_price")),
	}
	spec.SortKey = domain.ParseSortKey(query.Get("sort"))
	spec.Page = utils.ParseInt(query.Get("page"), 1)

	result := usecase.ApplyQuery(h.catalog.Products(), spec)
	if spec.Page < 1 {
		spec.Page = result.CurrentPage
	}

	utils.WriteJSON(w, http.StatusOK, renderListing(spec, result, domain.ParseViewMode(query.Get("view"))))
}

func (h *CatalogHandler) GetCategories(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"categories": h.catalog.Categories(),
	})
}
