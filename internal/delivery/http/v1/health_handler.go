package v1

import (
	"net/http"

	"github.com/tundephilps/test-ecommerce/internal/usecase"
	"github.com/tundephilps/test-ecommerce/pkg/utils"
)

type HealthHandler struct {
	session *usecase.SessionUsecase
	catalog CatalogReader
}

func NewHealthHandler(session *usecase.SessionUsecase, catalog CatalogReader) *HealthHandler {
	return &HealthHandler{session: session, catalog: catalog}
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status":     "ok",
		"loading":    h.session.Snapshot().Loading,
		"products":   len(h.catalog.Products()),
		"categories": len(h.catalog.Categories()),
	})
}
