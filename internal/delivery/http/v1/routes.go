package v1

import "net/http"

// Handlers groups everything mounted by NewRouter.
type Handlers struct {
	Catalog *CatalogHandler
	Session *SessionHandler
	Health  *HealthHandler
	Metrics http.Handler
}

func NewRouter(h Handlers) *http.ServeMux {
	mux := http.NewServeMux()

	// Catalog (stateless)
	mux.HandleFunc("GET /api/v1/products", h.Catalog.ListProducts)
	mux.HandleFunc("GET /api/v1/categories", h.Catalog.GetCategories)

	// Session
	mux.HandleFunc("GET /api/v1/session", h.Session.GetSession)
	mux.HandleFunc("PATCH /api/v1/session", h.Session.UpdateSession)
	mux.HandleFunc("POST /api/v1/session/page/{page}", h.Session.GoToPage)
	mux.HandleFunc("POST /api/v1/session/view/toggle", h.Session.ToggleView)
	mux.HandleFunc("POST /api/v1/catalog/reload", h.Session.ReloadCatalog)

	// Health Check
	mux.HandleFunc("GET /api/v1/health", h.Health.Health)
	mux.HandleFunc("GET /health", h.Health.Health)

	if h.Metrics != nil {
		mux.Handle("GET /metrics", h.Metrics)
	}
	return mux
}
