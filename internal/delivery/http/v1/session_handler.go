package v1

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/tundephilps/test-ecommerce/internal/domain"
	"github.com/tundephilps/test-ecommerce/internal/usecase"
	"github.com/tundephilps/test-ecommerce/pkg/logger"
	"github.com/tundephilps/test-ecommerce/pkg/utils"
)

// Reloader refetches the remote catalog.
type Reloader interface {
	Reload(ctx context.Context)
}

// SessionHandler drives the browsing session: filter edits, page clicks
// and the layout toggle.
type SessionHandler struct {
	session  *usecase.SessionUsecase
	reloader Reloader

	reloading atomic.Bool
	reloads   sync.WaitGroup
}

func NewSessionHandler(session *usecase.SessionUsecase, reloader Reloader) *SessionHandler {
	return &SessionHandler{session: session, reloader: reloader}
}

// sessionPatch holds the editable inputs. Prices arrive as raw text, the
// way a user typed them.
type sessionPatch struct {
	SearchText *string `json:"searchText"`
	Category   *string `json:"category"`
	MinPrice   *string `json:"minPrice"`
	MaxPrice   *string `json:"maxPrice"`
	SortKey    *string `json:"sortKey"`
	View       *string `json:"view"`
	Page       *int    `json:"page"`
}

func (h *SessionHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, http.StatusOK, renderSession(h.session.Snapshot()))
}

// UpdateSession applies the filter fields first and the page last, so a
// page sent together with a filter change is honored.
func (h *SessionHandler) UpdateSession(w http.ResponseWriter, r *http.Request) {
	var patch sessionPatch
	if err := utils.DecodeJSON(r, &patch); err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	if patch.Page != nil && *patch.Page < 1 {
		utils.WriteError(w, http.StatusBadRequest, "page must be a positive integer")
		return
	}

	if patch.SearchText != nil {
		h.session.SetSearchText(*patch.SearchText)
	}
	if patch.Category != nil {
		h.session.SetCategory(*patch.Category)
	}
	if patch.MinPrice != nil {
		h.session.SetMinPrice(utils.ParseMinPrice(*patch.MinPrice))
	}
	if patch.MaxPrice != nil {
		h.session.SetMaxPrice(utils.ParseMaxPrice(*patch.MaxPrice))
	}
	if patch.SortKey != nil {
		h.session.SetSortKey(domain.ParseSortKey(*patch.SortKey))
	}
	if patch.View != nil {
		h.session.SetView(domain.ParseViewMode(*patch.View))
	}
	if patch.Page != nil {
		h.session.SetPage(*patch.Page)
	}

	utils.WriteJSON(w, http.StatusOK, renderSession(h.session.Snapshot()))
}

// GoToPage handles a pagination button click.
func (h *SessionHandler) GoToPage(w http.ResponseWriter, r *http.Request) {
	page, err := strconv.Atoi(r.PathValue("page"))
	if err != nil || page < 1 {
		utils.WriteError(w, http.StatusBadRequest, "page must be a positive integer")
		return
	}
	utils.WriteJSON(w, http.StatusOK, renderSession(h.session.SetPage(page)))
}

func (h *SessionHandler) ToggleView(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, http.StatusOK, renderSession(h.session.ToggleView()))
}

// ReloadCatalog starts a catalog refetch and returns immediately. The
// session reports loading until products arrive. A request made while a
// reload is running joins it instead of starting another.
func (h *SessionHandler) ReloadCatalog(w http.ResponseWriter, r *http.Request) {
	if !h.reloading.CompareAndSwap(false, true) {
		utils.WriteJSON(w, http.StatusAccepted, map[string]string{"status": "already reloading"})
		return
	}

	ctx := context.WithoutCancel(r.Context())
	h.reloads.Add(1)
	go func() {
		defer h.reloads.Done()
		defer h.reloading.Store(false)
		logger.WithContext(ctx).Info().Msg("Catalog reload requested")
		h.reloader.Reload(ctx)
	}()
	utils.WriteJSON(w, http.StatusAccepted, map[string]string{"status": "reloading"})
}

// Wait blocks until running reloads finish or ctx ends.
func (h *SessionHandler) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		h.reloads.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
