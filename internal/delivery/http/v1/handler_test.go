package v1

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tundephilps/test-ecommerce/internal/domain"
	"github.com/tundephilps/test-ecommerce/internal/infrastructure/cache"
	"github.com/tundephilps/test-ecommerce/internal/usecase"
)

type stubLoader struct {
	products   []domain.Product
	categories []string
}

func (s *stubLoader) LoadProducts(context.Context) ([]domain.Product, error) {
	return s.products, nil
}

func (s *stubLoader) LoadCategories(context.Context) ([]string, error) {
	return s.categories, nil
}

type reloadSpy struct {
	called  chan struct{}
	release chan struct{}
	calls   atomic.Int32
}

func (r *reloadSpy) Reload(context.Context) {
	if r.calls.Add(1) == 1 {
		close(r.called)
	}
	if r.release != nil {
		<-r.release
	}
}

func testProducts(n int) []domain.Product {
	out := make([]domain.Product, n)
	for i := range out {
		category := "odd"
		if (i+1)%2 == 0 {
			category = "even"
		}
		out[i] = domain.Product{
			ID:          i + 1,
			Title:       fmt.Sprintf("Item %02d", i+1),
			Category:    category,
			Price:       float64(i+1) * 10,
			Rating:      domain.Rating{Rate: 4, Count: 10},
			Description: strings.Repeat("x", 120),
			Image:       fmt.Sprintf("https://img.example/%d.jpg", i+1),
		}
	}
	return out
}

type testServer struct {
	router   http.Handler
	session  *usecase.SessionUsecase
	sessions *SessionHandler
	reload   *reloadSpy
}

func newTestServer(t *testing.T, products []domain.Product) *testServer {
	t.Helper()
	log := zerolog.Nop()

	session := usecase.NewSessionUsecase(4, nil, &log)
	catalog := usecase.NewCatalogUsecase(
		&stubLoader{products: products, categories: []string{"odd", "even"}},
		cache.NewSessionStore(), session, nil, &log,
	)
	catalog.Load(context.Background())

	spy := &reloadSpy{called: make(chan struct{})}
	sessions := NewSessionHandler(session, spy)
	router := NewRouter(Handlers{
		Catalog: NewCatalogHandler(catalog, 4),
		Session: sessions,
		Health:  NewHealthHandler(session, catalog),
		Metrics: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("metrics"))
		}),
	})
	return &testServer{router: router, session: session, sessions: sessions, reload: spy}
}

func (s *testServer) do(t *testing.T, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func cardIDs(cards []ProductCard) []int {
	out := make([]int, len(cards))
	for i, c := range cards {
		out[i] = c.ID
	}
	return out
}

func TestListProducts(t *testing.T) {
	srv := newTestServer(t, testProducts(10))

	rec := srv.do(t, http.MethodGet, "/api/v1/products?category=even&sort=priceDesc&page=2&page_size=2", "")
	require.Equal(t, http.StatusOK, rec.Code)

	view := decode[ListingView](t, rec)
	assert.Equal(t, []int{6, 4}, cardIDs(view.Products))
	assert.Equal(t, 5, view.TotalItems)
	assert.Equal(t, 3, view.TotalPages)
	assert.Equal(t, 2, view.CurrentPage)
	assert.Equal(t, domain.SortPriceDesc, view.Query.SortKey)
	assert.Equal(t, domain.ViewGrid, view.Layout)
	assert.Equal(t, []PageButton{{1, false}, {2, true}, {3, false}}, view.Pagination)
}

func TestListProducts_Defaults(t *testing.T) {
	srv := newTestServer(t, testProducts(10))

	view := decode[ListingView](t, srv.do(t, http.MethodGet, "/api/v1/products", ""))
	assert.Equal(t, []int{1, 2, 3, 4}, cardIDs(view.Products))
	assert.Equal(t, 1, view.Query.Page)
	assert.Equal(t, 4, view.Query.PageSize)
	assert.True(t, math.IsInf(view.Query.PriceRange.Max, 1))
}

func TestListProducts_PriceInputs(t *testing.T) {
	srv := newTestServer(t, testProducts(10))

	view := decode[ListingView](t, srv.do(t, http.MethodGet, "/api/v1/products?min_price=25&max_price=0&page_size=20", ""))
	assert.Equal(t, []int{3, 4, 5, 6, 7, 8, 9, 10}, cardIDs(view.Products))

	view = decode[ListingView](t, srv.do(t, http.MethodGet, "/api/v1/products?min_price=abc&max_price=30", ""))
	assert.Equal(t, []int{1, 2, 3}, cardIDs(view.Products))
}

func TestListProducts_NoMatches(t *testing.T) {
	srv := newTestServer(t, testProducts(10))

	rec := srv.do(t, http.MethodGet, "/api/v1/products?q=nothing", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"products":[]`)
	assert.Contains(t, rec.Body.String(), `"pagination":[]`)
}

func TestProductCard(t *testing.T) {
	card := renderCard(domain.Product{
		ID:          7,
		Title:       "Lamp",
		Price:       5,
		Description: strings.Repeat("a", 150),
		Category:    "home",
	})

	assert.Equal(t, "$5.00", card.PriceLabel)
	assert.Equal(t, strings.Repeat("a", 100)+"...", card.Summary)
}

func TestGetCategories(t *testing.T) {
	srv := newTestServer(t, testProducts(2))

	rec := srv.do(t, http.MethodGet, "/api/v1/categories", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"categories":["odd","even"]}`, rec.Body.String())
}

func TestGetSession(t *testing.T) {
	srv := newTestServer(t, testProducts(10))

	view := decode[SessionView](t, srv.do(t, http.MethodGet, "/api/v1/session", ""))
	assert.Equal(t, srv.session.ID(), view.SessionID)
	assert.False(t, view.Loading)
	assert.Equal(t, []string{"odd", "even"}, view.Categories)
	assert.Equal(t, []int{1, 2, 3, 4}, cardIDs(view.Products))
	assert.Len(t, view.Pagination, 3)
}

func TestUpdateSession(t *testing.T) {
	srv := newTestServer(t, testProducts(10))

	rec := srv.do(t, http.MethodPatch, "/api/v1/session",
		`{"category":"odd","minPrice":"","maxPrice":"70","sortKey":"priceHigh","view":"list"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	view := decode[SessionView](t, rec)
	assert.Equal(t, []int{7, 5, 3, 1}, cardIDs(view.Products))
	assert.Equal(t, domain.ViewList, view.Layout)
	assert.Equal(t, domain.PriceRange{Min: 0, Max: 70}, view.Query.PriceRange)
}

func TestUpdateSession_PageAppliedLast(t *testing.T) {
	srv := newTestServer(t, testProducts(10))
	srv.session.SetPage(3)

	view := decode[SessionView](t, srv.do(t, http.MethodPatch, "/api/v1/session", `{"searchText":"item","page":2}`))
	assert.Equal(t, 2, view.CurrentPage)
	assert.Equal(t, []int{5, 6, 7, 8}, cardIDs(view.Products))
}

func TestUpdateSession_FilterChangeResetsPage(t *testing.T) {
	srv := newTestServer(t, testProducts(10))
	srv.session.SetPage(3)

	view := decode[SessionView](t, srv.do(t, http.MethodPatch, "/api/v1/session", `{"sortKey":"nameAsc"}`))
	assert.Equal(t, 1, view.CurrentPage)
}

func TestUpdateSession_BadRequests(t *testing.T) {
	srv := newTestServer(t, testProducts(10))

	tests := []struct {
		name string
		body string
	}{
		{"malformed", `{"category":`},
		{"empty", ``},
		{"unknown field", `{"colour":"red"}`},
		{"wrong type", `{"page":"two"}`},
		{"page zero", `{"page":0}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := srv.do(t, http.MethodPatch, "/api/v1/session", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, rec.Body.String(), `"error"`)
		})
	}
	assert.Equal(t, 1, srv.session.Snapshot().Spec.Page)
}

func TestGoToPage(t *testing.T) {
	srv := newTestServer(t, testProducts(10))

	rec := srv.do(t, http.MethodPost, "/api/v1/session/page/3", "")
	require.Equal(t, http.StatusOK, rec.Code)

	view := decode[SessionView](t, rec)
	assert.Equal(t, []int{9, 10}, cardIDs(view.Products))
	assert.Equal(t, []PageButton{{1, false}, {2, false}, {3, true}}, view.Pagination)
}

func TestGoToPage_Invalid(t *testing.T) {
	srv := newTestServer(t, testProducts(10))

	for _, page := range []string{"abc", "0", "-1"} {
		rec := srv.do(t, http.MethodPost, "/api/v1/session/page/"+page, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code, page)
	}
}

func TestToggleView(t *testing.T) {
	srv := newTestServer(t, testProducts(10))
	srv.session.SetPage(2)

	view := decode[SessionView](t, srv.do(t, http.MethodPost, "/api/v1/session/view/toggle", ""))
	assert.Equal(t, domain.ViewList, view.Layout)
	assert.Equal(t, 2, view.CurrentPage)

	view = decode[SessionView](t, srv.do(t, http.MethodPost, "/api/v1/session/view/toggle", ""))
	assert.Equal(t, domain.ViewGrid, view.Layout)
}

func TestReloadCatalog(t *testing.T) {
	srv := newTestServer(t, testProducts(1))

	rec := srv.do(t, http.MethodPost, "/api/v1/catalog/reload", "")
	assert.Equal(t, http.StatusAccepted, rec.Code)

	select {
	case <-srv.reload.called:
	case <-time.After(2 * time.Second):
		t.Fatal("reload was not started")
	}
}

func TestReloadCatalog_JoinsRunningReload(t *testing.T) {
	srv := newTestServer(t, testProducts(1))
	srv.reload.release = make(chan struct{})

	first := srv.do(t, http.MethodPost, "/api/v1/catalog/reload", "")
	require.Equal(t, http.StatusAccepted, first.Code)
	<-srv.reload.called

	for i := 0; i < 5; i++ {
		rec := srv.do(t, http.MethodPost, "/api/v1/catalog/reload", "")
		assert.Equal(t, http.StatusAccepted, rec.Code)
		assert.JSONEq(t, `{"status":"already reloading"}`, rec.Body.String())
	}

	close(srv.reload.release)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, srv.sessions.Wait(ctx))
	assert.Equal(t, int32(1), srv.reload.calls.Load())

	rec := srv.do(t, http.MethodPost, "/api/v1/catalog/reload", "")
	assert.JSONEq(t, `{"status":"reloading"}`, rec.Body.String())
	require.NoError(t, srv.sessions.Wait(ctx))
	assert.Equal(t, int32(2), srv.reload.calls.Load())
}

func TestSessionHandler_WaitHonorsDeadline(t *testing.T) {
	srv := newTestServer(t, testProducts(1))
	srv.reload.release = make(chan struct{})
	defer close(srv.reload.release)

	srv.do(t, http.MethodPost, "/api/v1/catalog/reload", "")
	<-srv.reload.called

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, srv.sessions.Wait(ctx), context.DeadlineExceeded)
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t, testProducts(3))

	for _, path := range []string{"/health", "/api/v1/health"} {
		rec := srv.do(t, http.MethodGet, path, "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"status":"ok","loading":false,"products":3,"categories":2}`, rec.Body.String())
	}
}

func TestRoutes_MethodNotAllowed(t *testing.T) {
	srv := newTestServer(t, testProducts(3))

	rec := srv.do(t, http.MethodDelete, "/api/v1/session", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)

	rec = srv.do(t, http.MethodGet, "/metrics", "")
	assert.Equal(t, "metrics", rec.Body.String())
}
