package usecase

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/tundephilps/test-ecommerce/internal/domain"
	"github.com/tundephilps/test-ecommerce/pkg/cache"
	"github.com/tundephilps/test-ecommerce/pkg/logger"
)

const (
	productsCacheKey   = "catalog:products"
	categoriesCacheKey = "catalog:categories"
)

// FetchRecorder is the metrics sink for remote catalog fetches.
type FetchRecorder interface {
	ObserveFetch(resource string, count int, duration time.Duration, err error)
}

// CatalogUsecase loads the remote catalog into the session. Products and
// categories are fetched independently; a failed fetch leaves its
// collection empty and never blocks the other.
type CatalogUsecase struct {
	loader  domain.CatalogLoader
	cache   cache.Store
	session *SessionUsecase
	metrics FetchRecorder
	log     *zerolog.Logger

	loadMu sync.Mutex
}

func NewCatalogUsecase(loader domain.CatalogLoader, store cache.Store, session *SessionUsecase, metrics FetchRecorder, log *zerolog.Logger) *CatalogUsecase {
	return &CatalogUsecase{
		loader:  loader,
		cache:   store,
		session: session,
		metrics: metrics,
		log:     log,
	}
}

// Load fetches both resources concurrently and returns once both are done.
// The session leaves the loading state as soon as products arrive.
func (uc *CatalogUsecase) Load(ctx context.Context) {
	uc.loadMu.Lock()
	defer uc.loadMu.Unlock()

	uc.session.SetLoading(true)

	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		products := uc.fetchProducts(ctx)
		uc.cache.Set(productsCacheKey, products)
		uc.session.SetProductsLoaded(products)
	}()

	go func() {
		defer wg.Done()
		categories := uc.fetchCategories(ctx)
		uc.cache.Set(categoriesCacheKey, categories)
		uc.session.SetCategories(categories)
	}()

	wg.Wait()
}

// Reload discards the cached catalog and loads it again.
func (uc *CatalogUsecase) Reload(ctx context.Context) {
	uc.log.Info().Msg("Reloading catalog")
	uc.cache.Flush()
	uc.Load(ctx)
}

// Products returns the cached product list, empty before the first load.
func (uc *CatalogUsecase) Products() []domain.Product {
	if v, found := uc.cache.Get(productsCacheKey); found {
		if products, ok := v.([]domain.Product); ok {
			return slices.Clone(products)
		}
	}
	return []domain.Product{}
}

// Categories returns the cached category list, empty before the first load.
func (uc *CatalogUsecase) Categories() []string {
	if v, found := uc.cache.Get(categoriesCacheKey); found {
		if categories, ok := v.([]string); ok {
			return slices.Clone(categories)
		}
	}
	return []string{}
}

func (uc *CatalogUsecase) fetchProducts(ctx context.Context) []domain.Product {
	start := time.Now()
	products, err := uc.loader.LoadProducts(ctx)
	uc.observe(domain.ResourceProducts, len(products), time.Since(start), err)
	if err != nil || products == nil {
		return []domain.Product{}
	}
	return products
}

func (uc *CatalogUsecase) fetchCategories(ctx context.Context) []string {
	start := time.Now()
	categories, err := uc.loader.LoadCategories(ctx)
	uc.observe(domain.ResourceCategories, len(categories), time.Since(start), err)
	if err != nil || categories == nil {
		return []string{}
	}
	return categories
}

func (uc *CatalogUsecase) observe(resource string, count int, duration time.Duration, err error) {
	if err != nil {
		count = 0
	}
	logger.CatalogFetch(resource, count, duration, err)
	if uc.metrics != nil {
		uc.metrics.ObserveFetch(resource, count, duration, err)
	}
}
