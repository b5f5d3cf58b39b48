package usecase

import (
	"slices"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tundephilps/test-ecommerce/internal/domain"
	"github.com/tundephilps/test-ecommerce/pkg/logger"
)

// Snapshot is an immutable copy of the session state handed to the view
// layer and to subscribers.
type Snapshot struct {
	SessionID  string             `json:"sessionId"`
	Version    uint64             `json:"version"`
	Spec       domain.QuerySpec   `json:"query"`
	View       domain.ViewMode    `json:"view"`
	Loading    bool               `json:"loading"`
	Categories []string           `json:"categories"`
	Result     domain.QueryResult `json:"result"`
}

// SessionUsecase owns the single QuerySpec of a browsing session. Every
// setter recomputes the visible page synchronously before returning.
type SessionUsecase struct {
	mu          sync.RWMutex
	id          string
	version     uint64
	products    []domain.Product
	categories  []string
	spec        domain.QuerySpec
	view        domain.ViewMode
	loading     bool
	result      domain.QueryResult
	subscribers map[int]func(Snapshot)
	nextSubID   int
	metrics     QueryRecorder
	log         *zerolog.Logger

	// notifyMu serialises deliveries; delivered is the newest version
	// handed to subscribers.
	notifyMu  sync.Mutex
	delivered uint64
}

// QueryRecorder is the metrics sink for recomputations.
type QueryRecorder interface {
	ObserveQuery(totalItems int)
}

func NewSessionUsecase(pageSize int, metrics QueryRecorder, log *zerolog.Logger) *SessionUsecase {
	id := uuid.New().String()
	sessionLog := logger.WithSessionID(*log, id)
	s := &SessionUsecase{
		id:          id,
		spec:        domain.NewQuerySpec(pageSize),
		view:        domain.ViewGrid,
		subscribers: make(map[int]func(Snapshot)),
		metrics:     metrics,
		log:         &sessionLog,
	}
	s.result = ApplyQuery(nil, s.spec)
	return s
}

func (s *SessionUsecase) ID() string {
	return s.id
}

// Subscribe registers fn to receive a snapshot after every recomputation.
// Snapshots arrive in version order; one superseded by a newer delivery is
// dropped. fn may read the session but must not call its setters. The
// returned func removes the subscription.
func (s *SessionUsecase) Subscribe(fn func(Snapshot)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextSubID
	s.nextSubID++
	s.subscribers[id] = fn

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subscribers, id)
	}
}

func (s *SessionUsecase) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

// --- Source data ---

// SetProducts replaces the source collection and returns to the first page.
func (s *SessionUsecase) SetProducts(products []domain.Product) Snapshot {
	return s.update(func() bool {
		s.products = slices.Clone(products)
		s.spec.Page = 1
		return true
	})
}

// SetCategories replaces the category list. The visible page does not
// depend on it, so the page number is kept.
func (s *SessionUsecase) SetCategories(categories []string) Snapshot {
	return s.update(func() bool {
		s.categories = slices.Clone(categories)
		return true
	})
}

// SetProductsLoaded replaces the source collection and leaves the loading
// state in a single step.
func (s *SessionUsecase) SetProductsLoaded(products []domain.Product) Snapshot {
	return s.update(func() bool {
		s.products = slices.Clone(products)
		s.spec.Page = 1
		s.loading = false
		return true
	})
}

func (s *SessionUsecase) SetLoading(loading bool) Snapshot {
	return s.update(func() bool {
		if s.loading == loading {
			return false
		}
		s.loading = loading
		return true
	})
}

// --- Query parameters ---

func (s *SessionUsecase) SetSearchText(text string) Snapshot {
	return s.update(func() bool {
		if s.spec.SearchText == text {
			return false
		}
		s.spec.SearchText = text
		s.spec.Page = 1
		return true
	})
}

func (s *SessionUsecase) SetCategory(category string) Snapshot {
	return s.update(func() bool {
		if s.spec.Category == category {
			return false
		}
		s.spec.Category = category
		s.spec.Page = 1
		return true
	})
}

func (s *SessionUsecase) SetPriceRange(r domain.PriceRange) Snapshot {
	return s.update(func() bool {
		if s.spec.PriceRange == r {
			return false
		}
		s.spec.PriceRange = r
		s.spec.Page = 1
		return true
	})
}

// SetMinPrice changes the lower bound and keeps the upper bound.
func (s *SessionUsecase) SetMinPrice(lo float64) Snapshot {
	return s.update(func() bool {
		if s.spec.PriceRange.Min == lo {
			return false
		}
		s.spec.PriceRange.Min = lo
		s.spec.Page = 1
		return true
	})
}

// SetMaxPrice changes the upper bound and keeps the lower bound.
func (s *SessionUsecase) SetMaxPrice(hi float64) Snapshot {
	return s.update(func() bool {
		if s.spec.PriceRange.Max == hi {
			return false
		}
		s.spec.PriceRange.Max = hi
		s.spec.Page = 1
		return true
	})
}

func (s *SessionUsecase) SetSortKey(key domain.SortKey) Snapshot {
	return s.update(func() bool {
		if s.spec.SortKey == key {
			return false
		}
		s.spec.SortKey = key
		s.spec.Page = 1
		return true
	})
}

// SetPage moves to another page without touching the filters.
func (s *SessionUsecase) SetPage(page int) Snapshot {
	return s.update(func() bool {
		if s.spec.Page == page {
			return false
		}
		s.spec.Page = page
		return true
	})
}

// --- View ---

func (s *SessionUsecase) SetView(view domain.ViewMode) Snapshot {
	return s.update(func() bool {
		if s.view == view {
			return false
		}
		s.view = view
		return true
	})
}

func (s *SessionUsecase) ToggleView() Snapshot {
	return s.update(func() bool {
		s.view = s.view.Toggle()
		return true
	})
}

// update applies mutate under the lock and, when it reports a change,
// recomputes the result and notifies subscribers after unlocking.
func (s *SessionUsecase) update(mutate func() bool) Snapshot {
	s.mu.Lock()
	if !mutate() {
		snap := s.snapshotLocked()
		s.mu.Unlock()
		return snap
	}

	s.version++
	s.result = ApplyQuery(s.products, s.spec)
	snap := s.snapshotLocked()
	s.mu.Unlock()

	if s.metrics != nil {
		s.metrics.ObserveQuery(snap.Result.TotalItems)
	}
	s.log.Debug().
		Uint64("version", snap.Version).
		Str("search", snap.Spec.SearchText).
		Str("category", snap.Spec.Category).
		Str("sort", string(snap.Spec.SortKey)).
		Int("page", snap.Spec.Page).
		Int("total_items", snap.Result.TotalItems).
		Int("total_pages", snap.Result.TotalPages).
		Msg("Session recomputed")

	s.notify(snap)
	return snap
}

// notify delivers snap unless a newer version already went out.
func (s *SessionUsecase) notify(snap Snapshot) {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()

	if snap.Version <= s.delivered {
		return
	}
	s.delivered = snap.Version

	s.mu.RLock()
	subs := make([]func(Snapshot), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		subs = append(subs, fn)
	}
	s.mu.RUnlock()

	for _, fn := range subs {
		fn(snap)
	}
}

func (s *SessionUsecase) snapshotLocked() Snapshot {
	categories := slices.Clone(s.categories)
	if categories == nil {
		categories = []string{}
	}
	result := s.result
	result.Page = slices.Clone(s.result.Page)
	return Snapshot{
		SessionID:  s.id,
		Version:    s.version,
		Spec:       s.spec,
		View:       s.view,
		Loading:    s.loading,
		Categories: categories,
		Result:     result,
	}
}
