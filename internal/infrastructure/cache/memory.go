package cache

import (
	"github.com/tundephilps/test-ecommerce/pkg/cache"

	gocache "github.com/patrickmn/go-cache"
)

type sessionStore struct {
	store *gocache.Cache
}

// NewSessionStore creates an in-memory store whose items live until they are
// deleted or flushed. No janitor goroutine is started since nothing expires.
func NewSessionStore() cache.Store {
	return &sessionStore{
		store: gocache.New(gocache.NoExpiration, 0),
	}
}

func (c *sessionStore) Get(key string) (interface{}, bool) {
	return c.store.Get(key)
}

func (c *sessionStore) Set(key string, value interface{}) {
	c.store.Set(key, value, gocache.NoExpiration)
}

func (c *sessionStore) Delete(key string) {
	c.store.Delete(key)
}

func (c *sessionStore) Flush() {
	c.store.Flush()
}

func (c *sessionStore) Len() int {
	return c.store.ItemCount()
}
