package cache

// Store holds catalog data for the lifetime of one browsing session.
// Entries never expire on their own; Flush discards everything, which is
// how an explicit reload starts over.
type Store interface {
	// Get retrieves a value from the store
	// Returns value, true if found
	// Returns nil, false if not found
	Get(key string) (interface{}, bool)

	// Set adds or replaces a value
	Set(key string, value interface{})

	// Delete removes a value from the store
	Delete(key string)

	// Flush removes all items
	Flush()

	// Len reports the number of stored items
	Len() int
}
