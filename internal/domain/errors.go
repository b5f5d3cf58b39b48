package domain

import (
	"fmt"
)

// Catalog resources fetched from the remote API.
const (
	ResourceProducts   = "products"
	ResourceCategories = "categories"
)

// FetchError reports a network or HTTP failure while loading a catalog
// resource. StatusCode is 0 when no response was received.
type FetchError struct {
	Resource   string
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s from %s: status %d: %v", e.Resource, e.URL, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("fetch %s from %s: %v", e.Resource, e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// MalformedRecordError identifies a product record missing a field the
// query engine depends on.
type MalformedRecordError struct {
	Index int
	ID    *int
	Field string
}

func (e *MalformedRecordError) Error() string {
	if e.ID != nil {
		return fmt.Sprintf("malformed product record %d (id %d): missing %s", e.Index, *e.ID, e.Field)
	}
	return fmt.Sprintf("malformed product record %d: missing %s", e.Index, e.Field)
}
