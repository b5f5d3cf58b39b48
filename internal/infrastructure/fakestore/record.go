package fakestore

import "github.com/tundephilps/test-ecommerce/internal/domain"

// productRecord is the wire shape of one product. Pointers mark the fields
// the query engine relies on so that a missing value can be told apart from
// a zero value.
type productRecord struct {
	ID          *int          `json:"id"`
	Title       *string       `json:"title"`
	Price       *float64      `json:"price"`
	Description string        `json:"description"`
	Category    string        `json:"category"`
	Image       string        `json:"image"`
	Rating      *ratingRecord `json:"rating"`
}

type ratingRecord struct {
	Rate  *float64 `json:"rate"`
	Count int      `json:"count"`
}

func (r productRecord) toDomain(index int) (domain.Product, error) {
	malformed := func(field string) error {
		return &domain.MalformedRecordError{Index: index, ID: r.ID, Field: field}
	}

	switch {
	case r.ID == nil:
		return domain.Product{}, malformed("id")
	case r.Title == nil:
		return domain.Product{}, malformed("title")
	case r.Price == nil:
		return domain.Product{}, malformed("price")
	case r.Rating == nil || r.Rating.Rate == nil:
		return domain.Product{}, malformed("rating.rate")
	}

	return domain.Product{
		ID:          *r.ID,
		Title:       *r.Title,
		Category:    r.Category,
		Price:       *r.Price,
		Rating:      domain.Rating{Rate: *r.Rating.Rate, Count: r.Rating.Count},
		Description: r.Description,
		Image:       r.Image,
	}, nil
}
