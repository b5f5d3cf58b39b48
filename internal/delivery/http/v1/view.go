package v1

import (
	"fmt"

	"github.com/tundephilps/test-ecommerce/internal/domain"
	"github.com/tundephilps/test-ecommerce/internal/usecase"
	"github.com/tundephilps/test-ecommerce/pkg/utils"
)

const summaryLength = 100

// ProductCard is one product as shown on a listing page.
type ProductCard struct {
	ID         int           `json:"id"`
	Title      string        `json:"title"`
	Image      string        `json:"image"`
	Summary    string        `json:"summary"`
	PriceLabel string        `json:"priceLabel"`
	Category   string        `json:"category"`
	Rating     domain.Rating `json:"rating"`
}

// PageButton is one entry of the pagination bar.
type PageButton struct {
	Page    int  `json:"page"`
	Current bool `json:"current"`
}

// ListingView is a rendered page of results.
type ListingView struct {
	Layout      domain.ViewMode  `json:"layout"`
	Products    []ProductCard    `json:"products"`
	Pagination  []PageButton     `json:"pagination"`
	Query       domain.QuerySpec `json:"query"`
	CurrentPage int              `json:"currentPage"`
	TotalPages  int              `json:"totalPages"`
	TotalItems  int              `json:"totalItems"`
}

// SessionView is the full session screen.
type SessionView struct {
	SessionID  string   `json:"sessionId"`
	Loading    bool     `json:"loading"`
	Categories []string `json:"categories"`
	ListingView
}

func renderCard(p domain.Product) ProductCard {
	return ProductCard{
		ID:         p.ID,
		Title:      p.Title,
		Image:      p.Image,
		Summary:    utils.Excerpt(p.Description, summaryLength),
		PriceLabel: fmt.Sprintf("$%.2f", p.Price),
		Category:   p.Category,
		Rating:     p.Rating,
	}
}

// renderPagination lists every page from 1 to totalPages.
func renderPagination(current, totalPages int) []PageButton {
	buttons := make([]PageButton, 0, totalPages)
	for page := 1; page <= totalPages; page++ {
		buttons = append(buttons, PageButton{Page: page, Current: page == current})
	}
	return buttons
}

func renderListing(spec domain.QuerySpec, result domain.QueryResult, layout domain.ViewMode) ListingView {
	cards := make([]ProductCard, 0, len(result.Page))
	for _, p := range result.Page {
		cards = append(cards, renderCard(p))
	}
	return ListingView{
		Layout:      layout,
		Products:    cards,
		Pagination:  renderPagination(result.CurrentPage, result.TotalPages),
		Query:       spec,
		CurrentPage: result.CurrentPage,
		TotalPages:  result.TotalPages,
		TotalItems:  result.TotalItems,
	}
}

func renderSession(snap usecase.Snapshot) SessionView {
	return SessionView{
		SessionID:   snap.SessionID,
		Loading:     snap.Loading,
		Categories:  snap.Categories,
		ListingView: renderListing(snap.Spec, snap.Result, snap.View),
	}
}
