package domain

// ViewMode only affects how the view layer lays out a page.
type ViewMode string

const (
	ViewGrid ViewMode = "grid"
	ViewList ViewMode = "list"
)

func ParseViewMode(s string) ViewMode {
	if s == string(ViewList) {
		return ViewList
	}
	return ViewGrid
}

func (v ViewMode) Toggle() ViewMode {
	if v == ViewGrid {
		return ViewList
	}
	return ViewGrid
}
