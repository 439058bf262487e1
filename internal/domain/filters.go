package domain

// Filters is an immutable-per-change snapshot of the catalog filter
// state. A new value replaces the previous one wholesale; consumers
// never see partial mutation.
type Filters struct {
	Search         string
	Category       string
	PriceMin       float64
	PriceMax       float64
	ProductTypes   []string
	SortBy         string
	HideOutOfStock bool
}
