package cart

import "github.com/RagdeMoises/mars-front-mayor-2025/internal/domain"

// Action is a single cart state transition. Apply is the only entry
// point that mutates cart state, so every invariant lives here.
type Action interface {
	apply(items []domain.LineItem) []domain.LineItem
}

// Initialize replaces the collection wholesale. Used only when
// restoring a persisted cart at startup.
type Initialize struct {
	Items []domain.LineItem
}

// Add merges the item into the cart by product identity. An existing
// line has the requested quantity added on top of its own; a new line
// is appended. Either way the stored quantity is clamped to the stock
// snapshot, silently dropping any excess.
type Add struct {
	Item     domain.LineItem
	Quantity int
}

// Remove drops the line with the matching product identity. No-op if
// absent.
type Remove struct {
	ProductID int64
}

// SetQuantity replaces the quantity of the matching line, floored to 1
// and clamped to the line's stock snapshot. No-op if absent.
type SetQuantity struct {
	ProductID int64
	Quantity  int
}

// Clear empties the collection.
type Clear struct{}

// Apply runs one action against the items and returns the resulting
// collection. The input slice is never modified.
func Apply(items []domain.LineItem, action Action) []domain.LineItem {
	return action.apply(items)
}

func (a Initialize) apply(_ []domain.LineItem) []domain.LineItem {
	out := make([]domain.LineItem, len(a.Items))
	copy(out, a.Items)
	return out
}

func (a Add) apply(items []domain.LineItem) []domain.LineItem {
	// Out-of-stock products cannot produce a valid line: quantity must
	// stay within [1, stock].
	if a.Item.Stock < 1 {
		return items
	}

	requested := floorQuantity(a.Quantity)

	out := make([]domain.LineItem, len(items))
	copy(out, items)

	for i := range out {
		if out[i].ProductID == a.Item.ProductID {
			out[i].Quantity = clamp(out[i].Quantity+requested, out[i].Stock)
			return out
		}
	}

	item := a.Item
	item.Quantity = clamp(requested, item.Stock)
	return append(out, item)
}

func (a Remove) apply(items []domain.LineItem) []domain.LineItem {
	out := make([]domain.LineItem, 0, len(items))
	for _, item := range items {
		if item.ProductID == a.ProductID {
			continue
		}
		out = append(out, item)
	}
	return out
}

func (a SetQuantity) apply(items []domain.LineItem) []domain.LineItem {
	out := make([]domain.LineItem, len(items))
	copy(out, items)
	for i := range out {
		if out[i].ProductID == a.ProductID {
			out[i].Quantity = clamp(floorQuantity(a.Quantity), out[i].Stock)
			break
		}
	}
	return out
}

func (a Clear) apply(_ []domain.LineItem) []domain.LineItem {
	return []domain.LineItem{}
}

// floorQuantity coerces missing or non-positive quantity input to 1.
func floorQuantity(q int) int {
	if q < 1 {
		return 1
	}
	return q
}

func clamp(q, stock int) int {
	if q > stock {
		return stock
	}
	return q
}
