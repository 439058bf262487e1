package domain

// Product is a catalog entry as served by the products API.
type Product struct {
	ID          int64
	SKU         string
	Title       string
	Price       float64
	Image       string
	Stock       int
	Category    string
	ProductType string
}

// ToLineItem projects a product into a cart line item with the given
// quantity. The caller is expected to run the result through the cart
// reducer, which enforces the quantity invariants.
func (p Product) ToLineItem(quantity int) LineItem {
	return LineItem{
		ProductID: p.ID,
		SKU:       p.SKU,
		Title:     p.Title,
		Price:     p.Price,
		Quantity:  quantity,
		Image:     p.Image,
		Stock:     p.Stock,
	}
}
