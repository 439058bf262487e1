package domain

// LineItem is one product entry in the cart with its chosen quantity.
// Stock is the last-known available quantity at the time the product
// was fetched, advisory only.
type LineItem struct {
	ProductID int64   `json:"product_id" bson:"product_id"`
	SKU       string  `json:"sku" bson:"sku"`
	Title     string  `json:"title" bson:"title"`
	Price     float64 `json:"price" bson:"price"`
	Quantity  int     `json:"quantity" bson:"quantity"`
	Image     string  `json:"image,omitempty" bson:"image,omitempty"`
	Stock     int     `json:"stock" bson:"stock"`
}

func (li LineItem) Subtotal() float64 {
	return li.Price * float64(li.Quantity)
}

// Cart is an ordered collection of line items. Insertion order is
// preserved on append and never changed by updates.
type Cart struct {
	Items []LineItem `json:"items"`
}

// Total is the sum of price*quantity over all items, derived fresh on
// every call rather than maintained incrementally.
func (c Cart) Total() float64 {
	var total float64
	for _, item := range c.Items {
		total += item.Subtotal()
	}
	return total
}

// Count is the total number of units across all line items.
func (c Cart) Count() int {
	var n int
	for _, item := range c.Items {
		n += item.Quantity
	}
	return n
}
