package domain

import "fmt"

// OrderLine is one cart line projected into the order summary sent at
// checkout. Field names match the send-cart collaborator's contract.
type OrderLine struct {
	Producto string  `json:"Producto"`
	SKU      string  `json:"SKU"`
	Precio   float64 `json:"Precio"`
	Cantidad int     `json:"Cantidad"`
	Subtotal string  `json:"Subtotal"`
}

// OrderLines projects cart items into checkout order lines. The
// subtotal is formatted with two decimals, matching what the
// notification endpoint expects.
func OrderLines(items []LineItem) []OrderLine {
	lines := make([]OrderLine, 0, len(items))
	for _, item := range items {
		lines = append(lines, OrderLine{
			Producto: item.Title,
			SKU:      item.SKU,
			Precio:   item.Price,
			Cantidad: item.Quantity,
			Subtotal: fmt.Sprintf("%.2f", item.Subtotal()),
		})
	}
	return lines
}
