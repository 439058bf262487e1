package checkout

import (
	"fmt"
	"strings"

	"github.com/RagdeMoises/mars-front-mayor-2025/internal/domain"
)

// Customer holds the fields entered during checkout. Email is required
// in notification mode, Name in deep-link mode; the rest is optional.
type Customer struct {
	Email        string
	Name         string
	Phone        string
	Observations string
}

// Order is the read-only projection of the cart built fresh for one
// checkout attempt. Never persisted as-is.
type Order struct {
	Customer Customer
	Lines    []domain.OrderLine
	Total    float64
}

// ComposeOrder snapshots the cart into an order summary.
func ComposeOrder(cart domain.Cart, customer Customer) Order {
	return Order{
		Customer: customer,
		Lines:    domain.OrderLines(cart.Items),
		Total:    cart.Total(),
	}
}

// MessageText renders the order as the human-readable summary used by
// the messaging deep link.
func (o Order) MessageText() string {
	var b strings.Builder

	b.WriteString("Nuevo pedido")
	if o.Customer.Name != "" {
		fmt.Fprintf(&b, " de %s", o.Customer.Name)
	}
	b.WriteString("\n\n")

	for _, line := range o.Lines {
		fmt.Fprintf(&b, "- %s (SKU %s) x%d = $%s\n",
			line.Producto, line.SKU, line.Cantidad, line.Subtotal)
	}

	fmt.Fprintf(&b, "\nTotal: $%.2f", o.Total)

	if o.Customer.Phone != "" {
		fmt.Fprintf(&b, "\nTel: %s", o.Customer.Phone)
	}
	if o.Customer.Observations != "" {
		fmt.Fprintf(&b, "\nObservaciones: %s", o.Customer.Observations)
	}
	return b.String()
}
