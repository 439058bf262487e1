package checkout

import (
	"errors"
	"net/url"
	"strings"
)

var ErrNameTooShort = errors.New("display name must have at least 2 characters")

const whatsappSendURL = "https://api.whatsapp.com/send"

func validDisplayName(name string) bool {
	return len(strings.TrimSpace(name)) >= 2
}

// WhatsAppLink builds a pre-addressed deep link to the store's fixed
// contact with the order summary as URL-encoded text. There is no
// server round-trip in this mode; success is opening the link.
func WhatsAppLink(storePhone string, order Order) (string, error) {
	if !validDisplayName(order.Customer.Name) {
		return "", ErrNameTooShort
	}

	q := url.Values{}
	q.Set("phone", storePhone)
	q.Set("text", order.MessageText())
	return whatsappSendURL + "?" + q.Encode(), nil
}
