package checkout

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"github.com/RagdeMoises/mars-front-mayor-2025/internal/domain"
)

var ErrInvalidEmail = errors.New("invalid email address")

// Notifier submits the order summary to the send-cart collaborator.
type Notifier struct {
	endpoint string
	http     *http.Client
	logger   *zap.Logger
}

func NewNotifier(endpoint string, logger *zap.Logger) *Notifier {
	return &Notifier{
		endpoint: endpoint,
		http: &http.Client{
			Timeout:   10 * time.Second,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		logger: logger,
	}
}

type sendCartPayload struct {
	Email        string             `json:"email"`
	ClientName   string             `json:"clientName,omitempty"`
	ClientPhone  string             `json:"clientPhone,omitempty"`
	Observations string             `json:"observations,omitempty"`
	CartItems    []domain.OrderLine `json:"cartItems"`
}

// Send posts the order to the notification endpoint. Any non-2xx
// response is an error; the caller decides what happens to the cart.
func (n *Notifier) Send(ctx context.Context, order Order) error {
	if !PlausibleEmail(order.Customer.Email) {
		return ErrInvalidEmail
	}

	payload := sendCartPayload{
		Email:        order.Customer.Email,
		ClientName:   order.Customer.Name,
		ClientPhone:  order.Customer.Phone,
		Observations: order.Customer.Observations,
		CartItems:    order.Lines,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal order: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build send-cart request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.http.Do(req)
	if err != nil {
		return fmt.Errorf("send-cart request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("send-cart request failed: status %d", resp.StatusCode)
	}

	n.logger.Info("order submitted by email",
		zap.String("email", order.Customer.Email),
		zap.Int("lines", len(order.Lines)))
	return nil
}

// PlausibleEmail applies the storefront's minimal syntactic check: the
// address must contain both '@' and '.'.
func PlausibleEmail(email string) bool {
	return strings.Contains(email, "@") && strings.Contains(email, ".")
}
