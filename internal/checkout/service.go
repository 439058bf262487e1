package checkout

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/RagdeMoises/mars-front-mayor-2025/internal/domain"
	"github.com/RagdeMoises/mars-front-mayor-2025/internal/events"
	"github.com/RagdeMoises/mars-front-mayor-2025/internal/orders"
)

var ErrEmptyCart = errors.New("cart is empty")

// CartAccess is the slice of the cart manager the checkout needs: a
// snapshot to compose from and a clear after a confirmed submission.
type CartAccess interface {
	Snapshot() domain.Cart
	Clear(ctx context.Context) error
}

// OrderNotifier submits an order summary to the notification channel.
type OrderNotifier interface {
	Send(ctx context.Context, order Order) error
}

// Service drives the checkout flow. The order summary is composed
// fresh from a cart snapshot per attempt; the cart is only cleared
// after the notification endpoint confirms acceptance.
type Service struct {
	cart       CartAccess
	notifier   OrderNotifier
	storePhone string
	flow       *Flow
	log        orders.Log
	publisher  events.Publisher
	logger     *zap.Logger
}

func NewService(cart CartAccess, notifier OrderNotifier, storePhone string, log orders.Log, publisher events.Publisher, logger *zap.Logger) *Service {
	return &Service{
		cart:       cart,
		notifier:   notifier,
		storePhone: storePhone,
		flow:       NewFlow(),
		log:        log,
		publisher:  publisher,
		logger:     logger,
	}
}

func (s *Service) Flow() *Flow {
	return s.flow
}

// Back returns the flow to unselected so the other channel can be
// chosen, e.g. after a failed send attempt.
func (s *Service) Back() error {
	return s.flow.Back()
}

// Cancel abandons the current attempt. The cart is kept.
func (s *Service) Cancel() error {
	return s.flow.Cancel()
}

// SubmitEmail runs the notification-endpoint mode end to end. Customer
// validation happens before the mode is selected, so a rejected input
// leaves the flow untouched and the other channel stays reachable. On
// a send failure the cart is untouched and the flow stays on the
// selected mode so the attempt can be retried.
func (s *Service) SubmitEmail(ctx context.Context, customer Customer) error {
	cart := s.cart.Snapshot()
	if len(cart.Items) == 0 {
		return ErrEmptyCart
	}
	if !PlausibleEmail(customer.Email) {
		return ErrInvalidEmail
	}

	if err := s.flow.Select(ModeEmail); err != nil {
		return err
	}
	order := ComposeOrder(cart, customer)

	if err := s.notifier.Send(ctx, order); err != nil {
		return err
	}

	if err := s.flow.submit(ModeEmail); err != nil {
		return err
	}

	if err := s.cart.Clear(ctx); err != nil {
		// The order went out; a failed clear is logged, not surfaced.
		s.logger.Error("failed to clear cart after checkout", zap.Error(err))
	}

	s.finish(ctx, order, string(ModeEmail))
	return nil
}

// WhatsAppLink runs the messaging deep-link mode: it validates the
// customer before touching the flow, renders the summary and returns
// the pre-addressed link. There is no server round-trip and no
// confirmation, so the cart is kept; the caller clears it explicitly
// if desired.
func (s *Service) WhatsAppLink(ctx context.Context, customer Customer) (string, error) {
	cart := s.cart.Snapshot()
	if len(cart.Items) == 0 {
		return "", ErrEmptyCart
	}
	if !validDisplayName(customer.Name) {
		return "", ErrNameTooShort
	}

	if err := s.flow.Select(ModeWhatsApp); err != nil {
		return "", err
	}
	order := ComposeOrder(cart, customer)

	link, err := WhatsAppLink(s.storePhone, order)
	if err != nil {
		return "", err
	}

	if err := s.flow.submit(ModeWhatsApp); err != nil {
		return "", err
	}

	s.finish(ctx, order, string(ModeWhatsApp))
	return link, nil
}

// finish records the submitted order and emits the event. Both are
// best effort; the checkout already succeeded.
func (s *Service) finish(ctx context.Context, order Order, channel string) {
	orderID, err := s.log.Record(ctx, orders.Record{
		Channel:      channel,
		Email:        order.Customer.Email,
		ClientName:   order.Customer.Name,
		ClientPhone:  order.Customer.Phone,
		Observations: order.Customer.Observations,
		Total:        order.Total,
		Lines:        order.Lines,
	})
	if err != nil {
		s.logger.Error("failed to record order", zap.Error(err))
	}

	event := events.OrderSubmitted{
		OrderID:     orderID,
		Channel:     channel,
		Total:       order.Total,
		LineCount:   len(order.Lines),
		SubmittedAt: time.Now(),
	}
	if err := s.publisher.PublishOrderSubmitted(ctx, event); err != nil {
		s.logger.Error("failed to publish order event", zap.Error(err))
	}
}
