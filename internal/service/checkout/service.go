package checkout

import (
	"context"
	"errors"
	"io"
	"log"
	"strings"

	"weetzen-shop/internal/domain"
	cartsvc "weetzen-shop/internal/service/cart"
	ordersvc "weetzen-shop/internal/service/order"
	"weetzen-shop/internal/service/payment"
)

var (
	// ErrEmptyCart gates both payment paths on a non-empty cart.
	ErrEmptyCart = errors.New("cart is empty")
	// ErrMissingContact is returned when required contact fields are absent.
	ErrMissingContact = errors.New("name, email and phone are required")
	// ErrOrderRecording marks the partial-completion case: the charge went
	// through but the order could not be recorded. The cart is left intact
	// and staff must reconcile manually.
	ErrOrderRecording = errors.New("payment succeeded but order recording failed")
)

type orderProcessor interface {
	Process(ctx context.Context, in ordersvc.ProcessInput) (*ordersvc.Result, error)
}

// Service converts a cart plus buyer-entered data into a persisted order via
// the card or the cash path.
type Service struct {
	carts   *cartsvc.Service
	orders  orderProcessor
	intents payment.IntentClient
	logger  *log.Logger
}

func New(carts *cartsvc.Service, orders *ordersvc.Service, intents payment.IntentClient, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Service{carts: carts, orders: orders, intents: intents, logger: logger}
}

// CreatePaymentIntent starts the card path: a payment intent over the current
// cart total. Aborts before any card details are collected when the cart is
// empty or the processor rejects the amount.
func (s *Service) CreatePaymentIntent(ctx context.Context, userID string, metadata map[string]string) (*payment.Intent, error) {
	items, err := s.carts.Load(ctx, cartsvc.Owner{ID: userID})
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}

	if metadata == nil {
		metadata = map[string]string{}
	}
	metadata["user_id"] = userID

	return s.intents.CreateIntent(ctx, domain.TotalCents(items), "eur", metadata)
}

// ConfirmCard records the order after the hosted widget confirmed the payment.
// On recording failure the cart is NOT cleared and the caller gets the
// distinct ErrOrderRecording warning instead of a generic failure.
func (s *Service) ConfirmCard(ctx context.Context, userID, paymentIntentID, requestID string, info domain.CustomerInfo) (*ordersvc.Result, error) {
	if strings.TrimSpace(paymentIntentID) == "" {
		return nil, errors.New("payment_intent_id required")
	}

	items, err := s.carts.Load(ctx, cartsvc.Owner{ID: userID})
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}

	res, err := s.orders.Process(ctx, ordersvc.ProcessInput{
		UserID:          &userID,
		RequestID:       requestID,
		Items:           items,
		TotalCents:      domain.TotalCents(items),
		CustomerInfo:    info,
		PaymentMethod:   domain.PaymentMethodCard,
		PaymentStatus:   domain.PaymentStatusCompleted,
		PaymentIntentID: paymentIntentID,
	})
	if err != nil {
		s.logger.Printf("checkout: card order recording user=%s intent=%s error=%v", userID, paymentIntentID, err)
		return nil, errors.Join(ErrOrderRecording, err)
	}

	if err := s.carts.Clear(ctx, cartsvc.Owner{ID: userID}); err != nil {
		s.logger.Printf("checkout: clear cart user=%s error=%v", userID, err)
	}
	return res, nil
}

// Cash runs the cash-on-pickup path for guests and members alike. The order
// stays pending/unpaid until staff settle it at pickup.
func (s *Service) Cash(ctx context.Context, owner cartsvc.Owner, requestID string, info domain.CustomerInfo) (*ordersvc.Result, error) {
	if strings.TrimSpace(info.FullName) == "" || strings.TrimSpace(info.Email) == "" || strings.TrimSpace(info.Phone) == "" {
		return nil, ErrMissingContact
	}

	items, err := s.carts.Load(ctx, owner)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}

	in := ordersvc.ProcessInput{
		RequestID:     requestID,
		Items:         items,
		TotalCents:    domain.TotalCents(items),
		CustomerInfo:  info,
		PaymentMethod: domain.PaymentMethodCash,
		PaymentStatus: domain.PaymentStatusPending,
	}
	if !owner.Guest {
		in.UserID = &owner.ID
	}

	res, err := s.orders.Process(ctx, in)
	if err != nil {
		return nil, err
	}

	if err := s.carts.Clear(ctx, owner); err != nil {
		s.logger.Printf("checkout: clear cart owner=%s guest=%t error=%v", owner.ID, owner.Guest, err)
	}
	return res, nil
}
