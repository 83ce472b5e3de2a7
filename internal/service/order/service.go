package order

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"weetzen-shop/internal/domain"
	orderrepo "weetzen-shop/internal/repository/order"
	profilerepo "weetzen-shop/internal/repository/profile"
)

// ErrInvalidInput covers rejected submissions: empty items, missing total or
// missing customer info. Nothing is written in that case.
var ErrInvalidInput = errors.New("invalid order input")

type orderRepository interface {
	CreateWithItems(ctx context.Context, in orderrepo.CreateInput) (*domain.Order, error)
	GetByRequestID(ctx context.Context, requestID string) (*domain.Order, error)
}

type profileRepository interface {
	Patch(ctx context.Context, userID string, in profilerepo.PatchInput) error
}

// Service turns a validated cart into a persisted order, line items and stock
// adjustments in one transaction, with idempotent replay on request id.
type Service struct {
	orders   orderRepository
	profiles profileRepository
	logger   *log.Logger
}

func New(orders orderrepo.Repository, profiles profilerepo.Repository, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Service{orders: orders, profiles: profiles, logger: logger}
}

type ProcessInput struct {
	UserID          *string
	RequestID       string
	Items           []domain.CartItem
	TotalCents      int64
	CustomerInfo    domain.CustomerInfo
	PaymentMethod   string
	PaymentStatus   string
	PaymentIntentID string
}

type PickupInfo struct {
	Status  string `json:"status"`
	Payment string `json:"payment"`
	Total   string `json:"total"`
}

type Result struct {
	Order        *domain.Order
	Message      string
	IsGuestOrder bool
	PickupInfo   *PickupInfo
	Replayed     bool
}

// Process validates the submission, records order + items + stock decrements
// transactionally and best-effort syncs the buyer's profile afterwards.
// Resubmitting the same request id returns the original order instead of
// creating a second one.
func (s *Service) Process(ctx context.Context, in ProcessInput) (*Result, error) {
	if len(in.Items) == 0 {
		return nil, fmt.Errorf("%w: items required", ErrInvalidInput)
	}
	if in.TotalCents <= 0 {
		return nil, fmt.Errorf("%w: total amount required", ErrInvalidInput)
	}
	if in.CustomerInfo == (domain.CustomerInfo{}) {
		return nil, fmt.Errorf("%w: customer info required", ErrInvalidInput)
	}
	if in.PaymentMethod == "" {
		in.PaymentMethod = domain.PaymentMethodCard
	}
	if in.PaymentStatus == "" {
		in.PaymentStatus = domain.PaymentStatusCompleted
	}

	if in.RequestID != "" {
		if existing, err := s.orders.GetByRequestID(ctx, in.RequestID); err == nil {
			s.logger.Printf("order: replay request_id=%s order=%s", in.RequestID, existing.ID)
			return s.result(existing, true), nil
		} else if !errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
	}

	status := domain.OrderStatusConfirmed
	if in.PaymentMethod == domain.PaymentMethodCash {
		status = domain.OrderStatusPending
	}

	createIn := orderrepo.CreateInput{
		UserID:          in.UserID,
		TotalCents:      in.TotalCents,
		Status:          status,
		PaymentMethod:   in.PaymentMethod,
		PaymentStatus:   in.PaymentStatus,
		PaymentIntentID: in.PaymentIntentID,
		CustomerInfo:    in.CustomerInfo,
		DecrementStock:  in.PaymentStatus == domain.PaymentStatusCompleted || in.PaymentMethod == domain.PaymentMethodCash,
	}
	if in.RequestID != "" {
		createIn.RequestID = &in.RequestID
	}
	for _, item := range in.Items {
		createIn.Items = append(createIn.Items, orderrepo.CreateItemInput{
			ProductID:  item.ProductID,
			Quantity:   item.Quantity,
			PriceCents: item.Product.PriceCents,
		})
	}

	created, err := s.orders.CreateWithItems(ctx, createIn)
	if err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) && in.RequestID != "" {
			// Lost a race against a concurrent submission of the same request.
			if existing, lookupErr := s.orders.GetByRequestID(ctx, in.RequestID); lookupErr == nil {
				return s.result(existing, true), nil
			}
		}
		return nil, err
	}

	if in.UserID != nil && s.profiles != nil {
		info := in.CustomerInfo
		if info.FullName != "" || info.Phone != "" || info.Address != "" {
			if err := s.profiles.Patch(ctx, *in.UserID, profilerepo.PatchInput{
				FullName: info.FullName,
				Phone:    info.Phone,
				Address:  info.Address,
			}); err != nil {
				s.logger.Printf("order: profile patch user=%s error=%v", *in.UserID, err)
			}
		}
	}

	return s.result(created, false), nil
}

func (s *Service) result(o *domain.Order, replayed bool) *Result {
	res := &Result{
		Order:        o,
		IsGuestOrder: o.UserID == nil,
		Replayed:     replayed,
	}
	if o.PaymentMethod == domain.PaymentMethodCash {
		res.Message = "Bestellung erfolgreich erstellt. Barzahlung bei Abholung."
		res.PickupInfo = &PickupInfo{
			Status:  "Bereit zur Abholung nach Bestätigung",
			Payment: "Bar bei Abholung",
			Total:   FormatEuros(o.TotalCents),
		}
	} else {
		res.Message = "Bestellung erfolgreich verarbeitet."
	}
	return res
}

// FormatEuros renders cents as a euro amount, e.g. "€49.80".
func FormatEuros(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s€%d.%02d", sign, cents/100, cents%100)
}

// ValidStatus reports whether the given value is a known order status.
func ValidStatus(status string) bool {
	switch strings.TrimSpace(status) {
	case domain.OrderStatusPending, domain.OrderStatusConfirmed, domain.OrderStatusShipped,
		domain.OrderStatusDelivered, domain.OrderStatusCancelled:
		return true
	}
	return false
}
