package domain

import "time"

// Order status lifecycle: pending -> confirmed -> shipped -> delivered, with
// cancelled reachable from any non-terminal state.
const (
	OrderStatusPending   = "pending"
	OrderStatusConfirmed = "confirmed"
	OrderStatusShipped   = "shipped"
	OrderStatusDelivered = "delivered"
	OrderStatusCancelled = "cancelled"
)

const (
	PaymentMethodCard = "card"
	PaymentMethodCash = "cash"
)

const (
	PaymentStatusPending   = "pending"
	PaymentStatusCompleted = "completed"
)

type Order struct {
	ID              string       `json:"id"`
	UserID          *string      `json:"userId,omitempty"`
	RequestID       *string      `json:"-"`
	TotalCents      int64        `json:"totalCents"`
	Status          string       `json:"status"`
	PaymentMethod   string       `json:"paymentMethod"`
	PaymentStatus   string       `json:"paymentStatus"`
	PaymentIntentID string       `json:"paymentIntentId,omitempty"`
	CustomerInfo    CustomerInfo `json:"customerInfo"`
	CreatedAt       time.Time    `json:"createdAt"`
	Items           []OrderItem  `json:"items,omitempty"`
}

type OrderItem struct {
	ID          string `json:"id"`
	OrderID     string `json:"orderId"`
	ProductID   string `json:"productId"`
	ProductName string `json:"productName,omitempty"`
	Quantity    int    `json:"quantity"`
	PriceCents  int64  `json:"priceCents"`
}

// CustomerInfo is the free-form buyer snapshot captured at checkout. It is
// stored on the order and never re-read from the profile.
type CustomerInfo struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Address  string `json:"address,omitempty"`
}

// CanTransition reports whether an admin may move an order from one status to
// another. Cancelled and delivered are terminal.
func CanTransition(from, to string) bool {
	if from == to {
		return false
	}
	switch from {
	case OrderStatusPending:
		return to == OrderStatusConfirmed || to == OrderStatusCancelled
	case OrderStatusConfirmed:
		return to == OrderStatusShipped || to == OrderStatusCancelled
	case OrderStatusShipped:
		return to == OrderStatusDelivered || to == OrderStatusCancelled
	default:
		return false
	}
}
