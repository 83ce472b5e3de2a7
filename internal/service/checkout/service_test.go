package checkout

import (
	"context"
	"errors"
	"io"
	"log"
	"testing"

	"weetzen-shop/internal/domain"
	cartrepo "weetzen-shop/internal/repository/cart"
	cartsvc "weetzen-shop/internal/service/cart"
	ordersvc "weetzen-shop/internal/service/order"
	"weetzen-shop/internal/service/payment"
)

type stubProducts struct{}

func (stubProducts) GetByID(_ context.Context, id string) (*domain.Product, error) {
	switch id {
	case "p-reh":
		return &domain.Product{ID: "p-reh", Name: "Rehrücken", PriceCents: 2490, StockQuantity: 12, Active: true}, nil
	case "p-sal":
		return &domain.Product{ID: "p-sal", Name: "Wildsalami", PriceCents: 890, StockQuantity: 30, Active: true}, nil
	}
	return nil, domain.ErrNotFound
}

type stubProcessor struct {
	lastInput *ordersvc.ProcessInput
	err       error
	calls     int
}

func (s *stubProcessor) Process(_ context.Context, in ordersvc.ProcessInput) (*ordersvc.Result, error) {
	s.calls++
	s.lastInput = &in
	if s.err != nil {
		return nil, s.err
	}
	return &ordersvc.Result{
		Order: &domain.Order{
			ID:            "order-1",
			UserID:        in.UserID,
			TotalCents:    in.TotalCents,
			PaymentMethod: in.PaymentMethod,
			PaymentStatus: in.PaymentStatus,
		},
		IsGuestOrder: in.UserID == nil,
	}, nil
}

type stubIntents struct {
	lastAmount   int64
	lastCurrency string
	lastMetadata map[string]string
	calls        int
}

func (s *stubIntents) CreateIntent(_ context.Context, amountCents int64, currency string, metadata map[string]string) (*payment.Intent, error) {
	s.calls++
	s.lastAmount = amountCents
	s.lastCurrency = currency
	s.lastMetadata = metadata
	return &payment.Intent{ID: "pi_test", ClientSecret: "pi_test_secret"}, nil
}

type testEnv struct {
	svc     *Service
	carts   *cartsvc.Service
	orders  *stubProcessor
	intents *stubIntents
}

func discardLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func newTestEnv() testEnv {
	carts := cartsvc.New(cartrepo.NewMemory(), cartrepo.NewMemory(), stubProducts{}, nil)
	orders := &stubProcessor{}
	intents := &stubIntents{}
	return testEnv{
		svc:     &Service{carts: carts, orders: orders, intents: intents, logger: discardLogger()},
		carts:   carts,
		orders:  orders,
		intents: intents,
	}
}

func contact() domain.CustomerInfo {
	return domain.CustomerInfo{FullName: "Max Jäger", Email: "max@example.de", Phone: "05101 123456"}
}

func TestCreatePaymentIntentEmptyCart(t *testing.T) {
	env := newTestEnv()

	if _, err := env.svc.CreatePaymentIntent(context.Background(), "user-1", nil); !errors.Is(err, ErrEmptyCart) {
		t.Fatalf("expected ErrEmptyCart, got %v", err)
	}
	if env.intents.calls != 0 {
		t.Fatalf("expected no intent created, got %d", env.intents.calls)
	}
}

func TestCreatePaymentIntentUsesCartTotal(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()
	member := cartsvc.Owner{ID: "user-1"}

	if _, err := env.carts.Add(ctx, member, "p-reh", 2); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if _, err := env.carts.Add(ctx, member, "p-sal", 1); err != nil {
		t.Fatalf("Add: %v", err)
	}

	intent, err := env.svc.CreatePaymentIntent(ctx, "user-1", map[string]string{"source": "web"})
	if err != nil {
		t.Fatalf("CreatePaymentIntent: %v", err)
	}
	if intent.ClientSecret == "" {
		t.Fatal("expected a client secret")
	}
	if env.intents.lastAmount != 2*2490+890 {
		t.Fatalf("unexpected amount %d", env.intents.lastAmount)
	}
	if env.intents.lastCurrency != "eur" {
		t.Fatalf("unexpected currency %q", env.intents.lastCurrency)
	}
	if env.intents.lastMetadata["user_id"] != "user-1" || env.intents.lastMetadata["source"] != "web" {
		t.Fatalf("unexpected metadata %v", env.intents.lastMetadata)
	}
}

func TestConfirmCardRequiresIntentID(t *testing.T) {
	env := newTestEnv()

	if _, err := env.svc.ConfirmCard(context.Background(), "user-1", "  ", "", contact()); err == nil {
		t.Fatal("expected error for missing payment intent id")
	}
	if env.orders.calls != 0 {
		t.Fatalf("expected no order processing, got %d calls", env.orders.calls)
	}
}

func TestConfirmCardRecordsOrderAndClearsCart(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()
	member := cartsvc.Owner{ID: "user-1"}

	if _, err := env.carts.Add(ctx, member, "p-reh", 2); err != nil {
		t.Fatalf("Add: %v", err)
	}

	res, err := env.svc.ConfirmCard(ctx, "user-1", "pi_test", "req-1", contact())
	if err != nil {
		t.Fatalf("ConfirmCard: %v", err)
	}
	if res.Order.ID != "order-1" {
		t.Fatalf("unexpected order %+v", res.Order)
	}

	in := env.orders.lastInput
	if in.PaymentMethod != domain.PaymentMethodCard || in.PaymentStatus != domain.PaymentStatusCompleted {
		t.Fatalf("unexpected payment fields %q/%q", in.PaymentMethod, in.PaymentStatus)
	}
	if in.PaymentIntentID != "pi_test" || in.RequestID != "req-1" {
		t.Fatalf("unexpected input %+v", in)
	}
	if in.UserID == nil || *in.UserID != "user-1" {
		t.Fatalf("expected member order, got %+v", in.UserID)
	}
	if in.TotalCents != 4980 {
		t.Fatalf("unexpected total %d", in.TotalCents)
	}

	items, err := env.carts.Load(ctx, member)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("expected cleared cart, got %d items", len(items))
	}
}

func TestConfirmCardRecordingFailureKeepsCart(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()
	member := cartsvc.Owner{ID: "user-1"}

	if _, err := env.carts.Add(ctx, member, "p-reh", 2); err != nil {
		t.Fatalf("Add: %v", err)
	}

	cause := errors.New("insert failed")
	env.orders.err = cause

	_, err := env.svc.ConfirmCard(ctx, "user-1", "pi_test", "req-1", contact())
	if !errors.Is(err, ErrOrderRecording) {
		t.Fatalf("expected ErrOrderRecording, got %v", err)
	}
	if !errors.Is(err, cause) {
		t.Fatalf("expected wrapped cause, got %v", err)
	}

	items, loadErr := env.carts.Load(ctx, member)
	if loadErr != nil {
		t.Fatalf("Load: %v", loadErr)
	}
	if len(items) != 1 {
		t.Fatalf("expected cart left intact for reconciliation, got %d items", len(items))
	}
}

func TestCashRequiresContact(t *testing.T) {
	env := newTestEnv()
	owner := cartsvc.Owner{ID: "guest-1", Guest: true}

	info := contact()
	info.Phone = " "
	if _, err := env.svc.Cash(context.Background(), owner, "", info); !errors.Is(err, ErrMissingContact) {
		t.Fatalf("expected ErrMissingContact, got %v", err)
	}
	if env.orders.calls != 0 {
		t.Fatalf("expected no order processing, got %d calls", env.orders.calls)
	}
}

func TestCashEmptyCart(t *testing.T) {
	env := newTestEnv()
	owner := cartsvc.Owner{ID: "guest-1", Guest: true}

	if _, err := env.svc.Cash(context.Background(), owner, "", contact()); !errors.Is(err, ErrEmptyCart) {
		t.Fatalf("expected ErrEmptyCart, got %v", err)
	}
}

func TestCashGuestOrder(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()
	owner := cartsvc.Owner{ID: "guest-1", Guest: true}

	if _, err := env.carts.Add(ctx, owner, "p-sal", 3); err != nil {
		t.Fatalf("Add: %v", err)
	}

	res, err := env.svc.Cash(ctx, owner, "req-9", contact())
	if err != nil {
		t.Fatalf("Cash: %v", err)
	}
	if !res.IsGuestOrder {
		t.Fatal("expected guest order")
	}

	in := env.orders.lastInput
	if in.UserID != nil {
		t.Fatalf("expected no user id on guest order, got %v", *in.UserID)
	}
	if in.PaymentMethod != domain.PaymentMethodCash || in.PaymentStatus != domain.PaymentStatusPending {
		t.Fatalf("unexpected payment fields %q/%q", in.PaymentMethod, in.PaymentStatus)
	}
	if in.TotalCents != 3*890 {
		t.Fatalf("unexpected total %d", in.TotalCents)
	}

	items, err := env.carts.Load(ctx, owner)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("expected cleared guest cart, got %d items", len(items))
	}
}

func TestCashMemberOrderCarriesUserID(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()
	owner := cartsvc.Owner{ID: "user-1"}

	if _, err := env.carts.Add(ctx, owner, "p-reh", 1); err != nil {
		t.Fatalf("Add: %v", err)
	}

	if _, err := env.svc.Cash(ctx, owner, "", contact()); err != nil {
		t.Fatalf("Cash: %v", err)
	}
	in := env.orders.lastInput
	if in.UserID == nil || *in.UserID != "user-1" {
		t.Fatalf("expected user id on member order, got %+v", in.UserID)
	}
}
