package cart

import (
	"context"
	"errors"
	"testing"

	"weetzen-shop/internal/domain"
	cartrepo "weetzen-shop/internal/repository/cart"
)

type stubProductRepo struct {
	products map[string]domain.Product
	lastID   string
	calls    int
}

func (s *stubProductRepo) GetByID(_ context.Context, id string) (*domain.Product, error) {
	s.lastID = id
	s.calls++
	p, ok := s.products[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &p, nil
}

func newTestService() (*Service, *stubProductRepo) {
	products := &stubProductRepo{products: map[string]domain.Product{
		"p-reh": {ID: "p-reh", Name: "Rehrücken", PriceCents: 2490, StockQuantity: 12, Active: true},
		"p-sal": {ID: "p-sal", Name: "Wildsalami", PriceCents: 890, StockQuantity: 30, Active: true},
	}}
	// Both owner kinds run against the in-memory store here so the same engine
	// behavior can be asserted for members and guests alike.
	svc := New(cartrepo.NewMemory(), cartrepo.NewMemory(), products, nil)
	return svc, products
}

func testOwners() []Owner {
	return []Owner{
		{ID: "user-1", Guest: false},
		{ID: "guest-1", Guest: true},
	}
}

func TestAddCreatesSingleLine(t *testing.T) {
	ctx := context.Background()
	for _, owner := range testOwners() {
		svc, products := newTestService()

		items, err := svc.Add(ctx, owner, "p-reh", 2)
		if err != nil {
			t.Fatalf("guest=%t: Add: %v", owner.Guest, err)
		}
		if len(items) != 1 {
			t.Fatalf("guest=%t: expected 1 line, got %d", owner.Guest, len(items))
		}
		if items[0].Quantity != 2 || items[0].Product.Name != "Rehrücken" {
			t.Fatalf("guest=%t: unexpected line %+v", owner.Guest, items[0])
		}
		if products.lastID != "p-reh" {
			t.Fatalf("guest=%t: expected product lookup for p-reh, got %q", owner.Guest, products.lastID)
		}
	}
}

func TestAddIncrementsExistingLine(t *testing.T) {
	ctx := context.Background()
	for _, owner := range testOwners() {
		svc, _ := newTestService()

		if _, err := svc.Add(ctx, owner, "p-reh", 2); err != nil {
			t.Fatalf("guest=%t: first Add: %v", owner.Guest, err)
		}
		items, err := svc.Add(ctx, owner, "p-reh", 3)
		if err != nil {
			t.Fatalf("guest=%t: second Add: %v", owner.Guest, err)
		}
		if len(items) != 1 {
			t.Fatalf("guest=%t: expected a single merged line, got %d", owner.Guest, len(items))
		}
		if items[0].Quantity != 5 {
			t.Fatalf("guest=%t: expected quantity 5, got %d", owner.Guest, items[0].Quantity)
		}
	}
}

func TestAddRejectsInvalidQuantity(t *testing.T) {
	ctx := context.Background()
	svc, products := newTestService()
	owner := Owner{ID: "user-1"}

	if _, err := svc.Add(ctx, owner, "p-reh", 0); !errors.Is(err, ErrInvalidQuantity) {
		t.Fatalf("expected ErrInvalidQuantity, got %v", err)
	}
	if products.calls != 0 {
		t.Fatalf("expected no product lookup, got %d", products.calls)
	}
}

func TestAddUnknownProductLeavesCartUntouched(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()
	owner := Owner{ID: "user-1"}

	if _, err := svc.Add(ctx, owner, "p-gone", 1); !errors.Is(err, ErrProductUnavailable) {
		t.Fatalf("expected ErrProductUnavailable, got %v", err)
	}
	items, err := svc.Load(ctx, owner)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("expected untouched empty cart, got %d items", len(items))
	}
}

func TestUpdateQuantityZeroRemovesLine(t *testing.T) {
	ctx := context.Background()
	for _, owner := range testOwners() {
		svc, _ := newTestService()

		if _, err := svc.Add(ctx, owner, "p-reh", 2); err != nil {
			t.Fatalf("guest=%t: Add: %v", owner.Guest, err)
		}
		items, err := svc.UpdateQuantity(ctx, owner, "p-reh", 0)
		if err != nil {
			t.Fatalf("guest=%t: UpdateQuantity: %v", owner.Guest, err)
		}
		if len(items) != 0 {
			t.Fatalf("guest=%t: expected empty cart, got %d items", owner.Guest, len(items))
		}
	}
}

func TestUpdateQuantityOverwrites(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()
	owner := Owner{ID: "guest-1", Guest: true}

	if _, err := svc.Add(ctx, owner, "p-sal", 4); err != nil {
		t.Fatalf("Add: %v", err)
	}
	items, err := svc.UpdateQuantity(ctx, owner, "p-sal", 1)
	if err != nil {
		t.Fatalf("UpdateQuantity: %v", err)
	}
	if len(items) != 1 || items[0].Quantity != 1 {
		t.Fatalf("expected one line with quantity 1, got %+v", items)
	}
}

func TestCartTotalsFoldOverLines(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()
	owner := Owner{ID: "user-1"}

	if _, err := svc.Add(ctx, owner, "p-reh", 2); err != nil {
		t.Fatalf("Add: %v", err)
	}
	items, err := svc.Add(ctx, owner, "p-sal", 3)
	if err != nil {
		t.Fatalf("Add: %v", err)
	}

	wantCents := int64(2*2490 + 3*890)
	if got := domain.TotalCents(items); got != wantCents {
		t.Fatalf("expected total %d cents, got %d", wantCents, got)
	}
	if got := domain.TotalQuantity(items); got != 5 {
		t.Fatalf("expected 5 units, got %d", got)
	}
}

func TestClearThenLoadEmpty(t *testing.T) {
	ctx := context.Background()
	for _, owner := range testOwners() {
		svc, _ := newTestService()

		if _, err := svc.Add(ctx, owner, "p-reh", 1); err != nil {
			t.Fatalf("guest=%t: Add: %v", owner.Guest, err)
		}
		if err := svc.Clear(ctx, owner); err != nil {
			t.Fatalf("guest=%t: Clear: %v", owner.Guest, err)
		}
		items, err := svc.Load(ctx, owner)
		if err != nil {
			t.Fatalf("guest=%t: Load: %v", owner.Guest, err)
		}
		if len(items) != 0 {
			t.Fatalf("guest=%t: expected empty cart, got %d items", owner.Guest, len(items))
		}
	}
}

func TestMergeFoldsGuestCartIntoMemberCart(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()
	guest := Owner{ID: "guest-1", Guest: true}
	member := Owner{ID: "user-1"}

	if _, err := svc.Add(ctx, member, "p-reh", 1); err != nil {
		t.Fatalf("member Add: %v", err)
	}
	if _, err := svc.Add(ctx, guest, "p-reh", 2); err != nil {
		t.Fatalf("guest Add: %v", err)
	}
	if _, err := svc.Add(ctx, guest, "p-sal", 3); err != nil {
		t.Fatalf("guest Add: %v", err)
	}

	items, err := svc.Merge(ctx, guest.ID, member.ID)
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 merged lines, got %d", len(items))
	}
	byProduct := make(map[string]int, len(items))
	for _, it := range items {
		byProduct[it.ProductID] = it.Quantity
	}
	if byProduct["p-reh"] != 3 || byProduct["p-sal"] != 3 {
		t.Fatalf("unexpected merged quantities %+v", byProduct)
	}

	guestItems, err := svc.Load(ctx, guest)
	if err != nil {
		t.Fatalf("guest Load: %v", err)
	}
	if len(guestItems) != 0 {
		t.Fatalf("expected guest cart cleared after merge, got %d items", len(guestItems))
	}
}
