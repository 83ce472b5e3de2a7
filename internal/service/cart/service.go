package cart

import (
	"context"
	"errors"
	"io"
	"log"

	"weetzen-shop/internal/domain"
	cartrepo "weetzen-shop/internal/repository/cart"
	"github.com/google/uuid"
)

var (
	// ErrInvalidQuantity is returned when an add asks for a non-positive quantity.
	ErrInvalidQuantity = errors.New("quantity must be positive")
	// ErrProductUnavailable is returned when the referenced product cannot be
	// resolved; the cart is left untouched.
	ErrProductUnavailable = errors.New("product unavailable")
)

// Owner identifies whose cart an operation targets: a signed-in user or a
// guest holding a server-issued guest id.
type Owner struct {
	ID    string
	Guest bool
}

type productRepo interface {
	GetByID(ctx context.Context, id string) (*domain.Product, error)
}

// Service presents one cart abstraction over the member (postgres) and guest
// (memory) stores. Adds read the existing line and submit the incremented
// quantity, so both stores end up with identical add semantics.
type Service struct {
	members  cartrepo.Store
	guests   cartrepo.Store
	products productRepo
	logger   *log.Logger
}

func New(members, guests cartrepo.Store, products productRepo, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Service{members: members, guests: guests, products: products, logger: logger}
}

// NewGuestID issues an identity for a guest cart.
func NewGuestID() string {
	return uuid.NewString()
}

func (s *Service) store(owner Owner) cartrepo.Store {
	if owner.Guest {
		return s.guests
	}
	return s.members
}

// Load returns the owner's current cart lines. An owner without a cart gets
// an empty slice, never an error page.
func (s *Service) Load(ctx context.Context, owner Owner) ([]domain.CartItem, error) {
	items, err := s.store(owner).Load(ctx, owner.ID)
	if err != nil {
		s.logger.Printf("cart: load owner=%s guest=%t error=%v", owner.ID, owner.Guest, err)
		return nil, err
	}
	return items, nil
}

// Add resolves the product once and sets the line to existing+quantity. A
// failed product lookup aborts without touching the cart.
func (s *Service) Add(ctx context.Context, owner Owner, productID string, quantity int) ([]domain.CartItem, error) {
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}
	product, err := s.products.GetByID(ctx, productID)
	if err != nil {
		s.logger.Printf("cart: add owner=%s product=%s lookup error=%v", owner.ID, productID, err)
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrProductUnavailable
		}
		return nil, err
	}

	store := s.store(owner)
	newQty := quantity
	existing, err := store.Get(ctx, owner.ID, productID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		newQty = existing.Quantity + quantity
	}

	if _, err := store.Upsert(ctx, owner.ID, productID, newQty, snapshotFromProduct(*product)); err != nil {
		s.logger.Printf("cart: add owner=%s product=%s error=%v", owner.ID, productID, err)
		return nil, err
	}
	return store.Load(ctx, owner.ID)
}

// UpdateQuantity overwrites the stored quantity; zero or less removes the line.
func (s *Service) UpdateQuantity(ctx context.Context, owner Owner, productID string, quantity int) ([]domain.CartItem, error) {
	if quantity <= 0 {
		return s.Remove(ctx, owner, productID)
	}

	store := s.store(owner)
	existing, err := store.Get(ctx, owner.ID, productID)
	if err != nil {
		return nil, err
	}
	if _, err := store.Upsert(ctx, owner.ID, productID, quantity, existing.Product); err != nil {
		s.logger.Printf("cart: update owner=%s product=%s error=%v", owner.ID, productID, err)
		return nil, err
	}
	return store.Load(ctx, owner.ID)
}

// Remove deletes the line from whichever store owns the cart.
func (s *Service) Remove(ctx context.Context, owner Owner, productID string) ([]domain.CartItem, error) {
	store := s.store(owner)
	if err := store.Remove(ctx, owner.ID, productID); err != nil && !errors.Is(err, domain.ErrNotFound) {
		s.logger.Printf("cart: remove owner=%s product=%s error=%v", owner.ID, productID, err)
		return nil, err
	}
	return store.Load(ctx, owner.ID)
}

// Clear empties the owner's cart.
func (s *Service) Clear(ctx context.Context, owner Owner) error {
	if err := s.store(owner).Clear(ctx, owner.ID); err != nil {
		s.logger.Printf("cart: clear owner=%s guest=%t error=%v", owner.ID, owner.Guest, err)
		return err
	}
	return nil
}

// Merge folds a guest cart into a member cart line by line and discards the
// guest cart afterwards. Called when a guest with cart items signs in.
func (s *Service) Merge(ctx context.Context, guestID, userID string) ([]domain.CartItem, error) {
	guestItems, err := s.guests.Load(ctx, guestID)
	if err != nil {
		return nil, err
	}

	for _, item := range guestItems {
		newQty := item.Quantity
		existing, err := s.members.Get(ctx, userID, item.ProductID)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		if existing != nil {
			newQty = existing.Quantity + item.Quantity
		}
		if _, err := s.members.Upsert(ctx, userID, item.ProductID, newQty, item.Product); err != nil {
			s.logger.Printf("cart: merge guest=%s user=%s product=%s error=%v", guestID, userID, item.ProductID, err)
			return nil, err
		}
	}

	if err := s.guests.Clear(ctx, guestID); err != nil {
		s.logger.Printf("cart: merge clear guest=%s error=%v", guestID, err)
	}
	return s.members.Load(ctx, userID)
}

func snapshotFromProduct(p domain.Product) domain.ProductSnapshot {
	return domain.ProductSnapshot{
		ID:            p.ID,
		Name:          p.Name,
		PriceCents:    p.PriceCents,
		ImageURL:      p.ImageURL,
		StockQuantity: p.StockQuantity,
	}
}
