package cart

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"retroshop/internal/domain"
)

type fakeCartRepo struct {
	cartID string
	userID string
	items  map[string]*domain.CartItem // keyed by item ID
	nextID int

	failCount bool
}

func newFakeCartRepo(userID string) *fakeCartRepo {
	return &fakeCartRepo{
		cartID: "cart-1",
		userID: userID,
		items:  map[string]*domain.CartItem{},
	}
}

func (f *fakeCartRepo) GetOrCreate(ctx context.Context, userID string) (*domain.Cart, error) {
	if userID != f.userID {
		return nil, errors.New("unexpected user")
	}
	return &domain.Cart{ID: f.cartID, UserID: userID}, nil
}

func (f *fakeCartRepo) GetWithItems(ctx context.Context, userID string) (*domain.Cart, error) {
	if userID != f.userID {
		return nil, domain.ErrNotFound
	}
	cart := &domain.Cart{ID: f.cartID, UserID: userID}
	for _, item := range f.items {
		cart.Items = append(cart.Items, *item)
	}
	return cart, nil
}

func (f *fakeCartRepo) GetItemForUser(ctx context.Context, userID, itemID string) (*domain.CartItem, error) {
	if userID != f.userID {
		return nil, domain.ErrNotFound
	}
	item, ok := f.items[itemID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	copied := *item
	return &copied, nil
}

func (f *fakeCartRepo) SetItemQuantity(ctx context.Context, cartID, productID string, quantity int) error {
	for _, item := range f.items {
		if item.ProductID == productID {
			item.Quantity = quantity
			return nil
		}
	}
	f.nextID++
	id := fmt.Sprintf("item-%d", f.nextID)
	f.items[id] = &domain.CartItem{ID: id, CartID: cartID, ProductID: productID, Quantity: quantity}
	return nil
}

func (f *fakeCartRepo) UpdateItemQuantity(ctx context.Context, itemID string, quantity int) error {
	item, ok := f.items[itemID]
	if !ok {
		return domain.ErrNotFound
	}
	item.Quantity = quantity
	return nil
}

func (f *fakeCartRepo) DeleteItem(ctx context.Context, itemID string) error {
	delete(f.items, itemID)
	return nil
}

func (f *fakeCartRepo) ClearByUser(ctx context.Context, userID string) error {
	f.items = map[string]*domain.CartItem{}
	return nil
}

func (f *fakeCartRepo) CountByUser(ctx context.Context, userID string) (int, error) {
	if f.failCount {
		return 0, errors.New("db down")
	}
	count := 0
	for _, item := range f.items {
		count += item.Quantity
	}
	return count, nil
}

type stubProductRepo struct {
	products map[string]*domain.Product
}

func (s *stubProductRepo) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	product, ok := s.products[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	copied := *product
	return &copied, nil
}

func testProducts() *stubProductRepo {
	return &stubProductRepo{products: map[string]*domain.Product{
		"p1": {ID: "p1", Slug: "commodore-64", Name: "Commodore 64", PriceCents: 19999, OriginalPriceCents: 24999, Stock: 5},
		"p2": {ID: "p2", Slug: "zx-spectrum-48k", Name: "ZX Spectrum 48K", PriceCents: 9950, OriginalPriceCents: 9950, Stock: 2},
	}}
}

func TestAddToCartRejectsNonPositiveQuantity(t *testing.T) {
	svc := New(newFakeCartRepo("u1"), testProducts(), nil)

	for _, qty := range []int{0, -1} {
		if _, err := svc.AddToCart(context.Background(), "u1", "p1", qty); !errors.Is(err, ErrInvalidQuantity) {
			t.Fatalf("qty %d: expected ErrInvalidQuantity, got %v", qty, err)
		}
	}
}

func TestAddToCartUnknownProduct(t *testing.T) {
	svc := New(newFakeCartRepo("u1"), testProducts(), nil)

	if _, err := svc.AddToCart(context.Background(), "u1", "missing", 1); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestAddToCartMergesLines(t *testing.T) {
	repo := newFakeCartRepo("u1")
	svc := New(repo, testProducts(), nil)
	ctx := context.Background()

	if _, err := svc.AddToCart(ctx, "u1", "p1", 2); err != nil {
		t.Fatalf("first add: %v", err)
	}
	view, err := svc.AddToCart(ctx, "u1", "p1", 3)
	if err != nil {
		t.Fatalf("second add: %v", err)
	}

	if len(view.Items) != 1 {
		t.Fatalf("expected a single merged line, got %d", len(view.Items))
	}
	if view.Items[0].Quantity != 5 {
		t.Fatalf("expected merged quantity 5, got %d", view.Items[0].Quantity)
	}
}

func TestAddToCartStockCeiling(t *testing.T) {
	repo := newFakeCartRepo("u1")
	svc := New(repo, testProducts(), nil)
	ctx := context.Background()

	if _, err := svc.AddToCart(ctx, "u1", "p2", 2); err != nil {
		t.Fatalf("add up to stock: %v", err)
	}
	if _, err := svc.AddToCart(ctx, "u1", "p2", 1); !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock, got %v", err)
	}

	// The rejected add must not have changed the line.
	view, err := svc.GetCartWithItems(ctx, "u1")
	if err != nil {
		t.Fatalf("get cart: %v", err)
	}
	if view.Items[0].Quantity != 2 {
		t.Fatalf("expected quantity to stay 2, got %d", view.Items[0].Quantity)
	}
}

func TestUpdateCartItemQuantityOwnership(t *testing.T) {
	repo := newFakeCartRepo("u1")
	svc := New(repo, testProducts(), nil)
	ctx := context.Background()

	if _, err := svc.AddToCart(ctx, "u1", "p1", 1); err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := svc.UpdateCartItemQuantity(ctx, "other-user", "item-1", 2); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for foreign user, got %v", err)
	}
}

func TestUpdateCartItemQuantityZeroDeletes(t *testing.T) {
	repo := newFakeCartRepo("u1")
	svc := New(repo, testProducts(), nil)
	ctx := context.Background()

	if _, err := svc.AddToCart(ctx, "u1", "p1", 2); err != nil {
		t.Fatalf("add: %v", err)
	}
	view, err := svc.UpdateCartItemQuantity(ctx, "u1", "item-1", 0)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if len(view.Items) != 0 {
		t.Fatalf("expected empty cart, got %d items", len(view.Items))
	}
}

func TestUpdateCartItemQuantityStockCeiling(t *testing.T) {
	repo := newFakeCartRepo("u1")
	svc := New(repo, testProducts(), nil)
	ctx := context.Background()

	if _, err := svc.AddToCart(ctx, "u1", "p2", 1); err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := svc.UpdateCartItemQuantity(ctx, "u1", "item-1", 3); !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock, got %v", err)
	}
}

func TestRemoveFromCart(t *testing.T) {
	repo := newFakeCartRepo("u1")
	svc := New(repo, testProducts(), nil)
	ctx := context.Background()

	if _, err := svc.AddToCart(ctx, "u1", "p1", 1); err != nil {
		t.Fatalf("add: %v", err)
	}
	view, err := svc.RemoveFromCart(ctx, "u1", "item-1")
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	if len(view.Items) != 0 {
		t.Fatalf("expected empty cart, got %d items", len(view.Items))
	}

	if _, err := svc.RemoveFromCart(ctx, "u1", "item-1"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for deleted item, got %v", err)
	}
}

func TestGetCartWithItemsNoCart(t *testing.T) {
	svc := New(newFakeCartRepo("u1"), testProducts(), nil)

	view, err := svc.GetCartWithItems(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if view != nil {
		t.Fatalf("expected nil view for missing cart, got %+v", view)
	}
}

func TestGetCartItemCountDegradesToZero(t *testing.T) {
	repo := newFakeCartRepo("u1")
	repo.failCount = true
	svc := New(repo, testProducts(), nil)

	if count := svc.GetCartItemCount(context.Background(), "u1"); count != 0 {
		t.Fatalf("expected 0 on repo failure, got %d", count)
	}
}

func TestViewMoneyFormatting(t *testing.T) {
	product := &domain.Product{ID: "p1", Name: "Commodore 64", PriceCents: 19999, OriginalPriceCents: 24999, Stock: 5}
	cart := &domain.Cart{
		ID: "cart-1",
		Items: []domain.CartItem{
			{ID: "item-1", ProductID: "p1", Quantity: 2, Product: product},
		},
	}

	view := viewOf(cart)
	if view.Subtotal != "399.98" {
		t.Fatalf("subtotal = %q, want 399.98", view.Subtotal)
	}
	if view.Items[0].LineTotal != "399.98" {
		t.Fatalf("line total = %q, want 399.98", view.Items[0].LineTotal)
	}
	if view.Items[0].Price != "199.99" || view.Items[0].OriginalPrice != "249.99" {
		t.Fatalf("prices = %q / %q", view.Items[0].Price, view.Items[0].OriginalPrice)
	}
	if view.ItemCount != 2 {
		t.Fatalf("item count = %d, want 2", view.ItemCount)
	}
}
