package cart

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strconv"
	"time"

	"retroshop/internal/domain"
	"github.com/redis/go-redis/v9"
)

var (
	// ErrInvalidQuantity rejects non-positive add quantities.
	ErrInvalidQuantity = errors.New("quantity must be a positive integer")
	// ErrInsufficientStock rejects mutations whose resulting quantity
	// would exceed current stock.
	ErrInsufficientStock = errors.New("insufficient stock")
)

const countCacheTTL = 30 * time.Second

type cartRepo interface {
	GetOrCreate(ctx context.Context, userID string) (*domain.Cart, error)
	GetWithItems(ctx context.Context, userID string) (*domain.Cart, error)
	GetItemForUser(ctx context.Context, userID, itemID string) (*domain.CartItem, error)
	SetItemQuantity(ctx context.Context, cartID, productID string, quantity int) error
	UpdateItemQuantity(ctx context.Context, itemID string, quantity int) error
	DeleteItem(ctx context.Context, itemID string) error
	ClearByUser(ctx context.Context, userID string) error
	CountByUser(ctx context.Context, userID string) (int, error)
}

type productRepo interface {
	GetByID(ctx context.Context, id string) (*domain.Product, error)
}

type Service struct {
	repo        cartRepo
	productRepo productRepo
	redisClient *redis.Client
	logger      *log.Logger
}

func New(repo cartRepo, productRepo productRepo, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Service{repo: repo, productRepo: productRepo, logger: logger}
}

// SetRedisClient enables the badge-count cache. The service works without it.
func (s *Service) SetRedisClient(client *redis.Client) {
	s.redisClient = client
}

// View is the cart snapshot handed to the HTTP layer. All money is
// serialized as fixed-point decimal strings.
type View struct {
	ID        string     `json:"id"`
	Items     []ItemView `json:"items"`
	Subtotal  string     `json:"subtotal"`
	ItemCount int        `json:"itemCount"`
}

type ItemView struct {
	ID            string `json:"id"`
	ProductID     string `json:"productId"`
	Name          string `json:"name"`
	Slug          string `json:"slug"`
	Price         string `json:"price"`
	OriginalPrice string `json:"originalPrice"`
	Quantity      int    `json:"quantity"`
	LineTotal     string `json:"lineTotal"`
	Stock         int    `json:"stock"`
}

// GetCartWithItems returns the full cart snapshot, or (nil, nil) when the
// user has no cart yet. Callers treat nil as an empty cart.
func (s *Service) GetCartWithItems(ctx context.Context, userID string) (*View, error) {
	cart, err := s.repo.GetWithItems(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil
		}
		s.logger.Printf("cart: get user=%s error=%v", userID, err)
		return nil, err
	}
	return viewOf(cart), nil
}

// AddToCart adds quantity of a product, merging onto an existing line.
// The resulting total quantity must not exceed current stock.
func (s *Service) AddToCart(ctx context.Context, userID, productID string, quantity int) (*View, error) {
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	cart, err := s.repo.GetOrCreate(ctx, userID)
	if err != nil {
		s.logger.Printf("cart: get-or-create user=%s error=%v", userID, err)
		return nil, err
	}

	newQty := quantity
	if existing := findItem(ctx, s, userID, cart.ID, productID); existing != nil {
		newQty += existing.Quantity
	}
	if newQty > product.Stock {
		return nil, ErrInsufficientStock
	}

	if err := s.repo.SetItemQuantity(ctx, cart.ID, productID, newQty); err != nil {
		s.logger.Printf("cart: set item user=%s product=%s error=%v", userID, productID, err)
		return nil, err
	}
	s.invalidateCount(ctx, userID)

	return s.GetCartWithItems(ctx, userID)
}

// UpdateCartItemQuantity sets an exact quantity on an owned line item.
// Zero or negative quantities remove the line.
func (s *Service) UpdateCartItemQuantity(ctx context.Context, userID, itemID string, quantity int) (*View, error) {
	item, err := s.repo.GetItemForUser(ctx, userID, itemID)
	if err != nil {
		return nil, err
	}

	if quantity <= 0 {
		if err := s.repo.DeleteItem(ctx, item.ID); err != nil {
			return nil, err
		}
		s.invalidateCount(ctx, userID)
		return s.GetCartWithItems(ctx, userID)
	}

	product, err := s.productRepo.GetByID(ctx, item.ProductID)
	if err != nil {
		return nil, err
	}
	if quantity > product.Stock {
		return nil, ErrInsufficientStock
	}

	if err := s.repo.UpdateItemQuantity(ctx, item.ID, quantity); err != nil {
		return nil, err
	}
	s.invalidateCount(ctx, userID)

	return s.GetCartWithItems(ctx, userID)
}

// RemoveFromCart deletes an owned line item.
func (s *Service) RemoveFromCart(ctx context.Context, userID, itemID string) (*View, error) {
	item, err := s.repo.GetItemForUser(ctx, userID, itemID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.DeleteItem(ctx, item.ID); err != nil {
		return nil, err
	}
	s.invalidateCount(ctx, userID)

	return s.GetCartWithItems(ctx, userID)
}

// ClearCart removes every line item. A missing cart is already empty.
func (s *Service) ClearCart(ctx context.Context, userID string) error {
	if err := s.repo.ClearByUser(ctx, userID); err != nil {
		s.logger.Printf("cart: clear user=%s error=%v", userID, err)
		return err
	}
	s.invalidateCount(ctx, userID)
	return nil
}

// GetCartItemCount returns the badge count. It never fails: any error
// degrades to zero.
func (s *Service) GetCartItemCount(ctx context.Context, userID string) int {
	if count, ok := s.cachedCount(ctx, userID); ok {
		return count
	}

	count, err := s.repo.CountByUser(ctx, userID)
	if err != nil {
		s.logger.Printf("cart: count user=%s error=%v", userID, err)
		return 0
	}
	s.storeCount(ctx, userID, count)
	return count
}

func findItem(ctx context.Context, s *Service, userID, cartID, productID string) *domain.CartItem {
	cart, err := s.repo.GetWithItems(ctx, userID)
	if err != nil {
		return nil
	}
	for i := range cart.Items {
		if cart.Items[i].ProductID == productID {
			return &cart.Items[i]
		}
	}
	return nil
}

func countKey(userID string) string {
	return fmt.Sprintf("cart:count:%s", userID)
}

func (s *Service) cachedCount(ctx context.Context, userID string) (int, bool) {
	if s.redisClient == nil {
		return 0, false
	}
	raw, err := s.redisClient.Get(ctx, countKey(userID)).Result()
	if err != nil {
		return 0, false
	}
	count, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return count, true
}

func (s *Service) storeCount(ctx context.Context, userID string, count int) {
	if s.redisClient == nil {
		return
	}
	s.redisClient.Set(ctx, countKey(userID), count, countCacheTTL)
}

func (s *Service) invalidateCount(ctx context.Context, userID string) {
	if s.redisClient == nil {
		return
	}
	s.redisClient.Del(ctx, countKey(userID))
}

func viewOf(cart *domain.Cart) *View {
	view := &View{
		ID:        cart.ID,
		Items:     make([]ItemView, 0, len(cart.Items)),
		Subtotal:  domain.FormatCents(cart.SubtotalCents()),
		ItemCount: cart.ItemCount(),
	}
	for _, item := range cart.Items {
		iv := ItemView{
			ID:        item.ID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			LineTotal: domain.FormatCents(item.LineTotalCents()),
		}
		if item.Product != nil {
			iv.Name = item.Product.Name
			iv.Slug = item.Product.Slug
			iv.Price = item.Product.Price()
			iv.OriginalPrice = item.Product.OriginalPrice()
			iv.Stock = item.Product.Stock
		}
		view.Items = append(view.Items, iv)
	}
	return view
}
