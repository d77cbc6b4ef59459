package repositories

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Madhav-Gupta-28/market-mate-backend-go/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemoryStore keeps every collection in maps behind a single lock, so compound writes
// such as placing an order are atomic.
type MemoryStore struct {
	mu       sync.RWMutex
	users    map[primitive.ObjectID]models.User
	products map[primitive.ObjectID]models.Product
	orders   map[primitive.ObjectID]models.Order
	carousel *models.Carousel
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:    make(map[primitive.ObjectID]models.User),
		products: make(map[primitive.ObjectID]models.Product),
		orders:   make(map[primitive.ObjectID]models.Order),
	}
}

func (s *MemoryStore) Users() *MemoryUserRepository       { return &MemoryUserRepository{s} }
func (s *MemoryStore) Products() *MemoryProductRepository { return &MemoryProductRepository{s} }
func (s *MemoryStore) Orders() *MemoryOrderRepository     { return &MemoryOrderRepository{s} }
func (s *MemoryStore) Carousel() *MemoryCarouselRepository {
	return &MemoryCarouselRepository{s}
}

// MemoryUserRepository is an in-memory implementation of UserRepository.
type MemoryUserRepository struct {
	s *MemoryStore
}

func (r *MemoryUserRepository) Create(ctx context.Context, user *models.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.users {
		if existing.Email == user.Email {
			return fmt.Errorf("email %s: %w", user.Email, ErrDuplicate)
		}
	}
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	r.s.users[user.ID] = cloneUser(*user)
	return nil
}

func (r *MemoryUserRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	user, ok := r.s.users[id]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", id.Hex(), ErrNotFound)
	}
	out := cloneUser(user)
	return &out, nil
}

func (r *MemoryUserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, user := range r.s.users {
		if user.Email == email {
			out := cloneUser(user)
			return &out, nil
		}
	}
	return nil, fmt.Errorf("user %s: %w", email, ErrNotFound)
}

func (r *MemoryUserRepository) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	users := make([]models.User, 0, len(ids))
	seen := make(map[primitive.ObjectID]bool, len(ids))
	for _, id := range ids {
		if user, ok := r.s.users[id]; ok && !seen[id] {
			seen[id] = true
			users = append(users, cloneUser(user))
		}
	}
	return users, nil
}

func (r *MemoryUserRepository) List(ctx context.Context) ([]models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	users := make([]models.User, 0, len(r.s.users))
	for _, user := range r.s.users {
		users = append(users, cloneUser(user))
	}
	sort.Slice(users, func(i, j int) bool { return users[i].CreatedAt.After(users[j].CreatedAt) })
	return users, nil
}

func (r *MemoryUserRepository) UpdateProfile(ctx context.Context, id primitive.ObjectID, update ProfileUpdate) error {
	return r.mutate(id, func(user *models.User) error {
		if update.Email != nil {
			for otherID, other := range r.s.users {
				if otherID != id && other.Email == *update.Email {
					return fmt.Errorf("email %s: %w", *update.Email, ErrDuplicate)
				}
			}
			user.Email = *update.Email
		}
		if update.Name != nil {
			user.Name = *update.Name
		}
		if update.PasswordHash != nil {
			user.Password = *update.PasswordHash
		}
		return nil
	})
}

func (r *MemoryUserRepository) SetCompany(ctx context.Context, id primitive.ObjectID, company models.Company) error {
	return r.mutate(id, func(user *models.User) error {
		user.Company = &company
		user.IsSeller = true
		return nil
	})
}

func (r *MemoryUserRepository) SaveAddresses(ctx context.Context, id primitive.ObjectID, version int64, addresses []models.Address) error {
	return r.mutate(id, func(user *models.User) error {
		if user.Version != version {
			return ErrConflict
		}
		user.Addresses = append([]models.Address(nil), addresses...)
		return nil
	})
}

func (r *MemoryUserRepository) AddToCart(ctx context.Context, id, productID primitive.ObjectID) error {
	return r.mutate(id, func(user *models.User) error {
		if !user.InCart(productID) {
			user.Cart = append(user.Cart, productID)
		}
		return nil
	})
}

func (r *MemoryUserRepository) RemoveFromCart(ctx context.Context, id, productID primitive.ObjectID) error {
	return r.mutate(id, func(user *models.User) error {
		var ok bool
		user.Cart, ok = removeID(user.Cart, productID)
		if !ok {
			return fmt.Errorf("product %s in cart: %w", productID.Hex(), ErrNotFound)
		}
		return nil
	})
}

func (r *MemoryUserRepository) AddToWishlist(ctx context.Context, id, productID primitive.ObjectID) error {
	return r.mutate(id, func(user *models.User) error {
		if !user.InWishlist(productID) {
			user.Wishlist = append(user.Wishlist, productID)
		}
		return nil
	})
}

func (r *MemoryUserRepository) RemoveFromWishlist(ctx context.Context, id, productID primitive.ObjectID) error {
	return r.mutate(id, func(user *models.User) error {
		var ok bool
		user.Wishlist, ok = removeID(user.Wishlist, productID)
		if !ok {
			return fmt.Errorf("product %s in wishlist: %w", productID.Hex(), ErrNotFound)
		}
		return nil
	})
}

func (r *MemoryUserRepository) AddSellingProduct(ctx context.Context, id, productID primitive.ObjectID) error {
	return r.mutate(id, func(user *models.User) error {
		if !user.Sells(productID) {
			user.SellingProducts = append(user.SellingProducts, productID)
		}
		return nil
	})
}

func (r *MemoryUserRepository) RemoveSellingProduct(ctx context.Context, id, productID primitive.ObjectID) error {
	return r.mutate(id, func(user *models.User) error {
		user.SellingProducts, _ = removeID(user.SellingProducts, productID)
		return nil
	})
}

// mutate applies fn to a copy of the user and stores it with a bumped version when fn
// succeeds.
func (r *MemoryUserRepository) mutate(id primitive.ObjectID, fn func(user *models.User) error) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stored, ok := r.s.users[id]
	if !ok {
		return fmt.Errorf("user %s: %w", id.Hex(), ErrNotFound)
	}
	user := cloneUser(stored)
	if err := fn(&user); err != nil {
		return err
	}
	user.Version++
	user.UpdatedAt = time.Now()
	r.s.users[id] = user
	return nil
}

// MemoryProductRepository is an in-memory implementation of ProductRepository.
type MemoryProductRepository struct {
	s *MemoryStore
}

func (r *MemoryProductRepository) Create(ctx context.Context, product *models.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if product.ID.IsZero() {
		product.ID = primitive.NewObjectID()
	}
	if _, exists := r.s.products[product.ID]; exists {
		return fmt.Errorf("product %s: %w", product.ID.Hex(), ErrDuplicate)
	}
	r.s.products[product.ID] = cloneProduct(*product)
	return nil
}

func (r *MemoryProductRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	product, ok := r.s.products[id]
	if !ok {
		return nil, fmt.Errorf("product %s: %w", id.Hex(), ErrNotFound)
	}
	out := cloneProduct(product)
	return &out, nil
}

func (r *MemoryProductRepository) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	products := make([]models.Product, 0, len(ids))
	seen := make(map[primitive.ObjectID]bool, len(ids))
	for _, id := range ids {
		if product, ok := r.s.products[id]; ok && !seen[id] {
			seen[id] = true
			products = append(products, cloneProduct(product))
		}
	}
	return products, nil
}

func (r *MemoryProductRepository) FindByOwner(ctx context.Context, owner primitive.ObjectID) ([]models.Product, error) {
	return r.collect(func(p *models.Product) bool { return p.Owner == owner }), nil
}

func (r *MemoryProductRepository) List(ctx context.Context) ([]models.Product, error) {
	return r.collect(func(*models.Product) bool { return true }), nil
}

func (r *MemoryProductRepository) Filter(ctx context.Context, filter models.ProductFilter) ([]models.Product, error) {
	return r.collect(filter.Matches), nil
}

func (r *MemoryProductRepository) Search(ctx context.Context, query string) ([]models.Product, error) {
	query = strings.TrimSpace(query)
	return r.collect(func(p *models.Product) bool { return models.MatchesSearch(p, query) }), nil
}

func (r *MemoryProductRepository) Update(ctx context.Context, product *models.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stored, ok := r.s.products[product.ID]
	if !ok {
		return fmt.Errorf("product %s: %w", product.ID.Hex(), ErrNotFound)
	}
	if stored.Version != product.Version {
		return ErrConflict
	}

	updated := cloneProduct(*product)
	updated.Owner = stored.Owner
	updated.Reviews = stored.Reviews
	updated.AverageRating = stored.AverageRating
	updated.CreatedAt = stored.CreatedAt
	updated.Version = stored.Version + 1
	r.s.products[product.ID] = updated
	product.Version = updated.Version
	return nil
}

func (r *MemoryProductRepository) SaveReviews(ctx context.Context, id primitive.ObjectID, version int64, reviews []models.Review, average float64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stored, ok := r.s.products[id]
	if !ok {
		return fmt.Errorf("product %s: %w", id.Hex(), ErrNotFound)
	}
	if stored.Version != version {
		return ErrConflict
	}
	stored.Reviews = append([]models.Review(nil), reviews...)
	stored.AverageRating = average
	stored.Version++
	stored.UpdatedAt = time.Now()
	r.s.products[id] = stored
	return nil
}

func (r *MemoryProductRepository) Delete(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	product, ok := r.s.products[id]
	if !ok {
		return nil, fmt.Errorf("product %s: %w", id.Hex(), ErrNotFound)
	}
	delete(r.s.products, id)
	return &product, nil
}

// collect returns matching products, newest first.
func (r *MemoryProductRepository) collect(match func(*models.Product) bool) []models.Product {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	products := make([]models.Product, 0)
	for _, product := range r.s.products {
		p := product
		if match(&p) {
			products = append(products, cloneProduct(p))
		}
	}
	sort.SliceStable(products, func(i, j int) bool { return products[i].CreatedAt.After(products[j].CreatedAt) })
	return products
}

// MemoryOrderRepository is an in-memory implementation of OrderRepository.
type MemoryOrderRepository struct {
	s *MemoryStore
}

func (r *MemoryOrderRepository) Place(ctx context.Context, order *models.Order) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	user, ok := r.s.users[order.User]
	if !ok {
		return fmt.Errorf("user %s: %w", order.User.Hex(), ErrNotFound)
	}
	if order.ID.IsZero() {
		order.ID = primitive.NewObjectID()
	}

	r.s.orders[order.ID] = cloneOrder(*order)
	for _, id := range order.ProductIDs() {
		user.Cart, _ = removeID(user.Cart, id)
	}
	if user.Cart == nil {
		user.Cart = []primitive.ObjectID{}
	}
	user.Version++
	user.UpdatedAt = order.CreatedAt
	r.s.users[user.ID] = user
	return nil
}

func (r *MemoryOrderRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Order, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	order, ok := r.s.orders[id]
	if !ok {
		return nil, fmt.Errorf("order %s: %w", id.Hex(), ErrNotFound)
	}
	out := cloneOrder(order)
	return &out, nil
}

func (r *MemoryOrderRepository) FindByUser(ctx context.Context, user primitive.ObjectID) ([]models.Order, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	orders := make([]models.Order, 0)
	for _, order := range r.s.orders {
		if order.User == user {
			orders = append(orders, cloneOrder(order))
		}
	}
	sort.Slice(orders, func(i, j int) bool { return orders[i].CreatedAt.After(orders[j].CreatedAt) })
	return orders, nil
}

func (r *MemoryOrderRepository) UpdateStatus(ctx context.Context, id primitive.ObjectID, from, to models.OrderStatus, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	order, ok := r.s.orders[id]
	if !ok {
		return fmt.Errorf("order %s: %w", id.Hex(), ErrNotFound)
	}
	if order.OrderStatus != from {
		return ErrConflict
	}
	if err := order.Transition(to, at); err != nil {
		return err
	}
	r.s.orders[id] = order
	return nil
}

// MemoryCarouselRepository is an in-memory implementation of CarouselRepository.
type MemoryCarouselRepository struct {
	s *MemoryStore
}

func (r *MemoryCarouselRepository) Get(ctx context.Context) (*models.Carousel, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	if r.s.carousel == nil {
		return nil, fmt.Errorf("carousel: %w", ErrNotFound)
	}
	out := cloneCarousel(*r.s.carousel)
	return &out, nil
}

func (r *MemoryCarouselRepository) Create(ctx context.Context, carousel *models.Carousel) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if r.s.carousel != nil {
		return fmt.Errorf("carousel: %w", ErrDuplicate)
	}
	if carousel.ID.IsZero() {
		carousel.ID = primitive.NewObjectID()
	}
	stored := cloneCarousel(*carousel)
	r.s.carousel = &stored
	return nil
}

func (r *MemoryCarouselRepository) Replace(ctx context.Context, carousel *models.Carousel) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if r.s.carousel == nil || r.s.carousel.ID != carousel.ID {
		return fmt.Errorf("carousel %s: %w", carousel.ID.Hex(), ErrNotFound)
	}
	if r.s.carousel.Version != carousel.Version {
		return ErrConflict
	}
	carousel.Version++
	stored := cloneCarousel(*carousel)
	r.s.carousel = &stored
	return nil
}

func (r *MemoryCarouselRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if r.s.carousel == nil || r.s.carousel.ID != id {
		return fmt.Errorf("carousel %s: %w", id.Hex(), ErrNotFound)
	}
	r.s.carousel = nil
	return nil
}

func cloneUser(u models.User) models.User {
	u.Cart = append([]primitive.ObjectID(nil), u.Cart...)
	u.Wishlist = append([]primitive.ObjectID(nil), u.Wishlist...)
	u.SellingProducts = append([]primitive.ObjectID(nil), u.SellingProducts...)
	u.Addresses = append([]models.Address(nil), u.Addresses...)
	if u.Company != nil {
		company := *u.Company
		u.Company = &company
	}
	return u
}

func cloneProduct(p models.Product) models.Product {
	p.Specs = append([]models.Spec(nil), p.Specs...)
	p.Offers = append([]models.Offer(nil), p.Offers...)
	p.Reviews = append([]models.Review(nil), p.Reviews...)
	return p
}

func cloneOrder(o models.Order) models.Order {
	o.Products = append([]models.OrderProduct(nil), o.Products...)
	return o
}

func cloneCarousel(c models.Carousel) models.Carousel {
	c.Items = append([]models.CarouselItem(nil), c.Items...)
	return c
}

func removeID(ids []primitive.ObjectID, id primitive.ObjectID) ([]primitive.ObjectID, bool) {
	out := make([]primitive.ObjectID, 0, len(ids))
	found := false
	for _, candidate := range ids {
		if candidate == id {
			found = true
			continue
		}
		out = append(out, candidate)
	}
	return out, found
}
