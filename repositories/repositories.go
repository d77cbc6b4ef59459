// Package repositories persists users, products, orders and the carousel.
//
// Every store comes in two flavours: a MongoDB implementation used in production and an
// in-memory implementation used by tests and by STORE=memory.
package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/Madhav-Gupta-28/market-mate-backend-go/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrNotFound  = errors.New("document not found")
	ErrDuplicate = errors.New("duplicate document")
	// ErrConflict means the document changed since it was read.
	ErrConflict = errors.New("document modified concurrently")
)

// ProfileUpdate holds the profile fields to overwrite; nil fields are left as they are.
type ProfileUpdate struct {
	Name         *string
	Email        *string
	PasswordHash *string
}

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error)
	List(ctx context.Context) ([]models.User, error)
	UpdateProfile(ctx context.Context, id primitive.ObjectID, update ProfileUpdate) error
	// SetCompany stores the company profile and marks the user as a seller.
	SetCompany(ctx context.Context, id primitive.ObjectID, company models.Company) error
	// SaveAddresses replaces the address list if the user is still at version.
	SaveAddresses(ctx context.Context, id primitive.ObjectID, version int64, addresses []models.Address) error
	// AddToCart is a no-op when the product is already in the cart.
	AddToCart(ctx context.Context, id, productID primitive.ObjectID) error
	// RemoveFromCart returns ErrNotFound when the product is not in the cart.
	RemoveFromCart(ctx context.Context, id, productID primitive.ObjectID) error
	AddToWishlist(ctx context.Context, id, productID primitive.ObjectID) error
	RemoveFromWishlist(ctx context.Context, id, productID primitive.ObjectID) error
	AddSellingProduct(ctx context.Context, id, productID primitive.ObjectID) error
	RemoveSellingProduct(ctx context.Context, id, productID primitive.ObjectID) error
}

type ProductRepository interface {
	Create(ctx context.Context, product *models.Product) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error)
	// FindByIDs returns the products that still exist, in no particular order.
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Product, error)
	FindByOwner(ctx context.Context, owner primitive.ObjectID) ([]models.Product, error)
	List(ctx context.Context) ([]models.Product, error)
	Filter(ctx context.Context, filter models.ProductFilter) ([]models.Product, error)
	// Search returns products matching query, newest first.
	Search(ctx context.Context, query string) ([]models.Product, error)
	// Update writes the editable listing fields if the product is still at product.Version.
	Update(ctx context.Context, product *models.Product) error
	// SaveReviews writes the review list and its average together if the product is
	// still at version.
	SaveReviews(ctx context.Context, id primitive.ObjectID, version int64, reviews []models.Review, average float64) error
	Delete(ctx context.Context, id primitive.ObjectID) (*models.Product, error)
}

type OrderRepository interface {
	// Place stores order and empties its owner's cart as one unit.
	Place(ctx context.Context, order *models.Order) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Order, error)
	// FindByUser returns the user's orders, newest first.
	FindByUser(ctx context.Context, user primitive.ObjectID) ([]models.Order, error)
	// UpdateStatus moves the order from one status to another. It returns ErrConflict
	// when the order is no longer in status from.
	UpdateStatus(ctx context.Context, id primitive.ObjectID, from, to models.OrderStatus, at time.Time) error
}

type CarouselRepository interface {
	Get(ctx context.Context) (*models.Carousel, error)
	// Create returns ErrDuplicate when a carousel already exists.
	Create(ctx context.Context, carousel *models.Carousel) error
	// Replace writes carousel if the stored one is still at carousel.Version and bumps
	// the version; ErrConflict otherwise.
	Replace(ctx context.Context, carousel *models.Carousel) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}
