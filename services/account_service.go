package services

import (
	"context"
	"errors"
	"strings"

	"github.com/Madhav-Gupta-28/market-mate-backend-go/apperror"
	"github.com/Madhav-Gupta-28/market-mate-backend-go/models"
	"github.com/Madhav-Gupta-28/market-mate-backend-go/repositories"
	"github.com/Madhav-Gupta-28/market-mate-backend-go/validation"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type AddressInput struct {
	Phone     string `json:"phone" form:"phone" validate:"required"`
	Street    string `json:"street" form:"street" validate:"required"`
	City      string `json:"city" form:"city" validate:"required"`
	State     string `json:"state" form:"state" validate:"required"`
	Pincode   string `json:"pincode" form:"pincode" validate:"required"`
	IsDefault bool   `json:"isDefault" form:"isDefault"`
}

type CompanyInput struct {
	Name        string `json:"name" form:"name" validate:"required"`
	Description string `json:"description" form:"description" validate:"required"`
	Address     string `json:"address" form:"address" validate:"required"`
}

// AccountService manages what an account owns: addresses, cart, wishlist and its
// seller profile.
type AccountService struct {
	users    repositories.UserRepository
	products repositories.ProductRepository
}

func NewAccountService(users repositories.UserRepository, products repositories.ProductRepository) *AccountService {
	return &AccountService{users: users, products: products}
}

func (s *AccountService) Addresses(ctx context.Context, p models.Principal) ([]models.Address, error) {
	user, err := s.users.FindByID(ctx, p.ID)
	if err != nil {
		return nil, storeError(ctx, err, "User not found")
	}
	if user.Addresses == nil {
		return []models.Address{}, nil
	}
	return user.Addresses, nil
}

func (s *AccountService) AddAddress(ctx context.Context, p models.Principal, in AddressInput) ([]models.Address, error) {
	in.Phone = strings.TrimSpace(in.Phone)
	in.Street = strings.TrimSpace(in.Street)
	in.City = strings.TrimSpace(in.City)
	in.State = strings.TrimSpace(in.State)
	in.Pincode = strings.TrimSpace(in.Pincode)
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	addr := models.Address{
		ID:        primitive.NewObjectID(),
		Phone:     in.Phone,
		Street:    in.Street,
		City:      in.City,
		State:     in.State,
		Pincode:   in.Pincode,
		IsDefault: in.IsDefault,
	}
	return s.mutateAddresses(ctx, p, func(list []models.Address) ([]models.Address, error) {
		return models.AddAddress(list, addr), nil
	})
}

func (s *AccountService) RemoveAddress(ctx context.Context, p models.Principal, id primitive.ObjectID) ([]models.Address, error) {
	return s.mutateAddresses(ctx, p, func(list []models.Address) ([]models.Address, error) {
		out, ok := models.RemoveAddress(list, id)
		if !ok {
			return nil, apperror.NotFound("Address not found")
		}
		return out, nil
	})
}

func (s *AccountService) SetDefaultAddress(ctx context.Context, p models.Principal, id primitive.ObjectID) ([]models.Address, error) {
	return s.mutateAddresses(ctx, p, func(list []models.Address) ([]models.Address, error) {
		out, ok := models.SetDefaultAddress(list, id)
		if !ok {
			return nil, apperror.NotFound("Address not found")
		}
		return out, nil
	})
}

// mutateAddresses applies fn to the stored list and saves the result against the
// version it was read at, re-reading on a concurrent change.
func (s *AccountService) mutateAddresses(ctx context.Context, p models.Principal, fn func([]models.Address) ([]models.Address, error)) ([]models.Address, error) {
	var saved []models.Address
	err := retryOnConflict(func() error {
		user, err := s.users.FindByID(ctx, p.ID)
		if err != nil {
			return err
		}
		next, err := fn(user.Addresses)
		if err != nil {
			return err
		}
		if err := s.users.SaveAddresses(ctx, user.ID, user.Version, next); err != nil {
			return err
		}
		saved = next
		return nil
	})
	if err != nil {
		return nil, storeError(ctx, err, "User not found")
	}
	return saved, nil
}

// AddToCart adds a product to the cart; adding a product already there changes nothing.
func (s *AccountService) AddToCart(ctx context.Context, p models.Principal, productID primitive.ObjectID) error {
	if _, err := s.products.FindByID(ctx, productID); err != nil {
		return storeError(ctx, err, "Product not found")
	}
	return storeError(ctx, s.users.AddToCart(ctx, p.ID, productID), "User not found")
}

func (s *AccountService) RemoveFromCart(ctx context.Context, p models.Principal, productID primitive.ObjectID) error {
	return storeError(ctx, s.users.RemoveFromCart(ctx, p.ID, productID), "Product not in cart")
}

// CartProducts lists the products in the cart in the order they were added. Products
// deleted since are skipped.
func (s *AccountService) CartProducts(ctx context.Context, p models.Principal) ([]models.ProductSummary, error) {
	user, err := s.users.FindByID(ctx, p.ID)
	if err != nil {
		return nil, storeError(ctx, err, "User not found")
	}
	return s.resolve(ctx, user.Cart)
}

// ToggleWishlist adds the product to the wishlist, or removes it when already present.
// added reports which happened.
func (s *AccountService) ToggleWishlist(ctx context.Context, p models.Principal, productID primitive.ObjectID) (added bool, err error) {
	user, err := s.users.FindByID(ctx, p.ID)
	if err != nil {
		return false, storeError(ctx, err, "User not found")
	}

	if user.InWishlist(productID) {
		err := s.users.RemoveFromWishlist(ctx, p.ID, productID)
		if err != nil && !errors.Is(err, repositories.ErrNotFound) {
			return false, storeError(ctx, err, "User not found")
		}
		return false, nil
	}

	if _, err := s.products.FindByID(ctx, productID); err != nil {
		return false, storeError(ctx, err, "Product not found")
	}
	if err := s.users.AddToWishlist(ctx, p.ID, productID); err != nil {
		return false, storeError(ctx, err, "User not found")
	}
	return true, nil
}

func (s *AccountService) RemoveFromWishlist(ctx context.Context, p models.Principal, productID primitive.ObjectID) error {
	return storeError(ctx, s.users.RemoveFromWishlist(ctx, p.ID, productID), "Product not in wishlist")
}

func (s *AccountService) WishlistProducts(ctx context.Context, p models.Principal) ([]models.ProductSummary, error) {
	user, err := s.users.FindByID(ctx, p.ID)
	if err != nil {
		return nil, storeError(ctx, err, "User not found")
	}
	return s.resolve(ctx, user.Wishlist)
}

func (s *AccountService) resolve(ctx context.Context, ids []primitive.ObjectID) ([]models.ProductSummary, error) {
	products, err := s.products.FindByIDs(ctx, ids)
	if err != nil {
		return nil, storeError(ctx, err, "Product not found")
	}
	return summariesInOrder(ids, products), nil
}

// RegisterCompany stores the seller profile and turns the account into a seller.
func (s *AccountService) RegisterCompany(ctx context.Context, p models.Principal, in CompanyInput, logo *models.Image) (*models.Company, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)
	in.Address = strings.TrimSpace(in.Address)
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	company := models.Company{
		Name:        in.Name,
		Description: in.Description,
		Address:     in.Address,
		Logo:        logo,
	}
	if err := s.users.SetCompany(ctx, p.ID, company); err != nil {
		return nil, storeError(ctx, err, "User not found")
	}
	return &company, nil
}

func (s *AccountService) Company(ctx context.Context, p models.Principal) (*models.Company, error) {
	user, err := s.users.FindByID(ctx, p.ID)
	if err != nil {
		return nil, storeError(ctx, err, "User not found")
	}
	if !user.IsSeller || user.Company == nil {
		return nil, apperror.NotFound("Company details not found")
	}
	return user.Company, nil
}

func (s *AccountService) SellerProducts(ctx context.Context, p models.Principal) ([]models.ProductSummary, error) {
	products, err := s.products.FindByOwner(ctx, p.ID)
	if err != nil {
		return nil, storeError(ctx, err, "Product not found")
	}
	return summaries(products), nil
}
