package services

import (
	"context"

	"github.com/Madhav-Gupta-28/market-mate-backend-go/models"
	"github.com/Madhav-Gupta-28/market-mate-backend-go/repositories"
)

type AdminService struct {
	users    repositories.UserRepository
	products repositories.ProductRepository
}

func NewAdminService(users repositories.UserRepository, products repositories.ProductRepository) *AdminService {
	return &AdminService{users: users, products: products}
}

// Users lists every account. Credential hashes never leave the service.
func (s *AdminService) Users(ctx context.Context, p models.Principal) ([]models.User, error) {
	if err := RequireAdmin(p); err != nil {
		return nil, err
	}
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, storeError(ctx, err, "User not found")
	}
	for i := range users {
		users[i].Password = ""
	}
	return users, nil
}

func (s *AdminService) Products(ctx context.Context, p models.Principal) ([]models.ProductSummary, error) {
	if err := RequireAdmin(p); err != nil {
		return nil, err
	}
	products, err := s.products.List(ctx)
	if err != nil {
		return nil, storeError(ctx, err, "Product not found")
	}
	return summaries(products), nil
}
