package services

import (
	"context"
	"strings"
	"time"

	"github.com/Madhav-Gupta-28/market-mate-backend-go/apperror"
	"github.com/Madhav-Gupta-28/market-mate-backend-go/logging"
	"github.com/Madhav-Gupta-28/market-mate-backend-go/metrics"
	"github.com/Madhav-Gupta-28/market-mate-backend-go/models"
	"github.com/Madhav-Gupta-28/market-mate-backend-go/repositories"
	"github.com/Madhav-Gupta-28/market-mate-backend-go/validation"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ProductInput struct {
	Title       string         `json:"title" validate:"required"`
	Description string         `json:"description" validate:"required"`
	Category    string         `json:"category" validate:"required"`
	SubCategory string         `json:"subCategory" validate:"required"`
	Price       *float64       `json:"price" validate:"required,gte=0"`
	Discount    float64        `json:"discount" validate:"gte=0,lte=100"`
	Target      models.Target  `json:"target" validate:"omitempty,oneof=men women kids family"`
	Specs       []models.Spec  `json:"specs"`
	Offers      []models.Offer `json:"offers"`
}

// ProductUpdate carries the listing fields to change; nil fields are kept.
type ProductUpdate struct {
	Title       *string         `json:"title"`
	Description *string         `json:"description"`
	Category    *string         `json:"category"`
	SubCategory *string         `json:"subCategory"`
	Price       *float64        `json:"price" validate:"omitempty,gte=0"`
	Discount    *float64        `json:"discount" validate:"omitempty,gte=0,lte=100"`
	Target      *models.Target  `json:"target" validate:"omitempty,oneof=men women kids family"`
	Specs       *[]models.Spec  `json:"specs"`
	Offers      *[]models.Offer `json:"offers"`
}

// normalize trims the supplied text fields. A required field that is supplied must not
// be blank.
func (u *ProductUpdate) normalize() error {
	fields := []struct {
		name  string
		value **string
	}{
		{"title", &u.Title},
		{"description", &u.Description},
		{"category", &u.Category},
		{"subCategory", &u.SubCategory},
	}
	for _, f := range fields {
		if *f.value == nil {
			continue
		}
		trimmed := strings.TrimSpace(**f.value)
		if trimmed == "" {
			return apperror.Validation("%s is required", f.name)
		}
		*f.value = &trimmed
	}
	return validation.Struct(u)
}

func (u ProductUpdate) apply(p *models.Product) {
	if u.Title != nil {
		p.Title = *u.Title
	}
	if u.Description != nil {
		p.Description = *u.Description
	}
	if u.Category != nil {
		p.Category = *u.Category
	}
	if u.SubCategory != nil {
		p.SubCategory = *u.SubCategory
	}
	if u.Price != nil {
		p.Price = *u.Price
	}
	if u.Discount != nil {
		p.Discount = *u.Discount
	}
	if u.Target != nil {
		p.Target = *u.Target
	}
	if u.Specs != nil {
		p.Specs = *u.Specs
	}
	if u.Offers != nil {
		p.Offers = *u.Offers
	}
}

type ReviewInput struct {
	Rating  int    `json:"rating" form:"rating"`
	Comment string `json:"comment" form:"comment"`
}

// ProductDetail is a full product with reviewer names resolved.
type ProductDetail struct {
	*models.Product
	Reviews []models.ReviewView `json:"reviews"`
}

type ReviewResult struct {
	AverageRating float64             `json:"averageRating"`
	Reviews       []models.ReviewView `json:"reviews"`
}

type CatalogService struct {
	products repositories.ProductRepository
	users    repositories.UserRepository
	now      Clock
}

func NewCatalogService(products repositories.ProductRepository, users repositories.UserRepository) *CatalogService {
	return &CatalogService{products: products, users: users, now: time.Now}
}

// Create lists a new product owned by the calling seller.
func (s *CatalogService) Create(ctx context.Context, p models.Principal, in ProductInput, image *models.Image) (*models.Product, error) {
	if !p.IsSeller {
		return nil, apperror.Forbidden("Only sellers can create products")
	}
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	in.Category = strings.TrimSpace(in.Category)
	in.SubCategory = strings.TrimSpace(in.SubCategory)
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	now := s.now()
	product := &models.Product{
		ID:          primitive.NewObjectID(),
		Title:       in.Title,
		Description: in.Description,
		Owner:       p.ID,
		Category:    in.Category,
		SubCategory: in.SubCategory,
		Price:       *in.Price,
		Discount:    in.Discount,
		Target:      in.Target,
		Specs:       nonNilSpecs(in.Specs),
		Offers:      nonNilOffers(in.Offers),
		Image:       image,
		Reviews:     []models.Review{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.products.Create(ctx, product); err != nil {
		return nil, storeError(ctx, err, "Product not found")
	}
	if err := s.users.AddSellingProduct(ctx, p.ID, product.ID); err != nil {
		return nil, storeError(ctx, err, "User not found")
	}

	logging.Ctx(ctx).Info().Str("product_id", product.ID.Hex()).Msg("product created")
	return product, nil
}

// Update changes the supplied fields of a product owned by the caller. A nil image keeps
// the current one.
func (s *CatalogService) Update(ctx context.Context, p models.Principal, id primitive.ObjectID, in ProductUpdate, image *models.Image) (*models.Product, error) {
	if err := in.normalize(); err != nil {
		return nil, err
	}

	var updated *models.Product
	err := retryOnConflict(func() error {
		product, err := s.products.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if !p.IsSeller {
			return apperror.Forbidden("Only sellers can update products")
		}
		if product.Owner != p.ID {
			return apperror.Forbidden("You can only update your own products")
		}

		in.apply(product)
		if image != nil {
			product.Image = image
		}
		product.UpdatedAt = s.now()
		if err := s.products.Update(ctx, product); err != nil {
			return err
		}
		updated = product
		return nil
	})
	if err != nil {
		return nil, storeError(ctx, err, "Product not found")
	}
	return updated, nil
}

func (s *CatalogService) Delete(ctx context.Context, p models.Principal, id primitive.ObjectID) error {
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return storeError(ctx, err, "Product not found")
	}
	if product.Owner != p.ID {
		return apperror.Forbidden("You can only delete your own products")
	}

	if _, err := s.products.Delete(ctx, id); err != nil {
		return storeError(ctx, err, "Product not found")
	}
	if err := s.users.RemoveSellingProduct(ctx, product.Owner, id); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("product_id", id.Hex()).Msg("failed to unlink deleted product from seller")
	}
	return nil
}

func (s *CatalogService) Get(ctx context.Context, id primitive.ObjectID) (*ProductDetail, error) {
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, storeError(ctx, err, "Product not found")
	}
	reviews, err := s.reviewViews(ctx, product.Reviews)
	if err != nil {
		return nil, err
	}
	return &ProductDetail{Product: product, Reviews: reviews}, nil
}

func (s *CatalogService) Filter(ctx context.Context, filter models.ProductFilter) ([]models.ProductSummary, error) {
	if filter.Target != "" && !filter.Target.Valid() {
		return nil, apperror.Validation("target must be one of: men, women, kids, family")
	}
	products, err := s.products.Filter(ctx, filter)
	if err != nil {
		return nil, storeError(ctx, err, "Product not found")
	}
	return summaries(products), nil
}

// Search matches query against title, category, sub-category and description, newest
// first.
func (s *CatalogService) Search(ctx context.Context, query string) ([]models.ProductSummary, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, apperror.Validation("Search query is required")
	}
	products, err := s.products.Search(ctx, query)
	if err != nil {
		return nil, storeError(ctx, err, "Product not found")
	}
	return summaries(products), nil
}

// SubmitReview records the caller's review, replacing any earlier one, and updates the
// product's average rating in the same write.
func (s *CatalogService) SubmitReview(ctx context.Context, p models.Principal, productID primitive.ObjectID, in ReviewInput) (*ReviewResult, error) {
	if in.Rating < models.MinRating || in.Rating > models.MaxRating {
		return nil, apperror.Validation("Rating must be between %d and %d", models.MinRating, models.MaxRating)
	}
	comment := strings.TrimSpace(in.Comment)
	if comment == "" {
		return nil, apperror.Validation("Comment is required")
	}

	var (
		reviews  []models.Review
		average  float64
		replaced bool
	)
	err := retryOnConflict(func() error {
		product, err := s.products.FindByID(ctx, productID)
		if err != nil {
			return err
		}
		reviews, replaced = models.UpsertReview(product.Reviews, p.ID, in.Rating, comment, s.now())
		average = models.AverageRating(reviews)
		return s.products.SaveReviews(ctx, product.ID, product.Version, reviews, average)
	})
	if err != nil {
		return nil, storeError(ctx, err, "Product not found")
	}
	metrics.RecordReview(replaced)

	views, err := s.reviewViews(ctx, reviews)
	if err != nil {
		return nil, err
	}
	return &ReviewResult{AverageRating: average, Reviews: views}, nil
}

func (s *CatalogService) reviewViews(ctx context.Context, reviews []models.Review) ([]models.ReviewView, error) {
	ids := make([]primitive.ObjectID, len(reviews))
	for i, r := range reviews {
		ids[i] = r.User
	}
	users, err := s.users.FindByIDs(ctx, ids)
	if err != nil {
		return nil, storeError(ctx, err, "User not found")
	}
	names := make(map[primitive.ObjectID]string, len(users))
	for _, u := range users {
		names[u.ID] = u.Name
	}

	views := make([]models.ReviewView, len(reviews))
	for i, r := range reviews {
		views[i] = models.ReviewView{
			ID:        r.ID,
			User:      models.ReviewAuthor{ID: r.User, Name: names[r.User]},
			Rating:    r.Rating,
			Comment:   r.Comment,
			CreatedAt: r.CreatedAt,
		}
	}
	return views, nil
}

func nonNilSpecs(specs []models.Spec) []models.Spec {
	if specs == nil {
		return []models.Spec{}
	}
	return specs
}

func nonNilOffers(offers []models.Offer) []models.Offer {
	if offers == nil {
		return []models.Offer{}
	}
	return offers
}
