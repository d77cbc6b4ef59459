package services

import (
	"context"
	"encoding/base64"
	"errors"
	"time"

	"github.com/Madhav-Gupta-28/market-mate-backend-go/apperror"
	"github.com/Madhav-Gupta-28/market-mate-backend-go/models"
	"github.com/Madhav-Gupta-28/market-mate-backend-go/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type CarouselService struct {
	carousels repositories.CarouselRepository
	now       Clock
}

func NewCarouselService(carousels repositories.CarouselRepository) *CarouselService {
	return &CarouselService{carousels: carousels, now: time.Now}
}

// Create stores the homepage carousel. There is only ever one; a second create is a
// Conflict.
func (s *CarouselService) Create(ctx context.Context, p models.Principal, images []models.Image, links []string) (*models.Carousel, error) {
	if err := RequireAdmin(p); err != nil {
		return nil, err
	}
	items, err := models.BuildCarouselItems(images, links)
	if err != nil {
		return nil, apperror.Validation("%s", carouselMessage(err))
	}

	now := s.now()
	carousel := &models.Carousel{
		ID:        primitive.NewObjectID(),
		Items:     items,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.carousels.Create(ctx, carousel); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, apperror.Conflict("Carousel already exists. Please update it instead.")
		}
		return nil, storeError(ctx, err, "Carousel not found")
	}
	return carousel, nil
}

// Update replaces items by position and appends past the end, up to the item cap.
func (s *CarouselService) Update(ctx context.Context, p models.Principal, images []models.Image, links []string) (*models.Carousel, error) {
	if err := RequireAdmin(p); err != nil {
		return nil, err
	}

	var updated *models.Carousel
	err := retryOnConflict(func() error {
		carousel, err := s.carousels.Get(ctx)
		if err != nil {
			return err
		}
		items, err := models.MergeCarouselItems(carousel.Items, images, links)
		if err != nil {
			return apperror.Validation("%s", carouselMessage(err))
		}
		carousel.Items = items
		carousel.UpdatedAt = s.now()

		if err := s.carousels.Replace(ctx, carousel); err != nil {
			return err
		}
		updated = carousel
		return nil
	})
	if err != nil {
		return nil, storeError(ctx, err, "Carousel not found")
	}
	return updated, nil
}

// Slides is the public carousel with images inlined as data URIs.
func (s *CarouselService) Slides(ctx context.Context) ([]models.CarouselSlide, error) {
	carousel, err := s.carousels.Get(ctx)
	if err != nil {
		return nil, storeError(ctx, err, "Carousel not found")
	}

	slides := make([]models.CarouselSlide, len(carousel.Items))
	for i, item := range carousel.Items {
		contentType := item.ContentType
		if contentType == "" {
			contentType = "image/png"
		}
		slides[i] = models.CarouselSlide{
			ProductLink: item.ProductLink,
			Image:       "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(item.Image),
		}
	}
	return slides, nil
}

// Admin returns the carousel without image bytes, or nil when none exists.
func (s *CarouselService) Admin(ctx context.Context, p models.Principal) (*models.Carousel, error) {
	if err := RequireAdmin(p); err != nil {
		return nil, err
	}
	carousel, err := s.carousels.Get(ctx)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, storeError(ctx, err, "Carousel not found")
	}
	return carousel, nil
}

func (s *CarouselService) Delete(ctx context.Context, p models.Principal, id primitive.ObjectID) error {
	if err := RequireAdmin(p); err != nil {
		return err
	}
	return storeError(ctx, s.carousels.Delete(ctx, id), "Carousel not found")
}

func carouselMessage(err error) string {
	if errors.Is(err, models.ErrCarouselTooLarge) {
		return "Maximum 5 images allowed"
	}
	return err.Error()
}
