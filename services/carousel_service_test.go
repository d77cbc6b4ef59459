package services

import (
	"context"
	"strings"
	"testing"

	"github.com/Madhav-Gupta-28/market-mate-backend-go/apperror"
	"github.com/Madhav-Gupta-28/market-mate-backend-go/models"
	"github.com/Madhav-Gupta-28/market-mate-backend-go/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func images(n int) []models.Image {
	out := make([]models.Image, n)
	for i := range out {
		out[i] = models.Image{Data: []byte{byte(i + 1)}, ContentType: "image/jpeg"}
	}
	return out
}

func links(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = "/products/" + primitive.NewObjectID().Hex()
	}
	return out
}

func newCarouselService(f *fixture) *CarouselService {
	s := NewCarouselService(f.store.Carousel())
	s.now = fixedClock
	return s
}

func TestCarouselService_Create(t *testing.T) {
	f := newFixture()
	s := newCarouselService(f)
	admin := f.admin(t)
	buyer := f.user(t, "buyer@example.com")

	_, err := s.Create(f.ctx, buyer, images(1), links(1))
	assertKind(t, err, apperror.KindForbidden, "Admin only")

	_, err = s.Create(f.ctx, admin, images(6), links(6))
	assertKind(t, err, apperror.KindValidation, "Maximum 5 images allowed")

	_, err = s.Create(f.ctx, admin, images(2), links(1))
	assertKind(t, err, apperror.KindValidation, "")

	carousel, err := s.Create(f.ctx, admin, images(2), links(2))
	require.NoError(t, err)
	assert.Len(t, carousel.Items, 2)

	_, err = s.Create(f.ctx, admin, images(1), links(1))
	assertKind(t, err, apperror.KindConflict, "Carousel already exists. Please update it instead.")
}

func TestCarouselService_Update(t *testing.T) {
	f := newFixture()
	s := newCarouselService(f)
	admin := f.admin(t)

	_, err := s.Update(f.ctx, admin, images(1), links(1))
	assertKind(t, err, apperror.KindNotFound, "Carousel not found")

	created, err := s.Create(f.ctx, admin, images(2), links(2))
	require.NoError(t, err)

	newLinks := []string{"", created.Items[1].ProductLink, "/products/new"}
	updated, err := s.Update(f.ctx, admin, images(3), newLinks)
	require.NoError(t, err)
	require.Len(t, updated.Items, 3)
	assert.Equal(t, created.Items[0].ProductLink, updated.Items[0].ProductLink)
	assert.Equal(t, created.Items[0].ID, updated.Items[0].ID)
	assert.Equal(t, "/products/new", updated.Items[2].ProductLink)

	_, err = s.Update(f.ctx, admin, images(6), links(6))
	assertKind(t, err, apperror.KindValidation, "Maximum 5 images allowed")
}

// racingCarousels lets another admin replace the carousel right after the first read.
type racingCarousels struct {
	repositories.CarouselRepository
	race func(ctx context.Context)
}

func (r *racingCarousels) Get(ctx context.Context) (*models.Carousel, error) {
	carousel, err := r.CarouselRepository.Get(ctx)
	if r.race != nil {
		race := r.race
		r.race = nil
		race(ctx)
	}
	return carousel, err
}

func TestCarouselService_ConcurrentUpdatesBothApply(t *testing.T) {
	f := newFixture()
	admin := f.admin(t)
	created, err := newCarouselService(f).Create(f.ctx, admin, images(2), links(2))
	require.NoError(t, err)

	other := newCarouselService(f)
	repo := &racingCarousels{CarouselRepository: f.store.Carousel()}
	repo.race = func(ctx context.Context) {
		_, err := other.Update(ctx, admin, nil, []string{"/products/first"})
		require.NoError(t, err)
	}
	s := NewCarouselService(repo)
	s.now = fixedClock

	updated, err := s.Update(f.ctx, admin, nil, []string{"", "/products/second"})
	require.NoError(t, err)
	assert.Equal(t, "/products/first", updated.Items[0].ProductLink)
	assert.Equal(t, "/products/second", updated.Items[1].ProductLink)

	stored, err := f.store.Carousel().Get(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, "/products/first", stored.Items[0].ProductLink)
	assert.Equal(t, "/products/second", stored.Items[1].ProductLink)
	assert.NotEqual(t, created.Items[0].ProductLink, stored.Items[0].ProductLink)
}

func TestCarouselService_SlidesAndDelete(t *testing.T) {
	f := newFixture()
	s := newCarouselService(f)
	admin := f.admin(t)

	_, err := s.Slides(f.ctx)
	assertKind(t, err, apperror.KindNotFound, "Carousel not found")

	got, err := s.Admin(f.ctx, admin)
	require.NoError(t, err)
	assert.Nil(t, got)

	created, err := s.Create(f.ctx, admin, images(1), links(1))
	require.NoError(t, err)

	slides, err := s.Slides(f.ctx)
	require.NoError(t, err)
	require.Len(t, slides, 1)
	assert.True(t, strings.HasPrefix(slides[0].Image, "data:image/jpeg;base64,"))
	assert.Equal(t, created.Items[0].ProductLink, slides[0].ProductLink)

	err = s.Delete(f.ctx, admin, primitive.NewObjectID())
	assertKind(t, err, apperror.KindNotFound, "Carousel not found")

	require.NoError(t, s.Delete(f.ctx, admin, created.ID))
	_, err = s.Slides(f.ctx)
	assertKind(t, err, apperror.KindNotFound, "Carousel not found")
}

func TestAdminService(t *testing.T) {
	f := newFixture()
	s := NewAdminService(f.store.Users(), f.store.Products())
	admin := f.admin(t)
	seller := f.seller(t, "seller@example.com")
	f.product(t, seller, "Headphones", 100, 0)

	_, err := s.Users(f.ctx, seller)
	assertKind(t, err, apperror.KindForbidden, "Admin only")
	_, err = s.Products(f.ctx, seller)
	assertKind(t, err, apperror.KindForbidden, "Admin only")

	users, err := s.Users(f.ctx, admin)
	require.NoError(t, err)
	assert.Len(t, users, 2)
	for _, u := range users {
		assert.Empty(t, u.Password)
	}

	products, err := s.Products(f.ctx, admin)
	require.NoError(t, err)
	assert.Len(t, products, 1)
}
