package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/Madhav-Gupta-28/market-mate-backend-go/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func seedUser(t *testing.T, store *MemoryStore, email string) *models.User {
	t.Helper()
	user := &models.User{Name: "Test", Email: email, CreatedAt: time.Now()}
	require.NoError(t, store.Users().Create(context.Background(), user))
	return user
}

func TestMemoryUsers_DuplicateEmail(t *testing.T) {
	store := NewMemoryStore()
	seedUser(t, store, "a@example.com")

	err := store.Users().Create(context.Background(), &models.User{Email: "a@example.com"})

	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestMemoryUsers_ReadsAreCopies(t *testing.T) {
	store := NewMemoryStore()
	user := seedUser(t, store, "a@example.com")
	ctx := context.Background()
	require.NoError(t, store.Users().AddToCart(ctx, user.ID, primitive.NewObjectID()))

	got, err := store.Users().FindByID(ctx, user.ID)
	require.NoError(t, err)
	got.Cart[0] = primitive.NilObjectID

	again, _ := store.Users().FindByID(ctx, user.ID)
	assert.NotEqual(t, primitive.NilObjectID, again.Cart[0])
}

func TestMemoryUsers_CartIsASet(t *testing.T) {
	store := NewMemoryStore()
	user := seedUser(t, store, "a@example.com")
	ctx := context.Background()
	product := primitive.NewObjectID()

	require.NoError(t, store.Users().AddToCart(ctx, user.ID, product))
	require.NoError(t, store.Users().AddToCart(ctx, user.ID, product))

	got, _ := store.Users().FindByID(ctx, user.ID)
	assert.Len(t, got.Cart, 1)

	require.NoError(t, store.Users().RemoveFromCart(ctx, user.ID, product))
	assert.ErrorIs(t, store.Users().RemoveFromCart(ctx, user.ID, product), ErrNotFound)
	assert.ErrorIs(t, store.Users().RemoveFromWishlist(ctx, user.ID, product), ErrNotFound)
}

func TestMemoryUsers_SaveAddressesChecksVersion(t *testing.T) {
	store := NewMemoryStore()
	user := seedUser(t, store, "a@example.com")
	ctx := context.Background()
	addresses := models.AddAddress(nil, models.Address{City: "Pune"})

	require.NoError(t, store.Users().SaveAddresses(ctx, user.ID, user.Version, addresses))
	err := store.Users().SaveAddresses(ctx, user.ID, user.Version, addresses)

	assert.ErrorIs(t, err, ErrConflict)
}

func TestMemoryUsers_UpdateProfileRejectsTakenEmail(t *testing.T) {
	store := NewMemoryStore()
	seedUser(t, store, "a@example.com")
	b := seedUser(t, store, "b@example.com")
	email := "a@example.com"

	err := store.Users().UpdateProfile(context.Background(), b.ID, ProfileUpdate{Email: &email})

	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestMemoryProducts_SearchNewestFirst(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	now := time.Now()
	old := &models.Product{Title: "Old phone", CreatedAt: now.Add(-time.Hour)}
	recent := &models.Product{Title: "New phone", CreatedAt: now}
	other := &models.Product{Title: "Lamp", CreatedAt: now}
	for _, p := range []*models.Product{old, recent, other} {
		require.NoError(t, store.Products().Create(ctx, p))
	}

	got, err := store.Products().Search(ctx, "PHONE")

	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, recent.ID, got[0].ID)
	assert.Equal(t, old.ID, got[1].ID)
}

func TestMemoryProducts_SaveReviewsChecksVersion(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	product := &models.Product{Title: "Desk"}
	require.NoError(t, store.Products().Create(ctx, product))
	reviews, _ := models.UpsertReview(nil, primitive.NewObjectID(), 4, "ok", time.Now())

	require.NoError(t, store.Products().SaveReviews(ctx, product.ID, 0, reviews, 4))
	assert.ErrorIs(t, store.Products().SaveReviews(ctx, product.ID, 0, reviews, 4), ErrConflict)

	got, _ := store.Products().FindByID(ctx, product.ID)
	assert.Equal(t, 4.0, got.AverageRating)
	assert.Equal(t, int64(1), got.Version)
}

func TestMemoryProducts_UpdateKeepsReviews(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	owner := primitive.NewObjectID()
	product := &models.Product{Title: "Desk", Owner: owner}
	require.NoError(t, store.Products().Create(ctx, product))
	reviews, _ := models.UpsertReview(nil, primitive.NewObjectID(), 5, "", time.Now())
	require.NoError(t, store.Products().SaveReviews(ctx, product.ID, 0, reviews, 5))

	edit, _ := store.Products().FindByID(ctx, product.ID)
	edit.Title = "Standing desk"
	edit.Reviews = nil
	require.NoError(t, store.Products().Update(ctx, edit))

	got, _ := store.Products().FindByID(ctx, product.ID)
	assert.Equal(t, "Standing desk", got.Title)
	assert.Len(t, got.Reviews, 1)
	assert.Equal(t, owner, got.Owner)
}

func TestMemoryOrders_PlaceClearsCart(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	user := seedUser(t, store, "a@example.com")
	product := primitive.NewObjectID()
	require.NoError(t, store.Users().AddToCart(ctx, user.ID, product))

	order := models.NewOrder(user.ID, []primitive.ObjectID{product}, primitive.NewObjectID(), models.PaymentMethodCOD, 10, time.Now())
	require.NoError(t, store.Orders().Place(ctx, order))

	got, _ := store.Users().FindByID(ctx, user.ID)
	assert.Empty(t, got.Cart)
	orders, _ := store.Orders().FindByUser(ctx, user.ID)
	assert.Len(t, orders, 1)
}

func TestMemoryOrders_PlaceKeepsUnorderedCartItems(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	user := seedUser(t, store, "a@example.com")
	ordered, late := primitive.NewObjectID(), primitive.NewObjectID()
	require.NoError(t, store.Users().AddToCart(ctx, user.ID, ordered))

	order := models.NewOrder(user.ID, []primitive.ObjectID{ordered}, primitive.NewObjectID(), models.PaymentMethodCOD, 10, time.Now())
	require.NoError(t, store.Users().AddToCart(ctx, user.ID, late))
	require.NoError(t, store.Orders().Place(ctx, order))

	got, _ := store.Users().FindByID(ctx, user.ID)
	assert.Equal(t, []primitive.ObjectID{late}, got.Cart)
}

func TestMemoryUsers_AddSellingProductIsASet(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	user := seedUser(t, store, "a@example.com")
	product := primitive.NewObjectID()

	require.NoError(t, store.Users().AddSellingProduct(ctx, user.ID, product))
	require.NoError(t, store.Users().AddSellingProduct(ctx, user.ID, product))

	got, _ := store.Users().FindByID(ctx, user.ID)
	assert.Equal(t, []primitive.ObjectID{product}, got.SellingProducts)
}

func TestMemoryOrders_UpdateStatus(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	user := seedUser(t, store, "a@example.com")
	order := models.NewOrder(user.ID, nil, primitive.NewObjectID(), models.PaymentMethodCOD, 10, time.Now())
	require.NoError(t, store.Orders().Place(ctx, order))

	require.NoError(t, store.Orders().UpdateStatus(ctx, order.ID, models.OrderStatusPlaced, models.OrderStatusCancelled, time.Now()))
	err := store.Orders().UpdateStatus(ctx, order.ID, models.OrderStatusPlaced, models.OrderStatusCancelled, time.Now())
	assert.ErrorIs(t, err, ErrConflict)

	err = store.Orders().UpdateStatus(ctx, order.ID, models.OrderStatusCancelled, models.OrderStatusPlaced, time.Now())
	assert.ErrorIs(t, err, models.ErrInvalidTransition)
}

func TestMemoryCarousel_Singleton(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	_, err := store.Carousel().Get(ctx)
	assert.ErrorIs(t, err, ErrNotFound)

	first := &models.Carousel{}
	require.NoError(t, store.Carousel().Create(ctx, first))
	assert.ErrorIs(t, store.Carousel().Create(ctx, &models.Carousel{}), ErrDuplicate)

	require.NoError(t, store.Carousel().Delete(ctx, first.ID))
	assert.ErrorIs(t, store.Carousel().Delete(ctx, first.ID), ErrNotFound)
}

func TestMemoryCarousel_ReplaceIsVersioned(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, store.Carousel().Create(ctx, &models.Carousel{Items: []models.CarouselItem{{ProductLink: "/a"}}}))

	first, _ := store.Carousel().Get(ctx)
	stale, _ := store.Carousel().Get(ctx)

	first.Items[0].ProductLink = "/b"
	require.NoError(t, store.Carousel().Replace(ctx, first))
	assert.Equal(t, int64(1), first.Version)

	stale.Items[0].ProductLink = "/c"
	assert.ErrorIs(t, store.Carousel().Replace(ctx, stale), ErrConflict)

	got, _ := store.Carousel().Get(ctx)
	assert.Equal(t, "/b", got.Items[0].ProductLink)
}
