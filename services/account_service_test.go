package services

import (
	"testing"

	"github.com/Madhav-Gupta-28/market-mate-backend-go/apperror"
	"github.com/Madhav-Gupta-28/market-mate-backend-go/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func address(street string, isDefault bool) AddressInput {
	return AddressInput{
		Phone:     "9876543210",
		Street:    street,
		City:      "Pune",
		State:     "MH",
		Pincode:   "411001",
		IsDefault: isDefault,
	}
}

func defaults(list []models.Address) int {
	return models.CountDefaultAddresses(list)
}

func TestAccountService_Addresses(t *testing.T) {
	f := newFixture()
	s := NewAccountService(f.store.Users(), f.store.Products())
	p := f.user(t, "a@example.com")

	list, err := s.AddAddress(f.ctx, p, address("1 First St", false))
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.True(t, list[0].IsDefault, "first address becomes the default")

	list, err = s.AddAddress(f.ctx, p, address("2 Second St", true))
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, 1, defaults(list))
	assert.True(t, list[1].IsDefault)

	list, err = s.SetDefaultAddress(f.ctx, p, list[0].ID)
	require.NoError(t, err)
	assert.Equal(t, 1, defaults(list))
	assert.True(t, list[0].IsDefault)

	list, err = s.RemoveAddress(f.ctx, p, list[0].ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.True(t, list[0].IsDefault, "remaining address is promoted")

	stored, err := s.Addresses(f.ctx, p)
	require.NoError(t, err)
	assert.Equal(t, list, stored)
}

func TestAccountService_AddressErrors(t *testing.T) {
	f := newFixture()
	s := NewAccountService(f.store.Users(), f.store.Products())
	p := f.user(t, "a@example.com")

	_, err := s.AddAddress(f.ctx, p, AddressInput{Phone: "1", Street: "  ", City: "c", State: "s", Pincode: "p"})
	assertKind(t, err, apperror.KindValidation, "street is required")

	_, err = s.RemoveAddress(f.ctx, p, primitive.NewObjectID())
	assertKind(t, err, apperror.KindNotFound, "Address not found")

	_, err = s.SetDefaultAddress(f.ctx, p, primitive.NewObjectID())
	assertKind(t, err, apperror.KindNotFound, "Address not found")
}

func TestAccountService_Cart(t *testing.T) {
	f := newFixture()
	s := NewAccountService(f.store.Users(), f.store.Products())
	seller := f.seller(t, "seller@example.com")
	p := f.user(t, "a@example.com")
	first := f.product(t, seller, "Headphones", 100, 0)
	second := f.product(t, seller, "Speaker", 50, 0)

	require.NoError(t, s.AddToCart(f.ctx, p, second.ID))
	require.NoError(t, s.AddToCart(f.ctx, p, first.ID))
	require.NoError(t, s.AddToCart(f.ctx, p, first.ID))

	cart, err := s.CartProducts(f.ctx, p)
	require.NoError(t, err)
	require.Len(t, cart, 2)
	assert.Equal(t, second.ID, cart[0].ID)
	assert.Equal(t, first.ID, cart[1].ID)

	err = s.AddToCart(f.ctx, p, primitive.NewObjectID())
	assertKind(t, err, apperror.KindNotFound, "Product not found")

	require.NoError(t, s.RemoveFromCart(f.ctx, p, first.ID))
	err = s.RemoveFromCart(f.ctx, p, first.ID)
	assertKind(t, err, apperror.KindNotFound, "Product not in cart")
}

func TestAccountService_CartSkipsDeletedProducts(t *testing.T) {
	f := newFixture()
	s := NewAccountService(f.store.Users(), f.store.Products())
	seller := f.seller(t, "seller@example.com")
	p := f.user(t, "a@example.com")
	kept := f.product(t, seller, "Kept", 10, 0)
	gone := f.product(t, seller, "Gone", 10, 0)
	require.NoError(t, s.AddToCart(f.ctx, p, kept.ID))
	require.NoError(t, s.AddToCart(f.ctx, p, gone.ID))

	_, err := f.store.Products().Delete(f.ctx, gone.ID)
	require.NoError(t, err)

	cart, err := s.CartProducts(f.ctx, p)
	require.NoError(t, err)
	require.Len(t, cart, 1)
	assert.Equal(t, kept.ID, cart[0].ID)
}

func TestAccountService_Wishlist(t *testing.T) {
	f := newFixture()
	s := NewAccountService(f.store.Users(), f.store.Products())
	seller := f.seller(t, "seller@example.com")
	p := f.user(t, "a@example.com")
	product := f.product(t, seller, "Headphones", 100, 0)

	added, err := s.ToggleWishlist(f.ctx, p, product.ID)
	require.NoError(t, err)
	assert.True(t, added)

	list, err := s.WishlistProducts(f.ctx, p)
	require.NoError(t, err)
	require.Len(t, list, 1)

	added, err = s.ToggleWishlist(f.ctx, p, product.ID)
	require.NoError(t, err)
	assert.False(t, added)

	list, err = s.WishlistProducts(f.ctx, p)
	require.NoError(t, err)
	assert.Empty(t, list)

	err = s.RemoveFromWishlist(f.ctx, p, product.ID)
	assertKind(t, err, apperror.KindNotFound, "Product not in wishlist")

	_, err = s.ToggleWishlist(f.ctx, p, primitive.NewObjectID())
	assertKind(t, err, apperror.KindNotFound, "Product not found")
}

func TestAccountService_Company(t *testing.T) {
	f := newFixture()
	s := NewAccountService(f.store.Users(), f.store.Products())
	p := f.user(t, "a@example.com")

	_, err := s.Company(f.ctx, p)
	assertKind(t, err, apperror.KindNotFound, "Company details not found")

	_, err = s.RegisterCompany(f.ctx, p, CompanyInput{Name: "Acme"}, nil)
	assertKind(t, err, apperror.KindValidation, "description is required")

	logo := &models.Image{Data: []byte{0x89, 'P', 'N', 'G'}, ContentType: "image/png"}
	company, err := s.RegisterCompany(f.ctx, p, CompanyInput{Name: "Acme", Description: "Gadgets", Address: "Pune"}, logo)
	require.NoError(t, err)
	assert.Equal(t, "Acme", company.Name)

	user, err := f.store.Users().FindByID(f.ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, user.IsSeller)

	stored, err := s.Company(f.ctx, p)
	require.NoError(t, err)
	assert.Equal(t, logo, stored.Logo)
}

func TestAccountService_SellerProducts(t *testing.T) {
	f := newFixture()
	s := NewAccountService(f.store.Users(), f.store.Products())
	seller := f.seller(t, "seller@example.com")
	other := f.seller(t, "other@example.com")
	mine := f.product(t, seller, "Mine", 10, 0)
	f.product(t, other, "Theirs", 10, 0)

	list, err := s.SellerProducts(f.ctx, seller)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, mine.ID, list[0].ID)
}
