package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Address struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Phone     string             `bson:"phone" json:"phone"`
	Street    string             `bson:"street" json:"street"`
	City      string             `bson:"city" json:"city"`
	State     string             `bson:"state" json:"state"`
	Pincode   string             `bson:"pincode" json:"pincode"`
	IsDefault bool               `bson:"isDefault" json:"isDefault"`
}

// Image is an uploaded binary kept inline in its owning document.
type Image struct {
	Data        []byte `bson:"data" json:"base64"`
	ContentType string `bson:"contentType" json:"contentType"`
}

type Company struct {
	Name        string `bson:"name" json:"name"`
	Description string `bson:"description" json:"description"`
	Address     string `bson:"address" json:"address"`
	Logo        *Image `bson:"logo,omitempty" json:"logo,omitempty"`
}

type User struct {
	ID              primitive.ObjectID   `bson:"_id,omitempty" json:"_id"`
	Name            string               `bson:"name" json:"name"`
	Email           string               `bson:"email" json:"email"`
	Password        string               `bson:"password,omitempty" json:"-"` // "-" means don't include in JSON
	Cart            []primitive.ObjectID `bson:"cart" json:"cart"`
	Wishlist        []primitive.ObjectID `bson:"wishlist" json:"wishlist"`
	Addresses       []Address            `bson:"addresses" json:"addresses"`
	IsSeller        bool                 `bson:"isSeller" json:"isSeller"`
	IsAdmin         bool                 `bson:"isAdmin" json:"isAdmin"`
	SellingProducts []primitive.ObjectID `bson:"sellingProducts" json:"sellingProducts"`
	Company         *Company             `bson:"company,omitempty" json:"company,omitempty"`
	Version         int64                `bson:"version" json:"-"`
	CreatedAt       time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time            `bson:"updatedAt" json:"updatedAt"`
}

// Principal is the authenticated caller resolved from a session token.
type Principal struct {
	ID       primitive.ObjectID `json:"id"`
	Name     string             `json:"name"`
	Email    string             `json:"email"`
	IsAdmin  bool               `json:"isAdmin"`
	IsSeller bool               `json:"isSeller"`
}

func (u *User) Principal() Principal {
	return Principal{
		ID:       u.ID,
		Name:     u.Name,
		Email:    u.Email,
		IsAdmin:  u.IsAdmin,
		IsSeller: u.IsSeller,
	}
}

// InCart reports whether productID is in the user's cart.
func (u *User) InCart(productID primitive.ObjectID) bool {
	return containsID(u.Cart, productID)
}

func (u *User) InWishlist(productID primitive.ObjectID) bool {
	return containsID(u.Wishlist, productID)
}

func containsID(ids []primitive.ObjectID, id primitive.ObjectID) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}

// Sells reports whether productID is listed among the user's selling products.
func (u *User) Sells(productID primitive.ObjectID) bool {
	return containsID(u.SellingProducts, productID)
}
