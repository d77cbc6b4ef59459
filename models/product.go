package models

import (
	"math"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Target string

const (
	TargetMen    Target = "men"
	TargetWomen  Target = "women"
	TargetKids   Target = "kids"
	TargetFamily Target = "family"
)

func (t Target) Valid() bool {
	switch t {
	case "", TargetMen, TargetWomen, TargetKids, TargetFamily:
		return true
	}
	return false
}

type Spec struct {
	Key   string `bson:"key" json:"key"`
	Value string `bson:"value" json:"value"`
}

type Offer struct {
	Title    string   `bson:"title" json:"title"`
	Discount *float64 `bson:"discount" json:"discount"`
}

type Product struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Title         string             `bson:"title" json:"title"`
	Description   string             `bson:"description" json:"description"`
	Owner         primitive.ObjectID `bson:"owner" json:"owner"`
	Category      string             `bson:"category" json:"category"`
	SubCategory   string             `bson:"subCategory" json:"subCategory"`
	Price         float64            `bson:"price" json:"price"`
	Discount      float64            `bson:"discount" json:"discount"` // percent
	Target        Target             `bson:"target,omitempty" json:"target,omitempty"`
	Specs         []Spec             `bson:"specs" json:"specs"`
	Offers        []Offer            `bson:"offers" json:"offers"`
	Image         *Image             `bson:"image,omitempty" json:"image,omitempty"`
	Reviews       []Review           `bson:"reviews" json:"reviews"`
	AverageRating float64            `bson:"averageRating" json:"averageRating"`
	Version       int64              `bson:"version" json:"-"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// EffectivePrice is the price after the product-level discount.
func (p *Product) EffectivePrice() float64 {
	return p.Price * (1 - p.Discount/100)
}

// OrderTotal sums the effective prices of products, rounded to cents.
func OrderTotal(products []Product) float64 {
	var total float64
	for i := range products {
		total += products[i].EffectivePrice()
	}
	return math.Round(total*100) / 100
}

// ProductFilter selects products by attribute. Zero fields do not constrain.
// Category, SubCategory and Target compare case-insensitively; Title, Description and
// Specs are case-insensitive substring matches (Specs against spec values).
type ProductFilter struct {
	Title        string
	Description  string
	Category     string
	SubCategory  string
	Specs        string
	MinPrice     *float64
	MaxPrice     *float64
	DiscountOnly bool
	Target       Target
}

func (f ProductFilter) Matches(p *Product) bool {
	if f.Title != "" && !containsFold(p.Title, f.Title) {
		return false
	}
	if f.Description != "" && !containsFold(p.Description, f.Description) {
		return false
	}
	if f.Category != "" && !strings.EqualFold(p.Category, f.Category) {
		return false
	}
	if f.SubCategory != "" && !strings.EqualFold(p.SubCategory, f.SubCategory) {
		return false
	}
	if f.Specs != "" {
		found := false
		for _, spec := range p.Specs {
			if containsFold(spec.Value, f.Specs) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if f.MinPrice != nil && p.Price < *f.MinPrice {
		return false
	}
	if f.MaxPrice != nil && p.Price > *f.MaxPrice {
		return false
	}
	if f.DiscountOnly && p.Discount <= 0 {
		return false
	}
	if f.Target != "" && !strings.EqualFold(string(p.Target), string(f.Target)) {
		return false
	}
	return true
}

// MatchesSearch reports whether query occurs in the title, category, sub-category or
// description of p, ignoring case.
func MatchesSearch(p *Product, query string) bool {
	return containsFold(p.Title, query) ||
		containsFold(p.Category, query) ||
		containsFold(p.SubCategory, query) ||
		containsFold(p.Description, query)
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

// ProductSummary is the listing projection of a product.
type ProductSummary struct {
	ID            primitive.ObjectID `json:"_id"`
	Title         string             `json:"title"`
	Price         float64            `json:"price"`
	Category      string             `json:"category,omitempty"`
	SubCategory   string             `json:"subCategory,omitempty"`
	Description   string             `json:"description,omitempty"`
	Target        *Target            `json:"target"`
	Discount      *float64           `json:"discount"`
	Offers        []Offer            `json:"offers"`
	AverageRating float64            `json:"averageRating"`
	Image         *Image             `json:"image,omitempty"`
}

func (p *Product) Summary() ProductSummary {
	s := ProductSummary{
		ID:            p.ID,
		Title:         p.Title,
		Price:         p.Price,
		Category:      p.Category,
		SubCategory:   p.SubCategory,
		Description:   p.Description,
		Offers:        p.Offers,
		AverageRating: p.AverageRating,
	}
	if p.Target != "" {
		target := p.Target
		s.Target = &target
	}
	if p.Discount != 0 {
		discount := p.Discount
		s.Discount = &discount
	}
	if p.Image != nil && len(p.Image.Data) > 0 && p.Image.ContentType != "" {
		s.Image = p.Image
	}
	return s
}
