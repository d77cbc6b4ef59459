package models

import (
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const MaxCarouselItems = 5

var (
	ErrCarouselEmpty        = errors.New("at least one image is required")
	ErrCarouselTooLarge     = fmt.Errorf("maximum %d images allowed", MaxCarouselItems)
	ErrCarouselLinkMismatch = errors.New("product links count must match images count")
	ErrCarouselMissingLink  = errors.New("product link is required for every new image")
)

type CarouselItem struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Image       []byte             `bson:"image" json:"-"`
	ContentType string             `bson:"contentType" json:"contentType"`
	ProductLink string             `bson:"productLink" json:"productLink"`
}

// Carousel is the single homepage carousel document.
type Carousel struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Items     []CarouselItem     `bson:"items" json:"items"`
	Version   int64              `bson:"version" json:"-"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// BuildCarouselItems pairs images with links for a new carousel.
func BuildCarouselItems(images []Image, links []string) ([]CarouselItem, error) {
	if len(images) == 0 {
		return nil, ErrCarouselEmpty
	}
	if len(images) > MaxCarouselItems {
		return nil, ErrCarouselTooLarge
	}
	if len(links) != len(images) {
		return nil, ErrCarouselLinkMismatch
	}

	items := make([]CarouselItem, len(images))
	for i, img := range images {
		if links[i] == "" {
			return nil, ErrCarouselMissingLink
		}
		items[i] = newCarouselItem(img, links[i])
	}
	return items, nil
}

// MergeCarouselItems applies a positional update: index i takes images[i] and links[i]
// when supplied and keeps the existing value otherwise. Images past the current length
// are appended and need a link. The result never exceeds MaxCarouselItems.
func MergeCarouselItems(existing []CarouselItem, images []Image, links []string) ([]CarouselItem, error) {
	size := len(existing)
	if len(images) > size {
		size = len(images)
	}
	if size > MaxCarouselItems {
		return nil, ErrCarouselTooLarge
	}

	items := make([]CarouselItem, 0, size)
	for i, item := range existing {
		if i < len(images) && len(images[i].Data) > 0 {
			item.Image = images[i].Data
			item.ContentType = images[i].ContentType
		}
		if i < len(links) && links[i] != "" {
			item.ProductLink = links[i]
		}
		items = append(items, item)
	}

	for i := len(existing); i < len(images); i++ {
		if i >= len(links) || links[i] == "" {
			return nil, ErrCarouselMissingLink
		}
		items = append(items, newCarouselItem(images[i], links[i]))
	}
	return items, nil
}

func newCarouselItem(img Image, link string) CarouselItem {
	return CarouselItem{
		ID:          primitive.NewObjectID(),
		Image:       img.Data,
		ContentType: img.ContentType,
		ProductLink: link,
	}
}

// CarouselSlide is the public projection of a carousel item.
type CarouselSlide struct {
	ProductLink string `json:"productLink"`
	Image       string `json:"image"` // data URI
}
