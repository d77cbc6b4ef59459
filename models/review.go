package models

import (
	"math"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	MinRating = 1
	MaxRating = 5
)

type Review struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	User      primitive.ObjectID `bson:"user" json:"user"`
	Rating    int                `bson:"rating" json:"rating"`
	Comment   string             `bson:"comment" json:"comment"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

// UpsertReview returns reviews with the reviewer's entry replaced in place, or appended
// when the reviewer has none. replaced reports which happened.
func UpsertReview(reviews []Review, reviewer primitive.ObjectID, rating int, comment string, at time.Time) (out []Review, replaced bool) {
	out = make([]Review, len(reviews), len(reviews)+1)
	copy(out, reviews)

	for i := range out {
		if out[i].User == reviewer {
			out[i].Rating = rating
			out[i].Comment = comment
			out[i].CreatedAt = at
			return out, true
		}
	}

	return append(out, Review{
		ID:        primitive.NewObjectID(),
		User:      reviewer,
		Rating:    rating,
		Comment:   comment,
		CreatedAt: at,
	}), false
}

// AverageRating is the mean rating rounded to one decimal place, 0 for no reviews.
func AverageRating(reviews []Review) float64 {
	if len(reviews) == 0 {
		return 0
	}
	sum := 0
	for _, r := range reviews {
		sum += r.Rating
	}
	return math.Round(float64(sum)/float64(len(reviews))*10) / 10
}

// ReviewView is a review with the reviewer's display name resolved.
type ReviewView struct {
	ID        primitive.ObjectID `json:"_id"`
	User      ReviewAuthor       `json:"user"`
	Rating    int                `json:"rating"`
	Comment   string             `json:"comment"`
	CreatedAt time.Time          `json:"createdAt"`
}

type ReviewAuthor struct {
	ID   primitive.ObjectID `json:"_id"`
	Name string             `json:"name"`
}
