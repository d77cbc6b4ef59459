package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestUpsertReview_SecondSubmissionOverwrites(t *testing.T) {
	u1 := primitive.NewObjectID()
	t0 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	reviews, replaced := UpsertReview(nil, u1, 4, "good", t0)
	assert.False(t, replaced)
	reviews, replaced = UpsertReview(reviews, u1, 2, "meh", t0.Add(time.Hour))
	assert.True(t, replaced)

	require.Len(t, reviews, 1)
	assert.Equal(t, 2, reviews[0].Rating)
	assert.Equal(t, "meh", reviews[0].Comment)
	assert.Equal(t, t0.Add(time.Hour), reviews[0].CreatedAt)
	assert.Equal(t, 2.0, AverageRating(reviews))
}

func TestUpsertReview_KeepsPositionAndInput(t *testing.T) {
	u1, u2, u3 := primitive.NewObjectID(), primitive.NewObjectID(), primitive.NewObjectID()
	now := time.Now()
	reviews := []Review{
		{User: u1, Rating: 5},
		{User: u2, Rating: 3},
		{User: u3, Rating: 1},
	}

	out, _ := UpsertReview(reviews, u2, 4, "changed", now)

	assert.Equal(t, u2, out[1].User)
	assert.Equal(t, 4, out[1].Rating)
	assert.Equal(t, 3, reviews[1].Rating, "input must not be mutated")
}

func TestAverageRating(t *testing.T) {
	tests := []struct {
		name    string
		ratings []int
		want    float64
	}{
		{"none", nil, 0},
		{"single", []int{4}, 4},
		{"two", []int{4, 5}, 4.5},
		{"thirds round down", []int{4, 4, 5}, 4.3},
		{"thirds round up", []int{5, 5, 4}, 4.7},
		{"all ones", []int{1, 1, 1, 1}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var reviews []Review
			for _, r := range tt.ratings {
				reviews = append(reviews, Review{User: primitive.NewObjectID(), Rating: r})
			}
			assert.Equal(t, tt.want, AverageRating(reviews))
		})
	}
}
