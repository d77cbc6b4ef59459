package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Madhav-Gupta-28/market-mate-backend-go/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// CarouselSingletonKey is stored on the carousel document under a unique index so a
// second insert fails with a duplicate key error.
const CarouselSingletonKey = "homepage"

type carouselDocument struct {
	models.Carousel `bson:",inline"`
	Singleton       string `bson:"singleton"`
}

type MongoCarouselRepository struct {
	coll *mongo.Collection
}

func NewMongoCarouselRepository(db *mongo.Database) *MongoCarouselRepository {
	return &MongoCarouselRepository{coll: db.Collection(CarouselCollection)}
}

func (r *MongoCarouselRepository) Get(ctx context.Context) (*models.Carousel, error) {
	var doc carouselDocument
	if err := r.coll.FindOne(ctx, bson.M{"singleton": CarouselSingletonKey}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("carousel: %w", ErrNotFound)
		}
		return nil, err
	}
	return &doc.Carousel, nil
}

func (r *MongoCarouselRepository) Create(ctx context.Context, carousel *models.Carousel) error {
	if carousel.ID.IsZero() {
		carousel.ID = primitive.NewObjectID()
	}
	doc := carouselDocument{Carousel: *carousel, Singleton: CarouselSingletonKey}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("carousel: %w", ErrDuplicate)
		}
		return err
	}
	return nil
}

// Replace writes carousel only while the stored document is still at carousel.Version.
func (r *MongoCarouselRepository) Replace(ctx context.Context, carousel *models.Carousel) error {
	doc := carouselDocument{Carousel: *carousel, Singleton: CarouselSingletonKey}
	doc.Version++
	result, err := r.coll.ReplaceOne(ctx, bson.M{"_id": carousel.ID, "version": carousel.Version}, doc)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		err := r.coll.FindOne(ctx, bson.M{"_id": carousel.ID}).Err()
		if errors.Is(err, mongo.ErrNoDocuments) {
			return fmt.Errorf("carousel %s: %w", carousel.ID.Hex(), ErrNotFound)
		}
		if err != nil {
			return err
		}
		return ErrConflict
	}
	carousel.Version = doc.Version
	return nil
}

func (r *MongoCarouselRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("carousel %s: %w", id.Hex(), ErrNotFound)
	}
	return nil
}
