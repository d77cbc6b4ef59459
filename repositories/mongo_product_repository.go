package repositories

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/Madhav-Gupta-28/market-mate-backend-go/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoProductRepository struct {
	coll *mongo.Collection
}

func NewMongoProductRepository(db *mongo.Database) *MongoProductRepository {
	return &MongoProductRepository{coll: db.Collection(ProductsCollection)}
}

var newestFirst = bson.D{{Key: "createdAt", Value: -1}}

func (r *MongoProductRepository) Create(ctx context.Context, product *models.Product) error {
	if product.ID.IsZero() {
		product.ID = primitive.NewObjectID()
	}
	if _, err := r.coll.InsertOne(ctx, product); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("product %s: %w", product.ID.Hex(), ErrDuplicate)
		}
		return err
	}
	return nil
}

func (r *MongoProductRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	var product models.Product
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&product); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("product %s: %w", id.Hex(), ErrNotFound)
		}
		return nil, err
	}
	return &product, nil
}

func (r *MongoProductRepository) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Product, error) {
	if len(ids) == 0 {
		return []models.Product{}, nil
	}
	return r.find(ctx, bson.M{"_id": bson.M{"$in": ids}})
}

func (r *MongoProductRepository) FindByOwner(ctx context.Context, owner primitive.ObjectID) ([]models.Product, error) {
	return r.find(ctx, bson.M{"owner": owner})
}

func (r *MongoProductRepository) List(ctx context.Context) ([]models.Product, error) {
	return r.find(ctx, bson.M{})
}

func (r *MongoProductRepository) Filter(ctx context.Context, filter models.ProductFilter) ([]models.Product, error) {
	return r.find(ctx, productFilterQuery(filter))
}

func (r *MongoProductRepository) Search(ctx context.Context, query string) ([]models.Product, error) {
	pattern := containsPattern(strings.TrimSpace(query))
	return r.find(ctx, bson.M{"$or": bson.A{
		bson.M{"title": pattern},
		bson.M{"category": pattern},
		bson.M{"subCategory": pattern},
		bson.M{"description": pattern},
	}})
}

// productFilterQuery translates filter into the same predicate ProductFilter.Matches
// applies in memory. User input is escaped before it reaches a regex.
func productFilterQuery(filter models.ProductFilter) bson.M {
	query := bson.M{}
	if filter.Title != "" {
		query["title"] = containsPattern(filter.Title)
	}
	if filter.Description != "" {
		query["description"] = containsPattern(filter.Description)
	}
	if filter.Category != "" {
		query["category"] = exactPattern(filter.Category)
	}
	if filter.SubCategory != "" {
		query["subCategory"] = exactPattern(filter.SubCategory)
	}
	if filter.Specs != "" {
		query["specs.value"] = containsPattern(filter.Specs)
	}

	price := bson.M{}
	if filter.MinPrice != nil {
		price["$gte"] = *filter.MinPrice
	}
	if filter.MaxPrice != nil {
		price["$lte"] = *filter.MaxPrice
	}
	if len(price) > 0 {
		query["price"] = price
	}

	if filter.DiscountOnly {
		query["discount"] = bson.M{"$gt": 0}
	}
	if filter.Target != "" {
		query["target"] = exactPattern(string(filter.Target))
	}
	return query
}

func containsPattern(s string) primitive.Regex {
	return primitive.Regex{Pattern: regexp.QuoteMeta(s), Options: "i"}
}

func exactPattern(s string) primitive.Regex {
	return primitive.Regex{Pattern: "^" + regexp.QuoteMeta(s) + "$", Options: "i"}
}

func (r *MongoProductRepository) find(ctx context.Context, filter bson.M) ([]models.Product, error) {
	cursor, err := r.coll.Find(ctx, filter, options.Find().SetSort(newestFirst))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	products := []models.Product{}
	if err := cursor.All(ctx, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (r *MongoProductRepository) Update(ctx context.Context, product *models.Product) error {
	set := bson.M{
		"title":       product.Title,
		"description": product.Description,
		"category":    product.Category,
		"subCategory": product.SubCategory,
		"price":       product.Price,
		"discount":    product.Discount,
		"specs":       product.Specs,
		"offers":      product.Offers,
		"image":       product.Image,
		"updatedAt":   product.UpdatedAt,
	}
	update := bson.M{"$set": set, "$inc": bson.M{"version": 1}}
	if product.Target == "" {
		update["$unset"] = bson.M{"target": ""}
	} else {
		set["target"] = product.Target
	}

	if err := r.casUpdate(ctx, product.ID, product.Version, update); err != nil {
		return err
	}
	product.Version++
	return nil
}

func (r *MongoProductRepository) SaveReviews(ctx context.Context, id primitive.ObjectID, version int64, reviews []models.Review, average float64) error {
	return r.casUpdate(ctx, id, version, bson.M{
		"$set": bson.M{"reviews": reviews, "averageRating": average, "updatedAt": time.Now()},
		"$inc": bson.M{"version": 1},
	})
}

// casUpdate applies update only while the product is still at version.
func (r *MongoProductRepository) casUpdate(ctx context.Context, id primitive.ObjectID, version int64, update bson.M) error {
	result, err := r.coll.UpdateOne(ctx, bson.M{"_id": id, "version": version}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		if _, err := r.FindByID(ctx, id); err != nil {
			return err
		}
		return ErrConflict
	}
	return nil
}

func (r *MongoProductRepository) Delete(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	var product models.Product
	if err := r.coll.FindOneAndDelete(ctx, bson.M{"_id": id}).Decode(&product); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("product %s: %w", id.Hex(), ErrNotFound)
		}
		return nil, err
	}
	return &product, nil
}
