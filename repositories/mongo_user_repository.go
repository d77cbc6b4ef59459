package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Madhav-Gupta-28/market-mate-backend-go/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	UsersCollection    = "users"
	ProductsCollection = "products"
	OrdersCollection   = "orders"
	CarouselCollection = "carousels"
)

type MongoUserRepository struct {
	coll *mongo.Collection
}

func NewMongoUserRepository(db *mongo.Database) *MongoUserRepository {
	return &MongoUserRepository{coll: db.Collection(UsersCollection)}
}

func (r *MongoUserRepository) Create(ctx context.Context, user *models.User) error {
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	if _, err := r.coll.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("email %s: %w", user.Email, ErrDuplicate)
		}
		return err
	}
	return nil
}

func (r *MongoUserRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *MongoUserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *MongoUserRepository) findOne(ctx context.Context, filter bson.M) (*models.User, error) {
	var user models.User
	if err := r.coll.FindOne(ctx, filter).Decode(&user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("user: %w", ErrNotFound)
		}
		return nil, err
	}
	return &user, nil
}

func (r *MongoUserRepository) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error) {
	if len(ids) == 0 {
		return []models.User{}, nil
	}
	return r.find(ctx, bson.M{"_id": bson.M{"$in": ids}}, nil)
}

func (r *MongoUserRepository) List(ctx context.Context) ([]models.User, error) {
	return r.find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
}

func (r *MongoUserRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.User, error) {
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	users := []models.User{}
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (r *MongoUserRepository) UpdateProfile(ctx context.Context, id primitive.ObjectID, update ProfileUpdate) error {
	set := bson.M{"updatedAt": time.Now()}
	if update.Name != nil {
		set["name"] = *update.Name
	}
	if update.Email != nil {
		set["email"] = *update.Email
	}
	if update.PasswordHash != nil {
		set["password"] = *update.PasswordHash
	}

	err := r.updateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set, "$inc": bson.M{"version": 1}})
	if mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("email: %w", ErrDuplicate)
	}
	return err
}

func (r *MongoUserRepository) SetCompany(ctx context.Context, id primitive.ObjectID, company models.Company) error {
	return r.updateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{"company": company, "isSeller": true, "updatedAt": time.Now()},
		"$inc": bson.M{"version": 1},
	})
}

func (r *MongoUserRepository) SaveAddresses(ctx context.Context, id primitive.ObjectID, version int64, addresses []models.Address) error {
	result, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": id, "version": version},
		bson.M{
			"$set": bson.M{"addresses": addresses, "updatedAt": time.Now()},
			"$inc": bson.M{"version": 1},
		},
	)
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

func (r *MongoUserRepository) AddToCart(ctx context.Context, id, productID primitive.ObjectID) error {
	return r.addToSet(ctx, id, "cart", productID)
}

func (r *MongoUserRepository) RemoveFromCart(ctx context.Context, id, productID primitive.ObjectID) error {
	return r.pullPresent(ctx, id, "cart", productID)
}

func (r *MongoUserRepository) AddToWishlist(ctx context.Context, id, productID primitive.ObjectID) error {
	return r.addToSet(ctx, id, "wishlist", productID)
}

func (r *MongoUserRepository) RemoveFromWishlist(ctx context.Context, id, productID primitive.ObjectID) error {
	return r.pullPresent(ctx, id, "wishlist", productID)
}

func (r *MongoUserRepository) AddSellingProduct(ctx context.Context, id, productID primitive.ObjectID) error {
	return r.addToSet(ctx, id, "sellingProducts", productID)
}

func (r *MongoUserRepository) RemoveSellingProduct(ctx context.Context, id, productID primitive.ObjectID) error {
	return r.updateOne(ctx, bson.M{"_id": id}, bson.M{
		"$pull": bson.M{"sellingProducts": productID},
		"$inc":  bson.M{"version": 1},
	})
}

func (r *MongoUserRepository) addToSet(ctx context.Context, id primitive.ObjectID, field string, productID primitive.ObjectID) error {
	return r.updateOne(ctx, bson.M{"_id": id}, bson.M{
		"$addToSet": bson.M{field: productID},
		"$set":      bson.M{"updatedAt": time.Now()},
		"$inc":      bson.M{"version": 1},
	})
}

// pullPresent removes productID from field, reporting ErrNotFound when the user does not
// hold it.
func (r *MongoUserRepository) pullPresent(ctx context.Context, id primitive.ObjectID, field string, productID primitive.ObjectID) error {
	result, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": id, field: productID},
		bson.M{
			"$pull": bson.M{field: productID},
			"$set":  bson.M{"updatedAt": time.Now()},
			"$inc":  bson.M{"version": 1},
		},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("product %s in %s: %w", productID.Hex(), field, ErrNotFound)
	}
	return nil
}

func (r *MongoUserRepository) updateOne(ctx context.Context, filter, update bson.M) error {
	result, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("user: %w", ErrNotFound)
	}
	return nil
}
