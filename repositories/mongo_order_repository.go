package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Madhav-Gupta-28/market-mate-backend-go/logging"
	"github.com/Madhav-Gupta-28/market-mate-backend-go/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoOrderRepository struct {
	client *mongo.Client
	orders *mongo.Collection
	users  *mongo.Collection
	// transactions requires a replica set or sharded cluster.
	transactions bool
}

func NewMongoOrderRepository(db *mongo.Database, transactions bool) *MongoOrderRepository {
	return &MongoOrderRepository{
		client:       db.Client(),
		orders:       db.Collection(OrdersCollection),
		users:        db.Collection(UsersCollection),
		transactions: transactions,
	}
}

func (r *MongoOrderRepository) Place(ctx context.Context, order *models.Order) error {
	if order.ID.IsZero() {
		order.ID = primitive.NewObjectID()
	}
	if !r.transactions {
		logging.Ctx(ctx).Warn().
			Str("order_id", order.ID.Hex()).
			Msg("placing order without a transaction, cart may survive a failed write")
		return r.place(ctx, order)
	}

	session, err := r.client.StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, r.place(sc, order)
	})
	return err
}

func (r *MongoOrderRepository) place(ctx context.Context, order *models.Order) error {
	if _, err := r.orders.InsertOne(ctx, order); err != nil {
		return err
	}

	// Only the ordered items leave the cart; anything added since the cart was read stays.
	result, err := r.users.UpdateOne(ctx, bson.M{"_id": order.User}, bson.M{
		"$pullAll": bson.M{"cart": order.ProductIDs()},
		"$set":     bson.M{"updatedAt": order.CreatedAt},
		"$inc": bson.M{"version": 1},
	})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("user %s: %w", order.User.Hex(), ErrNotFound)
	}
	return nil
}

func (r *MongoOrderRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Order, error) {
	var order models.Order
	if err := r.orders.FindOne(ctx, bson.M{"_id": id}).Decode(&order); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("order %s: %w", id.Hex(), ErrNotFound)
		}
		return nil, err
	}
	return &order, nil
}

func (r *MongoOrderRepository) FindByUser(ctx context.Context, user primitive.ObjectID) ([]models.Order, error) {
	cursor, err := r.orders.Find(ctx, bson.M{"user": user}, options.Find().SetSort(newestFirst))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	orders := []models.Order{}
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *MongoOrderRepository) UpdateStatus(ctx context.Context, id primitive.ObjectID, from, to models.OrderStatus, at time.Time) error {
	probe := models.Order{OrderStatus: from}
	if err := probe.Transition(to, at); err != nil {
		return err
	}

	set := bson.M{"orderStatus": to, "updatedAt": at}
	if probe.DeliveredAt != nil {
		set["deliveredAt"] = at
	}
	if probe.CancelledAt != nil {
		set["cancelledAt"] = at
	}

	result, err := r.orders.UpdateOne(ctx, bson.M{"_id": id, "orderStatus": from}, bson.M{"$set": set})
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
