package orders

import (
	"context"
	"errors"

	"verbena/db"
	"verbena/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoRepo stores each order as its own document, keyed by order id.
type MongoRepo struct {
	coll *mongo.Collection
}

func NewMongoRepo() *MongoRepo {
	return &MongoRepo{coll: db.OrderCollection}
}

func (r *MongoRepo) Insert(ctx context.Context, o models.Order) error {
	_, err := r.coll.InsertOne(ctx, o)
	return err
}

func (r *MongoRepo) FindByID(ctx context.Context, orderID string) (models.Order, error) {
	var o models.Order
	err := r.coll.FindOne(ctx, bson.M{"_id": orderID}).Decode(&o)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Order{}, ErrOrderNotFound
	}
	if err != nil {
		return models.Order{}, err
	}
	return o, nil
}
