package cart

import (
	"context"
	"errors"
	"log"

	"verbena/db"
	"verbena/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsoncodec"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoRepo keys carts by user id, one document each, replaced whole on
// every mutation.
type MongoRepo struct {
	coll *mongo.Collection
}

func NewMongoRepo() *MongoRepo {
	return &MongoRepo{coll: db.CartCollection}
}

func (r *MongoRepo) Get(ctx context.Context, userID string) (models.Cart, error) {
	var c models.Cart
	err := r.coll.FindOne(ctx, bson.M{"_id": userID}).Decode(&c)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Cart{UserID: userID}, nil
		}
		// A document that no longer decodes is treated as an empty cart
		// rather than a fatal condition.
		var decodeErr *bsoncodec.DecodeError
		if errors.As(err, &decodeErr) {
			log.Printf("cart: corrupted document for user %s, treating as empty: %v", userID, err)
			return models.Cart{UserID: userID}, nil
		}
		return models.Cart{}, err
	}
	return c, nil
}

func (r *MongoRepo) Save(ctx context.Context, c models.Cart) error {
	_, err := r.coll.ReplaceOne(ctx,
		bson.M{"_id": c.UserID},
		c,
		options.Replace().SetUpsert(true),
	)
	return err
}
