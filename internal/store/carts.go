package store

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"outfitstore/internal/models"
)

type Carts struct {
	coll *mongo.Collection
	now  func() time.Time
}

func NewCarts(db *mongo.Database) *Carts {
	return &Carts{coll: db.Collection(CartsCollection), now: time.Now}
}

func (s *Carts) FindByUser(ctx context.Context, user models.UserRef) (*models.Cart, error) {
	var cart models.Cart
	if err := s.coll.FindOne(ctx, bson.M{"userId": user}).Decode(&cart); err != nil {
		return nil, readError(err, "cart")
	}
	return &cart, nil
}

// Save upserts the cart keyed by user after recomputing its rollups.
func (s *Carts) Save(ctx context.Context, cart *models.Cart) error {
	cart.Recalculate(s.now())
	res, err := s.coll.ReplaceOne(
		ctx,
		bson.M{"userId": cart.UserID},
		cart,
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return writeError(err, "cart")
	}
	if id, ok := res.UpsertedID.(primitive.ObjectID); ok {
		cart.ID = id
	}
	return nil
}
