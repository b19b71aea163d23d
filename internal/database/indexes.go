package database

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"outfitstore/internal/store"
)

type collectionIndexes struct {
	collection string
	models     []mongo.IndexModel
}

func indexPlan() []collectionIndexes {
	return []collectionIndexes{
		{
			collection: store.UsersCollection,
			models: []mongo.IndexModel{
				{
					Keys:    bson.D{{Key: "email", Value: 1}},
					Options: options.Index().SetName("email_unique").SetUnique(true),
				},
				{
					Keys:    bson.D{{Key: "username", Value: 1}},
					Options: options.Index().SetName("username_unique").SetUnique(true),
				},
			},
		},
		{
			collection: store.CartsCollection,
			models: []mongo.IndexModel{
				{
					Keys:    bson.D{{Key: "userId", Value: 1}},
					Options: options.Index().SetName("userId_unique").SetUnique(true),
				},
			},
		},
		{
			collection: store.OutfitsCollection,
			models: []mongo.IndexModel{
				{
					Keys:    bson.D{{Key: "isActive", Value: 1}, {Key: "clicks", Value: -1}},
					Options: options.Index().SetName("active_clicks"),
				},
				{
					Keys:    bson.D{{Key: "isActive", Value: 1}, {Key: "createdAt", Value: -1}},
					Options: options.Index().SetName("active_createdAt"),
				},
			},
		},
		{
			collection: store.TestimonialsCollection,
			models: []mongo.IndexModel{
				{
					Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "isActive", Value: 1}},
					Options: options.Index().SetName("userId_active"),
				},
				{
					Keys:    bson.D{{Key: "isApproved", Value: 1}, {Key: "displayOrder", Value: 1}},
					Options: options.Index().SetName("approved_order"),
				},
			},
		},
	}
}

// EnsureIndexes creates every index the stores rely on. Failures are
// collected per collection so one bad index does not hide the others.
func EnsureIndexes(db *mongo.Database, log logrus.FieldLogger) error {
	var firstErr error
	for _, plan := range indexPlan() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		names, err := db.Collection(plan.collection).Indexes().CreateMany(ctx, plan.models)
		cancel()

		entry := log.WithField("collection", plan.collection)
		if err != nil {
			entry.WithError(err).Warn("index creation failed")
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		entry.WithField("indexes", names).Info("indexes ensured")
	}
	return firstErr
}
