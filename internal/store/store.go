// Package store persists each aggregate as a single Mongo document. Every
// write replaces the whole document; there is no version check, so the last
// writer wins.
package store

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"outfitstore/internal/apperr"
	"outfitstore/internal/models"
)

const (
	UsersCollection        = "users"
	OutfitsCollection      = "outfits"
	CartsCollection        = "carts"
	TestimonialsCollection = "testimonials"
)

func readError(err error, what string) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return apperr.NotFound("%s not found", what)
	}
	return apperr.Internal(fmt.Sprintf("load %s", what), err)
}

func writeError(err error, what string) error {
	if mongo.IsDuplicateKeyError(err) {
		return apperr.Conflict("%s already exists", what)
	}
	return apperr.Internal(fmt.Sprintf("save %s", what), err)
}

// findOptions turns a window into skip/limit/sort, falling back to
// defaultField when the requested field is not sortable.
func findOptions(w models.Window, sortable map[string]bool, defaultField string) *options.FindOptions {
	field := w.SortField
	if !sortable[field] {
		field = defaultField
	}
	dir := w.SortDir
	if dir != models.SortAsc {
		dir = models.SortDesc
	}
	opts := options.Find().
		SetSort(bson.D{{Key: field, Value: int(dir)}, {Key: "_id", Value: int(dir)}}).
		SetSkip(w.Offset)
	if w.Limit > 0 {
		opts.SetLimit(w.Limit)
	}
	return opts
}

func containsPattern(search string) bson.M {
	return bson.M{"$regex": regexp.QuoteMeta(strings.TrimSpace(search)), "$options": "i"}
}
