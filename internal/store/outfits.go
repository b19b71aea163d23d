package store

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"outfitstore/internal/apperr"
	"outfitstore/internal/models"
)

var outfitSortFields = map[string]bool{
	"createdAt":     true,
	"updatedAt":     true,
	"totalPrice":    true,
	"clicks":        true,
	"likes":         true,
	"dislikes":      true,
	"rating":        true,
	"numberOfItems": true,
	"category":      true,
	"section":       true,
	"type":          true,
	"username":      true,
}

const recentWindow = 30 * 24 * time.Hour

type Outfits struct {
	coll *mongo.Collection
	now  func() time.Time
}

func NewOutfits(db *mongo.Database) *Outfits {
	return &Outfits{coll: db.Collection(OutfitsCollection), now: time.Now}
}

func (s *Outfits) Insert(ctx context.Context, o *models.Outfit) error {
	o.Recalculate(s.now())
	res, err := s.coll.InsertOne(ctx, o)
	if err != nil {
		return writeError(err, "outfit")
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		o.ID = id
	}
	return nil
}

func (s *Outfits) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Outfit, error) {
	var o models.Outfit
	if err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&o); err != nil {
		return nil, readError(err, "outfit")
	}
	return &o, nil
}

// IncrementClicks bumps the click counter and returns the updated document.
func (s *Outfits) IncrementClicks(ctx context.Context, id primitive.ObjectID) (*models.Outfit, error) {
	var o models.Outfit
	err := s.coll.FindOneAndUpdate(
		ctx,
		bson.M{"_id": id},
		bson.M{"$inc": bson.M{"clicks": 1}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&o)
	if err != nil {
		return nil, readError(err, "outfit")
	}
	return &o, nil
}

// Save replaces the stored outfit after refreshing its derived fields.
func (s *Outfits) Save(ctx context.Context, o *models.Outfit) error {
	o.Recalculate(s.now())
	res, err := s.coll.ReplaceOne(ctx, bson.M{"_id": o.ID}, o)
	if err != nil {
		return writeError(err, "outfit")
	}
	if res.MatchedCount == 0 {
		return apperr.NotFound("outfit not found")
	}
	return nil
}

func (s *Outfits) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return apperr.Internal("delete outfit", err)
	}
	if res.DeletedCount == 0 {
		return apperr.NotFound("outfit not found")
	}
	return nil
}

// visibilityFilter is the base filter before user-supplied filters.
func visibilityFilter(q models.OutfitQuery) bson.M {
	if q.IncludeInactive {
		return bson.M{}
	}
	return bson.M{"isActive": true}
}

// outfitFilter combines visibility with the optional filters.
func outfitFilter(q models.OutfitQuery) bson.M {
	filter := visibilityFilter(q)
	if q.IncludeInactive && q.IsActive != nil {
		filter["isActive"] = *q.IsActive
	}
	if q.UserID != "" {
		filter["userId"] = q.UserID
	}
	if q.Category != "" {
		filter["category"] = q.Category
	}
	if q.Section != "" {
		filter["section"] = q.Section
	}
	if q.Type != "" {
		filter["type"] = q.Type
	}
	if q.Search != "" {
		pattern := containsPattern(q.Search)
		filter["$or"] = []bson.M{
			{"username": pattern},
			{"description": pattern},
			{"tags": pattern},
			{"items.name": pattern},
			{"items.source": pattern},
		}
	}
	if q.From != nil || q.To != nil {
		created := bson.M{}
		if q.From != nil {
			created["$gte"] = *q.From
		}
		if q.To != nil {
			created["$lte"] = *q.To
		}
		filter["createdAt"] = created
	}
	return filter
}

func (s *Outfits) List(ctx context.Context, q models.OutfitQuery) (models.OutfitPage, error) {
	base := visibilityFilter(q)
	filter := outfitFilter(q)

	total, err := s.coll.CountDocuments(ctx, base)
	if err != nil {
		return models.OutfitPage{}, apperr.Internal("count outfits", err)
	}
	matched, err := s.coll.CountDocuments(ctx, filter)
	if err != nil {
		return models.OutfitPage{}, apperr.Internal("count outfits", err)
	}
	recentFilter := visibilityFilter(q)
	recentFilter["createdAt"] = bson.M{"$gte": s.now().Add(-recentWindow)}
	recent, err := s.coll.CountDocuments(ctx, recentFilter)
	if err != nil {
		return models.OutfitPage{}, apperr.Internal("count outfits", err)
	}

	cursor, err := s.coll.Find(ctx, filter, findOptions(q.Window, outfitSortFields, "createdAt"))
	if err != nil {
		return models.OutfitPage{}, apperr.Internal("list outfits", err)
	}
	defer cursor.Close(ctx)

	items := make([]models.Outfit, 0)
	if err := cursor.All(ctx, &items); err != nil {
		return models.OutfitPage{}, apperr.Internal("decode outfits", err)
	}

	return models.OutfitPage{
		Items:        items,
		TotalCount:   total,
		MatchedCount: matched,
		RecentCount:  recent,
		Offset:       q.Offset,
		Limit:        q.Limit,
	}, nil
}

// Trending returns the most clicked active outfits.
func (s *Outfits) Trending(ctx context.Context, limit int64) ([]models.Outfit, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "clicks", Value: -1}, {Key: "_id", Value: -1}}).
		SetLimit(limit)
	cursor, err := s.coll.Find(ctx, bson.M{"isActive": true}, opts)
	if err != nil {
		return nil, apperr.Internal("list trending outfits", err)
	}
	defer cursor.Close(ctx)

	outfits := make([]models.Outfit, 0)
	if err := cursor.All(ctx, &outfits); err != nil {
		return nil, apperr.Internal("decode outfits", err)
	}
	return outfits, nil
}

// ActiveStats returns the number of active outfits and the sum of their clicks.
func (s *Outfits) ActiveStats(ctx context.Context) (count, clicks int64, err error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"isActive": true}}},
		{{Key: "$group", Value: bson.M{
			"_id":    nil,
			"count":  bson.M{"$sum": 1},
			"clicks": bson.M{"$sum": "$clicks"},
		}}},
	}
	cursor, err := s.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, 0, apperr.Internal("aggregate outfits", err)
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Count  int64 `bson:"count"`
		Clicks int64 `bson:"clicks"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return 0, 0, apperr.Internal("decode outfit stats", err)
	}
	if len(rows) == 0 {
		return 0, 0, nil
	}
	return rows[0].Count, rows[0].Clicks, nil
}
