package store

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"outfitstore/internal/apperr"
	"outfitstore/internal/models"
)

var testimonialSortFields = map[string]bool{
	"displayOrder": true,
	"rating":       true,
	"likes":        true,
	"createdAt":    true,
	"updatedAt":    true,
}

type Testimonials struct {
	coll *mongo.Collection
	now  func() time.Time
}

func NewTestimonials(db *mongo.Database) *Testimonials {
	return &Testimonials{coll: db.Collection(TestimonialsCollection), now: time.Now}
}

func (s *Testimonials) Insert(ctx context.Context, t *models.Testimonial) error {
	res, err := s.coll.InsertOne(ctx, t)
	if err != nil {
		return writeError(err, "testimonial")
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		t.ID = id
	}
	return nil
}

func (s *Testimonials) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Testimonial, error) {
	var t models.Testimonial
	if err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&t); err != nil {
		return nil, readError(err, "testimonial")
	}
	return &t, nil
}

// FindActiveByUser returns the user's active testimonial, if any.
func (s *Testimonials) FindActiveByUser(ctx context.Context, user models.UserRef) (*models.Testimonial, error) {
	var t models.Testimonial
	if err := s.coll.FindOne(ctx, bson.M{"userId": user, "isActive": true}).Decode(&t); err != nil {
		return nil, readError(err, "testimonial")
	}
	return &t, nil
}

func (s *Testimonials) Save(ctx context.Context, t *models.Testimonial) error {
	t.Likes = len(t.LikedBy)
	res, err := s.coll.ReplaceOne(ctx, bson.M{"_id": t.ID}, t)
	if err != nil {
		return writeError(err, "testimonial")
	}
	if res.MatchedCount == 0 {
		return apperr.NotFound("testimonial not found")
	}
	return nil
}

func (s *Testimonials) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return apperr.Internal("delete testimonial", err)
	}
	if res.DeletedCount == 0 {
		return apperr.NotFound("testimonial not found")
	}
	return nil
}

func testimonialFilter(q models.TestimonialQuery) bson.M {
	filter := bson.M{}
	if q.ApprovedOnly {
		filter["isApproved"] = true
		filter["isActive"] = true
	}
	if q.ActiveOnly {
		filter["isActive"] = true
	}
	if q.Approved != nil {
		filter["isApproved"] = *q.Approved
	}
	if q.Featured != nil {
		filter["isFeatured"] = *q.Featured
	}
	return filter
}

func (s *Testimonials) List(ctx context.Context, q models.TestimonialQuery) (models.TestimonialPage, error) {
	filter := testimonialFilter(q)
	total, err := s.coll.CountDocuments(ctx, filter)
	if err != nil {
		return models.TestimonialPage{}, apperr.Internal("count testimonials", err)
	}

	opts := findOptions(q.Window, testimonialSortFields, "displayOrder")
	if q.SortField == "" || !testimonialSortFields[q.SortField] {
		opts.SetSort(bson.D{{Key: "displayOrder", Value: 1}, {Key: "createdAt", Value: -1}})
	}
	cursor, err := s.coll.Find(ctx, filter, opts)
	if err != nil {
		return models.TestimonialPage{}, apperr.Internal("list testimonials", err)
	}
	defer cursor.Close(ctx)

	items := make([]models.Testimonial, 0)
	if err := cursor.All(ctx, &items); err != nil {
		return models.TestimonialPage{}, apperr.Internal("decode testimonials", err)
	}
	return models.TestimonialPage{Items: items, TotalCount: total, Offset: q.Offset, Limit: q.Limit}, nil
}

// SetDisplayOrder updates one testimonial's order in place.
func (s *Testimonials) SetDisplayOrder(ctx context.Context, id primitive.ObjectID, order int) error {
	res, err := s.coll.UpdateByID(ctx, id, bson.M{
		"$set": bson.M{"displayOrder": order, "updatedAt": s.now()},
	})
	if err != nil {
		return apperr.Internal("update testimonial order", err)
	}
	if res.MatchedCount == 0 {
		return apperr.NotFound("testimonial not found")
	}
	return nil
}
