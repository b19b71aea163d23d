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

type Users struct {
	coll *mongo.Collection
	now  func() time.Time
}

func NewUsers(db *mongo.Database) *Users {
	return &Users{coll: db.Collection(UsersCollection), now: time.Now}
}

func (s *Users) Insert(ctx context.Context, u *models.User) error {
	res, err := s.coll.InsertOne(ctx, u)
	if err != nil {
		return writeError(err, "user")
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		u.ID = id
	}
	return nil
}

func (s *Users) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	return s.findOne(ctx, bson.M{"_id": id})
}

func (s *Users) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.findOne(ctx, bson.M{"email": models.NormalizeEmail(email)})
}

func (s *Users) findOne(ctx context.Context, filter bson.M) (*models.User, error) {
	var u models.User
	if err := s.coll.FindOne(ctx, filter).Decode(&u); err != nil {
		return nil, readError(err, "user")
	}
	return &u, nil
}

// Taken reports whether another account already uses username or email.
func (s *Users) Taken(ctx context.Context, username, email string, except primitive.ObjectID) (bool, error) {
	filter := bson.M{"$or": []bson.M{
		{"username": username},
		{"email": models.NormalizeEmail(email)},
	}}
	if !except.IsZero() {
		filter["_id"] = bson.M{"$ne": except}
	}
	count, err := s.coll.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, apperr.Internal("check user uniqueness", err)
	}
	return count > 0, nil
}

func (s *Users) Save(ctx context.Context, u *models.User) error {
	u.UpdatedAt = s.now()
	res, err := s.coll.ReplaceOne(ctx, bson.M{"_id": u.ID}, u)
	if err != nil {
		return writeError(err, "user")
	}
	if res.MatchedCount == 0 {
		return apperr.NotFound("user not found")
	}
	return nil
}

func (s *Users) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return apperr.Internal("delete user", err)
	}
	if res.DeletedCount == 0 {
		return apperr.NotFound("user not found")
	}
	return nil
}

func (s *Users) List(ctx context.Context, w models.Window, search string) (models.UserPage, error) {
	filter := bson.M{}
	if search != "" {
		pattern := containsPattern(search)
		filter["$or"] = []bson.M{
			{"username": pattern},
			{"email": pattern},
			{"fullName": pattern},
		}
	}
	total, err := s.coll.CountDocuments(ctx, filter)
	if err != nil {
		return models.UserPage{}, apperr.Internal("count users", err)
	}
	sortable := map[string]bool{"createdAt": true, "username": true, "email": true}
	cursor, err := s.coll.Find(ctx, filter, findOptions(w, sortable, "createdAt"))
	if err != nil {
		return models.UserPage{}, apperr.Internal("list users", err)
	}
	defer cursor.Close(ctx)

	items := make([]models.User, 0)
	if err := cursor.All(ctx, &items); err != nil {
		return models.UserPage{}, apperr.Internal("decode users", err)
	}
	return models.UserPage{Items: items, TotalCount: total, Offset: w.Offset, Limit: w.Limit}, nil
}
