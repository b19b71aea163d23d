// Package services implements the storefront operations. Each mutating call
// loads one aggregate, changes it in memory and saves the whole document.
// Concurrent calls on the same aggregate are not coordinated.
package services

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"outfitstore/internal/models"
)

const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100
)

type OutfitStore interface {
	Insert(ctx context.Context, o *models.Outfit) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Outfit, error)
	IncrementClicks(ctx context.Context, id primitive.ObjectID) (*models.Outfit, error)
	Save(ctx context.Context, o *models.Outfit) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	List(ctx context.Context, q models.OutfitQuery) (models.OutfitPage, error)
	Trending(ctx context.Context, limit int64) ([]models.Outfit, error)
	ActiveStats(ctx context.Context) (count, clicks int64, err error)
}

type CartStore interface {
	FindByUser(ctx context.Context, user models.UserRef) (*models.Cart, error)
	Save(ctx context.Context, cart *models.Cart) error
}

type TestimonialStore interface {
	Insert(ctx context.Context, t *models.Testimonial) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Testimonial, error)
	FindActiveByUser(ctx context.Context, user models.UserRef) (*models.Testimonial, error)
	Save(ctx context.Context, t *models.Testimonial) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	List(ctx context.Context, q models.TestimonialQuery) (models.TestimonialPage, error)
	SetDisplayOrder(ctx context.Context, id primitive.ObjectID, order int) error
}

type UserStore interface {
	Insert(ctx context.Context, u *models.User) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Taken(ctx context.Context, username, email string, except primitive.ObjectID) (bool, error)
	Save(ctx context.Context, u *models.User) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	List(ctx context.Context, w models.Window, search string) (models.UserPage, error)
}

// ImageStore deletes stored images by reference.
type ImageStore interface {
	Delete(ref string) error
}

// clampWindow applies the default and maximum page sizes.
func clampWindow(w models.Window) models.Window {
	if w.Offset < 0 {
		w.Offset = 0
	}
	if w.Limit <= 0 {
		w.Limit = DefaultPageLimit
	}
	if w.Limit > MaxPageLimit {
		w.Limit = MaxPageLimit
	}
	return w
}

type clock func() time.Time

func (c clock) now() time.Time {
	if c == nil {
		return time.Now().UTC()
	}
	return c()
}
