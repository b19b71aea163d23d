package models

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"outfitstore/internal/apperr"
)

const (
	MinTestimonialRating = 1
	MaxTestimonialRating = 5
	MaxTestimonialTitle  = 100
	MaxTestimonialBody   = 1000
	MaxTestimonialExtra  = 100
)

// Testimonial is a moderated customer review of the store.
type Testimonial struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID       UserRef            `bson:"userId" json:"userId"`
	Name         string             `bson:"name" json:"name"`
	Avatar       string             `bson:"avatar" json:"avatar"`
	Rating       int                `bson:"rating" json:"rating"`
	Title        string             `bson:"title" json:"title"`
	Content      string             `bson:"content" json:"content"`
	Location     string             `bson:"location,omitempty" json:"location,omitempty"`
	Occupation   string             `bson:"occupation,omitempty" json:"occupation,omitempty"`
	IsApproved   bool               `bson:"isApproved" json:"isApproved"`
	IsFeatured   bool               `bson:"isFeatured" json:"isFeatured"`
	IsActive     bool               `bson:"isActive" json:"isActive"`
	ApprovedBy   UserRef            `bson:"approvedBy,omitempty" json:"approvedBy,omitempty"`
	ApprovedAt   *time.Time         `bson:"approvedAt,omitempty" json:"approvedAt,omitempty"`
	LikedBy      []UserRef          `bson:"likedBy" json:"-"`
	Likes        int                `bson:"likes" json:"likes"`
	DisplayOrder int                `bson:"displayOrder" json:"displayOrder"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}

type TestimonialInput struct {
	Rating     int
	Title      string
	Content    string
	Location   string
	Occupation string
}

func validateTestimonialFields(rating int, title, content, location, occupation string) error {
	if rating < MinTestimonialRating || rating > MaxTestimonialRating {
		return apperr.Validation("rating must be between 1 and 5")
	}
	if title == "" {
		return apperr.Validation("title is required")
	}
	if len([]rune(title)) > MaxTestimonialTitle {
		return apperr.Validation("title must be at most %d characters", MaxTestimonialTitle)
	}
	if content == "" {
		return apperr.Validation("content is required")
	}
	if len([]rune(content)) > MaxTestimonialBody {
		return apperr.Validation("content must be at most %d characters", MaxTestimonialBody)
	}
	if len([]rune(location)) > MaxTestimonialExtra || len([]rune(occupation)) > MaxTestimonialExtra {
		return apperr.Validation("location and occupation must be at most %d characters", MaxTestimonialExtra)
	}
	return nil
}

// NewTestimonial builds a pending testimonial for author.
func NewTestimonial(author *User, in TestimonialInput, now time.Time) (*Testimonial, error) {
	t := &Testimonial{
		UserID:     UserRefOf(author.ID),
		Name:       author.DisplayName(),
		Avatar:     author.ProfilePicture,
		Rating:     in.Rating,
		Title:      strings.TrimSpace(in.Title),
		Content:    strings.TrimSpace(in.Content),
		Location:   strings.TrimSpace(in.Location),
		Occupation: strings.TrimSpace(in.Occupation),
		IsActive:   true,
		LikedBy:    []UserRef{},
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := validateTestimonialFields(t.Rating, t.Title, t.Content, t.Location, t.Occupation); err != nil {
		return nil, err
	}
	return t, nil
}

// TestimonialEdit holds optional changes. The moderation fields are honored
// only for admins.
type TestimonialEdit struct {
	Rating       *int
	Title        *string
	Content      *string
	Location     *string
	Occupation   *string
	IsApproved   *bool
	IsFeatured   *bool
	DisplayOrder *int
}

// ApplyEdit merges edit on behalf of actor. When the owner (not acting as an
// admin) changes rating, title or content the testimonial goes back to pending.
func (t *Testimonial) ApplyEdit(edit TestimonialEdit, actor Actor, now time.Time) error {
	if !actor.CanModify(t.UserID) {
		return apperr.Permission("only the author or an admin can edit this testimonial")
	}
	if !actor.IsAdmin && (edit.IsApproved != nil || edit.IsFeatured != nil || edit.DisplayOrder != nil) {
		return apperr.Permission("only an admin can change moderation fields")
	}

	next := *t
	contentChanged := false
	if edit.Rating != nil && *edit.Rating != t.Rating {
		next.Rating = *edit.Rating
		contentChanged = true
	}
	if edit.Title != nil {
		if title := strings.TrimSpace(*edit.Title); title != t.Title {
			next.Title = title
			contentChanged = true
		}
	}
	if edit.Content != nil {
		if content := strings.TrimSpace(*edit.Content); content != t.Content {
			next.Content = content
			contentChanged = true
		}
	}
	if edit.Location != nil {
		next.Location = strings.TrimSpace(*edit.Location)
	}
	if edit.Occupation != nil {
		next.Occupation = strings.TrimSpace(*edit.Occupation)
	}
	if err := validateTestimonialFields(next.Rating, next.Title, next.Content, next.Location, next.Occupation); err != nil {
		return err
	}

	if actor.IsAdmin {
		if edit.IsApproved != nil {
			next.setApproval(*edit.IsApproved, actor.UserID, now)
		}
		if edit.IsFeatured != nil {
			next.IsFeatured = *edit.IsFeatured
		}
		if edit.DisplayOrder != nil {
			next.DisplayOrder = *edit.DisplayOrder
		}
	} else if contentChanged {
		next.setApproval(false, "", now)
	}

	next.UpdatedAt = now
	*t = next
	return nil
}

func (t *Testimonial) setApproval(approved bool, by UserRef, now time.Time) {
	t.IsApproved = approved
	if approved {
		at := now
		t.ApprovedBy = by
		t.ApprovedAt = &at
		return
	}
	t.ApprovedBy = ""
	t.ApprovedAt = nil
}

// Approve moves a pending testimonial to approved.
func (t *Testimonial) Approve(admin Actor, approved bool, now time.Time) error {
	if err := admin.RequireAdmin(); err != nil {
		return err
	}
	t.setApproval(approved, admin.UserID, now)
	t.UpdatedAt = now
	return nil
}

// ToggleLike adds or removes user from the like set.
func (t *Testimonial) ToggleLike(user UserRef) (liked bool) {
	for i, u := range t.LikedBy {
		if u == user {
			t.LikedBy = append(t.LikedBy[:i], t.LikedBy[i+1:]...)
			t.Likes = len(t.LikedBy)
			return false
		}
	}
	t.LikedBy = append(t.LikedBy, user)
	t.Likes = len(t.LikedBy)
	return true
}

// VisibleTo reports whether actor may read the testimonial.
func (t *Testimonial) VisibleTo(actor Actor) bool {
	if actor.CanModify(t.UserID) {
		return true
	}
	return t.IsApproved && t.IsActive
}
