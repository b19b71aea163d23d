package services

import (
	"context"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"outfitstore/internal/apperr"
	"outfitstore/internal/models"
)

type TestimonialService struct {
	testimonials TestimonialStore
	users        UserStore
	log          logrus.FieldLogger
	clock        clock
}

func NewTestimonialService(testimonials TestimonialStore, users UserStore, log logrus.FieldLogger) *TestimonialService {
	return &TestimonialService{
		testimonials: testimonials,
		users:        users,
		log:          log.WithField("service", "testimonials"),
	}
}

// OrderResult reports the outcome of a bulk reorder. Items are applied one by
// one, so some may succeed while others fail.
type OrderResult struct {
	Updated []models.OrderUpdate `json:"updated"`
	Failed  []OrderFailure       `json:"failed"`
}

type OrderFailure struct {
	ID    string `json:"id"`
	Error string `json:"error"`
}

// Create adds a pending testimonial. A user may have one active testimonial.
func (s *TestimonialService) Create(ctx context.Context, actor models.Actor, in models.TestimonialInput) (*models.Testimonial, error) {
	if err := actor.RequireUser(); err != nil {
		return nil, err
	}
	_, err := s.testimonials.FindActiveByUser(ctx, actor.UserID)
	switch {
	case err == nil:
		return nil, apperr.Conflict("you already have an active testimonial")
	case !apperr.Is(err, apperr.KindNotFound):
		return nil, err
	}

	author, err := s.author(ctx, actor)
	if err != nil {
		return nil, err
	}
	t, err := models.NewTestimonial(author, in, s.clock.now())
	if err != nil {
		return nil, err
	}
	if err := s.testimonials.Insert(ctx, t); err != nil {
		return nil, err
	}
	s.log.WithFields(logrus.Fields{"testimonial": t.ID.Hex(), "user": actor.UserID}).Info("testimonial submitted")
	return t, nil
}

// ListApproved is the public listing: approved and active only.
func (s *TestimonialService) ListApproved(ctx context.Context, featured *bool, w models.Window) (models.TestimonialPage, error) {
	return s.testimonials.List(ctx, models.TestimonialQuery{
		Window:       clampWindow(w),
		ApprovedOnly: true,
		Featured:     featured,
	})
}

// Get returns a testimonial if it is public or the actor is its owner or an admin.
func (s *TestimonialService) Get(ctx context.Context, actor models.Actor, id primitive.ObjectID) (*models.Testimonial, error) {
	t, err := s.testimonials.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !t.VisibleTo(actor) {
		return nil, apperr.NotFound("testimonial not found")
	}
	return t, nil
}

func (s *TestimonialService) Update(ctx context.Context, actor models.Actor, id primitive.ObjectID, edit models.TestimonialEdit) (*models.Testimonial, error) {
	if err := actor.RequireUser(); err != nil {
		return nil, err
	}
	t, err := s.testimonials.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := t.ApplyEdit(edit, actor, s.clock.now()); err != nil {
		return nil, err
	}
	if err := s.testimonials.Save(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// Delete hides the testimonial for its owner and removes it for an admin.
func (s *TestimonialService) Delete(ctx context.Context, actor models.Actor, id primitive.ObjectID) error {
	if err := actor.RequireUser(); err != nil {
		return err
	}
	t, err := s.testimonials.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !actor.CanModify(t.UserID) {
		return apperr.Permission("only the author or an admin can delete this testimonial")
	}
	if actor.IsAdmin {
		return s.testimonials.Delete(ctx, id)
	}
	t.IsActive = false
	t.UpdatedAt = s.clock.now()
	return s.testimonials.Save(ctx, t)
}

// ToggleLike flips the actor's like and reports whether it is now liked.
func (s *TestimonialService) ToggleLike(ctx context.Context, actor models.Actor, id primitive.ObjectID) (*models.Testimonial, bool, error) {
	if err := actor.RequireUser(); err != nil {
		return nil, false, err
	}
	t, err := s.testimonials.FindByID(ctx, id)
	if err != nil {
		return nil, false, err
	}
	if !t.VisibleTo(actor) {
		return nil, false, apperr.NotFound("testimonial not found")
	}
	liked := t.ToggleLike(actor.UserID)
	if err := s.testimonials.Save(ctx, t); err != nil {
		return nil, false, err
	}
	return t, liked, nil
}

func (s *TestimonialService) AdminList(ctx context.Context, actor models.Actor, q models.TestimonialQuery) (models.TestimonialPage, error) {
	if err := actor.RequireAdmin(); err != nil {
		return models.TestimonialPage{}, err
	}
	q.Window = clampWindow(q.Window)
	q.ApprovedOnly = false
	return s.testimonials.List(ctx, q)
}

// Approve sets the approval state. Passing nil approves.
func (s *TestimonialService) Approve(ctx context.Context, actor models.Actor, id primitive.ObjectID, approved *bool) (*models.Testimonial, error) {
	if err := actor.RequireAdmin(); err != nil {
		return nil, err
	}
	t, err := s.testimonials.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	value := true
	if approved != nil {
		value = *approved
	}
	if err := t.Approve(actor, value, s.clock.now()); err != nil {
		return nil, err
	}
	if err := s.testimonials.Save(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// Feature sets the featured flag, or flips it when featured is nil.
func (s *TestimonialService) Feature(ctx context.Context, actor models.Actor, id primitive.ObjectID, featured *bool) (*models.Testimonial, error) {
	if err := actor.RequireAdmin(); err != nil {
		return nil, err
	}
	t, err := s.testimonials.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if featured != nil {
		t.IsFeatured = *featured
	} else {
		t.IsFeatured = !t.IsFeatured
	}
	t.UpdatedAt = s.clock.now()
	if err := s.testimonials.Save(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// Reorder applies each order update independently.
func (s *TestimonialService) Reorder(ctx context.Context, actor models.Actor, updates []models.OrderUpdate) (OrderResult, error) {
	if err := actor.RequireAdmin(); err != nil {
		return OrderResult{}, err
	}
	if len(updates) == 0 {
		return OrderResult{}, apperr.Validation("at least one order update is required")
	}
	result := OrderResult{Updated: []models.OrderUpdate{}, Failed: []OrderFailure{}}
	for _, u := range updates {
		id, err := models.ParseObjectID("testimonial", u.ID)
		if err == nil {
			err = s.testimonials.SetDisplayOrder(ctx, id, u.Order)
		}
		if err != nil {
			s.log.WithError(err).WithField("testimonial", u.ID).Warn("reorder item failed")
			result.Failed = append(result.Failed, OrderFailure{ID: u.ID, Error: apperr.PublicMessage(err)})
			continue
		}
		result.Updated = append(result.Updated, u)
	}
	return result, nil
}

func (s *TestimonialService) author(ctx context.Context, actor models.Actor) (*models.User, error) {
	id, err := actor.UserID.ObjectID()
	if err != nil {
		return nil, err
	}
	return s.users.FindByID(ctx, id)
}
