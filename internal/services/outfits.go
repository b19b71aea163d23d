package services

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"outfitstore/internal/models"
)

const (
	DefaultTrendingLimit = 10
	MaxTrendingLimit     = 50
)

type OutfitService struct {
	outfits OutfitStore
	users   UserStore
	images  ImageStore
	log     logrus.FieldLogger
	clock   clock

	// imageDeleted is called after each background image delete attempt.
	imageDeleted func(ref string, err error)
}

func NewOutfitService(outfits OutfitStore, users UserStore, images ImageStore, log logrus.FieldLogger) *OutfitService {
	return &OutfitService{
		outfits: outfits,
		users:   users,
		images:  images,
		log:     log.WithField("service", "outfits"),
	}
}

// Create stores a new active outfit owned by the admin.
func (s *OutfitService) Create(ctx context.Context, actor models.Actor, in models.NewOutfitInput) (*models.Outfit, error) {
	if err := actor.RequireAdmin(); err != nil {
		return nil, err
	}
	outfit, err := models.NewOutfit(actor, in, s.clock.now())
	if err != nil {
		return nil, err
	}
	if err := s.outfits.Insert(ctx, outfit); err != nil {
		return nil, err
	}
	s.log.WithFields(logrus.Fields{"outfit": outfit.ID.Hex(), "totalPrice": outfit.TotalPrice}).Info("outfit created")
	return outfit, nil
}

// List returns active outfits, or all outfits for an admin asking for them.
func (s *OutfitService) List(ctx context.Context, actor models.Actor, q models.OutfitQuery) (models.OutfitPage, error) {
	if !actor.IsAdmin {
		q.IncludeInactive = false
		q.IsActive = nil
	}
	q.Window = clampWindow(q.Window)
	return s.outfits.List(ctx, q)
}

// AdminList lists every outfit including inactive ones.
func (s *OutfitService) AdminList(ctx context.Context, actor models.Actor, q models.OutfitQuery) (models.OutfitPage, error) {
	if err := actor.RequireAdmin(); err != nil {
		return models.OutfitPage{}, err
	}
	q.IncludeInactive = true
	q.Window = clampWindow(q.Window)
	return s.outfits.List(ctx, q)
}

// Get fetches one outfit. Every call counts as a click, whoever makes it.
func (s *OutfitService) Get(ctx context.Context, id primitive.ObjectID) (*models.Outfit, error) {
	outfit, err := s.outfits.IncrementClicks(ctx, id)
	if err != nil {
		return nil, err
	}
	s.hydrateOwner(ctx, outfit)
	return outfit, nil
}

// Update merges patch into the outfit. A replaced image is deleted in the
// background; failure to delete it is only logged.
func (s *OutfitService) Update(ctx context.Context, actor models.Actor, id primitive.ObjectID, patch models.OutfitPatch) (*models.Outfit, error) {
	if err := actor.RequireAdmin(); err != nil {
		return nil, err
	}
	outfit, err := s.outfits.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	replaced, err := outfit.Apply(patch)
	if err != nil {
		return nil, err
	}
	if err := s.save(ctx, outfit); err != nil {
		return nil, err
	}
	if replaced != "" {
		s.deleteImageAsync(replaced)
	}
	return outfit, nil
}

// Delete removes the outfit and, in the background, its image.
func (s *OutfitService) Delete(ctx context.Context, actor models.Actor, id primitive.ObjectID) error {
	if err := actor.RequireAdmin(); err != nil {
		return err
	}
	outfit, err := s.outfits.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.outfits.Delete(ctx, id); err != nil {
		return err
	}
	s.log.WithField("outfit", id.Hex()).Info("outfit deleted")
	s.deleteImageAsync(outfit.Image)
	return nil
}

// SetActive sets the visibility flag, or flips it when active is nil.
func (s *OutfitService) SetActive(ctx context.Context, actor models.Actor, id primitive.ObjectID, active *bool) (*models.Outfit, error) {
	if err := actor.RequireAdmin(); err != nil {
		return nil, err
	}
	outfit, err := s.outfits.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if active != nil {
		outfit.IsActive = *active
	} else {
		outfit.IsActive = !outfit.IsActive
	}
	if err := s.save(ctx, outfit); err != nil {
		return nil, err
	}
	return outfit, nil
}

// Vote toggles the actor's like or dislike on the outfit.
func (s *OutfitService) Vote(ctx context.Context, actor models.Actor, id primitive.ObjectID, vote models.Vote) (*models.Outfit, error) {
	return s.mutate(ctx, actor, id, func(o *models.Outfit) error {
		o.Vote(actor.UserID, vote)
		return nil
	})
}

func (s *OutfitService) AddComment(ctx context.Context, actor models.Actor, id primitive.ObjectID, username, text string) (*models.Comment, error) {
	var added models.Comment
	_, err := s.mutate(ctx, actor, id, func(o *models.Outfit) error {
		c, err := o.AddComment(actor, username, text, s.clock.now())
		if err != nil {
			return err
		}
		added = *c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &added, nil
}

func (s *OutfitService) DeleteComment(ctx context.Context, actor models.Actor, id primitive.ObjectID, commentID models.CommentID) (*models.Outfit, error) {
	return s.mutate(ctx, actor, id, func(o *models.Outfit) error {
		return o.RemoveComment(commentID, actor)
	})
}

func (s *OutfitService) VoteComment(ctx context.Context, actor models.Actor, id primitive.ObjectID, commentID models.CommentID, vote models.Vote) (*models.Comment, error) {
	var voted models.Comment
	_, err := s.mutate(ctx, actor, id, func(o *models.Outfit) error {
		c, err := o.VoteComment(commentID, actor.UserID, vote)
		if err != nil {
			return err
		}
		voted = *c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &voted, nil
}

func (s *OutfitService) AddReply(ctx context.Context, actor models.Actor, id primitive.ObjectID, commentID models.CommentID, username, text string) (*models.Reply, error) {
	var added models.Reply
	_, err := s.mutate(ctx, actor, id, func(o *models.Outfit) error {
		r, err := o.AddReply(commentID, actor, username, text, s.clock.now())
		if err != nil {
			return err
		}
		added = *r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &added, nil
}

func (s *OutfitService) DeleteReply(ctx context.Context, actor models.Actor, id primitive.ObjectID, commentID models.CommentID, replyID models.ReplyID) (*models.Outfit, error) {
	return s.mutate(ctx, actor, id, func(o *models.Outfit) error {
		return o.RemoveReply(commentID, replyID, actor)
	})
}

func (s *OutfitService) VoteReply(ctx context.Context, actor models.Actor, id primitive.ObjectID, commentID models.CommentID, replyID models.ReplyID, vote models.Vote) (*models.Reply, error) {
	var voted models.Reply
	_, err := s.mutate(ctx, actor, id, func(o *models.Outfit) error {
		r, err := o.VoteReply(commentID, replyID, actor.UserID, vote)
		if err != nil {
			return err
		}
		voted = *r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &voted, nil
}

// Trending returns the most clicked active outfits with site-wide totals.
func (s *OutfitService) Trending(ctx context.Context, limit int64) (models.TrendingOutfits, error) {
	if limit <= 0 {
		limit = DefaultTrendingLimit
	}
	if limit > MaxTrendingLimit {
		limit = MaxTrendingLimit
	}
	outfits, err := s.outfits.Trending(ctx, limit)
	if err != nil {
		return models.TrendingOutfits{}, err
	}
	count, clicks, err := s.outfits.ActiveStats(ctx)
	if err != nil {
		return models.TrendingOutfits{}, err
	}
	summaries := make([]models.OutfitSummary, 0, len(outfits))
	for i := range outfits {
		summaries = append(summaries, outfits[i].Summary())
	}
	return models.TrendingOutfits{Outfits: summaries, ActiveCount: count, TotalClicks: clicks}, nil
}

// mutate is the load, change, save cycle shared by engagement operations.
func (s *OutfitService) mutate(ctx context.Context, actor models.Actor, id primitive.ObjectID, change func(*models.Outfit) error) (*models.Outfit, error) {
	if err := actor.RequireUser(); err != nil {
		return nil, err
	}
	outfit, err := s.outfits.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := change(outfit); err != nil {
		return nil, err
	}
	if err := s.save(ctx, outfit); err != nil {
		return nil, err
	}
	return outfit, nil
}

func (s *OutfitService) save(ctx context.Context, outfit *models.Outfit) error {
	outfit.Recalculate(s.clock.now())
	return s.outfits.Save(ctx, outfit)
}

// hydrateOwner joins the creator profile. A missing creator is not an error.
func (s *OutfitService) hydrateOwner(ctx context.Context, outfit *models.Outfit) {
	outfit.Owner = lookupOwner(ctx, s.users, outfit.UserID)
}

func lookupOwner(ctx context.Context, users UserStore, ref models.UserRef) *models.OutfitOwner {
	if users == nil || ref == "" {
		return nil
	}
	id, err := ref.ObjectID()
	if err != nil {
		return nil
	}
	user, err := users.FindByID(ctx, id)
	if err != nil {
		return nil
	}
	return &models.OutfitOwner{Username: user.Username, FullName: user.FullName}
}

func (s *OutfitService) deleteImageAsync(ref string) {
	if ref == "" || s.images == nil {
		return
	}
	go func() {
		started := time.Now()
		err := s.images.Delete(ref)
		entry := s.log.WithFields(logrus.Fields{"image": ref, "elapsed": time.Since(started)})
		if err != nil {
			entry.WithError(err).Warn("image delete failed")
		} else {
			entry.Debug("image deleted")
		}
		if s.imageDeleted != nil {
			s.imageDeleted(ref, err)
		}
	}()
}
