package services

import (
	"context"

	"github.com/sirupsen/logrus"

	"outfitstore/internal/apperr"
	"outfitstore/internal/models"
)

type CartService struct {
	carts   CartStore
	outfits OutfitStore
	users   UserStore
	log     logrus.FieldLogger
	clock   clock
}

func NewCartService(carts CartStore, outfits OutfitStore, users UserStore, log logrus.FieldLogger) *CartService {
	return &CartService{
		carts:   carts,
		outfits: outfits,
		users:   users,
		log:     log.WithField("service", "carts"),
	}
}

// AddOutfitInput is one add-to-cart request.
type AddOutfitInput struct {
	OutfitID string
	Quantity int
	Notes    *string
}

// GetOrCreate returns the actor's cart, creating an empty one on first access.
func (s *CartService) GetOrCreate(ctx context.Context, actor models.Actor) (*models.Cart, error) {
	if err := actor.RequireUser(); err != nil {
		return nil, err
	}
	cart, err := s.carts.FindByUser(ctx, actor.UserID)
	if err == nil {
		return cart, nil
	}
	if !apperr.Is(err, apperr.KindNotFound) {
		return nil, err
	}
	cart = models.NewCart(actor.UserID, s.clock.now())
	if err := s.save(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// AddOutfit snapshots an active outfit into the cart. The requested quantity
// must be within bounds; merging into an existing line is not re-bounded.
func (s *CartService) AddOutfit(ctx context.Context, actor models.Actor, in AddOutfitInput) (*models.Cart, error) {
	if err := actor.RequireUser(); err != nil {
		return nil, err
	}
	if err := models.ValidateQuantity(in.Quantity); err != nil {
		return nil, err
	}
	id, err := models.ParseObjectID("outfit", in.OutfitID)
	if err != nil {
		return nil, err
	}
	outfit, err := s.outfits.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if outfit.Username == "" {
		outfit.Owner = lookupOwner(ctx, s.users, outfit.UserID)
	}
	snap, err := models.SnapshotOutfit(outfit)
	if err != nil {
		return nil, err
	}

	cart, err := s.GetOrCreate(ctx, actor)
	if err != nil {
		return nil, err
	}
	line := cart.AddOutfit(snap, in.Quantity, in.Notes, s.clock.now())
	if line.Quantity > models.MaxLineQuantity {
		s.log.WithFields(logrus.Fields{"user": actor.UserID, "line": line.ID, "quantity": line.Quantity}).
			Warn("merged cart line exceeds quantity bound")
	}
	if err := s.save(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

func (s *CartService) RemoveLine(ctx context.Context, actor models.Actor, line models.LineID) (*models.Cart, error) {
	return s.mutate(ctx, actor, func(c *models.Cart) error {
		return c.RemoveLine(line)
	})
}

func (s *CartService) UpdateQuantity(ctx context.Context, actor models.Actor, line models.LineID, quantity int) (*models.Cart, error) {
	if err := models.ValidateQuantity(quantity); err != nil {
		return nil, err
	}
	return s.mutate(ctx, actor, func(c *models.Cart) error {
		return c.SetQuantity(line, quantity)
	})
}

func (s *CartService) UpdateNotes(ctx context.Context, actor models.Actor, line models.LineID, notes string) (*models.Cart, error) {
	return s.mutate(ctx, actor, func(c *models.Cart) error {
		return c.SetNotes(line, notes)
	})
}

// Clear empties the active lines. Saved lines stay.
func (s *CartService) Clear(ctx context.Context, actor models.Actor) (*models.Cart, error) {
	return s.mutate(ctx, actor, func(c *models.Cart) error {
		c.Clear()
		return nil
	})
}

func (s *CartService) MoveToSaved(ctx context.Context, actor models.Actor, line models.LineID) (*models.Cart, error) {
	return s.mutate(ctx, actor, func(c *models.Cart) error {
		_, err := c.MoveToSaved(line, s.clock.now())
		return err
	})
}

// MoveToCart moves a saved line back. A zero quantity means 1.
func (s *CartService) MoveToCart(ctx context.Context, actor models.Actor, line models.LineID, quantity int, notes string) (*models.Cart, error) {
	return s.mutate(ctx, actor, func(c *models.Cart) error {
		_, err := c.MoveToCart(line, quantity, notes, s.clock.now())
		return err
	})
}

func (s *CartService) RemoveSaved(ctx context.Context, actor models.Actor, line models.LineID) (*models.Cart, error) {
	return s.mutate(ctx, actor, func(c *models.Cart) error {
		return c.RemoveSaved(line)
	})
}

func (s *CartService) Summary(ctx context.Context, actor models.Actor) (models.CartSummary, error) {
	cart, err := s.GetOrCreate(ctx, actor)
	if err != nil {
		return models.CartSummary{}, err
	}
	return cart.Summary(), nil
}

// Count reads the badge numbers without creating a cart.
func (s *CartService) Count(ctx context.Context, actor models.Actor) (models.CartCount, error) {
	if err := actor.RequireUser(); err != nil {
		return models.CartCount{}, err
	}
	cart, err := s.carts.FindByUser(ctx, actor.UserID)
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return models.CartCount{}, nil
		}
		return models.CartCount{}, err
	}
	return cart.Count(), nil
}

// mutate loads an existing cart, applies change and saves. A failed change
// leaves the stored cart untouched.
func (s *CartService) mutate(ctx context.Context, actor models.Actor, change func(*models.Cart) error) (*models.Cart, error) {
	if err := actor.RequireUser(); err != nil {
		return nil, err
	}
	cart, err := s.carts.FindByUser(ctx, actor.UserID)
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return nil, apperr.NotFound("cart not found")
		}
		return nil, err
	}
	if err := change(cart); err != nil {
		return nil, err
	}
	if err := s.save(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

func (s *CartService) save(ctx context.Context, cart *models.Cart) error {
	cart.Recalculate(s.clock.now())
	return s.carts.Save(ctx, cart)
}
