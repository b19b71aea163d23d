package services

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"outfitstore/internal/apperr"
	"outfitstore/internal/models"
)

type UserService struct {
	users UserStore
	log   logrus.FieldLogger
	clock clock
	cost  int
}

func NewUserService(users UserStore, log logrus.FieldLogger) *UserService {
	return &UserService{
		users: users,
		log:   log.WithField("service", "users"),
		cost:  bcrypt.DefaultCost,
	}
}

type RegisterInput struct {
	Username string
	Email    string
	Password string
	FullName string
	Gender   models.Gender
}

// ProfileUpdate holds optional profile changes.
type ProfileUpdate struct {
	Username       *string
	Email          *string
	FullName       *string
	Gender         *models.Gender
	ProfilePicture *string
}

func (s *UserService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	username := strings.TrimSpace(in.Username)
	email := models.NormalizeEmail(in.Email)
	if err := models.ValidateUsername(username); err != nil {
		return nil, err
	}
	if err := models.ValidateEmail(email); err != nil {
		return nil, err
	}
	if err := models.ValidatePassword(in.Password); err != nil {
		return nil, err
	}
	if in.Gender != "" && !in.Gender.Valid() {
		return nil, apperr.Validation("invalid gender")
	}

	taken, err := s.users.Taken(ctx, username, email, primitive.NilObjectID)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, apperr.Conflict("username or email already registered")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
	if err != nil {
		return nil, apperr.Internal("password hash failed", err)
	}

	now := s.clock.now()
	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		FullName:     strings.TrimSpace(in.FullName),
		Gender:       in.Gender,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.Insert(ctx, user); err != nil {
		return nil, err
	}
	s.log.WithField("user", user.ID.Hex()).Info("user registered")
	return user, nil
}

// Authenticate checks credentials. Unknown email and wrong password give the
// same error.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return nil, apperr.Unauthenticated("invalid credentials")
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.log.WithField("user", user.ID.Hex()).Warn("login failed")
		return nil, apperr.Unauthenticated("invalid credentials")
	}
	return user, nil
}

func (s *UserService) Get(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	return s.users.FindByID(ctx, id)
}

// Me loads the actor's own account.
func (s *UserService) Me(ctx context.Context, actor models.Actor) (*models.User, error) {
	if err := actor.RequireUser(); err != nil {
		return nil, err
	}
	id, err := actor.UserID.ObjectID()
	if err != nil {
		return nil, err
	}
	return s.users.FindByID(ctx, id)
}

func (s *UserService) UpdateProfile(ctx context.Context, actor models.Actor, id primitive.ObjectID, upd ProfileUpdate) (*models.User, error) {
	if !actor.CanModify(models.UserRefOf(id)) {
		return nil, apperr.Permission("you can only update your own profile")
	}
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	next := *user
	if upd.Username != nil {
		next.Username = strings.TrimSpace(*upd.Username)
		if err := models.ValidateUsername(next.Username); err != nil {
			return nil, err
		}
	}
	if upd.Email != nil {
		next.Email = models.NormalizeEmail(*upd.Email)
		if err := models.ValidateEmail(next.Email); err != nil {
			return nil, err
		}
	}
	if upd.FullName != nil {
		next.FullName = strings.TrimSpace(*upd.FullName)
	}
	if upd.Gender != nil {
		if *upd.Gender != "" && !upd.Gender.Valid() {
			return nil, apperr.Validation("invalid gender")
		}
		next.Gender = *upd.Gender
	}
	if upd.ProfilePicture != nil {
		next.ProfilePicture = strings.TrimSpace(*upd.ProfilePicture)
	}

	if next.Username != user.Username || next.Email != user.Email {
		taken, err := s.users.Taken(ctx, next.Username, next.Email, user.ID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, apperr.Conflict("username or email already registered")
		}
	}

	next.UpdatedAt = s.clock.now()
	if err := s.users.Save(ctx, &next); err != nil {
		return nil, err
	}
	return &next, nil
}

func (s *UserService) ChangePassword(ctx context.Context, actor models.Actor, current, next string) error {
	user, err := s.Me(ctx, actor)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(current)); err != nil {
		return apperr.Validation("current password is incorrect")
	}
	if err := models.ValidatePassword(next); err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(next), s.cost)
	if err != nil {
		return apperr.Internal("password hash failed", err)
	}
	user.PasswordHash = string(hash)
	user.UpdatedAt = s.clock.now()
	return s.users.Save(ctx, user)
}

func (s *UserService) List(ctx context.Context, actor models.Actor, w models.Window, search string) (models.UserPage, error) {
	if err := actor.RequireAdmin(); err != nil {
		return models.UserPage{}, err
	}
	return s.users.List(ctx, clampWindow(w), search)
}

// SetAdmin sets the admin flag, or flips it when admin is nil. Admins cannot
// change their own flag.
func (s *UserService) SetAdmin(ctx context.Context, actor models.Actor, id primitive.ObjectID, admin *bool) (*models.User, error) {
	if err := actor.RequireAdmin(); err != nil {
		return nil, err
	}
	if actor.Owns(models.UserRefOf(id)) {
		return nil, apperr.Validation("you cannot change your own admin status")
	}
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if admin != nil {
		user.IsAdmin = *admin
	} else {
		user.IsAdmin = !user.IsAdmin
	}
	user.UpdatedAt = s.clock.now()
	if err := s.users.Save(ctx, user); err != nil {
		return nil, err
	}
	s.log.WithFields(logrus.Fields{"user": id.Hex(), "isAdmin": user.IsAdmin, "by": actor.UserID}).Info("admin flag changed")
	return user, nil
}

// Delete hard-deletes an account. Admins cannot delete themselves.
func (s *UserService) Delete(ctx context.Context, actor models.Actor, id primitive.ObjectID) error {
	if err := actor.RequireAdmin(); err != nil {
		return err
	}
	if actor.Owns(models.UserRefOf(id)) {
		return apperr.Validation("you cannot delete your own account")
	}
	if err := s.users.Delete(ctx, id); err != nil {
		return err
	}
	s.log.WithFields(logrus.Fields{"user": id.Hex(), "by": actor.UserID}).Info("user deleted")
	return nil
}
