package models

import (
	"net/mail"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"outfitstore/internal/apperr"
)

// User represents an account.
type User struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Username       string             `bson:"username" json:"username"`
	Email          string             `bson:"email" json:"email"`
	PasswordHash   string             `bson:"passwordHash" json:"-"`
	ProfilePicture string             `bson:"profilePicture" json:"profilePicture"`
	IsAdmin        bool               `bson:"isAdmin" json:"isAdmin"`
	FullName       string             `bson:"fullName" json:"fullName"`
	Gender         Gender             `bson:"gender" json:"gender"`
	CreatedAt      time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// DisplayName prefers the full name over the username.
func (u *User) DisplayName() string {
	if name := strings.TrimSpace(u.FullName); name != "" {
		return name
	}
	return u.Username
}

// Actor converts the account into a request actor.
func (u *User) Actor() Actor {
	return Actor{
		UserID:      UserRefOf(u.ID),
		IsAdmin:     u.IsAdmin,
		DisplayName: u.Username,
		FullName:    u.FullName,
	}
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func ValidateUsername(username string) error {
	n := len([]rune(username))
	if n < 3 || n > 30 {
		return apperr.Validation("username must be between 3 and 30 characters")
	}
	if strings.ContainsAny(username, " \t\n") {
		return apperr.Validation("username cannot contain spaces")
	}
	return nil
}

func ValidateEmail(email string) error {
	if _, err := mail.ParseAddress(email); err != nil {
		return apperr.Validation("invalid email")
	}
	return nil
}

func ValidatePassword(password string) error {
	if len(password) < 8 {
		return apperr.Validation("password must be at least 8 characters long")
	}
	if len(password) > 72 {
		return apperr.Validation("password must be no more than 72 characters long")
	}
	return nil
}
