package models

import (
	"strings"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"outfitstore/internal/apperr"
)

// UserRef is the hex form of a users._id held inside another aggregate.
type UserRef string

// OutfitRef is the hex form of an outfits._id held inside another aggregate.
type OutfitRef string

// LineID identifies a line inside a cart. It is unrelated to the outfit id.
type LineID string

// CommentID identifies a comment inside an outfit.
type CommentID string

// ReplyID identifies a reply inside a comment.
type ReplyID string

func UserRefOf(id primitive.ObjectID) UserRef { return UserRef(id.Hex()) }

func OutfitRefOf(id primitive.ObjectID) OutfitRef { return OutfitRef(id.Hex()) }

func (r UserRef) ObjectID() (primitive.ObjectID, error) {
	return parseObjectID("user", string(r))
}

func (r OutfitRef) ObjectID() (primitive.ObjectID, error) {
	return parseObjectID("outfit", string(r))
}

// ParseObjectID validates a path or body identifier for the named aggregate.
func ParseObjectID(aggregate, raw string) (primitive.ObjectID, error) {
	return parseObjectID(aggregate, raw)
}

func parseObjectID(aggregate, raw string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(strings.TrimSpace(raw))
	if err != nil {
		return primitive.NilObjectID, apperr.Validation("invalid %s id", aggregate)
	}
	return id, nil
}

func NewLineID() LineID { return LineID(uuid.NewString()) }

func NewCommentID() CommentID { return CommentID(uuid.NewString()) }

func NewReplyID() ReplyID { return ReplyID(uuid.NewString()) }
