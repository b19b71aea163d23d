package models

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"outfitstore/internal/apperr"
)

const (
	MaxRating         = 5.0
	MaxCommentLength  = 500
	MaxDescriptionLen = 2000
)

// Item is one piece of clothing inside an outfit.
type Item struct {
	Source string  `bson:"source" json:"source"`
	Name   string  `bson:"name" json:"name"`
	Price  float64 `bson:"price" json:"price"`
	Link   string  `bson:"link" json:"link"`
}

type Reply struct {
	ID        ReplyID   `bson:"id" json:"id"`
	UserID    UserRef   `bson:"userId" json:"userId"`
	Username  string    `bson:"username" json:"username"`
	Text      string    `bson:"text" json:"text"`
	Votes     Votes     `bson:"votes" json:"votes"`
	Likes     int       `bson:"likes" json:"likes"`
	Dislikes  int       `bson:"dislikes" json:"dislikes"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}

type Comment struct {
	ID        CommentID `bson:"id" json:"id"`
	UserID    UserRef   `bson:"userId" json:"userId"`
	Username  string    `bson:"username" json:"username"`
	Text      string    `bson:"text" json:"text"`
	Votes     Votes     `bson:"votes" json:"votes"`
	Likes     int       `bson:"likes" json:"likes"`
	Dislikes  int       `bson:"dislikes" json:"dislikes"`
	Replies   []Reply   `bson:"replies" json:"replies"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}

// OutfitOwner is the creator's profile joined in at read time.
type OutfitOwner struct {
	Username string `json:"username"`
	FullName string `json:"fullName"`
}

// Outfit is a curated clothing bundle together with its engagement data.
type Outfit struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID        UserRef            `bson:"userId" json:"userId"`
	Username      string             `bson:"username" json:"username"`
	Owner         *OutfitOwner       `bson:"-" json:"owner,omitempty"`
	Image         string             `bson:"image" json:"image"`
	Category      Category           `bson:"category" json:"category"`
	Section       Section            `bson:"section" json:"section"`
	NumberOfItems int                `bson:"numberOfItems" json:"numberOfItems"`
	Items         []Item             `bson:"items" json:"items"`
	Rating        float64            `bson:"rating" json:"rating"`
	Clicks        int64              `bson:"clicks" json:"clicks"`
	Type          OutfitType         `bson:"type" json:"type"`
	Votes         Votes              `bson:"votes" json:"votes"`
	Likes         int                `bson:"likes" json:"likes"`
	Dislikes      int                `bson:"dislikes" json:"dislikes"`
	Comments      []Comment          `bson:"comments" json:"comments"`
	IsActive      bool               `bson:"isActive" json:"isActive"`
	Tags          Tags               `bson:"tags" json:"tags"`
	Description   string             `bson:"description" json:"description"`
	TotalPrice    float64            `bson:"totalPrice" json:"totalPrice"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// OutfitSummary is the projection used by the trending listing.
type OutfitSummary struct {
	ID         primitive.ObjectID `json:"id"`
	Image      string             `json:"image"`
	Category   Category           `json:"category"`
	Section    Section            `json:"section"`
	Username   string             `json:"username"`
	Clicks     int64              `json:"clicks"`
	Likes      int                `json:"likes"`
	Rating     float64            `json:"rating"`
	TotalPrice float64            `json:"totalPrice"`
}

func (o *Outfit) Summary() OutfitSummary {
	return OutfitSummary{
		ID:         o.ID,
		Image:      o.Image,
		Category:   o.Category,
		Section:    o.Section,
		Username:   o.Username,
		Clicks:     o.Clicks,
		Likes:      o.Likes,
		Rating:     o.Rating,
		TotalPrice: o.TotalPrice,
	}
}

// Validate checks enums, rating range and the item list shape.
func (o *Outfit) Validate() error {
	if !o.Category.Valid() {
		return apperr.Validation("invalid category %q", o.Category)
	}
	if !o.Section.Valid() {
		return apperr.Validation("invalid section %q", o.Section)
	}
	if o.Type != "" && !o.Type.Valid() {
		return apperr.Validation("invalid type %q", o.Type)
	}
	if o.Rating < 0 || o.Rating > MaxRating {
		return apperr.Validation("rating must be between 0 and 5")
	}
	if strings.TrimSpace(o.Image) == "" {
		return apperr.Validation("image is required")
	}
	if len(o.Description) > MaxDescriptionLen {
		return apperr.Validation("description must be at most %d characters", MaxDescriptionLen)
	}
	return validateItems(o.NumberOfItems, o.Items)
}

func validateItems(declared int, items []Item) error {
	if declared < 1 {
		return apperr.Validation("numberOfItems must be at least 1")
	}
	if len(items) != declared {
		return apperr.Validation("items length %d does not match numberOfItems %d", len(items), declared)
	}
	for i, item := range items {
		switch {
		case strings.TrimSpace(item.Source) == "":
			return apperr.Validation("item %d: source is required", i+1)
		case strings.TrimSpace(item.Name) == "":
			return apperr.Validation("item %d: name is required", i+1)
		case item.Price <= 0:
			return apperr.Validation("item %d: price must be greater than 0", i+1)
		case strings.TrimSpace(item.Link) == "":
			return apperr.Validation("item %d: link is required", i+1)
		}
	}
	return nil
}

// Recalculate refreshes every derived field from the stored data. It runs
// before each save.
func (o *Outfit) Recalculate(now time.Time) {
	prices := make([]float64, len(o.Items))
	for i, item := range o.Items {
		prices[i] = item.Price
	}
	o.TotalPrice = SumPrices(prices...)
	o.Likes, o.Dislikes = o.Votes.Counts()
	for i := range o.Comments {
		c := &o.Comments[i]
		c.Likes, c.Dislikes = c.Votes.Counts()
		for j := range c.Replies {
			r := &c.Replies[j]
			r.Likes, r.Dislikes = r.Votes.Counts()
		}
	}
	o.UpdatedAt = now
}

// OutfitPatch holds the fields an admin may change. Nil means unchanged.
type OutfitPatch struct {
	Image         *string
	Category      *Category
	Section       *Section
	NumberOfItems *int
	Items         *[]Item
	Rating        *float64
	Type          *OutfitType
	Tags          *[]string
	Description   *string
	Username      *string
}

// Apply merges the patch and revalidates. The previous image reference is
// returned when it was replaced.
func (o *Outfit) Apply(p OutfitPatch) (replacedImage string, err error) {
	next := *o
	if p.Image != nil {
		next.Image = strings.TrimSpace(*p.Image)
	}
	if p.Category != nil {
		next.Category = *p.Category
	}
	if p.Section != nil {
		next.Section = *p.Section
	}
	if p.Items != nil {
		next.Items = append([]Item(nil), (*p.Items)...)
		if p.NumberOfItems == nil {
			next.NumberOfItems = len(next.Items)
		}
	}
	if p.NumberOfItems != nil {
		next.NumberOfItems = *p.NumberOfItems
	}
	if p.Rating != nil {
		next.Rating = *p.Rating
	}
	if p.Type != nil {
		next.Type = *p.Type
	}
	if p.Tags != nil {
		next.Tags = NewTags(*p.Tags)
	}
	if p.Description != nil {
		next.Description = strings.TrimSpace(*p.Description)
	}
	if p.Username != nil {
		next.Username = strings.TrimSpace(*p.Username)
	}
	if err := next.Validate(); err != nil {
		return "", err
	}
	if next.Image != o.Image {
		replacedImage = o.Image
	}
	*o = next
	return replacedImage, nil
}

// NewOutfitInput is the admin payload for creating an outfit.
type NewOutfitInput struct {
	Username      string
	Image         string
	Category      Category
	Section       Section
	NumberOfItems int
	Items         []Item
	Rating        float64
	Type          OutfitType
	Tags          []string
	Description   string
}

// NewOutfit builds a validated, active outfit with zeroed counters.
func NewOutfit(owner Actor, in NewOutfitInput, now time.Time) (*Outfit, error) {
	username := strings.TrimSpace(in.Username)
	if username == "" {
		username = strings.TrimSpace(owner.DisplayName)
	}
	outfitType := in.Type
	if outfitType == "" {
		outfitType = OutfitNormal
	}
	o := &Outfit{
		UserID:        owner.UserID,
		Username:      username,
		Image:         strings.TrimSpace(in.Image),
		Category:      in.Category,
		Section:       in.Section,
		NumberOfItems: in.NumberOfItems,
		Items:         append([]Item(nil), in.Items...),
		Rating:        in.Rating,
		Type:          outfitType,
		Votes:         Votes{},
		Comments:      []Comment{},
		IsActive:      true,
		Tags:          NewTags(in.Tags),
		Description:   strings.TrimSpace(in.Description),
		CreatedAt:     now,
	}
	if err := o.Validate(); err != nil {
		return nil, err
	}
	o.Recalculate(now)
	return o, nil
}

// Vote toggles the actor's outfit-level reaction.
func (o *Outfit) Vote(user UserRef, vote Vote) {
	o.Votes.Toggle(user, vote)
	o.Likes, o.Dislikes = o.Votes.Counts()
}

func (o *Outfit) Comment(id CommentID) (*Comment, error) {
	for i := range o.Comments {
		if o.Comments[i].ID == id {
			return &o.Comments[i], nil
		}
	}
	return nil, apperr.NotFound("comment not found")
}

func (c *Comment) Reply(id ReplyID) (*Reply, error) {
	for i := range c.Replies {
		if c.Replies[i].ID == id {
			return &c.Replies[i], nil
		}
	}
	return nil, apperr.NotFound("reply not found")
}

func cleanText(text string) (string, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return "", apperr.Validation("text is required")
	}
	if len([]rune(trimmed)) > MaxCommentLength {
		return "", apperr.Validation("text must be at most %d characters", MaxCommentLength)
	}
	return trimmed, nil
}

// AddComment appends a comment authored by actor.
func (o *Outfit) AddComment(actor Actor, username, text string, now time.Time) (*Comment, error) {
	body, err := cleanText(text)
	if err != nil {
		return nil, err
	}
	name, err := ResolveAuthorName(username, actor)
	if err != nil {
		return nil, err
	}
	o.Comments = append(o.Comments, Comment{
		ID:        NewCommentID(),
		UserID:    actor.UserID,
		Username:  name,
		Text:      body,
		Votes:     Votes{},
		Replies:   []Reply{},
		CreatedAt: now,
	})
	return &o.Comments[len(o.Comments)-1], nil
}

// RemoveComment deletes a comment when actor wrote it or is an admin.
func (o *Outfit) RemoveComment(id CommentID, actor Actor) error {
	for i := range o.Comments {
		if o.Comments[i].ID != id {
			continue
		}
		if !actor.CanModify(o.Comments[i].UserID) {
			return apperr.Permission("only the author or an admin can delete this comment")
		}
		o.Comments = append(o.Comments[:i], o.Comments[i+1:]...)
		return nil
	}
	return apperr.NotFound("comment not found")
}

// AddReply appends a reply under the given comment.
func (o *Outfit) AddReply(commentID CommentID, actor Actor, username, text string, now time.Time) (*Reply, error) {
	comment, err := o.Comment(commentID)
	if err != nil {
		return nil, err
	}
	body, err := cleanText(text)
	if err != nil {
		return nil, err
	}
	name, err := ResolveAuthorName(username, actor)
	if err != nil {
		return nil, err
	}
	comment.Replies = append(comment.Replies, Reply{
		ID:        NewReplyID(),
		UserID:    actor.UserID,
		Username:  name,
		Text:      body,
		Votes:     Votes{},
		CreatedAt: now,
	})
	return &comment.Replies[len(comment.Replies)-1], nil
}

// RemoveReply deletes a reply when actor wrote it or is an admin.
func (o *Outfit) RemoveReply(commentID CommentID, replyID ReplyID, actor Actor) error {
	comment, err := o.Comment(commentID)
	if err != nil {
		return err
	}
	for i := range comment.Replies {
		if comment.Replies[i].ID != replyID {
			continue
		}
		if !actor.CanModify(comment.Replies[i].UserID) {
			return apperr.Permission("only the author or an admin can delete this reply")
		}
		comment.Replies = append(comment.Replies[:i], comment.Replies[i+1:]...)
		return nil
	}
	return apperr.NotFound("reply not found")
}

func (o *Outfit) VoteComment(commentID CommentID, user UserRef, vote Vote) (*Comment, error) {
	comment, err := o.Comment(commentID)
	if err != nil {
		return nil, err
	}
	comment.Votes.Toggle(user, vote)
	comment.Likes, comment.Dislikes = comment.Votes.Counts()
	return comment, nil
}

func (o *Outfit) VoteReply(commentID CommentID, replyID ReplyID, user UserRef, vote Vote) (*Reply, error) {
	comment, err := o.Comment(commentID)
	if err != nil {
		return nil, err
	}
	reply, err := comment.Reply(replyID)
	if err != nil {
		return nil, err
	}
	reply.Votes.Toggle(user, vote)
	reply.Likes, reply.Dislikes = reply.Votes.Counts()
	return reply, nil
}
