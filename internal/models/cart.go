package models

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"outfitstore/internal/apperr"
)

const (
	MinLineQuantity = 1
	MaxLineQuantity = 10
	MaxNotesLength  = 200

	UnknownCreator = "Unknown Creator"
)

// CartLine is a snapshot of an outfit taken when it was added to the cart.
type CartLine struct {
	ID            LineID    `bson:"lineId" json:"lineId"`
	OutfitID      OutfitRef `bson:"outfitId" json:"outfitId"`
	Image         string    `bson:"image" json:"image"`
	Category      Category  `bson:"category" json:"category"`
	Section       Section   `bson:"section" json:"section"`
	CreatorName   string    `bson:"creatorName" json:"creatorName"`
	NumberOfItems int       `bson:"numberOfItems" json:"numberOfItems"`
	UnitPrice     float64   `bson:"unitPrice" json:"unitPrice"`
	Quantity      int       `bson:"quantity" json:"quantity"`
	Notes         string    `bson:"notes" json:"notes"`
	AddedAt       time.Time `bson:"addedAt" json:"addedAt"`
}

// SavedLine is a wish-listed outfit snapshot. It has no quantity or notes.
type SavedLine struct {
	ID            LineID    `bson:"lineId" json:"lineId"`
	OutfitID      OutfitRef `bson:"outfitId" json:"outfitId"`
	Image         string    `bson:"image" json:"image"`
	Category      Category  `bson:"category" json:"category"`
	Section       Section   `bson:"section" json:"section"`
	CreatorName   string    `bson:"creatorName" json:"creatorName"`
	NumberOfItems int       `bson:"numberOfItems" json:"numberOfItems"`
	UnitPrice     float64   `bson:"unitPrice" json:"unitPrice"`
	SavedAt       time.Time `bson:"savedAt" json:"savedAt"`
}

// Cart is the per-user shopping cart. The three totals are always a function
// of Outfits and are refreshed by Recalculate.
type Cart struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID       UserRef            `bson:"userId" json:"userId"`
	Outfits      []CartLine         `bson:"outfits" json:"outfits"`
	SavedOutfits []SavedLine        `bson:"savedOutfits" json:"savedOutfits"`
	TotalOutfits int                `bson:"totalOutfits" json:"totalOutfits"`
	TotalItems   int                `bson:"totalItems" json:"totalItems"`
	TotalPrice   float64            `bson:"totalPrice" json:"totalPrice"`
	LastModified time.Time          `bson:"lastModified" json:"lastModified"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
}

func NewCart(user UserRef, now time.Time) *Cart {
	c := &Cart{
		UserID:       user,
		Outfits:      []CartLine{},
		SavedOutfits: []SavedLine{},
		CreatedAt:    now,
	}
	c.Recalculate(now)
	return c
}

// Recalculate derives the rollups from the active lines.
func (c *Cart) Recalculate(now time.Time) {
	c.TotalOutfits, c.TotalItems, c.TotalPrice = Rollup(c.Outfits)
	c.LastModified = now
}

// Rollup returns Σquantity, Σ(numberOfItems × quantity) and Σ(unitPrice × quantity).
func Rollup(lines []CartLine) (outfits, items int, price float64) {
	totals := make([]float64, 0, len(lines))
	for _, l := range lines {
		outfits += l.Quantity
		items += l.NumberOfItems * l.Quantity
		totals = append(totals, LineTotal(l.UnitPrice, l.Quantity))
	}
	return outfits, items, SumPrices(totals...)
}

// OutfitSnapshot is the display data copied from an outfit into a cart line.
type OutfitSnapshot struct {
	OutfitID      OutfitRef
	Image         string
	Category      Category
	Section       Section
	CreatorName   string
	NumberOfItems int
	UnitPrice     float64
}

// SnapshotOutfit copies the outfit's display fields. Inactive or empty outfits
// cannot be snapshotted.
func SnapshotOutfit(o *Outfit) (OutfitSnapshot, error) {
	if !o.IsActive {
		return OutfitSnapshot{}, apperr.Validation("outfit is not active")
	}
	if len(o.Items) == 0 {
		return OutfitSnapshot{}, apperr.Validation("outfit has no items")
	}
	return OutfitSnapshot{
		OutfitID:      OutfitRefOf(o.ID),
		Image:         o.Image,
		Category:      o.Category,
		Section:       o.Section,
		CreatorName:   CreatorName(o),
		NumberOfItems: o.NumberOfItems,
		UnitPrice:     o.TotalPrice,
	}, nil
}

// CreatorName falls back from the cached username to the joined owner profile.
func CreatorName(o *Outfit) string {
	if name := strings.TrimSpace(o.Username); name != "" {
		return name
	}
	if o.Owner != nil {
		if name := strings.TrimSpace(o.Owner.Username); name != "" {
			return name
		}
		if name := strings.TrimSpace(o.Owner.FullName); name != "" {
			return name
		}
	}
	return UnknownCreator
}

// ValidateQuantity enforces the per-line bound.
func ValidateQuantity(q int) error {
	if q < MinLineQuantity || q > MaxLineQuantity {
		return apperr.Validation("quantity must be between %d and %d", MinLineQuantity, MaxLineQuantity)
	}
	return nil
}

// TruncateNotes trims notes to the maximum length.
func TruncateNotes(notes string) string {
	runes := []rune(notes)
	if len(runes) > MaxNotesLength {
		return string(runes[:MaxNotesLength])
	}
	return notes
}

// AddOutfit adds quantity of the snapshotted outfit. An existing line for the
// same outfit absorbs the quantity; the merged total is not re-bounded here.
// Notes replace the line's notes only when provided.
func (c *Cart) AddOutfit(snap OutfitSnapshot, quantity int, notes *string, now time.Time) *CartLine {
	for i := range c.Outfits {
		line := &c.Outfits[i]
		if line.OutfitID != snap.OutfitID {
			continue
		}
		line.Quantity += quantity
		if notes != nil {
			line.Notes = TruncateNotes(*notes)
		}
		return line
	}
	line := CartLine{
		ID:            NewLineID(),
		OutfitID:      snap.OutfitID,
		Image:         snap.Image,
		Category:      snap.Category,
		Section:       snap.Section,
		CreatorName:   snap.CreatorName,
		NumberOfItems: snap.NumberOfItems,
		UnitPrice:     snap.UnitPrice,
		Quantity:      quantity,
		AddedAt:       now,
	}
	if notes != nil {
		line.Notes = TruncateNotes(*notes)
	}
	c.Outfits = append(c.Outfits, line)
	return &c.Outfits[len(c.Outfits)-1]
}

func (c *Cart) lineIndex(id LineID) (int, error) {
	for i := range c.Outfits {
		if c.Outfits[i].ID == id {
			return i, nil
		}
	}
	return -1, apperr.NotFound("cart line not found")
}

func (c *Cart) savedIndex(id LineID) (int, error) {
	for i := range c.SavedOutfits {
		if c.SavedOutfits[i].ID == id {
			return i, nil
		}
	}
	return -1, apperr.NotFound("saved line not found")
}

// Line looks up an active line.
func (c *Cart) Line(id LineID) (*CartLine, error) {
	i, err := c.lineIndex(id)
	if err != nil {
		return nil, err
	}
	return &c.Outfits[i], nil
}

func (c *Cart) RemoveLine(id LineID) error {
	i, err := c.lineIndex(id)
	if err != nil {
		return err
	}
	c.Outfits = append(c.Outfits[:i], c.Outfits[i+1:]...)
	return nil
}

func (c *Cart) SetQuantity(id LineID, quantity int) error {
	if err := ValidateQuantity(quantity); err != nil {
		return err
	}
	line, err := c.Line(id)
	if err != nil {
		return err
	}
	line.Quantity = quantity
	return nil
}

func (c *Cart) SetNotes(id LineID, notes string) error {
	line, err := c.Line(id)
	if err != nil {
		return err
	}
	line.Notes = TruncateNotes(notes)
	return nil
}

// Clear empties the active lines and leaves saved lines alone.
func (c *Cart) Clear() {
	c.Outfits = []CartLine{}
}

// MoveToSaved moves an active line to the saved list.
func (c *Cart) MoveToSaved(id LineID, now time.Time) (*SavedLine, error) {
	i, err := c.lineIndex(id)
	if err != nil {
		return nil, err
	}
	line := c.Outfits[i]
	c.Outfits = append(c.Outfits[:i], c.Outfits[i+1:]...)
	c.SavedOutfits = append(c.SavedOutfits, SavedLine{
		ID:            line.ID,
		OutfitID:      line.OutfitID,
		Image:         line.Image,
		Category:      line.Category,
		Section:       line.Section,
		CreatorName:   line.CreatorName,
		NumberOfItems: line.NumberOfItems,
		UnitPrice:     line.UnitPrice,
		SavedAt:       now,
	})
	return &c.SavedOutfits[len(c.SavedOutfits)-1], nil
}

// MoveToCart moves a saved line back under a fresh line id. A zero quantity
// means 1.
func (c *Cart) MoveToCart(id LineID, quantity int, notes string, now time.Time) (*CartLine, error) {
	if quantity == 0 {
		quantity = 1
	}
	if err := ValidateQuantity(quantity); err != nil {
		return nil, err
	}
	i, err := c.savedIndex(id)
	if err != nil {
		return nil, err
	}
	saved := c.SavedOutfits[i]
	c.SavedOutfits = append(c.SavedOutfits[:i], c.SavedOutfits[i+1:]...)
	c.Outfits = append(c.Outfits, CartLine{
		ID:            NewLineID(),
		OutfitID:      saved.OutfitID,
		Image:         saved.Image,
		Category:      saved.Category,
		Section:       saved.Section,
		CreatorName:   saved.CreatorName,
		NumberOfItems: saved.NumberOfItems,
		UnitPrice:     saved.UnitPrice,
		Quantity:      quantity,
		Notes:         TruncateNotes(notes),
		AddedAt:       now,
	})
	return &c.Outfits[len(c.Outfits)-1], nil
}

func (c *Cart) RemoveSaved(id LineID) error {
	i, err := c.savedIndex(id)
	if err != nil {
		return err
	}
	c.SavedOutfits = append(c.SavedOutfits[:i], c.SavedOutfits[i+1:]...)
	return nil
}

type CartSummaryLine struct {
	LineID        LineID   `json:"lineId"`
	Category      Category `json:"category"`
	Section       Section  `json:"section"`
	CreatorName   string   `json:"creatorName"`
	NumberOfItems int      `json:"numberOfItems"`
	Quantity      int      `json:"quantity"`
	LineTotal     float64  `json:"lineTotal"`
}

type CartSummary struct {
	TotalOutfits int               `json:"totalOutfits"`
	TotalItems   int               `json:"totalItems"`
	TotalPrice   float64           `json:"totalPrice"`
	SavedCount   int               `json:"savedCount"`
	Lines        []CartSummaryLine `json:"lines"`
}

func (c *Cart) Summary() CartSummary {
	lines := make([]CartSummaryLine, 0, len(c.Outfits))
	for _, l := range c.Outfits {
		lines = append(lines, CartSummaryLine{
			LineID:        l.ID,
			Category:      l.Category,
			Section:       l.Section,
			CreatorName:   l.CreatorName,
			NumberOfItems: l.NumberOfItems,
			Quantity:      l.Quantity,
			LineTotal:     LineTotal(l.UnitPrice, l.Quantity),
		})
	}
	return CartSummary{
		TotalOutfits: c.TotalOutfits,
		TotalItems:   c.TotalItems,
		TotalPrice:   c.TotalPrice,
		SavedCount:   len(c.SavedOutfits),
		Lines:        lines,
	}
}

// CartCount is the badge shown next to the cart icon.
type CartCount struct {
	OutfitCount int `json:"outfitCount"`
	ItemCount   int `json:"itemCount"`
}

func (c *Cart) Count() CartCount {
	if c == nil {
		return CartCount{}
	}
	return CartCount{OutfitCount: c.TotalOutfits, ItemCount: c.TotalItems}
}
