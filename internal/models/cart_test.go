package models

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"outfitstore/internal/apperr"
)

var now = time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)

func snapshot(price float64, items int) OutfitSnapshot {
	return OutfitSnapshot{
		OutfitID:      OutfitRefOf(primitive.NewObjectID()),
		Image:         "uploads/outfits/a.jpg",
		Category:      CategoryCasual,
		Section:       SectionWomen,
		CreatorName:   "curator",
		NumberOfItems: items,
		UnitPrice:     price,
	}
}

func TestRollupUsesDecimalArithmetic(t *testing.T) {
	lines := []CartLine{
		{UnitPrice: 0.1, Quantity: 3, NumberOfItems: 2},
		{UnitPrice: 0.2, Quantity: 1, NumberOfItems: 4},
	}
	outfits, items, price := Rollup(lines)
	assert.Equal(t, 4, outfits)
	assert.Equal(t, 10, items)
	assert.Equal(t, 0.5, price)
}

func TestAddOutfitMergesSameOutfit(t *testing.T) {
	cart := NewCart("u1", now)
	snap := snapshot(2000, 3)

	first := cart.AddOutfit(snap, 2, nil, now)
	id := first.ID
	notes := "gift"
	merged := cart.AddOutfit(snap, 9, &notes, now)
	cart.Recalculate(now)

	require.Len(t, cart.Outfits, 1)
	assert.Equal(t, id, merged.ID)
	assert.Equal(t, 11, merged.Quantity)
	assert.Equal(t, "gift", merged.Notes)
	assert.Equal(t, 11, cart.TotalOutfits)
	assert.Equal(t, 33, cart.TotalItems)
	assert.Equal(t, 22000.0, cart.TotalPrice)
}

func TestAddOutfitKeepsNotesWhenOmitted(t *testing.T) {
	cart := NewCart("u1", now)
	snap := snapshot(100, 1)
	notes := "first"
	cart.AddOutfit(snap, 1, &notes, now)
	line := cart.AddOutfit(snap, 1, nil, now)
	assert.Equal(t, "first", line.Notes)
}

func TestSetQuantityBounds(t *testing.T) {
	cart := NewCart("u1", now)
	line := cart.AddOutfit(snapshot(100, 1), 1, nil, now)

	for _, q := range []int{0, 11, -1} {
		err := cart.SetQuantity(line.ID, q)
		assert.True(t, apperr.Is(err, apperr.KindValidation), "quantity %d", q)
	}
	require.NoError(t, cart.SetQuantity(line.ID, 10))
	assert.Equal(t, 10, cart.Outfits[0].Quantity)

	err := cart.SetQuantity("missing", 2)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestTruncateNotes(t *testing.T) {
	long := strings.Repeat("é", MaxNotesLength+25)
	got := TruncateNotes(long)
	assert.Equal(t, MaxNotesLength, len([]rune(got)))
	assert.Equal(t, "short", TruncateNotes("short"))
}

func TestSaveForLaterRoundTrip(t *testing.T) {
	cart := NewCart("u1", now)
	notes := "keep"
	line := cart.AddOutfit(snapshot(450, 2), 4, &notes, now)
	lineID := line.ID

	later := now.Add(time.Hour)
	saved, err := cart.MoveToSaved(lineID, later)
	require.NoError(t, err)
	assert.Empty(t, cart.Outfits)
	assert.Equal(t, lineID, saved.ID)
	assert.Equal(t, later, saved.SavedAt)

	back, err := cart.MoveToCart(lineID, 0, "again", later)
	require.NoError(t, err)
	assert.NotEqual(t, lineID, back.ID)
	assert.Equal(t, 1, back.Quantity)
	assert.Equal(t, "again", back.Notes)
	assert.Equal(t, 450.0, back.UnitPrice)
	assert.Empty(t, cart.SavedOutfits)

	_, err = cart.MoveToCart(lineID, 1, "", later)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestMoveToCartRejectsQuantityBeforeMoving(t *testing.T) {
	cart := NewCart("u1", now)
	line := cart.AddOutfit(snapshot(10, 1), 1, nil, now)
	_, err := cart.MoveToSaved(line.ID, now)
	require.NoError(t, err)
	savedID := cart.SavedOutfits[0].ID

	_, err = cart.MoveToCart(savedID, 12, "", now)
	assert.True(t, apperr.Is(err, apperr.KindValidation))
	assert.Len(t, cart.SavedOutfits, 1)
}

func TestClearKeepsSavedLines(t *testing.T) {
	cart := NewCart("u1", now)
	a := cart.AddOutfit(snapshot(10, 1), 1, nil, now)
	cart.AddOutfit(snapshot(20, 1), 2, nil, now)
	_, err := cart.MoveToSaved(a.ID, now)
	require.NoError(t, err)

	cart.Clear()
	cart.Recalculate(now)
	assert.Empty(t, cart.Outfits)
	assert.NotNil(t, cart.Outfits)
	assert.Len(t, cart.SavedOutfits, 1)
	assert.Zero(t, cart.TotalPrice)
}

func TestSummaryAndCount(t *testing.T) {
	cart := NewCart("u1", now)
	cart.AddOutfit(snapshot(19.99, 2), 3, nil, now)
	cart.Recalculate(now)

	summary := cart.Summary()
	require.Len(t, summary.Lines, 1)
	assert.Equal(t, 59.97, summary.Lines[0].LineTotal)
	assert.Equal(t, 3, summary.TotalOutfits)
	assert.Equal(t, 6, summary.TotalItems)

	assert.Equal(t, CartCount{OutfitCount: 3, ItemCount: 6}, cart.Count())
	var none *Cart
	assert.Equal(t, CartCount{}, none.Count())
}

func TestSnapshotOutfit(t *testing.T) {
	o := &Outfit{ID: primitive.NewObjectID(), IsActive: true, Items: []Item{{Name: "a"}}, NumberOfItems: 1, TotalPrice: 75}
	snap, err := SnapshotOutfit(o)
	require.NoError(t, err)
	assert.Equal(t, UnknownCreator, snap.CreatorName)
	assert.Equal(t, 75.0, snap.UnitPrice)

	o.Owner = &OutfitOwner{FullName: "Style Curator"}
	assert.Equal(t, "Style Curator", CreatorName(o))
	o.Owner.Username = "curator"
	assert.Equal(t, "curator", CreatorName(o))
	o.Username = "  stylist "
	assert.Equal(t, "stylist", CreatorName(o))

	o.IsActive = false
	_, err = SnapshotOutfit(o)
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	o.IsActive = true
	o.Items = nil
	_, err = SnapshotOutfit(o)
	assert.True(t, apperr.Is(err, apperr.KindValidation))
}
