package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"outfitstore/internal/apperr"
	"outfitstore/internal/models"
)

type outfitFixture struct {
	svc     *OutfitService
	outfits *fakeOutfits
	users   *fakeUsers
	images  *fakeImages
	admin   models.Actor
	alice   models.Actor
	bob     models.Actor
	deletes chan string
}

func newOutfitFixture(t *testing.T) *outfitFixture {
	t.Helper()
	f := &outfitFixture{
		outfits: newFakeOutfits(),
		users:   newFakeUsers(),
		images:  &fakeImages{},
		deletes: make(chan string, 4),
	}
	f.svc = NewOutfitService(f.outfits, f.users, f.images, testLogger())
	f.svc.clock = fixedClock
	f.svc.imageDeleted = func(ref string, _ error) { f.deletes <- ref }
	f.admin = f.users.add("curator", "Style Curator", true).Actor()
	f.alice = f.users.add("alice", "Alice Smith", false).Actor()
	f.bob = f.users.add("bob", "", false).Actor()
	return f
}

func sampleOutfitInput(prices ...float64) models.NewOutfitInput {
	items := make([]models.Item, 0, len(prices))
	for i, p := range prices {
		items = append(items, models.Item{
			Source: "Shop",
			Name:   "Piece " + string(rune('A'+i)),
			Price:  p,
			Link:   "https://shop.example.com/p",
		})
	}
	return models.NewOutfitInput{
		Image:         "uploads/outfits/look.jpg",
		Category:      models.CategoryCasual,
		Section:       models.SectionWomen,
		NumberOfItems: len(items),
		Items:         items,
		Rating:        4.5,
	}
}

func (f *outfitFixture) create(t *testing.T, prices ...float64) *models.Outfit {
	t.Helper()
	o, err := f.svc.Create(context.Background(), f.admin, sampleOutfitInput(prices...))
	require.NoError(t, err)
	return o
}

func (f *outfitFixture) waitForDelete(t *testing.T) string {
	t.Helper()
	select {
	case ref := <-f.deletes:
		return ref
	case <-time.After(2 * time.Second):
		t.Fatal("image delete was not attempted")
		return ""
	}
}

func TestCreateOutfitComputesTotalPrice(t *testing.T) {
	f := newOutfitFixture(t)
	o := f.create(t, 500, 1200, 300)

	assert.Equal(t, 2000.0, o.TotalPrice)
	assert.True(t, o.IsActive)
	assert.Equal(t, models.OutfitNormal, o.Type)
	assert.Equal(t, "curator", o.Username)
	assert.Zero(t, o.Clicks)
	assert.Zero(t, o.Likes)
	assert.Zero(t, o.Dislikes)

	stored, err := f.outfits.FindByID(context.Background(), o.ID)
	require.NoError(t, err)
	assert.Equal(t, 2000.0, stored.TotalPrice)
}

func TestCreateOutfitRequiresAdmin(t *testing.T) {
	f := newOutfitFixture(t)
	_, err := f.svc.Create(context.Background(), f.alice, sampleOutfitInput(100))
	assert.True(t, apperr.Is(err, apperr.KindPermission))
}

func TestCreateOutfitValidation(t *testing.T) {
	f := newOutfitFixture(t)
	cases := map[string]func(*models.NewOutfitInput){
		"bad category":    func(in *models.NewOutfitInput) { in.Category = "Space" },
		"bad section":     func(in *models.NewOutfitInput) { in.Section = "Pets" },
		"rating too high": func(in *models.NewOutfitInput) { in.Rating = 5.5 },
		"negative rating": func(in *models.NewOutfitInput) { in.Rating = -1 },
		"count mismatch":  func(in *models.NewOutfitInput) { in.NumberOfItems = 3 },
		"empty link":      func(in *models.NewOutfitInput) { in.Items[0].Link = " " },
		"zero price":      func(in *models.NewOutfitInput) { in.Items[1].Price = 0 },
		"missing image":   func(in *models.NewOutfitInput) { in.Image = "" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			in := sampleOutfitInput(10, 20)
			mutate(&in)
			_, err := f.svc.Create(context.Background(), f.admin, in)
			assert.True(t, apperr.Is(err, apperr.KindValidation), "got %v", err)
		})
	}
	assert.Empty(t, f.outfits.docs)
}

func TestGetOutfitCountsEveryFetch(t *testing.T) {
	f := newOutfitFixture(t)
	o := f.create(t, 100)

	for i := 0; i < 3; i++ {
		got, err := f.svc.Get(context.Background(), o.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(i+1), got.Clicks)
		require.NotNil(t, got.Owner)
		assert.Equal(t, "Style Curator", got.Owner.FullName)
	}

	_, err := f.svc.Get(context.Background(), primitive.NewObjectID())
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestUpdateOutfitReplacesItemsAndImage(t *testing.T) {
	f := newOutfitFixture(t)
	o := f.create(t, 500, 1200, 300)

	items := []models.Item{
		{Source: "A", Name: "Coat", Price: 2500, Link: "https://a.example.com"},
		{Source: "B", Name: "Boots", Price: 1499.99, Link: "https://b.example.com"},
	}
	image := "uploads/outfits/new.jpg"
	updated, err := f.svc.Update(context.Background(), f.admin, o.ID, models.OutfitPatch{
		Items: &items,
		Image: &image,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, updated.NumberOfItems)
	assert.Equal(t, 3999.99, updated.TotalPrice)
	assert.Equal(t, image, updated.Image)

	assert.Equal(t, "uploads/outfits/look.jpg", f.waitForDelete(t))
}

func TestUpdateOutfitSurvivesImageDeleteFailure(t *testing.T) {
	f := newOutfitFixture(t)
	f.images.err = errImageBackend
	o := f.create(t, 100)

	image := "uploads/outfits/other.png"
	_, err := f.svc.Update(context.Background(), f.admin, o.ID, models.OutfitPatch{Image: &image})
	require.NoError(t, err)
	f.waitForDelete(t)

	stored, err := f.outfits.FindByID(context.Background(), o.ID)
	require.NoError(t, err)
	assert.Equal(t, image, stored.Image)
}

func TestUpdateOutfitRejectsCountMismatch(t *testing.T) {
	f := newOutfitFixture(t)
	o := f.create(t, 100, 200)

	n := 5
	_, err := f.svc.Update(context.Background(), f.admin, o.ID, models.OutfitPatch{NumberOfItems: &n})
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	stored, _ := f.outfits.FindByID(context.Background(), o.ID)
	assert.Equal(t, 2, stored.NumberOfItems)
	assert.Equal(t, 300.0, stored.TotalPrice)
}

func TestDeleteOutfitDeletesImage(t *testing.T) {
	f := newOutfitFixture(t)
	f.images.err = errImageBackend
	o := f.create(t, 100)

	require.NoError(t, f.svc.Delete(context.Background(), f.admin, o.ID))
	assert.Equal(t, "uploads/outfits/look.jpg", f.waitForDelete(t))

	err := f.svc.Delete(context.Background(), f.admin, o.ID)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
	assert.True(t, apperr.Is(f.svc.Delete(context.Background(), f.alice, o.ID), apperr.KindPermission))
}

func TestLikeReplacesDislike(t *testing.T) {
	f := newOutfitFixture(t)
	o := f.create(t, 100)
	ctx := context.Background()

	got, err := f.svc.Vote(ctx, f.alice, o.ID, models.VoteDislike)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Likes)
	assert.Equal(t, 1, got.Dislikes)

	got, err = f.svc.Vote(ctx, f.alice, o.ID, models.VoteLike)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Likes)
	assert.Equal(t, 0, got.Dislikes)
	assert.Equal(t, models.VoteLike, got.Votes.Of(f.alice.UserID))

	stored, _ := f.outfits.FindByID(ctx, o.ID)
	assert.Equal(t, 1, stored.Likes)
	assert.Equal(t, 0, stored.Dislikes)

	// same vote again withdraws it
	got, err = f.svc.Vote(ctx, f.alice, o.ID, models.VoteLike)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Likes)
	assert.Equal(t, models.Vote(""), got.Votes.Of(f.alice.UserID))
}

func TestVoteRequiresUser(t *testing.T) {
	f := newOutfitFixture(t)
	o := f.create(t, 100)
	_, err := f.svc.Vote(context.Background(), models.Actor{}, o.ID, models.VoteLike)
	assert.True(t, apperr.Is(err, apperr.KindPermission))
}

func TestCommentAndReplyLifecycle(t *testing.T) {
	f := newOutfitFixture(t)
	o := f.create(t, 100)
	ctx := context.Background()

	comment, err := f.svc.AddComment(ctx, f.alice, o.ID, "", "  love the boots  ")
	require.NoError(t, err)
	assert.Equal(t, "love the boots", comment.Text)
	assert.Equal(t, "Alice Smith", comment.Username)
	assert.NotEmpty(t, comment.ID)

	reply, err := f.svc.AddReply(ctx, f.bob, o.ID, comment.ID, "", "same")
	require.NoError(t, err)
	assert.Equal(t, "bob", reply.Username)

	voted, err := f.svc.VoteComment(ctx, f.bob, o.ID, comment.ID, models.VoteLike)
	require.NoError(t, err)
	assert.Equal(t, 1, voted.Likes)

	votedReply, err := f.svc.VoteReply(ctx, f.alice, o.ID, comment.ID, reply.ID, models.VoteDislike)
	require.NoError(t, err)
	assert.Equal(t, 1, votedReply.Dislikes)

	_, err = f.svc.DeleteReply(ctx, f.alice, o.ID, comment.ID, reply.ID)
	assert.True(t, apperr.Is(err, apperr.KindPermission))

	_, err = f.svc.DeleteComment(ctx, f.bob, o.ID, comment.ID)
	assert.True(t, apperr.Is(err, apperr.KindPermission))

	got, err := f.svc.DeleteReply(ctx, f.bob, o.ID, comment.ID, reply.ID)
	require.NoError(t, err)
	require.Len(t, got.Comments, 1)
	assert.Empty(t, got.Comments[0].Replies)

	got, err = f.svc.DeleteComment(ctx, f.admin, o.ID, comment.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Comments)

	_, err = f.svc.DeleteComment(ctx, f.admin, o.ID, comment.ID)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestCommentValidation(t *testing.T) {
	f := newOutfitFixture(t)
	o := f.create(t, 100)
	ctx := context.Background()

	_, err := f.svc.AddComment(ctx, f.alice, o.ID, "", "   ")
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	nameless := models.Actor{UserID: models.UserRefOf(primitive.NewObjectID())}
	_, err = f.svc.AddComment(ctx, nameless, o.ID, "", "hello")
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	c, err := f.svc.AddComment(ctx, nameless, o.ID, "guest-name", "hello")
	require.NoError(t, err)
	assert.Equal(t, "guest-name", c.Username)

	_, err = f.svc.AddReply(ctx, f.alice, o.ID, models.CommentID("missing"), "", "hi")
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestSetActiveAndPublicListing(t *testing.T) {
	f := newOutfitFixture(t)
	ctx := context.Background()
	shown := f.create(t, 100)
	hidden := f.create(t, 200)

	got, err := f.svc.SetActive(ctx, f.admin, hidden.ID, nil)
	require.NoError(t, err)
	assert.False(t, got.IsActive)

	page, err := f.svc.List(ctx, f.alice, models.OutfitQuery{IncludeInactive: true})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, shown.ID, page.Items[0].ID)
	assert.Equal(t, int64(DefaultPageLimit), page.Limit)

	page, err = f.svc.AdminList(ctx, f.admin, models.OutfitQuery{Window: models.Window{Limit: 500}})
	require.NoError(t, err)
	assert.Len(t, page.Items, 2)
	assert.Equal(t, int64(MaxPageLimit), page.Limit)

	// inactive outfits are still fetchable by id
	_, err = f.svc.Get(ctx, hidden.ID)
	assert.NoError(t, err)

	active := true
	got, err = f.svc.SetActive(ctx, f.admin, hidden.ID, &active)
	require.NoError(t, err)
	assert.True(t, got.IsActive)

	_, err = f.svc.AdminList(ctx, f.alice, models.OutfitQuery{})
	assert.True(t, apperr.Is(err, apperr.KindPermission))
}

func TestTrending(t *testing.T) {
	f := newOutfitFixture(t)
	ctx := context.Background()
	a := f.create(t, 100)
	b := f.create(t, 200)
	c := f.create(t, 300)

	for i := 0; i < 3; i++ {
		_, _ = f.svc.Get(ctx, b.ID)
	}
	_, _ = f.svc.Get(ctx, a.ID)
	for i := 0; i < 5; i++ {
		_, _ = f.svc.Get(ctx, c.ID)
	}
	_, err := f.svc.SetActive(ctx, f.admin, c.ID, nil)
	require.NoError(t, err)

	trending, err := f.svc.Trending(ctx, 0)
	require.NoError(t, err)
	require.Len(t, trending.Outfits, 2)
	assert.Equal(t, b.ID, trending.Outfits[0].ID)
	assert.Equal(t, a.ID, trending.Outfits[1].ID)
	assert.Equal(t, int64(2), trending.ActiveCount)
	assert.Equal(t, int64(4), trending.TotalClicks)

	trending, err = f.svc.Trending(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, trending.Outfits, 1)
}
