package services

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"outfitstore/internal/apperr"
	"outfitstore/internal/logging"
	"outfitstore/internal/models"
)

var fixedNow = time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

func testLogger() logrus.FieldLogger { return logging.Discard() }

// clone copies a document through bson so callers never share slices or maps
// with the fake's stored copy, the same as a real round trip to Mongo.
func clone[T any](src *T) *T {
	raw, err := bson.Marshal(src)
	if err != nil {
		panic(err)
	}
	var dst T
	if err := bson.Unmarshal(raw, &dst); err != nil {
		panic(err)
	}
	return &dst
}

type fakeOutfits struct {
	mu      sync.Mutex
	docs    map[primitive.ObjectID]*models.Outfit
	saves   int
	saveErr error
}

func newFakeOutfits() *fakeOutfits {
	return &fakeOutfits{docs: map[primitive.ObjectID]*models.Outfit{}}
}

func (f *fakeOutfits) Insert(_ context.Context, o *models.Outfit) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if o.ID.IsZero() {
		o.ID = primitive.NewObjectID()
	}
	f.docs[o.ID] = clone(o)
	return nil
}

func (f *fakeOutfits) FindByID(_ context.Context, id primitive.ObjectID) (*models.Outfit, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.docs[id]
	if !ok {
		return nil, apperr.NotFound("outfit not found")
	}
	return clone(o), nil
}

func (f *fakeOutfits) IncrementClicks(_ context.Context, id primitive.ObjectID) (*models.Outfit, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.docs[id]
	if !ok {
		return nil, apperr.NotFound("outfit not found")
	}
	o.Clicks++
	return clone(o), nil
}

func (f *fakeOutfits) Save(_ context.Context, o *models.Outfit) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return f.saveErr
	}
	if _, ok := f.docs[o.ID]; !ok {
		return apperr.NotFound("outfit not found")
	}
	f.saves++
	f.docs[o.ID] = clone(o)
	return nil
}

func (f *fakeOutfits) Delete(_ context.Context, id primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.docs[id]; !ok {
		return apperr.NotFound("outfit not found")
	}
	delete(f.docs, id)
	return nil
}

func (f *fakeOutfits) List(_ context.Context, q models.OutfitQuery) (models.OutfitPage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var visible, matched []models.Outfit
	for _, o := range f.docs {
		if !q.IncludeInactive && !o.IsActive {
			continue
		}
		visible = append(visible, *clone(o))
		if q.Category != "" && o.Category != q.Category {
			continue
		}
		if q.IsActive != nil && o.IsActive != *q.IsActive {
			continue
		}
		if q.Search != "" && !strings.Contains(strings.ToLower(o.Description), strings.ToLower(q.Search)) {
			continue
		}
		matched = append(matched, *clone(o))
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID.Hex() < matched[j].ID.Hex() })
	page := matched
	if int(q.Offset) >= len(page) {
		page = []models.Outfit{}
	} else {
		page = page[q.Offset:]
	}
	if q.Limit > 0 && int(q.Limit) < len(page) {
		page = page[:q.Limit]
	}
	return models.OutfitPage{
		Items:        page,
		TotalCount:   int64(len(visible)),
		MatchedCount: int64(len(matched)),
		Offset:       q.Offset,
		Limit:        q.Limit,
	}, nil
}

func (f *fakeOutfits) Trending(_ context.Context, limit int64) ([]models.Outfit, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var active []models.Outfit
	for _, o := range f.docs {
		if o.IsActive {
			active = append(active, *clone(o))
		}
	}
	sort.Slice(active, func(i, j int) bool { return active[i].Clicks > active[j].Clicks })
	if int64(len(active)) > limit {
		active = active[:limit]
	}
	return active, nil
}

func (f *fakeOutfits) ActiveStats(context.Context) (int64, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var count, clicks int64
	for _, o := range f.docs {
		if o.IsActive {
			count++
			clicks += o.Clicks
		}
	}
	return count, clicks, nil
}

type fakeCarts struct {
	mu    sync.Mutex
	docs  map[models.UserRef]*models.Cart
	saves int
}

func newFakeCarts() *fakeCarts {
	return &fakeCarts{docs: map[models.UserRef]*models.Cart{}}
}

func (f *fakeCarts) FindByUser(_ context.Context, user models.UserRef) (*models.Cart, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.docs[user]
	if !ok {
		return nil, apperr.NotFound("cart not found")
	}
	return clone(c), nil
}

func (f *fakeCarts) Save(_ context.Context, c *models.Cart) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if c.ID.IsZero() {
		c.ID = primitive.NewObjectID()
	}
	f.saves++
	f.docs[c.UserID] = clone(c)
	return nil
}

func (f *fakeCarts) stored(user models.UserRef) *models.Cart {
	f.mu.Lock()
	defer f.mu.Unlock()
	if c, ok := f.docs[user]; ok {
		return clone(c)
	}
	return nil
}

type fakeTestimonials struct {
	mu   sync.Mutex
	docs map[primitive.ObjectID]*models.Testimonial
}

func newFakeTestimonials() *fakeTestimonials {
	return &fakeTestimonials{docs: map[primitive.ObjectID]*models.Testimonial{}}
}

func (f *fakeTestimonials) Insert(_ context.Context, t *models.Testimonial) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if t.ID.IsZero() {
		t.ID = primitive.NewObjectID()
	}
	f.docs[t.ID] = clone(t)
	return nil
}

func (f *fakeTestimonials) FindByID(_ context.Context, id primitive.ObjectID) (*models.Testimonial, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.docs[id]
	if !ok {
		return nil, apperr.NotFound("testimonial not found")
	}
	return clone(t), nil
}

func (f *fakeTestimonials) FindActiveByUser(_ context.Context, user models.UserRef) (*models.Testimonial, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, t := range f.docs {
		if t.UserID == user && t.IsActive {
			return clone(t), nil
		}
	}
	return nil, apperr.NotFound("testimonial not found")
}

func (f *fakeTestimonials) Save(_ context.Context, t *models.Testimonial) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.docs[t.ID]; !ok {
		return apperr.NotFound("testimonial not found")
	}
	t.Likes = len(t.LikedBy)
	f.docs[t.ID] = clone(t)
	return nil
}

func (f *fakeTestimonials) Delete(_ context.Context, id primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.docs[id]; !ok {
		return apperr.NotFound("testimonial not found")
	}
	delete(f.docs, id)
	return nil
}

func (f *fakeTestimonials) List(_ context.Context, q models.TestimonialQuery) (models.TestimonialPage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	items := []models.Testimonial{}
	for _, t := range f.docs {
		if q.ApprovedOnly && (!t.IsApproved || !t.IsActive) {
			continue
		}
		if q.Featured != nil && t.IsFeatured != *q.Featured {
			continue
		}
		if q.Approved != nil && t.IsApproved != *q.Approved {
			continue
		}
		items = append(items, *clone(t))
	}
	sort.Slice(items, func(i, j int) bool { return items[i].DisplayOrder < items[j].DisplayOrder })
	return models.TestimonialPage{Items: items, TotalCount: int64(len(items)), Offset: q.Offset, Limit: q.Limit}, nil
}

func (f *fakeTestimonials) SetDisplayOrder(_ context.Context, id primitive.ObjectID, order int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.docs[id]
	if !ok {
		return apperr.NotFound("testimonial not found")
	}
	t.DisplayOrder = order
	return nil
}

type fakeUsers struct {
	mu   sync.Mutex
	docs map[primitive.ObjectID]*models.User
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{docs: map[primitive.ObjectID]*models.User{}}
}

func (f *fakeUsers) Insert(_ context.Context, u *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	f.docs[u.ID] = clone(u)
	return nil
}

func (f *fakeUsers) FindByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.docs[id]
	if !ok {
		return nil, apperr.NotFound("user not found")
	}
	return clone(u), nil
}

func (f *fakeUsers) FindByEmail(_ context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	email = models.NormalizeEmail(email)
	for _, u := range f.docs {
		if u.Email == email {
			return clone(u), nil
		}
	}
	return nil, apperr.NotFound("user not found")
}

func (f *fakeUsers) Taken(_ context.Context, username, email string, except primitive.ObjectID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	email = models.NormalizeEmail(email)
	for id, u := range f.docs {
		if id == except {
			continue
		}
		if u.Username == username || u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeUsers) Save(_ context.Context, u *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.docs[u.ID]; !ok {
		return apperr.NotFound("user not found")
	}
	f.docs[u.ID] = clone(u)
	return nil
}

func (f *fakeUsers) Delete(_ context.Context, id primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.docs[id]; !ok {
		return apperr.NotFound("user not found")
	}
	delete(f.docs, id)
	return nil
}

func (f *fakeUsers) List(_ context.Context, w models.Window, _ string) (models.UserPage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	items := []models.User{}
	for _, u := range f.docs {
		items = append(items, *clone(u))
	}
	return models.UserPage{Items: items, TotalCount: int64(len(items)), Offset: w.Offset, Limit: w.Limit}, nil
}

func (f *fakeUsers) add(username, fullName string, admin bool) *models.User {
	u := &models.User{
		ID:        primitive.NewObjectID(),
		Username:  username,
		Email:     username + "@example.com",
		FullName:  fullName,
		IsAdmin:   admin,
		CreatedAt: fixedNow,
		UpdatedAt: fixedNow,
	}
	_ = f.Insert(context.Background(), u)
	return u
}

type fakeImages struct {
	mu      sync.Mutex
	deleted []string
	err     error
}

func (f *fakeImages) Delete(ref string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, ref)
	return f.err
}

var errImageBackend = errors.New("image backend unavailable")
