package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"outfitstore/internal/apperr"
	"outfitstore/internal/middleware"
	"outfitstore/internal/models"
	"outfitstore/internal/services"
)

type ItemRequest struct {
	Source string  `json:"source" binding:"required"`
	Name   string  `json:"name" binding:"required"`
	Price  float64 `json:"price" binding:"required,gt=0"`
	Link   string  `json:"link" binding:"required"`
}

type OutfitCreateRequest struct {
	Username      string        `json:"username"`
	Image         string        `json:"image" binding:"required"`
	Category      string        `json:"category" binding:"required"`
	Section       string        `json:"section" binding:"required"`
	NumberOfItems int           `json:"numberOfItems" binding:"required,min=1"`
	Items         []ItemRequest `json:"items" binding:"required,min=1,dive"`
	Rating        float64       `json:"rating" binding:"gte=0,lte=5"`
	Type          string        `json:"type"`
	Tags          []string      `json:"tags"`
	Description   string        `json:"description"`
}

type OutfitUpdateRequest struct {
	Username      *string        `json:"username"`
	Image         *string        `json:"image"`
	Category      *string        `json:"category"`
	Section       *string        `json:"section"`
	NumberOfItems *int           `json:"numberOfItems"`
	Items         *[]ItemRequest `json:"items" binding:"omitempty,dive"`
	Rating        *float64       `json:"rating"`
	Type          *string        `json:"type"`
	Tags          *[]string      `json:"tags"`
	Description   *string        `json:"description"`
}

type ActiveRequest struct {
	IsActive *bool `json:"isActive"`
}

func toItems(in []ItemRequest) []models.Item {
	items := make([]models.Item, 0, len(in))
	for _, it := range in {
		items = append(items, models.Item{
			Source: strings.TrimSpace(it.Source),
			Name:   strings.TrimSpace(it.Name),
			Price:  it.Price,
			Link:   strings.TrimSpace(it.Link),
		})
	}
	return items
}

func (r OutfitUpdateRequest) patch() models.OutfitPatch {
	p := models.OutfitPatch{
		Username:      r.Username,
		Image:         r.Image,
		NumberOfItems: r.NumberOfItems,
		Rating:        r.Rating,
		Tags:          r.Tags,
		Description:   r.Description,
	}
	if r.Category != nil {
		v := models.Category(*r.Category)
		p.Category = &v
	}
	if r.Section != nil {
		v := models.Section(*r.Section)
		p.Section = &v
	}
	if r.Type != nil {
		v := models.OutfitType(*r.Type)
		p.Type = &v
	}
	if r.Items != nil {
		items := toItems(*r.Items)
		p.Items = &items
	}
	return p
}

// parseOutfitQuery reads the listing filters shared by the public and admin
// listings.
func parseOutfitQuery(c *gin.Context) (models.OutfitQuery, error) {
	w, err := parseWindow(c)
	if err != nil {
		return models.OutfitQuery{}, err
	}
	q := models.OutfitQuery{
		Window:   w,
		UserID:   models.UserRef(strings.TrimSpace(c.Query("userId"))),
		Category: models.Category(strings.TrimSpace(c.Query("category"))),
		Section:  models.Section(strings.TrimSpace(c.Query("section"))),
		Type:     models.OutfitType(strings.TrimSpace(c.Query("type"))),
		Search:   strings.TrimSpace(c.Query("search")),
	}
	if q.Category != "" && !q.Category.Valid() {
		return q, apperr.Validation("invalid category %q", q.Category)
	}
	if q.Section != "" && !q.Section.Valid() {
		return q, apperr.Validation("invalid section %q", q.Section)
	}
	if q.Type != "" && !q.Type.Valid() {
		return q, apperr.Validation("invalid type %q", q.Type)
	}
	if q.UserID != "" {
		if _, err := q.UserID.ObjectID(); err != nil {
			return q, err
		}
	}
	if q.From, err = parseDate(c.Query("from"), "from"); err != nil {
		return q, err
	}
	if q.To, err = parseDate(c.Query("to"), "to"); err != nil {
		return q, err
	}
	// a plain end date covers the whole day
	if q.To != nil && len(strings.TrimSpace(c.Query("to"))) == len("2006-01-02") {
		end := q.To.Add(24*time.Hour - time.Nanosecond)
		q.To = &end
	}
	if q.IsActive, err = parseOptionalBool(c.Query("isActive"), "isActive"); err != nil {
		return q, err
	}
	return q, nil
}

func GetOutfits(svc *services.OutfitService, log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /outfits"
		defer handlePanic(c, log, route)

		q, err := parseOutfitQuery(c)
		if err != nil {
			respondError(c, log, route, err)
			return
		}
		ctx, cancel := requestContext(c)
		defer cancel()

		page, err := svc.List(ctx, middleware.ActorFrom(c), q)
		if err != nil {
			respondError(c, log, route, err)
			return
		}
		c.JSON(http.StatusOK, page)
	}
}

func GetTrendingOutfits(svc *services.OutfitService, log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /outfits/trending"
		defer handlePanic(c, log, route)

		limit, err := parseNonNegative(c.Query("limit"), "limit")
		if err != nil {
			respondError(c, log, route, err)
			return
		}
		ctx, cancel := requestContext(c)
		defer cancel()

		trending, err := svc.Trending(ctx, limit)
		if err != nil {
			respondError(c, log, route, err)
			return
		}
		c.JSON(http.StatusOK, trending)
	}
}

func GetOutfit(svc *services.OutfitService, log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /outfits/:id"
		defer handlePanic(c, log, route)

		id, err := pathID(c, "id", "outfit")
		if err != nil {
			respondError(c, log, route, err)
			return
		}
		ctx, cancel := requestContext(c)
		defer cancel()

		outfit, err := svc.Get(ctx, id)
		if err != nil {
			respondError(c, log, route, err)
			return
		}
		c.JSON(http.StatusOK, outfit)
	}
}

func AdminGetOutfits(svc *services.OutfitService, log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /admin/outfits"
		defer handlePanic(c, log, route)

		q, err := parseOutfitQuery(c)
		if err != nil {
			respondError(c, log, route, err)
			return
		}
		ctx, cancel := requestContext(c)
		defer cancel()

		page, err := svc.AdminList(ctx, middleware.ActorFrom(c), q)
		if err != nil {
			respondError(c, log, route, err)
			return
		}
		c.JSON(http.StatusOK, page)
	}
}

func CreateOutfit(svc *services.OutfitService, log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /admin/outfits"
		defer handlePanic(c, log, route)

		var req OutfitCreateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}
		ctx, cancel := requestContext(c)
		defer cancel()

		outfit, err := svc.Create(ctx, middleware.ActorFrom(c), models.NewOutfitInput{
			Username:      req.Username,
			Image:         req.Image,
			Category:      models.Category(req.Category),
			Section:       models.Section(req.Section),
			NumberOfItems: req.NumberOfItems,
			Items:         toItems(req.Items),
			Rating:        req.Rating,
			Type:          models.OutfitType(req.Type),
			Tags:          req.Tags,
			Description:   req.Description,
		})
		if err != nil {
			respondError(c, log, route, err)
			return
		}
		c.JSON(http.StatusCreated, outfit)
	}
}

func UpdateOutfit(svc *services.OutfitService, log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /admin/outfits/:id"
		defer handlePanic(c, log, route)

		id, err := pathID(c, "id", "outfit")
		if err != nil {
			respondError(c, log, route, err)
			return
		}
		var req OutfitUpdateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}
		ctx, cancel := requestContext(c)
		defer cancel()

		outfit, err := svc.Update(ctx, middleware.ActorFrom(c), id, req.patch())
		if err != nil {
			respondError(c, log, route, err)
			return
		}
		c.JSON(http.StatusOK, outfit)
	}
}

func DeleteOutfit(svc *services.OutfitService, log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /admin/outfits/:id"
		defer handlePanic(c, log, route)

		id, err := pathID(c, "id", "outfit")
		if err != nil {
			respondError(c, log, route, err)
			return
		}
		ctx, cancel := requestContext(c)
		defer cancel()

		if err := svc.Delete(ctx, middleware.ActorFrom(c), id); err != nil {
			respondError(c, log, route, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "outfit deleted", "id": id.Hex()})
	}
}

// SetOutfitActive sets isActive from the body, or flips it when the body omits it.
func SetOutfitActive(svc *services.OutfitService, log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PATCH /admin/outfits/:id/active"
		defer handlePanic(c, log, route)

		id, err := pathID(c, "id", "outfit")
		if err != nil {
			respondError(c, log, route, err)
			return
		}
		var req ActiveRequest
		if c.Request.ContentLength > 0 {
			if err := c.ShouldBindJSON(&req); err != nil {
				respondValidationError(c, err)
				return
			}
		}
		ctx, cancel := requestContext(c)
		defer cancel()

		outfit, err := svc.SetActive(ctx, middleware.ActorFrom(c), id, req.IsActive)
		if err != nil {
			respondError(c, log, route, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"id": outfit.ID.Hex(), "isActive": outfit.IsActive})
	}
}
