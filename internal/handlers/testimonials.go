package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"outfitstore/internal/middleware"
	"outfitstore/internal/models"
	"outfitstore/internal/services"
)

type TestimonialCreateRequest struct {
	Rating     int    `json:"rating" binding:"required,min=1,max=5"`
	Title      string `json:"title" binding:"required,max=100"`
	Content    string `json:"content" binding:"required,max=1000"`
	Location   string `json:"location" binding:"max=100"`
	Occupation string `json:"occupation" binding:"max=100"`
}

type TestimonialUpdateRequest struct {
	Rating       *int    `json:"rating" binding:"omitempty,min=1,max=5"`
	Title        *string `json:"title"`
	Content      *string `json:"content"`
	Location     *string `json:"location"`
	Occupation   *string `json:"occupation"`
	IsApproved   *bool   `json:"isApproved"`
	IsFeatured   *bool   `json:"isFeatured"`
	DisplayOrder *int    `json:"displayOrder"`
}

type ApproveRequest struct {
	IsApproved *bool `json:"isApproved"`
}

type FeatureRequest struct {
	IsFeatured *bool `json:"isFeatured"`
}

type ReorderRequest struct {
	Testimonials []models.OrderUpdate `json:"testimonials" binding:"required,min=1,dive"`
}

var testimonialSortAliases = map[string]string{
	"order":  "displayOrder",
	"recent": "createdAt",
	"newest": "createdAt",
}

// parseTestimonialWindow maps the public sort names onto stored fields.
// Display order sorts ascending unless an order is given.
func parseTestimonialWindow(c *gin.Context) (models.Window, error) {
	w, err := parseWindow(c)
	if err != nil {
		return w, err
	}
	if field, ok := testimonialSortAliases[w.SortField]; ok {
		w.SortField = field
	}
	if (w.SortField == "" || w.SortField == "displayOrder") && strings.TrimSpace(c.Query("order")) == "" {
		w.SortDir = models.SortAsc
	}
	return w, nil
}

func GetTestimonials(svc *services.TestimonialService, log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /testimonials"
		defer handlePanic(c, log, route)

		w, err := parseTestimonialWindow(c)
		if err != nil {
			respondError(c, log, route, err)
			return
		}
		featured, err := parseOptionalBool(c.Query("featured"), "featured")
		if err != nil {
			respondError(c, log, route, err)
			return
		}
		ctx, cancel := requestContext(c)
		defer cancel()

		page, err := svc.ListApproved(ctx, featured, w)
		if err != nil {
			respondError(c, log, route, err)
			return
		}
		c.JSON(http.StatusOK, page)
	}
}

func GetTestimonial(svc *services.TestimonialService, log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /testimonials/:id"
		defer handlePanic(c, log, route)

		id, err := pathID(c, "id", "testimonial")
		if err != nil {
			respondError(c, log, route, err)
			return
		}
		ctx, cancel := requestContext(c)
		defer cancel()

		t, err := svc.Get(ctx, middleware.ActorFrom(c), id)
		if err != nil {
			respondError(c, log, route, err)
			return
		}
		c.JSON(http.StatusOK, t)
	}
}

func CreateTestimonial(svc *services.TestimonialService, log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /testimonials"
		defer handlePanic(c, log, route)

		var req TestimonialCreateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}
		ctx, cancel := requestContext(c)
		defer cancel()

		t, err := svc.Create(ctx, middleware.ActorFrom(c), models.TestimonialInput{
			Rating:     req.Rating,
			Title:      req.Title,
			Content:    req.Content,
			Location:   req.Location,
			Occupation: req.Occupation,
		})
		if err != nil {
			respondError(c, log, route, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{
			"message":     "testimonial submitted and awaiting approval",
			"testimonial": t,
		})
	}
}

func UpdateTestimonial(svc *services.TestimonialService, log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /testimonials/:id"
		defer handlePanic(c, log, route)

		id, err := pathID(c, "id", "testimonial")
		if err != nil {
			respondError(c, log, route, err)
			return
		}
		var req TestimonialUpdateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}
		ctx, cancel := requestContext(c)
		defer cancel()

		t, err := svc.Update(ctx, middleware.ActorFrom(c), id, models.TestimonialEdit{
			Rating:       req.Rating,
			Title:        req.Title,
			Content:      req.Content,
			Location:     req.Location,
			Occupation:   req.Occupation,
			IsApproved:   req.IsApproved,
			IsFeatured:   req.IsFeatured,
			DisplayOrder: req.DisplayOrder,
		})
		if err != nil {
			respondError(c, log, route, err)
			return
		}
		c.JSON(http.StatusOK, t)
	}
}

func DeleteTestimonial(svc *services.TestimonialService, log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /testimonials/:id"
		defer handlePanic(c, log, route)

		id, err := pathID(c, "id", "testimonial")
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
		c.JSON(http.StatusOK, gin.H{"message": "testimonial deleted", "id": id.Hex()})
	}
}

func LikeTestimonial(svc *services.TestimonialService, log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /testimonials/:id/like"
		defer handlePanic(c, log, route)

		id, err := pathID(c, "id", "testimonial")
		if err != nil {
			respondError(c, log, route, err)
			return
		}
		ctx, cancel := requestContext(c)
		defer cancel()

		t, liked, err := svc.ToggleLike(ctx, middleware.ActorFrom(c), id)
		if err != nil {
			respondError(c, log, route, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"likes": t.Likes, "liked": liked})
	}
}

func AdminGetTestimonials(svc *services.TestimonialService, log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /admin/testimonials"
		defer handlePanic(c, log, route)

		w, err := parseTestimonialWindow(c)
		if err != nil {
			respondError(c, log, route, err)
			return
		}
		q := models.TestimonialQuery{Window: w}
		if q.Approved, err = parseOptionalBool(c.Query("approved"), "approved"); err != nil {
			respondError(c, log, route, err)
			return
		}
		if q.Featured, err = parseOptionalBool(c.Query("featured"), "featured"); err != nil {
			respondError(c, log, route, err)
			return
		}
		active, err := parseOptionalBool(c.Query("isActive"), "isActive")
		if err != nil {
			respondError(c, log, route, err)
			return
		}
		q.ActiveOnly = active != nil && *active
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

func ApproveTestimonial(svc *services.TestimonialService, log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PATCH /admin/testimonials/:id/approve"
		defer handlePanic(c, log, route)

		id, err := pathID(c, "id", "testimonial")
		if err != nil {
			respondError(c, log, route, err)
			return
		}
		var req ApproveRequest
		if c.Request.ContentLength > 0 {
			if err := c.ShouldBindJSON(&req); err != nil {
				respondValidationError(c, err)
				return
			}
		}
		ctx, cancel := requestContext(c)
		defer cancel()

		t, err := svc.Approve(ctx, middleware.ActorFrom(c), id, req.IsApproved)
		if err != nil {
			respondError(c, log, route, err)
			return
		}
		c.JSON(http.StatusOK, t)
	}
}

func FeatureTestimonial(svc *services.TestimonialService, log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PATCH /admin/testimonials/:id/feature"
		defer handlePanic(c, log, route)

		id, err := pathID(c, "id", "testimonial")
		if err != nil {
			respondError(c, log, route, err)
			return
		}
		var req FeatureRequest
		if c.Request.ContentLength > 0 {
			if err := c.ShouldBindJSON(&req); err != nil {
				respondValidationError(c, err)
				return
			}
		}
		ctx, cancel := requestContext(c)
		defer cancel()

		t, err := svc.Feature(ctx, middleware.ActorFrom(c), id, req.IsFeatured)
		if err != nil {
			respondError(c, log, route, err)
			return
		}
		c.JSON(http.StatusOK, t)
	}
}

// ReorderTestimonials reports per-item results; a partial failure is still 200.
func ReorderTestimonials(svc *services.TestimonialService, log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /admin/testimonials/order"
		defer handlePanic(c, log, route)

		var req ReorderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}
		ctx, cancel := requestContext(c)
		defer cancel()

		result, err := svc.Reorder(ctx, middleware.ActorFrom(c), req.Testimonials)
		if err != nil {
			respondError(c, log, route, err)
			return
		}
		c.JSON(http.StatusOK, result)
	}
}
