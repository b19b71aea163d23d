package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"outfitstore/internal/middleware"
	"outfitstore/internal/models"
	"outfitstore/internal/services"
)

type AddToCartRequest struct {
	OutfitID string  `json:"outfitId" binding:"required"`
	Quantity int     `json:"quantity" binding:"required,min=1,max=10"`
	Notes    *string `json:"notes"`
}

type QuantityRequest struct {
	Quantity int `json:"quantity" binding:"required,min=1,max=10"`
}

type NotesRequest struct {
	Notes string `json:"notes"`
}

type MoveToCartRequest struct {
	Quantity int    `json:"quantity" binding:"omitempty,min=1,max=10"`
	Notes    string `json:"notes"`
}

type cartMutation func(ctx context.Context, actor models.Actor, line models.LineID) (*models.Cart, error)

// cartLineHandler covers the line operations that take no body.
func cartLineHandler(route string, log logrus.FieldLogger, op cartMutation) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer handlePanic(c, log, route)
		ctx, cancel := requestContext(c)
		defer cancel()

		cart, err := op(ctx, middleware.ActorFrom(c), models.LineID(c.Param("lineId")))
		if err != nil {
			respondError(c, log, route, err)
			return
		}
		c.JSON(http.StatusOK, cart)
	}
}

func GetCart(svc *services.CartService, log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /cart"
		defer handlePanic(c, log, route)
		ctx, cancel := requestContext(c)
		defer cancel()

		cart, err := svc.GetOrCreate(ctx, middleware.ActorFrom(c))
		if err != nil {
			respondError(c, log, route, err)
			return
		}
		c.JSON(http.StatusOK, cart)
	}
}

func GetCartSummary(svc *services.CartService, log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /cart/summary"
		defer handlePanic(c, log, route)
		ctx, cancel := requestContext(c)
		defer cancel()

		summary, err := svc.Summary(ctx, middleware.ActorFrom(c))
		if err != nil {
			respondError(c, log, route, err)
			return
		}
		c.JSON(http.StatusOK, summary)
	}
}

func GetCartCount(svc *services.CartService, log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /cart/count"
		defer handlePanic(c, log, route)
		ctx, cancel := requestContext(c)
		defer cancel()

		count, err := svc.Count(ctx, middleware.ActorFrom(c))
		if err != nil {
			respondError(c, log, route, err)
			return
		}
		c.JSON(http.StatusOK, count)
	}
}

func AddToCart(svc *services.CartService, log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /cart/outfits"
		defer handlePanic(c, log, route)

		var req AddToCartRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}
		ctx, cancel := requestContext(c)
		defer cancel()

		cart, err := svc.AddOutfit(ctx, middleware.ActorFrom(c), services.AddOutfitInput{
			OutfitID: req.OutfitID,
			Quantity: req.Quantity,
			Notes:    req.Notes,
		})
		if err != nil {
			respondError(c, log, route, err)
			return
		}
		c.JSON(http.StatusOK, cart)
	}
}

func UpdateCartQuantity(svc *services.CartService, log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /cart/outfits/:lineId/quantity"
		defer handlePanic(c, log, route)

		var req QuantityRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}
		ctx, cancel := requestContext(c)
		defer cancel()

		cart, err := svc.UpdateQuantity(ctx, middleware.ActorFrom(c), models.LineID(c.Param("lineId")), req.Quantity)
		if err != nil {
			respondError(c, log, route, err)
			return
		}
		c.JSON(http.StatusOK, cart)
	}
}

func UpdateCartNotes(svc *services.CartService, log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /cart/outfits/:lineId/notes"
		defer handlePanic(c, log, route)

		var req NotesRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}
		ctx, cancel := requestContext(c)
		defer cancel()

		cart, err := svc.UpdateNotes(ctx, middleware.ActorFrom(c), models.LineID(c.Param("lineId")), req.Notes)
		if err != nil {
			respondError(c, log, route, err)
			return
		}
		c.JSON(http.StatusOK, cart)
	}
}

func RemoveCartLine(svc *services.CartService, log logrus.FieldLogger) gin.HandlerFunc {
	return cartLineHandler("DELETE /cart/outfits/:lineId", log, svc.RemoveLine)
}

func SaveCartLine(svc *services.CartService, log logrus.FieldLogger) gin.HandlerFunc {
	return cartLineHandler("POST /cart/outfits/:lineId/save", log, svc.MoveToSaved)
}

func RemoveSavedLine(svc *services.CartService, log logrus.FieldLogger) gin.HandlerFunc {
	return cartLineHandler("DELETE /cart/saved/:lineId", log, svc.RemoveSaved)
}

func MoveSavedToCart(svc *services.CartService, log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /cart/saved/:lineId/move"
		defer handlePanic(c, log, route)

		var req MoveToCartRequest
		if c.Request.ContentLength > 0 {
			if err := c.ShouldBindJSON(&req); err != nil {
				respondValidationError(c, err)
				return
			}
		}
		ctx, cancel := requestContext(c)
		defer cancel()

		cart, err := svc.MoveToCart(ctx, middleware.ActorFrom(c), models.LineID(c.Param("lineId")), req.Quantity, req.Notes)
		if err != nil {
			respondError(c, log, route, err)
			return
		}
		c.JSON(http.StatusOK, cart)
	}
}

func ClearCart(svc *services.CartService, log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /cart"
		defer handlePanic(c, log, route)
		ctx, cancel := requestContext(c)
		defer cancel()

		cart, err := svc.Clear(ctx, middleware.ActorFrom(c))
		if err != nil {
			respondError(c, log, route, err)
			return
		}
		c.JSON(http.StatusOK, cart)
	}
}
