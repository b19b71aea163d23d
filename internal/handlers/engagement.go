package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"outfitstore/internal/middleware"
	"outfitstore/internal/models"
	"outfitstore/internal/services"
)

type CommentRequest struct {
	Text     string `json:"text" binding:"required"`
	Username string `json:"username"`
}

// VoteOutfit handles both /like and /dislike.
func VoteOutfit(svc *services.OutfitService, log logrus.FieldLogger, vote models.Vote) gin.HandlerFunc {
	return func(c *gin.Context) {
		route := "POST /outfits/:id/" + string(vote)
		defer handlePanic(c, log, route)

		id, err := pathID(c, "id", "outfit")
		if err != nil {
			respondError(c, log, route, err)
			return
		}
		ctx, cancel := requestContext(c)
		defer cancel()

		actor := middleware.ActorFrom(c)
		outfit, err := svc.Vote(ctx, actor, id, vote)
		if err != nil {
			respondError(c, log, route, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"likes":    outfit.Likes,
			"dislikes": outfit.Dislikes,
			"vote":     outfit.Votes.Of(actor.UserID),
		})
	}
}

func AddComment(svc *services.OutfitService, log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /outfits/:id/comments"
		defer handlePanic(c, log, route)

		id, err := pathID(c, "id", "outfit")
		if err != nil {
			respondError(c, log, route, err)
			return
		}
		var req CommentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}
		ctx, cancel := requestContext(c)
		defer cancel()

		comment, err := svc.AddComment(ctx, middleware.ActorFrom(c), id, req.Username, req.Text)
		if err != nil {
			respondError(c, log, route, err)
			return
		}
		c.JSON(http.StatusCreated, comment)
	}
}

func DeleteComment(svc *services.OutfitService, log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /outfits/:id/comments/:commentId"
		defer handlePanic(c, log, route)

		id, err := pathID(c, "id", "outfit")
		if err != nil {
			respondError(c, log, route, err)
			return
		}
		ctx, cancel := requestContext(c)
		defer cancel()

		commentID := models.CommentID(c.Param("commentId"))
		if _, err := svc.DeleteComment(ctx, middleware.ActorFrom(c), id, commentID); err != nil {
			respondError(c, log, route, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "comment deleted", "id": commentID})
	}
}

func VoteComment(svc *services.OutfitService, log logrus.FieldLogger, vote models.Vote) gin.HandlerFunc {
	return func(c *gin.Context) {
		route := "POST /outfits/:id/comments/:commentId/" + string(vote)
		defer handlePanic(c, log, route)

		id, err := pathID(c, "id", "outfit")
		if err != nil {
			respondError(c, log, route, err)
			return
		}
		ctx, cancel := requestContext(c)
		defer cancel()

		comment, err := svc.VoteComment(ctx, middleware.ActorFrom(c), id, models.CommentID(c.Param("commentId")), vote)
		if err != nil {
			respondError(c, log, route, err)
			return
		}
		c.JSON(http.StatusOK, comment)
	}
}

func AddReply(svc *services.OutfitService, log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /outfits/:id/comments/:commentId/replies"
		defer handlePanic(c, log, route)

		id, err := pathID(c, "id", "outfit")
		if err != nil {
			respondError(c, log, route, err)
			return
		}
		var req CommentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}
		ctx, cancel := requestContext(c)
		defer cancel()

		reply, err := svc.AddReply(ctx, middleware.ActorFrom(c), id, models.CommentID(c.Param("commentId")), req.Username, req.Text)
		if err != nil {
			respondError(c, log, route, err)
			return
		}
		c.JSON(http.StatusCreated, reply)
	}
}

func DeleteReply(svc *services.OutfitService, log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /outfits/:id/comments/:commentId/replies/:replyId"
		defer handlePanic(c, log, route)

		id, err := pathID(c, "id", "outfit")
		if err != nil {
			respondError(c, log, route, err)
			return
		}
		ctx, cancel := requestContext(c)
		defer cancel()

		replyID := models.ReplyID(c.Param("replyId"))
		_, err = svc.DeleteReply(ctx, middleware.ActorFrom(c), id, models.CommentID(c.Param("commentId")), replyID)
		if err != nil {
			respondError(c, log, route, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "reply deleted", "id": replyID})
	}
}

func VoteReply(svc *services.OutfitService, log logrus.FieldLogger, vote models.Vote) gin.HandlerFunc {
	return func(c *gin.Context) {
		route := "POST /outfits/:id/comments/:commentId/replies/:replyId/" + string(vote)
		defer handlePanic(c, log, route)

		id, err := pathID(c, "id", "outfit")
		if err != nil {
			respondError(c, log, route, err)
			return
		}
		ctx, cancel := requestContext(c)
		defer cancel()

		reply, err := svc.VoteReply(ctx, middleware.ActorFrom(c), id,
			models.CommentID(c.Param("commentId")), models.ReplyID(c.Param("replyId")), vote)
		if err != nil {
			respondError(c, log, route, err)
			return
		}
		c.JSON(http.StatusOK, reply)
	}
}
