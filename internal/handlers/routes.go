package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"

	"outfitstore/internal/middleware"
	"outfitstore/internal/models"
	"outfitstore/internal/services"
)

// Deps is everything the routes need.
type Deps struct {
	DB           *mongo.Database
	Outfits      *services.OutfitService
	Carts        *services.CartService
	Testimonials *services.TestimonialService
	Users        *services.UserService
	Images       ImageSaver
	Tokens       TokenIssuer
	Log          logrus.FieldLogger
}

func RegisterRoutes(r gin.IRouter, d Deps) {
	log := d.Log
	auth := middleware.Authenticate(d.Tokens.Secret, log)
	optional := middleware.OptionalAuth(d.Tokens.Secret)

	r.GET("/health", Health(d.DB, log))

	r.POST("/auth/register", Register(d.Users, d.Tokens, log))
	r.POST("/auth/login", Login(d.Users, d.Tokens, log))

	users := r.Group("/users", auth)
	{
		users.GET("/me", GetMe(d.Users, log))
		users.PUT("/me", UpdateMe(d.Users, log))
		users.PUT("/me/password", ChangePassword(d.Users, log))
	}

	r.GET("/outfits", optional, GetOutfits(d.Outfits, log))
	r.GET("/outfits/trending", GetTrendingOutfits(d.Outfits, log))
	r.GET("/outfits/:id", GetOutfit(d.Outfits, log))

	outfits := r.Group("/outfits/:id", auth)
	{
		outfits.POST("/like", VoteOutfit(d.Outfits, log, models.VoteLike))
		outfits.POST("/dislike", VoteOutfit(d.Outfits, log, models.VoteDislike))

		outfits.POST("/comments", AddComment(d.Outfits, log))
		outfits.DELETE("/comments/:commentId", DeleteComment(d.Outfits, log))
		outfits.POST("/comments/:commentId/like", VoteComment(d.Outfits, log, models.VoteLike))
		outfits.POST("/comments/:commentId/dislike", VoteComment(d.Outfits, log, models.VoteDislike))

		outfits.POST("/comments/:commentId/replies", AddReply(d.Outfits, log))
		outfits.DELETE("/comments/:commentId/replies/:replyId", DeleteReply(d.Outfits, log))
		outfits.POST("/comments/:commentId/replies/:replyId/like", VoteReply(d.Outfits, log, models.VoteLike))
		outfits.POST("/comments/:commentId/replies/:replyId/dislike", VoteReply(d.Outfits, log, models.VoteDislike))
	}

	cart := r.Group("/cart", auth)
	{
		cart.GET("", GetCart(d.Carts, log))
		cart.GET("/summary", GetCartSummary(d.Carts, log))
		cart.GET("/count", GetCartCount(d.Carts, log))
		cart.DELETE("", ClearCart(d.Carts, log))

		cart.POST("/outfits", AddToCart(d.Carts, log))
		cart.PUT("/outfits/:lineId/quantity", UpdateCartQuantity(d.Carts, log))
		cart.PUT("/outfits/:lineId/notes", UpdateCartNotes(d.Carts, log))
		cart.DELETE("/outfits/:lineId", RemoveCartLine(d.Carts, log))
		cart.POST("/outfits/:lineId/save", SaveCartLine(d.Carts, log))

		cart.POST("/saved/:lineId/move", MoveSavedToCart(d.Carts, log))
		cart.DELETE("/saved/:lineId", RemoveSavedLine(d.Carts, log))
	}

	r.GET("/testimonials", GetTestimonials(d.Testimonials, log))
	r.GET("/testimonials/:id", optional, GetTestimonial(d.Testimonials, log))
	r.POST("/testimonials", auth, CreateTestimonial(d.Testimonials, log))
	r.PUT("/testimonials/:id", auth, UpdateTestimonial(d.Testimonials, log))
	r.DELETE("/testimonials/:id", auth, DeleteTestimonial(d.Testimonials, log))
	r.POST("/testimonials/:id/like", auth, LikeTestimonial(d.Testimonials, log))

	admin := r.Group("/admin", auth, middleware.RequireAdmin())
	{
		admin.GET("/outfits", AdminGetOutfits(d.Outfits, log))
		admin.POST("/outfits", CreateOutfit(d.Outfits, log))
		admin.PUT("/outfits/:id", UpdateOutfit(d.Outfits, log))
		admin.DELETE("/outfits/:id", DeleteOutfit(d.Outfits, log))
		admin.PATCH("/outfits/:id/active", SetOutfitActive(d.Outfits, log))

		admin.POST("/uploads", UploadImage(d.Images, log))

		admin.GET("/testimonials", AdminGetTestimonials(d.Testimonials, log))
		admin.PUT("/testimonials/order", ReorderTestimonials(d.Testimonials, log))
		admin.PATCH("/testimonials/:id/approve", ApproveTestimonial(d.Testimonials, log))
		admin.PATCH("/testimonials/:id/feature", FeatureTestimonial(d.Testimonials, log))

		admin.GET("/users", AdminGetUsers(d.Users, log))
		admin.PATCH("/users/:id/admin", SetUserAdmin(d.Users, log))
		admin.DELETE("/users/:id", DeleteUser(d.Users, log))
	}
}
