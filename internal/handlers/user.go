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

type ProfileRequest struct {
	Username       *string `json:"username"`
	Email          *string `json:"email"`
	FullName       *string `json:"fullName"`
	Gender         *string `json:"gender"`
	ProfilePicture *string `json:"profilePicture"`
}

type PasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required"`
}

type AdminFlagRequest struct {
	IsAdmin *bool `json:"isAdmin"`
}

func GetMe(svc *services.UserService, log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /users/me"
		defer handlePanic(c, log, route)
		ctx, cancel := requestContext(c)
		defer cancel()

		user, err := svc.Me(ctx, middleware.ActorFrom(c))
		if err != nil {
			respondError(c, log, route, err)
			return
		}
		c.JSON(http.StatusOK, user)
	}
}

func UpdateMe(svc *services.UserService, log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /users/me"
		defer handlePanic(c, log, route)

		var req ProfileRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}
		actor := middleware.ActorFrom(c)
		id, err := actor.UserID.ObjectID()
		if err != nil {
			respondError(c, log, route, err)
			return
		}
		upd := services.ProfileUpdate{
			Username:       req.Username,
			Email:          req.Email,
			FullName:       req.FullName,
			ProfilePicture: req.ProfilePicture,
		}
		if req.Gender != nil {
			g := models.Gender(strings.TrimSpace(*req.Gender))
			upd.Gender = &g
		}
		ctx, cancel := requestContext(c)
		defer cancel()

		user, err := svc.UpdateProfile(ctx, actor, id, upd)
		if err != nil {
			respondError(c, log, route, err)
			return
		}
		c.JSON(http.StatusOK, user)
	}
}

func ChangePassword(svc *services.UserService, log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /users/me/password"
		defer handlePanic(c, log, route)

		var req PasswordRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}
		ctx, cancel := requestContext(c)
		defer cancel()

		if err := svc.ChangePassword(ctx, middleware.ActorFrom(c), req.CurrentPassword, req.NewPassword); err != nil {
			respondError(c, log, route, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "password updated"})
	}
}

func AdminGetUsers(svc *services.UserService, log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /admin/users"
		defer handlePanic(c, log, route)

		w, err := parseWindow(c)
		if err != nil {
			respondError(c, log, route, err)
			return
		}
		ctx, cancel := requestContext(c)
		defer cancel()

		page, err := svc.List(ctx, middleware.ActorFrom(c), w, strings.TrimSpace(c.Query("search")))
		if err != nil {
			respondError(c, log, route, err)
			return
		}
		c.JSON(http.StatusOK, page)
	}
}

func SetUserAdmin(svc *services.UserService, log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PATCH /admin/users/:id/admin"
		defer handlePanic(c, log, route)

		id, err := pathID(c, "id", "user")
		if err != nil {
			respondError(c, log, route, err)
			return
		}
		var req AdminFlagRequest
		if c.Request.ContentLength > 0 {
			if err := c.ShouldBindJSON(&req); err != nil {
				respondValidationError(c, err)
				return
			}
		}
		ctx, cancel := requestContext(c)
		defer cancel()

		user, err := svc.SetAdmin(ctx, middleware.ActorFrom(c), id, req.IsAdmin)
		if err != nil {
			respondError(c, log, route, err)
			return
		}
		c.JSON(http.StatusOK, user)
	}
}

func DeleteUser(svc *services.UserService, log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /admin/users/:id"
		defer handlePanic(c, log, route)

		id, err := pathID(c, "id", "user")
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
		c.JSON(http.StatusOK, gin.H{"message": "user deleted", "id": id.Hex()})
	}
}
